package sql

import (
	"errors"
	"testing"
)

func TestValidateAndNormalizeStripsTrailingSemicolon(t *testing.T) {
	got := ValidateAndNormalize("SELECT 1;")
	if got.Error != nil {
		t.Fatalf("unexpected error: %v", got.Error)
	}
	if got.NormalizedSQL != "SELECT 1" {
		t.Errorf("NormalizedSQL = %q", got.NormalizedSQL)
	}
}

func TestValidateAndNormalizeRejectsMultipleStatements(t *testing.T) {
	got := ValidateAndNormalize("SELECT 1; DROP TABLE users")
	if !errors.Is(got.Error, ErrMultipleStatements) {
		t.Errorf("Error = %v, want ErrMultipleStatements", got.Error)
	}
}

func TestValidateAndNormalizeIgnoresSemicolonsInLiterals(t *testing.T) {
	got := ValidateAndNormalize("SELECT * FROM v WHERE note = 'a;b'")
	if got.Error != nil {
		t.Errorf("unexpected error: %v", got.Error)
	}
}

func TestValidateAndNormalizeEmptyInput(t *testing.T) {
	got := ValidateAndNormalize("  ")
	if got.Error != nil || got.NormalizedSQL != "" {
		t.Errorf("got %+v", got)
	}
}
