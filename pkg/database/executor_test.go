package database

import (
	"testing"
	"time"

	"github.com/atlantix-inc/insight-engine/pkg/models"
)

func TestColumnKindFromOID(t *testing.T) {
	tests := []struct {
		oid  uint32
		want models.ColumnKind
	}{
		{20, models.ColumnNumeric},   // int8
		{23, models.ColumnNumeric},   // int4
		{701, models.ColumnNumeric},  // float8
		{1700, models.ColumnNumeric}, // numeric
		{1082, models.ColumnTemporal}, // date
		{1114, models.ColumnTemporal}, // timestamp
		{1184, models.ColumnTemporal}, // timestamptz
		{25, models.ColumnCategorical}, // text
		{16, models.ColumnCategorical}, // bool
	}
	for _, tt := range tests {
		if got := columnKindFromOID(tt.oid); got != tt.want {
			t.Errorf("columnKindFromOID(%d) = %s, want %s", tt.oid, got, tt.want)
		}
	}
}

func TestNormalizeValue(t *testing.T) {
	ts := time.Date(2025, 3, 1, 15, 30, 0, 0, time.FixedZone("MSK", 3*3600))
	got := normalizeValue(ts)
	if got != "2025-03-01T12:30:00Z" {
		t.Errorf("got %v, want UTC RFC3339 string", got)
	}

	if got := normalizeValue(int64(42)); got != int64(42) {
		t.Errorf("got %v, want 42 untouched", got)
	}
	if got := normalizeValue("text"); got != "text" {
		t.Errorf("got %v, want text untouched", got)
	}
	if got := normalizeValue(nil); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}
