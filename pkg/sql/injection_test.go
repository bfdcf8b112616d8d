package sql

import "testing"

func TestCheckHintCleanStatements(t *testing.T) {
	hints := []string{
		"SELECT user_type, COUNT(*) FROM v GROUP BY user_type",
		"SELECT * FROM v WHERE cohort_month BETWEEN '2025-01-01' AND '2025-03-31'",
		"SELECT * FROM v WHERE user_type = 'Подписчик'",
		"",
	}
	for _, hint := range hints {
		if got := CheckHint(hint); got != nil {
			t.Errorf("CheckHint(%q) = %+v, want nil", hint, got)
		}
	}
}

func TestCheckHintDetectsInjectionInLiteral(t *testing.T) {
	hint := "SELECT * FROM v WHERE name = '1'' OR ''1''=''1'"
	got := CheckHint(hint)
	if got == nil {
		t.Fatal("expected detection")
	}
	if !got.IsSQLi {
		t.Error("IsSQLi = false")
	}
	if got.Fingerprint == "" {
		t.Error("empty fingerprint")
	}
}

func TestStringLiterals(t *testing.T) {
	got := stringLiterals("SELECT 'a', 'b''c' FROM v WHERE x = 'd'")
	want := []string{"a", "b'c", "d"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("literal %d = %q, want %q", i, got[i], want[i])
		}
	}
}
