package enums

import "testing"

func TestParsePhoneStatus(t *testing.T) {
	for _, raw := range []string{"AVAILABLE", "SWAPPED", "SOLD", "UNDER_REPAIR"} {
		status, err := ParsePhoneStatus(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if status.String() != raw {
			t.Fatalf("round trip mismatch: %q != %q", status, raw)
		}
	}
	if _, err := ParsePhoneStatus("available"); err == nil {
		t.Fatal("lowercase phone status must be rejected; the persisted form is uppercase")
	}
}

func TestProfitStatusForAmount(t *testing.T) {
	if got := ProfitStatusForAmount(5000); got != ProfitStatusProfitMade {
		t.Fatalf("positive amount: got %s", got)
	}
	if got := ProfitStatusForAmount(-1); got != ProfitStatusLoss {
		t.Fatalf("negative amount: got %s", got)
	}
	if got := ProfitStatusForAmount(0); got != ProfitStatusPending {
		t.Fatalf("zero amount: got %s", got)
	}
}
