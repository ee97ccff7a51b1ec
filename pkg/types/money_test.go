package types

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatCents(t *testing.T) {
	if got := FormatCents(60000); got != "600.00" {
		t.Fatalf("unexpected format: %s", got)
	}
	if got := FormatCents(-10050); got != "-100.50" {
		t.Fatalf("unexpected negative format: %s", got)
	}
}

func TestDecimalToCentsRejectsSubCent(t *testing.T) {
	ok := decimal.RequireFromString("249.99")
	cents, err := DecimalToCents(ok)
	if err != nil || cents != 24999 {
		t.Fatalf("expected 24999, got %d (%v)", cents, err)
	}

	bad := decimal.RequireFromString("0.001")
	if _, err := DecimalToCents(bad); err == nil {
		t.Fatal("sub-cent amount must be rejected")
	}
}
