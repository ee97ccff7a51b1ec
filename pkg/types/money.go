package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// All persisted amounts are integer cents. Decimal conversion happens only at
// the display edge (invoice snapshots, ledger summaries).

// CentsToDecimal converts an integer cent amount to a two-place decimal.
func CentsToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// DecimalToCents converts a decimal amount back to integer cents. Amounts with
// sub-cent precision are rejected rather than silently rounded.
func DecimalToCents(d decimal.Decimal) (int64, error) {
	scaled := d.Shift(2)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("amount %s has sub-cent precision", d)
	}
	return scaled.IntPart(), nil
}

// FormatCents renders a cent amount as a plain decimal string, e.g. 60000 -> "600.00".
func FormatCents(cents int64) string {
	return CentsToDecimal(cents).StringFixed(2)
}
