package enums

import "fmt"

// ProfitStatus classifies the realized outcome of a ledger row.
type ProfitStatus string

const (
	ProfitStatusPending    ProfitStatus = "pending"
	ProfitStatusProfitMade ProfitStatus = "profit_made"
	ProfitStatusLoss       ProfitStatus = "loss"
)

var validProfitStatuses = []ProfitStatus{
	ProfitStatusPending,
	ProfitStatusProfitMade,
	ProfitStatusLoss,
}

// ProfitStatusForAmount derives the status from a signed profit amount in cents.
func ProfitStatusForAmount(amountCents int64) ProfitStatus {
	switch {
	case amountCents > 0:
		return ProfitStatusProfitMade
	case amountCents < 0:
		return ProfitStatusLoss
	default:
		return ProfitStatusPending
	}
}

// String implements fmt.Stringer.
func (p ProfitStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProfitStatus.
func (p ProfitStatus) IsValid() bool {
	for _, candidate := range validProfitStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProfitStatus converts raw input into a ProfitStatus.
func ParseProfitStatus(value string) (ProfitStatus, error) {
	for _, candidate := range validProfitStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid profit status %q", value)
}
