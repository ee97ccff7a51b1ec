package enums

import "fmt"

// ResaleStatus tracks whether a swap's trade-in phone has been disposed of yet.
type ResaleStatus string

const (
	ResaleStatusPending      ResaleStatus = "pending"
	ResaleStatusSold         ResaleStatus = "sold"
	ResaleStatusSwappedAgain ResaleStatus = "swapped_again"
)

var validResaleStatuses = []ResaleStatus{
	ResaleStatusPending,
	ResaleStatusSold,
	ResaleStatusSwappedAgain,
}

// String implements fmt.Stringer.
func (r ResaleStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known ResaleStatus.
func (r ResaleStatus) IsValid() bool {
	for _, candidate := range validResaleStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseResaleStatus converts raw input into a ResaleStatus.
func ParseResaleStatus(value string) (ResaleStatus, error) {
	for _, candidate := range validResaleStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid resale status %q", value)
}
