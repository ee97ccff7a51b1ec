package enums

import "fmt"

// PhoneStatus tracks where a handset sits in the sale/swap/repair lifecycle.
// The uppercase string forms are persisted and must stay stable.
type PhoneStatus string

const (
	PhoneStatusAvailable   PhoneStatus = "AVAILABLE"
	PhoneStatusSwapped     PhoneStatus = "SWAPPED"
	PhoneStatusSold        PhoneStatus = "SOLD"
	PhoneStatusUnderRepair PhoneStatus = "UNDER_REPAIR"
)

var validPhoneStatuses = []PhoneStatus{
	PhoneStatusAvailable,
	PhoneStatusSwapped,
	PhoneStatusSold,
	PhoneStatusUnderRepair,
}

// String implements fmt.Stringer.
func (p PhoneStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PhoneStatus.
func (p PhoneStatus) IsValid() bool {
	for _, candidate := range validPhoneStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePhoneStatus converts raw input into a PhoneStatus.
func ParsePhoneStatus(value string) (PhoneStatus, error) {
	for _, candidate := range validPhoneStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid phone status %q", value)
}
