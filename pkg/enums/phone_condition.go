package enums

import "fmt"

// PhoneCondition describes the physical grade a phone is listed under.
type PhoneCondition string

const (
	PhoneConditionNew         PhoneCondition = "new"
	PhoneConditionUsed        PhoneCondition = "used"
	PhoneConditionRefurbished PhoneCondition = "refurbished"
)

var validPhoneConditions = []PhoneCondition{
	PhoneConditionNew,
	PhoneConditionUsed,
	PhoneConditionRefurbished,
}

// String implements fmt.Stringer.
func (p PhoneCondition) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PhoneCondition.
func (p PhoneCondition) IsValid() bool {
	for _, candidate := range validPhoneConditions {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePhoneCondition converts raw input into a PhoneCondition.
func ParsePhoneCondition(value string) (PhoneCondition, error) {
	for _, candidate := range validPhoneConditions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid phone condition %q", value)
}
