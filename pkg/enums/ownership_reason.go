package enums

import "fmt"

// OwnershipReason records why a phone changed hands or changed status.
type OwnershipReason string

const (
	OwnershipReasonRegistered      OwnershipReason = "registered"
	OwnershipReasonSale            OwnershipReason = "sale"
	OwnershipReasonSwap            OwnershipReason = "swap"
	OwnershipReasonTradeIn         OwnershipReason = "trade_in"
	OwnershipReasonRepair          OwnershipReason = "repair"
	OwnershipReasonRepairCompleted OwnershipReason = "repair_completed"
	OwnershipReasonResaleReturn    OwnershipReason = "resale_return"
)

var validOwnershipReasons = []OwnershipReason{
	OwnershipReasonRegistered,
	OwnershipReasonSale,
	OwnershipReasonSwap,
	OwnershipReasonTradeIn,
	OwnershipReasonRepair,
	OwnershipReasonRepairCompleted,
	OwnershipReasonResaleReturn,
}

// String implements fmt.Stringer.
func (o OwnershipReason) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OwnershipReason.
func (o OwnershipReason) IsValid() bool {
	for _, candidate := range validOwnershipReasons {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOwnershipReason converts raw input into an OwnershipReason.
func ParseOwnershipReason(value string) (OwnershipReason, error) {
	for _, candidate := range validOwnershipReasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ownership reason %q", value)
}
