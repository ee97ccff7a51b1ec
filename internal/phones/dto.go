package phones

import "github.com/gyamfidev/phoneshop-backend/pkg/enums"

// RegisterPhoneInput carries validated input for stocking a purchased phone.
type RegisterPhoneInput struct {
	Brand          string               `json:"brand" validate:"required,min=1,max=80"`
	Model          string               `json:"model" validate:"required,min=1,max=120"`
	IMEI           *string              `json:"imei,omitempty" validate:"omitempty,min=8,max=20"`
	Category       *string              `json:"category,omitempty" validate:"omitempty,max=80"`
	Condition      enums.PhoneCondition `json:"condition" validate:"required"`
	CostPriceCents *int64               `json:"cost_price_cents" validate:"required,gte=0"`
	ValueCents     *int64               `json:"value_cents,omitempty" validate:"omitempty,gte=0"`
	IsSwappable    bool                 `json:"is_swappable"`
}

// RegisterTradeInInput creates the inventory row for a phone surrendered in a
// swap. The accepted value becomes the phone's cost price.
type RegisterTradeInInput struct {
	Description        string  `json:"description" validate:"required,min=1,max=200"`
	IMEI               *string `json:"imei,omitempty" validate:"omitempty,min=8,max=20"`
	AcceptedValueCents int64   `json:"accepted_value_cents" validate:"gte=0"`
}

// ListPhonesFilter narrows phone listings.
type ListPhonesFilter struct {
	Status        *enums.PhoneStatus
	Brand         string
	OnlySwappable bool
	Limit         int
	Cursor        string
}

// MarkUnderRepairInput opens a repair ticket for an available phone.
type MarkUnderRepairInput struct {
	PhoneID    int64  `json:"phone_id" validate:"required,gt=0"`
	Issue      string `json:"issue" validate:"required,min=1,max=500"`
	CustomerID *int64 `json:"customer_id,omitempty"`
}
