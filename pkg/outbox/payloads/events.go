package payloads

import (
	"time"

	"github.com/gyamfidev/phoneshop-backend/pkg/enums"
)

// SaleRecordedEvent is emitted when a direct sale transaction commits.
type SaleRecordedEvent struct {
	SaleID          int64   `json:"sale_id"`
	CustomerID      int64   `json:"customer_id"`
	PhoneID         int64   `json:"phone_id"`
	AmountPaidCents int64   `json:"amount_paid_cents"`
	DiscountCents   int64   `json:"discount_cents"`
	InvoiceNumber   string  `json:"invoice_number"`
	ContactPhone    *string `json:"contact_phone,omitempty"`
	ContactEmail    *string `json:"contact_email,omitempty"`
}

// SwapRecordedEvent is emitted when a swap transaction commits.
type SwapRecordedEvent struct {
	SwapID                int64  `json:"swap_id"`
	CustomerID            int64  `json:"customer_id"`
	NewPhoneID            int64  `json:"new_phone_id"`
	GivenPhoneID          *int64 `json:"given_phone_id,omitempty"`
	GivenPhoneValueCents  int64  `json:"given_phone_value_cents"`
	BalancePaidCents      int64  `json:"balance_paid_cents"`
	FinalPriceCents       int64  `json:"final_price_cents"`
	InvoiceNumber         string `json:"invoice_number"`
	GivenPhoneDescription string `json:"given_phone_description"`
}

// ResaleChainClosedEvent reports the settled profit outcome of a swap chain.
type ResaleChainClosedEvent struct {
	SwapID            int64              `json:"swap_id"`
	ResaleTransaction int64              `json:"resale_transaction_id"`
	ResaleStatus      enums.ResaleStatus `json:"resale_status"`
	ResaleValueCents  int64              `json:"resale_value_cents"`
	ProfitOrLossCents int64              `json:"profit_or_loss_cents"`
	ProfitStatus      enums.ProfitStatus `json:"profit_status"`
	ClosedAt          time.Time          `json:"closed_at"`
}

// PhoneStatusChangedEvent tracks phone lifecycle transitions.
type PhoneStatusChangedEvent struct {
	PhoneID    int64             `json:"phone_id"`
	PublicID   string            `json:"public_id"`
	FromStatus enums.PhoneStatus `json:"from_status"`
	ToStatus   enums.PhoneStatus `json:"to_status"`
	ChangedAt  time.Time         `json:"changed_at"`
}
