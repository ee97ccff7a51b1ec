package swaps

import (
	"github.com/gyamfidev/phoneshop-backend/pkg/db/models"
	"github.com/gyamfidev/phoneshop-backend/pkg/enums"
)

// RecordDirectSaleInput is a cash sale of an in-stock phone.
type RecordDirectSaleInput struct {
	CustomerID         int64   `json:"customer_id" validate:"required,gt=0"`
	PhoneID            int64   `json:"phone_id" validate:"required,gt=0"`
	OriginalPriceCents int64   `json:"original_price_cents" validate:"gte=0"`
	DiscountCents      int64   `json:"discount_cents" validate:"gte=0"`
	StaffID            int64   `json:"-"`
	ContactPhone       *string `json:"contact_phone,omitempty"`
	ContactEmail       *string `json:"contact_email,omitempty" validate:"omitempty,email"`
}

// RecordSwapInput is a trade-in plus cash for an in-stock phone.
type RecordSwapInput struct {
	CustomerID            int64   `json:"customer_id" validate:"required,gt=0"`
	GivenPhoneDescription string  `json:"given_phone_description" validate:"required"`
	GivenPhoneValueCents  int64   `json:"given_phone_value_cents" validate:"gte=0"`
	GivenPhoneIMEI        *string `json:"given_phone_imei,omitempty"`
	NewPhoneID            int64   `json:"new_phone_id" validate:"required,gt=0"`
	BalancePaidCents      int64   `json:"balance_paid_cents" validate:"gte=0"`
	DiscountCents         int64   `json:"discount_cents" validate:"gte=0"`
	StaffID               int64   `json:"-"`
}

// SaleResult bundles everything a direct sale produced.
type SaleResult struct {
	Sale    *models.Sale
	Phone   *models.Phone
	Invoice *models.Invoice
}

// SwapResult bundles everything a swap produced.
type SwapResult struct {
	Swap    *models.Swap
	Phone   *models.Phone
	TradeIn *models.Phone
	Invoice *models.Invoice
}

type ListSwapsFilter struct {
	CustomerID   *int64
	ResaleStatus *enums.ResaleStatus
	Limit        int
	Cursor       string
}

type ListSalesFilter struct {
	CustomerID *int64
	Limit      int
	Cursor     string
}
