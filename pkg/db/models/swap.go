package models

import (
	"time"

	"github.com/gyamfidev/phoneshop-backend/pkg/enums"
)

// Swap records a customer handing in a phone plus cash for a shop phone. The
// given phone's resale lifecycle is carried on the row so the profit outcome
// can be settled when the trade-in is eventually moved on.
type Swap struct {
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`

	CustomerID int64 `gorm:"column:customer_id;not null;index"`
	NewPhoneID int64 `gorm:"column:new_phone_id;not null;index"`

	GivenPhoneDescription string  `gorm:"column:given_phone_description;not null"`
	GivenPhoneValueCents  int64   `gorm:"column:given_phone_value_cents;not null"`
	GivenPhoneIMEI        *string `gorm:"column:given_phone_imei"`
	GivenPhoneID          *int64  `gorm:"column:given_phone_id"`

	BalancePaidCents int64 `gorm:"column:balance_paid_cents;not null"`
	DiscountCents    int64 `gorm:"column:discount_cents;not null"`
	FinalPriceCents  int64 `gorm:"column:final_price_cents;not null"`

	ResaleStatus      enums.ResaleStatus `gorm:"column:resale_status;not null"`
	ResaleValueCents  *int64             `gorm:"column:resale_value_cents"`
	ProfitOrLossCents *int64             `gorm:"column:profit_or_loss_cents"`
	LinkedToResaleID  *int64             `gorm:"column:linked_to_resale_id"`

	InvoiceNumber *string `gorm:"column:invoice_number"`
	CreatedByID   int64   `gorm:"column:created_by_id;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Swap) TableName() string {
	return "swaps"
}
