package models

import (
	"time"

	"github.com/gyamfidev/phoneshop-backend/pkg/enums"
)

// PendingResale mirrors each swap or direct sale into a flat reporting row.
// The unique swap_id / sale_id columns make the mirroring idempotent: writing
// the same source transaction twice is a no-op.
type PendingResale struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement"`
	PublicID string `gorm:"column:public_id;uniqueIndex;not null"`

	TransactionType enums.TransactionType `gorm:"column:transaction_type;not null"`
	SwapID          *int64                `gorm:"column:swap_id;uniqueIndex"`
	SaleID          *int64                `gorm:"column:sale_id;uniqueIndex"`

	CustomerID int64 `gorm:"column:customer_id;not null;index"`
	StaffID    int64 `gorm:"column:staff_id;not null"`

	OutgoingPhoneID         int64             `gorm:"column:outgoing_phone_id;not null"`
	OutgoingPhoneValueCents int64             `gorm:"column:outgoing_phone_value_cents;not null"`
	OutgoingPhoneStatus     enums.PhoneStatus `gorm:"column:outgoing_phone_status;not null"`

	IncomingPhoneID         *int64             `gorm:"column:incoming_phone_id"`
	IncomingPhoneValueCents *int64             `gorm:"column:incoming_phone_value_cents"`
	IncomingPhoneStatus     *enums.PhoneStatus `gorm:"column:incoming_phone_status"`

	BalancePaidCents int64 `gorm:"column:balance_paid_cents;not null"`
	DiscountCents    int64 `gorm:"column:discount_cents;not null"`
	FinalPriceCents  int64 `gorm:"column:final_price_cents;not null"`

	ProfitStatus      enums.ProfitStatus `gorm:"column:profit_status;not null"`
	ProfitAmountCents *int64             `gorm:"column:profit_amount_cents"`
	ResaleValueCents  *int64             `gorm:"column:resale_value_cents"`

	TransactionDate time.Time `gorm:"column:transaction_date;not null;index"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (PendingResale) TableName() string {
	return "pending_resales"
}
