package models

import "time"

// Sale records a direct cash sale of a shop phone.
type Sale struct {
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`

	CustomerID int64 `gorm:"column:customer_id;not null;index"`
	PhoneID    int64 `gorm:"column:phone_id;not null;index"`

	OriginalPriceCents int64 `gorm:"column:original_price_cents;not null"`
	DiscountCents      int64 `gorm:"column:discount_cents;not null"`
	AmountPaidCents    int64 `gorm:"column:amount_paid_cents;not null"`

	ContactPhone *string `gorm:"column:contact_phone"`
	ContactEmail *string `gorm:"column:contact_email"`
	ReceiptSent  bool    `gorm:"column:receipt_sent;not null;default:false"`

	InvoiceNumber *string `gorm:"column:invoice_number"`
	CreatedByID   int64   `gorm:"column:created_by_id;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Sale) TableName() string {
	return "sales"
}
