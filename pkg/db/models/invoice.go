package models

import (
	"time"

	"github.com/gyamfidev/phoneshop-backend/pkg/enums"
)

// Invoice is an immutable snapshot of a transaction at issue time. The
// transaction_type + transaction_id pair is unique so each transaction gets
// exactly one invoice.
type Invoice struct {
	ID            int64  `gorm:"column:id;primaryKey;autoIncrement"`
	InvoiceNumber string `gorm:"column:invoice_number;uniqueIndex;not null"`

	TransactionType enums.TransactionType `gorm:"column:transaction_type;not null;uniqueIndex:idx_invoices_transaction"`
	TransactionID   int64                 `gorm:"column:transaction_id;not null;uniqueIndex:idx_invoices_transaction"`

	CustomerName  string `gorm:"column:customer_name;not null"`
	CustomerPhone string `gorm:"column:customer_phone;not null"`
	StaffName     string `gorm:"column:staff_name;not null"`

	ItemDescription string `gorm:"column:item_description;not null"`

	SubtotalCents int64 `gorm:"column:subtotal_cents;not null"`
	DiscountCents int64 `gorm:"column:discount_cents;not null"`
	TotalCents    int64 `gorm:"column:total_cents;not null"`

	IssuedAt  time.Time `gorm:"column:issued_at;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Invoice) TableName() string {
	return "invoices"
}
