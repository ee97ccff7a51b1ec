package models

import (
	"time"

	"github.com/gyamfidev/phoneshop-backend/pkg/enums"
)

// PhoneOwnershipHistory is the append-only trail of who held a phone and why.
// Rows are never updated or deleted.
type PhoneOwnershipHistory struct {
	ID      int64 `gorm:"column:id;primaryKey;autoIncrement"`
	PhoneID int64 `gorm:"column:phone_id;not null;index"`

	OwnerType enums.OwnerType       `gorm:"column:owner_type;not null"`
	OwnerID   *int64                `gorm:"column:owner_id"`
	Reason    enums.OwnershipReason `gorm:"column:reason;not null"`

	TransactionType *enums.TransactionType `gorm:"column:transaction_type"`
	TransactionID   *int64                 `gorm:"column:transaction_id"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (PhoneOwnershipHistory) TableName() string {
	return "phone_ownership_history"
}
