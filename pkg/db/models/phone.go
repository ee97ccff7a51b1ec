package models

import (
	"time"

	"github.com/gyamfidev/phoneshop-backend/pkg/enums"
)

// Phone is a unit of stock tracked through its full lifecycle, whether it
// entered the shop as purchased inventory or as a customer trade-in.
type Phone struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement"`
	PublicID string `gorm:"column:public_id;uniqueIndex;not null"`

	Brand     string               `gorm:"column:brand;not null"`
	Model     string               `gorm:"column:model;not null"`
	IMEI      *string              `gorm:"column:imei;uniqueIndex"`
	Category  *string              `gorm:"column:category"`
	Condition enums.PhoneCondition `gorm:"column:condition;not null"`
	Status    enums.PhoneStatus    `gorm:"column:status;not null"`

	CostPriceCents int64  `gorm:"column:cost_price_cents;not null"`
	ValueCents     *int64 `gorm:"column:value_cents"`

	IsAvailable bool `gorm:"column:is_available;not null"`
	IsSwappable bool `gorm:"column:is_swappable;not null"`

	CurrentOwnerType enums.OwnerType `gorm:"column:current_owner_type;not null"`
	CurrentOwnerID   *int64          `gorm:"column:current_owner_id"`

	// SwappedFromID links a trade-in phone back to the swap that brought it in.
	SwappedFromID *int64 `gorm:"column:swapped_from_id"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Phone) TableName() string {
	return "phones"
}
