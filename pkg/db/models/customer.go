package models

import "time"

type Customer struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement"`
	PublicID string `gorm:"column:public_id;uniqueIndex;not null"`

	Name        string  `gorm:"column:name;not null"`
	PhoneNumber string  `gorm:"column:phone_number;not null;index"`
	Email       *string `gorm:"column:email"`
	Address     *string `gorm:"column:address"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Customer) TableName() string {
	return "customers"
}
