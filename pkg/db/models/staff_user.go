package models

import (
	"time"

	"github.com/gyamfidev/phoneshop-backend/pkg/enums"
)

type StaffUser struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement"`
	PublicID string `gorm:"column:public_id;uniqueIndex;not null"`

	Name         string          `gorm:"column:name;not null"`
	Username     string          `gorm:"column:username;uniqueIndex;not null"`
	PasswordHash string          `gorm:"column:password_hash;not null"`
	Role         enums.StaffRole `gorm:"column:role;not null"`
	Active       bool            `gorm:"column:active;not null;default:true"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (StaffUser) TableName() string {
	return "staff_users"
}
