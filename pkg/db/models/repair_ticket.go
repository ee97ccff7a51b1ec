package models

import "time"

// RepairTicket tracks a phone while it is out for repair. TrackingCode is
// random per ticket; the unique index is what guarantees no two tickets share
// a code.
type RepairTicket struct {
	ID           int64  `gorm:"column:id;primaryKey;autoIncrement"`
	PublicID     string `gorm:"column:public_id;uniqueIndex;not null"`
	TrackingCode string `gorm:"column:tracking_code;uniqueIndex;not null"`

	PhoneID    int64  `gorm:"column:phone_id;not null;index"`
	CustomerID *int64 `gorm:"column:customer_id"`
	Issue      string `gorm:"column:issue;not null"`

	ReturnedAt *time.Time `gorm:"column:returned_at"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (RepairTicket) TableName() string {
	return "repair_tickets"
}
