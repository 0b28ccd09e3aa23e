package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Notification struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserId     uuid.UUID      `gorm:"type:uuid;not null;index:idx_notifications_user_read,priority:1"`
	Type       string         `gorm:"type:varchar(50);not null;index"`
	Title      string         `gorm:"type:varchar(200);not null"`
	Message    string         `gorm:"type:text;not null"`
	Data       datatypes.JSON `gorm:"column:data"`
	Read       bool           `gorm:"not null;default:false;index:idx_notifications_user_read,priority:2"`
	ReadAt     *time.Time
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
	ActionedAt *time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
	User       User           `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	ensureID(&n.Id)
	return nil
}
