package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LawyerConnection struct {
	Id               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserId           uuid.UUID  `gorm:"type:uuid;not null;index"`
	ConversationId   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_connection_conversation_lawyer,priority:1"`
	SummaryId        *uuid.UUID `gorm:"type:uuid"`
	LawyerId         int        `gorm:"not null;index;uniqueIndex:idx_connection_conversation_lawyer,priority:2"`
	LawyerName       *string    `gorm:"type:varchar(200)"`
	UserMessage      *string    `gorm:"type:text"`
	RejectionReason  *string    `gorm:"type:text"`
	Status           string     `gorm:"type:varchar(50);not null;default:'pending';index"`
	StatusChangedAt  *time.Time
	CaseId           *string `gorm:"type:varchar(100);index"`
	LawyerResponseAt *time.Time
	CreatedAt        time.Time    `gorm:"autoCreateTime"`
	UpdatedAt        time.Time    `gorm:"autoUpdateTime"`
	Conversation     Conversation `gorm:"foreignKey:ConversationId;constraint:OnDelete:CASCADE"`
}

func (LawyerConnection) TableName() string {
	return "lawyer_connections"
}

func (l *LawyerConnection) BeforeCreate(tx *gorm.DB) error {
	ensureID(&l.Id)
	return nil
}
