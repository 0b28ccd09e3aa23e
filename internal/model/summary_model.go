package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Summary struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ConversationId  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"`
	UserId          uuid.UUID      `gorm:"type:uuid;not null;index"`
	MarkdownContent string         `gorm:"type:text;not null"`
	ReferenceNumber string         `gorm:"type:varchar(50);index"`
	MarkdownS3Key   *string        `gorm:"column:markdown_s3_key;type:varchar(500)"`
	PdfS3Key        string         `gorm:"column:pdf_s3_key;type:varchar(500);not null"`
	PdfUrl          string         `gorm:"type:varchar(2000);not null"`
	LegalArea       string         `gorm:"type:varchar(50);not null"`
	CaseStrength    string         `gorm:"type:varchar(20);not null"`
	Urgency         string         `gorm:"type:varchar(20);not null"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
	Conversation    Conversation   `gorm:"foreignKey:ConversationId;constraint:OnDelete:CASCADE"`
}

func (Summary) TableName() string {
	return "summaries"
}

func (s *Summary) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.Id)
	return nil
}
