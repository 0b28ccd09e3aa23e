package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Document struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ConversationId uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserId         uuid.UUID      `gorm:"type:uuid;not null;index"`
	Filename       string         `gorm:"type:varchar(500);not null"`
	FileType       string         `gorm:"type:varchar(100);not null"`
	FileSize       int64          `gorm:"not null"`
	S3Key          string         `gorm:"column:s3_key;type:varchar(1000);not null;uniqueIndex"`
	S3Url          string         `gorm:"column:s3_url;type:varchar(2000);not null"`
	UploadStatus   string         `gorm:"type:varchar(20);not null;default:'uploading';index"`
	OcrStatus      string         `gorm:"type:varchar(20);not null;default:'pending';index"`
	OcrText        *string        `gorm:"type:text"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
	Conversation   Conversation   `gorm:"foreignKey:ConversationId;constraint:OnDelete:CASCADE"`
	User           User           `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
}

func (Document) TableName() string {
	return "documents"
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	ensureID(&d.Id)
	return nil
}
