package entity

import (
	"time"

	"github.com/google/uuid"
)

type UploadStatus string
type OcrStatus string

const (
	UploadStatusUploading UploadStatus = "uploading"
	UploadStatusCompleted UploadStatus = "completed"
	UploadStatusFailed    UploadStatus = "failed"

	OcrStatusPending    OcrStatus = "pending"
	OcrStatusProcessing OcrStatus = "processing"
	OcrStatusCompleted  OcrStatus = "completed"
	OcrStatusFailed     OcrStatus = "failed"
)

type Document struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	UserId         uuid.UUID
	Filename       string
	FileType       string
	FileSize       int64
	S3Key          string
	S3Url          string
	UploadStatus   UploadStatus
	OcrStatus      OcrStatus
	OcrText        *string
	CreatedAt      time.Time
	DeletedAt      *time.Time
}

type Summary struct {
	Id              uuid.UUID
	ConversationId  uuid.UUID
	UserId          uuid.UUID
	MarkdownContent string
	ReferenceNumber string
	MarkdownS3Key   *string
	PdfS3Key        string
	PdfUrl          string
	LegalArea       LegalArea
	CaseStrength    CaseStrength
	Urgency         Urgency
	CreatedAt       time.Time
	DeletedAt       *time.Time
}
