package dto

import (
	"time"

	"github.com/google/uuid"
)

type DocumentResponse struct {
	Id             uuid.UUID `json:"id"`
	ConversationId uuid.UUID `json:"conversation_id"`
	UserId         uuid.UUID `json:"user_id"`
	Filename       string    `json:"filename"`
	FileType       string    `json:"file_type"`
	FileSize       int64     `json:"file_size"`
	S3Key          string    `json:"s3_key"`
	S3Url          string    `json:"s3_url"`
	UploadStatus   string    `json:"upload_status"`
	OcrStatus      string    `json:"ocr_status"`
	OcrText        *string   `json:"ocr_text"`
	CreatedAt      time.Time `json:"created_at"`
}

type DocumentListResponse struct {
	Documents []DocumentResponse `json:"documents"`
	Total     int                `json:"total"`
}

type SummaryCreateRequest struct {
	ConversationId uuid.UUID `json:"conversation_id" validate:"required"`
}

type SummaryResponse struct {
	Id              uuid.UUID `json:"id"`
	ConversationId  uuid.UUID `json:"conversation_id"`
	UserId          uuid.UUID `json:"user_id"`
	ReferenceNumber string    `json:"reference_number"`
	MarkdownContent string    `json:"markdown_content"`
	MarkdownS3Key   *string   `json:"markdown_s3_key"`
	PdfS3Key        string    `json:"pdf_s3_key"`
	PdfUrl          string    `json:"pdf_url"`
	LegalArea       string    `json:"legal_area"`
	CaseStrength    string    `json:"case_strength"`
	Urgency         string    `json:"urgency"`
	CreatedAt       time.Time `json:"created_at"`
}

type SummaryPdfResponse struct {
	PdfUrl    string `json:"pdf_url"`
	ExpiresIn int    `json:"expires_in"`
}
