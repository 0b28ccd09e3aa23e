package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type LawyerSearchQuery struct {
	Language  string   `query:"language" validate:"required"`
	LegalArea string   `query:"legal_area"`
	Lat       *float64 `query:"lat"`
	Lng       *float64 `query:"lng"`
	Radius    float64  `query:"radius" validate:"omitempty,min=1,max=100"`
}

type ConnectRequest struct {
	ConversationId uuid.UUID `json:"conversation_id" validate:"required"`
	LawyerId       int       `json:"lawyer_id" validate:"required,min=1"`
	UserMessage    *string   `json:"user_message" validate:"omitempty,max=1000"`
}

type LawyerConnectionResponse struct {
	Id               uuid.UUID  `json:"id"`
	UserId           uuid.UUID  `json:"user_id"`
	ConversationId   uuid.UUID  `json:"conversation_id"`
	SummaryId        *uuid.UUID `json:"summary_id"`
	LawyerId         int        `json:"lawyer_id"`
	LawyerName       *string    `json:"lawyer_name"`
	UserMessage      *string    `json:"user_message"`
	RejectionReason  *string    `json:"rejection_reason"`
	Status           string     `json:"status"`
	StatusChangedAt  *time.Time `json:"status_changed_at"`
	CaseId           *string    `json:"case_id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	LawyerResponseAt *time.Time `json:"lawyer_response_at"`
}

type LawyerConnectionListResponse struct {
	Connections []LawyerConnectionResponse `json:"connections"`
	Total       int                        `json:"total"`
}

// CaseID accepts the lawyer platform's case id as a JSON string or number.
type CaseID string

func (c *CaseID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = CaseID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return err
	}
	*c = CaseID(n.String())
	return nil
}

type LawyerResponseWebhookRequest struct {
	CaseId            CaseID    `json:"case_id" validate:"required"`
	ConversationId    uuid.UUID `json:"conversation_id" validate:"required"`
	UserId            uuid.UUID `json:"user_id" validate:"required"`
	LawyerId          int       `json:"lawyer_id" validate:"required"`
	LawyerName        string    `json:"lawyer_name" validate:"required"`
	ResponseText      string    `json:"response_text" validate:"required"`
	ResponseTimestamp time.Time `json:"response_timestamp" validate:"required"`
}

type LawyerResponseWebhookResponse struct {
	Status         string     `json:"status"`
	Message        string     `json:"message"`
	NotificationId *uuid.UUID `json:"notification_id"`
	EmailSent      bool       `json:"email_sent"`
}

type ConnectionStatusWebhookRequest struct {
	CaseId          CaseID  `json:"case_id" validate:"required"`
	Status          string  `json:"status" validate:"required,oneof=accepted rejected"`
	RejectionReason *string `json:"rejection_reason" validate:"omitempty,max=1000"`
}
