package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type CreateConversationRequest struct {
	Title *string `json:"title" validate:"omitempty,max=200"`
}

type UpdateConversationRequest struct {
	Title        *string `json:"title" validate:"omitempty,max=200"`
	Status       *string `json:"status" validate:"omitempty,oneof=active completed archived"`
	LegalArea    *string `json:"legal_area" validate:"omitempty,oneof=Mietrecht Arbeitsrecht Vertragsrecht Other"`
	CaseStrength *string `json:"case_strength" validate:"omitempty,oneof=strong medium weak"`
	Urgency      *string `json:"urgency" validate:"omitempty,oneof=immediate weeks months"`
}

type ListConversationsQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=active completed archived"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int    `query:"offset" validate:"omitempty,min=0"`
}

type WrapupRequest struct {
	Content string `json:"content" validate:"required"`
}

type ConversationResponse struct {
	Id                uuid.UUID  `json:"id"`
	UserId            uuid.UUID  `json:"user_id"`
	Title             *string    `json:"title"`
	Status            string     `json:"status"`
	LegalArea         *string    `json:"legal_area"`
	CaseStrength      *string    `json:"case_strength"`
	Urgency           *string    `json:"urgency"`
	CurrentAgent      *string    `json:"current_agent"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	WrapupConfirmed   bool       `json:"wrapup_confirmed"`
	WrapupContent     *string    `json:"wrapup_content"`
	WrapupConfirmedAt *time.Time `json:"wrapup_confirmed_at"`
}

type MessageResponse struct {
	Id             uuid.UUID       `json:"id"`
	ConversationId uuid.UUID       `json:"conversation_id"`
	Role           string          `json:"role"`
	Content        string          `json:"content"`
	AgentName      *string         `json:"agent_name"`
	FunctionCall   json.RawMessage `json:"function_call"`
	DocumentIds    []string        `json:"document_ids"`
	CreatedAt      time.Time       `json:"created_at"`
}

type ConversationDetailResponse struct {
	ConversationResponse
	Messages         []MessageResponse `json:"messages"`
	FactsCollected   json.RawMessage   `json:"facts_collected"`
	AnalysisDone     bool              `json:"analysis_done"`
	SummaryGenerated bool              `json:"summary_generated"`
	Who              json.RawMessage   `json:"who"`
	What             json.RawMessage   `json:"what"`
	When             json.RawMessage   `json:"when"`
	Where            json.RawMessage   `json:"where"`
	Why              json.RawMessage   `json:"why"`
}

type DeleteMessagesResponse struct {
	DeletedCount int64 `json:"deleted_count"`
}
