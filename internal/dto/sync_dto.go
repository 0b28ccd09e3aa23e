package dto

import (
	"time"

	"github.com/google/uuid"
)

type SyncRequest struct {
	LastSyncedAt *time.Time `json:"last_synced_at"`
}

type DeletedIds struct {
	Conversations []uuid.UUID `json:"conversations"`
	Messages      []uuid.UUID `json:"messages"`
	Documents     []uuid.UUID `json:"documents"`
	Summaries     []uuid.UUID `json:"summaries"`
	Notifications []uuid.UUID `json:"notifications"`
}

type SyncResponse struct {
	Conversations     []ConversationResponse     `json:"conversations"`
	Messages          []MessageResponse          `json:"messages"`
	Documents         []DocumentResponse         `json:"documents"`
	Summaries         []SummaryResponse          `json:"summaries"`
	Notifications     []NotificationResponse     `json:"notifications"`
	LawyerConnections []LawyerConnectionResponse `json:"lawyer_connections"`
	DeletedIds        DeletedIds                 `json:"deleted_ids"`
	ServerTime        time.Time                  `json:"server_time"`
	IsFullSync        bool                       `json:"is_full_sync"`
}
