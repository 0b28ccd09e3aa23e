package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationNewMessage     NotificationType = "new_message"
	NotificationSummaryReady   NotificationType = "summary_ready"
	NotificationLawyerResponse NotificationType = "lawyer_response"
	NotificationLawyerAssigned NotificationType = "lawyer_assigned"
	NotificationCaseUpdated    NotificationType = "case_updated"
)

type Notification struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	Type       NotificationType
	Title      string
	Message    string
	Data       json.RawMessage
	Read       bool
	ReadAt     *time.Time
	CreatedAt  time.Time
	ActionedAt *time.Time
	DeletedAt  *time.Time
}
