package entity

import (
	"time"

	"github.com/google/uuid"
)

type ConnectionStatus string

const (
	ConnectionStatusPending   ConnectionStatus = "pending"
	ConnectionStatusAccepted  ConnectionStatus = "accepted"
	ConnectionStatusRejected  ConnectionStatus = "rejected"
	ConnectionStatusCancelled ConnectionStatus = "cancelled"
)

func (s ConnectionStatus) Valid() bool {
	switch s {
	case ConnectionStatusPending, ConnectionStatusAccepted, ConnectionStatusRejected, ConnectionStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether s may move to next. Only pending has exits.
func (s ConnectionStatus) CanTransitionTo(next ConnectionStatus) bool {
	if s != ConnectionStatusPending {
		return false
	}
	switch next {
	case ConnectionStatusAccepted, ConnectionStatusRejected, ConnectionStatusCancelled:
		return true
	}
	return false
}

type LawyerConnection struct {
	Id               uuid.UUID
	UserId           uuid.UUID
	ConversationId   uuid.UUID
	SummaryId        *uuid.UUID
	LawyerId         int
	LawyerName       *string
	UserMessage      *string
	RejectionReason  *string
	Status           ConnectionStatus
	StatusChangedAt  *time.Time
	CaseId           *string
	LawyerResponseAt *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
