package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

type ConversationStatus string
type LegalArea string
type CaseStrength string
type Urgency string
type AgentName string

const (
	ConversationStatusActive    ConversationStatus = "active"
	ConversationStatusCompleted ConversationStatus = "completed"
	ConversationStatusArchived  ConversationStatus = "archived"

	LegalAreaMietrecht     LegalArea = "Mietrecht"
	LegalAreaArbeitsrecht  LegalArea = "Arbeitsrecht"
	LegalAreaVertragsrecht LegalArea = "Vertragsrecht"
	LegalAreaOther         LegalArea = "Other"

	CaseStrengthStrong CaseStrength = "strong"
	CaseStrengthMedium CaseStrength = "medium"
	CaseStrengthWeak   CaseStrength = "weak"

	UrgencyImmediate Urgency = "immediate"
	UrgencyWeeks     Urgency = "weeks"
	UrgencyMonths    Urgency = "months"

	AgentRouter    AgentName = "router"
	AgentIntake    AgentName = "intake"
	AgentReasoning AgentName = "reasoning"
	AgentSummary   AgentName = "summary"
)

func (s ConversationStatus) Valid() bool {
	switch s {
	case ConversationStatusActive, ConversationStatusCompleted, ConversationStatusArchived:
		return true
	}
	return false
}

func (a LegalArea) Valid() bool {
	switch a {
	case LegalAreaMietrecht, LegalAreaArbeitsrecht, LegalAreaVertragsrecht, LegalAreaOther:
		return true
	}
	return false
}

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyImmediate, UrgencyWeeks, UrgencyMonths:
		return true
	}
	return false
}

func (c CaseStrength) Valid() bool {
	switch c {
	case CaseStrengthStrong, CaseStrengthMedium, CaseStrengthWeak:
		return true
	}
	return false
}

// Facts holds the 5W answers as JSON objects, each marked "collected" once extracted.
type Facts struct {
	Who   json.RawMessage
	What  json.RawMessage
	When  json.RawMessage
	Where json.RawMessage
	Why   json.RawMessage
}

// present reports whether a fact object carries "collected": true.
func present(v json.RawMessage) bool {
	if len(v) == 0 {
		return false
	}
	return gjson.GetBytes(v, "collected").Bool()
}

func (f Facts) Complete() bool {
	return present(f.Who) && present(f.What) && present(f.When) && present(f.Where) && present(f.Why)
}

// Collected returns which of the five fields have a value.
func (f Facts) Collected() map[string]bool {
	return map[string]bool{
		"who":   present(f.Who),
		"what":  present(f.What),
		"when":  present(f.When),
		"where": present(f.Where),
		"why":   present(f.Why),
	}
}

type Conversation struct {
	Id                    uuid.UUID
	UserId                uuid.UUID
	Title                 *string
	Status                ConversationStatus
	LegalArea             *LegalArea
	CaseStrength          *CaseStrength
	Urgency               *Urgency
	CurrentAgent          *AgentName
	MistralConversationId *string
	FactsCollected        json.RawMessage
	AnalysisDone          bool
	SummaryGenerated      bool
	Facts                 Facts
	WrapupConfirmed       bool
	WrapupContent         *string
	WrapupConfirmedAt     *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
	DeletedAt             *time.Time
}

type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
	MessageRoleSystem    MessageRole = "system"
)

type Message struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	Role           MessageRole
	Content        string
	AgentName      *string
	FunctionCall   json.RawMessage
	DocumentIds    []string
	CreatedAt      time.Time
	DeletedAt      *time.Time
}
