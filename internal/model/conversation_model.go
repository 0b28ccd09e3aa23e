package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Conversation struct {
	Id                    uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserId                uuid.UUID      `gorm:"type:uuid;not null;index:idx_conversations_user_updated,priority:1"`
	Title                 *string        `gorm:"type:varchar(200)"`
	Status                string         `gorm:"type:varchar(20);not null;default:'active';index"`
	LegalArea             *string        `gorm:"type:varchar(50)"`
	CaseStrength          *string        `gorm:"type:varchar(20)"`
	Urgency               *string        `gorm:"type:varchar(20)"`
	CurrentAgent          *string        `gorm:"type:varchar(50)"`
	MistralConversationId *string        `gorm:"type:varchar(100)"`
	FactsCollected        datatypes.JSON `gorm:"column:facts_collected"`
	AnalysisDone          bool           `gorm:"not null;default:false"`
	SummaryGenerated      bool           `gorm:"not null;default:false"`
	Who                   datatypes.JSON `gorm:"column:fact_who"`
	What                  datatypes.JSON `gorm:"column:fact_what"`
	When                  datatypes.JSON `gorm:"column:fact_when"`
	Where                 datatypes.JSON `gorm:"column:fact_where"`
	Why                   datatypes.JSON `gorm:"column:fact_why"`
	WrapupConfirmed       bool           `gorm:"not null;default:false"`
	WrapupContent         *string        `gorm:"type:text"`
	WrapupConfirmedAt     *time.Time
	CreatedAt             time.Time      `gorm:"autoCreateTime"`
	UpdatedAt             time.Time      `gorm:"autoUpdateTime;index:idx_conversations_user_updated,priority:2"`
	DeletedAt             gorm.DeletedAt `gorm:"index"`
	User                  User           `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
}

func (Conversation) TableName() string {
	return "conversations"
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.Id)
	return nil
}

type Message struct {
	Id             uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	ConversationId uuid.UUID                   `gorm:"type:uuid;not null;index:idx_messages_conversation_created,priority:1"`
	Role           string                      `gorm:"type:varchar(20);not null"`
	Content        string                      `gorm:"type:text;not null"`
	AgentName      *string                     `gorm:"type:varchar(50)"`
	FunctionCall   datatypes.JSON              `gorm:"column:function_call"`
	DocumentIds    datatypes.JSONSlice[string] `gorm:"column:document_ids"`
	CreatedAt      time.Time                   `gorm:"autoCreateTime;index:idx_messages_conversation_created,priority:2"`
	DeletedAt      gorm.DeletedAt              `gorm:"index"`
	Conversation   Conversation                `gorm:"foreignKey:ConversationId;constraint:OnDelete:CASCADE"`
}

func (Message) TableName() string {
	return "messages"
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.Id)
	return nil
}
