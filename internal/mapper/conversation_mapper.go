package mapper

import (
	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/model"
)

type ConversationMapper struct{}

func NewConversationMapper() *ConversationMapper {
	return &ConversationMapper{}
}

func (m *ConversationMapper) ToEntity(c *model.Conversation) *entity.Conversation {
	if c == nil {
		return nil
	}
	return &entity.Conversation{
		Id:                    c.Id,
		UserId:                c.UserId,
		Title:                 c.Title,
		Status:                entity.ConversationStatus(c.Status),
		LegalArea:             enumPtr[entity.LegalArea](c.LegalArea),
		CaseStrength:          enumPtr[entity.CaseStrength](c.CaseStrength),
		Urgency:               enumPtr[entity.Urgency](c.Urgency),
		CurrentAgent:          enumPtr[entity.AgentName](c.CurrentAgent),
		MistralConversationId: c.MistralConversationId,
		FactsCollected:        toRaw(c.FactsCollected),
		AnalysisDone:          c.AnalysisDone,
		SummaryGenerated:      c.SummaryGenerated,
		Facts: entity.Facts{
			Who:   toRaw(c.Who),
			What:  toRaw(c.What),
			When:  toRaw(c.When),
			Where: toRaw(c.Where),
			Why:   toRaw(c.Why),
		},
		WrapupConfirmed:   c.WrapupConfirmed,
		WrapupContent:     c.WrapupContent,
		WrapupConfirmedAt: c.WrapupConfirmedAt,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
		DeletedAt:         deletedAtToPtr(c.DeletedAt),
	}
}

func (m *ConversationMapper) ToModel(c *entity.Conversation) *model.Conversation {
	if c == nil {
		return nil
	}
	return &model.Conversation{
		Id:                    c.Id,
		UserId:                c.UserId,
		Title:                 c.Title,
		Status:                string(c.Status),
		LegalArea:             stringPtr(c.LegalArea),
		CaseStrength:          stringPtr(c.CaseStrength),
		Urgency:               stringPtr(c.Urgency),
		CurrentAgent:          stringPtr(c.CurrentAgent),
		MistralConversationId: c.MistralConversationId,
		FactsCollected:        toJSON(c.FactsCollected),
		AnalysisDone:          c.AnalysisDone,
		SummaryGenerated:      c.SummaryGenerated,
		Who:                   toJSON(c.Facts.Who),
		What:                  toJSON(c.Facts.What),
		When:                  toJSON(c.Facts.When),
		Where:                 toJSON(c.Facts.Where),
		Why:                   toJSON(c.Facts.Why),
		WrapupConfirmed:       c.WrapupConfirmed,
		WrapupContent:         c.WrapupContent,
		WrapupConfirmedAt:     c.WrapupConfirmedAt,
		CreatedAt:             c.CreatedAt,
		UpdatedAt:             c.UpdatedAt,
		DeletedAt:             ptrToDeletedAt(c.DeletedAt),
	}
}

func (m *ConversationMapper) ToEntities(items []*model.Conversation) []*entity.Conversation {
	entities := make([]*entity.Conversation, len(items))
	for i, c := range items {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

type MessageMapper struct{}

func NewMessageMapper() *MessageMapper {
	return &MessageMapper{}
}

func (m *MessageMapper) ToEntity(msg *model.Message) *entity.Message {
	if msg == nil {
		return nil
	}
	ids := []string(msg.DocumentIds)
	if ids == nil {
		ids = []string{}
	}
	return &entity.Message{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		Role:           entity.MessageRole(msg.Role),
		Content:        msg.Content,
		AgentName:      msg.AgentName,
		FunctionCall:   toRaw(msg.FunctionCall),
		DocumentIds:    ids,
		CreatedAt:      msg.CreatedAt,
		DeletedAt:      deletedAtToPtr(msg.DeletedAt),
	}
}

func (m *MessageMapper) ToModel(msg *entity.Message) *model.Message {
	if msg == nil {
		return nil
	}
	return &model.Message{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		Role:           string(msg.Role),
		Content:        msg.Content,
		AgentName:      msg.AgentName,
		FunctionCall:   toJSON(msg.FunctionCall),
		DocumentIds:    msg.DocumentIds,
		CreatedAt:      msg.CreatedAt,
		DeletedAt:      ptrToDeletedAt(msg.DeletedAt),
	}
}

func (m *MessageMapper) ToEntities(items []*model.Message) []*entity.Message {
	entities := make([]*entity.Message, len(items))
	for i, msg := range items {
		entities[i] = m.ToEntity(msg)
	}
	return entities
}
