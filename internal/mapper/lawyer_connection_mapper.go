package mapper

import (
	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/model"
)

type LawyerConnectionMapper struct{}

func NewLawyerConnectionMapper() *LawyerConnectionMapper {
	return &LawyerConnectionMapper{}
}

func (m *LawyerConnectionMapper) ToEntity(c *model.LawyerConnection) *entity.LawyerConnection {
	if c == nil {
		return nil
	}
	return &entity.LawyerConnection{
		Id:               c.Id,
		UserId:           c.UserId,
		ConversationId:   c.ConversationId,
		SummaryId:        c.SummaryId,
		LawyerId:         c.LawyerId,
		LawyerName:       c.LawyerName,
		UserMessage:      c.UserMessage,
		RejectionReason:  c.RejectionReason,
		Status:           entity.ConnectionStatus(c.Status),
		StatusChangedAt:  c.StatusChangedAt,
		CaseId:           c.CaseId,
		LawyerResponseAt: c.LawyerResponseAt,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func (m *LawyerConnectionMapper) ToModel(c *entity.LawyerConnection) *model.LawyerConnection {
	if c == nil {
		return nil
	}
	return &model.LawyerConnection{
		Id:               c.Id,
		UserId:           c.UserId,
		ConversationId:   c.ConversationId,
		SummaryId:        c.SummaryId,
		LawyerId:         c.LawyerId,
		LawyerName:       c.LawyerName,
		UserMessage:      c.UserMessage,
		RejectionReason:  c.RejectionReason,
		Status:           string(c.Status),
		StatusChangedAt:  c.StatusChangedAt,
		CaseId:           c.CaseId,
		LawyerResponseAt: c.LawyerResponseAt,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func (m *LawyerConnectionMapper) ToEntities(items []*model.LawyerConnection) []*entity.LawyerConnection {
	entities := make([]*entity.LawyerConnection, len(items))
	for i, c := range items {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
