package mapper

import (
	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/model"
)

type NotificationMapper struct{}

func NewNotificationMapper() *NotificationMapper {
	return &NotificationMapper{}
}

func (m *NotificationMapper) ToEntity(n *model.Notification) *entity.Notification {
	if n == nil {
		return nil
	}
	return &entity.Notification{
		Id:         n.Id,
		UserId:     n.UserId,
		Type:       entity.NotificationType(n.Type),
		Title:      n.Title,
		Message:    n.Message,
		Data:       toRaw(n.Data),
		Read:       n.Read,
		ReadAt:     n.ReadAt,
		CreatedAt:  n.CreatedAt,
		ActionedAt: n.ActionedAt,
		DeletedAt:  deletedAtToPtr(n.DeletedAt),
	}
}

func (m *NotificationMapper) ToModel(n *entity.Notification) *model.Notification {
	if n == nil {
		return nil
	}
	return &model.Notification{
		Id:         n.Id,
		UserId:     n.UserId,
		Type:       string(n.Type),
		Title:      n.Title,
		Message:    n.Message,
		Data:       toJSON(n.Data),
		Read:       n.Read,
		ReadAt:     n.ReadAt,
		CreatedAt:  n.CreatedAt,
		ActionedAt: n.ActionedAt,
		DeletedAt:  ptrToDeletedAt(n.DeletedAt),
	}
}

func (m *NotificationMapper) ToEntities(items []*model.Notification) []*entity.Notification {
	entities := make([]*entity.Notification, len(items))
	for i, n := range items {
		entities[i] = m.ToEntity(n)
	}
	return entities
}
