package service

import (
	"context"
	"encoding/json"
	"fmt"

	"sumii-mobile-api/internal/constant"
	"sumii-mobile-api/internal/dto"
	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/pkg/logger"
	"sumii-mobile-api/internal/realtime"
	"sumii-mobile-api/internal/repository/scope"
	"sumii-mobile-api/internal/repository/specification"
	"sumii-mobile-api/internal/repository/unitofwork"
	"sumii-mobile-api/pkg/events"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Notifier fans a notification out to the user's open event streams.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, event realtime.Event)
}

type NotificationInput struct {
	UserId  uuid.UUID
	Type    entity.NotificationType
	Title   string
	Message string
	Data    map[string]interface{}
}

type INotificationService interface {
	List(ctx context.Context, userId uuid.UUID, query dto.NotificationListQuery) (*dto.NotificationListResponse, error)
	UnreadCount(ctx context.Context, userId uuid.UUID) (*dto.UnreadCountResponse, error)
	MarkRead(ctx context.Context, userId, id uuid.UUID) (*dto.NotificationResponse, error)
	MarkAllRead(ctx context.Context, userId uuid.UUID) (*dto.MarkAllReadResponse, error)
	MarkActioned(ctx context.Context, userId, id uuid.UUID) (*dto.NotificationResponse, error)

	// Create stores the notification, then pushes it to open streams and the user's device.
	Create(ctx context.Context, in NotificationInput) (*entity.Notification, error)
	HandleEvent(ctx context.Context, event events.Event) error
}

type notificationService struct {
	uowFactory unitofwork.RepositoryFactory
	notifier   Notifier
	push       IPushService
	logger     logger.ILogger
}

func NewNotificationService(uowFactory unitofwork.RepositoryFactory, notifier Notifier, push IPushService, log logger.ILogger) INotificationService {
	return &notificationService{uowFactory: uowFactory, notifier: notifier, push: push, logger: log}
}

func (s *notificationService) List(ctx context.Context, userId uuid.UUID, query dto.NotificationListQuery) (*dto.NotificationListResponse, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = constant.DefaultNotificationLimit
	}

	filters := []specification.Specification{specification.UserOwnedBy{UserID: userId}}
	if query.UnreadOnly {
		filters = append(filters, specification.Unread{})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.NotificationRepository()

	items, err := repo.FindAll(ctx, append(filters,
		specification.Scoped{Fn: scope.NewestFirst},
		specification.Pagination{Limit: limit, Offset: query.Offset},
	)...)
	if err != nil {
		return nil, err
	}
	total, err := repo.Count(ctx, filters...)
	if err != nil {
		return nil, err
	}
	unread, err := repo.Count(ctx, specification.UserOwnedBy{UserID: userId}, specification.Unread{})
	if err != nil {
		return nil, err
	}

	return &dto.NotificationListResponse{
		Notifications: toNotificationResponses(items),
		Total:         total,
		UnreadCount:   unread,
	}, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userId uuid.UUID) (*dto.UnreadCountResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	n, err := uow.NotificationRepository().Count(ctx, specification.UserOwnedBy{UserID: userId}, specification.Unread{})
	if err != nil {
		return nil, err
	}
	return &dto.UnreadCountResponse{UnreadCount: n}, nil
}

func (s *notificationService) owned(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID) (*entity.Notification, error) {
	n, err := uow.NotificationRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if n == nil || n.UserId != userId {
		return nil, fiber.NewError(fiber.StatusNotFound, constant.MsgNotificationNotFound)
	}
	return n, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userId, id uuid.UUID) (*dto.NotificationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	n, err := s.owned(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}
	if !n.Read {
		at := now()
		if err := uow.NotificationRepository().MarkAsRead(ctx, id, at); err != nil {
			return nil, err
		}
		n.Read = true
		n.ReadAt = &at
	}
	res := toNotificationResponse(n)
	return &res, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userId uuid.UUID) (*dto.MarkAllReadResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	n, err := uow.NotificationRepository().MarkAllAsRead(ctx, userId, now())
	if err != nil {
		return nil, err
	}
	return &dto.MarkAllReadResponse{Updated: n}, nil
}

func (s *notificationService) MarkActioned(ctx context.Context, userId, id uuid.UUID) (*dto.NotificationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	n, err := s.owned(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}
	at := now()
	if err := uow.NotificationRepository().MarkActioned(ctx, id, at); err != nil {
		return nil, err
	}
	n.ActionedAt = &at
	res := toNotificationResponse(n)
	return &res, nil
}

func (s *notificationService) Create(ctx context.Context, in NotificationInput) (*entity.Notification, error) {
	data := in.Data
	if data == nil {
		data = map[string]interface{}{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode notification data: %w", err)
	}

	n := &entity.Notification{
		UserId:  in.UserId,
		Type:    in.Type,
		Title:   in.Title,
		Message: in.Message,
		Data:    raw,
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NotificationRepository().Create(ctx, n); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, n.UserId, realtime.Event{
			NotificationID: n.Id,
			Payload:        dto.SSEEvent{Type: string(n.Type), Title: n.Title, Message: n.Message, Data: n.Data},
		})
	}
	if s.push != nil {
		pushData := map[string]interface{}{"type": string(n.Type), "notification_id": n.Id.String()}
		for k, v := range data {
			pushData[k] = v
		}
		s.push.SendToUser(ctx, n.UserId, n.Title, n.Message, pushData)
	}
	return n, nil
}

// HandleEvent turns domain events into user notifications.
func (s *notificationService) HandleEvent(ctx context.Context, event events.Event) error {
	switch event.EventType() {
	case events.SummaryReady:
		userId, err := uuid.Parse(events.String(event, "user_id"))
		if err != nil {
			return nil
		}
		_, err = s.Create(ctx, NotificationInput{
			UserId:  userId,
			Type:    entity.NotificationSummaryReady,
			Title:   constant.NotifySummaryReadyTitle,
			Message: constant.NotifySummaryReadyMessage,
			Data: map[string]interface{}{
				"summary_id":       events.String(event, "summary_id"),
				"conversation_id":  events.String(event, "conversation_id"),
				"reference_number": events.String(event, "reference_number"),
			},
		})
		return err

	case events.ConnectionStatusMoved:
		userId, err := uuid.Parse(events.String(event, "user_id"))
		if err != nil {
			return nil
		}
		lawyer := events.String(event, "lawyer_name")
		if lawyer == "" {
			lawyer = "Ihr Anwalt"
		}
		in := NotificationInput{
			UserId: userId,
			Data: map[string]interface{}{
				"connection_id":   events.String(event, "connection_id"),
				"conversation_id": events.String(event, "conversation_id"),
				"case_id":         events.String(event, "case_id"),
				"status":          events.String(event, "status"),
			},
		}
		switch entity.ConnectionStatus(events.String(event, "status")) {
		case entity.ConnectionStatusAccepted:
			in.Type = entity.NotificationLawyerAssigned
			in.Title = constant.NotifyLawyerAssignedTitle
			in.Message = fmt.Sprintf(constant.NotifyLawyerAssignedMessage, lawyer)
		case entity.ConnectionStatusRejected:
			in.Type = entity.NotificationCaseUpdated
			in.Title = constant.NotifyCaseUpdatedTitle
			in.Message = fmt.Sprintf(constant.NotifyCaseRejectedMessage, lawyer)
			if reason := events.String(event, "rejection_reason"); reason != "" {
				in.Data["rejection_reason"] = reason
			}
		default:
			return nil
		}
		_, err = s.Create(ctx, in)
		return err
	}
	return nil
}
