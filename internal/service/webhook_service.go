package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"sumii-mobile-api/internal/constant"
	"sumii-mobile-api/internal/dto"
	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/pkg/logger"
	"sumii-mobile-api/internal/pkg/mailer"
	"sumii-mobile-api/internal/repository/specification"
	"sumii-mobile-api/internal/repository/unitofwork"
	"sumii-mobile-api/pkg/events"

	"github.com/gofiber/fiber/v2"
)

// IWebhookService handles callbacks from the lawyer platform.
type IWebhookService interface {
	LawyerResponse(ctx context.Context, req dto.LawyerResponseWebhookRequest) (*dto.LawyerResponseWebhookResponse, error)
	ConnectionStatus(ctx context.Context, req dto.ConnectionStatusWebhookRequest) (*dto.LawyerConnectionResponse, error)
}

type webhookService struct {
	uowFactory    unitofwork.RepositoryFactory
	notifications INotificationService
	email         mailer.IEmailService
	bus           events.Bus
	frontendURL   string
	logger        logger.ILogger
}

func NewWebhookService(uowFactory unitofwork.RepositoryFactory, notifications INotificationService, email mailer.IEmailService, bus events.Bus, frontendURL string, log logger.ILogger) IWebhookService {
	return &webhookService{
		uowFactory:    uowFactory,
		notifications: notifications,
		email:         email,
		bus:           bus,
		frontendURL:   frontendURL,
		logger:        log,
	}
}

func (s *webhookService) LawyerResponse(ctx context.Context, req dto.LawyerResponseWebhookRequest) (*dto.LawyerResponseWebhookResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: req.UserId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, constant.MsgUserNotFound)
	}
	conv, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: req.ConversationId})
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, constant.MsgConversationNotFound)
	}
	if conv.UserId != user.Id {
		return nil, fiber.NewError(fiber.StatusForbidden, "User does not own this conversation")
	}

	caseId := string(req.CaseId)
	conn, err := uow.LawyerConnectionRepository().FindOne(ctx,
		specification.ByConversationID{ConversationID: conv.Id},
		specification.ByLawyerID{LawyerID: req.LawyerId},
	)
	if err != nil {
		return nil, err
	}
	if conn != nil {
		respondedAt := req.ResponseTimestamp.UTC()
		conn.LawyerResponseAt = &respondedAt
		conn.LawyerName = &req.LawyerName
		if conn.CaseId == nil || *conn.CaseId == "" {
			conn.CaseId = &caseId
		}
		if conn.Status.CanTransitionTo(entity.ConnectionStatusAccepted) {
			at := now()
			conn.Status = entity.ConnectionStatusAccepted
			conn.StatusChangedAt = &at
		}
		if err := uow.LawyerConnectionRepository().Update(ctx, conn); err != nil {
			return nil, err
		}
	} else {
		s.logger.Warn("Webhook", "no connection for lawyer response, notifying anyway", map[string]interface{}{
			"conversation_id": conv.Id,
			"lawyer_id":       req.LawyerId,
		})
	}

	notification, err := s.notifications.Create(ctx, NotificationInput{
		UserId:  user.Id,
		Type:    entity.NotificationLawyerResponse,
		Title:   constant.NotifyLawyerResponseTitle,
		Message: fmt.Sprintf(constant.NotifyLawyerResponseMessage, req.LawyerName),
		Data: map[string]interface{}{
			"case_id":            caseId,
			"conversation_id":    conv.Id.String(),
			"lawyer_id":          req.LawyerId,
			"lawyer_name":        req.LawyerName,
			"response_text":      req.ResponseText,
			"response_timestamp": req.ResponseTimestamp.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, err
	}

	emailSent := s.email.SendLawyerResponse(mailer.LawyerResponseMail{
		ToEmail:        user.Email,
		UserName:       user.DisplayName(),
		LawyerName:     req.LawyerName,
		ResponseText:   req.ResponseText,
		CaseSummaryURL: fmt.Sprintf("%s/conversations/%s", s.frontendURL, conv.Id),
	}) == nil

	message := "Notification created"
	if emailSent {
		message = "Notification created and email sent to user " + user.Email
	}
	return &dto.LawyerResponseWebhookResponse{
		Status:         "success",
		Message:        message,
		NotificationId: &notification.Id,
		EmailSent:      emailSent,
	}, nil
}

func (s *webhookService) ConnectionStatus(ctx context.Context, req dto.ConnectionStatusWebhookRequest) (*dto.LawyerConnectionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	conn, err := uow.LawyerConnectionRepository().FindOne(ctx, specification.ByCaseID{CaseID: string(req.CaseId)})
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, constant.MsgConnectionNotFound)
	}

	next := entity.ConnectionStatus(req.Status)
	if !conn.Status.CanTransitionTo(next) || next == entity.ConnectionStatusCancelled {
		return nil, fiber.NewError(fiber.StatusBadRequest, constant.MsgInvalidTransition)
	}

	at := now()
	conn.Status = next
	conn.StatusChangedAt = &at
	if next == entity.ConnectionStatusRejected {
		conn.RejectionReason = req.RejectionReason
	}
	if err := uow.LawyerConnectionRepository().Update(ctx, conn); err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"connection_id":   conn.Id.String(),
		"conversation_id": conn.ConversationId.String(),
		"user_id":         conn.UserId.String(),
		"lawyer_id":       strconv.Itoa(conn.LawyerId),
		"case_id":         string(req.CaseId),
		"status":          string(next),
	}
	if conn.LawyerName != nil {
		data["lawyer_name"] = *conn.LawyerName
	}
	if conn.RejectionReason != nil {
		data["rejection_reason"] = *conn.RejectionReason
	}
	if err := s.bus.Publish(ctx, events.New(events.ConnectionStatusMoved, data)); err != nil {
		s.logger.Warn("Webhook", "failed to publish status change", map[string]interface{}{"connection_id": conn.Id, "error": err})
	}

	res := toConnectionResponse(conn)
	return &res, nil
}
