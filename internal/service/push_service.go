package service

import (
	"context"
	"errors"

	"sumii-mobile-api/internal/pkg/logger"
	"sumii-mobile-api/internal/repository/specification"
	"sumii-mobile-api/internal/repository/unitofwork"
	"sumii-mobile-api/pkg/expo"

	"github.com/google/uuid"
)

type IPushService interface {
	// SendToUser pushes to the user's registered device. It reports false when nothing was sent.
	SendToUser(ctx context.Context, userId uuid.UUID, title, body string, data map[string]interface{}) bool
}

type pushService struct {
	uowFactory unitofwork.RepositoryFactory
	client     *expo.Client
	logger     logger.ILogger
}

func NewPushService(uowFactory unitofwork.RepositoryFactory, client *expo.Client, log logger.ILogger) IPushService {
	return &pushService{uowFactory: uowFactory, client: client, logger: log}
}

func (s *pushService) SendToUser(ctx context.Context, userId uuid.UUID, title, body string, data map[string]interface{}) bool {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil || user == nil || user.PushToken == nil || *user.PushToken == "" {
		return false
	}

	err = s.client.Send(ctx, *user.PushToken, title, body, data)
	switch {
	case err == nil:
		return true
	case errors.Is(err, expo.ErrDeviceNotRegistered), errors.Is(err, expo.ErrInvalidToken):
		s.logger.Info("Push", "dropping stale push token", map[string]interface{}{"user_id": userId})
		if err := uow.UserRepository().SetPushToken(ctx, userId, nil); err != nil {
			s.logger.Warn("Push", "failed to clear push token", map[string]interface{}{"user_id": userId, "error": err})
		}
	default:
		s.logger.Warn("Push", "push delivery failed", map[string]interface{}{"user_id": userId, "error": err})
	}
	return false
}
