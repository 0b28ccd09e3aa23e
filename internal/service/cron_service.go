package service

import (
	"context"
	"time"

	"sumii-mobile-api/internal/pkg/logger"
	"sumii-mobile-api/internal/repository/specification"
	"sumii-mobile-api/internal/repository/unitofwork"

	"github.com/robfig/cron/v3"
)

const (
	handoffRetrySchedule      = "@every 5m"
	notificationPurgeSchedule = "0 3 * * *"
	readNotificationRetention = 30 * 24 * time.Hour
	cronJobTimeout            = 2 * time.Minute
)

type ICronService interface {
	// Run schedules the jobs and blocks until ctx is done.
	Run(ctx context.Context) error
	RetryHandoffs(ctx context.Context)
	PurgeReadNotifications(ctx context.Context)
}

type cronService struct {
	uowFactory unitofwork.RepositoryFactory
	lawyers    ILawyerService
	logger     logger.ILogger
}

func NewCronService(uowFactory unitofwork.RepositoryFactory, lawyers ILawyerService, log logger.ILogger) ICronService {
	return &cronService{uowFactory: uowFactory, lawyers: lawyers, logger: log}
}

func (s *cronService) Run(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC), cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)))

	job := func(fn func(context.Context)) func() {
		return func() {
			jobCtx, cancel := context.WithTimeout(ctx, cronJobTimeout)
			defer cancel()
			fn(jobCtx)
		}
	}
	if _, err := c.AddFunc(handoffRetrySchedule, job(s.RetryHandoffs)); err != nil {
		return err
	}
	if _, err := c.AddFunc(notificationPurgeSchedule, job(s.PurgeReadNotifications)); err != nil {
		return err
	}

	c.Start()
	s.logger.Info("Cron", "scheduler started", nil)
	<-ctx.Done()
	<-c.Stop().Done()
	s.logger.Info("Cron", "scheduler stopped", nil)
	return nil
}

func (s *cronService) RetryHandoffs(ctx context.Context) {
	n, err := s.lawyers.RetryPendingHandoffs(ctx)
	if err != nil {
		s.logger.Error("Cron", "handoff retry failed", map[string]interface{}{"error": err})
		return
	}
	if n > 0 {
		s.logger.Info("Cron", "pending handoffs delivered", map[string]interface{}{"count": n})
	}
}

func (s *cronService) PurgeReadNotifications(ctx context.Context) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	n, err := uow.NotificationRepository().DeleteWhere(ctx, specification.ReadBefore{Time: now().Add(-readNotificationRetention)})
	if err != nil {
		s.logger.Error("Cron", "notification purge failed", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("Cron", "read notifications purged", map[string]interface{}{"count": n})
}
