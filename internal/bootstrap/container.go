package bootstrap

import (
	"context"
	"fmt"
	"time"

	"sumii-mobile-api/internal/config"
	"sumii-mobile-api/internal/controller"
	"sumii-mobile-api/internal/handler"
	"sumii-mobile-api/internal/pkg/logger"
	"sumii-mobile-api/internal/pkg/mailer"
	"sumii-mobile-api/internal/ratelimit"
	"sumii-mobile-api/internal/realtime"
	"sumii-mobile-api/internal/repository/memory"
	"sumii-mobile-api/internal/repository/unitofwork"
	"sumii-mobile-api/internal/service"
	"sumii-mobile-api/pkg/anwalt"
	"sumii-mobile-api/pkg/database"
	"sumii-mobile-api/pkg/events"
	"sumii-mobile-api/pkg/expo"
	"sumii-mobile-api/pkg/mistral"
	pktNats "sumii-mobile-api/pkg/nats"
	"sumii-mobile-api/pkg/storage"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	OAuthController        controller.IOAuthController
	UserController         controller.IUserController
	ConversationController controller.IConversationController
	DocumentController     controller.IDocumentController
	SummaryController      controller.ISummaryController
	AnwaltController       controller.IAnwaltController
	WebhookController      controller.IWebhookController
	NotificationController controller.INotificationController
	StatusController       controller.IStatusController

	// Realtime
	ChatHandler   *handler.ChatHandler
	EventsHandler *handler.EventsHandler
	Hub           *realtime.Hub

	// Background work, started by main
	OcrConsumer         service.IOcrConsumer
	NotificationService service.INotificationService
	CronService         service.ICronService
	Bus                 events.Bus

	Logger   logger.ILogger
	Registry *prometheus.Registry

	closers []func() error
}

// Close releases connections opened by NewContainer.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		_ = c.closers[i]()
	}
}

func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	ctx := context.Background()

	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	realtimeLogger := logger.NewIsolatedLogger(cfg.App.RealtimeLogPath)
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	c := &Container{Logger: sysLogger, Registry: registry}

	emailService := mailer.NewEmailService(mailer.Config{
		Host:        cfg.SMTP.Host,
		Port:        cfg.SMTP.Port,
		Username:    cfg.SMTP.Username,
		Password:    cfg.SMTP.Password,
		SenderName:  cfg.SMTP.SenderName,
		FromEmail:   cfg.SMTP.FromEmail,
		FrontendURL: cfg.App.FrontendURL,
	}, sysLogger)

	// 2. Infrastructure
	rdb := connectRedis(ctx, cfg.App.RedisURL, sysLogger)
	if rdb != nil {
		c.closers = append(c.closers, rdb.Close)
	}

	// OCR jobs stay in-process; domain events go through NATS when configured.
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, watermill.NewStdLogger(false, false))
	c.closers = append(c.closers, pubSub.Close)

	var bus events.Bus = events.NewChannelBus(pubSub)
	if cfg.App.NatsURL != "" {
		natsBus, err := pktNats.NewBus(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("Bootstrap", "NATS unavailable, using in-process bus", map[string]interface{}{"error": err})
		} else {
			bus = natsBus
			c.closers = append(c.closers, natsBus.Close)
		}
	}
	c.Bus = bus

	store, err := newObjectStore(ctx, cfg.Storage)
	if err != nil {
		c.Close()
		return nil, err
	}

	mistralClient := mistral.NewClient(mistral.Config{APIKey: cfg.Mistral.APIKey, BaseURL: cfg.Mistral.BaseURL})
	catalog, err := mistral.LoadCatalog()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("load agent catalog: %w", err)
	}
	anwaltClient := anwalt.NewClient(cfg.Anwalt.BaseURL, cfg.Anwalt.APIKey)
	expoClient := expo.NewClient(cfg.Push.ExpoURL)

	// 3. Services
	hub := realtime.NewHub(rdb, realtimeLogger, registry)
	c.Hub = hub

	authService := service.NewAuthService(uowFactory, emailService, cfg.JWT, sysLogger)
	userService := service.NewUserService(uowFactory, sysLogger)
	oauthService := service.NewOAuthService(uowFactory, authService, cfg.OAuth, sysLogger)
	conversationService := service.NewConversationService(uowFactory, store, sysLogger)

	ocrService := service.NewOcrService(uowFactory, store, mistralClient, bus, cfg.Mistral, sysLogger)
	documentService := service.NewDocumentService(uowFactory, store, pubSub, ocrService, sysLogger)
	c.OcrConsumer = service.NewOcrConsumer(pubSub, ocrService, sysLogger)

	agentRegistry := service.NewAgentRegistry(mistralClient, catalog, rdb, cfg.Mistral, sysLogger)
	chatService := service.NewChatService(uowFactory, agentRegistry, mistralClient, sysLogger)
	summaryService := service.NewSummaryService(uowFactory, agentRegistry, mistralClient, store, bus, sysLogger)

	pushService := service.NewPushService(uowFactory, expoClient, sysLogger)
	notificationService := service.NewNotificationService(uowFactory, hub, pushService, sysLogger)
	c.NotificationService = notificationService

	lawyerService := service.NewLawyerService(uowFactory, anwaltClient, memory.NewLawyerSearchCache(), store, bus, sysLogger)
	webhookService := service.NewWebhookService(uowFactory, notificationService, emailService, bus, cfg.App.FrontendURL, sysLogger)
	syncService := service.NewSyncService(uowFactory, sysLogger)
	statusService := service.NewStatusService(uowFactory, agentRegistry, func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}, cfg.App, sysLogger)
	c.CronService = service.NewCronService(uowFactory, lawyerService, sysLogger)

	// 4. Controllers
	loginLimiter := ratelimit.PerIP(ratelimit.New(rdb, "login", cfg.RateLimit.LoginPerMinute, time.Minute), sysLogger)

	c.AuthController = controller.NewAuthController(authService, loginLimiter)
	c.OAuthController = controller.NewOAuthController(oauthService, sysLogger)
	c.UserController = controller.NewUserController(userService)
	c.ConversationController = controller.NewConversationController(conversationService)
	c.DocumentController = controller.NewDocumentController(documentService)
	c.SummaryController = controller.NewSummaryController(summaryService)
	c.AnwaltController = controller.NewAnwaltController(lawyerService)
	c.WebhookController = controller.NewWebhookController(webhookService, cfg.Anwalt.APIKey, sysLogger)
	c.NotificationController = controller.NewNotificationController(notificationService)
	c.StatusController = controller.NewStatusController(statusService, syncService)

	c.ChatHandler = handler.NewChatHandler(cfg.JWT.Secret, userService, conversationService, chatService, cfg.RateLimit, sysLogger)
	c.EventsHandler = handler.NewEventsHandler(cfg.JWT.Secret, userService, notificationService, hub, cfg.SSE, realtimeLogger)

	return c, nil
}

// connectRedis returns nil when Redis is not configured or unreachable.
func connectRedis(ctx context.Context, url string, log logger.ILogger) *redis.Client {
	if url == "" {
		log.Info("Bootstrap", "REDIS_URL not set, running single-instance", nil)
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("Bootstrap", "failed to parse Redis URL, using it as address", map[string]interface{}{"error": err})
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("Bootstrap", "Redis unreachable, running single-instance", map[string]interface{}{"error": err})
		_ = rdb.Close()
		return nil
	}
	return rdb
}

func newObjectStore(ctx context.Context, cfg config.StorageConfig) (storage.ObjectStore, error) {
	switch cfg.Driver {
	case "", "s3":
		return storage.NewS3Store(ctx, storage.S3Config{
			Bucket:          cfg.Bucket,
			Region:          cfg.Region,
			Endpoint:        cfg.Endpoint,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
		})
	case "minio":
		return storage.NewMinioStore(cfg.Endpoint, cfg.AccessKeyID, cfg.SecretAccessKey, cfg.Bucket, cfg.UseSSL)
	case "memory":
		return storage.NewMemoryStore("memory://" + cfg.Bucket), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
