package service

import (
	"context"

	"sumii-mobile-api/internal/config"
	"sumii-mobile-api/internal/constant"
	"sumii-mobile-api/internal/dto"
	"sumii-mobile-api/internal/pkg/logger"
	"sumii-mobile-api/internal/repository/specification"
	"sumii-mobile-api/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

type IStatusService interface {
	Health(ctx context.Context) *dto.HealthResponse
	Status() *dto.StatusResponse
	Agents(ctx context.Context) *dto.AgentsStatusResponse
	Conversation(ctx context.Context, userId, conversationId uuid.UUID) (*dto.ConversationStatusResponse, error)
}

type statusService struct {
	uowFactory unitofwork.RepositoryFactory
	registry   IAgentRegistry
	ping       func(ctx context.Context) error
	app        config.AppConfig
	logger     logger.ILogger
}

// NewStatusService reports service health. ping checks the database and may be nil.
func NewStatusService(uowFactory unitofwork.RepositoryFactory, registry IAgentRegistry, ping func(ctx context.Context) error, app config.AppConfig, log logger.ILogger) IStatusService {
	return &statusService{uowFactory: uowFactory, registry: registry, ping: ping, app: app, logger: log}
}

func (s *statusService) Health(ctx context.Context) *dto.HealthResponse {
	res := &dto.HealthResponse{
		Status:  statusHealthy,
		Version: s.app.Version,
		Service: constant.ServiceName,
		Agents:  map[string]bool{},
	}
	for key, st := range s.registry.Status(ctx) {
		res.Agents[key] = st.Ready
		if !st.Ready {
			res.Status = statusDegraded
		}
	}
	if s.ping != nil {
		if err := s.ping(ctx); err != nil {
			s.logger.Warn("Status", "database ping failed", map[string]interface{}{"error": err})
			res.Status = statusDegraded
		}
	}
	return res
}

func (s *statusService) Status() *dto.StatusResponse {
	return &dto.StatusResponse{
		Status:      statusHealthy,
		Service:     constant.ServiceName,
		Version:     s.app.Version,
		Timestamp:   now(),
		Environment: s.app.Environment,
	}
}

func (s *statusService) Agents(ctx context.Context) *dto.AgentsStatusResponse {
	agents := s.registry.Status(ctx)
	ready := 0
	for _, a := range agents {
		if a.Ready {
			ready++
		}
	}
	return &dto.AgentsStatusResponse{
		TotalAgents:          len(agents),
		ReadyAgents:          ready,
		AllReady:             len(agents) > 0 && ready == len(agents),
		Agents:               agents,
		MistralAPIConfigured: s.registry.Configured(),
		Timestamp:            now(),
	}
}

func (s *statusService) Conversation(ctx context.Context, userId, conversationId uuid.UUID) (*dto.ConversationStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	conv, err := ownedConversation(ctx, uow, userId, conversationId)
	if err != nil {
		return nil, err
	}

	messages, err := uow.MessageRepository().Count(ctx, specification.ByConversationID{ConversationID: conv.Id})
	if err != nil {
		return nil, err
	}
	docs, err := uow.DocumentRepository().FindAll(ctx, specification.ByConversationID{ConversationID: conv.Id})
	if err != nil {
		return nil, err
	}

	next := DetermineNextAgent(conv)
	return &dto.ConversationStatusResponse{
		ConversationId: conv.Id.String(),
		Status:         string(conv.Status),
		CurrentAgent:   enumString(conv.CurrentAgent),
		NextAgent:      string(next),
		WorkflowProgress: dto.WorkflowProgress{
			FactsCollected:   conv.Facts.Collected(),
			FactsComplete:    conv.Facts.Complete(),
			AnalysisDone:     conv.AnalysisDone,
			SummaryGenerated: conv.SummaryGenerated,
			WrapupConfirmed:  conv.WrapupConfirmed,
			MessageCount:     messages,
			DocumentCount:    len(docs),
		},
		NextStep:  NextStep(next),
		Timestamp: now(),
	}, nil
}
