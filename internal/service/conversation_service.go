package service

import (
	"context"
	"fmt"

	"sumii-mobile-api/internal/constant"
	"sumii-mobile-api/internal/dto"
	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/pkg/logger"
	"sumii-mobile-api/internal/repository/scope"
	"sumii-mobile-api/internal/repository/specification"
	"sumii-mobile-api/internal/repository/unitofwork"
	"sumii-mobile-api/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IConversationService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateConversationRequest) (*dto.ConversationResponse, error)
	List(ctx context.Context, userId uuid.UUID, query *dto.ListConversationsQuery) ([]dto.ConversationResponse, error)
	Get(ctx context.Context, userId, id uuid.UUID) (*dto.ConversationDetailResponse, error)
	Update(ctx context.Context, userId, id uuid.UUID, req *dto.UpdateConversationRequest) (*dto.ConversationResponse, error)
	Delete(ctx context.Context, userId, id uuid.UUID) error
	DeleteMessagesFrom(ctx context.Context, userId, id, messageId uuid.UUID) (*dto.DeleteMessagesResponse, error)
	Wrapup(ctx context.Context, userId, id uuid.UUID, req *dto.WrapupRequest) (*dto.ConversationResponse, error)
}

type conversationService struct {
	uowFactory unitofwork.RepositoryFactory
	store      storage.ObjectStore
	logger     logger.ILogger
}

func NewConversationService(uowFactory unitofwork.RepositoryFactory, store storage.ObjectStore, log logger.ILogger) IConversationService {
	return &conversationService{uowFactory: uowFactory, store: store, logger: log}
}

func defaultConversationTitle() string {
	return fmt.Sprintf("Conversation %s", uuid.New().String()[:8])
}

func (s *conversationService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateConversationRequest) (*dto.ConversationResponse, error) {
	title := req.Title
	if title == nil || *title == "" {
		title = strPtr(defaultConversationTitle())
	}
	agent := entity.AgentRouter

	conv := &entity.Conversation{
		Id:           uuid.New(),
		UserId:       userId,
		Title:        title,
		Status:       entity.ConversationStatusActive,
		CurrentAgent: &agent,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ConversationRepository().Create(ctx, conv); err != nil {
		return nil, err
	}
	res := toConversationResponse(conv)
	return &res, nil
}

func (s *conversationService) List(ctx context.Context, userId uuid.UUID, query *dto.ListConversationsQuery) ([]dto.ConversationResponse, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = constant.DefaultConversationLimit
	}
	specs := []specification.Specification{
		specification.UserOwnedBy{UserID: userId},
		specification.Scoped{Fn: scope.RecentlyUpdated},
		specification.Pagination{Limit: limit, Offset: query.Offset},
	}
	if query.Status != "" {
		specs = append(specs, specification.ByStatus{Status: query.Status})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	items, err := uow.ConversationRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	return toConversationResponses(items), nil
}

func (s *conversationService) Get(ctx context.Context, userId, id uuid.UUID) (*dto.ConversationDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	conv, err := ownedConversation(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: id},
		specification.Scoped{Fn: scope.Chronological},
	)
	if err != nil {
		return nil, err
	}

	return &dto.ConversationDetailResponse{
		ConversationResponse: toConversationResponse(conv),
		Messages:             toMessageResponses(messages),
		FactsCollected:       conv.FactsCollected,
		AnalysisDone:         conv.AnalysisDone,
		SummaryGenerated:     conv.SummaryGenerated,
		Who:                  conv.Facts.Who,
		What:                 conv.Facts.What,
		When:                 conv.Facts.When,
		Where:                conv.Facts.Where,
		Why:                  conv.Facts.Why,
	}, nil
}

func (s *conversationService) Update(ctx context.Context, userId, id uuid.UUID, req *dto.UpdateConversationRequest) (*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	conv, err := ownedConversation(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		conv.Title = req.Title
	}
	if req.Status != nil {
		conv.Status = entity.ConversationStatus(*req.Status)
	}
	if req.LegalArea != nil {
		area := entity.LegalArea(*req.LegalArea)
		conv.LegalArea = &area
	}
	if req.CaseStrength != nil {
		strength := entity.CaseStrength(*req.CaseStrength)
		conv.CaseStrength = &strength
	}
	if req.Urgency != nil {
		urgency := entity.Urgency(*req.Urgency)
		conv.Urgency = &urgency
	}

	if err := uow.ConversationRepository().Update(ctx, conv); err != nil {
		return nil, err
	}
	res := toConversationResponse(conv)
	return &res, nil
}

// Delete soft-deletes the conversation with its messages, documents and summary,
// then removes the stored objects. Object removal failures are only logged.
func (s *conversationService) Delete(ctx context.Context, userId, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := ownedConversation(ctx, uow, userId, id); err != nil {
		return err
	}

	byConv := specification.ByConversationID{ConversationID: id}
	documents, err := uow.DocumentRepository().FindAll(ctx, byConv)
	if err != nil {
		return err
	}
	summary, err := uow.SummaryRepository().FindOne(ctx, byConv)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if _, err := uow.MessageRepository().DeleteWhere(ctx, byConv); err != nil {
		return err
	}
	if _, err := uow.DocumentRepository().DeleteWhere(ctx, byConv); err != nil {
		return err
	}
	if _, err := uow.SummaryRepository().DeleteWhere(ctx, byConv); err != nil {
		return err
	}
	if err := uow.ConversationRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	keys := make([]string, 0, len(documents)+2)
	for _, d := range documents {
		keys = append(keys, d.S3Key)
	}
	if summary != nil {
		keys = append(keys, summary.PdfS3Key)
		if summary.MarkdownS3Key != nil {
			keys = append(keys, *summary.MarkdownS3Key)
		}
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.Warn("Conversation", "failed to delete object", map[string]interface{}{"key": key, "error": err})
		}
	}

	s.logger.Info("Conversation", "conversation deleted", map[string]interface{}{"conversation_id": id, "objects": len(keys)})
	return nil
}

func (s *conversationService) DeleteMessagesFrom(ctx context.Context, userId, id, messageId uuid.UUID) (*dto.DeleteMessagesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := ownedConversation(ctx, uow, userId, id); err != nil {
		return nil, err
	}

	pivot, err := uow.MessageRepository().FindOne(ctx,
		specification.ByID{ID: messageId},
		specification.ByConversationID{ConversationID: id},
	)
	if err != nil {
		return nil, err
	}
	if pivot == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, constant.MsgMessageNotFound)
	}

	deleted, err := uow.MessageRepository().DeleteWhere(ctx,
		specification.ByConversationID{ConversationID: id},
		specification.CreatedAtOrAfter{Time: pivot.CreatedAt},
	)
	if err != nil {
		return nil, err
	}
	if err := uow.ConversationRepository().Touch(ctx, id); err != nil {
		return nil, err
	}
	return &dto.DeleteMessagesResponse{DeletedCount: deleted}, nil
}

func (s *conversationService) Wrapup(ctx context.Context, userId, id uuid.UUID, req *dto.WrapupRequest) (*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	conv, err := ownedConversation(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}

	confirmedAt := now()
	conv.WrapupConfirmed = true
	conv.WrapupContent = strPtr(req.Content)
	conv.WrapupConfirmedAt = &confirmedAt

	if err := uow.ConversationRepository().Update(ctx, conv); err != nil {
		return nil, err
	}
	res := toConversationResponse(conv)
	return &res, nil
}
