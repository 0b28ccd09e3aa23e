package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"sumii-mobile-api/internal/constant"
	"sumii-mobile-api/internal/dto"
	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/pkg/logger"
	"sumii-mobile-api/internal/repository/contract"
	"sumii-mobile-api/internal/repository/memory"
	"sumii-mobile-api/internal/repository/scope"
	"sumii-mobile-api/internal/repository/specification"
	"sumii-mobile-api/internal/repository/unitofwork"
	"sumii-mobile-api/pkg/anwalt"
	"sumii-mobile-api/pkg/events"
	"sumii-mobile-api/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const defaultSearchRadiusKm = 10

type ILawyerService interface {
	Search(ctx context.Context, query dto.LawyerSearchQuery) ([]anwalt.Lawyer, error)
	Connect(ctx context.Context, userId uuid.UUID, req dto.ConnectRequest) (*dto.LawyerConnectionResponse, error)
	ListConnections(ctx context.Context, userId uuid.UUID, statusFilter string) (*dto.LawyerConnectionListResponse, error)
	Cancel(ctx context.Context, userId, id uuid.UUID) (*dto.LawyerConnectionResponse, error)

	// RetryPendingHandoffs hands off pending connections that have a summary but no case id yet.
	RetryPendingHandoffs(ctx context.Context) (int, error)
}

type lawyerService struct {
	uowFactory unitofwork.RepositoryFactory
	client     *anwalt.Client
	cache      *memory.LawyerSearchCache
	store      storage.ObjectStore
	bus        events.Bus
	logger     logger.ILogger
}

func NewLawyerService(uowFactory unitofwork.RepositoryFactory, client *anwalt.Client, cache *memory.LawyerSearchCache, store storage.ObjectStore, bus events.Bus, log logger.ILogger) ILawyerService {
	return &lawyerService{uowFactory: uowFactory, client: client, cache: cache, store: store, bus: bus, logger: log}
}

func (s *lawyerService) Search(ctx context.Context, query dto.LawyerSearchQuery) ([]anwalt.Lawyer, error) {
	if !anwalt.ValidLanguage(query.Language) {
		return nil, fiber.NewError(fiber.StatusBadRequest, anwalt.ErrInvalidLanguage.Error())
	}
	radius := query.Radius
	if radius <= 0 {
		radius = defaultSearchRadiusKm
	}
	params := anwalt.SearchParams{
		Language:  query.Language,
		LegalArea: query.LegalArea,
		Latitude:  query.Lat,
		Longitude: query.Lng,
		RadiusKm:  radius,
	}

	key := memory.SearchKey(params)
	if lawyers, ok := s.cache.Get(key); ok {
		return lawyers, nil
	}

	lawyers, err := s.client.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	if lawyers == nil {
		lawyers = []anwalt.Lawyer{}
	}
	s.cache.Save(key, lawyers)
	return lawyers, nil
}

// findLawyer checks the cached German directory first, then asks the platform.
func (s *lawyerService) findLawyer(ctx context.Context, lawyerId int) (anwalt.Lawyer, error) {
	if lawyers, ok := s.cache.Get(memory.SearchKey(anwalt.SearchParams{Language: "de"})); ok {
		for _, l := range lawyers {
			if l.ID() == lawyerId {
				return l, nil
			}
		}
	}
	return s.client.FindLawyer(ctx, lawyerId)
}

func (s *lawyerService) Connect(ctx context.Context, userId uuid.UUID, req dto.ConnectRequest) (*dto.LawyerConnectionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	conv, err := ownedConversation(ctx, uow, userId, req.ConversationId)
	if err != nil {
		return nil, err
	}

	lawyer, err := s.findLawyer(ctx, req.LawyerId)
	if err != nil {
		return nil, fmt.Errorf("failed to verify lawyer: %w", err)
	}
	if lawyer == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, constant.MsgLawyerNotFound)
	}

	existing, err := uow.LawyerConnectionRepository().FindOne(ctx,
		specification.ByConversationID{ConversationID: conv.Id},
		specification.ByLawyerID{LawyerID: req.LawyerId},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, constant.MsgConnectionExists)
	}

	summary, err := uow.SummaryRepository().FindOne(ctx, specification.ByConversationID{ConversationID: conv.Id})
	if err != nil {
		return nil, err
	}

	conn := &entity.LawyerConnection{
		UserId:         userId,
		ConversationId: conv.Id,
		LawyerId:       req.LawyerId,
		UserMessage:    req.UserMessage,
		Status:         entity.ConnectionStatusPending,
	}
	if name := lawyer.FullName(); name != "" {
		conn.LawyerName = &name
	}
	if summary != nil {
		conn.SummaryId = &summary.Id
	}
	if err := uow.LawyerConnectionRepository().Create(ctx, conn); err != nil {
		if errors.Is(err, contract.ErrDuplicate) {
			return nil, fiber.NewError(fiber.StatusBadRequest, constant.MsgConnectionExists)
		}
		return nil, err
	}

	s.publish(ctx, events.ConnectionCreated, conn)

	if summary != nil {
		if err := s.handoff(ctx, uow, conn, conv, summary); err != nil {
			s.logger.Error("Anwalt", "case handoff failed, will retry", map[string]interface{}{"connection_id": conn.Id, "error": err})
		}
	}

	res := toConnectionResponse(conn)
	return &res, nil
}

// handoff sends the case to the lawyer platform and stores the returned case id.
func (s *lawyerService) handoff(ctx context.Context, uow unitofwork.UnitOfWork, conn *entity.LawyerConnection, conv *entity.Conversation, summary *entity.Summary) error {
	pdfURL, err := s.store.PresignGet(ctx, summary.PdfS3Key, storage.PresignExpiry)
	if err != nil {
		return fmt.Errorf("presign summary pdf: %w", err)
	}

	req := anwalt.HandoffRequest{
		UserID:        conn.UserId.String(),
		SummaryID:     summary.Id.String(),
		SummaryPdfURL: pdfURL,
		LawyerID:      conn.LawyerId,
		LegalArea:     string(entity.LegalAreaOther),
		CaseStrength:  string(entity.CaseStrengthMedium),
		Urgency:       string(entity.UrgencyWeeks),
	}
	if conv.LegalArea != nil {
		req.LegalArea = string(*conv.LegalArea)
	}
	if conv.CaseStrength != nil {
		req.CaseStrength = string(*conv.CaseStrength)
	}
	if conv.Urgency != nil {
		req.Urgency = string(*conv.Urgency)
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: conn.UserId})
	if err != nil {
		return err
	}
	if user != nil {
		req.UserLocation = userLocation(user)
	}

	resp, err := s.client.Handoff(ctx, req)
	if err != nil {
		return err
	}
	if resp.CaseID == "" {
		return errors.New("lawyer platform returned no case id")
	}

	conn.CaseId = &resp.CaseID
	if err := uow.LawyerConnectionRepository().Update(ctx, conn); err != nil {
		return err
	}
	s.logger.Info("Anwalt", "case handed off", map[string]interface{}{"connection_id": conn.Id, "case_id": resp.CaseID})
	s.publish(ctx, events.CaseHandoffCompleted, conn)
	return nil
}

func userLocation(u *entity.User) *anwalt.UserLocation {
	if u.Latitude == nil || u.Longitude == nil {
		return nil
	}
	lat, errLat := strconv.ParseFloat(*u.Latitude, 64)
	lng, errLng := strconv.ParseFloat(*u.Longitude, 64)
	if errLat != nil || errLng != nil {
		return nil
	}
	loc := &anwalt.UserLocation{Lat: &lat, Lng: &lng}
	if u.AddressCity != nil {
		loc.City = *u.AddressCity
	}
	return loc
}

func (s *lawyerService) publish(ctx context.Context, eventType string, conn *entity.LawyerConnection) {
	if s.bus == nil {
		return
	}
	data := map[string]interface{}{
		"connection_id":   conn.Id.String(),
		"conversation_id": conn.ConversationId.String(),
		"user_id":         conn.UserId.String(),
		"lawyer_id":       strconv.Itoa(conn.LawyerId),
		"status":          string(conn.Status),
	}
	if conn.CaseId != nil {
		data["case_id"] = *conn.CaseId
	}
	if err := s.bus.Publish(ctx, events.New(eventType, data)); err != nil {
		s.logger.Warn("Anwalt", "failed to publish event", map[string]interface{}{"event": eventType, "error": err})
	}
}

func (s *lawyerService) ListConnections(ctx context.Context, userId uuid.UUID, statusFilter string) (*dto.LawyerConnectionListResponse, error) {
	specs := []specification.Specification{specification.UserOwnedBy{UserID: userId}}
	if statusFilter != "" {
		status := entity.ConnectionStatus(statusFilter)
		if !status.Valid() {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid status filter")
		}
		specs = append(specs, specification.ByStatus{Status: statusFilter})
	}
	specs = append(specs, specification.Scoped{Fn: scope.NewestFirst})

	uow := s.uowFactory.NewUnitOfWork(ctx)
	items, err := uow.LawyerConnectionRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	return &dto.LawyerConnectionListResponse{Connections: toConnectionResponses(items), Total: len(items)}, nil
}

func (s *lawyerService) Cancel(ctx context.Context, userId, id uuid.UUID) (*dto.LawyerConnectionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	conn, err := uow.LawyerConnectionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, constant.MsgConnectionNotFound)
	}
	if conn.UserId != userId {
		return nil, fiber.NewError(fiber.StatusForbidden, constant.MsgNotAuthorized)
	}
	if !conn.Status.CanTransitionTo(entity.ConnectionStatusCancelled) {
		return nil, fiber.NewError(fiber.StatusBadRequest, constant.MsgInvalidTransition)
	}

	at := now()
	conn.Status = entity.ConnectionStatusCancelled
	conn.StatusChangedAt = &at
	if err := uow.LawyerConnectionRepository().Update(ctx, conn); err != nil {
		return nil, err
	}
	s.publish(ctx, events.ConnectionStatusMoved, conn)

	res := toConnectionResponse(conn)
	return &res, nil
}

func (s *lawyerService) RetryPendingHandoffs(ctx context.Context) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	pending, err := uow.LawyerConnectionRepository().FindAll(ctx, specification.AwaitingHandoff{})
	if err != nil {
		return 0, err
	}

	done := 0
	for _, conn := range pending {
		if ctx.Err() != nil {
			return done, ctx.Err()
		}
		if conn.SummaryId == nil {
			continue
		}
		summary, err := uow.SummaryRepository().FindOne(ctx, specification.ByID{ID: *conn.SummaryId})
		if err != nil || summary == nil {
			continue
		}
		conv, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: conn.ConversationId})
		if err != nil || conv == nil {
			continue
		}
		if err := s.handoff(ctx, uow, conn, conv, summary); err != nil {
			s.logger.Warn("Anwalt", "handoff retry failed", map[string]interface{}{"connection_id": conn.Id, "error": err})
			continue
		}
		done++
	}
	return done, nil
}
