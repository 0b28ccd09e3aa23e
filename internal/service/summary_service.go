package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"sumii-mobile-api/internal/constant"
	"sumii-mobile-api/internal/dto"
	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/pkg/logger"
	"sumii-mobile-api/internal/repository/scope"
	"sumii-mobile-api/internal/repository/specification"
	"sumii-mobile-api/internal/repository/unitofwork"
	"sumii-mobile-api/pkg/events"
	"sumii-mobile-api/pkg/mistral"
	"sumii-mobile-api/pkg/pdf"
	"sumii-mobile-api/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

const (
	generateSummaryFunction = "generate_summary"
	minSummaryLength        = 50
)

type ISummaryService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.SummaryCreateRequest) (*dto.SummaryResponse, error)
	GetByConversation(ctx context.Context, userId, conversationId uuid.UUID) (*dto.SummaryResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]dto.SummaryResponse, error)
	PdfURL(ctx context.Context, userId, id uuid.UUID) (*dto.SummaryPdfResponse, error)
}

type summaryService struct {
	uowFactory unitofwork.RepositoryFactory
	registry   IAgentRegistry
	client     *mistral.Client
	store      storage.ObjectStore
	bus        events.Bus
	logger     logger.ILogger
}

func NewSummaryService(uowFactory unitofwork.RepositoryFactory, registry IAgentRegistry, client *mistral.Client, store storage.ObjectStore, bus events.Bus, log logger.ILogger) ISummaryService {
	return &summaryService{
		uowFactory: uowFactory,
		registry:   registry,
		client:     client,
		store:      store,
		bus:        bus,
		logger:     log,
	}
}

type summaryMetadata struct {
	LegalArea entity.LegalArea
	Urgency   entity.Urgency
}

// summaryContext renders the transcript and the collected facts as the summary agent's input.
func summaryContext(conv *entity.Conversation, messages []*entity.Message) string {
	title := "Rechtliche Beratung"
	if conv.Title != nil && *conv.Title != "" {
		title = *conv.Title
	}
	area := "Nicht spezifiziert"
	if conv.LegalArea != nil {
		area = string(*conv.LegalArea)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Konversation: %s\nRechtsgebiet: %s\n\nKonversationsverlauf:\n", title, area)
	for _, m := range messages {
		label := "Assistent"
		if m.Role == entity.MessageRoleUser {
			label = "Benutzer"
		}
		fmt.Fprintf(&sb, "%s: %s\n", label, m.Content)
	}

	facts := []struct {
		label string
		value []byte
	}{
		{"Wer", conv.Facts.Who},
		{"Was", conv.Facts.What},
		{"Wann", conv.Facts.When},
		{"Wo", conv.Facts.Where},
		{"Warum", conv.Facts.Why},
	}
	header := false
	for _, f := range facts {
		if len(f.value) == 0 || string(f.value) == "null" {
			continue
		}
		if !header {
			sb.WriteString("\nGesammelte Fakten (5W):\n")
			header = true
		}
		fmt.Fprintf(&sb, "%s: %s\n", f.label, f.value)
	}

	sb.WriteString("\nBitte erstelle eine vollständige Zusammenfassung im Markdown-Format auf Basis des Verlaufs und der Fakten. ")
	sb.WriteString("Nutze dafür die Funktion generate_summary mit dem Markdown-Text und den Metadaten.")
	return sb.String()
}

// extractSummary reads the generate_summary call, falling back to plain message text.
func extractSummary(resp *mistral.ConversationResponse) (string, summaryMetadata, error) {
	var meta summaryMetadata
	if call, ok := resp.FunctionCall(generateSummaryFunction); ok {
		args := gjson.Parse(call.Arguments)
		markdown := args.Get("markdown_content").String()
		meta.LegalArea = entity.LegalArea(args.Get("metadata.legal_area").String())
		meta.Urgency = entity.Urgency(args.Get("metadata.urgency").String())
		if strings.TrimSpace(markdown) != "" {
			return markdown, meta, nil
		}
	}
	if text := resp.Text(); len(strings.TrimSpace(text)) > minSummaryLength {
		return text, meta, nil
	}
	return "", meta, errors.New("could not extract markdown content from agent response")
}

func (s *summaryService) Create(ctx context.Context, userId uuid.UUID, req *dto.SummaryCreateRequest) (*dto.SummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	conv, err := ownedConversation(ctx, uow, userId, req.ConversationId)
	if err != nil {
		return nil, err
	}

	existing, err := uow.SummaryRepository().FindOne(ctx, specification.ByConversationID{ConversationID: conv.Id})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, constant.MsgSummaryExists)
	}

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conv.Id},
		specification.Scoped{Fn: scope.Chronological},
	)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, constant.MsgNoMessages)
	}

	agentId, err := s.registry.Resolve(ctx, string(entity.AgentSummary))
	if err != nil {
		if errors.Is(err, ErrAgentsUnavailable) {
			return nil, fiber.NewError(fiber.StatusServiceUnavailable, constant.MsgAgentUnavailable)
		}
		return nil, err
	}

	resp, err := s.client.Run(ctx, agentId, summaryContext(conv, messages))
	if err != nil {
		return nil, fmt.Errorf("summary generation failed: %w", err)
	}
	markdown, meta, err := extractSummary(resp)
	if err != nil {
		return nil, err
	}

	summary := &entity.Summary{
		Id:              uuid.New(),
		ConversationId:  conv.Id,
		UserId:          userId,
		MarkdownContent: markdown,
		LegalArea:       entity.LegalAreaMietrecht,
		CaseStrength:    entity.CaseStrengthMedium,
		Urgency:         entity.UrgencyWeeks,
	}
	switch {
	case meta.LegalArea.Valid():
		summary.LegalArea = meta.LegalArea
	case conv.LegalArea != nil:
		summary.LegalArea = *conv.LegalArea
	}
	if conv.CaseStrength != nil {
		summary.CaseStrength = *conv.CaseStrength
	}
	switch {
	case meta.Urgency.Valid():
		summary.Urgency = meta.Urgency
	case conv.Urgency != nil:
		summary.Urgency = *conv.Urgency
	}
	summary.ReferenceNumber = ReferenceNumber(summary.Id, now())

	pdfBytes, err := pdf.Render(markdown, summary.ReferenceNumber)
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	mdKey := fmt.Sprintf("summaries/%s.md", summary.ReferenceNumber)
	pdfKey := fmt.Sprintf("summaries/%s.pdf", summary.ReferenceNumber)
	if err := s.store.Put(ctx, mdKey, strings.NewReader(markdown), int64(len(markdown)), "text/markdown"); err != nil {
		return nil, fmt.Errorf("store markdown: %w", err)
	}
	if err := s.store.Put(ctx, pdfKey, bytes.NewReader(pdfBytes), int64(len(pdfBytes)), "application/pdf"); err != nil {
		return nil, fmt.Errorf("store pdf: %w", err)
	}
	pdfURL, err := s.store.PresignGet(ctx, pdfKey, storage.PresignExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign pdf: %w", err)
	}
	summary.MarkdownS3Key = &mdKey
	summary.PdfS3Key = pdfKey
	summary.PdfUrl = pdfURL

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.SummaryRepository().Create(ctx, summary); err != nil {
		return nil, err
	}
	conv.SummaryGenerated = true
	if conv.Status == entity.ConversationStatusActive {
		conv.Status = entity.ConversationStatusCompleted
	}
	if err := uow.ConversationRepository().Update(ctx, conv); err != nil {
		return nil, err
	}
	if err := uow.MessageRepository().Create(ctx, &entity.Message{
		Id:             uuid.New(),
		ConversationId: conv.Id,
		Role:           entity.MessageRoleAssistant,
		Content:        fmt.Sprintf(constant.SummaryMessagePattern, utf8.RuneCountInString(markdown)),
		AgentName:      strPtr(string(entity.AgentSummary)),
	}); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	event := events.New(events.SummaryReady, map[string]interface{}{
		"summary_id":       summary.Id.String(),
		"conversation_id":  conv.Id.String(),
		"user_id":          userId.String(),
		"reference_number": summary.ReferenceNumber,
	})
	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.Warn("Summary", "failed to publish summary.ready", map[string]interface{}{"summary_id": summary.Id, "error": err})
	}

	s.logger.Info("Summary", "summary generated", map[string]interface{}{"summary_id": summary.Id, "reference": summary.ReferenceNumber})
	res := toSummaryResponse(summary)
	return &res, nil
}

func (s *summaryService) refreshURL(ctx context.Context, summary *entity.Summary) {
	if summary.PdfS3Key == "" {
		return
	}
	url, err := s.store.PresignGet(ctx, summary.PdfS3Key, storage.PresignExpiry)
	if err != nil {
		s.logger.Warn("Summary", "failed to refresh pdf url", map[string]interface{}{"summary_id": summary.Id, "error": err})
		return
	}
	summary.PdfUrl = url
}

func (s *summaryService) GetByConversation(ctx context.Context, userId, conversationId uuid.UUID) (*dto.SummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := ownedConversation(ctx, uow, userId, conversationId); err != nil {
		return nil, err
	}
	summary, err := uow.SummaryRepository().FindOne(ctx, specification.ByConversationID{ConversationID: conversationId})
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, constant.MsgSummaryNotFound)
	}
	s.refreshURL(ctx, summary)
	res := toSummaryResponse(summary)
	return &res, nil
}

func (s *summaryService) List(ctx context.Context, userId uuid.UUID) ([]dto.SummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	items, err := uow.SummaryRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.Scoped{Fn: scope.NewestFirst},
	)
	if err != nil {
		return nil, err
	}
	return toSummaryResponses(items), nil
}

func (s *summaryService) PdfURL(ctx context.Context, userId, id uuid.UUID) (*dto.SummaryPdfResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	summary, err := uow.SummaryRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, constant.MsgSummaryNotFound)
	}
	if summary.UserId != userId {
		return nil, fiber.NewError(fiber.StatusForbidden, constant.MsgNotAuthorized)
	}

	url, err := s.store.PresignGet(ctx, summary.PdfS3Key, storage.PresignExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign pdf: %w", err)
	}
	return &dto.SummaryPdfResponse{PdfUrl: url, ExpiresIn: constant.PresignExpirySeconds}, nil
}
