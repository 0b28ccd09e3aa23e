package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sumii-mobile-api/internal/config"
	"sumii-mobile-api/internal/constant"
	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/pkg/logger"
	"sumii-mobile-api/internal/repository/specification"
	"sumii-mobile-api/internal/repository/unitofwork"
	"sumii-mobile-api/pkg/events"
	"sumii-mobile-api/pkg/mistral"
	"sumii-mobile-api/pkg/pdf"
	"sumii-mobile-api/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const imageTextPrompt = "Extrahiere den vollständigen Text aus diesem Bild. Beschreibe zusätzlich kurz, was auf dem Bild zu sehen ist, falls es keinen Text enthält."

var errNoText = errors.New("no text extracted")

type IOcrService interface {
	Process(ctx context.Context, documentId uuid.UUID) (*entity.Document, error)
}

type ocrService struct {
	uowFactory unitofwork.RepositoryFactory
	store      storage.ObjectStore
	client     *mistral.Client
	bus        events.Bus
	cfg        config.MistralConfig
	logger     logger.ILogger
}

func NewOcrService(uowFactory unitofwork.RepositoryFactory, store storage.ObjectStore, client *mistral.Client, bus events.Bus, cfg config.MistralConfig, log logger.ILogger) IOcrService {
	return &ocrService{
		uowFactory: uowFactory,
		store:      store,
		client:     client,
		bus:        bus,
		cfg:        cfg,
		logger:     log,
	}
}

// Process extracts the text of a stored document and records the outcome on the row.
func (s *ocrService) Process(ctx context.Context, documentId uuid.UUID) (*entity.Document, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: documentId})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, constant.MsgDocumentNotFound)
	}

	doc.OcrStatus = entity.OcrStatusProcessing
	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		return nil, err
	}

	text, extractErr := s.extract(ctx, doc)
	if extractErr != nil {
		doc.OcrStatus = entity.OcrStatusFailed
		s.logger.Warn("OCR", "text extraction failed", map[string]interface{}{"document_id": doc.Id, "error": extractErr})
	} else {
		doc.OcrStatus = entity.OcrStatusCompleted
		doc.OcrText = &text
	}
	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		return nil, err
	}

	event := events.New(events.DocumentOcrCompleted, map[string]interface{}{
		"document_id":     doc.Id.String(),
		"conversation_id": doc.ConversationId.String(),
		"user_id":         doc.UserId.String(),
		"ocr_status":      string(doc.OcrStatus),
	})
	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.Warn("OCR", "failed to publish completion", map[string]interface{}{"document_id": doc.Id, "error": err})
	}

	s.logger.Info("OCR", "document processed", map[string]interface{}{"document_id": doc.Id, "status": doc.OcrStatus, "chars": len(text)})
	return doc, nil
}

func (s *ocrService) extract(ctx context.Context, doc *entity.Document) (string, error) {
	data, err := s.store.Get(ctx, doc.S3Key)
	if err != nil {
		return "", fmt.Errorf("fetch object: %w", err)
	}

	if constant.AllowedUploadTypes[doc.FileType] == "pdf" {
		return s.extractPDF(ctx, doc, data)
	}
	return s.extractImage(ctx, doc, data)
}

// extractPDF prefers the vendor OCR and falls back to the embedded text layer.
func (s *ocrService) extractPDF(ctx context.Context, doc *entity.Document, data []byte) (string, error) {
	if s.client.Configured() {
		text, err := s.client.OCR(ctx, s.cfg.OCRModel, doc.FileType, data)
		if err == nil && strings.TrimSpace(text) != "" {
			return text, nil
		}
		s.logger.Warn("OCR", "vendor OCR unavailable, using text layer", map[string]interface{}{"document_id": doc.Id, "error": err})
	}

	text, err := pdf.ExtractText(data)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", errNoText
	}
	return text, nil
}

func (s *ocrService) extractImage(ctx context.Context, doc *entity.Document, data []byte) (string, error) {
	if !s.client.Configured() {
		return "", errors.New("mistral api key not configured")
	}

	text, err := s.client.DescribeImage(ctx, s.cfg.VisionModel, imageTextPrompt, doc.FileType, data)
	if err == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}
	s.logger.Warn("OCR", "vision model failed, trying OCR endpoint", map[string]interface{}{"document_id": doc.Id, "error": err})

	text, err = s.client.OCR(ctx, s.cfg.OCRModel, doc.FileType, data)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", errNoText
	}
	return text, nil
}
