package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"sumii-mobile-api/internal/constant"
	"sumii-mobile-api/internal/dto"
	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/pkg/logger"
	"sumii-mobile-api/internal/repository/scope"
	"sumii-mobile-api/internal/repository/specification"
	"sumii-mobile-api/internal/repository/unitofwork"
	"sumii-mobile-api/pkg/storage"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UploadInput describes one multipart file handed over by the controller.
type UploadInput struct {
	ConversationId uuid.UUID
	Filename       string
	ContentType    string
	Size           int64
	Body           io.Reader
}

type IDocumentService interface {
	Upload(ctx context.Context, userId uuid.UUID, in UploadInput) (*dto.DocumentResponse, error)
	Get(ctx context.Context, userId, id uuid.UUID) (*dto.DocumentResponse, error)
	List(ctx context.Context, userId, conversationId uuid.UUID) (*dto.DocumentListResponse, error)
	Delete(ctx context.Context, userId, id uuid.UUID) error
	RunOCR(ctx context.Context, userId, id uuid.UUID) (*dto.DocumentResponse, error)
}

type documentService struct {
	uowFactory unitofwork.RepositoryFactory
	store      storage.ObjectStore
	publisher  message.Publisher
	ocrService IOcrService
	logger     logger.ILogger
}

func NewDocumentService(uowFactory unitofwork.RepositoryFactory, store storage.ObjectStore, publisher message.Publisher, ocrService IOcrService, log logger.ILogger) IDocumentService {
	return &documentService{
		uowFactory: uowFactory,
		store:      store,
		publisher:  publisher,
		ocrService: ocrService,
		logger:     log,
	}
}

func documentKey(userId, conversationId, documentId uuid.UUID, filename string) string {
	return fmt.Sprintf("users/%s/conversations/%s/documents/%s/%s", userId, conversationId, documentId, filename)
}

// sanitizeFilename keeps the base name so a client cannot escape its key prefix.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "document"
	}
	return name
}

func normalizeContentType(ct string) string {
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

func (s *documentService) Upload(ctx context.Context, userId uuid.UUID, in UploadInput) (*dto.DocumentResponse, error) {
	if in.Size > constant.MaxUploadBytes {
		return nil, fiber.NewError(fiber.StatusRequestEntityTooLarge, constant.MsgFileTooLarge)
	}
	contentType := normalizeContentType(in.ContentType)
	if _, ok := constant.AllowedUploadTypes[contentType]; !ok {
		return nil, fiber.NewError(fiber.StatusBadRequest, constant.MsgUnsupportedFile)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := ownedConversation(ctx, uow, userId, in.ConversationId); err != nil {
		return nil, err
	}

	docId := uuid.New()
	filename := sanitizeFilename(in.Filename)
	key := documentKey(userId, in.ConversationId, docId, filename)

	if err := s.store.Put(ctx, key, in.Body, in.Size, contentType); err != nil {
		return nil, fmt.Errorf("upload document: %w", err)
	}
	url, err := s.store.PresignGet(ctx, key, storage.PresignExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign document: %w", err)
	}

	doc := &entity.Document{
		Id:             docId,
		ConversationId: in.ConversationId,
		UserId:         userId,
		Filename:       filename,
		FileType:       contentType,
		FileSize:       in.Size,
		S3Key:          key,
		S3Url:          url,
		UploadStatus:   entity.UploadStatusCompleted,
		OcrStatus:      entity.OcrStatusPending,
	}
	if err := uow.DocumentRepository().Create(ctx, doc); err != nil {
		_ = s.store.Delete(ctx, key)
		return nil, err
	}

	msg, err := newOcrJobMessage(doc.Id)
	if err == nil {
		err = s.publisher.Publish(constant.TopicOcrRequested, msg)
	}
	if err != nil {
		s.logger.Warn("Document", "failed to queue OCR", map[string]interface{}{"document_id": doc.Id, "error": err})
	}

	s.logger.Info("Document", "document uploaded", map[string]interface{}{"document_id": doc.Id, "size": doc.FileSize, "type": doc.FileType})
	res := toDocumentResponse(doc)
	return &res, nil
}

func (s *documentService) owned(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID) (*entity.Document, error) {
	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, constant.MsgDocumentNotFound)
	}
	if doc.UserId != userId {
		return nil, fiber.NewError(fiber.StatusForbidden, constant.MsgNotAuthorized)
	}
	return doc, nil
}

func (s *documentService) Get(ctx context.Context, userId, id uuid.UUID) (*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := s.owned(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}

	url, err := s.store.PresignGet(ctx, doc.S3Key, storage.PresignExpiry)
	if err != nil {
		s.logger.Warn("Document", "failed to refresh URL", map[string]interface{}{"document_id": doc.Id, "error": err})
	} else if url != doc.S3Url {
		doc.S3Url = url
		if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
			return nil, err
		}
	}

	res := toDocumentResponse(doc)
	return &res, nil
}

func (s *documentService) List(ctx context.Context, userId, conversationId uuid.UUID) (*dto.DocumentListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := ownedConversation(ctx, uow, userId, conversationId); err != nil {
		return nil, err
	}
	docs, err := uow.DocumentRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.Scoped{Fn: scope.Chronological},
	)
	if err != nil {
		return nil, err
	}
	return &dto.DocumentListResponse{Documents: toDocumentResponses(docs), Total: len(docs)}, nil
}

func (s *documentService) Delete(ctx context.Context, userId, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := s.owned(ctx, uow, userId, id)
	if err != nil {
		return err
	}
	if err := uow.DocumentRepository().Delete(ctx, doc.Id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, doc.S3Key); err != nil {
		s.logger.Warn("Document", "failed to delete object", map[string]interface{}{"key": doc.S3Key, "error": err})
	}
	return nil
}

func (s *documentService) RunOCR(ctx context.Context, userId, id uuid.UUID) (*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.owned(ctx, uow, userId, id); err != nil {
		return nil, err
	}
	doc, err := s.ocrService.Process(ctx, id)
	if err != nil {
		return nil, err
	}
	res := toDocumentResponse(doc)
	return &res, nil
}
