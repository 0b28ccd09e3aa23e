package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/repository/specification"
	"sumii-mobile-api/pkg/mistral"
	"sumii-mobile-api/pkg/pdf"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDocumentFixture(t *testing.T) (*harness, IDocumentService, IOcrService) {
	t.Helper()
	h := newHarness(t)
	ocr := NewOcrService(h.uow, h.store, mistral.NewClient(mistral.Config{}), h.bus, testAgents(), h.log)
	return h, NewDocumentService(h.uow, h.store, h.pubSub, ocr, h.log), ocr
}

func TestUploadValidation(t *testing.T) {
	h, svc, _ := newDocumentFixture(t)
	user := h.user(t, "anna@example.com")
	conv := h.conversation(t, user)
	ctx := context.Background()

	_, err := svc.Upload(ctx, user.Id, UploadInput{ConversationId: conv.Id, Filename: "big.pdf", ContentType: "application/pdf", Size: 11 * 1024 * 1024, Body: strings.NewReader("")})
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, fiberStatus(t, err))

	_, err = svc.Upload(ctx, user.Id, UploadInput{ConversationId: conv.Id, Filename: "a.exe", ContentType: "application/octet-stream", Size: 3, Body: strings.NewReader("abc")})
	assert.Equal(t, fiber.StatusBadRequest, fiberStatus(t, err))

	_, err = svc.Upload(ctx, user.Id, UploadInput{ConversationId: uuid.New(), Filename: "a.pdf", ContentType: "application/pdf", Size: 3, Body: strings.NewReader("abc")})
	assert.Equal(t, fiber.StatusNotFound, fiberStatus(t, err))
}

func TestUploadRunsOcrInBackground(t *testing.T) {
	h, svc, ocr := newDocumentFixture(t)
	user := h.user(t, "anna@example.com")
	conv := h.conversation(t, user)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, NewOcrConsumer(h.pubSub, ocr, h.log).Consume(ctx))

	data, err := pdf.Render("# Mietvertrag\n\nSchimmel im Bad seit Januar.", "SUM-20250101-AAAAA")
	require.NoError(t, err)

	doc, err := svc.Upload(ctx, user.Id, UploadInput{
		ConversationId: conv.Id,
		Filename:       "../../etc/Mietvertrag.pdf",
		ContentType:    "application/pdf; charset=binary",
		Size:           int64(len(data)),
		Body:           bytes.NewReader(data),
	})
	require.NoError(t, err)
	assert.Equal(t, "Mietvertrag.pdf", doc.Filename)
	assert.Equal(t, "application/pdf", doc.FileType)
	assert.True(t, strings.HasPrefix(doc.S3Key, "users/"+user.Id.String()+"/conversations/"+conv.Id.String()+"/documents/"))
	assert.True(t, h.store.Has(doc.S3Key))
	assert.Equal(t, "pending", doc.OcrStatus)

	repo := h.uow.NewUnitOfWork(ctx).DocumentRepository()
	require.Eventually(t, func() bool {
		stored, err := repo.FindOne(ctx, specification.ByID{ID: doc.Id})
		return err == nil && stored != nil && stored.OcrStatus == entity.OcrStatusCompleted
	}, 5*time.Second, 20*time.Millisecond)

	stored, err := repo.FindOne(ctx, specification.ByID{ID: doc.Id})
	require.NoError(t, err)
	require.NotNil(t, stored.OcrText)
	assert.Contains(t, *stored.OcrText, "Schimmel")
}

func TestOcrFailsForUnreadableImage(t *testing.T) {
	h, svc, ocr := newDocumentFixture(t)
	user := h.user(t, "anna@example.com")
	conv := h.conversation(t, user)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, user.Id, UploadInput{ConversationId: conv.Id, Filename: "foto.png", ContentType: "image/png", Size: 4, Body: strings.NewReader("\x89PNG")})
	require.NoError(t, err)

	processed, err := ocr.Process(ctx, doc.Id)
	require.NoError(t, err)
	assert.Equal(t, entity.OcrStatusFailed, processed.OcrStatus)
	assert.Nil(t, processed.OcrText)
}

func TestDeleteDocument(t *testing.T) {
	h, svc, _ := newDocumentFixture(t)
	user := h.user(t, "anna@example.com")
	other := h.user(t, "ben@example.com")
	conv := h.conversation(t, user)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, user.Id, UploadInput{ConversationId: conv.Id, Filename: "a.pdf", ContentType: "application/pdf", Size: 3, Body: strings.NewReader("abc")})
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusForbidden, fiberStatus(t, svc.Delete(ctx, other.Id, doc.Id)))
	require.NoError(t, svc.Delete(ctx, user.Id, doc.Id))
	assert.False(t, h.store.Has(doc.S3Key))

	list, err := svc.List(ctx, user.Id, conv.Id)
	require.NoError(t, err)
	assert.Zero(t, list.Total)
}
