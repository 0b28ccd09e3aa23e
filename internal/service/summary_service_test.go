package service

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"sumii-mobile-api/internal/dto"
	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/repository/specification"
	"sumii-mobile-api/pkg/events"
	"sumii-mobile-api/pkg/pdf"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const summaryRunBody = `{
	"conversation_id": "conv_sum",
	"outputs": [
		{"type": "function.call", "name": "generate_summary", "tool_call_id": "call_s",
		 "arguments": "{\"markdown_content\":\"# Fallzusammenfassung\\n\\nSchimmel im Schlafzimmer seit Januar 2025.\",\"metadata\":{\"legal_area\":\"Mietrecht\",\"urgency\":\"immediate\"}}"}
	]
}`

func TestReferenceNumberFormat(t *testing.T) {
	id := uuid.UUID{0x00, 0x01, 0x1A, 0x03, 0x1C, 0xFF}
	at := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "SUM-20250309-A1A3C", ReferenceNumber(id, at))

	pattern := regexp.MustCompile(`^SUM-\d{8}-[A-Z0-9]{5}$`)
	for i := 0; i < 20; i++ {
		assert.Regexp(t, pattern, ReferenceNumber(uuid.New(), at))
	}
}

func TestCreateSummaryStoresArtifacts(t *testing.T) {
	h := newHarness(t)
	fake, client := newFakeMistral(t, "application/json", summaryRunBody)
	svc := NewSummaryService(h.uow, newTestRegistry(t, client), client, h.store, h.bus, h.log)

	user := h.user(t, "anna@example.com")
	conv := h.conversation(t, user)
	h.message(t, conv, entity.MessageRoleUser, "In meiner Wohnung ist Schimmel.")
	h.message(t, conv, entity.MessageRoleAssistant, "Seit wann besteht der Schimmel?")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ready := make(chan events.Event, 1)
	require.NoError(t, h.bus.Subscribe(ctx, "test", func(ctx context.Context, e events.Event) error {
		if e.EventType() == events.SummaryReady {
			ready <- e
		}
		return nil
	}))

	res, err := svc.Create(ctx, user.Id, &dto.SummaryCreateRequest{ConversationId: conv.Id})
	require.NoError(t, err)

	assert.Regexp(t, `^SUM-\d{8}-[A-Z0-9]{5}$`, res.ReferenceNumber)
	assert.Equal(t, "Mietrecht", res.LegalArea)
	assert.Equal(t, "immediate", res.Urgency)
	assert.Equal(t, "medium", res.CaseStrength)
	assert.True(t, strings.HasPrefix(res.MarkdownContent, "# Fallzusammenfassung"))
	require.NotNil(t, res.MarkdownS3Key)
	assert.True(t, h.store.Has(*res.MarkdownS3Key))

	pdfBytes, err := h.store.Get(ctx, res.PdfS3Key)
	require.NoError(t, err)
	text, err := pdf.ExtractText(pdfBytes)
	require.NoError(t, err)
	assert.Contains(t, text, "Schimmel")

	reqs := fake.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "ag_summary", gjson.Get(reqs[0].Body, "agent_id").String())
	assert.Contains(t, gjson.Get(reqs[0].Body, "inputs").String(), "Benutzer: In meiner Wohnung ist Schimmel.")

	select {
	case e := <-ready:
		assert.Equal(t, res.ReferenceNumber, events.String(e, "reference_number"))
		assert.Equal(t, user.Id.String(), events.String(e, "user_id"))
	case <-time.After(2 * time.Second):
		t.Fatal("summary.ready was not published")
	}

	uow := h.uow.NewUnitOfWork(ctx)
	stored, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: conv.Id})
	require.NoError(t, err)
	assert.True(t, stored.SummaryGenerated)
	assert.Equal(t, entity.ConversationStatusCompleted, stored.Status)

	count, err := uow.MessageRepository().Count(ctx, specification.ByConversationID{ConversationID: conv.Id})
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	_, err = svc.Create(ctx, user.Id, &dto.SummaryCreateRequest{ConversationId: conv.Id})
	assert.Equal(t, fiber.StatusBadRequest, fiberStatus(t, err))
}

func TestCreateSummaryRequiresMessages(t *testing.T) {
	h := newHarness(t)
	_, client := newFakeMistral(t, "application/json", summaryRunBody)
	svc := NewSummaryService(h.uow, newTestRegistry(t, client), client, h.store, h.bus, h.log)

	user := h.user(t, "anna@example.com")
	conv := h.conversation(t, user)

	_, err := svc.Create(context.Background(), user.Id, &dto.SummaryCreateRequest{ConversationId: conv.Id})
	assert.Equal(t, fiber.StatusBadRequest, fiberStatus(t, err))
}

func TestSummaryAccessIsScopedToOwner(t *testing.T) {
	h := newHarness(t)
	_, client := newFakeMistral(t, "application/json", summaryRunBody)
	svc := NewSummaryService(h.uow, newTestRegistry(t, client), client, h.store, h.bus, h.log)

	user := h.user(t, "anna@example.com")
	other := h.user(t, "ben@example.com")
	conv := h.conversation(t, user)
	h.message(t, conv, entity.MessageRoleUser, "Mein Arbeitgeber zahlt nicht.")

	ctx := context.Background()
	res, err := svc.Create(ctx, user.Id, &dto.SummaryCreateRequest{ConversationId: conv.Id})
	require.NoError(t, err)

	got, err := svc.GetByConversation(ctx, user.Id, conv.Id)
	require.NoError(t, err)
	assert.Equal(t, res.Id, got.Id)
	assert.NotEmpty(t, got.PdfUrl)

	_, err = svc.GetByConversation(ctx, other.Id, conv.Id)
	assert.Equal(t, fiber.StatusForbidden, fiberStatus(t, err))

	_, err = svc.PdfURL(ctx, other.Id, res.Id)
	assert.Equal(t, fiber.StatusForbidden, fiberStatus(t, err))

	pdfRes, err := svc.PdfURL(ctx, user.Id, res.Id)
	require.NoError(t, err)
	assert.Equal(t, 604800, pdfRes.ExpiresIn)

	list, err := svc.List(ctx, other.Id)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestExtractSummaryFallsBackToText(t *testing.T) {
	long := strings.Repeat("Der Mieter meldet Schimmel. ", 5)
	_, client := newFakeMistral(t, "application/json", `{"outputs":[{"type":"message.output","content":"`+long+`"}]}`)
	resp, err := client.Run(context.Background(), "ag_summary", "x")
	require.NoError(t, err)

	markdown, meta, err := extractSummary(resp)
	require.NoError(t, err)
	assert.Equal(t, long, markdown)
	assert.False(t, meta.LegalArea.Valid())

	_, client = newFakeMistral(t, "application/json", `{"outputs":[{"type":"message.output","content":"kurz"}]}`)
	resp, err = client.Run(context.Background(), "ag_summary", "x")
	require.NoError(t, err)
	_, _, err = extractSummary(resp)
	assert.Error(t, err)
}
