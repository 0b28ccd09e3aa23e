package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"sumii-mobile-api/internal/config"
	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/pkg/mistral"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthDegradesOnPingFailure(t *testing.T) {
	h := newHarness(t)
	registry := newTestRegistry(t, mistral.NewClient(mistral.Config{}))
	app := config.AppConfig{Environment: "test", Version: "1.2.3"}

	healthy := NewStatusService(h.uow, registry, func(context.Context) error { return nil }, app, h.log).Health(context.Background())
	assert.Equal(t, "healthy", healthy.Status)
	assert.Equal(t, "1.2.3", healthy.Version)
	assert.True(t, healthy.Agents["summary"])

	down := NewStatusService(h.uow, registry, func(context.Context) error { return errors.New("db down") }, app, h.log).Health(context.Background())
	assert.Equal(t, "degraded", down.Status)
}

func TestAgentsStatusWithoutConfiguration(t *testing.T) {
	h := newHarness(t)
	catalog, err := mistral.LoadCatalog()
	require.NoError(t, err)
	registry := NewAgentRegistry(mistral.NewClient(mistral.Config{}), catalog, nil, config.MistralConfig{}, h.log)
	svc := NewStatusService(h.uow, registry, nil, config.AppConfig{}, h.log)

	res := svc.Agents(context.Background())
	assert.Equal(t, 4, res.TotalAgents)
	assert.Zero(t, res.ReadyAgents)
	assert.False(t, res.AllReady)
	assert.False(t, res.MistralAPIConfigured)
	assert.Equal(t, "degraded", svc.Health(context.Background()).Status)
}

func TestConversationWorkflowProgress(t *testing.T) {
	h := newHarness(t)
	svc := NewStatusService(h.uow, newTestRegistry(t, mistral.NewClient(mistral.Config{})), nil, config.AppConfig{}, h.log)
	user := h.user(t, "anna@example.com")
	other := h.user(t, "ben@example.com")
	conv := h.conversation(t, user)
	h.message(t, conv, entity.MessageRoleUser, "Hallo")
	ctx := context.Background()

	res, err := svc.Conversation(ctx, user.Id, conv.Id)
	require.NoError(t, err)
	assert.Equal(t, "intake", res.NextAgent)
	assert.EqualValues(t, 1, res.WorkflowProgress.MessageCount)
	assert.False(t, res.WorkflowProgress.FactsComplete)

	fact := json.RawMessage(`{"value":"x","collected":true}`)
	conv.Facts = entity.Facts{Who: fact, What: fact, When: fact, Where: fact, Why: fact}
	require.NoError(t, h.uow.NewUnitOfWork(ctx).ConversationRepository().Update(ctx, conv))

	res, err = svc.Conversation(ctx, user.Id, conv.Id)
	require.NoError(t, err)
	assert.Equal(t, "reasoning", res.NextAgent)
	assert.True(t, res.WorkflowProgress.FactsComplete)
	assert.Equal(t, "Fehlende Details ergänzen", res.NextStep)

	_, err = svc.Conversation(ctx, other.Id, conv.Id)
	assert.Equal(t, fiber.StatusForbidden, fiberStatus(t, err))
}

func TestDetermineNextAgent(t *testing.T) {
	fact := json.RawMessage(`{"collected":true}`)
	full := entity.Facts{Who: fact, What: fact, When: fact, Where: fact, Why: fact}

	assert.Equal(t, entity.AgentIntake, DetermineNextAgent(&entity.Conversation{}))
	assert.Equal(t, entity.AgentReasoning, DetermineNextAgent(&entity.Conversation{Facts: full}))
	assert.Equal(t, entity.AgentSummary, DetermineNextAgent(&entity.Conversation{Facts: full, AnalysisDone: true}))
	assert.Equal(t, entity.AgentRouter, DetermineNextAgent(&entity.Conversation{SummaryGenerated: true}))
}

func TestBuildPromptAppendsDocumentText(t *testing.T) {
	text := "  Kündigung zum 31.03.  "
	empty := ""
	docs := []*entity.Document{
		{Filename: "kuendigung.pdf", OcrText: &text},
		{Filename: "leer.png", OcrText: &empty},
		{Filename: "pending.pdf"},
	}
	out := BuildPrompt("Was nun?", docs)
	assert.Equal(t, "Was nun?\n\n[Hochgeladene Dokumente]\n--- Dokument: kuendigung.pdf ---\nKündigung zum 31.03.", out)
	assert.Equal(t, "Was nun?", BuildPrompt("Was nun?", docs[1:]))
}
