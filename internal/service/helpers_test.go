package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"sumii-mobile-api/internal/config"
	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/pkg/logger"
	"sumii-mobile-api/internal/pkg/testdb"
	"sumii-mobile-api/internal/repository/unitofwork"
	"sumii-mobile-api/pkg/events"
	"sumii-mobile-api/pkg/mistral"
	"sumii-mobile-api/pkg/storage"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/require"
)

type harness struct {
	uow    unitofwork.RepositoryFactory
	store  *storage.MemoryStore
	pubSub *gochannel.GoChannel
	bus    events.Bus
	log    logger.ILogger
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })
	return &harness{
		uow:    unitofwork.NewRepositoryFactory(testdb.New(t)),
		store:  storage.NewMemoryStore("https://files.test"),
		pubSub: pubSub,
		bus:    events.NewChannelBus(pubSub),
		log:    logger.NewNopLogger(),
	}
}

func (h *harness) user(t *testing.T, email string) *entity.User {
	t.Helper()
	u := &entity.User{Email: email, IsActive: true, Language: "de"}
	require.NoError(t, h.uow.NewUnitOfWork(context.Background()).UserRepository().Create(context.Background(), u))
	return u
}

func (h *harness) conversation(t *testing.T, owner *entity.User) *entity.Conversation {
	t.Helper()
	router := entity.AgentRouter
	c := &entity.Conversation{UserId: owner.Id, Status: entity.ConversationStatusActive, CurrentAgent: &router}
	require.NoError(t, h.uow.NewUnitOfWork(context.Background()).ConversationRepository().Create(context.Background(), c))
	return c
}

func (h *harness) message(t *testing.T, conv *entity.Conversation, role entity.MessageRole, content string) *entity.Message {
	t.Helper()
	m := &entity.Message{ConversationId: conv.Id, Role: role, Content: content}
	require.NoError(t, h.uow.NewUnitOfWork(context.Background()).MessageRepository().Create(context.Background(), m))
	return m
}

// recordedRequest is one call the fake vendor received.
type recordedRequest struct {
	Path string
	Body string
}

// fakeMistral answers successive requests with the queued bodies, repeating the last one.
type fakeMistral struct {
	mu       sync.Mutex
	bodies   []string
	requests []recordedRequest
}

func (f *fakeMistral) Requests() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func newFakeMistral(t *testing.T, contentType string, bodies ...string) (*fakeMistral, *mistral.Client) {
	t.Helper()
	f := &fakeMistral{bodies: bodies}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		idx := len(f.requests)
		f.requests = append(f.requests, recordedRequest{Path: r.URL.Path, Body: string(raw)})
		if idx >= len(f.bodies) {
			idx = len(f.bodies) - 1
		}
		body := f.bodies[idx]
		f.mu.Unlock()

		w.Header().Set("Content-Type", contentType)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return f, mistral.NewClient(mistral.Config{APIKey: "test-key", BaseURL: srv.URL})
}

func testAgents() config.MistralConfig {
	return config.MistralConfig{
		APIKey:      "test-key",
		AgentModel:  "mistral-medium-latest",
		VisionModel: "pixtral-large-latest",
		OCRModel:    "mistral-ocr-latest",
		Agents: map[string]string{
			"router":    "ag_router",
			"intake":    "ag_intake",
			"reasoning": "ag_reasoning",
			"summary":   "ag_summary",
		},
	}
}

func newTestRegistry(t *testing.T, client *mistral.Client) IAgentRegistry {
	t.Helper()
	catalog, err := mistral.LoadCatalog()
	require.NoError(t, err)
	return NewAgentRegistry(client, catalog, nil, testAgents(), logger.NewNopLogger())
}
