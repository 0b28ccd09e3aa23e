package handler

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"sumii-mobile-api/internal/config"
	"sumii-mobile-api/internal/constant"
	"sumii-mobile-api/internal/dto"
	"sumii-mobile-api/internal/service"

	fws "github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoChat answers every message with a single message_complete frame.
type echoChat struct {
	mu       sync.Mutex
	received []string
}

func (c *echoChat) HandleMessage(_ context.Context, _, _ uuid.UUID, frame dto.ChatClientFrame, emit service.FrameSink) error {
	c.mu.Lock()
	c.received = append(c.received, frame.Content)
	c.mu.Unlock()
	return emit(dto.ChatServerFrame{Type: constant.FrameMessageComplete, Content: "echo: " + frame.Content, Agent: "intake"})
}

// failingChat reports an internal failure.
type failingChat struct{}

func (failingChat) HandleMessage(context.Context, uuid.UUID, uuid.UUID, dto.ChatClientFrame, service.FrameSink) error {
	return errors.New("db gone")
}

func startChat(t *testing.T, f *fixture, chat service.IChatService, limits config.RateLimitConfig) string {
	t.Helper()
	app := newApp(f)
	NewChatHandler(testSecret, f.users, f.conversations, chat, limits, f.log).RegisterRoutes(app)
	return serve(t, app)
}

func dial(t *testing.T, addr, convId, token string) *fws.Conn {
	t.Helper()
	conn, _, err := fws.DefaultDialer.Dial("ws://"+addr+"/ws/chat/"+convId+"?token="+token, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func closeCode(t *testing.T, conn *fws.Conn) int {
	t.Helper()
	_, _, err := conn.ReadMessage()
	var ce *fws.CloseError
	require.True(t, errors.As(err, &ce), "expected close error, got %v", err)
	return ce.Code
}

var generous = config.RateLimitConfig{ChatPerSecond: 100, ChatBurst: 100}

func TestChatSocketRejections(t *testing.T) {
	f := newFixture(t)
	owner, ownerToken := f.user(t, "anna@example.com", true)
	_, otherToken := f.user(t, "ben@example.com", true)
	conv := f.conversation(t, owner)
	addr := startChat(t, f, &echoChat{}, generous)

	cases := []struct {
		name   string
		convId string
		token  string
		code   int
	}{
		{"bad token", conv.Id.String(), "garbage", constant.ClosePolicyViolation},
		{"foreign conversation", conv.Id.String(), otherToken, constant.ClosePolicyViolation},
		{"malformed id", "not-a-uuid", ownerToken, constant.CloseUnsupportedData},
		{"missing conversation", uuid.NewString(), ownerToken, constant.CloseUnsupportedData},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			conn := dial(t, addr, tc.convId, tc.token)
			assert.Equal(t, tc.code, closeCode(t, conn))
		})
	}
}

func TestChatSocketRejectsInactiveUser(t *testing.T) {
	f := newFixture(t)
	owner, token := f.user(t, "anna@example.com", false)
	conv := f.conversation(t, owner)
	addr := startChat(t, f, &echoChat{}, generous)

	conn := dial(t, addr, conv.Id.String(), token)
	assert.Equal(t, constant.ClosePolicyViolation, closeCode(t, conn))
}

func TestChatSocketRelaysMessages(t *testing.T) {
	f := newFixture(t)
	owner, token := f.user(t, "anna@example.com", true)
	conv := f.conversation(t, owner)
	chat := &echoChat{}
	addr := startChat(t, f, chat, generous)

	conn := dial(t, addr, conv.Id.String(), token)
	require.NoError(t, conn.WriteJSON(dto.ChatClientFrame{Type: "message", Content: "Hallo"}))

	var frame dto.ChatServerFrame
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, constant.FrameMessageComplete, frame.Type)
	assert.Equal(t, "echo: Hallo", frame.Content)

	require.NoError(t, conn.WriteMessage(fws.TextMessage, []byte("{not json")))
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, constant.FrameError, frame.Type)
	assert.Equal(t, constant.ErrCodeInvalidMessageType, frame.Code)
}

func TestChatSocketRateLimit(t *testing.T) {
	f := newFixture(t)
	owner, token := f.user(t, "anna@example.com", true)
	conv := f.conversation(t, owner)
	addr := startChat(t, f, &echoChat{}, config.RateLimitConfig{ChatPerSecond: 0.001, ChatBurst: 1})

	conn := dial(t, addr, conv.Id.String(), token)
	require.NoError(t, conn.WriteJSON(dto.ChatClientFrame{Type: "message", Content: "eins"}))
	require.NoError(t, conn.WriteJSON(dto.ChatClientFrame{Type: "message", Content: "zwei"}))

	codes := map[string]bool{}
	for i := 0; i < 2; i++ {
		var frame dto.ChatServerFrame
		require.NoError(t, conn.ReadJSON(&frame))
		codes[frame.Type+"/"+frame.Code] = true
	}
	assert.True(t, codes[constant.FrameMessageComplete+"/"])
	assert.True(t, codes[constant.FrameError+"/"+constant.ErrCodeRateLimited])
}

func TestChatSocketReportsInternalErrors(t *testing.T) {
	f := newFixture(t)
	owner, token := f.user(t, "anna@example.com", true)
	conv := f.conversation(t, owner)
	addr := startChat(t, f, failingChat{}, generous)

	conn := dial(t, addr, conv.Id.String(), token)
	require.NoError(t, conn.WriteJSON(dto.ChatClientFrame{Type: "message", Content: "Hallo"}))

	var frame dto.ChatServerFrame
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, constant.ErrCodeInternal, frame.Code)
}

func TestChatRouteRequiresUpgrade(t *testing.T) {
	f := newFixture(t)
	app := newApp(f)
	NewChatHandler(testSecret, f.users, f.conversations, &echoChat{}, generous, f.log).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/ws/chat/"+uuid.NewString(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}
