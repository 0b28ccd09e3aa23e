package handler

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"sumii-mobile-api/internal/config"
	"sumii-mobile-api/internal/constant"
	"sumii-mobile-api/internal/dto"
	"sumii-mobile-api/internal/pkg/logger"
	"sumii-mobile-api/internal/pkg/serverutils"
	"sumii-mobile-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	inboxSize      = 8
)

type ChatHandler struct {
	secret        string
	users         service.IUserService
	conversations service.IConversationService
	chat          service.IChatService
	limits        config.RateLimitConfig
	logger        logger.ILogger
}

func NewChatHandler(secret string, users service.IUserService, conversations service.IConversationService, chat service.IChatService, limits config.RateLimitConfig, log logger.ILogger) *ChatHandler {
	return &ChatHandler{secret: secret, users: users, conversations: conversations, chat: chat, limits: limits, logger: log}
}

func (h *ChatHandler) RegisterRoutes(app fiber.Router) {
	app.Get("/ws/chat/:conversation_id", h.Upgrade)
}

func (h *ChatHandler) Upgrade(ctx *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}
	return websocket.New(h.serve, websocket.Config{ReadBufferSize: 4096, WriteBufferSize: 4096})(ctx)
}

// session serialises writes to one socket.
type session struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *session) send(frame dto.ChatServerFrame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(frame)
}

func (s *session) ping() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.PingMessage, nil)
}

func (s *session) close(code int, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
	_ = s.conn.Close()
}

// admit checks the token and conversation ownership. A non-zero code means the socket must be closed.
func (h *ChatHandler) admit(conn *websocket.Conn) (uuid.UUID, uuid.UUID, int, string) {
	userId, err := serverutils.ParseToken(h.secret, conn.Query("token"))
	if err != nil {
		return uuid.Nil, uuid.Nil, constant.ClosePolicyViolation, constant.MsgCouldNotValidate
	}
	ctx := context.Background()
	user, err := h.users.Me(ctx, userId)
	if err != nil || !user.IsActive {
		return uuid.Nil, uuid.Nil, constant.ClosePolicyViolation, constant.MsgCouldNotValidate
	}

	convId, err := uuid.Parse(conn.Params("conversation_id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, constant.CloseUnsupportedData, "Invalid conversation ID"
	}
	if _, err := h.conversations.Get(ctx, userId, convId); err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			switch fe.Code {
			case fiber.StatusNotFound:
				return uuid.Nil, uuid.Nil, constant.CloseUnsupportedData, fe.Message
			case fiber.StatusForbidden:
				return uuid.Nil, uuid.Nil, constant.ClosePolicyViolation, fe.Message
			}
		}
		h.logger.Error("ChatHandler", "failed to load conversation", map[string]interface{}{"conversation_id": convId, "error": err})
		return uuid.Nil, uuid.Nil, constant.CloseInternalError, "Internal error"
	}
	return userId, convId, 0, ""
}

func (h *ChatHandler) serve(conn *websocket.Conn) {
	s := &session{conn: conn}

	userId, convId, code, reason := h.admit(conn)
	if code != 0 {
		h.logger.Warn("ChatHandler", "rejecting chat socket", map[string]interface{}{"code": code, "reason": reason})
		s.close(code, reason)
		return
	}

	fields := map[string]interface{}{"user_id": userId, "conversation_id": convId}
	h.logger.Info("ChatHandler", "chat socket opened", fields)
	defer h.logger.Info("ChatHandler", "chat socket closed", fields)

	g, ctx := errgroup.WithContext(context.Background())
	inbox := make(chan dto.ChatClientFrame, inboxSize)

	g.Go(func() error {
		defer close(inbox)
		return h.readLoop(ctx, s, inbox)
	})
	g.Go(func() error {
		return h.processLoop(ctx, s, userId, convId, inbox)
	})
	g.Go(func() error {
		return h.pingLoop(ctx, s)
	})
	g.Go(func() error {
		// unblocks ReadMessage once any loop has stopped
		<-ctx.Done()
		_ = conn.Close()
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errSocketClosed) {
		h.logger.Warn("ChatHandler", "chat socket ended with error", map[string]interface{}{"conversation_id": convId, "error": err})
	}
}

var errSocketClosed = errors.New("socket closed")

// readLoop decodes client frames, applying the per-socket message rate limit.
func (h *ChatHandler) readLoop(ctx context.Context, s *session, inbox chan<- dto.ChatClientFrame) error {
	limiter := rate.NewLimiter(rate.Limit(h.limits.ChatPerSecond), h.limits.ChatBurst)

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				h.logger.Warn("ChatHandler", "unexpected close", map[string]interface{}{"error": err})
			}
			return errSocketClosed
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))

		if !limiter.Allow() {
			if err := s.send(chatError("Rate limit exceeded", constant.ErrCodeRateLimited)); err != nil {
				return errSocketClosed
			}
			continue
		}

		var frame dto.ChatClientFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			if err := s.send(chatError("Invalid JSON", constant.ErrCodeInvalidMessageType)); err != nil {
				return errSocketClosed
			}
			continue
		}

		select {
		case inbox <- frame:
		case <-ctx.Done():
			return nil
		default:
			if err := s.send(chatError("Too many pending messages", constant.ErrCodeRateLimited)); err != nil {
				return errSocketClosed
			}
		}
	}
}

// processLoop relays messages one at a time so replies never interleave.
func (h *ChatHandler) processLoop(ctx context.Context, s *session, userId, convId uuid.UUID, inbox <-chan dto.ChatClientFrame) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case frame, ok := <-inbox:
			if !ok {
				return nil
			}
			if err := h.chat.HandleMessage(ctx, userId, convId, frame, s.send); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				h.logger.Error("ChatHandler", "message handling failed", map[string]interface{}{"conversation_id": convId, "error": err})
				if err := s.send(chatError("Internal error", constant.ErrCodeInternal)); err != nil {
					return errSocketClosed
				}
			}
		}
	}
}

func (h *ChatHandler) pingLoop(ctx context.Context, s *session) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.ping(); err != nil {
				return errSocketClosed
			}
		}
	}
}

func chatError(message, code string) dto.ChatServerFrame {
	return dto.ChatServerFrame{
		Type:      constant.FrameError,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Error:     message,
		Code:      code,
	}
}
