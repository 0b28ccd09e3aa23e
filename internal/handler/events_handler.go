package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"sumii-mobile-api/internal/config"
	"sumii-mobile-api/internal/constant"
	"sumii-mobile-api/internal/dto"
	"sumii-mobile-api/internal/pkg/logger"
	"sumii-mobile-api/internal/pkg/serverutils"
	"sumii-mobile-api/internal/realtime"
	"sumii-mobile-api/internal/repository/memory"
	"sumii-mobile-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

const (
	pendingBatch   = 50
	deliveryMemory = 30 * time.Minute
	subscribeWait  = 5 * time.Second
)

type EventsHandler struct {
	secret        string
	users         service.IUserService
	notifications service.INotificationService
	hub           *realtime.Hub
	cfg           config.SSEConfig
	logger        logger.ILogger
}

func NewEventsHandler(secret string, users service.IUserService, notifications service.INotificationService, hub *realtime.Hub, cfg config.SSEConfig, log logger.ILogger) *EventsHandler {
	return &EventsHandler{secret: secret, users: users, notifications: notifications, hub: hub, cfg: cfg, logger: log}
}

func (h *EventsHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/events/subscribe", h.Subscribe)
}

// WriteSSEFrame writes one notification as an "event:"/"data:" frame.
func WriteSSEFrame(w io.Writer, ev dto.SSEEvent) error {
	if len(ev.Data) == 0 {
		ev.Data = json.RawMessage("{}")
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, payload)
	return err
}

func writeKeepalive(w io.Writer) error {
	_, err := io.WriteString(w, ": keepalive\n\n")
	return err
}

// authenticate resolves the stream owner from the token query parameter.
func (h *EventsHandler) authenticate(ctx *fiber.Ctx) (uuid.UUID, error) {
	userId, err := serverutils.ParseToken(h.secret, serverutils.BearerToken(ctx))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, constant.MsgCouldNotValidate)
	}
	user, err := h.users.Me(ctx.UserContext(), userId)
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) && fe.Code == fiber.StatusNotFound {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, constant.MsgCouldNotValidate)
		}
		return uuid.Nil, err
	}
	if !user.IsActive {
		return uuid.Nil, fiber.NewError(fiber.StatusForbidden, constant.MsgInactiveUser)
	}
	return userId, nil
}

func (h *EventsHandler) Subscribe(ctx *fiber.Ctx) error {
	userId, err := h.authenticate(ctx)
	if err != nil {
		return err
	}

	subCtx, cancel := context.WithTimeout(ctx.UserContext(), subscribeWait)
	sub, err := h.hub.Subscribe(subCtx, userId)
	cancel()
	if err != nil {
		h.logger.Error("EventsHandler", "failed to open stream", map[string]interface{}{"user_id": userId, "error": err})
		return fiber.NewError(fiber.StatusServiceUnavailable, "Event stream unavailable")
	}

	ctx.Set("Content-Type", "text/event-stream")
	ctx.Set("Cache-Control", "no-cache")
	ctx.Set("Connection", "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		h.stream(w, userId, sub)
	}))
	return nil
}

// stream runs until the client goes away or the hub closes the subscription.
func (h *EventsHandler) stream(w *bufio.Writer, userId uuid.UUID, sub *realtime.Subscriber) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	closed := false
	defer func() {
		if !closed {
			h.hub.Unsubscribe(sub)
		}
	}()

	sent := memory.NewDeliveryLog(deliveryMemory)
	poll := time.NewTicker(h.cfg.PollInterval)
	defer poll.Stop()
	keepalive := time.NewTicker(h.cfg.Keepalive)
	defer keepalive.Stop()

	h.logger.Info("EventsHandler", "stream opened", map[string]interface{}{"user_id": userId})
	defer h.logger.Info("EventsHandler", "stream closed", map[string]interface{}{"user_id": userId})

	if err := h.flushPending(ctx, w, userId, sent); err != nil {
		return
	}

	for {
		select {
		case ev, ok := <-sub.Events:
			if !ok {
				closed = true
				return
			}
			if !sent.MarkSent(ev.NotificationID) {
				continue
			}
			if err := h.emit(w, ev.Payload); err != nil {
				return
			}
			h.markRead(ctx, userId, ev.NotificationID)

		case <-poll.C:
			if err := h.flushPending(ctx, w, userId, sent); err != nil {
				return
			}

		case <-keepalive.C:
			if err := writeKeepalive(w); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}
}

func (h *EventsHandler) emit(w *bufio.Writer, ev dto.SSEEvent) error {
	if err := WriteSSEFrame(w, ev); err != nil {
		return err
	}
	return w.Flush()
}

// flushPending sends unread notifications the stream has not delivered yet, oldest first.
func (h *EventsHandler) flushPending(ctx context.Context, w *bufio.Writer, userId uuid.UUID, sent *memory.DeliveryLog) error {
	res, err := h.notifications.List(ctx, userId, dto.NotificationListQuery{Limit: pendingBatch, UnreadOnly: true})
	if err != nil {
		h.logger.Warn("EventsHandler", "failed to poll notifications", map[string]interface{}{"user_id": userId, "error": err})
		return nil
	}
	for i := len(res.Notifications) - 1; i >= 0; i-- {
		n := res.Notifications[i]
		if !sent.MarkSent(n.Id) {
			continue
		}
		if err := h.emit(w, dto.SSEEvent{Type: n.Type, Title: n.Title, Message: n.Message, Data: n.Data}); err != nil {
			return err
		}
		h.markRead(ctx, userId, n.Id)
	}
	return nil
}

func (h *EventsHandler) markRead(ctx context.Context, userId, id uuid.UUID) {
	if _, err := h.notifications.MarkRead(ctx, userId, id); err != nil {
		h.logger.Warn("EventsHandler", "failed to mark notification read", map[string]interface{}{"notification_id": id, "error": err})
	}
}
