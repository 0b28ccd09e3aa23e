package handler

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sumii-mobile-api/internal/config"
	"sumii-mobile-api/internal/dto"
	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/realtime"
	"sumii-mobile-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSSEFrame(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSSEFrame(&buf, dto.SSEEvent{
		Type:    "summary_ready",
		Title:   "Zusammenfassung fertig",
		Message: "SUM-20250309-A1A3C",
		Data:    json.RawMessage(`{"summary_id":"s1"}`),
	}))
	assert.Equal(t,
		"event: summary_ready\ndata: {\"type\":\"summary_ready\",\"title\":\"Zusammenfassung fertig\",\"message\":\"SUM-20250309-A1A3C\",\"data\":{\"summary_id\":\"s1\"}}\n\n",
		buf.String())

	buf.Reset()
	require.NoError(t, WriteSSEFrame(&buf, dto.SSEEvent{Type: "case_updated"}))
	assert.Contains(t, buf.String(), `"data":{}`)
}

type eventsFixture struct {
	*fixture
	notifications service.INotificationService
	hub           *realtime.Hub
	app           *fiber.App
}

func newEventsFixture(t *testing.T) *eventsFixture {
	t.Helper()
	f := newFixture(t)
	hub := realtime.NewHub(nil, f.log, prometheus.NewRegistry())
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = hub.Run(ctx) }()

	notifications := service.NewNotificationService(f.uow, hub, nil, f.log)
	app := newApp(f)
	NewEventsHandler(testSecret, f.users, notifications, hub,
		config.SSEConfig{PollInterval: 50 * time.Millisecond, Keepalive: time.Hour}, f.log).RegisterRoutes(app)

	t.Cleanup(cancel)
	return &eventsFixture{fixture: f, notifications: notifications, hub: hub, app: app}
}

func TestSubscribeAuthErrors(t *testing.T) {
	f := newEventsFixture(t)
	_, inactiveToken := f.user(t, "inactive@example.com", false)

	resp, err := f.app.Test(httptest.NewRequest("GET", "/events/subscribe?token=garbage", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = f.app.Test(httptest.NewRequest("GET", "/events/subscribe?token="+inactiveToken, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

// nextEvent reads lines until a complete event frame arrives and returns its type and data.
func nextEvent(t *testing.T, r *bufio.Reader) (string, dto.SSEEvent) {
	t.Helper()
	var eventType string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			eventType = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			var ev dto.SSEEvent
			require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev))
			return eventType, ev
		}
	}
}

func TestSubscribeStreamsPendingAndLiveNotifications(t *testing.T) {
	f := newEventsFixture(t)
	owner, token := f.user(t, "anna@example.com", true)
	ctx := context.Background()

	_, err := f.notifications.Create(ctx, service.NotificationInput{
		UserId: owner.Id, Type: entity.NotificationSummaryReady, Title: "Zusammenfassung fertig", Message: "pending",
	})
	require.NoError(t, err)

	addr := serve(t, f.app)
	resp, err := http.Get("http://" + addr + "/events/subscribe?token=" + token)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	assert.Equal(t, "no-cache", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "no", resp.Header.Get("X-Accel-Buffering"))

	r := bufio.NewReader(resp.Body)
	typ, ev := nextEvent(t, r)
	assert.Equal(t, "summary_ready", typ)
	assert.Equal(t, "pending", ev.Message)

	require.Eventually(t, func() bool {
		count, err := f.notifications.UnreadCount(ctx, owner.Id)
		return err == nil && count.UnreadCount == 0
	}, 2*time.Second, 20*time.Millisecond)

	require.Eventually(t, func() bool { return f.hub.Connections(owner.Id) == 1 }, time.Second, 10*time.Millisecond)
	_, err = f.notifications.Create(ctx, service.NotificationInput{
		UserId: owner.Id, Type: entity.NotificationCaseUpdated, Title: "Fall aktualisiert", Message: "live",
	})
	require.NoError(t, err)

	typ, ev = nextEvent(t, r)
	assert.Equal(t, "case_updated", typ)
	assert.Equal(t, "live", ev.Message)
}
