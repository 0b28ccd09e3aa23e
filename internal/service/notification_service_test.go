package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"sumii-mobile-api/internal/constant"
	"sumii-mobile-api/internal/dto"
	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/realtime"
	"sumii-mobile-api/internal/repository/specification"
	"sumii-mobile-api/pkg/events"
	"sumii-mobile-api/pkg/expo"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (r *recordingNotifier) Notify(_ context.Context, _ uuid.UUID, event realtime.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// newExpoServer answers every push with the given ticket and records the request bodies.
func newExpoServer(t *testing.T, ticket string) (*expo.Client, *[]string) {
	t.Helper()
	var (
		mu     sync.Mutex
		bodies []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(raw))
		mu.Unlock()
		_, _ = io.WriteString(w, ticket)
	}))
	t.Cleanup(srv.Close)
	return expo.NewClient(srv.URL), &bodies
}

func TestCreateNotificationFansOut(t *testing.T) {
	h := newHarness(t)
	client, bodies := newExpoServer(t, `{"data":{"status":"ok"}}`)
	notifier := &recordingNotifier{}
	svc := NewNotificationService(h.uow, notifier, NewPushService(h.uow, client, h.log), h.log)
	ctx := context.Background()

	user := h.user(t, "anna@example.com")
	token := "ExponentPushToken[abc]"
	require.NoError(t, h.uow.NewUnitOfWork(ctx).UserRepository().SetPushToken(ctx, user.Id, &token))

	n, err := svc.Create(ctx, NotificationInput{
		UserId:  user.Id,
		Type:    entity.NotificationSummaryReady,
		Title:   constant.NotifySummaryReadyTitle,
		Message: constant.NotifySummaryReadyMessage,
		Data:    map[string]interface{}{"summary_id": "s1"},
	})
	require.NoError(t, err)

	require.Equal(t, 1, notifier.count())
	assert.Equal(t, n.Id, notifier.events[0].NotificationID)
	assert.Equal(t, "summary_ready", notifier.events[0].Payload.Type)

	require.Len(t, *bodies, 1)
	push := (*bodies)[0]
	assert.Equal(t, token, gjson.Get(push, "to").String())
	assert.Equal(t, "s1", gjson.Get(push, "data.summary_id").String())
	assert.Equal(t, n.Id.String(), gjson.Get(push, "data.notification_id").String())
}

func TestStalePushTokenIsCleared(t *testing.T) {
	h := newHarness(t)
	client, _ := newExpoServer(t, `{"data":{"status":"error","message":"gone","details":{"error":"DeviceNotRegistered"}}}`)
	push := NewPushService(h.uow, client, h.log)
	ctx := context.Background()

	user := h.user(t, "anna@example.com")
	token := "ExponentPushToken[old]"
	require.NoError(t, h.uow.NewUnitOfWork(ctx).UserRepository().SetPushToken(ctx, user.Id, &token))

	assert.False(t, push.SendToUser(ctx, user.Id, "t", "b", nil))

	stored, err := h.uow.NewUnitOfWork(ctx).UserRepository().FindOne(ctx, specification.ByID{ID: user.Id})
	require.NoError(t, err)
	assert.Nil(t, stored.PushToken)
}

func TestNotificationReadState(t *testing.T) {
	h := newHarness(t)
	svc := NewNotificationService(h.uow, nil, nil, h.log)
	ctx := context.Background()
	user := h.user(t, "anna@example.com")
	other := h.user(t, "ben@example.com")

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		n, err := svc.Create(ctx, NotificationInput{UserId: user.Id, Type: entity.NotificationNewMessage, Title: "t", Message: "m"})
		require.NoError(t, err)
		ids = append(ids, n.Id)
	}

	list, err := svc.List(ctx, user.Id, dto.NotificationListQuery{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, list.Notifications, 2)
	assert.EqualValues(t, 3, list.Total)
	assert.EqualValues(t, 3, list.UnreadCount)

	_, err = svc.MarkRead(ctx, other.Id, ids[0])
	assert.Equal(t, fiber.StatusNotFound, fiberStatus(t, err))

	read, err := svc.MarkRead(ctx, user.Id, ids[0])
	require.NoError(t, err)
	assert.True(t, read.Read)
	require.NotNil(t, read.ReadAt)

	count, err := svc.UnreadCount(ctx, user.Id)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count.UnreadCount)

	unread, err := svc.List(ctx, user.Id, dto.NotificationListQuery{UnreadOnly: true})
	require.NoError(t, err)
	assert.EqualValues(t, 2, unread.Total)

	actioned, err := svc.MarkActioned(ctx, user.Id, ids[1])
	require.NoError(t, err)
	assert.NotNil(t, actioned.ActionedAt)

	all, err := svc.MarkAllRead(ctx, user.Id)
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Updated)

	count, err = svc.UnreadCount(ctx, user.Id)
	require.NoError(t, err)
	assert.Zero(t, count.UnreadCount)
}

func TestHandleEventCreatesNotifications(t *testing.T) {
	h := newHarness(t)
	notifier := &recordingNotifier{}
	svc := NewNotificationService(h.uow, notifier, nil, h.log)
	ctx := context.Background()
	user := h.user(t, "anna@example.com")

	require.NoError(t, svc.HandleEvent(ctx, events.New(events.SummaryReady, map[string]interface{}{
		"user_id":          user.Id.String(),
		"summary_id":       "sum-1",
		"reference_number": "SUM-20250101-AAAAA",
	})))
	require.NoError(t, svc.HandleEvent(ctx, events.New(events.ConnectionStatusMoved, map[string]interface{}{
		"user_id":          user.Id.String(),
		"status":           "rejected",
		"lawyer_name":      "Dr. Weber",
		"rejection_reason": "Keine Kapazität",
	})))
	require.NoError(t, svc.HandleEvent(ctx, events.New(events.ConnectionStatusMoved, map[string]interface{}{
		"user_id": user.Id.String(),
		"status":  "cancelled",
	})))
	require.NoError(t, svc.HandleEvent(ctx, events.New(events.DocumentOcrCompleted, map[string]interface{}{
		"user_id": user.Id.String(),
	})))

	items, err := h.uow.NewUnitOfWork(ctx).NotificationRepository().FindAll(ctx, specification.UserOwnedBy{UserID: user.Id})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 2, notifier.count())

	byType := map[entity.NotificationType]*entity.Notification{}
	for _, n := range items {
		byType[n.Type] = n
	}
	require.Contains(t, byType, entity.NotificationSummaryReady)
	require.Contains(t, byType, entity.NotificationCaseUpdated)
	assert.Equal(t, "Dr. Weber kann Ihren Fall leider nicht übernehmen.", byType[entity.NotificationCaseUpdated].Message)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(byType[entity.NotificationCaseUpdated].Data, &data))
	assert.Equal(t, "Keine Kapazität", data["rejection_reason"])
}

func TestPurgeReadNotifications(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := h.user(t, "anna@example.com")
	repo := h.uow.NewUnitOfWork(ctx).NotificationRepository()

	old := &entity.Notification{UserId: user.Id, Type: entity.NotificationNewMessage, Title: "alt", Message: "m"}
	fresh := &entity.Notification{UserId: user.Id, Type: entity.NotificationNewMessage, Title: "neu", Message: "m"}
	require.NoError(t, repo.Create(ctx, old))
	require.NoError(t, repo.Create(ctx, fresh))
	require.NoError(t, repo.MarkAsRead(ctx, old.Id, time.Now().UTC().Add(-40*24*time.Hour)))
	require.NoError(t, repo.MarkAsRead(ctx, fresh.Id, time.Now().UTC()))

	NewCronService(h.uow, nil, h.log).PurgeReadNotifications(ctx)

	left, err := repo.FindAll(ctx, specification.UserOwnedBy{UserID: user.Id})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, fresh.Id, left[0].Id)
}
