package service

import (
	"context"
	"testing"
	"time"

	"sumii-mobile-api/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullSyncReturnsEverythingOwned(t *testing.T) {
	h := newHarness(t)
	svc := NewSyncService(h.uow, h.log)
	user := h.user(t, "anna@example.com")
	other := h.user(t, "ben@example.com")

	conv := h.conversation(t, user)
	h.message(t, conv, entity.MessageRoleUser, "Hallo")
	h.summary(t, conv)
	h.connection(t, conv, 7, "case-1")
	h.message(t, h.conversation(t, other), entity.MessageRoleUser, "fremd")

	res, err := svc.Sync(context.Background(), user.Id, nil)
	require.NoError(t, err)
	assert.True(t, res.IsFullSync)
	assert.Len(t, res.Conversations, 1)
	assert.Len(t, res.Messages, 1)
	assert.Len(t, res.Summaries, 1)
	assert.Len(t, res.LawyerConnections, 1)
	assert.Empty(t, res.DeletedIds.Conversations)
	assert.False(t, res.ServerTime.IsZero())
}

func TestIncrementalSyncReportsChangesAndDeletions(t *testing.T) {
	h := newHarness(t)
	svc := NewSyncService(h.uow, h.log)
	conversations := NewConversationService(h.uow, h.store, h.log)
	user := h.user(t, "anna@example.com")
	ctx := context.Background()

	kept := h.conversation(t, user)
	h.message(t, kept, entity.MessageRoleUser, "alt")
	dropped := h.conversation(t, user)
	droppedMsg := h.message(t, dropped, entity.MessageRoleUser, "wird gelöscht")

	time.Sleep(10 * time.Millisecond)
	since := time.Now().UTC()
	time.Sleep(10 * time.Millisecond)

	fresh := h.message(t, kept, entity.MessageRoleAssistant, "neu")
	require.NoError(t, conversations.Delete(ctx, user.Id, dropped.Id))

	res, err := svc.Sync(ctx, user.Id, &since)
	require.NoError(t, err)
	assert.False(t, res.IsFullSync)

	require.Len(t, res.Messages, 1)
	assert.Equal(t, fresh.Id, res.Messages[0].Id)
	assert.Empty(t, res.Conversations)
	assert.Equal(t, dropped.Id, res.DeletedIds.Conversations[0])
	assert.Contains(t, res.DeletedIds.Messages, droppedMsg.Id)
}

func TestIncrementalSyncIncludesNotificationsReadSinceLastSync(t *testing.T) {
	h := newHarness(t)
	svc := NewSyncService(h.uow, h.log)
	notifications := NewNotificationService(h.uow, nil, nil, h.log)
	user := h.user(t, "anna@example.com")
	ctx := context.Background()

	n, err := notifications.Create(ctx, NotificationInput{
		UserId: user.Id, Type: entity.NotificationCaseUpdated, Title: "Fall aktualisiert", Message: "alt",
	})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	since := time.Now().UTC()
	time.Sleep(10 * time.Millisecond)

	_, err = notifications.MarkRead(ctx, user.Id, n.Id)
	require.NoError(t, err)

	res, err := svc.Sync(ctx, user.Id, &since)
	require.NoError(t, err)
	require.Len(t, res.Notifications, 1)
	assert.Equal(t, n.Id, res.Notifications[0].Id)
	assert.True(t, res.Notifications[0].Read)
}

func TestSyncOrdersNewestFirst(t *testing.T) {
	h := newHarness(t)
	svc := NewSyncService(h.uow, h.log)
	notifications := NewNotificationService(h.uow, nil, nil, h.log)
	user := h.user(t, "anna@example.com")
	ctx := context.Background()

	older := h.conversation(t, user)
	first := h.message(t, older, entity.MessageRoleUser, "erste")
	first2, err := notifications.Create(ctx, NotificationInput{UserId: user.Id, Type: entity.NotificationNewMessage, Title: "1", Message: "1"})
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	second := h.message(t, older, entity.MessageRoleAssistant, "zweite")
	second2, err := notifications.Create(ctx, NotificationInput{UserId: user.Id, Type: entity.NotificationNewMessage, Title: "2", Message: "2"})
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	newer := h.conversation(t, user)

	res, err := svc.Sync(ctx, user.Id, nil)
	require.NoError(t, err)
	require.Len(t, res.Conversations, 2)
	assert.Equal(t, newer.Id, res.Conversations[0].Id)
	require.Len(t, res.Messages, 2)
	assert.Equal(t, []uuid.UUID{second.Id, first.Id}, []uuid.UUID{res.Messages[0].Id, res.Messages[1].Id})
	require.Len(t, res.Notifications, 2)
	assert.Equal(t, []uuid.UUID{second2.Id, first2.Id}, []uuid.UUID{res.Notifications[0].Id, res.Notifications[1].Id})
}
