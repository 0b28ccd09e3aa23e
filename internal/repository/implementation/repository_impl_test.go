package implementation_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/pkg/testdb"
	"sumii-mobile-api/internal/repository/contract"
	"sumii-mobile-api/internal/repository/implementation"
	"sumii-mobile-api/internal/repository/scope"
	"sumii-mobile-api/internal/repository/specification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	db := testdb.New(t)
	repo := implementation.NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.User{Email: "anna@example.com", IsActive: true, Language: "de"}))
	err := repo.Create(ctx, &entity.User{Email: "anna@example.com", IsActive: true, Language: "de"})
	assert.ErrorIs(t, err, contract.ErrDuplicate)

	found, err := repo.FindOne(ctx, specification.ByEmail{Email: "ANNA@example.com"})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "anna@example.com", found.Email)

	missing, err := repo.FindOne(ctx, specification.ByEmail{Email: "nobody@example.com"})
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestConversationFactsRoundTrip(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	users := implementation.NewUserRepository(db)
	convs := implementation.NewConversationRepository(db)

	user := &entity.User{Email: "ben@example.com", IsActive: true, Language: "de"}
	require.NoError(t, users.Create(ctx, user))

	area := entity.LegalAreaMietrecht
	conv := &entity.Conversation{
		UserId: user.Id,
		Status: entity.ConversationStatusActive,
		Facts: entity.Facts{
			Who: json.RawMessage(`{"collected":true,"defendant":"Vermieter"}`),
		},
		LegalArea: &area,
	}
	require.NoError(t, convs.Create(ctx, conv))

	got, err := convs.FindOne(ctx, specification.ByID{ID: conv.Id})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.JSONEq(t, `{"collected":true,"defendant":"Vermieter"}`, string(got.Facts.Who))
	assert.Nil(t, got.Facts.What)
	assert.Equal(t, entity.LegalAreaMietrecht, *got.LegalArea)
	assert.Nil(t, got.Urgency)
}

func TestMessageDeleteWhereAndFindDeleted(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	users := implementation.NewUserRepository(db)
	convs := implementation.NewConversationRepository(db)
	msgs := implementation.NewMessageRepository(db)

	user := &entity.User{Email: "carla@example.com", IsActive: true, Language: "de"}
	require.NoError(t, users.Create(ctx, user))
	conv := &entity.Conversation{UserId: user.Id, Status: entity.ConversationStatusActive}
	require.NoError(t, convs.Create(ctx, conv))

	var created []*entity.Message
	for i, content := range []string{"eins", "zwei", "drei"} {
		m := &entity.Message{
			ConversationId: conv.Id,
			Role:           entity.MessageRoleUser,
			Content:        content,
			CreatedAt:      time.Date(2025, 1, 1, 10, i, 0, 0, time.UTC),
		}
		require.NoError(t, msgs.Create(ctx, m))
		created = append(created, m)
	}

	n, err := msgs.DeleteWhere(ctx,
		specification.ByConversationID{ConversationID: conv.Id},
		specification.CreatedAtOrAfter{Time: created[1].CreatedAt},
	)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	remaining, err := msgs.FindAll(ctx, specification.ByConversationID{ConversationID: conv.Id})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "eins", remaining[0].Content)
	assert.Equal(t, []string{}, remaining[0].DocumentIds)

	deleted, err := msgs.FindDeleted(ctx, specification.ByConversationID{ConversationID: conv.Id})
	require.NoError(t, err)
	assert.Len(t, deleted, 2)
}

func TestNotificationMarkAllAsRead(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	users := implementation.NewUserRepository(db)
	notifs := implementation.NewNotificationRepository(db)

	user := &entity.User{Email: "dora@example.com", IsActive: true, Language: "de"}
	require.NoError(t, users.Create(ctx, user))
	for i := 0; i < 3; i++ {
		require.NoError(t, notifs.Create(ctx, &entity.Notification{
			UserId:  user.Id,
			Type:    entity.NotificationCaseUpdated,
			Title:   "Fall aktualisiert",
			Message: "x",
		}))
	}

	unread, err := notifs.Count(ctx, specification.UserOwnedBy{UserID: user.Id}, specification.Unread{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, unread)

	n, err := notifs.MarkAllAsRead(ctx, user.Id, time.Now().UTC())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	all, err := notifs.FindAll(ctx, specification.UserOwnedBy{UserID: user.Id})
	require.NoError(t, err)
	for _, item := range all {
		assert.True(t, item.Read)
		assert.NotNil(t, item.ReadAt)
	}
}

func TestLawyerConnectionUniquePair(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	users := implementation.NewUserRepository(db)
	convs := implementation.NewConversationRepository(db)
	conns := implementation.NewLawyerConnectionRepository(db)

	user := &entity.User{Email: "emil@example.com", IsActive: true, Language: "de"}
	require.NoError(t, users.Create(ctx, user))
	conv := &entity.Conversation{UserId: user.Id, Status: entity.ConversationStatusActive}
	require.NoError(t, convs.Create(ctx, conv))

	first := &entity.LawyerConnection{UserId: user.Id, ConversationId: conv.Id, LawyerId: 7, Status: entity.ConnectionStatusPending}
	require.NoError(t, conns.Create(ctx, first))

	dup := &entity.LawyerConnection{UserId: user.Id, ConversationId: conv.Id, LawyerId: 7, Status: entity.ConnectionStatusPending}
	assert.ErrorIs(t, conns.Create(ctx, dup), contract.ErrDuplicate)

	pending, err := conns.FindAll(ctx, specification.AwaitingHandoff{}, specification.UserOwnedBy{UserID: user.Id})
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestConversationsOrderedByUpdated(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	users := implementation.NewUserRepository(db)
	convs := implementation.NewConversationRepository(db)

	user := &entity.User{Email: "fritz@example.com", IsActive: true, Language: "de"}
	require.NoError(t, users.Create(ctx, user))
	older := &entity.Conversation{UserId: user.Id, Status: entity.ConversationStatusActive}
	newer := &entity.Conversation{UserId: user.Id, Status: entity.ConversationStatusActive}
	require.NoError(t, convs.Create(ctx, older))
	require.NoError(t, convs.Create(ctx, newer))
	require.NoError(t, db.Exec("UPDATE conversations SET updated_at = ? WHERE id = ?", time.Now().UTC().Add(time.Hour), older.Id).Error)

	list, err := convs.FindAll(ctx, specification.UserOwnedBy{UserID: user.Id}, specification.Scoped{Fn: scope.RecentlyUpdated})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, older.Id, list[0].Id)
}
