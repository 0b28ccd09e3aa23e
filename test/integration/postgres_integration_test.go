//go:build integration

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"sumii-mobile-api/internal/dto"
	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/model"
	"sumii-mobile-api/internal/pkg/logger"
	"sumii-mobile-api/internal/repository/unitofwork"
	"sumii-mobile-api/internal/service"
	"sumii-mobile-api/pkg/database"
	"sumii-mobile-api/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

func startPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "sumii",
				"POSTGRES_PASSWORD": "sumii",
				"POSTGRES_DB":       "sumii_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pg.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate postgres: %v", err)
		}
	})

	host, err := pg.Host(ctx)
	require.NoError(t, err)
	mapped, err := pg.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=sumii password=sumii dbname=sumii_test sslmode=disable", host, mapped.Port())
	db, err := database.NewGormDB(database.GormConfig{Driver: "postgres", DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func TestPostgresConversationRoundTrip(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()
	require.NoError(t, database.Ping(ctx, db))

	uow := unitofwork.NewRepositoryFactory(db)
	log := logger.NewNopLogger()
	conversations := service.NewConversationService(uow, storage.NewMemoryStore("https://files.test"), log)

	user := &entity.User{Email: "anna@example.com", IsActive: true, Language: "de"}
	require.NoError(t, uow.NewUnitOfWork(ctx).UserRepository().Create(ctx, user))

	created, err := conversations.Create(ctx, user.Id, &dto.CreateConversationRequest{})
	require.NoError(t, err)

	repo := uow.NewUnitOfWork(ctx).MessageRepository()
	require.NoError(t, repo.Create(ctx, &entity.Message{ConversationId: created.Id, Role: entity.MessageRoleUser, Content: "Mein Vermieter repariert die Heizung nicht."}))
	require.NoError(t, repo.Create(ctx, &entity.Message{ConversationId: created.Id, Role: entity.MessageRoleAssistant, Content: "Seit wann?"}))

	detail, err := conversations.Get(ctx, user.Id, created.Id)
	require.NoError(t, err)
	require.Len(t, detail.Messages, 2)
	contents := []string{detail.Messages[0].Content, detail.Messages[1].Content}
	assert.Contains(t, contents, "Mein Vermieter repariert die Heizung nicht.")

	require.NoError(t, conversations.Delete(ctx, user.Id, created.Id))
	_, err = conversations.Get(ctx, user.Id, created.Id)
	assert.Error(t, err)
}
