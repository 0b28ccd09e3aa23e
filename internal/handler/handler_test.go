package handler

import (
	"context"
	"net"
	"testing"
	"time"

	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/pkg/logger"
	"sumii-mobile-api/internal/pkg/serverutils"
	"sumii-mobile-api/internal/pkg/testdb"
	"sumii-mobile-api/internal/repository/unitofwork"
	"sumii-mobile-api/internal/service"
	"sumii-mobile-api/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler-test-secret"

type fixture struct {
	uow           unitofwork.RepositoryFactory
	users         service.IUserService
	conversations service.IConversationService
	log           logger.ILogger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	uow := unitofwork.NewRepositoryFactory(testdb.New(t))
	log := logger.NewNopLogger()
	return &fixture{
		uow:           uow,
		users:         service.NewUserService(uow, log),
		conversations: service.NewConversationService(uow, storage.NewMemoryStore("https://files.test"), log),
		log:           log,
	}
}

func (f *fixture) user(t *testing.T, email string, active bool) (*entity.User, string) {
	t.Helper()
	u := &entity.User{Email: email, IsActive: active, Language: "de"}
	require.NoError(t, f.uow.NewUnitOfWork(context.Background()).UserRepository().Create(context.Background(), u))
	if !active {
		u.IsActive = false
		require.NoError(t, f.uow.NewUnitOfWork(context.Background()).UserRepository().Update(context.Background(), u))
	}
	token, err := serverutils.GenerateToken(testSecret, u.Id, u.Email, time.Hour)
	require.NoError(t, err)
	return u, token
}

func (f *fixture) conversation(t *testing.T, owner *entity.User) *entity.Conversation {
	t.Helper()
	c := &entity.Conversation{UserId: owner.Id, Status: entity.ConversationStatusActive}
	require.NoError(t, f.uow.NewUnitOfWork(context.Background()).ConversationRepository().Create(context.Background(), c))
	return c
}

func newApp(f *fixture) *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: serverutils.ErrorHandler(f.log)})
}

// serve starts app on a loopback port and returns its address.
func serve(t *testing.T, app *fiber.App) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.ShutdownWithTimeout(time.Second) })
	return ln.Addr().String()
}
