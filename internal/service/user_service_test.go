package service

import (
	"context"
	"testing"

	"sumii-mobile-api/internal/dto"
	"sumii-mobile-api/internal/repository/specification"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfileKeepsAbsentFields(t *testing.T) {
	h := newHarness(t)
	svc := NewUserService(h.uow, h.log)
	user := h.user(t, "anna@example.com")
	ctx := context.Background()

	city, first := "Berlin", "Anna"
	_, err := svc.UpdateProfile(ctx, user.Id, &dto.UpdateProfileRequest{AddressCity: &city})
	require.NoError(t, err)

	profile, err := svc.UpdateProfile(ctx, user.Id, &dto.UpdateProfileRequest{FirstName: &first})
	require.NoError(t, err)
	require.NotNil(t, profile.AddressCity)
	assert.Equal(t, "Berlin", *profile.AddressCity)
	assert.Equal(t, "Anna", *profile.FirstName)
	assert.Equal(t, "de", profile.Language)
}

func TestPushTokenFormat(t *testing.T) {
	h := newHarness(t)
	svc := NewUserService(h.uow, h.log)
	user := h.user(t, "anna@example.com")
	ctx := context.Background()

	_, err := svc.RegisterPushToken(ctx, user.Id, &dto.PushTokenRequest{PushToken: "fcm:abc"})
	assert.Equal(t, fiber.StatusBadRequest, fiberStatus(t, err))

	res, err := svc.RegisterPushToken(ctx, user.Id, &dto.PushTokenRequest{PushToken: "ExponentPushToken[abc123]"})
	require.NoError(t, err)
	assert.Equal(t, "registered", res.Status)

	stored, err := h.uow.NewUnitOfWork(ctx).UserRepository().FindOne(ctx, specification.ByID{ID: user.Id})
	require.NoError(t, err)
	require.NotNil(t, stored.PushToken)
	assert.Equal(t, "ExponentPushToken[abc123]", *stored.PushToken)

	res, err = svc.RemovePushToken(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, "removed", res.Status)

	me, err := svc.Me(ctx, user.Id)
	require.NoError(t, err)
	assert.Nil(t, me.PushToken)
}
