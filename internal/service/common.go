package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"time"

	"sumii-mobile-api/internal/constant"
	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/repository/specification"
	"sumii-mobile-api/internal/repository/unitofwork"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func now() time.Time {
	return time.Now().UTC()
}

// ownedConversation loads a conversation and answers 404/403 for missing or foreign rows.
func ownedConversation(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID) (*entity.Conversation, error) {
	conv, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, constant.MsgConversationNotFound)
	}
	if conv.UserId != userId {
		return nil, fiber.NewError(fiber.StatusForbidden, constant.MsgNotAuthorized)
	}
	return conv, nil
}

// newOpaqueToken returns the token handed to the user and the hash that is stored.
func newOpaqueToken() (string, string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	token := base64.RawURLEncoding.EncodeToString(b)
	return token, hashToken(token), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func strPtr(s string) *string {
	return &s
}
