package contract

import (
	"context"

	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	UpdatePassword(ctx context.Context, userId uuid.UUID, hash string) error
	SetPushToken(ctx context.Context, userId uuid.UUID, token *string) error
	MarkVerified(ctx context.Context, userId uuid.UUID) error

	// Tokens
	CreatePasswordResetToken(ctx context.Context, token *entity.PasswordResetToken) error
	FindPasswordResetToken(ctx context.Context, specs ...specification.Specification) (*entity.PasswordResetToken, error)
	DeletePasswordResetTokens(ctx context.Context, userId uuid.UUID) error

	CreateEmailVerificationToken(ctx context.Context, token *entity.EmailVerificationToken) error
	FindEmailVerificationToken(ctx context.Context, specs ...specification.Specification) (*entity.EmailVerificationToken, error)
	DeleteEmailVerificationTokens(ctx context.Context, userId uuid.UUID) error

	// OAuth
	FindOAuthAccount(ctx context.Context, specs ...specification.Specification) (*entity.OAuthAccount, error)
	SaveOAuthAccount(ctx context.Context, account *entity.OAuthAccount) error
}
