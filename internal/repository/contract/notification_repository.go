package contract

import (
	"context"
	"time"

	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/repository/specification"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Notification, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Notification, error)
	FindDeleted(ctx context.Context, specs ...specification.Specification) ([]*entity.Notification, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	MarkAsRead(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkAllAsRead(ctx context.Context, userId uuid.UUID, at time.Time) (int64, error)
	MarkActioned(ctx context.Context, id uuid.UUID, at time.Time) error
	DeleteWhere(ctx context.Context, specs ...specification.Specification) (int64, error)
}
