package contract

import (
	"context"

	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/repository/specification"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	Create(ctx context.Context, document *entity.Document) error
	Update(ctx context.Context, document *entity.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteWhere(ctx context.Context, specs ...specification.Specification) (int64, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
	FindDeleted(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
}

type SummaryRepository interface {
	Create(ctx context.Context, summary *entity.Summary) error
	Update(ctx context.Context, summary *entity.Summary) error
	DeleteWhere(ctx context.Context, specs ...specification.Specification) (int64, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Summary, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Summary, error)
	FindDeleted(ctx context.Context, specs ...specification.Specification) ([]*entity.Summary, error)
}
