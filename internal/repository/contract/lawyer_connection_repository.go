package contract

import (
	"context"

	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/repository/specification"
)

type LawyerConnectionRepository interface {
	Create(ctx context.Context, connection *entity.LawyerConnection) error
	Update(ctx context.Context, connection *entity.LawyerConnection) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LawyerConnection, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LawyerConnection, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
