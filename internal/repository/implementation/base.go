package implementation

import (
	"errors"

	"sumii-mobile-api/internal/repository/contract"
	"sumii-mobile-api/internal/repository/specification"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	return specification.All(specs).Apply(db)
}

// translateError maps unique violations to contract.ErrDuplicate.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return contract.ErrDuplicate
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return contract.ErrDuplicate
	}
	return err
}
