package implementation

import (
	"context"
	"errors"

	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/mapper"
	"sumii-mobile-api/internal/model"
	"sumii-mobile-api/internal/repository/contract"
	"sumii-mobile-api/internal/repository/specification"

	"gorm.io/gorm"
)

type LawyerConnectionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.LawyerConnectionMapper
}

func NewLawyerConnectionRepository(db *gorm.DB) contract.LawyerConnectionRepository {
	return &LawyerConnectionRepositoryImpl{
		db:     db,
		mapper: mapper.NewLawyerConnectionMapper(),
	}
}

func (r *LawyerConnectionRepositoryImpl) Create(ctx context.Context, connection *entity.LawyerConnection) error {
	m := r.mapper.ToModel(connection)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*connection = *r.mapper.ToEntity(m)
	return nil
}

func (r *LawyerConnectionRepositoryImpl) Update(ctx context.Context, connection *entity.LawyerConnection) error {
	m := r.mapper.ToModel(connection)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*connection = *r.mapper.ToEntity(m)
	return nil
}

func (r *LawyerConnectionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LawyerConnection, error) {
	var m model.LawyerConnection
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *LawyerConnectionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LawyerConnection, error) {
	var models []*model.LawyerConnection
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *LawyerConnectionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.LawyerConnection{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
