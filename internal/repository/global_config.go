package repository

import (
	"context"

	"github.com/questx-lab/cardlottery/internal/entity"
	"github.com/questx-lab/cardlottery/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type GlobalConfigRepository interface {
	Create(ctx context.Context, cfg *entity.GlobalConfig) error
	Get(ctx context.Context) (*entity.GlobalConfig, error)

	// GetForUpdate locks the config row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context) (*entity.GlobalConfig, error)
	Save(ctx context.Context, cfg *entity.GlobalConfig) error
	Delete(ctx context.Context) error
}

type globalConfigRepository struct{}

func NewGlobalConfigRepository() *globalConfigRepository {
	return &globalConfigRepository{}
}

func (r *globalConfigRepository) Create(ctx context.Context, cfg *entity.GlobalConfig) error {
	cfg.ID = entity.GlobalConfigID
	return xcontext.DB(ctx).Create(cfg).Error
}

func (r *globalConfigRepository) Get(ctx context.Context) (*entity.GlobalConfig, error) {
	var result entity.GlobalConfig
	if err := xcontext.DB(ctx).Take(&result, "id=?", entity.GlobalConfigID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *globalConfigRepository) GetForUpdate(ctx context.Context) (*entity.GlobalConfig, error) {
	var result entity.GlobalConfig
	err := xcontext.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&result, "id=?", entity.GlobalConfigID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *globalConfigRepository) Save(ctx context.Context, cfg *entity.GlobalConfig) error {
	return xcontext.DB(ctx).Save(cfg).Error
}

func (r *globalConfigRepository) Delete(ctx context.Context) error {
	return xcontext.DB(ctx).Delete(&entity.GlobalConfig{}, "id=?", entity.GlobalConfigID).Error
}
