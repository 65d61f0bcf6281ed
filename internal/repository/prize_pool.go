package repository

import (
	"context"

	"github.com/questx-lab/cardlottery/internal/entity"
	"github.com/questx-lab/cardlottery/pkg/xcontext"
	"gorm.io/gorm"
)

type PrizePoolRepository interface {
	Create(ctx context.Context, pool *entity.PrizePool) error
	GetByIndex(ctx context.Context, index uint32) (*entity.PrizePool, error)
	GetByIndexes(ctx context.Context, indexes []uint32) ([]entity.PrizePool, error)
	Update(ctx context.Context, index uint32, pool *entity.PrizePool) error
	Delete(ctx context.Context, index uint32) error
}

type prizePoolRepository struct{}

func NewPrizePoolRepository() *prizePoolRepository {
	return &prizePoolRepository{}
}

func (r *prizePoolRepository) Create(ctx context.Context, pool *entity.PrizePool) error {
	return xcontext.DB(ctx).Create(pool).Error
}

func (r *prizePoolRepository) GetByIndex(ctx context.Context, index uint32) (*entity.PrizePool, error) {
	var result entity.PrizePool
	if err := xcontext.DB(ctx).Take(&result, "`index`=?", index).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *prizePoolRepository) GetByIndexes(ctx context.Context, indexes []uint32) ([]entity.PrizePool, error) {
	var result []entity.PrizePool
	if len(indexes) == 0 {
		return result, nil
	}

	if err := xcontext.DB(ctx).Find(&result, "`index` IN (?)", indexes).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *prizePoolRepository) Update(ctx context.Context, index uint32, pool *entity.PrizePool) error {
	tx := xcontext.DB(ctx).Model(&entity.PrizePool{}).
		Where("`index`=?", index).
		Updates(map[string]any{
			"destination": pool.Destination,
			"pool_type":   pool.PoolType,
			"name":        pool.Name,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *prizePoolRepository) Delete(ctx context.Context, index uint32) error {
	tx := xcontext.DB(ctx).Unscoped().Delete(&entity.PrizePool{}, "`index`=?", index)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
