package repository

import (
	"context"

	"github.com/questx-lab/cardlottery/internal/entity"
	"github.com/questx-lab/cardlottery/pkg/xcontext"
)

type SettlementRepository interface {
	Create(ctx context.Context, settlement *entity.Settlement) error
	GetByRequestID(ctx context.Context, requestID string) (*entity.Settlement, error)
	GetListByOwner(ctx context.Context, owner string, offset, limit int) ([]entity.Settlement, error)
}

type settlementRepository struct{}

func NewSettlementRepository() *settlementRepository {
	return &settlementRepository{}
}

func (r *settlementRepository) Create(ctx context.Context, settlement *entity.Settlement) error {
	return xcontext.DB(ctx).Create(settlement).Error
}

func (r *settlementRepository) GetByRequestID(ctx context.Context, requestID string) (*entity.Settlement, error) {
	var result entity.Settlement
	if err := xcontext.DB(ctx).Take(&result, "request_id=?", requestID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *settlementRepository) GetListByOwner(
	ctx context.Context, owner string, offset, limit int,
) ([]entity.Settlement, error) {
	var result []entity.Settlement
	err := xcontext.DB(ctx).
		Where("owner=?", owner).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
