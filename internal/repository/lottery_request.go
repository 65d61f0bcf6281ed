package repository

import (
	"context"
	"time"

	"github.com/questx-lab/cardlottery/internal/entity"
	"github.com/questx-lab/cardlottery/pkg/xcontext"
	"gorm.io/gorm"
)

type RevealLotteryRequestData struct {
	TotalReward uint64
	PoolIndex   uint32
	RevealedAt  time.Time
}

type StatusCount struct {
	Status entity.LotteryStatus
	Count  int64
}

type LotteryRequestRepository interface {
	Create(ctx context.Context, req *entity.LotteryRequest) error
	GetByID(ctx context.Context, id string) (*entity.LotteryRequest, error)
	GetListByOwner(ctx context.Context, owner string, offset, limit int) ([]entity.LotteryRequest, error)
	GetPendingCreatedBefore(ctx context.Context, before time.Time, limit int) ([]entity.LotteryRequest, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)

	// Reveal moves a pending request to revealed. It returns gorm.ErrRecordNotFound if
	// the request is not pending anymore.
	Reveal(ctx context.Context, id string, data RevealLotteryRequestData) error

	// UpdateStatus changes the status only if the current status is from.
	UpdateStatus(ctx context.Context, id string, from, to entity.LotteryStatus) error

	// DeleteWithStatus removes the request only if it is still in the given status.
	DeleteWithStatus(ctx context.Context, id string, status entity.LotteryStatus) error
}

type lotteryRequestRepository struct{}

func NewLotteryRequestRepository() *lotteryRequestRepository {
	return &lotteryRequestRepository{}
}

func (r *lotteryRequestRepository) Create(ctx context.Context, req *entity.LotteryRequest) error {
	return xcontext.DB(ctx).Create(req).Error
}

func (r *lotteryRequestRepository) GetByID(ctx context.Context, id string) (*entity.LotteryRequest, error) {
	var result entity.LotteryRequest
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *lotteryRequestRepository) GetListByOwner(
	ctx context.Context, owner string, offset, limit int,
) ([]entity.LotteryRequest, error) {
	var result []entity.LotteryRequest
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

func (r *lotteryRequestRepository) GetPendingCreatedBefore(
	ctx context.Context, before time.Time, limit int,
) ([]entity.LotteryRequest, error) {
	var result []entity.LotteryRequest
	err := xcontext.DB(ctx).
		Where("status=? AND created_at<?", entity.LotteryPending, before).
		Order("created_at ASC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *lotteryRequestRepository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var result []StatusCount
	err := xcontext.DB(ctx).Model(&entity.LotteryRequest{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *lotteryRequestRepository) Reveal(
	ctx context.Context, id string, data RevealLotteryRequestData,
) error {
	tx := xcontext.DB(ctx).Model(&entity.LotteryRequest{}).
		Where("id=? AND status=?", id, entity.LotteryPending).
		Updates(map[string]any{
			"status":       entity.LotteryRevealed,
			"total_reward": data.TotalReward,
			"pool_index":   data.PoolIndex,
			"revealed_at":  data.RevealedAt,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *lotteryRequestRepository) UpdateStatus(
	ctx context.Context, id string, from, to entity.LotteryStatus,
) error {
	tx := xcontext.DB(ctx).Model(&entity.LotteryRequest{}).
		Where("id=? AND status=?", id, from).
		Update("status", to)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *lotteryRequestRepository) DeleteWithStatus(
	ctx context.Context, id string, status entity.LotteryStatus,
) error {
	tx := xcontext.DB(ctx).Delete(&entity.LotteryRequest{}, "id=? AND status=?", id, status)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
