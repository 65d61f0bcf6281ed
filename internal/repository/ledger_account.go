package repository

import (
	"context"

	"github.com/questx-lab/cardlottery/internal/entity"
	"github.com/questx-lab/cardlottery/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LedgerAccountRepository interface {
	// Upsert creates the account or overwrites its mint, owner and balance.
	Upsert(ctx context.Context, account *entity.LedgerAccount) error
	Get(ctx context.Context, address string) (*entity.LedgerAccount, error)
	Increase(ctx context.Context, address string, amount uint64) error

	// Decrease returns gorm.ErrRecordNotFound if the account does not exist or its
	// balance is lower than amount.
	Decrease(ctx context.Context, address string, amount uint64) error
	SetBalance(ctx context.Context, address string, balance uint64) error
}

type ledgerAccountRepository struct{}

func NewLedgerAccountRepository() *ledgerAccountRepository {
	return &ledgerAccountRepository{}
}

func (r *ledgerAccountRepository) Upsert(ctx context.Context, account *entity.LedgerAccount) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"mint", "owner", "balance", "updated_at"}),
	}).Create(account).Error
}

func (r *ledgerAccountRepository) Get(ctx context.Context, address string) (*entity.LedgerAccount, error) {
	var result entity.LedgerAccount
	if err := xcontext.DB(ctx).Take(&result, "address=?", address).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *ledgerAccountRepository) Increase(ctx context.Context, address string, amount uint64) error {
	tx := xcontext.DB(ctx).Model(&entity.LedgerAccount{}).
		Where("address=?", address).
		Update("balance", gorm.Expr("balance+?", amount))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *ledgerAccountRepository) Decrease(ctx context.Context, address string, amount uint64) error {
	tx := xcontext.DB(ctx).Model(&entity.LedgerAccount{}).
		Where("address=? AND balance>=?", address, amount).
		Update("balance", gorm.Expr("balance-?", amount))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *ledgerAccountRepository) SetBalance(ctx context.Context, address string, balance uint64) error {
	return xcontext.DB(ctx).Model(&entity.LedgerAccount{}).
		Where("address=?", address).
		Update("balance", balance).Error
}
