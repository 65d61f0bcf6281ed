// Package ledger keeps the custodial balances of participants and of the vault.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/questx-lab/cardlottery/internal/entity"
	"github.com/questx-lab/cardlottery/internal/repository"
	"gorm.io/gorm"
)

// WrappedNativeMint is the mint of token accounts holding wrapped native currency.
const WrappedNativeMint = "So11111111111111111111111111111111111111112"

var (
	ErrAccountNotFound     = errors.New("ledger account not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrMintMismatch        = errors.New("mint mismatch")
)

type Ledger interface {
	// CurrentSlot returns the current ledger timepoint.
	CurrentSlot(ctx context.Context) uint64

	Account(ctx context.Context, address string) (*entity.LedgerAccount, error)

	// Transfer moves amount between two accounts of the same mint.
	Transfer(ctx context.Context, from, to string, amount uint64) error

	// Wrap moves native currency from a native account into a wrapped native token
	// account.
	Wrap(ctx context.Context, from, to string, amount uint64) error

	// Reconcile records the balance an external venue reported for an account.
	Reconcile(ctx context.Context, address string, balance uint64) error
}

type gormLedger struct {
	accountRepo  repository.LedgerAccountRepository
	genesis      time.Time
	slotDuration time.Duration
	now          func() time.Time
}

func NewGormLedger(
	accountRepo repository.LedgerAccountRepository,
	genesis time.Time,
	slotDuration time.Duration,
) *gormLedger {
	if slotDuration <= 0 {
		slotDuration = 400 * time.Millisecond
	}

	return &gormLedger{
		accountRepo:  accountRepo,
		genesis:      genesis,
		slotDuration: slotDuration,
		now:          time.Now,
	}
}

func (l *gormLedger) CurrentSlot(ctx context.Context) uint64 {
	elapsed := l.now().Sub(l.genesis)
	if elapsed < 0 {
		return 0
	}

	return uint64(elapsed / l.slotDuration)
}

func (l *gormLedger) Account(ctx context.Context, address string) (*entity.LedgerAccount, error) {
	account, err := l.accountRepo.Get(ctx, address)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}

		return nil, err
	}

	return account, nil
}

func (l *gormLedger) Transfer(ctx context.Context, from, to string, amount uint64) error {
	source, err := l.Account(ctx, from)
	if err != nil {
		return err
	}

	destination, err := l.Account(ctx, to)
	if err != nil {
		return err
	}

	if source.Mint != destination.Mint {
		return ErrMintMismatch
	}

	return l.move(ctx, from, to, amount)
}

func (l *gormLedger) Wrap(ctx context.Context, from, to string, amount uint64) error {
	source, err := l.Account(ctx, from)
	if err != nil {
		return err
	}

	destination, err := l.Account(ctx, to)
	if err != nil {
		return err
	}

	if source.Mint != entity.NativeMint || destination.Mint != WrappedNativeMint {
		return ErrMintMismatch
	}

	return l.move(ctx, from, to, amount)
}

func (l *gormLedger) Reconcile(ctx context.Context, address string, balance uint64) error {
	if _, err := l.Account(ctx, address); err != nil {
		return err
	}

	return l.accountRepo.SetBalance(ctx, address, balance)
}

func (l *gormLedger) move(ctx context.Context, from, to string, amount uint64) error {
	if amount == 0 {
		return nil
	}

	if err := l.accountRepo.Decrease(ctx, from, amount); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInsufficientBalance
		}

		return err
	}

	return l.accountRepo.Increase(ctx, to, amount)
}
