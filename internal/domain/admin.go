package domain

import (
	"context"
	"errors"
	"time"

	"github.com/questx-lab/cardlottery/internal/domain/ledger"
	"github.com/questx-lab/cardlottery/internal/entity"
	"github.com/questx-lab/cardlottery/internal/model"
	"github.com/questx-lab/cardlottery/internal/repository"
	"github.com/questx-lab/cardlottery/pkg/errorx"
	"github.com/questx-lab/cardlottery/pkg/xcontext"
	"gorm.io/gorm"
)

const (
	defaultRequestTimeout = 10 * time.Minute
	maxPlatformFeeBps     = 10_000
)

type AdminDomain interface {
	Initialize(context.Context, *model.InitializeRequest) (*model.InitializeResponse, error)
	MigrateConfig(context.Context, *model.MigrateConfigRequest) (*model.MigrateConfigResponse, error)
	CloseConfig(context.Context, *model.CloseConfigRequest) (*model.CloseConfigResponse, error)
	SetPause(context.Context, *model.SetPauseRequest) (*model.SetPauseResponse, error)
	WithdrawNative(context.Context, *model.WithdrawRequest) (*model.WithdrawResponse, error)
	WithdrawToken(context.Context, *model.WithdrawRequest) (*model.WithdrawResponse, error)
	GetConfig(context.Context, *model.GetConfigRequest) (*model.GetConfigResponse, error)
}

type adminDomain struct {
	globalConfigRepo repository.GlobalConfigRepository
	ledger           ledger.Ledger
}

func NewAdminDomain(
	globalConfigRepo repository.GlobalConfigRepository,
	ledger ledger.Ledger,
) *adminDomain {
	return &adminDomain{
		globalConfigRepo: globalConfigRepo,
		ledger:           ledger,
	}
}

func (d *adminDomain) Initialize(
	ctx context.Context, req *model.InitializeRequest,
) (*model.InitializeResponse, error) {
	caller := xcontext.RequestUserID(ctx)
	if caller == "" || caller != xcontext.Configs(ctx).Lottery.Admin {
		return nil, errorx.New(errorx.Unauthorized, "Only the configured admin can initialize")
	}

	if req.PlatformFeeBps > maxPlatformFeeBps {
		return nil, errorx.New(errorx.BadRequest, "Platform fee must not exceed %d bps", maxPlatformFeeBps)
	}

	_, err := d.globalConfigRepo.Get(ctx)
	if err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "Lottery is already initialized")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get global config: %v", err)
		return nil, errorx.Unknown
	}

	cfg := &entity.GlobalConfig{
		Admin:          caller,
		PlatformFeeBps: req.PlatformFeeBps,
		ActivePoolIDs:  entity.NewActivePoolIDs(),
		Version:        entity.CurrentConfigVersion,
	}
	fillConfigDefaults(ctx, cfg)

	if err := d.globalConfigRepo.Create(ctx, cfg); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create global config: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.Logger(ctx).Infof("Lottery initialized by %s", caller)
	return &model.InitializeResponse{}, nil
}

func fillConfigDefaults(ctx context.Context, cfg *entity.GlobalConfig) {
	if cfg.OracleQueue == "" {
		cfg.OracleQueue = xcontext.Configs(ctx).Lottery.DefaultOracleQueue
	}

	if cfg.RequestTimeoutSecs == 0 {
		timeout := xcontext.Configs(ctx).Lottery.DefaultRequestTimeout
		if timeout <= 0 {
			timeout = defaultRequestTimeout
		}

		cfg.RequestTimeoutSecs = int64(timeout / time.Second)
	}
}

// MigrateConfig brings a configuration written by an older layout to the current
// one and sets the next pool id.
func (d *adminDomain) MigrateConfig(
	ctx context.Context, req *model.MigrateConfigRequest,
) (*model.MigrateConfigResponse, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	cfg, err := getGlobalConfig(ctx, d.globalConfigRepo, true)
	if err != nil {
		return nil, err
	}

	if err := requireAdmin(ctx, cfg); err != nil {
		return nil, err
	}

	if req.NextPoolID < cfg.NextPoolID {
		return nil, errorx.New(errorx.BadRequest,
			"Next pool id cannot decrease from %d to %d", cfg.NextPoolID, req.NextPoolID)
	}

	if req.NextPoolID == entity.EmptyPoolSlot {
		return nil, errorx.New(errorx.BadRequest, "Invalid next pool id")
	}

	cfg.NextPoolID = req.NextPoolID
	if cfg.PrizePoolCount > 0 && int(cfg.PrizePoolCount) <= len(cfg.ActivePoolIDs) {
		active := entity.NewActivePoolIDs()
		copy(active, cfg.ActivePools())
		cfg.ActivePoolIDs = active
	} else {
		cfg.PrizePoolCount = 0
		cfg.ActivePoolIDs = entity.NewActivePoolIDs()
	}

	fillConfigDefaults(ctx, cfg)
	cfg.Version = entity.CurrentConfigVersion

	if err := d.globalConfigRepo.Save(ctx, cfg); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save global config: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.CommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.MigrateConfigResponse{Config: convertGlobalConfig(cfg)}, nil
}

func (d *adminDomain) CloseConfig(
	ctx context.Context, req *model.CloseConfigRequest,
) (*model.CloseConfigResponse, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	cfg, err := getGlobalConfig(ctx, d.globalConfigRepo, true)
	if err != nil {
		return nil, err
	}

	if err := requireAdmin(ctx, cfg); err != nil {
		return nil, err
	}

	if err := d.globalConfigRepo.Delete(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete global config: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.CommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.Logger(ctx).Infof("Lottery config closed by %s", cfg.Admin)
	return &model.CloseConfigResponse{}, nil
}

func (d *adminDomain) SetPause(
	ctx context.Context, req *model.SetPauseRequest,
) (*model.SetPauseResponse, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	cfg, err := getGlobalConfig(ctx, d.globalConfigRepo, true)
	if err != nil {
		return nil, err
	}

	if err := requireAdmin(ctx, cfg); err != nil {
		return nil, err
	}

	cfg.Paused = req.Paused
	if err := d.globalConfigRepo.Save(ctx, cfg); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save global config: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.CommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SetPauseResponse{}, nil
}

func (d *adminDomain) WithdrawNative(
	ctx context.Context, req *model.WithdrawRequest,
) (*model.WithdrawResponse, error) {
	vaultAddress := xcontext.Configs(ctx).Lottery.VaultAddress
	minRent := xcontext.Configs(ctx).Ledger.MinRent

	return d.withdraw(ctx, req, vaultAddress, minRent)
}

func (d *adminDomain) WithdrawToken(
	ctx context.Context, req *model.WithdrawRequest,
) (*model.WithdrawResponse, error) {
	if req.Destination == "" {
		return nil, errorx.New(errorx.BadRequest, "Destination token account is required")
	}

	return d.withdraw(ctx, req, xcontext.Configs(ctx).Lottery.VaultTokenAddress, 0)
}

// withdraw moves amount out of the vault account, always leaving reserve behind.
func (d *adminDomain) withdraw(
	ctx context.Context, req *model.WithdrawRequest, vaultAddress string, reserve uint64,
) (*model.WithdrawResponse, error) {
	if req.Amount == 0 {
		return nil, errorx.New(errorx.BadRequest, "Amount must be positive")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	cfg, err := getGlobalConfig(ctx, d.globalConfigRepo, false)
	if err != nil {
		return nil, err
	}

	if err := requireAdmin(ctx, cfg); err != nil {
		return nil, err
	}

	destination := req.Destination
	if destination == "" {
		destination = cfg.Admin
	}

	vault, err := d.ledger.Account(ctx, vaultAddress)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get vault account %s: %v", vaultAddress, err)
		return nil, errorx.Unknown
	}

	var available uint64
	if vault.Balance > reserve {
		available = vault.Balance - reserve
	}

	if req.Amount > available {
		return nil, errorx.New(errorx.InsufficientVaultBalance,
			"Vault has %d available, requested %d", available, req.Amount)
	}

	if err := d.ledger.Transfer(ctx, vaultAddress, destination, req.Amount); err != nil {
		switch {
		case errors.Is(err, ledger.ErrAccountNotFound):
			return nil, errorx.New(errorx.NotFound, "Not found destination account")
		case errors.Is(err, ledger.ErrMintMismatch):
			return nil, errorx.New(errorx.InvalidTokenAccount, "Destination has a different mint")
		}

		xcontext.Logger(ctx).Errorf("Cannot transfer from vault: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.CommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.Logger(ctx).Infof("Admin withdrew %d from %s to %s", req.Amount, vaultAddress, destination)
	return &model.WithdrawResponse{Amount: req.Amount}, nil
}

func (d *adminDomain) GetConfig(
	ctx context.Context, req *model.GetConfigRequest,
) (*model.GetConfigResponse, error) {
	cfg, err := getGlobalConfig(ctx, d.globalConfigRepo, false)
	if err != nil {
		return nil, err
	}

	return &model.GetConfigResponse{Config: convertGlobalConfig(cfg)}, nil
}
