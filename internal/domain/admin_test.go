package domain

import (
	"testing"
	"time"

	"github.com/questx-lab/cardlottery/internal/domain/ledger"
	"github.com/questx-lab/cardlottery/internal/entity"
	"github.com/questx-lab/cardlottery/internal/model"
	"github.com/questx-lab/cardlottery/internal/repository"
	"github.com/questx-lab/cardlottery/pkg/errorx"
	"github.com/questx-lab/cardlottery/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newTestAdminDomain() *adminDomain {
	l := ledger.NewGormLedger(repository.NewLedgerAccountRepository(), time.Now(), time.Second)
	return NewAdminDomain(repository.NewGlobalConfigRepository(), l)
}

func Test_adminDomain_Initialize(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestAdminDomain()

	_, err := d.GetConfig(ctx, &model.GetConfigRequest{})
	require.True(t, errorx.Is(err, errorx.NotFound))

	_, err = d.Initialize(testutil.MockContextWithUserID(ctx, testutil.FixtureUser1), &model.InitializeRequest{})
	require.True(t, errorx.Is(err, errorx.Unauthorized))

	adminCtx := testutil.MockContextWithUserID(ctx, testutil.FixtureAdmin)
	_, err = d.Initialize(adminCtx, &model.InitializeRequest{PlatformFeeBps: 10_001})
	require.True(t, errorx.Is(err, errorx.BadRequest))

	_, err = d.Initialize(adminCtx, &model.InitializeRequest{PlatformFeeBps: 250})
	require.NoError(t, err)

	resp, err := d.GetConfig(ctx, &model.GetConfigRequest{})
	require.NoError(t, err)
	require.Equal(t, testutil.FixtureAdmin, resp.Config.Admin)
	require.Equal(t, uint16(250), resp.Config.PlatformFeeBps)
	require.Equal(t, uint32(0), resp.Config.NextPoolID)
	require.Equal(t, uint32(0), resp.Config.PrizePoolCount)
	require.Empty(t, resp.Config.ActivePoolIDs)
	require.Equal(t, testutil.DefaultOracleQueue, resp.Config.OracleQueue)
	require.Equal(t, entity.CurrentConfigVersion, resp.Config.Version)
	require.False(t, resp.Config.Paused)

	_, err = d.Initialize(adminCtx, &model.InitializeRequest{})
	require.True(t, errorx.Is(err, errorx.AlreadyExists))
}

func Test_adminDomain_SetPause(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)
	d := newTestAdminDomain()

	_, err := d.SetPause(testutil.MockContextWithUserID(ctx, testutil.FixtureUser1), &model.SetPauseRequest{Paused: true})
	require.True(t, errorx.Is(err, errorx.Unauthorized))

	adminCtx := testutil.MockContextWithUserID(ctx, testutil.FixtureAdmin)
	_, err = d.SetPause(adminCtx, &model.SetPauseRequest{Paused: true})
	require.NoError(t, err)

	cfg, err := repository.NewGlobalConfigRepository().Get(ctx)
	require.NoError(t, err)
	require.True(t, cfg.Paused)

	_, err = d.SetPause(adminCtx, &model.SetPauseRequest{Paused: false})
	require.NoError(t, err)

	cfg, err = repository.NewGlobalConfigRepository().Get(ctx)
	require.NoError(t, err)
	require.False(t, cfg.Paused)
}

func Test_adminDomain_MigrateConfig(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)
	d := newTestAdminDomain()

	// Simulate a configuration stored by an older layout.
	cfgRepo := repository.NewGlobalConfigRepository()
	cfg, err := cfgRepo.Get(ctx)
	require.NoError(t, err)
	cfg.Version = 1
	cfg.OracleQueue = ""
	cfg.RequestTimeoutSecs = 0
	cfg.ActivePoolIDs = cfg.ActivePoolIDs[:5]
	require.NoError(t, cfgRepo.Save(ctx, cfg))

	adminCtx := testutil.MockContextWithUserID(ctx, testutil.FixtureAdmin)

	_, err = d.MigrateConfig(adminCtx, &model.MigrateConfigRequest{NextPoolID: 2})
	require.True(t, errorx.Is(err, errorx.BadRequest))

	_, err = d.MigrateConfig(adminCtx, &model.MigrateConfigRequest{NextPoolID: entity.EmptyPoolSlot})
	require.True(t, errorx.Is(err, errorx.BadRequest))

	_, err = d.MigrateConfig(
		testutil.MockContextWithUserID(ctx, testutil.FixtureUser1), &model.MigrateConfigRequest{NextPoolID: 7})
	require.True(t, errorx.Is(err, errorx.Unauthorized))

	resp, err := d.MigrateConfig(adminCtx, &model.MigrateConfigRequest{NextPoolID: 7})
	require.NoError(t, err)
	require.Equal(t, uint32(7), resp.Config.NextPoolID)
	require.Equal(t, []uint32{0, 1, 2}, resp.Config.ActivePoolIDs)
	require.Equal(t, entity.CurrentConfigVersion, resp.Config.Version)

	cfg, err = cfgRepo.Get(ctx)
	require.NoError(t, err)
	require.Len(t, cfg.ActivePoolIDs, entity.MaxPrizePools)
	require.Equal(t, entity.EmptyPoolSlot, cfg.ActivePoolIDs[3])
	require.Equal(t, testutil.DefaultOracleQueue, cfg.OracleQueue)
	require.Equal(t, testutil.DefaultRequestTimeout, cfg.RequestTimeout())
}

func Test_adminDomain_CloseConfig(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)
	d := newTestAdminDomain()

	_, err := d.CloseConfig(testutil.MockContextWithUserID(ctx, testutil.FixtureUser2), &model.CloseConfigRequest{})
	require.True(t, errorx.Is(err, errorx.Unauthorized))

	_, err = d.CloseConfig(testutil.MockContextWithUserID(ctx, testutil.FixtureAdmin), &model.CloseConfigRequest{})
	require.NoError(t, err)

	_, err = d.GetConfig(ctx, &model.GetConfigRequest{})
	require.True(t, errorx.Is(err, errorx.NotFound))

	// It can be initialized again afterwards.
	_, err = d.Initialize(testutil.MockContextWithUserID(ctx, testutil.FixtureAdmin), &model.InitializeRequest{})
	require.NoError(t, err)
}

func Test_adminDomain_WithdrawNative(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)
	d := newTestAdminDomain()
	adminCtx := testutil.MockContextWithUserID(ctx, testutil.FixtureAdmin)
	accountRepo := repository.NewLedgerAccountRepository()

	require.NoError(t, accountRepo.Upsert(ctx, &entity.LedgerAccount{
		Address: testutil.FixtureAdmin, Mint: entity.NativeMint, Owner: testutil.FixtureAdmin,
	}))

	_, err := d.WithdrawNative(
		testutil.MockContextWithUserID(ctx, testutil.FixtureUser1), &model.WithdrawRequest{Amount: 1})
	require.True(t, errorx.Is(err, errorx.Unauthorized))

	_, err = d.WithdrawNative(adminCtx, &model.WithdrawRequest{})
	require.True(t, errorx.Is(err, errorx.BadRequest))

	// The minimum rent always stays in the vault.
	_, err = d.WithdrawNative(adminCtx, &model.WithdrawRequest{Amount: testutil.FixtureNativeBalance})
	require.True(t, errorx.Is(err, errorx.InsufficientVaultBalance))

	available := testutil.FixtureNativeBalance - testutil.FixtureMinRent
	resp, err := d.WithdrawNative(adminCtx, &model.WithdrawRequest{Amount: available})
	require.NoError(t, err)
	require.Equal(t, available, resp.Amount)

	vault, err := accountRepo.Get(ctx, testutil.FixtureVault)
	require.NoError(t, err)
	require.Equal(t, testutil.FixtureMinRent, vault.Balance)

	admin, err := accountRepo.Get(ctx, testutil.FixtureAdmin)
	require.NoError(t, err)
	require.Equal(t, available, admin.Balance)
}

func Test_adminDomain_WithdrawToken(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)
	d := newTestAdminDomain()
	adminCtx := testutil.MockContextWithUserID(ctx, testutil.FixtureAdmin)

	_, err := d.WithdrawToken(adminCtx, &model.WithdrawRequest{Amount: 1})
	require.True(t, errorx.Is(err, errorx.BadRequest))

	_, err = d.WithdrawToken(adminCtx, &model.WithdrawRequest{
		Amount: 1, Destination: testutil.FixtureUser1Token,
	})
	require.True(t, errorx.Is(err, errorx.InvalidTokenAccount))

	_, err = d.WithdrawToken(adminCtx, &model.WithdrawRequest{
		Amount: 1, Destination: "unknown-account",
	})
	require.True(t, errorx.Is(err, errorx.NotFound))

	// Token vaults keep no reserve.
	_, err = d.WithdrawToken(adminCtx, &model.WithdrawRequest{
		Amount: testutil.FixtureUsdtBalance, Destination: testutil.FixtureUser2Usdt,
	})
	require.NoError(t, err)

	accountRepo := repository.NewLedgerAccountRepository()
	vault, err := accountRepo.Get(ctx, testutil.FixtureVaultUsdt)
	require.NoError(t, err)
	require.Equal(t, uint64(0), vault.Balance)

	user, err := accountRepo.Get(ctx, testutil.FixtureUser2Usdt)
	require.NoError(t, err)
	require.Equal(t, 2*testutil.FixtureUsdtBalance, user.Balance)
}
