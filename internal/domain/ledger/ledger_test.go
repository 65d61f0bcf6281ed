package ledger

import (
	"testing"
	"time"

	"github.com/questx-lab/cardlottery/internal/repository"
	"github.com/questx-lab/cardlottery/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_gormLedger_CurrentSlot(t *testing.T) {
	genesis := time.Unix(1_600_000_000, 0)
	l := NewGormLedger(repository.NewLedgerAccountRepository(), genesis, 400*time.Millisecond)

	l.now = func() time.Time { return genesis.Add(-time.Second) }
	require.Equal(t, uint64(0), l.CurrentSlot(testutil.MockContext()))

	l.now = func() time.Time { return genesis.Add(10 * time.Second) }
	require.Equal(t, uint64(25), l.CurrentSlot(testutil.MockContext()))
}

func Test_gormLedger_Transfer(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)
	l := NewGormLedger(repository.NewLedgerAccountRepository(), time.Now(), time.Second)

	err := l.Transfer(ctx, testutil.FixtureUser1Usdt, testutil.FixtureVaultUsdt, 30_000_000)
	require.NoError(t, err)

	source, err := l.Account(ctx, testutil.FixtureUser1Usdt)
	require.NoError(t, err)
	require.Equal(t, testutil.FixtureUsdtBalance-30_000_000, source.Balance)

	vault, err := l.Account(ctx, testutil.FixtureVaultUsdt)
	require.NoError(t, err)
	require.Equal(t, testutil.FixtureUsdtBalance+30_000_000, vault.Balance)

	err = l.Transfer(ctx, testutil.FixtureUser1Usdt, testutil.FixtureVault, 1)
	require.ErrorIs(t, err, ErrMintMismatch)

	err = l.Transfer(ctx, testutil.FixtureUser1Token, testutil.FixtureUser1Token, 1)
	require.ErrorIs(t, err, ErrInsufficientBalance)

	err = l.Transfer(ctx, "unknown", testutil.FixtureVault, 1)
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func Test_gormLedger_Wrap(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)
	l := NewGormLedger(repository.NewLedgerAccountRepository(), time.Now(), time.Second)

	require.NoError(t, l.Wrap(ctx, testutil.FixtureVault, testutil.FixtureVaultWsol, 1_000))

	wsol, err := l.Account(ctx, testutil.FixtureVaultWsol)
	require.NoError(t, err)
	require.Equal(t, uint64(1_000), wsol.Balance)

	err = l.Wrap(ctx, testutil.FixtureVault, testutil.FixtureVaultUsdt, 1_000)
	require.ErrorIs(t, err, ErrMintMismatch)
}

func Test_gormLedger_Reconcile(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)
	l := NewGormLedger(repository.NewLedgerAccountRepository(), time.Now(), time.Second)

	require.NoError(t, l.Reconcile(ctx, testutil.FixtureUser1Token, 1234))

	account, err := l.Account(ctx, testutil.FixtureUser1Token)
	require.NoError(t, err)
	require.Equal(t, uint64(1234), account.Balance)

	// Same balance again is not an error.
	require.NoError(t, l.Reconcile(ctx, testutil.FixtureUser1Token, 1234))
	require.NoError(t, l.Reconcile(ctx, testutil.FixtureUser1Token, 0))

	account, err = l.Account(ctx, testutil.FixtureUser1Token)
	require.NoError(t, err)
	require.Equal(t, uint64(0), account.Balance)

	require.ErrorIs(t, l.Reconcile(ctx, "unknown-account", 1), ErrAccountNotFound)
}
