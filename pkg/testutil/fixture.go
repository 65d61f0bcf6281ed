package testutil

import (
	"context"

	"github.com/questx-lab/cardlottery/internal/entity"
	"github.com/questx-lab/cardlottery/internal/repository"
)

const (
	FixtureAdmin = "admin"
	FixtureUser1 = "user1"
	FixtureUser2 = "user2"

	FixtureUsdtMint  = "usdt-mint"
	FixtureTokenMint = "bonk-mint"
	FixtureWsolMint  = "So11111111111111111111111111111111111111112"

	FixtureVault     = "vault"
	FixtureVaultUsdt = "vault-usdt"
	FixtureVaultWsol = "vault-wsol"

	FixtureUser1Usdt  = "user1-usdt"
	FixtureUser2Usdt  = "user2-usdt"
	FixtureUser1Token = "user1-bonk"

	FixtureMinRent uint64 = 890_880

	FixtureNativeBalance uint64 = 1_000_000_000_000
	FixtureUsdtBalance   uint64 = 10_000_000_000
)

// FixturePools are the pools registered by CreateFixture, in active order.
var FixturePools = []entity.PrizePool{
	{Index: 0, Destination: "pool-0", PoolType: entity.RaydiumCPMM, Name: "SOL-BONK"},
	{Index: 1, Destination: "pool-1", PoolType: entity.Jupiter, Name: "SOL-WIF"},
	{Index: 2, Destination: "pool-2", PoolType: entity.Orca, Name: "SOL-JUP"},
}

// CreateFixture inserts an initialized configuration with three active pools and
// funded ledger accounts for the vault and both users.
func CreateFixture(ctx context.Context) {
	InsertGlobalConfig(ctx)
	InsertPrizePools(ctx)
	InsertLedgerAccounts(ctx)
}

func InsertGlobalConfig(ctx context.Context) {
	activeIDs := entity.NewActivePoolIDs()
	for i, pool := range FixturePools {
		activeIDs[i] = pool.Index
	}

	err := repository.NewGlobalConfigRepository().Create(ctx, &entity.GlobalConfig{
		Admin:              FixtureAdmin,
		NextPoolID:         uint32(len(FixturePools)),
		PrizePoolCount:     uint32(len(FixturePools)),
		ActivePoolIDs:      activeIDs,
		OracleQueue:        DefaultOracleQueue,
		RequestTimeoutSecs: int64(DefaultRequestTimeout.Seconds()),
		Version:            entity.CurrentConfigVersion,
	})
	if err != nil {
		panic(err)
	}
}

func InsertPrizePools(ctx context.Context) {
	prizePoolRepo := repository.NewPrizePoolRepository()
	for i := range FixturePools {
		pool := FixturePools[i]
		if err := prizePoolRepo.Create(ctx, &pool); err != nil {
			panic(err)
		}
	}
}

func InsertLedgerAccounts(ctx context.Context) {
	accountRepo := repository.NewLedgerAccountRepository()
	accounts := []entity.LedgerAccount{
		{Address: FixtureVault, Mint: entity.NativeMint, Owner: FixtureVault, Balance: FixtureNativeBalance},
		{Address: FixtureVaultUsdt, Mint: FixtureUsdtMint, Owner: FixtureVault, Balance: FixtureUsdtBalance},
		{Address: FixtureVaultWsol, Mint: FixtureWsolMint, Owner: FixtureVault},
		{Address: FixtureUser1, Mint: entity.NativeMint, Owner: FixtureUser1, Balance: FixtureNativeBalance},
		{Address: FixtureUser2, Mint: entity.NativeMint, Owner: FixtureUser2, Balance: FixtureNativeBalance},
		{Address: FixtureUser1Usdt, Mint: FixtureUsdtMint, Owner: FixtureUser1, Balance: FixtureUsdtBalance},
		{Address: FixtureUser2Usdt, Mint: FixtureUsdtMint, Owner: FixtureUser2, Balance: FixtureUsdtBalance},
		{Address: FixtureUser1Token, Mint: FixtureTokenMint, Owner: FixtureUser1},
	}

	for i := range accounts {
		if err := accountRepo.Upsert(ctx, &accounts[i]); err != nil {
			panic(err)
		}
	}
}
