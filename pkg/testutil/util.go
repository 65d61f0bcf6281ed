package testutil

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/questx-lab/cardlottery/config"
	"github.com/questx-lab/cardlottery/internal/entity"
	"github.com/questx-lab/cardlottery/pkg/logger"
	"github.com/questx-lab/cardlottery/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	JupiterProgram        = "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4"
	RaydiumCPMMProgram    = "CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C"
	RaydiumDevnetProgram  = "DRaycpLY18LhpbydsBWbVJtxpNv9oXPgjRSfpF2bWpYb"
	DefaultOracleQueue    = "randomness-queue"
	DefaultRequestTimeout = 10 * time.Minute
)

func MockConfigs() config.Configs {
	return config.Configs{
		Env: "test",
		ApiServer: config.APIServerConfigs{
			MaxLimit:     50,
			DefaultLimit: 10,
		},
		Auth: config.AuthConfigs{
			TokenSecret: "secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: time.Minute,
			},
		},
		Lottery: config.LotteryConfigs{
			Admin:                 FixtureAdmin,
			DefaultOracleQueue:    DefaultOracleQueue,
			DefaultRequestTimeout: DefaultRequestTimeout,
			ClaimWindow:           24 * time.Hour,
			SlotTolerance:         10,
			UsdtMint:              FixtureUsdtMint,
			VaultAddress:          FixtureVault,
			VaultTokenAddress:     FixtureVaultUsdt,
			VaultWsolAddress:      FixtureVaultWsol,
			ClaimLockTTL:          30 * time.Second,
		},
		Oracle: config.OracleConfigs{
			FeedID:      "sol-usd",
			MaxPriceAge: time.Minute,
			CacheTTL:    10 * time.Second,
		},
		Randomness: config.RandomnessConfigs{
			RequestTopic:     "randomness_requests",
			FulfillmentTopic: "randomness_fulfilled",
		},
		Settlement: config.SettlementConfigs{
			SlippageBps:     300,
			JupiterPrograms: []string{JupiterProgram},
			RaydiumPrograms: []string{RaydiumCPMMProgram, RaydiumDevnetProgram},
		},
		Ledger: config.LedgerConfigs{
			SlotDuration: 400 * time.Millisecond,
			MinRent:      FixtureMinRent,
		},
	}
}

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	// Every connection to :memory: opens a different database.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, MockConfigs())
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithDB(ctx, db)

	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	ctx = xcontext.WithSnowFlake(ctx, node)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

// MockContextWithUserID returns ctx acting as userID. A nil ctx starts a fresh
// database.
func MockContextWithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = MockContext()
	}

	return xcontext.WithRequestUserID(ctx, userID)
}
