package entity

import (
	"context"

	"github.com/questx-lab/cardlottery/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&GlobalConfig{},
		&PrizePool{},
		&LotteryRequest{},
		&Settlement{},
		&LedgerAccount{},
	)
}
