package migration

import (
	"io/fs"
	"testing"

	"github.com/questx-lab/cardlottery/internal/entity"
	"github.com/questx-lab/cardlottery/pkg/testutil"
	"github.com/questx-lab/cardlottery/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	names, err := fs.Glob(mysqlFS, "mysql/*.sql")
	require.NoError(t, err)
	require.Contains(t, names, "mysql/000001_init.up.sql")
	require.Contains(t, names, "mysql/000001_init.down.sql")
	require.Zero(t, len(names)%2)
}

func TestAutoMigrate(t *testing.T) {
	ctx := testutil.MockContext()
	require.NoError(t, AutoMigrate(ctx))

	migrator := xcontext.DB(ctx).Migrator()
	for _, table := range []any{
		&entity.GlobalConfig{},
		&entity.PrizePool{},
		&entity.LotteryRequest{},
		&entity.Settlement{},
		&entity.LedgerAccount{},
	} {
		require.True(t, migrator.HasTable(table))
	}
}
