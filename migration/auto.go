package migration

import (
	"context"

	"github.com/questx-lab/cardlottery/internal/entity"
)

// AutoMigrate creates the tables from the entities. It is used with databases
// which have no versioned migrations, like sqlite.
func AutoMigrate(ctx context.Context) error {
	return entity.MigrateTable(ctx)
}
