package main

import (
	"github.com/questx-lab/cardlottery/migration"
	"github.com/questx-lab/cardlottery/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(cctx *cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())

	if cctx.Bool("down") {
		if err := migration.Rollback(s.ctx); err != nil {
			return err
		}

		xcontext.Logger(s.ctx).Infof("Reverted the last migration")
		return nil
	}

	s.migrateDB()
	return nil
}
