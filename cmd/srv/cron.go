package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/questx-lab/cardlottery/internal/domain/cron"
	"github.com/questx-lab/cardlottery/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRedisClient()
	s.loadRepos()
	s.loadOracle()

	cfg := xcontext.Configs(s.ctx)
	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Register(cron.NewPriceRefreshCronJob(
		s.priceFeed, cfg.Oracle.FeedID, cfg.Cron.PriceRefreshInterval))
	cronJobManager.Register(cron.NewLotteryGaugeCronJob(
		s.globalConfigRepo, s.lotteryRequestRepo, cfg.Cron.GaugeInterval))

	// Gauges set by the jobs are only visible through this process.
	metricServer := s.newMetricServer()
	go func() {
		if err := metricServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			xcontext.Logger(s.ctx).Errorf("Cannot start metric server: %v", err)
		}
	}()
	defer metricServer.Shutdown(context.Background())

	ctx, stop := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		cronJobManager.Cancel(s.ctx)
	}()

	cronJobManager.Start(s.ctx)
	return nil
}
