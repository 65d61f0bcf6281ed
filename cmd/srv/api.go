package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/questx-lab/cardlottery/internal/middleware"
	"github.com/questx-lab/cardlottery/internal/model"
	"github.com/questx-lab/cardlottery/pkg/authenticator"
	"github.com/questx-lab/cardlottery/pkg/router"
	"github.com/questx-lab/cardlottery/pkg/xcontext"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func (s *srv) startApi(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRedisClient()
	s.loadPublisher()
	defer s.publisher.Stop(s.ctx)
	s.loadRepos()
	s.loadEngine()
	s.loadDomains()
	s.loadRouter()

	cfg := xcontext.Configs(s.ctx)
	s.server = &http.Server{
		Addr:    cfg.ApiServer.Address(),
		Handler: s.router.Handler(),
	}

	metricServer := s.newMetricServer()

	ctx, stop := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	for _, httpServer := range []*http.Server{s.server, metricServer} {
		httpServer := httpServer
		group.Go(func() error {
			xcontext.Logger(s.ctx).Infof("Starting server on %s", httpServer.Addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx := context.Background()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return metricServer.Shutdown(shutdownCtx)
	})

	err := group.Wait()
	xcontext.Logger(s.ctx).Infof("Server stopped")
	return err
}

func (s *srv) loadRouter() {
	cfg := xcontext.Configs(s.ctx)
	accessTokenEngine := authenticator.NewTokenEngine[model.AccessToken](
		cfg.Auth.TokenSecret, cfg.Auth.AccessToken.Expiration)

	s.router = router.New(s.ctx)
	s.router.AddCloser(middleware.Logger())
	s.router.AddCloser(middleware.Prometheus())

	// These following APIs need authentication with Access Token.
	authRouter := s.router.Branch()
	authRouter.Before(middleware.NewAuthVerifier(accessTokenEngine).Middleware())
	{
		// Lottery API
		router.POST(authRouter, "/createLottery", s.lotteryDomain.Create)
		router.POST(authRouter, "/claimLottery", s.lotteryDomain.Claim)
		router.POST(authRouter, "/refundLottery", s.lotteryDomain.Refund)
		router.GET(authRouter, "/getMyLotteries", s.lotteryDomain.GetMyList)

		// Prize pool API
		router.POST(authRouter, "/addPrizePool", s.prizePoolDomain.Add)
		router.POST(authRouter, "/removePrizePool", s.prizePoolDomain.Remove)
		router.POST(authRouter, "/updatePrizePool", s.prizePoolDomain.Update)

		// Admin API
		router.POST(authRouter, "/initialize", s.adminDomain.Initialize)
		router.POST(authRouter, "/migrateConfig", s.adminDomain.MigrateConfig)
		router.POST(authRouter, "/closeConfig", s.adminDomain.CloseConfig)
		router.POST(authRouter, "/setPause", s.adminDomain.SetPause)
		router.POST(authRouter, "/withdrawNative", s.adminDomain.WithdrawNative)
		router.POST(authRouter, "/withdrawToken", s.adminDomain.WithdrawToken)
	}

	// Public API.
	router.GET(s.router, "/getLottery", s.lotteryDomain.Get)
	router.GET(s.router, "/getPrizePools", s.prizePoolDomain.GetList)
	router.GET(s.router, "/getConfig", s.adminDomain.GetConfig)

	// Fulfillments are authenticated by the provider signature.
	router.POST(s.router, "/revealLottery", s.lotteryDomain.Reveal)
}
