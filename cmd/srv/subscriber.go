package main

import (
	"os/signal"
	"syscall"

	"github.com/questx-lab/cardlottery/internal/domain"
	"github.com/questx-lab/cardlottery/pkg/kafka"
	"github.com/questx-lab/cardlottery/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

func (s *srv) startSubscriber(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRedisClient()
	s.loadPublisher()
	defer s.publisher.Stop(s.ctx)
	s.loadRepos()
	s.loadEngine()
	s.loadDomains()

	cfg := xcontext.Configs(s.ctx)
	fulfillmentHandler := domain.NewFulfillmentSubscribeHandler(s.lotteryDomain)
	subscriber, err := kafka.NewSubscriber(
		cfg.Kafka.GroupID,
		[]string{cfg.Kafka.Addr},
		[]string{cfg.Randomness.FulfillmentTopic},
		fulfillmentHandler.Subscribe,
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	xcontext.Logger(s.ctx).Infof("Subscribing to %s", cfg.Randomness.FulfillmentTopic)
	subscriber.Subscribe(ctx)

	return subscriber.Stop(s.ctx)
}
