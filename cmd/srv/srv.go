package main

import (
	"context"
	"net/http"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bwmarrin/snowflake"
	"github.com/questx-lab/cardlottery/config"
	"github.com/questx-lab/cardlottery/internal/common"
	"github.com/questx-lab/cardlottery/internal/domain"
	"github.com/questx-lab/cardlottery/internal/domain/ledger"
	"github.com/questx-lab/cardlottery/internal/domain/oracle"
	"github.com/questx-lab/cardlottery/internal/domain/randomness"
	"github.com/questx-lab/cardlottery/internal/domain/settlement"
	"github.com/questx-lab/cardlottery/internal/repository"
	"github.com/questx-lab/cardlottery/migration"
	"github.com/questx-lab/cardlottery/pkg/api"
	"github.com/questx-lab/cardlottery/pkg/kafka"
	"github.com/questx-lab/cardlottery/pkg/logger"
	"github.com/questx-lab/cardlottery/pkg/prometheus"
	"github.com/questx-lab/cardlottery/pkg/pubsub"
	"github.com/questx-lab/cardlottery/pkg/router"
	"github.com/questx-lab/cardlottery/pkg/xcontext"
	"github.com/questx-lab/cardlottery/pkg/xredis"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app *cli.App
	ctx context.Context

	server *http.Server
	router *router.Router

	redisClient xredis.Client
	publisher   pubsub.Publisher

	globalConfigRepo   repository.GlobalConfigRepository
	prizePoolRepo      repository.PrizePoolRepository
	lotteryRequestRepo repository.LotteryRequestRepository
	settlementRepo     repository.SettlementRepository
	ledgerAccountRepo  repository.LedgerAccountRepository

	ledger     ledger.Ledger
	priceFeed  *oracle.CachedFeed
	oracle     oracle.PriceOracle
	provider   randomness.Provider
	dispatcher settlement.Dispatcher

	adminDomain     domain.AdminDomain
	prizePoolDomain domain.PrizePoolDomain
	lotteryDomain   domain.LotteryDomain
}

func (s *srv) loadConfig(cctx *cli.Context) error {
	var cfg config.Configs
	if _, err := toml.DecodeFile(cctx.String("config"), &cfg); err != nil {
		return err
	}

	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(logger.ParseLevel(cfg.LogLevel)))
	s.ctx = xcontext.WithHTTPClient(s.ctx, &http.Client{Timeout: 10 * time.Second})

	node, err := snowflake.NewNode(cfg.NodeID)
	if err != nil {
		return err
	}
	s.ctx = xcontext.WithSnowFlake(s.ctx, node)

	return nil
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx).Database

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Database)
	default:
		dialector = mysql.New(mysql.Config{
			DSN:                       cfg.ConnectionString(),
			DefaultStringSize:         256,
			SkipInitializeWithVersion: false,
		})
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		panic(err)
	}

	if cfg.Driver == "sqlite" {
		// sqlite allows one writer, transactions would block each other.
		sqlDB, err := db.DB()
		if err != nil {
			panic(err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "info":
		return gormlogger.Info
	case "warn", "warning":
		return gormlogger.Warn
	default:
		return gormlogger.Error
	}
}

func (s *srv) migrateDB() {
	var err error
	if xcontext.Configs(s.ctx).Database.Driver == "sqlite" {
		err = migration.AutoMigrate(s.ctx)
	} else {
		err = migration.Migrate(s.ctx)
	}

	if err != nil {
		panic(err)
	}
}

func (s *srv) loadRedisClient() {
	var err error
	s.redisClient, err = xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadPublisher() {
	cfg := xcontext.Configs(s.ctx)

	var err error
	s.publisher, err = kafka.NewPublisher(cfg.Kafka.GroupID, []string{cfg.Kafka.Addr})
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadRepos() {
	s.globalConfigRepo = repository.NewGlobalConfigRepository()
	s.prizePoolRepo = repository.NewPrizePoolRepository()
	s.lotteryRequestRepo = repository.NewLotteryRequestRepository()
	s.settlementRepo = repository.NewSettlementRepository()
	s.ledgerAccountRepo = repository.NewLedgerAccountRepository()
}

func (s *srv) loadOracle() {
	cfg := xcontext.Configs(s.ctx).Oracle

	hermes := oracle.NewHermesFeed(api.NewGenerator(cfg.Endpoints...), cfg.FeedID)
	s.priceFeed = oracle.NewCachedFeed(hermes, s.redisClient, cfg.FeedID, cfg.CacheTTL)
	s.oracle = oracle.NewPriceOracle(s.priceFeed, cfg.MaxPriceAge)
}

func (s *srv) loadEngine() {
	cfg := xcontext.Configs(s.ctx)

	s.ledger = ledger.NewGormLedger(s.ledgerAccountRepo, cfg.Ledger.GenesisTime, cfg.Ledger.SlotDuration)
	s.loadOracle()
	s.provider = randomness.NewKafkaProvider(s.publisher, cfg.Randomness.RequestTopic)

	generator := api.NewGenerator(cfg.Settlement.VenueEndpoints...)
	venues := []settlement.Venue{}
	for _, programs := range [][]string{cfg.Settlement.JupiterPrograms, cfg.Settlement.RaydiumPrograms} {
		for _, programID := range programs {
			venues = append(venues, settlement.NewRelayVenue(programID, generator, cfg.Settlement.VenueCallTimeout))
		}
	}
	s.dispatcher = settlement.NewDispatcher(s.ledger, s.oracle, venues...)
}

func (s *srv) loadDomains() {
	s.adminDomain = domain.NewAdminDomain(s.globalConfigRepo, s.ledger)
	s.prizePoolDomain = domain.NewPrizePoolDomain(s.globalConfigRepo, s.prizePoolRepo, s.publisher)
	s.lotteryDomain = domain.NewLotteryDomain(
		s.globalConfigRepo,
		s.lotteryRequestRepo,
		s.settlementRepo,
		s.ledger,
		s.oracle,
		s.provider,
		s.dispatcher,
		s.redisClient,
		s.publisher,
	)
}

func (s *srv) newMetricServer() *http.Server {
	return &http.Server{
		Addr:    xcontext.Configs(s.ctx).PrometheusServer.Address(),
		Handler: prometheus.NewHandler(common.PromCollectors()...),
	}
}
