package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env      string
	LogLevel string

	// NodeID seeds the snowflake node of event ids, it must differ between replicas.
	NodeID int64

	Database         DatabaseConfigs
	ApiServer        APIServerConfigs
	PrometheusServer ServerConfigs
	Auth             AuthConfigs
	Redis            RedisConfigs
	Kafka            KafkaConfigs
	Lottery          LotteryConfigs
	Oracle           OracleConfigs
	Randomness       RandomnessConfigs
	Settlement       SettlementConfigs
	Ledger           LedgerConfigs
	Cron             CronConfigs
}

type DatabaseConfigs struct {
	// Driver is mysql or sqlite. For sqlite, Database is the file path.
	Driver   string
	Host     string
	Port     string
	Database string
	User     string
	Password string
	LogLevel string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&multiStatements=true",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
	Cert string
	Key  string
}

func (c ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type APIServerConfigs struct {
	ServerConfigs

	MaxLimit     int
	DefaultLimit int
	AllowOrigins []string
}

type AuthConfigs struct {
	TokenSecret string
	AccessToken TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type RedisConfigs struct {
	Addr string
}

type KafkaConfigs struct {
	Addr    string
	GroupID string
}

type LotteryConfigs struct {
	// Admin is the identity allowed to initialize the global configuration.
	Admin string

	// DefaultOracleQueue and DefaultRequestTimeout fill the global configuration on
	// initialization and migration.
	DefaultOracleQueue    string
	DefaultRequestTimeout time.Duration

	ClaimWindow   time.Duration
	SlotTolerance uint64

	UsdtMint          string
	VaultAddress      string
	VaultTokenAddress string
	VaultWsolAddress  string

	ClaimLockTTL time.Duration
}

type OracleConfigs struct {
	Endpoints   []string
	FeedID      string
	MaxPriceAge time.Duration
	CacheTTL    time.Duration
}

type RandomnessConfigs struct {
	// ProviderAddress is the hex address recovered from fulfillment signatures.
	ProviderAddress  string
	RequestTopic     string
	FulfillmentTopic string
}

type SettlementConfigs struct {
	SlippageBps      uint64
	JupiterPrograms  []string
	RaydiumPrograms  []string
	VenueEndpoints   []string
	VenueCallTimeout time.Duration
}

type LedgerConfigs struct {
	SlotDuration time.Duration
	GenesisTime  time.Time
	MinRent      uint64
}

type CronConfigs struct {
	PriceRefreshInterval time.Duration
	GaugeInterval        time.Duration
}
