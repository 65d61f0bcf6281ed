package xcontext

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/questx-lab/cardlottery/config"
	"github.com/questx-lab/cardlottery/pkg/logger"
	"gorm.io/gorm"
)

type (
	configsKey       struct{}
	loggerKey        struct{}
	dbKey            struct{}
	dbTransactionKey struct{}
	httpRequestKey   struct{}
	httpClientKey    struct{}
	snowflakeKey     struct{}
	startTimeKey     struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg := ctx.Value(configsKey{})
	if cfg == nil {
		return config.Configs{}
	}

	return cfg.(config.Configs)
}

func WithLogger(ctx context.Context, logger logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func Logger(ctx context.Context) logger.Logger {
	l := ctx.Value(loggerKey{})
	if l == nil {
		return logger.NewLogger(logger.SILENCE)
	}

	return l.(logger.Logger)
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the database transaction if the context is inside one, otherwise it
// returns the root database.
func DB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(dbTransactionKey{}).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}

	db := ctx.Value(dbKey{})
	if db == nil {
		return nil
	}

	return db.(*gorm.DB).WithContext(ctx)
}

func WithDBTransaction(ctx context.Context) context.Context {
	db := ctx.Value(dbKey{}).(*gorm.DB)
	return context.WithValue(ctx, dbTransactionKey{}, db.Begin())
}

// CommitDBTransaction commits the transaction started by WithDBTransaction. The
// deferred rollback is still required: it is a no-op after a successful commit.
func CommitDBTransaction(ctx context.Context) error {
	tx, ok := ctx.Value(dbTransactionKey{}).(*gorm.DB)
	if !ok || tx == nil {
		return nil
	}

	return tx.Commit().Error
}

// WithRollbackDBTransaction is safe to defer right after WithDBTransaction.
func WithRollbackDBTransaction(ctx context.Context) context.Context {
	tx, ok := ctx.Value(dbTransactionKey{}).(*gorm.DB)
	if !ok || tx == nil {
		return ctx
	}

	tx.Rollback()
	return context.WithValue(ctx, dbTransactionKey{}, nil)
}

func WithHTTPRequest(ctx context.Context, req *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, req)
}

func HTTPRequest(ctx context.Context) *http.Request {
	req := ctx.Value(httpRequestKey{})
	if req == nil {
		return nil
	}

	return req.(*http.Request)
}

func WithHTTPClient(ctx context.Context, client *http.Client) context.Context {
	return context.WithValue(ctx, httpClientKey{}, client)
}

func HTTPClient(ctx context.Context) *http.Client {
	client := ctx.Value(httpClientKey{})
	if client == nil {
		return http.DefaultClient
	}

	return client.(*http.Client)
}

func WithSnowFlake(ctx context.Context, node *snowflake.Node) context.Context {
	return context.WithValue(ctx, snowflakeKey{}, node)
}

func SnowFlake(ctx context.Context) *snowflake.Node {
	node := ctx.Value(snowflakeKey{})
	if node == nil {
		return nil
	}

	return node.(*snowflake.Node)
}

func WithStartTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, startTimeKey{}, t)
}

func StartTime(ctx context.Context) time.Time {
	t := ctx.Value(startTimeKey{})
	if t == nil {
		return time.Time{}
	}

	return t.(time.Time)
}
