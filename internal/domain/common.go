package domain

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/questx-lab/cardlottery/internal/entity"
	"github.com/questx-lab/cardlottery/internal/repository"
	"github.com/questx-lab/cardlottery/pkg/errorx"
	"github.com/questx-lab/cardlottery/pkg/pubsub"
	"github.com/questx-lab/cardlottery/pkg/xcontext"
	"gorm.io/gorm"
)

// getGlobalConfig loads the configuration row, locking it when forUpdate is set.
// The caller must be inside a transaction to lock.
func getGlobalConfig(
	ctx context.Context,
	globalConfigRepo repository.GlobalConfigRepository,
	forUpdate bool,
) (*entity.GlobalConfig, error) {
	var cfg *entity.GlobalConfig
	var err error
	if forUpdate {
		cfg, err = globalConfigRepo.GetForUpdate(ctx)
	} else {
		cfg, err = globalConfigRepo.Get(ctx)
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Lottery is not initialized")
		}

		xcontext.Logger(ctx).Errorf("Cannot get global config: %v", err)
		return nil, errorx.Unknown
	}

	return cfg, nil
}

func requireAdmin(ctx context.Context, cfg *entity.GlobalConfig) error {
	if xcontext.RequestUserID(ctx) != cfg.Admin {
		return errorx.New(errorx.Unauthorized, "Only admin can do this action")
	}

	return nil
}

// publishEvent is called after commit. A failed publish is logged only, the state
// change already happened.
func publishEvent(ctx context.Context, publisher pubsub.Publisher, topic, key string, event any) {
	b, err := json.Marshal(event)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal event: %v", err)
		return
	}

	if err := publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(key), Msg: b}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish event to %s: %v", topic, err)
	}
}

func nextEventID(ctx context.Context) int64 {
	if node := xcontext.SnowFlake(ctx); node != nil {
		return node.Generate().Int64()
	}

	return 0
}
