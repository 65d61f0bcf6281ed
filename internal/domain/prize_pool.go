package domain

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/questx-lab/cardlottery/internal/common"
	"github.com/questx-lab/cardlottery/internal/entity"
	"github.com/questx-lab/cardlottery/internal/model"
	"github.com/questx-lab/cardlottery/internal/repository"
	"github.com/questx-lab/cardlottery/pkg/enum"
	"github.com/questx-lab/cardlottery/pkg/errorx"
	"github.com/questx-lab/cardlottery/pkg/pubsub"
	"github.com/questx-lab/cardlottery/pkg/xcontext"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type PrizePoolDomain interface {
	Add(context.Context, *model.AddPrizePoolRequest) (*model.AddPrizePoolResponse, error)
	Remove(context.Context, *model.RemovePrizePoolRequest) (*model.RemovePrizePoolResponse, error)
	Update(context.Context, *model.UpdatePrizePoolRequest) (*model.UpdatePrizePoolResponse, error)
	GetList(context.Context, *model.GetPrizePoolsRequest) (*model.GetPrizePoolsResponse, error)
}

type prizePoolDomain struct {
	// mutex serializes registry changes inside this process, the row lock on the
	// global config serializes them across processes.
	mutex sync.Mutex

	globalConfigRepo repository.GlobalConfigRepository
	prizePoolRepo    repository.PrizePoolRepository
	publisher        pubsub.Publisher
}

func NewPrizePoolDomain(
	globalConfigRepo repository.GlobalConfigRepository,
	prizePoolRepo repository.PrizePoolRepository,
	publisher pubsub.Publisher,
) *prizePoolDomain {
	return &prizePoolDomain{
		globalConfigRepo: globalConfigRepo,
		prizePoolRepo:    prizePoolRepo,
		publisher:        publisher,
	}
}

func validatePoolName(name string) error {
	if len(name) > entity.MaxPrizePoolNameLength {
		return errorx.New(errorx.BadRequest,
			"Pool name must be at most %d bytes", entity.MaxPrizePoolNameLength)
	}

	return nil
}

func (d *prizePoolDomain) Add(
	ctx context.Context, req *model.AddPrizePoolRequest,
) (*model.AddPrizePoolResponse, error) {
	poolType, err := enum.ToEnum[entity.PoolType](req.PoolType)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid pool type: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid pool type")
	}

	if err := validatePoolName(req.Name); err != nil {
		return nil, err
	}

	if req.Destination == "" {
		return nil, errorx.New(errorx.BadRequest, "Destination is required")
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	cfg, err := getGlobalConfig(ctx, d.globalConfigRepo, true)
	if err != nil {
		return nil, err
	}

	if err := requireAdmin(ctx, cfg); err != nil {
		return nil, err
	}

	if cfg.PrizePoolCount >= entity.MaxPrizePools || int(cfg.PrizePoolCount) >= len(cfg.ActivePoolIDs) {
		return nil, errorx.New(errorx.MaxPrizePoolsReached,
			"Cannot have more than %d active pools", entity.MaxPrizePools)
	}

	index := cfg.NextPoolID
	if index == entity.EmptyPoolSlot {
		return nil, errorx.New(errorx.MathOverflow, "Pool ids are exhausted")
	}

	pool := &entity.PrizePool{
		Index:       index,
		Destination: req.Destination,
		PoolType:    poolType,
		Name:        req.Name,
		Nonce:       req.Nonce,
	}
	if err := d.prizePoolRepo.Create(ctx, pool); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create prize pool: %v", err)
		return nil, errorx.Unknown
	}

	cfg.ActivePoolIDs[cfg.PrizePoolCount] = index
	cfg.PrizePoolCount++
	cfg.NextPoolID++

	if err := d.globalConfigRepo.Save(ctx, cfg); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save global config: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.CommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	d.publish(ctx, model.PrizePoolAddedEvent, pool, cfg.PrizePoolCount)
	return &model.AddPrizePoolResponse{Index: index}, nil
}

func (d *prizePoolDomain) Remove(
	ctx context.Context, req *model.RemovePrizePoolRequest,
) (*model.RemovePrizePoolResponse, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	cfg, err := getGlobalConfig(ctx, d.globalConfigRepo, true)
	if err != nil {
		return nil, err
	}

	if err := requireAdmin(ctx, cfg); err != nil {
		return nil, err
	}

	if cfg.PrizePoolCount == 0 {
		return nil, errorx.New(errorx.NoPrizePoolToRemove, "There is no active pool")
	}

	count := int(cfg.PrizePoolCount)
	pos := slices.Index(cfg.ActivePools(), req.Index)
	if pos < 0 {
		return nil, errorx.New(errorx.InvalidPrizePoolIndex, "Pool %d is not active", req.Index)
	}

	pool, err := d.prizePoolRepo.GetByIndex(ctx, req.Index)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get prize pool: %v", err)
		return nil, errorx.Unknown
	}

	copy(cfg.ActivePoolIDs[pos:count-1], cfg.ActivePoolIDs[pos+1:count])
	cfg.ActivePoolIDs[count-1] = entity.EmptyPoolSlot
	cfg.PrizePoolCount--

	if pool != nil {
		if err := d.prizePoolRepo.Delete(ctx, req.Index); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete prize pool: %v", err)
			return nil, errorx.Unknown
		}
	} else {
		xcontext.Logger(ctx).Warnf("Active pool %d has no record", req.Index)
		pool = &entity.PrizePool{Index: req.Index}
	}

	if err := d.globalConfigRepo.Save(ctx, cfg); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save global config: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.CommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	d.publish(ctx, model.PrizePoolRemovedEvent, pool, cfg.PrizePoolCount)
	return &model.RemovePrizePoolResponse{}, nil
}

// Update changes the non-empty fields of an active pool.
func (d *prizePoolDomain) Update(
	ctx context.Context, req *model.UpdatePrizePoolRequest,
) (*model.UpdatePrizePoolResponse, error) {
	if err := validatePoolName(req.Name); err != nil {
		return nil, err
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	cfg, err := getGlobalConfig(ctx, d.globalConfigRepo, true)
	if err != nil {
		return nil, err
	}

	if err := requireAdmin(ctx, cfg); err != nil {
		return nil, err
	}

	if !slices.Contains(cfg.ActivePools(), req.Index) {
		return nil, errorx.New(errorx.InvalidPrizePoolIndex, "Pool %d is not active", req.Index)
	}

	pool, err := d.prizePoolRepo.GetByIndex(ctx, req.Index)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.InvalidPrizePoolIndex, "Not found pool %d", req.Index)
		}

		xcontext.Logger(ctx).Errorf("Cannot get prize pool: %v", err)
		return nil, errorx.Unknown
	}

	if req.Destination != "" {
		pool.Destination = req.Destination
	}

	if req.PoolType != "" {
		poolType, err := enum.ToEnum[entity.PoolType](req.PoolType)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Invalid pool type: %v", err)
			return nil, errorx.New(errorx.BadRequest, "Invalid pool type")
		}

		pool.PoolType = poolType
	}

	if req.Name != "" {
		pool.Name = req.Name
	}

	if err := d.prizePoolRepo.Update(ctx, req.Index, pool); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update prize pool: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.CommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	d.publish(ctx, model.PrizePoolUpdatedEvent, pool, cfg.PrizePoolCount)
	return &model.UpdatePrizePoolResponse{}, nil
}

func (d *prizePoolDomain) GetList(
	ctx context.Context, req *model.GetPrizePoolsRequest,
) (*model.GetPrizePoolsResponse, error) {
	cfg, err := getGlobalConfig(ctx, d.globalConfigRepo, false)
	if err != nil {
		return nil, err
	}

	active := cfg.ActivePools()
	pools, err := d.prizePoolRepo.GetByIndexes(ctx, active)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get prize pools: %v", err)
		return nil, errorx.Unknown
	}

	poolByIndex := map[uint32]*entity.PrizePool{}
	for i := range pools {
		poolByIndex[pools[i].Index] = &pools[i]
	}

	result := []model.PrizePool{}
	for _, index := range active {
		pool, ok := poolByIndex[index]
		if !ok {
			xcontext.Logger(ctx).Warnf("Active pool %d has no record", index)
			continue
		}

		result = append(result, convertPrizePool(pool))
	}

	return &model.GetPrizePoolsResponse{PrizePools: result, NextPoolID: cfg.NextPoolID}, nil
}

func (d *prizePoolDomain) publish(ctx context.Context, eventType string, pool *entity.PrizePool, activeCount uint32) {
	key := strconv.FormatUint(uint64(pool.Index), 10)
	publishEvent(ctx, d.publisher, common.PrizePoolTopic, key, model.PrizePoolEvent{
		ID:          nextEventID(ctx),
		Type:        eventType,
		Index:       pool.Index,
		Destination: pool.Destination,
		PoolType:    string(pool.PoolType),
		Name:        pool.Name,
		ActiveCount: activeCount,
		CreatedAt:   time.Now(),
	})
}
