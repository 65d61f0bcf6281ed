package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/questx-lab/cardlottery/internal/common"
	"github.com/questx-lab/cardlottery/internal/entity"
	"github.com/questx-lab/cardlottery/internal/model"
	"github.com/questx-lab/cardlottery/internal/repository"
	"github.com/questx-lab/cardlottery/pkg/errorx"
	"github.com/questx-lab/cardlottery/pkg/pubsub"
	"github.com/questx-lab/cardlottery/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newTestPrizePoolDomain(events *[]model.PrizePoolEvent) *prizePoolDomain {
	var mutex sync.Mutex
	publisher := &testutil.MockPublisher{
		PublishFunc: func(ctx context.Context, topic string, pack *pubsub.Pack) error {
			if topic != common.PrizePoolTopic || events == nil {
				return nil
			}

			var event model.PrizePoolEvent
			if err := json.Unmarshal(pack.Msg, &event); err != nil {
				return err
			}

			mutex.Lock()
			*events = append(*events, event)
			mutex.Unlock()
			return nil
		},
	}

	return NewPrizePoolDomain(
		repository.NewGlobalConfigRepository(),
		repository.NewPrizePoolRepository(),
		publisher,
	)
}

func activeIndexes(t *testing.T, ctx context.Context, d *prizePoolDomain) []uint32 {
	resp, err := d.GetList(ctx, &model.GetPrizePoolsRequest{})
	require.NoError(t, err)

	result := []uint32{}
	for _, pool := range resp.PrizePools {
		result = append(result, pool.Index)
	}

	return result
}

func Test_prizePoolDomain_Add(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)

	var events []model.PrizePoolEvent
	d := newTestPrizePoolDomain(&events)
	adminCtx := testutil.MockContextWithUserID(ctx, testutil.FixtureAdmin)

	resp, err := d.Add(adminCtx, &model.AddPrizePoolRequest{
		Destination: "pool-3",
		PoolType:    "jupiter",
		Name:        "SOL-PYTH",
		Nonce:       7,
	})
	require.NoError(t, err)
	require.Equal(t, uint32(3), resp.Index)
	require.Equal(t, []uint32{0, 1, 2, 3}, activeIndexes(t, ctx, d))

	pool, err := repository.NewPrizePoolRepository().GetByIndex(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, entity.Jupiter, pool.PoolType)
	require.Equal(t, uint8(7), pool.Nonce)

	require.Len(t, events, 1)
	require.Equal(t, model.PrizePoolAddedEvent, events[0].Type)
	require.Equal(t, uint32(3), events[0].Index)
	require.Equal(t, uint32(4), events[0].ActiveCount)

	_, err = d.Add(testutil.MockContextWithUserID(ctx, testutil.FixtureUser1), &model.AddPrizePoolRequest{
		Destination: "pool-4", PoolType: "orca",
	})
	require.True(t, errorx.Is(err, errorx.Unauthorized))

	_, err = d.Add(adminCtx, &model.AddPrizePoolRequest{Destination: "pool-4", PoolType: "uniswap"})
	require.True(t, errorx.Is(err, errorx.BadRequest))

	_, err = d.Add(adminCtx, &model.AddPrizePoolRequest{
		Destination: "pool-4", PoolType: "orca", Name: "A-VERY-LONG-POOL-NAME",
	})
	require.True(t, errorx.Is(err, errorx.BadRequest))

	_, err = d.Add(adminCtx, &model.AddPrizePoolRequest{PoolType: "orca"})
	require.True(t, errorx.Is(err, errorx.BadRequest))
}

func Test_prizePoolDomain_AddUntilFull(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)

	d := newTestPrizePoolDomain(nil)
	adminCtx := testutil.MockContextWithUserID(ctx, testutil.FixtureAdmin)

	for i := len(testutil.FixturePools); i < entity.MaxPrizePools; i++ {
		_, err := d.Add(adminCtx, &model.AddPrizePoolRequest{
			Destination: fmt.Sprintf("pool-%d", i),
			PoolType:    "raydium_amm",
		})
		require.NoError(t, err)
	}

	_, err := d.Add(adminCtx, &model.AddPrizePoolRequest{Destination: "overflow", PoolType: "orca"})
	require.True(t, errorx.Is(err, errorx.MaxPrizePoolsReached))

	// A freed slot can be reused, but its id is not.
	_, err = d.Remove(adminCtx, &model.RemovePrizePoolRequest{Index: 10})
	require.NoError(t, err)

	resp, err := d.Add(adminCtx, &model.AddPrizePoolRequest{Destination: "again", PoolType: "orca"})
	require.NoError(t, err)
	require.Equal(t, uint32(entity.MaxPrizePools), resp.Index)
}

func Test_prizePoolDomain_Remove(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)

	var events []model.PrizePoolEvent
	d := newTestPrizePoolDomain(&events)
	adminCtx := testutil.MockContextWithUserID(ctx, testutil.FixtureAdmin)

	_, err := d.Remove(testutil.MockContextWithUserID(ctx, testutil.FixtureUser1), &model.RemovePrizePoolRequest{Index: 1})
	require.True(t, errorx.Is(err, errorx.Unauthorized))

	_, err = d.Remove(adminCtx, &model.RemovePrizePoolRequest{Index: 9})
	require.True(t, errorx.Is(err, errorx.InvalidPrizePoolIndex))

	// Removing from the middle keeps the order of the others.
	_, err = d.Remove(adminCtx, &model.RemovePrizePoolRequest{Index: 1})
	require.NoError(t, err)
	require.Equal(t, []uint32{0, 2}, activeIndexes(t, ctx, d))

	_, err = repository.NewPrizePoolRepository().GetByIndex(ctx, 1)
	require.Error(t, err)

	cfg, err := repository.NewGlobalConfigRepository().Get(ctx)
	require.NoError(t, err)
	require.Equal(t, uint32(2), cfg.PrizePoolCount)
	require.Equal(t, uint32(3), cfg.NextPoolID)
	require.Equal(t, entity.EmptyPoolSlot, cfg.ActivePoolIDs[2])

	require.Len(t, events, 1)
	require.Equal(t, model.PrizePoolRemovedEvent, events[0].Type)
	require.Equal(t, uint32(1), events[0].Index)

	_, err = d.Remove(adminCtx, &model.RemovePrizePoolRequest{Index: 1})
	require.True(t, errorx.Is(err, errorx.InvalidPrizePoolIndex))

	_, err = d.Remove(adminCtx, &model.RemovePrizePoolRequest{Index: 0})
	require.NoError(t, err)
	_, err = d.Remove(adminCtx, &model.RemovePrizePoolRequest{Index: 2})
	require.NoError(t, err)

	_, err = d.Remove(adminCtx, &model.RemovePrizePoolRequest{Index: 2})
	require.True(t, errorx.Is(err, errorx.NoPrizePoolToRemove))
	require.Empty(t, activeIndexes(t, ctx, d))
}

func Test_prizePoolDomain_Update(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)

	d := newTestPrizePoolDomain(nil)
	adminCtx := testutil.MockContextWithUserID(ctx, testutil.FixtureAdmin)

	// Empty fields are left unchanged.
	_, err := d.Update(adminCtx, &model.UpdatePrizePoolRequest{Index: 2, Name: "SOL-JTO"})
	require.NoError(t, err)

	pool, err := repository.NewPrizePoolRepository().GetByIndex(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, "SOL-JTO", pool.Name)
	require.Equal(t, "pool-2", pool.Destination)
	require.Equal(t, entity.Orca, pool.PoolType)

	_, err = d.Update(adminCtx, &model.UpdatePrizePoolRequest{
		Index: 2, Destination: "pool-2b", PoolType: "raydium_cpmm",
	})
	require.NoError(t, err)

	pool, err = repository.NewPrizePoolRepository().GetByIndex(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, "SOL-JTO", pool.Name)
	require.Equal(t, "pool-2b", pool.Destination)
	require.Equal(t, entity.RaydiumCPMM, pool.PoolType)

	_, err = d.Update(adminCtx, &model.UpdatePrizePoolRequest{Index: 5, Name: "X"})
	require.True(t, errorx.Is(err, errorx.InvalidPrizePoolIndex))

	_, err = d.Update(adminCtx, &model.UpdatePrizePoolRequest{Index: 2, PoolType: "uniswap"})
	require.True(t, errorx.Is(err, errorx.BadRequest))

	_, err = d.Update(testutil.MockContextWithUserID(ctx, testutil.FixtureUser2), &model.UpdatePrizePoolRequest{Index: 2})
	require.True(t, errorx.Is(err, errorx.Unauthorized))
}

func Test_prizePoolDomain_GetList(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)

	resp, err := newTestPrizePoolDomain(nil).GetList(ctx, &model.GetPrizePoolsRequest{})
	require.NoError(t, err)
	require.Equal(t, uint32(3), resp.NextPoolID)
	require.Len(t, resp.PrizePools, 3)
	require.Equal(t, "SOL-BONK", resp.PrizePools[0].Name)
	require.Equal(t, "raydium_cpmm", resp.PrizePools[0].PoolType)
}
