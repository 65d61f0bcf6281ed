package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/questx-lab/cardlottery/internal/common"
	"github.com/questx-lab/cardlottery/internal/model"
	"github.com/questx-lab/cardlottery/pkg/api"
	"github.com/questx-lab/cardlottery/pkg/xcontext"
	"github.com/questx-lab/cardlottery/pkg/xredis"
	"github.com/shopspring/decimal"
)

// hermesFeed reads the latest quote from a Hermes compatible price service.
type hermesFeed struct {
	generator api.Generator
	feedID    string
}

func NewHermesFeed(generator api.Generator, feedID string) *hermesFeed {
	return &hermesFeed{generator: generator, feedID: feedID}
}

type hermesResponse struct {
	Parsed []struct {
		ID    string `json:"id"`
		Price struct {
			Price       decimal.Decimal `json:"price"`
			Expo        int32           `json:"expo"`
			PublishTime int64           `json:"publish_time"`
		} `json:"price"`
	} `json:"parsed"`
}

func (f *hermesFeed) Latest(ctx context.Context) (*model.NativePrice, error) {
	resp, err := f.generator.New("/v2/updates/price/latest").
		Query(api.Parameter{"ids[]": f.feedID, "parsed": "true"}).
		GET(ctx)
	if err != nil {
		return nil, err
	}

	if !resp.OK() {
		return nil, fmt.Errorf("price service responded %d", resp.Code)
	}

	var body hermesResponse
	if err := resp.Decode(&body); err != nil {
		return nil, err
	}

	for _, parsed := range body.Parsed {
		if !sameFeed(parsed.ID, f.feedID) {
			continue
		}

		if !parsed.Price.Price.IsInteger() {
			return nil, fmt.Errorf("price %s is not an integer", parsed.Price.Price)
		}

		return &model.NativePrice{
			Price:       parsed.Price.Price.IntPart(),
			Expo:        parsed.Price.Expo,
			PublishTime: parsed.Price.PublishTime,
		}, nil
	}

	return nil, fmt.Errorf("feed %s not found in response", f.feedID)
}

func sameFeed(a, b string) bool {
	return strings.EqualFold(strings.TrimPrefix(a, "0x"), strings.TrimPrefix(b, "0x"))
}

// CachedFeed keeps the last quote of a feed in redis so that every replica reads
// the same price between refreshes.
type CachedFeed struct {
	feed        Feed
	redisClient xredis.Client
	key         string
	ttl         time.Duration
}

func NewCachedFeed(feed Feed, redisClient xredis.Client, feedID string, ttl time.Duration) *CachedFeed {
	return &CachedFeed{
		feed:        feed,
		redisClient: redisClient,
		key:         common.RedisKeyNativePrice(feedID),
		ttl:         ttl,
	}
}

func (f *CachedFeed) Latest(ctx context.Context) (*model.NativePrice, error) {
	var price model.NativePrice
	err := f.redisClient.GetObj(ctx, f.key, &price)
	if err == nil {
		return &price, nil
	}

	if !errors.Is(err, xredis.ErrNotFound) {
		xcontext.Logger(ctx).Warnf("Cannot get cached price: %v", err)
	}

	return f.Refresh(ctx)
}

// Refresh fetches a new quote from the underlying feed and caches it.
func (f *CachedFeed) Refresh(ctx context.Context) (*model.NativePrice, error) {
	price, err := f.feed.Latest(ctx)
	if err != nil {
		return nil, err
	}

	if err := f.redisClient.SetObj(ctx, f.key, price, f.ttl); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot cache price: %v", err)
	}

	return price, nil
}
