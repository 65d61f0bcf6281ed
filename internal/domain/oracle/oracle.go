// Package oracle converts USD amounts into native currency using a price feed.
package oracle

import (
	"context"
	"math/big"
	"time"

	"github.com/questx-lab/cardlottery/internal/model"
	"github.com/questx-lab/cardlottery/pkg/errorx"
	"github.com/questx-lab/cardlottery/pkg/xcontext"
)

const (
	NativeDecimals = 9
	USDDecimals    = 6
)

type PriceOracle interface {
	// USDToNative returns the amount of native currency (smallest unit) worth
	// microUSD.
	USDToNative(ctx context.Context, microUSD uint64) (uint64, error)
}

type Feed interface {
	Latest(ctx context.Context) (*model.NativePrice, error)
}

type priceOracle struct {
	feed   Feed
	maxAge time.Duration
	now    func() time.Time
}

func NewPriceOracle(feed Feed, maxAge time.Duration) *priceOracle {
	return &priceOracle{feed: feed, maxAge: maxAge, now: time.Now}
}

func (o *priceOracle) USDToNative(ctx context.Context, microUSD uint64) (uint64, error) {
	price, err := o.feed.Latest(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the latest native price: %v", err)
		return 0, errorx.New(errorx.PythError, "Price feed is unavailable")
	}

	age := o.now().Sub(time.Unix(price.PublishTime, 0))
	if age > o.maxAge {
		return 0, errorx.New(errorx.PythPriceStale, "Price was published %s ago", age.Truncate(time.Second))
	}

	return LamportsForMicroUSD(microUSD, price.Price, price.Expo)
}

// LamportsForMicroUSD computes microUSD * 10^9 * 10^|expo| / (price * 10^6).
func LamportsForMicroUSD(microUSD uint64, price int64, expo int32) (uint64, error) {
	if price <= 0 {
		return 0, errorx.New(errorx.PythPriceInvalid, "Invalid price %d", price)
	}

	if expo < 0 {
		expo = -expo
	}

	numerator := new(big.Int).SetUint64(microUSD)
	numerator.Mul(numerator, pow10(NativeDecimals))
	numerator.Mul(numerator, pow10(int64(expo)))

	denominator := big.NewInt(price)
	denominator.Mul(denominator, pow10(USDDecimals))

	result := numerator.Quo(numerator, denominator)
	if !result.IsUint64() {
		return 0, errorx.New(errorx.MathOverflow, "Native amount overflows")
	}

	return result.Uint64(), nil
}

func pow10(n int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil)
}
