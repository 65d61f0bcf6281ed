package domain

import (
	"math/big"
	"time"

	"github.com/questx-lab/cardlottery/internal/entity"
	"github.com/questx-lab/cardlottery/internal/model"
	"github.com/shopspring/decimal"
)

const microUSDExp = -6

// formatMicroUSD renders a micro-USD amount as a decimal USD string.
func formatMicroUSD(amount uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), microUSDExp).String()
}

func convertLotteryRequest(req *entity.LotteryRequest) model.LotteryRequest {
	if req == nil {
		return model.LotteryRequest{}
	}

	var revealedAt *time.Time
	if req.RevealedAt.Valid {
		t := req.RevealedAt.Time
		revealedAt = &t
	}

	return model.LotteryRequest{
		ID:          req.ID,
		Owner:       req.Owner,
		Slot:        req.Slot,
		CardCount:   req.CardCount,
		Status:      string(req.Status),
		Currency:    string(req.Currency),
		TotalReward: formatMicroUSD(req.TotalReward),
		PaidAmount:  req.PaidAmount,
		PoolIndex:   req.PoolIndex,
		CreatedAt:   req.CreatedAt,
		RevealedAt:  revealedAt,
	}
}

func convertPrizePool(pool *entity.PrizePool) model.PrizePool {
	if pool == nil {
		return model.PrizePool{}
	}

	return model.PrizePool{
		Index:       pool.Index,
		Destination: pool.Destination,
		PoolType:    string(pool.PoolType),
		Name:        pool.Name,
		Nonce:       pool.Nonce,
	}
}

func convertGlobalConfig(cfg *entity.GlobalConfig) model.GlobalConfig {
	if cfg == nil {
		return model.GlobalConfig{}
	}

	return model.GlobalConfig{
		Admin:          cfg.Admin,
		Paused:         cfg.Paused,
		PlatformFeeBps: cfg.PlatformFeeBps,
		NextPoolID:     cfg.NextPoolID,
		PrizePoolCount: cfg.PrizePoolCount,
		ActivePoolIDs:  append([]uint32{}, cfg.ActivePools()...),
		OracleQueue:    cfg.OracleQueue,
		RequestTimeout: cfg.RequestTimeout().String(),
		Version:        cfg.Version,
	}
}
