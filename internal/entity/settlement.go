package entity

import "github.com/questx-lab/cardlottery/pkg/enum"

type SettlementRoute string

var (
	RouteDirect  = enum.New(SettlementRoute("direct"))
	RouteJupiter = enum.New(SettlementRoute("jupiter"))
	RouteRaydium = enum.New(SettlementRoute("raydium"))
)

type Settlement struct {
	Base

	RequestID string `gorm:"uniqueIndex"`
	Owner     string `gorm:"index"`
	Route     SettlementRoute
	PoolIndex uint32

	RewardUSD uint64
	AmountIn  uint64
	AmountOut uint64
	MinOut    uint64
}
