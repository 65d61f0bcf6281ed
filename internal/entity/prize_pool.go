package entity

import (
	"time"

	"github.com/questx-lab/cardlottery/pkg/enum"
)

const MaxPrizePoolNameLength = 16

type PoolType string

var (
	RaydiumCPMM = enum.New(PoolType("raydium_cpmm"))
	RaydiumAMM  = enum.New(PoolType("raydium_amm"))
	Jupiter     = enum.New(PoolType("jupiter"))
	Orca        = enum.New(PoolType("orca"))
)

type PrizePool struct {
	Index     uint32 `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Destination string
	PoolType    PoolType
	Name        string
	Nonce       uint8
}
