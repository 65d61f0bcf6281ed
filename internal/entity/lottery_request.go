package entity

import (
	"database/sql"

	"github.com/questx-lab/cardlottery/pkg/enum"
)

type LotteryStatus string

var (
	LotteryPending  = enum.New(LotteryStatus("pending"))
	LotteryRevealed = enum.New(LotteryStatus("revealed"))
	LotteryClaimed  = enum.New(LotteryStatus("claimed"))

	// LotteryFailed is never assigned by any transition.
	LotteryFailed = enum.New(LotteryStatus("failed"))
)

type PaymentCurrency string

var (
	CurrencySOL  = enum.New(PaymentCurrency("sol"))
	CurrencyUSDT = enum.New(PaymentCurrency("usdt"))
)

// LotteryRequest is keyed by a hash of its owner and slot.
type LotteryRequest struct {
	Base

	Owner     string `gorm:"index"`
	Slot      uint64
	CardCount uint8
	Status    LotteryStatus `gorm:"index"`
	Currency  PaymentCurrency

	ClientSeed      string
	RandomnessQueue string

	// TotalReward is in micro-USD. PaidAmount is in the smallest unit of Currency.
	TotalReward uint64
	PaidAmount  uint64

	RevealedAt sql.NullTime
	PoolIndex  uint32
}
