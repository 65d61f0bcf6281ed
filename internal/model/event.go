package model

import "time"

const (
	LotteryCreatedEvent  = "lottery_created"
	LotteryRevealedEvent = "lottery_revealed"
	LotteryClaimedEvent  = "lottery_claimed"
	LotteryRefundedEvent = "lottery_refunded"

	PrizePoolAddedEvent   = "prize_pool_added"
	PrizePoolRemovedEvent = "prize_pool_removed"
	PrizePoolUpdatedEvent = "prize_pool_updated"
)

type LotteryEvent struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	RequestID string    `json:"request_id"`
	Owner     string    `json:"owner"`
	CardCount uint8     `json:"card_count"`
	Currency  string    `json:"currency,omitempty"`
	Amount    uint64    `json:"amount,omitempty"`
	Reward    uint64    `json:"reward,omitempty"`
	PoolIndex uint32    `json:"pool_index"`
	Route     string    `json:"route,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type PrizePoolEvent struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	Index       uint32    `json:"index"`
	Destination string    `json:"destination,omitempty"`
	PoolType    string    `json:"pool_type,omitempty"`
	Name        string    `json:"name,omitempty"`
	ActiveCount uint32    `json:"active_count"`
	CreatedAt   time.Time `json:"created_at"`
}
