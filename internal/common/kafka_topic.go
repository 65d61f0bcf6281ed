package common

const (
	LotteryEventTopic = "lottery_events"
	PrizePoolTopic    = "prize_pool_events"
)
