package model

import "time"

type LotteryRequest struct {
	ID          string     `json:"id"`
	Owner       string     `json:"owner"`
	Slot        uint64     `json:"slot"`
	CardCount   uint8      `json:"card_count"`
	Status      string     `json:"status"`
	Currency    string     `json:"currency"`
	TotalReward string     `json:"total_reward"`
	PaidAmount  uint64     `json:"paid_amount"`
	PoolIndex   uint32     `json:"pool_index"`
	CreatedAt   time.Time  `json:"created_at"`
	RevealedAt  *time.Time `json:"revealed_at,omitempty"`
}

type CreateLotteryRequest struct {
	CardCount       int    `json:"card_count"`
	Currency        string `json:"currency"`
	ClientSeed      string `json:"client_seed"`
	Slot            uint64 `json:"slot"`
	RandomnessQueue string `json:"randomness_queue"`

	// Token accounts are required when paying in usdt.
	UserTokenAccount  string `json:"user_token_account"`
	VaultTokenAccount string `json:"vault_token_account"`
}

type CreateLotteryResponse struct {
	ID         string `json:"id"`
	Currency   string `json:"currency"`
	PaidAmount uint64 `json:"paid_amount"`
}

type RevealLotteryRequest struct {
	RequestID  string `json:"request_id"`
	Randomness string `json:"randomness"`
	Signature  string `json:"signature"`
}

type RevealLotteryResponse struct {
	Status      string `json:"status"`
	TotalReward string `json:"total_reward"`
	PoolIndex   uint32 `json:"pool_index"`
}

type ClaimLotteryRequest struct {
	RequestID  string `json:"request_id"`
	PayoutMode string `json:"payout_mode"`

	// Only used by the token payout mode.
	SwapRouter          string   `json:"swap_router"`
	ExpectedTokenOutput uint64   `json:"expected_token_output"`
	SwapData            string   `json:"swap_data"`
	SwapAccounts        []string `json:"swap_accounts"`
}

type ClaimLotteryResponse struct {
	Route     string `json:"route"`
	Reward    string `json:"reward"`
	AmountIn  uint64 `json:"amount_in"`
	AmountOut uint64 `json:"amount_out"`
}

type RefundLotteryRequest struct {
	RequestID string `json:"request_id"`

	// Required when the request was paid in usdt.
	UserTokenAccount string `json:"user_token_account"`
}

type RefundLotteryResponse struct {
	Currency string `json:"currency"`
	Amount   uint64 `json:"amount"`
}

type GetLotteryRequest struct {
	ID string `json:"id"`
}

type GetLotteryResponse struct {
	Request LotteryRequest `json:"request"`
}

type GetMyLotteriesRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetMyLotteriesResponse struct {
	Requests []LotteryRequest `json:"requests"`
}
