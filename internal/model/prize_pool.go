package model

type PrizePool struct {
	Index       uint32 `json:"index"`
	Destination string `json:"destination"`
	PoolType    string `json:"pool_type"`
	Name        string `json:"name"`
	Nonce       uint8  `json:"nonce"`
}

type AddPrizePoolRequest struct {
	Destination string `json:"destination"`
	PoolType    string `json:"pool_type"`
	Name        string `json:"name"`
	Nonce       uint8  `json:"nonce"`
}

type AddPrizePoolResponse struct {
	Index uint32 `json:"index"`
}

type RemovePrizePoolRequest struct {
	Index uint32 `json:"index"`
}

type RemovePrizePoolResponse struct{}

type UpdatePrizePoolRequest struct {
	Index       uint32 `json:"index"`
	Destination string `json:"destination"`
	PoolType    string `json:"pool_type"`
	Name        string `json:"name"`
}

type UpdatePrizePoolResponse struct{}

type GetPrizePoolsRequest struct{}

type GetPrizePoolsResponse struct {
	PrizePools []PrizePool `json:"prize_pools"`
	NextPoolID uint32      `json:"next_pool_id"`
}
