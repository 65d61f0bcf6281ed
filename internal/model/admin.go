package model

type GlobalConfig struct {
	Admin          string   `json:"admin"`
	Paused         bool     `json:"paused"`
	PlatformFeeBps uint16   `json:"platform_fee_bps"`
	NextPoolID     uint32   `json:"next_pool_id"`
	PrizePoolCount uint32   `json:"prize_pool_count"`
	ActivePoolIDs  []uint32 `json:"active_pool_ids"`
	OracleQueue    string   `json:"oracle_queue"`
	RequestTimeout string   `json:"request_timeout"`
	Version        uint32   `json:"version"`
}

type InitializeRequest struct {
	PlatformFeeBps uint16 `json:"platform_fee_bps"`
}

type InitializeResponse struct{}

type MigrateConfigRequest struct {
	NextPoolID uint32 `json:"next_pool_id"`
}

type MigrateConfigResponse struct {
	Config GlobalConfig `json:"config"`
}

type CloseConfigRequest struct{}

type CloseConfigResponse struct{}

type SetPauseRequest struct {
	Paused bool `json:"paused"`
}

type SetPauseResponse struct{}

type WithdrawRequest struct {
	Amount      uint64 `json:"amount"`
	Destination string `json:"destination"`
}

type WithdrawResponse struct {
	Amount uint64 `json:"amount"`
}

type GetConfigRequest struct{}

type GetConfigResponse struct {
	Config GlobalConfig `json:"config"`
}
