package entity

import "time"

// NativeMint is the mint of native currency accounts.
const NativeMint = ""

type LedgerAccount struct {
	Address   string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Mint    string `gorm:"index"`
	Owner   string `gorm:"index"`
	Balance uint64
}
