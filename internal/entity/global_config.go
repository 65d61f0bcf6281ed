package entity

import (
	"math"
	"time"
)

const (
	GlobalConfigID = "global"

	// MaxPrizePools is the capacity of the active pool list.
	MaxPrizePools = 50

	// EmptyPoolSlot marks an unused slot of the active pool list.
	EmptyPoolSlot uint32 = math.MaxUint32

	CurrentConfigVersion uint32 = 2
)

type GlobalConfig struct {
	ID        string `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Admin          string
	Paused         bool
	PlatformFeeBps uint16

	// NextPoolID only grows, so a removed pool id is never handed out again.
	NextPoolID     uint32
	PrizePoolCount uint32
	ActivePoolIDs  Array[uint32] `gorm:"type:text"`

	OracleQueue        string
	RequestTimeoutSecs int64
	Version            uint32
}

func NewActivePoolIDs() Array[uint32] {
	ids := make(Array[uint32], MaxPrizePools)
	for i := range ids {
		ids[i] = EmptyPoolSlot
	}

	return ids
}

func (c *GlobalConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSecs) * time.Second
}

// ActivePools returns the packed prefix of the active pool list.
func (c *GlobalConfig) ActivePools() []uint32 {
	n := int(c.PrizePoolCount)
	if n > len(c.ActivePoolIDs) {
		n = len(c.ActivePoolIDs)
	}

	return c.ActivePoolIDs[:n]
}
