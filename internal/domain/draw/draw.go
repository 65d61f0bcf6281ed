// Package draw turns a 32-byte randomness draw into card rewards and a prize pool
// selection. Every function here is pure.
package draw

import (
	"encoding/binary"
	"errors"
	"math/bits"
)

const (
	// ProbabilityBase is the modulus of a tier roll.
	ProbabilityBase = 1_000_000

	// RewardStep is the reward granularity, 0.1 USD in micro-USD.
	RewardStep = 100_000
)

var ErrOverflow = errors.New("reward overflow")

type Tier struct {
	// Threshold is the cumulative upper bound (exclusive) of rolls in this tier.
	Threshold uint64
	Min       uint64
	Steps     uint64
}

func (t Tier) Max() uint64 {
	return t.Min + (t.Steps-1)*RewardStep
}

var Tiers = []Tier{
	{Threshold: 150_000, Min: 5_000_000, Steps: 21},
	{Threshold: 650_000, Min: 7_000_000, Steps: 71},
	{Threshold: 950_000, Min: 14_000_000, Steps: 360},
	{Threshold: ProbabilityBase, Min: 50_000_000, Steps: 500},
}

// Derive mixes the card index into the seed. The result distinguishes cards drawn
// from the same seed; it is not independent entropy.
func Derive(seed [32]byte, index uint32) [32]byte {
	var idx [4]byte
	binary.LittleEndian.PutUint32(idx[:], index)

	var r [32]byte
	for j := range seed {
		b := seed[j] ^ idx[j%4]
		r[j] = b + uint8(index)*uint8(j+1)
	}

	for j := 1; j < len(r); j++ {
		r[j] ^= r[j-1] * 31
	}

	return r
}

// TierOf returns the tier selected by a roll in [0, ProbabilityBase).
func TierOf(roll uint64) Tier {
	for _, tier := range Tiers {
		if roll < tier.Threshold {
			return tier
		}
	}

	return Tiers[len(Tiers)-1]
}

// Amount maps a derived value to a reward in micro-USD.
func Amount(derived [32]byte) uint64 {
	roll := binary.LittleEndian.Uint64(derived[0:8]) % ProbabilityBase
	tier := TierOf(roll)
	step := binary.LittleEndian.Uint64(derived[8:16]) % tier.Steps

	return tier.Min + step*RewardStep
}

func CardReward(seed [32]byte, index uint32) uint64 {
	return Amount(Derive(seed, index))
}

// TotalReward sums the rewards of cards [0, count).
func TotalReward(seed [32]byte, count uint32) (uint64, error) {
	var total uint64
	for i := uint32(0); i < count; i++ {
		sum, carry := bits.Add64(total, CardReward(seed, i), 0)
		if carry != 0 {
			return 0, ErrOverflow
		}
		total = sum
	}

	return total, nil
}

// SelectPool picks an active pool id using bytes 8..16 of the seed itself. It
// returns 0 when there is no active pool.
func SelectPool(seed [32]byte, active []uint32) uint32 {
	if len(active) == 0 {
		return 0
	}

	position := binary.LittleEndian.Uint64(seed[8:16]) % uint64(len(active))
	return active[position]
}
