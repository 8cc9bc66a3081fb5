package domain

import (
	"math/big"
	"time"

	"github.com/liquify-network/liquifyd/pkg/mathutil"
)

// HoldingCapWindow is the period after trading opens during which the
// anti-concentration cap on recipient balances is enforced.
const HoldingCapWindow = 24 * time.Hour

// holdingCapTier maps a half-open interval of elapsed time to a cap expressed
// in basis points of total supply.
type holdingCapTier struct {
	upTo time.Duration
	bps  uint64
}

var holdingCapTiers = []holdingCapTier{
	{upTo: 1 * time.Minute, bps: 10},
	{upTo: 10 * time.Minute, bps: 25},
	{upTo: 15 * time.Minute, bps: 50},
	{upTo: HoldingCapWindow, bps: 200},
}

// MaxHolding returns the maximum balance a non-exempt recipient may hold at
// the given elapsed time since trading opened, along with whether the cap is
// enforced at all. Past HoldingCapWindow no cap applies.
func MaxHolding(elapsed time.Duration, totalSupply *big.Int) (*big.Int, bool) {
	if elapsed >= HoldingCapWindow {
		return nil, false
	}
	for _, tier := range holdingCapTiers {
		if elapsed < tier.upTo {
			return mathutil.BasisPointsOf(totalSupply, tier.bps), true
		}
	}
	return nil, false
}
