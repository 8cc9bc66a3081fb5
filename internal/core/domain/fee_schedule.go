package domain

import "time"

// feeTier maps a half-open interval of elapsed time since trading opened to
// the tax percentage applied within it. Tiers are sorted by upper bound.
type feeTier struct {
	upTo    time.Duration
	percent uint64
}

// The first two tiers are intentionally identical, they are kept separate
// so their boundaries can diverge independently.
var feeTiers = []feeTier{
	{upTo: 1 * time.Minute, percent: 45},
	{upTo: 3 * time.Minute, percent: 45},
	{upTo: 10 * time.Minute, percent: 25},
	{upTo: 15 * time.Minute, percent: 10},
	{upTo: 24 * time.Hour, percent: 6},
}

// BaselineTaxPercent is the tax applied once all launch tiers have expired.
const BaselineTaxPercent uint64 = 4

// CurrentTaxPercent returns the tax percentage for a transfer happening after
// the given elapsed time since the trading window opened. It is a pure
// function of elapsed time.
func CurrentTaxPercent(elapsed time.Duration) uint64 {
	for _, tier := range feeTiers {
		if elapsed < tier.upTo {
			return tier.percent
		}
	}
	return BaselineTaxPercent
}
