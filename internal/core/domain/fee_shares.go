package domain

// FeeShareConfig defines the immutable split of the accumulated tax into
// team, marketing and liquidity portions. The denominator is the sum of the
// three shares.
type FeeShareConfig struct {
	TeamShare      uint64
	MarketingShare uint64
	LiquidityShare uint64
}

// NewFeeShareConfig validates and returns a fee share split. All shares must
// be strictly positive.
func NewFeeShareConfig(team, marketing, liquidity uint64) (*FeeShareConfig, error) {
	if team <= 0 || marketing <= 0 || liquidity <= 0 {
		return nil, ErrInvalidFeeShares
	}
	return &FeeShareConfig{
		TeamShare:      team,
		MarketingShare: marketing,
		LiquidityShare: liquidity,
	}, nil
}

// TotalShares returns the denominator of the split.
func (c *FeeShareConfig) TotalShares() uint64 {
	return c.TeamShare + c.MarketingShare + c.LiquidityShare
}
