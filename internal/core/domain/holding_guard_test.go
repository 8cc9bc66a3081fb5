package domain_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/liquify-network/liquifyd/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func totalSupply(t *testing.T) *big.Int {
	t.Helper()
	supply, ok := new(big.Int).SetString("1111111000000000000000000", 10)
	require.True(t, ok)
	return supply
}

func TestMaxHolding(t *testing.T) {
	t.Parallel()

	supply := totalSupply(t)

	tests := []struct {
		name        string
		elapsed     time.Duration
		expectedBps uint64
	}{
		{"at_open", 0, 10},
		{"thirty_seconds", 30 * time.Second, 10},
		{"one_minute", time.Minute, 25},
		{"nine_minutes", 9 * time.Minute, 25},
		{"ten_minutes", 10 * time.Minute, 50},
		{"fifteen_minutes", 15 * time.Minute, 200},
		{"twenty_three_hours", 23 * time.Hour, 200},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cap, enforced := domain.MaxHolding(tt.elapsed, supply)
			require.True(t, enforced)

			expected := new(big.Int).Mul(supply, new(big.Int).SetUint64(tt.expectedBps))
			expected.Quo(expected, big.NewInt(10000))
			require.Zero(t, cap.Cmp(expected))
		})
	}
}

func TestMaxHoldingNotEnforcedPastWindow(t *testing.T) {
	t.Parallel()

	supply := totalSupply(t)

	for _, elapsed := range []time.Duration{
		24 * time.Hour, 25 * time.Hour, 30 * 24 * time.Hour,
	} {
		cap, enforced := domain.MaxHolding(elapsed, supply)
		require.False(t, enforced)
		require.Nil(t, cap)
	}
}

func TestMaxHoldingIsNonDecreasing(t *testing.T) {
	t.Parallel()

	supply := totalSupply(t)

	prev, enforced := domain.MaxHolding(0, supply)
	require.True(t, enforced)
	for elapsed := time.Duration(0); elapsed < 24*time.Hour; elapsed += time.Minute {
		cap, enforced := domain.MaxHolding(elapsed, supply)
		require.True(t, enforced)
		require.True(t, cap.Cmp(prev) >= 0)
		prev = cap
	}
}
