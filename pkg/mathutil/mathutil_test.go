package mathutil_test

import (
	"math/big"
	"testing"

	"github.com/liquify-network/liquifyd/pkg/mathutil"
	"github.com/stretchr/testify/require"
)

func TestPercentOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		amount   int64
		percent  uint64
		expected int64
	}{
		{"forty_five_percent", 1000, 45, 450},
		{"floors_remainder", 101, 45, 45},
		{"zero_percent", 1000, 0, 0},
		{"full_amount", 1000, 100, 1000},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := mathutil.PercentOf(big.NewInt(tt.amount), tt.percent)
			require.Equal(t, tt.expected, got.Int64())
		})
	}
}

func TestBasisPointsOf(t *testing.T) {
	t.Parallel()

	supply, ok := new(big.Int).SetString("1111111000000000000000000", 10)
	require.True(t, ok)

	tenBps := mathutil.BasisPointsOf(supply, 10)
	expected, _ := new(big.Int).SetString("1111111000000000000000", 10)
	require.Zero(t, tenBps.Cmp(expected))
}

func TestSplitByShares(t *testing.T) {
	t.Parallel()

	amount := big.NewInt(10000)
	portion, remainder := mathutil.SplitByShares(amount, 1, 4)
	require.Equal(t, int64(2500), portion.Int64())
	require.Equal(t, int64(7500), remainder.Int64())

	portion, remainder = mathutil.SplitByShares(big.NewInt(7500), 2, 3)
	require.Equal(t, int64(5000), portion.Int64())
	require.Equal(t, int64(2500), remainder.Int64())

	// Floor division must never lose units across the split.
	portion, remainder = mathutil.SplitByShares(big.NewInt(10001), 1, 3)
	require.Equal(t, int64(10001), portion.Int64()+remainder.Int64())
}

func TestHalve(t *testing.T) {
	t.Parallel()

	half, rest := mathutil.Halve(big.NewInt(2500))
	require.Equal(t, int64(1250), half.Int64())
	require.Equal(t, int64(1250), rest.Int64())

	// The odd unit goes to the second half.
	half, rest = mathutil.Halve(big.NewInt(2501))
	require.Equal(t, int64(1250), half.Int64())
	require.Equal(t, int64(1251), rest.Int64())
}
