package domain_test

import (
	"testing"
	"time"

	"github.com/liquify-network/liquifyd/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestTradingWindowOpensExactlyOnce(t *testing.T) {
	t.Parallel()

	w := domain.NewTradingWindow()
	require.False(t, w.IsOpen())

	_, err := w.ElapsedSince(time.Now())
	require.ErrorIs(t, err, domain.ErrTradingNotOpen)

	openedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, w.Open(openedAt))
	require.True(t, w.IsOpen())

	err = w.Open(openedAt.Add(time.Hour))
	require.ErrorIs(t, err, domain.ErrTradingAlreadyOpen)
	// The opening time must survive the failed second attempt.
	require.Equal(t, openedAt, w.OpenedAt)
}

func TestTradingWindowElapsedSince(t *testing.T) {
	t.Parallel()

	openedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	w := domain.NewTradingWindow()
	require.NoError(t, w.Open(openedAt))

	elapsed, err := w.ElapsedSince(openedAt.Add(30 * time.Second))
	require.NoError(t, err)
	require.Equal(t, 30*time.Second, elapsed)
}

func TestNewAccount(t *testing.T) {
	t.Parallel()

	a, err := domain.NewAccount("wallet-1")
	require.NoError(t, err)
	require.False(t, a.FeeExempt)
	require.False(t, a.HoldingCapExempt)

	_, err = domain.NewAccount("")
	require.ErrorIs(t, err, domain.ErrInvalidAddress)
}

func TestNewFeeShareConfig(t *testing.T) {
	t.Parallel()

	c, err := domain.NewFeeShareConfig(2, 1, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(4), c.TotalShares())

	_, err = domain.NewFeeShareConfig(0, 1, 1)
	require.ErrorIs(t, err, domain.ErrInvalidFeeShares)
	_, err = domain.NewFeeShareConfig(2, 0, 1)
	require.ErrorIs(t, err, domain.ErrInvalidFeeShares)
	_, err = domain.NewFeeShareConfig(2, 1, 0)
	require.ErrorIs(t, err, domain.ErrInvalidFeeShares)
}
