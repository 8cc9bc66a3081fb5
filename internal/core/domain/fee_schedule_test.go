package domain_test

import (
	"testing"
	"time"

	"github.com/liquify-network/liquifyd/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestCurrentTaxPercent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		elapsed  time.Duration
		expected uint64
	}{
		{"at_open", 0, 45},
		{"thirty_seconds", 30 * time.Second, 45},
		{"just_before_first_minute", time.Minute - time.Nanosecond, 45},
		{"first_minute", time.Minute, 45},
		{"two_minutes", 2 * time.Minute, 45},
		{"three_minutes", 3 * time.Minute, 25},
		{"nine_minutes", 9 * time.Minute, 25},
		{"ten_minutes", 10 * time.Minute, 10},
		{"fifteen_minutes", 15 * time.Minute, 6},
		{"one_hour", time.Hour, 6},
		{"just_before_one_day", 24*time.Hour - time.Second, 6},
		{"one_day", 24 * time.Hour, 4},
		{"one_week", 7 * 24 * time.Hour, 4},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, domain.CurrentTaxPercent(tt.elapsed))
		})
	}
}

func TestCurrentTaxPercentIsNonIncreasing(t *testing.T) {
	t.Parallel()

	valid := map[uint64]struct{}{45: {}, 25: {}, 10: {}, 6: {}, 4: {}}

	prev := domain.CurrentTaxPercent(0)
	for elapsed := time.Duration(0); elapsed <= 25*time.Hour; elapsed += 10 * time.Second {
		pct := domain.CurrentTaxPercent(elapsed)
		require.Contains(t, valid, pct)
		require.LessOrEqual(t, pct, prev)
		prev = pct
	}
}
