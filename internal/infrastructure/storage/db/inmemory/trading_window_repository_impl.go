package inmemory

import (
	"context"

	"github.com/liquify-network/liquifyd/internal/core/domain"
)

type tradingWindowRepository struct {
	rm *RepoManager
}

func (r tradingWindowRepository) GetTradingWindow(
	ctx context.Context,
) (*domain.TradingWindow, error) {
	var window domain.TradingWindow
	if err := r.rm.withStore(ctx, func(s *store) error {
		window = *s.window
		return nil
	}); err != nil {
		return nil, err
	}
	return &window, nil
}

func (r tradingWindowRepository) UpdateTradingWindow(
	ctx context.Context,
	updateFn func(w *domain.TradingWindow) (*domain.TradingWindow, error),
) error {
	return r.rm.withStore(ctx, func(s *store) error {
		copied := *s.window
		updated, err := updateFn(&copied)
		if err != nil {
			return err
		}
		s.window = updated
		return nil
	})
}
