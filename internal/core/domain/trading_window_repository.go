package domain

import "context"

// TradingWindowRepository persists the one trading window of the asset.
type TradingWindowRepository interface {
	// GetTradingWindow returns the current window state, closed by default.
	GetTradingWindow(ctx context.Context) (*TradingWindow, error)
	// UpdateTradingWindow updates the window state through a closure in a
	// transactional way.
	UpdateTradingWindow(
		ctx context.Context,
		updateFn func(w *TradingWindow) (*TradingWindow, error),
	) error
}
