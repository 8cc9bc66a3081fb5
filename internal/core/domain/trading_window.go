package domain

import "time"

// TradingWindow holds whether transfers are permitted and, once opened, the
// instant the window opened. It transitions disabled -> enabled exactly once.
type TradingWindow struct {
	Enabled  bool
	OpenedAt time.Time
}

// NewTradingWindow returns a closed trading window.
func NewTradingWindow() *TradingWindow {
	return &TradingWindow{}
}

// Open enables trading and pins the opening time. It fails if the window is
// already open; the original OpenedAt is never overwritten.
func (w *TradingWindow) Open(now time.Time) error {
	if w.Enabled {
		return ErrTradingAlreadyOpen
	}
	w.Enabled = true
	w.OpenedAt = now
	return nil
}

// IsOpen returns whether transfers are permitted.
func (w *TradingWindow) IsOpen() bool {
	return w.Enabled
}

// ElapsedSince returns the time elapsed between the window opening and the
// given instant.
func (w *TradingWindow) ElapsedSince(now time.Time) (time.Duration, error) {
	if !w.Enabled {
		return 0, ErrTradingNotOpen
	}
	return now.Sub(w.OpenedAt), nil
}
