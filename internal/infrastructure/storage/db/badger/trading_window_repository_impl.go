package dbbadger

import (
	"context"
	"encoding/json"

	"github.com/dgraph-io/badger/v3"

	"github.com/liquify-network/liquifyd/internal/core/domain"
)

const tradingWindowKey = "tradingwindow"

type tradingWindowRepository struct {
	rm *RepoManager
}

func (r tradingWindowRepository) GetTradingWindow(
	ctx context.Context,
) (*domain.TradingWindow, error) {
	var window *domain.TradingWindow
	if err := r.rm.withTxn(ctx, false, func(tx *badger.Txn) error {
		w, err := getTradingWindow(tx)
		if err != nil {
			return err
		}
		window = w
		return nil
	}); err != nil {
		return nil, err
	}
	return window, nil
}

func (r tradingWindowRepository) UpdateTradingWindow(
	ctx context.Context,
	updateFn func(w *domain.TradingWindow) (*domain.TradingWindow, error),
) error {
	return r.rm.withTxn(ctx, true, func(tx *badger.Txn) error {
		window, err := getTradingWindow(tx)
		if err != nil {
			return err
		}
		updated, err := updateFn(window)
		if err != nil {
			return err
		}
		buf, err := json.Marshal(updated)
		if err != nil {
			return err
		}
		return tx.Set([]byte(tradingWindowKey), buf)
	})
}

func getTradingWindow(tx *badger.Txn) (*domain.TradingWindow, error) {
	buf, err := getValue(tx, []byte(tradingWindowKey))
	if err != nil {
		return nil, err
	}
	if buf == nil {
		return domain.NewTradingWindow(), nil
	}
	window := &domain.TradingWindow{}
	if err := json.Unmarshal(buf, window); err != nil {
		return nil, err
	}
	return window, nil
}
