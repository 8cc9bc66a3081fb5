package ports

import (
	"context"

	"github.com/liquify-network/liquifyd/internal/core/domain"
)

// RepoManager gives access to every repository of the daemon and lets
// callers run multiple repository operations as one atomic transaction.
type RepoManager interface {
	AccountRepository() domain.AccountRepository
	LedgerRepository() domain.LedgerRepository
	TradingWindowRepository() domain.TradingWindowRepository
	TransferRepository() domain.TransferRepository

	// RunTransaction executes the handler within a single storage
	// transaction. The context passed to the handler carries the transaction
	// and must be forwarded to every repository call made inside it. If the
	// handler returns an error every mutation is discarded.
	RunTransaction(
		ctx context.Context,
		readOnly bool,
		handler func(ctx context.Context) (interface{}, error),
	) (interface{}, error)

	Close()
}
