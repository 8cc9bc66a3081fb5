package dbbadger

import (
	"context"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	log "github.com/sirupsen/logrus"

	"github.com/liquify-network/liquifyd/internal/core/domain"
	"github.com/liquify-network/liquifyd/internal/core/ports"
)

type txKeyType struct{}

// txKey marks a context as carrying the badger transaction opened by
// RunTransaction.
var txKey txKeyType

// RepoManager is a badger implementation of ports.RepoManager persisting the
// whole daemon state in a single store under the given data directory.
type RepoManager struct {
	db *badger.DB

	accountRepository       domain.AccountRepository
	ledgerRepository        domain.LedgerRepository
	tradingWindowRepository domain.TradingWindowRepository
	transferRepository      domain.TransferRepository
}

// NewRepoManager opens (or creates) the badger store in datadir and returns
// a RepoManager backed by it.
func NewRepoManager(datadir string) (ports.RepoManager, error) {
	opts := badger.DefaultOptions(filepath.Join(datadir, "liquifyd"))
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	m := &RepoManager{db: db}
	m.accountRepository = accountRepository{m}
	m.ledgerRepository = ledgerRepository{m}
	m.tradingWindowRepository = tradingWindowRepository{m}
	m.transferRepository = transferRepository{m}
	return m, nil
}

func (m *RepoManager) AccountRepository() domain.AccountRepository {
	return m.accountRepository
}

func (m *RepoManager) LedgerRepository() domain.LedgerRepository {
	return m.ledgerRepository
}

func (m *RepoManager) TradingWindowRepository() domain.TradingWindowRepository {
	return m.tradingWindowRepository
}

func (m *RepoManager) TransferRepository() domain.TransferRepository {
	return m.transferRepository
}

// RunTransaction executes the handler within a single badger transaction,
// committed only if the handler returns no error.
func (m *RepoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	tx := m.db.NewTransaction(!readOnly)
	defer tx.Discard()

	res, err := handler(context.WithValue(ctx, txKey, tx))
	if err != nil {
		return nil, err
	}
	if !readOnly {
		if err := tx.Commit(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (m *RepoManager) Close() {
	if err := m.db.Close(); err != nil {
		log.WithError(err).Warn("error while closing badger store")
	}
}

// withTxn runs fn against the transaction carried by the context if any,
// otherwise within a one-shot transaction.
func (m *RepoManager) withTxn(
	ctx context.Context, update bool, fn func(tx *badger.Txn) error,
) error {
	if tx, ok := ctx.Value(txKey).(*badger.Txn); ok {
		return fn(tx)
	}
	if update {
		return m.db.Update(fn)
	}
	return m.db.View(fn)
}

// getValue returns the raw value stored under key, or (nil, nil) if the key
// does not exist.
func getValue(tx *badger.Txn, key []byte) ([]byte, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}
	return item.ValueCopy(nil)
}
