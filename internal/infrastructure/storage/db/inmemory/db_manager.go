package inmemory

import (
	"context"
	"math/big"
	"sync"

	"github.com/liquify-network/liquifyd/internal/core/domain"
	"github.com/liquify-network/liquifyd/internal/core/ports"
)

type txKeyType struct{}

// txKey marks a context as carrying the working copy of the store for the
// duration of one RunTransaction call.
var txKey txKeyType

// store holds the whole state of the in-memory database.
type store struct {
	accounts map[string]*domain.Account
	balances map[string]*big.Int
	supply   *big.Int
	window   *domain.TradingWindow
	records  []domain.TransferRecord
}

func newStore() *store {
	return &store{
		accounts: map[string]*domain.Account{},
		balances: map[string]*big.Int{},
		supply:   new(big.Int),
		window:   domain.NewTradingWindow(),
	}
}

func (s *store) clone() *store {
	accounts := make(map[string]*domain.Account, len(s.accounts))
	for k, v := range s.accounts {
		a := *v
		accounts[k] = &a
	}
	balances := make(map[string]*big.Int, len(s.balances))
	for k, v := range s.balances {
		balances[k] = new(big.Int).Set(v)
	}
	window := *s.window
	records := make([]domain.TransferRecord, len(s.records))
	copy(records, s.records)

	return &store{
		accounts: accounts,
		balances: balances,
		supply:   new(big.Int).Set(s.supply),
		window:   &window,
		records:  records,
	}
}

// RepoManager is an in-memory implementation of ports.RepoManager. A
// transaction works on a deep copy of the store that replaces the live one
// only if the handler succeeds.
type RepoManager struct {
	lock  *sync.Mutex
	store *store

	accountRepository       domain.AccountRepository
	ledgerRepository        domain.LedgerRepository
	tradingWindowRepository domain.TradingWindowRepository
	transferRepository      domain.TransferRepository
}

// NewRepoManager returns a new empty in-memory RepoManager.
func NewRepoManager() ports.RepoManager {
	m := &RepoManager{
		lock:  &sync.Mutex{},
		store: newStore(),
	}
	m.accountRepository = accountRepository{m}
	m.ledgerRepository = ledgerRepository{m}
	m.tradingWindowRepository = tradingWindowRepository{m}
	m.transferRepository = transferRepository{m}
	return m
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

// RunTransaction executes the handler against a working copy of the store.
// The copy becomes the live store only if the handler returns no error.
func (m *RepoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	working := m.store.clone()
	res, err := handler(context.WithValue(ctx, txKey, working))
	if err != nil {
		return nil, err
	}
	if !readOnly {
		m.store = working
	}
	return res, nil
}

func (m *RepoManager) Close() {}

// withStore runs fn against the transaction's working copy if the context
// carries one, otherwise against the live store under the manager's lock.
func (m *RepoManager) withStore(
	ctx context.Context, fn func(s *store) error,
) error {
	if s, ok := ctx.Value(txKey).(*store); ok {
		return fn(s)
	}
	m.lock.Lock()
	defer m.lock.Unlock()
	return fn(m.store)
}
