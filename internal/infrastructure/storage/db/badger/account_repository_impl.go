package dbbadger

import (
	"context"
	"encoding/json"

	"github.com/dgraph-io/badger/v3"

	"github.com/liquify-network/liquifyd/internal/core/domain"
)

const accountKeyPrefix = "account:"

type accountRepository struct {
	rm *RepoManager
}

func (r accountRepository) GetOrCreateAccount(
	ctx context.Context, address string,
) (*domain.Account, error) {
	var account *domain.Account
	if err := r.rm.withTxn(ctx, true, func(tx *badger.Txn) error {
		a, err := getOrCreateAccount(tx, address)
		if err != nil {
			return err
		}
		account = a
		return nil
	}); err != nil {
		return nil, err
	}
	return account, nil
}

func (r accountRepository) UpdateAccount(
	ctx context.Context,
	address string, updateFn func(a *domain.Account) (*domain.Account, error),
) error {
	return r.rm.withTxn(ctx, true, func(tx *badger.Txn) error {
		account, err := getOrCreateAccount(tx, address)
		if err != nil {
			return err
		}
		updated, err := updateFn(account)
		if err != nil {
			return err
		}
		return putAccount(tx, updated)
	})
}

func getOrCreateAccount(tx *badger.Txn, address string) (*domain.Account, error) {
	buf, err := getValue(tx, []byte(accountKeyPrefix+address))
	if err != nil {
		return nil, err
	}
	if buf == nil {
		account, err := domain.NewAccount(address)
		if err != nil {
			return nil, err
		}
		if err := putAccount(tx, account); err != nil {
			return nil, err
		}
		return account, nil
	}

	account := &domain.Account{}
	if err := json.Unmarshal(buf, account); err != nil {
		return nil, err
	}
	return account, nil
}

func putAccount(tx *badger.Txn, account *domain.Account) error {
	buf, err := json.Marshal(account)
	if err != nil {
		return err
	}
	return tx.Set([]byte(accountKeyPrefix+account.Address), buf)
}
