package inmemory

import (
	"context"

	"github.com/liquify-network/liquifyd/internal/core/domain"
)

type accountRepository struct {
	rm *RepoManager
}

func (r accountRepository) GetOrCreateAccount(
	ctx context.Context, address string,
) (*domain.Account, error) {
	var account *domain.Account
	if err := r.rm.withStore(ctx, func(s *store) error {
		a, err := getOrCreateAccount(s, address)
		if err != nil {
			return err
		}
		copied := *a
		account = &copied
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
	return r.rm.withStore(ctx, func(s *store) error {
		account, err := getOrCreateAccount(s, address)
		if err != nil {
			return err
		}
		copied := *account
		updated, err := updateFn(&copied)
		if err != nil {
			return err
		}
		s.accounts[address] = updated
		return nil
	})
}

func getOrCreateAccount(s *store, address string) (*domain.Account, error) {
	if account, ok := s.accounts[address]; ok {
		return account, nil
	}
	account, err := domain.NewAccount(address)
	if err != nil {
		return nil, err
	}
	s.accounts[address] = account
	return account, nil
}
