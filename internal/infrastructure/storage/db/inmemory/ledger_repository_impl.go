package inmemory

import (
	"context"
	"math/big"

	"github.com/liquify-network/liquifyd/internal/core/domain"
)

type ledgerRepository struct {
	rm *RepoManager
}

func (r ledgerRepository) Mint(
	ctx context.Context, account string, amount *big.Int,
) error {
	if amount == nil || amount.Sign() <= 0 {
		return domain.ErrInvalidAmount
	}
	return r.rm.withStore(ctx, func(s *store) error {
		balance := balanceOf(s, account)
		s.balances[account] = new(big.Int).Add(balance, amount)
		s.supply = new(big.Int).Add(s.supply, amount)
		return nil
	})
}

func (r ledgerRepository) BalanceOf(
	ctx context.Context, account string,
) (*big.Int, error) {
	balance := new(big.Int)
	if err := r.rm.withStore(ctx, func(s *store) error {
		balance.Set(balanceOf(s, account))
		return nil
	}); err != nil {
		return nil, err
	}
	return balance, nil
}

func (r ledgerRepository) TotalSupply(ctx context.Context) (*big.Int, error) {
	supply := new(big.Int)
	if err := r.rm.withStore(ctx, func(s *store) error {
		supply.Set(s.supply)
		return nil
	}); err != nil {
		return nil, err
	}
	return supply, nil
}

func (r ledgerRepository) Transfer(
	ctx context.Context, from, to string, amount *big.Int,
) error {
	if amount == nil || amount.Sign() < 0 {
		return domain.ErrInvalidAmount
	}
	if amount.Sign() == 0 {
		return nil
	}
	return r.rm.withStore(ctx, func(s *store) error {
		fromBalance := balanceOf(s, from)
		if fromBalance.Cmp(amount) < 0 {
			return domain.ErrInsufficientBalance
		}
		s.balances[from] = new(big.Int).Sub(fromBalance, amount)
		s.balances[to] = new(big.Int).Add(balanceOf(s, to), amount)
		return nil
	})
}

func balanceOf(s *store, account string) *big.Int {
	if balance, ok := s.balances[account]; ok {
		return balance
	}
	return new(big.Int)
}
