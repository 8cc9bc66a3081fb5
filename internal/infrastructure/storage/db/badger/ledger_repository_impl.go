package dbbadger

import (
	"context"
	"fmt"
	"math/big"

	"github.com/dgraph-io/badger/v3"

	"github.com/liquify-network/liquifyd/internal/core/domain"
)

const (
	balanceKeyPrefix = "balance:"
	supplyKey        = "supply"
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
	return r.rm.withTxn(ctx, true, func(tx *badger.Txn) error {
		balance, err := getAmount(tx, balanceKeyPrefix+account)
		if err != nil {
			return err
		}
		if err := putAmount(
			tx, balanceKeyPrefix+account, new(big.Int).Add(balance, amount),
		); err != nil {
			return err
		}
		supply, err := getAmount(tx, supplyKey)
		if err != nil {
			return err
		}
		return putAmount(tx, supplyKey, new(big.Int).Add(supply, amount))
	})
}

func (r ledgerRepository) BalanceOf(
	ctx context.Context, account string,
) (*big.Int, error) {
	balance := new(big.Int)
	if err := r.rm.withTxn(ctx, false, func(tx *badger.Txn) error {
		b, err := getAmount(tx, balanceKeyPrefix+account)
		if err != nil {
			return err
		}
		balance.Set(b)
		return nil
	}); err != nil {
		return nil, err
	}
	return balance, nil
}

func (r ledgerRepository) TotalSupply(ctx context.Context) (*big.Int, error) {
	supply := new(big.Int)
	if err := r.rm.withTxn(ctx, false, func(tx *badger.Txn) error {
		s, err := getAmount(tx, supplyKey)
		if err != nil {
			return err
		}
		supply.Set(s)
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
	return r.rm.withTxn(ctx, true, func(tx *badger.Txn) error {
		fromBalance, err := getAmount(tx, balanceKeyPrefix+from)
		if err != nil {
			return err
		}
		if fromBalance.Cmp(amount) < 0 {
			return domain.ErrInsufficientBalance
		}
		toBalance, err := getAmount(tx, balanceKeyPrefix+to)
		if err != nil {
			return err
		}
		if err := putAmount(
			tx, balanceKeyPrefix+from, new(big.Int).Sub(fromBalance, amount),
		); err != nil {
			return err
		}
		return putAmount(
			tx, balanceKeyPrefix+to, new(big.Int).Add(toBalance, amount),
		)
	})
}

func getAmount(tx *badger.Txn, key string) (*big.Int, error) {
	buf, err := getValue(tx, []byte(key))
	if err != nil {
		return nil, err
	}
	if buf == nil {
		return new(big.Int), nil
	}
	amount, ok := new(big.Int).SetString(string(buf), 10)
	if !ok {
		return nil, fmt.Errorf("malformed amount stored under %s", key)
	}
	return amount, nil
}

func putAmount(tx *badger.Txn, key string, amount *big.Int) error {
	return tx.Set([]byte(key), []byte(amount.Text(10)))
}
