package domain

import (
	"context"
	"math/big"
)

// LedgerRepository is the abstraction over the underlying ledger primitives:
// balance storage, supply accounting and raw transfer execution. Transfer
// moves balance without any fee logic, that belongs to the interceptor.
type LedgerRepository interface {
	// Mint credits newly created units to an account and grows total supply.
	Mint(ctx context.Context, account string, amount *big.Int) error
	// BalanceOf returns the balance of an account, zero if never seen.
	BalanceOf(ctx context.Context, account string) (*big.Int, error)
	// TotalSupply returns the total minted supply.
	TotalSupply(ctx context.Context) (*big.Int, error)
	// Transfer moves balance from one account to another. It fails with
	// ErrInsufficientBalance if the sender cannot cover the amount.
	Transfer(ctx context.Context, from, to string, amount *big.Int) error
}
