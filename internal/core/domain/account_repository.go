package domain

import "context"

// AccountRepository is the abstraction for any kind of database intended to
// persist accounts and their exemption flags.
type AccountRepository interface {
	// GetOrCreateAccount returns the account with the given address,
	// inserting a new one with no exemptions if not found.
	GetOrCreateAccount(ctx context.Context, address string) (*Account, error)
	// UpdateAccount updates the state of an account. The closure function
	// lets the caller commit multiple changes in a transactional way.
	UpdateAccount(
		ctx context.Context,
		address string, updateFn func(a *Account) (*Account, error),
	) error
}
