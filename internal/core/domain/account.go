package domain

// Account is an address-like identity with its administrator-owned exemption
// flags. Balances are owned by the ledger, not by this entity.
type Account struct {
	Address string
	// FeeExempt excludes the account from transfer taxation and lets it
	// transfer while the trading window is still closed.
	FeeExempt bool
	// HoldingCapExempt excludes the account from the launch-window cap on
	// recipient balances.
	HoldingCapExempt bool
}

// NewAccount returns an account with no exemptions.
func NewAccount(address string) (*Account, error) {
	if len(address) <= 0 {
		return nil, ErrInvalidAddress
	}
	return &Account{Address: address}, nil
}
