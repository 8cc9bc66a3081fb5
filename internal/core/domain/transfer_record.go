package domain

import (
	"math/big"
	"time"

	"github.com/google/uuid"
)

// TransferKind classifies a journal entry by the role of the liquidity pool
// in the transfer.
type TransferKind string

const (
	// TransferKindPeer is a transfer between two non-pool accounts.
	TransferKindPeer TransferKind = "peer"
	// TransferKindBuy is a transfer from the liquidity pool to an account.
	TransferKindBuy TransferKind = "buy"
	// TransferKindSell is a transfer from an account to the liquidity pool.
	TransferKindSell TransferKind = "sell"
	// TransferKindConversion is a record of a swap-and-liquify run.
	TransferKindConversion TransferKind = "conversion"
)

// TransferRecord is the journal entry stored for every intercepted transfer
// and for every conversion run.
type TransferRecord struct {
	Id         string
	From       string
	To         string
	Amount     *big.Int
	Fee        *big.Int
	TaxPercent uint64
	Kind       TransferKind
	Timestamp  time.Time
}

// NewTransferRecord returns a journal entry with a fresh id.
func NewTransferRecord(
	from, to string, amount, fee *big.Int, taxPercent uint64,
	kind TransferKind, timestamp time.Time,
) *TransferRecord {
	return &TransferRecord{
		Id:         uuid.New().String(),
		From:       from,
		To:         to,
		Amount:     new(big.Int).Set(amount),
		Fee:        new(big.Int).Set(fee),
		TaxPercent: taxPercent,
		Kind:       kind,
		Timestamp:  timestamp,
	}
}
