package domain

import "context"

// TransferRepository persists the journal of intercepted transfers and
// conversion runs.
type TransferRepository interface {
	// AddTransferRecord appends a record to the journal.
	AddTransferRecord(ctx context.Context, record *TransferRecord) error
	// GetAllTransferRecords returns the whole journal in chronological order.
	GetAllTransferRecords(ctx context.Context) ([]TransferRecord, error)
	// GetTransferRecordsForAccount returns the records where the given
	// account appears as sender or recipient, in chronological order.
	GetTransferRecordsForAccount(
		ctx context.Context, account string,
	) ([]TransferRecord, error)
}
