package dbbadger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v3"

	"github.com/liquify-network/liquifyd/internal/core/domain"
)

const recordKeyPrefix = "record:"

type transferRepository struct {
	rm *RepoManager
}

func (r transferRepository) AddTransferRecord(
	ctx context.Context, record *domain.TransferRecord,
) error {
	return r.rm.withTxn(ctx, true, func(tx *badger.Txn) error {
		buf, err := json.Marshal(record)
		if err != nil {
			return err
		}
		// Keys embed the timestamp so that prefix iteration returns records
		// in chronological order.
		key := fmt.Sprintf(
			"%s%020d:%s", recordKeyPrefix, record.Timestamp.UnixNano(), record.Id,
		)
		return tx.Set([]byte(key), buf)
	})
}

func (r transferRepository) GetAllTransferRecords(
	ctx context.Context,
) ([]domain.TransferRecord, error) {
	return r.findRecords(ctx, func(domain.TransferRecord) bool { return true })
}

func (r transferRepository) GetTransferRecordsForAccount(
	ctx context.Context, account string,
) ([]domain.TransferRecord, error) {
	return r.findRecords(ctx, func(record domain.TransferRecord) bool {
		return record.From == account || record.To == account
	})
}

func (r transferRepository) findRecords(
	ctx context.Context, match func(domain.TransferRecord) bool,
) ([]domain.TransferRecord, error) {
	var records []domain.TransferRecord
	if err := r.rm.withTxn(ctx, false, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordKeyPrefix)
		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			buf, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			record := domain.TransferRecord{}
			if err := json.Unmarshal(buf, &record); err != nil {
				return err
			}
			if match(record) {
				records = append(records, record)
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return records, nil
}
