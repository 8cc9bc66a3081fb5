package inmemory

import (
	"context"

	"github.com/liquify-network/liquifyd/internal/core/domain"
)

type transferRepository struct {
	rm *RepoManager
}

func (r transferRepository) AddTransferRecord(
	ctx context.Context, record *domain.TransferRecord,
) error {
	return r.rm.withStore(ctx, func(s *store) error {
		s.records = append(s.records, *record)
		return nil
	})
}

func (r transferRepository) GetAllTransferRecords(
	ctx context.Context,
) ([]domain.TransferRecord, error) {
	var records []domain.TransferRecord
	if err := r.rm.withStore(ctx, func(s *store) error {
		records = make([]domain.TransferRecord, len(s.records))
		copy(records, s.records)
		return nil
	}); err != nil {
		return nil, err
	}
	return records, nil
}

func (r transferRepository) GetTransferRecordsForAccount(
	ctx context.Context, account string,
) ([]domain.TransferRecord, error) {
	var records []domain.TransferRecord
	if err := r.rm.withStore(ctx, func(s *store) error {
		for _, record := range s.records {
			if record.From == account || record.To == account {
				records = append(records, record)
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return records, nil
}
