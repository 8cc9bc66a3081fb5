package inmemory_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/liquify-network/liquifyd/internal/core/domain"
	"github.com/liquify-network/liquifyd/internal/infrastructure/storage/db/inmemory"
)

func TestTransactionCommitsOnSuccess(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repoManager := inmemory.NewRepoManager()
	ledger := repoManager.LedgerRepository()
	require.NoError(t, ledger.Mint(ctx, "alice", big.NewInt(1_000)))

	res, err := repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			if err := ledger.Transfer(
				ctx, "alice", "bob", big.NewInt(400),
			); err != nil {
				return nil, err
			}
			return "done", nil
		},
	)
	require.NoError(t, err)
	require.Equal(t, "done", res)

	balance, err := ledger.BalanceOf(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, int64(400), balance.Int64())
}

func TestTransactionRollsBackOnError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repoManager := inmemory.NewRepoManager()
	ledger := repoManager.LedgerRepository()
	require.NoError(t, ledger.Mint(ctx, "alice", big.NewInt(1_000)))

	expected := errors.New("late failure")
	_, err := repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			if err := ledger.Transfer(
				ctx, "alice", "bob", big.NewInt(400),
			); err != nil {
				return nil, err
			}
			record := domain.NewTransferRecord(
				"alice", "bob", big.NewInt(400), new(big.Int), 0,
				domain.TransferKindPeer, time.Now(),
			)
			if err := repoManager.TransferRepository().AddTransferRecord(
				ctx, record,
			); err != nil {
				return nil, err
			}
			return nil, expected
		},
	)
	require.ErrorIs(t, err, expected)

	// Neither the balance move nor the journal entry survived.
	balance, err := ledger.BalanceOf(ctx, "bob")
	require.NoError(t, err)
	require.Zero(t, balance.Sign())
	records, err := repoManager.TransferRepository().GetAllTransferRecords(ctx)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestReadOnlyTransactionDiscardsWrites(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repoManager := inmemory.NewRepoManager()
	ledger := repoManager.LedgerRepository()
	require.NoError(t, ledger.Mint(ctx, "alice", big.NewInt(1_000)))

	_, err := repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			return nil, ledger.Transfer(ctx, "alice", "bob", big.NewInt(400))
		},
	)
	require.NoError(t, err)

	balance, err := ledger.BalanceOf(ctx, "bob")
	require.NoError(t, err)
	require.Zero(t, balance.Sign())
}

func TestLedgerTransferChecksBalance(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repoManager := inmemory.NewRepoManager()
	ledger := repoManager.LedgerRepository()
	require.NoError(t, ledger.Mint(ctx, "alice", big.NewInt(100)))

	require.ErrorIs(
		t, ledger.Transfer(ctx, "alice", "bob", big.NewInt(101)),
		domain.ErrInsufficientBalance,
	)
	require.ErrorIs(
		t, ledger.Transfer(ctx, "alice", "bob", big.NewInt(-1)),
		domain.ErrInvalidAmount,
	)
	// Zero amount transfers are a no-op.
	require.NoError(t, ledger.Transfer(ctx, "alice", "bob", new(big.Int)))

	supply, err := ledger.TotalSupply(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(100), supply.Int64())
}

func TestAccountUpdatesAreVisibleAfterCommit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repoManager := inmemory.NewRepoManager()
	accounts := repoManager.AccountRepository()

	_, err := repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, accounts.UpdateAccount(
				ctx, "alice", func(a *domain.Account) (*domain.Account, error) {
					a.FeeExempt = true
					return a, nil
				},
			)
		},
	)
	require.NoError(t, err)

	account, err := accounts.GetOrCreateAccount(ctx, "alice")
	require.NoError(t, err)
	require.True(t, account.FeeExempt)
}

func TestRecordsAreReturnedChronologically(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repoManager := inmemory.NewRepoManager()
	transfers := repoManager.TransferRepository()

	now := time.Now()
	for i, from := range []string{"alice", "bob", "alice"} {
		record := domain.NewTransferRecord(
			from, "pool", big.NewInt(int64(i+1)), new(big.Int), 0,
			domain.TransferKindSell, now.Add(time.Duration(i)*time.Second),
		)
		require.NoError(t, transfers.AddTransferRecord(ctx, record))
	}

	all, err := transfers.GetAllTransferRecords(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, record := range all {
		require.Equal(t, int64(i+1), record.Amount.Int64())
	}

	forAlice, err := transfers.GetTransferRecordsForAccount(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, forAlice, 2)

	forPool, err := transfers.GetTransferRecordsForAccount(ctx, "pool")
	require.NoError(t, err)
	require.Len(t, forPool, 3)
}
