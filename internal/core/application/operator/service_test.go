package operator_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/liquify-network/liquifyd/internal/core/application/operator"
	"github.com/liquify-network/liquifyd/internal/core/domain"
	"github.com/liquify-network/liquifyd/internal/core/ports"
	"github.com/liquify-network/liquifyd/internal/infrastructure/storage/db/inmemory"
)

const (
	assetName       = "Liquify Token"
	assetSymbol     = "LQFY"
	contractAddress = "liquifyd:contract"
	pairAddress     = "pool:LQFY/native"
	alice           = "wallet-alice"
)

func newService(t *testing.T) (*operator.Service, ports.RepoManager) {
	t.Helper()
	repoManager := inmemory.NewRepoManager()
	svc, err := operator.NewService(
		repoManager, assetName, assetSymbol, contractAddress, pairAddress,
		big.NewInt(5_000),
	)
	require.NoError(t, err)
	return svc, repoManager
}

func TestOpenTradingSucceedsOnlyOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, repoManager := newService(t)

	require.NoError(t, svc.OpenTrading(ctx))

	window, err := repoManager.TradingWindowRepository().GetTradingWindow(ctx)
	require.NoError(t, err)
	require.True(t, window.IsOpen())
	openedAt := window.OpenedAt

	err = svc.OpenTrading(ctx)
	require.ErrorIs(t, err, domain.ErrTradingAlreadyOpen)

	// The original opening time is untouched by the failed retry.
	window, err = repoManager.TradingWindowRepository().GetTradingWindow(ctx)
	require.NoError(t, err)
	require.Equal(t, openedAt, window.OpenedAt)
}

func TestSetExemptionsAreIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, repoManager := newService(t)

	require.NoError(t, svc.SetFeeExempt(ctx, alice, true))
	require.NoError(t, svc.SetFeeExempt(ctx, alice, true))
	require.NoError(t, svc.SetHoldingCapExempt(ctx, alice, true))

	account, err := repoManager.AccountRepository().GetOrCreateAccount(ctx, alice)
	require.NoError(t, err)
	require.True(t, account.FeeExempt)
	require.True(t, account.HoldingCapExempt)

	require.NoError(t, svc.SetFeeExempt(ctx, alice, false))
	account, err = repoManager.AccountRepository().GetOrCreateAccount(ctx, alice)
	require.NoError(t, err)
	require.False(t, account.FeeExempt)
	require.True(t, account.HoldingCapExempt)
}

func TestGetInfo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, repoManager := newService(t)
	require.NoError(t, repoManager.LedgerRepository().Mint(
		ctx, alice, big.NewInt(1_000_000),
	))
	require.NoError(t, repoManager.LedgerRepository().Transfer(
		ctx, alice, contractAddress, big.NewInt(2_500),
	))

	info, err := svc.GetInfo(ctx)
	require.NoError(t, err)
	require.Equal(t, assetName, info.AssetName)
	require.Equal(t, assetSymbol, info.AssetSymbol)
	require.Equal(t, int64(1_000_000), info.TotalSupply.Int64())
	require.Equal(t, int64(2_500), info.PendingTax.Int64())
	require.Equal(t, int64(5_000), info.ConversionThreshold.Int64())
	require.False(t, info.TradingOpen)
	require.Equal(t, pairAddress, info.PairAddress)

	require.NoError(t, svc.OpenTrading(ctx))
	info, err = svc.GetInfo(ctx)
	require.NoError(t, err)
	require.True(t, info.TradingOpen)
	require.False(t, info.TradingOpenedAt.IsZero())
}

func TestGetAccountDefaultsToNoExemptions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, repoManager := newService(t)
	require.NoError(t, repoManager.LedgerRepository().Mint(
		ctx, alice, big.NewInt(42),
	))

	account, err := svc.GetAccount(ctx, alice)
	require.NoError(t, err)
	require.Equal(t, alice, account.Account.Address)
	require.False(t, account.Account.FeeExempt)
	require.False(t, account.Account.HoldingCapExempt)
	require.Equal(t, int64(42), account.Balance.Int64())
}

func TestListTransfersFiltersByAccount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, repoManager := newService(t)

	now := time.Now()
	records := []*domain.TransferRecord{
		domain.NewTransferRecord(
			alice, "wallet-bob", big.NewInt(100), new(big.Int), 0,
			domain.TransferKindPeer, now,
		),
		domain.NewTransferRecord(
			"wallet-bob", "wallet-carol", big.NewInt(50), new(big.Int), 0,
			domain.TransferKindPeer, now.Add(time.Second),
		),
	}
	for _, record := range records {
		require.NoError(
			t, repoManager.TransferRepository().AddTransferRecord(ctx, record),
		)
	}

	all, err := svc.ListTransfers(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	filtered, err := svc.ListTransfers(ctx, alice)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, alice, filtered[0].From)
}
