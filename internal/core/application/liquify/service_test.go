package liquify_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/liquify-network/liquifyd/internal/core/application/liquify"
	"github.com/liquify-network/liquifyd/internal/core/domain"
	"github.com/liquify-network/liquifyd/internal/core/ports"
	"github.com/liquify-network/liquifyd/internal/infrastructure/amm"
	"github.com/liquify-network/liquifyd/internal/infrastructure/storage/db/inmemory"
)

const (
	tokenAsset      = "LQFY"
	settlementAsset = "native"
	deployer        = "wallet-deployer"
	contractAddress = "liquifyd:contract"
	teamWallet      = "wallet-team"
	marketingWallet = "wallet-marketing"
	liquidityWallet = "wallet-liquidity"
)

var wallets = liquify.Wallets{
	Team:      teamWallet,
	Marketing: marketingWallet,
	Liquidity: liquidityWallet,
}

type fixture struct {
	repoManager ports.RepoManager
	router      *amm.Service
	svc         *liquify.Service
	pairAddress string
}

func newFixture(t *testing.T, router ports.Router) *fixture {
	t.Helper()
	ctx := context.Background()

	repoManager := inmemory.NewRepoManager()
	ledger := repoManager.LedgerRepository()
	require.NoError(t, ledger.Mint(ctx, deployer, big.NewInt(10_000_000)))

	pool := amm.NewService(ledger, tokenAsset)
	pairAddress, err := pool.PairAddress(ctx, tokenAsset, settlementAsset)
	require.NoError(t, err)

	require.NoError(t, pool.Fund(settlementAsset, deployer, big.NewInt(1_000_000)))
	_, _, _, err = pool.AddLiquidity(
		ctx, deployer, tokenAsset, settlementAsset,
		big.NewInt(1_000_000), big.NewInt(1_000_000),
		new(big.Int), new(big.Int), liquidityWallet, time.Now(),
	)
	require.NoError(t, err)

	shares, err := liquify.DefaultFeeShares()
	require.NoError(t, err)

	if router == nil {
		router = pool
	}
	svc, err := liquify.NewService(
		repoManager, router, nil, shares, wallets,
		contractAddress, tokenAsset, settlementAsset,
	)
	require.NoError(t, err)

	return &fixture{
		repoManager: repoManager,
		router:      pool,
		svc:         svc,
		pairAddress: pairAddress,
	}
}

func (f *fixture) accumulateTax(t *testing.T, amount int64) {
	t.Helper()
	require.NoError(t, f.repoManager.LedgerRepository().Transfer(
		context.Background(), deployer, contractAddress, big.NewInt(amount),
	))
}

func (f *fixture) balanceOf(t *testing.T, account string) *big.Int {
	t.Helper()
	balance, err := f.repoManager.LedgerRepository().BalanceOf(
		context.Background(), account,
	)
	require.NoError(t, err)
	return balance
}

func TestConvertSplitsSharesAndSuppliesLiquidity(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, nil)
	f.accumulateTax(t, 10_000)

	require.NoError(t, f.svc.Convert(ctx, big.NewInt(10_000), time.Now()))

	// 1/4 of the tax goes to liquidity, the rest is split 2:1.
	require.Equal(t, int64(5_000), f.balanceOf(t, teamWallet).Int64())
	require.Equal(t, int64(2_500), f.balanceOf(t, marketingWallet).Int64())

	// Both halves of the liquidity portion left the contract holding: 1250
	// swapped plus up to 1250 supplied. Whatever the pool did not use stays
	// in the contract for the next run.
	contractBalance := f.balanceOf(t, contractAddress).Int64()
	require.LessOrEqual(t, contractBalance, int64(1_250))
	require.GreaterOrEqual(t, contractBalance, int64(0))

	// LP ownership of the supplied liquidity belongs to the liquidity wallet.
	require.Positive(t, f.router.LPBalance(f.pairAddress, liquidityWallet).Sign())

	// No unit was destroyed or duplicated.
	supply, err := f.repoManager.LedgerRepository().TotalSupply(ctx)
	require.NoError(t, err)
	total := new(big.Int)
	for _, account := range []string{
		deployer, contractAddress, teamWallet, marketingWallet,
		liquidityWallet, f.pairAddress,
	} {
		total.Add(total, f.balanceOf(t, account))
	}
	require.Zero(t, total.Cmp(supply))

	records, err := f.repoManager.TransferRepository().GetAllTransferRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, domain.TransferKindConversion, records[0].Kind)
}

func TestConvertHandlesOddLiquidityPortion(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// 10_002 -> liquidity portion 2500 (floored from 2500.5), halves 1250/1250,
	// other portion 7502 -> team 5001, marketing 2501.
	f := newFixture(t, nil)
	f.accumulateTax(t, 10_002)

	require.NoError(t, f.svc.Convert(ctx, big.NewInt(10_002), time.Now()))
	require.Equal(t, int64(5_001), f.balanceOf(t, teamWallet).Int64())
	require.Equal(t, int64(2_501), f.balanceOf(t, marketingWallet).Int64())
}

func TestConvertRejectsNonPositiveAmounts(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	require.ErrorIs(t, f.svc.Convert(context.Background(), nil, time.Now()), domain.ErrInvalidAmount)
	require.ErrorIs(t, f.svc.Convert(context.Background(), new(big.Int), time.Now()), domain.ErrInvalidAmount)
}

type failingRouter struct{}

func (failingRouter) PairAddress(context.Context, string, string) (string, error) {
	return "", errors.New("pool unreachable")
}

func (failingRouter) SwapExactInForOut(
	context.Context, string, *big.Int, *big.Int, []string, string, time.Time,
) ([]*big.Int, error) {
	return nil, errors.New("pool unreachable")
}

func (failingRouter) AddLiquidity(
	context.Context, string, string, string,
	*big.Int, *big.Int, *big.Int, *big.Int, string, time.Time,
) (*big.Int, *big.Int, *big.Int, error) {
	return nil, nil, nil, errors.New("pool unreachable")
}

type emptyAmountsRouter struct {
	failingRouter
}

func (emptyAmountsRouter) SwapExactInForOut(
	context.Context, string, *big.Int, *big.Int, []string, string, time.Time,
) ([]*big.Int, error) {
	return []*big.Int{}, nil
}

func TestConvertRejectsEmptySwapResult(t *testing.T) {
	t.Parallel()

	f := newFixture(t, emptyAmountsRouter{})
	f.accumulateTax(t, 10_000)

	err := f.svc.Convert(context.Background(), big.NewInt(10_000), time.Now())
	require.ErrorIs(t, err, domain.ErrExternalConversion)
	require.False(t, f.svc.InProgress())
}

func TestConvertStampsRecordWithTheGivenTime(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, nil)
	f.accumulateTax(t, 10_000)

	stamp := time.Now().Add(-time.Hour)
	require.NoError(t, f.svc.Convert(ctx, big.NewInt(10_000), stamp))

	records, err := f.repoManager.TransferRepository().GetAllTransferRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.True(t, records[0].Timestamp.Equal(stamp))
}

func TestConvertWrapsRouterFailures(t *testing.T) {
	t.Parallel()

	f := newFixture(t, failingRouter{})
	f.accumulateTax(t, 10_000)

	err := f.svc.Convert(context.Background(), big.NewInt(10_000), time.Now())
	require.ErrorIs(t, err, domain.ErrExternalConversion)
	require.False(t, f.svc.InProgress())
}

type latchObservingRouter struct {
	*amm.Service
	svc        **liquify.Service
	sawLatched bool
}

func (r *latchObservingRouter) SwapExactInForOut(
	ctx context.Context,
	from string, amountIn, minAmountOut *big.Int, path []string,
	recipient string, deadline time.Time,
) ([]*big.Int, error) {
	// A nested callback hitting the interceptor mid-run must see the latch.
	r.sawLatched = (*r.svc).InProgress()
	return r.Service.SwapExactInForOut(
		ctx, from, amountIn, minAmountOut, path, recipient, deadline,
	)
}

func TestConvertHoldsLatchDuringRouterCalls(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var svc *liquify.Service
	f := newFixture(t, nil)
	observer := &latchObservingRouter{Service: f.router, svc: &svc}

	shares, err := liquify.DefaultFeeShares()
	require.NoError(t, err)
	svc, err = liquify.NewService(
		f.repoManager, observer, nil, shares, wallets,
		contractAddress, tokenAsset, settlementAsset,
	)
	require.NoError(t, err)

	f.accumulateTax(t, 10_000)
	require.False(t, svc.InProgress())
	require.NoError(t, svc.Convert(ctx, big.NewInt(10_000), time.Now()))
	require.True(t, observer.sawLatched)
	require.False(t, svc.InProgress())
}
