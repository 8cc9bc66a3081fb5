// Package amm implements ports.Router as an in-process constant-product
// market maker with fixed 50/50 reserve weights. Reserves of the ledger
// asset are the ledger balance of the pair address, so pool state and ledger
// state cannot drift apart; every other asset is accounted internally.
package amm

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/liquify-network/liquifyd/internal/core/domain"
	"github.com/liquify-network/liquifyd/pkg/mathutil"
)

// deadlineSlack is the tolerance applied when checking call deadlines. Calls
// execute synchronously, so a deadline of "now" is honored by construction.
const deadlineSlack = time.Second

type pair struct {
	address string
	assetA  string
	assetB  string
}

// Service is an in-process implementation of ports.Router.
type Service struct {
	lock *sync.RWMutex

	ledger domain.LedgerRepository
	// ledgerAsset is the asset whose balances live on the external ledger.
	ledgerAsset string

	pairs map[string]*pair
	// balances tracks non-ledger assets: asset -> account -> balance.
	balances map[string]map[string]*big.Int
	// lpSupply and lpBalances track LP token issuance per pair address.
	lpSupply   map[string]*big.Int
	lpBalances map[string]map[string]*big.Int
}

// NewService returns a Router simulator bound to the given ledger for the
// given asset.
func NewService(ledger domain.LedgerRepository, ledgerAsset string) *Service {
	return &Service{
		lock:        &sync.RWMutex{},
		ledger:      ledger,
		ledgerAsset: ledgerAsset,
		pairs:       map[string]*pair{},
		balances:    map[string]map[string]*big.Int{},
		lpSupply:    map[string]*big.Int{},
		lpBalances:  map[string]map[string]*big.Int{},
	}
}

// PairAddress returns the address of the pool trading the two assets,
// creating the pair if needed.
func (s *Service) PairAddress(
	_ context.Context, assetA, assetB string,
) (string, error) {
	if len(assetA) <= 0 || len(assetB) <= 0 || assetA == assetB {
		return "", fmt.Errorf("invalid asset pair %s/%s", assetA, assetB)
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	key := pairKey(assetA, assetB)
	if p, ok := s.pairs[key]; ok {
		return p.address, nil
	}
	p := &pair{
		address: "pool:" + key,
		assetA:  assetA,
		assetB:  assetB,
	}
	s.pairs[key] = p
	return p.address, nil
}

// SwapExactInForOut swaps amountIn of path[0] for path[1] at the constant
// product price, crediting the output to recipient. No pool fee is applied.
func (s *Service) SwapExactInForOut(
	ctx context.Context,
	from string, amountIn, minAmountOut *big.Int, path []string,
	recipient string, deadline time.Time,
) ([]*big.Int, error) {
	if len(path) != 2 {
		return nil, ErrInvalidPath
	}
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, ErrAmountTooLow
	}
	if err := checkDeadline(deadline); err != nil {
		return nil, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	assetIn, assetOut := path[0], path[1]
	p, ok := s.pairs[pairKey(assetIn, assetOut)]
	if !ok {
		return nil, ErrPairNotFound
	}

	reserveIn, err := s.assetBalance(ctx, assetIn, p.address)
	if err != nil {
		return nil, err
	}
	reserveOut, err := s.assetBalance(ctx, assetOut, p.address)
	if err != nil {
		return nil, err
	}
	if reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		return nil, ErrPoolIlliquid
	}

	payerBalance, err := s.assetBalance(ctx, assetIn, from)
	if err != nil {
		return nil, err
	}
	if payerBalance.Cmp(amountIn) < 0 {
		return nil, ErrInsufficientFunds
	}

	// out = reserveOut * amountIn / (reserveIn + amountIn), floored.
	amountOut := new(big.Int).Mul(reserveOut, amountIn)
	amountOut.Quo(amountOut, new(big.Int).Add(reserveIn, amountIn))
	if amountOut.Sign() <= 0 {
		return nil, ErrAmountTooLow
	}
	if amountOut.Cmp(reserveOut) >= 0 {
		return nil, ErrAmountTooBig
	}
	if minAmountOut != nil && amountOut.Cmp(minAmountOut) < 0 {
		return nil, ErrSlippageExceeded
	}

	if err := s.moveAsset(ctx, assetIn, from, p.address, amountIn); err != nil {
		return nil, err
	}
	if err := s.moveAsset(ctx, assetOut, p.address, recipient, amountOut); err != nil {
		return nil, err
	}

	return []*big.Int{new(big.Int).Set(amountIn), amountOut}, nil
}

// AddLiquidity supplies up to the desired amounts of the two assets to their
// pool and issues LP tokens to lpRecipient. On the first provision the full
// desired amounts are used and sqrt(a*b) LP tokens are minted; afterwards the
// amounts are reduced to the current reserve ratio.
func (s *Service) AddLiquidity(
	ctx context.Context,
	from, assetA, assetB string,
	amountADesired, amountBDesired, amountAMin, amountBMin *big.Int,
	lpRecipient string, deadline time.Time,
) (*big.Int, *big.Int, *big.Int, error) {
	if amountADesired == nil || amountADesired.Sign() <= 0 ||
		amountBDesired == nil || amountBDesired.Sign() <= 0 {
		return nil, nil, nil, ErrAmountTooLow
	}
	if err := checkDeadline(deadline); err != nil {
		return nil, nil, nil, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	p, ok := s.pairs[pairKey(assetA, assetB)]
	if !ok {
		return nil, nil, nil, ErrPairNotFound
	}

	reserveA, err := s.assetBalance(ctx, assetA, p.address)
	if err != nil {
		return nil, nil, nil, err
	}
	reserveB, err := s.assetBalance(ctx, assetB, p.address)
	if err != nil {
		return nil, nil, nil, err
	}

	usedA, usedB := new(big.Int).Set(amountADesired), new(big.Int).Set(amountBDesired)
	lpSupply := s.lpSupplyOf(p.address)
	var minted *big.Int

	if reserveA.Sign() == 0 && reserveB.Sign() == 0 {
		minted = new(big.Int).Sqrt(new(big.Int).Mul(usedA, usedB))
	} else {
		if reserveA.Sign() <= 0 || reserveB.Sign() <= 0 {
			return nil, nil, nil, ErrPoolIlliquid
		}
		// Scale the desired amounts down to the current reserve ratio.
		optimalB := new(big.Int).Mul(amountADesired, reserveB)
		optimalB.Quo(optimalB, reserveA)
		if optimalB.Cmp(amountBDesired) <= 0 {
			usedB = optimalB
		} else {
			usedA = new(big.Int).Mul(amountBDesired, reserveA)
			usedA.Quo(usedA, reserveB)
			usedB = new(big.Int).Set(amountBDesired)
		}
		if usedA.Sign() <= 0 || usedB.Sign() <= 0 {
			return nil, nil, nil, ErrAmountTooLow
		}

		mintedByA := new(big.Int).Mul(usedA, lpSupply)
		mintedByA.Quo(mintedByA, reserveA)
		mintedByB := new(big.Int).Mul(usedB, lpSupply)
		mintedByB.Quo(mintedByB, reserveB)
		minted = mintedByA
		if mintedByB.Cmp(minted) < 0 {
			minted = mintedByB
		}
	}

	if amountAMin != nil && usedA.Cmp(amountAMin) < 0 {
		return nil, nil, nil, ErrSlippageExceeded
	}
	if amountBMin != nil && usedB.Cmp(amountBMin) < 0 {
		return nil, nil, nil, ErrSlippageExceeded
	}

	for _, side := range []struct {
		asset  string
		amount *big.Int
	}{{assetA, usedA}, {assetB, usedB}} {
		balance, err := s.assetBalance(ctx, side.asset, from)
		if err != nil {
			return nil, nil, nil, err
		}
		if balance.Cmp(side.amount) < 0 {
			return nil, nil, nil, ErrInsufficientFunds
		}
	}

	if err := s.moveAsset(ctx, assetA, from, p.address, usedA); err != nil {
		return nil, nil, nil, err
	}
	if err := s.moveAsset(ctx, assetB, from, p.address, usedB); err != nil {
		return nil, nil, nil, err
	}

	s.lpSupply[p.address] = new(big.Int).Add(lpSupply, minted)
	lpBalances := s.lpBalances[p.address]
	if lpBalances == nil {
		lpBalances = map[string]*big.Int{}
		s.lpBalances[p.address] = lpBalances
	}
	current := lpBalances[lpRecipient]
	if current == nil {
		current = new(big.Int)
	}
	lpBalances[lpRecipient] = new(big.Int).Add(current, minted)

	return usedA, usedB, minted, nil
}

// SpotPrice returns how much one unit of assetA is valued in assetB by the
// pool reserves.
func (s *Service) SpotPrice(
	ctx context.Context, assetA, assetB string,
) (decimal.Decimal, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	p, ok := s.pairs[pairKey(assetA, assetB)]
	if !ok {
		return decimal.Zero, ErrPairNotFound
	}
	reserveA, err := s.assetBalance(ctx, assetA, p.address)
	if err != nil {
		return decimal.Zero, err
	}
	reserveB, err := s.assetBalance(ctx, assetB, p.address)
	if err != nil {
		return decimal.Zero, err
	}
	if reserveA.Sign() <= 0 || reserveB.Sign() <= 0 {
		return decimal.Zero, ErrPoolIlliquid
	}
	return mathutil.DecimalFromBig(reserveB).Div(
		mathutil.DecimalFromBig(reserveA),
	), nil
}

// Fund credits an account with a non-ledger asset, the pass-through deposit
// side of the simulator.
func (s *Service) Fund(asset, account string, amount *big.Int) error {
	if asset == s.ledgerAsset {
		return fmt.Errorf("asset %s is managed by the ledger", asset)
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrAmountTooLow
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	balances := s.internalBalances(asset)
	current := balances[account]
	if current == nil {
		current = new(big.Int)
	}
	balances[account] = new(big.Int).Add(current, amount)
	return nil
}

// AssetBalance returns the balance an account holds of the given asset, be
// it the ledger asset or an internal one.
func (s *Service) AssetBalance(
	ctx context.Context, asset, account string,
) (*big.Int, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.assetBalance(ctx, asset, account)
}

// Checkpoint deep-copies the internally tracked state (pairs, non-ledger
// balances, LP issuance) and returns a function restoring it. The ledger
// asset needs no checkpoint: its reserve is the pair's ledger balance and
// follows the store transaction.
func (s *Service) Checkpoint() func() {
	s.lock.Lock()
	defer s.lock.Unlock()

	pairs := make(map[string]*pair, len(s.pairs))
	for k, v := range s.pairs {
		p := *v
		pairs[k] = &p
	}
	balances := cloneBalances(s.balances)
	lpSupply := make(map[string]*big.Int, len(s.lpSupply))
	for k, v := range s.lpSupply {
		lpSupply[k] = new(big.Int).Set(v)
	}
	lpBalances := cloneBalances(s.lpBalances)

	return func() {
		s.lock.Lock()
		defer s.lock.Unlock()
		s.pairs = pairs
		s.balances = balances
		s.lpSupply = lpSupply
		s.lpBalances = lpBalances
	}
}

func cloneBalances(
	src map[string]map[string]*big.Int,
) map[string]map[string]*big.Int {
	dst := make(map[string]map[string]*big.Int, len(src))
	for key, accounts := range src {
		inner := make(map[string]*big.Int, len(accounts))
		for account, amount := range accounts {
			inner[account] = new(big.Int).Set(amount)
		}
		dst[key] = inner
	}
	return dst
}

// LPBalance returns the LP tokens an account holds for the given pair.
func (s *Service) LPBalance(pairAddress, account string) *big.Int {
	s.lock.RLock()
	defer s.lock.RUnlock()

	balances := s.lpBalances[pairAddress]
	if balances == nil || balances[account] == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(balances[account])
}

func (s *Service) assetBalance(
	ctx context.Context, asset, account string,
) (*big.Int, error) {
	if asset == s.ledgerAsset {
		return s.ledger.BalanceOf(ctx, account)
	}
	balances := s.balances[asset]
	if balances == nil || balances[account] == nil {
		return new(big.Int), nil
	}
	return new(big.Int).Set(balances[account]), nil
}

func (s *Service) moveAsset(
	ctx context.Context, asset, from, to string, amount *big.Int,
) error {
	if asset == s.ledgerAsset {
		return s.ledger.Transfer(ctx, from, to, amount)
	}
	balances := s.internalBalances(asset)
	fromBalance := balances[from]
	if fromBalance == nil || fromBalance.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}
	toBalance := balances[to]
	if toBalance == nil {
		toBalance = new(big.Int)
	}
	balances[from] = new(big.Int).Sub(fromBalance, amount)
	balances[to] = new(big.Int).Add(toBalance, amount)
	return nil
}

func (s *Service) internalBalances(asset string) map[string]*big.Int {
	balances := s.balances[asset]
	if balances == nil {
		balances = map[string]*big.Int{}
		s.balances[asset] = balances
	}
	return balances
}

func (s *Service) lpSupplyOf(pairAddress string) *big.Int {
	if supply, ok := s.lpSupply[pairAddress]; ok {
		return new(big.Int).Set(supply)
	}
	return new(big.Int)
}

func checkDeadline(deadline time.Time) error {
	if deadline.IsZero() || time.Now().After(deadline.Add(deadlineSlack)) {
		return ErrDeadlineExceeded
	}
	return nil
}

func pairKey(assetA, assetB string) string {
	assets := []string{assetA, assetB}
	sort.Strings(assets)
	return strings.Join(assets, "/")
}
