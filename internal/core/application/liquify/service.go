// Package liquify implements the swap-and-liquify pipeline: it drains the
// contract's accumulated tax holding into paired-asset liquidity and
// stakeholder payouts.
package liquify

import (
	"context"
	"fmt"
	"math/big"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/liquify-network/liquifyd/internal/core/domain"
	"github.com/liquify-network/liquifyd/internal/core/ports"
	"github.com/liquify-network/liquifyd/internal/observability"
	"github.com/liquify-network/liquifyd/pkg/circuitbreaker"
	"github.com/liquify-network/liquifyd/pkg/mathutil"
)

// DefaultFeeShares is the standard-era split of the accumulated tax: half to
// the team, a quarter to marketing and a quarter converted into liquidity.
func DefaultFeeShares() (*domain.FeeShareConfig, error) {
	return domain.NewFeeShareConfig(2, 1, 1)
}

// Wallets is the fixed set of stakeholder destination accounts. It is set
// once at construction and has no setter.
type Wallets struct {
	Team      string
	Marketing string
	Liquidity string
}

// Service runs conversions of accumulated tax tokens. Transfers are
// serialized upstream by the interceptor, so the reentrancy latch only
// guards against re-entry from nested router callbacks within one run.
type Service struct {
	repoManager ports.RepoManager
	router      ports.Router
	cb          *gobreaker.CircuitBreaker
	metrics     *observability.Metrics

	shares  *domain.FeeShareConfig
	wallets Wallets

	// contractAddress is the account holding pending tax.
	contractAddress string
	tokenAsset      string
	settlementAsset string

	inProgress bool
}

// NewService returns a conversion pipeline bound to the given collaborators.
func NewService(
	repoManager ports.RepoManager, router ports.Router,
	metrics *observability.Metrics,
	shares *domain.FeeShareConfig, wallets Wallets,
	contractAddress, tokenAsset, settlementAsset string,
) (*Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if router == nil {
		return nil, fmt.Errorf("missing router")
	}
	if shares == nil {
		return nil, fmt.Errorf("missing fee share config")
	}
	if wallets.Team == "" || wallets.Marketing == "" || wallets.Liquidity == "" {
		return nil, fmt.Errorf("missing stakeholder wallets")
	}

	return &Service{
		repoManager:     repoManager,
		router:          router,
		cb:              circuitbreaker.NewRouterBreaker(),
		metrics:         metrics,
		shares:          shares,
		wallets:         wallets,
		contractAddress: contractAddress,
		tokenAsset:      tokenAsset,
		settlementAsset: settlementAsset,
	}, nil
}

// InProgress reports whether a conversion is currently running.
func (s *Service) InProgress() bool {
	return s.inProgress
}

// CheckpointRouter returns a function restoring the router's in-process
// state to the point of the call, or nil when the router keeps no books of
// its own. Callers discarding a store transaction after Convert already ran
// must invoke it to undo the router side too.
func (s *Service) CheckpointRouter() func() {
	if cp, ok := s.router.(ports.RouterCheckpointer); ok {
		return cp.Checkpoint()
	}
	return nil
}

// Convert splits tokenAmount of the contract holding into a liquidity share
// and a payout share, swaps half of the liquidity share for the settlement
// asset, supplies both halves as paired liquidity, and disburses the payout
// share to the team and marketing wallets. The journal entry is stamped with
// now, so that a run triggered by a transfer sorts before the transfer's own
// entry. Any failure aborts the whole run and propagates to the caller;
// nothing is retried.
func (s *Service) Convert(
	ctx context.Context, tokenAmount *big.Int, now time.Time,
) error {
	if tokenAmount == nil || tokenAmount.Sign() <= 0 {
		return domain.ErrInvalidAmount
	}

	s.inProgress = true
	defer func() { s.inProgress = false }()

	liquidityPortion, otherPortion := mathutil.SplitByShares(
		tokenAmount, s.shares.LiquidityShare, s.shares.TotalShares(),
	)
	tokensForLiquidity, tokensToSwap := mathutil.Halve(liquidityPortion)

	settlementReceived := new(big.Int)
	if tokensToSwap.Sign() > 0 {
		amounts, err := s.swap(ctx, tokensToSwap)
		if err != nil {
			s.countFailure()
			return fmt.Errorf("%w: %s", domain.ErrExternalConversion, err)
		}
		// The port does not promise a minimum path length.
		if len(amounts) == 0 {
			s.countFailure()
			return fmt.Errorf(
				"%w: router returned no amounts", domain.ErrExternalConversion,
			)
		}
		settlementReceived = amounts[len(amounts)-1]
	}

	if settlementReceived.Sign() > 0 && tokensForLiquidity.Sign() > 0 {
		// Rounding remainders left in the contract holding are swept on the
		// next threshold-triggered run.
		if err := s.addLiquidity(
			ctx, tokensForLiquidity, settlementReceived,
		); err != nil {
			s.countFailure()
			return fmt.Errorf("%w: %s", domain.ErrExternalConversion, err)
		}
	}

	teamAmount, marketingAmount := mathutil.SplitByShares(
		otherPortion, s.shares.TeamShare, s.shares.TeamShare+s.shares.MarketingShare,
	)
	ledger := s.repoManager.LedgerRepository()
	if teamAmount.Sign() > 0 {
		if err := ledger.Transfer(
			ctx, s.contractAddress, s.wallets.Team, teamAmount,
		); err != nil {
			return err
		}
	}
	if marketingAmount.Sign() > 0 {
		if err := ledger.Transfer(
			ctx, s.contractAddress, s.wallets.Marketing, marketingAmount,
		); err != nil {
			return err
		}
	}

	record := domain.NewTransferRecord(
		s.contractAddress, s.wallets.Liquidity, tokenAmount, new(big.Int), 0,
		domain.TransferKindConversion, now,
	)
	if err := s.repoManager.TransferRepository().AddTransferRecord(
		ctx, record,
	); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.ConversionsTotal.Inc()
	}
	log.WithFields(log.Fields{
		"tokens":     tokenAmount.String(),
		"liquidity":  liquidityPortion.String(),
		"team":       teamAmount.String(),
		"marketing":  marketingAmount.String(),
		"settlement": settlementReceived.String(),
	}).Debug("conversion completed")

	return nil
}

func (s *Service) swap(
	ctx context.Context, tokensToSwap *big.Int,
) ([]*big.Int, error) {
	// minAmountOut is zero on purpose: the source design accepts any
	// non-zero return on this step.
	res, err := s.cb.Execute(func() (interface{}, error) {
		return s.router.SwapExactInForOut(
			ctx, s.contractAddress, tokensToSwap, new(big.Int),
			[]string{s.tokenAsset, s.settlementAsset},
			s.contractAddress, time.Now(),
		)
	})
	if err != nil {
		return nil, err
	}
	return res.([]*big.Int), nil
}

func (s *Service) addLiquidity(
	ctx context.Context, tokensForLiquidity, settlementReceived *big.Int,
) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		usedToken, usedSettlement, lpTokens, err := s.router.AddLiquidity(
			ctx, s.contractAddress, s.tokenAsset, s.settlementAsset,
			tokensForLiquidity, settlementReceived, new(big.Int), new(big.Int),
			s.wallets.Liquidity, time.Now(),
		)
		if err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{
			"tokens":     usedToken.String(),
			"settlement": usedSettlement.String(),
			"lp":         lpTokens.String(),
		}).Debug("liquidity supplied")
		return nil, nil
	})
	return err
}

func (s *Service) countFailure() {
	if s.metrics != nil {
		s.metrics.ConversionFailuresTotal.Inc()
	}
}
