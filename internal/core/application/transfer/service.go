// Package transfer implements the interceptor orchestrating every transfer
// of the asset: trading-window gating, holding-cap enforcement, taxation and
// the threshold-triggered conversion of accumulated tax.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/liquify-network/liquifyd/internal/core/application/liquify"
	"github.com/liquify-network/liquifyd/internal/core/domain"
	"github.com/liquify-network/liquifyd/internal/core/ports"
	"github.com/liquify-network/liquifyd/internal/observability"
	"github.com/liquify-network/liquifyd/pkg/mathutil"
)

// Service intercepts transfer requests. Requests are processed one at a
// time: the lock stands in for the serialized execution of the host runtime
// the design assumes.
type Service struct {
	lock sync.Mutex

	repoManager ports.RepoManager
	liquifySvc  *liquify.Service
	metrics     *observability.Metrics

	// contractAddress accumulates withheld tax pending conversion.
	contractAddress string
	// pairAddress is the liquidity pool, the fee-triggering counterparty.
	pairAddress string
	// conversionThreshold is the contract holding at which a conversion is
	// triggered, fixed at construction.
	conversionThreshold *big.Int
	// unitScale converts raw units to whole tokens for metrics only.
	unitScale *big.Float

	now func() time.Time
}

// NewService returns a transfer interceptor.
func NewService(
	repoManager ports.RepoManager, liquifySvc *liquify.Service,
	metrics *observability.Metrics,
	contractAddress, pairAddress string,
	conversionThreshold *big.Int, decimals uint,
) (*Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if liquifySvc == nil {
		return nil, fmt.Errorf("missing conversion service")
	}
	if contractAddress == "" || pairAddress == "" {
		return nil, fmt.Errorf("missing contract or pair address")
	}
	if conversionThreshold == nil || conversionThreshold.Sign() <= 0 {
		return nil, fmt.Errorf("conversion threshold must be positive")
	}

	unitScale := new(big.Float).SetInt(
		new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil),
	)

	return &Service{
		repoManager:         repoManager,
		liquifySvc:          liquifySvc,
		metrics:             metrics,
		contractAddress:     contractAddress,
		pairAddress:         pairAddress,
		conversionThreshold: new(big.Int).Set(conversionThreshold),
		unitScale:           unitScale,
		now:                 time.Now,
	}, nil
}

// Transfer executes one intercepted transfer of amount from one account to
// another: the fee is withheld into the contract holding and the remainder
// delivered to the recipient. A triggered conversion runs inside the same
// transaction, before the remainder is delivered; if it fails the whole
// transfer is discarded.
func (s *Service) Transfer(
	ctx context.Context, from, to string, amount *big.Int,
) (*domain.TransferRecord, error) {
	if from == "" || to == "" {
		return nil, domain.ErrInvalidAddress
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	// The router's own books are not covered by the store transaction, so a
	// conversion that ran before a later step fails must be undone by hand.
	restoreRouter := s.liquifySvc.CheckpointRouter()
	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return s.transfer(ctx, from, to, amount)
		},
	)
	if err != nil {
		if restoreRouter != nil {
			restoreRouter()
		}
		s.countRejection(err)
		return nil, err
	}
	record := res.(*domain.TransferRecord)

	if s.metrics != nil {
		s.metrics.TransfersTotal.WithLabelValues(string(record.Kind)).Inc()
		if record.Fee.Sign() > 0 {
			wholeUnits, _ := new(big.Float).Quo(
				new(big.Float).SetInt(record.Fee), s.unitScale,
			).Float64()
			s.metrics.TaxCollectedTotal.Add(wholeUnits)
		}
	}
	return record, nil
}

func (s *Service) transfer(
	ctx context.Context, from, to string, amount *big.Int,
) (*domain.TransferRecord, error) {
	accounts := s.repoManager.AccountRepository()
	ledger := s.repoManager.LedgerRepository()

	sender, err := accounts.GetOrCreateAccount(ctx, from)
	if err != nil {
		return nil, err
	}
	recipient, err := accounts.GetOrCreateAccount(ctx, to)
	if err != nil {
		return nil, err
	}

	window, err := s.repoManager.TradingWindowRepository().GetTradingWindow(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !window.IsOpen() {
		if !sender.FeeExempt && !recipient.FeeExempt {
			return nil, domain.ErrTradingClosed
		}
	}

	var elapsed time.Duration
	if window.IsOpen() {
		if elapsed, err = window.ElapsedSince(now); err != nil {
			return nil, err
		}

		// The cap applies to public buys only: transfers out of the pool to
		// a non-exempt recipient.
		if from == s.pairAddress && !recipient.HoldingCapExempt {
			supply, err := ledger.TotalSupply(ctx)
			if err != nil {
				return nil, err
			}
			if maxHolding, enforced := domain.MaxHolding(elapsed, supply); enforced {
				balance, err := ledger.BalanceOf(ctx, to)
				if err != nil {
					return nil, err
				}
				if new(big.Int).Add(balance, amount).Cmp(maxHolding) > 0 {
					return nil, domain.ErrMaxHoldingExceeded
				}
			}
		}
	}

	// Sells into the pool drain the accumulated tax first. The conversion
	// must complete before the triggering transfer delivers its remainder.
	if !s.liquifySvc.InProgress() && to == s.pairAddress {
		pending, err := ledger.BalanceOf(ctx, s.contractAddress)
		if err != nil {
			return nil, err
		}
		if pending.Cmp(s.conversionThreshold) >= 0 {
			if err := s.liquifySvc.Convert(ctx, pending, now); err != nil {
				return nil, err
			}
		}
	}

	fee := new(big.Int)
	var taxPercent uint64
	bothTaxable := !sender.FeeExempt && !recipient.FeeExempt
	poolInvolved := from == s.pairAddress || to == s.pairAddress
	if bothTaxable && poolInvolved {
		taxPercent = domain.CurrentTaxPercent(elapsed)
		fee = mathutil.PercentOf(amount, taxPercent)
	}

	if fee.Sign() > 0 {
		if err := ledger.Transfer(ctx, from, s.contractAddress, fee); err != nil {
			return nil, err
		}
	}
	if err := ledger.Transfer(
		ctx, from, to, new(big.Int).Sub(amount, fee),
	); err != nil {
		return nil, err
	}

	// Stamped after any triggered conversion so the journal sorts the two
	// entries identically on every backend.
	record := domain.NewTransferRecord(
		from, to, amount, fee, taxPercent, s.transferKind(from, to), s.now(),
	)
	if err := s.repoManager.TransferRepository().AddTransferRecord(
		ctx, record,
	); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"from":   from,
		"to":     to,
		"amount": amount.String(),
		"fee":    fee.String(),
		"kind":   record.Kind,
	}).Debug("transfer executed")

	return record, nil
}

func (s *Service) transferKind(from, to string) domain.TransferKind {
	switch {
	case from == s.pairAddress:
		return domain.TransferKindBuy
	case to == s.pairAddress:
		return domain.TransferKindSell
	default:
		return domain.TransferKindPeer
	}
}

func (s *Service) countRejection(err error) {
	if s.metrics == nil {
		return
	}
	var reason string
	switch {
	case errors.Is(err, domain.ErrTradingClosed):
		reason = "trading_closed"
	case errors.Is(err, domain.ErrMaxHoldingExceeded):
		reason = "max_holding"
	case errors.Is(err, domain.ErrExternalConversion):
		reason = "conversion_failed"
	case errors.Is(err, domain.ErrInsufficientBalance):
		reason = "insufficient_balance"
	default:
		reason = "other"
	}
	s.metrics.TransfersRejectedTotal.WithLabelValues(reason).Inc()
}
