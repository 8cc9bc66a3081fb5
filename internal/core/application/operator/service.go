// Package operator exposes the administrator surface of the daemon: opening
// the trading window, managing exemption flags and read-only queries.
package operator

import (
	"context"
	"fmt"
	"math/big"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/liquify-network/liquifyd/internal/core/domain"
	"github.com/liquify-network/liquifyd/internal/core/ports"
)

// Info is the read-only snapshot returned to operators.
type Info struct {
	AssetName           string
	AssetSymbol         string
	TotalSupply         *big.Int
	PendingTax          *big.Int
	ConversionThreshold *big.Int
	TradingOpen         bool
	TradingOpenedAt     time.Time
	PairAddress         string
}

// AccountInfo pairs an account's exemption flags with its current balance.
type AccountInfo struct {
	Account domain.Account
	Balance *big.Int
}

// Service implements the administrator operations.
type Service struct {
	repoManager ports.RepoManager

	assetName           string
	assetSymbol         string
	contractAddress     string
	pairAddress         string
	conversionThreshold *big.Int
}

// NewService returns an operator service.
func NewService(
	repoManager ports.RepoManager,
	assetName, assetSymbol, contractAddress, pairAddress string,
	conversionThreshold *big.Int,
) (*Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	return &Service{
		repoManager:         repoManager,
		assetName:           assetName,
		assetSymbol:         assetSymbol,
		contractAddress:     contractAddress,
		pairAddress:         pairAddress,
		conversionThreshold: conversionThreshold,
	}, nil
}

// OpenTrading opens the trading window. It can succeed at most once over the
// lifetime of the asset.
func (s *Service) OpenTrading(ctx context.Context) error {
	err := s.repoManager.TradingWindowRepository().UpdateTradingWindow(
		ctx, func(w *domain.TradingWindow) (*domain.TradingWindow, error) {
			if err := w.Open(time.Now()); err != nil {
				return nil, err
			}
			return w, nil
		},
	)
	if err != nil {
		return err
	}
	log.Info("trading window opened")
	return nil
}

// SetFeeExempt sets the fee exemption flag of an account. Idempotent.
func (s *Service) SetFeeExempt(
	ctx context.Context, address string, exempt bool,
) error {
	return s.repoManager.AccountRepository().UpdateAccount(
		ctx, address, func(a *domain.Account) (*domain.Account, error) {
			a.FeeExempt = exempt
			return a, nil
		},
	)
}

// SetHoldingCapExempt sets the holding cap exemption flag of an account.
// Idempotent.
func (s *Service) SetHoldingCapExempt(
	ctx context.Context, address string, exempt bool,
) error {
	return s.repoManager.AccountRepository().UpdateAccount(
		ctx, address, func(a *domain.Account) (*domain.Account, error) {
			a.HoldingCapExempt = exempt
			return a, nil
		},
	)
}

// GetInfo returns the operator snapshot of the asset.
func (s *Service) GetInfo(ctx context.Context) (*Info, error) {
	ledger := s.repoManager.LedgerRepository()
	supply, err := ledger.TotalSupply(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := ledger.BalanceOf(ctx, s.contractAddress)
	if err != nil {
		return nil, err
	}
	window, err := s.repoManager.TradingWindowRepository().GetTradingWindow(ctx)
	if err != nil {
		return nil, err
	}

	return &Info{
		AssetName:           s.assetName,
		AssetSymbol:         s.assetSymbol,
		TotalSupply:         supply,
		PendingTax:          pending,
		ConversionThreshold: new(big.Int).Set(s.conversionThreshold),
		TradingOpen:         window.IsOpen(),
		TradingOpenedAt:     window.OpenedAt,
		PairAddress:         s.pairAddress,
	}, nil
}

// GetAccount returns the exemption flags and balance of an account.
func (s *Service) GetAccount(
	ctx context.Context, address string,
) (*AccountInfo, error) {
	account, err := s.repoManager.AccountRepository().GetOrCreateAccount(
		ctx, address,
	)
	if err != nil {
		return nil, err
	}
	balance, err := s.repoManager.LedgerRepository().BalanceOf(ctx, address)
	if err != nil {
		return nil, err
	}
	return &AccountInfo{Account: *account, Balance: balance}, nil
}

// ListTransfers returns the transfer journal, optionally filtered by
// account.
func (s *Service) ListTransfers(
	ctx context.Context, account string,
) ([]domain.TransferRecord, error) {
	if account != "" {
		return s.repoManager.TransferRepository().GetTransferRecordsForAccount(
			ctx, account,
		)
	}
	return s.repoManager.TransferRepository().GetAllTransferRecords(ctx)
}
