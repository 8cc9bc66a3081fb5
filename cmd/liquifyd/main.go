package main

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/liquify-network/liquifyd/internal/config"
	"github.com/liquify-network/liquifyd/internal/core/application/liquify"
	"github.com/liquify-network/liquifyd/internal/core/application/operator"
	"github.com/liquify-network/liquifyd/internal/core/application/transfer"
	"github.com/liquify-network/liquifyd/internal/core/domain"
	"github.com/liquify-network/liquifyd/internal/core/ports"
	"github.com/liquify-network/liquifyd/internal/infrastructure/amm"
	dbbadger "github.com/liquify-network/liquifyd/internal/infrastructure/storage/db/badger"
	"github.com/liquify-network/liquifyd/internal/infrastructure/storage/db/inmemory"
	httpinterface "github.com/liquify-network/liquifyd/internal/interfaces/http"
	"github.com/liquify-network/liquifyd/internal/observability"
	"github.com/liquify-network/liquifyd/pkg/mathutil"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	repoManager, err := openRepoManager()
	if err != nil {
		log.WithError(err).Fatal("error while opening storage")
	}
	defer repoManager.Close()

	ctx := context.Background()
	tokenAsset := config.GetString(config.AssetSymbolKey)
	settlementAsset := config.GetString(config.SettlementAssetKey)

	router := amm.NewService(repoManager.LedgerRepository(), tokenAsset)
	pairAddress, err := router.PairAddress(ctx, tokenAsset, settlementAsset)
	if err != nil {
		log.WithError(err).Fatal("error while creating pair")
	}

	supply, err := bootstrapLedger(ctx, repoManager, pairAddress)
	if err != nil {
		log.WithError(err).Fatal("error while bootstrapping ledger")
	}
	threshold := mathutil.BasisPointsOf(
		supply, uint64(config.GetInt(config.ConversionThresholdBpsKey)),
	)

	metrics := observability.NewMetrics("liquifyd")
	shares, err := liquify.DefaultFeeShares()
	if err != nil {
		log.WithError(err).Fatal("invalid fee shares")
	}
	wallets := liquify.Wallets{
		Team:      config.GetString(config.TeamWalletKey),
		Marketing: config.GetString(config.MarketingWalletKey),
		Liquidity: config.GetString(config.LiquidityWalletKey),
	}

	liquifySvc, err := liquify.NewService(
		repoManager, router, metrics, shares, wallets,
		config.ContractAddress, tokenAsset, settlementAsset,
	)
	if err != nil {
		log.WithError(err).Fatal("error while creating conversion service")
	}
	transferSvc, err := transfer.NewService(
		repoManager, liquifySvc, metrics,
		config.ContractAddress, pairAddress, threshold,
		uint(config.GetInt(config.AssetDecimalsKey)),
	)
	if err != nil {
		log.WithError(err).Fatal("error while creating transfer service")
	}
	operatorSvc, err := operator.NewService(
		repoManager,
		config.GetString(config.AssetNameKey),
		config.GetString(config.AssetSymbolKey),
		config.ContractAddress, pairAddress, threshold,
	)
	if err != nil {
		log.WithError(err).Fatal("error while creating operator service")
	}

	if err := seedPool(ctx, router, tokenAsset, settlementAsset, pairAddress); err != nil {
		log.WithError(err).Fatal("error while seeding liquidity pool")
	}

	handler := httpinterface.NewHandler(
		transferSvc, operatorSvc, router, tokenAsset, settlementAsset, pairAddress,
	)
	server := &http.Server{
		Addr: fmt.Sprintf(":%d", config.GetInt(config.HTTPPortKey)),
		Handler: httpinterface.NewRouter(
			handler, config.GetString(config.AdminTokenKey),
		),
	}

	go func() {
		log.Infof("interface listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("error while serving interface")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Info("shutting down daemon")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("error while shutting down interface")
	}
}

func openRepoManager() (ports.RepoManager, error) {
	if config.GetString(config.DBTypeKey) == config.DBInMemory {
		return inmemory.NewRepoManager(), nil
	}
	return dbbadger.NewRepoManager(config.GetDatadir())
}

// bootstrapLedger mints the supply on first start and (re)applies the
// exemptions of the system accounts. It returns the total supply.
func bootstrapLedger(
	ctx context.Context, repoManager ports.RepoManager, pairAddress string,
) (*big.Int, error) {
	ledger := repoManager.LedgerRepository()
	supply, err := ledger.TotalSupply(ctx)
	if err != nil {
		return nil, err
	}
	if supply.Sign() == 0 {
		supply, err = config.GetAmount(config.TotalSupplyKey)
		if err != nil {
			return nil, err
		}
		target := config.GetString(config.MintTargetKey)
		if err := ledger.Mint(ctx, target, supply); err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{
			"supply": supply.String(),
			"target": target,
		}).Info("supply minted")
	}

	accounts := repoManager.AccountRepository()
	exempt := []string{
		config.ContractAddress,
		config.GetString(config.MintTargetKey),
		config.GetString(config.TeamWalletKey),
		config.GetString(config.MarketingWalletKey),
		config.GetString(config.LiquidityWalletKey),
	}
	for _, address := range exempt {
		if err := accounts.UpdateAccount(
			ctx, address, func(a *domain.Account) (*domain.Account, error) {
				a.FeeExempt = true
				a.HoldingCapExempt = true
				return a, nil
			},
		); err != nil {
			return nil, err
		}
	}
	// The pool must be able to accumulate freely but its counterparties are
	// still taxed, so it is only cap exempt.
	if err := accounts.UpdateAccount(
		ctx, pairAddress, func(a *domain.Account) (*domain.Account, error) {
			a.HoldingCapExempt = true
			return a, nil
		},
	); err != nil {
		return nil, err
	}
	return supply, nil
}

// seedPool optionally supplies initial liquidity from the mint target.
func seedPool(
	ctx context.Context, router *amm.Service,
	tokenAsset, settlementAsset, pairAddress string,
) error {
	tokens, err := config.GetAmount(config.InitialPoolTokensKey)
	if err != nil {
		return err
	}
	settlement, err := config.GetAmount(config.InitialPoolSettlementKey)
	if err != nil {
		return err
	}
	if tokens.Sign() <= 0 || settlement.Sign() <= 0 {
		return nil
	}
	reserve, err := router.AssetBalance(ctx, tokenAsset, pairAddress)
	if err != nil {
		return err
	}
	if reserve.Sign() > 0 {
		return nil
	}

	target := config.GetString(config.MintTargetKey)
	if err := router.Fund(settlementAsset, target, settlement); err != nil {
		return err
	}
	_, _, lpTokens, err := router.AddLiquidity(
		ctx, target, tokenAsset, settlementAsset, tokens, settlement,
		new(big.Int), new(big.Int),
		config.GetString(config.LiquidityWalletKey), time.Now(),
	)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"tokens":     tokens.String(),
		"settlement": settlement.String(),
		"lp":         lpTokens.String(),
	}).Info("liquidity pool seeded")
	return nil
}
