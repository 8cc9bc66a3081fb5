package config

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	// HTTPPortKey is the port where the JSON interface will listen on.
	HTTPPortKey = "HTTP_PORT"
	// DatadirKey is the local data directory to store the internal state of
	// the daemon.
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the
	// values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported.
	DBTypeKey = "DB_TYPE"
	// AdminTokenKey is the bearer token gating administrator endpoints.
	AdminTokenKey = "ADMIN_TOKEN"

	// AssetNameKey and AssetSymbolKey identify the managed asset.
	AssetNameKey   = "ASSET_NAME"
	AssetSymbolKey = "ASSET_SYMBOL"
	// AssetDecimalsKey is the precision of the managed asset.
	AssetDecimalsKey = "ASSET_DECIMALS"
	// TotalSupplyKey is the supply minted at startup, in raw units, as a
	// base-10 string.
	TotalSupplyKey = "TOTAL_SUPPLY"
	// SettlementAssetKey names the paired settlement asset.
	SettlementAssetKey = "SETTLEMENT_ASSET"

	// MintTargetKey is the account the supply is minted to.
	MintTargetKey = "MINT_TARGET"
	// TeamWalletKey, MarketingWalletKey and LiquidityWalletKey are the
	// stakeholder destination accounts, fixed for the daemon lifetime.
	TeamWalletKey      = "TEAM_WALLET"
	MarketingWalletKey = "MARKETING_WALLET"
	LiquidityWalletKey = "LIQUIDITY_WALLET"

	// ConversionThresholdBpsKey is the contract holding, in basis points of
	// total supply, at which a conversion is triggered.
	ConversionThresholdBpsKey = "CONVERSION_THRESHOLD_BPS"

	// InitialPoolTokensKey and InitialPoolSettlementKey optionally seed the
	// liquidity pool at startup, both as base-10 strings of raw units.
	InitialPoolTokensKey     = "INITIAL_POOL_TOKENS"
	InitialPoolSettlementKey = "INITIAL_POOL_SETTLEMENT"

	// DBInMemory and DBBadger are the supported database types.
	DBInMemory = "inmemory"
	DBBadger   = "badger"

	// ContractAddress is the account accumulating withheld tax pending
	// conversion.
	ContractAddress = "liquifyd:contract"
)

var vip *viper.Viper

// InitConfig loads the configuration from the environment and validates it.
func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("LIQUIFY")
	vip.AutomaticEnv()

	vip.SetDefault(HTTPPortKey, 9945)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DatadirKey, defaultDatadir())
	vip.SetDefault(DBTypeKey, DBBadger)
	vip.SetDefault(AssetNameKey, "Liquify Token")
	vip.SetDefault(AssetSymbolKey, "LQFY")
	vip.SetDefault(AssetDecimalsKey, 18)
	vip.SetDefault(TotalSupplyKey, "1111111000000000000000000")
	vip.SetDefault(SettlementAssetKey, "native")
	vip.SetDefault(ConversionThresholdBpsKey, 5)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}
	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}
	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

// GetAmount parses the value of a key as a non-negative base-10 big integer.
func GetAmount(key string) (*big.Int, error) {
	raw := vip.GetString(key)
	if raw == "" {
		return new(big.Int), nil
	}
	amount, ok := new(big.Int).SetString(raw, 10)
	if !ok || amount.Sign() < 0 {
		return nil, fmt.Errorf("%s must be a non-negative base-10 integer", key)
	}
	return amount, nil
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	switch dbType := GetString(DBTypeKey); dbType {
	case DBInMemory, DBBadger:
	default:
		return fmt.Errorf("unsupported database type %s", dbType)
	}

	supply, err := GetAmount(TotalSupplyKey)
	if err != nil {
		return err
	}
	if supply.Sign() <= 0 {
		return fmt.Errorf("total supply must be positive")
	}

	bps := GetInt(ConversionThresholdBpsKey)
	if bps <= 0 || bps > 10000 {
		return fmt.Errorf("conversion threshold must be in range (0, 10000] basis points")
	}

	for _, key := range []string{
		MintTargetKey, TeamWalletKey, MarketingWalletKey, LiquidityWalletKey,
	} {
		if len(GetString(key)) <= 0 {
			return fmt.Errorf("missing %s", key)
		}
	}

	if len(GetString(AdminTokenKey)) <= 0 {
		return fmt.Errorf("missing %s", AdminTokenKey)
	}
	return nil
}

func initDatadir() error {
	if GetString(DBTypeKey) != DBBadger {
		return nil
	}
	return makeDirectoryIfNotExists(GetDatadir())
}

func defaultDatadir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".liquifyd"
	}
	return filepath.Join(home, ".liquifyd")
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
