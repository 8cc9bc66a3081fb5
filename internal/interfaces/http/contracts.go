package http

import "time"

// Amounts travel as base-10 strings: raw units routinely exceed the range of
// JSON numbers.

type transferRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type transferResponse struct {
	Id         string    `json:"id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Amount     string    `json:"amount"`
	Fee        string    `json:"fee"`
	TaxPercent uint64    `json:"tax_percent"`
	Kind       string    `json:"kind"`
	Timestamp  time.Time `json:"timestamp"`
}

type setExemptRequest struct {
	Exempt bool `json:"exempt"`
}

type accountResponse struct {
	Address          string `json:"address"`
	Balance          string `json:"balance"`
	FeeExempt        bool   `json:"fee_exempt"`
	HoldingCapExempt bool   `json:"holding_cap_exempt"`
}

type infoResponse struct {
	AssetName           string    `json:"asset_name"`
	AssetSymbol         string    `json:"asset_symbol"`
	TotalSupply         string    `json:"total_supply"`
	PendingTax          string    `json:"pending_tax"`
	ConversionThreshold string    `json:"conversion_threshold"`
	TradingOpen         bool      `json:"trading_open"`
	TradingOpenedAt     time.Time `json:"trading_opened_at,omitempty"`
	PairAddress         string    `json:"pair_address"`
}

type poolResponse struct {
	PairAddress       string `json:"pair_address"`
	TokenReserve      string `json:"token_reserve"`
	SettlementReserve string `json:"settlement_reserve"`
	SpotPrice         string `json:"spot_price"`
}

type errorResponse struct {
	Error string `json:"error"`
}
