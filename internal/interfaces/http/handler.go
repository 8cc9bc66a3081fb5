// Package http exposes the daemon over a JSON API: the transfer entrypoint,
// read-only asset queries and the administrator surface.
package http

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/liquify-network/liquifyd/internal/core/application/operator"
	"github.com/liquify-network/liquifyd/internal/core/application/transfer"
	"github.com/liquify-network/liquifyd/internal/core/domain"
)

// PoolViewer is the read-only view of the liquidity pool needed by the
// public pool endpoint.
type PoolViewer interface {
	SpotPrice(ctx context.Context, assetA, assetB string) (decimal.Decimal, error)
	AssetBalance(ctx context.Context, asset, account string) (*big.Int, error)
}

// Handler serves the JSON interface.
type Handler struct {
	transferSvc *transfer.Service
	operatorSvc *operator.Service
	pool        PoolViewer

	tokenAsset      string
	settlementAsset string
	pairAddress     string
}

// NewHandler returns an http handler set.
func NewHandler(
	transferSvc *transfer.Service, operatorSvc *operator.Service,
	pool PoolViewer, tokenAsset, settlementAsset, pairAddress string,
) *Handler {
	return &Handler{
		transferSvc:     transferSvc,
		operatorSvc:     operatorSvc,
		pool:            pool,
		tokenAsset:      tokenAsset,
		settlementAsset: settlementAsset,
		pairAddress:     pairAddress,
	}
}

func (h *Handler) createTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	amount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok {
		writeError(w, http.StatusBadRequest, domain.ErrInvalidAmount)
		return
	}

	record, err := h.transferSvc.Transfer(r.Context(), req.From, req.To, amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransferResponse(*record))
}

func (h *Handler) getAccount(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	info, err := h.operatorSvc.GetAccount(r.Context(), address)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accountResponse{
		Address:          info.Account.Address,
		Balance:          info.Balance.Text(10),
		FeeExempt:        info.Account.FeeExempt,
		HoldingCapExempt: info.Account.HoldingCapExempt,
	})
}

func (h *Handler) listTransfers(w http.ResponseWriter, r *http.Request) {
	records, err := h.operatorSvc.ListTransfers(
		r.Context(), r.URL.Query().Get("account"),
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	res := make([]transferResponse, 0, len(records))
	for _, record := range records {
		res = append(res, toTransferResponse(record))
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) getInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.operatorSvc.GetInfo(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infoResponse{
		AssetName:           info.AssetName,
		AssetSymbol:         info.AssetSymbol,
		TotalSupply:         info.TotalSupply.Text(10),
		PendingTax:          info.PendingTax.Text(10),
		ConversionThreshold: info.ConversionThreshold.Text(10),
		TradingOpen:         info.TradingOpen,
		TradingOpenedAt:     info.TradingOpenedAt,
		PairAddress:         info.PairAddress,
	})
}

func (h *Handler) getPool(w http.ResponseWriter, r *http.Request) {
	tokenReserve, err := h.pool.AssetBalance(
		r.Context(), h.tokenAsset, h.pairAddress,
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	settlementReserve, err := h.pool.AssetBalance(
		r.Context(), h.settlementAsset, h.pairAddress,
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	res := poolResponse{
		PairAddress:       h.pairAddress,
		TokenReserve:      tokenReserve.Text(10),
		SettlementReserve: settlementReserve.Text(10),
	}
	if price, err := h.pool.SpotPrice(
		r.Context(), h.tokenAsset, h.settlementAsset,
	); err == nil {
		res.SpotPrice = price.String()
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) openTrading(w http.ResponseWriter, r *http.Request) {
	if err := h.operatorSvc.OpenTrading(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setFeeExempt(w http.ResponseWriter, r *http.Request) {
	h.setExempt(w, r, h.operatorSvc.SetFeeExempt)
}

func (h *Handler) setHoldingCapExempt(w http.ResponseWriter, r *http.Request) {
	h.setExempt(w, r, h.operatorSvc.SetHoldingCapExempt)
}

func (h *Handler) setExempt(
	w http.ResponseWriter, r *http.Request,
	set func(ctx context.Context, address string, exempt bool) error,
) {
	var req setExemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := set(r.Context(), chi.URLParam(r, "address"), req.Exempt); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toTransferResponse(record domain.TransferRecord) transferResponse {
	return transferResponse{
		Id:         record.Id,
		From:       record.From,
		To:         record.To,
		Amount:     record.Amount.Text(10),
		Fee:        record.Fee.Text(10),
		TaxPercent: record.TaxPercent,
		Kind:       string(record.Kind),
		Timestamp:  record.Timestamp,
	}
}
