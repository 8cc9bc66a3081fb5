package http

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/liquify-network/liquifyd/internal/core/domain"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warn("error while writing response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, statusFromError(err), err)
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrTradingClosed):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrMaxHoldingExceeded):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrTradingAlreadyOpen):
		return http.StatusConflict
	case errors.Is(err, domain.ErrExternalConversion):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidAddress):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
