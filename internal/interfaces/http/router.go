package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter assembles the JSON interface. Administrator endpoints are gated
// by the bearer token.
func NewRouter(handler *Handler, adminToken string) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/transfers", handler.createTransfer)
		r.Get("/transfers", handler.listTransfers)
		r.Get("/accounts/{address}", handler.getAccount)
		r.Get("/info", handler.getInfo)
		r.Get("/pool", handler.getPool)

		r.Group(func(r chi.Router) {
			r.Use(adminAuth(adminToken))
			r.Post("/admin/trading/open", handler.openTrading)
			r.Put("/admin/accounts/{address}/fee-exempt", handler.setFeeExempt)
			r.Put("/admin/accounts/{address}/cap-exempt", handler.setHoldingCapExempt)
		})
	})
	return r
}
