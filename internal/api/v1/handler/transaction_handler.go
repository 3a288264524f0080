package handler

import (
	"net/http"

	"coursechain/internal/api/v1/dto"
	"coursechain/internal/service"

	"github.com/rs/zerolog"
)

// TransactionHandler lists the session's write records, newest first.
type TransactionHandler struct {
	market service.MarketService
	log    zerolog.Logger
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(market service.MarketService, logger zerolog.Logger) *TransactionHandler {
	return &TransactionHandler{market: market, log: logger.With().Str("handler", "TransactionHandler").Logger()}
}

// RegisterRoutes mounts transaction routes
func (h *TransactionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/transactions", h.listTransactions)
}

func (h *TransactionHandler) listTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromTransactions(h.market.Transactions()))
}
