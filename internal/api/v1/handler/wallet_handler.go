package handler

import (
	"net/http"

	"coursechain/internal/api/v1/dto"
	"coursechain/internal/service"

	"github.com/rs/zerolog"
)

// WalletHandler exposes the connection state and the re-bind trigger.
type WalletHandler struct {
	market service.MarketService
	log    zerolog.Logger
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(market service.MarketService, logger zerolog.Logger) *WalletHandler {
	return &WalletHandler{market: market, log: logger.With().Str("handler", "WalletHandler").Logger()}
}

// RegisterRoutes mounts wallet routes
func (h *WalletHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/wallet", h.getConnection)
	mux.HandleFunc("/wallet/bind", h.bind)
}

func (h *WalletHandler) getConnection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromConnectionState(h.market.Connection(r.Context(), false)))
}

func (h *WalletHandler) bind(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromConnectionState(h.market.Connection(r.Context(), true)))
}
