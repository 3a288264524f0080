package handler

import (
	"encoding/json"
	"net/http"

	"coursechain/internal/api/v1/dto"
	"coursechain/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// AdminHandler handles the admin-only marketplace configuration endpoints.
// Routes respond 404 to non-admin connections, so the admin surface is not
// discoverable by other accounts.
type AdminHandler struct {
	market   service.MarketService
	validate *validator.Validate
	log      zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(market service.MarketService, validate *validator.Validate, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		market:   market,
		validate: validate,
		log:      logger.With().Str("handler", "AdminHandler").Logger(),
	}
}

// RegisterRoutes mounts admin routes
func (h *AdminHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/admin/config", h.adminOnly(http.MethodGet, h.getConfig))
	mux.HandleFunc("/admin/fee", h.adminOnly(http.MethodPost, h.changeFee))
	mux.HandleFunc("/admin/price-feed", h.adminOnly(http.MethodPost, h.updatePriceFeed))
	mux.HandleFunc("/admin/admin-address", h.adminOnly(http.MethodPost, h.changeAdmin))
	mux.HandleFunc("/admin/withdraw", h.adminOnly(http.MethodPost, h.withdraw))
}

func (h *AdminHandler) adminOnly(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.market.Connection(r.Context(), false).IsAdmin {
			http.NotFound(w, r)
			return
		}
		if r.Method != method {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

func (h *AdminHandler) getConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.market.MarketConfig(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to read market config")
		http.Error(w, "Failed to fetch marketplace configuration", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromMarketConfig(cfg))
}

func (h *AdminHandler) changeFee(w http.ResponseWriter, r *http.Request) {
	var req dto.FeeUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	record, err := h.market.ChangeCreationFee(r.Context(), req.Fee)
	writeTx(w, record, err)
}

func (h *AdminHandler) updatePriceFeed(w http.ResponseWriter, r *http.Request) {
	var req dto.AddressUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	record, err := h.market.UpdatePriceFeed(r.Context(), req.Address)
	writeTx(w, record, err)
}

func (h *AdminHandler) changeAdmin(w http.ResponseWriter, r *http.Request) {
	var req dto.AddressUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	record, err := h.market.ChangeAdmin(r.Context(), req.Address)
	writeTx(w, record, err)
}

func (h *AdminHandler) withdraw(w http.ResponseWriter, r *http.Request) {
	record, err := h.market.Withdraw(r.Context())
	writeTx(w, record, err)
}
