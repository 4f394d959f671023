package virtualaccount

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Demilade/Kudi/internal/middleware"
	"github.com/Demilade/Kudi/internal/psp"
	"github.com/Demilade/Kudi/pkg/types"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type VirtualAccountHandler struct {
	service *Service
}

func NewVirtualAccountHandler(service *Service) *VirtualAccountHandler {
	return &VirtualAccountHandler{
		service: service,
	}
}

var validate = validator.New()

func (h *VirtualAccountHandler) CreateVirtualAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := middleware.GetLogger(ctx)

	provider := types.Provider(chi.URLParam(r, "provider"))
	if !provider.Valid() {
		http.Error(w, "Unknown payment provider", http.StatusBadRequest)
		return
	}

	userID, err := uuid.Parse(middleware.GetUserID(ctx))
	if err != nil {
		http.Error(w, "Missing or invalid user identity", http.StatusUnauthorized)
		return
	}

	var identity types.VirtualAccountIdentity
	if err := json.NewDecoder(r.Body).Decode(&identity); err != nil {
		logger.Error().Err(err).Msg("Failed to decode virtual account request")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := validate.Struct(&identity); err != nil {
		logger.Error().Err(err).Msg("Validation error on virtual account request")
		http.Error(w, "Validation error: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.GetOrCreate(ctx, userID, provider, &identity)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to get or create virtual account")
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"data":    result,
	})
}

func (h *VirtualAccountHandler) GetVirtualAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := middleware.GetLogger(ctx)

	provider := types.Provider(chi.URLParam(r, "provider"))
	if !provider.Valid() {
		http.Error(w, "Unknown payment provider", http.StatusBadRequest)
		return
	}

	userID, err := uuid.Parse(middleware.GetUserID(ctx))
	if err != nil {
		http.Error(w, "Missing or invalid user identity", http.StatusUnauthorized)
		return
	}

	result, err := h.service.Get(ctx, userID, provider)
	if errors.Is(err, ErrNotFound) {
		// Expected for users who have not provisioned an account yet
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "Virtual account not found",
		})
		return
	}
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch virtual account")
		http.Error(w, "Failed to fetch virtual account", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"data":    result,
	})
}

func (h *VirtualAccountHandler) DeactivateVirtualAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := middleware.GetLogger(ctx)

	provider := types.Provider(chi.URLParam(r, "provider"))
	if !provider.Valid() {
		http.Error(w, "Unknown payment provider", http.StatusBadRequest)
		return
	}

	userID, err := uuid.Parse(middleware.GetUserID(ctx))
	if err != nil {
		http.Error(w, "Missing or invalid user identity", http.StatusUnauthorized)
		return
	}

	err = h.service.Deactivate(ctx, userID, provider)
	if errors.Is(err, ErrNotFound) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "Virtual account not found",
		})
		return
	}
	if err != nil {
		logger.Error().Err(err).Msg("Failed to deactivate virtual account")
		http.Error(w, "Failed to deactivate virtual account", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true})
}

func writeServiceError(w http.ResponseWriter, err error) {
	var gatewayErr *psp.Error
	switch {
	case errors.Is(err, ErrUnknownProvider):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &gatewayErr):
		http.Error(w, gatewayErr.Message, http.StatusBadGateway)
	default:
		http.Error(w, "Failed to create virtual account", http.StatusInternalServerError)
	}
}
