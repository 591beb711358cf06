package checkout

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aymanbest/Local-market-backend-sub000/internal/domain"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// HandleCheckout creates one pending order per seller in the cart. An
// authenticated caller is identified by the X-Customer-ID header set by
// the auth layer; guests supply the guest block instead.
func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, domain.E(domain.KindValidationFailed, "invalid request body"))
		return
	}

	customerID := r.Header.Get("X-Customer-ID")

	summaries, err := h.service.CreatePendingOrders(r.Context(), req, customerID)
	if err != nil {
		if domain.KindOf(err) == "" {
			h.logger.Error("checkout failed", "error", err)
		}
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, summaries)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	message := err.Error()
	if kind == "" {
		kind = "INTERNAL"
		message = "internal server error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(errorStatus(kind))
	payload := map[string]map[string]string{
		"error": {"kind": string(kind), "message": message},
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode error response", "error", err)
	}
}

func errorStatus(kind domain.Kind) int {
	switch kind {
	case domain.KindValidationFailed:
		return http.StatusBadRequest
	case domain.KindInvalidToken, domain.KindTokenExpired:
		return http.StatusUnauthorized
	case domain.KindAccessDenied:
		return http.StatusForbidden
	case domain.KindProductNotFound, domain.KindOrderNotFound, domain.KindUserNotFound, domain.KindPaymentNotFound:
		return http.StatusNotFound
	case domain.KindInsufficientStock, domain.KindInvalidRequest, domain.KindInvalidStatusTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
