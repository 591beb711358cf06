package payment

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

// HandlePay settles the bundle identified by the accessToken query
// parameter and returns the updated orders.
func (h *Handler) HandlePay(w http.ResponseWriter, r *http.Request) {
	accessToken := r.URL.Query().Get("accessToken")
	if accessToken == "" {
		h.writeError(w, domain.E(domain.KindValidationFailed, "missing accessToken parameter"))
		return
	}

	var info Info
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		h.writeError(w, domain.E(domain.KindValidationFailed, "invalid request body"))
		return
	}

	settled, err := h.service.ProcessBundlePayment(r.Context(), info, accessToken)
	if err != nil {
		if domain.KindOf(err) == "" {
			h.logger.Error("bundle payment failed", "error", err)
		}
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, settled)
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
		message = "payment could not be processed"
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
