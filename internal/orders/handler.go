package orders

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aymanbest/Local-market-backend-sub000/internal/domain"
)

type TokenResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

type ProductLister interface {
	ByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
}

type Handler struct {
	repo     *Repository
	status   *StatusService
	tokens   TokenResolver
	products ProductLister
	logger   *slog.Logger
}

func NewHandler(repo *Repository, status *StatusService, tokens TokenResolver, products ProductLister, logger *slog.Logger) *Handler {
	return &Handler{
		repo:     repo,
		status:   status,
		tokens:   tokens,
		products: products,
		logger:   logger,
	}
}

// HandleGetBundle returns every sibling order for a bundle access token.
// Possession of the token is the only required credential.
func (h *Handler) HandleGetBundle(w http.ResponseWriter, r *http.Request) {
	accessToken := r.PathValue("accessToken")
	if accessToken == "" {
		h.writeError(w, domain.E(domain.KindValidationFailed, "missing access token"))
		return
	}

	if _, err := h.tokens.Resolve(r.Context(), accessToken); err != nil {
		h.writeError(w, err)
		return
	}

	bundle, err := h.repo.ListByToken(r.Context(), accessToken)
	if err != nil {
		h.logger.Error("failed to load bundle", "error", err)
		h.writeError(w, err)
		return
	}
	if len(bundle) == 0 {
		h.writeError(w, domain.E(domain.KindOrderNotFound, "no orders for access token"))
		return
	}

	h.writeJSON(w, http.StatusOK, bundle)
}

// HandleUpdateStatus advances an order through the fulfillment state
// machine. The acting seller comes from the X-Seller-ID header set by the
// auth layer in front of this service.
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("id")
	if orderID == "" {
		h.writeError(w, domain.E(domain.KindValidationFailed, "missing order id"))
		return
	}

	sellerID := r.Header.Get("X-Seller-ID")
	if sellerID == "" {
		h.writeError(w, domain.E(domain.KindAccessDenied, "seller authentication required"))
		return
	}

	next := domain.OrderStatus(r.URL.Query().Get("status"))
	if next == "" {
		h.writeError(w, domain.E(domain.KindValidationFailed, "missing status parameter"))
		return
	}

	order, err := h.status.UpdateOrderStatus(r.Context(), orderID, next, sellerID)
	if err != nil {
		if domain.KindOf(err) == "" {
			h.logger.Error("failed to update order status", "error", err, "order_id", orderID)
		}
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, products)
}

func (h *Handler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, domain.E(domain.KindValidationFailed, "missing product id"))
		return
	}

	product, err := h.products.ByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get product", "error", err, "product_id", id)
		h.writeError(w, err)
		return
	}
	if product == nil {
		h.writeError(w, domain.E(domain.KindProductNotFound, "product %s not found", id))
		return
	}

	h.writeJSON(w, http.StatusOK, product)
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
