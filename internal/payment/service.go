// Package payment settles a checkout bundle: one gateway charge for all
// sibling orders, fanned out to per-order payment records.
package payment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aymanbest/Local-market-backend-sub000/internal/domain"
)

type TokenResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

type OrderStore interface {
	ListByToken(ctx context.Context, accessToken string) ([]domain.Order, error)
	SettleBundle(ctx context.Context, accessToken string, payment domain.Payment) ([]domain.Order, error)
	FailBundle(ctx context.Context, accessToken string) error
}

// Info is the payment instrument supplied by the payer.
type Info struct {
	Method     string            `json:"method"`
	Instrument map[string]string `json:"instrument,omitempty"`
}

type Service struct {
	tokens         TokenResolver
	store          OrderStore
	gateway        Gateway
	gatewayTimeout time.Duration
	logger         *slog.Logger
}

func NewService(tokens TokenResolver, store OrderStore, gateway Gateway, gatewayTimeout time.Duration, logger *slog.Logger) *Service {
	return &Service{
		tokens:         tokens,
		store:          store,
		gateway:        gateway,
		gatewayTimeout: gatewayTimeout,
		logger:         logger,
	}
}

// ProcessBundlePayment charges the whole bundle once. On success every
// order is completed, its holds confirmed and a payment record attached;
// on any gateway or settlement failure every order is failed and its
// holds released, and the original error is returned.
func (s *Service) ProcessBundlePayment(ctx context.Context, info Info, accessToken string) ([]domain.Order, error) {
	if _, err := s.tokens.Resolve(ctx, accessToken); err != nil {
		return nil, err
	}

	bundle, err := s.store.ListByToken(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("load bundle: %w", err)
	}
	if len(bundle) == 0 {
		return nil, domain.E(domain.KindOrderNotFound, "no orders for access token")
	}

	var amountCents int64
	for _, order := range bundle {
		if order.Status != domain.OrderStatusPendingPayment {
			return nil, domain.E(domain.KindInvalidRequest, "order %s is %s, not awaiting payment", order.ID, order.Status)
		}
		amountCents += order.TotalCents
	}
	if amountCents <= 0 {
		return nil, domain.E(domain.KindValidationFailed, "bundle amount must be positive")
	}

	if info.Method == "" {
		return nil, domain.E(domain.KindValidationFailed, "payment method is required")
	}

	chargeCtx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	result, err := s.gateway.Charge(chargeCtx, ChargeRequest{
		AmountCents:    amountCents,
		Currency:       "USD",
		Method:         info.Method,
		Instrument:     info.Instrument,
		Description:    fmt.Sprintf("bundle of %d orders", len(bundle)),
		IdempotencyKey: accessToken,
	})
	if err != nil {
		s.compensate(ctx, accessToken)
		return nil, fmt.Errorf("charge bundle: %w", err)
	}

	settled, err := s.store.SettleBundle(ctx, accessToken, domain.Payment{
		ID:            uuid.New().String(),
		AmountCents:   amountCents,
		Method:        info.Method,
		Status:        domain.PaymentStatusCompleted,
		TransactionID: result.TransactionID,
	})
	if err != nil {
		s.compensate(ctx, accessToken)
		return nil, fmt.Errorf("settle bundle: %w", err)
	}

	s.logger.Info("bundle settled", "orders", len(settled), "amount_cents", amountCents, "transaction_id", result.TransactionID)
	return settled, nil
}

// compensate drives the failure path: every pending order of the bundle
// goes to PAYMENT_FAILED and its stock is released. A failure here is
// logged, not returned, so the caller still gets the original charge error.
func (s *Service) compensate(ctx context.Context, accessToken string) {
	if err := s.store.FailBundle(ctx, accessToken); err != nil {
		s.logger.Error("failed to release bundle after payment failure", "error", err)
	}
}
