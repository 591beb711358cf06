// Package checkout splits a cart into per-seller pending orders, holding
// stock and pricing each order as it goes.
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/aymanbest/Local-market-backend-sub000/internal/coupon"
	"github.com/aymanbest/Local-market-backend-sub000/internal/domain"
)

type ProductStore interface {
	ByID(ctx context.Context, id string) (*domain.Product, error)
}

type BundleStore interface {
	CreateBundle(ctx context.Context, bundle []*domain.Order) error
}

type CouponValidator interface {
	Validate(ctx context.Context, code string, amountCents int64) (coupon.Result, error)
}

type Notifier interface {
	SellerOrderCreated(ctx context.Context, event domain.SellerOrderCreatedEvent)
	OrderConfirmation(ctx context.Context, event domain.OrderConfirmationEvent)
}

type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type Request struct {
	Items           []CartItem    `json:"items"`
	ShippingAddress string        `json:"shipping_address"`
	Phone           string        `json:"phone"`
	CouponCode      string        `json:"coupon_code,omitempty"`
	Guest           *GuestDetails `json:"guest,omitempty"`
}

// OrderSummary is one per-seller order of the checkout result. Every
// summary of one call carries the same access token.
type OrderSummary struct {
	OrderID     string             `json:"order_id"`
	SellerID    string             `json:"seller_id"`
	Status      domain.OrderStatus `json:"status"`
	TotalCents  int64              `json:"total_cents"`
	Items       []domain.OrderItem `json:"items"`
	AccessToken string             `json:"access_token"`
}

type Service struct {
	resolver *Resolver
	products ProductStore
	store    BundleStore
	coupons  CouponValidator
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(resolver *Resolver, products ProductStore, store BundleStore, coupons CouponValidator, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{
		resolver: resolver,
		products: products,
		store:    store,
		coupons:  coupons,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// CreatePendingOrders validates the cart, partitions it by seller, prices
// each partition (applying the coupon against that partition's subtotal,
// not the cart total) and persists the whole bundle atomically. Nothing is
// committed if any partition cannot hold its stock.
func (s *Service) CreatePendingOrders(ctx context.Context, req Request, customerID string) ([]OrderSummary, error) {
	if len(req.Items) == 0 {
		return nil, domain.E(domain.KindValidationFailed, "cart is empty")
	}
	if req.ShippingAddress == "" {
		return nil, domain.E(domain.KindValidationFailed, "shipping address is required")
	}
	if req.Phone == "" {
		return nil, domain.E(domain.KindValidationFailed, "phone is required")
	}

	partitions, err := s.partitionBySeller(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	identity, err := s.resolver.Resolve(ctx, customerID, req.Guest)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	sellerIDs := make([]string, 0, len(partitions))
	for sellerID := range partitions {
		sellerIDs = append(sellerIDs, sellerID)
	}
	sort.Strings(sellerIDs)

	bundle := make([]*domain.Order, 0, len(sellerIDs))
	for _, sellerID := range sellerIDs {
		items := partitions[sellerID]

		var subtotal int64
		for _, item := range items {
			subtotal += item.PriceCents * int64(item.Quantity)
		}

		order := &domain.Order{
			CustomerID:      identity.CustomerID,
			Email:           identity.Email,
			ShippingAddress: req.ShippingAddress,
			Phone:           req.Phone,
			Status:          domain.OrderStatusPendingPayment,
			TotalCents:      subtotal,
			Items:           items,
			AccessToken:     identity.AccessToken,
			TokenExpiresAt:  identity.TokenExpiresAt,
			CreatedAt:       now,
		}

		if req.CouponCode != "" {
			result, err := s.coupons.Validate(ctx, req.CouponCode, subtotal)
			if err != nil {
				return nil, err
			}
			if !result.Valid {
				return nil, domain.E(domain.KindValidationFailed, "coupon rejected: %s", result.Message)
			}
			order.TotalCents = result.FinalPriceCents
			order.CouponCode = req.CouponCode
		}

		if order.TotalCents <= 0 {
			return nil, domain.E(domain.KindValidationFailed, "order total must be positive")
		}

		bundle = append(bundle, order)
	}

	if err := s.store.CreateBundle(ctx, bundle); err != nil {
		return nil, err
	}

	s.notify(ctx, bundle, sellerIDs, identity, now)

	summaries := make([]OrderSummary, 0, len(bundle))
	for i, order := range bundle {
		summaries = append(summaries, OrderSummary{
			OrderID:     order.ID,
			SellerID:    sellerIDs[i],
			Status:      order.Status,
			TotalCents:  order.TotalCents,
			Items:       order.Items,
			AccessToken: order.AccessToken,
		})
	}

	s.logger.Info("checkout completed", "orders", len(summaries), "email", identity.Email)
	return summaries, nil
}

// partitionBySeller looks every product up once, fails fast on missing
// products or obvious shortfalls, and groups priced line items by seller.
// This pre-check is only an optimistic guard; the reservation inside
// CreateBundle is authoritative.
func (s *Service) partitionBySeller(ctx context.Context, items []CartItem) (map[string][]domain.OrderItem, error) {
	partitions := make(map[string][]domain.OrderItem)

	for _, line := range items {
		if line.Quantity <= 0 {
			return nil, domain.E(domain.KindValidationFailed, "quantity must be positive for product %s", line.ProductID)
		}

		product, err := s.products.ByID(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("look up product %s: %w", line.ProductID, err)
		}
		if product == nil {
			return nil, domain.E(domain.KindProductNotFound, "product %s not found", line.ProductID)
		}
		if line.Quantity > product.Quantity {
			return nil, domain.E(domain.KindInsufficientStock, "insufficient stock for product %s", line.ProductID)
		}

		partitions[product.SellerID] = append(partitions[product.SellerID], domain.OrderItem{
			ProductID:  product.ID,
			Quantity:   line.Quantity,
			PriceCents: product.PriceCents,
		})
	}

	return partitions, nil
}

func (s *Service) notify(ctx context.Context, bundle []*domain.Order, sellerIDs []string, identity ResolvedIdentity, now time.Time) {
	var bundleTotal int64
	orderIDs := make([]string, 0, len(bundle))

	for i, order := range bundle {
		s.notifier.SellerOrderCreated(ctx, domain.SellerOrderCreatedEvent{
			OrderID:    order.ID,
			SellerID:   sellerIDs[i],
			TotalCents: order.TotalCents,
			Items:      order.Items,
			Timestamp:  now,
		})
		bundleTotal += order.TotalCents
		orderIDs = append(orderIDs, order.ID)
	}

	s.notifier.OrderConfirmation(ctx, domain.OrderConfirmationEvent{
		Email:        identity.Email,
		OrderIDs:     orderIDs,
		TotalCents:   bundleTotal,
		Consolidated: len(bundle) > 1,
		Timestamp:    now,
	})
}
