package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aymanbest/Local-market-backend-sub000/internal/domain"
)

// Relay consumes notification events and forwards them to the external
// email service. It is the consuming end of the dispatcher's topics and
// runs in its own process.
type Relay struct {
	emailServiceURL string
	httpClient      *http.Client
	logger          *slog.Logger
}

func NewRelay(emailServiceURL string, client *http.Client, logger *slog.Logger) *Relay {
	return &Relay{
		emailServiceURL: emailServiceURL,
		httpClient:      client,
		logger:          logger,
	}
}

// HandleConfirmation turns an order confirmation event into one email. A
// consolidated event covers every sibling order of the checkout, so the
// buyer gets a single message no matter how many sellers were involved.
func (r *Relay) HandleConfirmation(ctx context.Context, payload []byte) error {
	var event domain.OrderConfirmationEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal confirmation event: %w", err)
	}

	r.logger.Info("processing order confirmation", "email", event.Email, "orders", len(event.OrderIDs))

	subject := "Order Confirmation"
	body := fmt.Sprintf("Your order %s has been received. Total: %d cents.",
		strings.Join(event.OrderIDs, ", "), event.TotalCents)
	if event.Consolidated {
		subject = "Order Confirmation (multiple sellers)"
		body = fmt.Sprintf("Your purchase was split into %d orders: %s. Total: %d cents.",
			len(event.OrderIDs), strings.Join(event.OrderIDs, ", "), event.TotalCents)
	}

	return r.sendEmail(ctx, event.Email, subject, body)
}

// HandleStatusUpdate forwards a fulfillment transition to the buyer. The
// wording was already chosen at publish time.
func (r *Relay) HandleStatusUpdate(ctx context.Context, payload []byte) error {
	var event domain.OrderStatusEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal status event: %w", err)
	}

	r.logger.Info("processing status update", "order_id", event.OrderID, "status", event.Status)

	subject := fmt.Sprintf("Order Update: %s", event.OrderID)
	return r.sendEmail(ctx, event.Email, subject, event.Message)
}

func (r *Relay) sendEmail(ctx context.Context, to, subject, body string) error {
	data, err := json.Marshal(map[string]string{
		"to":      to,
		"subject": subject,
		"body":    body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.emailServiceURL+"/send", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("email service returned status %d", resp.StatusCode)
	}

	return nil
}
