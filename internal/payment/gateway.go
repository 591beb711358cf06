package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ChargeRequest is one gateway charge covering an entire bundle. The
// idempotency key is the bundle access token, so a retried settlement of
// the same bundle dedupes at the gateway instead of charging twice.
type ChargeRequest struct {
	AmountCents    int64             `json:"amount_cents"`
	Currency       string            `json:"currency"`
	Method         string            `json:"method"`
	Instrument     map[string]string `json:"instrument,omitempty"`
	Description    string            `json:"description,omitempty"`
	IdempotencyKey string            `json:"-"`
}

type ChargeResult struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
}

type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// HTTPGateway talks to the external payment provider.
type HTTPGateway struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPGateway(baseURL string, httpClient *http.Client) *HTTPGateway {
	return &HTTPGateway{baseURL: baseURL, httpClient: httpClient}
}

func (g *HTTPGateway) Charge(ctx context.Context, chargeReq ChargeRequest) (*ChargeResult, error) {
	data, err := json.Marshal(chargeReq)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/charges", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", chargeReq.IdempotencyKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment gateway: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	}

	var result ChargeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}

	return &result, nil
}
