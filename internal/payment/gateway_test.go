package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPGateway_Charge(t *testing.T) {
	t.Run("posts the charge with the idempotency key", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/charges" {
				t.Errorf("expected /charges, got %s", r.URL.Path)
			}
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			if r.Header.Get("Idempotency-Key") != "tok-1" {
				t.Errorf("expected Idempotency-Key tok-1, got %s", r.Header.Get("Idempotency-Key"))
			}

			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode request: %v", err)
			}
			if body["amount_cents"].(float64) != 4100 {
				t.Errorf("unexpected amount: %v", body["amount_cents"])
			}
			if _, leaked := body["IdempotencyKey"]; leaked {
				t.Error("idempotency key must not appear in the body")
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"transaction_id":"txn-1","status":"succeeded"}`))
		}))
		defer server.Close()

		gateway := NewHTTPGateway(server.URL, server.Client())
		result, err := gateway.Charge(context.Background(), ChargeRequest{
			AmountCents:    4100,
			Currency:       "USD",
			Method:         "card",
			IdempotencyKey: "tok-1",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.TransactionID != "txn-1" {
			t.Errorf("expected txn-1, got %s", result.TransactionID)
		}
	})

	t.Run("returns an error on a non-2xx response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusPaymentRequired)
		}))
		defer server.Close()

		gateway := NewHTTPGateway(server.URL, server.Client())
		if _, err := gateway.Charge(context.Background(), ChargeRequest{AmountCents: 100}); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("returns an error when the provider is unreachable", func(t *testing.T) {
		gateway := NewHTTPGateway("http://localhost:99999", &http.Client{})
		if _, err := gateway.Charge(context.Background(), ChargeRequest{AmountCents: 100}); err == nil {
			t.Fatal("expected an error")
		}
	})
}
