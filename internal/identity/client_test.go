package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_CustomerByID(t *testing.T) {
	t.Run("resolves a known customer", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/users/cust-1" {
				t.Errorf("expected /users/cust-1, got %s", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"cust-1","email":"alice@example.com","name":"Alice"}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, server.Client())
		customer, err := client.CustomerByID(context.Background(), "cust-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if customer.ID != "cust-1" || customer.Email != "alice@example.com" {
			t.Errorf("unexpected customer: %+v", customer)
		}
	})

	t.Run("returns nil for an unknown customer", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := NewClient(server.URL, server.Client())
		customer, err := client.CustomerByID(context.Background(), "cust-404")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if customer != nil {
			t.Errorf("expected nil, got %+v", customer)
		}
	})

	t.Run("returns an error on a server failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewClient(server.URL, server.Client())
		if _, err := client.CustomerByID(context.Background(), "cust-1"); err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestClient_CustomerByEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users" {
			t.Errorf("expected /users, got %s", r.URL.Path)
		}
		if r.URL.Query().Get("email") != "alice@example.com" {
			t.Errorf("unexpected email query: %s", r.URL.Query().Get("email"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cust-1","email":"alice@example.com"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	customer, err := client.CustomerByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if customer.ID != "cust-1" {
		t.Errorf("unexpected customer: %+v", customer)
	}
}

func TestClient_Provision(t *testing.T) {
	t.Run("posts the account details", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/users" {
				t.Errorf("expected POST /users, got %s %s", r.Method, r.URL.Path)
			}
			var body map[string]string
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if body["email"] != "bob@example.com" || body["name"] != "Bob" {
				t.Errorf("unexpected body: %v", body)
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"cust-2","email":"bob@example.com","name":"Bob"}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, server.Client())
		customer, err := client.Provision(context.Background(), "bob@example.com", "Bob", "hunter2")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if customer.ID != "cust-2" {
			t.Errorf("unexpected customer: %+v", customer)
		}
	})

	t.Run("returns an error when provisioning is rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
		}))
		defer server.Close()

		client := NewClient(server.URL, server.Client())
		if _, err := client.Provision(context.Background(), "bob@example.com", "Bob", "hunter2"); err == nil {
			t.Fatal("expected an error")
		}
	})
}
