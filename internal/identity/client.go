// Package identity is the HTTP client for the external auth/user service.
// The core never issues credentials itself; it only resolves customer
// references and provisions guest accounts through this boundary.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/aymanbest/Local-market-backend-sub000/internal/domain"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// CustomerByID resolves a customer reference. Returns (nil, nil) when the
// auth service does not know the id.
func (c *Client) CustomerByID(ctx context.Context, id string) (*domain.Customer, error) {
	return c.getCustomer(ctx, c.baseURL+"/users/"+url.PathEscape(id))
}

// CustomerByEmail looks a customer up by email. Returns (nil, nil) when no
// account exists for it.
func (c *Client) CustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return c.getCustomer(ctx, c.baseURL+"/users?email="+url.QueryEscape(email))
}

func (c *Client) getCustomer(ctx context.Context, u string) (*domain.Customer, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth service returned status %d", resp.StatusCode)
	}

	var customer domain.Customer
	if err := json.NewDecoder(resp.Body).Decode(&customer); err != nil {
		return nil, fmt.Errorf("decode auth response: %w", err)
	}
	return &customer, nil
}

type provisionRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Provision asks the auth service to create an account for a guest who
// opted in during checkout.
func (c *Client) Provision(ctx context.Context, email, name, password string) (*domain.Customer, error) {
	data, err := json.Marshal(provisionRequest{Email: email, Name: name, Password: password})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/users", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth service returned status %d provisioning account", resp.StatusCode)
	}

	var customer domain.Customer
	if err := json.NewDecoder(resp.Body).Decode(&customer); err != nil {
		return nil, fmt.Errorf("decode auth response: %w", err)
	}
	return &customer, nil
}
