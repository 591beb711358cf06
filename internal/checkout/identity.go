package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/aymanbest/Local-market-backend-sub000/internal/domain"
)

type CustomerDirectory interface {
	CustomerByID(ctx context.Context, id string) (*domain.Customer, error)
	CustomerByEmail(ctx context.Context, email string) (*domain.Customer, error)
	Provision(ctx context.Context, email, name, password string) (*domain.Customer, error)
}

type TokenIssuer interface {
	Issue(ctx context.Context, email string, ttl time.Duration) (string, error)
}

// bundleTokenTTL binds a checkout's access token to its email for 24
// hours, long enough to pay for and retrieve the bundle without login.
const bundleTokenTTL = 24 * time.Hour

// GuestDetails is the guest block of a checkout request.
type GuestDetails struct {
	Email         string `json:"email"`
	CreateAccount bool   `json:"create_account"`
	Name          string `json:"name,omitempty"`
	Password      string `json:"password,omitempty"`
}

// ResolvedIdentity is who the checkout is for: an optional customer
// reference plus the bundle access token every sibling order will share.
type ResolvedIdentity struct {
	CustomerID     string
	Email          string
	AccessToken    string
	TokenExpiresAt time.Time
}

// Resolver turns a checkout caller into a customer reference or a guest
// email, and issues the single bundle token reused across all sibling
// orders of the call.
type Resolver struct {
	directory CustomerDirectory
	tokens    TokenIssuer
	now       func() time.Time
}

func NewResolver(directory CustomerDirectory, tokens TokenIssuer) *Resolver {
	return &Resolver{directory: directory, tokens: tokens, now: time.Now}
}

// Resolve prefers an authenticated customer id; the guest block is ignored
// when one is present. Guests must supply an email and may ask for an
// account, which is provisioned through the auth collaborator and then
// re-resolved so the orders still attach to a real user.
func (r *Resolver) Resolve(ctx context.Context, customerID string, guest *GuestDetails) (ResolvedIdentity, error) {
	var identity ResolvedIdentity

	switch {
	case customerID != "":
		customer, err := r.directory.CustomerByID(ctx, customerID)
		if err != nil {
			return identity, fmt.Errorf("resolve customer %s: %w", customerID, err)
		}
		if customer == nil {
			return identity, domain.E(domain.KindUserNotFound, "customer %s not found", customerID)
		}
		identity.CustomerID = customer.ID
		identity.Email = customer.Email

	case guest == nil || guest.Email == "":
		return identity, domain.E(domain.KindValidationFailed, "guest checkout requires an email")

	case guest.CreateAccount:
		if _, err := r.directory.Provision(ctx, guest.Email, guest.Name, guest.Password); err != nil {
			return identity, fmt.Errorf("provision account for %s: %w", guest.Email, err)
		}
		customer, err := r.directory.CustomerByEmail(ctx, guest.Email)
		if err != nil {
			return identity, fmt.Errorf("resolve provisioned account %s: %w", guest.Email, err)
		}
		if customer == nil {
			return identity, domain.E(domain.KindUserNotFound, "provisioned account for %s not found", guest.Email)
		}
		identity.CustomerID = customer.ID
		identity.Email = customer.Email

	default:
		identity.Email = guest.Email
	}

	accessToken, err := r.tokens.Issue(ctx, identity.Email, bundleTokenTTL)
	if err != nil {
		return identity, fmt.Errorf("issue bundle token: %w", err)
	}
	identity.AccessToken = accessToken
	identity.TokenExpiresAt = r.now().Add(bundleTokenTTL).UTC()

	return identity, nil
}
