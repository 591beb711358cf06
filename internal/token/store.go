// Package token stores bundle access tokens in Redis so that every API
// instance can resolve a token issued by any other.
package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/aymanbest/Local-market-backend-sub000/internal/domain"
)

// keyBundleToken maps an opaque token to the email it was issued for.
const keyBundleToken = "bundle_token:%s"

// BundleTokenTTL is how long a checkout bundle stays payable and
// retrievable without further login.
const BundleTokenTTL = 24 * time.Hour

type Store struct {
	rdb *redis.Client
}

func NewStore(addr string) *Store {
	return &Store{rdb: redis.NewClient(&redis.Options{Addr: addr})}
}

func NewStoreWithClient(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Issue creates an opaque token bound to email for ttl.
func (s *Store) Issue(ctx context.Context, email string, ttl time.Duration) (string, error) {
	tok := uuid.NewString()
	key := fmt.Sprintf(keyBundleToken, tok)
	if err := s.rdb.Set(ctx, key, email, ttl).Err(); err != nil {
		return "", fmt.Errorf("store bundle token: %w", err)
	}
	return tok, nil
}

// Resolve returns the email a token was issued for. An unknown or expired
// token resolves to INVALID_TOKEN; Redis expiry makes the two
// indistinguishable, which is fine for callers.
func (s *Store) Resolve(ctx context.Context, tok string) (string, error) {
	email, err := s.rdb.Get(ctx, fmt.Sprintf(keyBundleToken, tok)).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.E(domain.KindInvalidToken, "unknown or expired access token")
	}
	if err != nil {
		return "", fmt.Errorf("resolve bundle token: %w", err)
	}
	return email, nil
}

func (s *Store) Close() error {
	return s.rdb.Close()
}
