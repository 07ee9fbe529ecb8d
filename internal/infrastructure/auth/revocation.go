package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList answers whether a verified token was revoked by the
// identity service before it expired. Entries are written by the issuer;
// the Revoke methods exist so operators and tests can add them too.
type RevocationList interface {
	// IsRevoked reports whether the token id was revoked
	IsRevoked(ctx context.Context, jti string) (bool, error)
	// IsUserRevoked reports whether every token of userID issued at or
	// before the user's revocation time is invalid
	IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	RevokeUser(ctx context.Context, userID string, ttl time.Duration) error
}

const defaultRevocationPrefix = "token:revoked:"

// RedisRevocationList reads revocations from the shared redis
type RedisRevocationList struct {
	client *redis.Client
	prefix string
}

// NewRedisRevocationList uses client; it does not own it
func NewRedisRevocationList(client *redis.Client) *RedisRevocationList {
	return &RedisRevocationList{client: client, prefix: defaultRevocationPrefix}
}

func (r *RedisRevocationList) jtiKey(jti string) string     { return r.prefix + "jti:" + jti }
func (r *RedisRevocationList) userKey(userID string) string { return r.prefix + "user:" + userID }

// IsRevoked checks the jti key
func (r *RedisRevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	n, err := r.client.Exists(ctx, r.jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return n > 0, nil
}

// IsUserRevoked compares issuedAt with the stored unix timestamp
func (r *RedisRevocationList) IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	raw, err := r.client.Get(ctx, r.userKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check user revocation: %w", err)
	}
	revokedAt, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("parse user revocation %q: %w", raw, err)
	}
	return issuedAt.Unix() <= revokedAt, nil
}

// Revoke stores the jti for ttl, normally the token's remaining lifetime
func (r *RedisRevocationList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.jtiKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// RevokeUser stores the current time as the user's revocation time
func (r *RedisRevocationList) RevokeUser(ctx context.Context, userID string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.userKey(userID), time.Now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}
	return nil
}

var _ RevocationList = (*RedisRevocationList)(nil)

// InMemoryRevocationList is used when redis is not configured. It is local
// to the process.
type InMemoryRevocationList struct {
	mu    sync.Mutex
	jtis  map[string]time.Time
	users map[string]time.Time
	now   func() time.Time
}

// NewInMemoryRevocationList creates an empty list
func NewInMemoryRevocationList() *InMemoryRevocationList {
	return &InMemoryRevocationList{
		jtis:  make(map[string]time.Time),
		users: make(map[string]time.Time),
		now:   time.Now,
	}
}

// IsRevoked reports a live jti entry and drops expired ones
func (m *InMemoryRevocationList) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	until, ok := m.jtis[jti]
	if !ok {
		return false, nil
	}
	if m.now().After(until) {
		delete(m.jtis, jti)
		return false, nil
	}
	return true, nil
}

// IsUserRevoked compares issuedAt with the user's revocation time
func (m *InMemoryRevocationList) IsUserRevoked(_ context.Context, userID string, issuedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	revokedAt, ok := m.users[userID]
	if !ok {
		return false, nil
	}
	return !issuedAt.After(revokedAt), nil
}

// Revoke adds jti until ttl elapses
func (m *InMemoryRevocationList) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jtis[jti] = m.now().Add(ttl)
	return nil
}

// RevokeUser revokes the user's tokens issued up to now
func (m *InMemoryRevocationList) RevokeUser(_ context.Context, userID string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[userID] = m.now()
	return nil
}

var _ RevocationList = (*InMemoryRevocationList)(nil)

// NewRevocationList picks redis when a client is available
func NewRevocationList(client *redis.Client) RevocationList {
	if client == nil {
		return NewInMemoryRevocationList()
	}
	return NewRedisRevocationList(client)
}
