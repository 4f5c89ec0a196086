package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"face-animation/pkg/config"
	"face-animation/pkg/jwt"

	"github.com/redis/go-redis/v9"
)

func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// SessionStore tracks revoked session tokens until they would have expired anyway.
// A whole user can be cut off too: tokens issued up to the cutoff are revoked.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func revokedKey(tokenID string) string {
	return "session:revoked:" + tokenID
}

func userCutoffKey(userID string) string {
	return "session:cutoff:" + userID
}

func (s *SessionStore) enabled() bool {
	return s != nil && s.client != nil
}

func (s *SessionStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if !s.enabled() || tokenID == "" {
		return nil
	}
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revokedKey(tokenID), 1, ttl).Err()
}

// RevokeUser ends every session issued to userID so far. The cutoff outlives
// the longest token.
func (s *SessionStore) RevokeUser(ctx context.Context, userID string) error {
	if !s.enabled() || userID == "" {
		return nil
	}
	return s.client.Set(ctx, userCutoffKey(userID), time.Now().Unix(), jwt.TokenTTL).Err()
}

// IsRevoked reports whether the token itself or every session of its user was revoked.
func (s *SessionStore) IsRevoked(ctx context.Context, claims *jwt.Claims) (bool, error) {
	if !s.enabled() || claims == nil {
		return false, nil
	}

	if claims.ID != "" {
		n, err := s.client.Exists(ctx, revokedKey(claims.ID)).Result()
		if err != nil {
			return false, err
		}
		if n > 0 {
			return true, nil
		}
	}

	cutoff, err := s.client.Get(ctx, userCutoffKey(claims.UserID)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return issuedBy(claims, cutoff), nil
}

// issuedBy reports whether the token was issued at or before the unix cutoff.
// Tokens without an issue time count as issued before it.
func issuedBy(claims *jwt.Claims, cutoff int64) bool {
	if claims.IssuedAt == nil {
		return true
	}
	return claims.IssuedAt.Unix() <= cutoff
}
