package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour

	// pendingMarker is stored while the request owning a key is still
	// creating its booking. Booking ids are ObjectID hex, so they never
	// collide with it.
	pendingMarker = "pending"
)

// IdempotencyStore maps a client-supplied Idempotency-Key to the booking it
// created, backed by Redis.
// Key format: idem:booking:<user_id>:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore wraps client. Keys expire after ttl, or after 24h when
// ttl is not positive.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Reserve claims key for userID with SETNX. reserved is true when the caller
// now owns the key and must Complete or Release it. Otherwise bookingID holds
// the booking recorded under the key, or is empty while its owner is still
// in flight.
func (s *IdempotencyStore) Reserve(ctx context.Context, userID, key string) (bookingID string, reserved bool, err error) {
	k := s.key(userID, key)

	// Two rounds cover a key that expires between SETNX and GET.
	for range 2 {
		ok, err := s.client.SetNX(ctx, k, pendingMarker, s.ttl).Result()
		if err != nil {
			return "", false, fmt.Errorf("idempotency reserve: %w", err)
		}
		if ok {
			return "", true, nil
		}

		current, err := s.client.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("idempotency reserve: %w", err)
		}
		if current == pendingMarker {
			return "", false, nil
		}
		return current, false, nil
	}
	return "", false, nil
}

// Complete records bookingID under a key reserved by the caller and restarts
// its TTL.
func (s *IdempotencyStore) Complete(ctx context.Context, userID, key, bookingID string) error {
	if err := s.client.Set(ctx, s.key(userID, key), bookingID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}

// Release drops a reservation whose booking was never created, so a retry
// with the same key starts over.
func (s *IdempotencyStore) Release(ctx context.Context, userID, key string) error {
	if err := s.client.Del(ctx, s.key(userID, key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(userID, key string) string {
	return fmt.Sprintf("idem:booking:%s:%s", userID, key)
}
