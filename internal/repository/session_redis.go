package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"power_wizard/internal/models"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "power_wizard:session:"

// SessionRedis stores sessions as JSON values with a TTL that is refreshed on
// every Save.
type SessionRedis struct {
	client *redis.Client
	ttl    time.Duration
}

var _ SessionRepo = (*SessionRedis)(nil)

func NewSessionRedis(client *redis.Client, ttl time.Duration) *SessionRedis {
	return &SessionRedis{client: client, ttl: ttl}
}

// NewRedisClient builds a client for addr. The caller closes it.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func sessionKey(id string) string { return sessionKeyPrefix + id }

func (r *SessionRedis) Save(ctx context.Context, s models.Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	if err := r.client.Set(ctx, sessionKey(s.ID), b, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session %s: %w", s.ID, err)
	}
	return nil
}

func (r *SessionRedis) Load(ctx context.Context, id string) (models.Session, error) {
	val, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Session{}, ErrSessionNotFound
		}
		return models.Session{}, fmt.Errorf("redis get session %s: %w", id, err)
	}
	var s models.Session
	if err := json.Unmarshal(val, &s); err != nil {
		return models.Session{}, fmt.Errorf("decode session %s: %w", id, err)
	}
	return s, nil
}

func (r *SessionRedis) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("redis del session %s: %w", id, err)
	}
	return nil
}
