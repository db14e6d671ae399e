package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"smartsaver/domain"
)

const sessionKeyPrefix = "smartsaver:session:"

// RedisSessionRepository keeps advisor sessions in Redis, expiring them after ttl.
type RedisSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionRepository(addr string, ttl time.Duration) *RedisSessionRepository {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisSessionRepository{
		client: rdb,
		ttl:    ttl,
	}
}

func (r *RedisSessionRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisSessionRepository) Close() error {
	return r.client.Close()
}

func (r *RedisSessionRepository) Get(ctx context.Context, id string) (domain.AdvisorSession, bool, error) {
	data, err := r.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.AdvisorSession{}, false, nil
	}
	if err != nil {
		return domain.AdvisorSession{}, false, fmt.Errorf("redis get session %s: %w", id, err)
	}

	session, err := decodeSession(data)
	if err != nil {
		return domain.AdvisorSession{}, false, fmt.Errorf("decode session %s: %w", id, err)
	}
	return session, true, nil
}

func (r *RedisSessionRepository) Save(ctx context.Context, session domain.AdvisorSession) error {
	if session.ID == "" {
		return ErrEmptySessionID
	}
	data, err := encodeSession(session)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, sessionKeyPrefix+session.ID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session %s: %w", session.ID, err)
	}
	return nil
}
