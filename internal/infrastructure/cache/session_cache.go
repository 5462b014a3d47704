package cache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"tutor-platform/internal/domain/account"
	"tutor-platform/internal/logger"
)

const sessionKeyPrefix = "session:"

// Store maps session keys to account ids with an expiry.
type Store interface {
	Get(ctx context.Context, key string) (uuid.UUID, bool, error)
	Set(ctx context.Context, key string, accountID uuid.UUID) error
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, key string) (uuid.UUID, bool, error) {
	value, err := s.client.Get(ctx, sessionKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}

	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, false, err
	}
	return id, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, accountID uuid.UUID) error {
	return s.client.Set(ctx, sessionKeyPrefix+key, accountID.String(), s.ttl).Err()
}

// CachedSessionRepository reads through a Store before hitting the
// underlying repository. Cache failures are logged and never surface.
type CachedSessionRepository struct {
	next  account.SessionRepository
	store Store
}

var _ account.SessionRepository = (*CachedSessionRepository)(nil)

func NewCachedSessionRepository(next account.SessionRepository, store Store) *CachedSessionRepository {
	return &CachedSessionRepository{next: next, store: store}
}

func (r *CachedSessionRepository) GetOrCreate(ctx context.Context, accountID uuid.UUID, candidate string) (string, error) {
	key, err := r.next.GetOrCreate(ctx, accountID, candidate)
	if err != nil {
		return "", err
	}
	r.remember(ctx, key, accountID)
	return key, nil
}

func (r *CachedSessionRepository) GetAccountID(ctx context.Context, key string) (uuid.UUID, error) {
	id, ok, err := r.store.Get(ctx, key)
	if err != nil {
		logger.Warn("Session cache read failed", zap.Error(err))
	}
	if ok {
		return id, nil
	}

	id, err = r.next.GetAccountID(ctx, key)
	if err != nil {
		return uuid.Nil, err
	}
	r.remember(ctx, key, id)
	return id, nil
}

func (r *CachedSessionRepository) remember(ctx context.Context, key string, accountID uuid.UUID) {
	if err := r.store.Set(ctx, key, accountID); err != nil {
		logger.Warn("Session cache write failed", zap.Error(err))
	}
}
