package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Compile-time check that RedisRepository implements Repository.
var _ Repository = (*RedisRepository)(nil)

const redisKeyPrefix = "ugc:session:"

// RedisRepository persists sessions as JSON values in Redis.
// Update calls are serialized with a process-local mutex; the service runs
// as a single instance, so optimistic locking is not needed.
type RedisRepository struct {
	mu     sync.Mutex
	client *redis.Client
}

// NewRedisRepository creates a Redis-backed session repository.
func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

// Save persists a session to Redis.
func (r *RedisRepository) Save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := r.client.Set(ctx, redisKey(sess.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// FindByID retrieves a session by its ID.
func (r *RedisRepository) FindByID(ctx context.Context, id string) (*Session, error) {
	data, err := r.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}

// Update loads the session, applies fn and stores the result.
func (r *RedisRepository) Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	sess.Touch()
	if err := r.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// List returns all sessions stored under the key prefix.
func (r *RedisRepository) List(ctx context.Context) ([]*Session, error) {
	var result []*Session
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		data, err := r.client.Get(ctx, iter.Val()).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load session: %w", err)
		}
		var sess Session
		if err := json.Unmarshal(data, &sess); err != nil {
			return nil, fmt.Errorf("unmarshal session: %w", err)
		}
		result = append(result, &sess)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan sessions: %w", err)
	}
	return result, nil
}

// Delete removes a session from Redis.
func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	deleted, err := r.client.Del(ctx, redisKey(id)).Result()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if deleted == 0 {
		return ErrSessionNotFound
	}
	return nil
}
