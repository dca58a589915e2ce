package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quizfunnel/quizfunnel/internal/engine"
)

// redisStore keeps sessions in Redis so multiple gateway replicas can
// serve one respondent's run.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &redisStore{client: client, ttl: ttl}
}

func key(id string) string { return "session:" + id }

func (r *redisStore) Put(ctx context.Context, st *engine.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key(st.ID), data, r.ttl).Err()
}

func (r *redisStore) Get(ctx context.Context, id string) (*engine.State, error) {
	data, err := r.client.Get(ctx, key(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, engine.ErrSessionNotFound
		}
		return nil, err
	}
	var st engine.State
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *redisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, key(id)).Err()
}
