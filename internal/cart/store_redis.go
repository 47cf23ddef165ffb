package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const cartTTL = 24 * time.Hour

// RedisStore keeps carts in Redis under "cart:<owner>" with a 24h TTL, so an
// abandoned cart survives a browsing session but not forever.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func cartKey(owner string) string {
	return "cart:" + owner
}

func (s *RedisStore) Get(ctx context.Context, owner string) (Cart, error) {
	data, err := s.rdb.Get(ctx, cartKey(owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Cart{}, nil
	}
	if err != nil {
		return Cart{}, err
	}

	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

func (s *RedisStore) Save(ctx context.Context, owner string, c Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, cartKey(owner), data, cartTTL).Err()
}

func (s *RedisStore) Clear(ctx context.Context, owner string) error {
	return s.rdb.Del(ctx, cartKey(owner)).Err()
}
