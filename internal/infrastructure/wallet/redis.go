package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"market_buyer/internal/domain/value"
)

const (
	keyBalance  = "balance"
	keyDiscount = "discount"
)

// RedisStore shares the wallet between processes. A missing balance key
// means the balance is unknown.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

func (s *RedisStore) key(name string) string {
	return s.prefix + ":" + name
}

func (s *RedisStore) Balance(ctx context.Context) (value.Balance, error) {
	raw, err := s.client.Get(ctx, s.key(keyBalance)).Result()
	if errors.Is(err, redis.Nil) {
		return value.UnknownBalance(), nil
	}
	if err != nil {
		return value.Balance{}, fmt.Errorf("redis.Get: %w", err)
	}

	amount, err := value.ParsePrice(raw)
	if err != nil {
		return value.Balance{}, fmt.Errorf("value.ParsePrice: %w", err)
	}

	return value.KnownBalance(amount), nil
}

func (s *RedisStore) SetBalance(ctx context.Context, balance value.Balance) error {
	amount, ok := balance.Get()
	if !ok {
		if err := s.client.Del(ctx, s.key(keyBalance)).Err(); err != nil {
			return fmt.Errorf("redis.Del: %w", err)
		}
		return nil
	}

	if err := s.client.Set(ctx, s.key(keyBalance), amount.String(), 0).Err(); err != nil {
		return fmt.Errorf("redis.Set: %w", err)
	}

	return nil
}

func (s *RedisStore) DiscountRatio(ctx context.Context) (value.DiscountRatio, error) {
	raw, err := s.client.Get(ctx, s.key(keyDiscount)).Result()
	if errors.Is(err, redis.Nil) {
		return value.ZeroDiscount(), nil
	}
	if err != nil {
		return value.DiscountRatio{}, fmt.Errorf("redis.Get: %w", err)
	}

	ratio, err := value.ParseDiscountRatio(raw)
	if err != nil {
		return value.DiscountRatio{}, fmt.Errorf("value.ParseDiscountRatio: %w", err)
	}

	return ratio, nil
}

func (s *RedisStore) SetDiscountRatio(ctx context.Context, ratio value.DiscountRatio) error {
	if err := s.client.Set(ctx, s.key(keyDiscount), ratio.String(), 0).Err(); err != nil {
		return fmt.Errorf("redis.Set: %w", err)
	}

	return nil
}
