package wallet_test

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/rs/xid"
	"github.com/stretchr/testify/require"

	"market_buyer/internal/domain/service/buyer"
	"market_buyer/internal/domain/value"
	"market_buyer/internal/infrastructure/wallet"
)

func TestStores(t *testing.T) {
	rq := require.New(t)

	stores := map[string]func() buyer.Wallet{
		"Memory": func() buyer.Wallet {
			return wallet.NewMemoryStore(value.UnknownBalance(), value.ZeroDiscount())
		},
	}

	if addr := os.Getenv("TEST_REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		t.Cleanup(func() { client.Close() })

		stores["Redis"] = func() buyer.Wallet {
			return wallet.NewRedisStore(client, "test:"+xid.New().String())
		}
	}

	for name, newStore := range stores {
		t.Run(name, func(*testing.T) {
			ctx := context.Background()
			store := newStore()

			balance, err := store.Balance(ctx)
			rq.NoError(err)
			rq.False(balance.IsKnown())

			rq.NoError(store.SetBalance(ctx, value.KnownBalance(1500)))

			balance, err = store.Balance(ctx)
			rq.NoError(err)
			rq.Equal(value.KnownBalance(1500), balance)

			rq.NoError(store.SetBalance(ctx, value.UnknownBalance()))

			balance, err = store.Balance(ctx)
			rq.NoError(err)
			rq.False(balance.IsKnown())

			ratio, err := store.DiscountRatio(ctx)
			rq.NoError(err)
			rq.True(ratio.Decimal().IsZero())

			want, err := value.ParseDiscountRatio("0.075")
			rq.NoError(err)
			rq.NoError(store.SetDiscountRatio(ctx, want))

			ratio, err = store.DiscountRatio(ctx)
			rq.NoError(err)
			rq.Equal("0.075", ratio.String())
		})
	}
}
