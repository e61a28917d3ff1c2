package market_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"market_buyer/internal/config"
	"market_buyer/internal/domain"
	"market_buyer/internal/domain/entity"
	"market_buyer/internal/domain/value"
	"market_buyer/internal/infrastructure/market"
)

type recorder struct {
	mu       sync.Mutex
	requests []*url.URL
}

func (r *recorder) add(u *url.URL) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.requests = append(r.requests, u)

	return len(r.requests)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.requests)
}

func newClient(t *testing.T, handler func(call int, w http.ResponseWriter, r *http.Request)) (*market.Client, *recorder) {
	t.Helper()

	rec := &recorder{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler(rec.add(r.URL), w, r)
	}))
	t.Cleanup(server.Close)

	client := market.NewClient(config.Market{
		BaseURL:     server.URL,
		APIKey:      "s3cr3t",
		Timeout:     5 * time.Second,
		ReadRetries: 3,
		BuyRetries:  1,
		MoneyScale:  100,
	}).WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} })

	return client, rec
}

func write(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestSearchOffers(t *testing.T) {
	rq := require.New(t)

	client, rec := newClient(t, func(_ int, w http.ResponseWriter, r *http.Request) {
		rq.Equal("/api/v2/search-item-by-hash-name-specific", r.URL.Path)
		rq.Equal("AK-47 | Redline (Field-Tested)", r.URL.Query().Get("hash_name"))
		rq.Equal("s3cr3t", r.URL.Query().Get("key"))

		write(w, http.StatusOK, `{"success":true,"currency":"RUB","data":[
			{"market_hash_name":"AK-47 | Redline (Field-Tested)","class":310776560,"instance":"302028390","price":1250,"count":"3"},
			{"market_hash_name":"AK-47 | Redline (Field-Tested)","class":"310776560","instance":0,"price":"1300","count":1}
		]}`)
	})

	page, err := client.SearchOffers(context.Background(), "AK-47 | Redline (Field-Tested)")
	rq.NoError(err)
	rq.Equal(1, rec.count())
	rq.True(page.Success)
	rq.Equal([]entity.Offer{
		{HashName: "AK-47 | Redline (Field-Tested)", ClassID: "310776560", InstanceID: "302028390", Price: 1250, ListingCount: 3},
		{HashName: "AK-47 | Redline (Field-Tested)", ClassID: "310776560", InstanceID: "0", Price: 1300, ListingCount: 1},
	}, page.Offers)
}

func TestSearchOffersRetries(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name     string
		statuses []int
		requests int
		err      bool
	}{
		{
			name:     "Recovered after server errors",
			statuses: []int{http.StatusBadGateway, http.StatusTooManyRequests, http.StatusOK},
			requests: 3,
		},
		{
			name:     "Retries exhausted",
			statuses: []int{http.StatusBadGateway, http.StatusBadGateway, http.StatusBadGateway, http.StatusBadGateway},
			requests: 4,
			err:      true,
		},
		{
			name:     "Client error not retried",
			statuses: []int{http.StatusForbidden},
			requests: 1,
			err:      true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			client, rec := newClient(t, func(call int, w http.ResponseWriter, _ *http.Request) {
				status := tc.statuses[min(call, len(tc.statuses))-1]
				if status != http.StatusOK {
					write(w, status, `<html>bad gateway</html>`)
					return
				}
				write(w, http.StatusOK, `{"success":true,"data":[]}`)
			})

			_, err := client.SearchOffers(context.Background(), "AK-47 | Redline (Field-Tested)")

			rq.Equal(tc.requests, rec.count())

			if tc.err {
				var statusErr *market.StatusError
				rq.ErrorAs(err, &statusErr)
				return
			}

			rq.NoError(err)
		})
	}
}

func TestSubmitPurchase(t *testing.T) {
	rq := require.New(t)

	offer := entity.Offer{HashName: "AWP | Asiimov (Field-Tested)", ClassID: "1", InstanceID: "2", Price: 5000, ListingCount: 1}

	t.Run("Bought", func(*testing.T) {
		client, _ := newClient(t, func(_ int, w http.ResponseWriter, r *http.Request) {
			rq.Equal("/api/v2/buy", r.URL.Path)
			rq.Equal("5100", r.URL.Query().Get("price"))
			rq.Equal(offer.HashName, r.URL.Query().Get("hash_name"))

			_, err := uuid.Parse(r.URL.Query().Get("custom_id"))
			rq.NoError(err)

			write(w, http.StatusOK, `{"success":true,"id":"987654","classid":"1","instanceid":"2","price":4990}`)
		})

		receipt, err := client.SubmitPurchase(context.Background(), offer, 5100, nil)
		rq.NoError(err)
		rq.Equal(entity.Receipt{PurchaseID: "987654", ClassID: "1", InstanceID: "2", MinPrice: 4990}, receipt)
	})

	t.Run("Bought for recipient", func(*testing.T) {
		client, _ := newClient(t, func(_ int, w http.ResponseWriter, r *http.Request) {
			rq.Equal("/api/v2/buy-for", r.URL.Path)
			rq.Equal("12345", r.URL.Query().Get("partner"))
			rq.Equal("AbCdEf", r.URL.Query().Get("token"))

			write(w, http.StatusOK, `{"success":true,"id":1}`)
		})

		receipt, err := client.SubmitPurchase(context.Background(), offer, 5000,
			&entity.Recipient{PartnerID: "12345", Token: "AbCdEf"})
		rq.NoError(err)
		rq.Equal("1", receipt.PurchaseID)
	})

	t.Run("Provider message", func(*testing.T) {
		testCases := []struct {
			name   string
			status int
			want   int
		}{
			{name: "In a successful response", status: http.StatusOK, want: 0},
			{name: "With transport status", status: http.StatusBadRequest, want: http.StatusBadRequest},
		}

		for _, tc := range testCases {
			client, rec := newClient(t, func(_ int, w http.ResponseWriter, _ *http.Request) {
				write(w, tc.status, `{"success":false,"error":"Bad offer price"}`)
			})

			_, err := client.SubmitPurchase(context.Background(), offer, 5000, nil)

			var raw *domain.RawError
			rq.ErrorAs(err, &raw, tc.name)
			rq.Equal("Bad offer price", raw.Message)
			rq.Equal(tc.want, raw.Status)
			rq.Equal(1, rec.count())
		}
	})

	t.Run("Buy retries capped below reads", func(*testing.T) {
		client, rec := newClient(t, func(_ int, w http.ResponseWriter, _ *http.Request) {
			write(w, http.StatusBadGateway, `bad gateway`)
		})

		_, err := client.SubmitPurchase(context.Background(), offer, 5000, nil)
		rq.Error(err)
		rq.Equal(2, rec.count())

		ids := map[string]struct{}{}
		for _, u := range rec.requests {
			ids[u.Query().Get("custom_id")] = struct{}{}
		}
		rq.Len(ids, 1)
	})

	t.Run("Fresh custom id per attempt", func(*testing.T) {
		client, rec := newClient(t, func(_ int, w http.ResponseWriter, _ *http.Request) {
			write(w, http.StatusOK, `{"success":true,"id":"1"}`)
		})

		for range 2 {
			_, err := client.SubmitPurchase(context.Background(), offer, 5000, nil)
			rq.NoError(err)
		}

		rq.NotEqual(rec.requests[0].Query().Get("custom_id"), rec.requests[1].Query().Get("custom_id"))
	})
}

func TestQueryHistory(t *testing.T) {
	rq := require.New(t)

	start := time.Date(2026, 3, 14, 11, 59, 15, 0, time.UTC)
	end := start.Add(90 * time.Second)

	client, _ := newClient(t, func(_ int, w http.ResponseWriter, r *http.Request) {
		rq.Equal("/api/v2/history", r.URL.Path)
		rq.Equal("1773489555", r.URL.Query().Get("date"))
		rq.Equal("1773489645", r.URL.Query().Get("date_end"))

		write(w, http.StatusOK, `{"success":true,"data":[{"item_id":"4242","stage":"2","event":"buy","time":"1773489600"}]}`)
	})

	page, err := client.QueryHistory(context.Background(), start, end)
	rq.NoError(err)
	rq.True(page.Success)
	rq.Equal([]entity.HistoryEvent{{
		ItemID:    4242,
		Stage:     value.StageDelivered,
		EventType: entity.EventBuy,
		Time:      time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}}, page.Events)
}

func TestMoney(t *testing.T) {
	rq := require.New(t)

	client, _ := newClient(t, func(_ int, w http.ResponseWriter, r *http.Request) {
		rq.Equal("/api/v2/get-money", r.URL.Path)
		write(w, http.StatusOK, `{"money":1234.565,"currency":"RUB"}`)
	})

	money, err := client.Money(context.Background())
	rq.NoError(err)
	rq.Equal(value.Price(123457), money)
}

func TestCanceledContext(t *testing.T) {
	rq := require.New(t)

	client, rec := newClient(t, func(_ int, w http.ResponseWriter, _ *http.Request) {
		write(w, http.StatusBadGateway, `bad gateway`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.SearchOffers(ctx, "AK-47 | Redline (Field-Tested)")
	rq.True(errors.Is(err, context.Canceled), "%v", err)
	rq.Zero(rec.count())
}
