package market

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"

	"market_buyer/internal/config"
	"market_buyer/internal/domain"
	"market_buyer/pkg/contextx"
	"market_buyer/pkg/httpx"
	"market_buyer/pkg/logx"
)

var (
	json   = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip
	logger = contextx.LoggerFromContextOrDefault          //nolint:gochecknoglobals
)

const (
	apiKeyParam  = "key"
	maxBodyBytes = 4 << 20
)

// StatusError is an HTTP failure without a provider message.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}

func (e *StatusError) retryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}

// Client talks to the marketplace REST API.
type Client struct {
	baseURL     string
	http        *http.Client
	limiter     *rate.Limiter
	readRetries uint64
	buyRetries  uint64
	moneyScale  int64
	newBackOff  func() backoff.BackOff
}

func NewClient(cfg config.Market) *Client {
	transport := httpx.NewAPIKeyRoundTripper(
		httpx.NewLoggingRoundTripper(
			http.DefaultTransport,
			httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
			httpx.WithLogFieldMaxLen(cfg.LogFieldMaxLen),
			httpx.WithLogLevel(slog.LevelDebug),
		),
		apiKeyParam,
		cfg.APIKey,
	)

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		limiter:     rate.NewLimiter(limit, 1),
		readRetries: cfg.ReadRetries,
		buyRetries:  min(cfg.BuyRetries, max(cfg.ReadRetries, 1)-1),
		moneyScale:  max(cfg.MoneyScale, 1),
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 300 * time.Millisecond
			b.MaxInterval = 5 * time.Second
			return b
		},
	}
}

// WithBackOff replaces the retry schedule.
func (c *Client) WithBackOff(newBackOff func() backoff.BackOff) *Client {
	c.newBackOff = newBackOff
	return c
}

// get performs a GET request, retrying transport failures up to retries
// times, and decodes a successful body into dest. A provider error message
// is returned as *domain.RawError and never retried.
func (c *Client) get(ctx context.Context, path string, query url.Values, retries uint64, dest any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	attempt := 0

	operation := func() error {
		attempt++

		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(fmt.Errorf("limiter.Wait: %w", err))
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("http.NewRequestWithContext: %w", err))
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("http.Do: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return fmt.Errorf("io.ReadAll: %w", err)
		}

		return decode(resp.StatusCode, body, dest)
	}

	notify := func(err error, next time.Duration) {
		logger(ctx).Warn("market request failed, retrying",
			slog.String("path", path),
			slog.Int("attempt", attempt),
			slog.Duration("next", next),
			logx.Error(err),
		)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), retries), ctx)

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}

	return nil
}

func decode(status int, body []byte, dest any) error {
	var env envelope
	envErr := json.Unmarshal(body, &env)

	if envErr == nil && !env.Success && env.Error != "" {
		raw := &domain.RawError{Message: env.Error}
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			raw.Status = status
		}
		return backoff.Permanent(raw)
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		statusErr := &StatusError{Status: status, Body: truncate(body)}
		if statusErr.retryable() {
			return statusErr
		}
		return backoff.Permanent(statusErr)
	}

	if envErr != nil {
		return backoff.Permanent(fmt.Errorf("json.Unmarshal: %w", envErr))
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return backoff.Permanent(fmt.Errorf("json.Unmarshal: %w", err))
	}

	return nil
}

func truncate(body []byte) string {
	const limit = 256
	if len(body) > limit {
		return string(body[:limit])
	}
	return string(body)
}
