package middlewarex_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"market_buyer/pkg/contextx"
	"market_buyer/pkg/logx"
	"market_buyer/pkg/middlewarex"
)

func newRouter(buf *bytes.Buffer, handler http.HandlerFunc) http.Handler {
	base := slog.New(slog.NewTextHandler(buf, nil))
	masker := logx.NewSensitiveDataMasker()

	r := chi.NewRouter()
	r.Use(
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(contextx.WithLogger(r.Context(), base)))
			})
		},
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.ResponseLogging(masker, 1024),
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, 1024),
	)
	r.Post("/v1/purchases", handler)

	return r
}

func TestMiddlewares(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name    string
		traceID string
		handler http.HandlerFunc
		status  int
		check   func(body, logs string)
	}{
		{
			name:    "Trace id from header",
			traceID: "d0s4l9v8c8q6p1a2b3c4",
			handler: func(w http.ResponseWriter, r *http.Request) {
				traceID, err := contextx.TraceIDFromContext(r.Context())
				rq.NoError(err)
				_, _ = w.Write([]byte(`{"trace":"` + traceID.String() + `"}`))
			},
			status: http.StatusOK,
			check: func(body, logs string) {
				rq.Contains(body, "d0s4l9v8c8q6p1a2b3c4")
				rq.Contains(logs, "trace-id=d0s4l9v8c8q6p1a2b3c4")
				rq.Contains(logs, "request-id=req-1")
				rq.Contains(logs, `token\":\"[MASKED]`)
				rq.NotContains(logs, "AbCdEf")
			},
		},
		{
			name: "Panic recovered",
			handler: func(http.ResponseWriter, *http.Request) {
				panic("wallet store is nil")
			},
			status: http.StatusInternalServerError,
			check: func(body, logs string) {
				rq.Contains(body, `"code":"InternalServerError"`)
				rq.Contains(logs, "panic in handler")
				rq.Contains(logs, "level=WARN msg=http-response")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			var buf bytes.Buffer

			req := httptest.NewRequestWithContext(context.Background(), http.MethodPost, "/v1/purchases",
				strings.NewReader(`{"hash_name":"AK-47 | Redline (Field-Tested)","recipient":{"partner_id":"1","token":"AbCdEf"}}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Idempotency-Key", "req-1")

			if tc.traceID != "" {
				req.Header.Set("X-Trace-Id", tc.traceID)
			}

			rec := httptest.NewRecorder()
			newRouter(&buf, tc.handler).ServeHTTP(rec, req)

			rq.Equal(tc.status, rec.Code)
			rq.NotEmpty(rec.Header().Get("X-Trace-Id"))
			tc.check(rec.Body.String(), buf.String())
		})
	}
}
