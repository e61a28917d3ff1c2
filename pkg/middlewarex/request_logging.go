package middlewarex

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"strings"

	"market_buyer/pkg/logx"
)

const headerNameIdempotencyKey = "Idempotency-Key"

// RequestLogging пишет в лог входящий запрос. Тело дампится только для JSON.
func RequestLogging(
	masker sensitiveDataMasker,
	logFieldMaxLen int,
) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			dumpBody := strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")

			dump, err := httputil.DumpRequest(r, dumpBody)

			attrs := []any{slog.String(logx.FieldRequestBody, maskAndTrim(masker, dump, logFieldMaxLen))}

			if key := r.Header.Get(headerNameIdempotencyKey); key != "" {
				attrs = append(attrs, slog.String(logx.FieldRequestID, key))
			}

			if err != nil {
				attrs = append(attrs, logx.Error(err))
			}

			logger(ctx).Info(logx.FieldHTTPRequest, attrs...)

			next.ServeHTTP(w, r)
		})
	}
}
