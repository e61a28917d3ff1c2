package middlewarex

import (
	"log/slog"
	"net/http"

	"market_buyer/pkg/contextx"
	"market_buyer/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Logger кладёт в контекст логгер с trace id и атрибутами запроса. Ставится
// после TraceID; без него генерирует trace id сам.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		traceID, err := contextx.TraceIDFromContext(ctx)
		if err != nil {
			traceID = contextx.NewTraceID()
		}

		ctx = contextx.WithTrace(ctx, traceID)
		ctx = contextx.WithLogger(ctx, logger(ctx).With(
			logx.Stringer(logx.FieldURL, r.URL),
			slog.String(logx.FieldHTTPMethod, r.Method),
			slog.String(logx.FieldIP, r.RemoteAddr),
		))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
