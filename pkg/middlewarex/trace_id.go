package middlewarex

import (
	"net/http"

	"market_buyer/pkg/contextx"
)

const headerNameTraceID = "X-Trace-Id"

// TraceID берёт trace id из заголовка запроса или генерирует новый и
// возвращает его клиенту.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := contextx.TraceID(r.Header.Get(headerNameTraceID))
		if traceID == "" {
			traceID = contextx.NewTraceID()
		}

		w.Header().Set(headerNameTraceID, traceID.String())

		next.ServeHTTP(w, r.WithContext(contextx.WithTraceID(r.Context(), traceID)))
	})
}
