package contextx

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rs/xid"

	"market_buyer/pkg/logx"
)

type TraceID string

type contextKeyTraceID struct{}

func (t TraceID) String() string {
	return string(t)
}

func NewTraceID() TraceID {
	return TraceID(xid.New().String())
}

func WithTraceID(ctx context.Context, traceID TraceID) context.Context {
	return context.WithValue(ctx, contextKeyTraceID{}, traceID)
}

func TraceIDFromContext(ctx context.Context) (TraceID, error) {
	traceID, ok := ctx.Value(contextKeyTraceID{}).(TraceID)
	if !ok {
		return "", fmt.Errorf("trace id: %w", ErrNoValue)
	}

	return traceID, nil
}

// WithTrace кладёт traceID в контекст и добавляет его полем к логгеру
// контекста. Используется там, где нет HTTP middleware: задачи очереди,
// фоновые циклы.
func WithTrace(ctx context.Context, traceID TraceID) context.Context {
	ctx = WithTraceID(ctx, traceID)

	return WithLogger(ctx, LoggerFromContextOrDefault(ctx).With(
		slog.String(logx.FieldTraceID, traceID.String()),
	))
}
