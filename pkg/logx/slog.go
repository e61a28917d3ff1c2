package logx

import (
	"fmt"
	"log/slog"

	"github.com/lmittmann/tint"
)

var Error = tint.Err //nolint:gochecknoglobals

func Stringer(name string, value fmt.Stringer) slog.Attr {
	return slog.String(name, value.String())
}

// Code пишет код ошибки (errcodes) и сторону, к которой она относится.
func Code(code fmt.Stringer, source string) slog.Attr {
	return slog.Group(FieldError,
		slog.String("code", code.String()),
		slog.String("source", source),
	)
}
