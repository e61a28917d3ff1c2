// Package classifier maps raw marketplace messages to domain error kinds and
// tells the purchase loop what to do with them.
package classifier

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"git.appkode.ru/pub/go/failure"

	"market_buyer/internal/domain"
	"market_buyer/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Routing is the decision the purchase loop takes for a message.
type Routing int

const (
	// TransparentSuccess means the message reports success.
	TransparentSuccess Routing = iota + 1
	// SilentRetry drops the current offer and moves on to the next one.
	SilentRetry
	// Fatal stops the loop with a domain error.
	Fatal
)

func (r Routing) String() string {
	switch r {
	case TransparentSuccess:
		return "success"
	case SilentRetry:
		return "retry"
	case Fatal:
		return "fatal"
	default:
		return "invalid"
	}
}

// Verdict is the classification of one raw message.
type Verdict struct {
	Kind    failure.ErrorCode
	Source  domain.Source
	Routing Routing
	// Reason labels SilentRetry verdicts without a kind.
	Reason string
	// Known is false for messages outside the provider vocabulary.
	Known bool
}

// Err builds the domain error for a Fatal verdict.
func (v Verdict) Err(raw string) *domain.Error {
	return domain.NewError(v.Kind, v.Source, raw).With(domain.KeyMessage, raw)
}

// Classify looks raw up in the provider vocabulary. Unknown messages are
// retried, never fatal.
func Classify(ctx context.Context, raw string) Verdict {
	if v, ok := table[strings.TrimSpace(raw)]; ok {
		return v
	}

	logger(ctx).Warn("unknown marketplace message", slog.String("message", raw))

	return Verdict{
		Source:  domain.SourceMarket,
		Routing: SilentRetry,
		Reason:  ReasonUnknown,
	}
}

// messages returns the provider messages that map to kind, sorted.
func messages(kind failure.ErrorCode) []string {
	msgs := slices.Clone(byKind[kind])
	slices.Sort(msgs)
	return msgs
}
