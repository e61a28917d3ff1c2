// Package history recovers the delivery stage of a bought item from the
// account's transaction history.
package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"market_buyer/internal/domain"
	"market_buyer/internal/domain/entity"
	"market_buyer/internal/domain/value"
	"market_buyer/pkg/contextx"
	"market_buyer/pkg/errcodes"
	"market_buyer/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	NarrowMargin = 45 * time.Second
	WideMargin   = 5 * time.Minute
)

type HistoryQuerier interface {
	QueryHistory(ctx context.Context, start, end time.Time) (entity.HistoryPage, error)
}

type Reconciler struct {
	querier HistoryQuerier
	now     func() time.Time
	margins []time.Duration
}

func NewReconciler(querier HistoryQuerier) *Reconciler {
	return &Reconciler{
		querier: querier,
		now:     time.Now,
		margins: []time.Duration{NarrowMargin, WideMargin},
	}
}

// WithClock replaces the wall clock used for whole-history queries.
func (r *Reconciler) WithClock(now func() time.Time) *Reconciler {
	r.now = now
	return r
}

// Resolve returns the stage of itemID. With approx set the history is searched
// in widening windows around it, otherwise the whole history is queried once.
func (r *Reconciler) Resolve(ctx context.Context, itemID int64, approx *time.Time) (value.Stage, error) {
	log := logger(ctx).With(slog.Int64(logx.FieldItemID, itemID))

	if approx == nil {
		event, found, err := r.search(ctx, itemID, time.Unix(0, 0).UTC(), r.now())
		if err != nil {
			return 0, err
		}
		if !found {
			return 0, notFound(itemID)
		}
		return checkStage(event)
	}

	for _, margin := range r.margins {
		start, end := approx.Add(-margin), approx.Add(margin)

		event, found, err := r.search(ctx, itemID, start, end)
		if err != nil {
			return 0, err
		}
		if found {
			return checkStage(event)
		}

		log.Debug("item not in history window", slog.Duration("margin", margin))
	}

	return 0, notFound(itemID)
}

// search returns the latest event for itemID within [start, end].
func (r *Reconciler) search(
	ctx context.Context,
	itemID int64,
	start, end time.Time,
) (entity.HistoryEvent, bool, error) {
	page, err := r.querier.QueryHistory(ctx, start, end)
	if err != nil {
		return entity.HistoryEvent{}, false,
			domain.WrapError(err, errcodes.HistoryFailed, domain.SourceMarket, "history query failed").
				With(domain.KeyItemID, itemID)
	}

	if !page.Success {
		return entity.HistoryEvent{}, false,
			domain.NewError(errcodes.HistoryFailed, domain.SourceMarket, "history query was not successful").
				With(domain.KeyItemID, itemID)
	}

	if len(page.Events) == 0 {
		logger(ctx).Info("history window is empty",
			slog.Int64(logx.FieldItemID, itemID),
			slog.Time("start", start),
			slog.Time("end", end),
		)
		return entity.HistoryEvent{}, false, nil
	}

	var (
		latest entity.HistoryEvent
		found  bool
	)
	for _, e := range page.Events {
		if e.ItemID != itemID {
			continue
		}
		if !found || e.Time.After(latest.Time) {
			latest, found = e, true
		}
	}

	return latest, found, nil
}

func checkStage(event entity.HistoryEvent) (value.Stage, error) {
	if !event.Stage.Known() {
		return 0, domain.NewError(errcodes.UnknownStage, domain.SourceMarket,
			fmt.Sprintf("unknown stage %d", int(event.Stage))).
			With(domain.KeyItemID, event.ItemID).
			With(domain.KeyStage, int(event.Stage))
	}
	return event.Stage, nil
}

func notFound(itemID int64) *domain.Error {
	return domain.NewError(errcodes.NotFound, domain.SourceMarket, "item not found in history").
		With(domain.KeyItemID, itemID)
}
