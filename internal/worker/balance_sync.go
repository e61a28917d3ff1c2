package worker

import (
	"context"
	"log/slog"
	"time"

	"market_buyer/internal/domain/value"
	"market_buyer/pkg/contextx"
	"market_buyer/pkg/logx"
)

type balanceSyncer interface {
	SyncBalance(ctx context.Context) (value.Price, error)
}

// BalanceSync периодически копирует баланс с маркета в кошелёк.
type BalanceSync struct {
	svc      balanceSyncer
	interval time.Duration
}

func NewBalanceSync(svc balanceSyncer, interval time.Duration) *BalanceSync {
	return &BalanceSync{
		svc:      svc,
		interval: interval,
	}
}

// Run синхронизирует баланс сразу и затем раз в interval до отмены ctx.
func (w *BalanceSync) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger(ctx).Info("balance sync started", slog.Duration("interval", w.interval))

	for {
		w.syncOnce(ctx)

		select {
		case <-ctx.Done():
			logger(ctx).Info("balance sync stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (w *BalanceSync) syncOnce(ctx context.Context) {
	ctx = contextx.WithTrace(ctx, contextx.NewTraceID())

	money, err := w.svc.SyncBalance(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logger(ctx).Error("balance sync failed", logx.Error(err))
		}
		return
	}

	logger(ctx).Debug("balance synced", slog.Int64("balance", money.Int64()))
}
