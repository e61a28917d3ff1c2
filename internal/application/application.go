package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"market_buyer/internal/config"
	"market_buyer/internal/domain/service/buyer"
	"market_buyer/internal/domain/value"
	"market_buyer/internal/infrastructure/market"
	"market_buyer/internal/infrastructure/notifier"
	"market_buyer/internal/infrastructure/persistence"
	"market_buyer/internal/infrastructure/wallet"
	"market_buyer/internal/metrics"
	"market_buyer/internal/server"
	"market_buyer/internal/transport/bot"
	"market_buyer/internal/worker"
	"market_buyer/pkg/application/connectors"
	"market_buyer/pkg/application/modules"
	"market_buyer/pkg/contextx"
	"market_buyer/pkg/logx"
	"market_buyer/pkg/middlewarex"
	"market_buyer/pkg/probe"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Run собирает зависимости и блокируется до отмены ctx или падения модуля.
func Run(ctx context.Context, cfg config.Config) error { //nolint:funlen
	if cfg.Queue.Enabled && !cfg.Redis.Enabled() {
		return errors.New("QUEUE_ENABLED requires REDIS_ADDRESS")
	}

	g, ctx := errgroup.WithContext(ctx)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	buyerMetrics := metrics.NewBuyerMetrics(registry)
	checks := map[string]probe.Check{}

	var rds *connectors.Redis

	if cfg.Redis.Enabled() {
		rds = &connectors.Redis{
			Username:           cfg.Redis.Username,
			Password:           cfg.Redis.Password,
			Address:            cfg.Redis.Address,
			DatabaseNumber:     cfg.Redis.DatabaseNumber,
			PoolSize:           cfg.Redis.PoolSize,
			MinIdleConnections: cfg.Redis.MinIdleConnections,
			MaxIdleConnections: cfg.Redis.MaxIdleConnections,
		}
		rds.Client(ctx)
		defer rds.Close(context.WithoutCancel(ctx))

		checks["redis"] = rds.Ping
	}

	store, err := newWallet(ctx, cfg.Purchase, rds)
	if err != nil {
		return fmt.Errorf("newWallet: %w", err)
	}

	svc := buyer.NewBuyService(market.NewClient(cfg.Market), store, buyer.Options{
		PriceFloorAdjustment: cfg.Purchase.PriceFloorAdjustment,
		Discounts:            cfg.Purchase.Discounts,
		PriceScale:           cfg.Purchase.PriceScale,
	}).WithObserver(buyerMetrics)

	if cfg.Postgres.Enabled() {
		pg := &connectors.Postgres{
			DSN:             cfg.Postgres.DSN,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		}
		db := pg.Client(ctx)
		defer pg.Close(context.WithoutCancel(ctx))

		if err = persistence.Migrate(ctx, db); err != nil {
			return fmt.Errorf("persistence.Migrate: %w", err)
		}

		svc.WithPurchaseLog(persistence.NewPurchaseRepository(db))

		checks["postgres"] = pg.Ping
	}

	if cfg.Bot.Enabled() {
		if err = runBot(ctx, g, cfg, svc); err != nil {
			return err
		}
	}

	purchaseServer := server.NewPurchaseServer(svc)

	if cfg.Queue.Enabled {
		queueClient := asynq.NewClient(rds.AsynqOpt())
		defer queueClient.Close()

		purchaseServer = purchaseServer.WithQueue(worker.NewPurchaseQueue(queueClient, cfg.Queue.Name))

		purchaseWorker := worker.NewPurchaseWorker(svc, cfg.Queue.DedupTTL).WithObserver(buyerMetrics)

		modules.AsynqServer{
			Redis:       rds.AsynqOpt(),
			Concurrency: cfg.Queue.Concurrency,
		}.Run(ctx, g, modules.AsynqQueues{cfg.Queue.Name: 1}, purchaseWorker.Handler())
	}

	if cfg.Purchase.BalanceSyncInterval > 0 {
		balanceSync := worker.NewBalanceSync(svc, cfg.Purchase.BalanceSyncInterval)
		g.Go(func() error { return balanceSync.Run(ctx) })
	}

	router := newRouter(cfg.HTTP)
	server.NewServer(purchaseServer, server.NewSettingsServer(svc)).RegisterRoutes(router)

	modules.HTTPServer{
		ListenAddress:   cfg.HTTP.ListenAddress,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}.Run(ctx, g, router)

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.Probe.ListenAddress,
		Checks:        checks,
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.Metrics.ListenAddress,
		Gatherer:      registry,
	}.Run(ctx, g)

	if err = g.Wait(); err != nil {
		return fmt.Errorf("errgroup.Wait: %w", err)
	}

	return nil
}

// newWallet выбирает хранилище баланса: Redis, если он настроен, иначе память.
// Начальные значения из конфига в Redis пишутся, только если заданы явно.
func newWallet(ctx context.Context, cfg config.Purchase, rds *connectors.Redis) (buyer.Wallet, error) {
	balance := value.UnknownBalance()
	if cfg.InitialBalance >= 0 {
		balance = value.KnownBalance(value.Price(cfg.InitialBalance))
	}

	ratio, err := value.ParseDiscountRatio(cfg.DiscountRatio)
	if err != nil {
		return nil, fmt.Errorf("value.ParseDiscountRatio: %w", err)
	}

	if rds == nil {
		return wallet.NewMemoryStore(balance, ratio), nil
	}

	store := wallet.NewRedisStore(rds.Client(ctx), cfg.WalletKeyPrefix)

	if balance.IsKnown() {
		if err = store.SetBalance(ctx, balance); err != nil {
			return nil, fmt.Errorf("store.SetBalance: %w", err)
		}
	}

	if !ratio.Decimal().IsZero() {
		if err = store.SetDiscountRatio(ctx, ratio); err != nil {
			return nil, fmt.Errorf("store.SetDiscountRatio: %w", err)
		}
	}

	return store, nil
}

func runBot(ctx context.Context, g *errgroup.Group, cfg config.Config, svc *buyer.BuyService) error {
	alertBot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
	if err != nil {
		return fmt.Errorf("notifier.NewTelegramBot: %w", err)
	}

	if err = alertBot.SendHTML(ctx, "🚀 <b>Бот закупки запущен</b>"); err != nil {
		logger(ctx).Error("startup notification failed, check BOT_TOKEN and BOT_CHAT_ID", logx.Error(err))
	}

	svc.WithNotifier(alertBot)

	operatorBot, err := bot.New(cfg.Bot, svc)
	if err != nil {
		return fmt.Errorf("bot.New: %w", err)
	}

	g.Go(func() error { return operatorBot.Run(ctx) })

	logger(ctx).Info("telegram bot enabled", slog.Int64(logx.FieldChatID, cfg.Bot.ChatID))

	return nil
}

func newRouter(cfg config.HTTP) chi.Router {
	masker := logx.NewSensitiveDataMasker()

	r := chi.NewRouter()
	r.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.ResponseLogging(masker, cfg.LogFieldMaxLen),
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, cfg.LogFieldMaxLen),
	)

	return r
}
