package buyer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/rs/xid"

	"market_buyer/internal/domain"
	"market_buyer/internal/domain/entity"
	"market_buyer/internal/domain/service/catalog"
	"market_buyer/internal/domain/service/history"
	"market_buyer/internal/domain/service/purchase"
	"market_buyer/internal/domain/value"
	"market_buyer/pkg/contextx"
	"market_buyer/pkg/errcodes"
	"market_buyer/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Market is the marketplace API as the buyer needs it.
type Market interface {
	catalog.OfferSearcher
	purchase.Purchaser
	history.HistoryQuerier
	Money(ctx context.Context) (value.Price, error)
}

// Wallet stores the operator-controlled balance and discount ratio.
type Wallet interface {
	purchase.BalanceProvider
	purchase.DiscountProvider
	SetBalance(ctx context.Context, balance value.Balance) error
	SetDiscountRatio(ctx context.Context, ratio value.DiscountRatio) error
}

// PurchaseLog records every run. GetByRequestID returns a NotFound domain
// error when the request id is unknown.
type PurchaseLog interface {
	Save(ctx context.Context, record entity.PurchaseRecord) error
	ListRecent(ctx context.Context, limit int) ([]entity.PurchaseRecord, error)
	GetByRequestID(ctx context.Context, requestID string) (entity.PurchaseRecord, error)
}

type Notifier interface {
	NotifyPurchase(ctx context.Context, req entity.BuyRequest, result entity.Result)
	NotifyFailure(ctx context.Context, req entity.BuyRequest, err *domain.Error)
}

type Observer interface {
	purchase.Observer
	ObserveRun(outcome string, duration time.Duration)
}

type Options struct {
	PriceFloorAdjustment bool
	Discounts            bool
	// PriceScale converts caller ceilings into marketplace minor units.
	PriceScale int64
}

type BuyService struct {
	market       Market
	wallet       Wallet
	catalog      *catalog.Catalog
	orchestrator *purchase.Orchestrator
	reconciler   *history.Reconciler
	purchaseLog  PurchaseLog
	notifier     Notifier
	observer     Observer
	now          func() time.Time
}

func NewBuyService(market Market, wallet Wallet, opts Options) *BuyService {
	c := catalog.New(market)
	if opts.PriceScale > 1 {
		scale := value.Price(opts.PriceScale)
		c = c.WithCeilingNormalizer(func(p value.Price) value.Price { return p * scale })
	}

	return &BuyService{
		market:  market,
		wallet:  wallet,
		catalog: c,
		orchestrator: purchase.NewOrchestrator(market, wallet, wallet).
			WithPriceFloorAdjustment(opts.PriceFloorAdjustment).
			WithDiscounts(opts.Discounts),
		reconciler: history.NewReconciler(market),
		now:        time.Now,
	}
}

func (s *BuyService) WithPurchaseLog(purchaseLog PurchaseLog) *BuyService {
	s.purchaseLog = purchaseLog
	return s
}

func (s *BuyService) WithNotifier(notifier Notifier) *BuyService {
	s.notifier = notifier
	return s
}

func (s *BuyService) WithObserver(observer Observer) *BuyService {
	s.observer = observer
	s.orchestrator.WithObserver(observer)
	return s
}

func (s *BuyService) WithClock(now func() time.Time) *BuyService {
	s.now = now
	s.reconciler.WithClock(now)
	return s
}

// Buy fetches the offers for the requested item and buys the cheapest one the
// marketplace accepts.
func (s *BuyService) Buy(ctx context.Context, req entity.BuyRequest) (entity.Result, error) {
	req.HashName = strings.TrimSpace(req.HashName)
	if req.HashName == "" {
		return entity.Result{}, failure.NewInvalidArgumentError(
			"empty hash name",
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription("hash name is required"),
		)
	}

	ctx = contextx.WithLogger(ctx, logger(ctx).With(
		slog.String(logx.FieldHashName, req.HashName),
		slog.String(logx.FieldRequestID, req.RequestID),
	))

	replayed, ok, err := s.replay(ctx, req.RequestID)
	if err != nil {
		return entity.Result{}, err
	}
	if ok {
		logger(ctx).Info("request already fulfilled", slog.String(logx.FieldPurchaseID, replayed.PurchaseID))
		return replayed, nil
	}

	started := s.now()

	result, err := s.buy(ctx, req)

	if s.observer != nil {
		s.observer.ObserveRun(outcome(err), s.now().Sub(started))
	}

	s.record(ctx, req, result, err)

	if err != nil {
		attrs := []any{logx.Error(err)}
		if domainErr, ok := domain.AsError(err); ok {
			attrs = append(attrs, logx.Code(domainErr.Code, domainErr.Source.String()))
		}

		logger(ctx).Warn("purchase failed", attrs...)

		return entity.Result{}, err
	}

	logger(ctx).Info("item bought",
		slog.String(logx.FieldPurchaseID, result.PurchaseID),
		slog.Int64("price", result.Price.Int64()),
		slog.Int64("listed_price", result.ListedPrice.Int64()),
	)

	return result, nil
}

func (s *BuyService) buy(ctx context.Context, req entity.BuyRequest) (entity.Result, error) {
	queue, err := s.catalog.Fetch(ctx, req.HashName, req.MaxPrice)
	if err != nil {
		return entity.Result{}, err
	}

	return s.orchestrator.Run(ctx, queue, req.Recipient)
}

// replay returns the result of an earlier successful run with the same
// request id. Failed runs are not replayed.
func (s *BuyService) replay(ctx context.Context, requestID string) (entity.Result, bool, error) {
	if requestID == "" || s.purchaseLog == nil {
		return entity.Result{}, false, nil
	}

	record, err := s.purchaseLog.GetByRequestID(ctx, requestID)
	if domain.IsKind(err, errcodes.NotFound) {
		return entity.Result{}, false, nil
	}
	if err != nil {
		return entity.Result{}, false, fmt.Errorf("purchaseLog.GetByRequestID: %w", err)
	}

	if !record.Succeeded() {
		return entity.Result{}, false, nil
	}

	return entity.Result{
		PurchaseID:  record.PurchaseID,
		ClassID:     record.ClassID,
		InstanceID:  record.InstanceID,
		Price:       record.Price,
		ListedPrice: record.ListedPrice,
	}, true, nil
}

// ItemStage reports where a bought item is in the delivery process.
func (s *BuyService) ItemStage(ctx context.Context, itemID int64, approx *time.Time) (value.Stage, error) {
	if itemID <= 0 {
		return 0, failure.NewInvalidArgumentError(
			fmt.Sprintf("invalid item id %d", itemID),
			failure.WithCode(errcodes.InvalidItemID),
			failure.WithDescription("item id must be positive"),
		)
	}

	return s.reconciler.Resolve(ctx, itemID, approx)
}

func (s *BuyService) Settings(ctx context.Context) (entity.Settings, error) {
	balance, err := s.wallet.Balance(ctx)
	if err != nil {
		return entity.Settings{}, fmt.Errorf("wallet.Balance: %w", err)
	}

	ratio, err := s.wallet.DiscountRatio(ctx)
	if err != nil {
		return entity.Settings{}, fmt.Errorf("wallet.DiscountRatio: %w", err)
	}

	return entity.Settings{Balance: balance, Discount: ratio}, nil
}

func (s *BuyService) SetBalance(ctx context.Context, balance value.Balance) error {
	if err := s.wallet.SetBalance(ctx, balance); err != nil {
		return fmt.Errorf("wallet.SetBalance: %w", err)
	}

	logger(ctx).Info("balance set", slog.String("balance", balance.String()))

	return nil
}

func (s *BuyService) SetDiscountRatio(ctx context.Context, ratio value.DiscountRatio) error {
	if err := s.wallet.SetDiscountRatio(ctx, ratio); err != nil {
		return fmt.Errorf("wallet.SetDiscountRatio: %w", err)
	}

	logger(ctx).Info("discount ratio set", slog.String("ratio", ratio.String()))

	return nil
}

// SyncBalance copies the marketplace's reported balance into the wallet.
func (s *BuyService) SyncBalance(ctx context.Context) (value.Price, error) {
	money, err := s.market.Money(ctx)
	if err != nil {
		return 0, domain.WrapError(err, errcodes.RequestFailed, domain.SourceMarket, "balance request failed")
	}

	if err := s.SetBalance(ctx, value.KnownBalance(money)); err != nil {
		return 0, err
	}

	return money, nil
}

// RecentPurchases returns the newest purchase log entries.
func (s *BuyService) RecentPurchases(ctx context.Context, limit int) ([]entity.PurchaseRecord, error) {
	if s.purchaseLog == nil {
		return nil, nil
	}

	records, err := s.purchaseLog.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("purchaseLog.ListRecent: %w", err)
	}

	return records, nil
}

func (s *BuyService) record(ctx context.Context, req entity.BuyRequest, result entity.Result, err error) {
	rec := entity.PurchaseRecord{
		ID:          xid.New().String(),
		RequestID:   req.RequestID,
		HashName:    req.HashName,
		PurchaseID:  result.PurchaseID,
		ClassID:     result.ClassID,
		InstanceID:  result.InstanceID,
		Price:       result.Price,
		ListedPrice: result.ListedPrice,
		CreatedAt:   s.now().UTC(),
	}

	if ceiling, ok := req.MaxPrice.Get(); ok {
		rec.MaxPrice = &ceiling
	}

	var domainErr *domain.Error
	switch {
	case err == nil:
	case errors.As(err, &domainErr):
		rec.ErrorCode = domainErr.Code.String()
		rec.ErrorSource = domainErr.Source.String()
		rec.Message = domainErr.Message
	default:
		rec.ErrorCode = errcodes.InternalServerError.String()
		rec.Message = err.Error()
	}

	if s.purchaseLog != nil {
		if saveErr := s.purchaseLog.Save(ctx, rec); saveErr != nil {
			logger(ctx).Error("failed to save purchase record", logx.Error(saveErr))
		}
	}

	if s.notifier == nil {
		return
	}

	switch {
	case err == nil:
		s.notifier.NotifyPurchase(ctx, req, result)
	case domainErr != nil && domainErr.Source != domain.SourceMarket:
		s.notifier.NotifyFailure(ctx, req, domainErr)
	}
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}

	if code, ok := domain.GetCode(err); ok {
		return code.String()
	}

	return errcodes.InternalServerError.String()
}
