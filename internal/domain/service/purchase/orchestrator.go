package purchase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"market_buyer/internal/domain"
	"market_buyer/internal/domain/entity"
	"market_buyer/internal/domain/service/classifier"
	"market_buyer/internal/domain/value"
	"market_buyer/pkg/contextx"
	"market_buyer/pkg/errcodes"
	"market_buyer/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type Purchaser interface {
	SubmitPurchase(
		ctx context.Context,
		offer entity.Offer,
		price value.Price,
		recipient *entity.Recipient,
	) (entity.Receipt, error)
}

type BalanceProvider interface {
	Balance(ctx context.Context) (value.Balance, error)
}

type DiscountProvider interface {
	DiscountRatio(ctx context.Context) (value.DiscountRatio, error)
}

// Observer receives one call per finished attempt.
type Observer interface {
	ObserveAttempt(routing classifier.Routing, kind, reason string)
}

type nopObserver struct{}

func (nopObserver) ObserveAttempt(classifier.Routing, string, string) {}

// Orchestrator drives the buy-attempt loop over an offer queue.
type Orchestrator struct {
	purchaser      Purchaser
	balances       BalanceProvider
	discounts      DiscountProvider
	observer       Observer
	adjustPrice    bool
	applyDiscounts bool
}

func NewOrchestrator(
	purchaser Purchaser,
	balances BalanceProvider,
	discounts DiscountProvider,
) *Orchestrator {
	return &Orchestrator{
		purchaser: purchaser,
		balances:  balances,
		discounts: discounts,
		observer:  nopObserver{},
	}
}

// WithPriceFloorAdjustment bids just under the next cheapest offer instead of
// the listed price.
func (o *Orchestrator) WithPriceFloorAdjustment(enabled bool) *Orchestrator {
	o.adjustPrice = enabled
	return o
}

func (o *Orchestrator) WithDiscounts(enabled bool) *Orchestrator {
	o.applyDiscounts = enabled
	return o
}

func (o *Orchestrator) WithObserver(observer Observer) *Orchestrator {
	if observer != nil {
		o.observer = observer
	}
	return o
}

// Run tries offers from the front of queue until one is bought, a fatal error
// occurs, or the queue runs out.
func (o *Orchestrator) Run(
	ctx context.Context,
	queue *entity.OfferQueue,
	recipient *entity.Recipient,
) (entity.Result, error) {
	badPriceRetried := false

	for n := 1; ; n++ {
		if queue.Empty() {
			return entity.Result{}, domain.NewError(errcodes.AttemptsFailed, domain.SourceMarket,
				fmt.Sprintf("no offer accepted after %d attempts", n-1))
		}

		balance, err := o.balances.Balance(ctx)
		if err != nil {
			return entity.Result{}, fmt.Errorf("balances.Balance: %w", err)
		}

		candidate, _ := queue.Pop()
		attempt := o.prepare(candidate, queue)

		if needMoney := Admit(balance, attempt.Price); needMoney != nil {
			return entity.Result{}, needMoney.
				With(domain.KeyListedPrice, candidate.Price).
				With(domain.KeyOffer, candidate)
		}

		log := logger(ctx).With(
			slog.Int("attempt", n),
			slog.Int64("price", attempt.Price.Int64()),
			slog.Int64("listed_price", attempt.ListedPrice().Int64()),
			slog.String(logx.FieldAsset, candidate.AssetKey()),
		)
		log.Info("submitting purchase")

		receipt, err := o.purchaser.SubmitPurchase(ctx, attempt.Offer, attempt.Price, recipient)
		if err == nil {
			o.observer.ObserveAttempt(classifier.TransparentSuccess, "", "")
			return o.result(ctx, attempt, receipt), nil
		}

		if ctx.Err() != nil {
			return entity.Result{}, fmt.Errorf("purchaser.SubmitPurchase: %w", err)
		}

		var raw *domain.RawError
		if !errors.As(err, &raw) {
			o.observer.ObserveAttempt(classifier.SilentRetry, "", classifier.ReasonServer)
			log.Warn("purchase attempt failed, trying next offer", logx.Error(err))
			continue
		}

		verdict := classifier.Classify(ctx, raw.Message)
		o.observer.ObserveAttempt(verdict.Routing, string(verdict.Kind), verdict.Reason)

		switch verdict.Routing {
		case classifier.TransparentSuccess:
			return o.result(ctx, attempt, entity.Receipt{
				PurchaseID: raw.PurchaseID,
				ClassID:    candidate.ClassID,
				InstanceID: candidate.InstanceID,
			}), nil
		case classifier.SilentRetry:
			log.Info("offer rejected, trying next offer",
				slog.String("message", raw.Message),
				slog.String("reason", verdict.Reason),
			)
			continue
		}

		if verdict.Kind == errcodes.BadOfferPrice && !badPriceRetried {
			badPriceRetried = true
			log.Info("offer price rejected, retrying once", slog.String("message", raw.Message))
			continue
		}

		fatal := verdict.Err(raw.Message)
		if raw.Status != 0 {
			fatal.With(domain.KeyOffer, candidate).With(domain.KeyStatus, raw.Status)
		}

		log.Warn("purchase stopped", logx.Error(fatal))

		return entity.Result{}, fatal
	}
}

// prepare builds the attempt for candidate. With price-floor adjustment the
// bid is raised to one unit below the next offer, never lowered.
func (o *Orchestrator) prepare(candidate entity.Offer, rest *entity.OfferQueue) entity.Attempt {
	attempt := entity.Attempt{Offer: candidate, Price: candidate.Price}

	if !o.adjustPrice {
		return attempt
	}

	if next, ok := rest.Peek(); ok {
		attempt.Price = max(candidate.Price, next.Price-1)
	}

	return attempt
}

func (o *Orchestrator) result(ctx context.Context, attempt entity.Attempt, receipt entity.Receipt) entity.Result {
	base := attempt.Price
	if receipt.MinPrice > 0 {
		base = receipt.MinPrice
	}

	classID, instanceID := receipt.ClassID, receipt.InstanceID
	if classID == "" {
		classID, instanceID = attempt.Offer.ClassID, attempt.Offer.InstanceID
	}

	return entity.Result{
		PurchaseID:  receipt.PurchaseID,
		ClassID:     classID,
		InstanceID:  instanceID,
		Price:       o.discount(ctx, base),
		ListedPrice: attempt.ListedPrice(),
	}
}

func (o *Orchestrator) discount(ctx context.Context, base value.Price) value.Price {
	if !o.applyDiscounts || o.discounts == nil {
		return base
	}

	ratio, err := o.discounts.DiscountRatio(ctx)
	if err != nil {
		logger(ctx).Warn("discount ratio unavailable, using listed price", logx.Error(err))
		return base
	}

	return ratio.Apply(base)
}
