package buyer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/stretchr/testify/require"

	"market_buyer/internal/domain"
	"market_buyer/internal/domain/entity"
	"market_buyer/internal/domain/service/buyer"
	"market_buyer/internal/domain/service/classifier"
	"market_buyer/internal/domain/value"
	"market_buyer/pkg/errcodes"
)

const item = "M4A1-S | Printstream (Field-Tested)"

type marketMock struct {
	offers   []entity.Offer
	submit   func(offer entity.Offer, price value.Price) (entity.Receipt, error)
	events   []entity.HistoryEvent
	money    value.Price
	moneyErr error
}

func (m *marketMock) SearchOffers(context.Context, string) (entity.OfferPage, error) {
	return entity.OfferPage{Success: true, Offers: m.offers}, nil
}

func (m *marketMock) SubmitPurchase(
	_ context.Context,
	offer entity.Offer,
	price value.Price,
	_ *entity.Recipient,
) (entity.Receipt, error) {
	return m.submit(offer, price)
}

func (m *marketMock) QueryHistory(context.Context, time.Time, time.Time) (entity.HistoryPage, error) {
	return entity.HistoryPage{Success: true, Events: m.events}, nil
}

func (m *marketMock) Money(context.Context) (value.Price, error) {
	return m.money, m.moneyErr
}

type walletMock struct {
	balance value.Balance
	ratio   value.DiscountRatio
}

func (m *walletMock) Balance(context.Context) (value.Balance, error) { return m.balance, nil }

func (m *walletMock) DiscountRatio(context.Context) (value.DiscountRatio, error) { return m.ratio, nil }

func (m *walletMock) SetBalance(_ context.Context, balance value.Balance) error {
	m.balance = balance
	return nil
}

func (m *walletMock) SetDiscountRatio(_ context.Context, ratio value.DiscountRatio) error {
	m.ratio = ratio
	return nil
}

type purchaseLogMock struct {
	records []entity.PurchaseRecord
	err     error
}

func (m *purchaseLogMock) Save(_ context.Context, record entity.PurchaseRecord) error {
	m.records = append(m.records, record)
	return nil
}

func (m *purchaseLogMock) GetByRequestID(_ context.Context, requestID string) (entity.PurchaseRecord, error) {
	if m.err != nil {
		return entity.PurchaseRecord{}, m.err
	}

	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].RequestID == requestID {
			return m.records[i], nil
		}
	}

	return entity.PurchaseRecord{}, domain.NewError(errcodes.NotFound, domain.SourceOwner, "purchase not found")
}

func (m *purchaseLogMock) ListRecent(_ context.Context, limit int) ([]entity.PurchaseRecord, error) {
	return m.records[:min(limit, len(m.records))], nil
}

type notifierMock struct {
	purchases []entity.Result
	failures  []*domain.Error
}

func (m *notifierMock) NotifyPurchase(_ context.Context, _ entity.BuyRequest, result entity.Result) {
	m.purchases = append(m.purchases, result)
}

func (m *notifierMock) NotifyFailure(_ context.Context, _ entity.BuyRequest, err *domain.Error) {
	m.failures = append(m.failures, err)
}

type observerMock struct {
	outcomes []string
	attempts int
}

func (m *observerMock) ObserveAttempt(classifier.Routing, string, string) { m.attempts++ }

func (m *observerMock) ObserveRun(outcome string, _ time.Duration) {
	m.outcomes = append(m.outcomes, outcome)
}

func offer(price value.Price) entity.Offer {
	return entity.Offer{HashName: item, ClassID: "1", InstanceID: "2", Price: price, ListingCount: 1}
}

func accept(o entity.Offer, _ value.Price) (entity.Receipt, error) {
	return entity.Receipt{PurchaseID: "42", ClassID: o.ClassID, InstanceID: o.InstanceID}, nil
}

func TestBuy(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name     string
		offers   []entity.Offer
		submit   func(entity.Offer, value.Price) (entity.Receipt, error)
		balance  value.Balance
		ceiling  value.Ceiling
		code     failure.ErrorCode
		notified int
		failures int
	}{
		{
			name:     "Bought",
			offers:   []entity.Offer{offer(200), offer(100)},
			submit:   accept,
			balance:  value.UnknownBalance(),
			ceiling:  value.NoCeiling(),
			notified: 1,
		},
		{
			name:     "Too high prices",
			offers:   []entity.Offer{offer(200)},
			submit:   accept,
			balance:  value.UnknownBalance(),
			ceiling:  value.CeilingOf(100),
			code:     errcodes.TooHighPrices,
			failures: 1,
		},
		{
			name:     "Need money",
			offers:   []entity.Offer{offer(200)},
			submit:   accept,
			balance:  value.KnownBalance(10),
			ceiling:  value.NoCeiling(),
			code:     errcodes.NeedMoney,
			failures: 1,
		},
		{
			name:   "Attempts failed not notified",
			offers: []entity.Offer{offer(100)},
			submit: func(entity.Offer, value.Price) (entity.Receipt, error) {
				return entity.Receipt{}, &domain.RawError{Message: "Offer not found"}
			},
			balance: value.UnknownBalance(),
			ceiling: value.NoCeiling(),
			code:    errcodes.AttemptsFailed,
		},
		{
			name:   "User error notified",
			offers: []entity.Offer{offer(100)},
			submit: func(entity.Offer, value.Price) (entity.Receipt, error) {
				return entity.Receipt{}, &domain.RawError{Message: "Steam inventory is private", Status: 200}
			},
			balance:  value.UnknownBalance(),
			ceiling:  value.NoCeiling(),
			code:     errcodes.InventoryClosed,
			failures: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			market := &marketMock{offers: tc.offers, submit: tc.submit}
			wallet := &walletMock{balance: tc.balance}
			purchaseLog := &purchaseLogMock{}
			notifier := &notifierMock{}
			observer := &observerMock{}

			svc := buyer.NewBuyService(market, wallet, buyer.Options{}).
				WithPurchaseLog(purchaseLog).
				WithNotifier(notifier).
				WithObserver(observer)

			result, err := svc.Buy(context.Background(), entity.BuyRequest{
				RequestID: "req-1",
				HashName:  "  " + item + " ",
				MaxPrice:  tc.ceiling,
			})

			rq.Len(purchaseLog.records, 1)
			rq.Equal("req-1", purchaseLog.records[0].RequestID)
			rq.Equal(item, purchaseLog.records[0].HashName)
			rq.Len(notifier.purchases, tc.notified)
			rq.Len(notifier.failures, tc.failures)
			rq.Len(observer.outcomes, 1)

			if tc.code != "" {
				rq.True(domain.IsKind(err, tc.code), "%v", err)
				rq.Equal(tc.code.String(), purchaseLog.records[0].ErrorCode)
				rq.Equal(tc.code.String(), observer.outcomes[0])
				rq.False(purchaseLog.records[0].Succeeded())

				return
			}

			rq.NoError(err)
			rq.Equal("42", result.PurchaseID)
			rq.Equal(value.Price(100), result.Price)
			rq.True(purchaseLog.records[0].Succeeded())
			rq.Equal("success", observer.outcomes[0])
		})
	}
}

func TestBuyReplaysFulfilledRequest(t *testing.T) {
	rq := require.New(t)

	submits := 0
	market := &marketMock{offers: []entity.Offer{offer(100)}, submit: func(o entity.Offer, p value.Price) (entity.Receipt, error) {
		submits++
		if submits == 1 {
			return entity.Receipt{}, &domain.RawError{Message: "Steam inventory is private", Status: 200}
		}
		return accept(o, p)
	}}
	purchaseLog := &purchaseLogMock{}
	svc := buyer.NewBuyService(market, &walletMock{balance: value.UnknownBalance()}, buyer.Options{}).
		WithPurchaseLog(purchaseLog)

	req := entity.BuyRequest{RequestID: "req-1", HashName: item}

	_, err := svc.Buy(context.Background(), req)
	rq.True(domain.IsKind(err, errcodes.InventoryClosed))

	first, err := svc.Buy(context.Background(), req)
	rq.NoError(err)

	second, err := svc.Buy(context.Background(), req)
	rq.NoError(err)
	rq.Equal(first, second)
	rq.Equal(2, submits)
	rq.Len(purchaseLog.records, 2)

	purchaseLog.err = errors.New("connection reset")
	_, err = svc.Buy(context.Background(), req)
	rq.Error(err)
	rq.Equal(2, submits)
}

func TestBuyValidation(t *testing.T) {
	rq := require.New(t)

	svc := buyer.NewBuyService(&marketMock{}, &walletMock{}, buyer.Options{})

	_, err := svc.Buy(context.Background(), entity.BuyRequest{HashName: "   "})
	rq.True(failure.IsInvalidArgumentError(err))

	_, err = svc.ItemStage(context.Background(), 0, nil)
	rq.True(failure.IsInvalidArgumentError(err))
}

func TestBuyPriceScale(t *testing.T) {
	rq := require.New(t)

	market := &marketMock{offers: []entity.Offer{offer(1500), offer(2500)}, submit: accept}
	svc := buyer.NewBuyService(market, &walletMock{balance: value.UnknownBalance()}, buyer.Options{PriceScale: 100})

	result, err := svc.Buy(context.Background(), entity.BuyRequest{HashName: item, MaxPrice: value.CeilingOf(20)})
	rq.NoError(err)
	rq.Equal(value.Price(1500), result.ListedPrice)

	_, err = svc.Buy(context.Background(), entity.BuyRequest{HashName: item, MaxPrice: value.CeilingOf(10)})
	rq.True(domain.IsKind(err, errcodes.TooHighPrices))
}

func TestItemStage(t *testing.T) {
	rq := require.New(t)

	market := &marketMock{events: []entity.HistoryEvent{{ItemID: 9, Stage: value.StageDelivered, Time: time.Now()}}}
	svc := buyer.NewBuyService(market, &walletMock{}, buyer.Options{})

	stage, err := svc.ItemStage(context.Background(), 9, nil)
	rq.NoError(err)
	rq.Equal(value.StageDelivered, stage)
}

func TestSettings(t *testing.T) {
	rq := require.New(t)

	wallet := &walletMock{balance: value.UnknownBalance(), ratio: value.ZeroDiscount()}
	market := &marketMock{money: 12345}
	svc := buyer.NewBuyService(market, wallet, buyer.Options{})

	ratio, err := value.ParseDiscountRatio("0.03")
	rq.NoError(err)
	rq.NoError(svc.SetDiscountRatio(context.Background(), ratio))

	money, err := svc.SyncBalance(context.Background())
	rq.NoError(err)
	rq.Equal(value.Price(12345), money)

	settings, err := svc.Settings(context.Background())
	rq.NoError(err)
	rq.Equal(value.KnownBalance(12345), settings.Balance)
	rq.Equal("0.03", settings.Discount.String())

	market.moneyErr = errors.New("unauthorized")
	_, err = svc.SyncBalance(context.Background())
	rq.True(domain.IsKind(err, errcodes.RequestFailed))
}
