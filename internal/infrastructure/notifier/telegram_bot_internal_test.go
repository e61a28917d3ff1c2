package notifier

import (
	"context"
	"errors"
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/require"

	"market_buyer/internal/domain"
	"market_buyer/internal/domain/entity"
	"market_buyer/internal/domain/value"
	"market_buyer/pkg/errcodes"
)

type senderMock struct {
	sent []*telego.SendMessageParams
	err  error
}

func (m *senderMock) SendMessage(_ context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	m.sent = append(m.sent, params)
	return &telego.Message{}, m.err
}

func TestNotifyPurchase(t *testing.T) {
	rq := require.New(t)

	bot := &senderMock{}
	n := newTelegramBot(bot, 42)

	n.NotifyPurchase(context.Background(),
		entity.BuyRequest{HashName: "AK-47 | Redline <FT>"},
		entity.Result{PurchaseID: "987", ClassID: "1", InstanceID: "2", Price: 950, ListedPrice: 1000},
	)

	rq.Len(bot.sent, 1)
	rq.Equal(int64(42), bot.sent[0].ChatID.ID)
	rq.Equal(telego.ModeHTML, bot.sent[0].ParseMode)
	rq.Contains(bot.sent[0].Text, "AK-47 | Redline &lt;FT&gt;")
	rq.Contains(bot.sent[0].Text, "950 (в листинге 1000)")
	rq.Contains(bot.sent[0].Text, "<code>1_2</code>")
}

func TestNotifyFailure(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name     string
		err      *domain.Error
		contains []string
		excludes []string
	}{
		{
			name: "Owner error",
			err: domain.NewError(errcodes.NeedMoney, domain.SourceOwner, "balance is too low").
				With(domain.KeyNeedMoney, value.Price(1500)).
				With(domain.KeyShortfall, value.Price(300)).
				With(domain.KeyOffer, entity.Offer{HashName: "secret"}),
			contains: []string{"оператора", "<code>NeedMoney</code> (owner)", "needMoney: <code>1500</code>", "shortfall: <code>300</code>"},
			excludes: []string{"secret"},
		},
		{
			name:     "User error",
			err:      domain.NewError(errcodes.InvalidToken, domain.SourceUser, "Invalid trade link"),
			contains: []string{"Покупка остановлена", "<code>InvalidToken</code> (user)"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			bot := &senderMock{}

			newTelegramBot(bot, 1).NotifyFailure(context.Background(), entity.BuyRequest{HashName: "AWP"}, tc.err)

			rq.Len(bot.sent, 1)

			for _, s := range tc.contains {
				rq.Contains(bot.sent[0].Text, s)
			}

			for _, s := range tc.excludes {
				rq.NotContains(bot.sent[0].Text, s)
			}
		})
	}
}

func TestSendErrorsAreSwallowed(t *testing.T) {
	rq := require.New(t)

	bot := &senderMock{err: errors.New("chat not found")}

	rq.NotPanics(func() {
		newTelegramBot(bot, 1).NotifyPurchase(context.Background(), entity.BuyRequest{}, entity.Result{})
	})
	rq.Error(newTelegramBot(bot, 1).SendHTML(context.Background(), "hi"))
}
