package classifier_test

import (
	"context"
	"testing"

	"git.appkode.ru/pub/go/failure"
	"github.com/stretchr/testify/require"

	"market_buyer/internal/domain"
	"market_buyer/internal/domain/service/classifier"
	"market_buyer/pkg/errcodes"
)

func TestClassify(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	testCases := []struct {
		name    string
		message string
		kind    failure.ErrorCode
		source  domain.Source
		routing classifier.Routing
		known   bool
	}{
		{
			name:    "Success message",
			message: "ok",
			routing: classifier.TransparentSuccess,
			known:   true,
		},
		{
			name:    "Bad offer price",
			message: "Bad offer price",
			kind:    errcodes.BadOfferPrice,
			source:  domain.SourceMarket,
			routing: classifier.Fatal,
			known:   true,
		},
		{
			name:    "Expired offer",
			message: "Offer not found",
			source:  domain.SourceMarket,
			routing: classifier.SilentRetry,
			known:   true,
		},
		{
			name:    "Contested offer",
			message: "Someone is already buying this item",
			source:  domain.SourceMarket,
			routing: classifier.SilentRetry,
			known:   true,
		},
		{
			name:    "Steam hiccup",
			message: "Steam is not responding",
			source:  domain.SourceMarket,
			routing: classifier.SilentRetry,
			known:   true,
		},
		{
			name:    "Pending items",
			message: "You have items to take, withdraw them before buying",
			kind:    errcodes.NeedToTake,
			source:  domain.SourceOwner,
			routing: classifier.Fatal,
			known:   true,
		},
		{
			name:    "Insufficient balance",
			message: "Not enough money",
			kind:    errcodes.NeedMoney,
			source:  domain.SourceOwner,
			routing: classifier.Fatal,
			known:   true,
		},
		{
			name:    "Malformed trade link",
			message: "Invalid trade link",
			kind:    errcodes.InvalidToken,
			source:  domain.SourceUser,
			routing: classifier.Fatal,
			known:   true,
		},
		{
			name:    "Private inventory",
			message: "Steam inventory is private",
			kind:    errcodes.InventoryClosed,
			source:  domain.SourceUser,
			routing: classifier.Fatal,
			known:   true,
		},
		{
			name:    "Offline trade",
			message: "Unable to send an offline trade",
			kind:    errcodes.UnableOfflineTrade,
			source:  domain.SourceUser,
			routing: classifier.Fatal,
			known:   true,
		},
		{
			name:    "Ban",
			message: "Account has a VAC or game ban",
			kind:    errcodes.VacGameBan,
			source:  domain.SourceUser,
			routing: classifier.Fatal,
			known:   true,
		},
		{
			name:    "Bot declined trades",
			message: "Too many trades were declined by the bot",
			kind:    errcodes.BotCanceledTrades,
			source:  domain.SourceUser,
			routing: classifier.Fatal,
			known:   true,
		},
		{
			name:    "User declined trades",
			message: "Too many declined trades",
			kind:    errcodes.CanceledTrades,
			source:  domain.SourceUser,
			routing: classifier.Fatal,
			known:   true,
		},
		{
			name:    "Surrounding whitespace",
			message: "  Not enough money\n",
			kind:    errcodes.NeedMoney,
			source:  domain.SourceOwner,
			routing: classifier.Fatal,
			known:   true,
		},
		{
			name:    "Unknown message",
			message: "something new and strange",
			source:  domain.SourceMarket,
			routing: classifier.SilentRetry,
			known:   false,
		},
		{
			name:    "Empty message",
			message: "",
			source:  domain.SourceMarket,
			routing: classifier.SilentRetry,
			known:   false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			v := classifier.Classify(ctx, tc.message)

			rq.Equal(tc.kind, v.Kind)
			rq.Equal(tc.source, v.Source)
			rq.Equal(tc.routing, v.Routing)
			rq.Equal(tc.known, v.Known)
		})
	}
}

func TestClassifyNeverFatalForUnknown(t *testing.T) {
	rq := require.New(t)

	for _, msg := range []string{"Bad KEY", "bad offer price", "NOT ENOUGH MONEY", "{}"} {
		rq.NotEqual(classifier.Fatal, classifier.Classify(context.Background(), msg).Routing, msg)
	}
}

func TestVerdictErr(t *testing.T) {
	rq := require.New(t)

	v := classifier.Classify(context.Background(), "Invalid trade link")
	err := v.Err("Invalid trade link")

	rq.True(domain.IsKind(err, errcodes.InvalidToken))

	source, ok := domain.GetSource(err)
	rq.True(ok)
	rq.Equal(domain.SourceUser, source)

	msg, ok := err.Value(domain.KeyMessage)
	rq.True(ok)
	rq.Equal("Invalid trade link", msg)
}
