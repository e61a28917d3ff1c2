package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"market_buyer/internal/domain/entity"
	"market_buyer/internal/domain/value"
)

func TestParseBuyArgs(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name string
		text string
		want entity.BuyRequest
		err  error
	}{
		{
			name: "With ceiling",
			text: "/buy 1500 AK-47 | Redline (Field-Tested)",
			want: entity.BuyRequest{HashName: "AK-47 | Redline (Field-Tested)", MaxPrice: value.CeilingOf(1500)},
		},
		{
			name: "Without ceiling",
			text: "/buy -   AWP  |  Asiimov",
			want: entity.BuyRequest{HashName: "AWP | Asiimov", MaxPrice: value.NoCeiling()},
		},
		{name: "Missing name", text: "/buy 100", err: errUsage},
		{name: "Negative price", text: "/buy -5 AWP", err: errInvalidPrice},
		{name: "Not a number", text: "/buy cheap AWP", err: errInvalidPrice},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			got, err := parseBuyArgs(tc.text)
			if tc.err != nil {
				rq.ErrorIs(err, tc.err)
				return
			}

			rq.NoError(err)
			rq.Equal(tc.want, got)
		})
	}
}

func TestParseStageArgs(t *testing.T) {
	rq := require.New(t)

	itemID, approx, err := parseStageArgs("/stage 4242")
	rq.NoError(err)
	rq.Equal(int64(4242), itemID)
	rq.Nil(approx)

	itemID, approx, err = parseStageArgs("/stage 4242 1773489600")
	rq.NoError(err)
	rq.Equal(int64(4242), itemID)
	rq.Equal(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC), *approx)

	_, _, err = parseStageArgs("/stage")
	rq.ErrorIs(err, errUsage)

	_, _, err = parseStageArgs("/stage abc")
	rq.ErrorIs(err, errInvalidID)

	_, _, err = parseStageArgs("/stage 1 yesterday")
	rq.ErrorIs(err, errInvalidTime)
}

func TestParseBalanceArg(t *testing.T) {
	rq := require.New(t)

	balance, err := parseBalanceArg("12345")
	rq.NoError(err)
	rq.Equal(value.KnownBalance(12345), balance)

	balance, err = parseBalanceArg("Unknown")
	rq.NoError(err)
	rq.False(balance.IsKnown())

	_, err = parseBalanceArg("12.5")
	rq.ErrorIs(err, errInvalidPrice)
}

func TestHistoryPage(t *testing.T) {
	rq := require.New(t)

	records := make([]entity.PurchaseRecord, 25)
	for i := range records {
		records[i] = entity.PurchaseRecord{HashName: "AWP", PurchaseID: "1", Price: 100}
	}
	records[20].ErrorCode = "NeedMoney"

	text, keyboard := historyPage(records, 3)
	rq.Contains(text, "(Стр. 3/3)")
	rq.Contains(text, "<code>NeedMoney</code>")
	rq.Len(keyboard.InlineKeyboard[0], 2)
	rq.Equal("history_page:2", keyboard.InlineKeyboard[0][0].CallbackData)

	text, _ = historyPage(records, 99)
	rq.Contains(text, "(Стр. 3/3)")

	_, keyboard = historyPage(records, 0)
	rq.Len(keyboard.InlineKeyboard[0], 2)
	rq.Equal("history_page:2", keyboard.InlineKeyboard[0][1].CallbackData)
}
