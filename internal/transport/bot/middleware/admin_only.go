package middleware

import (
	"log/slog"
	"slices"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"market_buyer/pkg/contextx"
	"market_buyer/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// AdminOnly пропускает дальше только обновления от администраторов.
func AdminOnly(adminIDs ...int64) th.Handler {
	return func(ctx *th.Context, update telego.Update) error {
		var from *telego.User

		switch {
		case update.Message != nil:
			from = update.Message.From
		case update.CallbackQuery != nil:
			from = &update.CallbackQuery.From
		}

		if from == nil {
			return nil
		}

		if !slices.Contains(adminIDs, from.ID) {
			logger(ctx).Warn("update from non-admin ignored", slog.Int64(logx.FieldUserID, from.ID))
			return nil
		}

		return ctx.Next(update)
	}
}
