package handler

import (
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"market_buyer/internal/domain/entity"
	"market_buyer/internal/transport/bot/view"
	"market_buyer/pkg/logx"
)

const (
	historyPagePrefix = "history_page"
	historyPageSize   = 10
	historyDepth      = 100
)

func (h *Handler) OnHistory(ctx *th.Context, msg telego.Message) error {
	records, err := h.svc.RecentPurchases(ctx, historyDepth)
	if err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, view.HistoryError)
	}

	if len(records) == 0 {
		return h.sendHTML(ctx, msg.Chat.ID, view.HistoryEmpty)
	}

	text, keyboard := historyPage(records, 1)

	_, err = ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:      telego.ChatID{ID: msg.Chat.ID},
		Text:        text,
		ParseMode:   telego.ModeHTML,
		ReplyMarkup: keyboard,
	})
	return err
}

func (h *Handler) OnHistoryCallback(ctx *th.Context, query telego.CallbackQuery) error {
	// Формат: "history_page:<number>"
	var page int
	if _, err := fmt.Sscanf(query.Data, historyPagePrefix+":%d", &page); err != nil || page < 1 {
		page = 1
	}

	records, err := h.svc.RecentPurchases(ctx, historyDepth)
	if err != nil {
		_ = ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID).
			WithText("❌ Ошибка получения данных").WithShowAlert())
		return err
	}

	text, keyboard := historyPage(records, page)

	if query.Message == nil {
		return ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID))
	}

	_, err = ctx.Bot().EditMessageText(ctx, &telego.EditMessageTextParams{
		ChatID:      tu.ID(query.Message.GetChat().ID),
		MessageID:   query.Message.GetMessageID(),
		Text:        text,
		ParseMode:   telego.ModeHTML,
		ReplyMarkup: keyboard,
	})
	if err != nil {
		// Telegram отвечает ошибкой, если страница не изменилась.
		logger(ctx).Debug("history page not edited", logx.Error(err))
	}

	return ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID))
}

func historyPage(records []entity.PurchaseRecord, page int) (string, *telego.InlineKeyboardMarkup) {
	totalPages := max((len(records)+historyPageSize-1)/historyPageSize, 1)
	page = min(max(page, 1), totalPages)

	start := (page - 1) * historyPageSize
	end := min(start+historyPageSize, len(records))

	var sb strings.Builder
	fmt.Fprintf(&sb, view.HistoryTemplate, page, totalPages)
	writeRecords(&sb, records[start:end])

	return sb.String(), createPaginationKeyboard(page, totalPages)
}

func createPaginationKeyboard(page, totalPages int) *telego.InlineKeyboardMarkup {
	var buttons []telego.InlineKeyboardButton

	if page > 1 {
		buttons = append(buttons, tu.InlineKeyboardButton("⬅️").
			WithCallbackData(fmt.Sprintf("%s:%d", historyPagePrefix, page-1)))
	}

	buttons = append(buttons, tu.InlineKeyboardButton(fmt.Sprintf("%d / %d", page, totalPages)).
		WithCallbackData("noop"))

	if page < totalPages {
		buttons = append(buttons, tu.InlineKeyboardButton("➡️").
			WithCallbackData(fmt.Sprintf("%s:%d", historyPagePrefix, page+1)))
	}

	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(buttons...),
	)
}
