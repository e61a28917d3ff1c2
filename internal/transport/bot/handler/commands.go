package handler

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"market_buyer/internal/domain"
	"market_buyer/internal/domain/entity"
	"market_buyer/internal/domain/value"
	"market_buyer/internal/transport/bot/view"
	"market_buyer/pkg/logx"
)

const statusRecent = 5

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.StartMessage)
}

func (h *Handler) OnStatus(ctx *th.Context, msg telego.Message) error {
	settings, err := h.svc.Settings(ctx)
	if err != nil {
		return fmt.Errorf("svc.Settings: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, view.StatusTemplate, settings.Balance, settings.Discount)

	records, err := h.svc.RecentPurchases(ctx, statusRecent)
	if err != nil {
		logger(ctx).Error("failed to list purchases", logx.Error(err))
	}

	if len(records) > 0 {
		sb.WriteString("\n\n")
		writeRecords(&sb, records)
	}

	return h.sendHTML(ctx, msg.Chat.ID, sb.String())
}

func (h *Handler) OnBuy(ctx *th.Context, msg telego.Message) error {
	req, err := parseBuyArgs(msg.Text)
	switch {
	case errors.Is(err, errInvalidPrice):
		return h.sendHTML(ctx, msg.Chat.ID, view.BuyInvalidPrice)
	case err != nil:
		return h.sendHTML(ctx, msg.Chat.ID, view.BuyUsage)
	}

	req.RequestID = fmt.Sprintf("tg-%d-%d", msg.Chat.ID, msg.MessageID)

	if err = h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.BuyStarted, html.EscapeString(req.HashName))); err != nil {
		return err
	}

	result, err := h.svc.Buy(ctx, req)
	if err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, describeError(err))
	}

	return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.BuySuccess,
		result.Price, result.ListedPrice, html.EscapeString(result.PurchaseID)))
}

func (h *Handler) OnStage(ctx *th.Context, msg telego.Message) error {
	itemID, approx, err := parseStageArgs(msg.Text)
	switch {
	case errors.Is(err, errInvalidID):
		return h.sendHTML(ctx, msg.Chat.ID, view.StageInvalidItemID)
	case errors.Is(err, errInvalidTime):
		return h.sendHTML(ctx, msg.Chat.ID, view.StageInvalidTime)
	case err != nil:
		return h.sendHTML(ctx, msg.Chat.ID, view.StageUsage)
	}

	stage, err := h.svc.ItemStage(ctx, itemID, approx)
	if err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.StageRequestFailure, describeError(err)))
	}

	return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.StageResult, itemID, stage))
}

func (h *Handler) OnSetBalance(ctx *th.Context, msg telego.Message) error {
	arg, ok := commandArg(msg.Text)
	if !ok {
		return h.sendHTML(ctx, msg.Chat.ID, view.SetBalanceMissingArgument)
	}

	balance, err := parseBalanceArg(arg)
	if err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, view.SetBalanceInvalidFormat)
	}

	if err = h.svc.SetBalance(ctx, balance); err != nil {
		return fmt.Errorf("svc.SetBalance: %w", err)
	}

	return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.SetBalanceSuccess, balance))
}

func (h *Handler) OnSetDiscount(ctx *th.Context, msg telego.Message) error {
	arg, ok := commandArg(msg.Text)
	if !ok {
		return h.sendHTML(ctx, msg.Chat.ID, view.SetDiscountMissingArgument)
	}

	ratio, err := value.ParseDiscountRatio(arg)
	if err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, view.SetDiscountInvalidFormat)
	}

	if err = h.svc.SetDiscountRatio(ctx, ratio); err != nil {
		return fmt.Errorf("svc.SetDiscountRatio: %w", err)
	}

	return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.SetDiscountSuccess, ratio))
}

func (h *Handler) OnSyncBalance(ctx *th.Context, msg telego.Message) error {
	money, err := h.svc.SyncBalance(ctx)
	if err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.SyncBalanceFailed, describeError(err)))
	}

	return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.SyncBalanceSuccess, money))
}

func describeError(err error) string {
	if domainErr, ok := domain.AsError(err); ok {
		return fmt.Sprintf(view.BuyFailed, domainErr.Code, domainErr.Source, html.EscapeString(domainErr.Message))
	}
	return html.EscapeString(err.Error())
}

func writeRecords(sb *strings.Builder, records []entity.PurchaseRecord) {
	for _, r := range records {
		if r.Succeeded() {
			fmt.Fprintf(sb, view.HistorySuccess, html.EscapeString(r.HashName), r.Price, html.EscapeString(r.PurchaseID))
			continue
		}
		fmt.Fprintf(sb, view.HistoryFailure, html.EscapeString(r.HashName), r.ErrorCode)
	}
}

// Вспомогательные методы

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: chatID},
		Text:      text,
		ParseMode: telego.ModeHTML,
	})
	return err
}
