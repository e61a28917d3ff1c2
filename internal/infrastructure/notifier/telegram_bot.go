package notifier

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"slices"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"market_buyer/internal/domain"
	"market_buyer/internal/domain/entity"
	"market_buyer/pkg/contextx"
	"market_buyer/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type sender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// TelegramBot сообщает оператору о покупках и ошибках, требующих вмешательства.
type TelegramBot struct {
	bot    sender
	chatID int64
}

func NewTelegramBot(token string, chatID int64) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("telego.NewBot: %w", err)
	}

	return newTelegramBot(bot, chatID), nil
}

func newTelegramBot(bot sender, chatID int64) *TelegramBot {
	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}
}

func (b *TelegramBot) NotifyPurchase(ctx context.Context, req entity.BuyRequest, result entity.Result) {
	if err := b.SendHTML(ctx, purchaseText(req, result)); err != nil {
		logger(ctx).Error("failed to send purchase notification",
			slog.String(logx.FieldPurchaseID, result.PurchaseID),
			logx.Error(err),
		)
	}
}

func (b *TelegramBot) NotifyFailure(ctx context.Context, req entity.BuyRequest, err *domain.Error) {
	if sendErr := b.SendHTML(ctx, failureText(req, err)); sendErr != nil {
		logger(ctx).Error("failed to send failure notification",
			logx.Code(err.Code, err.Source.String()),
			logx.Error(sendErr),
		)
	}
}

// SendHTML отправляет сообщение с HTML-разметкой.
func (b *TelegramBot) SendHTML(ctx context.Context, text string) error {
	msg := tu.Message(tu.ID(b.chatID), text).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("bot.SendMessage: %w", err)
	}

	return nil
}

func purchaseText(req entity.BuyRequest, result entity.Result) string {
	return fmt.Sprintf(
		"✅ <b>Куплено</b>\n\n"+
			"🎁 <b>Предмет:</b> %s\n"+
			"💰 <b>Цена:</b> %s (в листинге %s)\n"+
			"🆔 <b>Покупка:</b> <code>%s</code>\n"+
			"📦 <b>Ассет:</b> <code>%s_%s</code>",
		html.EscapeString(req.HashName),
		result.Price,
		result.ListedPrice,
		html.EscapeString(result.PurchaseID),
		html.EscapeString(result.ClassID),
		html.EscapeString(result.InstanceID),
	)
}

func failureText(req entity.BuyRequest, err *domain.Error) string {
	var sb strings.Builder

	title := "⚠️ <b>Покупка остановлена</b>"
	if err.Source == domain.SourceOwner {
		title = "🛑 <b>Нужно вмешательство оператора</b>"
	}

	fmt.Fprintf(&sb, "%s\n\n", title)
	fmt.Fprintf(&sb, "🎁 <b>Предмет:</b> %s\n", html.EscapeString(req.HashName))
	fmt.Fprintf(&sb, "❌ <b>Ошибка:</b> <code>%s</code> (%s)\n", err.Code, err.Source)
	fmt.Fprintf(&sb, "💬 %s\n", html.EscapeString(err.Message))

	keys := make([]string, 0, len(err.Context))
	for k := range err.Context {
		if k == domain.KeyOffer {
			continue
		}
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		fmt.Fprintf(&sb, "• %s: <code>%s</code>\n", k, html.EscapeString(fmt.Sprint(err.Context[k])))
	}

	return strings.TrimRight(sb.String(), "\n")
}
