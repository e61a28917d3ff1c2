package bot

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"market_buyer/internal/config"
	"market_buyer/internal/transport/bot/handler"
	"market_buyer/pkg/contextx"
	"market_buyer/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Bot представляет собой Telegram-бота оператора.
type Bot struct {
	bot     *telego.Bot
	handler *handler.Handler
	admins  []int64
}

// New создает новый экземпляр бота.
func New(cfg config.Bot, svc handler.BuyService) (*Bot, error) {
	bot, err := telego.NewBot(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	admins := cfg.AdminIDs
	if len(admins) == 0 {
		admins = []int64{cfg.ChatID}
	}

	return &Bot{
		bot:     bot,
		handler: handler.New(svc),
		admins:  admins,
	}, nil
}

// Run получает обновления через long polling до отмены ctx.
func (b *Bot) Run(ctx context.Context) error {
	updates, err := b.bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout: 60,
	})
	if err != nil {
		return fmt.Errorf("failed to get updates: %w", err)
	}

	botHandler, err := th.NewBotHandler(b.bot, updates)
	if err != nil {
		return fmt.Errorf("failed to create bot handler: %w", err)
	}

	b.handler.RegisterRoutes(botHandler, b.admins)

	go func() {
		if err := botHandler.Start(); err != nil {
			logger(ctx).Error("failed to start bot handler", logx.Error(err))
		}
	}()

	logger(ctx).Info("bot started")

	<-ctx.Done()

	if err := botHandler.Stop(); err != nil {
		logger(ctx).Error("failed to stop bot handler", logx.Error(err))
	}

	return nil
}
