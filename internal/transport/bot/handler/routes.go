package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"market_buyer/internal/transport/bot/middleware"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, adminIDs []int64) {
	adminGroup := bh.Group(th.AnyMessage())
	adminGroup.Use(middleware.AdminOnly(adminIDs...))

	adminGroup.HandleMessage(h.OnStart, th.CommandEqual("start"))
	adminGroup.HandleMessage(h.OnStatus, th.CommandEqual("status"))
	adminGroup.HandleMessage(h.OnBuy, th.CommandEqual("buy"))
	adminGroup.HandleMessage(h.OnStage, th.CommandEqual("stage"))
	adminGroup.HandleMessage(h.OnHistory, th.CommandEqual("history"))
	adminGroup.HandleMessage(h.OnSetBalance, th.CommandEqual("setbalance"))
	adminGroup.HandleMessage(h.OnSetDiscount, th.CommandEqual("setdiscount"))
	adminGroup.HandleMessage(h.OnSyncBalance, th.CommandEqual("syncbalance"))

	cbGroup := bh.Group(th.AnyCallbackQuery())
	cbGroup.Use(middleware.AdminOnly(adminIDs...))

	cbGroup.HandleCallbackQuery(h.OnHistoryCallback, th.CallbackDataPrefix(historyPagePrefix))
}
