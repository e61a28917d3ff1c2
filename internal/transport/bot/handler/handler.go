package handler

import (
	"context"
	"time"

	"market_buyer/internal/domain/entity"
	"market_buyer/internal/domain/value"
	"market_buyer/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type BuyService interface {
	Buy(ctx context.Context, req entity.BuyRequest) (entity.Result, error)
	ItemStage(ctx context.Context, itemID int64, approx *time.Time) (value.Stage, error)
	Settings(ctx context.Context) (entity.Settings, error)
	SetBalance(ctx context.Context, balance value.Balance) error
	SetDiscountRatio(ctx context.Context, ratio value.DiscountRatio) error
	SyncBalance(ctx context.Context) (value.Price, error)
	RecentPurchases(ctx context.Context, limit int) ([]entity.PurchaseRecord, error)
}

type Handler struct {
	svc BuyService
}

func New(svc BuyService) *Handler {
	return &Handler{
		svc: svc,
	}
}
