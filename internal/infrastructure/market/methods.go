package market

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"market_buyer/internal/domain/entity"
	"market_buyer/internal/domain/value"
	"market_buyer/pkg/logx"
	"market_buyer/pkg/lox"
)

const (
	pathSearch  = "/api/v2/search-item-by-hash-name-specific"
	pathBuy     = "/api/v2/buy"
	pathBuyFor  = "/api/v2/buy-for"
	pathHistory = "/api/v2/history"
	pathMoney   = "/api/v2/get-money"
)

// SearchOffers lists the current sell offers for hashName.
func (c *Client) SearchOffers(ctx context.Context, hashName string) (entity.OfferPage, error) {
	var resp searchResponse

	query := url.Values{"hash_name": {hashName}}

	if err := c.get(ctx, pathSearch, query, c.readRetries, &resp); err != nil {
		return entity.OfferPage{}, err
	}

	return entity.OfferPage{
		Success: resp.Success,
		Offers:  lox.Map(resp.Data, offerDTO.toEntity),
	}, nil
}

// SubmitPurchase buys offer for at most price. Each call carries a fresh
// custom id shared by its transport retries, so a retried request cannot buy
// twice.
func (c *Client) SubmitPurchase(
	ctx context.Context,
	offer entity.Offer,
	price value.Price,
	recipient *entity.Recipient,
) (entity.Receipt, error) {
	customID := uuid.NewString()

	query := url.Values{
		"hash_name": {offer.HashName},
		"price":     {price.String()},
		"custom_id": {customID},
	}

	path := pathBuy
	if recipient != nil {
		path = pathBuyFor
		query.Set("partner", recipient.PartnerID)
		query.Set("token", recipient.Token)
	}

	logger(ctx).Debug("buy request",
		slog.String("custom_id", customID),
		slog.String(logx.FieldAsset, offer.AssetKey()),
	)

	var resp buyResponse

	if err := c.get(ctx, path, query, c.buyRetries, &resp); err != nil {
		return entity.Receipt{}, err
	}

	if !resp.Success {
		return entity.Receipt{}, fmt.Errorf("buy %s: unsuccessful response without error message", customID)
	}

	return resp.toReceipt(), nil
}

// QueryHistory returns the account operations between start and end.
func (c *Client) QueryHistory(ctx context.Context, start, end time.Time) (entity.HistoryPage, error) {
	var resp historyResponse

	query := url.Values{
		"date":     {strconv.FormatInt(start.Unix(), 10)},
		"date_end": {strconv.FormatInt(end.Unix(), 10)},
	}

	if err := c.get(ctx, pathHistory, query, c.readRetries, &resp); err != nil {
		return entity.HistoryPage{}, err
	}

	return entity.HistoryPage{
		Success: resp.Success,
		Events:  lox.Map(resp.Data, historyEventDTO.toEntity),
	}, nil
}

// Money returns the account balance in minor units.
func (c *Client) Money(ctx context.Context) (value.Price, error) {
	var resp moneyResponse

	if err := c.get(ctx, pathMoney, nil, c.readRetries, &resp); err != nil {
		return 0, err
	}

	minor := resp.Money.Mul(decimal.NewFromInt(c.moneyScale)).Round(0)

	logger(ctx).Debug("balance fetched",
		slog.String("money", resp.Money.String()),
		slog.String("currency", resp.Currency),
	)

	return value.Price(minor.IntPart()), nil
}
