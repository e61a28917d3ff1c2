package catalog

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"market_buyer/internal/domain"
	"market_buyer/internal/domain/entity"
	"market_buyer/internal/domain/value"
	"market_buyer/pkg/contextx"
	"market_buyer/pkg/errcodes"
	"market_buyer/pkg/logx"
	"market_buyer/pkg/lox"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type OfferSearcher interface {
	SearchOffers(ctx context.Context, itemKey string) (entity.OfferPage, error)
}

// Catalog turns the marketplace's offer list for an item into a purchase
// queue.
type Catalog struct {
	searcher  OfferSearcher
	normalize func(value.Price) value.Price
}

func New(searcher OfferSearcher) *Catalog {
	return &Catalog{searcher: searcher}
}

// WithCeilingNormalizer converts caller ceilings into marketplace units.
func (c *Catalog) WithCeilingNormalizer(f func(value.Price) value.Price) *Catalog {
	c.normalize = f
	return c
}

// Fetch returns the offers for itemKey priced within ceiling, cheapest first.
func (c *Catalog) Fetch(ctx context.Context, itemKey string, ceiling value.Ceiling) (*entity.OfferQueue, error) {
	page, err := c.searcher.SearchOffers(ctx, itemKey)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.RequestFailed, domain.SourceMarket, "offer search failed").
			With(domain.KeyItemKey, itemKey)
	}

	if !page.Success {
		return nil, domain.NewError(errcodes.RequestFailed, domain.SourceMarket, "offer search was not successful").
			With(domain.KeyItemKey, itemKey)
	}

	if len(page.Offers) == 0 {
		return nil, domain.NewError(errcodes.NotFound, domain.SourceMarket, "no offers").
			With(domain.KeyItemKey, itemKey)
	}

	raw := lox.Map(page.Offers, normalizeOffer)
	ceiling = ceiling.Map(c.normalize)

	offers := make([]entity.Offer, 0, len(raw))
	for _, o := range raw {
		if o.ListingCount <= 0 || !ceiling.Admits(o.Price) {
			continue
		}
		if o.HashName != itemKey {
			logger(ctx).Debug("dropping mismatched offer",
				slog.String("requested", itemKey),
				slog.String("got", o.HashName),
			)
			continue
		}
		offers = append(offers, o)
	}

	if len(offers) == 0 {
		minPrice := slices.MinFunc(raw, byPrice).Price

		return nil, domain.NewError(errcodes.TooHighPrices, domain.SourceOwner,
			fmt.Sprintf("no offers within ceiling %s", ceiling)).
			With(domain.KeyItemKey, itemKey).
			With(domain.KeyMinPrice, minPrice)
	}

	slices.SortStableFunc(offers, byPrice)

	logger(ctx).Debug("offers fetched",
		slog.String(logx.FieldHashName, itemKey),
		slog.Int("raw", len(raw)),
		slog.Int("queued", len(offers)),
		slog.Int64("cheapest", offers[0].Price.Int64()),
	)

	return entity.NewOfferQueue(offers), nil
}

func byPrice(a, b entity.Offer) int {
	return cmp.Compare(a.Price, b.Price)
}

func normalizeOffer(o entity.Offer) entity.Offer {
	o.HashName = strings.TrimSpace(o.HashName)
	o.ClassID = strings.TrimSpace(o.ClassID)
	o.InstanceID = strings.TrimSpace(o.InstanceID)
	return o
}
