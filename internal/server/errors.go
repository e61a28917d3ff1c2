package server

import (
	"context"
	"net/http"

	"market_buyer/internal/domain"
	"market_buyer/internal/domain/entity"
	"market_buyer/pkg/errcodes"
	"market_buyer/pkg/httpx/reply"
)

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	domainErr, ok := domain.AsError(err)
	if !ok {
		reply.Error(ctx, w, err)
		return
	}

	reply.Classified(ctx, w,
		statusOf(domainErr),
		domainErr.Code,
		domainErr.Message,
		domainErr.Source.String(),
		details(domainErr.Context),
	)
}

func statusOf(err *domain.Error) int {
	switch err.Code {
	case errcodes.NotFound:
		return http.StatusNotFound
	case errcodes.TooHighPrices, errcodes.NeedMoney:
		return http.StatusConflict
	}

	switch err.Source {
	case domain.SourceUser:
		return http.StatusUnprocessableEntity
	case domain.SourceOwner:
		return http.StatusConflict
	case domain.SourceMarket:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func details(errContext map[string]any) map[string]any {
	if len(errContext) == 0 {
		return nil
	}

	out := make(map[string]any, len(errContext))
	for k, v := range errContext {
		if offer, ok := v.(entity.Offer); ok {
			v = newRESTOffer(offer)
		}
		out[k] = v
	}

	return out
}
