package server

import (
	"fmt"
	"strings"

	"market_buyer/internal/domain/entity"
	"market_buyer/internal/domain/value"
	"market_buyer/pkg/lox"
	"market_buyer/pkg/rest"
)

func newDomainBuyRequest(request rest.PurchaseRequest, idempotencyKey string) entity.BuyRequest {
	req := entity.BuyRequest{
		RequestID: strings.TrimSpace(request.RequestID),
		HashName:  request.HashName,
		MaxPrice:  value.NoCeiling(),
	}

	if req.RequestID == "" {
		req.RequestID = idempotencyKey
	}

	if request.MaxPrice != nil {
		req.MaxPrice = value.CeilingOf(value.Price(*request.MaxPrice))
	}

	if request.Recipient != nil {
		req.Recipient = &entity.Recipient{
			PartnerID: request.Recipient.PartnerID,
			Token:     request.Recipient.Token,
		}
	}

	return req
}

func newRESTPurchase(result entity.Result) rest.Purchase {
	return rest.Purchase{
		PurchaseID:  result.PurchaseID,
		ClassID:     result.ClassID,
		InstanceID:  result.InstanceID,
		Price:       result.Price.Int64(),
		ListedPrice: result.ListedPrice.Int64(),
	}
}

func newRESTPurchaseRecord(record entity.PurchaseRecord) rest.PurchaseRecord {
	return rest.PurchaseRecord{
		ID:          record.ID,
		RequestID:   record.RequestID,
		HashName:    record.HashName,
		MaxPrice:    lox.MapPtr(record.MaxPrice, value.Price.Int64),
		PurchaseID:  record.PurchaseID,
		Price:       record.Price.Int64(),
		ListedPrice: record.ListedPrice.Int64(),
		ErrorCode:   record.ErrorCode,
		ErrorSource: record.ErrorSource,
		Message:     record.Message,
		CreatedAt:   record.CreatedAt,
	}
}

func newRESTOffer(offer entity.Offer) map[string]any {
	return map[string]any{
		"hashName":   offer.HashName,
		"classId":    offer.ClassID,
		"instanceId": offer.InstanceID,
		"price":      offer.Price.Int64(),
	}
}

func newRESTSettings(settings entity.Settings) rest.Settings {
	out := rest.Settings{Discount: settings.Discount.String()}

	if amount, ok := settings.Balance.Get(); ok {
		balance := amount.Int64()
		out.Balance = &balance
	}

	return out
}

type settingsUpdate struct {
	balance  *value.Balance
	discount *value.DiscountRatio
}

func newDomainSettingsUpdate(request rest.SettingsUpdate) (settingsUpdate, error) {
	var update settingsUpdate

	switch {
	case request.Balance != nil:
		balance := value.KnownBalance(value.Price(*request.Balance))
		update.balance = &balance
	case request.UnknownBalance:
		balance := value.UnknownBalance()
		update.balance = &balance
	}

	if request.Discount != nil {
		ratio, err := value.ParseDiscountRatio(*request.Discount)
		if err != nil {
			return settingsUpdate{}, fmt.Errorf("value.ParseDiscountRatio: %w", err)
		}
		update.discount = &ratio
	}

	return update, nil
}
