package market

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"market_buyer/internal/domain/entity"
	"market_buyer/internal/domain/value"
)

// flexString accepts both JSON strings and numbers. The API is not consistent
// about class and instance ids.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("json.Unmarshal: %w", err)
		}
		*s = flexString(v)
		return nil
	}

	*s = flexString(data)

	return nil
}

// flexInt accepts integers encoded as JSON numbers or strings.
type flexInt int64

func (i *flexInt) UnmarshalJSON(data []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}

	if s == "" {
		*i = 0
		return nil
	}

	v, err := strconv.ParseInt(string(s), 10, 64)
	if err != nil {
		return fmt.Errorf("strconv.ParseInt: %w", err)
	}

	*i = flexInt(v)

	return nil
}

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type offerDTO struct {
	HashName   string     `json:"market_hash_name"`
	ClassID    flexString `json:"class"`
	InstanceID flexString `json:"instance"`
	Price      flexInt    `json:"price"`
	Count      flexInt    `json:"count"`
}

func (o offerDTO) toEntity() entity.Offer {
	return entity.Offer{
		HashName:     o.HashName,
		ClassID:      string(o.ClassID),
		InstanceID:   string(o.InstanceID),
		Price:        value.Price(o.Price),
		ListingCount: int(o.Count),
	}
}

type searchResponse struct {
	Success bool       `json:"success"`
	Data    []offerDTO `json:"data"`
}

type buyResponse struct {
	Success    bool       `json:"success"`
	ID         flexString `json:"id"`
	ClassID    flexString `json:"classid"`
	InstanceID flexString `json:"instanceid"`
	Price      flexInt    `json:"price"`
	Error      string     `json:"error"`
}

func (r buyResponse) toReceipt() entity.Receipt {
	return entity.Receipt{
		PurchaseID: string(r.ID),
		ClassID:    string(r.ClassID),
		InstanceID: string(r.InstanceID),
		MinPrice:   value.Price(r.Price),
	}
}

type historyEventDTO struct {
	ItemID flexInt `json:"item_id"`
	Stage  flexInt `json:"stage"`
	Event  string  `json:"event"`
	Time   flexInt `json:"time"`
}

func (e historyEventDTO) toEntity() entity.HistoryEvent {
	return entity.HistoryEvent{
		ItemID:    int64(e.ItemID),
		Stage:     value.Stage(e.Stage),
		EventType: entity.EventType(e.Event),
		Time:      time.Unix(int64(e.Time), 0).UTC(),
	}
}

type historyResponse struct {
	Success bool              `json:"success"`
	Data    []historyEventDTO `json:"data"`
}

type moneyResponse struct {
	Money    decimal.Decimal `json:"money"`
	Currency string          `json:"currency"`
}
