package entity

import (
	"time"

	"market_buyer/internal/domain/value"
)

type EventType string

const (
	EventBuy  EventType = "buy"
	EventSell EventType = "sell"
)

// HistoryEvent is one row of the account's transaction history.
type HistoryEvent struct {
	ItemID    int64       `json:"item_id"`
	Stage     value.Stage `json:"stage"`
	EventType EventType   `json:"event"`
	Time      time.Time   `json:"time"`
}

// HistoryPage is the answer to a history query.
type HistoryPage struct {
	Success bool
	Events  []HistoryEvent
}

// OfferPage is the answer to an offer search.
type OfferPage struct {
	Success bool
	Offers  []Offer
}
