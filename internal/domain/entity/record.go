package entity

import (
	"time"

	"market_buyer/internal/domain/value"
)

// BuyRequest is a caller's order for one item.
type BuyRequest struct {
	// RequestID is the caller's idempotency key, empty when not supplied.
	RequestID string
	HashName  string
	MaxPrice  value.Ceiling
	Recipient *Recipient
}

// PurchaseRecord is one line of the purchase log: either a result or a
// propagated failure.
type PurchaseRecord struct {
	ID          string
	RequestID   string
	HashName    string
	MaxPrice    *value.Price
	PurchaseID  string
	ClassID     string
	InstanceID  string
	Price       value.Price
	ListedPrice value.Price
	ErrorCode   string
	ErrorSource string
	Message     string
	CreatedAt   time.Time
}

// Succeeded reports whether the record describes a bought item.
func (r PurchaseRecord) Succeeded() bool {
	return r.ErrorCode == ""
}

// Settings is the mutable operator state the purchase loop reads.
type Settings struct {
	Balance  value.Balance
	Discount value.DiscountRatio
}
