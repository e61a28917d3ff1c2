package entity

import (
	"market_buyer/internal/domain/value"
)

// Recipient identifies where a bought item is delivered. Opaque to the
// purchase loop.
type Recipient struct {
	PartnerID string `json:"partner_id"`
	Token     string `json:"token"`
}

// Attempt is one iteration of the purchase loop.
type Attempt struct {
	Offer Offer
	// Price is what the attempt bids, possibly raised above Offer.Price.
	Price value.Price
}

// ListedPrice is the offer's original price.
func (a Attempt) ListedPrice() value.Price {
	return a.Offer.Price
}

// Receipt is what the marketplace reports for an accepted purchase.
type Receipt struct {
	PurchaseID string
	ClassID    string
	InstanceID string
	// MinPrice is the provider-reported minimum price, zero when absent.
	MinPrice value.Price
}

// Result of a successful purchase run.
type Result struct {
	PurchaseID  string      `json:"purchase_id"`
	ClassID     string      `json:"class_id"`
	InstanceID  string      `json:"instance_id"`
	Price       value.Price `json:"price"`
	ListedPrice value.Price `json:"listed_price"`
}
