package entity

import (
	"market_buyer/internal/domain/value"
)

// Offer is one purchasable listing. (ClassID, InstanceID) identifies the asset;
// several offers may share it.
type Offer struct {
	HashName     string      `json:"hash_name"`
	ClassID      string      `json:"class_id"`
	InstanceID   string      `json:"instance_id"`
	Price        value.Price `json:"price"`
	ListingCount int         `json:"listing_count"`
}

// AssetKey returns the asset identity of the offer.
func (o Offer) AssetKey() string {
	return o.ClassID + "_" + o.InstanceID
}

// OfferQueue is ordered by ascending price and only ever consumed from the
// front.
type OfferQueue struct {
	offers []Offer
}

// NewOfferQueue wraps offers that are already sorted by price.
func NewOfferQueue(offers []Offer) *OfferQueue {
	return &OfferQueue{offers: offers}
}

func (q *OfferQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.offers)
}

func (q *OfferQueue) Empty() bool {
	return q.Len() == 0
}

// Pop removes and returns the cheapest offer.
func (q *OfferQueue) Pop() (Offer, bool) {
	if q.Empty() {
		return Offer{}, false
	}
	o := q.offers[0]
	q.offers = q.offers[1:]
	return o, true
}

// Peek returns the cheapest offer without removing it.
func (q *OfferQueue) Peek() (Offer, bool) {
	if q.Empty() {
		return Offer{}, false
	}
	return q.offers[0], true
}

// Offers returns a copy of the remaining offers.
func (q *OfferQueue) Offers() []Offer {
	if q == nil {
		return nil
	}
	out := make([]Offer, len(q.offers))
	copy(out, q.offers)
	return out
}
