package domain

import "fmt"

// RawError is an unclassified failure message returned by the marketplace.
type RawError struct {
	Message string
	// Status is the HTTP status the message came with, zero when the message
	// arrived in a successful response.
	Status int
	// PurchaseID is set when the marketplace attached one to the message.
	PurchaseID string
}

func (e *RawError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("marketplace: %s (status %d)", e.Message, e.Status)
	}
	return "marketplace: " + e.Message
}
