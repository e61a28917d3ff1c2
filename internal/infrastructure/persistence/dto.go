package persistence

import (
	"database/sql"
	"time"

	"market_buyer/internal/domain/entity"
	"market_buyer/internal/domain/value"
)

// purchaseSchema is a row of the purchases table.
type purchaseSchema struct {
	ID          string        `db:"id"`
	RequestID   string        `db:"request_id"`
	HashName    string        `db:"hash_name"`
	MaxPrice    sql.NullInt64 `db:"max_price"`
	PurchaseID  string        `db:"purchase_id"`
	ClassID     string        `db:"class_id"`
	InstanceID  string        `db:"instance_id"`
	Price       int64         `db:"price"`
	ListedPrice int64         `db:"listed_price"`
	ErrorCode   string        `db:"error_code"`
	ErrorSource string        `db:"error_source"`
	Message     string        `db:"message"`
	CreatedAt   time.Time     `db:"created_at"`
}

func fromPurchaseRecord(r entity.PurchaseRecord) purchaseSchema {
	s := purchaseSchema{
		ID:          r.ID,
		RequestID:   r.RequestID,
		HashName:    r.HashName,
		PurchaseID:  r.PurchaseID,
		ClassID:     r.ClassID,
		InstanceID:  r.InstanceID,
		Price:       r.Price.Int64(),
		ListedPrice: r.ListedPrice.Int64(),
		ErrorCode:   r.ErrorCode,
		ErrorSource: r.ErrorSource,
		Message:     r.Message,
		CreatedAt:   r.CreatedAt,
	}

	if r.MaxPrice != nil {
		s.MaxPrice = sql.NullInt64{Int64: r.MaxPrice.Int64(), Valid: true}
	}

	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	return s
}

func (s purchaseSchema) toDomain() entity.PurchaseRecord {
	r := entity.PurchaseRecord{
		ID:          s.ID,
		RequestID:   s.RequestID,
		HashName:    s.HashName,
		PurchaseID:  s.PurchaseID,
		ClassID:     s.ClassID,
		InstanceID:  s.InstanceID,
		Price:       value.Price(s.Price),
		ListedPrice: value.Price(s.ListedPrice),
		ErrorCode:   s.ErrorCode,
		ErrorSource: s.ErrorSource,
		Message:     s.Message,
		CreatedAt:   s.CreatedAt.UTC(),
	}

	if s.MaxPrice.Valid {
		maxPrice := value.Price(s.MaxPrice.Int64)
		r.MaxPrice = &maxPrice
	}

	return r
}
