package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"market_buyer/internal/domain"
	"market_buyer/internal/domain/entity"
	"market_buyer/pkg/errcodes"
	"market_buyer/pkg/lox"
)

const purchaseColumns = `id, request_id, hash_name, max_price, purchase_id, class_id, instance_id,
	price, listed_price, error_code, error_source, message, created_at`

type PurchaseRepository struct {
	db *sqlx.DB
}

// NewPurchaseRepository создаёт репозиторий журнала покупок.
func NewPurchaseRepository(db *sqlx.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// Save добавляет запись в журнал.
func (r *PurchaseRepository) Save(ctx context.Context, record entity.PurchaseRecord) error {
	query := `
		INSERT INTO purchases (` + purchaseColumns + `)
		VALUES (:id, :request_id, :hash_name, :max_price, :purchase_id, :class_id, :instance_id,
			:price, :listed_price, :error_code, :error_source, :message, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, fromPurchaseRecord(record)); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, domain.SourceOwner, "failed to save purchase")
	}

	return nil
}

// ListRecent возвращает последние записи, новые первыми.
func (r *PurchaseRepository) ListRecent(ctx context.Context, limit int) ([]entity.PurchaseRecord, error) {
	query := `
		SELECT ` + purchaseColumns + `
		FROM purchases
		ORDER BY created_at DESC, id DESC
		LIMIT $1`

	var schemas []purchaseSchema
	if err := r.db.SelectContext(ctx, &schemas, query, limit); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, domain.SourceOwner, "failed to list purchases")
	}

	return lox.Map(schemas, purchaseSchema.toDomain), nil
}

// GetByRequestID возвращает последнюю запись по ключу идемпотентности.
func (r *PurchaseRepository) GetByRequestID(ctx context.Context, requestID string) (entity.PurchaseRecord, error) {
	query := `
		SELECT ` + purchaseColumns + `
		FROM purchases
		WHERE request_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	var schema purchaseSchema
	if err := r.db.GetContext(ctx, &schema, query, requestID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.PurchaseRecord{}, domain.NewError(errcodes.NotFound, domain.SourceOwner, "purchase not found")
		}
		return entity.PurchaseRecord{}, domain.WrapError(err, errcodes.InternalServerError, domain.SourceOwner,
			"failed to get purchase")
	}

	return schema.toDomain(), nil
}
