package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-chi/chi/v5"

	"market_buyer/internal/domain/entity"
	"market_buyer/internal/domain/value"
	"market_buyer/pkg/errcodes"
	"market_buyer/pkg/httpx/reply"
	"market_buyer/pkg/httpx/req"
	"market_buyer/pkg/lox"
	"market_buyer/pkg/rest"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	defaultListLimit     = 20
	maxListLimit         = 100
)

type purchaseService interface {
	Buy(ctx context.Context, req entity.BuyRequest) (entity.Result, error)
	ItemStage(ctx context.Context, itemID int64, approx *time.Time) (value.Stage, error)
	RecentPurchases(ctx context.Context, limit int) ([]entity.PurchaseRecord, error)
}

type purchaseQueue interface {
	Enqueue(ctx context.Context, req entity.BuyRequest) (string, error)
}

type PurchaseServer struct {
	purchaseService purchaseService
	queue           purchaseQueue
}

func NewPurchaseServer(purchaseService purchaseService) PurchaseServer {
	return PurchaseServer{
		purchaseService: purchaseService,
	}
}

// WithQueue включает асинхронные покупки через очередь.
func (s PurchaseServer) WithQueue(queue purchaseQueue) PurchaseServer {
	s.queue = queue
	return s
}

func (s PurchaseServer) postV1Purchase(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.PurchaseRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	result, err := s.purchaseService.Buy(ctx, newDomainBuyRequest(request, r.Header.Get(headerIdempotencyKey)))
	if err != nil {
		return fmt.Errorf("purchaseService.Buy: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTPurchase(result))

	return nil
}

func (s PurchaseServer) postV1PurchaseQueue(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.PurchaseRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	taskID, err := s.queue.Enqueue(ctx, newDomainBuyRequest(request, r.Header.Get(headerIdempotencyKey)))
	if err != nil {
		return fmt.Errorf("queue.Enqueue: %w", err)
	}

	reply.JSON(ctx, w, http.StatusAccepted, rest.QueuedPurchase{TaskID: taskID})

	return nil
}

func (s PurchaseServer) getV1Purchases(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	limit := defaultListLimit

	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return failure.NewInvalidArgumentError(
				fmt.Sprintf("invalid limit %q", raw),
				failure.WithCode(errcodes.ValidationError),
				failure.WithDescription("limit must be a positive integer"),
			)
		}
		limit = min(n, maxListLimit)
	}

	records, err := s.purchaseService.RecentPurchases(ctx, limit)
	if err != nil {
		return fmt.Errorf("purchaseService.RecentPurchases: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lox.Map(records, newRESTPurchaseRecord))

	return nil
}

func (s PurchaseServer) getV1ItemStage(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	itemID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return failure.NewInvalidArgumentError(
			fmt.Errorf("strconv.ParseInt: %w", err).Error(),
			failure.WithCode(errcodes.InvalidItemID),
			failure.WithDescription("item id must be an integer"),
		)
	}

	var approx *time.Time

	if raw := r.URL.Query().Get("time"); raw != "" {
		unix, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || unix <= 0 {
			return failure.NewInvalidArgumentError(
				fmt.Sprintf("invalid time %q", raw),
				failure.WithCode(errcodes.InvalidTimestamp),
				failure.WithDescription("time must be a unix timestamp"),
			)
		}

		t := time.Unix(unix, 0).UTC()
		approx = &t
	}

	stage, err := s.purchaseService.ItemStage(ctx, itemID, approx)
	if err != nil {
		return fmt.Errorf("purchaseService.ItemStage: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.ItemStage{
		ItemID: itemID,
		Stage:  int(stage),
		Name:   stage.String(),
	})

	return nil
}
