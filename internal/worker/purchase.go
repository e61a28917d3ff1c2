package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"

	"market_buyer/internal/domain/entity"
	"market_buyer/internal/domain/value"
	"market_buyer/pkg/application/modules"
	"market_buyer/pkg/contextx"
	"market_buyer/pkg/logx"
)

var (
	json   = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip
	logger = contextx.LoggerFromContextOrDefault          //nolint:gochecknoglobals
)

// TypePurchase is the asynq task type of a queued buy request.
const TypePurchase = "purchase:buy"

const (
	taskIDPrefix     = "purchase:"
	resultBought     = "bought"
	resultFailed     = "failed"
	resultDuplicate  = "duplicate"
	resultBadPayload = "bad_payload"
)

type purchasePayload struct {
	RequestID string            `json:"request_id"`
	HashName  string            `json:"hash_name"`
	MaxPrice  *int64            `json:"max_price,omitempty"`
	Recipient *entity.Recipient `json:"recipient,omitempty"`
}

func newPurchasePayload(req entity.BuyRequest) purchasePayload {
	p := purchasePayload{
		RequestID: req.RequestID,
		HashName:  req.HashName,
		Recipient: req.Recipient,
	}

	if ceiling, ok := req.MaxPrice.Get(); ok {
		v := ceiling.Int64()
		p.MaxPrice = &v
	}

	return p
}

func (p purchasePayload) toEntity() entity.BuyRequest {
	req := entity.BuyRequest{
		RequestID: p.RequestID,
		HashName:  p.HashName,
		MaxPrice:  value.NoCeiling(),
		Recipient: p.Recipient,
	}

	if p.MaxPrice != nil {
		req.MaxPrice = value.CeilingOf(value.Price(*p.MaxPrice))
	}

	return req
}

type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// PurchaseQueue ставит заказы на покупку в очередь asynq.
type PurchaseQueue struct {
	client taskEnqueuer
	queue  string
}

func NewPurchaseQueue(client taskEnqueuer, queue string) *PurchaseQueue {
	return &PurchaseQueue{
		client: client,
		queue:  queue,
	}
}

// Enqueue returns the task id. A request id already queued returns the
// existing task id.
func (q *PurchaseQueue) Enqueue(ctx context.Context, req entity.BuyRequest) (string, error) {
	payload, err := json.Marshal(newPurchasePayload(req))
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %w", err)
	}

	opts := []asynq.Option{asynq.Queue(q.queue), asynq.MaxRetry(0)}

	if req.RequestID != "" {
		opts = append(opts, asynq.TaskID(taskIDPrefix+req.RequestID))
	}

	info, err := q.client.EnqueueContext(ctx, asynq.NewTask(TypePurchase, payload), opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		logger(ctx).Info("purchase already queued", slog.String(logx.FieldRequestID, req.RequestID))
		return taskIDPrefix + req.RequestID, nil
	}
	if err != nil {
		return "", fmt.Errorf("client.EnqueueContext: %w", err)
	}

	return info.ID, nil
}

type buyer interface {
	Buy(ctx context.Context, req entity.BuyRequest) (entity.Result, error)
}

type taskObserver interface {
	ObserveTask(result string)
}

type nopTaskObserver struct{}

func (nopTaskObserver) ObserveTask(string) {}

// PurchaseWorker выполняет покупки из очереди. Повторная доставка задачи с
// тем же request id в пределах TTL пропускается.
type PurchaseWorker struct {
	svc      buyer
	seen     *cache.Cache
	observer taskObserver
}

func NewPurchaseWorker(svc buyer, dedupTTL time.Duration) *PurchaseWorker {
	return &PurchaseWorker{
		svc:      svc,
		seen:     cache.New(dedupTTL, 2*dedupTTL),
		observer: nopTaskObserver{},
	}
}

func (w *PurchaseWorker) WithObserver(observer taskObserver) *PurchaseWorker {
	w.observer = observer
	return w
}

func (w *PurchaseWorker) Handler() modules.AsynqHandler {
	return modules.AsynqHandler{
		Pattern: TypePurchase,
		Handle:  w.Handle,
	}
}

func (w *PurchaseWorker) Handle(ctx context.Context, task *asynq.Task) error {
	traceID := contextx.NewTraceID()
	if taskID, ok := asynq.GetTaskID(ctx); ok {
		traceID = contextx.TraceID(taskID)
	}

	ctx = contextx.WithTrace(ctx, traceID)

	var payload purchasePayload

	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		w.observer.ObserveTask(resultBadPayload)
		return fmt.Errorf("json.Unmarshal: %w: %w", err, asynq.SkipRetry)
	}

	req := payload.toEntity()

	if req.RequestID != "" {
		if err := w.seen.Add(req.RequestID, struct{}{}, cache.DefaultExpiration); err != nil {
			w.observer.ObserveTask(resultDuplicate)
			logger(ctx).Warn("duplicate purchase task skipped", slog.String(logx.FieldRequestID, req.RequestID))
			return nil
		}
	}

	if _, err := w.svc.Buy(ctx, req); err != nil {
		w.observer.ObserveTask(resultFailed)

		if req.RequestID != "" {
			w.seen.Delete(req.RequestID)
		}

		if ctx.Err() != nil {
			return fmt.Errorf("svc.Buy: %w", err)
		}

		logger(ctx).Warn("queued purchase failed", logx.Error(err))

		return fmt.Errorf("svc.Buy: %w: %w", err, asynq.SkipRetry)
	}

	w.observer.ObserveTask(resultBought)

	return nil
}
