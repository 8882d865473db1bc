package possync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bobashop/backend/internal/domain/ordering"
	domain "github.com/bobashop/backend/internal/domain/possync"
)

// ProcessorConfig holds the queue processing policy
type ProcessorConfig struct {
	// BatchSize is how many pending items one batch claims
	BatchSize int
	// Concurrency is the per-batch limit on in-flight POS calls
	Concurrency int
	// MaxRetries is the retry cap before an item goes terminal
	MaxRetries int
}

// DefaultProcessorConfig returns the default processing policy
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		BatchSize:   10,
		Concurrency: 3,
		MaxRetries:  domain.DefaultMaxRetryCount,
	}
}

// Validate normalizes and validates the config
func (c *ProcessorConfig) Validate() error {
	if c.BatchSize <= 0 {
		c.BatchSize = 10
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 3
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("possync: max retries must be >= 0, got %d", c.MaxRetries)
	}
	return nil
}

// QueueProcessor drains the sync queue in bounded batches: it claims pending
// items, dispatches them through the POS client with bounded concurrency,
// applies the retry policy via the domain transition function, and persists
// sync records on terminal outcomes.
//
// It is the sole writer of queue item status and retry count.
type QueueProcessor struct {
	queue   domain.QueueRepository
	records domain.SyncRecordRepository
	pos     domain.PosClient
	logger  *zap.Logger
	config  ProcessorConfig
}

// NewQueueProcessor creates a queue processor
func NewQueueProcessor(
	queue domain.QueueRepository,
	records domain.SyncRecordRepository,
	pos domain.PosClient,
	config ProcessorConfig,
	logger *zap.Logger,
) (*QueueProcessor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &QueueProcessor{
		queue:   queue,
		records: records,
		pos:     pos,
		logger:  logger,
		config:  config,
	}, nil
}

// ProcessQueue drains the pending queue. Batches run strictly one after
// another; within a batch at most Concurrency POS calls are in flight.
// A single item's failure never aborts the batch or the run.
func (p *QueueProcessor) ProcessQueue(ctx context.Context) (*domain.ProcessResult, error) {
	start := time.Now()
	result := &domain.ProcessResult{
		StartedAt: start,
		Failures:  make([]domain.ItemFailure, 0),
	}

	for {
		items, err := p.queue.ClaimPending(ctx, p.config.BatchSize)
		if err != nil {
			// The first claim failing means the run did nothing; a later
			// claim failing still reports the batches that settled.
			if result.Processed == 0 {
				return nil, fmt.Errorf("possync: failed to claim pending queue: %w", err)
			}
			p.logger.Error("failed to claim next batch, ending run early", zap.Error(err))
			break
		}
		if len(items) == 0 {
			break
		}

		p.processBatch(ctx, items, result)

		if len(items) < p.config.BatchSize {
			break
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

// processBatch settles one claimed batch with bounded concurrency
func (p *QueueProcessor) processBatch(ctx context.Context, items []domain.QueueItem, result *domain.ProcessResult) {
	sem := make(chan struct{}, p.config.Concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for i := range items {
		item := items[i]
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			succeeded, failure := p.processItem(ctx, &item)

			mu.Lock()
			result.Processed++
			if succeeded {
				result.Succeeded++
			} else {
				result.Failed++
				result.Failures = append(result.Failures, failure)
			}
			mu.Unlock()
		}()
	}
	wg.Wait()
}

// processItem settles one claimed item and returns whether it completed.
// Panics and errors are contained here; the catch path performs the failure
// status update itself.
func (p *QueueProcessor) processItem(ctx context.Context, item *domain.QueueItem) (succeeded bool, failure domain.ItemFailure) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("panic during sync: %v", r)
			p.logger.Error("recovered panic while processing queue item",
				zap.String("order_number", item.OrderNumber),
				zap.Any("panic", r),
			)
			p.settleFailure(ctx, item, msg, "", false)
			succeeded = false
			failure = domain.ItemFailure{
				OrderID:     item.OrderID.String(),
				OrderNumber: item.OrderNumber,
				Error:       msg,
			}
		}
	}()

	callResult, err := p.pos.SyncOrder(ctx, item.OrderID, item.ConfigID)
	if err != nil {
		// Configuration and missing-order errors indicate a data defect,
		// not a transient condition: they go terminal immediately.
		fatal := isConfigurationError(err)
		p.settleFailure(ctx, item, err.Error(), "", fatal)
		return false, domain.ItemFailure{
			OrderID:     item.OrderID.String(),
			OrderNumber: item.OrderNumber,
			Error:       err.Error(),
		}
	}

	if callResult.Succeeded() {
		p.settleSuccess(ctx, item, callResult)
		return true, domain.ItemFailure{}
	}

	// Transport failures and business rejections share the retry policy
	// today; the Outcome tag is kept on the result for future policy.
	p.settleFailure(ctx, item, callResult.ErrorMessage, callResult.ErrorCode, false)
	return false, domain.ItemFailure{
		OrderID:     item.OrderID.String(),
		OrderNumber: item.OrderNumber,
		Error:       callResult.ErrorMessage,
	}
}

// settleSuccess moves an item to COMPLETED and upserts its success record
func (p *QueueProcessor) settleSuccess(ctx context.Context, item *domain.QueueItem, callResult *domain.CreateOrderResult) {
	transition := domain.NextState(item, domain.OutcomeSuccess, "", p.config.MaxRetries)
	item.Apply(transition)

	if err := p.queue.UpdateStatus(ctx, item.ID, item.Status, item.RetryCount, ""); err != nil {
		p.logger.Error("failed to persist completed queue item",
			zap.String("order_number", item.OrderNumber),
			zap.Error(err),
		)
	}
	record := domain.NewSuccessRecord(item, callResult.PosOrderID, callResult.PosExternalNumber)
	if err := p.records.Upsert(ctx, record); err != nil {
		p.logger.Error("failed to persist success sync record",
			zap.String("order_number", item.OrderNumber),
			zap.Error(err),
		)
	}
}

// settleFailure applies the retry policy to a failed item. When fatal is
// true the item goes terminal regardless of its retry budget.
func (p *QueueProcessor) settleFailure(ctx context.Context, item *domain.QueueItem, errMsg, errCode string, fatal bool) {
	var transition domain.Transition
	if fatal {
		transition = domain.Transition{
			Status:     domain.QueueStatusFailed,
			RetryCount: item.RetryCount,
			Error:      errMsg,
			Terminal:   true,
		}
	} else {
		transition = domain.NextState(item, domain.OutcomeTransportError, errMsg, p.config.MaxRetries)
	}
	item.Apply(transition)

	if err := p.queue.UpdateStatus(ctx, item.ID, item.Status, item.RetryCount, item.LastError); err != nil {
		p.logger.Error("failed to persist failed queue item",
			zap.String("order_number", item.OrderNumber),
			zap.Error(err),
		)
	}

	if transition.Terminal {
		record := domain.NewFailureRecord(item, errMsg, errCode)
		if err := p.records.Upsert(ctx, record); err != nil {
			p.logger.Error("failed to persist failure sync record",
				zap.String("order_number", item.OrderNumber),
				zap.Error(err),
			)
		}
		p.logger.Warn("order sync failed terminally",
			zap.String("order_number", item.OrderNumber),
			zap.Int("retry_count", item.RetryCount),
			zap.String("error", errMsg),
		)
	} else {
		p.logger.Info("order sync failed, scheduled for retry",
			zap.String("order_number", item.OrderNumber),
			zap.Int("retry_count", item.RetryCount),
			zap.String("error", errMsg),
		)
	}
}

// isConfigurationError reports whether err is a non-retryable data defect
func isConfigurationError(err error) bool {
	return errors.Is(err, domain.ErrConfigNotFound) ||
		errors.Is(err, domain.ErrConfigInactive) ||
		errors.Is(err, ordering.ErrOrderNotFound)
}
