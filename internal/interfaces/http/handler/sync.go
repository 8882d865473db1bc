package handler

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bobashop/backend/internal/domain/possync"
	"github.com/bobashop/backend/internal/infrastructure/scheduler"
	"github.com/bobashop/backend/internal/interfaces/http/dto"
)

// stopTimeout bounds how long a scheduler stop request may wait for in-flight
// runs to settle.
const stopTimeout = 30 * time.Second

// SyncControl is the scheduler surface the admin API drives
type SyncControl interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Status() scheduler.SchedulerStatus
	TriggerOrderSync(ctx context.Context) (*possync.ProcessResult, error)
	TriggerMenuSync(ctx context.Context) (*possync.MenuSyncResult, error)
}

// SyncHandler serves the admin synchronization endpoints
type SyncHandler struct {
	BaseHandler
	control    SyncControl
	queue      possync.QueueRepository
	records    possync.SyncRecordRepository
	products   possync.ProductMappingRepository
	categories possync.CategoryMappingRepository
	baseCtx    context.Context
	logger     *zap.Logger
}

// NewSyncHandler creates a new sync handler. baseCtx is the application
// lifetime context; scheduler restarts via the API are bound to it rather
// than to the request.
func NewSyncHandler(
	control SyncControl,
	queue possync.QueueRepository,
	records possync.SyncRecordRepository,
	products possync.ProductMappingRepository,
	categories possync.CategoryMappingRepository,
	baseCtx context.Context,
	logger *zap.Logger,
) *SyncHandler {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &SyncHandler{
		control:    control,
		queue:      queue,
		records:    records,
		products:   products,
		categories: categories,
		baseCtx:    baseCtx,
		logger:     logger,
	}
}

// RegisterRoutes registers sync routes under the given group
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync")
	{
		sync.POST("/orders/trigger", h.TriggerOrderSync)
		sync.POST("/menu/trigger", h.TriggerMenuSync)
		sync.GET("/scheduler/status", h.SchedulerStatus)
		sync.POST("/scheduler/start", h.StartScheduler)
		sync.POST("/scheduler/stop", h.StopScheduler)
		sync.GET("/records", h.ListRecords)
		sync.GET("/queue", h.ListQueue)
		sync.GET("/mappings", h.ListMappings)
	}
}

// TriggerOrderSync runs one order queue drain immediately
func (h *SyncHandler) TriggerOrderSync(c *gin.Context) {
	result, err := h.control.TriggerOrderSync(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// TriggerMenuSync runs one menu reconciliation immediately
func (h *SyncHandler) TriggerMenuSync(c *gin.Context) {
	result, err := h.control.TriggerMenuSync(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SchedulerStatus reports the observable state of both sync jobs
func (h *SyncHandler) SchedulerStatus(c *gin.Context) {
	h.Success(c, h.control.Status())
}

// StartScheduler starts the interval loops
func (h *SyncHandler) StartScheduler(c *gin.Context) {
	if err := h.control.Start(h.baseCtx); err != nil {
		h.HandleError(c, err)
		return
	}
	h.logger.Info("scheduler started via admin API", zap.String("request_id", getRequestID(c)))
	h.Success(c, h.control.Status())
}

// StopScheduler stops the interval loops, waiting for in-flight runs
func (h *SyncHandler) StopScheduler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), stopTimeout)
	defer cancel()

	if err := h.control.Stop(ctx); err != nil {
		h.HandleError(c, err)
		return
	}
	h.logger.Info("scheduler stopped via admin API", zap.String("request_id", getRequestID(c)))
	h.Success(c, h.control.Status())
}

// ListRecords returns sync records, optionally filtered by status
func (h *SyncHandler) ListRecords(c *gin.Context) {
	query := dto.DefaultListQuery()
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "invalid list parameters")
		return
	}

	var status *possync.RecordStatus
	if query.Status != "" {
		s := possync.RecordStatus(strings.ToUpper(query.Status))
		if !s.IsValid() {
			h.BadRequest(c, "status must be SUCCESS or FAILED")
			return
		}
		status = &s
	}

	records, err := h.records.List(c.Request.Context(), status, query.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]dto.SyncRecordResponse, 0, len(records))
	for i := range records {
		resp = append(resp, dto.FromSyncRecord(&records[i]))
	}
	h.Success(c, resp)
}

// ListQueue returns queue items, optionally filtered by status
func (h *SyncHandler) ListQueue(c *gin.Context) {
	query := dto.DefaultListQuery()
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "invalid list parameters")
		return
	}

	var status *possync.QueueStatus
	if query.Status != "" {
		s := possync.QueueStatus(strings.ToUpper(query.Status))
		if !s.IsValid() {
			h.BadRequest(c, "status must be PENDING, PROCESSING, COMPLETED or FAILED")
			return
		}
		status = &s
	}

	items, err := h.queue.List(c.Request.Context(), status, query.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]dto.QueueItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, dto.FromQueueItem(&items[i]))
	}
	h.Success(c, resp)
}

// ListMappings returns the category and product mappings for one store config
func (h *SyncHandler) ListMappings(c *gin.Context) {
	configID, err := uuid.Parse(c.Query("config_id"))
	if err != nil {
		h.BadRequest(c, "config_id must be a valid UUID")
		return
	}

	categories, err := h.categories.FindByConfig(c.Request.Context(), configID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	products, err := h.products.FindByConfig(c.Request.Context(), configID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := dto.MappingsResponse{
		ConfigID:   configID.String(),
		Categories: make([]dto.CategoryMappingResponse, 0, len(categories)),
		Products:   make([]dto.ProductMappingResponse, 0, len(products)),
	}
	for i := range categories {
		resp.Categories = append(resp.Categories, dto.FromCategoryMapping(&categories[i]))
	}
	for i := range products {
		resp.Products = append(resp.Products, dto.FromProductMapping(&products[i]))
	}
	h.Success(c, resp)
}
