package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bobashop/backend/internal/domain/possync"
	"github.com/bobashop/backend/internal/interfaces/http/dto"
)

// StoreConfigHandler serves the store configuration admin endpoints
type StoreConfigHandler struct {
	BaseHandler
	configs possync.ConfigRepository
	logger  *zap.Logger
}

// NewStoreConfigHandler creates a new store config handler
func NewStoreConfigHandler(configs possync.ConfigRepository, logger *zap.Logger) *StoreConfigHandler {
	return &StoreConfigHandler{
		configs: configs,
		logger:  logger,
	}
}

// RegisterRoutes registers store config routes under the given group
func (h *StoreConfigHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync")
	{
		sync.GET("/configs", h.ListActive)
		sync.GET("/configs/:id", h.Get)
		sync.POST("/configs", h.Create)
	}
}

// ListActive returns all store configs eligible for synchronization
func (h *StoreConfigHandler) ListActive(c *gin.Context) {
	configs, err := h.configs.FindActive(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]dto.StoreConfigResponse, 0, len(configs))
	for i := range configs {
		resp = append(resp, dto.FromStoreConfig(&configs[i]))
	}
	h.Success(c, resp)
}

// Get returns one store config by ID
func (h *StoreConfigHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "id must be a valid UUID")
		return
	}

	config, err := h.configs.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromStoreConfig(config))
}

// Create registers a new store configuration
func (h *StoreConfigHandler) Create(c *gin.Context) {
	var req dto.CreateStoreConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeValidation), dto.ErrCodeValidation, err.Error())
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	config := possync.NewStoreConfig(req.StoreName, req.APIBaseURL, req.APILogin, req.OrganizationID, req.TerminalGroupID)
	config.IsActive = active

	if err := h.configs.Save(c.Request.Context(), config); err != nil {
		h.HandleError(c, err)
		return
	}

	h.logger.Info("store config created",
		zap.String("config_id", config.ID.String()),
		zap.String("store_name", config.StoreName),
	)
	h.Created(c, dto.FromStoreConfig(config))
}
