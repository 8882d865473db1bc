package dto

import (
	"time"

	"github.com/bobashop/backend/internal/domain/possync"
)

// StoreConfigResponse represents a store configuration in API responses.
// Credentials and cached tokens are never exposed.
type StoreConfigResponse struct {
	ID              string     `json:"id"`
	StoreName       string     `json:"store_name"`
	APIBaseURL      string     `json:"api_base_url"`
	OrganizationID  string     `json:"organization_id"`
	TerminalGroupID string     `json:"terminal_group_id,omitempty"`
	IsActive        bool       `json:"is_active"`
	MenuRevision    int64      `json:"menu_revision"`
	LastMenuSyncAt  *time.Time `json:"last_menu_sync_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// FromStoreConfig converts a domain store config to its response form
func FromStoreConfig(c *possync.StoreConfig) StoreConfigResponse {
	return StoreConfigResponse{
		ID:              c.ID.String(),
		StoreName:       c.StoreName,
		APIBaseURL:      c.APIBaseURL,
		OrganizationID:  c.OrganizationID,
		TerminalGroupID: c.TerminalGroupID,
		IsActive:        c.IsActive,
		MenuRevision:    c.MenuRevision,
		LastMenuSyncAt:  c.LastMenuSyncAt,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// CreateStoreConfigRequest represents the payload for creating a store config
type CreateStoreConfigRequest struct {
	StoreName       string `json:"store_name" binding:"required,max=255"`
	APIBaseURL      string `json:"api_base_url" binding:"required,url"`
	APILogin        string `json:"api_login" binding:"required"`
	OrganizationID  string `json:"organization_id" binding:"required"`
	TerminalGroupID string `json:"terminal_group_id"`
	IsActive        *bool  `json:"is_active"`
}

// QueueItemResponse represents a sync queue item in API responses
type QueueItemResponse struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	ConfigID    string    `json:"config_id"`
	Status      string    `json:"status"`
	RetryCount  int       `json:"retry_count"`
	LastError   string    `json:"last_error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromQueueItem converts a domain queue item to its response form
func FromQueueItem(item *possync.QueueItem) QueueItemResponse {
	return QueueItemResponse{
		ID:          item.ID.String(),
		OrderID:     item.OrderID.String(),
		OrderNumber: item.OrderNumber,
		ConfigID:    item.ConfigID.String(),
		Status:      item.Status.String(),
		RetryCount:  item.RetryCount,
		LastError:   item.LastError,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

// SyncRecordResponse represents a sync record in API responses
type SyncRecordResponse struct {
	ID                string    `json:"id"`
	OrderID           string    `json:"order_id"`
	OrderNumber       string    `json:"order_number"`
	ConfigID          string    `json:"config_id"`
	PosOrderID        *string   `json:"pos_order_id,omitempty"`
	PosExternalNumber *string   `json:"pos_external_number,omitempty"`
	Status            string    `json:"status"`
	ErrorMessage      string    `json:"error_message,omitempty"`
	ErrorCode         string    `json:"error_code,omitempty"`
	SyncedAt          time.Time `json:"synced_at"`
}

// FromSyncRecord converts a domain sync record to its response form
func FromSyncRecord(r *possync.SyncRecord) SyncRecordResponse {
	return SyncRecordResponse{
		ID:                r.ID.String(),
		OrderID:           r.OrderID.String(),
		OrderNumber:       r.OrderNumber,
		ConfigID:          r.ConfigID.String(),
		PosOrderID:        r.PosOrderID,
		PosExternalNumber: r.PosExternalNumber,
		Status:            r.Status.String(),
		ErrorMessage:      r.ErrorMessage,
		ErrorCode:         r.ErrorCode,
		SyncedAt:          r.SyncedAt,
	}
}

// CategoryMappingResponse represents a category mapping in API responses
type CategoryMappingResponse struct {
	ID              string    `json:"id"`
	ConfigID        string    `json:"config_id"`
	PosGroupID      string    `json:"pos_group_id"`
	Name            string    `json:"name"`
	LocalCategoryID *string   `json:"local_category_id,omitempty"`
	IsActive        bool      `json:"is_active"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// FromCategoryMapping converts a domain category mapping to its response form
func FromCategoryMapping(m *possync.CategoryMapping) CategoryMappingResponse {
	resp := CategoryMappingResponse{
		ID:         m.ID.String(),
		ConfigID:   m.ConfigID.String(),
		PosGroupID: m.PosGroupID,
		Name:       m.Name,
		IsActive:   m.IsActive,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.LocalCategoryID != nil {
		id := m.LocalCategoryID.String()
		resp.LocalCategoryID = &id
	}
	return resp
}

// ProductMappingResponse represents a product mapping in API responses
type ProductMappingResponse struct {
	ID             string    `json:"id"`
	ConfigID       string    `json:"config_id"`
	PosProductID   string    `json:"pos_product_id"`
	PosGroupID     string    `json:"pos_group_id"`
	LocalProductID *string   `json:"local_product_id,omitempty"`
	Name           string    `json:"name"`
	Price          string    `json:"price"`
	Available      bool      `json:"available"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FromProductMapping converts a domain product mapping to its response form
func FromProductMapping(m *possync.ProductMapping) ProductMappingResponse {
	resp := ProductMappingResponse{
		ID:           m.ID.String(),
		ConfigID:     m.ConfigID.String(),
		PosProductID: m.PosProductID,
		PosGroupID:   m.PosGroupID,
		Name:         m.Name,
		Price:        m.Price.StringFixed(2),
		Available:    m.Available,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.LocalProductID != nil {
		id := m.LocalProductID.String()
		resp.LocalProductID = &id
	}
	return resp
}

// MappingsResponse groups both mapping kinds for one store config
type MappingsResponse struct {
	ConfigID   string                    `json:"config_id"`
	Categories []CategoryMappingResponse `json:"categories"`
	Products   []ProductMappingResponse  `json:"products"`
}
