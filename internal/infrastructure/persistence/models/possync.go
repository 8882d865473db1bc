package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bobashop/backend/internal/domain/possync"
)

// StoreConfigModel is the persistence model for the StoreConfig domain entity.
type StoreConfigModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key"`
	StoreName       string     `gorm:"type:varchar(255);not null"`
	APIBaseURL      string     `gorm:"type:varchar(255);not null;column:api_base_url"`
	APILogin        string     `gorm:"type:varchar(255);not null;column:api_login"`
	OrganizationID  string     `gorm:"type:varchar(100);not null"`
	TerminalGroupID string     `gorm:"type:varchar(100);not null"`
	IsActive        bool       `gorm:"not null;default:true;index"`
	AccessToken     *string    `gorm:"type:text"`
	TokenExpiresAt  *time.Time
	MenuRevision    int64 `gorm:"not null;default:0"`
	LastMenuSyncAt  *time.Time
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StoreConfigModel) TableName() string {
	return "store_configs"
}

// ToDomain converts the persistence model to a domain StoreConfig entity.
func (m *StoreConfigModel) ToDomain() *possync.StoreConfig {
	return &possync.StoreConfig{
		ID:              m.ID,
		StoreName:       m.StoreName,
		APIBaseURL:      m.APIBaseURL,
		APILogin:        m.APILogin,
		OrganizationID:  m.OrganizationID,
		TerminalGroupID: m.TerminalGroupID,
		IsActive:        m.IsActive,
		AccessToken:     m.AccessToken,
		TokenExpiresAt:  m.TokenExpiresAt,
		MenuRevision:    m.MenuRevision,
		LastMenuSyncAt:  m.LastMenuSyncAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain StoreConfig entity.
func (m *StoreConfigModel) FromDomain(c *possync.StoreConfig) {
	m.ID = c.ID
	m.StoreName = c.StoreName
	m.APIBaseURL = c.APIBaseURL
	m.APILogin = c.APILogin
	m.OrganizationID = c.OrganizationID
	m.TerminalGroupID = c.TerminalGroupID
	m.IsActive = c.IsActive
	m.AccessToken = c.AccessToken
	m.TokenExpiresAt = c.TokenExpiresAt
	m.MenuRevision = c.MenuRevision
	m.LastMenuSyncAt = c.LastMenuSyncAt
	m.CreatedAt = c.CreatedAt
	m.UpdatedAt = c.UpdatedAt
}

// StoreConfigModelFromDomain creates a new persistence model from a domain entity.
func StoreConfigModelFromDomain(c *possync.StoreConfig) *StoreConfigModel {
	m := &StoreConfigModel{}
	m.FromDomain(c)
	return m
}

// SyncQueueItemModel is the persistence model for the QueueItem domain entity.
type SyncQueueItemModel struct {
	ID          uuid.UUID           `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_sync_queue_order"`
	OrderNumber string              `gorm:"type:varchar(50);not null"`
	ConfigID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	Status      possync.QueueStatus `gorm:"type:varchar(20);not null;index;default:'PENDING'"`
	RetryCount  int                 `gorm:"not null;default:0"`
	LastError   string              `gorm:"type:text"`
	CreatedAt   time.Time           `gorm:"not null;index"`
	UpdatedAt   time.Time           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SyncQueueItemModel) TableName() string {
	return "sync_queue_items"
}

// ToDomain converts the persistence model to a domain QueueItem entity.
func (m *SyncQueueItemModel) ToDomain() *possync.QueueItem {
	return &possync.QueueItem{
		ID:          m.ID,
		OrderID:     m.OrderID,
		OrderNumber: m.OrderNumber,
		ConfigID:    m.ConfigID,
		Status:      m.Status,
		RetryCount:  m.RetryCount,
		LastError:   m.LastError,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// SyncQueueItemModelFromDomain creates a new persistence model from a domain entity.
func SyncQueueItemModelFromDomain(q *possync.QueueItem) *SyncQueueItemModel {
	return &SyncQueueItemModel{
		ID:          q.ID,
		OrderID:     q.OrderID,
		OrderNumber: q.OrderNumber,
		ConfigID:    q.ConfigID,
		Status:      q.Status,
		RetryCount:  q.RetryCount,
		LastError:   q.LastError,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
}

// SyncRecordModel is the persistence model for the SyncRecord domain entity.
type SyncRecordModel struct {
	ID                uuid.UUID            `gorm:"type:uuid;primary_key"`
	OrderID           uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_sync_record_order"`
	OrderNumber       string               `gorm:"type:varchar(50);not null"`
	ConfigID          uuid.UUID            `gorm:"type:uuid;not null;index"`
	PosOrderID        *string              `gorm:"type:varchar(100);column:pos_order_id"`
	PosExternalNumber *string              `gorm:"type:varchar(100);column:pos_external_number"`
	Status            possync.RecordStatus `gorm:"type:varchar(20);not null;index"`
	ErrorMessage      string               `gorm:"type:text"`
	ErrorCode         string               `gorm:"type:varchar(100)"`
	SyncedAt          time.Time            `gorm:"not null"`
	CreatedAt         time.Time            `gorm:"not null"`
	UpdatedAt         time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SyncRecordModel) TableName() string {
	return "sync_records"
}

// ToDomain converts the persistence model to a domain SyncRecord entity.
func (m *SyncRecordModel) ToDomain() *possync.SyncRecord {
	return &possync.SyncRecord{
		ID:                m.ID,
		OrderID:           m.OrderID,
		OrderNumber:       m.OrderNumber,
		ConfigID:          m.ConfigID,
		PosOrderID:        m.PosOrderID,
		PosExternalNumber: m.PosExternalNumber,
		Status:            m.Status,
		ErrorMessage:      m.ErrorMessage,
		ErrorCode:         m.ErrorCode,
		SyncedAt:          m.SyncedAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// SyncRecordModelFromDomain creates a new persistence model from a domain entity.
func SyncRecordModelFromDomain(r *possync.SyncRecord) *SyncRecordModel {
	return &SyncRecordModel{
		ID:                r.ID,
		OrderID:           r.OrderID,
		OrderNumber:       r.OrderNumber,
		ConfigID:          r.ConfigID,
		PosOrderID:        r.PosOrderID,
		PosExternalNumber: r.PosExternalNumber,
		Status:            r.Status,
		ErrorMessage:      r.ErrorMessage,
		ErrorCode:         r.ErrorCode,
		SyncedAt:          r.SyncedAt,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

// CategoryMappingModel is the persistence model for the CategoryMapping entity.
type CategoryMappingModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key"`
	ConfigID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_category_mapping_config_group,priority:1"`
	PosGroupID      string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_category_mapping_config_group,priority:2"`
	Name            string     `gorm:"type:varchar(255);not null"`
	LocalCategoryID *uuid.UUID `gorm:"type:uuid;index"`
	IsActive        bool       `gorm:"not null;default:true"`
	CreatedAt       time.Time  `gorm:"not null"`
	UpdatedAt       time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CategoryMappingModel) TableName() string {
	return "category_mappings"
}

// ToDomain converts the persistence model to a domain CategoryMapping entity.
func (m *CategoryMappingModel) ToDomain() *possync.CategoryMapping {
	return &possync.CategoryMapping{
		ID:              m.ID,
		ConfigID:        m.ConfigID,
		PosGroupID:      m.PosGroupID,
		Name:            m.Name,
		LocalCategoryID: m.LocalCategoryID,
		IsActive:        m.IsActive,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// CategoryMappingModelFromDomain creates a new persistence model from a domain entity.
func CategoryMappingModelFromDomain(c *possync.CategoryMapping) *CategoryMappingModel {
	return &CategoryMappingModel{
		ID:              c.ID,
		ConfigID:        c.ConfigID,
		PosGroupID:      c.PosGroupID,
		Name:            c.Name,
		LocalCategoryID: c.LocalCategoryID,
		IsActive:        c.IsActive,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// ProductMappingModel is the persistence model for the ProductMapping entity.
type ProductMappingModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	ConfigID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_product_mapping_config_product,priority:1"`
	PosProductID   string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_product_mapping_config_product,priority:2"`
	PosGroupID     string          `gorm:"type:varchar(100);not null;index"`
	LocalProductID *uuid.UUID      `gorm:"type:uuid;index"`
	Name           string          `gorm:"type:varchar(255);not null"`
	Price          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Available      bool            `gorm:"not null;default:true"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductMappingModel) TableName() string {
	return "product_mappings"
}

// ToDomain converts the persistence model to a domain ProductMapping entity.
func (m *ProductMappingModel) ToDomain() *possync.ProductMapping {
	return &possync.ProductMapping{
		ID:             m.ID,
		ConfigID:       m.ConfigID,
		PosProductID:   m.PosProductID,
		PosGroupID:     m.PosGroupID,
		LocalProductID: m.LocalProductID,
		Name:           m.Name,
		Price:          m.Price,
		Available:      m.Available,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// ProductMappingModelFromDomain creates a new persistence model from a domain entity.
func ProductMappingModelFromDomain(p *possync.ProductMapping) *ProductMappingModel {
	return &ProductMappingModel{
		ID:             p.ID,
		ConfigID:       p.ConfigID,
		PosProductID:   p.PosProductID,
		PosGroupID:     p.PosGroupID,
		LocalProductID: p.LocalProductID,
		Name:           p.Name,
		Price:          p.Price,
		Available:      p.Available,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
