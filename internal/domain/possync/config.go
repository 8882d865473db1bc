package possync

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultTokenSafetyMargin is how long before expiry a cached token is
// treated as stale and refreshed.
const DefaultTokenSafetyMargin = 5 * time.Minute

// StoreConfig is one store/terminal binding to the external POS cloud.
//
// The cached token fields are mutated only by the token manager; everything
// else is mutated by admin configuration actions outside the sync core.
// A config with IsActive == false must never be selected for sync work.
type StoreConfig struct {
	// ID is the configuration identifier
	ID uuid.UUID
	// StoreName is the human-readable store name
	StoreName string
	// APIBaseURL is the POS cloud API base URL
	APIBaseURL string
	// APILogin is the POS API login credential
	APILogin string
	// OrganizationID is the POS organization identifier
	OrganizationID string
	// TerminalGroupID is the POS terminal group identifier (optional)
	TerminalGroupID string
	// IsActive indicates whether this config is eligible for synchronization
	IsActive bool
	// AccessToken is the cached bearer token (absent until first acquired)
	AccessToken *string
	// TokenExpiresAt is the absolute expiry of the cached token
	TokenExpiresAt *time.Time
	// MenuRevision is the last catalog revision pulled by menu sync
	MenuRevision int64
	// LastMenuSyncAt is when menu sync last completed for this store
	LastMenuSyncAt *time.Time
	// CreatedAt is when this config was created
	CreatedAt time.Time
	// UpdatedAt is when this config was last updated
	UpdatedAt time.Time
}

// NewStoreConfig creates an active store configuration bound to the given
// POS organization
func NewStoreConfig(storeName, apiBaseURL, apiLogin, organizationID, terminalGroupID string) *StoreConfig {
	now := time.Now()
	return &StoreConfig{
		ID:              uuid.New(),
		StoreName:       storeName,
		APIBaseURL:      apiBaseURL,
		APILogin:        apiLogin,
		OrganizationID:  organizationID,
		TerminalGroupID: terminalGroupID,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// HasValidToken returns true when the cached token exists and its expiry is
// more than margin in the future.
func (c *StoreConfig) HasValidToken(now time.Time, margin time.Duration) bool {
	if c.AccessToken == nil || *c.AccessToken == "" || c.TokenExpiresAt == nil {
		return false
	}
	return c.TokenExpiresAt.After(now.Add(margin))
}

// SetToken stores a freshly acquired token and its absolute expiry
func (c *StoreConfig) SetToken(token string, expiresAt time.Time) {
	c.AccessToken = &token
	c.TokenExpiresAt = &expiresAt
}

// MarkMenuSynced records a completed menu sync at the given revision
func (c *StoreConfig) MarkMenuSynced(revision int64, at time.Time) {
	c.MenuRevision = revision
	c.LastMenuSyncAt = &at
}

// ConfigRepository is the persistence port for store configurations.
// Only UpdateToken and UpdateMenuSync are written from the sync core.
type ConfigRepository interface {
	// FindByID returns the config with the given ID, or ErrConfigNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*StoreConfig, error)

	// FindActive returns all configs eligible for synchronization
	FindActive(ctx context.Context) ([]StoreConfig, error)

	// UpdateToken persists the cached token and its expiry
	UpdateToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error

	// UpdateMenuSync persists the menu revision marker and sync timestamp
	UpdateMenuSync(ctx context.Context, id uuid.UUID, revision int64, syncedAt time.Time) error

	// Save creates or updates a config (admin surface)
	Save(ctx context.Context, config *StoreConfig) error
}

// TokenSource supplies a valid bearer token for a store configuration.
//
// An unknown configID is a hard error. A failed exchange with the POS auth
// endpoint is soft: it returns ErrAuthFailed and the caller treats the
// operation as a transient sync failure.
type TokenSource interface {
	AccessToken(ctx context.Context, configID uuid.UUID) (string, error)
}
