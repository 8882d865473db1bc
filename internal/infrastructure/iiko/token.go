package iiko

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bobashop/backend/internal/domain/possync"
)

// TokenManager owns the cached-token fields of store configurations. It
// implements possync.TokenSource.
//
// A cached token is reused while its expiry is more than the safety margin
// away; otherwise the manager performs a fresh exchange and persists the new
// token with its absolute expiry. Refreshes for the same config are
// serialized by a per-config mutex so overlapping processor runs do not
// issue duplicate exchanges.
type TokenManager struct {
	configs possync.ConfigRepository
	client  *Client
	logger  *zap.Logger
	margin  time.Duration

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewTokenManager creates a token manager. A non-positive margin falls back
// to the default five minutes.
func NewTokenManager(configs possync.ConfigRepository, client *Client, margin time.Duration, logger *zap.Logger) *TokenManager {
	if margin <= 0 {
		margin = possync.DefaultTokenSafetyMargin
	}
	return &TokenManager{
		configs: configs,
		client:  client,
		logger:  logger,
		margin:  margin,
		locks:   make(map[uuid.UUID]*sync.Mutex),
	}
}

// AccessToken returns a valid bearer token for the config.
//
// An unknown configID is a hard error (data-integrity defect). A failed
// exchange is soft: it is logged and returned as ErrAuthFailed, which the
// caller treats as "cannot sync now".
func (m *TokenManager) AccessToken(ctx context.Context, configID uuid.UUID) (string, error) {
	cfg, err := m.configs.FindByID(ctx, configID)
	if err != nil {
		return "", err
	}

	now := time.Now()
	if cfg.HasValidToken(now, m.margin) {
		return *cfg.AccessToken, nil
	}

	lock := m.configLock(configID)
	lock.Lock()
	defer lock.Unlock()

	// Another caller may have refreshed while we waited for the lock.
	cfg, err = m.configs.FindByID(ctx, configID)
	if err != nil {
		return "", err
	}
	now = time.Now()
	if cfg.HasValidToken(now, m.margin) {
		return *cfg.AccessToken, nil
	}

	token, ttl, err := m.client.Authenticate(ctx, cfg.APIBaseURL, cfg.APILogin)
	if err != nil {
		m.logger.Error("POS token exchange failed",
			zap.String("config_id", configID.String()),
			zap.String("store", cfg.StoreName),
			zap.Error(err),
		)
		return "", fmt.Errorf("%w: %v", possync.ErrAuthFailed, err)
	}

	expiresAt := now.Add(ttl)
	if err := m.configs.UpdateToken(ctx, configID, token, expiresAt); err != nil {
		// Token is still usable for this operation; the next caller will
		// simply refresh again.
		m.logger.Warn("failed to persist refreshed POS token",
			zap.String("config_id", configID.String()),
			zap.Error(err),
		)
	}

	m.logger.Debug("refreshed POS token",
		zap.String("config_id", configID.String()),
		zap.Time("expires_at", expiresAt),
	)
	return token, nil
}

// configLock returns the refresh mutex for a config, creating it on first use
func (m *TokenManager) configLock(configID uuid.UUID) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[configID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[configID] = lock
	}
	return lock
}

// Ensure TokenManager implements TokenSource
var _ possync.TokenSource = (*TokenManager)(nil)
