package iiko

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bobashop/backend/internal/domain/possync"
)

// memConfigRepo is an in-memory ConfigRepository for token manager tests
type memConfigRepo struct {
	mu      sync.Mutex
	configs map[uuid.UUID]*possync.StoreConfig
}

func newMemConfigRepo(configs ...*possync.StoreConfig) *memConfigRepo {
	repo := &memConfigRepo{configs: make(map[uuid.UUID]*possync.StoreConfig)}
	for _, cfg := range configs {
		repo.configs[cfg.ID] = cfg
	}
	return repo
}

func (r *memConfigRepo) FindByID(ctx context.Context, id uuid.UUID) (*possync.StoreConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg, ok := r.configs[id]
	if !ok {
		return nil, possync.ErrConfigNotFound
	}
	clone := *cfg
	return &clone, nil
}

func (r *memConfigRepo) FindActive(ctx context.Context) ([]possync.StoreConfig, error) {
	return nil, nil
}

func (r *memConfigRepo) UpdateToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg, ok := r.configs[id]
	if !ok {
		return possync.ErrConfigNotFound
	}
	cfg.SetToken(token, expiresAt)
	return nil
}

func (r *memConfigRepo) UpdateMenuSync(ctx context.Context, id uuid.UUID, revision int64, syncedAt time.Time) error {
	return nil
}

func (r *memConfigRepo) Save(ctx context.Context, config *possync.StoreConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[config.ID] = config
	return nil
}

// newTokenServer returns a token endpoint that counts exchanges
func newTokenServer(t *testing.T, ttlSeconds int64, calls *int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/1/access_token", r.URL.Path)
		n := atomic.AddInt64(calls, 1)
		json.NewEncoder(w).Encode(AccessTokenResponse{
			Token:           "tok-" + string(rune('0'+n)),
			TokenTTLSeconds: ttlSeconds,
		})
	}))
}

func TestTokenManager_ReusesValidToken(t *testing.T) {
	var calls int64
	srv := newTokenServer(t, 3600, &calls)
	defer srv.Close()

	cfg := possync.NewStoreConfig("Boba Central", srv.URL, "login-1", "org-1", "")
	cfg.SetToken("cached-token", time.Now().Add(time.Hour))
	repo := newMemConfigRepo(cfg)

	manager := NewTokenManager(repo, newTestClient(), 5*time.Minute, zap.NewNop())

	for i := 0; i < 3; i++ {
		token, err := manager.AccessToken(context.Background(), cfg.ID)
		require.NoError(t, err)
		assert.Equal(t, "cached-token", token)
	}

	// A token well within its lifetime never triggers a network call
	assert.Equal(t, int64(0), atomic.LoadInt64(&calls))
}

func TestTokenManager_RefreshesStaleToken(t *testing.T) {
	var calls int64
	srv := newTokenServer(t, 3600, &calls)
	defer srv.Close()

	// Expires inside the safety margin, so it counts as stale
	staleExpiry := time.Now().Add(time.Minute)
	cfg := possync.NewStoreConfig("Boba Central", srv.URL, "login-1", "org-1", "")
	cfg.SetToken("stale-token", staleExpiry)
	repo := newMemConfigRepo(cfg)

	manager := NewTokenManager(repo, newTestClient(), 5*time.Minute, zap.NewNop())

	token, err := manager.AccessToken(context.Background(), cfg.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "stale-token", token)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))

	// The refreshed expiry is strictly later than the stale one
	persisted, err := repo.FindByID(context.Background(), cfg.ID)
	require.NoError(t, err)
	require.NotNil(t, persisted.TokenExpiresAt)
	assert.True(t, persisted.TokenExpiresAt.After(staleExpiry))

	// The persisted token is reused on the next call
	again, err := manager.AccessToken(context.Background(), cfg.ID)
	require.NoError(t, err)
	assert.Equal(t, token, again)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestTokenManager_ConcurrentRefreshIsSingleFlight(t *testing.T) {
	var calls int64
	srv := newTokenServer(t, 3600, &calls)
	defer srv.Close()

	cfg := possync.NewStoreConfig("Boba Central", srv.URL, "login-1", "org-1", "")
	repo := newMemConfigRepo(cfg)
	manager := NewTokenManager(repo, newTestClient(), 5*time.Minute, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.AccessToken(context.Background(), cfg.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestTokenManager_ExchangeFailureIsSoft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	cfg := possync.NewStoreConfig("Boba Central", srv.URL, "bad-login", "org-1", "")
	repo := newMemConfigRepo(cfg)
	manager := NewTokenManager(repo, newTestClient(), 5*time.Minute, zap.NewNop())

	_, err := manager.AccessToken(context.Background(), cfg.ID)
	assert.ErrorIs(t, err, possync.ErrAuthFailed)
}

func TestTokenManager_UnknownConfigIsHard(t *testing.T) {
	manager := NewTokenManager(newMemConfigRepo(), newTestClient(), 5*time.Minute, zap.NewNop())

	_, err := manager.AccessToken(context.Background(), uuid.New())
	assert.ErrorIs(t, err, possync.ErrConfigNotFound)
}
