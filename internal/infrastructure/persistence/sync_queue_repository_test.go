package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bobashop/backend/internal/domain/possync"
	"github.com/bobashop/backend/internal/infrastructure/persistence/models"
)

func setupSyncTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.SyncQueueItemModel{},
		&models.SyncRecordModel{},
		&models.ProductMappingModel{},
		&models.CategoryMappingModel{},
		&models.StoreConfigModel{},
	)
	require.NoError(t, err)

	return db
}

func enqueueTestItem(t *testing.T, repo *GormSyncQueueRepository, orderNumber string) *possync.QueueItem {
	t.Helper()
	item := possync.NewQueueItem(uuid.New(), orderNumber, uuid.New())
	require.NoError(t, repo.Enqueue(context.Background(), item))
	return item
}

func TestGormSyncQueueRepository_EnqueueAndFind(t *testing.T) {
	repo := NewGormSyncQueueRepository(setupSyncTestDB(t))
	item := enqueueTestItem(t, repo, "1001")

	found, err := repo.FindByOrder(context.Background(), item.OrderID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, found.ID)
	assert.Equal(t, "1001", found.OrderNumber)
	assert.Equal(t, possync.QueueStatusPending, found.Status)

	_, err = repo.FindByOrder(context.Background(), uuid.New())
	assert.ErrorIs(t, err, possync.ErrQueueItemNotFound)
}

func TestGormSyncQueueRepository_ClaimPending(t *testing.T) {
	repo := NewGormSyncQueueRepository(setupSyncTestDB(t))
	ctx := context.Background()

	t.Run("claims in insertion order up to the limit", func(t *testing.T) {
		first := enqueueTestItem(t, repo, "2001")
		second := enqueueTestItem(t, repo, "2002")
		third := enqueueTestItem(t, repo, "2003")

		claimed, err := repo.ClaimPending(ctx, 2)
		require.NoError(t, err)
		require.Len(t, claimed, 2)
		assert.Equal(t, first.ID, claimed[0].ID)
		assert.Equal(t, second.ID, claimed[1].ID)
		assert.Equal(t, possync.QueueStatusProcessing, claimed[0].Status)

		// The third item is still pending and claimable.
		remaining, err := repo.ClaimPending(ctx, 10)
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		assert.Equal(t, third.ID, remaining[0].ID)
	})

	t.Run("claimed items are not claimable twice", func(t *testing.T) {
		claimed, err := repo.ClaimPending(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, claimed)
	})
}

func TestGormSyncQueueRepository_UpdateStatus(t *testing.T) {
	repo := NewGormSyncQueueRepository(setupSyncTestDB(t))
	ctx := context.Background()
	item := enqueueTestItem(t, repo, "3001")

	err := repo.UpdateStatus(ctx, item.ID, possync.QueueStatusPending, 1, "HTTP 503: overloaded")
	require.NoError(t, err)

	found, err := repo.FindByOrder(ctx, item.OrderID)
	require.NoError(t, err)
	assert.Equal(t, possync.QueueStatusPending, found.Status)
	assert.Equal(t, 1, found.RetryCount)
	assert.Equal(t, "HTTP 503: overloaded", found.LastError)

	err = repo.UpdateStatus(ctx, uuid.New(), possync.QueueStatusFailed, 3, "gone")
	assert.ErrorIs(t, err, possync.ErrQueueItemNotFound)
}

func TestGormSyncQueueRepository_RetriedItemIsReclaimable(t *testing.T) {
	repo := NewGormSyncQueueRepository(setupSyncTestDB(t))
	ctx := context.Background()
	item := enqueueTestItem(t, repo, "4001")

	claimed, err := repo.ClaimPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, claimed, 1)

	// Transition back to pending after a transient failure.
	require.NoError(t, repo.UpdateStatus(ctx, item.ID, possync.QueueStatusPending, 1, "timeout"))

	reclaimed, err := repo.ClaimPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, reclaimed, 1)
	assert.Equal(t, item.ID, reclaimed[0].ID)
	assert.Equal(t, 1, reclaimed[0].RetryCount)
}

func TestGormSyncQueueRepository_List(t *testing.T) {
	repo := NewGormSyncQueueRepository(setupSyncTestDB(t))
	ctx := context.Background()

	itemA := enqueueTestItem(t, repo, "5001")
	itemB := enqueueTestItem(t, repo, "5002")
	require.NoError(t, repo.UpdateStatus(ctx, itemA.ID, possync.QueueStatusFailed, 3, "exhausted"))

	all, err := repo.List(ctx, nil, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending := possync.QueueStatusPending
	onlyPending, err := repo.List(ctx, &pending, 0)
	require.NoError(t, err)
	require.Len(t, onlyPending, 1)
	assert.Equal(t, itemB.ID, onlyPending[0].ID)
}
