package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobashop/backend/internal/domain/possync"
)

func TestGormSyncRecordRepository_UpsertAndFind(t *testing.T) {
	repo := NewGormSyncRecordRepository(setupSyncTestDB(t))
	ctx := context.Background()

	item := possync.NewQueueItem(uuid.New(), "3001", uuid.New())
	record := possync.NewSuccessRecord(item, "pos-1", "ext-1")
	require.NoError(t, repo.Upsert(ctx, record))

	found, err := repo.FindByOrder(ctx, item.OrderID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, possync.RecordStatusSuccess, found.Status)
	assert.Equal(t, "pos-1", *found.PosOrderID)
	assert.Equal(t, "ext-1", *found.PosExternalNumber)
}

func TestGormSyncRecordRepository_UpsertReplacesEarlierOutcome(t *testing.T) {
	repo := NewGormSyncRecordRepository(setupSyncTestDB(t))
	ctx := context.Background()

	item := possync.NewQueueItem(uuid.New(), "3002", uuid.New())
	require.NoError(t, repo.Upsert(ctx, possync.NewFailureRecord(item, "terminal offline", "TerminalNotOperational")))
	require.NoError(t, repo.Upsert(ctx, possync.NewSuccessRecord(item, "pos-2", "ext-2")))

	found, err := repo.FindByOrder(ctx, item.OrderID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, possync.RecordStatusSuccess, found.Status)
	assert.Equal(t, "pos-2", *found.PosOrderID)

	all, err := repo.List(ctx, nil, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGormSyncRecordRepository_FindByOrderMissing(t *testing.T) {
	repo := NewGormSyncRecordRepository(setupSyncTestDB(t))

	found, err := repo.FindByOrder(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestGormSyncRecordRepository_ListFiltersByStatus(t *testing.T) {
	repo := NewGormSyncRecordRepository(setupSyncTestDB(t))
	ctx := context.Background()

	ok := possync.NewQueueItem(uuid.New(), "3003", uuid.New())
	failed := possync.NewQueueItem(uuid.New(), "3004", uuid.New())
	require.NoError(t, repo.Upsert(ctx, possync.NewSuccessRecord(ok, "pos-3", "ext-3")))
	require.NoError(t, repo.Upsert(ctx, possync.NewFailureRecord(failed, "product not in menu", "ProductNotFound")))

	status := possync.RecordStatusFailed
	records, err := repo.List(ctx, &status, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "3004", records[0].OrderNumber)
	assert.Equal(t, "ProductNotFound", records[0].ErrorCode)

	records, err = repo.List(ctx, nil, 1)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
