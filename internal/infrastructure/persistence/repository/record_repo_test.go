package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/lic-claimdesk/internal/application/port"
	"github.com/garyjia/lic-claimdesk/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/lic-claimdesk/pkg/database"
)

func setupRepo(t *testing.T) (port.RecordRepository, *sqlite.DB) {
	t.Helper()
	logger := zap.NewNop()

	db, err := database.New(database.Config{Path: filepath.Join(t.TempDir(), "claimdesk.db"), MaxOpenConns: 1}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.NewMigrator(db, logger).RunEmbedded())

	return NewRecordRepository(db.DB, logger), sqlite.NewDB(db.DB, logger)
}

func TestRecordRepository_PutGetUpsert(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	rec, err := repo.Get(ctx, port.PartitionClaims, port.KeyActive)
	require.NoError(t, err)
	assert.Nil(t, rec)

	require.NoError(t, repo.Put(ctx, port.PartitionClaims, port.KeyActive, []byte(`{"a":1}`)))
	require.NoError(t, repo.Put(ctx, port.PartitionClaims, port.KeyActive, []byte(`{"a":2}`)))

	rec, err = repo.Get(ctx, port.PartitionClaims, port.KeyActive)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, `{"a":2}`, string(rec.Value))
	assert.False(t, rec.UpdatedAt.IsZero())

	n, err := repo.Count(ctx, port.PartitionClaims)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRecordRepository_ListAndDelete(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, port.PartitionPlans, "936", []byte(`{}`)))
	require.NoError(t, repo.Put(ctx, port.PartitionPlans, "179", []byte(`{}`)))
	require.NoError(t, repo.Put(ctx, port.PartitionClaims, "179", []byte(`{}`)))

	recs, err := repo.List(ctx, port.PartitionPlans)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "179", recs[0].Key)
	assert.Equal(t, "936", recs[1].Key)

	require.NoError(t, repo.Delete(ctx, port.PartitionPlans, "179"))
	require.NoError(t, repo.Delete(ctx, port.PartitionPlans, "missing"))

	n, err := repo.Count(ctx, port.PartitionPlans)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// other partitions are independent
	rec, err := repo.Get(ctx, port.PartitionClaims, "179")
	require.NoError(t, err)
	assert.NotNil(t, rec)
}

func TestRecordRepository_TransactionRollback(t *testing.T) {
	repo, tx := setupRepo(t)
	ctx := context.Background()
	boom := errors.New("abort")

	err := tx.WithTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, repo.Put(ctx, port.PartitionFollowUps, port.KeyBook, []byte(`{}`)))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	rec, err := repo.Get(ctx, port.PartitionFollowUps, port.KeyBook)
	require.NoError(t, err)
	assert.Nil(t, rec)

	err = tx.WithTransaction(ctx, func(ctx context.Context) error {
		return repo.Put(ctx, port.PartitionFollowUps, port.KeyBook, []byte(`{}`))
	})
	require.NoError(t, err)

	rec, err = repo.Get(ctx, port.PartitionFollowUps, port.KeyBook)
	require.NoError(t, err)
	assert.NotNil(t, rec)
}
