package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/lic-claimdesk/internal/application/port"
	"github.com/garyjia/lic-claimdesk/internal/infrastructure/persistence/sqlite"
)

// RecordRepository implements port.RecordRepository over the kv_records table
type RecordRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRecordRepository creates a new record repository
func NewRecordRepository(db *sql.DB, logger *zap.Logger) port.RecordRepository {
	return &RecordRepository{
		db:     db,
		logger: logger,
	}
}

// Get retrieves one record, returning nil when the key does not exist
func (r *RecordRepository) Get(ctx context.Context, partition, key string) (*port.Record, error) {
	query := `
		SELECT partition, key, value, updated_at
		FROM kv_records
		WHERE partition = ? AND key = ?
	`

	var rec port.Record
	err := r.getExecutor(ctx).QueryRowContext(ctx, query, partition, key).Scan(
		&rec.Partition,
		&rec.Key,
		&rec.Value,
		&rec.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get record",
			zap.String("partition", partition),
			zap.String("key", key),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get record %s/%s: %w", partition, key, err)
	}

	return &rec, nil
}

// Put inserts or replaces a record
func (r *RecordRepository) Put(ctx context.Context, partition, key string, value []byte) error {
	query := `
		INSERT INTO kv_records (partition, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(partition, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`

	_, err := r.getExecutor(ctx).ExecContext(ctx, query, partition, key, value, time.Now().UTC())
	if err != nil {
		r.logger.Error("Failed to put record",
			zap.String("partition", partition),
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("failed to put record %s/%s: %w", partition, key, err)
	}

	return nil
}

// Delete removes a record
func (r *RecordRepository) Delete(ctx context.Context, partition, key string) error {
	query := `DELETE FROM kv_records WHERE partition = ? AND key = ?`

	if _, err := r.getExecutor(ctx).ExecContext(ctx, query, partition, key); err != nil {
		r.logger.Error("Failed to delete record",
			zap.String("partition", partition),
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("failed to delete record %s/%s: %w", partition, key, err)
	}

	return nil
}

// List returns all records of a partition ordered by key
func (r *RecordRepository) List(ctx context.Context, partition string) ([]*port.Record, error) {
	query := `
		SELECT partition, key, value, updated_at
		FROM kv_records
		WHERE partition = ?
		ORDER BY key
	`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, partition)
	if err != nil {
		r.logger.Error("Failed to list records", zap.String("partition", partition), zap.Error(err))
		return nil, fmt.Errorf("failed to list records in %s: %w", partition, err)
	}
	defer rows.Close()

	var records []*port.Record
	for rows.Next() {
		var rec port.Record
		if err := rows.Scan(&rec.Partition, &rec.Key, &rec.Value, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}

// Count returns the number of records in a partition
func (r *RecordRepository) Count(ctx context.Context, partition string) (int, error) {
	var n int
	err := r.getExecutor(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM kv_records WHERE partition = ?`, partition,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count records in %s: %w", partition, err)
	}
	return n, nil
}

func (r *RecordRepository) getExecutor(ctx context.Context) sqlite.Executor {
	return sqlite.ExecutorFor(ctx, r.db)
}
