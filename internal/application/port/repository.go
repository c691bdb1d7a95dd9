package port

import (
	"context"
	"time"
)

// Partitions of the record store
const (
	PartitionPlans        = "plans"
	PartitionClaims       = "claims"
	PartitionSpecialCases = "specialCases"
	PartitionTodos        = "todos"
	PartitionFollowUps    = "followups"
)

// Sentinel keys hold whole aggregates as one blob. Any other key in the
// claims or specialCases partition is a legacy per-record entry.
const (
	KeyActive    = "__active__"
	KeyWorkflow  = "__workflow__"
	KeyCompleted = "__completed__"
	KeyBook      = "__book__"
)

// IsSentinelKey reports whether key is one of the aggregate blob keys
func IsSentinelKey(key string) bool {
	switch key {
	case KeyActive, KeyWorkflow, KeyCompleted, KeyBook:
		return true
	}
	return false
}

// Record is one row of the key-value store
type Record struct {
	Partition string
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

// RecordRepository defines persistence operations for the partitioned key-value store
type RecordRepository interface {
	// Get returns nil, nil when the key does not exist
	Get(ctx context.Context, partition, key string) (*Record, error)

	// Put inserts or replaces a record
	Put(ctx context.Context, partition, key string, value []byte) error

	// Delete removes a record; deleting a missing key is not an error
	Delete(ctx context.Context, partition, key string) error

	// List returns all records of a partition ordered by key
	List(ctx context.Context, partition string) ([]*Record, error)

	// Count returns the number of records in a partition
	Count(ctx context.Context, partition string) (int, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
