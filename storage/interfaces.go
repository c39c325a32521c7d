package storage

import (
	"context"

	"github.com/poiesic/medsearch/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the repository and releases resources.
	Close() error
}

// RecordRepository persists one dataset: its records in row order and its description.
type RecordRepository interface {
	Repository

	// ReplaceDataset removes every stored record, then stores records and info
	// in a single transaction. Only suitable for datasets that fit in one
	// transaction; use Clear, AddRecords and SaveDatasetInfo for larger ones.
	ReplaceDataset(ctx context.Context, info *core.DatasetInfo, records ...*core.Record) error

	// AddRecords stores records keyed by Row. A record with an existing Row replaces it.
	AddRecords(ctx context.Context, records ...*core.Record) error

	// GetRecord retrieves the record at row.
	// Returns ErrNotFound if no record exists at that row.
	GetRecord(ctx context.Context, row int) (*core.Record, error)

	// GetRecords returns every stored record ordered by Row.
	GetRecords(ctx context.Context) ([]*core.Record, error)

	// CountRecords returns the number of stored records.
	CountRecords(ctx context.Context) (int, error)

	// GetDatasetInfo returns the stored dataset description.
	// Returns ErrNotFound if none has been saved.
	GetDatasetInfo(ctx context.Context) (*core.DatasetInfo, error)

	// SaveDatasetInfo stores the dataset description, replacing any previous one.
	SaveDatasetInfo(ctx context.Context, info *core.DatasetInfo) error

	// Clear removes every record and the dataset description.
	Clear(ctx context.Context) error
}
