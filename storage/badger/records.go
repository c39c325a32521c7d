package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/medsearch/core"
	"github.com/poiesic/medsearch/storage"
)

// RecordRepository implements storage.RecordRepository for BadgerDB.
type RecordRepository struct {
	backend *Backend
}

var _ storage.RecordRepository = (*RecordRepository)(nil)

// NewRecordRepository creates a new RecordRepository.
func NewRecordRepository(backend *Backend) *RecordRepository {
	return &RecordRepository{
		backend: backend,
	}
}

// Close is a no-op; the backend is owned by the caller.
func (r *RecordRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *RecordRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// ReplaceDataset removes all stored data, then writes records and info in one transaction.
func (r *RecordRepository) ReplaceDataset(ctx context.Context, info *core.DatasetInfo, records ...*core.Record) error {
	if err := core.ValidateDatasetInfo(info); err != nil {
		return err
	}
	if err := validateRecords(records); err != nil {
		return err
	}
	if err := r.Clear(ctx); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := tx.Set(makeRecordKey(record.Row), storage.MarshalRecord(record)); err != nil {
				return err
			}
		}
		if err := tx.Set([]byte(datasetKey), storage.MarshalDatasetInfo(info)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// AddRecords stores records keyed by row.
func (r *RecordRepository) AddRecords(ctx context.Context, records ...*core.Record) error {
	if err := validateRecords(records); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := tx.Set(makeRecordKey(record.Row), storage.MarshalRecord(record)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetRecord retrieves the record stored at row.
func (r *RecordRepository) GetRecord(ctx context.Context, row int) (*core.Record, error) {
	if row < 0 {
		return nil, storage.ErrNotFound
	}

	var result *core.Record
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readRecord(tx, makeRecordKey(row))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetRecords returns every stored record in row order.
func (r *RecordRepository) GetRecords(ctx context.Context) ([]*core.Record, error) {
	var results []*core.Record
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := iter.Item()
			if _, ok := rowFromKey(item.Key()); !ok {
				continue
			}

			var record *core.Record
			err := item.Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalRecord(val)
				return err
			})
			if err != nil {
				return fmt.Errorf("record %x: %w", item.Key(), err)
			}
			results = append(results, record)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// CountRecords counts stored records without reading their values.
func (r *RecordRepository) CountRecords(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if _, ok := rowFromKey(iter.Item().Key()); ok {
				count++
			}
		}
		return ctx.Err()
	}, false)
	return count, err
}

// GetDatasetInfo returns the stored dataset description.
func (r *RecordRepository) GetDatasetInfo(ctx context.Context) (*core.DatasetInfo, error) {
	var info *core.DatasetInfo
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(datasetKey))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			info, unmarshalErr = storage.UnmarshalDatasetInfo(val)
			return unmarshalErr
		})
	}, false)
	return info, err
}

// SaveDatasetInfo stores the dataset description.
func (r *RecordRepository) SaveDatasetInfo(ctx context.Context, info *core.DatasetInfo) error {
	if err := core.ValidateDatasetInfo(info); err != nil {
		return err
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte(datasetKey), storage.MarshalDatasetInfo(info)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Clear removes every record and the dataset description.
func (r *RecordRepository) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.backend.DeletePrefix([]byte(recordPrefix), []byte(metaPrefix))
}

// readRecord reads a record from the database.
// Returns nil, nil if the record doesn't exist.
func (r *RecordRepository) readRecord(tx *badger.Txn, key []byte) (*core.Record, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var record *core.Record
	err = item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalRecord(val)
		return err
	})
	return record, err
}

func validateRecords(records []*core.Record) error {
	for _, record := range records {
		if err := core.ValidateRecord(record); err != nil {
			return err
		}
	}
	return nil
}
