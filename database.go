// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package medsearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/medsearch/core"
	"github.com/poiesic/medsearch/dataset"
	"github.com/poiesic/medsearch/importer"
	"github.com/poiesic/medsearch/index"
	"github.com/poiesic/medsearch/search"
	"github.com/poiesic/medsearch/storage"
	"github.com/poiesic/medsearch/storage/badger"
)

// ErrEmptyDatabase is returned when a searcher is requested from a store with no records.
var ErrEmptyDatabase = errors.New("database holds no records; import a dataset first")

// Database is a persistent medicine record store.
type Database struct {
	backend    *badger.Backend
	recordRepo storage.RecordRepository
	logger     *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	inMemory bool
	logger   *slog.Logger
}

// WithInMemory keeps the store in memory; the path is ignored.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

// NewDatabase opens or creates the record store at filePath.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	return &Database{
		backend:    backend,
		recordRepo: badger.NewRecordRepository(backend),
		logger:     options.logger,
	}, nil
}

func (db *Database) Close() error {
	if err := db.recordRepo.Close(); err != nil {
		db.logger.Error("error closing record repository", "err", err)
		return err
	}

	// Close backend
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) RecordRepository() storage.RecordRepository {
	return db.recordRepo
}

// Import replaces the stored dataset with ds.
// A nil config uses importer.DefaultConfig; a nil progress writer discards output.
func (db *Database) Import(ctx context.Context, ds *dataset.Dataset, config *importer.Config, progress io.Writer) (*core.DatasetInfo, error) {
	return importer.NewImporter(db.recordRepo, config, progress).Run(ctx, ds)
}

// DatasetInfo describes the stored dataset.
// Returns storage.ErrNotFound if nothing has been imported.
func (db *Database) DatasetInfo(ctx context.Context) (*core.DatasetInfo, error) {
	return db.recordRepo.GetDatasetInfo(ctx)
}

// NewSearcher loads every stored record and indexes it.
func (db *Database) NewSearcher(ctx context.Context, opts ...search.Option) (*search.Searcher, error) {
	records, err := db.recordRepo.GetRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyDatabase
	}
	return newSearcher(ctx, records, db.logger, opts...)
}

// OpenDataset loads a dataset file and returns a searcher over it along with
// the dataset description.
func OpenDataset(ctx context.Context, path string, datasetOpts dataset.Options, opts ...search.Option) (*search.Searcher, *core.DatasetInfo, error) {
	ds, err := dataset.Load(path, datasetOpts)
	if err != nil {
		return nil, nil, err
	}
	s, err := newSearcher(ctx, ds.Records, slog.Default(), opts...)
	if err != nil {
		return nil, nil, err
	}
	return s, &ds.Info, nil
}

func newSearcher(ctx context.Context, records []*core.Record, logger *slog.Logger, opts ...search.Option) (*search.Searcher, error) {
	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.Text
	}

	idx, err := index.Build(ctx, texts, index.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	searchOpts := append([]search.Option{search.WithLogger(logger)}, opts...)
	return search.NewSearcher(idx, records, searchOpts...)
}
