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


package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/medsearch/core"
	"github.com/poiesic/medsearch/dataset"
	"github.com/poiesic/medsearch/storage"
)

// Config holds configuration for an import.
type Config struct {
	// BatchSize is the number of records written per transaction
	BatchSize int

	// ReportInterval is how often to report progress (number of records)
	ReportInterval int

	// MaxRetries is the maximum number of attempts per batch
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      500,
		ReportInterval: 500,
		MaxRetries:     3,
		RetryDelay:     100 * time.Millisecond,
	}
}

// Validate checks that every field is in range.
func (c *Config) Validate() error {
	switch {
	case c.BatchSize < 1:
		return fmt.Errorf("%w: batch size must be positive", ErrInvalidConfig)
	case c.ReportInterval < 1:
		return fmt.Errorf("%w: report interval must be positive", ErrInvalidConfig)
	case c.MaxRetries < 1:
		return fmt.Errorf("%w: max retries must be positive", ErrInvalidConfig)
	case c.RetryDelay < 0:
		return fmt.Errorf("%w: retry delay cannot be negative", ErrInvalidConfig)
	}
	return nil
}

// Importer replaces the contents of a repository with a dataset.
type Importer struct {
	repo     storage.RecordRepository
	config   *Config
	progress io.Writer
	logger   *slog.Logger
}

// NewImporter creates a new importer.
// progress: where to write progress output (typically os.Stderr); nil discards it
func NewImporter(repo storage.RecordRepository, config *Config, progress io.Writer) *Importer {
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}
	return &Importer{
		repo:     repo,
		config:   config,
		progress: progress,
		logger:   slog.Default(),
	}
}

// Run replaces the repository contents with ds and returns the description
// as stored. Every record is validated before anything is removed, so a bad
// dataset leaves the previous import in place.
//
// A dataset that fits in one batch is written with ReplaceDataset in a single
// transaction. Larger datasets are cleared and written batch by batch with the
// description saved last, so a repository without one holds an incomplete
// import.
func (im *Importer) Run(ctx context.Context, ds *dataset.Dataset) (*core.DatasetInfo, error) {
	if err := im.config.Validate(); err != nil {
		return nil, err
	}
	if ds == nil || len(ds.Records) == 0 {
		return nil, ErrNoRecords
	}

	total := len(ds.Records)
	info := ds.Info
	info.Columns = append([]string(nil), ds.Info.Columns...)
	info.RecordCount = total
	if err := core.ValidateDatasetInfo(&info); err != nil {
		return nil, err
	}
	for _, record := range ds.Records {
		if err := core.ValidateRecord(record); err != nil {
			return nil, fmt.Errorf("row %d: %w", rowOf(record), err)
		}
	}

	fmt.Fprintf(im.progress, "Importing %d records (batch size: %d)\n", total, im.config.BatchSize)

	tracker := NewProgressTracker(im.progress, total, im.config.ReportInterval)
	tracker.Start()

	if total <= im.config.BatchSize {
		info.ImportedAt = time.Now().UTC()
		err := RetryWithBackoff(ctx, func() error {
			return im.repo.ReplaceDataset(ctx, &info, ds.Records...)
		}, im.config.MaxRetries, im.config.RetryDelay, IsTransient)
		if err != nil {
			tracker.Finish()
			return nil, fmt.Errorf("failed to store dataset: %w", err)
		}
		tracker.Add(total)
		return im.finish(tracker, &info), nil
	}

	if err := im.repo.Clear(ctx); err != nil {
		tracker.Finish()
		return nil, fmt.Errorf("failed to clear repository: %w", err)
	}

	for start := 0; start < total; start += im.config.BatchSize {
		end := min(start+im.config.BatchSize, total)
		batch := ds.Records[start:end]

		err := RetryWithBackoff(ctx, func() error {
			return im.repo.AddRecords(ctx, batch...)
		}, im.config.MaxRetries, im.config.RetryDelay, IsTransient)
		if err != nil {
			tracker.Finish()
			return nil, fmt.Errorf("failed to store rows %d-%d: %w", start, end-1, err)
		}
		tracker.Add(len(batch))
	}

	info.ImportedAt = time.Now().UTC()
	if err := im.repo.SaveDatasetInfo(ctx, &info); err != nil {
		tracker.Finish()
		return nil, fmt.Errorf("failed to save dataset info: %w", err)
	}

	return im.finish(tracker, &info), nil
}

func (im *Importer) finish(tracker *ProgressTracker, info *core.DatasetInfo) *core.DatasetInfo {
	tracker.Finish()
	elapsed := tracker.Elapsed()
	fmt.Fprintf(im.progress, "Import complete. Stored %d records in %v\n",
		info.RecordCount, elapsed.Round(time.Millisecond))
	im.logger.Info("dataset imported",
		"source", info.Source,
		"records", info.RecordCount,
		"elapsed", elapsed)
	return info
}

func rowOf(record *core.Record) int {
	if record == nil {
		return -1
	}
	return record.Row
}
