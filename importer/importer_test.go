package importer

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/medsearch/core"
	"github.com/poiesic/medsearch/dataset"
	"github.com/poiesic/medsearch/storage"
	storagebadger "github.com/poiesic/medsearch/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepo(t *testing.T) (storage.RecordRepository, func()) {
	t.Helper()
	repo, backend, err := storagebadger.NewMemoryRepository()
	require.NoError(t, err)
	return repo, func() {
		repo.Close()
		backend.Close()
	}
}

func makeDataset(n int) *dataset.Dataset {
	records := make([]*core.Record, n)
	for i := range records {
		name := fmt.Sprintf("Medicine %d", i)
		text := fmt.Sprintf("treats condition %d", i)
		records[i] = &core.Record{
			Id:     core.RecordID(name, text),
			Row:    i,
			Name:   name,
			Text:   text,
			Fields: map[string]string{"medicine_name": name, "search_text": text},
		}
	}
	return &dataset.Dataset{
		Info: core.DatasetInfo{
			Source:      "test.csv",
			NameColumn:  "medicine_name",
			TextColumn:  "search_text",
			Columns:     []string{"medicine_name", "search_text"},
			RecordCount: n,
		},
		Records: records,
	}
}

// conflictRepo fails the first record writes with a write conflict.
type conflictRepo struct {
	storage.RecordRepository
	failures int
	calls    int
	replaced int
	cleared  int
}

func (r *conflictRepo) conflict() bool {
	r.calls++
	if r.failures > 0 {
		r.failures--
		return true
	}
	return false
}

func (r *conflictRepo) AddRecords(ctx context.Context, records ...*core.Record) error {
	if r.conflict() {
		return badger.ErrConflict
	}
	return r.RecordRepository.AddRecords(ctx, records...)
}

func (r *conflictRepo) ReplaceDataset(ctx context.Context, info *core.DatasetInfo, records ...*core.Record) error {
	r.replaced++
	if r.conflict() {
		return badger.ErrConflict
	}
	return r.RecordRepository.ReplaceDataset(ctx, info, records...)
}

func (r *conflictRepo) Clear(ctx context.Context) error {
	r.cleared++
	return r.RecordRepository.Clear(ctx)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 500, cfg.BatchSize)
	assert.Equal(t, 500, cfg.ReportInterval)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 100*time.Millisecond, cfg.RetryDelay)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }},
		{"zero report interval", func(c *Config) { c.ReportInterval = 0 }},
		{"zero retries", func(c *Config) { c.MaxRetries = 0 }},
		{"negative delay", func(c *Config) { c.RetryDelay = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestImporter_Run(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	ctx := context.Background()
	ds := makeDataset(23)

	var progress bytes.Buffer
	cfg := &Config{BatchSize: 5, ReportInterval: 10, MaxRetries: 3, RetryDelay: time.Millisecond}
	info, err := NewImporter(repo, cfg, &progress).Run(ctx, ds)
	require.NoError(t, err)

	assert.Equal(t, 23, info.RecordCount)
	assert.False(t, info.ImportedAt.IsZero())

	records, err := repo.GetRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, ds.Records, records)

	stored, err := repo.GetDatasetInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "test.csv", stored.Source)
	assert.Equal(t, 23, stored.RecordCount)

	output := progress.String()
	assert.Contains(t, output, "Importing 23 records (batch size: 5)")
	assert.Contains(t, output, "23/23")
	assert.Contains(t, output, "Import complete")
}

func TestImporter_ReplacesPreviousImport(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	ctx := context.Background()
	_, err := NewImporter(repo, nil, nil).Run(ctx, makeDataset(10))
	require.NoError(t, err)

	_, err = NewImporter(repo, nil, nil).Run(ctx, makeDataset(4))
	require.NoError(t, err)

	count, err := repo.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestImporter_RetriesConflicts(t *testing.T) {
	t.Run("single transaction", func(t *testing.T) {
		base, cleanup := setupTestRepo(t)
		defer cleanup()

		repo := &conflictRepo{RecordRepository: base, failures: 2}
		cfg := &Config{BatchSize: 10, ReportInterval: 10, MaxRetries: 3, RetryDelay: time.Millisecond}

		_, err := NewImporter(repo, cfg, nil).Run(context.Background(), makeDataset(10))
		require.NoError(t, err)
		assert.Equal(t, 3, repo.calls)
		assert.Equal(t, 3, repo.replaced)

		count, err := base.CountRecords(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 10, count)
	})

	t.Run("batched", func(t *testing.T) {
		base, cleanup := setupTestRepo(t)
		defer cleanup()

		repo := &conflictRepo{RecordRepository: base, failures: 2}
		cfg := &Config{BatchSize: 4, ReportInterval: 10, MaxRetries: 3, RetryDelay: time.Millisecond}

		_, err := NewImporter(repo, cfg, nil).Run(context.Background(), makeDataset(10))
		require.NoError(t, err)
		assert.Equal(t, 5, repo.calls, "two conflicts plus three batches")
		assert.Zero(t, repo.replaced)

		count, err := base.CountRecords(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 10, count)
	})
}

func TestImporter_InvalidDatasetKeepsPreviousImport(t *testing.T) {
	for _, batchSize := range []int{2, 500} {
		t.Run(fmt.Sprintf("batch size %d", batchSize), func(t *testing.T) {
			base, cleanup := setupTestRepo(t)
			defer cleanup()

			ctx := context.Background()
			cfg := &Config{BatchSize: batchSize, ReportInterval: 10, MaxRetries: 1, RetryDelay: time.Millisecond}
			good := makeDataset(5)
			_, err := NewImporter(base, cfg, nil).Run(ctx, good)
			require.NoError(t, err)

			bad := makeDataset(5)
			bad.Records[3].Name = ""
			bad.Records[3].Id = 0

			repo := &conflictRepo{RecordRepository: base}
			_, err = NewImporter(repo, cfg, nil).Run(ctx, bad)
			require.ErrorIs(t, err, core.ErrEmptyName)
			assert.Contains(t, err.Error(), "row 3")
			assert.Zero(t, repo.cleared)
			assert.Zero(t, repo.calls)

			badInfo := makeDataset(2)
			badInfo.Info.TextColumn = "description"
			_, err = NewImporter(repo, cfg, nil).Run(ctx, badInfo)
			require.ErrorIs(t, err, core.ErrInvalidDatasetInfo)
			assert.Zero(t, repo.cleared)

			records, err := base.GetRecords(ctx)
			require.NoError(t, err)
			assert.Equal(t, good.Records, records)
			stored, err := base.GetDatasetInfo(ctx)
			require.NoError(t, err)
			assert.Equal(t, 5, stored.RecordCount)
		})
	}
}

func TestImporter_GivesUpAfterMaxRetries(t *testing.T) {
	base, cleanup := setupTestRepo(t)
	defer cleanup()

	repo := &conflictRepo{RecordRepository: base, failures: 10}
	cfg := &Config{BatchSize: 10, ReportInterval: 10, MaxRetries: 2, RetryDelay: time.Millisecond}

	_, err := NewImporter(repo, cfg, nil).Run(context.Background(), makeDataset(10))
	assert.ErrorIs(t, err, badger.ErrConflict)
	assert.Equal(t, 2, repo.calls)

	// No dataset info marks the import as incomplete
	_, err = base.GetDatasetInfo(context.Background())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestImporter_Errors(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	ctx := context.Background()

	_, err := NewImporter(repo, nil, nil).Run(ctx, nil)
	assert.ErrorIs(t, err, ErrNoRecords)

	_, err = NewImporter(repo, nil, nil).Run(ctx, &dataset.Dataset{})
	assert.ErrorIs(t, err, ErrNoRecords)

	_, err = NewImporter(repo, &Config{}, nil).Run(ctx, makeDataset(1))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestImporter_ContextCanceled(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewImporter(repo, nil, nil).Run(ctx, makeDataset(3))
	assert.ErrorIs(t, err, context.Canceled)
}
