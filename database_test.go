package medsearch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/medsearch/core"
	"github.com/poiesic/medsearch/dataset"
	"github.com/poiesic/medsearch/search"
	"github.com/poiesic/medsearch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const medicinesCSV = `medicine_name,search_text,manufacturer
Paracetamol,pain reliever fever reducer,Acme
Ibuprofen,anti-inflammatory pain relief,Generic Labs
Amoxicillin,antibiotic bacterial infection,Acme
Amoxicillin,antibiotic ear infection children,Acme
Cetirizine,allergy relief,Allerco
`

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "medicines.csv")
	require.NoError(t, os.WriteFile(path, []byte(medicinesCSV), 0o644))
	return path
}

func TestNewDatabase(t *testing.T) {
	t.Run("create new database", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		db, err := NewDatabase(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		// Verify components are initialized
		assert.NotNil(t, db.RecordRepository())
		assert.NotNil(t, db.backend)
		assert.NotNil(t, db.logger)
	})

	t.Run("in memory", func(t *testing.T) {
		db, err := NewDatabase("", WithInMemory(), WithLogger(nil))
		require.NoError(t, err)
		defer db.Close()
		assert.NotNil(t, db.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// Try to create a database at a file path instead of directory
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		db, err := NewDatabase(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, db)
	})
}

func TestDatabase_Close(t *testing.T) {
	db, err := NewDatabase(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, db)

	assert.NoError(t, db.Close())
}

func TestDatabase_EmptyStore(t *testing.T) {
	db, err := NewDatabase("", WithInMemory())
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	_, err = db.NewSearcher(ctx)
	assert.ErrorIs(t, err, ErrEmptyDatabase)

	_, err = db.DatasetInfo(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDatabase_ImportThenSearch(t *testing.T) {
	ctx := context.Background()
	path := writeDataset(t)

	ds, err := dataset.Load(path, dataset.Options{})
	require.NoError(t, err)

	db, err := NewDatabase("", WithInMemory())
	require.NoError(t, err)
	defer db.Close()

	info, err := db.Import(ctx, ds, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, info.RecordCount)

	stored, err := db.DatasetInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, path, stored.Source)

	fromStore, err := db.NewSearcher(ctx)
	require.NoError(t, err)
	fromFile, fileInfo, err := OpenDataset(ctx, path, dataset.Options{})
	require.NoError(t, err)

	assert.Equal(t, fileInfo.Columns, stored.Columns)
	assert.Equal(t, fromFile.Stats(), fromStore.Stats())
	for _, q := range []string{"pain", "bacterial infection", "paracetamol", "allergy", "xyz"} {
		want, err := fromFile.Search(ctx, q)
		require.NoError(t, err)
		got, err := fromStore.Search(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, want, got, "query %q", q)
	}

	// A row without a display name is rejected on both paths.
	blank := filepath.Join(t.TempDir(), "blank.csv")
	require.NoError(t, os.WriteFile(blank, []byte("medicine_name,search_text\nParacetamol,pain reliever\n,pain relief\n"), 0o644))
	_, _, err = OpenDataset(ctx, blank, dataset.Options{})
	assert.ErrorIs(t, err, core.ErrEmptyName)

	unnamed := &dataset.Dataset{
		Info: ds.Info,
		Records: []*core.Record{
			{Row: 0, Name: "Paracetamol", Text: "pain reliever"},
			{Row: 1, Name: "", Text: "pain relief"},
		},
	}
	_, err = db.Import(ctx, unnamed, nil, nil)
	assert.ErrorIs(t, err, core.ErrEmptyName)
}

func TestDatabase_FailedImportKeepsPreviousDataset(t *testing.T) {
	ctx := context.Background()
	path := writeDataset(t)

	ds, err := dataset.Load(path, dataset.Options{})
	require.NoError(t, err)

	db, err := NewDatabase("", WithInMemory())
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Import(ctx, ds, nil, nil)
	require.NoError(t, err)

	bad := &dataset.Dataset{
		Info: ds.Info,
		Records: []*core.Record{
			{Row: 0, Name: "Aspirin", Text: "headache"},
			{Row: 1, Name: " ", Text: "fever"},
		},
	}
	_, err = db.Import(ctx, bad, nil, nil)
	require.ErrorIs(t, err, core.ErrEmptyName)

	s, err := db.NewSearcher(ctx)
	require.NoError(t, err)
	results, err := s.Search(ctx, "pain")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "Paracetamol", results[0].Record.Name)

	info, err := db.DatasetInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, info.RecordCount)
}

func TestDatabase_Persistence(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "db")

	ds, err := dataset.Load(writeDataset(t), dataset.Options{})
	require.NoError(t, err)

	db, err := NewDatabase(dir)
	require.NoError(t, err)
	_, err = db.Import(ctx, ds, nil, nil)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = NewDatabase(dir)
	require.NoError(t, err)
	defer db.Close()

	s, err := db.NewSearcher(ctx, search.WithLimit(1))
	require.NoError(t, err)
	results, err := s.Search(ctx, "pain")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Paracetamol", results[0].Record.Name)

	manufacturer, ok := results[0].Record.Field("manufacturer")
	assert.True(t, ok)
	assert.Equal(t, "Acme", manufacturer)
}

func TestOpenDataset(t *testing.T) {
	ctx := context.Background()

	t.Run("ready to search", func(t *testing.T) {
		s, info, err := OpenDataset(ctx, writeDataset(t), dataset.Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{"medicine_name", "search_text", "manufacturer"}, info.Columns)

		stats := s.Stats()
		assert.Equal(t, 5, stats.Records)
		assert.Equal(t, 4, stats.DistinctNames)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := OpenDataset(ctx, filepath.Join(t.TempDir(), "absent.csv"), dataset.Options{})
		assert.ErrorIs(t, err, dataset.ErrDatasetNotFound)
	})

	t.Run("invalid scoring", func(t *testing.T) {
		_, _, err := OpenDataset(ctx, writeDataset(t), dataset.Options{}, search.WithMinScore(2))
		assert.ErrorIs(t, err, search.ErrInvalidMinScore)
	})
}
