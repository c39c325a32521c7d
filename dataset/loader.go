package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/medsearch/core"
)

const (
	// DefaultNameColumn is the header of the display name column.
	DefaultNameColumn = "medicine_name"
	// DefaultTextColumn is the header of the searchable text column.
	DefaultTextColumn = "search_text"
)

// Options selects the columns and delimiter used to read a dataset.
// Zero values fall back to the defaults.
type Options struct {
	NameColumn string
	TextColumn string
	Comma      rune
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.NameColumn) == "" {
		o.NameColumn = DefaultNameColumn
	}
	if strings.TrimSpace(o.TextColumn) == "" {
		o.TextColumn = DefaultTextColumn
	}
	if o.Comma == 0 {
		o.Comma = ','
	}
	return o
}

// Dataset is a loaded dataset: its description plus records in file order.
type Dataset struct {
	Info    core.DatasetInfo
	Records []*core.Record
}

// Texts returns the searchable text of every record, in row order.
func (d *Dataset) Texts() []string {
	texts := make([]string, len(d.Records))
	for i, r := range d.Records {
		texts[i] = r.Text
	}
	return texts
}

// Load reads the dataset at path. A .tsv extension selects tab delimiting
// unless opts.Comma is set.
func Load(path string, opts Options) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	if opts.Comma == 0 && strings.EqualFold(filepath.Ext(path), ".tsv") {
		opts.Comma = '\t'
	}

	ds, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	ds.Info.Source = path
	return ds, nil
}

// Read parses a dataset from r.
func Read(r io.Reader, opts Options) (*Dataset, error) {
	opts = opts.withDefaults()

	reader := csv.NewReader(r)
	reader.Comma = opts.Comma
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}

	header := make([]string, len(rows[0]))
	seen := make(map[string]int, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = cleanCell(cell)
		key := strings.ToLower(header[i])
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: %q in columns %d and %d", ErrDuplicateColumn, header[i], prev+1, i+1)
		}
		seen[key] = i
	}

	nameIdx := findColumn(header, opts.NameColumn)
	if nameIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, opts.NameColumn)
	}
	textIdx := findColumn(header, opts.TextColumn)
	if textIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, opts.TextColumn)
	}

	data := rows[1:]
	if len(data) == 0 {
		return nil, ErrEmptyDataset
	}

	records := make([]*core.Record, 0, len(data))
	for _, row := range data {
		fields := make(map[string]string, len(header))
		for i, column := range header {
			if i < len(row) {
				fields[column] = row[i]
			} else {
				fields[column] = ""
			}
		}
		name, text := fields[header[nameIdx]], fields[header[textIdx]]
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("row %d: %w", len(records), core.ErrEmptyName)
		}
		records = append(records, &core.Record{
			Id:     core.RecordID(name, text),
			Row:    len(records),
			Name:   name,
			Text:   text,
			Fields: fields,
		})
	}

	return &Dataset{
		Info: core.DatasetInfo{
			NameColumn:  header[nameIdx],
			TextColumn:  header[textIdx],
			Columns:     header,
			RecordCount: len(records),
		},
		Records: records,
	}, nil
}

func cleanCell(v string) string {
	v = strings.TrimPrefix(v, "\ufeff")
	return strings.TrimSpace(v)
}

func findColumn(header []string, name string) int {
	name = strings.TrimSpace(name)
	for i, col := range header {
		if strings.EqualFold(col, name) {
			return i
		}
	}
	return -1
}
