package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// RecordID derives the content ID of a dataset row from its name and searchable text.
func RecordID(name, text string) ID {
	return IDFromContent(name + "\x00" + text)
}

// Record is one row of a medicine dataset.
// Records are immutable once loaded; scoring never writes back into them.
type Record struct {
	Id     ID
	Row    int               // 0-based position in the source dataset
	Name   string            // Display name; deduplication key and fuzzy-match target
	Text   string            // Searchable text used to build the corpus index
	Fields map[string]string // Every original column, passed through unchanged
}

// Field returns the value of a pass-through column and whether it was present.
func (r *Record) Field(column string) (string, bool) {
	if r == nil || r.Fields == nil {
		return "", false
	}
	v, ok := r.Fields[column]
	return v, ok
}

// DatasetInfo describes the dataset a set of records came from.
type DatasetInfo struct {
	Source      string    // Path of the file the dataset was loaded from
	NameColumn  string    // Header of the display-name column
	TextColumn  string    // Header of the searchable-text column
	Columns     []string  // Full header, in file order
	RecordCount int       // Number of data rows
	ImportedAt  time.Time // When the dataset was written to storage (zero if never imported)
}

// ScoredResult is a record annotated with the scores of a single query.
// It exists only for the duration of that query.
type ScoredResult struct {
	Record   *Record
	Score    float64 // Blended final score
	Semantic float64 // TF-IDF cosine similarity in [0,1]
	Fuzzy    float64 // Partial-ratio name similarity in [0,1]
}
