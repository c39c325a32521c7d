package importer

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrInvalidConfig is returned when a Config field is out of range.
	ErrInvalidConfig = errors.New("invalid import config")

	// ErrNoRecords is returned when the dataset to import is nil or empty.
	ErrNoRecords = errors.New("dataset has no records to import")
)
