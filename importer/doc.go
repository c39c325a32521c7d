// Package importer writes a loaded dataset into a record repository.
//
// The whole dataset is validated before the repository is touched. A dataset
// that fits in one batch is swapped in with a single transaction. Larger ones
// are written in fixed-size batches, one transaction per batch, with transient
// write conflicts retried using exponential backoff. Progress is reported to an
// io.Writer as records are stored.
package importer
