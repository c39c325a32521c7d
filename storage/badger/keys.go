package badger

import (
	"encoding/binary"
)

// Key prefixes for different data types
const (
	recordPrefix = "medrec:"
	metaPrefix   = "medmeta:"
	datasetKey   = metaPrefix + "dataset"
)

// makeRecordKey generates a key for a record by row.
// Format: prefix + big-endian row, so keys sort in row order.
func makeRecordKey(row int) []byte {
	buf := make([]byte, len(recordPrefix)+8)
	offset := copy(buf, recordPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(row))
	return buf
}

// rowFromKey recovers the row encoded by makeRecordKey.
func rowFromKey(key []byte) (int, bool) {
	if len(key) != len(recordPrefix)+8 || string(key[:len(recordPrefix)]) != recordPrefix {
		return 0, false
	}
	return int(binary.BigEndian.Uint64(key[len(recordPrefix):])), true
}
