package core

import (
	"maps"
	"slices"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Serializers for the persisted types. Field order is the wire order;
// append new fields at the end.
var (
	IDMUS          = idMUS{}
	RecordMUS      = recordMUS{}
	DatasetInfoMUS = datasetInfoMUS{}
)

type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (s idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

type recordMUS struct{}

func (s recordMUS) Marshal(v Record, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += varint.Int.Marshal(v.Row, bs[n:])
	n += ord.String.Marshal(v.Name, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += marshalFields(v.Fields, bs[n:])
	return
}

func (s recordMUS) Unmarshal(bs []byte) (v Record, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Row, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Fields, n1, err = unmarshalFields(bs[n:])
	n += n1
	return
}

func (s recordMUS) Size(v Record) (size int) {
	size = IDMUS.Size(v.Id)
	size += varint.Int.Size(v.Row)
	size += ord.String.Size(v.Name)
	size += ord.String.Size(v.Text)
	return size + sizeFields(v.Fields)
}

type datasetInfoMUS struct{}

func (s datasetInfoMUS) Marshal(v DatasetInfo, bs []byte) (n int) {
	n = ord.String.Marshal(v.Source, bs)
	n += ord.String.Marshal(v.NameColumn, bs[n:])
	n += ord.String.Marshal(v.TextColumn, bs[n:])
	n += marshalStrings(v.Columns, bs[n:])
	n += varint.Int.Marshal(v.RecordCount, bs[n:])
	n += varint.Int64.Marshal(v.ImportedAt.UnixMicro(), bs[n:])
	return
}

func (s datasetInfoMUS) Unmarshal(bs []byte) (v DatasetInfo, n int, err error) {
	var n1 int
	v.Source, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.NameColumn, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.TextColumn, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Columns, n1, err = unmarshalStrings(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.RecordCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ImportedAt = time.UnixMicro(micros).UTC()
	return
}

func (s datasetInfoMUS) Size(v DatasetInfo) (size int) {
	size = ord.String.Size(v.Source)
	size += ord.String.Size(v.NameColumn)
	size += ord.String.Size(v.TextColumn)
	size += sizeStrings(v.Columns)
	size += varint.Int.Size(v.RecordCount)
	return size + varint.Int64.Size(v.ImportedAt.UnixMicro())
}

// Fields are written as a count followed by key/value pairs in key order,
// so equal maps always encode to equal bytes.
func marshalFields(m map[string]string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(m), bs)
	for _, k := range slices.Sorted(maps.Keys(m)) {
		n += ord.String.Marshal(k, bs[n:])
		n += ord.String.Marshal(m[k], bs[n:])
	}
	return
}

func unmarshalFields(bs []byte) (m map[string]string, n int, err error) {
	count, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if count < 0 || count > len(bs) {
		return nil, n, ErrMalformedData
	}
	m = make(map[string]string, count)
	var (
		k, v string
		n1   int
	)
	for range count {
		k, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		v, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		m[k] = v
	}
	return
}

func sizeFields(m map[string]string) (size int) {
	size = varint.Int.Size(len(m))
	for k, v := range m {
		size += ord.String.Size(k) + ord.String.Size(v)
	}
	return
}

func marshalStrings(s []string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(s), bs)
	for _, v := range s {
		n += ord.String.Marshal(v, bs[n:])
	}
	return
}

func unmarshalStrings(bs []byte) (s []string, n int, err error) {
	count, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if count < 0 || count > len(bs) {
		return nil, n, ErrMalformedData
	}
	s = make([]string, count)
	var n1 int
	for i := range count {
		s[i], n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func sizeStrings(s []string) (size int) {
	size = varint.Int.Size(len(s))
	for _, v := range s {
		size += ord.String.Size(v)
	}
	return
}
