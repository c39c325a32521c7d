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


// Package storage provides the storage abstraction layer for medsearch.
//
// This package defines repository interfaces that decouple persistence from
// search. A stored dataset can be loaded back and indexed without the source
// file being present.
//
// # Architecture
//
//   - Repository: transaction and lifecycle operations shared by all repositories
//   - RecordRepository: records in row order plus the dataset description
//
// Records are serialized with mus-go (see MarshalRecord and UnmarshalRecord).
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	repo := badger.NewRecordRepository(backend)
//	records, err := repo.GetRecords(ctx)
//
// Use in tests with in-memory storage:
//
//	repo, backend, err := badger.NewMemoryRepository()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
