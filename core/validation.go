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


package core

import (
	"fmt"
	"strings"
)

// ValidateRecord checks that a record is usable by the search index.
// An empty Text is allowed; such a row can still match on its name.
func ValidateRecord(record *Record) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if strings.TrimSpace(record.Name) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyName)
	}

	if record.Row < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrNegativeRow)
	}

	if record.Id != 0 && record.Id != RecordID(record.Name, record.Text) {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrIDMismatch)
	}

	return nil
}

// ValidateDatasetInfo checks that the dataset description names both required columns
// and that they appear in the header.
func ValidateDatasetInfo(info *DatasetInfo) error {
	if info == nil {
		return fmt.Errorf("%w: info is nil", ErrInvalidDatasetInfo)
	}
	if info.NameColumn == "" || info.TextColumn == "" {
		return fmt.Errorf("%w: name and text columns are required", ErrInvalidDatasetInfo)
	}
	if info.RecordCount < 0 {
		return fmt.Errorf("%w: record count %d", ErrInvalidDatasetInfo, info.RecordCount)
	}

	var hasName, hasText bool
	for _, col := range info.Columns {
		hasName = hasName || col == info.NameColumn
		hasText = hasText || col == info.TextColumn
	}
	if !hasName || !hasText {
		return fmt.Errorf("%w: columns %q and %q must be in header", ErrInvalidDatasetInfo, info.NameColumn, info.TextColumn)
	}

	return nil
}
