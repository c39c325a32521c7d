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

import "errors"

var (
	// ErrInvalidRecord indicates a Record failed validation.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrEmptyName indicates the Name field is empty.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrNegativeRow indicates a negative Row value.
	ErrNegativeRow = errors.New("row cannot be negative")

	// ErrIDMismatch indicates the record ID does not match its content.
	ErrIDMismatch = errors.New("id does not match record content")

	// ErrInvalidDatasetInfo indicates a DatasetInfo failed validation.
	ErrInvalidDatasetInfo = errors.New("invalid dataset info")
)

// ErrMalformedData indicates serialized data declares an impossible length.
var ErrMalformedData = errors.New("malformed serialized data")
