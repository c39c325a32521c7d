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


package search

import "errors"

var (
	// ErrIndexRequired is returned when a corpus index is not provided.
	ErrIndexRequired = errors.New("corpus index required")

	// ErrRecordsRequired is returned when no records are provided.
	ErrRecordsRequired = errors.New("records required")

	// ErrIndexMismatch is returned when the index and records differ in length.
	ErrIndexMismatch = errors.New("index rows do not match records")

	// ErrInvalidWeights is returned when a blend weight is negative or both are zero.
	ErrInvalidWeights = errors.New("invalid blend weights")

	// ErrInvalidMinScore is returned when the score floor is outside [0, 1).
	ErrInvalidMinScore = errors.New("min score must be in [0, 1)")

	// ErrInvalidLimit is returned when the result limit is negative.
	ErrInvalidLimit = errors.New("limit cannot be negative")

	// ErrEmptyQuery is returned when the query is empty or whitespace only.
	ErrEmptyQuery = errors.New("query cannot be empty")
)
