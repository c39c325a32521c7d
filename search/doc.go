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


// Package search ranks dataset records against a free-text query.
//
// The Searcher type blends two independent signals per record:
//   - Semantic score: cosine similarity between the query and the record text
//     in the corpus index's TF-IDF space
//   - Fuzzy score: partial-ratio similarity between the query and the record's
//     display name
//
// The blended score is 0.7 × semantic + 0.3 × fuzzy by default. Records at or
// below the score floor (0.10 by default) are dropped, the rest are sorted by
// score and only the best row per display name is kept. Filters set with
// WithFilter remove records before any of this happens.
//
// A Searcher never mutates its index or records; every query works on its own
// score buffer, so one Searcher can serve concurrent callers.
package search
