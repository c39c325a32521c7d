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


// Package index builds the term-weighted vector space used for semantic scoring.
//
// An Index is built once from the searchable text of every record and is
// read-only afterwards, so it can be shared by any number of concurrent
// queries. Text is normalized (NFKC, lowercase) and split into word tokens of
// at least two runes. Each record becomes an L2-normalized TF-IDF vector with
// smoothed inverse document frequency:
//
//	idf(t) = ln((1 + n) / (1 + df(t))) + 1
//
// Transform maps arbitrary text into the same space; terms outside the corpus
// vocabulary are ignored. Similarities returns the cosine similarity of a
// vector against every record, in record order.
package index
