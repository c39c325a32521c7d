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


// Package dataset loads medicine records from delimited text files.
//
// A dataset file is CSV (or TSV, chosen by the .tsv extension) with a header
// row. Two columns are required: the display name column and the searchable
// text column. Every other column is carried through on the record's Fields
// map without interpretation.
package dataset
