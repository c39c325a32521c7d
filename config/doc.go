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


// Package config holds medsearch settings and loads them from TOML files.
//
// A configuration file looks like:
//
//	[dataset]
//	path = "medicines.csv"
//	name_column = "medicine_name"
//	text_column = "search_text"
//
//	[scoring]
//	semantic_weight = 0.7
//	fuzzy_weight = 0.3
//	min_score = 0.1
//	limit = 20
//
//	[storage]
//	path = "medsearch.db"
//	batch_size = 500
//
// Every key is optional; omitted keys keep their defaults. Unknown keys are
// rejected so typos do not pass silently.
package config
