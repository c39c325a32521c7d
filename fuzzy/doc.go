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


// Package fuzzy scores how closely two strings match.
//
// Ratio is the normalized Indel similarity of two strings: twice the length of
// their longest common subsequence divided by their combined length.
// PartialRatio aligns the shorter string against every window of the longer
// one and keeps the best Ratio, so extra characters around a match in the
// longer string do not hurt the score.
//
// Both functions operate on runes and return a score in [0, 100]. They do not
// change case; callers fold case before comparing.
package fuzzy
