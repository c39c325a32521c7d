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
// Package expiry derives shelf-life figures from a dataset's expiry-date
// column and turns them into search filters.
//
// Days left are counted in whole days, rounded up, so a medicine expiring
// later today has 1 day left and one that expired yesterday has -1 or less.
// The clearance discount steps down with the days left:
//
//	days <= 7   70%
//	days <= 15  50%
//	days <= 30  30%
//	otherwise    0%
//
// A record is near expiry at 30 days or fewer, expired stock included.
package expiry
