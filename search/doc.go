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


// Package search scores queries against the cross-page content store.
//
// Scoring is literal, case-insensitive substring containment weighted by
// where the query appears (title, preview, full text) plus a bonus for
// units on the page currently being viewed. Units with no containment
// match anywhere are excluded outright. Ordering is stable: ties keep the
// order in which units were encountered while scanning the store.
package search
