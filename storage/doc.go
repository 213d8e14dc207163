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


// Package storage defines the persistence interfaces for the cross-page
// content store and the session-scoped navigation state, along with the
// MUS serialization helpers shared by all backends.
//
// The page store is a bounded mapping from page identifier to PageRecord:
// an upsert fully replaces the record for its page, eviction removes the
// oldest records by timestamp once the configured cap is exceeded, and
// scan order is first-insert order so that search results rank stably.
package storage
