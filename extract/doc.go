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


// Package extract segments an HTML document into searchable content units.
//
// Extraction walks the elements matching the primary-content selector in
// document order, one unit per element, with a whole-body fallback when a
// page has no recognizable content containers. Short fragments are
// filtered out as noise; a page with no substantial text yields zero
// units, which is valid rather than an error.
package extract
