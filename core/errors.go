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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidContentUnit indicates a ContentUnit failed validation.
	ErrInvalidContentUnit = errors.New("invalid content unit")

	// ErrInvalidPageRecord indicates a PageRecord failed validation.
	ErrInvalidPageRecord = errors.New("invalid page record")

	// ErrEmptyUnitID indicates the unit ID field is empty.
	ErrEmptyUnitID = errors.New("unit id cannot be empty")

	// ErrEmptyPageID indicates the PageID field is empty.
	ErrEmptyPageID = errors.New("page id cannot be empty")

	// ErrEmptyText indicates the FullText field is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrPreviewMismatch indicates the Preview field is not a prefix of FullText.
	ErrPreviewMismatch = errors.New("preview must be a prefix of full text")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")
)
