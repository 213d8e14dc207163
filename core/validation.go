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

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ValidateContentUnit validates a ContentUnit according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - FullText must not be empty
//   - Preview must be a prefix of FullText, at most PreviewLimit runes
//
// NOT validated:
//   - Title (a fallback label is synthesized at extraction time)
//   - PageTitle / PageURL (may be empty for pages without metadata)
func ValidateContentUnit(unit *ContentUnit) error {
	if unit == nil {
		return fmt.Errorf("%w: unit is nil", ErrInvalidContentUnit)
	}

	if unit.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidContentUnit, ErrEmptyUnitID)
	}

	if unit.FullText == "" {
		return fmt.Errorf("%w: %w", ErrInvalidContentUnit, ErrEmptyText)
	}

	if !strings.HasPrefix(unit.FullText, unit.Preview) {
		return fmt.Errorf("%w: %w", ErrInvalidContentUnit, ErrPreviewMismatch)
	}

	if utf8.RuneCountInString(unit.Preview) > PreviewLimit {
		return fmt.Errorf("%w: %w", ErrInvalidContentUnit, ErrPreviewMismatch)
	}

	return nil
}

// ValidatePageRecord validates a PageRecord according to domain rules.
//
// Validation rules:
//   - PageID must not be empty
//   - Timestamp must not be in the future
//   - every unit must pass ValidateContentUnit
//
// An empty Units slice is valid: a page with no substantial text produces
// zero units and that is not an error.
func ValidatePageRecord(record *PageRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidPageRecord)
	}

	if record.PageID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPageRecord, ErrEmptyPageID)
	}

	if !IsValidTimestamp(record.Timestamp) {
		return fmt.Errorf("%w: %w", ErrInvalidPageRecord, ErrInvalidTimestamp)
	}

	for i := range record.Units {
		if err := ValidateContentUnit(&record.Units[i]); err != nil {
			return fmt.Errorf("%w: unit %d: %w", ErrInvalidPageRecord, i, err)
		}
	}

	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
