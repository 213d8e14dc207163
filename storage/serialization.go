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


package storage

import (
	"github.com/poiesic/pageseek/core"
)

// MarshalPageRecord serializes a PageRecord to bytes.
func MarshalPageRecord(record *core.PageRecord) []byte {
	buf := make([]byte, core.PageRecordMUS.Size(*record))
	core.PageRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalPageRecord deserializes a PageRecord from bytes.
func UnmarshalPageRecord(data []byte) (*core.PageRecord, error) {
	record, _, err := core.PageRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarshalContentUnit serializes a ContentUnit to bytes.
func MarshalContentUnit(unit *core.ContentUnit) []byte {
	buf := make([]byte, core.ContentUnitMUS.Size(*unit))
	core.ContentUnitMUS.Marshal(*unit, buf)
	return buf
}

// UnmarshalContentUnit deserializes a ContentUnit from bytes.
func UnmarshalContentUnit(data []byte) (*core.ContentUnit, error) {
	unit, _, err := core.ContentUnitMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &unit, nil
}
