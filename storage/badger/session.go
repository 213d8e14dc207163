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


package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/pageseek/storage"
)

// SessionRepository implements storage.SessionRepository for BadgerDB.
// It holds the pending query/unit pair written before a cross-page
// navigation and consumed on the next page load.
type SessionRepository struct {
	backend *Backend
}

var _ storage.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(backend *Backend) *SessionRepository {
	return &SessionRepository{
		backend: backend,
	}
}

// SetPending stores the pending query/unit pair, replacing any previous pair.
func (r *SessionRepository) SetPending(ctx context.Context, query, unitID string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte(sessionQueryKey), []byte(query)); err != nil {
			return err
		}
		if err := tx.Set([]byte(sessionUnitKey), []byte(unitID)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// TakePending reads and clears the pending pair in one transaction.
// ok is true only when both values were present and non-empty.
func (r *SessionRepository) TakePending(ctx context.Context) (query, unitID string, ok bool, err error) {
	err = r.backend.WithTx(func(tx *badger.Txn) error {
		item, getErr := tx.Get([]byte(sessionQueryKey))
		if getErr != nil {
			if errors.Is(getErr, badger.ErrKeyNotFound) {
				return nil
			}
			return getErr
		}
		if valErr := item.Value(func(val []byte) error {
			query = string(val)
			return nil
		}); valErr != nil {
			return valErr
		}

		item, getErr = tx.Get([]byte(sessionUnitKey))
		if getErr != nil && !errors.Is(getErr, badger.ErrKeyNotFound) {
			return getErr
		}
		if getErr == nil {
			if valErr := item.Value(func(val []byte) error {
				unitID = string(val)
				return nil
			}); valErr != nil {
				return valErr
			}
		}

		if delErr := tx.Delete([]byte(sessionQueryKey)); delErr != nil {
			return delErr
		}
		if delErr := tx.Delete([]byte(sessionUnitKey)); delErr != nil {
			return delErr
		}

		ok = query != "" && unitID != ""
		return tx.Commit()
	}, true)
	if err != nil {
		query, unitID, ok = "", "", false
	}
	return
}

// ClearPending discards any pending pair.
func (r *SessionRepository) ClearPending(ctx context.Context) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete([]byte(sessionQueryKey)); err != nil {
			return err
		}
		if err := tx.Delete([]byte(sessionUnitKey)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
