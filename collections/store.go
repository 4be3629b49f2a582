package collections

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/pocketbase/pocketbase/core"
)

// RecordStore keeps key/value documents as records of the local_store
// collection. It satisfies services.Store. Writes are serialised so two
// first writes of the same key cannot both try to create its record.
type RecordStore struct {
	mu  sync.Mutex
	app core.App
}

// NewRecordStore returns a RecordStore over app. Setup must have run.
func NewRecordStore(app core.App) *RecordStore {
	return &RecordStore{app: app}
}

// Get returns the value stored under key, or nil when there is none.
func (s *RecordStore) Get(_ context.Context, key string) ([]byte, error) {
	record, err := s.find(key)
	if err != nil || record == nil {
		return nil, err
	}
	return []byte(record.GetString("value")), nil
}

// Set creates or replaces the value stored under key.
func (s *RecordStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.find(key)
	if err != nil {
		return err
	}
	if record == nil {
		col, err := s.app.FindCollectionByNameOrId(LocalStoreCollection)
		if err != nil {
			return err
		}
		record = core.NewRecord(col)
		record.Set("key", key)
	}
	record.Set("value", string(value))
	return s.app.SaveWithContext(ctx, record)
}

// Delete removes key. A missing key is not an error.
func (s *RecordStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.find(key)
	if err != nil || record == nil {
		return err
	}
	return s.app.DeleteWithContext(ctx, record)
}

func (s *RecordStore) find(key string) (*core.Record, error) {
	record, err := s.app.FindFirstRecordByData(LocalStoreCollection, "key", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}
