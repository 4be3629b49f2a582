package services

import (
	"context"
	"encoding/json"
	"sync"
)

// Store is the key/value port behind bill history and drafts. Get returns
// nil, nil for a missing key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore is a Store held in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// loadList decodes the JSON list stored under key. A missing key is an empty
// list; a value that is not valid JSON is reported as a *StorageError.
func loadList[T any](ctx context.Context, store Store, key string) ([]T, error) {
	raw, err := store.Get(ctx, key)
	if err != nil {
		return nil, &StorageError{Op: "read", Key: key, Err: err}
	}
	if len(raw) == 0 {
		return []T{}, nil
	}
	var list []T
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, &StorageError{Op: "decode", Key: key, Err: err}
	}
	if list == nil {
		list = []T{}
	}
	return list, nil
}

// saveList encodes list as JSON and writes it under key.
func saveList[T any](ctx context.Context, store Store, key string, list []T) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return &StorageError{Op: "encode", Key: key, Err: err}
	}
	if err := store.Set(ctx, key, raw); err != nil {
		return &StorageError{Op: "write", Key: key, Err: err}
	}
	return nil
}
