package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Store used by tests and local development. All
// operations are guarded by a single RWMutex; documents are copied on the
// way in and out so callers never share map references with the store.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]Fields
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{collections: make(map[string]map[string]Fields)}
}

func (m *Memory) Insert(ctx context.Context, collection string, fields Fields) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	docs, ok := m.collections[collection]
	if !ok {
		docs = make(map[string]Fields)
		m.collections[collection] = docs
	}

	id := uuid.NewString()
	docs[id] = copyFields(fields)
	return id, nil
}

func (m *Memory) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	fields, ok := m.collections[collection][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: id, Fields: copyFields(fields)}, nil
}

func (m *Memory) Query(ctx context.Context, collection string, filter Fields) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []Document
	for id, fields := range m.collections[collection] {
		if matches(fields, filter) {
			result = append(result, Document{ID: id, Fields: copyFields(fields)})
		}
	}
	return result, nil
}

func (m *Memory) Update(ctx context.Context, collection, id string, fields Fields) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	for key, value := range fields {
		existing[key] = value
	}
	return nil
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.collections[collection], id)
	return nil
}

func copyFields(fields Fields) Fields {
	clone := make(Fields, len(fields))
	for key, value := range fields {
		clone[key] = value
	}
	return clone
}
