package storage

import (
	"context"
	"sync"
)

// InMemoryStore is a Store implementation powered by nested maps, to be used
// for testing or local development.
type InMemoryStore struct {
	sync.Mutex
	tables map[string]map[string]string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		tables: make(map[string]map[string]string),
	}
}

func (s *InMemoryStore) Put(_ context.Context, table, key, value string) (err error) {
	s.Lock()
	defer s.Unlock()
	items, ok := s.tables[table]
	if !ok {
		items = make(map[string]string)
		s.tables[table] = items
	}
	items[key] = value
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, table, key string) (value string, err error) {
	s.Lock()
	value, ok := s.tables[table][key]
	s.Unlock()
	if !ok {
		return "", notFound(table, key)
	}
	return value, nil
}
