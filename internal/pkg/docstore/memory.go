package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store used in tests and local development.
// A single mutex serializes every operation, so transactions see a
// consistent view; RunTransaction restores the previous state when fn fails.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]map[string]json.RawMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]json.RawMessage)}
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(collection, id)
}

func (s *MemoryStore) get(collection, id string) (Document, error) {
	data, ok := s.collections[collection][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return Document{ID: id, Data: out}, nil
}

func (s *MemoryStore) Query(ctx context.Context, collection string, predicates ...Predicate) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query(collection, predicates)
}

func (s *MemoryStore) query(collection string, predicates []Predicate) ([]Document, error) {
	var docs []Document
	for id, data := range s.collections[collection] {
		var fields map[string]interface{}
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, fmt.Errorf("corrupt document %s/%s: %w", collection, id, err)
		}
		if !matches(fields, predicates) {
			continue
		}
		doc, _ := s.get(collection, id)
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func matches(fields map[string]interface{}, predicates []Predicate) bool {
	for _, p := range predicates {
		got, ok := fields[p.Field]
		if !ok || got == nil {
			return false
		}
		gotStr := fmt.Sprintf("%v", got)
		switch p.Op {
		case OpEqual:
			if gotStr != fmt.Sprintf("%v", p.Value) {
				return false
			}
		case OpGreaterOrEqual:
			if gotStr < fmt.Sprintf("%v", p.Value) {
				return false
			}
		case OpLessOrEqual:
			if gotStr > fmt.Sprintf("%v", p.Value) {
				return false
			}
		case OpIn:
			values, ok := p.Value.([]string)
			if !ok {
				return false
			}
			found := false
			for _, v := range values {
				if gotStr == v {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (s *MemoryStore) Set(ctx context.Context, collection, id string, fields interface{}, merge bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set(collection, id, fields, merge)
}

func (s *MemoryStore) set(collection, id string, fields interface{}, merge bool) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode document %s/%s: %w", collection, id, err)
	}

	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]json.RawMessage)
	}

	if existing, ok := s.collections[collection][id]; ok && merge {
		merged, err := mergeJSON(existing, data)
		if err != nil {
			return fmt.Errorf("failed to merge document %s/%s: %w", collection, id, err)
		}
		data = merged
	}
	s.collections[collection][id] = data
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(collection, id, fields)
}

func (s *MemoryStore) update(collection, id string, fields map[string]interface{}) error {
	existing, ok := s.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	patch, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode patch for %s/%s: %w", collection, id, err)
	}
	merged, err := mergeJSON(existing, patch)
	if err != nil {
		return fmt.Errorf("failed to patch document %s/%s: %w", collection, id, err)
	}
	s.collections[collection][id] = merged
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections[collection], id)
	return nil
}

func (s *MemoryStore) AppendToArray(ctx context.Context, collection, id, field string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendToArray(collection, id, field, value)
}

func (s *MemoryStore) appendToArray(collection, id, field string, value interface{}) error {
	existing, ok := s.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(existing, &fields); err != nil {
		return fmt.Errorf("corrupt document %s/%s: %w", collection, id, err)
	}

	arr, _ := fields[field].([]interface{})
	element, err := roundTrip(value)
	if err != nil {
		return fmt.Errorf("failed to encode array element for %s/%s: %w", collection, id, err)
	}
	fields[field] = append(arr, element)

	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode document %s/%s: %w", collection, id, err)
	}
	s.collections[collection][id] = data
	return nil
}

func (s *MemoryStore) Increment(ctx context.Context, collection, id, field string, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.increment(collection, id, field, delta)
}

func (s *MemoryStore) increment(collection, id, field string, delta int64) error {
	existing, ok := s.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(existing, &fields); err != nil {
		return fmt.Errorf("corrupt document %s/%s: %w", collection, id, err)
	}

	current, _ := fields[field].(float64)
	fields[field] = current + float64(delta)

	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode document %s/%s: %w", collection, id, err)
	}
	s.collections[collection][id] = data
	return nil
}

func (s *MemoryStore) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.snapshot()
	if err := fn(ctx, &memoryTx{store: s}); err != nil {
		s.collections = snapshot
		return err
	}
	return nil
}

func (s *MemoryStore) snapshot() map[string]map[string]json.RawMessage {
	out := make(map[string]map[string]json.RawMessage, len(s.collections))
	for name, col := range s.collections {
		copied := make(map[string]json.RawMessage, len(col))
		for id, data := range col {
			copied[id] = data
		}
		out[name] = copied
	}
	return out
}

// memoryTx is a transactional view over a MemoryStore whose mutex is already
// held by RunTransaction.
type memoryTx struct {
	store *MemoryStore
}

func (t *memoryTx) Get(ctx context.Context, collection, id string) (Document, error) {
	return t.store.get(collection, id)
}

func (t *memoryTx) Query(ctx context.Context, collection string, predicates ...Predicate) ([]Document, error) {
	return t.store.query(collection, predicates)
}

func (t *memoryTx) Set(ctx context.Context, collection, id string, fields interface{}, merge bool) error {
	return t.store.set(collection, id, fields, merge)
}

func (t *memoryTx) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	return t.store.update(collection, id, fields)
}

func (t *memoryTx) Delete(ctx context.Context, collection, id string) error {
	delete(t.store.collections[collection], id)
	return nil
}

func (t *memoryTx) AppendToArray(ctx context.Context, collection, id, field string, value interface{}) error {
	return t.store.appendToArray(collection, id, field, value)
}

func (t *memoryTx) Increment(ctx context.Context, collection, id, field string, delta int64) error {
	return t.store.increment(collection, id, field, delta)
}

func (t *memoryTx) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return fn(ctx, t)
}

func mergeJSON(existing, patch json.RawMessage) (json.RawMessage, error) {
	var base, overlay map[string]interface{}
	if err := json.Unmarshal(existing, &base); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(patch, &overlay); err != nil {
		return nil, err
	}
	for k, v := range overlay {
		base[k] = v
	}
	return json.Marshal(base)
}

func roundTrip(value interface{}) (interface{}, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
