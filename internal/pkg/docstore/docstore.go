package docstore

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned when a document does not exist in its collection.
var ErrNotFound = errors.New("document not found")

// Document is a single stored document. Data holds the raw JSON body; the
// document id lives outside the body, like a key-document store.
type Document struct {
	ID   string
	Data []byte
}

// DataTo unmarshals the document body into v.
func (d Document) DataTo(v interface{}) error {
	return json.Unmarshal(d.Data, v)
}

// Op is a query comparison operator.
type Op string

const (
	OpEqual          Op = "=="
	OpGreaterOrEqual Op = ">="
	OpLessOrEqual    Op = "<="
	OpIn             Op = "in"
)

// Predicate matches documents whose field compares against Value.
// Range operators compare the textual form of the field, which is ordered
// correctly for ISO dates ("YYYY-MM-DD") and period keys ("YYYY-MM").
type Predicate struct {
	Field string
	Op    Op
	Value interface{}
}

func Where(field string, op Op, value interface{}) Predicate {
	return Predicate{Field: field, Op: op, Value: value}
}

// Store is a generic persistent key-document store with query-by-field and
// atomic array-append / increment primitives.
type Store interface {
	// Get returns the document, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)
	// Query returns all documents in the collection matching every predicate.
	Query(ctx context.Context, collection string, predicates ...Predicate) ([]Document, error)
	// Set writes fields under id. With merge, existing top-level fields not
	// present in fields are kept; without, the document is replaced.
	Set(ctx context.Context, collection, id string, fields interface{}, merge bool) error
	// Update patches top-level fields of an existing document. Returns
	// ErrNotFound when the document does not exist.
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error
	// Delete removes the document. Deleting a missing document is not an error.
	Delete(ctx context.Context, collection, id string) error
	// AppendToArray atomically appends value to an array field.
	AppendToArray(ctx context.Context, collection, id, field string, value interface{}) error
	// Increment atomically adds delta to a numeric field.
	Increment(ctx context.Context, collection, id, field string, delta int64) error
	// RunTransaction executes fn against a transactional view of the store.
	// All writes made through tx commit together or not at all.
	RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
