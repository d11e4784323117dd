// Package store abstracts the schema-less document store the pipeline
// persists into. The contract is deliberately small: per-document atomic
// create/read/update/delete plus secondary lookup by field equality. No
// multi-document transactions are assumed; callers own any cross-document
// consistency.
package store

import (
	"context"
	"encoding/json"
	"errors"
)

// Collection names used by the pipeline.
const (
	CollectionClasses    = "classes"
	CollectionUsers      = "users"
	CollectionIdentities = "identities"
)

// Fields is a schema-less document body.
type Fields map[string]interface{}

// Document pairs a store-assigned id with its fields.
type Document struct {
	ID     string
	Fields Fields
}

// ErrNotFound is returned by Get for absent documents. Delete treats absent
// documents as success.
var ErrNotFound = errors.New("store: document not found")

// Store is the document store contract.
type Store interface {
	// Insert creates a document and returns its assigned id.
	Insert(ctx context.Context, collection string, fields Fields) (string, error)
	// Get loads one document by id.
	Get(ctx context.Context, collection, id string) (Document, error)
	// Query returns documents whose fields equal every entry of filter.
	Query(ctx context.Context, collection string, filter Fields) ([]Document, error)
	// Update merges fields into an existing document.
	Update(ctx context.Context, collection, id string, fields Fields) error
	// Delete removes a document. Deleting an absent document is not an
	// error.
	Delete(ctx context.Context, collection, id string) error
}

// matches reports whether doc fields satisfy every equality predicate in
// filter. Values are compared after JSON normalisation so that values which
// round-tripped through the wire (ints arriving back as float64) still
// match.
func matches(fields Fields, filter Fields) bool {
	for key, want := range filter {
		got, ok := fields[key]
		if !ok {
			return false
		}
		if !jsonEqual(got, want) {
			return false
		}
	}
	return true
}

func jsonEqual(a, b interface{}) bool {
	ab, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return string(ab) == string(bb)
}
