// Package store is the document storage layer. Collections hold BSON documents
// keyed by _id; the same interface is served by MongoDB and by an in-memory backend.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

// Index describes a collection index. Unique indexes reject a second document
// with the same values.
type Index struct {
	Fields []string
	Unique bool
}

// Collection is a named set of documents.
// Documents are structs with bson tags, or bson.M.
type Collection interface {
	Name() string
	EnsureIndex(ctx context.Context, idx Index) error

	Insert(ctx context.Context, doc interface{}) error
	// Get decodes the document with the given _id into out.
	Get(ctx context.Context, id interface{}, out interface{}) error
	FindOne(ctx context.Context, q Query, out interface{}) error
	// Find decodes every match into out, which must point to a slice.
	Find(ctx context.Context, q Query, out interface{}) error
	Count(ctx context.Context, f Filter) (int64, error)

	Replace(ctx context.Context, id interface{}, doc interface{}) error
	// Set assigns the given dotted paths on one document.
	Set(ctx context.Context, id interface{}, fields bson.M) error
	// SetMany assigns the given dotted paths on every match and returns how many matched.
	SetMany(ctx context.Context, f Filter, fields bson.M) (int64, error)
	// Upsert applies set to the document with the given _id, creating it first with
	// onInsert when it does not exist. The resulting document is decoded into out.
	Upsert(ctx context.Context, id interface{}, set, onInsert bson.M, out interface{}) error
	Delete(ctx context.Context, id interface{}) error
}

// Store hands out collections over one backend.
type Store interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
