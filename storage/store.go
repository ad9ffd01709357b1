package storage

import (
	"context"
	"errors"
	"fmt"
)

// Store represents a key-value store partitioned into named tables. Each item
// is a string value addressed by table name and key.
type Store interface {
	// Put creates the item or overwrites it entirely.
	Put(ctx context.Context, table, key, value string) (err error)

	// Get should return ErrNotFound if the key is not in the table.
	Get(ctx context.Context, table, key string) (value string, err error)
}

var (
	// ErrNotFound indicates a key is not in the store.
	ErrNotFound = errors.New("not found")
)

// Error describes a store fault: anything that went wrong talking to the
// backend, as opposed to a key simply not being there. Callers that only care
// whether the operation worked can treat it as an opaque error.
type Error struct {
	// Op is "get" or "put".
	Op    string
	Table string
	Key   string

	// Code is a backend-specific classification of the fault, e.g., an AWS
	// error code or the HTTP status of a remote. May be empty.
	Code string

	Err error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s %q/%q: %s: %v", e.Op, e.Table, e.Key, e.Code, e.Err)
	}
	return fmt.Sprintf("%s %q/%q: %v", e.Op, e.Table, e.Key, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op, table, key string, err error) *Error {
	return &Error{Op: op, Table: table, Key: key, Err: err}
}

func notFound(table, key string) error {
	return fmt.Errorf("%.40q in %.40q: %w", key, table, ErrNotFound)
}
