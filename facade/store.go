package facade

import "context"

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

// Store is the subset of storage.Store the Dispatcher needs. Every
// storage.Store satisfies it.
type Store interface {
	// Get should return storage.ErrNotFound if the key is not in the table.
	Get(ctx context.Context, table, key string) (value string, err error)

	Put(ctx context.Context, table, key, value string) error
}
