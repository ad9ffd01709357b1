package storage

import (
	"context"
	"fmt"

	"github.com/boltdb/bolt"
)

// BoltStore is an implementation of Store whose backend is a Bolt database.
// Each table is a bucket, created on first put.
type BoltStore bolt.DB

func NewBoltStore(db *bolt.DB) *BoltStore {
	return (*BoltStore)(db)
}

func (s *BoltStore) Put(_ context.Context, table, key, value string) error {
	err := (*bolt.DB)(s).Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(table))
		if err != nil {
			return fmt.Errorf("could not ensure bucket %.40q exists: %w", table, err)
		}
		return b.Put([]byte(key), []byte(value))
	})
	if err != nil {
		return newError("put", table, key, err)
	}
	return nil
}

func (s *BoltStore) Get(_ context.Context, table, key string) (value string, err error) {
	err = (*bolt.DB)(s).View(func(tx *bolt.Tx) error {
		// A missing bucket only means nothing was ever put in that table.
		b := tx.Bucket([]byte(table))
		if b == nil {
			return notFound(table, key)
		}
		v := b.Get([]byte(key))
		if v == nil {
			return notFound(table, key)
		}
		// The slice is only valid for the life of the transaction.
		value = string(v)
		return nil
	})
	return value, err
}
