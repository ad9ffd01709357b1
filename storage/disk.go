package storage

import (
	"context"
	"crypto/sha512"
	"fmt"
	"os"
	"path/filepath"
)

// DiskStore implements Store with one file per item, under one directory per
// table.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{dir: dir}
}

func (s *DiskStore) Put(_ context.Context, table, key, value string) (err error) {
	valpath := s.pathFor(table, key)
	err = os.WriteFile(valpath, []byte(value), 0600)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return newError("put", table, key, fmt.Errorf("could not write %q: %w", valpath, err))
	}
	if err = os.MkdirAll(filepath.Dir(valpath), 0700); err != nil {
		return newError("put", table, key, fmt.Errorf("could not make dir for %q: %w", valpath, err))
	}
	if err = os.WriteFile(valpath, []byte(value), 0600); err != nil {
		return newError("put", table, key, err)
	}
	return nil
}

func (s *DiskStore) Get(_ context.Context, table, key string) (value string, err error) {
	b, err := os.ReadFile(s.pathFor(table, key))
	if os.IsNotExist(err) {
		return "", notFound(table, key)
	}
	if err != nil {
		return "", newError("get", table, key, err)
	}
	return string(b), nil
}

func (s *DiskStore) pathFor(table, key string) string {
	return filepath.Join(s.dir, hexName(table), hexName(key))
}

// Hex names are safe on any filesystem. Long names are hashed to prevent
// ENAMETOOLONG, while retaining low probability of clashes.
func hexName(name string) string {
	b := []byte(name)
	if len(b) > sha512.Size {
		hash := sha512.Sum512(b)
		return fmt.Sprintf("h%x", hash[:])
	}
	return fmt.Sprintf("%x", b)
}
