package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/boltdb/bolt"
)

// Config selects and parameterizes a Store backend. Only the properties
// relevant to the chosen type are looked at.
type Config struct {
	// One of "memory", "disk", "bolt", "sqlite", "dynamodb", "s3", "remote".
	Type string `json:"type"`

	// Properties for "disk", "bolt" and "sqlite" types. A directory for the
	// former, a database file for the others.
	Path string `json:"path"`

	// Properties for "dynamodb" and "s3" types.
	Profile  string `json:"profile"`
	Region   string `json:"region"`
	Endpoint string `json:"endpoint"`

	// Properties for "dynamodb" type.
	Throttle bool `json:"throttle"`

	// Properties for "s3" type.
	Bucket string `json:"bucket"`

	// Properties for "remote" type.
	Address string `json:"address"`
	Secret  string `json:"secret"`
}

// Open instantiates the store described by c. The returned cleanup function
// releases local resources (database files) and is never nil.
func Open(c Config) (store Store, cleanup func() error, err error) {
	nop := func() error { return nil }
	switch c.Type {
	case "memory":
		return NewInMemoryStore(), nop, nil
	case "disk":
		if c.Path == "" {
			return nil, nil, fmt.Errorf("disk store requires a path")
		}
		return NewDiskStore(c.Path), nop, nil
	case "bolt":
		if err := ensureParentDir(c.Path); err != nil {
			return nil, nil, err
		}
		db, err := bolt.Open(c.Path, 0600, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open bolt database %q: %w", c.Path, err)
		}
		return NewBoltStore(db), db.Close, nil
	case "sqlite":
		if err := ensureParentDir(c.Path); err != nil {
			return nil, nil, err
		}
		db, err := OpenSQLite(c.Path)
		if err != nil {
			return nil, nil, err
		}
		s, err := NewSQLiteStore(db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return s, db.Close, nil
	case "dynamodb":
		s, err := NewDynamoDBStore(c.Profile, c.Region, WithEndpoint(c.Endpoint), WithThrottling(c.Throttle))
		if err != nil {
			return nil, nil, err
		}
		return s, nop, nil
	case "s3":
		if c.Bucket == "" {
			return nil, nil, fmt.Errorf("s3 store requires a bucket")
		}
		s, err := NewS3Store(c.Profile, c.Region, c.Bucket, WithEndpoint(c.Endpoint))
		if err != nil {
			return nil, nil, err
		}
		return s, nop, nil
	case "remote":
		if c.Address == "" {
			return nil, nil, fmt.Errorf("remote store requires an address")
		}
		return NewRemoteStore(c.Address, c.Secret), nop, nil
	default:
		return nil, nil, fmt.Errorf("%q: unknown store type", c.Type)
	}
}

func ensureParentDir(pathname string) error {
	if pathname == "" {
		return fmt.Errorf("store requires a path")
	}
	dir := filepath.Dir(pathname)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("could not ensure directory %q exists: %w", dir, err)
	}
	return nil
}
