package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Registers the "sqlite" driver.
	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS items (
	tbl   TEXT NOT NULL,
	id    TEXT NOT NULL,
	value TEXT,
	PRIMARY KEY (tbl, id)
)`

// SQLiteStore implements Store on top of a single SQL table, keyed by the
// pair (table name, key).
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if necessary) the database file at pathname.
func OpenSQLite(pathname string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", pathname+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %w", pathname, err)
	}
	return db, nil
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("could not ensure schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Put(ctx context.Context, table, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO items (tbl, id, value) VALUES (?, ?, ?)
		ON CONFLICT (tbl, id) DO UPDATE SET value = excluded.value`,
		table, key, value)
	if err != nil {
		return newError("put", table, key, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, table, key string) (value string, err error) {
	var v sql.NullString
	err = s.db.QueryRowContext(ctx,
		`SELECT value FROM items WHERE tbl = ? AND id = ?`,
		table, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", notFound(table, key)
	}
	if err != nil {
		return "", newError("get", table, key, err)
	}
	// A NULL value reads as empty.
	return v.String, nil
}
