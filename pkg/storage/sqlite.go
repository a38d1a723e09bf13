package storage

import (
	"database/sql"
	"fmt"

	"github.com/getmockd/apina/pkg/value"

	_ "modernc.org/sqlite"
)

// SQLiteBackend persists the database as one row per object.
type SQLiteBackend struct {
	path string
	db   *sql.DB
}

// OpenSQLite opens (creating if needed) the SQLite database at path.
func OpenSQLite(path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS objects (
		position INTEGER NOT NULL,
		id TEXT PRIMARY KEY,
		data TEXT NOT NULL
	);`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteBackend{path: path, db: db}, nil
}

// Load reads every row ordered by position.
func (b *SQLiteBackend) Load() (*Database, error) {
	rows, err := b.db.Query(`SELECT id, data FROM objects ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", b.path, err)
	}
	defer rows.Close()

	out := NewDatabase()
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, err
		}
		if id == "" {
			return nil, fmt.Errorf("%w: empty object id", ErrInvalidDatabase)
		}
		obj, err := value.ParseObject([]byte(data))
		if err != nil {
			return nil, fmt.Errorf("%w: object %q: %w", ErrInvalidDatabase, id, err)
		}
		out.Set(id, obj)
	}
	return out, rows.Err()
}

// Save rewrites every row in one transaction.
func (b *SQLiteBackend) Save(db *Database) error {
	tx, err := b.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM objects`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO objects (position, id, data) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, id := range db.IDs() {
		obj, _ := db.Get(id)
		data, err := obj.MarshalJSON()
		if err != nil {
			return fmt.Errorf("encoding %q: %w", id, err)
		}
		if _, err := stmt.Exec(i, id, string(data)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Name returns "sqlite".
func (b *SQLiteBackend) Name() string {
	return BackendSQLite
}

// Close closes the underlying database handle.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
