package registry

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS bindings (
	id             TEXT PRIMARY KEY,
	contract       TEXT NOT NULL,
	template       TEXT NOT NULL,
	implementation TEXT NOT NULL,
	lifetime       TEXT NOT NULL,
	UNIQUE (contract, implementation)
);`

// SQLiteStore persists emitted bindings into a sqlite database so the
// registered set can be inspected by other tooling after the pass.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the registry database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open registry db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create bindings table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Bind(b Binding, lifetime Lifetime) error {
	_, err := s.db.Exec(
		`INSERT INTO bindings (id, contract, template, implementation, lifetime) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), b.ContractKey(), b.Template.Name, b.Implementation.String(), string(lifetime),
	)
	if err != nil {
		return fmt.Errorf("bind %s: %w", b, err)
	}
	return nil
}

// Count returns the number of persisted bindings.
func (s *SQLiteStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM bindings`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
