package cvars

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLStore is a MemoryStore whose FlagArchive variables are persisted to SQLite
type SQLStore struct {
	*MemoryStore
	db     *sql.DB
	dbPath string
	mu     sync.Mutex
}

// OpenSQLStore opens (creating if needed) the database at dbPath and loads
// every archived variable into memory
func OpenSQLStore(dbPath string) (*SQLStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Set busy timeout for concurrent access
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS cvars (
		name TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		flags INTEGER NOT NULL DEFAULT 0
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	s := &SQLStore{MemoryStore: NewMemoryStore(), db: db, dbPath: dbPath}
	if err := s.load(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) load() error {
	rows, err := s.db.Query("SELECT name, value, description, flags FROM cvars")
	if err != nil {
		return fmt.Errorf("loading variables: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v Var
		var flags int
		if err := rows.Scan(&v.Name, &v.Value, &v.Description, &flags); err != nil {
			return fmt.Errorf("scanning variable: %w", err)
		}
		v.Flags = Flags(flags)
		s.MemoryStore.vars[v.Name] = &v
	}
	return rows.Err()
}

// save writes one variable through to the database if it is archived
func (s *SQLStore) save(name string) error {
	v, ok := s.MemoryStore.lookup(name)
	if !ok || v.Flags&FlagArchive == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO cvars (name, value, description, flags) VALUES (?, ?, ?, ?)",
		v.Name, v.Value, v.Description, int(v.Flags),
	)
	if err != nil {
		return fmt.Errorf("saving variable %s: %w", name, err)
	}
	return nil
}

// Set updates a variable and persists it when archived
func (s *SQLStore) Set(name, value string) error {
	if err := s.MemoryStore.Set(name, value); err != nil {
		return err
	}
	return s.save(name)
}

// Register creates a variable if absent and persists it when archived
func (s *SQLStore) Register(name, value, description string, flags Flags) (bool, error) {
	created, err := s.MemoryStore.Register(name, value, description, flags)
	if err != nil {
		return created, err
	}
	return created, s.save(name)
}

// Force sets a value and flags and persists it when archived
func (s *SQLStore) Force(name, value string, flags Flags) error {
	if err := s.MemoryStore.Force(name, value, flags); err != nil {
		return err
	}
	return s.save(name)
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
