package sqlite

import (
	"database/sql"
	"fmt"

	_ "github.com/glebarez/go-sqlite"
	migrate "github.com/rubenv/sql-migrate"
)

const MemoryPath = ":memory:"

type Options struct {
	Path string
}

// NewConnection opens the database at opts.Path with foreign keys enabled.
// An in-memory database lives in a single connection, so the pool is capped
// at one for it.
func NewConnection(opts Options) (*sql.DB, error) {
	path := opts.Path
	if path == "" {
		path = MemoryPath
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	if path == MemoryPath {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping %s: %w", path, err)
	}
	return db, nil
}

// Migrate applies the migrations found in dir and returns how many ran.
func Migrate(db *sql.DB, dir string) (int, error) {
	return migrate.Exec(db, "sqlite3", &migrate.FileMigrationSource{Dir: dir}, migrate.Up)
}
