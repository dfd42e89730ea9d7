// Package index keeps a SQLite index of a project's resources and the
// references between them. The index is a cache: every row can be rebuilt
// from the .yy files, so an outdated schema is discarded rather than migrated.
package index

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"
)

// Dir is the project-relative directory holding the index.
const Dir = ".gmedit"

// CurrentDBVersion is bumped whenever schema changes.
const CurrentDBVersion = 1

var (
	// ErrResourceNotFound indicates the requested id is not in the index.
	ErrResourceNotFound = errors.New("resource not found in index")
	// ErrIndexLocked indicates another process is rebuilding the index.
	ErrIndexLocked = errors.New("index is locked for rebuild")
)

const schema = `
	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	-- Every registered record, room instances included
	CREATE TABLE IF NOT EXISTS resources (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		name TEXT NOT NULL,
		file_path TEXT NOT NULL,
		owner_id TEXT,              -- Owning room for instances
		file_mtime INTEGER,         -- Unix seconds
		indexed_at INTEGER
	);

	-- Identifier fields held by records; target_id may be dangling
	CREATE TABLE IF NOT EXISTS refs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_id TEXT NOT NULL,
		target_id TEXT NOT NULL,
		field TEXT NOT NULL,
		file_path TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_resources_file ON resources(file_path);
	CREATE INDEX IF NOT EXISTS idx_resources_kind ON resources(kind);
	CREATE INDEX IF NOT EXISTS idx_resources_name ON resources(name);
	CREATE INDEX IF NOT EXISTS idx_refs_source ON refs(source_id);
	CREATE INDEX IF NOT EXISTS idx_refs_target ON refs(target_id);
	CREATE INDEX IF NOT EXISTS idx_refs_file ON refs(file_path);
`

// Database is an open index.
type Database struct {
	db *sql.DB
}

// Path returns the index file location for a project root.
func Path(projectRoot string) string {
	return filepath.Join(projectRoot, Dir, "index.db")
}

// fileDSN builds a modernc.org/sqlite DSN. The busy timeout lets `gme watch`
// and one-shot commands share the file.
func fileDSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "synchronous(NORMAL)")
	return "file:" + filepath.ToSlash(path) + "?" + q.Encode()
}

func open(dsn string, conns int) (*Database, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if conns > 0 {
		db.SetMaxOpenConns(conns)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}
	if _, err := db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('version', ?)`, strconv.Itoa(CurrentDBVersion)); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set database version: %w", err)
	}
	return &Database{db: db}, nil
}

// Open opens or creates the index under the project root.
func Open(projectRoot string) (*Database, error) {
	if err := os.MkdirAll(filepath.Join(projectRoot, Dir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", Dir, err)
	}
	return open(fileDSN(Path(projectRoot)), 0)
}

// OpenInMemory opens an empty index that lives as long as the handle.
func OpenInMemory() (*Database, error) {
	// Every pooled connection would otherwise see its own empty database.
	return open(":memory:", 1)
}

// OpenWithRebuild opens the index, first deleting it when it was written with
// another schema version. It reports whether the index was reset.
func OpenWithRebuild(projectRoot string) (*Database, bool, error) {
	lock, err := acquireIndexLock(filepath.Join(projectRoot, Dir))
	if err != nil {
		return nil, false, err
	}
	defer lock.Release()

	dbPath := Path(projectRoot)
	reset := false
	if _, err := os.Stat(dbPath); err == nil && storedVersion(dbPath) != CurrentDBVersion {
		if err := removeDatabaseFiles(dbPath); err != nil {
			return nil, false, err
		}
		reset = true
	}
	db, err := Open(projectRoot)
	return db, reset, err
}

// storedVersion reads the schema version of an existing index, or 0.
func storedVersion(dbPath string) int {
	db, err := sql.Open("sqlite", fileDSN(dbPath))
	if err != nil {
		return 0
	}
	defer db.Close()
	var v string
	if err := db.QueryRow(`SELECT value FROM meta WHERE key = 'version'`).Scan(&v); err != nil {
		return 0
	}
	n, _ := strconv.Atoi(v)
	return n
}

// Close closes the database.
func (d *Database) Close() error {
	return d.db.Close()
}

// indexLock serializes rebuilds between processes through an flock on
// .gmedit/index.lock.
type indexLock struct {
	file *os.File
}

func acquireIndexLock(dir string) (*indexLock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", Dir, err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "index.lock"), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open index lock: %w", err)
	}
	if err := tryLock(f); err != nil {
		f.Close()
		if lockHeld(err) {
			return nil, ErrIndexLocked
		}
		return nil, fmt.Errorf("failed to acquire index lock: %w", err)
	}
	return &indexLock{file: f}, nil
}

// Release drops the lock. Safe on a nil lock.
func (l *indexLock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := unlock(l.file)
	if cerr := l.file.Close(); err == nil {
		err = cerr
	}
	l.file = nil
	return err
}

// Remove deletes a project's index along with its WAL files.
func Remove(projectRoot string) error {
	return removeDatabaseFiles(Path(projectRoot))
}

func removeDatabaseFiles(dbPath string) error {
	for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	return nil
}
