package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aidanlsb/gmedit/internal/ident"
	"github.com/aidanlsb/gmedit/internal/resolve"
	"github.com/aidanlsb/gmedit/internal/resource"
)

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

var filePathTables = []string{"resources", "refs"}

func deleteByFilePath(e execer, filePath string) error {
	for _, table := range filePathTables {
		if _, err := e.Exec("DELETE FROM "+table+" WHERE file_path = ?", filePath); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}
	return nil
}

// IndexRecord indexes rec and its sub-records, replacing whatever was indexed
// for its file. fileMtime is the .yy modification time as Unix seconds; 0 means
// unknown and records the current time.
func (d *Database) IndexRecord(rec *resource.Record, fileMtime int64) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteByFilePath(tx, rec.Path()); err != nil {
		return err
	}
	if err := indexRecord(tx, rec, fileMtime, time.Now().Unix()); err != nil {
		return err
	}
	return tx.Commit()
}

func indexRecord(tx *sql.Tx, rec *resource.Record, fileMtime, now int64) error {
	mtime := fileMtime
	if mtime == 0 {
		mtime = now
	}

	resStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO resources (id, kind, name, file_path, owner_id, file_mtime, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer resStmt.Close()

	refStmt, err := tx.Prepare(`
		INSERT INTO refs (source_id, target_id, field, file_path)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer refStmt.Close()

	insert := func(r *resource.Record, owner *string) error {
		if _, err := resStmt.Exec(string(r.ID()), r.Kind().Short(), r.DisplayName(), rec.Path(), owner, mtime, now); err != nil {
			return fmt.Errorf("index %s: %w", r.ID(), err)
		}
		for _, ref := range resolve.References(r) {
			if _, err := refStmt.Exec(string(ref.Source), string(ref.Target), ref.Field, rec.Path()); err != nil {
				return fmt.Errorf("index refs of %s: %w", r.ID(), err)
			}
		}
		return nil
	}

	if err := insert(rec, nil); err != nil {
		return err
	}
	owner := string(rec.ID())
	for _, sub := range rec.SubRecords() {
		if err := insert(sub, &owner); err != nil {
			return err
		}
	}
	return nil
}

// RemoveFile removes everything indexed from a .yy file.
func (d *Database) RemoveFile(filePath string) error {
	return deleteByFilePath(d.db, filePath)
}

// RemoveRecord removes a record and everything indexed from its file.
func (d *Database) RemoveRecord(id ident.ID) error {
	var filePath string
	err := d.db.QueryRow("SELECT file_path FROM resources WHERE id = ?", string(id)).Scan(&filePath)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s", ErrResourceNotFound, id)
	}
	if err != nil {
		return err
	}
	return d.RemoveFile(filePath)
}

// Source is what Rebuild needs from a loaded project.
type Source interface {
	Root() string
	Records() []*resource.Record
}

// RebuildResult summarises a full rebuild.
type RebuildResult struct {
	Indexed int
	Refs    int
}

// Rebuild clears the index and indexes every top-level record of src in one
// transaction.
func (d *Database) Rebuild(src Source) (*RebuildResult, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	for _, table := range filePathTables {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return nil, fmt.Errorf("clear %s: %w", table, err)
		}
	}

	now := time.Now().Unix()
	result := &RebuildResult{}
	for _, rec := range src.Records() {
		if err := indexRecord(tx, rec, fileMtime(src.Root(), rec.Path()), now); err != nil {
			return nil, err
		}
		result.Indexed += 1 + len(rec.SubRecords())
	}
	if err := tx.QueryRow("SELECT COUNT(*) FROM refs").Scan(&result.Refs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	// Refresh planner statistics after the bulk insert.
	_, err = d.db.Exec("ANALYZE")
	return result, err
}

func fileMtime(root, rel string) int64 {
	info, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return 0
	}
	return info.ModTime().Unix()
}
