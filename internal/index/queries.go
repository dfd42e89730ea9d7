package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aidanlsb/gmedit/internal/ident"
	"github.com/aidanlsb/gmedit/internal/sqlutil"
)

// ResourceResult is an indexed resource row.
type ResourceResult struct {
	ID       string
	Kind     string
	Name     string
	FilePath string
	OwnerID  string
}

// RefResult is one reference between resources. The Source* and Target* names
// are empty when that end is not indexed.
type RefResult struct {
	SourceID   string
	SourceKind string
	SourceName string
	TargetID   string
	TargetKind string
	TargetName string
	Field      string
	FilePath   string
}

const refSelect = `
	SELECT r.source_id, s.kind, s.name, r.target_id, t.kind, t.name, r.field, r.file_path
	FROM refs r
	LEFT JOIN resources s ON r.source_id = s.id
	LEFT JOIN resources t ON r.target_id = t.id
`

func scanRef(rows *sql.Rows) (RefResult, error) {
	var r RefResult
	var sKind, sName, tKind, tName sql.NullString
	if err := rows.Scan(&r.SourceID, &sKind, &sName, &r.TargetID, &tKind, &tName, &r.Field, &r.FilePath); err != nil {
		return r, err
	}
	r.SourceKind, r.SourceName = sKind.String, sName.String
	r.TargetKind, r.TargetName = tKind.String, tName.String
	return r, nil
}

func scanResource(rows *sql.Rows) (ResourceResult, error) {
	var r ResourceResult
	var owner sql.NullString
	if err := rows.Scan(&r.ID, &r.Kind, &r.Name, &r.FilePath, &owner); err != nil {
		return r, err
	}
	r.OwnerID = owner.String
	return r, nil
}

// Backlinks returns every reference pointing at target.
func (d *Database) Backlinks(target ident.ID) ([]RefResult, error) {
	return sqlutil.QueryAll(d.db, scanRef, refSelect+`WHERE r.target_id = ? ORDER BY r.source_id, r.field`, string(target))
}

// Outlinks returns every reference held by source.
func (d *Database) Outlinks(source ident.ID) ([]RefResult, error) {
	return sqlutil.QueryAll(d.db, scanRef, refSelect+`WHERE r.source_id = ? ORDER BY r.id`, string(source))
}

// DanglingRefs returns references whose target is not indexed.
func (d *Database) DanglingRefs() ([]RefResult, error) {
	return sqlutil.QueryAll(d.db, scanRef, refSelect+`WHERE t.id IS NULL ORDER BY r.file_path, r.id`)
}

// GetResource retrieves one indexed resource.
func (d *Database) GetResource(id ident.ID) (*ResourceResult, error) {
	results, err := sqlutil.QueryAll(d.db, scanResource, `SELECT id, kind, name, file_path, owner_id FROM resources WHERE id = ?`, string(id))
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, id)
	}
	return &results[0], nil
}

// QueryResources returns resources of the given kinds (short names such as
// "object"), ordered by name. No kinds means every kind.
func (d *Database) QueryResources(kinds ...string) ([]ResourceResult, error) {
	query := `SELECT id, kind, name, file_path, owner_id FROM resources`
	var args []any
	if len(kinds) > 0 {
		var placeholders string
		placeholders, args = sqlutil.InClause(kinds)
		query += ` WHERE kind IN (` + placeholders + `)`
	}
	return sqlutil.QueryAll(d.db, scanResource, query+` ORDER BY name, id`, args...)
}

// IndexStats contains index statistics.
type IndexStats struct {
	ResourceCount int
	RefCount      int
	FileCount     int
	ByKind        map[string]int
}

// Stats returns statistics about the index.
func (d *Database) Stats() (*IndexStats, error) {
	stats := IndexStats{ByKind: map[string]int{}}

	if err := d.db.QueryRow("SELECT COUNT(*) FROM resources").Scan(&stats.ResourceCount); err != nil {
		return nil, err
	}
	if err := d.db.QueryRow("SELECT COUNT(*) FROM refs").Scan(&stats.RefCount); err != nil {
		return nil, err
	}
	if err := d.db.QueryRow("SELECT COUNT(DISTINCT file_path) FROM resources").Scan(&stats.FileCount); err != nil {
		return nil, err
	}

	rows, err := d.db.Query("SELECT kind, COUNT(*) FROM resources GROUP BY kind")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		stats.ByKind[kind] = n
	}
	return &stats, rows.Err()
}

// AllIndexedFilePaths returns the distinct .yy paths currently indexed.
func (d *Database) AllIndexedFilePaths() ([]string, error) {
	return sqlutil.QueryAll(d.db, func(rows *sql.Rows) (string, error) {
		var p string
		err := rows.Scan(&p)
		return p, err
	}, `SELECT DISTINCT file_path FROM resources WHERE owner_id IS NULL ORDER BY file_path`)
}

// RemoveDeletedFiles drops index entries for files that no longer exist.
// Returns the removed paths.
func (d *Database) RemoveDeletedFiles(projectRoot string) ([]string, error) {
	indexed, err := d.AllIndexedFilePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get indexed paths: %w", err)
	}

	var removed []string
	for _, rel := range indexed {
		if _, err := os.Stat(filepath.Join(projectRoot, filepath.FromSlash(rel))); !os.IsNotExist(err) {
			continue
		}
		if err := d.RemoveFile(rel); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", rel, err)
		}
		removed = append(removed, rel)
	}
	return removed, nil
}

// StalenessInfo contains information about index freshness.
type StalenessInfo struct {
	IsStale      bool
	StaleFiles   []string
	TotalFiles   int
	CheckedFiles int
}

// CheckStaleness compares indexed modification times against the filesystem.
// Missing files count as stale.
func (d *Database) CheckStaleness(projectRoot string) (*StalenessInfo, error) {
	rows, err := d.db.Query(`
		SELECT file_path, MAX(file_mtime)
		FROM resources
		WHERE owner_id IS NULL
		GROUP BY file_path
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	info := &StalenessInfo{}
	for rows.Next() {
		var rel string
		var indexed sql.NullInt64
		if err := rows.Scan(&rel, &indexed); err != nil {
			return nil, err
		}
		info.TotalFiles++

		stat, err := os.Stat(filepath.Join(projectRoot, filepath.FromSlash(rel)))
		if err != nil {
			info.StaleFiles = append(info.StaleFiles, rel)
			info.IsStale = true
			continue
		}
		info.CheckedFiles++
		if !indexed.Valid || stat.ModTime().Unix() > indexed.Int64 {
			info.StaleFiles = append(info.StaleFiles, rel)
			info.IsStale = true
		}
	}
	return info, rows.Err()
}
