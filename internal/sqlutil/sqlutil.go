// Package sqlutil has small helpers shared by the index queries.
package sqlutil

import (
	"database/sql"
	"strings"
)

// Querier is the query half of *sql.DB and *sql.Tx.
type Querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

// InClause returns "?, ?, ?" for items together with the matching args.
// With no items it returns "NULL", so `IN (NULL)` matches no row.
func InClause[S ~string](items []S) (string, []any) {
	if len(items) == 0 {
		return "NULL", nil
	}
	args := make([]any, len(items))
	for i, item := range items {
		args[i] = string(item)
	}
	return strings.TrimSuffix(strings.Repeat("?, ", len(items)), ", "), args
}

// QueryAll runs query and scans every row with scan.
func QueryAll[T any](q Querier, scan func(*sql.Rows) (T, error), query string, args ...any) ([]T, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
