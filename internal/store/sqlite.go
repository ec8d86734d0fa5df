// Package store persists result tables to SQLite so campaigns can be
// queried without re-reading the CSV files.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/tturner/ditgparse/internal/metrics"
)

var (
	ErrFailedOpenDB    = errors.New("failed to open database")
	ErrFailedToInit    = errors.New("failed to initialize schema")
	ErrFailedToBeginTx = errors.New("failed to begin transaction")
	ErrFailedToInsert  = errors.New("failed to insert")
	ErrFailedToQuery   = errors.New("failed to query")
)

// Results are stored long-form, one row per (record, field), so both
// pipelines' column sets fit one schema.
const createTablesSQL = `
CREATE TABLE IF NOT EXISTS results (
	pipeline   TEXT    NOT NULL,
	ip_version TEXT    NOT NULL,
	row_index  INTEGER NOT NULL,
	field      TEXT    NOT NULL,
	value      TEXT    NOT NULL,
	PRIMARY KEY (pipeline, ip_version, row_index, field)
);
CREATE INDEX IF NOT EXISTS idx_results_field ON results(pipeline, field);
`

// SQLite stores result tables in a local database file.
type SQLite struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFailedOpenDB, err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedOpenDB, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createTablesSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", ErrFailedToInit, err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// SaveTable replaces every stored row for pipeline and the table's IP
// version with the table's records. All fields of a record are stored,
// including those outside the CSV column list.
func (s *SQLite) SaveTable(ctx context.Context, pipeline string, t *metrics.Table) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToBeginTx, err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM results WHERE pipeline = ? AND ip_version = ?`,
		pipeline, t.IPVersion); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: %w", ErrFailedToInsert, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO results (pipeline, ip_version, row_index, field, value)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: %w", ErrFailedToInsert, err)
	}
	defer stmt.Close()

	for i, r := range t.Records {
		keys := make([]string, 0, len(r))
		for k := range r {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			if _, err := stmt.ExecContext(ctx, pipeline, t.IPVersion, i, k, r[k]); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("%w: row %d field %s: %w", ErrFailedToInsert, i, k, err)
			}
		}
	}

	return tx.Commit()
}

// LoadTable reads back the records stored for a pipeline and IP version in
// insertion order. columns becomes the table's column list.
func (s *SQLite) LoadTable(ctx context.Context, pipeline, ipVersion string, columns []string) (*metrics.Table, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT row_index, field, value
		FROM results
		WHERE pipeline = ? AND ip_version = ?
		ORDER BY row_index, field
	`, pipeline, ipVersion)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}
	defer rows.Close()

	t := metrics.NewTable(ipVersion, columns)
	current := -1
	var rec metrics.Record

	for rows.Next() {
		var (
			idx          int
			field, value string
		)
		if err := rows.Scan(&idx, &field, &value); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
		}
		if idx != current {
			if rec != nil {
				t.Append(rec)
			}
			rec = make(metrics.Record)
			current = idx
		}
		rec[field] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}
	if rec != nil {
		t.Append(rec)
	}

	return t, nil
}
