package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/vorn-digital/adlens/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. It serves local
// development against report extracts and the test suite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

// DB exposes the underlying handle for test fixtures.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Query executes one SQL statement and materializes the full result set.
func (s *SQLiteStore) Query(ctx context.Context, query string) (*model.Table, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query")
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: columns")
	}
	columns := make([]model.Column, len(names))
	for i, n := range names {
		columns[i] = model.Column{Name: n, Kind: model.KindString}
	}

	table := &model.Table{Columns: columns}
	for rows.Next() {
		cells := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan row")
		}
		row := make(model.Row, len(cells))
		for i, v := range cells {
			row[i] = coerceCell(v)
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate rows")
	}

	inferColumnKinds(table)
	return table, nil
}

// DistinctValues lists the distinct non-null values of a column.
func (s *SQLiteStore) DistinctValues(ctx context.Context, table, column string) ([]string, error) {
	query := fmt.Sprintf(
		`SELECT DISTINCT %q FROM %q WHERE %q IS NOT NULL ORDER BY %q`,
		column, table, column, column,
	)
	result, err := s.Query(ctx, query)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: distinct %s", column)
	}
	return firstColumnStrings(result), nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
