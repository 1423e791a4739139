package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/vorn-digital/adlens/internal/model"
)

// pgxPool is the subset of *pgxpool.Pool used by PostgresStore. pgxmock
// satisfies it, which keeps the query path unit-testable.
type pgxPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool pgxPool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 4
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// Query executes one SQL statement and materializes the full result set.
func (s *PostgresStore) Query(ctx context.Context, sql string) (*model.Table, error) {
	rows, err := s.pool.Query(ctx, sql)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query")
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]model.Column, len(fields))
	for i, f := range fields {
		columns[i] = model.Column{Name: f.Name, Kind: model.KindString}
	}

	table := &model.Table{Columns: columns}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, eris.Wrap(err, "postgres: read row")
		}
		row := make(model.Row, len(values))
		for i, v := range values {
			row[i] = coerceCell(v)
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate rows")
	}

	inferColumnKinds(table)
	return table, nil
}

// DistinctValues lists the distinct non-null values of a column. The
// identifiers come from the static profile registry, not user input.
func (s *PostgresStore) DistinctValues(ctx context.Context, table, column string) ([]string, error) {
	sql := fmt.Sprintf(
		`SELECT DISTINCT %s FROM %s WHERE %s IS NOT NULL ORDER BY %s`,
		column, quoteTable(table), column, column,
	)
	result, err := s.Query(ctx, sql)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: distinct %s", column)
	}
	return firstColumnStrings(result), nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
