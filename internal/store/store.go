// Package store abstracts the analytic warehouse the generated SQL runs
// against. Two backends exist: Postgres (pgx) for production-like
// deployments and SQLite (modernc) for local work and tests. Both return
// ordered, typed tables and classify permission failures so the repair
// loop can short-circuit on them.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rotisserie/eris"

	"github.com/vorn-digital/adlens/internal/model"
)

// Store is the analytic store collaborator. Query executes one SQL
// statement and returns its full result set.
type Store interface {
	Query(ctx context.Context, sql string) (*model.Table, error)
	// DistinctValues lists the non-null distinct values of a column,
	// ordered, for populating filter pickers.
	DistinctValues(ctx context.Context, table, column string) ([]string, error)
	Close() error
}

// PermissionError marks a store failure as a permission/authorization
// problem. Such failures are structural: rewriting the query cannot fix
// them, so the repair loop must not spend attempts on them.
type PermissionError struct {
	Err error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: %v", e.Err)
}

func (e *PermissionError) Unwrap() error {
	return e.Err
}

// IsPermissionDenied reports whether the error chain indicates a
// permission/authorization failure rather than a fixable query error.
func IsPermissionDenied(err error) bool {
	if err == nil {
		return false
	}

	var pe *PermissionError
	if errors.As(err, &pe) {
		return true
	}

	// Postgres SQLSTATE classes for privilege and authorization errors.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "42501", "28000", "28P01":
			return true
		}
	}

	// String heuristics for wrapped driver errors. BigQuery-style API
	// failures surface as "403 Forbidden" in the message.
	msg := strings.ToLower(err.Error())
	for _, p := range []string{
		"permission denied",
		"access denied",
		"not authorized",
		"403 forbidden",
		"insufficient privilege",
	} {
		if strings.Contains(msg, p) {
			return true
		}
	}

	return false
}

// Open constructs a store for the configured driver.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "postgres":
		return NewPostgres(ctx, dsn)
	case "sqlite":
		return NewSQLite(dsn)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}
