package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
)

// Supported driver dialects
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// DB wraps sql.DB and papers over the placeholder and insert-id differences
// between the two supported drivers. Repository queries are written with ?
// placeholders; the postgres dialect rewrites them to $1..$n on the way out.
type DB struct {
	*sql.DB
	dialect string
}

// NewDB wraps an open connection for the given dialect
func NewDB(db *sql.DB, dialect string) *DB {
	return &DB{DB: db, dialect: dialect}
}

// Dialect returns the dialect the connection was opened with
func (d *DB) Dialect() string {
	return d.dialect
}

// Rebind rewrites ? placeholders to the dialect's parameter format
func (d *DB) Rebind(query string) string {
	if d.dialect != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] != '?' {
			b.WriteByte(query[i])
			continue
		}
		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

// ExecContext executes a ?-placeholder query after rebinding
func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return d.DB.ExecContext(ctx, d.Rebind(query), args...)
}

// QueryContext runs a ?-placeholder query after rebinding
func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return d.DB.QueryContext(ctx, d.Rebind(query), args...)
}

// QueryRowContext runs a ?-placeholder query after rebinding
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return d.DB.QueryRowContext(ctx, d.Rebind(query), args...)
}

// execer covers *sql.DB and *sql.Tx for the insert helpers
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// insertID executes an INSERT and returns the generated row ID. lib/pq does
// not implement LastInsertId, so the postgres dialect appends RETURNING id
// and scans it instead.
func (d *DB) insertID(ctx context.Context, query string, args ...interface{}) (int64, error) {
	return d.insertIDOn(ctx, d.DB, query, args...)
}

// txInsertID is insertID running inside an existing transaction
func (d *DB) txInsertID(ctx context.Context, tx *sql.Tx, query string, args ...interface{}) (int64, error) {
	return d.insertIDOn(ctx, tx, query, args...)
}

func (d *DB) insertIDOn(ctx context.Context, q execer, query string, args ...interface{}) (int64, error) {
	if d.dialect == DialectPostgres {
		var id int64
		err := q.QueryRowContext(ctx, d.Rebind(query)+" RETURNING id", args...).Scan(&id)
		return id, err
	}

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// clampFn returns the scalar two-argument max function for the dialect.
// SQLite overloads MAX; postgres only has the GREATEST form.
func (d *DB) clampFn() string {
	if d.dialect == DialectPostgres {
		return "GREATEST"
	}
	return "MAX"
}
