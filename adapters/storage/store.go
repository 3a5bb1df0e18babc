// Package storage persists the pricing catalog in SQLite and implements
// the accessor's Source interface. Named queries live in an embedded
// queries.sql managed by dotsql; rule, formula and selection documents are
// stored as JSON text and decoded at load time.
package storage

import (
	"database/sql"
	_ "embed"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/qustavo/dotsql"

	"quote-pricing/internal/errors"
)

//go:embed queries.sql
var queriesSQL string

// migrations lists the DDL statements in dependency order.
var migrations = []string{
	"create-pricing-versions",
	"create-products",
	"create-setup-skus",
	"create-application-modules",
	"create-integration-types",
	"create-known-integrations",
	"create-travel-zones",
	"create-pricing-rules",
}

// Store is a SQLite-backed pricing catalog.
type Store struct {
	db  *sqlx.DB
	dot *dotsql.DotSql
}

// Open opens (creating if necessary) the catalog database at path and runs
// the schema migrations. Use ":memory:" for an ephemeral catalog.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeStorage, "open catalog database", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.TypeStorage, "ping catalog database", err)
	}

	dot, err := dotsql.LoadFromString(queriesSQL)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(errors.TypeInternal, "parse embedded queries", err)
	}

	store := &Store{db: db, dot: dot}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	for _, name := range migrations {
		if _, err := s.exec(name); err != nil {
			return errors.Wrapf(errors.TypeStorage, err, "migrate %s", name)
		}
	}
	return nil
}

// exec runs a named statement.
func (s *Store) exec(name string, args ...any) (sql.Result, error) {
	query, err := s.dot.Raw(name)
	if err != nil {
		return nil, errors.Newf(errors.TypeInternal, "query not found: %s", name)
	}
	return s.db.Exec(s.db.Rebind(query), args...)
}

// get scans one row of a named query into dest. Missing rows surface as
// sql.ErrNoRows for the caller to map.
func (s *Store) get(name string, dest any, args ...any) error {
	query, err := s.dot.Raw(name)
	if err != nil {
		return errors.Newf(errors.TypeInternal, "query not found: %s", name)
	}
	return s.db.Get(dest, s.db.Rebind(query), args...)
}

// selectAll scans every row of a named query into dest.
func (s *Store) selectAll(name string, dest any, args ...any) error {
	query, err := s.dot.Raw(name)
	if err != nil {
		return errors.Newf(errors.TypeInternal, "query not found: %s", name)
	}
	return s.db.Select(dest, s.db.Rebind(query), args...)
}
