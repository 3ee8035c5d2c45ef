// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.

// Package pg keeps the storage capabilities in Postgres instead of bolt,
// for deployments where several formula processes share their stores.
package pg

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

const DefaultTable = "formula_storage"

// Open connects to url and creates table if it does not exist.
func Open(ctx context.Context, url, table string) (*sql.DB, error) {
	connector, e := pq.NewConnector(url)
	if e != nil {
		return nil, fmt.Errorf("postgres url: %w", e)
	}
	db := sql.OpenDB(connector)
	if e := db.PingContext(ctx); e != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: %w", e)
	}
	if _, e := db.ExecContext(ctx, schema(table)); e != nil {
		db.Close()
		return nil, fmt.Errorf("creating %s: %w", table, e)
	}
	return db, nil
}

func schema(table string) string {
	return `CREATE TABLE IF NOT EXISTS ` + pq.QuoteIdentifier(table) + ` (
		scope text NOT NULL,
		key   text NOT NULL,
		value text NOT NULL,
		PRIMARY KEY (scope, key)
	)`
}

// Store is one scope ("local" or "session") of the storage table. It
// implements env.Store.
type Store struct {
	DB    *sql.DB
	Table string
	Scope string
}

func (s Store) Get(key string) (string, bool, error) {
	q := `SELECT value FROM ` + pq.QuoteIdentifier(s.Table) + ` WHERE scope = $1 AND key = $2`
	value := ""
	e := s.DB.QueryRow(q, s.Scope, key).Scan(&value)
	if e == sql.ErrNoRows {
		return "", false, nil
	}
	if e != nil {
		return "", false, describe(e)
	}
	return value, true, nil
}

func (s Store) Set(ctx context.Context, key, value string) error {
	q := `INSERT INTO ` + pq.QuoteIdentifier(s.Table) + ` (scope, key, value) VALUES ($1, $2, $3)
		ON CONFLICT (scope, key) DO UPDATE SET value = EXCLUDED.value`
	_, e := s.DB.ExecContext(ctx, q, s.Scope, key, value)
	return describe(e)
}

func (s Store) Delete(ctx context.Context, key string) error {
	q := `DELETE FROM ` + pq.QuoteIdentifier(s.Table) + ` WHERE scope = $1 AND key = $2`
	_, e := s.DB.ExecContext(ctx, q, s.Scope, key)
	return describe(e)
}

// describe adds the Postgres condition name to driver errors.
func describe(e error) error {
	if pqErr, ok := e.(*pq.Error); ok {
		return fmt.Errorf("postgres %s: %w", pqErr.Code.Name(), e)
	}
	return e
}
