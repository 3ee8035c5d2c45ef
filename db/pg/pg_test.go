// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package pg

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/karmarun/formula/fvm/env"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestSchemaQuotesTable(t *testing.T) {
	s := schema(`odd "name"`)
	require.True(t, strings.HasPrefix(s, `CREATE TABLE IF NOT EXISTS "odd ""name""" (`), s)
}

func TestDescribe(t *testing.T) {
	require.Nil(t, describe(nil))

	plain := errors.New("connection refused")
	require.Equal(t, plain, describe(plain))

	e := describe(&pq.Error{Code: "42P01", Message: `relation "x" does not exist`})
	require.Contains(t, e.Error(), "undefined_table")
	var pqErr *pq.Error
	require.True(t, errors.As(e, &pqErr))
}

func TestStore(t *testing.T) {
	url := os.Getenv("FORMULA_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("FORMULA_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	table := "formula_storage_test"

	db, e := Open(ctx, url, table)
	require.NoError(t, e)
	defer db.Close()
	defer db.Exec(`DROP TABLE ` + pq.QuoteIdentifier(table))

	local, session := Store{DB: db, Table: table, Scope: "local"}, Store{DB: db, Table: table, Scope: "session"}
	var _ env.Store = local

	require.NoError(t, local.Set(ctx, "qty", "3"))
	require.NoError(t, local.Set(ctx, "qty", "4"))

	v, ok, e := local.Get("qty")
	require.NoError(t, e)
	require.True(t, ok)
	require.Equal(t, "4", v)

	_, ok, e = session.Get("qty")
	require.NoError(t, e)
	require.False(t, ok)

	require.NoError(t, local.Delete(ctx, "qty"))
	_, ok, e = local.Get("qty")
	require.NoError(t, e)
	require.False(t, ok)
}
