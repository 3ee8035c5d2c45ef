// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package db

import (
	"context"
	"path/filepath"
	"testing"

	bolt "github.com/coreos/bbolt"
	"github.com/karmarun/formula/fvm"
	"github.com/karmarun/formula/fvm/env"
	"github.com/karmarun/formula/fvm/op"
	"github.com/karmarun/formula/fvm/val"
	"github.com/karmarun/formula/fvm/xpr"
	"github.com/stretchr/testify/require"
)

func testDatabase(t *testing.T) *bolt.DB {
	t.Helper()
	db, e := openDatabase(filepath.Join(t.TempDir(), "formula.db"))
	require.NoError(t, e)
	require.NoError(t, Init(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func TestStore(t *testing.T) {
	db := testDatabase(t)
	local, session := LocalStorage(db), SessionStorage(db)

	var _ env.Store = local

	require.NoError(t, local.Set("qty", "3"))
	require.NoError(t, local.Set("coupon", "SAVE10"))

	v, ok, e := local.Get("qty")
	require.NoError(t, e)
	require.True(t, ok)
	require.Equal(t, "3", v)

	_, ok, e = session.Get("qty")
	require.NoError(t, e)
	require.False(t, ok)

	keys := []string{}
	require.NoError(t, local.ForEach(func(k, v string) bool {
		keys = append(keys, k)
		return true
	}))
	require.Equal(t, []string{"coupon", "qty"}, keys)

	require.NoError(t, local.Delete("qty"))
	_, ok, e = local.Get("qty")
	require.NoError(t, e)
	require.False(t, ok)

	_, _, e = Store{DB: db, Bucket: []byte("nope")}.Get("qty")
	require.Error(t, e)
}

func TestTables(t *testing.T) {
	db := testDatabase(t)
	tables := Tables{DB: db}
	ctx := context.Background()

	var _ env.Tables = tables

	row := val.MapFromMap(map[string]val.Value{"standard": val.Float(8.1), "reduced": val.Float(2.6)})
	require.NoError(t, tables.Put("vat", "CH", row))

	got, ok, e := tables.Row(ctx, "vat", "CH")
	require.NoError(t, e)
	require.True(t, ok)
	require.True(t, row.Equals(got), got.String())

	_, ok, e = tables.Row(ctx, "vat", "FR")
	require.NoError(t, e)
	require.False(t, ok)

	_, ok, e = tables.Row(ctx, "shipping", "CH")
	require.NoError(t, e)
	require.False(t, ok)

	rows := val.MapFromMap(map[string]val.Value{
		"DE": val.MapFromMap(map[string]val.Value{"standard": val.Float(19)}),
	})
	require.NoError(t, tables.Load("vat", rows))
	_, ok, e = tables.Row(ctx, "vat", "CH")
	require.NoError(t, e)
	require.False(t, ok, "Load replaces the table")

	require.NoError(t, tables.Put("shipping", "CH", val.MapFromMap(nil)))
	names, e := tables.Names()
	require.NoError(t, e)
	require.Equal(t, []string{"shipping", "vat"}, names)
}

func TestTrees(t *testing.T) {
	db := testDatabase(t)
	trees := Trees{DB: db}

	x := op.Multiply(op.FromLocalStorage(xpr.DatatypeInteger, "qty"), op.Constant(val.Float(12.5)))

	key, e := trees.Put(x)
	require.NoError(t, e)
	require.Len(t, key, 64)
	require.Equal(t, TreeKey(x), key)

	again, e := trees.Put(x)
	require.NoError(t, e)
	require.Equal(t, key, again)

	y, ok, e := trees.Get(key)
	require.NoError(t, e)
	require.True(t, ok)
	require.Equal(t, key, TreeKey(y))

	_, ok, e = trees.Get(TreeKey(op.Constant(val.Float(1))))
	require.NoError(t, e)
	require.False(t, ok)
}

func TestEvaluateAgainstStoredSources(t *testing.T) {
	db := testDatabase(t)
	require.NoError(t, LocalStorage(db).Set("qty", "3"))
	require.NoError(t, Tables{DB: db}.Put("vat", "CH", val.MapFromMap(map[string]val.Value{"standard": val.Float(8)})))

	vm := fvm.VirtualMachine{Env: env.Environment{
		Local:   LocalStorage(db),
		Session: SessionStorage(db),
		Tables:  Tables{DB: db},
	}}
	x := op.Multiply(
		op.FromLocalStorage(xpr.DatatypeInteger, "qty"),
		op.FromLookupTable(xpr.DatatypeFloat, "vat", "CH", "standard"),
	)
	r := vm.Operation(x)(context.Background(), val.Null, nil)
	require.True(t, r.Ok(), r.String())
	require.Equal(t, val.Float(24), r.Value)
}

func TestOpenIsShared(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.db")
	a, e := Open(path)
	require.NoError(t, e)
	b, e := Open(path)
	require.NoError(t, e)
	require.True(t, a == b)
	require.NoError(t, Close())
	require.NoError(t, Close())

	_, e = openDatabase("")
	require.Error(t, e)
}
