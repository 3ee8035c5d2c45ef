// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package db

import (
	"context"
	"fmt"

	bolt "github.com/coreos/bbolt"
	"github.com/karmarun/formula/codec/json"
	"github.com/karmarun/formula/definitions"
	"github.com/karmarun/formula/fvm/val"
)

// Tables stores lookup tables as nested buckets of JSON encoded rows.
// It implements env.Tables.
type Tables struct {
	DB *bolt.DB
}

func (t Tables) Row(ctx context.Context, table, key string) (val.Value, bool, error) {
	var bs []byte
	e := t.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(definitions.LookupTableBucketBytes)
		if b == nil {
			return fmt.Errorf("bucket %s does not exist", definitions.LookupTableBucket)
		}
		if b = b.Bucket([]byte(table)); b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			bs = append([]byte(nil), v...)
		}
		return nil
	})
	if e != nil || bs == nil {
		return nil, false, e
	}
	row, de := json.Decode(bs)
	if de != nil {
		return nil, false, fmt.Errorf("row %s/%s: %w", table, key, de)
	}
	return row, true, nil
}

// Put stores row under table and key, creating the table as needed.
func (t Tables) Put(table, key string, row val.Value) error {
	return t.DB.Update(func(tx *bolt.Tx) error {
		b, e := tx.Bucket(definitions.LookupTableBucketBytes).CreateBucketIfNotExists([]byte(table))
		if e != nil {
			return fmt.Errorf("table %s: %w", table, e)
		}
		return b.Put([]byte(key), json.Encode(row))
	})
}

// Load replaces table with rows, a map from row key to row.
func (t Tables) Load(table string, rows val.Map) error {
	return t.DB.Update(func(tx *bolt.Tx) error {
		tables := tx.Bucket(definitions.LookupTableBucketBytes)
		if tables.Bucket([]byte(table)) != nil {
			if e := tables.DeleteBucket([]byte(table)); e != nil {
				return fmt.Errorf("table %s: %w", table, e)
			}
		}
		b, e := tables.CreateBucket([]byte(table))
		if e != nil {
			return fmt.Errorf("table %s: %w", table, e)
		}
		rows.ForEach(func(k string, row val.Value) bool {
			e = b.Put([]byte(k), json.Encode(row))
			return e == nil
		})
		return e
	})
}

// Names returns the stored table names in order.
func (t Tables) Names() ([]string, error) {
	names := []string{}
	e := t.DB.View(func(tx *bolt.Tx) error {
		return tx.Bucket(definitions.LookupTableBucketBytes).ForEach(func(k, v []byte) error {
			if v == nil { // nested bucket
				names = append(names, string(k))
			}
			return nil
		})
	})
	return names, e
}
