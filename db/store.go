// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package db

import (
	"fmt"

	bolt "github.com/coreos/bbolt"
	"github.com/karmarun/formula/definitions"
)

// Store is a string key/value store in one bucket. It implements env.Store.
type Store struct {
	DB     *bolt.DB
	Bucket []byte
}

func LocalStorage(db *bolt.DB) Store {
	return Store{DB: db, Bucket: definitions.LocalStorageBucketBytes}
}

func SessionStorage(db *bolt.DB) Store {
	return Store{DB: db, Bucket: definitions.SessionStorageBucketBytes}
}

func (s Store) Get(key string) (string, bool, error) {
	value, found := "", false
	e := s.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.Bucket)
		if b == nil {
			return fmt.Errorf("bucket %s does not exist", s.Bucket)
		}
		if v := b.Get([]byte(key)); v != nil {
			value, found = string(v), true // v is only valid inside the transaction
		}
		return nil
	})
	return value, found, e
}

func (s Store) Set(key, value string) error {
	return s.DB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.Bucket)
		if b == nil {
			return fmt.Errorf("bucket %s does not exist", s.Bucket)
		}
		return b.Put([]byte(key), []byte(value))
	})
}

func (s Store) Delete(key string) error {
	return s.DB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.Bucket)
		if b == nil {
			return fmt.Errorf("bucket %s does not exist", s.Bucket)
		}
		return b.Delete([]byte(key))
	})
}

// ForEach calls f for every pair in key order until f returns false.
func (s Store) ForEach(f func(key, value string) bool) error {
	return s.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.Bucket)
		if b == nil {
			return fmt.Errorf("bucket %s does not exist", s.Bucket)
		}
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if !f(string(k), string(v)) {
				break
			}
		}
		return nil
	})
}
