// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package db

import (
	"encoding/hex"
	"fmt"

	bolt "github.com/coreos/bbolt"
	"github.com/karmarun/formula/codec/json"
	"github.com/karmarun/formula/definitions"
	"github.com/karmarun/formula/fvm/xpr"
	"golang.org/x/crypto/blake2b"
)

// Trees is a content addressed store of operation trees. The key of a tree
// is the hex blake2b-256 digest of its JSON encoding, so equal trees share
// one entry.
type Trees struct {
	DB *bolt.DB
}

func TreeKey(x xpr.Expression) string {
	_, key := encodeTree(x)
	return key
}

func encodeTree(x xpr.Expression) ([]byte, string) {
	bs := json.Encode(xpr.ValueFromExpression(x))
	sum := blake2b.Sum256(bs)
	return bs, hex.EncodeToString(sum[:])
}

func (t Trees) Put(x xpr.Expression) (string, error) {
	bs, key := encodeTree(x)
	e := t.DB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(definitions.TreeBucketBytes)
		if b.Get([]byte(key)) != nil {
			return nil
		}
		return b.Put([]byte(key), bs)
	})
	if e != nil {
		return "", fmt.Errorf("storing tree %s: %w", key, e)
	}
	log.Debugf("stored tree %s", key)
	return key, nil
}

func (t Trees) Get(key string) (xpr.Expression, bool, error) {
	var bs []byte
	e := t.DB.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(definitions.TreeBucketBytes).Get([]byte(key)); v != nil {
			bs = append([]byte(nil), v...)
		}
		return nil
	})
	if e != nil || bs == nil {
		return nil, false, e
	}
	v, de := json.Decode(bs)
	if de != nil {
		return nil, false, fmt.Errorf("tree %s: %w", key, de)
	}
	return xpr.ExpressionFromValue(v), true, nil
}
