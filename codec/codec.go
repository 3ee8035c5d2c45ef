// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.

// Package codec is the registry of wire formats for values and operation trees.
package codec

import (
	"log"
	"sort"

	"github.com/karmarun/formula/fvm/err"
	"github.com/karmarun/formula/fvm/val"
)

type Instantiator func() Interface

type Interface interface {
	Decode([]byte) (val.Value, err.Error)
	Encode(val.Value) []byte
}

// Not thread-safe; register from init functions only.
var registry = make(map[string]Instantiator)

func Register(key string, itr Instantiator) {
	if _, ok := registry[key]; ok {
		log.Panicf(`Codec already registered for key: %s`, key)
	}
	registry[key] = itr
}

// Available returns the registered codec names, sorted.
func Available() []string {
	decs := make([]string, 0, len(registry))
	for k := range registry {
		decs = append(decs, k)
	}
	sort.Strings(decs)
	return decs
}

func Get(key string) Interface {
	i := registry[key]
	if i == nil {
		return nil
	}
	return i()
}
