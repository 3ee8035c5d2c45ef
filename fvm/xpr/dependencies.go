// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package xpr

import (
	"sort"
	"strconv"
)

// Sources of external values, as reported by Dependencies.
const (
	SourceElement        = "element"
	SourceLocalStorage   = "localStorage"
	SourceSessionStorage = "sessionStorage"
	SourceQueryString    = "queryString"
	SourcePathSegment    = "pathSegment"
	SourceRemote         = "remote"
	SourceLookupTable    = "lookupTable"
)

// Dependency is one external value a tree reads.
type Dependency struct {
	Source string
	Key    string
}

// LocalKey returns the key under which caller supplied local values
// override the live source of injector x.
func LocalKey(x Expression) (string, bool) {
	switch x := x.(type) {
	case FromArgument:
		return x.Key, true
	case FromElement:
		return x.Selector, true
	case FromLocalStorage:
		return x.Key, true
	case FromSessionStorage:
		return x.Key, true
	case FromQueryString:
		return x.Key, true
	case FromPathSegment:
		return strconv.Itoa(x.Index), true
	case FromRemote:
		return x.URL, true
	case FromLookupTable:
		return x.Table + "/" + x.Row + "/" + x.Column, true
	}
	return "", false
}

// Dependencies returns the sorted, de-duplicated external values x reads.
// Constants and the call argument are not dependencies.
func Dependencies(x Expression) []Dependency {
	seen := make(map[Dependency]struct{})
	if x != nil {
		x.Transform(func(y Expression) Expression {
			if d, ok := dependencyOf(y); ok {
				seen[d] = struct{}{}
			}
			return y
		})
	}
	deps := make([]Dependency, 0, len(seen))
	for d := range seen {
		deps = append(deps, d)
	}
	sort.Slice(deps, func(i, j int) bool {
		if deps[i].Source != deps[j].Source {
			return deps[i].Source < deps[j].Source
		}
		return deps[i].Key < deps[j].Key
	})
	return deps
}

func dependencyOf(x Expression) (Dependency, bool) {
	key, ok := LocalKey(x)
	if !ok {
		return Dependency{}, false
	}
	switch x.(type) {
	case FromElement:
		return Dependency{SourceElement, key}, true
	case FromLocalStorage:
		return Dependency{SourceLocalStorage, key}, true
	case FromSessionStorage:
		return Dependency{SourceSessionStorage, key}, true
	case FromQueryString:
		return Dependency{SourceQueryString, key}, true
	case FromPathSegment:
		return Dependency{SourcePathSegment, key}, true
	case FromRemote:
		return Dependency{SourceRemote, key}, true
	case FromLookupTable:
		return Dependency{SourceLookupTable, key}, true
	}
	return Dependency{}, false
}
