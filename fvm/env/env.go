// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.

// Package env defines the capabilities injectors read from. Every field of
// Environment is optional; an injector whose capability is nil fails with
// a SourceUnavailableError.
package env

import (
	"context"
	"time"

	"github.com/karmarun/formula/fvm/val"
	"golang.org/x/text/language"
)

// Document answers element queries; Value returns the current value of the
// first element matching selector.
type Document interface {
	Value(selector string) (string, bool)
}

// Store is a persisted key/value store. A missing key is (_, false, nil).
type Store interface {
	Get(key string) (string, bool, error)
}

// Location is the current address: its query string and path segments.
type Location interface {
	Query(key string) (string, bool)
	Segment(index int) (string, bool)
	Path() string
}

type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Tables returns a row of a lookup table; rows are maps from column to value.
type Tables interface {
	Row(ctx context.Context, table, key string) (val.Value, bool, error)
}

type Environment struct {
	Document Document
	Local    Store
	Session  Store
	Location Location
	Fetcher  Fetcher
	Tables   Tables
	Language language.Tag   // collation of alphabetical comparators
	Zone     *time.Location // calendar of date comparators, UTC when nil
}

func (e Environment) Calendar() *time.Location {
	if e.Zone == nil {
		return time.UTC
	}
	return e.Zone
}

// Locals overrides live sources for the duration of one call. Keys are
// injector specific, see xpr.LocalKey. Never mutated by the engine.
type Locals map[string]val.Value

func (l Locals) Lookup(key string) (val.Value, bool) {
	if l == nil {
		return nil, false
	}
	v, ok := l[key]
	return v, ok
}
