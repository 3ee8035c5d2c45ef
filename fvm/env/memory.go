// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package env

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/karmarun/formula/fvm/val"
)

// MemoryStore is a Store backed by a map, safe for concurrent use.
type MemoryStore struct {
	mutex sync.RWMutex
	data  map[string]string
}

func NewMemoryStore(data map[string]string) *MemoryStore {
	m := &MemoryStore{data: make(map[string]string, len(data))}
	for k, v := range data {
		m.data[k] = v
	}
	return m
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.data[key] = value
	return nil
}

// StaticDocument maps selectors to values.
type StaticDocument map[string]string

func (d StaticDocument) Value(selector string) (string, bool) {
	v, ok := d[selector]
	return v, ok
}

// URLLocation is a Location over a parsed URL.
type URLLocation struct {
	url      *url.URL
	query    url.Values
	segments []string
}

func ParseLocation(raw string) (URLLocation, error) {
	u, e := url.Parse(raw)
	if e != nil {
		return URLLocation{}, e
	}
	return LocationOf(u), nil
}

func LocationOf(u *url.URL) URLLocation {
	segments := []string{}
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return URLLocation{url: u, query: u.Query(), segments: segments}
}

func (l URLLocation) Query(key string) (string, bool) {
	vs, ok := l.query[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// Segment returns the index-th non-empty path segment; negative indexes
// count from the end.
func (l URLLocation) Segment(index int) (string, bool) {
	if index < 0 {
		index += len(l.segments)
	}
	if index < 0 || index >= len(l.segments) {
		return "", false
	}
	s, e := url.PathUnescape(l.segments[index])
	if e != nil {
		return l.segments[index], true
	}
	return s, true
}

func (l URLLocation) Path() string {
	if l.url == nil {
		return ""
	}
	return l.url.Path
}

// MemoryTables holds lookup tables in memory: table -> row key -> row.
type MemoryTables map[string]map[string]val.Value

func (t MemoryTables) Row(ctx context.Context, table, key string) (val.Value, bool, error) {
	rows, ok := t[table]
	if !ok {
		return nil, false, nil
	}
	row, ok := rows[key]
	return row, ok, nil
}
