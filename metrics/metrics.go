// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.

// Package metrics keeps latency histograms of the fetch capability and the
// HTTP endpoints. Histograms are registered by name and snapshot as values
// so the api can encode them with any codec.
package metrics

import (
	"sort"
	"sync"
	"time"

	"github.com/codahale/hdrhistogram"
	"github.com/karmarun/formula/fvm/val"
)

const (
	lowest  = int64(time.Microsecond)
	highest = int64(time.Minute)
	sigfigs = 3
)

// Latency is a concurrency safe duration histogram. Durations are recorded
// in microseconds and clamped to [1µs, 1m].
type Latency struct {
	mutex sync.Mutex
	hist  *hdrhistogram.Histogram
}

func NewLatency() *Latency {
	return &Latency{hist: hdrhistogram.New(lowest/int64(time.Microsecond), highest/int64(time.Microsecond), sigfigs)}
}

func (l *Latency) Record(d time.Duration) {
	us := int64(d / time.Microsecond)
	if us < 1 {
		us = 1
	}
	if max := highest / int64(time.Microsecond); us > max {
		us = max
	}
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.hist.RecordValue(us) // in range, never fails
}

// Since records the time elapsed since t0.
func (l *Latency) Since(t0 time.Time) {
	l.Record(time.Since(t0))
}

func (l *Latency) Count() int64 {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.hist.TotalCount()
}

// Snapshot returns the count, the max and the p50, p90 and p99 quantiles as durations.
func (l *Latency) Snapshot() val.Map {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	us := func(v int64) val.Value {
		return val.Duration(time.Duration(v) * time.Microsecond)
	}
	m := val.NewMap(5)
	m.Set("count", val.Int64(l.hist.TotalCount()))
	m.Set("p50", us(l.hist.ValueAtQuantile(50)))
	m.Set("p90", us(l.hist.ValueAtQuantile(90)))
	m.Set("p99", us(l.hist.ValueAtQuantile(99)))
	m.Set("max", us(l.hist.Max()))
	return m
}

func (l *Latency) Reset() {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.hist.Reset()
}

var (
	registryMutex = sync.Mutex{}
	registry      = make(map[string]*Latency)
)

// Get returns the histogram registered under name, creating it on first use.
func Get(name string) *Latency {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	if l, ok := registry[name]; ok {
		return l
	}
	l := NewLatency()
	registry[name] = l
	return l
}

// Snapshot returns every registered histogram by name, sorted.
func Snapshot() val.Map {
	registryMutex.Lock()
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	registryMutex.Unlock()
	sort.Strings(names)
	m := val.NewMap(len(names))
	for _, name := range names {
		m.Set(name, Get(name).Snapshot())
	}
	return m
}
