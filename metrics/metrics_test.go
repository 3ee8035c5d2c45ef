// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package metrics

import (
	"testing"
	"time"

	"github.com/karmarun/formula/fvm/val"
	"github.com/stretchr/testify/require"
)

func TestLatencySnapshot(t *testing.T) {
	l := NewLatency()
	for i := 1; i <= 100; i++ {
		l.Record(time.Duration(i) * time.Millisecond)
	}
	l.Record(0)         // clamped up
	l.Record(time.Hour) // clamped down
	require.Equal(t, int64(102), l.Count())

	s := l.Snapshot()
	require.Equal(t, []string{"count", "max", "p50", "p90", "p99"}, s.Keys())
	require.Equal(t, val.Int64(102), s.Key("count"))

	p50 := time.Duration(s.Key("p50").(val.Duration))
	require.InDelta(t, float64(50*time.Millisecond), float64(p50), float64(time.Millisecond))

	max := time.Duration(s.Key("max").(val.Duration))
	require.InDelta(t, float64(time.Minute), float64(max), float64(time.Second))

	l.Reset()
	require.Equal(t, int64(0), l.Count())
}

func TestRegistry(t *testing.T) {
	a := Get("test.registry.a")
	require.True(t, a == Get("test.registry.a"))
	Get("test.registry.b").Record(time.Millisecond)

	s := Snapshot()
	_, ok := s.Get("test.registry.a")
	require.True(t, ok)
	b, ok := s.Get("test.registry.b")
	require.True(t, ok)
	require.Equal(t, val.Int64(1), b.(val.Map).Key("count"))
}
