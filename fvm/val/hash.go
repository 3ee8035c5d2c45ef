// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package val

import (
	"encoding/binary"
	"fmt"
	"hash"
	"hash/fnv"
	"math"
	"sort"
)

// Hash feeds a canonical encoding of v into h (FNV-1 when h is nil).
// Equal values hash equally. Numbers hash by magnitude, so Int64(2) and
// Float(2) collide on purpose; collections carry their length so nesting
// is part of the encoding.
func Hash(v Value, h hash.Hash64) hash.Hash64 {
	if h == nil {
		h = fnv.New64()
	}
	switch v := v.(type) {
	case List:
		h.Write([]byte(`list`))
		h.Write(uint64Bytes(uint64(len(v))))
		for _, w := range v {
			h = Hash(w, h)
		}
		return h
	case Map:
		h.Write([]byte(`map`))
		h.Write(uint64Bytes(uint64(v.Len())))
		v.ForEach(func(k string, w Value) bool { // keys are sorted
			h.Write(uint64Bytes(uint64(len(k))))
			h.Write([]byte(k))
			h = Hash(w, h)
			return true
		})
		return h
	case Set:
		h.Write([]byte(`set`))
		h.Write(uint64Bytes(uint64(len(v))))
		ks := v.Keys()
		sortUint64s(ks)
		for _, k := range ks {
			h = Hash(v[k], h)
		}
		return h
	case Float:
		if i, ok := integral(v); ok {
			return Hash(i, h)
		}
		h.Write([]byte(`float`))
		h.Write(uint64Bytes(math.Float64bits(float64(v))))
		return h
	case Int64:
		h.Write([]byte(`int64`))
		h.Write(uint64Bytes(uint64(v)))
		return h
	case Bool:
		h.Write([]byte(`bool`))
		if v {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
		return h
	case String:
		h.Write([]byte(`string`))
		h.Write(uint64Bytes(uint64(len(v))))
		h.Write([]byte(v))
		return h
	case Date:
		h.Write([]byte(`date`))
		h.Write([]byte(v.String()))
		return h
	case DateTime:
		h.Write([]byte(`datetime`))
		h.Write(uint64Bytes(uint64(v.UnixNano())))
		return h
	case Time:
		h.Write([]byte(`time`))
		h.Write([]byte(v.String()))
		return h
	case Duration:
		h.Write([]byte(`duration`))
		h.Write(uint64Bytes(uint64(v)))
		return h
	case null:
		h.Write([]byte(`null`))
		return h
	}
	panic(fmt.Sprintf("unhandled type: %T", v))
}

// integral returns f as an Int64 when it is a whole number in range.
func integral(f Float) (Int64, bool) {
	x := float64(f)
	if math.IsInf(x, 0) || math.IsNaN(x) || x != math.Trunc(x) {
		return 0, false
	}
	if x < math.MinInt64 || x >= math.MaxInt64 {
		return 0, false
	}
	return Int64(x), true
}

// Same is Equals with numbers compared by magnitude, at any depth.
// Sets use it for membership.
func Same(a, b Value) bool {
	switch a := a.(type) {
	case Float:
		switch b := b.(type) {
		case Float:
			return a == b
		case Int64:
			i, ok := integral(a)
			return ok && i == b
		}
		return false
	case Int64:
		if f, ok := b.(Float); ok {
			return Same(f, a)
		}
		return a.Equals(b)
	case List:
		l, ok := b.(List)
		if !ok || len(l) != len(a) {
			return false
		}
		for i := range a {
			if !Same(a[i], l[i]) {
				return false
			}
		}
		return true
	case Map:
		m, ok := b.(Map)
		if !ok || m.Len() != a.Len() {
			return false
		}
		same := true
		a.ForEach(func(k string, v Value) bool {
			w, ok := m.Get(k)
			same = ok && Same(v, w)
			return same
		})
		return same
	case Set:
		s, ok := b.(Set)
		if !ok || len(s) != len(a) {
			return false
		}
		for _, v := range a {
			if !s.Has(v) {
				return false
			}
		}
		return true
	}
	return a.Equals(b)
}

func uint64Bytes(u uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, u)
	return b
}

func sortUint64s(ks []uint64) {
	sort.Slice(ks, func(i, j int) bool {
		return ks[i] < ks[j]
	})
}
