// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package val

import (
	"fmt"
	"strconv"
	"time"
)

//go:generate go run ../../generate/logmap/main.go --package val --key string --value Value --output logmap_generated.go

// Value is the runtime representation of everything an operation node
// resolves to. Values are never mutated once an evaluator returned them.
type Value interface {
	Copy() Value
	Equals(Value) bool
	Transform(func(Value) Value) Value
	Primitive() bool
	Type() Type
	String() string
}

type List []Value

func (v List) Transform(f func(Value) Value) Value {
	c := make(List, len(v), len(v))
	for i, w := range v {
		c[i] = w.Transform(f)
	}
	return f(c)
}

func (l List) Equals(v Value) bool {
	q, ok := v.(List)
	if !ok {
		return false
	}
	if len(l) != len(q) {
		return false
	}
	for i := 0; i < len(l); i++ {
		if !l[i].Equals(q[i]) {
			return false
		}
	}
	return true
}

func (v List) Copy() Value {
	c := make(List, len(v), len(v))
	for i, w := range v {
		c[i] = w.Copy()
	}
	return c
}

func (l List) Map(f func(int, Value) Value) List {
	c := make(List, len(l), len(l))
	for i, v := range l {
		c[i] = f(i, v)
	}
	return c
}

func (v List) Primitive() bool {
	return false
}

func (v List) String() string {
	out := "["
	for i, w := range v {
		if i > 0 {
			out += ", "
		}
		out += w.String()
	}
	return out + "]"
}

type Map struct{ lm logMapStringValue }

func NewMap(capacity int) Map {
	return Map{newlogMapStringValue(capacity)}
}

func MapFromMap(m map[string]Value) Map {
	v := NewMap(len(m))
	for k, w := range m {
		v.Set(k, w)
	}
	return v
}

func (v Map) Len() int {
	return v.lm.len()
}

// Key returns nil for absent keys.
func (v Map) Key(k string) Value {
	w, ok := v.lm.get(k)
	if !ok {
		return nil
	}
	return w
}

func (v Map) Get(k string) (Value, bool) {
	return v.lm.get(k)
}

func (v *Map) Set(k string, w Value) {
	v.lm.set(k, w)
}

// With returns a copy of v with k set to w, leaving v untouched.
func (v Map) With(k string, w Value) Map {
	return Map{v.lm.with(k, w)}
}

func (v *Map) Delete(k string) {
	v.lm.unset(k)
}

func (v Map) Transform(f func(Value) Value) Value {
	return f(Map{v.lm.copyFunc(func(w Value) Value {
		return w.Transform(f)
	})})
}

func (v Map) ForEach(f func(string, Value) bool) {
	v.lm.forEach(f)
}

func (v Map) Copy() Value {
	return Map{v.lm.copyFunc(func(w Value) Value {
		return w.Copy()
	})}
}

func (v Map) Equals(w Value) bool {
	x, ok := w.(Map)
	if !ok {
		return false
	}
	if !v.lm.sameKeys(x.lm) {
		return false
	}
	eq := true
	v.lm.forEach(func(k string, v Value) bool {
		w, _ := x.lm.get(k)
		eq = v.Equals(w)
		return eq
	})
	return eq
}

func (v Map) Keys() []string {
	return v.lm.keys()
}

func (v Map) Primitive() bool {
	return false
}

func (v Map) String() string {
	out, first := "{", true
	v.ForEach(func(k string, w Value) bool {
		if !first {
			out += ", "
		}
		out += strconv.Quote(k) + ": " + w.String()
		first = false
		return true
	})
	return out + "}"
}

type Float float64

func (v Float) Transform(f func(Value) Value) Value {
	return f(v)
}

func (x Float) Copy() Value {
	return x
}

func (f Float) Equals(v Value) bool {
	return f == v
}

func (v Float) Primitive() bool {
	return true
}

func (v Float) String() string {
	return strconv.FormatFloat(float64(v), 'g', -1, 64)
}

type Int64 int64

func (v Int64) Transform(f func(Value) Value) Value {
	return f(v)
}

func (x Int64) Copy() Value {
	return x
}

func (i Int64) Equals(v Value) bool {
	return i == v
}

func (Int64) Primitive() bool {
	return true
}

func (v Int64) String() string {
	return strconv.FormatInt(int64(v), 10)
}

type Bool bool

func (v Bool) Transform(f func(Value) Value) Value {
	return f(v)
}

func (x Bool) Copy() Value {
	return x
}

func (b Bool) Equals(v Value) bool {
	return b == v
}

func (v Bool) Primitive() bool {
	return true
}

func (v Bool) String() string {
	if v {
		return "true"
	}
	return "false"
}

type String string

func (v String) Transform(f func(Value) Value) Value {
	return f(v)
}

func (x String) Copy() Value {
	return x
}

func (s String) Equals(v Value) bool {
	q, ok := v.(String)
	return ok && s == q
}

// String returns s quoted; use string(s) for the raw text.
func (s String) String() string {
	return strconv.Quote(string(s))
}

func (v String) Primitive() bool {
	return true
}

type DateTime struct {
	time.Time
}

func (v DateTime) Transform(f func(Value) Value) Value {
	return f(v)
}

func (x DateTime) Copy() Value {
	return x
}

func (s DateTime) Equals(v Value) bool {
	q, ok := v.(DateTime)
	return ok && s.Time.Equal(q.Time)
}

func (v DateTime) Primitive() bool {
	return true
}

func (v DateTime) String() string {
	return v.Format(time.RFC3339Nano)
}

type Duration time.Duration

func (v Duration) Transform(f func(Value) Value) Value {
	return f(v)
}

func (x Duration) Copy() Value {
	return x
}

func (d Duration) Equals(v Value) bool {
	return d == v
}

func (Duration) Primitive() bool {
	return true
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

var Null = null{}

type null struct{}

func (v null) Transform(f func(Value) Value) Value {
	return f(v)
}

func (x null) Copy() Value {
	return x
}

func (s null) Equals(v Value) bool {
	return s == v
}

func (v null) Primitive() bool {
	return true
}

func (null) String() string {
	return "null"
}

type Set map[uint64]Value // hash -> value

func SetFromList(l List) Set {
	s := make(Set, len(l))
	for _, v := range l {
		s[Hash(v, nil).Sum64()] = v
	}
	return s
}

func (s Set) Keys() []uint64 {
	keys := make([]uint64, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	return keys
}

// Has confirms a hash hit with Same, so a colliding value is not a member.
func (s Set) Has(v Value) bool {
	w, ok := s[Hash(v, nil).Sum64()]
	return ok && Same(w, v)
}

func (x Set) Transform(f func(Value) Value) Value {
	c := make(Set, len(x))
	for _, v := range x {
		w := v.Transform(f)
		c[Hash(w, nil).Sum64()] = w
	}
	return f(c)
}

func (x Set) Copy() Value {
	c := make(Set, len(x))
	for k, v := range x {
		c[k] = v.Copy()
	}
	return c
}

func (s Set) Equals(v Value) bool {
	q, ok := v.(Set)
	if !ok {
		return false
	}
	if len(q) != len(s) {
		return false
	}
	for k, v := range s {
		w, ok := q[k]
		if !ok || !v.Equals(w) {
			return false
		}
	}
	return true
}

func (v Set) Primitive() bool {
	return false
}

func (v Set) String() string {
	return fmt.Sprintf("set%s", v.Sorted().String())
}

// Sorted returns the elements of s ordered by hash, which is stable across runs.
func (s Set) Sorted() List {
	ks := s.Keys()
	sortUint64s(ks)
	l := make(List, len(ks), len(ks))
	for i, k := range ks {
		l[i] = s[k]
	}
	return l
}

func TransformIdentity(v Value) Value {
	return v
}
