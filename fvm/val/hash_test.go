// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package val

import (
	"testing"
)

func sum(v Value) uint64 {
	return Hash(v, nil).Sum64()
}

func TestHashNumbersByMagnitude(t *testing.T) {
	if sum(Int64(2)) != sum(Float(2)) {
		t.Fatalf("Int64(2) and Float(2) must hash equally")
	}
	if sum(Float(2.5)) == sum(Float(2)) {
		t.Fatalf("2.5 and 2 must not hash equally")
	}
}

func TestHashNesting(t *testing.T) {
	cases := [][2]Value{
		{List{List{Float(1)}, Float(2)}, List{List{Float(1), Float(2)}}},
		{List{List{}, List{Float(1)}}, List{List{Float(1)}, List{}}},
		{MapFromMap(map[string]Value{"ab": String("c")}), MapFromMap(map[string]Value{"a": String("bc")})},
		{List{String("ab"), String("c")}, List{String("a"), String("bc")}},
		{SetFromList(List{List{Float(1)}, Float(2)}), SetFromList(List{List{Float(1), Float(2)}})},
	}
	for i, c := range cases {
		if sum(c[0]) == sum(c[1]) {
			t.Errorf("case %d: %s and %s hash equally", i+1, c[0], c[1])
		}
	}
}

func TestSame(t *testing.T) {
	same := [][2]Value{
		{Int64(2), Float(2)},
		{Float(2), Int64(2)},
		{List{Int64(1), List{Float(2)}}, List{Float(1), List{Int64(2)}}},
		{MapFromMap(map[string]Value{"n": Int64(3)}), MapFromMap(map[string]Value{"n": Float(3)})},
		{SetFromList(List{Int64(1), Int64(2)}), SetFromList(List{Float(2), Float(1)})},
		{String("x"), String("x")},
	}
	for i, c := range same {
		if !Same(c[0], c[1]) {
			t.Errorf("same case %d: %s and %s differ", i+1, c[0], c[1])
		}
	}
	different := [][2]Value{
		{Int64(2), Float(2.5)},
		{Float(9223372036854775808), Int64(-9223372036854775808)},
		{List{List{Float(1)}, Float(2)}, List{List{Float(1), Float(2)}}},
		{String("2"), Int64(2)},
		{Null, Bool(false)},
	}
	for i, c := range different {
		if Same(c[0], c[1]) {
			t.Errorf("different case %d: %s and %s are the same", i+1, c[0], c[1])
		}
	}
}

func TestSetHasConfirmsMembers(t *testing.T) {
	s := SetFromList(List{Float(1), List{Float(1), Float(2)}})
	if !s.Has(Int64(1)) {
		t.Fatalf("expected 1 to be a member")
	}
	if s.Has(List{List{Float(1)}, Float(2)}) {
		t.Fatalf("[[1], 2] must not be a member")
	}
	if !s.Has(List{Int64(1), Int64(2)}) {
		t.Fatalf("expected [1, 2] to be a member")
	}
}
