// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package binary

import (
	"bytes"
	"testing"
	"time"

	"github.com/karmarun/formula/codec"
	"github.com/karmarun/formula/fvm/err"
	"github.com/karmarun/formula/fvm/val"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	values := []val.Value{
		val.Null,
		val.Bool(true),
		val.Bool(false),
		val.Float(-1.25),
		val.Int64(-42),
		val.String("Grüezi"),
		val.String(""),
		val.Date{Year: 2017, Month: time.March, Day: 9},
		val.DateTime{Time: time.Date(2017, 3, 9, 14, 30, 0, 500, time.FixedZone("CET", 3600))},
		val.Time{Hour: 23, Minute: 59, Second: 58, Nanosecond: 7},
		val.Duration(90 * time.Minute),
		val.List{val.Float(1), val.List{}, val.String("x")},
		val.SetFromList(val.List{val.Float(1), val.Float(2), val.String("a")}),
		val.MapFromMap(map[string]val.Value{"tag": val.String("Add"), "operands": val.List{val.Float(1)}}),
	}
	for i, v := range values {
		w, e := Decode(Encode(v))
		require.Nil(t, e, "case %d", i)
		require.True(t, v.Equals(w), "case %d: %v != %v", i, v, w)
	}
}

func TestDeterministic(t *testing.T) {
	a := val.SetFromList(val.List{val.Float(1), val.Float(2), val.Float(3)})
	b := val.SetFromList(val.List{val.Float(3), val.Float(1), val.Float(2)})
	require.True(t, bytes.Equal(Encode(a), Encode(b)))

	require.Equal(t, []byte{byte(TypeInt64), 0, 0, 0, 0, 0, 0, 1, 0}, Encode(val.Int64(256)))
}

func TestFailures(t *testing.T) {
	cases := []struct {
		data   []byte
		offset int
	}{
		{nil, 0},
		{[]byte{99}, 1},
		{[]byte{byte(TypeFloat), 1, 2}, 1},
		{[]byte{byte(TypeBool), 'x'}, 1},
		{[]byte{byte(TypeString), 0, 0, 0, 9, 'a'}, 1},
		{[]byte{byte(TypeNull), 0}, 1},
		{[]byte{byte(TypeTime), 0, 1, 81, 128, 0, 0, 0, 0}, 1},
	}
	for i, c := range cases {
		_, e := Decode(c.data)
		require.NotNil(t, e, "case %d", i)
		require.Equal(t, c.offset, e.(err.CodecError).Offset, "case %d", i)
		require.Contains(t, e.Message(), "binary:", "case %d", i)
	}

	require.NotNil(t, codec.Get("binary"))
}
