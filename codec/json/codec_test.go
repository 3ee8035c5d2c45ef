// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package json

import (
	"testing"
	"time"

	"github.com/karmarun/formula/codec"
	"github.com/karmarun/formula/fvm/err"
	"github.com/karmarun/formula/fvm/val"
)

func TestDecode(t *testing.T) {
	v, e := Decode(JSON(`{
		// operation trees may carry comments
		"tag": "Add",
		"operands": [1, -2.5e1, true, null, "a\nb",],
	}`))
	if e != nil {
		t.Fatal(e)
	}
	m := v.(val.Map)
	if keys := m.Keys(); len(keys) != 2 || keys[0] != "tag" || keys[1] != "operands" {
		t.Fatalf("keys out of order: %v", keys)
	}
	expect := val.List{val.Float(1), val.Float(-25), val.Bool(true), val.Null, val.String("a\nb")}
	if !m.Key("operands").Equals(expect) {
		t.Fatalf("unexpected operands %v", m.Key("operands"))
	}
}

func TestDecodeErrors(t *testing.T) {
	inputs := []string{``, `{`, `[1 2]`, `"open`, `tru`, `1 2`, `{"a" 1}`}
	for i, input := range inputs {
		_, e := Decode(JSON(input))
		if e == nil {
			t.Errorf("case %d: %q must not decode", i+1, input)
			continue
		}
		if _, ok := e.(err.CodecError); !ok {
			t.Errorf("case %d: expected a CodecError, got %T", i+1, e)
		}
	}
	_, e := Decode(JSON(`[1, x]`))
	if c := e.(err.CodecError); c.Offset != 4 {
		t.Errorf("expected offset 4, got %d", c.Offset)
	}
}

func TestEncode(t *testing.T) {
	m := val.NewMap(4)
	m.Set("b", val.Float(1.5))
	m.Set("a", val.List{val.Bool(false), val.Null, val.String(`q"`)})
	m.Set("d", val.Date{Year: 2020, Month: time.January, Day: 2})
	m.Set("t", val.Duration(time.Minute))
	got := string(Encode(m))
	expect := `{"b":1.5,"a":[false,null,"q\""],"d":"2020-01-02","t":"1m0s"}`
	if got != expect {
		t.Fatalf("expected %s, got %s", expect, got)
	}
}

func TestRoundTrip(t *testing.T) {
	v := val.MapFromMap(map[string]val.Value{"x": val.List{val.Float(0.1), val.String("ü")}})
	w, e := Decode(Encode(v))
	if e != nil {
		t.Fatal(e)
	}
	if !v.Equals(w) {
		t.Fatalf("expected %v, got %v", v, w)
	}
}

func TestRegistered(t *testing.T) {
	if codec.Get("json") == nil {
		t.Fatal("json codec is not registered")
	}
}
