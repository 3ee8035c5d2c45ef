// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package yaml

import (
	"testing"

	"github.com/karmarun/formula/fvm/err"
	"github.com/karmarun/formula/fvm/val"
)

func TestDecode(t *testing.T) {
	v, e := Decode([]byte(`
tag: IsMoreThan
operand: &price
  tag: FromElement
  selector: "#price"
  datatype: amount
test:
  tag: Constant
  value: 10
flags: [yes, false, ~, 1.5]
`))
	if e != nil {
		t.Fatal(e)
	}
	m := v.(val.Map)
	if keys := m.Keys(); len(keys) != 4 || keys[0] != "tag" || keys[3] != "flags" {
		t.Fatalf("keys out of order: %v", keys)
	}
	if !m.Key("test").(val.Map).Key("value").Equals(val.Float(10)) {
		t.Fatalf("integers must decode as floats: %v", m.Key("test"))
	}
	expect := val.List{val.String("yes"), val.Bool(false), val.Null, val.Float(1.5)}
	if !m.Key("flags").Equals(expect) {
		t.Fatalf("unexpected flags %v", m.Key("flags"))
	}
}

func TestDecodeEmptyDocument(t *testing.T) {
	v, e := Decode([]byte(""))
	if e != nil || v != val.Null {
		t.Fatalf("expected null, got %v, %v", v, e)
	}
}

func TestDecodeError(t *testing.T) {
	_, e := Decode([]byte("a: [1, 2"))
	if _, ok := e.(err.CodecError); !ok {
		t.Fatalf("expected a CodecError, got %v", e)
	}
}

func TestRoundTrip(t *testing.T) {
	m := val.NewMap(3)
	m.Set("z", val.Float(1))
	m.Set("a", val.List{val.String("true"), val.Bool(true)})
	m.Set("n", val.Null)
	w, e := Decode(Encode(m))
	if e != nil {
		t.Fatal(e)
	}
	if !m.Equals(w) {
		t.Fatalf("expected %v, got %v", m, w)
	}
}
