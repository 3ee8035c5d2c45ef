// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package err

import (
	"strings"

	"github.com/karmarun/formula/fvm/val"
)

type Error interface {
	Value() val.Value     // serializable
	Error() string        // should be proxy to String() (to implement error interface)
	String() string       // human readable string
	Child() Error         // may be nil
	Type() string         // name of the failing operation kind
	Message() string      // one line
	Operation() val.Value // originating node or value, may be val.Null
}

// Record builds the serializable form shared by every error kind.
func Record(e Error) val.Value {
	m := val.NewMap(6)
	m.Set("tag", val.String("Error"))
	m.Set("type", val.String(e.Type()))
	m.Set("error", val.String(Name(e)))
	m.Set("message", val.String(e.Message()))
	m.Set("operation", orNull(e.Operation()))
	if c := e.Child(); c != nil {
		m.Set("child", c.Value())
	}
	return m
}

// Name returns the error kind, e.g. "ZeroDivisionError".
func Name(e Error) string {
	if n, ok := e.(interface{ name() string }); ok {
		return n.name()
	}
	return "Error"
}

// banner renders a title underlined the way all human-readable errors are.
func banner(title string, sections ...string) string {
	out := title + "\n"
	out += strings.Repeat("=", len(title)) + "\n"
	for i := 0; i+1 < len(sections); i += 2 {
		out += sections[i] + "\n"
		out += strings.Repeat("-", len(sections[i])) + "\n"
		out += sections[i+1] + "\n\n"
	}
	return out
}

func withChild(out string, c Error) string {
	if c != nil {
		out += c.String()
	}
	return out
}

func orNull(v val.Value) val.Value {
	if v == nil {
		return val.Null
	}
	return v
}

func show(v val.Value) string {
	if v == nil {
		return "undefined"
	}
	return ValueToHuman(v)
}
