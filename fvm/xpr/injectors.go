// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package xpr

import (
	"github.com/karmarun/formula/fvm/val"
)

// Constant injects Value. A nil or null Value resolves to a missing value.
type Constant struct {
	Value val.Value
	Type  Datatype
}

func (Constant) Tag() Tag             { return TagConstant }
func (x Constant) Datatype() Datatype { return x.Type }
func (Constant) expression()          {}

func (x Constant) Transform(f func(Expression) Expression) Expression {
	return f(x)
}

// FromArgument injects the call argument, or its field Key when Key is set.
type FromArgument struct {
	Key  string
	Type Datatype
}

func (FromArgument) Tag() Tag             { return TagFromArgument }
func (x FromArgument) Datatype() Datatype { return x.Type }
func (FromArgument) expression()          {}

func (x FromArgument) Transform(f func(Expression) Expression) Expression {
	return f(x)
}

// FromElement injects the value of the first document element matching Selector.
type FromElement struct {
	Selector string
	Type     Datatype
}

func (FromElement) Tag() Tag             { return TagFromElement }
func (x FromElement) Datatype() Datatype { return x.Type }
func (FromElement) expression()          {}

func (x FromElement) Transform(f func(Expression) Expression) Expression {
	return f(x)
}

type FromLocalStorage struct {
	Key  string
	Type Datatype
}

func (FromLocalStorage) Tag() Tag             { return TagFromLocalStorage }
func (x FromLocalStorage) Datatype() Datatype { return x.Type }
func (FromLocalStorage) expression()          {}

func (x FromLocalStorage) Transform(f func(Expression) Expression) Expression {
	return f(x)
}

type FromSessionStorage struct {
	Key  string
	Type Datatype
}

func (FromSessionStorage) Tag() Tag             { return TagFromSessionStorage }
func (x FromSessionStorage) Datatype() Datatype { return x.Type }
func (FromSessionStorage) expression()          {}

func (x FromSessionStorage) Transform(f func(Expression) Expression) Expression {
	return f(x)
}

type FromQueryString struct {
	Key  string
	Type Datatype
}

func (FromQueryString) Tag() Tag             { return TagFromQueryString }
func (x FromQueryString) Datatype() Datatype { return x.Type }
func (FromQueryString) expression()          {}

func (x FromQueryString) Transform(f func(Expression) Expression) Expression {
	return f(x)
}

// FromPathSegment injects a segment of the location's path. Negative
// indexes count from the end.
type FromPathSegment struct {
	Index int
	Type  Datatype
}

func (FromPathSegment) Tag() Tag             { return TagFromPathSegment }
func (x FromPathSegment) Datatype() Datatype { return x.Type }
func (FromPathSegment) expression()          {}

func (x FromPathSegment) Transform(f func(Expression) Expression) Expression {
	return f(x)
}

// FromRemote injects the resource at URL. Path is a dotted path into a
// JSON body, empty for the whole body.
type FromRemote struct {
	URL  string
	Path string
	Type Datatype
}

func (FromRemote) Tag() Tag             { return TagFromRemote }
func (x FromRemote) Datatype() Datatype { return x.Type }
func (FromRemote) expression()          {}

func (x FromRemote) Transform(f func(Expression) Expression) Expression {
	return f(x)
}

type FromLookupTable struct {
	Table  string
	Row    string
	Column string
	Type   Datatype
}

func (FromLookupTable) Tag() Tag             { return TagFromLookupTable }
func (x FromLookupTable) Datatype() Datatype { return x.Type }
func (FromLookupTable) expression()          {}

func (x FromLookupTable) Transform(f func(Expression) Expression) Expression {
	return f(x)
}
