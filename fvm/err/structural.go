// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package err

import (
	"fmt"

	"github.com/karmarun/formula/fvm/val"
)

// UnknownOperationError is returned for undefined nodes, nodes without tag
// and tags neither dispatch table knows. Family is "Operation" or "Comparison".
type UnknownOperationError struct {
	Family string
	Tag    string
	Node   val.Value
}

func (UnknownOperationError) name() string { return "UnknownOperationError" }

func (e UnknownOperationError) Value() val.Value {
	return Record(e)
}
func (e UnknownOperationError) Error() string {
	return e.String()
}
func (e UnknownOperationError) String() string {
	return banner("Unknown Operation Error", "Problem", e.Message())
}
func (e UnknownOperationError) Child() Error {
	return nil
}
func (e UnknownOperationError) Type() string {
	return e.Tag
}
func (e UnknownOperationError) Message() string {
	return fmt.Sprintf(`%s "%s" does not exist.`, e.Family, e.Tag)
}
func (e UnknownOperationError) Operation() val.Value {
	return orNull(e.Node)
}

// MalformedOperationError is returned for nodes with a known tag whose
// fields cannot be used (wrong field types, empty OR, ...).
type MalformedOperationError struct {
	Tag     string
	Problem string
	Node    val.Value
}

func (MalformedOperationError) name() string { return "MalformedOperationError" }

func (e MalformedOperationError) Value() val.Value {
	return Record(e)
}
func (e MalformedOperationError) Error() string {
	return e.String()
}
func (e MalformedOperationError) String() string {
	return banner("Malformed Operation Error", "Operation", e.Tag, "Problem", e.Problem)
}
func (e MalformedOperationError) Child() Error {
	return nil
}
func (e MalformedOperationError) Type() string {
	return e.Tag
}
func (e MalformedOperationError) Message() string {
	return fmt.Sprintf(`%s is malformed: %s.`, e.Tag, e.Problem)
}
func (e MalformedOperationError) Operation() val.Value {
	return orNull(e.Node)
}

// PrimitiveError wraps a panic recovered from a numeric, statistic or
// calendar primitive so that it never escapes an evaluator.
type PrimitiveError struct {
	Tag     string
	Problem string
	Node    val.Value
}

func (PrimitiveError) name() string { return "PrimitiveError" }

func (e PrimitiveError) Value() val.Value {
	return Record(e)
}
func (e PrimitiveError) Error() string {
	return e.String()
}
func (e PrimitiveError) String() string {
	return banner("Primitive Error", "Operation", e.Tag, "Problem", e.Problem)
}
func (e PrimitiveError) Child() Error {
	return nil
}
func (e PrimitiveError) Type() string {
	return e.Tag
}
func (e PrimitiveError) Message() string {
	return fmt.Sprintf(`%s failed unexpectedly: %s.`, e.Tag, e.Problem)
}
func (e PrimitiveError) Operation() val.Value {
	return orNull(e.Node)
}
