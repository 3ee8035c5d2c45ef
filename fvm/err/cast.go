// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package err

import (
	"fmt"

	"github.com/karmarun/formula/fvm/val"
)

// CastError is returned when a raw value does not conform to a datatype.
// Child_ holds a nested failure, e.g. an element of a list cast.
type CastError struct {
	Datatype string
	Input    val.Value
	Problem  string
	Child_   Error
}

func (CastError) name() string { return "CastError" }

func (e CastError) Value() val.Value {
	return Record(e)
}
func (e CastError) Error() string {
	return e.String()
}
func (e CastError) String() string {
	out := banner("Cast Error", "Datatype", e.Datatype, "Value", show(e.Input), "Problem", e.Problem)
	return withChild(out, e.Child_)
}
func (e CastError) Child() Error {
	return e.Child_
}
func (e CastError) Type() string {
	return e.Datatype
}
func (e CastError) Message() string {
	msg := fmt.Sprintf(`%s is not a valid %s: %s.`, show(e.Input), e.Datatype, e.Problem)
	if e.Child_ != nil {
		msg += " " + e.Child_.Message()
	}
	return msg
}
func (e CastError) Operation() val.Value {
	return orNull(e.Input)
}
