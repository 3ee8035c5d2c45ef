// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package err

import (
	"fmt"

	"github.com/karmarun/formula/fvm/val"
)

// CodecError is returned by codecs for input they cannot decode.
// Offset is the byte position of the problem in the input.
type CodecError struct {
	Codec   string
	Offset  int
	Problem string
}

func (CodecError) name() string { return "CodecError" }

func (e CodecError) Value() val.Value {
	return Record(e)
}
func (e CodecError) Error() string {
	return e.String()
}
func (e CodecError) String() string {
	return banner("Codec Error", "Codec", e.Codec, "Offset", fmt.Sprintf("%d", e.Offset), "Problem", e.Problem)
}
func (e CodecError) Child() Error {
	return nil
}
func (e CodecError) Type() string {
	return e.Codec
}
func (e CodecError) Message() string {
	return fmt.Sprintf(`%s: %s at offset %d.`, e.Codec, e.Problem, e.Offset)
}
func (e CodecError) Operation() val.Value {
	return val.Null
}
