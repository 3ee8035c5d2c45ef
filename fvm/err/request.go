// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package err

import (
	"fmt"

	"github.com/karmarun/formula/fvm/val"
)

// RequestError is answered by the HTTP service for requests it cannot
// serve: bad paths, missing fields, unknown trees. Child is set when the
// request body failed to decode.
type RequestError struct {
	Problem string
	Child_  Error
}

func (RequestError) name() string { return "RequestError" }

func (e RequestError) Value() val.Value {
	return Record(e)
}
func (e RequestError) Error() string {
	return e.String()
}
func (e RequestError) String() string {
	return withChild(banner("Request Error", "Problem", e.Problem), e.Child_)
}
func (e RequestError) Child() Error {
	return e.Child_
}
func (e RequestError) Type() string {
	return "Request"
}
func (e RequestError) Message() string {
	return fmt.Sprintf(`%s.`, e.Problem)
}
func (e RequestError) Operation() val.Value {
	return val.Null
}

type PermissionDeniedError struct {
	Problem string
}

func (PermissionDeniedError) name() string { return "PermissionDeniedError" }

func (e PermissionDeniedError) Value() val.Value {
	return Record(e)
}
func (e PermissionDeniedError) Error() string {
	return e.String()
}
func (e PermissionDeniedError) String() string {
	return banner("Permission Denied Error", "Problem", e.Problem)
}
func (e PermissionDeniedError) Child() Error {
	return nil
}
func (e PermissionDeniedError) Type() string {
	return "Request"
}
func (e PermissionDeniedError) Message() string {
	return fmt.Sprintf(`permission denied: %s.`, e.Problem)
}
func (e PermissionDeniedError) Operation() val.Value {
	return val.Null
}

// InternalError hides failures of the service itself from clients; the
// cause is logged, not answered.
type InternalError struct {
	Problem string
}

func (InternalError) name() string { return "InternalError" }

func (e InternalError) Value() val.Value {
	return Record(e)
}
func (e InternalError) Error() string {
	return e.String()
}
func (e InternalError) String() string {
	return banner("Internal Error", "Problem", e.Problem)
}
func (e InternalError) Child() Error {
	return nil
}
func (e InternalError) Type() string {
	return "Internal"
}
func (e InternalError) Message() string {
	return fmt.Sprintf(`internal error: %s.`, e.Problem)
}
func (e InternalError) Operation() val.Value {
	return val.Null
}
