// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package xpr

import (
	"github.com/karmarun/formula/fvm/val"
)

// Datatype names the semantic type an injector casts its raw value into.
type Datatype string

const (
	DatatypeBoolean  Datatype = "boolean"
	DatatypeFloat    Datatype = "float"
	DatatypeInteger  Datatype = "integer"
	DatatypeAmount   Datatype = "amount"
	DatatypeString   Datatype = "string"
	DatatypeDate     Datatype = "date"
	DatatypeDateTime Datatype = "dateTime"
	DatatypeTime     Datatype = "time"
	DatatypeDuration Datatype = "duration"
	DatatypeURL      Datatype = "url"
	DatatypeList     Datatype = "list"
	DatatypeJSON     Datatype = "json"
)

var Datatypes = []Datatype{
	DatatypeBoolean, DatatypeFloat, DatatypeInteger, DatatypeAmount, DatatypeString, DatatypeDate,
	DatatypeDateTime, DatatypeTime, DatatypeDuration, DatatypeURL, DatatypeList, DatatypeJSON,
}

func (d Datatype) Valid() bool {
	for _, e := range Datatypes {
		if d == e {
			return true
		}
	}
	return false
}

// DatatypeOf infers the datatype of an already typed value.
func DatatypeOf(v val.Value) Datatype {
	switch v.(type) {
	case val.Bool:
		return DatatypeBoolean
	case val.Float:
		return DatatypeFloat
	case val.Int64:
		return DatatypeInteger
	case val.String:
		return DatatypeString
	case val.Date:
		return DatatypeDate
	case val.DateTime:
		return DatatypeDateTime
	case val.Time:
		return DatatypeTime
	case val.Duration:
		return DatatypeDuration
	case val.List:
		return DatatypeList
	}
	return DatatypeJSON
}
