// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package val

import (
	"fmt"
	"strings"
)

type Type uint64

const (
	TypeList Type = 1 << iota
	TypeMap
	TypeSet
	TypeFloat
	TypeInt64
	TypeBool
	TypeString
	TypeDate
	TypeDateTime
	TypeTime
	TypeDuration
	TypeNull
	lastType // internal marker
)

const AnyType = TypeList |
	TypeMap |
	TypeSet |
	TypeFloat |
	TypeInt64 |
	TypeBool |
	TypeString |
	TypeDate |
	TypeDateTime |
	TypeTime |
	TypeDuration |
	TypeNull

const NumericType = TypeFloat | TypeInt64

func (t Type) String() string {
	if t == 0 {
		return "unknown"
	}
	if t == AnyType {
		return "any"
	}
	buf := make([]string, 0, 16)
	for i := Type(1); i < lastType; i <<= 1 {
		if i&t != 0 {
			buf = append(buf, typeToString(i))
		}
	}
	return strings.Join(buf, "|")
}

// Is reports whether t is one of the types in u.
func (t Type) Is(u Type) bool {
	return t&u != 0
}

func typeToString(t Type) string {
	switch t {
	case TypeList:
		return "list"
	case TypeMap:
		return "map"
	case TypeSet:
		return "set"
	case TypeFloat:
		return "float"
	case TypeInt64:
		return "int64"
	case TypeBool:
		return "bool"
	case TypeString:
		return "string"
	case TypeDate:
		return "date"
	case TypeDateTime:
		return "dateTime"
	case TypeTime:
		return "time"
	case TypeDuration:
		return "duration"
	case TypeNull:
		return "null"
	}
	panic(fmt.Sprintf("unhandled Type: %b", uint64(t)))
}

func (List) Type() Type {
	return TypeList
}

func (Map) Type() Type {
	return TypeMap
}

func (Set) Type() Type {
	return TypeSet
}

func (Float) Type() Type {
	return TypeFloat
}

func (Int64) Type() Type {
	return TypeInt64
}

func (Bool) Type() Type {
	return TypeBool
}

func (String) Type() Type {
	return TypeString
}

func (Date) Type() Type {
	return TypeDate
}

func (DateTime) Type() Type {
	return TypeDateTime
}

func (Time) Type() Type {
	return TypeTime
}

func (Duration) Type() Type {
	return TypeDuration
}

func (null) Type() Type {
	return TypeNull
}
