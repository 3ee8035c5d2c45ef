// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package err

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/karmarun/formula/fvm/val"
)

// ValueToHuman renders v for error messages: numbers without trailing
// zeros, strings quoted, temporal values in their ISO forms.
func ValueToHuman(v val.Value) string {
	if v == nil {
		return `undefined`
	}
	if v == val.Null {
		return `null`
	}
	switch v := v.(type) {
	case val.Map:
		if v.Len() > 4 {
			return fmt.Sprintf(`{...%d keys}`, v.Len())
		}
		parts := make([]string, 0, v.Len())
		v.ForEach(func(k string, w val.Value) bool {
			parts = append(parts, strconv.Quote(k)+`: `+ValueToHuman(w))
			return true
		})
		return `{` + strings.Join(parts, `, `) + `}`
	case val.List:
		if len(v) > 8 {
			return fmt.Sprintf(`[...%d values]`, len(v))
		}
		parts := make([]string, len(v))
		for i, w := range v {
			parts[i] = ValueToHuman(w)
		}
		return `[` + strings.Join(parts, `, `) + `]`
	case val.Set:
		return `set` + ValueToHuman(v.Sorted())
	case val.Bool:
		if v {
			return `true`
		}
		return `false`
	case val.DateTime:
		return v.Format(time.RFC3339)
	case val.Date:
		return v.String()
	case val.Time:
		return v.String()
	case val.Duration:
		return time.Duration(v).String()
	case val.Float:
		return strconv.FormatFloat(float64(v), 'f', -1, 64)
	case val.String:
		return fmt.Sprintf(`"%s"`, string(v))
	case val.Int64:
		return fmt.Sprintf(`%d`, v)
	}
	return v.String()
}
