// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package cast

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/cockroachdb/apd/v3"
	"github.com/karmarun/formula/codec/json"
	"github.com/karmarun/formula/fvm/val"
)

func toBoolean(v val.Value) (val.Value, string) {
	switch v := v.(type) {
	case val.Bool:
		return v, ""
	case val.String:
		switch strings.ToLower(strings.TrimSpace(string(v))) {
		case "true", "yes", "on", "1":
			return val.Bool(true), ""
		case "false", "no", "off", "0":
			return val.Bool(false), ""
		}
		return nil, "expected true or false"
	}
	return nil, "expected a boolean"
}

func toFloat(v val.Value) (val.Value, string) {
	switch v := v.(type) {
	case val.Float:
		if !finite(float64(v)) {
			return nil, "number is not finite"
		}
		return v, ""
	case val.Int64:
		return val.Float(v), ""
	case val.String:
		f, e := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
		if e != nil || !finite(f) {
			return nil, "malformed number"
		}
		return val.Float(f), ""
	}
	return nil, "expected a number"
}

func toInteger(v val.Value) (val.Value, string) {
	switch v := v.(type) {
	case val.Int64:
		return v, ""
	case val.Float:
		return integral(float64(v))
	case val.String:
		s := strings.TrimSpace(string(v))
		if i, e := strconv.ParseInt(s, 10, 64); e == nil {
			return val.Int64(i), ""
		}
		f, e := strconv.ParseFloat(s, 64)
		if e != nil {
			return nil, "malformed integer"
		}
		return integral(f)
	}
	return nil, "expected an integer"
}

func integral(f float64) (val.Value, string) {
	if !finite(f) || f != math.Trunc(f) {
		return nil, "number has a fractional part"
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return nil, "integer out of range"
	}
	return val.Int64(f), ""
}

// toAmount accepts monetary text such as "CHF 1'234.50", "1.234,50 €" or
// "(12.00)". Currency symbols, letters and grouping are dropped; when both
// "." and "," occur the later one is the decimal separator.
func toAmount(v val.Value) (val.Value, string) {
	switch v := v.(type) {
	case val.Float, val.Int64:
		return toFloat(v)
	case val.String:
		s, problem := normalizeAmount(string(v))
		if problem != "" {
			return nil, problem
		}
		d, _, e := apd.NewFromString(s)
		if e != nil {
			return nil, "malformed amount"
		}
		f, e := d.Float64()
		if e != nil || !finite(f) {
			return nil, "amount out of range"
		}
		return val.Float(f), ""
	}
	return nil, "expected an amount"
}

func normalizeAmount(s string) (string, string) {
	s = strings.TrimSpace(s)
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative, s = true, s[1:len(s)-1]
	}
	b := strings.Builder{}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',':
			b.WriteRune(r)
		case r == '-' || r == '−':
			negative = !negative
		case r == '+':
		case unicode.IsSpace(r), r == '\'', r == '’', r == '_':
		case unicode.Is(unicode.Sc, r), unicode.IsLetter(r):
		default:
			return "", "unexpected character " + strconv.QuoteRune(r)
		}
	}
	s = b.String()
	if s == "" {
		return "", "no digits"
	}
	dot, comma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0 && comma > dot:
		s = strings.Replace(s, ".", "", -1)
		s = strings.Replace(s, ",", ".", 1)
	case dot >= 0 && comma >= 0:
		s = strings.Replace(s, ",", "", -1)
	case comma >= 0 && strings.Count(s, ",") == 1 && len(s)-comma-1 != 3:
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0:
		s = strings.Replace(s, ",", "", -1)
	case strings.Count(s, ".") > 1:
		s = strings.Replace(s, ".", "", -1)
	}
	if strings.Count(s, ".") > 1 {
		return "", "ambiguous decimal separator"
	}
	if negative {
		s = "-" + s
	}
	return s, ""
}

func toString(v val.Value) (val.Value, string) {
	switch v := v.(type) {
	case val.String:
		return v, ""
	case val.Float:
		return val.String(strconv.FormatFloat(float64(v), 'f', -1, 64)), ""
	case val.Int64, val.Bool, val.Date, val.Time, val.DateTime, val.Duration:
		return val.String(v.String()), ""
	}
	return nil, "expected text"
}

const (
	dateLayout = "2006-01-02"
)

var (
	dateTimeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04:05", "2006-01-02 15:04"}
	timeLayouts     = []string{"15:04:05.999999999", "15:04:05", "15:04", "3:04PM", "3:04 PM", "3:04pm", "3:04 pm"}
)

func toDate(v val.Value) (val.Value, string) {
	switch v := v.(type) {
	case val.Date:
		return v, ""
	case val.DateTime:
		return val.DateOf(v.Time), ""
	case val.String:
		s := strings.TrimSpace(string(v))
		if t, e := time.Parse(dateLayout, s); e == nil {
			return val.DateOf(t), ""
		}
		if t, ok := parseDateTime(s); ok {
			return val.DateOf(t), ""
		}
		return nil, "expected YYYY-MM-DD"
	}
	return nil, "expected a date"
}

// toDateTime reads zoneless text as UTC.
func toDateTime(v val.Value) (val.Value, string) {
	switch v := v.(type) {
	case val.DateTime:
		return v, ""
	case val.Date:
		return val.DateTime{Time: v.In(time.UTC)}, ""
	case val.String:
		if t, ok := parseDateTime(strings.TrimSpace(string(v))); ok {
			return val.DateTime{Time: t}, ""
		}
		return nil, "expected an RFC 3339 date-time"
	}
	return nil, "expected a date-time"
}

func parseDateTime(s string) (time.Time, bool) {
	for _, l := range dateTimeLayouts {
		if t, e := time.Parse(l, s); e == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func toTime(v val.Value) (val.Value, string) {
	switch v := v.(type) {
	case val.Time:
		return v, ""
	case val.DateTime:
		return val.TimeOf(v.Time), ""
	case val.String:
		s := strings.TrimSpace(string(v))
		for _, l := range timeLayouts {
			if t, e := time.Parse(l, s); e == nil {
				return val.TimeOf(t), ""
			}
		}
		return nil, "expected HH:MM or HH:MM:SS"
	}
	return nil, "expected a time"
}

var isoDuration = regexp.MustCompile(`^(-)?P(?:(\d+(?:\.\d+)?)W)?(?:(\d+(?:\.\d+)?)D)?(?:T(?:(\d+(?:\.\d+)?)H)?(?:(\d+(?:\.\d+)?)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// toDuration reads Go syntax ("1h30m") and ISO 8601 ("PT1H30M"). Numbers
// are seconds. Years and months have no fixed length and are rejected.
func toDuration(v val.Value) (val.Value, string) {
	switch v := v.(type) {
	case val.Duration:
		return v, ""
	case val.Float:
		return val.Duration(float64(v) * float64(time.Second)), ""
	case val.Int64:
		return val.Duration(time.Duration(v) * time.Second), ""
	case val.String:
		s := strings.TrimSpace(string(v))
		if d, e := time.ParseDuration(s); e == nil {
			return val.Duration(d), ""
		}
		return parseISODuration(s)
	}
	return nil, "expected a duration"
}

func parseISODuration(s string) (val.Value, string) {
	m := isoDuration.FindStringSubmatch(strings.ToUpper(s))
	if m == nil || s == "P" || strings.HasSuffix(strings.ToUpper(s), "T") {
		return nil, "expected a duration like 1h30m or PT1H30M"
	}
	units := []time.Duration{7 * 24 * time.Hour, 24 * time.Hour, time.Hour, time.Minute, time.Second}
	total, seen := 0.0, false
	for i, u := range units {
		if m[i+2] == "" {
			continue
		}
		f, e := strconv.ParseFloat(m[i+2], 64)
		if e != nil {
			return nil, "malformed duration"
		}
		total += f * float64(u)
		seen = true
	}
	if !seen {
		return nil, "expected a duration like 1h30m or PT1H30M"
	}
	if m[1] == "-" {
		total = -total
	}
	if math.Abs(total) >= math.MaxInt64 {
		return nil, "duration out of range"
	}
	return val.Duration(total), ""
}

// toURL accepts absolute URLs and absolute paths.
func toURL(v val.Value) (val.Value, string) {
	s, ok := v.(val.String)
	if !ok {
		return nil, "expected text"
	}
	u, e := url.Parse(strings.TrimSpace(string(s)))
	if e != nil {
		return nil, "malformed URL"
	}
	if (u.Scheme == "" || u.Host == "" && u.Opaque == "") && !strings.HasPrefix(u.Path, "/") {
		return nil, "expected an absolute URL"
	}
	return val.String(u.String()), ""
}

// toList reads a JSON array or comma separated text.
func toList(v val.Value) (val.Value, string) {
	switch v := v.(type) {
	case val.List:
		return v, ""
	case val.Set:
		return v.Sorted(), ""
	case val.String:
		s := strings.TrimSpace(string(v))
		if strings.HasPrefix(s, "[") {
			w, e := json.Decode(json.JSON(s))
			if e != nil {
				return nil, "malformed JSON array"
			}
			return w, ""
		}
		if s == "" {
			return val.List{}, ""
		}
		parts := strings.Split(s, ",")
		l := make(val.List, len(parts), len(parts))
		for i, p := range parts {
			l[i] = val.String(strings.TrimSpace(p))
		}
		return l, ""
	}
	return nil, "expected a list"
}

func toJSON(v val.Value) (val.Value, string) {
	return v, ""
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
