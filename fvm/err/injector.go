// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package err

import (
	"fmt"

	"github.com/karmarun/formula/fvm/val"
)

// SourceUnavailableError is returned when the environment lacks the
// capability an injector reads from (no document, no store, ...).
type SourceUnavailableError struct {
	Tag    string
	Source string
	Node   val.Value
}

func (SourceUnavailableError) name() string { return "SourceUnavailableError" }

func (e SourceUnavailableError) Value() val.Value {
	return Record(e)
}
func (e SourceUnavailableError) Error() string {
	return e.String()
}
func (e SourceUnavailableError) String() string {
	return banner("Source Unavailable Error", "Source", e.Source, "Problem", e.Message())
}
func (e SourceUnavailableError) Child() Error {
	return nil
}
func (e SourceUnavailableError) Type() string {
	return e.Tag
}
func (e SourceUnavailableError) Message() string {
	return fmt.Sprintf(`%s: %s is not available.`, e.Tag, e.Source)
}
func (e SourceUnavailableError) Operation() val.Value {
	return orNull(e.Node)
}

// KeyNotFoundError is returned for absent storage keys, query parameters,
// table rows or columns and remote paths. Problem carries backend
// failures and may be empty.
type KeyNotFoundError struct {
	Tag     string
	Key     string
	Problem string
	Node    val.Value
}

func (KeyNotFoundError) name() string { return "KeyNotFoundError" }

func (e KeyNotFoundError) Value() val.Value {
	return Record(e)
}
func (e KeyNotFoundError) Error() string {
	return e.String()
}
func (e KeyNotFoundError) String() string {
	return banner("Key Not Found Error", "Key", e.Key, "Problem", e.Message())
}
func (e KeyNotFoundError) Child() Error {
	return nil
}
func (e KeyNotFoundError) Type() string {
	return e.Tag
}
func (e KeyNotFoundError) Message() string {
	if e.Problem != "" {
		return fmt.Sprintf(`%s: key "%s" could not be read: %s.`, e.Tag, e.Key, e.Problem)
	}
	return fmt.Sprintf(`%s: key "%s" not found.`, e.Tag, e.Key)
}
func (e KeyNotFoundError) Operation() val.Value {
	return orNull(e.Node)
}

type SelectorNotFoundError struct {
	Tag      string
	Selector string
	Node     val.Value
}

func (SelectorNotFoundError) name() string { return "SelectorNotFoundError" }

func (e SelectorNotFoundError) Value() val.Value {
	return Record(e)
}
func (e SelectorNotFoundError) Error() string {
	return e.String()
}
func (e SelectorNotFoundError) String() string {
	return banner("Selector Not Found Error", "Selector", e.Selector)
}
func (e SelectorNotFoundError) Child() Error {
	return nil
}
func (e SelectorNotFoundError) Type() string {
	return e.Tag
}
func (e SelectorNotFoundError) Message() string {
	return fmt.Sprintf(`%s: no element matches "%s".`, e.Tag, e.Selector)
}
func (e SelectorNotFoundError) Operation() val.Value {
	return orNull(e.Node)
}

type SegmentNotFoundError struct {
	Tag   string
	Index int
	Path  string
	Node  val.Value
}

func (SegmentNotFoundError) name() string { return "SegmentNotFoundError" }

func (e SegmentNotFoundError) Value() val.Value {
	return Record(e)
}
func (e SegmentNotFoundError) Error() string {
	return e.String()
}
func (e SegmentNotFoundError) String() string {
	return banner("Segment Not Found Error", "Path", e.Path, "Problem", e.Message())
}
func (e SegmentNotFoundError) Child() Error {
	return nil
}
func (e SegmentNotFoundError) Type() string {
	return e.Tag
}
func (e SegmentNotFoundError) Message() string {
	return fmt.Sprintf(`%s: path "%s" has no segment %d.`, e.Tag, e.Path, e.Index)
}
func (e SegmentNotFoundError) Operation() val.Value {
	return orNull(e.Node)
}

// MissingValueError is returned when an injector resolved to nothing
// (a null constant, an empty argument).
type MissingValueError struct {
	Tag  string
	Node val.Value
}

func (MissingValueError) name() string { return "MissingValueError" }

func (e MissingValueError) Value() val.Value {
	return Record(e)
}
func (e MissingValueError) Error() string {
	return e.String()
}
func (e MissingValueError) String() string {
	return banner("Missing Value Error", "Problem", e.Message())
}
func (e MissingValueError) Child() Error {
	return nil
}
func (e MissingValueError) Type() string {
	return e.Tag
}
func (e MissingValueError) Message() string {
	return fmt.Sprintf(`%s: value not found.`, e.Tag)
}
func (e MissingValueError) Operation() val.Value {
	return orNull(e.Node)
}

type FetchError struct {
	Tag     string
	URL     string
	Problem string
	Node    val.Value
}

func (FetchError) name() string { return "FetchError" }

func (e FetchError) Value() val.Value {
	return Record(e)
}
func (e FetchError) Error() string {
	return e.String()
}
func (e FetchError) String() string {
	return banner("Fetch Error", "URL", e.URL, "Problem", e.Problem)
}
func (e FetchError) Child() Error {
	return nil
}
func (e FetchError) Type() string {
	return e.Tag
}
func (e FetchError) Message() string {
	return fmt.Sprintf(`%s: fetching "%s" failed: %s.`, e.Tag, e.URL, e.Problem)
}
func (e FetchError) Operation() val.Value {
	return orNull(e.Node)
}
