// Package column implements capture-group extraction over Arrow string
// columns.
package column

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Strings is a string-valued Arrow array. Both *array.String and
// *array.LargeString satisfy it.
type Strings interface {
	arrow.Array
	Value(i int) string
}

// Matcher is a compiled pattern. Extract only ever sees a compiled
// matcher, never pattern text.
type Matcher interface {
	// Groups returns the number of capturing groups, not counting group 0.
	Groups() int
	// Group returns the text of group in the leftmost match of s.
	Group(s string, group int) (string, bool)
}

// Options controls extraction.
type Options struct {
	// Allocator for the output column. Defaults to memory.DefaultAllocator.
	Allocator memory.Allocator

	// EmptyOnNoMatch emits "" instead of null when a row does not match
	// or the selected group did not participate. Null rows stay null.
	EmptyOnNoMatch bool
}

func (o Options) allocator() memory.Allocator {
	if o.Allocator == nil {
		return memory.DefaultAllocator
	}
	return o.Allocator
}

// RangeError reports a group index outside [0, Groups].
type RangeError struct {
	Group  int
	Groups int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("group index %d out of range [0, %d]", e.Group, e.Groups)
}

// TypeError reports a column type that cannot be extracted from.
type TypeError struct {
	Type arrow.DataType
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("unsupported column type %s, want utf8 or large_utf8", e.Type)
}

// CheckGroup verifies that group can be extracted with m.
func CheckGroup(m Matcher, group int) error {
	if group < 0 || group > m.Groups() {
		return &RangeError{Group: group, Groups: m.Groups()}
	}
	return nil
}

// AsStrings returns arr as a Strings column if it holds utf8 or
// large_utf8 values.
func AsStrings(arr arrow.Array) (Strings, error) {
	switch a := arr.(type) {
	case *array.String:
		return a, nil
	case *array.LargeString:
		return a, nil
	}
	return nil, &TypeError{Type: arr.DataType()}
}

func checkType(dt arrow.DataType) error {
	switch dt.ID() {
	case arrow.STRING, arrow.LARGE_STRING:
		return nil
	}
	return &TypeError{Type: dt}
}

type stringBuilder interface {
	array.Builder
	Append(v string)
}

func newBuilder(mem memory.Allocator, dt arrow.DataType) (stringBuilder, error) {
	switch dt.ID() {
	case arrow.STRING:
		return array.NewStringBuilder(mem), nil
	case arrow.LARGE_STRING:
		return array.NewLargeStringBuilder(mem), nil
	}
	return nil, &TypeError{Type: dt}
}

// Extract applies m to every row of col and returns a new column of the
// same type and length holding the text of the selected group.
//
// A row is null in the result when it is null in col, when the pattern
// does not match, or when the group did not participate in the match.
// The group is checked before any row is read. The caller owns the
// returned array.
func Extract(col Strings, m Matcher, group int, opts Options) (arrow.Array, error) {
	if err := CheckGroup(m, group); err != nil {
		return nil, err
	}

	b, err := newBuilder(opts.allocator(), col.DataType())
	if err != nil {
		return nil, err
	}
	defer b.Release()

	n := col.Len()
	if n > 0 && col.NullN() == n {
		b.AppendNulls(n)
		return b.NewArray(), nil
	}

	b.Reserve(n)
	for i := 0; i < n; i++ {
		if col.IsNull(i) {
			b.AppendNull()
			continue
		}
		if s, ok := m.Group(col.Value(i), group); ok {
			b.Append(s)
		} else if opts.EmptyOnNoMatch {
			b.Append("")
		} else {
			b.AppendNull()
		}
	}
	return b.NewArray(), nil
}
