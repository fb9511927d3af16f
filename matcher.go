package rextract

import (
	"context"
	"errors"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/kolkov/rextract/internal/column"
	"github.com/kolkov/rextract/internal/pattern"
)

// Matcher is a compiled pattern ready for extraction.
// It is immutable and safe for concurrent use; parallel extraction
// shares a single Matcher between workers.
type Matcher struct {
	re *pattern.Regex
}

// Groups returns the number of capturing groups in the pattern.
// Valid group indexes are 0 (the whole match) through Groups().
func (m *Matcher) Groups() int {
	return m.re.Groups()
}

// GroupNames returns the names of the capturing groups; index 0 is
// always "" and unnamed groups are "".
func (m *Matcher) GroupNames() []string {
	return m.re.Names()
}

// Pattern returns the source text of the pattern.
func (m *Matcher) Pattern() string {
	return m.re.Pattern()
}

func (m *Matcher) String() string {
	return m.re.Pattern()
}

// Match returns the text of group in the leftmost match of s, and false
// when s does not match or the group did not participate.
func (m *Matcher) Match(s string, group int) (string, bool) {
	return m.re.Group(s, group)
}

// Extract applies the pattern to every row of col and returns a new column
// of the same type and length holding the text of group. Rows are null in
// the result when they are null in col, do not match, or the group did not
// participate (see Config.EmptyOnNoMatch).
//
// col must be a utf8 or large_utf8 array. The group is validated before
// any row is read. The caller must Release the result.
//
// If config is nil, default configuration is used.
func (m *Matcher) Extract(col arrow.Array, group int, config *Config) (arrow.Array, error) {
	return m.ExtractContext(context.Background(), col, group, config)
}

// ExtractContext is like Extract. The context only matters for parallel
// extraction, where cancelling it stops the remaining chunks.
func (m *Matcher) ExtractContext(ctx context.Context, col arrow.Array, group int, config *Config) (arrow.Array, error) {
	var cfg Config
	if config != nil {
		cfg = *config
	}
	cfg.applyDefaults()

	if err := column.CheckGroup(m.re, group); err != nil {
		return nil, convertError(err)
	}
	strs, err := column.AsStrings(col)
	if err != nil {
		return nil, convertError(err)
	}

	opts := column.Options{
		Allocator:      cfg.Allocator,
		EmptyOnNoMatch: cfg.EmptyOnNoMatch,
	}

	var out arrow.Array
	if cfg.Parallel > 1 {
		out, err = column.ExtractParallel(ctx, strs, m.re, group, opts, column.ParallelOptions{
			Workers:   cfg.Parallel,
			ChunkRows: cfg.ChunkRows,
		})
	} else {
		out, err = column.Extract(strs, m.re, group, opts)
	}
	if err != nil {
		return nil, convertError(err)
	}
	return out, nil
}

// convertError maps internal errors to the public error types.
func convertError(err error) error {
	var re *column.RangeError
	if errors.As(err, &re) {
		return &GroupRangeError{Group: re.Group, Groups: re.Groups}
	}
	var te *column.TypeError
	if errors.As(err, &te) {
		return &TypeError{Type: te.Type}
	}
	return err
}
