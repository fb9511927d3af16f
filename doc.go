// Package rextract extracts regular expression capture groups from Apache
// Arrow string columns.
//
// Given a utf8 or large_utf8 column, a pattern and a group index, rextract
// produces a column of the same type and length where each row holds the
// text captured by that group, or null when the input row is null, the
// pattern does not match, or the group did not take part in the match.
// Patterns use RE2 syntax. They are matched with the standard library
// regexp package by default, or with RE2 itself (see [CompileConfig]).
//
// # Quick Start
//
// For one-off extraction:
//
//	out, err := rextract.ExtractGroups(col, `([a-z]+)(\d+)`, 1)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer out.Release()
//
// # Compiled Matchers
//
// The pattern is compiled once per call. To reuse it across batches:
//
//	m, err := rextract.Compile(`(\w+)@(\w+)\.com`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, batch := range batches {
//	    out, err := m.Extract(batch, 2, nil)
//	    // ...
//	}
//
// A [Cache] keeps compiled matchers keyed by pattern text for callers that
// see the same patterns repeatedly, such as a query engine.
//
// # Group Indexes
//
// Group 0 is the whole match and capturing groups are numbered from 1 in
// the order of their opening parenthesis. Requesting a group the pattern
// does not have fails before any row is processed.
//
// # Error Handling
//
// Errors are returned as specific types:
//   - [PatternError]: the pattern is not a valid regular expression
//   - [GroupRangeError]: the group index exceeds the pattern's groups
//   - [TypeError]: the column does not hold strings
//
// Each matches a sentinel ([ErrInvalidPattern], [ErrGroupIndexOutOfRange],
// [ErrUnsupportedType]) with errors.Is. A row that does not match is not
// an error.
//
// # Query Engines
//
// Package udf exposes the operator as the regexp_extract scalar function
// over Arrow compute datums, with a small function registry.
//
// # Thread Safety
//
// [Matcher] and [Cache] are safe for concurrent use. Input columns are
// only read.
package rextract
