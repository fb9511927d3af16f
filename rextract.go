package rextract

import (
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/kolkov/rextract/internal/pattern"
)

// Version is the rextract version string.
const Version = "0.1.0"

// ExtractGroups extracts a capture group from every row of col.
// This is a convenience function for one-off extraction.
// For repeated extraction with the same pattern, use Compile followed by
// Matcher.Extract, or a Cache.
//
// Parameters:
//   - col: utf8 or large_utf8 column
//   - pattern: regular expression in RE2 syntax
//   - group: 0 for the whole match, 1..n for capturing groups
//
// Returns a new column of the same type and length. Rows are null where
// the input is null, the pattern does not match, or the group did not
// participate in the match.
//
// Example:
//
//	out, err := rextract.ExtractGroups(col, `([a-z]+)(\d+)`, 1)
//	// ["hello123", null, "abc"] -> ["hello", null, null]
func ExtractGroups(col arrow.Array, pattern string, group int) (arrow.Array, error) {
	m, err := Compile(pattern)
	if err != nil {
		return nil, err
	}
	return m.Extract(col, group, nil)
}

// Compile compiles a pattern for extraction.
// The returned Matcher can be used for any number of columns.
//
// Example:
//
//	m, err := rextract.Compile(`(\w+)@(\w+)\.com`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	domains, _ := m.Extract(emails, 2, nil)
func Compile(pattern string) (*Matcher, error) {
	return CompileWithConfig(pattern, nil)
}

// CompileWithConfig is like Compile but selects the engine and match
// semantics. A nil config is the same as Compile.
func CompileWithConfig(text string, config *CompileConfig) (*Matcher, error) {
	re, err := pattern.CompileWithConfig(text, config.internal())
	if err != nil {
		return nil, &PatternError{Pattern: text, Err: err}
	}
	return &Matcher{re: re}, nil
}

// MustCompile is like Compile but panics if the pattern cannot be compiled.
// It simplifies initialization of global matchers.
//
// Example:
//
//	var hostRe = rextract.MustCompile(`https?://([^/]+)`)
func MustCompile(pattern string) *Matcher {
	m, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return m
}
