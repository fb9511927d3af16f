// Package pattern compiles regular expressions into reusable matchers
// for capture-group extraction.
package pattern

import (
	"fmt"
	"regexp"

	"github.com/wasilibs/go-re2"
)

// Engine selects the regular expression implementation.
type Engine uint8

const (
	// EngineGo matches with the standard library regexp package.
	EngineGo Engine = iota
	// EngineRE2 matches with RE2 through github.com/wasilibs/go-re2.
	// It pays a fixed cost per call and wins on long inputs and large
	// alternations.
	EngineRE2
)

func (e Engine) String() string {
	switch e {
	case EngineGo:
		return "go"
	case EngineRE2:
		return "re2"
	}
	return fmt.Sprintf("Engine(%d)", uint8(e))
}

// Config controls how patterns are compiled.
// The zero value is leftmost-first matching with EngineGo.
type Config struct {
	Engine Engine

	// Longest selects leftmost-longest (POSIX) matching instead of
	// leftmost-first.
	Longest bool
}

// matcher is the part of *regexp.Regexp and *re2.Regexp that
// extraction needs.
type matcher interface {
	NumSubexp() int
	SubexpNames() []string
	FindStringSubmatchIndex(s string) []int
}

// Regex is a compiled pattern. It is immutable once built and safe for
// concurrent use.
type Regex struct {
	pattern string
	re      matcher
	groups  int
	engine  Engine
}

// Compile compiles pattern with the default configuration.
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(pattern, Config{})
}

// CompileWithConfig compiles pattern for the configured engine.
// Syntax errors are returned as reported by the engine and no Regex is
// produced.
func CompileWithConfig(pattern string, config Config) (*Regex, error) {
	var re matcher
	switch config.Engine {
	case EngineGo:
		r, err := regexp.Compile(pattern)
		if err != nil {
			return nil, err
		}
		if config.Longest {
			r.Longest()
		}
		re = r
	case EngineRE2:
		r, err := re2.Compile(pattern)
		if err != nil {
			return nil, err
		}
		if config.Longest {
			r.Longest()
		}
		re = r
	default:
		return nil, fmt.Errorf("unknown engine %s", config.Engine)
	}

	return &Regex{
		pattern: pattern,
		re:      re,
		groups:  re.NumSubexp(),
		engine:  config.Engine,
	}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return re
}

// Pattern returns the original pattern string.
func (r *Regex) Pattern() string {
	return r.pattern
}

func (r *Regex) String() string {
	return r.pattern
}

// Engine reports which engine the pattern was compiled for.
func (r *Regex) Engine() Engine {
	return r.engine
}

// Groups returns the number of capturing groups. Group 0, the whole
// match, is not counted.
func (r *Regex) Groups() int {
	return r.groups
}

// Names returns the capture group names; names[0] is always "".
// The slice is shared and must not be modified.
func (r *Regex) Names() []string {
	return r.re.SubexpNames()
}

// GroupIndex finds the leftmost match in s and returns the byte offsets of
// the given group. ok is false when there is no match, when the group did
// not take part in the match, or when group is out of range.
//
// Offsets are only returned when 0 <= start <= end <= len(s); anything
// else the engine reports is treated as a group that did not participate.
func (r *Regex) GroupIndex(s string, group int) (start, end int, ok bool) {
	if group < 0 || group > r.groups {
		return 0, 0, false
	}
	loc := r.re.FindStringSubmatchIndex(s)
	if 2*group+1 >= len(loc) {
		return 0, 0, false
	}
	start, end = loc[2*group], loc[2*group+1]
	if start < 0 || start > end || end > len(s) {
		return 0, 0, false
	}
	return start, end, true
}

// Group returns the text of the given group in the leftmost match of s.
// The result aliases s.
func (r *Regex) Group(s string, group int) (string, bool) {
	start, end, ok := r.GroupIndex(s, group)
	if !ok {
		return "", false
	}
	return s[start:end], true
}
