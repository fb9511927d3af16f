package rextract

import (
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/kolkov/rextract/internal/pattern"
)

// Config holds options for a single extraction.
type Config struct {
	// Allocator is used for the output column.
	// If nil, memory.DefaultAllocator is used.
	Allocator memory.Allocator

	// EmptyOnNoMatch makes rows that do not match, or whose group did not
	// participate in the match, produce "" instead of null.
	// This mirrors Spark's regexp_extract. Null input rows stay null.
	EmptyOnNoMatch bool

	// Parallel is the number of workers used for one column.
	// Values <= 1 extract sequentially.
	Parallel int

	// ChunkRows is the number of rows per worker chunk when Parallel > 1.
	// Default: the column split evenly across workers, at most 65536 rows
	// per chunk.
	ChunkRows int
}

// applyDefaults fills in default values for unset Config fields.
func (c *Config) applyDefaults() {
	if c.Allocator == nil {
		c.Allocator = memory.DefaultAllocator
	}
	if c.Parallel < 1 {
		c.Parallel = 1
	}
}

// Engine selects the regular expression implementation.
type Engine = pattern.Engine

const (
	// EngineGo matches with the standard library regexp package.
	// This is the default.
	EngineGo = pattern.EngineGo

	// EngineRE2 matches with RE2 via github.com/wasilibs/go-re2. It has a
	// higher fixed cost per row and pays off on long rows and patterns
	// with many alternations.
	EngineRE2 = pattern.EngineRE2
)

// CompileConfig selects how patterns are compiled.
// The zero value is leftmost-first matching with EngineGo.
type CompileConfig struct {
	// Engine is the regular expression implementation.
	Engine Engine

	// Longest selects leftmost-longest (POSIX) matching instead of
	// leftmost-first.
	Longest bool
}

func (c *CompileConfig) internal() pattern.Config {
	if c == nil {
		return pattern.Config{}
	}
	return pattern.Config{
		Engine:  c.Engine,
		Longest: c.Longest,
	}
}
