package rextract_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/google/go-cmp/cmp"

	"github.com/kolkov/rextract"
)

func str(s string) *string { return &s }

func newColumn(mem memory.Allocator, values ...*string) arrow.Array {
	b := array.NewStringBuilder(mem)
	defer b.Release()
	for _, v := range values {
		if v == nil {
			b.AppendNull()
		} else {
			b.Append(*v)
		}
	}
	return b.NewArray()
}

func readColumn(t *testing.T, arr arrow.Array) []*string {
	t.Helper()
	col, ok := arr.(*array.String)
	if !ok {
		t.Fatalf("result is %T, want *array.String", arr)
	}
	out := make([]*string, col.Len())
	for i := range out {
		if col.IsValid(i) {
			out[i] = str(col.Value(i))
		}
	}
	return out
}

func TestExtractGroups(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		group   int
		input   []*string
		want    []*string
		wantErr error
	}{
		{
			name:    "letters",
			pattern: `([a-z]+)(\d+)`,
			group:   1,
			input:   []*string{str("hello123")},
			want:    []*string{str("hello")},
		},
		{
			name:    "digits",
			pattern: `([a-z]+)(\d+)`,
			group:   2,
			input:   []*string{str("hello123")},
			want:    []*string{str("123")},
		},
		{
			name:    "null and no match",
			pattern: `(\d+)`,
			group:   1,
			input:   []*string{nil, str("abc"), str("42")},
			want:    []*string{nil, nil, str("42")},
		},
		{
			name:    "optional group did not participate",
			pattern: `(a)(b)?`,
			group:   2,
			input:   []*string{str("a")},
			want:    []*string{nil},
		},
		{
			name:    "whole match",
			pattern: `([a-z]+)(\d+)`,
			group:   0,
			input:   []*string{str("hello123"), str("world456"), nil},
			want:    []*string{str("hello123"), str("world456"), nil},
		},
		{
			name:    "invalid pattern",
			pattern: `(a`,
			group:   1,
			input:   []*string{str("a")},
			wantErr: rextract.ErrInvalidPattern,
		},
		{
			name:    "invalid pattern on empty column",
			pattern: `(a`,
			group:   0,
			input:   []*string{},
			wantErr: rextract.ErrInvalidPattern,
		},
		{
			name:    "group out of range",
			pattern: `(a)`,
			group:   5,
			input:   []*string{str("a")},
			wantErr: rextract.ErrGroupIndexOutOfRange,
		},
		{
			name:    "group out of range on empty column",
			pattern: `(a)`,
			group:   2,
			input:   []*string{},
			wantErr: rextract.ErrGroupIndexOutOfRange,
		},
		{
			name:    "negative group",
			pattern: `(a)`,
			group:   -1,
			input:   []*string{str("a")},
			wantErr: rextract.ErrGroupIndexOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
			defer mem.AssertSize(t, 0)

			in := newColumn(mem, tt.input...)
			defer in.Release()

			m, err := rextract.Compile(tt.pattern)
			if err == nil {
				var out arrow.Array
				out, err = m.Extract(in, tt.group, &rextract.Config{Allocator: mem})
				if out != nil {
					defer out.Release()
					if tt.wantErr == nil {
						if diff := cmp.Diff(tt.want, readColumn(t, out)); diff != "" {
							t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
						}
					}
				}
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestExtractGroupsConvenience(t *testing.T) {
	in := newColumn(memory.DefaultAllocator, str("k=v"), nil)
	defer in.Release()

	out, err := rextract.ExtractGroups(in, `(\w+)=(\w+)`, 1)
	if err != nil {
		t.Fatalf("ExtractGroups: %v", err)
	}
	defer out.Release()

	if diff := cmp.Diff([]*string{str("k"), nil}, readColumn(t, out)); diff != "" {
		t.Errorf("ExtractGroups() mismatch (-want +got):\n%s", diff)
	}

	if _, err := rextract.ExtractGroups(in, `(`, 0); !errors.Is(err, rextract.ErrInvalidPattern) {
		t.Errorf("ExtractGroups with bad pattern error = %v", err)
	}
}

func TestPatternError(t *testing.T) {
	_, err := rextract.Compile(`(a`)
	pe, ok := rextract.IsInvalidPattern(err)
	if !ok {
		t.Fatalf("Compile error = %v, want *PatternError", err)
	}
	if pe.Pattern != `(a` {
		t.Errorf("Pattern = %q", pe.Pattern)
	}
	if pe.Unwrap() == nil {
		t.Error("PatternError has no cause")
	}
	if errors.Is(err, rextract.ErrGroupIndexOutOfRange) {
		t.Error("PatternError matched ErrGroupIndexOutOfRange")
	}
}

func TestGroupRangeError(t *testing.T) {
	in := newColumn(memory.DefaultAllocator, str("a"))
	defer in.Release()

	_, err := rextract.MustCompile(`(a)(b)?`).Extract(in, 3, nil)
	var gre *rextract.GroupRangeError
	if !errors.As(err, &gre) {
		t.Fatalf("error = %v, want *GroupRangeError", err)
	}
	if gre.Group != 3 || gre.Groups != 2 {
		t.Errorf("GroupRangeError = %+v, want Group 3 Groups 2", gre)
	}
}

func TestUnsupportedType(t *testing.T) {
	b := array.NewInt32Builder(memory.DefaultAllocator)
	defer b.Release()
	b.AppendValues([]int32{1, 2}, nil)
	ints := b.NewArray()
	defer ints.Release()

	_, err := rextract.MustCompile(`(\d)`).Extract(ints, 1, nil)
	if !errors.Is(err, rextract.ErrUnsupportedType) {
		t.Fatalf("error = %v, want ErrUnsupportedType", err)
	}
}

func TestEmptyOnNoMatch(t *testing.T) {
	in := newColumn(memory.DefaultAllocator, str("foo"), nil, str("x1"))
	defer in.Release()

	out, err := rextract.MustCompile(`(\d+)`).Extract(in, 1, &rextract.Config{EmptyOnNoMatch: true})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	defer out.Release()

	want := []*string{str(""), nil, str("1")}
	if diff := cmp.Diff(want, readColumn(t, out)); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	values := make([]*string, 5000)
	for i := range values {
		if i%7 == 0 {
			continue
		}
		values[i] = str(fmt.Sprintf("id=%d;name=n%d", i, i%3))
	}
	in := newColumn(mem, values...)
	defer in.Release()

	m := rextract.MustCompile(`id=(\d+);name=(\w+)`)
	seq, err := m.Extract(in, 1, &rextract.Config{Allocator: mem})
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}
	defer seq.Release()

	par, err := m.Extract(in, 1, &rextract.Config{Allocator: mem, Parallel: 4, ChunkRows: 256})
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}
	defer par.Release()

	if diff := cmp.Diff(readColumn(t, seq), readColumn(t, par)); diff != "" {
		t.Errorf("parallel mismatch (-seq +par):\n%s", diff)
	}
}

func TestMatcherConcurrentUse(t *testing.T) {
	m := rextract.MustCompile(`([a-z]+)(\d+)`)
	in := newColumn(memory.DefaultAllocator, str("abc1"), str("def2"), nil)
	defer in.Release()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := m.Extract(in, 2, nil)
			if err != nil {
				t.Errorf("Extract: %v", err)
				return
			}
			defer out.Release()
			if out.Len() != 3 || !out.IsNull(2) {
				t.Errorf("unexpected result %v", out)
			}
		}()
	}
	wg.Wait()
}

func TestMatcherAccessors(t *testing.T) {
	m := rextract.MustCompile(`(?P<user>\w+)@(\w+)`)
	if m.Groups() != 2 {
		t.Errorf("Groups() = %d, want 2", m.Groups())
	}
	if m.Pattern() != `(?P<user>\w+)@(\w+)` || m.String() != m.Pattern() {
		t.Errorf("Pattern() = %q, String() = %q", m.Pattern(), m.String())
	}
	if names := m.GroupNames(); len(names) != 3 || names[1] != "user" {
		t.Errorf("GroupNames() = %q", names)
	}
	if got, ok := m.Match("mail bob@example", 2); !ok || got != "example" {
		t.Errorf("Match = %q, %v", got, ok)
	}
}

func TestCompileWithConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  *rextract.CompileConfig
		pattern string
		input   string
		want    string
	}{
		{"default", nil, `(\d+)`, "ab 12", "12"},
		{"re2", &rextract.CompileConfig{Engine: rextract.EngineRE2}, `(\d+)`, "ab 12", "12"},
		{"leftmost first", &rextract.CompileConfig{}, `(a|ab)(c|bcd)?`, "ab", "a"},
		{"leftmost longest", &rextract.CompileConfig{Longest: true}, `(a|ab)(c|bcd)?`, "ab", "ab"},
		{"re2 leftmost longest", &rextract.CompileConfig{Engine: rextract.EngineRE2, Longest: true}, `(a|ab)(c|bcd)?`, "ab", "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := rextract.CompileWithConfig(tt.pattern, tt.config)
			if err != nil {
				t.Fatalf("CompileWithConfig: %v", err)
			}
			if got, ok := m.Match(tt.input, 1); !ok || got != tt.want {
				t.Errorf("Match = %q, %v, want %q", got, ok, tt.want)
			}
		})
	}

	for _, engine := range []rextract.Engine{rextract.EngineGo, rextract.EngineRE2} {
		if _, err := rextract.CompileWithConfig(`[`, &rextract.CompileConfig{Engine: engine}); !errors.Is(err, rextract.ErrInvalidPattern) {
			t.Errorf("%s: CompileWithConfig error = %v", engine, err)
		}
	}
}

func TestMustCompile(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustCompile() should panic on invalid pattern")
		}
	}()
	_ = rextract.MustCompile(`(a`)
}

func TestCache(t *testing.T) {
	cache := rextract.NewCache(2, nil)

	m1, cached, err := cache.Get(`(a)`)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cached {
		t.Fatal("empty cache reported a hit")
	}
	m2, cached, err := cache.Get(`(a)`)
	if err != nil || !cached {
		t.Fatalf("second Get = %v, %v, want a hit", cached, err)
	}
	if m1.Pattern() != m2.Pattern() || m1.Groups() != m2.Groups() {
		t.Error("cached matcher differs")
	}

	if _, _, err := cache.Get(`(b`); !errors.Is(err, rextract.ErrInvalidPattern) {
		t.Errorf("Get invalid error = %v", err)
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}

	for _, p := range []string{`(b)`, `(c)`} {
		if _, _, err := cache.Get(p); err != nil {
			t.Fatalf("Get(%q): %v", p, err)
		}
	}
	if cache.Len() != 2 {
		t.Errorf("Len() = %d, want 2", cache.Len())
	}
	if _, cached, _ := cache.Get(`(a)`); cached {
		t.Error("oldest entry was not evicted")
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Len() after Clear = %d", cache.Len())
	}
}

func TestCacheEngine(t *testing.T) {
	cache := rextract.NewCache(0, &rextract.CompileConfig{Engine: rextract.EngineRE2})
	m, _, err := cache.Get(`([a-z]+)=(\d+)`)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got, ok := m.Match("x key=42", 2); !ok || got != "42" {
		t.Errorf("Match = %q, %v", got, ok)
	}
}
