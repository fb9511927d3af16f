package udf

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/compute"
	"github.com/apache/arrow-go/v18/arrow/scalar"
	"github.com/chainguard-dev/clog"

	"github.com/kolkov/rextract"
)

// RegexpExtractName is the name regexp_extract is registered under.
const RegexpExtractName = "regexp_extract"

// RegexpExtractConfig configures the regexp_extract function.
type RegexpExtractConfig struct {
	// Cache holds compiled patterns across calls, keyed by pattern text.
	// If nil, each call compiles its pattern once.
	Cache *rextract.Cache

	// Metrics records calls. May be nil.
	Metrics *Metrics

	// Extract is passed to every extraction. May be nil.
	Extract *rextract.Config
}

// RegexpExtract is regexp_extract(input, pattern, group): for each row of
// input, the text of capture group `group` in the first match of pattern,
// or null. pattern and group must be constant scalars.
type RegexpExtract struct {
	cache   *rextract.Cache
	metrics *Metrics
	extract *rextract.Config
}

var regexpExtractSignature = Signature{
	Params: []Param{
		{Name: "input", Shape: ShapeArray, Types: stringTypes},
		{Name: "pattern", Shape: ShapeScalar, Types: stringTypes},
		{Name: "group", Shape: ShapeScalar, Types: integerTypes},
	},
	ResultOf:      0,
	Deterministic: true,
}

// NewRegexpExtract creates the regexp_extract function.
// If config is nil, defaults are used.
func NewRegexpExtract(config *RegexpExtractConfig) *RegexpExtract {
	if config == nil {
		config = &RegexpExtractConfig{}
	}
	return &RegexpExtract{
		cache:   config.Cache,
		metrics: config.Metrics,
		extract: config.Extract,
	}
}

// Name implements Function.
func (f *RegexpExtract) Name() string {
	return RegexpExtractName
}

// Signature implements Function.
func (f *RegexpExtract) Signature() Signature {
	return regexpExtractSignature
}

// Invoke implements Function. The result has the type and length of the
// input; chunked inputs give chunked results with the same chunk layout.
func (f *RegexpExtract) Invoke(ctx context.Context, args []compute.Datum) (compute.Datum, error) {
	out, err := f.invoke(ctx, args)
	if err != nil {
		f.metrics.observeError(RegexpExtractName, errorKind(err))
		var se *SignatureError
		var de *DynamicArgumentError
		if errors.As(err, &se) || errors.As(err, &de) {
			return nil, err
		}
		return nil, &CallError{Function: RegexpExtractName, Err: err}
	}
	return out, nil
}

func (f *RegexpExtract) invoke(ctx context.Context, args []compute.Datum) (compute.Datum, error) {
	if err := regexpExtractSignature.Check(RegexpExtractName, args); err != nil {
		return nil, err
	}

	text, ok := stringScalar(args[1].(*compute.ScalarDatum).Value)
	if !ok {
		return nil, &SignatureError{Function: RegexpExtractName, Message: "pattern must not be null"}
	}
	group, ok := intScalar(args[2].(*compute.ScalarDatum).Value)
	if !ok {
		return nil, &SignatureError{Function: RegexpExtractName, Message: "group must not be null"}
	}

	m, err := f.matcher(ctx, text)
	if err != nil {
		return nil, err
	}

	switch input := args[0].(type) {
	case *compute.ArrayDatum:
		arr := input.MakeArray()
		defer arr.Release()

		out, err := m.ExtractContext(ctx, arr, group, f.extract)
		if err != nil {
			return nil, err
		}
		defer out.Release()

		f.metrics.observeRows(RegexpExtractName, out.Len(), out.NullN())
		return compute.NewDatum(out), nil

	case *compute.ChunkedDatum:
		chunks := input.Value.Chunks()
		outs := make([]arrow.Array, 0, len(chunks))
		defer func() {
			for _, o := range outs {
				o.Release()
			}
		}()

		rows, nulls := 0, 0
		for _, chunk := range chunks {
			out, err := m.ExtractContext(ctx, chunk, group, f.extract)
			if err != nil {
				return nil, err
			}
			outs = append(outs, out)
			rows += out.Len()
			nulls += out.NullN()
		}

		result := arrow.NewChunked(input.Value.DataType(), outs)
		defer result.Release()

		f.metrics.observeRows(RegexpExtractName, rows, nulls)
		return compute.NewDatum(result), nil
	}

	// Check only lets arrays and chunked arrays through for input.
	return nil, &SignatureError{Function: RegexpExtractName, Message: fmt.Sprintf("unsupported input %v", args[0])}
}

// matcher returns the compiled pattern, from the cache when one is set.
func (f *RegexpExtract) matcher(ctx context.Context, text string) (*rextract.Matcher, error) {
	log := clog.FromContext(ctx)

	if f.cache == nil {
		m, err := rextract.Compile(text)
		if err != nil {
			return nil, err
		}
		log.Debugf("%s: compiled pattern %q (%d groups)", RegexpExtractName, text, m.Groups())
		return m, nil
	}

	m, hit, err := f.cache.Get(text)
	if err != nil {
		return nil, err
	}
	f.metrics.observeCache(RegexpExtractName, hit)
	if !hit {
		log.Debugf("%s: compiled and cached pattern %q (%d groups)", RegexpExtractName, text, m.Groups())
	}
	return m, nil
}

// stringScalar returns the value of a utf8 or large_utf8 scalar.
func stringScalar(s scalar.Scalar) (string, bool) {
	if s == nil || !s.IsValid() {
		return "", false
	}
	switch v := s.(type) {
	case *scalar.String:
		return string(v.Data()), true
	case *scalar.LargeString:
		return string(v.Data()), true
	}
	return "", false
}

// intScalar returns the value of an integer scalar as an int. Values
// outside the range of int saturate, which the group range check then
// rejects.
func intScalar(s scalar.Scalar) (int, bool) {
	if s == nil || !s.IsValid() {
		return 0, false
	}
	switch v := s.(type) {
	case *scalar.Int8:
		return int(v.Value), true
	case *scalar.Int16:
		return int(v.Value), true
	case *scalar.Int32:
		return int(v.Value), true
	case *scalar.Int64:
		return clampInt64(v.Value), true
	case *scalar.Uint8:
		return int(v.Value), true
	case *scalar.Uint16:
		return int(v.Value), true
	case *scalar.Uint32:
		return clampUint64(uint64(v.Value)), true
	case *scalar.Uint64:
		return clampUint64(v.Value), true
	}
	return 0, false
}

func clampInt64(v int64) int {
	switch {
	case v > math.MaxInt:
		return math.MaxInt
	case v < math.MinInt:
		return math.MinInt
	}
	return int(v)
}

func clampUint64(v uint64) int {
	if v > math.MaxInt {
		return math.MaxInt
	}
	return int(v)
}

// errorKind labels err for metrics.
func errorKind(err error) string {
	switch {
	case errors.Is(err, rextract.ErrInvalidPattern):
		return "invalid_pattern"
	case errors.Is(err, rextract.ErrGroupIndexOutOfRange):
		return "group_out_of_range"
	case errors.Is(err, rextract.ErrUnsupportedType):
		return "unsupported_type"
	case errors.Is(err, ErrSignatureMismatch):
		return "signature_mismatch"
	case errors.Is(err, ErrUnsupportedDynamicArguments):
		return "dynamic_arguments"
	}
	return "other"
}
