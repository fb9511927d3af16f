package udf

import (
	"fmt"
	"slices"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/compute"
)

// Shape says whether a parameter takes a column or a constant.
type Shape int

const (
	// ShapeArray accepts an array or a chunked array.
	ShapeArray Shape = iota
	// ShapeScalar accepts only a scalar, constant for the whole call.
	ShapeScalar
)

func (s Shape) String() string {
	switch s {
	case ShapeArray:
		return "array"
	case ShapeScalar:
		return "scalar"
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// Param describes one positional parameter.
type Param struct {
	Name  string
	Shape Shape
	Types []arrow.Type // accepted Arrow type IDs
}

func (p Param) accepts(id arrow.Type) bool {
	return slices.Contains(p.Types, id)
}

// Signature is the fixed calling contract of a scalar function.
type Signature struct {
	Params []Param

	// ResultOf is the index of the parameter whose type the result takes.
	ResultOf int

	// Deterministic reports that equal arguments always give equal results.
	Deterministic bool
}

// String renders the signature as name(param shape<types>, ...).
func (s Signature) String() string {
	parts := make([]string, len(s.Params))
	for i, p := range s.Params {
		types := make([]string, len(p.Types))
		for j, t := range p.Types {
			types[j] = strings.ToLower(t.String())
		}
		parts[i] = fmt.Sprintf("%s %s<%s>", p.Name, p.Shape, strings.Join(types, "|"))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// ResultType returns the result type for the given argument types.
func (s Signature) ResultType(args []arrow.DataType) (arrow.DataType, error) {
	if s.ResultOf < 0 || s.ResultOf >= len(args) {
		return nil, fmt.Errorf("result parameter %d out of range for %d arguments", s.ResultOf, len(args))
	}
	return args[s.ResultOf], nil
}

// Check verifies args against the signature. Wrong arity or types give a
// *SignatureError; per-row values for a scalar parameter give a
// *DynamicArgumentError.
func (s Signature) Check(function string, args []compute.Datum) error {
	if len(args) != len(s.Params) {
		return &SignatureError{
			Function: function,
			Message:  fmt.Sprintf("got %d arguments, want %d %s", len(args), len(s.Params), s),
		}
	}

	for i, p := range s.Params {
		shape, dt, ok := datumShape(args[i])
		if !ok {
			return &SignatureError{
				Function: function,
				Message:  fmt.Sprintf("argument %d (%s): unsupported datum %v", i+1, p.Name, args[i]),
			}
		}
		if shape != p.Shape {
			if p.Shape == ShapeScalar {
				return &DynamicArgumentError{Function: function, Param: p.Name}
			}
			return &SignatureError{
				Function: function,
				Message:  fmt.Sprintf("argument %d (%s): got %s, want %s", i+1, p.Name, shape, p.Shape),
			}
		}
		if !p.accepts(dt.ID()) {
			return &SignatureError{
				Function: function,
				Message:  fmt.Sprintf("argument %d (%s): unsupported type %s", i+1, p.Name, dt),
			}
		}
	}
	return nil
}

// datumShape classifies a datum. ok is false for kinds a scalar function
// cannot take, such as records and tables.
func datumShape(d compute.Datum) (Shape, arrow.DataType, bool) {
	switch v := d.(type) {
	case *compute.ArrayDatum:
		return ShapeArray, v.Value.DataType(), true
	case *compute.ChunkedDatum:
		return ShapeArray, v.Value.DataType(), true
	case *compute.ScalarDatum:
		return ShapeScalar, v.Value.DataType(), true
	}
	return 0, nil, false
}

// Datum type IDs shared by the functions in this package.
var (
	stringTypes  = []arrow.Type{arrow.STRING, arrow.LARGE_STRING}
	integerTypes = []arrow.Type{
		arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64,
	}
)
