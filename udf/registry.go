// Package udf exposes rextract as scalar functions over Arrow compute
// datums, the calling convention of Arrow-based query engines.
//
// Functions have a fixed Signature and are registered by name in a
// Registry:
//
//	reg := udf.NewRegistry()
//	reg.MustRegister(udf.NewRegexpExtract(&udf.RegexpExtractConfig{
//	    Cache: rextract.NewCache(128, nil),
//	}))
//
//	out, err := reg.Call(ctx, "regexp_extract",
//	    compute.NewDatum(column),
//	    compute.NewDatum(scalar.NewStringScalar(`([a-z]+)(\d+)`)),
//	    compute.NewDatum(scalar.NewUint32Scalar(1)))
package udf

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/apache/arrow-go/v18/arrow/compute"
)

// Function is a scalar function callable through a Registry.
type Function interface {
	// Name is the name the function is registered under.
	Name() string
	// Signature describes the accepted arguments.
	Signature() Signature
	// Invoke checks args against Signature and runs the function. The
	// caller owns the returned datum.
	Invoke(ctx context.Context, args []compute.Datum) (compute.Datum, error)
}

// Registry maps case-insensitive names to functions.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Function
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Function)}
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds fn. It fails if the name is empty or already taken.
func (r *Registry) Register(fn Function) error {
	name := normalize(fn.Name())
	if name == "" {
		return fmt.Errorf("register: empty function name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.funcs[name]; ok {
		return fmt.Errorf("register %s: %w", name, ErrDuplicateFunction)
	}
	r.funcs[name] = fn
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(fns ...Function) {
	for _, fn := range fns {
		if err := r.Register(fn); err != nil {
			panic(err)
		}
	}
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (Function, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[normalize(name)]
	return fn, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Call invokes the function registered under name. Argument errors come
// from the function itself so that it can record them.
func (r *Registry) Call(ctx context.Context, name string, args ...compute.Datum) (compute.Datum, error) {
	fn, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownFunction)
	}
	return fn.Invoke(ctx, args)
}
