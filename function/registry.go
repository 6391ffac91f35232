// Package function implements the name -> kernel catalog the vectorized
// evaluator and the aggregate operators consult to resolve a function
// call to executable Go code: built-in scalar/vector kernels, the
// aggregate function set, and user-registered scalar/vector UDFs.
package function

import (
	"strings"
	"sync"

	"github.com/dmitrykoval/govinum/column"
	"github.com/dmitrykoval/govinum/vnerrors"
)

// Kind distinguishes how a kernel is invoked by the evaluator.
type Kind int

const (
	KindScalar Kind = iota
	KindVector
	KindAggregate
)

// ScalarKernel operates value-by-value; the evaluator broadcasts it
// across a column when wrapped by Vectorize.
type ScalarKernel func(args []column.Value) (column.Value, error)

// VectorKernel operates on whole columns directly, for functions whose
// implementation is naturally columnar. The built-in kernels are all
// scalar; vector kernels are registered through udf.RegisterVector.
type VectorKernel func(args []column.Column) (column.Column, error)

// Descriptor describes one catalog entry.
type Descriptor struct {
	Name   string
	Kind   Kind
	Arity  int // -1 means variadic (>=1 arg)
	Scalar ScalarKernel
	Vector VectorKernel
}

// Registry is a name -> Descriptor catalog. Names are matched
// case-insensitively; later registrations for the same name replace
// earlier ones (last-write-wins), matching the reference UDF registry.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Descriptor
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Descriptor)}
}

func normalizeName(name string) string { return strings.ToLower(name) }

// Register adds or replaces a catalog entry.
func (r *Registry) Register(d Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d.Name = normalizeName(d.Name)
	r.entries[d.Name] = d
}

// Remove deletes a catalog entry by name, a no-op if absent.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, normalizeName(name))
}

// Lookup resolves a function name to its descriptor.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.entries[normalizeName(name)]
	return d, ok
}

// IsAggregate reports whether name resolves to an aggregate function.
func (r *Registry) IsAggregate(name string) bool {
	d, ok := r.Lookup(name)
	return ok && d.Kind == KindAggregate
}

// Default is the process-wide catalog: built-ins plus whatever has been
// registered through the udf package. Built from one place so the
// binder (is_aggregate detection), the vectorized evaluator and the
// aggregate operators all observe the same resolution order.
var Default = newDefaultRegistry()

func newDefaultRegistry() *Registry {
	r := NewRegistry()
	registerMathKernels(r)
	registerCastKernels(r)
	registerStringKernels(r)
	registerDatetimeKernels(r)
	registerAggregateKernels(r)
	return r
}

// Resolve implements the catalog's documented precedence: aggregate
// functions first, then user-defined functions, then built-ins, then the
// namespaced vector library (np.*). UDFs and built-ins share one
// Registry (UDF registration simply overwrites a built-in of the same
// name), so in practice this reduces to: try the namespaced resolver
// first for "np."-prefixed names, else a single registry lookup.
func Resolve(name string) (Descriptor, error) {
	if d, ok := resolveNamespaced(name); ok {
		return d, nil
	}
	if d, ok := Default.Lookup(name); ok {
		return d, nil
	}
	return Descriptor{}, vnerrors.NewFunctionError("Function '%s' is not found.", name)
}
