// Package udf exposes the public surface for registering user-defined
// functions into the shared function catalog: RegisterScalar for
// value-at-a-time kernels, RegisterVector for whole-column kernels.
// Registration is case-insensitive and last-write-wins, mirroring the
// reference registry.
package udf

import (
	"github.com/dmitrykoval/govinum/column"
	"github.com/dmitrykoval/govinum/function"
)

// RegisterScalar registers a value-at-a-time function under name. arity
// is the number of arguments the function accepts, or -1 for variadic
// (at least one argument).
func RegisterScalar(name string, arity int, fn func(args []column.Value) (column.Value, error)) {
	function.Default.Register(function.Descriptor{
		Name: name, Kind: function.KindScalar, Arity: arity, Scalar: fn,
	})
}

// RegisterVector registers a whole-column function under name.
func RegisterVector(name string, arity int, fn func(args []column.Column) (column.Column, error)) {
	function.Default.Register(function.Descriptor{
		Name: name, Kind: function.KindVector, Arity: arity, Vector: fn,
	})
}

// Remove deletes a previously registered UDF, or a built-in, from the
// catalog by name. No-op if the name was never registered.
func Remove(name string) {
	function.Default.Remove(name)
}
