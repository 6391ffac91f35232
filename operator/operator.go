// Package operator implements the pull-based (Volcano-style) physical
// execution operators the planner wires into a pipeline: each one pulls
// column.Batch values from its parent(s), one call to Next at a time,
// and returns io.EOF once exhausted.
package operator

import "github.com/dmitrykoval/govinum/column"

// Operator is the execution-time contract every physical node satisfies.
// Next returns io.EOF (with a nil batch) once the operator is exhausted;
// callers must not call Next again afterward. Close releases any
// resources held by the operator and its parents.
type Operator interface {
	Next() (*column.Batch, error)
	Close() error
	Schema() column.Schema
}
