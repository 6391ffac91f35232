// Package ast defines the immutable logical expression tree the parser
// produces and the binder annotates: Literal and ColumnRef leaves,
// Expression interior nodes tagged with a closed operator enumeration,
// and the Query node that ties a statement's clauses together.
package ast

import "fmt"

// OpTag is the closed enumeration of expression operators.
type OpTag int

const (
	OpInvalid OpTag = iota

	// arithmetic
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg
	OpBitNot
	OpBitAnd
	OpBitOr
	OpBitXor
	OpConcat

	// comparison
	OpEq
	OpNeq
	OpGt
	OpGte
	OpLt
	OpLte

	// logical
	OpAnd
	OpOr
	OpNot

	// null tests
	OpIsNull
	OpIsNotNull

	// set membership
	OpIn
	OpNotIn

	// range
	OpBetween
	OpNotBetween

	// pattern
	OpLike
	OpNotLike

	// marker
	OpDistinct

	// opaque
	OpFunction
)

var opNames = map[OpTag]string{
	OpAdd: "ADD", OpSub: "SUB", OpMul: "MUL", OpDiv: "DIV", OpMod: "MOD",
	OpNeg: "NEG", OpBitNot: "BITNOT", OpBitAnd: "BITAND", OpBitOr: "BITOR",
	OpBitXor: "BITXOR", OpConcat: "CONCAT",
	OpEq: "EQ", OpNeq: "NEQ", OpGt: "GT", OpGte: "GTE", OpLt: "LT", OpLte: "LTE",
	OpAnd: "AND", OpOr: "OR", OpNot: "NOT",
	OpIsNull: "IS_NULL", OpIsNotNull: "IS_NOT_NULL",
	OpIn: "IN", OpNotIn: "NOT_IN",
	OpBetween: "BETWEEN", OpNotBetween: "NOT_BETWEEN",
	OpLike: "LIKE", OpNotLike: "NOT_LIKE",
	OpDistinct: "DISTINCT",
	OpFunction: "FUNCTION",
}

func (t OpTag) String() string {
	if s, ok := opNames[t]; ok {
		return s
	}
	return "INVALID"
}

// SortOrder is ASC or DESC.
type SortOrder int

const (
	Asc SortOrder = iota
	Desc
)

func (s SortOrder) String() string {
	if s == Desc {
		return "DESC"
	}
	return "ASC"
}

// Node is any of Literal, ColumnRef or Expression: the query base type
// appearing as a SELECT entry, a WHERE/HAVING predicate, a GROUP BY key
// or an ORDER BY key.
type Node interface {
	fmt.Stringer
	HasAlias() bool
	Alias() string
	SetAlias(string)
	isNode()
}

// Literal is a constant value. Value is an untyped Go scalar (nil, bool,
// int64, float64, string) resolved to a column.Value only once the
// vectorized evaluator runs; the AST layer stays data-model-agnostic so
// the parser does not need to import the column package.
type Literal struct {
	Value interface{}
	alias string
}

func NewLiteral(value interface{}) *Literal { return &Literal{Value: value} }

func (l *Literal) isNode()            {}
func (l *Literal) HasAlias() bool     { return l.alias != "" }
func (l *Literal) Alias() string      { return l.alias }
func (l *Literal) SetAlias(a string)  { l.alias = a }
func (l *Literal) String() string     { return fmt.Sprintf("Literal(%v)", l.Value) }

func (l *Literal) Equal(o Node) bool {
	other, ok := o.(*Literal)
	if !ok {
		return false
	}
	return l.Value == other.Value
}

// ColumnRef references a schema field by name; equality is by name.
type ColumnRef struct {
	Name  string
	alias string
}

func NewColumnRef(name string) *ColumnRef { return &ColumnRef{Name: name} }

func (c *ColumnRef) isNode()           {}
func (c *ColumnRef) HasAlias() bool    { return c.alias != "" }
func (c *ColumnRef) Alias() string {
	if c.alias != "" {
		return c.alias
	}
	return c.Name
}
func (c *ColumnRef) SetAlias(a string) { c.alias = a }
func (c *ColumnRef) String() string    { return fmt.Sprintf("Column(%s)", c.Name) }

func (c *ColumnRef) Equal(o Node) bool {
	other, ok := o.(*ColumnRef)
	if !ok {
		return false
	}
	return c.Name == other.Name
}

// Expression is an interior AST node: either a standard operator
// (arithmetic/comparison/logical/...) or an opaque function call, carrying
// positional arguments which are themselves Nodes.
type Expression struct {
	Op           OpTag
	Args         []Node
	FunctionName string // set only when Op == OpFunction
	alias        string
	sharedID     string
}

func NewExpression(op OpTag, args ...Node) *Expression {
	return &Expression{Op: op, Args: args}
}

func NewFunctionCall(name string, args ...Node) *Expression {
	return &Expression{Op: OpFunction, FunctionName: name, Args: args}
}

func (e *Expression) isNode()        {}
func (e *Expression) HasAlias() bool { return e.alias != "" }
func (e *Expression) Alias() string {
	if e.alias != "" {
		return e.alias
	}
	if e.Op == OpFunction {
		return e.FunctionName
	}
	return ""
}
func (e *Expression) SetAlias(a string) { e.alias = a }

func (e *Expression) String() string {
	if e.Op == OpFunction {
		return fmt.Sprintf("Function(%s, %v)", e.FunctionName, e.Args)
	}
	return fmt.Sprintf("Expr(%s, %v)", e.Op, e.Args)
}

// IsShared reports whether this node has been stamped with a shared
// subexpression identifier by the binder.
func (e *Expression) IsShared() bool { return e.sharedID != "" }

func (e *Expression) SharedID() string { return e.sharedID }

func (e *Expression) SetSharedID(id string) { e.sharedID = id }

// SetArgs replaces the expression's argument list in place (used by the
// binder's alias substitution and the planner's aggregate-argument
// rewriting).
func (e *Expression) SetArgs(args []Node) { e.Args = args }

// Copy returns a shallow copy of the expression: same operator, function
// name, alias, shared id and argument slice (arguments themselves are not
// deep-copied; the binder only needs a fresh top-level node so that
// stamping its shared id doesn't mutate the original SELECT entry).
func (e *Expression) Copy() *Expression {
	args := make([]Node, len(e.Args))
	copy(args, e.Args)
	return &Expression{
		Op:           e.Op,
		Args:         args,
		FunctionName: e.FunctionName,
		alias:        e.alias,
		sharedID:     e.sharedID,
	}
}

// Equal reports structural equality: same op tag, same function name,
// positionally-equal arguments.
func (e *Expression) Equal(o Node) bool {
	other, ok := o.(*Expression)
	if !ok {
		return false
	}
	if e.Op != other.Op || e.FunctionName != other.FunctionName {
		return false
	}
	if len(e.Args) != len(other.Args) {
		return false
	}
	for i := range e.Args {
		if !Equal(e.Args[i], other.Args[i]) {
			return false
		}
	}
	return true
}

// Equal performs structural equality between any two Nodes, dispatching
// to the concrete type's Equal method.
func Equal(a, b Node) bool {
	switch av := a.(type) {
	case *Literal:
		return av.Equal(b)
	case *ColumnRef:
		return av.Equal(b)
	case *Expression:
		return av.Equal(b)
	default:
		return false
	}
}
