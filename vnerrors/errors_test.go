package vnerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParserErrorFormatsMessage(t *testing.T) {
	err := NewParserError("column '%s' is not found", "age")
	assert.EqualError(t, err, "column 'age' is not found")

	var target *ParserError
	assert.True(t, errors.As(err, &target))
}

func TestDistinctErrorKindsDoNotMatchEachOther(t *testing.T) {
	var perr *ParserError
	fnErr := NewFunctionError("unknown function %s", "foo")
	assert.False(t, errors.As(fnErr, &perr))
}

func TestEachConstructorProducesItsOwnType(t *testing.T) {
	cases := []error{
		NewParserError("x"),
		NewPlannerError("x"),
		NewFunctionError("x"),
		NewOperatorError("x"),
		NewExecutorError("x"),
	}
	for _, err := range cases {
		assert.Equal(t, "x", err.Error())
	}
}
