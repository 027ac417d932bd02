package equation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodeframe/internal/equation"
)

func TestParseSimpleAddition(t *testing.T) {
	ops, err := equation.Parse("total = $price + $tax")
	require.NoError(t, err)
	require.Len(t, ops, 1)

	op := ops[0]
	assert.Equal(t, equation.OpAdd, op.Op)
	assert.True(t, op.SrcIsField)
	assert.Equal(t, "price", op.Src)
	assert.True(t, op.OperandIsField)
	assert.Equal(t, "tax", op.Operand)
	assert.Equal(t, "total", op.Dest)
}

func TestParseRespectsPrecedence(t *testing.T) {
	ops, err := equation.Parse("total = $a + $b * $c")
	require.NoError(t, err)
	require.Len(t, ops, 2)

	// First op must be the multiplication (higher precedence).
	assert.Equal(t, equation.OpMul, ops[0].Op)
	assert.Equal(t, equation.OpAdd, ops[1].Op)
	assert.Equal(t, "total", ops[1].Dest)
}

func TestParseHandlesParensAndUnaryMinus(t *testing.T) {
	ops, err := equation.Parse("out = -($a + $b)")
	require.NoError(t, err)
	require.NotEmpty(t, ops)
	assert.Equal(t, "out", ops[len(ops)-1].Dest)
}

func TestParseRejectsMissingEquals(t *testing.T) {
	_, err := equation.Parse("$a + $b")
	assert.Error(t, err)
}

func TestReconstructRoundTripsSimpleEquation(t *testing.T) {
	ops, err := equation.Parse("total = $price + $tax")
	require.NoError(t, err)

	out, err := equation.Reconstruct(ops)
	require.NoError(t, err)
	assert.Equal(t, "total = $price + $tax", out)
}

func TestReconstructDoesNotWrapLeafOperands(t *testing.T) {
	ops, err := equation.Parse("total = $a + $b * $c")
	require.NoError(t, err)

	out, err := equation.Reconstruct(ops)
	require.NoError(t, err)
	assert.Equal(t, "total = $a + $b * $c", out)
	assert.NotContains(t, out, "(")
}

func TestReconstructParenthesizesLooserChildOnRight(t *testing.T) {
	ops, err := equation.Parse("total = $a * ($b + $c)")
	require.NoError(t, err)

	out, err := equation.Reconstruct(ops)
	require.NoError(t, err)
	assert.Equal(t, "total = $a * ($b + $c)", out)
}

func TestReconstructKeepsParensForRightAssociativeSubtraction(t *testing.T) {
	ops, err := equation.Parse("total = $a - ($b - $c)")
	require.NoError(t, err)

	out, err := equation.Reconstruct(ops)
	require.NoError(t, err)
	assert.Equal(t, "total = $a - ($b - $c)", out)
}
