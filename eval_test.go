package fpblast_test

import (
	"testing"

	"github.com/borzacchiello/fpblast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEval1(t *testing.T) {
	eb := fpblast.NewExprBuilder()
	a := eb.BVS("a", 32)
	b := eb.BVS("b", 32)

	interpr := map[string]*fpblast.BVConst{
		"a": fpblast.MakeBVConst(42, 32),
	}

	e, err := eb.Add(a, b)
	require.NoError(t, err)
	evaluated, err := eb.Eval(e, interpr)
	require.NoError(t, err)
	assert.Equal(t, "b + 0x2a", evaluated.String())

	release(eb, a, b, e, evaluated)
	requireBalanced(t, eb)
}

func TestEvalConst(t *testing.T) {
	eb := fpblast.NewExprBuilder()
	a := eb.BVS("a", 16)
	b := eb.BVS("b", 16)
	g := eb.BVS("g", 1)

	sum, err := eb.Add(a, b)
	require.NoError(t, err)
	hi, err := eb.Extract(sum, 15, 8)
	require.NoError(t, err)
	ext, err := eb.SExt(hi, 8)
	require.NoError(t, err)
	ite, err := eb.ITE(g, ext, sum)
	require.NoError(t, err)

	interpr := map[string]*fpblast.BVConst{
		"a": fpblast.MakeBVConst(0x7f00, 16),
		"b": fpblast.MakeBVConst(0x0100, 16),
		"g": fpblast.MakeBVConst(1, 1),
	}
	c, err := eb.EvalConst(ite, interpr)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xff80), c.AsULong())

	interpr["g"] = fpblast.MakeBVConst(0, 1)
	c, err = eb.EvalConst(ite, interpr)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x8000), c.AsULong())

	delete(interpr, "b")
	_, err = eb.EvalConst(ite, interpr)
	assert.Error(t, err)

	release(eb, a, b, g, sum, hi, ext, ite)
	requireBalanced(t, eb)
}

func TestEvalErrors(t *testing.T) {
	eb := fpblast.NewExprBuilder()
	a := eb.BVS("a", 8)
	x := eb.FPS("x", 8, 24)
	nan, err := eb.FPIsNaN(x)
	require.NoError(t, err)

	_, err = eb.Eval(a, map[string]*fpblast.BVConst{"a": fpblast.MakeBVConst(1, 16)})
	assert.Error(t, err)

	_, err = eb.Eval(nan, map[string]*fpblast.BVConst{})
	assert.Error(t, err)

	release(eb, a, x, nan)
	requireBalanced(t, eb)
}
