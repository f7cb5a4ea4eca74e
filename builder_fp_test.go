package fpblast_test

import (
	"testing"

	"github.com/borzacchiello/fpblast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundingModeNames(t *testing.T) {
	for _, c := range []struct {
		in   string
		want fpblast.RoundingMode
	}{
		{"RNE", fpblast.RNE},
		{"rna", fpblast.RNA},
		{"roundTowardNegative", fpblast.RTN},
		{"RTP", fpblast.RTP},
		{"roundTowardZero", fpblast.RTZ},
	} {
		rm, err := fpblast.ParseRoundingMode(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, rm)
	}

	_, err := fpblast.ParseRoundingMode("nearest")
	assert.Error(t, err)

	assert.Equal(t, "RTZ", fpblast.RTZ.String())
	assert.Equal(t, "RM(7)", fpblast.RoundingMode(7).String())
}

func TestRMV(t *testing.T) {
	eb := fpblast.NewExprBuilder()
	r1 := eb.RMV(fpblast.RTP)
	r2 := eb.RMV(fpblast.RTP)
	assert.Same(t, r1, r2)
	assert.True(t, r1.IsRM())
	assert.Equal(t, "RTP", r1.String())

	rm, err := r1.RoundingMode()
	require.NoError(t, err)
	assert.Equal(t, fpblast.RTP, rm)

	sym := eb.RMS("r")
	_, err = sym.RoundingMode()
	assert.Error(t, err)

	assert.Panics(t, func() { eb.RMV(fpblast.RM_MAX) })

	release(eb, r1, r2, sym)
	requireBalanced(t, eb)
}

func TestRoundingModeEquality(t *testing.T) {
	eb := fpblast.NewExprBuilder()
	rne := eb.RMV(fpblast.RNE)
	rne2 := eb.RMV(fpblast.RNE)
	rtz := eb.RMV(fpblast.RTZ)
	sym := eb.RMS("r")

	same, err := eb.Eq(rne, rne2)
	require.NoError(t, err)
	assert.True(t, same.IsTrue())

	diff, err := eb.Eq(rne, rtz)
	require.NoError(t, err)
	assert.True(t, diff.IsFalse())

	open, err := eb.Eq(sym, rtz)
	require.NoError(t, err)
	assert.Equal(t, fpblast.TY_EQ, open.Kind())
	assert.Equal(t, uint(1), open.Size())

	release(eb, rne, rne2, rtz, sym, same, diff, open)
	requireBalanced(t, eb)
}

func TestFPConstructors(t *testing.T) {
	eb := fpblast.NewExprBuilder()
	x := eb.FPS("x", 8, 24)
	assert.True(t, x.IsFP())
	assert.Equal(t, uint(32), x.Size())

	sign := eb.BVS("s", 1)
	exp := eb.BVS("e", 11)
	sig := eb.BVS("m", 52)
	f, err := eb.FPFromTriple(sign, exp, sig)
	require.NoError(t, err)
	assert.Equal(t, "FP<11,53>", f.Sort().String())
	assert.Equal(t, uint(64), f.Size())

	_, err = eb.FPFromTriple(exp, exp, sig)
	assert.Error(t, err)
	_, err = eb.FPFromTriple(sign, sign, sig)
	assert.Error(t, err)

	bits := eb.BVS("bits", 16)
	h, err := eb.FPFromBits(bits, 5, 11)
	require.NoError(t, err)
	assert.Same(t, bits, h.Child(0))
	_, err = eb.FPFromBits(bits, 8, 24)
	assert.Error(t, err)
	_, err = eb.FPFromBits(x, 8, 24)
	assert.Error(t, err)

	release(eb, x, sign, exp, sig, f, bits, h)
	requireBalanced(t, eb)
}

func TestFPOperations(t *testing.T) {
	eb := fpblast.NewExprBuilder()
	rne := eb.RMV(fpblast.RNE)
	x := eb.FPS("x", 8, 24)
	y := eb.FPS("y", 8, 24)
	d := eb.FPS("d", 11, 53)
	bv := eb.BVS("b", 32)

	sum, err := eb.FPAdd(rne, x, y)
	require.NoError(t, err)
	assert.Same(t, x.Sort(), sum.Sort())
	assert.Equal(t, "fp.add(RNE, x, y)", sum.String())
	assert.Equal(t, 3, sum.NumChildren())

	fma, err := eb.FPFma(rne, x, y, sum)
	require.NoError(t, err)
	assert.Equal(t, fpblast.TY_FP_FMA, fma.Kind())

	_, err = eb.FPAdd(rne, x, d)
	assert.Error(t, err)
	_, err = eb.FPAdd(bv, x, y)
	assert.Error(t, err)
	_, err = eb.FPMin(x, bv)
	assert.Error(t, err)

	neg, err := eb.FPNeg(x)
	require.NoError(t, err)
	negneg, err := eb.FPNeg(neg)
	require.NoError(t, err)
	assert.Same(t, x, negneg)

	lt, err := eb.FPLt(x, y)
	require.NoError(t, err)
	assert.True(t, lt.IsBV())
	assert.Equal(t, uint(1), lt.Size())
	assert.True(t, fpblast.IsFPPredicate(lt.Kind()))
	assert.False(t, fpblast.IsFPPredicate(sum.Kind()))

	release(eb, rne, x, y, d, bv, sum, fma, neg, negneg, lt)
	requireBalanced(t, eb)
}

func TestFPConversions(t *testing.T) {
	eb := fpblast.NewExprBuilder()
	rtz := eb.RMV(fpblast.RTZ)
	x := eb.FPS("x", 8, 24)
	bv := eb.BVS("b", 16)

	toS, err := eb.FPToSBV(rtz, x, 16)
	require.NoError(t, err)
	assert.True(t, toS.IsBV())
	assert.Equal(t, uint(16), toS.Size())
	assert.Equal(t, []uint{16}, toS.Indices())
	_, err = eb.FPToUBV(rtz, x, 0)
	assert.Error(t, err)

	wide, err := eb.FPToFP(rtz, x, 11, 53)
	require.NoError(t, err)
	assert.Equal(t, "to_fp(RTZ, x, FP<11,53>)", wide.String())
	_, err = eb.FPToFP(rtz, x, 1, 53)
	assert.Error(t, err)

	fromU, err := eb.FPFromUBV(rtz, bv, 5, 11)
	require.NoError(t, err)
	assert.Equal(t, uint(16), fromU.Size())
	_, err = eb.FPFromSBV(rtz, x, 5, 11)
	assert.Error(t, err)

	release(eb, rtz, x, bv, toS, wide, fromU)
	requireBalanced(t, eb)
}

func TestFPStructuralEquality(t *testing.T) {
	eb := fpblast.NewExprBuilder()
	x := eb.FPS("x", 8, 24)
	y := eb.FPS("y", 8, 24)

	refl, err := eb.Eq(x, x)
	require.NoError(t, err)
	assert.True(t, refl.IsTrue())

	eq, err := eb.Eq(y, x)
	require.NoError(t, err)
	assert.Equal(t, fpblast.TY_EQ, eq.Kind())
	assert.Same(t, x, eq.Child(0))

	release(eb, x, y, refl, eq)
	requireBalanced(t, eb)
}

func TestKindName(t *testing.T) {
	assert.Equal(t, "fp.add", fpblast.KindName(fpblast.TY_FP_ADD))
	assert.Equal(t, "fp.isNaN", fpblast.KindName(fpblast.TY_FP_IS_NAN))
	assert.Equal(t, "symbol", fpblast.KindName(fpblast.TY_FP_SYM))
	assert.Equal(t, "extract", fpblast.KindName(fpblast.TY_EXTRACT))
	assert.Equal(t, "kind(99)", fpblast.KindName(99))
}
