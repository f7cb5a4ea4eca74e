package wordblast

import (
	"testing"

	"github.com/borzacchiello/fpblast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireBalanced(t *testing.T, eb *fpblast.ExprBuilder) {
	t.Helper()
	require.Equal(t, eb.Stats.Acquired, eb.Stats.Released)
	require.Equal(t, uint(0), eb.Stats.Live)
}

func TestResize(t *testing.T) {
	eb := fpblast.NewExprBuilder()
	sym := eb.BVS("x", 16)
	x := adoptBV[Unsigned](eb, sym)

	same := x.Resize(16)
	assert.Same(t, x.Node(), same.Node())

	wide := x.Resize(24)
	assert.Equal(t, uint(24), wide.Width())
	wide2 := wide.Resize(24)
	assert.Same(t, wide.Node(), wide2.Node())

	back := wide.Resize(16)
	assert.Same(t, x.Node(), back.Node())

	narrow := x.Resize(8)
	assert.Equal(t, uint(8), narrow.Width())

	for _, b := range []UBV{same, wide, wide2, back, narrow, x} {
		b.Release()
	}
	requireBalanced(t, eb)
}

func TestExtendContract(t *testing.T) {
	eb := fpblast.NewExprBuilder()
	s := adoptBV[Signed](eb, eb.BVS("s", 8))
	u := s.ToUnsigned()

	for _, k := range []uint{1, 4, 24} {
		se := s.Extend(k)
		sc := se.Contract(k)
		assert.Same(t, s.Node(), sc.Node())

		ue := u.Extend(k)
		uc := ue.Contract(k)
		assert.Same(t, u.Node(), uc.Node())

		assert.Equal(t, fpblast.TY_SEXT, se.Node().Kind())
		assert.Equal(t, fpblast.TY_ZEXT, ue.Node().Kind())

		se.Release()
		sc.Release()
		ue.Release()
		uc.Release()
	}
	s.Release()
	u.Release()
	requireBalanced(t, eb)
}

func TestSignednessConversion(t *testing.T) {
	eb := fpblast.NewExprBuilder()
	u := adoptBV[Unsigned](eb, eb.BVS("x", 32))
	s := u.ToSigned()
	u2 := s.ToUnsigned()

	assert.Same(t, u.Node(), s.Node())
	assert.Same(t, u.Node(), u2.Node())

	u.Release()
	s.Release()
	u2.Release()
	requireBalanced(t, eb)
}

func TestAllZerosAllOnes(t *testing.T) {
	eb := fpblast.NewExprBuilder()
	for _, w := range []uint{1, 8, 32} {
		zero := Zero[Unsigned](eb, w)
		ones := AllOnes[Unsigned](eb, w)

		p := zero.IsAllZeros()
		assert.True(t, p.Node().IsTrue(), "width %d", w)
		p.Release()

		p = zero.IsAllOnes()
		assert.True(t, p.Node().IsFalse(), "width %d", w)
		p.Release()

		p = ones.IsAllOnes()
		assert.True(t, p.Node().IsTrue(), "width %d", w)
		p.Release()

		p = ones.IsAllZeros()
		assert.True(t, p.Node().IsFalse(), "width %d", w)
		p.Release()

		zero.Release()
		ones.Release()
	}
	requireBalanced(t, eb)
}

func TestModularMatchesPlain(t *testing.T) {
	eb := fpblast.NewExprBuilder()
	a := adoptBV[Signed](eb, eb.BVS("a", 16))
	b := adoptBV[Signed](eb, eb.BVS("b", 16))

	pairs := [][2]SBV{
		{a.Add(b), a.ModularAdd(b)},
		{a.Sub(b), a.ModularSub(b)},
		{a.Mul(b), a.ModularMul(b)},
		{a.Neg(), a.ModularNegate()},
		{a.Shl(b), a.ModularLeftShift(b)},
		{a.Shr(b), a.ModularRightShift(b)},
		{a.Increment(), a.ModularIncrement()},
		{a.Decrement(), a.ModularDecrement()},
	}
	for i, p := range pairs {
		assert.Same(t, p[0].Node(), p[1].Node(), "pair %d", i)
		p[0].Release()
		p[1].Release()
	}
	a.Release()
	b.Release()
	requireBalanced(t, eb)
}

func TestSignedDispatch(t *testing.T) {
	eb := fpblast.NewExprBuilder()
	a := adoptBV[Signed](eb, eb.BVS("a", 8))
	b := adoptBV[Signed](eb, eb.BVS("b", 8))
	ua, ub := a.ToUnsigned(), b.ToUnsigned()

	sdiv, udiv := a.Div(b), ua.Div(ub)
	assert.Equal(t, fpblast.TY_SDIV, sdiv.Node().Kind())
	assert.Equal(t, fpblast.TY_UDIV, udiv.Node().Kind())

	sshr, ushr := a.Shr(b), ua.Shr(ub)
	assert.Equal(t, fpblast.TY_ASHR, sshr.Node().Kind())
	assert.Equal(t, fpblast.TY_LSHR, ushr.Node().Kind())

	slt, ult := a.Lt(b), ua.Lt(ub)
	assert.Equal(t, fpblast.TY_SLT, slt.Node().Kind())
	assert.Equal(t, fpblast.TY_ULT, ult.Node().Kind())

	for _, x := range []BV[Signed]{a, b, sdiv, sshr} {
		x.Release()
	}
	for _, x := range []UBV{ua, ub, udiv, ushr} {
		x.Release()
	}
	slt.Release()
	ult.Release()
	requireBalanced(t, eb)
}

func TestLiteralExtension(t *testing.T) {
	eb := fpblast.NewExprBuilder()

	s := BVLiteral[Signed](eb, 40, 0xffffffff)
	c, err := s.Node().GetConst()
	require.NoError(t, err)
	assert.True(t, c.HasAllBitsSet())

	u := BVLiteral[Unsigned](eb, 40, 0xffffffff)
	c, err = u.Node().GetConst()
	require.NoError(t, err)
	assert.Equal(t, uint64(0xffffffff), c.AsULong())

	s.Release()
	u.Release()
	requireBalanced(t, eb)
}

func TestSignedExtremes(t *testing.T) {
	eb := fpblast.NewExprBuilder()
	umax, umin := MaxValue[Unsigned](eb, 8), MinValue[Unsigned](eb, 8)
	smax, smin := MaxValue[Signed](eb, 8), MinValue[Signed](eb, 8)

	c, err := umax.Node().GetConst()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x7f), c.AsULong())
	c, err = umin.Node().GetConst()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x80), c.AsULong())

	assert.Same(t, umax.Node(), smax.Node())
	assert.Same(t, umin.Node(), smin.Node())

	umax.Release()
	umin.Release()
	smax.Release()
	smin.Release()
	requireBalanced(t, eb)
}

func TestPropOps(t *testing.T) {
	eb := fpblast.NewExprBuilder()
	tt := PropLiteral(eb, true)
	ff := PropLiteral(eb, false)

	for _, c := range []struct {
		p    Prop
		want bool
	}{
		{tt.And(ff), false},
		{tt.Or(ff), true},
		{tt.Xor(ff), true},
		{tt.Eq(ff), false},
		{ff.Not(), true},
	} {
		assert.Equal(t, c.want, c.p.Node().IsTrue())
		c.p.Release()
	}

	tt.Release()
	ff.Release()
	requireBalanced(t, eb)
}

func TestWrapperContracts(t *testing.T) {
	eb := fpblast.NewExprBuilder()
	x := eb.BVS("x", 8)
	f := eb.FPS("f", 8, 24)

	assert.Panics(t, func() { NewProp(eb, x) })
	assert.Panics(t, func() { NewRM(eb, x) })
	assert.Panics(t, func() { NewBV[Unsigned](eb, f) })
	assert.Panics(t, func() { RMLiteral(eb, fpblast.RM_MAX) })

	b := NewBV[Unsigned](eb, x)
	assert.Panics(t, func() { b.Extract(3, 4) })
	assert.Panics(t, func() { b.Extract(8, 0) })
	assert.Panics(t, func() { b.Contract(8) })

	b.Release()
	eb.Release(x)
	eb.Release(f)
	requireBalanced(t, eb)
}
