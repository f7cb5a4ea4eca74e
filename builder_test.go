package fpblast_test

import (
	"bytes"
	"testing"

	"github.com/borzacchiello/fpblast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func release(eb *fpblast.ExprBuilder, es ...*fpblast.ExprPtr) {
	for _, e := range es {
		eb.Release(e)
	}
}

func requireBalanced(t *testing.T, eb *fpblast.ExprBuilder) {
	t.Helper()
	require.Equal(t, eb.Stats.Acquired, eb.Stats.Released)
	require.Equal(t, uint(0), eb.Stats.Live)
}

func getByte(t *testing.T, eb *fpblast.ExprBuilder, e *fpblast.ExprPtr, i uint) *fpblast.ExprPtr {
	b, err := eb.Extract(e, (i+1)*8-1, i*8)
	require.NoError(t, err)
	return b
}

func TestCache1(t *testing.T) {
	eb := fpblast.NewExprBuilder()

	s1 := eb.BVS("s1", 32)
	s2 := eb.BVS("s2", 32)
	e, err := eb.Add(s1, s2)
	require.NoError(t, err)

	ss1 := eb.BVS("s1", 32)
	assert.Same(t, s1, ss1)
	ee, err := eb.Add(s2, ss1)
	require.NoError(t, err)
	assert.Same(t, e, ee)
	assert.Equal(t, 2, e.RefCount())

	oldid := s1.Id()
	release(eb, ee, e, ss1, s1, s2)
	requireBalanced(t, eb)

	for i := 0; i < 32; i++ {
		// create noise...
		eb.Release(eb.BVV(int64(i), 32))
	}

	s1 = eb.BVS("s1", 32)
	assert.NotEqual(t, oldid, s1.Id())
	eb.Release(s1)
	requireBalanced(t, eb)
}

func TestCache2(t *testing.T) {
	eb := fpblast.NewExprBuilder()

	s1 := eb.BVS("s1", 32)
	s2 := eb.BVS("s2", 32)
	e, err := eb.Add(s1, s2)
	require.NoError(t, err)
	oldid1, oldid2, addId := s1.Id(), s2.Id(), e.Id()

	// e keeps both symbols alive.
	release(eb, s1, s2)

	s1 = eb.BVS("s1", 32)
	s2 = eb.BVS("s2", 32)
	assert.Equal(t, oldid1, s1.Id())
	assert.Equal(t, oldid2, s2.Id())

	e2, err := eb.Add(s1, s2)
	require.NoError(t, err)
	assert.Equal(t, addId, e2.Id())

	release(eb, e, e2, s1, s2)
	requireBalanced(t, eb)
}

func TestRefCounting(t *testing.T) {
	eb := fpblast.NewExprBuilder()
	a := eb.BVS("a", 8)
	b := eb.BVS("b", 8)
	c := eb.BVV(3, 8)

	ab, err := eb.Mul(a, b)
	require.NoError(t, err)
	abc, err := eb.Add(ab, c)
	require.NoError(t, err)
	cmp, err := eb.Ult(abc, a)
	require.NoError(t, err)

	assert.Equal(t, 1, cmp.RefCount())
	assert.Equal(t, 2, ab.RefCount())
	assert.Equal(t, 3, a.RefCount())
	assert.Equal(t, uint(6), eb.Stats.Live)

	release(eb, a, b, c, ab, abc)
	assert.Equal(t, uint(6), eb.Stats.Live)

	eb.Release(cmp)
	assert.Panics(t, func() { eb.Release(cmp) })
	assert.Panics(t, func() { eb.Copy(cmp) })
	eb.Release(nil)
	requireBalanced(t, eb)
}

func TestSorts(t *testing.T) {
	eb := fpblast.NewExprBuilder()
	bv8 := eb.SortBV(8)
	f32 := eb.SortFP(8, 24)
	rm := eb.SortRM()

	assert.Same(t, bv8, eb.SortBV(8))
	assert.Equal(t, 2, bv8.RefCount())
	eb.ReleaseSort(bv8)

	assert.True(t, f32.IsFP())
	assert.Equal(t, uint(32), f32.Width())
	assert.Equal(t, uint(8), f32.ExponentWidth())
	assert.Equal(t, uint(24), f32.SignificandWidth())
	assert.Equal(t, "FP<8,24>", f32.String())

	assert.True(t, rm.IsRM())
	assert.Equal(t, uint(fpblast.RM_WIDTH), rm.Width())
	assert.NotEqual(t, rm.Id(), bv8.Id())

	assert.Panics(t, func() { eb.SortBV(0) })
	assert.Panics(t, func() { eb.SortFP(1, 24) })

	eb.ReleaseSort(bv8)
	eb.ReleaseSort(f32)
	eb.ReleaseSort(rm)
	assert.Panics(t, func() { eb.ReleaseSort(rm) })
	requireBalanced(t, eb)
}

func TestAdd1(t *testing.T) {
	eb := fpblast.NewExprBuilder()

	a := eb.BVS("a", 64)
	b := eb.BVS("b", 64)
	negB := eb.Neg(b)
	e, err := eb.Add(a, negB)
	require.NoError(t, err)
	negE := eb.Neg(e)
	z, err := eb.Add(e, negE)
	require.NoError(t, err)
	assert.Equal(t, "0x0", z.String())

	d, err := eb.Sub(a, a)
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	release(eb, a, b, negB, e, negE, z, d)
	requireBalanced(t, eb)
}

func TestShift1(t *testing.T) {
	eb := fpblast.NewExprBuilder()

	sym := eb.BVS("sym", 64)
	c16 := eb.BVV(16, 64)
	c8 := eb.BVV(8, 64)
	e1, err := eb.AShr(sym, c16)
	require.NoError(t, err)
	e2, err := eb.Shl(e1, c8)
	require.NoError(t, err)
	assert.Equal(t, "(sym a>> 0x10) << 0x8", e2.String())

	c64 := eb.BVV(64, 64)
	zero, err := eb.LShr(sym, c64)
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	release(eb, sym, c16, c8, e1, e2, c64, zero)
	requireBalanced(t, eb)
}

func TestBool1(t *testing.T) {
	eb := fpblast.NewExprBuilder()

	sa := eb.BVS("a", 1)
	sb := eb.BVS("b", 1)
	one := eb.BVV(1, 1)
	a, err := eb.Eq(sa, one)
	require.NoError(t, err)
	b, err := eb.Eq(sb, one)
	require.NoError(t, err)

	e1, err := eb.And(a, b)
	require.NoError(t, err)
	e2 := eb.Not(e1)
	tt := eb.BoolVal(true)
	e3, err := eb.And(e2, tt)
	require.NoError(t, err)
	ff := eb.BoolVal(false)
	e4, err := eb.Or(e3, ff)
	require.NoError(t, err)

	assert.Same(t, e2, e4)
	assert.Equal(t, "~((a == 0x1) & (b == 0x1))", e4.String())

	release(eb, sa, sb, one, a, b, e1, e2, tt, e3, ff, e4)
	requireBalanced(t, eb)
}

func TestBVCompare(t *testing.T) {
	eb := fpblast.NewExprBuilder()

	a := eb.BVS("a", 64)
	b := eb.BVS("b", 64)
	e, err := eb.Ule(a, b)
	require.NoError(t, err)
	assert.Equal(t, "a u<= b", e.String())

	refl, err := eb.SLt(a, a)
	require.NoError(t, err)
	assert.True(t, refl.IsFalse())

	release(eb, a, b, e, refl)
	requireBalanced(t, eb)
}

func TestConcat1(t *testing.T) {
	eb := fpblast.NewExprBuilder()

	a := eb.BVS("a", 32)
	p1 := getByte(t, eb, a, 0)
	p2 := getByte(t, eb, a, 1)
	p3 := getByte(t, eb, a, 2)
	p4 := getByte(t, eb, a, 3)

	c1, err := eb.Concat(p4, p3)
	require.NoError(t, err)
	c2, err := eb.Concat(c1, p2)
	require.NoError(t, err)
	c3, err := eb.Concat(c2, p1)
	require.NoError(t, err)
	assert.Equal(t, "a", c3.String())

	release(eb, a, p1, p2, p3, p4, c1, c2, c3)
	requireBalanced(t, eb)
}

func TestExtract(t *testing.T) {
	eb := fpblast.NewExprBuilder()
	a := eb.BVS("a", 32)
	b := eb.BVS("b", 8)

	inner, err := eb.Extract(a, 23, 8)
	require.NoError(t, err)
	outer, err := eb.Extract(inner, 7, 0)
	require.NoError(t, err)
	assert.Equal(t, "a[15:8]", outer.String())

	ext, err := eb.ZExt(b, 8)
	require.NoError(t, err)
	low, err := eb.Extract(ext, 7, 0)
	require.NoError(t, err)
	assert.Same(t, b, low)
	high, err := eb.Extract(ext, 15, 8)
	require.NoError(t, err)
	assert.True(t, high.IsZero())

	cat, err := eb.Concat(a, b)
	require.NoError(t, err)
	fromHigh, err := eb.Extract(cat, 39, 8)
	require.NoError(t, err)
	assert.Same(t, a, fromHigh)

	_, err = eb.Extract(a, 32, 0)
	assert.Error(t, err)
	_, err = eb.Extract(a, 3, 4)
	assert.Error(t, err)

	release(eb, a, b, inner, outer, ext, low, high, cat, fromHigh)
	requireBalanced(t, eb)
}

func TestExtensions(t *testing.T) {
	eb := fpblast.NewExprBuilder()
	a := eb.BVS("a", 8)

	z1, err := eb.ZExt(a, 8)
	require.NoError(t, err)
	z2, err := eb.ZExt(z1, 8)
	require.NoError(t, err)
	assert.Equal(t, "ZExt(a, 16)", z2.String())

	s1, err := eb.SExt(z1, 8)
	require.NoError(t, err)
	assert.Same(t, z2, s1)

	same, err := eb.SExt(a, 0)
	require.NoError(t, err)
	assert.Same(t, a, same)

	m := eb.BVV(-2, 8)
	sm, err := eb.SExt(m, 8)
	require.NoError(t, err)
	c, err := sm.GetConst()
	require.NoError(t, err)
	assert.Equal(t, uint64(0xfffe), c.AsULong())

	release(eb, a, z1, z2, s1, same, m, sm)
	requireBalanced(t, eb)
}

func TestConstantFolding(t *testing.T) {
	eb := fpblast.NewExprBuilder()
	x := eb.BVV(200, 8)
	y := eb.BVV(100, 8)
	z := eb.BVV(0, 8)

	for _, c := range []struct {
		name string
		f    func(lhs, rhs *fpblast.ExprPtr) (*fpblast.ExprPtr, error)
		rhs  *fpblast.ExprPtr
		want uint64
	}{
		{"add", eb.Add, y, 44},
		{"sub", eb.Sub, y, 100},
		{"mul", eb.Mul, y, 32},
		{"udiv", eb.UDiv, y, 2},
		{"udiv0", eb.UDiv, z, 0xff},
		{"sdiv", eb.SDiv, y, 0},
		{"urem", eb.URem, y, 0},
		{"srem0", eb.SRem, z, 200},
		{"and", eb.And, y, 64},
		{"or", eb.Or, y, 236},
		{"xor", eb.Xor, y, 172},
		{"ult", eb.Ult, y, 0},
		{"slt", eb.SLt, y, 1},
		{"eq", eb.Eq, y, 0},
	} {
		r, err := c.f(x, c.rhs)
		require.NoError(t, err, c.name)
		require.True(t, r.IsConst(), c.name)
		v, err := r.GetConst()
		require.NoError(t, err)
		assert.Equal(t, c.want, v.AsULong(), c.name)
		eb.Release(r)
	}

	release(eb, x, y, z)
	requireBalanced(t, eb)
}

func TestITE(t *testing.T) {
	eb := fpblast.NewExprBuilder()
	g := eb.BVS("g", 1)
	a := eb.BVS("a", 16)
	b := eb.BVS("b", 16)
	tt := eb.BoolVal(true)
	ff := eb.BoolVal(false)

	r1, err := eb.ITE(tt, a, b)
	require.NoError(t, err)
	assert.Same(t, a, r1)
	r2, err := eb.ITE(g, b, b)
	require.NoError(t, err)
	assert.Same(t, b, r2)
	r3, err := eb.ITE(g, tt, ff)
	require.NoError(t, err)
	assert.Same(t, g, r3)
	r4, err := eb.ITE(g, a, b)
	require.NoError(t, err)
	assert.Equal(t, "ITE(g, a, b)", r4.String())

	_, err = eb.ITE(a, a, b)
	assert.Error(t, err)
	_, err = eb.ITE(g, a, g)
	assert.Error(t, err)

	release(eb, g, a, b, tt, ff, r1, r2, r3, r4)
	requireBalanced(t, eb)
}

func TestWrongSorts(t *testing.T) {
	eb := fpblast.NewExprBuilder()
	a := eb.BVS("a", 8)
	b := eb.BVS("b", 16)
	f := eb.FPS("f", 8, 24)

	_, err := eb.Add(a, b)
	assert.Error(t, err)
	_, err = eb.Ult(a, b)
	assert.Error(t, err)
	_, err = eb.Eq(a, f)
	assert.Error(t, err)
	_, err = eb.Concat(a, f)
	assert.Error(t, err)
	_, err = eb.ZExt(f, 1)
	assert.Error(t, err)
	_, err = eb.Rebuild(a, []*fpblast.ExprPtr{a})
	assert.Error(t, err)

	release(eb, a, b, f)
	requireBalanced(t, eb)
}

func TestInvolvedInputs(t *testing.T) {
	eb := fpblast.NewExprBuilder()
	a := eb.BVS("a", 8)
	b := eb.BVS("b", 8)
	c := eb.BVV(1, 8)
	s, err := eb.Add(a, c)
	require.NoError(t, err)
	m, err := eb.Mul(s, b)
	require.NoError(t, err)
	x, err := eb.Xor(m, s)
	require.NoError(t, err)

	inputs := eb.InvolvedInputs(x)
	names := []string{}
	for _, in := range inputs {
		names = append(names, in.Name())
	}
	assert.ElementsMatch(t, []string{"a", "b"}, names)

	release(eb, inputs...)
	release(eb, a, b, c, s, m, x)
	requireBalanced(t, eb)
}

func TestPrintStats(t *testing.T) {
	eb := fpblast.NewExprBuilder()
	a := eb.BVS("a", 8)
	a2 := eb.BVS("a", 8)

	var buf bytes.Buffer
	eb.PrintStats(&buf)
	assert.Contains(t, buf.String(), "hits:       1")
	assert.Contains(t, buf.String(), "live nodes: 1")

	release(eb, a, a2)
	requireBalanced(t, eb)
}
