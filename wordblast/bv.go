package wordblast

import (
	"github.com/borzacchiello/fpblast"
)

type binop func(lhs, rhs *fpblast.ExprPtr) (*fpblast.ExprPtr, error)

type extendop func(e *fpblast.ExprPtr, n uint) (*fpblast.ExprPtr, error)

// Signed and Unsigned tag a BV with its interpretation. The node underneath
// is the same; only the operations chosen for it differ.
type Signed struct{}

type Unsigned struct{}

type Signedness interface {
	Signed | Unsigned

	shr(eb *fpblast.ExprBuilder) binop
	div(eb *fpblast.ExprBuilder) binop
	rem(eb *fpblast.ExprBuilder) binop
	lt(eb *fpblast.ExprBuilder) binop
	le(eb *fpblast.ExprBuilder) binop
	gt(eb *fpblast.ExprBuilder) binop
	ge(eb *fpblast.ExprBuilder) binop
	extend(eb *fpblast.ExprBuilder) extendop
	literal(width uint, v uint32) *fpblast.BVConst
}

func (Signed) shr(eb *fpblast.ExprBuilder) binop { return eb.AShr }
func (Signed) div(eb *fpblast.ExprBuilder) binop { return eb.SDiv }
func (Signed) rem(eb *fpblast.ExprBuilder) binop { return eb.SRem }
func (Signed) lt(eb *fpblast.ExprBuilder) binop { return eb.SLt }
func (Signed) le(eb *fpblast.ExprBuilder) binop { return eb.SLe }
func (Signed) gt(eb *fpblast.ExprBuilder) binop { return eb.SGt }
func (Signed) ge(eb *fpblast.ExprBuilder) binop { return eb.SGe }
func (Signed) extend(eb *fpblast.ExprBuilder) extendop { return eb.SExt }

// The literal is read as a 32-bit two's complement integer.
func (Signed) literal(width uint, v uint32) *fpblast.BVConst {
	return fpblast.MakeBVConst(int64(int32(v)), width)
}

func (Unsigned) shr(eb *fpblast.ExprBuilder) binop { return eb.LShr }
func (Unsigned) div(eb *fpblast.ExprBuilder) binop { return eb.UDiv }
func (Unsigned) rem(eb *fpblast.ExprBuilder) binop { return eb.URem }
func (Unsigned) lt(eb *fpblast.ExprBuilder) binop { return eb.Ult }
func (Unsigned) le(eb *fpblast.ExprBuilder) binop { return eb.Ule }
func (Unsigned) gt(eb *fpblast.ExprBuilder) binop { return eb.UGt }
func (Unsigned) ge(eb *fpblast.ExprBuilder) binop { return eb.UGe }
func (Unsigned) extend(eb *fpblast.ExprBuilder) extendop { return eb.ZExt }

func (Unsigned) literal(width uint, v uint32) *fpblast.BVConst {
	return fpblast.MakeBVConst(int64(v), width)
}

// BV is a reference to a bit-vector node read with interpretation S.
type BV[S Signedness] struct {
	eb   *fpblast.ExprBuilder
	node *fpblast.ExprPtr
}

type SBV = BV[Signed]

type UBV = BV[Unsigned]

func NewBV[S Signedness](eb *fpblast.ExprBuilder, n *fpblast.ExprPtr) BV[S] {
	mustHold(n.IsBV(), "NewBV(): %s is not a bit-vector", n.Sort())
	return BV[S]{eb: eb, node: eb.Copy(n)}
}

// BVLiteral encodes v on width bits, sign-extending it for signed vectors
// and zero-extending it for unsigned ones.
func BVLiteral[S Signedness](eb *fpblast.ExprBuilder, width uint, v uint32) BV[S] {
	var s S
	return adoptBV[S](eb, eb.BVVFromConst(s.literal(width, v)))
}

// BVFromProp reinterprets a proposition as a width-1 vector.
func BVFromProp[S Signedness](p Prop) BV[S] {
	return NewBV[S](p.eb, p.node)
}

func BVFromConst[S Signedness](eb *fpblast.ExprBuilder, c *fpblast.BVConst) BV[S] {
	return adoptBV[S](eb, eb.BVVFromConst(c))
}

func adoptBV[S Signedness](eb *fpblast.ExprBuilder, n *fpblast.ExprPtr) BV[S] {
	defer eb.Release(n)
	return NewBV[S](eb, n)
}

func One[S Signedness](eb *fpblast.ExprBuilder, w uint) BV[S] {
	return adoptBV[S](eb, eb.BVV(1, w))
}

func Zero[S Signedness](eb *fpblast.ExprBuilder, w uint) BV[S] {
	return adoptBV[S](eb, eb.BVV(0, w))
}

func AllOnes[S Signedness](eb *fpblast.ExprBuilder, w uint) BV[S] {
	return adoptBV[S](eb, eb.Ones(w))
}

// MaxValue is the largest signed value of width w, whatever S is.
func MaxValue[S Signedness](eb *fpblast.ExprBuilder, w uint) BV[S] {
	return adoptBV[S](eb, eb.MaxSigned(w))
}

// MinValue is the smallest signed value of width w, whatever S is.
func MinValue[S Signedness](eb *fpblast.ExprBuilder, w uint) BV[S] {
	return adoptBV[S](eb, eb.MinSigned(w))
}

func (b BV[S]) Zero(w uint) BV[S] { return Zero[S](b.eb, w) }
func (b BV[S]) One(w uint) BV[S] { return One[S](b.eb, w) }
func (b BV[S]) AllOnes(w uint) BV[S] { return AllOnes[S](b.eb, w) }
func (b BV[S]) MaxValue(w uint) BV[S] { return MaxValue[S](b.eb, w) }
func (b BV[S]) MinValue(w uint) BV[S] { return MinValue[S](b.eb, w) }

func (b BV[S]) Copy() BV[S] {
	return NewBV[S](b.eb, b.node)
}

func (b BV[S]) Release() {
	b.eb.Release(b.node)
}

func (b BV[S]) Node() *fpblast.ExprPtr {
	return b.node
}

func (b BV[S]) Width() uint {
	return b.node.Size()
}

func (b BV[S]) String() string {
	return b.node.String()
}

func (b BV[S]) IsAllOnes() Prop {
	c := b.AllOnes(b.Width())
	defer c.Release()
	return b.Eq(c)
}

func (b BV[S]) IsAllZeros() Prop {
	c := b.Zero(b.Width())
	defer c.Release()
	return b.Eq(c)
}

func (b BV[S]) binary(name string, o BV[S], op binop) BV[S] {
	mustHold(b.Width() == o.Width(), "BV.%s(): widths %d and %d", name, b.Width(), o.Width())
	return adoptBV[S](b.eb, must(op(b.node, o.node)))
}

func (b BV[S]) compare(name string, o BV[S], op binop) Prop {
	mustHold(b.Width() == o.Width(), "BV.%s(): widths %d and %d", name, b.Width(), o.Width())
	return adoptProp(b.eb, must(op(b.node, o.node)))
}

/*
 *   Arithmetic
 */

func (b BV[S]) Add(o BV[S]) BV[S] { return b.binary("Add", o, b.eb.Add) }
func (b BV[S]) Sub(o BV[S]) BV[S] { return b.binary("Sub", o, b.eb.Sub) }
func (b BV[S]) Mul(o BV[S]) BV[S] { return b.binary("Mul", o, b.eb.Mul) }
func (b BV[S]) And(o BV[S]) BV[S] { return b.binary("And", o, b.eb.And) }
func (b BV[S]) Or(o BV[S]) BV[S] { return b.binary("Or", o, b.eb.Or) }
func (b BV[S]) Xor(o BV[S]) BV[S] { return b.binary("Xor", o, b.eb.Xor) }
func (b BV[S]) Shl(o BV[S]) BV[S] { return b.binary("Shl", o, b.eb.Shl) }

func (b BV[S]) Div(o BV[S]) BV[S] {
	var s S
	return b.binary("Div", o, s.div(b.eb))
}

func (b BV[S]) Rem(o BV[S]) BV[S] {
	var s S
	return b.binary("Rem", o, s.rem(b.eb))
}

// Shr shifts arithmetically for signed vectors and logically otherwise.
func (b BV[S]) Shr(o BV[S]) BV[S] {
	var s S
	return b.binary("Shr", o, s.shr(b.eb))
}

func (b BV[S]) SignExtendRightShift(o BV[S]) BV[S] {
	return b.binary("SignExtendRightShift", o, b.eb.AShr)
}

func (b BV[S]) Neg() BV[S] {
	return adoptBV[S](b.eb, b.eb.Neg(b.node))
}

func (b BV[S]) Not() BV[S] {
	return adoptBV[S](b.eb, b.eb.Not(b.node))
}

func (b BV[S]) Increment() BV[S] {
	return adoptBV[S](b.eb, b.eb.Inc(b.node))
}

func (b BV[S]) Decrement() BV[S] {
	return adoptBV[S](b.eb, b.eb.Dec(b.node))
}

// The host bit-vector theory wraps around, so the modular operations are
// the plain ones.

func (b BV[S]) ModularAdd(o BV[S]) BV[S] { return b.Add(o) }
func (b BV[S]) ModularSub(o BV[S]) BV[S] { return b.Sub(o) }
func (b BV[S]) ModularMul(o BV[S]) BV[S] { return b.Mul(o) }
func (b BV[S]) ModularNegate() BV[S] { return b.Neg() }
func (b BV[S]) ModularLeftShift(o BV[S]) BV[S] { return b.Shl(o) }
func (b BV[S]) ModularRightShift(o BV[S]) BV[S] { return b.Shr(o) }
func (b BV[S]) ModularIncrement() BV[S] { return b.Increment() }
func (b BV[S]) ModularDecrement() BV[S] { return b.Decrement() }

/*
 *   Comparisons
 */

func (b BV[S]) Eq(o BV[S]) Prop {
	return b.compare("Eq", o, b.eb.Eq)
}

func (b BV[S]) Lt(o BV[S]) Prop {
	var s S
	return b.compare("Lt", o, s.lt(b.eb))
}

func (b BV[S]) Le(o BV[S]) Prop {
	var s S
	return b.compare("Le", o, s.le(b.eb))
}

func (b BV[S]) Gt(o BV[S]) Prop {
	var s S
	return b.compare("Gt", o, s.gt(b.eb))
}

func (b BV[S]) Ge(o BV[S]) Prop {
	var s S
	return b.compare("Ge", o, s.ge(b.eb))
}

/*
 *   Conversions and bit manipulation
 */

func (b BV[S]) ToSigned() SBV {
	return NewBV[Signed](b.eb, b.node)
}

func (b BV[S]) ToUnsigned() UBV {
	return NewBV[Unsigned](b.eb, b.node)
}

// Extend adds n bits on the left, replicating the sign bit for signed
// vectors.
func (b BV[S]) Extend(n uint) BV[S] {
	var s S
	return adoptBV[S](b.eb, must(s.extend(b.eb)(b.node, n)))
}

// Contract drops the n most significant bits.
func (b BV[S]) Contract(n uint) BV[S] {
	w := b.Width()
	mustHold(w > n, "BV.Contract(): cannot drop %d bits of %d", n, w)
	return adoptBV[S](b.eb, must(b.eb.Extract(b.node, w-1-n, 0)))
}

func (b BV[S]) Resize(w uint) BV[S] {
	cur := b.Width()
	switch {
	case w > cur:
		return b.Extend(w - cur)
	case w < cur:
		return b.Contract(cur - w)
	}
	return b.Copy()
}

// MatchWidth extends b to the width of o.
func (b BV[S]) MatchWidth(o BV[S]) BV[S] {
	mustHold(b.Width() <= o.Width(), "BV.MatchWidth(): width %d is larger than %d", b.Width(), o.Width())
	return b.Extend(o.Width() - b.Width())
}

// Append puts b in the most significant bits.
func (b BV[S]) Append(o BV[S]) BV[S] {
	return adoptBV[S](b.eb, must(b.eb.Concat(b.node, o.node)))
}

// Extract returns bits upper down to lower, both included.
func (b BV[S]) Extract(upper, lower uint) BV[S] {
	mustHold(upper >= lower, "BV.Extract(): upper %d is lower than %d", upper, lower)
	mustHold(upper < b.Width(), "BV.Extract(): upper %d out of width %d", upper, b.Width())
	return adoptBV[S](b.eb, must(b.eb.Extract(b.node, upper, lower)))
}
