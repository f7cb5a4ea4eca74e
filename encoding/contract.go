// Package encoding describes the six types a floating-point encoding
// algorithm is parameterised over and implements the algorithms that need no
// rounding: classification, sign manipulation, comparison and min/max.
//
// Every value handed out by an implementation owns a reference to some
// underlying resource. Methods never consume their receiver or operands; the
// caller releases what it gets back.
package encoding

// Proposition is a symbolic boolean.
type Proposition[P any] interface {
	Not() P
	And(o P) P
	Or(o P) P
	Eq(o P) P
	Xor(o P) P

	Copy() P
	Release()
}

// BitVector is a fixed width symbolic integer. The interpretation (signed or
// unsigned) is part of the type: Div, Rem, Shr, the orderings and Extend
// depend on it.
type BitVector[B any, P any] interface {
	Width() uint

	// Constants of width w, built in the receiver's context.
	Zero(w uint) B
	One(w uint) B
	AllOnes(w uint) B
	MaxValue(w uint) B
	MinValue(w uint) B

	IsAllOnes() P
	IsAllZeros() P

	Add(o B) B
	Sub(o B) B
	Mul(o B) B
	Div(o B) B
	Rem(o B) B
	Neg() B
	Not() B
	And(o B) B
	Or(o B) B
	Xor(o B) B
	Shl(o B) B
	Shr(o B) B
	SignExtendRightShift(o B) B
	Increment() B
	Decrement() B

	ModularAdd(o B) B
	ModularSub(o B) B
	ModularMul(o B) B
	ModularNegate() B
	ModularLeftShift(o B) B
	ModularRightShift(o B) B
	ModularIncrement() B
	ModularDecrement() B

	Eq(o B) P
	Lt(o B) P
	Le(o B) P
	Gt(o B) P
	Ge(o B) P

	Extend(n uint) B
	Contract(n uint) B
	Resize(w uint) B
	MatchWidth(o B) B
	Append(o B) B
	Extract(upper, lower uint) B

	Copy() B
	Release()
}

// Format is a floating-point format. The significand width counts the
// hidden bit, so the packed width is ExponentWidth() + SignificandWidth().
type Format interface {
	ExponentWidth() uint
	SignificandWidth() uint
	PackedWidth() uint
}

// Traits binds the concrete types and supplies the rounding-mode constants,
// the contract hooks and the if-then-else of every symbolic type.
type Traits[RM any, F Format, P Proposition[P], S BitVector[S, P], U BitVector[U, P]] interface {
	RNE() RM
	RNA() RM
	RTP() RM
	RTN() RM
	RTZ() RM

	Precondition(b bool)
	Postcondition(b bool)
	Invariant(b bool)
	PreconditionProp(p P)
	PostconditionProp(p P)
	InvariantProp(p P)

	IteProp(c, t, e P) P
	IteSBV(c P, t, e S) S
	IteUBV(c P, t, e U) U
	IteRM(c P, t, e RM) RM
}
