package encoding

// Ops implements the rounding-free floating-point algorithms over packed
// IEEE-754 operands. Operands are borrowed; results are owned by the caller.
type Ops[T Traits[RM, F, P, S, U], RM any, F Format, P Proposition[P], S BitVector[S, P], U BitVector[U, P]] struct {
	Traits T
}

type releaser interface {
	Release()
}

// scope collects intermediate values to be released together.
type scope []releaser

func (s *scope) release() {
	for i := len(*s) - 1; i >= 0; i-- {
		(*s)[i].Release()
	}
	*s = nil
}

func track[X releaser](s *scope, x X) X {
	*s = append(*s, x)
	return x
}

func (o Ops[T, RM, F, P, S, U]) checkPacked(f F, xs ...U) {
	for _, x := range xs {
		o.Traits.Precondition(x.Width() == f.PackedWidth())
	}
}

// Sign returns the width-1 sign bit of x.
func (o Ops[T, RM, F, P, S, U]) Sign(f F, x U) U {
	o.checkPacked(f, x)
	w := f.PackedWidth()
	return x.Extract(w-1, w-1)
}

// Exponent returns the biased exponent field of x.
func (o Ops[T, RM, F, P, S, U]) Exponent(f F, x U) U {
	o.checkPacked(f, x)
	return x.Extract(f.PackedWidth()-2, f.SignificandWidth()-1)
}

// Significand returns the trailing significand field of x, without the
// hidden bit.
func (o Ops[T, RM, F, P, S, U]) Significand(f F, x U) U {
	o.checkPacked(f, x)
	return x.Extract(f.SignificandWidth()-2, 0)
}

// Pack concatenates the three fields of a floating-point value.
func (o Ops[T, RM, F, P, S, U]) Pack(f F, sign, exp, sig U) U {
	o.Traits.Precondition(sign.Width() == 1)
	o.Traits.Precondition(exp.Width() == f.ExponentWidth())
	o.Traits.Precondition(sig.Width() == f.SignificandWidth()-1)

	se := sign.Append(exp)
	defer se.Release()
	res := se.Append(sig)
	o.Traits.Postcondition(res.Width() == f.PackedWidth())
	return res
}

// fields reports whether the exponent is all ones or all zeros and whether
// the significand is zero.
func (o Ops[T, RM, F, P, S, U]) fields(sc *scope, f F, x U) (expOnes, expZero, sigZero P) {
	exp := track(sc, o.Exponent(f, x))
	sig := track(sc, o.Significand(f, x))
	expOnes = track(sc, exp.IsAllOnes())
	expZero = track(sc, exp.IsAllZeros())
	sigZero = track(sc, sig.IsAllZeros())
	return
}

func (o Ops[T, RM, F, P, S, U]) IsNaN(f F, x U) P {
	var sc scope
	defer sc.release()
	expOnes, _, sigZero := o.fields(&sc, f, x)
	sigNonZero := track(&sc, sigZero.Not())
	return expOnes.And(sigNonZero)
}

func (o Ops[T, RM, F, P, S, U]) IsInf(f F, x U) P {
	var sc scope
	defer sc.release()
	expOnes, _, sigZero := o.fields(&sc, f, x)
	return expOnes.And(sigZero)
}

func (o Ops[T, RM, F, P, S, U]) IsZero(f F, x U) P {
	var sc scope
	defer sc.release()
	_, expZero, sigZero := o.fields(&sc, f, x)
	return expZero.And(sigZero)
}

func (o Ops[T, RM, F, P, S, U]) IsSubnormal(f F, x U) P {
	var sc scope
	defer sc.release()
	_, expZero, sigZero := o.fields(&sc, f, x)
	sigNonZero := track(&sc, sigZero.Not())
	return expZero.And(sigNonZero)
}

func (o Ops[T, RM, F, P, S, U]) IsNormal(f F, x U) P {
	var sc scope
	defer sc.release()
	expOnes, expZero, _ := o.fields(&sc, f, x)
	special := track(&sc, expOnes.Or(expZero))
	return special.Not()
}

// signSet is the raw sign bit as a proposition, NaN or not.
func (o Ops[T, RM, F, P, S, U]) signSet(sc *scope, f F, x U) P {
	sign := track(sc, o.Sign(f, x))
	return track(sc, sign.IsAllOnes())
}

// IsNegative is false for NaN whatever its sign bit.
func (o Ops[T, RM, F, P, S, U]) IsNegative(f F, x U) P {
	var sc scope
	defer sc.release()
	neg := o.signSet(&sc, f, x)
	nan := track(&sc, o.IsNaN(f, x))
	notNaN := track(&sc, nan.Not())
	return notNaN.And(neg)
}

// IsPositive is false for NaN whatever its sign bit.
func (o Ops[T, RM, F, P, S, U]) IsPositive(f F, x U) P {
	var sc scope
	defer sc.release()
	neg := o.signSet(&sc, f, x)
	pos := track(&sc, neg.Not())
	nan := track(&sc, o.IsNaN(f, x))
	notNaN := track(&sc, nan.Not())
	return notNaN.And(pos)
}

func (o Ops[T, RM, F, P, S, U]) withSign(sc *scope, f F, x, sign U) U {
	rest := track(sc, x.Extract(f.PackedWidth()-2, 0))
	return track(sc, sign.Append(rest))
}

// Negate flips the sign bit. NaN is returned unchanged.
func (o Ops[T, RM, F, P, S, U]) Negate(f F, x U) U {
	var sc scope
	defer sc.release()
	sign := track(&sc, o.Sign(f, x))
	flipped := track(&sc, sign.Not())
	neg := o.withSign(&sc, f, x, flipped)
	nan := track(&sc, o.IsNaN(f, x))
	return o.Traits.IteUBV(nan, x, neg)
}

// Absolute clears the sign bit. NaN is returned unchanged.
func (o Ops[T, RM, F, P, S, U]) Absolute(f F, x U) U {
	o.checkPacked(f, x)

	var sc scope
	defer sc.release()
	zero := track(&sc, x.Zero(1))
	abs := o.withSign(&sc, f, x, zero)
	nan := track(&sc, o.IsNaN(f, x))
	return o.Traits.IteUBV(nan, x, abs)
}
