package encoding

// Equal is IEEE equality (fp.eq): NaN equals nothing, the two zeros are
// equal.
func (o Ops[T, RM, F, P, S, U]) Equal(f F, a, b U) P {
	o.checkPacked(f, a, b)

	var sc scope
	defer sc.release()
	nanA := track(&sc, o.IsNaN(f, a))
	nanB := track(&sc, o.IsNaN(f, b))
	zeroA := track(&sc, o.IsZero(f, a))
	zeroB := track(&sc, o.IsZero(f, b))

	anyNaN := track(&sc, nanA.Or(nanB))
	neither := track(&sc, anyNaN.Not())
	bitEq := track(&sc, a.Eq(b))
	bothZero := track(&sc, zeroA.And(zeroB))
	eq := track(&sc, bitEq.Or(bothZero))
	return neither.And(eq)
}

// SMTLibEqual is structural equality (=): every NaN equals every other NaN,
// the two zeros are distinct.
func (o Ops[T, RM, F, P, S, U]) SMTLibEqual(f F, a, b U) P {
	o.checkPacked(f, a, b)

	var sc scope
	defer sc.release()
	nanA := track(&sc, o.IsNaN(f, a))
	nanB := track(&sc, o.IsNaN(f, b))
	bothNaN := track(&sc, nanA.And(nanB))
	bitEq := track(&sc, a.Eq(b))
	return bothNaN.Or(bitEq)
}

func (o Ops[T, RM, F, P, S, U]) LessThan(f F, a, b U) P {
	o.checkPacked(f, a, b)

	var sc scope
	defer sc.release()
	nanA := track(&sc, o.IsNaN(f, a))
	nanB := track(&sc, o.IsNaN(f, b))
	zeroA := track(&sc, o.IsZero(f, a))
	zeroB := track(&sc, o.IsZero(f, b))
	negA := o.signSet(&sc, f, a)
	negB := o.signSet(&sc, f, b)

	anyNaN := track(&sc, nanA.Or(nanB))
	bothZero := track(&sc, zeroA.And(zeroB))
	excluded := track(&sc, anyNaN.Or(bothZero))
	comparable := track(&sc, excluded.Not())

	posA := track(&sc, negA.Not())
	posB := track(&sc, negB.Not())
	bothPos := track(&sc, posA.And(posB))
	bothNeg := track(&sc, negA.And(negB))

	// Packed magnitudes order like unsigned integers.
	ult := track(&sc, a.Lt(b))
	ugt := track(&sc, a.Gt(b))
	posCase := track(&sc, bothPos.And(ult))
	negCase := track(&sc, bothNeg.And(ugt))
	mixed := track(&sc, negA.And(posB))

	sameSign := track(&sc, posCase.Or(negCase))
	ordered := track(&sc, sameSign.Or(mixed))
	return comparable.And(ordered)
}

func (o Ops[T, RM, F, P, S, U]) LessThanOrEqual(f F, a, b U) P {
	var sc scope
	defer sc.release()
	lt := track(&sc, o.LessThan(f, a, b))
	eq := track(&sc, o.Equal(f, a, b))
	return lt.Or(eq)
}

// Min returns the other operand when one is NaN. Between zeros of opposite
// sign it returns a.
func (o Ops[T, RM, F, P, S, U]) Min(f F, a, b U) U {
	return o.pick(f, a, b, true)
}

// Max returns the other operand when one is NaN. Between zeros of opposite
// sign it returns a.
func (o Ops[T, RM, F, P, S, U]) Max(f F, a, b U) U {
	return o.pick(f, a, b, false)
}

func (o Ops[T, RM, F, P, S, U]) pick(f F, a, b U, smaller bool) U {
	var sc scope
	defer sc.release()
	nanA := track(&sc, o.IsNaN(f, a))
	nanB := track(&sc, o.IsNaN(f, b))

	var takeB P
	if smaller {
		takeB = track(&sc, o.LessThan(f, b, a))
	} else {
		takeB = track(&sc, o.LessThan(f, a, b))
	}
	ordered := track(&sc, o.Traits.IteUBV(takeB, b, a))
	withB := track(&sc, o.Traits.IteUBV(nanB, a, ordered))
	return o.Traits.IteUBV(nanA, b, withB)
}
