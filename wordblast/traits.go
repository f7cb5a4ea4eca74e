package wordblast

import (
	"github.com/borzacchiello/fpblast"
	"github.com/borzacchiello/fpblast/encoding"
)

var _ encoding.Traits[RM, SortInfo, Prop, SBV, UBV] = Traits{}

// ops are the rounding-free algorithms instantiated on the wrappers.
type ops = encoding.Ops[Traits, RM, SortInfo, Prop, SBV, UBV]

// Traits binds the wrapper types to a builder for the encoding algorithms.
type Traits struct {
	eb *fpblast.ExprBuilder
}

func NewTraits(eb *fpblast.ExprBuilder) Traits {
	return Traits{eb: eb}
}

func (t Traits) Builder() *fpblast.ExprBuilder {
	return t.eb
}

func (t Traits) RNE() RM { return RMLiteral(t.eb, fpblast.RNE) }
func (t Traits) RNA() RM { return RMLiteral(t.eb, fpblast.RNA) }
func (t Traits) RTP() RM { return RMLiteral(t.eb, fpblast.RTP) }
func (t Traits) RTN() RM { return RMLiteral(t.eb, fpblast.RTN) }
func (t Traits) RTZ() RM { return RMLiteral(t.eb, fpblast.RTZ) }

func (t Traits) Precondition(b bool) {
	mustHold(b, "precondition violated")
}

func (t Traits) Postcondition(b bool) {
	mustHold(b, "postcondition violated")
}

func (t Traits) Invariant(b bool) {
	mustHold(b, "invariant violated")
}

// A symbolic condition cannot be checked without solving; these accept it.

func (t Traits) PreconditionProp(p Prop) {}
func (t Traits) PostconditionProp(p Prop) {}
func (t Traits) InvariantProp(p Prop) {}

func (t Traits) ite(c Prop, a, b *fpblast.ExprPtr) *fpblast.ExprPtr {
	return must(t.eb.ITE(c.node, a, b))
}

func (t Traits) IteProp(c, a, b Prop) Prop {
	return adoptProp(t.eb, t.ite(c, a.node, b.node))
}

func (t Traits) IteSBV(c Prop, a, b SBV) SBV {
	return adoptBV[Signed](t.eb, t.ite(c, a.node, b.node))
}

func (t Traits) IteUBV(c Prop, a, b UBV) UBV {
	return adoptBV[Unsigned](t.eb, t.ite(c, a.node, b.node))
}

func (t Traits) IteRM(c Prop, a, b RM) RM {
	n := t.ite(c, a.node, b.node)
	defer t.eb.Release(n)
	return NewRM(t.eb, n)
}
