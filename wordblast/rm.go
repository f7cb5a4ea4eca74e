package wordblast

import (
	"github.com/borzacchiello/fpblast"
)

// The rounding-mode encoding must be wide enough for every mode.
const _ = uint(1<<fpblast.RM_WIDTH - fpblast.RM_MAX)

// RM is a rounding mode encoded as an RM_WIDTH-bit vector holding the host
// rounding-mode code. Codes from RM_MAX up are representable; Valid tells
// them apart.
type RM struct {
	eb   *fpblast.ExprBuilder
	node *fpblast.ExprPtr
}

func checkRMNode(n *fpblast.ExprPtr) bool {
	return n.IsBV() && n.Size() == fpblast.RM_WIDTH
}

func NewRM(eb *fpblast.ExprBuilder, n *fpblast.ExprPtr) RM {
	mustHold(checkRMNode(n), "NewRM(): %s is not a rounding-mode encoding", n.Sort())
	return RM{eb: eb, node: eb.Copy(n)}
}

// RMLiteral encodes one of the RM_MAX rounding modes.
func RMLiteral(eb *fpblast.ExprBuilder, rm fpblast.RoundingMode) RM {
	mustHold(rm < fpblast.RM_MAX, "RMLiteral(): invalid rounding mode %d", uint(rm))
	n := eb.BVV(int64(rm), fpblast.RM_WIDTH)
	defer eb.Release(n)
	return NewRM(eb, n)
}

func (r RM) Copy() RM {
	return NewRM(r.eb, r.node)
}

func (r RM) Release() {
	r.eb.Release(r.node)
}

func (r RM) Node() *fpblast.ExprPtr {
	return r.node
}

func (r RM) String() string {
	return r.node.String()
}

// Valid is the proposition value <u RM_MAX. The encoding is unsigned, so
// there is no lower bound to check. Without an encoder every rounding mode
// is invalid.
func (r RM) Valid() Prop {
	if !EncoderLinked {
		return PropLiteral(r.eb, false)
	}
	limit := r.eb.BVV(fpblast.RM_MAX, fpblast.RM_WIDTH)
	defer r.eb.Release(limit)
	return adoptProp(r.eb, must(r.eb.Ult(r.node, limit)))
}

func (r RM) Eq(o RM) Prop {
	mustHold(checkRMNode(o.node), "RM.Eq(): %s is not a rounding-mode encoding", o.node.Sort())
	return adoptProp(r.eb, must(r.eb.Eq(r.node, o.node)))
}
