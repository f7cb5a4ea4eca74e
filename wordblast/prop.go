package wordblast

import (
	"github.com/borzacchiello/fpblast"
)

// Prop is a symbolic boolean: a reference to a width-1 node.
type Prop struct {
	eb   *fpblast.ExprBuilder
	node *fpblast.ExprPtr
}

func checkPropNode(n *fpblast.ExprPtr) bool {
	return n.IsBV() && n.Size() == 1
}

func NewProp(eb *fpblast.ExprBuilder, n *fpblast.ExprPtr) Prop {
	mustHold(checkPropNode(n), "NewProp(): %s is not a proposition", n.Sort())
	return Prop{eb: eb, node: eb.Copy(n)}
}

func PropLiteral(eb *fpblast.ExprBuilder, v bool) Prop {
	n := eb.BoolVal(v)
	defer eb.Release(n)
	return NewProp(eb, n)
}

// adoptProp wraps a freshly built node and gives back the builder's handle.
func adoptProp(eb *fpblast.ExprBuilder, n *fpblast.ExprPtr) Prop {
	defer eb.Release(n)
	return NewProp(eb, n)
}

func (p Prop) Copy() Prop {
	return NewProp(p.eb, p.node)
}

func (p Prop) Release() {
	p.eb.Release(p.node)
}

func (p Prop) Node() *fpblast.ExprPtr {
	return p.node
}

func (p Prop) String() string {
	return p.node.String()
}

func (p Prop) check(o Prop) {
	mustHold(checkPropNode(o.node), "Prop: operand %s is not a proposition", o.node.Sort())
}

func (p Prop) Not() Prop {
	return adoptProp(p.eb, p.eb.Not(p.node))
}

func (p Prop) And(o Prop) Prop {
	p.check(o)
	return adoptProp(p.eb, must(p.eb.And(p.node, o.node)))
}

func (p Prop) Or(o Prop) Prop {
	p.check(o)
	return adoptProp(p.eb, must(p.eb.Or(p.node, o.node)))
}

func (p Prop) Eq(o Prop) Prop {
	p.check(o)
	return adoptProp(p.eb, must(p.eb.Eq(p.node, o.node)))
}

func (p Prop) Xor(o Prop) Prop {
	p.check(o)
	return adoptProp(p.eb, must(p.eb.Xor(p.node, o.node)))
}
