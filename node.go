package fpblast

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

const (
	TY_SYM     = 1
	TY_CONST   = 2
	TY_EXTRACT = 3
	TY_CONCAT  = 4
	TY_ZEXT    = 5
	TY_SEXT    = 6
	TY_ITE     = 7

	TY_NOT  = 8
	TY_NEG  = 9
	TY_SHL  = 10
	TY_LSHR = 11
	TY_ASHR = 12
	TY_AND  = 13
	TY_OR   = 14
	TY_XOR  = 15
	TY_ADD  = 16
	TY_MUL  = 17
	TY_SDIV = 18
	TY_UDIV = 19
	TY_SREM = 20
	TY_UREM = 21

	TY_ULT = 22
	TY_ULE = 23
	TY_UGT = 24
	TY_UGE = 25
	TY_SLT = 26
	TY_SLE = 27
	TY_SGT = 28
	TY_SGE = 29
	TY_EQ  = 30

	TY_FP_SYM       = 31
	TY_RM_SYM       = 32
	TY_RM_CONST     = 33
	TY_FP_FP        = 34
	TY_FP_FROM_BITS = 35

	TY_FP_ABS  = 36
	TY_FP_NEG  = 37
	TY_FP_ADD  = 38
	TY_FP_SUB  = 39
	TY_FP_MUL  = 40
	TY_FP_DIV  = 41
	TY_FP_FMA  = 42
	TY_FP_SQRT = 43
	TY_FP_REM  = 44
	TY_FP_RTI  = 45
	TY_FP_MIN  = 46
	TY_FP_MAX  = 47

	TY_FP_IS_NORMAL    = 48
	TY_FP_IS_SUBNORMAL = 49
	TY_FP_IS_ZERO      = 50
	TY_FP_IS_INF       = 51
	TY_FP_IS_NAN       = 52
	TY_FP_IS_NEG       = 53
	TY_FP_IS_POS       = 54
	TY_FP_EQ           = 55
	TY_FP_LT           = 56
	TY_FP_LEQ          = 57
	TY_FP_GT           = 58
	TY_FP_GEQ          = 59

	TY_FP_TO_SBV   = 60
	TY_FP_TO_UBV   = 61
	TY_FP_TO_FP    = 62
	TY_FP_FROM_SBV = 63
	TY_FP_FROM_UBV = 64
)

var kindSymbols = map[int]string{
	TY_NOT:  "~",
	TY_NEG:  "-",
	TY_SHL:  "<<",
	TY_LSHR: "l>>",
	TY_ASHR: "a>>",
	TY_AND:  "&",
	TY_OR:   "|",
	TY_XOR:  "^",
	TY_ADD:  "+",
	TY_MUL:  "*",
	TY_SDIV: "s/",
	TY_UDIV: "u/",
	TY_SREM: "s%",
	TY_UREM: "u%",
	TY_ULT:  "u<",
	TY_ULE:  "u<=",
	TY_UGT:  "u>",
	TY_UGE:  "u>=",
	TY_SLT:  "s<",
	TY_SLE:  "s<=",
	TY_SGT:  "s>",
	TY_SGE:  "s>=",
	TY_EQ:   "==",

	TY_FP_FP:        "fp",
	TY_FP_FROM_BITS: "to_fp",
	TY_FP_ABS:       "fp.abs",
	TY_FP_NEG:       "fp.neg",
	TY_FP_ADD:       "fp.add",
	TY_FP_SUB:       "fp.sub",
	TY_FP_MUL:       "fp.mul",
	TY_FP_DIV:       "fp.div",
	TY_FP_FMA:       "fp.fma",
	TY_FP_SQRT:      "fp.sqrt",
	TY_FP_REM:       "fp.rem",
	TY_FP_RTI:       "fp.roundToIntegral",
	TY_FP_MIN:       "fp.min",
	TY_FP_MAX:       "fp.max",

	TY_FP_IS_NORMAL:    "fp.isNormal",
	TY_FP_IS_SUBNORMAL: "fp.isSubnormal",
	TY_FP_IS_ZERO:      "fp.isZero",
	TY_FP_IS_INF:       "fp.isInfinite",
	TY_FP_IS_NAN:       "fp.isNaN",
	TY_FP_IS_NEG:       "fp.isNegative",
	TY_FP_IS_POS:       "fp.isPositive",
	TY_FP_EQ:           "fp.eq",
	TY_FP_LT:           "fp.lt",
	TY_FP_LEQ:          "fp.leq",
	TY_FP_GT:           "fp.gt",
	TY_FP_GEQ:          "fp.geq",

	TY_FP_TO_SBV:   "fp.to_sbv",
	TY_FP_TO_UBV:   "fp.to_ubv",
	TY_FP_TO_FP:    "to_fp",
	TY_FP_FROM_SBV: "to_fp",
	TY_FP_FROM_UBV: "to_fp_unsigned",
}

// KindName returns the printable operator of a node kind.
func KindName(kind int) string {
	switch kind {
	case TY_SYM, TY_FP_SYM, TY_RM_SYM:
		return "symbol"
	case TY_CONST:
		return "const"
	case TY_RM_CONST:
		return "rm"
	case TY_EXTRACT:
		return "extract"
	case TY_CONCAT:
		return "concat"
	case TY_ZEXT:
		return "zero_extend"
	case TY_SEXT:
		return "sign_extend"
	case TY_ITE:
		return "ite"
	}
	if s, ok := kindSymbols[kind]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", kind)
}

// IsFPPredicate reports whether kind is a floating-point classification or
// comparison. Nodes of these kinds have sort BV1.
func IsFPPredicate(kind int) bool {
	return kind >= TY_FP_IS_NORMAL && kind <= TY_FP_GEQ
}

/*
 *   Public Interface
 */

// ExprPtr is a node of the term graph. Nodes are hash-consed by the
// ExprBuilder that created them: two structurally identical requests return
// the same node. Every handle returned by the builder carries one reference
// that the caller must give back with ExprBuilder.Release.
type ExprPtr struct {
	id       uint64
	knd      uint8
	sort     *Sort
	children []*ExprPtr
	indices  []uint
	value    *BVConst
	name     string
	refs     int
	h        uint64
}

func (e *ExprPtr) Id() uint64 {
	return e.id
}

func (e *ExprPtr) Kind() int {
	return int(e.knd)
}

func (e *ExprPtr) Sort() *Sort {
	return e.sort
}

// Size is the bit-width of the node's sort.
func (e *ExprPtr) Size() uint {
	return e.sort.width
}

func (e *ExprPtr) IsBV() bool {
	return e.sort.IsBV()
}

func (e *ExprPtr) IsFP() bool {
	return e.sort.IsFP()
}

func (e *ExprPtr) IsRM() bool {
	return e.sort.IsRM()
}

func (e *ExprPtr) RefCount() int {
	return e.refs
}

func (e *ExprPtr) Name() string {
	return e.name
}

func (e *ExprPtr) Children() []*ExprPtr {
	res := make([]*ExprPtr, len(e.children))
	copy(res, e.children)
	return res
}

func (e *ExprPtr) Child(i int) *ExprPtr {
	return e.children[i]
}

func (e *ExprPtr) NumChildren() int {
	return len(e.children)
}

func (e *ExprPtr) Indices() []uint {
	res := make([]uint, len(e.indices))
	copy(res, e.indices)
	return res
}

func (e *ExprPtr) IsConst() bool {
	return e.knd == TY_CONST
}

func (e *ExprPtr) GetConst() (*BVConst, error) {
	if e.knd != TY_CONST {
		return nil, errors.New("not a constant")
	}
	return e.value.Copy(), nil
}

func (e *ExprPtr) IsZero() bool {
	return e.IsConst() && e.value.IsZero()
}

func (e *ExprPtr) IsOne() bool {
	return e.IsConst() && e.value.IsOne()
}

func (e *ExprPtr) HasAllBitsSet() bool {
	return e.IsConst() && e.value.HasAllBitsSet()
}

func (e *ExprPtr) IsTrue() bool {
	return e.Size() == 1 && e.IsOne()
}

func (e *ExprPtr) IsFalse() bool {
	return e.Size() == 1 && e.IsZero()
}

// RoundingMode returns the value of a TY_RM_CONST node.
func (e *ExprPtr) RoundingMode() (RoundingMode, error) {
	if e.knd != TY_RM_CONST {
		return 0, errors.New("not a rounding mode constant")
	}
	return RoundingMode(e.indices[0]), nil
}

func (e *ExprPtr) IsOppositeOf(o *ExprPtr) bool {
	if e.knd == TY_NEG && e.children[0] == o {
		return true
	}
	return o.knd == TY_NEG && o.children[0] == e
}

func (e *ExprPtr) isLeaf() bool {
	return len(e.children) == 0
}

func (e *ExprPtr) wrapped() string {
	if e.isLeaf() {
		return e.String()
	}
	return fmt.Sprintf("(%s)", e.String())
}

func (e *ExprPtr) String() string {
	switch e.knd {
	case TY_SYM, TY_FP_SYM, TY_RM_SYM:
		return e.name
	case TY_CONST:
		return fmt.Sprintf("0x%x", e.value.value)
	case TY_RM_CONST:
		return RoundingMode(e.indices[0]).String()
	case TY_EXTRACT:
		return fmt.Sprintf("%s[%d:%d]", e.children[0].wrapped(), e.indices[0], e.indices[1])
	case TY_CONCAT:
		return e.infix(" .. ")
	case TY_ZEXT:
		return fmt.Sprintf("ZExt(%s, %d)", e.children[0].wrapped(), e.indices[0])
	case TY_SEXT:
		return fmt.Sprintf("SExt(%s, %d)", e.children[0].wrapped(), e.indices[0])
	case TY_ITE:
		return fmt.Sprintf("ITE(%s, %s, %s)", e.children[0], e.children[1], e.children[2])
	case TY_NOT, TY_NEG:
		return fmt.Sprintf("%s%s", kindSymbols[int(e.knd)], e.children[0].wrapped())
	}
	if e.knd < TY_FP_SYM {
		return e.infix(fmt.Sprintf(" %s ", kindSymbols[int(e.knd)]))
	}

	b := strings.Builder{}
	b.WriteString(kindSymbols[int(e.knd)])
	b.WriteString("(")
	for i, c := range e.children {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.String())
	}
	for _, idx := range e.indices {
		b.WriteString(fmt.Sprintf(", %d", idx))
	}
	if e.knd >= TY_FP_TO_FP {
		b.WriteString(fmt.Sprintf(", %s", e.sort))
	}
	b.WriteString(")")
	return b.String()
}

func (e *ExprPtr) infix(sep string) string {
	b := strings.Builder{}
	for i, c := range e.children {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(c.wrapped())
	}
	return b.String()
}

/*
 *   Private Interface
 */

func (e *ExprPtr) hash() uint64 {
	h := xxhash.New()
	raw := make([]byte, 8)

	h.Write([]byte{e.knd})
	binary.BigEndian.PutUint64(raw, e.sort.id)
	h.Write(raw)
	h.Write([]byte(e.name))
	if e.value != nil {
		h.Write(e.value.value.Bytes())
	}
	for _, idx := range e.indices {
		binary.BigEndian.PutUint64(raw, uint64(idx))
		h.Write(raw)
	}
	for _, c := range e.children {
		binary.BigEndian.PutUint64(raw, c.id)
		h.Write(raw)
	}
	return h.Sum64()
}

// shallowEq compares e and o assuming that their children are already
// hash-consed: children are compared by identity.
func (e *ExprPtr) shallowEq(o *ExprPtr) bool {
	if e.knd != o.knd || e.sort != o.sort || e.name != o.name {
		return false
	}
	if len(e.children) != len(o.children) || len(e.indices) != len(o.indices) {
		return false
	}
	if (e.value == nil) != (o.value == nil) {
		return false
	}
	if e.value != nil && e.value.value.Cmp(o.value.value) != 0 {
		return false
	}
	for i := 0; i < len(e.indices); i++ {
		if e.indices[i] != o.indices[i] {
			return false
		}
	}
	for i := 0; i < len(e.children); i++ {
		if e.children[i] != o.children[i] {
			return false
		}
	}
	return true
}
