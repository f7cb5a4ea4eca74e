package fpblast

import (
	"fmt"
	"io"
	"math/big"

	"github.com/pkg/errors"
)

type ExprBuilderStats struct {
	CacheHits    uint
	CacheLookups uint
	// Live is the number of nodes currently in the unique table.
	Live uint
	// Acquired and Released count every reference taken and given back,
	// including the ones nodes hold on their children and sorts.
	Acquired uint
	Released uint
}

// ExprBuilder creates and owns the nodes of a term graph. It is not safe for
// concurrent use.
type ExprBuilder struct {
	cache      map[uint64][]*ExprPtr
	sorts      map[sortKey]*Sort
	nextId     uint64
	nextSortId uint64

	Stats ExprBuilderStats
}

func NewExprBuilder() *ExprBuilder {
	return &ExprBuilder{
		cache: map[uint64][]*ExprPtr{},
		sorts: map[sortKey]*Sort{},
		Stats: ExprBuilderStats{},
	}
}

func (eb *ExprBuilder) PrintStats(w io.Writer) {
	ratio := 0.0
	if eb.Stats.CacheLookups > 0 {
		ratio = float64(eb.Stats.CacheHits) / float64(eb.Stats.CacheLookups) * 100
	}
	fmt.Fprintln(w, "=====================")
	fmt.Fprintln(w, "  ExprBuilder Stats")
	fmt.Fprintln(w, "=====================")
	fmt.Fprintf(w, "hits:       %d\n", eb.Stats.CacheHits)
	fmt.Fprintf(w, "hit ratio:  %.03f %%\n", ratio)
	fmt.Fprintf(w, "live nodes: %d\n", eb.Stats.Live)
	fmt.Fprintf(w, "acquired:   %d\n", eb.Stats.Acquired)
	fmt.Fprintf(w, "released:   %d\n", eb.Stats.Released)
	fmt.Fprintln(w, "=====================")
}

// getOrCreate interns e. The caller passes ownership of e.sort; children are
// borrowed and acquired only when e is new.
func (eb *ExprBuilder) getOrCreate(e *ExprPtr) *ExprPtr {
	eb.Stats.CacheLookups += 1
	eb.Stats.Acquired += 1

	e.h = e.hash()
	bucket := eb.cache[e.h]
	for i := 0; i < len(bucket); i++ {
		if bucket[i].shallowEq(e) {
			eb.Stats.CacheHits += 1
			bucket[i].refs += 1
			eb.ReleaseSort(e.sort)
			return bucket[i]
		}
	}

	for _, c := range e.children {
		eb.Stats.Acquired += 1
		c.refs += 1
	}
	eb.nextId += 1
	e.id = eb.nextId
	e.refs = 1
	eb.Stats.Live += 1
	eb.cache[e.h] = append(bucket, e)
	return e
}

func (eb *ExprBuilder) remove(e *ExprPtr) {
	bucket := eb.cache[e.h]
	newBuck := make([]*ExprPtr, 0, len(bucket))
	for i := 0; i < len(bucket); i++ {
		if bucket[i] != e {
			newBuck = append(newBuck, bucket[i])
		}
	}
	if len(newBuck) == 0 {
		delete(eb.cache, e.h)
	} else {
		eb.cache[e.h] = newBuck
	}
	eb.Stats.Live -= 1
}

// Copy acquires a new reference to e.
func (eb *ExprBuilder) Copy(e *ExprPtr) *ExprPtr {
	if e.refs <= 0 {
		panic("Copy(): node already released")
	}
	eb.Stats.Acquired += 1
	e.refs += 1
	return e
}

// Release gives back one reference to e. A node whose count drops to zero
// leaves the unique table and releases its children.
func (eb *ExprBuilder) Release(e *ExprPtr) {
	if e == nil {
		return
	}
	queue := []*ExprPtr{e}
	for len(queue) > 0 {
		el := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		if el.refs <= 0 {
			panic(fmt.Sprintf("Release(): node %d already released", el.id))
		}

		eb.Stats.Released += 1
		el.refs -= 1
		if el.refs > 0 {
			continue
		}
		eb.remove(el)
		queue = append(queue, el.children...)
		eb.ReleaseSort(el.sort)
	}
}

func (eb *ExprBuilder) mk(kind int, sort *Sort, children []*ExprPtr, indices ...uint) *ExprPtr {
	e := &ExprPtr{
		knd:      uint8(kind),
		sort:     sort,
		children: append([]*ExprPtr{}, children...),
	}
	if len(indices) > 0 {
		e.indices = append([]uint{}, indices...)
	}
	return eb.getOrCreate(e)
}

func (eb *ExprBuilder) mkConst(c *BVConst) *ExprPtr {
	return eb.getOrCreate(&ExprPtr{
		knd:   TY_CONST,
		sort:  eb.SortBV(c.Size),
		value: c.Copy(),
	})
}

// InvolvedInputs returns the symbols reachable from e, each with a reference
// the caller must release.
func (eb *ExprBuilder) InvolvedInputs(e *ExprPtr) []*ExprPtr {
	queue := []*ExprPtr{e}
	visited := make(map[uint64]bool)
	symbols := make([]*ExprPtr, 0)

	for len(queue) > 0 {
		el := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		if visited[el.id] {
			continue
		}
		visited[el.id] = true

		switch el.knd {
		case TY_SYM, TY_FP_SYM, TY_RM_SYM:
			symbols = append(symbols, eb.Copy(el))
			continue
		}
		queue = append(queue, el.children...)
	}
	return symbols
}

func checkBV(op string, es ...*ExprPtr) error {
	for _, e := range es {
		if !e.IsBV() {
			return errors.Errorf("%s(): %s is not a bit-vector", op, e.sort)
		}
	}
	return nil
}

func checkBinary(op string, lhs, rhs *ExprPtr) error {
	if err := checkBV(op, lhs, rhs); err != nil {
		return err
	}
	if lhs.Size() != rhs.Size() {
		return errors.Errorf("%s(): different sizes %d and %d", op, lhs.Size(), rhs.Size())
	}
	return nil
}

func sortedPair(lhs, rhs *ExprPtr) []*ExprPtr {
	if rhs.id < lhs.id {
		return []*ExprPtr{rhs, lhs}
	}
	return []*ExprPtr{lhs, rhs}
}

func (eb *ExprBuilder) foldBinary(op string, lhs, rhs *ExprPtr, f func(c1, c2 *BVConst) error) (*ExprPtr, error) {
	c1, _ := lhs.GetConst()
	c2, _ := rhs.GetConst()
	if err := f(c1, c2); err != nil {
		return nil, errors.Wrap(err, op)
	}
	return eb.mkConst(c1), nil
}

func (eb *ExprBuilder) foldCmp(op string, lhs, rhs *ExprPtr, f func(c1, c2 *BVConst) (BoolConst, error)) (*ExprPtr, error) {
	c1, _ := lhs.GetConst()
	c2, _ := rhs.GetConst()
	r, err := f(c1, c2)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	return eb.BoolVal(r.Value), nil
}

// *** Constructors ***

func (eb *ExprBuilder) BVV(val int64, size uint) *ExprPtr {
	return eb.mkConst(MakeBVConst(val, size))
}

func (eb *ExprBuilder) BVVFromConst(c *BVConst) *ExprPtr {
	return eb.mkConst(c)
}

func (eb *ExprBuilder) BVS(name string, size uint) *ExprPtr {
	return eb.getOrCreate(&ExprPtr{knd: TY_SYM, sort: eb.SortBV(size), name: name})
}

func (eb *ExprBuilder) BoolVal(v bool) *ExprPtr {
	if v {
		return eb.BVV(1, 1)
	}
	return eb.BVV(0, 1)
}

func (eb *ExprBuilder) Ones(size uint) *ExprPtr {
	return eb.BVV(-1, size)
}

// MaxSigned returns 0b011..1 of the given size.
func (eb *ExprBuilder) MaxSigned(size uint) *ExprPtr {
	v := new(big.Int).Lsh(one, size-1)
	v.Sub(v, one)
	return eb.mkConst(MakeBVConstFromBigint(v, size))
}

// MinSigned returns 0b100..0 of the given size.
func (eb *ExprBuilder) MinSigned(size uint) *ExprPtr {
	v := new(big.Int).Lsh(one, size-1)
	return eb.mkConst(MakeBVConstFromBigint(v, size))
}

func (eb *ExprBuilder) Neg(e *ExprPtr) *ExprPtr {
	// Constant propagation
	if e.IsConst() {
		c, _ := e.GetConst()
		c.Neg()
		return eb.mkConst(c)
	}

	// Neg of Neg
	if e.knd == TY_NEG {
		return eb.Copy(e.children[0])
	}
	return eb.mk(TY_NEG, eb.CopySort(e.sort), []*ExprPtr{e})
}

func (eb *ExprBuilder) Not(e *ExprPtr) *ExprPtr {
	// Constant propagation
	if e.IsConst() {
		c, _ := e.GetConst()
		c.Not()
		return eb.mkConst(c)
	}

	// Not of Not
	if e.knd == TY_NOT {
		return eb.Copy(e.children[0])
	}
	return eb.mk(TY_NOT, eb.CopySort(e.sort), []*ExprPtr{e})
}

func (eb *ExprBuilder) Add(lhs, rhs *ExprPtr) (*ExprPtr, error) {
	if err := checkBinary("Add", lhs, rhs); err != nil {
		return nil, err
	}

	// Constant propagation
	if lhs.IsConst() && rhs.IsConst() {
		return eb.foldBinary("Add", lhs, rhs, (*BVConst).Add)
	}

	// Remove zeroes
	if lhs.IsZero() {
		return eb.Copy(rhs), nil
	}
	if rhs.IsZero() {
		return eb.Copy(lhs), nil
	}

	// Remove add with opposite
	if lhs.IsOppositeOf(rhs) {
		return eb.BVV(0, lhs.Size()), nil
	}
	return eb.mk(TY_ADD, eb.CopySort(lhs.sort), sortedPair(lhs, rhs)), nil
}

func (eb *ExprBuilder) Sub(lhs, rhs *ExprPtr) (*ExprPtr, error) {
	if err := checkBinary("Sub", lhs, rhs); err != nil {
		return nil, err
	}
	if lhs.id == rhs.id {
		return eb.BVV(0, lhs.Size()), nil
	}
	negRhs := eb.Neg(rhs)
	defer eb.Release(negRhs)
	return eb.Add(lhs, negRhs)
}

func (eb *ExprBuilder) Inc(e *ExprPtr) *ExprPtr {
	c := eb.BVV(1, e.Size())
	defer eb.Release(c)
	r, err := eb.Add(e, c)
	if err != nil {
		panic(err)
	}
	return r
}

func (eb *ExprBuilder) Dec(e *ExprPtr) *ExprPtr {
	c := eb.Ones(e.Size())
	defer eb.Release(c)
	r, err := eb.Add(e, c)
	if err != nil {
		panic(err)
	}
	return r
}

func (eb *ExprBuilder) Mul(lhs, rhs *ExprPtr) (*ExprPtr, error) {
	if err := checkBinary("Mul", lhs, rhs); err != nil {
		return nil, err
	}

	// Constant propagation
	if lhs.IsConst() && rhs.IsConst() {
		return eb.foldBinary("Mul", lhs, rhs, (*BVConst).Mul)
	}

	// Remove ones
	if lhs.IsOne() {
		return eb.Copy(rhs), nil
	}
	if rhs.IsOne() {
		return eb.Copy(lhs), nil
	}

	// Check zero
	if lhs.IsZero() {
		return eb.Copy(lhs), nil
	}
	if rhs.IsZero() {
		return eb.Copy(rhs), nil
	}
	return eb.mk(TY_MUL, eb.CopySort(lhs.sort), sortedPair(lhs, rhs)), nil
}

func (eb *ExprBuilder) UDiv(lhs, rhs *ExprPtr) (*ExprPtr, error) {
	if err := checkBinary("UDiv", lhs, rhs); err != nil {
		return nil, err
	}
	if lhs.IsConst() && rhs.IsConst() {
		return eb.foldBinary("UDiv", lhs, rhs, (*BVConst).UDiv)
	}
	if rhs.IsOne() {
		return eb.Copy(lhs), nil
	}
	return eb.mk(TY_UDIV, eb.CopySort(lhs.sort), []*ExprPtr{lhs, rhs}), nil
}

func (eb *ExprBuilder) SDiv(lhs, rhs *ExprPtr) (*ExprPtr, error) {
	if err := checkBinary("SDiv", lhs, rhs); err != nil {
		return nil, err
	}
	if lhs.IsConst() && rhs.IsConst() {
		return eb.foldBinary("SDiv", lhs, rhs, (*BVConst).SDiv)
	}
	if rhs.IsOne() {
		return eb.Copy(lhs), nil
	}
	return eb.mk(TY_SDIV, eb.CopySort(lhs.sort), []*ExprPtr{lhs, rhs}), nil
}

func (eb *ExprBuilder) URem(lhs, rhs *ExprPtr) (*ExprPtr, error) {
	if err := checkBinary("URem", lhs, rhs); err != nil {
		return nil, err
	}
	if lhs.IsConst() && rhs.IsConst() {
		return eb.foldBinary("URem", lhs, rhs, (*BVConst).URem)
	}
	if rhs.IsOne() {
		return eb.BVV(0, lhs.Size()), nil
	}
	return eb.mk(TY_UREM, eb.CopySort(lhs.sort), []*ExprPtr{lhs, rhs}), nil
}

func (eb *ExprBuilder) SRem(lhs, rhs *ExprPtr) (*ExprPtr, error) {
	if err := checkBinary("SRem", lhs, rhs); err != nil {
		return nil, err
	}
	if lhs.IsConst() && rhs.IsConst() {
		return eb.foldBinary("SRem", lhs, rhs, (*BVConst).SRem)
	}
	if rhs.IsOne() {
		return eb.BVV(0, lhs.Size()), nil
	}
	return eb.mk(TY_SREM, eb.CopySort(lhs.sort), []*ExprPtr{lhs, rhs}), nil
}

func (eb *ExprBuilder) And(lhs, rhs *ExprPtr) (*ExprPtr, error) {
	if err := checkBinary("And", lhs, rhs); err != nil {
		return nil, err
	}

	// Constant propagation
	if lhs.IsConst() && rhs.IsConst() {
		return eb.foldBinary("And", lhs, rhs, (*BVConst).And)
	}

	// Check zero
	if lhs.IsZero() {
		return eb.Copy(lhs), nil
	}
	if rhs.IsZero() {
		return eb.Copy(rhs), nil
	}

	// Check if all bit set
	if lhs.HasAllBitsSet() {
		return eb.Copy(rhs), nil
	}
	if rhs.HasAllBitsSet() {
		return eb.Copy(lhs), nil
	}

	// Check if lhs == rhs
	if lhs.id == rhs.id {
		return eb.Copy(lhs), nil
	}
	return eb.mk(TY_AND, eb.CopySort(lhs.sort), sortedPair(lhs, rhs)), nil
}

func (eb *ExprBuilder) Or(lhs, rhs *ExprPtr) (*ExprPtr, error) {
	if err := checkBinary("Or", lhs, rhs); err != nil {
		return nil, err
	}

	// Constant propagation
	if lhs.IsConst() && rhs.IsConst() {
		return eb.foldBinary("Or", lhs, rhs, (*BVConst).Or)
	}

	// Check zero
	if lhs.IsZero() {
		return eb.Copy(rhs), nil
	}
	if rhs.IsZero() {
		return eb.Copy(lhs), nil
	}

	// Check if all bit set
	if lhs.HasAllBitsSet() {
		return eb.Copy(lhs), nil
	}
	if rhs.HasAllBitsSet() {
		return eb.Copy(rhs), nil
	}

	// Check if lhs == rhs
	if lhs.id == rhs.id {
		return eb.Copy(lhs), nil
	}
	return eb.mk(TY_OR, eb.CopySort(lhs.sort), sortedPair(lhs, rhs)), nil
}

func (eb *ExprBuilder) Xor(lhs, rhs *ExprPtr) (*ExprPtr, error) {
	if err := checkBinary("Xor", lhs, rhs); err != nil {
		return nil, err
	}

	// Constant propagation
	if lhs.IsConst() && rhs.IsConst() {
		return eb.foldBinary("Xor", lhs, rhs, (*BVConst).Xor)
	}

	// Check zero
	if lhs.IsZero() {
		return eb.Copy(rhs), nil
	}
	if rhs.IsZero() {
		return eb.Copy(lhs), nil
	}

	// Check if lhs == rhs
	if lhs.id == rhs.id {
		return eb.BVV(0, lhs.Size()), nil
	}
	return eb.mk(TY_XOR, eb.CopySort(lhs.sort), sortedPair(lhs, rhs)), nil
}

func (eb *ExprBuilder) shift(op string, kind int, lhs, rhs *ExprPtr, f func(c *BVConst, n uint)) (*ExprPtr, error) {
	if err := checkBinary(op, lhs, rhs); err != nil {
		return nil, err
	}

	// Constant propagation
	if lhs.IsConst() && rhs.IsConst() {
		c1, _ := lhs.GetConst()
		c2, _ := rhs.GetConst()
		f(c1, c1.shiftAmount(c2))
		return eb.mkConst(c1), nil
	}

	// Check if shift with rhs >= lhs.Size or rhs == 0
	if rhs.IsConst() {
		if rhs.IsZero() {
			return eb.Copy(lhs), nil
		}
		if kind != TY_ASHR && rhs.value.value.Cmp(big.NewInt(int64(lhs.Size()))) >= 0 {
			return eb.BVV(0, lhs.Size()), nil
		}
	}
	if lhs.IsZero() {
		return eb.Copy(lhs), nil
	}
	return eb.mk(kind, eb.CopySort(lhs.sort), []*ExprPtr{lhs, rhs}), nil
}

func (eb *ExprBuilder) Shl(lhs, rhs *ExprPtr) (*ExprPtr, error) {
	return eb.shift("Shl", TY_SHL, lhs, rhs, (*BVConst).Shl)
}

func (eb *ExprBuilder) LShr(lhs, rhs *ExprPtr) (*ExprPtr, error) {
	return eb.shift("LShr", TY_LSHR, lhs, rhs, (*BVConst).LShr)
}

func (eb *ExprBuilder) AShr(lhs, rhs *ExprPtr) (*ExprPtr, error) {
	return eb.shift("AShr", TY_ASHR, lhs, rhs, (*BVConst).AShr)
}

func (eb *ExprBuilder) Extract(e *ExprPtr, high, low uint) (*ExprPtr, error) {
	if err := checkBV("Extract", e); err != nil {
		return nil, err
	}
	if high < low {
		return nil, errors.New("Extract(): high < low")
	}
	if high >= e.Size() {
		return nil, errors.Errorf("Extract(): high %d out of range for size %d", high, e.Size())
	}

	// Reduntant extract
	if low == 0 && high == e.Size()-1 {
		return eb.Copy(e), nil
	}

	// Constant propagation
	if e.IsConst() {
		c, _ := e.GetConst()
		if err := c.Truncate(high, low); err != nil {
			return nil, errors.Wrap(err, "Extract")
		}
		return eb.mkConst(c), nil
	}

	switch e.knd {
	case TY_EXTRACT:
		innerLow := e.indices[1]
		return eb.Extract(e.children[0], high+innerLow, low+innerLow)
	case TY_CONCAT:
		hi, lo := e.children[0], e.children[1]
		if high < lo.Size() {
			return eb.Extract(lo, high, low)
		}
		if low >= lo.Size() {
			return eb.Extract(hi, high-lo.Size(), low-lo.Size())
		}
	case TY_ZEXT:
		child := e.children[0]
		if high < child.Size() {
			return eb.Extract(child, high, low)
		}
		if low >= child.Size() {
			return eb.BVV(0, high-low+1), nil
		}
	case TY_SEXT:
		child := e.children[0]
		if high < child.Size() {
			return eb.Extract(child, high, low)
		}
	}
	return eb.mk(TY_EXTRACT, eb.SortBV(high-low+1), []*ExprPtr{e}, high, low), nil
}

// Concat places lhs in the most significant bits.
func (eb *ExprBuilder) Concat(lhs, rhs *ExprPtr) (*ExprPtr, error) {
	if err := checkBV("Concat", lhs, rhs); err != nil {
		return nil, err
	}

	// Constant propagation
	if lhs.IsConst() && rhs.IsConst() {
		c1, _ := lhs.GetConst()
		c2, _ := rhs.GetConst()
		c1.Concat(c2)
		return eb.mkConst(c1), nil
	}

	// Zeroes on the left are a zero extension
	if lhs.IsZero() {
		return eb.ZExt(rhs, lhs.Size())
	}

	// Adjacent extracts of the same term
	if lhs.knd == TY_EXTRACT && rhs.knd == TY_EXTRACT && lhs.children[0] == rhs.children[0] {
		if lhs.indices[1] == rhs.indices[0]+1 {
			return eb.Extract(lhs.children[0], lhs.indices[0], rhs.indices[1])
		}
	}
	return eb.mk(TY_CONCAT, eb.SortBV(lhs.Size()+rhs.Size()), []*ExprPtr{lhs, rhs}), nil
}

func (eb *ExprBuilder) ZExt(e *ExprPtr, n uint) (*ExprPtr, error) {
	if err := checkBV("ZExt", e); err != nil {
		return nil, err
	}

	// Unnecessary ZExt
	if n == 0 {
		return eb.Copy(e), nil
	}

	// ZExt of ZExt
	if e.knd == TY_ZEXT {
		return eb.ZExt(e.children[0], e.indices[0]+n)
	}

	// Constant propagation
	if e.IsConst() {
		c, _ := e.GetConst()
		c.ZExt(n)
		return eb.mkConst(c), nil
	}
	return eb.mk(TY_ZEXT, eb.SortBV(e.Size()+n), []*ExprPtr{e}, n), nil
}

func (eb *ExprBuilder) SExt(e *ExprPtr, n uint) (*ExprPtr, error) {
	if err := checkBV("SExt", e); err != nil {
		return nil, err
	}

	// Unnecessary SExt
	if n == 0 {
		return eb.Copy(e), nil
	}

	// SExt of SExt
	if e.knd == TY_SEXT {
		return eb.SExt(e.children[0], e.indices[0]+n)
	}

	// SExt of ZExt
	if e.knd == TY_ZEXT {
		return eb.ZExt(e.children[0], e.indices[0]+n)
	}

	// Constant propagation
	if e.IsConst() {
		c, _ := e.GetConst()
		c.SExt(n)
		return eb.mkConst(c), nil
	}
	return eb.mk(TY_SEXT, eb.SortBV(e.Size()+n), []*ExprPtr{e}, n), nil
}

// ITE selects iftrue when the width-1 guard is set. Branches may be of any
// sort, as long as it is the same.
func (eb *ExprBuilder) ITE(guard, iftrue, iffalse *ExprPtr) (*ExprPtr, error) {
	if !guard.IsBV() || guard.Size() != 1 {
		return nil, errors.Errorf("ITE(): guard of sort %s", guard.sort)
	}
	if iftrue.sort != iffalse.sort {
		return nil, errors.Errorf("ITE(): branches of sort %s and %s", iftrue.sort, iffalse.sort)
	}

	if guard.IsTrue() {
		return eb.Copy(iftrue), nil
	}
	if guard.IsFalse() {
		return eb.Copy(iffalse), nil
	}
	if iftrue.id == iffalse.id {
		return eb.Copy(iftrue), nil
	}
	if iftrue.IsTrue() && iffalse.IsFalse() {
		return eb.Copy(guard), nil
	}
	return eb.mk(TY_ITE, eb.CopySort(iftrue.sort), []*ExprPtr{guard, iftrue, iffalse}), nil
}

func (eb *ExprBuilder) compare(op string, kind int, lhs, rhs *ExprPtr, reflexive bool, f func(c1, c2 *BVConst) (BoolConst, error)) (*ExprPtr, error) {
	if err := checkBinary(op, lhs, rhs); err != nil {
		return nil, err
	}

	// Constant propagation
	if lhs.IsConst() && rhs.IsConst() {
		return eb.foldCmp(op, lhs, rhs, f)
	}
	if lhs.id == rhs.id {
		return eb.BoolVal(reflexive), nil
	}
	return eb.mk(kind, eb.SortBV(1), []*ExprPtr{lhs, rhs}), nil
}

func (eb *ExprBuilder) Ult(lhs, rhs *ExprPtr) (*ExprPtr, error) {
	return eb.compare("Ult", TY_ULT, lhs, rhs, false, (*BVConst).Ult)
}

func (eb *ExprBuilder) Ule(lhs, rhs *ExprPtr) (*ExprPtr, error) {
	return eb.compare("Ule", TY_ULE, lhs, rhs, true, (*BVConst).Ule)
}

func (eb *ExprBuilder) UGt(lhs, rhs *ExprPtr) (*ExprPtr, error) {
	return eb.compare("UGt", TY_UGT, lhs, rhs, false, (*BVConst).UGt)
}

func (eb *ExprBuilder) UGe(lhs, rhs *ExprPtr) (*ExprPtr, error) {
	return eb.compare("UGe", TY_UGE, lhs, rhs, true, (*BVConst).UGe)
}

func (eb *ExprBuilder) SLt(lhs, rhs *ExprPtr) (*ExprPtr, error) {
	return eb.compare("SLt", TY_SLT, lhs, rhs, false, (*BVConst).SLt)
}

func (eb *ExprBuilder) SLe(lhs, rhs *ExprPtr) (*ExprPtr, error) {
	return eb.compare("SLe", TY_SLE, lhs, rhs, true, (*BVConst).SLe)
}

func (eb *ExprBuilder) SGt(lhs, rhs *ExprPtr) (*ExprPtr, error) {
	return eb.compare("SGt", TY_SGT, lhs, rhs, false, (*BVConst).SGt)
}

func (eb *ExprBuilder) SGe(lhs, rhs *ExprPtr) (*ExprPtr, error) {
	return eb.compare("SGe", TY_SGE, lhs, rhs, true, (*BVConst).SGe)
}

// Eq is structural equality. Operands of floating-point or rounding-mode
// sort are accepted when the sorts match.
func (eb *ExprBuilder) Eq(lhs, rhs *ExprPtr) (*ExprPtr, error) {
	if lhs.sort != rhs.sort {
		return nil, errors.Errorf("Eq(): different sorts %s and %s", lhs.sort, rhs.sort)
	}

	// Constant propagation
	if lhs.IsConst() && rhs.IsConst() {
		return eb.foldCmp("Eq", lhs, rhs, (*BVConst).Eq)
	}
	if lhs.knd == TY_RM_CONST && rhs.knd == TY_RM_CONST {
		return eb.BoolVal(lhs.indices[0] == rhs.indices[0]), nil
	}
	if lhs.id == rhs.id {
		return eb.BoolVal(true), nil
	}
	return eb.mk(TY_EQ, eb.SortBV(1), sortedPair(lhs, rhs)), nil
}

// Rebuild creates a node with the kind and indices of e over new children.
// Only bit-vector kinds can be rebuilt.
func (eb *ExprBuilder) Rebuild(e *ExprPtr, children []*ExprPtr) (*ExprPtr, error) {
	if len(children) != len(e.children) {
		return nil, errors.Errorf("Rebuild(): expected %d children, got %d", len(e.children), len(children))
	}

	switch e.knd {
	case TY_SYM, TY_CONST:
		return eb.Copy(e), nil
	case TY_EXTRACT:
		return eb.Extract(children[0], e.indices[0], e.indices[1])
	case TY_ZEXT:
		return eb.ZExt(children[0], e.indices[0])
	case TY_SEXT:
		return eb.SExt(children[0], e.indices[0])
	case TY_NOT:
		return eb.Not(children[0]), nil
	case TY_NEG:
		return eb.Neg(children[0]), nil
	case TY_ITE:
		return eb.ITE(children[0], children[1], children[2])
	}

	var f func(lhs, rhs *ExprPtr) (*ExprPtr, error)
	switch e.knd {
	case TY_CONCAT:
		f = eb.Concat
	case TY_SHL:
		f = eb.Shl
	case TY_LSHR:
		f = eb.LShr
	case TY_ASHR:
		f = eb.AShr
	case TY_AND:
		f = eb.And
	case TY_OR:
		f = eb.Or
	case TY_XOR:
		f = eb.Xor
	case TY_ADD:
		f = eb.Add
	case TY_MUL:
		f = eb.Mul
	case TY_SDIV:
		f = eb.SDiv
	case TY_UDIV:
		f = eb.UDiv
	case TY_SREM:
		f = eb.SRem
	case TY_UREM:
		f = eb.URem
	case TY_ULT:
		f = eb.Ult
	case TY_ULE:
		f = eb.Ule
	case TY_UGT:
		f = eb.UGt
	case TY_UGE:
		f = eb.UGe
	case TY_SLT:
		f = eb.SLt
	case TY_SLE:
		f = eb.SLe
	case TY_SGT:
		f = eb.SGt
	case TY_SGE:
		f = eb.SGe
	case TY_EQ:
		f = eb.Eq
	default:
		return nil, errors.Errorf("Rebuild(): cannot rebuild %s", KindName(int(e.knd)))
	}
	return f(children[0], children[1])
}
