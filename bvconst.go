package fpblast

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"
)

var zero = big.NewInt(0)
var one = big.NewInt(1)

type BoolConst struct {
	Value bool
}

func (b BoolConst) String() string {
	if b.Value {
		return "T"
	}
	return "F"
}

func BoolTrue() BoolConst {
	return BoolConst{true}
}

func BoolFalse() BoolConst {
	return BoolConst{false}
}

func (b BoolConst) Not() BoolConst {
	return BoolConst{!b.Value}
}

// AsBV returns the width-1 bit-vector encoding of b.
func (b BoolConst) AsBV() *BVConst {
	if b.Value {
		return MakeBVConst(1, 1)
	}
	return MakeBVConst(0, 1)
}

// BVConst is a concrete two's complement bit-vector of arbitrary width.
// The value is always kept in [0, 2^Size).
type BVConst struct {
	Size  uint
	mask  *big.Int
	value *big.Int
}

func makeMask(size uint) *big.Int {
	v := big.NewInt(1)
	v.Lsh(v, size)
	return v.Sub(v, one)
}

func MakeBVConst(value int64, size uint) *BVConst {
	return MakeBVConstFromBigint(big.NewInt(value), size)
}

func MakeBVConstFromBigint(value *big.Int, size uint) *BVConst {
	if size == 0 {
		return nil
	}

	mask := makeMask(size)
	v := new(big.Int).Set(value)
	if v.Cmp(zero) < 0 {
		v.Neg(v)
		v.Sub(v, one)
		v.Sub(mask, v)
	}
	v.And(v, mask)
	return &BVConst{Size: size, mask: mask, value: v}
}

func MakeBVConstFromString(value string, base int, size uint) *BVConst {
	v, ok := new(big.Int).SetString(value, base)
	if !ok {
		return nil
	}
	return MakeBVConstFromBigint(v, size)
}

func (bv *BVConst) Value() *big.Int {
	return new(big.Int).Set(bv.value)
}

func (bv *BVConst) IsNegative() bool {
	return bv.value.Bit(int(bv.Size)-1) == 1
}

func (bv *BVConst) IsZero() bool {
	return bv.value.Cmp(zero) == 0
}

func (bv *BVConst) IsOne() bool {
	return bv.value.Cmp(one) == 0
}

func (bv *BVConst) HasAllBitsSet() bool {
	return bv.value.Cmp(bv.mask) == 0
}

func (bv *BVConst) Copy() *BVConst {
	return &BVConst{
		Size:  bv.Size,
		mask:  new(big.Int).Set(bv.mask),
		value: new(big.Int).Set(bv.value),
	}
}

func (bv *BVConst) String() string {
	return fmt.Sprintf("<BV%d 0x%x>", bv.Size, bv.value)
}

func (bv *BVConst) FitInLong() bool {
	return bv.value.BitLen() <= 64
}

func (bv *BVConst) AsULong() uint64 {
	// if it does not `FitInLong`, result is undefined
	return bv.value.Uint64()
}

func (bv *BVConst) AsLong() int64 {
	// if it does not `FitInLong`, result is undefined
	if !bv.IsNegative() {
		return bv.value.Int64()
	}
	bvCpy := bv.Copy()
	bvCpy.Neg()
	return -int64(bvCpy.AsULong())
}

// signedValue returns the two's complement interpretation of bv.
func (bv *BVConst) signedValue() *big.Int {
	v := new(big.Int).Set(bv.value)
	if bv.IsNegative() {
		v.Sub(v, bv.mask)
		v.Sub(v, one)
	}
	return v
}

func (bv *BVConst) setSigned(v *big.Int) {
	r := MakeBVConstFromBigint(v, bv.Size)
	bv.value = r.value
}

func (bv *BVConst) checkSize(o *BVConst) error {
	if bv.Size != o.Size {
		return errors.Errorf("different sizes %d and %d", bv.Size, o.Size)
	}
	return nil
}

func (bv *BVConst) Not() {
	bv.value.Xor(bv.value, bv.mask)
}

func (bv *BVConst) Neg() {
	bv.Not()
	bv.value.Add(bv.value, one)
	bv.value.And(bv.value, bv.mask)
}

func (bv *BVConst) Add(o *BVConst) error {
	if err := bv.checkSize(o); err != nil {
		return err
	}
	bv.value.Add(bv.value, o.value)
	bv.value.And(bv.value, bv.mask)
	return nil
}

func (bv *BVConst) Sub(o *BVConst) error {
	if err := bv.checkSize(o); err != nil {
		return err
	}
	bv.value.Sub(bv.value, o.value)
	bv.value.And(bv.value, bv.mask)
	return nil
}

func (bv *BVConst) Mul(o *BVConst) error {
	if err := bv.checkSize(o); err != nil {
		return err
	}
	bv.value.Mul(bv.value, o.value)
	bv.value.And(bv.value, bv.mask)
	return nil
}

// UDiv follows SMT-LIB: division by zero yields all ones.
func (bv *BVConst) UDiv(o *BVConst) error {
	if err := bv.checkSize(o); err != nil {
		return err
	}
	if o.IsZero() {
		bv.value.Set(bv.mask)
		return nil
	}
	bv.value.Quo(bv.value, o.value)
	return nil
}

// SDiv truncates toward zero. Division by zero yields 1 for negative
// dividends and all ones otherwise.
func (bv *BVConst) SDiv(o *BVConst) error {
	if err := bv.checkSize(o); err != nil {
		return err
	}
	if o.IsZero() {
		if bv.IsNegative() {
			bv.value.Set(one)
		} else {
			bv.value.Set(bv.mask)
		}
		return nil
	}
	c1 := bv.signedValue()
	c2 := o.signedValue()
	bv.setSigned(c1.Quo(c1, c2))
	return nil
}

// URem follows SMT-LIB: remainder by zero yields the dividend.
func (bv *BVConst) URem(o *BVConst) error {
	if err := bv.checkSize(o); err != nil {
		return err
	}
	if o.IsZero() {
		return nil
	}
	bv.value.Rem(bv.value, o.value)
	return nil
}

// SRem takes the sign of the dividend. Remainder by zero yields the dividend.
func (bv *BVConst) SRem(o *BVConst) error {
	if err := bv.checkSize(o); err != nil {
		return err
	}
	if o.IsZero() {
		return nil
	}
	c1 := bv.signedValue()
	c2 := o.signedValue()
	bv.setSigned(c1.Rem(c1, c2))
	return nil
}

func (bv *BVConst) And(o *BVConst) error {
	if err := bv.checkSize(o); err != nil {
		return err
	}
	bv.value.And(bv.value, o.value)
	return nil
}

func (bv *BVConst) Or(o *BVConst) error {
	if err := bv.checkSize(o); err != nil {
		return err
	}
	bv.value.Or(bv.value, o.value)
	return nil
}

func (bv *BVConst) Xor(o *BVConst) error {
	if err := bv.checkSize(o); err != nil {
		return err
	}
	bv.value.Xor(bv.value, o.value)
	return nil
}

func (bv *BVConst) AShr(n uint) {
	if n == 0 {
		return
	}
	if bv.IsNegative() {
		if n >= bv.Size {
			bv.value.Set(bv.mask)
			return
		}
		bv.value.Rsh(bv.value, n)
		fill := makeMask(n)
		fill.Lsh(fill, bv.Size-n)
		bv.value.Or(bv.value, fill)
		return
	}
	bv.LShr(n)
}

func (bv *BVConst) LShr(n uint) {
	if n >= bv.Size {
		bv.value.SetInt64(0)
		return
	}
	bv.value.Rsh(bv.value, n)
}

func (bv *BVConst) Shl(n uint) {
	if n >= bv.Size {
		bv.value.SetInt64(0)
		return
	}
	bv.value.Lsh(bv.value, n)
	bv.value.And(bv.value, bv.mask)
}

// shiftAmount returns o as a shift distance, saturated to bv.Size.
func (bv *BVConst) shiftAmount(o *BVConst) uint {
	if o.value.Cmp(big.NewInt(int64(bv.Size))) >= 0 {
		return bv.Size
	}
	return uint(o.value.Uint64())
}

// Concat appends o as the low bits of bv.
func (bv *BVConst) Concat(o *BVConst) {
	bv.value.Lsh(bv.value, o.Size)
	bv.value.Or(bv.value, o.value)
	bv.Size += o.Size
	bv.mask = makeMask(bv.Size)
}

func (bv *BVConst) Truncate(high uint, low uint) error {
	if high < low {
		return errors.New("high is lower than low")
	}
	if high >= bv.Size {
		return errors.New("high is greater than Size")
	}

	bv.value.Rsh(bv.value, low)
	bv.Size = high - low + 1
	bv.mask = makeMask(bv.Size)
	bv.value.And(bv.value, bv.mask)
	return nil
}

func (bv *BVConst) Slice(high uint, low uint) *BVConst {
	res := bv.Copy()
	if err := res.Truncate(high, low); err != nil {
		return nil
	}
	return res
}

func (bv *BVConst) ZExt(bits uint) {
	bv.Size += bits
	bv.mask = makeMask(bv.Size)
}

func (bv *BVConst) SExt(bits uint) {
	if !bv.IsNegative() {
		bv.ZExt(bits)
		return
	}

	newBits := makeMask(bits)
	newBits.Lsh(newBits, bv.Size)
	bv.value.Or(bv.value, newBits)

	bv.Size += bits
	bv.mask = makeMask(bv.Size)
}

func (bv *BVConst) Eq(o *BVConst) (BoolConst, error) {
	if err := bv.checkSize(o); err != nil {
		return BoolFalse(), err
	}
	return BoolConst{bv.value.Cmp(o.value) == 0}, nil
}

func (bv *BVConst) NEq(o *BVConst) (BoolConst, error) {
	v, err := bv.Eq(o)
	return v.Not(), err
}

func (bv *BVConst) UGt(o *BVConst) (BoolConst, error) {
	if err := bv.checkSize(o); err != nil {
		return BoolFalse(), err
	}
	return BoolConst{bv.value.Cmp(o.value) > 0}, nil
}

func (bv *BVConst) UGe(o *BVConst) (BoolConst, error) {
	if err := bv.checkSize(o); err != nil {
		return BoolFalse(), err
	}
	return BoolConst{bv.value.Cmp(o.value) >= 0}, nil
}

func (bv *BVConst) Ult(o *BVConst) (BoolConst, error) {
	v, err := bv.UGe(o)
	return v.Not(), err
}

func (bv *BVConst) Ule(o *BVConst) (BoolConst, error) {
	v, err := bv.UGt(o)
	return v.Not(), err
}

func (bv *BVConst) SGt(o *BVConst) (BoolConst, error) {
	if err := bv.checkSize(o); err != nil {
		return BoolFalse(), err
	}
	return BoolConst{bv.signedValue().Cmp(o.signedValue()) > 0}, nil
}

func (bv *BVConst) SGe(o *BVConst) (BoolConst, error) {
	if err := bv.checkSize(o); err != nil {
		return BoolFalse(), err
	}
	return BoolConst{bv.signedValue().Cmp(o.signedValue()) >= 0}, nil
}

func (bv *BVConst) SLt(o *BVConst) (BoolConst, error) {
	v, err := bv.SGe(o)
	return v.Not(), err
}

func (bv *BVConst) SLe(o *BVConst) (BoolConst, error) {
	v, err := bv.SGt(o)
	return v.Not(), err
}
