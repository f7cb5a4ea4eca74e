package fpblast

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type RoundingMode uint

const (
	RNA RoundingMode = iota
	RNE
	RTN
	RTP
	RTZ
)

// RM_MAX is the number of rounding modes. Valid codes are [0, RM_MAX).
const RM_MAX = 5

var rmNames = [RM_MAX]string{"RNA", "RNE", "RTN", "RTP", "RTZ"}

var rmLongNames = [RM_MAX]string{
	"roundNearestTiesToAway",
	"roundNearestTiesToEven",
	"roundTowardNegative",
	"roundTowardPositive",
	"roundTowardZero",
}

func (rm RoundingMode) String() string {
	if rm >= RM_MAX {
		return fmt.Sprintf("RM(%d)", uint(rm))
	}
	return rmNames[rm]
}

// ParseRoundingMode accepts both the short and the SMT-LIB long names.
func ParseRoundingMode(s string) (RoundingMode, error) {
	for i := 0; i < RM_MAX; i++ {
		if strings.EqualFold(s, rmNames[i]) || s == rmLongNames[i] {
			return RoundingMode(i), nil
		}
	}
	return 0, errors.Errorf("unknown rounding mode %q", s)
}

func checkFP(op string, es ...*ExprPtr) error {
	for _, e := range es {
		if !e.IsFP() {
			return errors.Errorf("%s(): %s is not a floating-point term", op, e.sort)
		}
	}
	for i := 1; i < len(es); i++ {
		if es[i].sort != es[0].sort {
			return errors.Errorf("%s(): different sorts %s and %s", op, es[0].sort, es[i].sort)
		}
	}
	return nil
}

func checkFPWidths(op string, ewidth, swidth uint) error {
	if ewidth < 2 || swidth < 2 {
		return errors.Errorf("%s(): invalid floating-point widths %d, %d", op, ewidth, swidth)
	}
	return nil
}

func checkRM(op string, rm *ExprPtr) error {
	if !rm.IsRM() {
		return errors.Errorf("%s(): %s is not a rounding mode", op, rm.sort)
	}
	return nil
}

// FPS returns a floating-point variable with ewidth exponent bits and swidth
// significand bits (hidden bit included).
func (eb *ExprBuilder) FPS(name string, ewidth, swidth uint) *ExprPtr {
	return eb.getOrCreate(&ExprPtr{knd: TY_FP_SYM, sort: eb.SortFP(ewidth, swidth), name: name})
}

func (eb *ExprBuilder) RMS(name string) *ExprPtr {
	return eb.getOrCreate(&ExprPtr{knd: TY_RM_SYM, sort: eb.SortRM(), name: name})
}

func (eb *ExprBuilder) RMV(rm RoundingMode) *ExprPtr {
	if rm >= RM_MAX {
		panic(fmt.Sprintf("RMV(): invalid rounding mode %d", uint(rm)))
	}
	return eb.mk(TY_RM_CONST, eb.SortRM(), nil, uint(rm))
}

// FPFromTriple builds a floating-point term from its sign, biased exponent
// and trailing significand.
func (eb *ExprBuilder) FPFromTriple(sign, exp, sig *ExprPtr) (*ExprPtr, error) {
	if err := checkBV("FPFromTriple", sign, exp, sig); err != nil {
		return nil, err
	}
	if sign.Size() != 1 {
		return nil, errors.Errorf("FPFromTriple(): sign of size %d", sign.Size())
	}
	if err := checkFPWidths("FPFromTriple", exp.Size(), sig.Size()+1); err != nil {
		return nil, err
	}
	return eb.mk(TY_FP_FP, eb.SortFP(exp.Size(), sig.Size()+1), []*ExprPtr{sign, exp, sig}), nil
}

// FPFromBits reinterprets a packed IEEE-754 bit-vector as a floating-point term.
func (eb *ExprBuilder) FPFromBits(bv *ExprPtr, ewidth, swidth uint) (*ExprPtr, error) {
	if err := checkBV("FPFromBits", bv); err != nil {
		return nil, err
	}
	if err := checkFPWidths("FPFromBits", ewidth, swidth); err != nil {
		return nil, err
	}
	if bv.Size() != ewidth+swidth {
		return nil, errors.Errorf("FPFromBits(): size %d does not match FP<%d,%d>", bv.Size(), ewidth, swidth)
	}
	return eb.mk(TY_FP_FROM_BITS, eb.SortFP(ewidth, swidth), []*ExprPtr{bv}), nil
}

func (eb *ExprBuilder) fpUnary(op string, kind int, x *ExprPtr) (*ExprPtr, error) {
	if err := checkFP(op, x); err != nil {
		return nil, err
	}
	return eb.mk(kind, eb.CopySort(x.sort), []*ExprPtr{x}), nil
}

func (eb *ExprBuilder) fpRounded(op string, kind int, rm *ExprPtr, args ...*ExprPtr) (*ExprPtr, error) {
	if err := checkRM(op, rm); err != nil {
		return nil, err
	}
	if err := checkFP(op, args...); err != nil {
		return nil, err
	}
	children := append([]*ExprPtr{rm}, args...)
	return eb.mk(kind, eb.CopySort(args[0].sort), children), nil
}

func (eb *ExprBuilder) fpBinary(op string, kind int, x, y *ExprPtr) (*ExprPtr, error) {
	if err := checkFP(op, x, y); err != nil {
		return nil, err
	}
	return eb.mk(kind, eb.CopySort(x.sort), []*ExprPtr{x, y}), nil
}

func (eb *ExprBuilder) fpPredicate(op string, kind int, args ...*ExprPtr) (*ExprPtr, error) {
	if err := checkFP(op, args...); err != nil {
		return nil, err
	}
	return eb.mk(kind, eb.SortBV(1), args), nil
}

func (eb *ExprBuilder) FPAbs(x *ExprPtr) (*ExprPtr, error) {
	return eb.fpUnary("FPAbs", TY_FP_ABS, x)
}

func (eb *ExprBuilder) FPNeg(x *ExprPtr) (*ExprPtr, error) {
	if x.knd == TY_FP_NEG {
		return eb.Copy(x.children[0]), nil
	}
	return eb.fpUnary("FPNeg", TY_FP_NEG, x)
}

func (eb *ExprBuilder) FPAdd(rm, x, y *ExprPtr) (*ExprPtr, error) {
	return eb.fpRounded("FPAdd", TY_FP_ADD, rm, x, y)
}

func (eb *ExprBuilder) FPSub(rm, x, y *ExprPtr) (*ExprPtr, error) {
	return eb.fpRounded("FPSub", TY_FP_SUB, rm, x, y)
}

func (eb *ExprBuilder) FPMul(rm, x, y *ExprPtr) (*ExprPtr, error) {
	return eb.fpRounded("FPMul", TY_FP_MUL, rm, x, y)
}

func (eb *ExprBuilder) FPDiv(rm, x, y *ExprPtr) (*ExprPtr, error) {
	return eb.fpRounded("FPDiv", TY_FP_DIV, rm, x, y)
}

func (eb *ExprBuilder) FPFma(rm, x, y, z *ExprPtr) (*ExprPtr, error) {
	return eb.fpRounded("FPFma", TY_FP_FMA, rm, x, y, z)
}

func (eb *ExprBuilder) FPSqrt(rm, x *ExprPtr) (*ExprPtr, error) {
	return eb.fpRounded("FPSqrt", TY_FP_SQRT, rm, x)
}

func (eb *ExprBuilder) FPRti(rm, x *ExprPtr) (*ExprPtr, error) {
	return eb.fpRounded("FPRti", TY_FP_RTI, rm, x)
}

func (eb *ExprBuilder) FPRem(x, y *ExprPtr) (*ExprPtr, error) {
	return eb.fpBinary("FPRem", TY_FP_REM, x, y)
}

func (eb *ExprBuilder) FPMin(x, y *ExprPtr) (*ExprPtr, error) {
	return eb.fpBinary("FPMin", TY_FP_MIN, x, y)
}

func (eb *ExprBuilder) FPMax(x, y *ExprPtr) (*ExprPtr, error) {
	return eb.fpBinary("FPMax", TY_FP_MAX, x, y)
}

func (eb *ExprBuilder) FPIsNormal(x *ExprPtr) (*ExprPtr, error) {
	return eb.fpPredicate("FPIsNormal", TY_FP_IS_NORMAL, x)
}

func (eb *ExprBuilder) FPIsSubnormal(x *ExprPtr) (*ExprPtr, error) {
	return eb.fpPredicate("FPIsSubnormal", TY_FP_IS_SUBNORMAL, x)
}

func (eb *ExprBuilder) FPIsZero(x *ExprPtr) (*ExprPtr, error) {
	return eb.fpPredicate("FPIsZero", TY_FP_IS_ZERO, x)
}

func (eb *ExprBuilder) FPIsInf(x *ExprPtr) (*ExprPtr, error) {
	return eb.fpPredicate("FPIsInf", TY_FP_IS_INF, x)
}

func (eb *ExprBuilder) FPIsNaN(x *ExprPtr) (*ExprPtr, error) {
	return eb.fpPredicate("FPIsNaN", TY_FP_IS_NAN, x)
}

func (eb *ExprBuilder) FPIsNeg(x *ExprPtr) (*ExprPtr, error) {
	return eb.fpPredicate("FPIsNeg", TY_FP_IS_NEG, x)
}

func (eb *ExprBuilder) FPIsPos(x *ExprPtr) (*ExprPtr, error) {
	return eb.fpPredicate("FPIsPos", TY_FP_IS_POS, x)
}

// FPEq is IEEE equality: NaN is different from everything and -0 == +0.
func (eb *ExprBuilder) FPEq(x, y *ExprPtr) (*ExprPtr, error) {
	return eb.fpPredicate("FPEq", TY_FP_EQ, x, y)
}

func (eb *ExprBuilder) FPLt(x, y *ExprPtr) (*ExprPtr, error) {
	return eb.fpPredicate("FPLt", TY_FP_LT, x, y)
}

func (eb *ExprBuilder) FPLeq(x, y *ExprPtr) (*ExprPtr, error) {
	return eb.fpPredicate("FPLeq", TY_FP_LEQ, x, y)
}

func (eb *ExprBuilder) FPGt(x, y *ExprPtr) (*ExprPtr, error) {
	return eb.fpPredicate("FPGt", TY_FP_GT, x, y)
}

func (eb *ExprBuilder) FPGeq(x, y *ExprPtr) (*ExprPtr, error) {
	return eb.fpPredicate("FPGeq", TY_FP_GEQ, x, y)
}

func (eb *ExprBuilder) fpToBV(op string, kind int, rm, x *ExprPtr, width uint) (*ExprPtr, error) {
	if err := checkRM(op, rm); err != nil {
		return nil, err
	}
	if err := checkFP(op, x); err != nil {
		return nil, err
	}
	if width == 0 {
		return nil, errors.Errorf("%s(): zero width", op)
	}
	return eb.mk(kind, eb.SortBV(width), []*ExprPtr{rm, x}, width), nil
}

func (eb *ExprBuilder) FPToSBV(rm, x *ExprPtr, width uint) (*ExprPtr, error) {
	return eb.fpToBV("FPToSBV", TY_FP_TO_SBV, rm, x, width)
}

func (eb *ExprBuilder) FPToUBV(rm, x *ExprPtr, width uint) (*ExprPtr, error) {
	return eb.fpToBV("FPToUBV", TY_FP_TO_UBV, rm, x, width)
}

func (eb *ExprBuilder) FPToFP(rm, x *ExprPtr, ewidth, swidth uint) (*ExprPtr, error) {
	if err := checkRM("FPToFP", rm); err != nil {
		return nil, err
	}
	if err := checkFP("FPToFP", x); err != nil {
		return nil, err
	}
	if err := checkFPWidths("FPToFP", ewidth, swidth); err != nil {
		return nil, err
	}
	return eb.mk(TY_FP_TO_FP, eb.SortFP(ewidth, swidth), []*ExprPtr{rm, x}), nil
}

func (eb *ExprBuilder) fpFromBV(op string, kind int, rm, bv *ExprPtr, ewidth, swidth uint) (*ExprPtr, error) {
	if err := checkRM(op, rm); err != nil {
		return nil, err
	}
	if err := checkBV(op, bv); err != nil {
		return nil, err
	}
	if err := checkFPWidths(op, ewidth, swidth); err != nil {
		return nil, err
	}
	return eb.mk(kind, eb.SortFP(ewidth, swidth), []*ExprPtr{rm, bv}), nil
}

func (eb *ExprBuilder) FPFromSBV(rm, bv *ExprPtr, ewidth, swidth uint) (*ExprPtr, error) {
	return eb.fpFromBV("FPFromSBV", TY_FP_FROM_SBV, rm, bv, ewidth, swidth)
}

func (eb *ExprBuilder) FPFromUBV(rm, bv *ExprPtr, ewidth, swidth uint) (*ExprPtr, error) {
	return eb.fpFromBV("FPFromUBV", TY_FP_FROM_UBV, rm, bv, ewidth, swidth)
}
