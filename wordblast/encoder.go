package wordblast

import (
	"github.com/borzacchiello/fpblast"
	"github.com/pkg/errors"
)

var ErrUnsupported = errors.New("unsupported floating-point operation")

func unsupported(kind int) error {
	return errors.Wrapf(ErrUnsupported, "%s", fpblast.KindName(kind))
}

// Application is one floating-point operation with its operands already
// lowered. Every wrapper in it is owned by the WordBlaster.
type Application struct {
	Kind int
	// Format of the floating-point operands, or of the result when there
	// are none.
	Format SortInfo
	// Target is the result format of floating-point valued operations.
	Target SortInfo
	// Width of the result of fp.to_sbv and fp.to_ubv.
	Width uint
	RM    RM
	HasRM bool
	// Args are the operands in node order, rounding mode excluded. Floating
	// point operands are packed.
	Args []UBV
}

// Encoder lowers the operations the WordBlaster cannot express by itself.
// Results are owned by the caller.
type Encoder interface {
	Float(t Traits, app Application) (UBV, error)
	Predicate(t Traits, app Application) (Prop, error)
	Signed(t Traits, app Application) (SBV, error)
	Unsigned(t Traits, app Application) (UBV, error)
}

// Reference encodes the operations that need no rounding. Everything else
// fails with ErrUnsupported.
type Reference struct{}

func (Reference) Float(t Traits, app Application) (UBV, error) {
	o := ops{Traits: t}
	switch app.Kind {
	case fpblast.TY_FP_ABS:
		return o.Absolute(app.Format, app.Args[0]), nil
	case fpblast.TY_FP_NEG:
		return o.Negate(app.Format, app.Args[0]), nil
	case fpblast.TY_FP_MIN:
		return o.Min(app.Format, app.Args[0], app.Args[1]), nil
	case fpblast.TY_FP_MAX:
		return o.Max(app.Format, app.Args[0], app.Args[1]), nil
	case fpblast.TY_FP_TO_FP:
		// Converting to the same format is exact.
		if app.Format.Sort() == app.Target.Sort() {
			return app.Args[0].Copy(), nil
		}
	}
	return UBV{}, unsupported(app.Kind)
}

func (Reference) Predicate(t Traits, app Application) (Prop, error) {
	o := ops{Traits: t}
	f := app.Format
	switch app.Kind {
	case fpblast.TY_FP_IS_NORMAL:
		return o.IsNormal(f, app.Args[0]), nil
	case fpblast.TY_FP_IS_SUBNORMAL:
		return o.IsSubnormal(f, app.Args[0]), nil
	case fpblast.TY_FP_IS_ZERO:
		return o.IsZero(f, app.Args[0]), nil
	case fpblast.TY_FP_IS_INF:
		return o.IsInf(f, app.Args[0]), nil
	case fpblast.TY_FP_IS_NAN:
		return o.IsNaN(f, app.Args[0]), nil
	case fpblast.TY_FP_IS_NEG:
		return o.IsNegative(f, app.Args[0]), nil
	case fpblast.TY_FP_IS_POS:
		return o.IsPositive(f, app.Args[0]), nil
	case fpblast.TY_FP_EQ:
		return o.Equal(f, app.Args[0], app.Args[1]), nil
	case fpblast.TY_EQ:
		return o.SMTLibEqual(f, app.Args[0], app.Args[1]), nil
	case fpblast.TY_FP_LT:
		return o.LessThan(f, app.Args[0], app.Args[1]), nil
	case fpblast.TY_FP_LEQ:
		return o.LessThanOrEqual(f, app.Args[0], app.Args[1]), nil
	case fpblast.TY_FP_GT:
		return o.LessThan(f, app.Args[1], app.Args[0]), nil
	case fpblast.TY_FP_GEQ:
		return o.LessThanOrEqual(f, app.Args[1], app.Args[0]), nil
	}
	return Prop{}, unsupported(app.Kind)
}

func (Reference) Signed(t Traits, app Application) (SBV, error) {
	return SBV{}, unsupported(app.Kind)
}

func (Reference) Unsigned(t Traits, app Application) (UBV, error) {
	return UBV{}, unsupported(app.Kind)
}
