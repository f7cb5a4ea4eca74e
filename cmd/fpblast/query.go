package main

import (
	"sort"
	"strings"

	"github.com/borzacchiello/fpblast"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type opBuilder func(eb *fpblast.ExprBuilder, rm *fpblast.ExprPtr, args []*fpblast.ExprPtr) (*fpblast.ExprPtr, error)

type operation struct {
	arity int
	build opBuilder
}

func unary(f func(*fpblast.ExprBuilder, *fpblast.ExprPtr) (*fpblast.ExprPtr, error)) operation {
	return operation{1, func(eb *fpblast.ExprBuilder, _ *fpblast.ExprPtr, args []*fpblast.ExprPtr) (*fpblast.ExprPtr, error) {
		return f(eb, args[0])
	}}
}

func binary(f func(*fpblast.ExprBuilder, *fpblast.ExprPtr, *fpblast.ExprPtr) (*fpblast.ExprPtr, error)) operation {
	return operation{2, func(eb *fpblast.ExprBuilder, _ *fpblast.ExprPtr, args []*fpblast.ExprPtr) (*fpblast.ExprPtr, error) {
		return f(eb, args[0], args[1])
	}}
}

func roundedUnary(f func(*fpblast.ExprBuilder, *fpblast.ExprPtr, *fpblast.ExprPtr) (*fpblast.ExprPtr, error)) operation {
	return operation{1, func(eb *fpblast.ExprBuilder, rm *fpblast.ExprPtr, args []*fpblast.ExprPtr) (*fpblast.ExprPtr, error) {
		return f(eb, rm, args[0])
	}}
}

func roundedBinary(f func(*fpblast.ExprBuilder, *fpblast.ExprPtr, *fpblast.ExprPtr, *fpblast.ExprPtr) (*fpblast.ExprPtr, error)) operation {
	return operation{2, func(eb *fpblast.ExprBuilder, rm *fpblast.ExprPtr, args []*fpblast.ExprPtr) (*fpblast.ExprPtr, error) {
		return f(eb, rm, args[0], args[1])
	}}
}

func roundedTernary(f func(*fpblast.ExprBuilder, *fpblast.ExprPtr, *fpblast.ExprPtr, *fpblast.ExprPtr, *fpblast.ExprPtr) (*fpblast.ExprPtr, error)) operation {
	return operation{3, func(eb *fpblast.ExprBuilder, rm *fpblast.ExprPtr, args []*fpblast.ExprPtr) (*fpblast.ExprPtr, error) {
		return f(eb, rm, args[0], args[1], args[2])
	}}
}

var operations = map[string]operation{
	"abs":             unary((*fpblast.ExprBuilder).FPAbs),
	"neg":             unary((*fpblast.ExprBuilder).FPNeg),
	"isNormal":        unary((*fpblast.ExprBuilder).FPIsNormal),
	"isSubnormal":     unary((*fpblast.ExprBuilder).FPIsSubnormal),
	"isZero":          unary((*fpblast.ExprBuilder).FPIsZero),
	"isInfinite":      unary((*fpblast.ExprBuilder).FPIsInf),
	"isNaN":           unary((*fpblast.ExprBuilder).FPIsNaN),
	"isNegative":      unary((*fpblast.ExprBuilder).FPIsNeg),
	"isPositive":      unary((*fpblast.ExprBuilder).FPIsPos),
	"min":             binary((*fpblast.ExprBuilder).FPMin),
	"max":             binary((*fpblast.ExprBuilder).FPMax),
	"rem":             binary((*fpblast.ExprBuilder).FPRem),
	"eq":              binary((*fpblast.ExprBuilder).FPEq),
	"lt":              binary((*fpblast.ExprBuilder).FPLt),
	"leq":             binary((*fpblast.ExprBuilder).FPLeq),
	"gt":              binary((*fpblast.ExprBuilder).FPGt),
	"geq":             binary((*fpblast.ExprBuilder).FPGeq),
	"=":               binary((*fpblast.ExprBuilder).Eq),
	"add":             roundedBinary((*fpblast.ExprBuilder).FPAdd),
	"sub":             roundedBinary((*fpblast.ExprBuilder).FPSub),
	"mul":             roundedBinary((*fpblast.ExprBuilder).FPMul),
	"div":             roundedBinary((*fpblast.ExprBuilder).FPDiv),
	"sqrt":            roundedUnary((*fpblast.ExprBuilder).FPSqrt),
	"roundToIntegral": roundedUnary((*fpblast.ExprBuilder).FPRti),
	"fma":             roundedTernary((*fpblast.ExprBuilder).FPFma),
}

func operationNames() string {
	names := make([]string, 0, len(operations))
	for name := range operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

var operandNames = []string{"x", "y", "z"}

// queryOptions are the flags shared by the commands that build a query.
type queryOptions struct {
	op           string
	ebits        uint
	sbits        uint
	rm           string
	symbolicRM   bool
	printLowered bool
	dumpMetrics  bool
}

func addQueryFlags(cmd *cobra.Command, o *queryOptions) {
	cmd.Flags().StringVar(&o.op, "op", "isNaN", "operation to lower: "+operationNames())
	cmd.Flags().UintVar(&o.ebits, "ebits", 0, "exponent width (config value if zero)")
	cmd.Flags().UintVar(&o.sbits, "sbits", 0, "significand width, hidden bit included (config value if zero)")
	cmd.Flags().StringVar(&o.rm, "rm", "", "rounding mode (config value if empty)")
	cmd.Flags().BoolVar(&o.symbolicRM, "symbolic-rm", false, "use the rounding-mode variable r instead of a constant")
	cmd.Flags().BoolVar(&o.printLowered, "print", false, "print the lowered term")
}

// resolve fills the unset options from c.
func (o queryOptions) resolve(c Config) queryOptions {
	if o.ebits == 0 {
		o.ebits = c.EBits
	}
	if o.sbits == 0 {
		o.sbits = c.SBits
	}
	if o.rm == "" {
		o.rm = c.RoundingMode
	}
	return o
}

// query owns its root and every leaf it was built from.
type query struct {
	eb     *fpblast.ExprBuilder
	root   *fpblast.ExprPtr
	leaves []*fpblast.ExprPtr
}

func (q *query) release() {
	if q.root != nil {
		q.eb.Release(q.root)
	}
	for _, l := range q.leaves {
		q.eb.Release(l)
	}
}

// format is the sort of the floating-point operands.
func (q *query) format() *fpblast.Sort {
	return q.leaves[len(q.leaves)-1].Sort()
}

func buildQuery(eb *fpblast.ExprBuilder, o queryOptions) (*query, error) {
	op, ok := operations[o.op]
	if !ok {
		return nil, errors.Errorf("unknown operation %q (known: %s)", o.op, operationNames())
	}
	if o.ebits < 2 || o.sbits < 2 {
		return nil, errors.Errorf("invalid format ebits=%d sbits=%d", o.ebits, o.sbits)
	}
	q := &query{eb: eb}

	var rm *fpblast.ExprPtr
	if o.symbolicRM {
		rm = eb.RMS("r")
	} else {
		mode, err := fpblast.ParseRoundingMode(o.rm)
		if err != nil {
			return nil, err
		}
		rm = eb.RMV(mode)
	}
	q.leaves = append(q.leaves, rm)

	args := make([]*fpblast.ExprPtr, op.arity)
	for i := range args {
		args[i] = eb.FPS(operandNames[i], o.ebits, o.sbits)
		q.leaves = append(q.leaves, args[i])
	}

	root, err := op.build(eb, rm, args)
	if err != nil {
		q.release()
		return nil, errors.Wrap(err, o.op)
	}
	q.root = root
	return q, nil
}

// inputName maps a query variable to the symbol it becomes once lowered.
func inputName(name string) string {
	if name == "r" {
		return "rm!r"
	}
	return "fp!" + name
}
