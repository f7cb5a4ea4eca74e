//go:build z3

package fpblast

import (
	"github.com/aclements/go-z3/z3"
	"github.com/pkg/errors"
)

type z3backend struct {
	ctx    *z3.Context
	cfg    *z3.Config
	solver *z3.Solver

	lastSymbols map[string]z3.BV
}

func newZ3Backend() *z3backend {
	cfg := z3.NewContextConfig()
	ctx := z3.NewContext(cfg)
	return &z3backend{
		ctx:    ctx,
		cfg:    cfg,
		solver: z3.NewSolver(ctx),
	}
}

func (s *z3backend) clone() solverBackend {
	return newZ3Backend()
}

// assert adds query to the z3 solver, splitting top-level conjunctions.
func (s *z3backend) assert(query *ExprPtr, cache map[uint64]z3.BV) error {
	if query.Kind() == TY_AND && query.Size() == 1 {
		for _, child := range query.Children() {
			if err := s.assert(child, cache); err != nil {
				return err
			}
		}
		return nil
	}
	z3query, err := s.convert(query, cache)
	if err != nil {
		return err
	}
	s.solver.Assert(s.toBool(z3query))
	return nil
}

func (s *z3backend) check(query *ExprPtr) int {
	s.solver.Reset()
	s.lastSymbols = make(map[string]z3.BV)

	cache := make(map[uint64]z3.BV)
	if err := s.assert(query, cache); err != nil {
		return RESULT_ERROR
	}

	r, err := s.solver.Check()
	if err != nil {
		return RESULT_UNKNOWN
	}
	if r {
		return RESULT_SAT
	}
	return RESULT_UNSAT
}

func convertZ3Const(c z3.BV) (*BVConst, error) {
	v, ok := c.AsBigUnsigned()
	if !ok {
		return nil, errors.New("not a constant")
	}
	return MakeBVConstFromBigint(v, uint(c.Sort().BVSize())), nil
}

func (s *z3backend) model() map[string]*BVConst {
	m := s.solver.Model()
	if m == nil {
		return nil
	}

	res := make(map[string]*BVConst)
	for name, sym := range s.lastSymbols {
		v := m.Eval(sym, true).(z3.BV)
		c, err := convertZ3Const(v)
		if err != nil {
			panic("unable to create constant")
		}
		res[name] = c
	}
	return res
}

func (s *z3backend) evalUpto(bv *ExprPtr, pi *ExprPtr, n int) []*BVConst {
	s.solver.Reset()
	s.lastSymbols = make(map[string]z3.BV)
	cache := make(map[uint64]z3.BV)

	values := make([]*BVConst, 0)
	bvZ3, err := s.convert(bv, cache)
	if err != nil {
		return values
	}
	if err := s.assert(pi, cache); err != nil {
		return values
	}

	for n > 0 {
		r, err := s.solver.Check()
		if err != nil || !r {
			break
		}

		m := s.solver.Model()
		if m == nil {
			panic("no model")
		}

		v := m.Eval(bvZ3, true).(z3.BV)
		c, err := convertZ3Const(v)
		if err != nil {
			panic("unable to convert constant from Z3")
		}
		values = append(values, c)
		s.solver.Assert(bvZ3.NE(v))
		n -= 1
	}
	return values
}

func (s *z3backend) bit(v int) z3.BV {
	return s.ctx.FromInt(int64(v), s.ctx.BVSort(1)).(z3.BV)
}

// Width-1 bit-vectors play the role of booleans.
func (s *z3backend) toBool(v z3.BV) z3.Bool {
	return v.Eq(s.bit(1))
}

func (s *z3backend) fromBool(b z3.Bool) z3.BV {
	return b.IfThenElse(s.bit(1), s.bit(0)).(z3.BV)
}

func (s *z3backend) convert(e *ExprPtr, cache map[uint64]z3.BV) (z3.BV, error) {
	if v, ok := cache[e.Id()]; ok {
		return v, nil
	}
	if !e.IsBV() {
		return z3.BV{}, errors.Errorf("z3: cannot convert %s term %s", e.Sort(), KindName(e.Kind()))
	}

	children := make([]z3.BV, e.NumChildren())
	for i, child := range e.Children() {
		v, err := s.convert(child, cache)
		if err != nil {
			return z3.BV{}, err
		}
		children[i] = v
	}

	var result z3.BV
	switch e.Kind() {
	case TY_SYM:
		result = s.ctx.BVConst(e.Name(), int(e.Size()))
		s.lastSymbols[e.Name()] = result
	case TY_CONST:
		c, _ := e.GetConst()
		result = s.ctx.FromBigInt(c.Value(), s.ctx.BVSort(int(e.Size()))).(z3.BV)
	case TY_EXTRACT:
		idx := e.Indices()
		result = children[0].Extract(int(idx[0]), int(idx[1]))
	case TY_CONCAT:
		result = children[0].Concat(children[1])
	case TY_ZEXT:
		result = children[0].ZeroExtend(int(e.Indices()[0]))
	case TY_SEXT:
		result = children[0].SignExtend(int(e.Indices()[0]))
	case TY_ITE:
		result = s.toBool(children[0]).IfThenElse(children[1], children[2]).(z3.BV)
	case TY_NOT:
		result = children[0].Not()
	case TY_NEG:
		result = children[0].Neg()
	case TY_SHL:
		result = children[0].Lsh(children[1])
	case TY_LSHR:
		result = children[0].URsh(children[1])
	case TY_ASHR:
		result = children[0].SRsh(children[1])
	case TY_AND:
		result = children[0].And(children[1])
	case TY_OR:
		result = children[0].Or(children[1])
	case TY_XOR:
		result = children[0].Xor(children[1])
	case TY_ADD:
		result = children[0].Add(children[1])
	case TY_MUL:
		result = children[0].Mul(children[1])
	case TY_SDIV:
		result = children[0].SDiv(children[1])
	case TY_UDIV:
		result = children[0].UDiv(children[1])
	case TY_SREM:
		result = children[0].SRem(children[1])
	case TY_UREM:
		result = children[0].URem(children[1])
	case TY_ULT:
		result = s.fromBool(children[0].ULT(children[1]))
	case TY_ULE:
		result = s.fromBool(children[0].ULE(children[1]))
	case TY_UGT:
		result = s.fromBool(children[0].UGT(children[1]))
	case TY_UGE:
		result = s.fromBool(children[0].UGE(children[1]))
	case TY_SLT:
		result = s.fromBool(children[0].SLT(children[1]))
	case TY_SLE:
		result = s.fromBool(children[0].SLE(children[1]))
	case TY_SGT:
		result = s.fromBool(children[0].SGT(children[1]))
	case TY_SGE:
		result = s.fromBool(children[0].SGE(children[1]))
	case TY_EQ:
		result = s.fromBool(children[0].Eq(children[1]))
	default:
		return z3.BV{}, errors.Errorf("z3: unsupported kind %s", KindName(e.Kind()))
	}

	cache[e.Id()] = result
	return result, nil
}
