//go:build z3

package fpblast

import (
	"github.com/pkg/errors"
)

const (
	RESULT_ERROR   = 0
	RESULT_SAT     = 1
	RESULT_UNSAT   = 2
	RESULT_UNKNOWN = 3
)

type solverBackend interface {
	clone() solverBackend
	check(query *ExprPtr) int
	model() map[string]*BVConst
	evalUpto(bv *ExprPtr, pi *ExprPtr, n int) []*BVConst
}

// Solver accumulates width-1 constraints over bit-vector terms. It holds a
// reference to every constraint and symbol it stores until Delete.
type Solver struct {
	eb               *ExprBuilder
	backend          solverBackend
	constraints      map[uint64]*ExprPtr
	symbols          map[uint64]*ExprPtr
	symToConstraints map[uint64]map[uint64]*ExprPtr
	symDependencies  map[uint64]map[uint64]*ExprPtr
}

func NewZ3Solver(eb *ExprBuilder) *Solver {
	return &Solver{
		eb:               eb,
		backend:          newZ3Backend(),
		constraints:      make(map[uint64]*ExprPtr),
		symbols:          make(map[uint64]*ExprPtr),
		symToConstraints: make(map[uint64]map[uint64]*ExprPtr),
		symDependencies:  make(map[uint64]map[uint64]*ExprPtr),
	}
}

func (s *Solver) Clone() *Solver {
	clone := &Solver{
		eb:               s.eb,
		backend:          s.backend.clone(),
		constraints:      make(map[uint64]*ExprPtr),
		symbols:          make(map[uint64]*ExprPtr),
		symToConstraints: make(map[uint64]map[uint64]*ExprPtr),
		symDependencies:  make(map[uint64]map[uint64]*ExprPtr),
	}
	for k, val := range s.constraints {
		clone.constraints[k] = s.eb.Copy(val)
	}
	for k, val := range s.symbols {
		clone.symbols[k] = s.eb.Copy(val)
	}
	for k1, val1 := range s.symToConstraints {
		set := make(map[uint64]*ExprPtr)
		for k2, val2 := range val1 {
			set[k2] = val2
		}
		clone.symToConstraints[k1] = set
	}
	for k1, val1 := range s.symDependencies {
		set := make(map[uint64]*ExprPtr)
		for k2, val2 := range val1 {
			set[k2] = val2
		}
		clone.symDependencies[k1] = set
	}
	return clone
}

// Delete gives back every reference held by the solver.
func (s *Solver) Delete() {
	for _, c := range s.constraints {
		s.eb.Release(c)
	}
	for _, sym := range s.symbols {
		s.eb.Release(sym)
	}
	s.constraints = make(map[uint64]*ExprPtr)
	s.symbols = make(map[uint64]*ExprPtr)
	s.symToConstraints = make(map[uint64]map[uint64]*ExprPtr)
	s.symDependencies = make(map[uint64]map[uint64]*ExprPtr)
}

// keepSymbol takes ownership of sym, returning the stored handle.
func (s *Solver) keepSymbol(sym *ExprPtr) *ExprPtr {
	if old, ok := s.symbols[sym.Id()]; ok {
		s.eb.Release(sym)
		return old
	}
	s.symbols[sym.Id()] = sym
	return sym
}

func (s *Solver) registerConstraintForSym(sym *ExprPtr, constraint *ExprPtr) {
	if _, ok := s.symToConstraints[sym.Id()]; !ok {
		s.symToConstraints[sym.Id()] = make(map[uint64]*ExprPtr)
	}
	s.symToConstraints[sym.Id()][constraint.Id()] = constraint
}

func (s *Solver) registerSymDependency(sym1 *ExprPtr, sym2 *ExprPtr) {
	if _, ok := s.symDependencies[sym1.Id()]; !ok {
		s.symDependencies[sym1.Id()] = make(map[uint64]*ExprPtr)
	}
	if _, ok := s.symDependencies[sym2.Id()]; !ok {
		s.symDependencies[sym2.Id()] = make(map[uint64]*ExprPtr)
	}
	s.symDependencies[sym1.Id()][sym2.Id()] = sym2
	s.symDependencies[sym2.Id()][sym1.Id()] = sym1
}

func (s *Solver) getDependentConstraints(e *ExprPtr) []*ExprPtr {
	// return all the constraints that are related with the input one (even indirectly)
	syms := s.eb.InvolvedInputs(e)
	defer func() {
		for _, sym := range syms {
			s.eb.Release(sym)
		}
	}()

	related := make(map[uint64]bool)
	for _, sym := range syms {
		related[sym.Id()] = true
		for id := range s.symDependencies[sym.Id()] {
			related[id] = true
		}
	}

	constraints := make(map[uint64]*ExprPtr)
	for id := range related {
		for _, c := range s.symToConstraints[id] {
			constraints[c.Id()] = c
		}
	}

	res := make([]*ExprPtr, 0, len(constraints))
	for _, c := range constraints {
		res = append(res, c)
	}
	return res
}

func (s *Solver) Add(constraint *ExprPtr) error {
	if !constraint.IsBV() || constraint.Size() != 1 {
		return errors.Errorf("Add(): constraint of sort %s", constraint.Sort())
	}
	if _, ok := s.constraints[constraint.Id()]; ok {
		return nil
	}
	if constraint.IsTrue() {
		return nil
	}
	s.constraints[constraint.Id()] = s.eb.Copy(constraint)

	syms := s.eb.InvolvedInputs(constraint)
	for i := range syms {
		syms[i] = s.keepSymbol(syms[i])
	}
	for i := 0; i < len(syms); i++ {
		s.registerConstraintForSym(syms[i], constraint)
		for j := i + 1; j < len(syms); j++ {
			s.registerSymDependency(syms[i], syms[j])
		}
	}
	return nil
}

func (s *Solver) conjunction(constraints []*ExprPtr) *ExprPtr {
	res := s.eb.BoolVal(true)
	for _, c := range constraints {
		next, err := s.eb.And(res, c)
		if err != nil {
			// if it happens, we have a malformed path constraint
			panic(err)
		}
		s.eb.Release(res)
		res = next
	}
	return res
}

// Pi returns the conjunction of every constraint.
func (s *Solver) Pi() *ExprPtr {
	constraints := make([]*ExprPtr, 0, len(s.constraints))
	for _, c := range s.constraints {
		constraints = append(constraints, c)
	}
	return s.conjunction(constraints)
}

func (s *Solver) pi(e *ExprPtr) *ExprPtr {
	return s.conjunction(s.getDependentConstraints(e))
}

func (s *Solver) Satisfiable() int {
	pi := s.Pi()
	defer s.eb.Release(pi)
	return s.backend.check(pi)
}

func (s *Solver) CheckSat(query *ExprPtr) int {
	pi := s.pi(query)
	defer s.eb.Release(pi)
	q, err := s.eb.And(pi, query)
	if err != nil {
		return RESULT_ERROR
	}
	defer s.eb.Release(q)
	return s.backend.check(q)
}

func (s *Solver) Model() map[string]*BVConst {
	return s.backend.model()
}

func (s *Solver) Eval(bv *ExprPtr) *BVConst {
	res := s.EvalUpto(bv, 1)
	if len(res) == 0 {
		return nil
	}
	return res[0]
}

func (s *Solver) EvalUpto(bv *ExprPtr, n int) []*BVConst {
	pi := s.pi(bv)
	defer s.eb.Release(pi)
	return s.backend.evalUpto(bv, pi, n)
}
