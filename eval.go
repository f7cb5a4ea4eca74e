package fpblast

import (
	"github.com/pkg/errors"
)

// Eval substitutes the bit-vector symbols found in interpr and rebuilds e
// through the builder, so that fully assigned terms fold to constants.
// Symbols missing from interpr are left in place.
func (eb *ExprBuilder) Eval(e *ExprPtr, interpr map[string]*BVConst) (*ExprPtr, error) {
	cache := make(map[uint64]*ExprPtr)
	defer func() {
		for _, r := range cache {
			eb.Release(r)
		}
	}()

	r, err := eb.evalInternal(e, cache, interpr)
	if err != nil {
		return nil, err
	}
	return eb.Copy(r), nil
}

// EvalConst evaluates e and requires the result to be a constant.
func (eb *ExprBuilder) EvalConst(e *ExprPtr, interpr map[string]*BVConst) (*BVConst, error) {
	r, err := eb.Eval(e, interpr)
	if err != nil {
		return nil, err
	}
	defer eb.Release(r)

	if !r.IsConst() {
		return nil, errors.Errorf("EvalConst(): %s is not a constant", r)
	}
	return r.GetConst()
}

// evalInternal returns a borrowed node owned by cache.
func (eb *ExprBuilder) evalInternal(e *ExprPtr, cache map[uint64]*ExprPtr, interpr map[string]*BVConst) (*ExprPtr, error) {
	if r, ok := cache[e.id]; ok {
		return r, nil
	}

	var result *ExprPtr
	var err error
	switch e.knd {
	case TY_SYM:
		if c, ok := interpr[e.name]; ok {
			if c.Size != e.Size() {
				return nil, errors.Errorf("Eval(): symbol %s has size %d, got a value of size %d", e.name, e.Size(), c.Size)
			}
			result = eb.mkConst(c)
		} else {
			result = eb.Copy(e)
		}
	case TY_CONST:
		result = eb.Copy(e)
	default:
		if !e.IsBV() || e.knd > TY_EQ {
			return nil, errors.Errorf("Eval(): unsupported term %s", KindName(int(e.knd)))
		}
		children := make([]*ExprPtr, len(e.children))
		for i, c := range e.children {
			children[i], err = eb.evalInternal(c, cache, interpr)
			if err != nil {
				return nil, err
			}
		}
		result, err = eb.Rebuild(e, children)
		if err != nil {
			return nil, errors.Wrap(err, "Eval")
		}
	}

	cache[e.id] = result
	return result, nil
}
