package fpblast

import (
	"fmt"
)

const (
	SORT_BV = 1
	SORT_FP = 2
	SORT_RM = 3
)

// Width of the bit-vector encoding of a rounding mode.
const RM_WIDTH = 3

type Sort struct {
	id     uint64
	kind   uint8
	width  uint
	ewidth uint
	swidth uint
	refs   int
}

type sortKey struct {
	kind   uint8
	width  uint
	ewidth uint
	swidth uint
}

func (s *Sort) Id() uint64 {
	return s.id
}

func (s *Sort) Kind() int {
	return int(s.kind)
}

func (s *Sort) IsBV() bool {
	return s.kind == SORT_BV
}

func (s *Sort) IsFP() bool {
	return s.kind == SORT_FP
}

func (s *Sort) IsRM() bool {
	return s.kind == SORT_RM
}

// Width returns the number of bits needed to represent a value of the sort.
// For floating-point sorts this is the packed IEEE-754 width.
func (s *Sort) Width() uint {
	return s.width
}

func (s *Sort) ExponentWidth() uint {
	return s.ewidth
}

// SignificandWidth includes the hidden bit.
func (s *Sort) SignificandWidth() uint {
	return s.swidth
}

func (s *Sort) RefCount() int {
	return s.refs
}

func (s *Sort) String() string {
	switch s.kind {
	case SORT_BV:
		return fmt.Sprintf("BV%d", s.width)
	case SORT_FP:
		return fmt.Sprintf("FP<%d,%d>", s.ewidth, s.swidth)
	case SORT_RM:
		return "RM"
	}
	return "?"
}

func (eb *ExprBuilder) getOrCreateSort(key sortKey) *Sort {
	eb.Stats.Acquired += 1
	if s, ok := eb.sorts[key]; ok {
		s.refs += 1
		return s
	}
	eb.nextSortId += 1
	s := &Sort{
		id:     eb.nextSortId,
		kind:   key.kind,
		width:  key.width,
		ewidth: key.ewidth,
		swidth: key.swidth,
		refs:   1,
	}
	eb.sorts[key] = s
	return s
}

func (eb *ExprBuilder) SortBV(width uint) *Sort {
	if width == 0 {
		panic("SortBV(): zero width")
	}
	return eb.getOrCreateSort(sortKey{kind: SORT_BV, width: width})
}

// SortFP returns the floating-point sort with the given exponent and
// significand widths. The significand width counts the hidden bit.
func (eb *ExprBuilder) SortFP(ewidth, swidth uint) *Sort {
	if ewidth < 2 || swidth < 2 {
		panic(fmt.Sprintf("SortFP(): invalid widths %d, %d", ewidth, swidth))
	}
	return eb.getOrCreateSort(sortKey{kind: SORT_FP, width: ewidth + swidth, ewidth: ewidth, swidth: swidth})
}

func (eb *ExprBuilder) SortRM() *Sort {
	return eb.getOrCreateSort(sortKey{kind: SORT_RM, width: RM_WIDTH})
}

func (eb *ExprBuilder) CopySort(s *Sort) *Sort {
	if s.refs <= 0 {
		panic("CopySort(): sort already released")
	}
	eb.Stats.Acquired += 1
	s.refs += 1
	return s
}

func (eb *ExprBuilder) ReleaseSort(s *Sort) {
	if s.refs <= 0 {
		panic("ReleaseSort(): sort already released")
	}
	eb.Stats.Released += 1
	s.refs -= 1
	if s.refs == 0 {
		delete(eb.sorts, sortKey{kind: s.kind, width: s.width, ewidth: s.ewidth, swidth: s.swidth})
	}
}
