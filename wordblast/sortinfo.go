package wordblast

import (
	"github.com/borzacchiello/fpblast"
)

// SortInfo describes a floating-point format through a reference to the
// corresponding host sort.
type SortInfo struct {
	eb   *fpblast.ExprBuilder
	sort *fpblast.Sort
}

func NewSortInfo(eb *fpblast.ExprBuilder, s *fpblast.Sort) SortInfo {
	mustHold(s.IsFP(), "NewSortInfo(): %s is not a floating-point sort", s)
	return SortInfo{eb: eb, sort: eb.CopySort(s)}
}

// NewSortInfoFromWidths takes the significand width with the hidden bit.
func NewSortInfoFromWidths(eb *fpblast.ExprBuilder, ewidth, swidth uint) SortInfo {
	return SortInfo{eb: eb, sort: eb.SortFP(ewidth, swidth)}
}

func (s SortInfo) Copy() SortInfo {
	return NewSortInfo(s.eb, s.sort)
}

func (s SortInfo) Release() {
	s.eb.ReleaseSort(s.sort)
}

func (s SortInfo) Sort() *fpblast.Sort {
	return s.sort
}

func (s SortInfo) ExponentWidth() uint {
	return s.sort.ExponentWidth()
}

func (s SortInfo) SignificandWidth() uint {
	return s.sort.SignificandWidth()
}

func (s SortInfo) PackedWidth() uint {
	return s.sort.Width()
}

func (s SortInfo) String() string {
	return s.sort.String()
}
