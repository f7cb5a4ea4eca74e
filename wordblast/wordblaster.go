// Package wordblast lowers floating-point terms of an fpblast graph to pure
// bit-vector terms.
//
// The WordBlaster walks a term once, memoizing the lowered form of every
// floating-point, rounding-mode and predicate node it meets. Operations that
// need rounding are delegated to an Encoder.
package wordblast

import (
	"github.com/borzacchiello/fpblast"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

type CacheStats struct {
	Size   int
	Hits   uint
	Misses uint
}

type Stats struct {
	Sorts        CacheStats
	RMs          CacheStats
	Props        CacheStats
	UBVs         CacheStats
	SBVs         CacheStats
	EncoderCalls uint
}

type Option func(*WordBlaster)

func WithEncoder(enc Encoder) Option {
	return func(wb *WordBlaster) {
		wb.encoder = enc
	}
}

func WithLogger(logger *log.Entry) Option {
	return func(wb *WordBlaster) {
		wb.logger = logger
	}
}

func WithRegisterer(reg prometheus.Registerer) Option {
	return func(wb *WordBlaster) {
		wb.reg = reg
	}
}

// WordBlaster owns the caches of one lowering session. Every wrapper it
// returns is borrowed and stays valid until Delete.
type WordBlaster struct {
	eb      *fpblast.ExprBuilder
	traits  Traits
	encoder Encoder
	logger  *log.Entry
	reg     prometheus.Registerer
	metrics *metrics

	sortMap map[uint64]SortInfo
	rmMap   map[uint64]RM
	propMap map[uint64]Prop
	ubvMap  map[uint64]UBV
	sbvMap  map[uint64]SBV

	// pinned holds a reference to every node used as a key, so that no id is
	// recycled while the caches are alive.
	pinned map[uint64]*fpblast.ExprPtr

	stats   Stats
	deleted bool
}

func New(eb *fpblast.ExprBuilder, opts ...Option) *WordBlaster {
	wb := &WordBlaster{
		eb:      eb,
		traits:  NewTraits(eb),
		encoder: defaultEncoder(),
		logger:  log.WithField("component", "wordblast"),
		sortMap: map[uint64]SortInfo{},
		rmMap:   map[uint64]RM{},
		propMap: map[uint64]Prop{},
		ubvMap:  map[uint64]UBV{},
		sbvMap:  map[uint64]SBV{},
		pinned:  map[uint64]*fpblast.ExprPtr{},
	}
	for _, opt := range opts {
		opt(wb)
	}
	wb.metrics = newMetrics(wb.reg)
	return wb
}

func (wb *WordBlaster) Builder() *fpblast.ExprBuilder {
	return wb.eb
}

func (wb *WordBlaster) Traits() Traits {
	return wb.traits
}

func (wb *WordBlaster) Stats() Stats {
	s := wb.stats
	s.Sorts.Size = len(wb.sortMap)
	s.RMs.Size = len(wb.rmMap)
	s.Props.Size = len(wb.propMap)
	s.UBVs.Size = len(wb.ubvMap)
	s.SBVs.Size = len(wb.sbvMap)
	return s
}

// Delete releases every cached wrapper and pinned node.
func (wb *WordBlaster) Delete() {
	if wb.deleted {
		return
	}
	for _, s := range wb.sortMap {
		s.Release()
	}
	for _, r := range wb.rmMap {
		r.Release()
	}
	for _, p := range wb.propMap {
		p.Release()
	}
	for _, u := range wb.ubvMap {
		u.Release()
	}
	for _, s := range wb.sbvMap {
		s.Release()
	}
	for _, n := range wb.pinned {
		wb.eb.Release(n)
	}
	wb.sortMap = nil
	wb.rmMap = nil
	wb.propMap = nil
	wb.ubvMap = nil
	wb.sbvMap = nil
	wb.pinned = nil
	wb.deleted = true
}

func (wb *WordBlaster) lookup(cs *CacheStats, cache string, hit bool) {
	if hit {
		cs.Hits += 1
	} else {
		cs.Misses += 1
	}
	wb.metrics.lookup(cache, hit)
}

func (wb *WordBlaster) pin(n *fpblast.ExprPtr) {
	if _, ok := wb.pinned[n.Id()]; !ok {
		wb.pinned[n.Id()] = wb.eb.Copy(n)
	}
}

func (wb *WordBlaster) encoded(n *fpblast.ExprPtr) {
	wb.stats.EncoderCalls += 1
	wb.metrics.encoderCalls.WithLabelValues(fpblast.KindName(n.Kind())).Inc()
	wb.logger.Debugf("encoding %s (node %d)", fpblast.KindName(n.Kind()), n.Id())
}

// Lower returns the bit-vector form of root: packed IEEE-754 bits for a
// floating-point term, the RM_WIDTH-bit code for a rounding mode and a
// rebuilt term otherwise. The result is owned by the caller.
func (wb *WordBlaster) Lower(root *fpblast.ExprPtr) (*fpblast.ExprPtr, error) {
	mustHold(!wb.deleted, "Lower(): word blaster already deleted")

	var res *fpblast.ExprPtr
	if root.IsRM() {
		r, err := wb.LowerRM(root)
		if err != nil {
			return nil, err
		}
		res = wb.eb.Copy(r.Node())
	} else {
		u, err := wb.LowerUBV(root)
		if err != nil {
			return nil, err
		}
		res = wb.eb.Copy(u.Node())
	}

	wb.logger.WithFields(log.Fields{
		"node":          root.Id(),
		"width":         res.Size(),
		"encoder_calls": wb.stats.EncoderCalls,
	}).Info("lowered term")
	return res, nil
}

// LowerFormula lowers a width-1 formula and conjoins the validity of every
// rounding-mode variable occurring in it.
func (wb *WordBlaster) LowerFormula(root *fpblast.ExprPtr) (*fpblast.ExprPtr, error) {
	mustHold(!wb.deleted, "LowerFormula(): word blaster already deleted")
	mustHold(root.IsBV() && root.Size() == 1, "LowerFormula(): %s is not a formula", root.Sort())

	p, err := wb.LowerProp(root)
	if err != nil {
		return nil, err
	}
	res := p.Copy()
	defer func() { res.Release() }()

	inputs := wb.eb.InvolvedInputs(root)
	defer func() {
		for _, in := range inputs {
			wb.eb.Release(in)
		}
	}()

	rmVars := 0
	for _, in := range inputs {
		if !in.IsRM() {
			continue
		}
		r, err := wb.LowerRM(in)
		if err != nil {
			return nil, err
		}
		valid := r.Valid()
		next := res.And(valid)
		valid.Release()
		res.Release()
		res = next
		rmVars += 1
	}

	wb.logger.WithFields(log.Fields{
		"node":          root.Id(),
		"rm_vars":       rmVars,
		"encoder_calls": wb.stats.EncoderCalls,
	}).Info("lowered formula")
	return wb.eb.Copy(res.Node()), nil
}

func (wb *WordBlaster) SortInfo(s *fpblast.Sort) SortInfo {
	if si, ok := wb.sortMap[s.Id()]; ok {
		wb.lookup(&wb.stats.Sorts, "sort", true)
		return si
	}
	wb.lookup(&wb.stats.Sorts, "sort", false)

	si := NewSortInfo(wb.eb, s)
	wb.sortMap[s.Id()] = si
	return si
}

func (wb *WordBlaster) LowerRM(n *fpblast.ExprPtr) (RM, error) {
	mustHold(n.IsRM(), "LowerRM(): %s is not a rounding mode", n.Sort())
	if r, ok := wb.rmMap[n.Id()]; ok {
		wb.lookup(&wb.stats.RMs, "rm", true)
		return r, nil
	}
	wb.lookup(&wb.stats.RMs, "rm", false)

	var r RM
	switch n.Kind() {
	case fpblast.TY_RM_CONST:
		rm, err := n.RoundingMode()
		if err != nil {
			return RM{}, errors.Wrap(err, "LowerRM")
		}
		r = RMLiteral(wb.eb, rm)
	case fpblast.TY_RM_SYM:
		sym := wb.eb.BVS("rm!"+n.Name(), fpblast.RM_WIDTH)
		r = NewRM(wb.eb, sym)
		wb.eb.Release(sym)
	case fpblast.TY_ITE:
		c, err := wb.LowerProp(n.Child(0))
		if err != nil {
			return RM{}, err
		}
		a, err := wb.LowerRM(n.Child(1))
		if err != nil {
			return RM{}, err
		}
		b, err := wb.LowerRM(n.Child(2))
		if err != nil {
			return RM{}, err
		}
		r = wb.traits.IteRM(c, a, b)
	default:
		mustHold(false, "LowerRM(): unexpected rounding-mode term %s", fpblast.KindName(n.Kind()))
	}

	wb.rmMap[n.Id()] = r
	wb.pin(n)
	return r, nil
}

func isFPEquality(n *fpblast.ExprPtr) bool {
	return n.Kind() == fpblast.TY_EQ && n.Child(0).IsFP()
}

func isRMEquality(n *fpblast.ExprPtr) bool {
	return n.Kind() == fpblast.TY_EQ && n.Child(0).IsRM()
}

func (wb *WordBlaster) LowerProp(n *fpblast.ExprPtr) (Prop, error) {
	mustHold(checkPropNode(n), "LowerProp(): %s is not a proposition", n.Sort())
	if p, ok := wb.propMap[n.Id()]; ok {
		wb.lookup(&wb.stats.Props, "prop", true)
		return p, nil
	}
	wb.lookup(&wb.stats.Props, "prop", false)

	var p Prop
	switch {
	case fpblast.IsFPPredicate(n.Kind()) || isFPEquality(n):
		app, err := wb.application(n)
		if err != nil {
			return Prop{}, err
		}
		wb.encoded(n)
		p, err = wb.encoder.Predicate(wb.traits, app)
		if err != nil {
			return Prop{}, errors.Wrapf(err, "node %d", n.Id())
		}
	case isRMEquality(n):
		a, err := wb.LowerRM(n.Child(0))
		if err != nil {
			return Prop{}, err
		}
		b, err := wb.LowerRM(n.Child(1))
		if err != nil {
			return Prop{}, err
		}
		p = a.Eq(b)
	default:
		u, err := wb.LowerUBV(n)
		if err != nil {
			return Prop{}, err
		}
		p = NewProp(wb.eb, u.Node())
	}

	mustHold(checkPropNode(p.Node()), "LowerProp(): encoded %s as %s", n, p.Node().Sort())
	wb.propMap[n.Id()] = p
	wb.pin(n)
	return p, nil
}

// LowerUBV lowers a floating-point or bit-vector term to a bit-vector of
// the same width.
func (wb *WordBlaster) LowerUBV(n *fpblast.ExprPtr) (UBV, error) {
	mustHold(!n.IsRM(), "LowerUBV(): %s is a rounding mode", n.Sort())
	if u, ok := wb.ubvMap[n.Id()]; ok {
		wb.lookup(&wb.stats.UBVs, "ubv", true)
		return u, nil
	}
	wb.lookup(&wb.stats.UBVs, "ubv", false)

	var u UBV
	var err error
	if n.IsFP() {
		u, err = wb.lowerFloat(n)
	} else {
		u, err = wb.lowerBV(n)
	}
	if err != nil {
		return UBV{}, err
	}

	mustHold(u.Width() == n.Size(), "LowerUBV(): %s lowered to width %d", n.Sort(), u.Width())
	wb.ubvMap[n.Id()] = u
	wb.pin(n)
	return u, nil
}

// LowerSBV lowers fp.to_sbv terms; any other term is lowered by LowerUBV
// and reinterpreted.
func (wb *WordBlaster) LowerSBV(n *fpblast.ExprPtr) (SBV, error) {
	mustHold(n.IsBV(), "LowerSBV(): %s is not a bit-vector", n.Sort())
	if s, ok := wb.sbvMap[n.Id()]; ok {
		wb.lookup(&wb.stats.SBVs, "sbv", true)
		return s, nil
	}
	wb.lookup(&wb.stats.SBVs, "sbv", false)

	var s SBV
	if n.Kind() == fpblast.TY_FP_TO_SBV {
		app, err := wb.application(n)
		if err != nil {
			return SBV{}, err
		}
		wb.encoded(n)
		s, err = wb.encoder.Signed(wb.traits, app)
		if err != nil {
			return SBV{}, errors.Wrapf(err, "node %d", n.Id())
		}
	} else {
		u, err := wb.LowerUBV(n)
		if err != nil {
			return SBV{}, err
		}
		s = u.ToSigned()
	}

	mustHold(s.Width() == n.Size(), "LowerSBV(): %s lowered to width %d", n.Sort(), s.Width())
	wb.sbvMap[n.Id()] = s
	wb.pin(n)
	return s, nil
}

func (wb *WordBlaster) lowerFloat(n *fpblast.ExprPtr) (UBV, error) {
	switch n.Kind() {
	case fpblast.TY_FP_SYM:
		sym := wb.eb.BVS("fp!"+n.Name(), n.Size())
		return adoptBV[Unsigned](wb.eb, sym), nil
	case fpblast.TY_FP_FROM_BITS:
		bits, err := wb.LowerUBV(n.Child(0))
		if err != nil {
			return UBV{}, err
		}
		return bits.Copy(), nil
	case fpblast.TY_FP_FP:
		fields := make([]UBV, 3)
		for i := range fields {
			f, err := wb.LowerUBV(n.Child(i))
			if err != nil {
				return UBV{}, err
			}
			fields[i] = f
		}
		o := ops{Traits: wb.traits}
		return o.Pack(wb.SortInfo(n.Sort()), fields[0], fields[1], fields[2]), nil
	case fpblast.TY_ITE:
		c, err := wb.LowerProp(n.Child(0))
		if err != nil {
			return UBV{}, err
		}
		a, err := wb.LowerUBV(n.Child(1))
		if err != nil {
			return UBV{}, err
		}
		b, err := wb.LowerUBV(n.Child(2))
		if err != nil {
			return UBV{}, err
		}
		return wb.traits.IteUBV(c, a, b), nil
	}

	app, err := wb.application(n)
	if err != nil {
		return UBV{}, err
	}
	wb.encoded(n)
	u, err := wb.encoder.Float(wb.traits, app)
	if err != nil {
		return UBV{}, errors.Wrapf(err, "node %d", n.Id())
	}
	return u, nil
}

func (wb *WordBlaster) lowerBV(n *fpblast.ExprPtr) (UBV, error) {
	switch {
	case fpblast.IsFPPredicate(n.Kind()) || isFPEquality(n) || isRMEquality(n):
		p, err := wb.LowerProp(n)
		if err != nil {
			return UBV{}, err
		}
		return BVFromProp[Unsigned](p), nil
	case n.Kind() == fpblast.TY_FP_TO_SBV:
		s, err := wb.LowerSBV(n)
		if err != nil {
			return UBV{}, err
		}
		return s.ToUnsigned(), nil
	case n.Kind() == fpblast.TY_FP_TO_UBV:
		app, err := wb.application(n)
		if err != nil {
			return UBV{}, err
		}
		wb.encoded(n)
		u, err := wb.encoder.Unsigned(wb.traits, app)
		if err != nil {
			return UBV{}, errors.Wrapf(err, "node %d", n.Id())
		}
		return u, nil
	case n.Kind() == fpblast.TY_SYM || n.Kind() == fpblast.TY_CONST:
		return NewBV[Unsigned](wb.eb, n), nil
	}

	children := make([]*fpblast.ExprPtr, n.NumChildren())
	for i := range children {
		c, err := wb.LowerUBV(n.Child(i))
		if err != nil {
			return UBV{}, err
		}
		children[i] = c.Node()
	}
	r, err := wb.eb.Rebuild(n, children)
	if err != nil {
		return UBV{}, errors.Wrapf(err, "node %d", n.Id())
	}
	return adoptBV[Unsigned](wb.eb, r), nil
}

// application lowers the operands of n.
func (wb *WordBlaster) application(n *fpblast.ExprPtr) (Application, error) {
	app := Application{Kind: n.Kind()}
	children := n.Children()
	if len(children) > 0 && children[0].IsRM() {
		rm, err := wb.LowerRM(children[0])
		if err != nil {
			return Application{}, err
		}
		app.RM = rm
		app.HasRM = true
		children = children[1:]
	}

	hasFormat := false
	for _, c := range children {
		u, err := wb.LowerUBV(c)
		if err != nil {
			return Application{}, err
		}
		app.Args = append(app.Args, u)
		if c.IsFP() && !hasFormat {
			app.Format = wb.SortInfo(c.Sort())
			hasFormat = true
		}
	}

	if n.IsFP() {
		app.Target = wb.SortInfo(n.Sort())
		if !hasFormat {
			app.Format = app.Target
		}
	} else if idx := n.Indices(); len(idx) > 0 {
		app.Width = idx[0]
	}
	return app, nil
}
