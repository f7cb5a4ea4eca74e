//go:build nofpenc

package wordblast

const EncoderLinked = false

func defaultEncoder() Encoder {
	return unlinked{}
}

// unlinked rejects every operation. It stands in for the encoder when the
// binary is built without one.
type unlinked struct{}

func (unlinked) Float(_ Traits, app Application) (UBV, error) {
	return UBV{}, unsupported(app.Kind)
}

func (unlinked) Predicate(_ Traits, app Application) (Prop, error) {
	return Prop{}, unsupported(app.Kind)
}

func (unlinked) Signed(_ Traits, app Application) (SBV, error) {
	return SBV{}, unsupported(app.Kind)
}

func (unlinked) Unsigned(_ Traits, app Application) (UBV, error) {
	return UBV{}, unsupported(app.Kind)
}
