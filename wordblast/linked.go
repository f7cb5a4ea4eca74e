//go:build !nofpenc

package wordblast

// EncoderLinked reports whether New falls back to the Reference encoder.
// Building with the nofpenc tag unlinks it.
const EncoderLinked = true

func defaultEncoder() Encoder {
	return Reference{}
}
