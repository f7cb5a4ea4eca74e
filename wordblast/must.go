package wordblast

import (
	"github.com/borzacchiello/fpblast"
	"github.com/pkg/errors"
)

// mustHold aborts on a violated contract. Ill-typed input is a bug in the
// caller, never a recoverable condition.
func mustHold(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(errors.Errorf(format, args...))
	}
}

func must(n *fpblast.ExprPtr, err error) *fpblast.ExprPtr {
	if err != nil {
		panic(errors.Wrap(err, "wordblast"))
	}
	return n
}
