//go:build z3

package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/borzacchiello/fpblast"
	"github.com/borzacchiello/fpblast/wordblast"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var checkOpts queryOptions

var checkCommand = &cobra.Command{
	Use:   "check",
	Short: "lower a floating-point predicate and ask z3 for a model",
	Long:  ``,
	RunE: func(*cobra.Command, []string) error {
		return checkExec(os.Stdout, checkOpts.resolve(cfg))
	},
}

func init() {
	addQueryFlags(checkCommand, &checkOpts)
	extraCommands = append(extraCommands, checkCommand)
}

var resultNames = map[int]string{
	fpblast.RESULT_ERROR:   "error",
	fpblast.RESULT_SAT:     "sat",
	fpblast.RESULT_UNSAT:   "unsat",
	fpblast.RESULT_UNKNOWN: "unknown",
}

func checkExec(w io.Writer, o queryOptions) error {
	eb := fpblast.NewExprBuilder()
	q, err := buildQuery(eb, o)
	if err != nil {
		return err
	}
	defer q.release()
	if !q.root.IsBV() || q.root.Size() != 1 {
		return errors.Errorf("%s is not a predicate", o.op)
	}

	wb := wordblast.New(eb, wordblast.WithLogger(log.WithField("component", "wordblast")))
	defer wb.Delete()

	low, err := wb.LowerFormula(q.root)
	if err != nil {
		return err
	}
	defer eb.Release(low)
	if o.printLowered {
		fmt.Fprintf(w, "%-16s %s\n", "lowered", low)
	}

	s := fpblast.NewZ3Solver(eb)
	defer s.Delete()

	res := s.CheckSat(low)
	fmt.Fprintf(w, "%-16s %s\n", "result", resultNames[res])
	if res != fpblast.RESULT_SAT {
		return nil
	}

	m := s.Model()
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%-16s %s\n", name, m[name])
	}
	return nil
}
