package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/borzacchiello/fpblast"
	"github.com/borzacchiello/fpblast/wordblast"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	lowerOpts  queryOptions
	lowerEvals map[string]string
)

var lowerCommand = &cobra.Command{
	Use:   "lower",
	Short: "lower a floating-point operation to bit-vectors",
	Long:  ``,
	RunE: func(*cobra.Command, []string) error {
		return lowerExec(os.Stdout, lowerOpts.resolve(cfg), lowerEvals)
	},
}

func init() {
	addQueryFlags(lowerCommand, &lowerOpts)
	lowerCommand.Flags().BoolVar(&lowerOpts.dumpMetrics, "metrics", false, "dump the word blaster counters in the Prometheus text format")
	lowerCommand.Flags().StringToStringVar(&lowerEvals, "eval", nil, "evaluate the lowered term, e.g. x=0x3f800000,y=0x7fc00000")
}

func parseInterpretation(evals map[string]string, widths map[string]uint) (map[string]*fpblast.BVConst, error) {
	interpr := make(map[string]*fpblast.BVConst)
	for name, value := range evals {
		sym := inputName(name)
		width, ok := widths[sym]
		if !ok {
			return nil, errors.Errorf("%s is not an input of the query", name)
		}
		base := 10
		if strings.HasPrefix(value, "0x") {
			value, base = value[2:], 16
		}
		c := fpblast.MakeBVConstFromString(value, base, width)
		if c == nil {
			return nil, errors.Errorf("invalid value %q for %s", value, name)
		}
		interpr[sym] = c
	}
	return interpr, nil
}

func lowerExec(w io.Writer, o queryOptions, evals map[string]string) error {
	eb := fpblast.NewExprBuilder()
	q, err := buildQuery(eb, o)
	if err != nil {
		return err
	}
	defer q.release()

	reg := prometheus.NewRegistry()
	wb := wordblast.New(eb,
		wordblast.WithLogger(log.WithField("component", "wordblast")),
		wordblast.WithRegisterer(reg))
	defer wb.Delete()

	var low *fpblast.ExprPtr
	if q.root.IsBV() && q.root.Size() == 1 {
		low, err = wb.LowerFormula(q.root)
	} else {
		low, err = wb.Lower(q.root)
	}
	if err != nil {
		return err
	}
	defer eb.Release(low)

	fmt.Fprintf(w, "%-16s %s\n", "query", q.root)
	fmt.Fprintf(w, "%-16s %s\n", "format", q.format())
	fmt.Fprintf(w, "%-16s %s\n", "sort", q.root.Sort())
	fmt.Fprintf(w, "%-16s %d\n", "width", low.Size())
	if o.printLowered {
		fmt.Fprintf(w, "%-16s %s\n", "lowered", low)
	}

	stats := wb.Stats()
	for _, c := range []struct {
		name string
		cs   wordblast.CacheStats
	}{
		{"sorts", stats.Sorts},
		{"rms", stats.RMs},
		{"props", stats.Props},
		{"ubvs", stats.UBVs},
		{"sbvs", stats.SBVs},
	} {
		fmt.Fprintf(w, "%-16s size=%d hits=%d misses=%d\n", c.name, c.cs.Size, c.cs.Hits, c.cs.Misses)
	}
	fmt.Fprintf(w, "%-16s %d\n", "encoder calls", stats.EncoderCalls)
	eb.PrintStats(w)
	if o.dumpMetrics {
		if err := writeMetrics(w, reg); err != nil {
			return err
		}
	}

	if len(evals) == 0 {
		return nil
	}
	inputs := eb.InvolvedInputs(low)
	widths := make(map[string]uint, len(inputs))
	for _, in := range inputs {
		widths[in.Name()] = in.Size()
		eb.Release(in)
	}
	interpr, err := parseInterpretation(evals, widths)
	if err != nil {
		return err
	}
	v, err := eb.EvalConst(low, interpr)
	if err != nil {
		return errors.Wrap(err, "eval")
	}
	fmt.Fprintf(w, "%-16s %s\n", "value", v)
	return nil
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return errors.Wrap(err, "gather metrics")
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrap(err, "write metrics")
		}
	}
	return nil
}
