package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/lplab/internal/storage"
	"github.com/san-kum/lplab/internal/viz"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tTIME\tSIZE\tSTATUS\tVALUE\tPIVOTS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%s\t%.6g\t%d\n",
			run.ID,
			run.Kind,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.M, run.N,
			run.Status,
			run.Value,
			run.Pivots,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	styles := viz.NewStyles(viz.DefaultTheme)

	fmt.Fprintf(out, "%s  %s\n", meta.ID, styles.StatusBadge(meta.Status))
	fmt.Fprintf(out, "name:    %s (%s, %dx%d)\n", meta.Name, meta.Kind, meta.M, meta.N)
	fmt.Fprintf(out, "time:    %s\n", meta.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "value:   %.6g\n", meta.Value)
	fmt.Fprintf(out, "pivots:  %d\n", meta.Pivots)
	if meta.Error != "" {
		fmt.Fprintf(out, "error:   %s\n", meta.Error)
	}
	printVector(cmd, "primal", meta.Primal)
	printVector(cmd, "dual", meta.Dual)
	printVector(cmd, "row", meta.Row)
	printVector(cmd, "column", meta.Column)
	if meta.Shift != 0 {
		fmt.Fprintf(out, "shift:   %.6g\n", meta.Shift)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, viz.RenderTrace(trace, meta.N, styles))
	return nil
}

func printVector(cmd *cobra.Command, label string, v []float64) {
	if len(v) == 0 {
		return
	}
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%.6g", x)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%-8s [%s]\n", label+":", strings.Join(parts, " "))
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(trace) == 0 {
		fmt.Fprintf(out, "%s made no pivots\n", meta.ID)
		return nil
	}

	fmt.Fprintf(out, "run: %s (%s)\n\n", meta.ID, meta.Name)

	graph := asciigraph.Plot(viz.Objectives(trace),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("objective"),
	)
	fmt.Fprintln(out, graph)
	fmt.Fprintln(out)

	ratios := make([]float64, len(trace))
	for i, p := range trace {
		ratios[i] = p.Ratio
	}
	if len(ratios) > 1 {
		graph = asciigraph.Plot(ratios,
			asciigraph.Height(6),
			asciigraph.Width(80),
			asciigraph.Caption("step length"),
		)
		fmt.Fprintln(out, graph)
	}

	return nil
}
