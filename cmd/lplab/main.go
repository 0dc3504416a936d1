package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/lplab/internal/batch"
	"github.com/san-kum/lplab/internal/config"
	"github.com/san-kum/lplab/internal/experiment"
	"github.com/san-kum/lplab/internal/logging"
	"github.com/san-kum/lplab/internal/simplex"
	"github.com/san-kum/lplab/internal/storage"
	"github.com/san-kum/lplab/internal/sweep"
	"github.com/san-kum/lplab/internal/viz"
)

var (
	dataDir   string
	logLevel  string
	preset    string
	maxPivots int
	certify   bool
	save      bool
	showTrace bool
	themeName string
	// sweep
	sweepTarget string
	sweepIndex  int
	sweepFrom   float64
	sweepTo     float64
	sweepSteps  int
	asJSON      bool
	// batch
	workers int
	// bench
	benchRuns int

	logger   = logging.Nop()
	registry = experiment.NewRegistry()
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "lplab",
		Short:        "dense-tableau simplex lab",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewLogger(logLevel, cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".lplab", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	solveCmd := &cobra.Command{
		Use:   "solve [file]",
		Short: "solve an lp or game from a yaml file or preset",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSolve,
	}
	problemFlags(solveCmd)
	solveCmd.Flags().BoolVar(&certify, "certify", false, "verify the primal/dual certificate")
	solveCmd.Flags().BoolVar(&save, "save", false, "save the run to the data directory")
	solveCmd.Flags().BoolVar(&showTrace, "trace", false, "print every pivot")

	gameCmd := &cobra.Command{
		Use:   "game [file]",
		Short: "solve a zero-sum game",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGame,
	}
	problemFlags(gameCmd)
	gameCmd.Flags().BoolVar(&certify, "certify", false, "verify the equilibrium")
	gameCmd.Flags().BoolVar(&save, "save", false, "save the run to the data directory")

	stepCmd := &cobra.Command{
		Use:   "step [file]",
		Short: "step through pivots interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runStep,
	}
	problemFlags(stepCmd)
	stepCmd.Flags().StringVar(&themeName, "theme", viz.DefaultTheme.Name, "colour theme")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the objective trace of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and trace to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(cmd.OutOrStdout(), args[0])
		},
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the pivot trace to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportCSV(cmd.OutOrStdout(), args[0])
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [file]",
		Short: "trace the optimal value while one b or c entry varies",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	problemFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepTarget, "target", "b", "parameter to vary (b or c)")
	sweepCmd.Flags().IntVar(&sweepIndex, "index", 0, "entry of b or c to vary")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 10, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 11, "number of grid points")
	sweepCmd.Flags().BoolVar(&asJSON, "json", false, "print points as JSON")

	batchCmd := &cobra.Command{
		Use:   "batch [scenario]",
		Short: "solve every problem in a scenario file in parallel",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (default: scenario or GOMAXPROCS)")
	batchCmd.Flags().BoolVar(&save, "save", false, "save every run")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, kind := range []string{config.KindLP, config.KindGame} {
				fmt.Fprintf(out, "%s:\n", kind)
				for _, name := range config.ListPresets(kind) {
					m, n := config.GetPreset(kind, name).Dims()
					fmt.Fprintf(out, "  %-12s %dx%d\n", name, m, n)
				}
			}
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "benchmark solving a preset",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&benchRuns, "runs", 1000, "solves per preset")

	rootCmd.AddCommand(solveCmd, gameCmd, stepCmd, listCmd, showCmd, plotCmd, exportJSONCmd, exportCSVCmd,
		sweepCmd, batchCmd, presetsCmd, benchCmd)
	return rootCmd
}

func problemFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "use a built-in problem")
	cmd.Flags().IntVar(&maxPivots, "max-pivots", config.DefaultMaxPivots, "pivot cap (0 = unlimited)")
}

// loadProblem resolves a problem from --preset or a yaml file. An explicit
// --max-pivots overrides the file.
func loadProblem(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case preset != "":
		var err error
		cfg, err = registry.GetProblem(preset)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, registry.ListProblems())
		}
	case len(args) == 1:
		var err error
		cfg, err = config.Load(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to load problem: %w", err)
		}
	default:
		return nil, fmt.Errorf("need a problem file or --preset")
	}

	if cmd.Flags().Changed("max-pivots") {
		cfg.MaxPivots = maxPivots
	}
	return cfg, nil
}

func solveProblem(ctx context.Context, cfg *config.Config) (*experiment.Result, error) {
	ecfg := experiment.FromConfig(cfg)
	ecfg.Certify = certify
	ecfg.Logger = logger

	exp := experiment.New(ecfg)
	if err := exp.Setup(registry.DefaultMetrics()...); err != nil {
		return nil, err
	}
	return exp.Run(ctx)
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadProblem(cmd, args)
	if err != nil {
		return err
	}
	return solveAndReport(cmd, cfg)
}

func runGame(cmd *cobra.Command, args []string) error {
	cfg, err := loadProblem(cmd, args)
	if err != nil {
		return err
	}
	if cfg.Kind != config.KindGame {
		return fmt.Errorf("%s is an %s problem, not a game", cfg.Name, cfg.Kind)
	}
	return solveAndReport(cmd, cfg)
}

func solveAndReport(cmd *cobra.Command, cfg *config.Config) error {
	out := cmd.OutOrStdout()
	st := viz.NewStyles(viz.DefaultTheme)

	result, err := solveProblem(cmd.Context(), cfg)
	if err != nil && result == nil {
		return err
	}
	printResult(out, result, st)
	if err != nil {
		return err
	}

	if save {
		store := storage.New(dataDir)
		runID, err := store.Save(result, cfg)
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		logger.Info("run saved", "run", runID, "dir", dataDir)
		fmt.Fprintf(out, "\nsaved run %s\n", runID)
	}
	return nil
}

func printResult(out io.Writer, r *experiment.Result, st viz.Styles) {
	fmt.Fprintf(out, "%s (%s, %dx%d)\n\n", r.Name, r.Kind, r.M, r.N)

	switch {
	case r.Equilibrium != nil:
		fmt.Fprintln(out, viz.RenderEquilibrium(r.Equilibrium, st))
	case r.Solution != nil:
		fmt.Fprintln(out, viz.RenderSolution(r.Solution, st))
	default:
		fmt.Fprintf(out, "%s  %v\n", st.StatusBadge(r.Status), r.Err)
	}

	if showTrace {
		fmt.Fprintln(out)
		fmt.Fprintln(out, viz.RenderTrace(r.Trace, r.N, st))
	}

	fmt.Fprintf(out, "\ndegenerate pivots: %.0f   elapsed: %v\n", r.Metrics["degenerate_pivots"], r.Elapsed)
}

func runStep(cmd *cobra.Command, args []string) error {
	cfg, err := loadProblem(cmd, args)
	if err != nil {
		return err
	}
	if cfg.Kind != config.KindLP {
		return fmt.Errorf("step only supports lp problems")
	}

	m, err := viz.NewStepper(cfg.Name, cfg.A, cfg.B, cfg.C, viz.GetTheme(themeName),
		simplex.WithMaxPivots(cfg.MaxPivots))
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadProblem(cmd, args)
	if err != nil {
		return err
	}

	grid := sweep.Grid{
		Target: sweep.Target(sweepTarget),
		Index:  sweepIndex,
		From:   sweepFrom,
		To:     sweepTo,
		Steps:  sweepSteps,
	}
	points, err := sweep.New(grid, cfg.MaxPivots).Run(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(points)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s[%d]\tVALUE\tSTATUS\tPIVOTS\n", sweepTarget, sweepIndex)
	for _, p := range points {
		fmt.Fprintf(w, "%.4g\t%.6g\t%s\t%d\n", p.Param, p.Value, p.Status, p.Pivots)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	caption := fmt.Sprintf("optimal value vs %s[%d]", sweepTarget, sweepIndex)
	fmt.Fprintln(out)
	fmt.Fprintln(out, viz.Chart(sweep.Series(points), caption, 60, 10))

	if best, ok := sweep.Best(points); ok {
		fmt.Fprintf(out, "\nbest: %s[%d]=%.4g value=%.6g\n", sweepTarget, sweepIndex, best.Param, best.Value)
	}
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	sc, err := batch.LoadScenario(args[0])
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("workers") {
		sc.Workers = workers
	}

	start := time.Now()
	results, err := batch.RunScenario(cmd.Context(), sc, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d problems in %v\n\n", sc.Name, len(results), time.Since(start))

	var store *storage.Store
	if save {
		store = storage.New(dataDir)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tSTATUS\tVALUE\tPIVOTS\tELAPSED")
	for i, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.6g\t%d\t%v\n", r.Name, r.Kind, r.Status, r.Value(), len(r.Trace), r.Elapsed)
		if store != nil && r.Status != simplex.InvalidInput {
			if _, err := store.Save(r, &sc.Problems[i]); err != nil {
				return err
			}
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	for status, n := range batch.Summary(results) {
		fmt.Fprintf(out, "%s: %d\n", status, n)
	}
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	names := config.ListPresets(config.KindLP)
	if len(args) == 1 {
		names = []string{args[0]}
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSIZE\tPIVOTS\tRUNS\tTIME/SOLVE\tPIVOTS/SEC")

	for _, name := range names {
		cfg := config.FindPreset(name)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s", name)
		}
		if cfg.Kind != config.KindLP {
			continue
		}

		pivots := 0
		start := time.Now()
		for i := 0; i < benchRuns; i++ {
			sol, err := simplex.Solve(cfg.A, cfg.B, cfg.C, simplex.WithMaxPivots(cfg.MaxPivots))
			if err == nil {
				pivots += sol.Pivots
			}
		}
		elapsed := time.Since(start)

		m, n := cfg.Dims()
		perSolve := elapsed / time.Duration(max(benchRuns, 1))
		rate := float64(pivots) / elapsed.Seconds()
		fmt.Fprintf(w, "%s\t%dx%d\t%d\t%d\t%v\t%.0f\n", name, m, n, pivots/max(benchRuns, 1), benchRuns, perSolve, rate)
	}
	return w.Flush()
}
