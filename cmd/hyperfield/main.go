package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/selkora/hyperfield/internal/config"
	"github.com/selkora/hyperfield/internal/equation"
	"github.com/selkora/hyperfield/internal/export"
	"github.com/selkora/hyperfield/internal/metrics"
	"github.com/selkora/hyperfield/internal/optim"
	"github.com/selkora/hyperfield/internal/sim"
	"github.com/selkora/hyperfield/internal/storage"
	"github.com/selkora/hyperfield/internal/sweep"
	"github.com/selkora/hyperfield/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	cycles     int
	maxDims    int
	mode       int
	debug      bool
	frameRate  int
	noStore    bool

	// coefficient flags
	influence      float64
	weak           float64
	collapse       float64
	twoD           float64
	threeD         float64
	oneDPermeation float64
	darkMatter     float64
	darkEnergy     float64
	alpha          float64
	beta           float64

	// sweep flags
	sweepSeed      int64
	sweepCoeffs    []string
	sweepAmplitude float64
	sweepSteps     int

	// search flags
	searchParams []string
	searchMetric string

	// export flags
	outPath   string
	svgWidth  int
	svgHeight int

	// logLevel drops to debug when the resolved config asks for traces.
	logLevel = new(slog.LevelVar)
)

func main() {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: "15:04:05",
		}),
	))

	rootCmd := &cobra.Command{
		Use:   "hyperfield",
		Short: "multi-dimensional energy model engine",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".hyperfield", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the model through dimension cycles",
		RunE:  runModel,
	}
	addModelFlags(runCmd)
	runCmd.Flags().BoolVar(&noStore, "no-store", false, "skip persisting the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with a live terminal view",
		RunE:  runLive,
	}
	addModelFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFrameRate, "frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a run's energy curves",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a run's energy curves to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&outPath, "out", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 400, "image height")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "explore coefficients along a noise trajectory",
		RunE:  runSweep,
	}
	addModelFlags(sweepCmd)
	sweepCmd.Flags().Int64Var(&sweepSeed, "seed", time.Now().UnixNano(), "noise seed")
	sweepCmd.Flags().StringSliceVar(&sweepCoeffs, "coeffs", []string{"influence", "dark_energy"}, "coefficients to modulate")
	sweepCmd.Flags().Float64Var(&sweepAmplitude, "amplitude", 0.4, "relative excursion")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 40, "sweep steps")

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "grid-search coefficients minimizing a metric",
		RunE:  runSearch,
	}
	addModelFlags(searchCmd)
	searchCmd.Flags().StringArrayVar(&searchParams, "param", nil, "range as name=min:max:steps (repeatable)")
	searchCmd.Flags().StringVar(&searchMetric, "metric", "observable_drift", "metric to minimize")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset tunings",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets()
			sort.Strings(names)
			for _, name := range names {
				cfg := config.GetPreset(name)
				fmt.Printf("%-12s max_dims=%d cycles=%d\n", name, cfg.MaxDimensions, cfg.Cycles)
			}
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark compute across dimensions",
		RunE:  benchModel,
	}
	addModelFlags(benchCmd)

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, showCmd, plotCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, sweepCmd, searchCmd, presetsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "preset tuning name")
	cmd.Flags().IntVar(&cycles, "cycles", config.DefaultCycles, "dimension cycles to run")
	cmd.Flags().IntVar(&maxDims, "max-dims", config.DefaultMaxDimensions, "dimension ceiling")
	cmd.Flags().IntVar(&mode, "mode", 1, "starting dimension")
	cmd.Flags().BoolVar(&debug, "debug", false, "trace cache rebuilds")

	cmd.Flags().Float64Var(&influence, "influence", 1.0, "interaction influence")
	cmd.Flags().Float64Var(&weak, "weak", 0.5, "weak attenuation above 3 dimensions")
	cmd.Flags().Float64Var(&collapse, "collapse", 0.5, "collapse damping")
	cmd.Flags().Float64Var(&twoD, "two-d", 1.0, "2-D geometric factor")
	cmd.Flags().Float64Var(&threeD, "three-d", 1.5, "3-D geometric factor")
	cmd.Flags().Float64Var(&oneDPermeation, "one-d-permeation", 0.3, "1-D permeation")
	cmd.Flags().Float64Var(&darkMatter, "dark-matter", 0.27, "dark matter strength")
	cmd.Flags().Float64Var(&darkEnergy, "dark-energy", 0.68, "dark energy strength")
	cmd.Flags().Float64Var(&alpha, "alpha", 2.0, "decay rate")
	cmd.Flags().Float64Var(&beta, "beta", 0.2, "permeation scaling")
}

// buildConfig layers preset, config file, then explicit flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	intFlags := map[string]*int{
		"cycles":   &cfg.Cycles,
		"max-dims": &cfg.MaxDimensions,
		"mode":     &cfg.Mode,
	}
	for name, dst := range intFlags {
		if cmd.Flags().Changed(name) {
			v, _ := cmd.Flags().GetInt(name)
			*dst = v
		}
	}

	floatFlags := map[string]*float64{
		"influence":        &cfg.Coefficients.Influence,
		"weak":             &cfg.Coefficients.Weak,
		"collapse":         &cfg.Coefficients.Collapse,
		"two-d":            &cfg.Coefficients.TwoD,
		"three-d":          &cfg.Coefficients.ThreeD,
		"one-d-permeation": &cfg.Coefficients.OneDPermeation,
		"dark-matter":      &cfg.Coefficients.DarkMatter,
		"dark-energy":      &cfg.Coefficients.DarkEnergy,
		"alpha":            &cfg.Coefficients.Alpha,
		"beta":             &cfg.Coefficients.Beta,
	}
	for name, dst := range floatFlags {
		if cmd.Flags().Changed(name) {
			v, _ := cmd.Flags().GetFloat64(name)
			*dst = v
		}
	}

	if cmd.Flags().Changed("debug") {
		cfg.Debug = debug
	}
	if cfg.Debug {
		logLevel.Set(slog.LevelDebug)
	}

	for _, adjustment := range cfg.Clamp() {
		slog.Warn("coefficient clamped", "adjustment", adjustment)
	}

	return cfg, nil
}

func openStore() (*storage.Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}
	return storage.Open(filepath.Join(dataDir, "runs.db"))
}

func newRunner(cfg *config.Config) (*sim.Runner, error) {
	calc, err := equation.New(cfg.Equation())
	if err != nil {
		return nil, err
	}
	runner := sim.New(calc)
	runner.AddMetric(metrics.NewMeanObservable())
	runner.AddMetric(metrics.NewEnergyBalance())
	runner.AddMetric(metrics.NewPeakPotential())
	runner.AddMetric(metrics.NewDrift())
	return runner, nil
}

func runModel(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	runner, err := newRunner(cfg)
	if err != nil {
		return err
	}

	slog.Info("running model", "max_dims", cfg.MaxDimensions, "cycles", cfg.Cycles)
	start := time.Now()

	result, err := runner.Run(context.Background(), sim.Config{Cycles: cfg.Cycles})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed %d cycles in %v\n", result.CyclesRun, elapsed)

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	if noStore {
		return nil
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	runID, err := st.SaveRun(cfg, preset, result)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	calc, err := equation.New(cfg.Equation())
	if err != nil {
		return err
	}

	fps := cfg.FrameRate
	if cmd.Flags().Changed("fps") {
		fps = frameRate
	}
	return viz.Run(calc, fps)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(50)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tAGE\tDIMS\tCYCLES")
	for _, run := range runs {
		p := run.Preset
		if p == "" {
			p = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			run.ID, p, humanize.Time(run.CreatedAt), run.MaxDimensions,
			humanize.Comma(int64(run.Cycles)),
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	rec, err := st.LoadRun(args[0])
	if err != nil {
		return err
	}

	coeffs, err := rec.CoefficientMap()
	if err != nil {
		return err
	}
	mets, err := rec.MetricMap()
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", rec.ID)
	fmt.Printf("created: %s (%s)\n", rec.CreatedAt.Format("2006-01-02 15:04:05"), humanize.Time(rec.CreatedAt))
	fmt.Printf("max dimensions: %d\ncycles: %d\n", rec.MaxDimensions, rec.Cycles)
	printSortedMap("coefficients", coeffs)
	printSortedMap("metrics", mets)
	return nil
}

func printSortedMap(title string, m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Printf("\n%s:\n", title)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func plotRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no frames to plot")
	}

	fmt.Printf("run: %s (%d frames)\n\n", args[0], len(frames))
	fmt.Println(viz.DimensionTrace(frames, 80))
	fmt.Println()
	fmt.Println(viz.EnergyPlots(frames, 80, 10))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	return export.WriteCSV(os.Stdout, frames)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	rec, err := st.LoadRun(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	coeffs, err := rec.CoefficientMap()
	if err != nil {
		return err
	}
	mets, err := rec.MetricMap()
	if err != nil {
		return err
	}

	return export.WriteJSON(os.Stdout, export.Run{
		ID:           rec.ID,
		Preset:       rec.Preset,
		Coefficients: coeffs,
		Metrics:      mets,
		Frames:       frames,
	})
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	svg, err := export.EnergySVG(frames, svgWidth, svgHeight)
	if err != nil {
		return err
	}

	if outPath == "" {
		fmt.Println(svg)
		return nil
	}
	return os.WriteFile(outPath, []byte(svg), 0644)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	s, err := sweep.New(sweepSeed, sweepCoeffs, sweepAmplitude)
	if err != nil {
		return err
	}

	slog.Info("sweeping", "seed", sweepSeed, "coeffs", strings.Join(sweepCoeffs, ","), "steps", sweepSteps)

	points, err := s.Run(context.Background(), cfg, sweepSteps, cfg.MaxDimensions)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := "STEP\tMEAN_OBS\tPEAK_POT"
	for _, name := range sweepCoeffs {
		header += "\t" + strings.ToUpper(name)
	}
	fmt.Fprintln(w, header)
	for _, p := range points {
		row := fmt.Sprintf("%d\t%.4f\t%.4f", p.Step, p.MeanObservable, p.PeakPotential)
		for _, name := range sweepCoeffs {
			row += fmt.Sprintf("\t%.4f", p.Coefficients[name])
		}
		fmt.Fprintln(w, row)
	}
	return w.Flush()
}

// parseRange decodes "name=min:max:steps".
func parseRange(spec string) (optim.Range, error) {
	name, rest, ok := strings.Cut(spec, "=")
	if !ok {
		return optim.Range{}, fmt.Errorf("invalid range %q, want name=min:max:steps", spec)
	}
	parts := strings.Split(rest, ":")
	if len(parts) != 3 {
		return optim.Range{}, fmt.Errorf("invalid range %q, want name=min:max:steps", spec)
	}
	min, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return optim.Range{}, fmt.Errorf("range %s: bad min: %w", name, err)
	}
	max, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return optim.Range{}, fmt.Errorf("range %s: bad max: %w", name, err)
	}
	steps, err := strconv.Atoi(parts[2])
	if err != nil {
		return optim.Range{}, fmt.Errorf("range %s: bad steps: %w", name, err)
	}
	return optim.Range{Name: name, Min: min, Max: max, Steps: steps}, nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if len(searchParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}

	ranges := make([]optim.Range, 0, len(searchParams))
	for _, spec := range searchParams {
		r, err := parseRange(spec)
		if err != nil {
			return err
		}
		ranges = append(ranges, r)
	}

	gs, err := optim.NewGridSearch(ranges)
	if err != nil {
		return err
	}

	eval := func(ctx context.Context, coeffs map[string]float64) (float64, error) {
		calc, err := equation.New(cfg.Equation())
		if err != nil {
			return 0, err
		}
		for name, v := range coeffs {
			if err := calc.SetCoefficient(name, v); err != nil {
				return 0, err
			}
		}

		runner := sim.New(calc)
		runner.AddMetric(metrics.NewMeanObservable())
		runner.AddMetric(metrics.NewEnergyBalance())
		runner.AddMetric(metrics.NewPeakPotential())
		runner.AddMetric(metrics.NewDrift())

		result, err := runner.Run(ctx, sim.Config{Cycles: cfg.Cycles})
		if err != nil {
			return 0, err
		}
		val, ok := result.Metrics[searchMetric]
		if !ok {
			return 0, fmt.Errorf("unknown metric: %s", searchMetric)
		}
		return val, nil
	}

	slog.Info("searching", "metric", searchMetric, "ranges", len(ranges))
	start := time.Now()

	best, val, err := gs.Search(context.Background(), eval)
	if err != nil {
		return err
	}

	fmt.Printf("search completed in %v\n", time.Since(start))
	fmt.Printf("best %s: %.6f\n", searchMetric, val)
	printSortedMap("coefficients", best)
	return nil
}

func benchModel(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	calc, err := equation.New(cfg.Equation())
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking compute, max dimensions %d\n\n", cfg.MaxDimensions)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DIM\tVERTICES\tCOMPUTES\tTIME\tCOMPUTES/SEC")

	for d := 1; d <= cfg.MaxDimensions; d++ {
		verts := calc.VertexCount()

		// Scale iterations down as the vertex set grows.
		iters := 1 << 16 / verts
		if iters < 1 {
			iters = 1
		}

		start := time.Now()
		for i := 0; i < iters; i++ {
			calc.Compute()
		}
		elapsed := time.Since(start)

		perSec := float64(iters) / elapsed.Seconds()
		fmt.Fprintf(w, "%d\t%s\t%d\t%v\t%s\n",
			calc.CurrentDimension(), humanize.Comma(int64(verts)), iters, elapsed.Round(time.Microsecond),
			humanize.Comma(int64(perSec)),
		)

		calc.AdvanceCycle()
	}
	return w.Flush()
}
