package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/biomorph/internal/config"
	"github.com/san-kum/biomorph/internal/export"
	"github.com/san-kum/biomorph/internal/graph"
	"github.com/san-kum/biomorph/internal/grow"
	"github.com/san-kum/biomorph/internal/mesh"
	"github.com/san-kum/biomorph/internal/morph"
	"github.com/san-kum/biomorph/internal/storage"
	"github.com/san-kum/biomorph/internal/strategy"
	"github.com/san-kum/biomorph/internal/sweep"
	"github.com/san-kum/biomorph/internal/tui"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	seed       int64

	density      float64
	complexity   float64
	connectivity float64
	growthRate   float64
	pattern      string

	zoneSize  float64
	seedCount int
	maxNodes  int
	budget    time.Duration

	meshStyle  string
	radius     float64
	resolution int
	threshold  float64
	objOut     string
	jsonOut    string

	batchRuns   int
	sweepMetric string
	sweepTarget float64
	sweepSteps  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "biomorph",
		Short: "procedural organic structure generator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".biomorph", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	growCmd := &cobra.Command{
		Use:   "grow [type]",
		Short: "run a generation and store the snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  runGrow,
	}
	addGrowFlags(growCmd)

	liveCmd := &cobra.Command{
		Use:   "live [type]",
		Short: "run a generation with live progress view",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addGrowFlags(liveCmd)

	batchCmd := &cobra.Command{
		Use:   "batch [type]",
		Short: "run several generations with consecutive seeds",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	addGrowFlags(batchCmd)
	batchCmd.Flags().IntVar(&batchRuns, "runs", 4, "number of parallel runs")

	sweepCmd := &cobra.Command{
		Use:   "sweep [type]",
		Short: "grid-search density and connectivity toward a metric target",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addGrowFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "density", "metric to match")
	sweepCmd.Flags().Float64Var(&sweepTarget, "target", 0.05, "target metric value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 4, "grid steps per knob")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	meshCmd := &cobra.Command{
		Use:   "mesh [run_id]",
		Short: "synthesize a mesh from a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  meshRun,
	}
	meshCmd.Flags().StringVar(&meshStyle, "style", "discrete", "discrete, metaball or voronoi")
	meshCmd.Flags().Float64Var(&radius, "radius", 1.5, "metaball radius")
	meshCmd.Flags().IntVar(&resolution, "resolution", 32, "voxel grid resolution")
	meshCmd.Flags().Float64Var(&threshold, "threshold", 0.4, "iso threshold")
	meshCmd.Flags().StringVar(&objOut, "obj", "", "write Wavefront OBJ to path")
	meshCmd.Flags().StringVar(&jsonOut, "json", "", "write mesh buffers as JSON to path")
	meshCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot node growth over ticks",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print a run snapshot as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list named presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := make([]string, 0, len(config.Presets))
			for name := range config.Presets {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				p := config.Presets[name]
				fmt.Printf("%-14s type=%s density=%.2f connectivity=%.2f\n",
					name, p.Type, p.Density, p.Connectivity)
			}
			return nil
		},
	}

	rootCmd.AddCommand(growCmd, liveCmd, batchCmd, sweepCmd, listCmd, showCmd, meshCmd, plotCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func addGrowFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&density, "density", config.DefaultDensity, "target density [0,1]")
	cmd.Flags().Float64Var(&complexity, "complexity", config.DefaultComplexity, "growth complexity [0,1]")
	cmd.Flags().Float64Var(&connectivity, "connectivity", config.DefaultConnectivity, "connection probability [0,1]")
	cmd.Flags().Float64Var(&growthRate, "growth-rate", config.DefaultGrowthRate, "evaluations per tick scale [0,1]")
	cmd.Flags().StringVar(&pattern, "pattern", "organic", "growth pattern")
	cmd.Flags().Float64Var(&zoneSize, "zone", config.DefaultZoneSize, "cubic zone edge length")
	cmd.Flags().IntVar(&seedCount, "seeds", 5, "initial seed count")
	cmd.Flags().IntVar(&maxNodes, "max-nodes", 400, "node count ceiling")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().DurationVar(&budget, "budget", grow.DefaultBudget, "wall-clock safety budget")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

func newLogger() *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// buildConfig resolves the effective config: preset < file < flags.
func buildConfig(cmd *cobra.Command, typ string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		p, ok := config.Preset(preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s", preset)
		}
		cfg = p
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.Type = typ
	if cmd.Flags().Changed("density") {
		cfg.Density = density
	}
	if cmd.Flags().Changed("complexity") {
		cfg.Complexity = complexity
	}
	if cmd.Flags().Changed("connectivity") {
		cfg.Connectivity = connectivity
	}
	if cmd.Flags().Changed("growth-rate") {
		cfg.GrowthRate = growthRate
	}
	if cmd.Flags().Changed("pattern") {
		cfg.Pattern = pattern
	}
	if cmd.Flags().Changed("zone") {
		cfg.Zone = config.ZoneConfig{MaxX: zoneSize, MaxY: zoneSize, MaxZ: zoneSize}
	}
	if cmd.Flags().Changed("seeds") {
		cfg.Growth.SeedCount = seedCount
	}
	if cmd.Flags().Changed("max-nodes") {
		cfg.Growth.MaxNodes = maxNodes
	}
	cfg.Seed = seed
	return cfg, nil
}

func newGenerator(cfg *config.Config, logger *log.Logger, opts ...grow.Option) (*grow.Generator, morph.Parameters, error) {
	params := cfg.Parameters()
	reg := strategy.NewRegistry()
	strat, err := reg.Get(params.Type)
	if err != nil {
		return nil, params, err
	}
	base := []grow.Option{
		grow.WithSeed(cfg.Seed),
		grow.WithLogger(logger),
		grow.WithBudget(budget),
	}
	gen := grow.New(cfg.Settings(), cfg.GrowthZone(), strat, append(base, opts...)...)
	return gen, params, nil
}

func runGrow(cmd *cobra.Command, args []string) error {
	typ, err := morph.ParseType(args[0])
	if err != nil {
		return err
	}
	cfg, err := buildConfig(cmd, string(typ))
	if err != nil {
		return err
	}
	logger := newLogger()

	gen, params, err := newGenerator(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	snap, err := gen.Run(ctx, params)
	if err != nil && snap == nil {
		return err
	}
	if err != nil {
		logger.Warn("run ended early", "reason", err)
	}

	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	runID, err := store.Save(snap, cfg.Seed, gen.History())
	if err != nil {
		return err
	}

	logger.Info("generation stored", "run", runID, "elapsed", time.Since(start))
	printMetrics(snap)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	typ, err := morph.ParseType(args[0])
	if err != nil {
		return err
	}
	cfg, err := buildConfig(cmd, string(typ))
	if err != nil {
		return err
	}
	logger := newLogger()

	progress := make(chan grow.Progress, 64)
	done := make(chan error, 1)

	gen, params, err := newGenerator(cfg, logger,
		grow.WithObserver(func(p grow.Progress) {
			// drop frames rather than stall the growth loop
			select {
			case progress <- p:
			default:
			}
		}))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var snap *graph.Snapshot
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		var runErr error
		snap, runErr = gen.Run(ctx, params)
		close(progress)
		done <- runErr
	}()

	p := tea.NewProgram(tui.NewModel(string(typ), progress, done))
	if _, err := p.Run(); err != nil {
		cancel()
		<-finished
		return err
	}
	// quitting the view early cancels the run; wait for the generator to
	// export its partial snapshot before saving
	cancel()
	<-finished

	if snap != nil {
		store := storage.New(dataDir)
		if err := store.Init(); err != nil {
			return err
		}
		runID, err := store.Save(snap, cfg.Seed, gen.History())
		if err != nil {
			return err
		}
		fmt.Printf("stored %s\n", runID)
	}
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	typ, err := morph.ParseType(args[0])
	if err != nil {
		return err
	}
	cfg, err := buildConfig(cmd, string(typ))
	if err != nil {
		return err
	}
	logger := newLogger()

	params := cfg.Parameters()
	reg := strategy.NewRegistry()
	strat, err := reg.Get(params.Type)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	ens := grow.NewEnsemble(cfg.Settings(), cfg.GrowthZone(), strat,
		batchRuns, cfg.Seed, grow.WithBudget(budget))
	snaps, err := ens.Run(ctx, params)
	if err != nil {
		return err
	}

	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	for i, snap := range snaps {
		runID, err := store.Save(snap, cfg.Seed+int64(i), nil)
		if err != nil {
			return err
		}
		logger.Info("stored", "run", runID,
			"nodes", len(snap.Positions), "conns", len(snap.Pairs))
	}
	logger.Info("batch done", "runs", len(snaps), "elapsed", time.Since(start))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	typ, err := morph.ParseType(args[0])
	if err != nil {
		return err
	}
	cfg, err := buildConfig(cmd, string(typ))
	if err != nil {
		return err
	}
	logger := newLogger()

	base := cfg.Parameters()
	reg := strategy.NewRegistry()
	strat, err := reg.Get(base.Type)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	eval := func(ctx context.Context, params morph.Parameters) (map[string]float64, error) {
		gen := grow.New(cfg.Settings(), cfg.GrowthZone(), strat,
			grow.WithSeed(cfg.Seed), grow.WithBudget(budget))
		snap, err := gen.Run(ctx, params)
		if err != nil {
			return nil, err
		}
		return snap.Metrics, nil
	}

	search := sweep.NewGridSearch(
		[]string{"density", "connectivity"},
		[][]float64{sweep.Steps(0.1, 0.9, sweepSteps), sweep.Steps(0.1, 0.9, sweepSteps)},
	)
	knobs, val, err := search.Search(ctx, base, eval, sweepMetric, sweepTarget)
	if err != nil {
		return err
	}
	if knobs == nil {
		return fmt.Errorf("no grid point produced metric %q", sweepMetric)
	}

	logger.Info("sweep done", "metric", sweepMetric, "target", sweepTarget, "achieved", val)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	keys := make([]string, 0, len(knobs))
	for k := range knobs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s\t%.3f\n", k, knobs[k])
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tTYPE\tNODES\tCONNS\tCREATED")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			r.ID, r.Type, r.NodeCount, r.ConnCount, r.Timestamp.Format(time.RFC3339))
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	snap, err := store.LoadSnapshot(args[0])
	if err != nil {
		return err
	}
	printMetrics(snap)
	return nil
}

func printMetrics(snap *graph.Snapshot) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "snapshot\t%s\n", snap.ID)
	fmt.Fprintf(w, "type\t%s\n", snap.Parameters.Type)
	keys := make([]string, 0, len(snap.Metrics))
	for k := range snap.Metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s\t%.4f\n", k, snap.Metrics[k])
	}
	w.Flush()
}

func meshRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	snap, err := store.LoadSnapshot(args[0])
	if err != nil {
		return err
	}

	// config file < changed flags, like the growth knobs
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("style") {
		cfg.Mesh.Style = meshStyle
	}
	if cmd.Flags().Changed("radius") {
		cfg.Mesh.Radius = radius
	}
	if cmd.Flags().Changed("resolution") {
		cfg.Mesh.Resolution = resolution
	}
	if cmd.Flags().Changed("threshold") {
		cfg.Mesh.Threshold = threshold
	}
	style, opts := cfg.MeshOptions()

	m, err := mesh.Generate(snap.Positions, snap.Pairs, snap.Parameters.Type, style, opts)
	if err != nil {
		return err
	}

	fmt.Printf("vertices=%d triangles=%d\n", len(m.Vertices), m.TriangleCount())
	if objOut != "" {
		if err := export.WriteOBJFile(objOut, m, args[0]); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", objOut)
	}
	if jsonOut != "" {
		if err := export.WriteMeshJSONFile(jsonOut, m); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", jsonOut)
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	if len(meta.GrowHistory) < 2 {
		fmt.Println("no growth history recorded")
		return nil
	}
	series := make([]float64, len(meta.GrowHistory))
	for i, n := range meta.GrowHistory {
		series[i] = float64(n)
	}
	fmt.Println(asciigraph.Plot(series,
		asciigraph.Width(70),
		asciigraph.Height(12),
		asciigraph.Caption(fmt.Sprintf("%s · node count per tick", meta.ID)),
	))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	snap, err := store.LoadSnapshot(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
