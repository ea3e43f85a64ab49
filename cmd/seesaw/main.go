package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/seesaw/internal/automation"
	"github.com/san-kum/seesaw/internal/beam"
	"github.com/san-kum/seesaw/internal/config"
	"github.com/san-kum/seesaw/internal/experiment"
	"github.com/san-kum/seesaw/internal/export"
	"github.com/san-kum/seesaw/internal/logging"
	"github.com/san-kum/seesaw/internal/optim"
	"github.com/san-kum/seesaw/internal/storage"
	"github.com/san-kum/seesaw/internal/store"
	"github.com/san-kum/seesaw/internal/tui"
	"github.com/san-kum/seesaw/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	backend    string
	redisURL   string

	fps      int
	theme    string
	playSeed int64

	// headless runs
	strategy string
	duration float64
	interval float64
	drops    int
	live     bool
	numRuns  int
	runSeed  int64

	// tuning
	tuneRanges []string
	tuneMetric string

	// output
	outFile    string
	plotHeight int
	plotWidth  int
	svgHeight  int
	svgWidth   int
	scene      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "seesaw",
		Short:        "interactive seesaw balance playground",
		SilenceUsage: true,
		RunE:         playInteractive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "beam tuning preset")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", config.DefaultBackend, "state backend (file, redis)")
	rootCmd.PersistentFlags().StringVar(&redisURL, "redis-url", config.DefaultRedisURL, "redis url for the redis backend")
	addPlayFlags(rootCmd)

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "open the interactive seesaw",
		RunE:  playInteractive,
	}
	addPlayFlags(playCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "replay a drop strategy headlessly and save the trace",
		RunE:  runHeadless,
	}
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&live, "live", false, "draw the run in the terminal as it happens")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a strategy across many seeds concurrently",
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&numRuns, "runs", 8, "number of seeds")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every step of a yaml scenario and save each run",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid-search beam parameters against a run metric",
		RunE:  runTune,
	}
	addRunFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&tuneRanges, "param", []string{"follow_speed=0.05:0.3:6"},
		"parameter range name=min:max:steps (repeatable; one of "+strings.Join(config.TunableParams, ", ")+")")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "settle_time", "metric to minimize")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a run's angle trace",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotHeight, "height", 12, "plot height")
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a run's angle trace or final scene to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().BoolVar(&scene, "scene", false, "draw the final scene instead of the trace")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 300, "image height")
	exportSVGCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list beam presets and drop strategies",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			fmt.Println("strategies:")
			for _, s := range experiment.NewRegistry().ListStrategies() {
				fmt.Printf("  %s\n", s)
			}
			return nil
		},
	}

	stateCmd := &cobra.Command{
		Use:   "state",
		Short: "inspect the saved interactive session",
	}
	stateCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "print the saved session",
			RunE:  showState,
		},
		&cobra.Command{
			Use:   "clear",
			Short: "delete the saved session",
			RunE:  clearState,
		},
	)

	rootCmd.AddCommand(playCmd, runCmd, sweepCmd, scenarioCmd, tuneCmd, listCmd, plotCmd, exportJSONCmd, exportSVGCmd, presetsCmd, stateCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	cmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	cmd.Flags().Int64Var(&playSeed, "seed", time.Now().UnixNano(), "random seed for weights")
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&strategy, "strategy", config.DefaultStrategy, "drop strategy")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	cmd.Flags().Float64Var(&interval, "interval", config.DefaultInterval, "seconds between drops")
	cmd.Flags().IntVar(&drops, "drops", config.DefaultDrops, "number of drops")
	cmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "ticks per second")
	cmd.Flags().Int64Var(&runSeed, "seed", 1, "random seed")
}

// loadConfig layers defaults, the config file, the preset, the environment
// and finally any flag the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if preset != "" {
		apply, ok := config.Presets[preset]
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		apply(&cfg.Beam)
	}

	cfg.ApplyEnv()

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("backend") {
		cfg.Backend = backend
	}
	if flags.Changed("redis-url") {
		cfg.RedisURL = redisURL
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("strategy") {
		cfg.Run.Strategy = strategy
	}
	if flags.Changed("time") {
		cfg.Run.Duration = duration
	}
	if flags.Changed("interval") {
		cfg.Run.Interval = interval
	}
	if flags.Changed("drops") {
		cfg.Run.Drops = drops
	}
	if s, err := flags.GetInt64("seed"); err == nil && (flags.Changed("seed") || cfg.Run.Seed == 0) {
		cfg.Run.Seed = s
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openState picks the state backend. An unreachable redis falls back to
// the file store so the playground always starts.
func openState(ctx context.Context, cfg *config.Config, log *zap.Logger) (*store.State, func()) {
	if cfg.Backend == "redis" {
		kv, err := store.ConnectRedis(ctx, cfg.RedisURL)
		if err == nil {
			log.Info("using redis state", zap.String("url", cfg.RedisURL))
			return store.NewState(kv, cfg.Beam, log), func() { kv.Close() }
		}
		log.Warn("redis unavailable, falling back to file state", zap.Error(err))
	}
	return store.NewState(store.NewFileKV(cfg.DataDir), cfg.Beam, log), func() {}
}

func playInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel, filepath.Join(cfg.DataDir, "seesaw.log"))
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer log.Sync()

	ctx := cmd.Context()
	st, closeState := openState(ctx, cfg, log)
	defer closeState()

	log.Info("starting", zap.Int("fps", cfg.FPS), zap.String("theme", cfg.Theme), zap.String("backend", cfg.Backend))
	return tui.Run(ctx, tui.Options{
		Params: cfg.Beam,
		FPS:    cfg.FPS,
		Theme:  cfg.Theme,
		Seed:   cfg.Run.Seed,
		State:  st,
		Log:    log,
	})
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, "stderr")
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg, experiment.NewRegistry(), log)
	if live {
		r := tui.NewLiveRenderer(os.Stdout, cfg.Run.Strategy, cfg.Beam, 30, viz.GetTheme(cfg.Theme))
		exp.Runner().AddObserver(r)
		r.Start()
		defer r.Stop()
	}

	fmt.Printf("running %s strategy...\n", cfg.Run.Strategy)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	simCfg := exp.SimConfig()
	runID, err := st.Save(storage.RunMetadata{
		Strategy: cfg.Run.Strategy,
		Preset:   preset,
		Dt:       simCfg.Dt,
		Duration: simCfg.Duration,
		Params:   cfg.Beam,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.Steps)
	fmt.Printf("items: %d\n", len(result.Items))
	fmt.Printf("final angle: %.1f°\n", result.FinalAngle())
	printMetrics(result.Metrics)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if numRuns < 1 {
		return fmt.Errorf("runs must be positive, got %d", numRuns)
	}
	log, err := logging.New(cfg.LogLevel, "stderr")
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exp := experiment.New(cfg, experiment.NewRegistry(), log)
	results, err := exp.Sweep(ctx, numRuns, cfg.Run.Seed, log)
	if err != nil {
		return err
	}

	names := make([]string, 0)
	if len(results) > 0 {
		for name := range results[0].Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SEED\tITEMS\tFINAL\t%s\n", strings.ToUpper(strings.Join(names, "\t")))
	for _, r := range results {
		row := fmt.Sprintf("%d\t%d\t%.2f", r.Seed, len(r.Items), r.FinalAngle())
		for _, n := range names {
			row += fmt.Sprintf("\t%.3f", r.Metrics[n])
		}
		fmt.Fprintln(w, row)
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, "stderr")
	if err != nil {
		return err
	}
	defer log.Sync()

	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunScenario(ctx, sc, cfg, experiment.NewRegistry(), log)
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRUN ID\tSTRATEGY\tITEMS\tFINAL")
	for i, r := range results {
		meta := storage.RunMetadata{
			Strategy: r.Config.Run.Strategy,
			Preset:   r.Step.Preset,
			Dt:       1.0 / float64(r.Config.FPS),
			Duration: r.Config.Run.Duration,
			Params:   r.Config.Beam,
		}
		if r.Step.SaveAs != "" {
			meta.ID = r.Step.SaveAs
		}
		id, err := st.Save(meta, r.Result)
		if err != nil {
			return fmt.Errorf("save step %d: %w", i+1, err)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%.2f\n", i+1, id, meta.Strategy, len(r.Result.Items), r.Result.FinalAngle())
	}
	return w.Flush()
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, "stderr")
	if err != nil {
		return err
	}
	defer log.Sync()

	names := make([]string, 0, len(tuneRanges))
	ranges := make([][]float64, 0, len(tuneRanges))
	for _, expr := range tuneRanges {
		name, vals, err := optim.ParseRange(expr)
		if err != nil {
			return err
		}
		if err := config.SetParam(&beam.Params{}, name, 0); err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	registry := experiment.NewRegistry()
	build := func(params map[string]float64) (*experiment.Experiment, error) {
		c := *cfg
		for k, v := range params {
			if err := config.SetParam(&c.Beam, k, v); err != nil {
				return nil, err
			}
		}
		if err := c.Validate(); err != nil {
			log.Debug("skipping grid point", zap.Any("params", params), zap.Error(err))
			return nil, err
		}
		return experiment.New(&c, registry, log), nil
	}

	best, val, err := optim.NewGridSearch(names, ranges).Search(ctx, build, tuneMetric)
	if err != nil {
		return err
	}

	fmt.Printf("best %s: %.4f\n", tuneMetric, val)
	for _, name := range names {
		fmt.Printf("  %s: %.4f\n", name, best[name])
	}
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.4f\n", name, m[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	runs, err := storage.New(cfg.DataDir).List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTRATEGY\tTIME\tDURATION\tSEED\tITEMS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%d\t%d\n",
			run.ID,
			run.Strategy,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Seed,
			len(run.Items),
		)
	}
	return w.Flush()
}

func loadRun(cmd *cobra.Command, runID string) (*storage.RunMetadata, *storage.Trace, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, fmt.Errorf("load run %s: %w", runID, err)
	}
	tr, err := st.LoadTrace(runID)
	if err != nil {
		return nil, nil, fmt.Errorf("load trace %s: %w", runID, err)
	}
	return meta, tr, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, tr, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	if len(tr.Angles) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("strategy: %s\n", meta.Strategy)
	fmt.Printf("samples: %d\n\n", len(tr.Angles))

	graph := asciigraph.PlotMany([][]float64{tr.Angles, tr.Targets},
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.DarkGray),
		asciigraph.Caption("angle (cyan) and target (gray), degrees"),
	)
	fmt.Println(graph)
	fmt.Println()

	totals := asciigraph.PlotMany([][]float64{tr.Left, tr.Right},
		asciigraph.Height(plotHeight/2),
		asciigraph.Width(plotWidth),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
		asciigraph.Caption("left (blue) and right (red) kg"),
	)
	fmt.Println(totals)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, tr, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	if err := export.ExportJSON(outFile, meta, tr); err != nil {
		return fmt.Errorf("export json: %w", err)
	}
	if outFile != "" && outFile != "-" {
		fmt.Printf("exported to %s\n", outFile)
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, tr, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}

	th := viz.GetTheme(theme)
	var svg string
	if scene {
		svg = export.SceneToSVG(meta, svgWidth/8, svgHeight/16, 4, th)
	} else {
		svg = export.TraceToSVG(tr, meta.Params.MaxAngle, svgWidth, svgHeight, th)
	}
	if svg == "" {
		return fmt.Errorf("nothing to draw for run %s", meta.ID)
	}

	path := outFile
	if path == "" {
		path = meta.ID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	fmt.Printf("exported to %s\n", path)
	return nil
}

func showState(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, "stderr")
	if err != nil {
		return err
	}
	defer log.Sync()

	st, closeState := openState(cmd.Context(), cfg, log)
	defer closeState()

	rec, ok := st.Load(cmd.Context())
	if !ok {
		fmt.Println("no saved session")
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

func clearState(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, "stderr")
	if err != nil {
		return err
	}
	defer log.Sync()

	st, closeState := openState(cmd.Context(), cfg, log)
	defer closeState()

	st.Clear(cmd.Context())
	fmt.Println("saved session cleared")
	return nil
}
