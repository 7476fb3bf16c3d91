package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/ragdoll/internal/analysis"
	"github.com/san-kum/ragdoll/internal/automation"
	"github.com/san-kum/ragdoll/internal/config"
	"github.com/san-kum/ragdoll/internal/control"
	"github.com/san-kum/ragdoll/internal/experiment"
	"github.com/san-kum/ragdoll/internal/export"
	"github.com/san-kum/ragdoll/internal/logging"
	"github.com/san-kum/ragdoll/internal/optim"
	"github.com/san-kum/ragdoll/internal/rig"
	"github.com/san-kum/ragdoll/internal/scene"
	"github.com/san-kum/ragdoll/internal/storage"
	"github.com/san-kum/ragdoll/internal/tui"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	logLevel   string
	logFormat  string

	dt          float64
	duration    float64
	workers     int
	integrator  string
	controlName string
	inX         float64
	inY         float64
	inZ         float64
	inPitch     float64
	balanceGain float64
	preset      string
	descriptor  string
	sceneFile   string

	live      bool
	frameRate int

	plotBone string

	svgFile  string
	poseFile string
	poseAt   float64

	tuneParams []string
	tuneMetric string

	swayAxis string

	trials       int
	perturb      float64
	perturbPitch float64
	seed         int64

	saveDescriptor string
	saveScene      string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "ragdoll",
		Short:        "articulated ragdoll assembly and control",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run a model and record it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	simFlags(runCmd)
	runCmd.Flags().BoolVar(&live, "live", false, "draw the model while running")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate for --live")

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "drive a model with sliders",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	simFlags(liveCmd)

	inspectCmd := &cobra.Command{
		Use:   "inspect [model]",
		Short: "build a model and print its tree",
		Args:  cobra.MaximumNArgs(1),
		RunE:  inspectModel,
	}
	inspectCmd.Flags().StringVar(&descriptor, "descriptor", "", "bone descriptor file (yaml)")
	inspectCmd.Flags().StringVar(&sceneFile, "scene", "", "scene file (yaml)")
	inspectCmd.Flags().StringVar(&saveDescriptor, "save-descriptor", "", "write the descriptor to this file")
	inspectCmd.Flags().StringVar(&saveScene, "save-scene", "", "write the scene to this file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list built-in models",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range experiment.NewRegistry().ListModels() {
				fmt.Println(name)
			}
			return nil
		},
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotBone, "bone", "", "also plot this bone's world track")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&svgFile, "svg", "", "write bone and com tracks to this svg file")
	exportCmd.Flags().StringVar(&poseFile, "pose", "", "write the pose at --at to this svg file")
	exportCmd.Flags().Float64Var(&poseAt, "at", 0, "time of the pose for --pose")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of centre-of-mass sway",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&swayAxis, "axis", "x", "com axis (x, y, z)")

	tuneCmd := &cobra.Command{
		Use:   "tune [model]",
		Short: "grid search parameters for the lowest metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tuneModel,
	}
	simFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&tuneParams, "param", nil, "name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "com_drift", "metric to minimise")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [model]",
		Short: "run randomly perturbed inputs and count collapses",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	simFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 16, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturb, "perturb", 0.1, "input offset range")
	monteCarloCmd.Flags().Float64Var(&perturbPitch, "perturb-pitch", 5, "input pitch range (degrees)")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")

	rootCmd.AddCommand(runCmd, liveCmd, inspectCmd, listCmd, modelsCmd, plotCmd, analyzeCmd, exportCmd, tuneCmd, scenarioCmd, monteCarloCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func simFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = one per cpu)")
	cmd.Flags().StringVar(&integrator, "integrator", "symplectic", "integrator")
	cmd.Flags().StringVar(&controlName, "control", "none", "input source (none, constant, manual, sweep)")
	cmd.Flags().Float64Var(&inX, "x", 0, "input x offset")
	cmd.Flags().Float64Var(&inY, "y", 0, "input y offset")
	cmd.Flags().Float64Var(&inZ, "z", 0, "input z offset")
	cmd.Flags().Float64Var(&inPitch, "pitch", 0, "input pitch (degrees)")
	cmd.Flags().Float64Var(&balanceGain, "gain", 0, "balance gain")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&descriptor, "descriptor", "", "bone descriptor file (yaml)")
	cmd.Flags().StringVar(&sceneFile, "scene", "", "scene file (yaml)")
}

func newLogger(cfg *config.Config) (logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.New(level, cfg.Log.Format, os.Stderr), nil
}

// loadConfig layers defaults, preset, config file, RAGDOLL_* environment
// and explicitly set flags, later layers winning.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg.Model = args[0]
	}

	if preset != "" {
		p := config.GetPreset(cfg.Model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Model))
		}
		cfg = p
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if len(args) > 0 {
			fileCfg.Model = args[0]
		}
		cfg = fileCfg
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("control") {
		cfg.Control = controlName
	}
	if flags.Changed("x") {
		cfg.Input.X = inX
	}
	if flags.Changed("y") {
		cfg.Input.Y = inY
	}
	if flags.Changed("z") {
		cfg.Input.Z = inZ
	}
	if flags.Changed("pitch") {
		cfg.Input.Pitch = inPitch
	}
	if flags.Changed("gain") {
		cfg.BalanceGain = balanceGain
	}
	if flags.Changed("descriptor") {
		cfg.Descriptor = descriptor
	}
	if flags.Changed("scene") {
		cfg.Scene = sceneFile
	}
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg, experiment.NewRegistry(), log)
	if err := exp.Setup(); err != nil {
		return err
	}
	m := exp.Model()

	if live {
		r := tui.NewLiveRenderer(os.Stdout, m.Name, frameRate)
		exp.Simulator().AddObserver(r)
		r.Start()
		defer r.Stop()
	}

	log.Info("running", "model", m.Name, "control", cfg.Control, "dt", cfg.Dt, "duration", cfg.Duration)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Model:      m.Name,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Integrator: cfg.Integrator,
		Control:    cfg.Control,
		Bodies:     m.Tree.Len(),
		Effectors:  len(m.Effectors),
	}, result)
	if err != nil {
		return err
	}
	log.Info("run saved", "id", runID, "elapsed", elapsed)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	cfg.Control = "manual"
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, experiment.NewRegistry(), log)
	if err := exp.Setup(); err != nil {
		return err
	}
	manual, ok := exp.Source().(*control.Manual)
	if !ok {
		return fmt.Errorf("live needs a manual input source")
	}
	manual.Set(cfg.ControlInput())

	app := tui.NewApp(exp.Simulator(), manual, exp.Model().Name, cfg.Dt, cfg.Duration)
	return tui.Run(app)
}

func inspectModel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, experiment.NewRegistry(), log)
	if err := exp.Setup(); err != nil {
		return err
	}
	m, w := exp.Model(), exp.World()

	fmt.Printf("model: %s\n", m.Name)
	fmt.Printf("mass: %.2f kg\n\n", m.Descriptor.Mass)
	fmt.Print(m.Tree.String())

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\nBODY\tMASS\tIXX\tIYY\tIZZ")
	for _, b := range m.Tree.Bodies() {
		mp := w.BodyMass(b)
		fmt.Fprintf(tw, "%d\t%.3f\t%.3f\t%.3f\t%.3f\n", b, mp.Mass, mp.Ixx, mp.Iyy, mp.Izz)
	}
	fmt.Fprintln(tw, "\nEFFECTOR\tBODY\tMODE\tLINEAR\tANGULAR")
	for _, e := range m.Effectors {
		p := e.Params()
		fmt.Fprintf(tw, "%s\t%d\t%v\t%.4g\t%.4g\n", e.Name(), e.Body(), p.Mode, p.MaxLinearFriction, p.MaxAngularFriction)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	com := m.CentreOfMass()
	fmt.Printf("\ncentre of mass: %.3f %.3f %.3f\n", com.X(), com.Y(), com.Z())

	if saveDescriptor != "" {
		if err := rig.Save(saveDescriptor, m.Descriptor); err != nil {
			return err
		}
		fmt.Printf("descriptor written to %s\n", saveDescriptor)
	}
	if saveScene != "" {
		root := m.Tree.Node(m.Tree.Root()).Scene
		if err := scene.Save(saveScene, root); err != nil {
			return err
		}
		fmt.Printf("scene written to %s\n", saveScene)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tDURATION\tDT\tCTRL\tSTEPS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%d\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Control,
			run.Steps,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	rows, err := st.LoadCOM(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("samples: %d\n\n", len(rows))

	captions := []string{"com x", "com height", "com z"}
	for axis, caption := range captions {
		data := make([]float64, len(rows))
		for i, r := range rows {
			data[i] = r.COM[axis]
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if plotBone == "" {
		return nil
	}
	bones, err := st.LoadBones(runID)
	if err != nil {
		return err
	}
	track := storage.BoneTrack(bones, plotBone)
	if len(track) == 0 {
		return fmt.Errorf("no samples for bone %s", plotBone)
	}
	heights := make([]float64, len(track))
	for i, p := range track {
		heights[i] = p.Y()
	}
	fmt.Println(asciigraph.Plot(heights,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(plotBone+" height"),
	))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	axes := map[string]int{"x": analysis.AxisX, "y": analysis.AxisY, "z": analysis.AxisZ}
	axis, ok := axes[swayAxis]
	if !ok {
		return fmt.Errorf("unknown axis: %s", swayAxis)
	}

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	rows, err := st.LoadCOM(runID)
	if err != nil {
		return err
	}

	s := analysis.COMSpectrum(rows, meta.Model, axis, meta.Dt)
	if len(s.Power) < 2 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("model: %s\n\n", meta.Model)

	plotData := s.Power[1:]
	if len(plotData) > 80 {
		plotData = plotData[:len(plotData)/4]
	}
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("com "+swayAxis+" amplitude spectrum"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq, _ := s.Dominant()
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	if svgFile != "" || poseFile != "" {
		return exportSVG(st, meta)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportSVG(st *storage.Store, meta *storage.RunMetadata) error {
	bones, err := st.LoadBones(meta.ID)
	if err != nil {
		return err
	}
	com, err := st.LoadCOM(meta.ID)
	if err != nil {
		return err
	}

	if svgFile != "" {
		tracks := append(export.SideTracks(bones, meta.Model), export.COMTrack(com, meta.Model))
		svg := export.TracksToSVG(tracks, 800, 600)
		if svg == "" {
			return fmt.Errorf("run %s has too few samples to draw", meta.ID)
		}
		if err := os.WriteFile(svgFile, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("tracks written to %s\n", svgFile)
	}

	if poseFile != "" {
		pose := export.PoseAt(bones, meta.Model, poseAt)
		if len(pose) == 0 {
			return fmt.Errorf("run %s has no bones for %s", meta.ID, meta.Model)
		}
		var centre mgl64.Vec3
		for _, r := range com {
			if r.Model == meta.Model {
				centre = r.COM
				if r.Time >= poseAt {
					break
				}
			}
		}
		if err := os.WriteFile(poseFile, []byte(export.PoseSVG(pose, centre, 4)), 0644); err != nil {
			return err
		}
		fmt.Printf("pose written to %s\n", poseFile)
	}
	return nil
}

func tuneModel(cmd *cobra.Command, args []string) error {
	if len(tuneParams) == 0 {
		return fmt.Errorf("at least one --param is needed (available: %v)", optim.ParamNames())
	}
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	names := make([]string, len(tuneParams))
	ranges := make([][]float64, len(tuneParams))
	for i, spec := range tuneParams {
		names[i], ranges[i], err = optim.ParseParam(spec)
		if err != nil {
			return err
		}
	}
	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	fmt.Printf("tuning %s on %s...\n", names, tuneMetric)
	best, trials, err := g.Search(context.Background(), cfg, experiment.NewRegistry(), tuneMetric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(tuneMetric))
	for _, t := range trials {
		row := make([]string, len(names))
		for i, name := range names {
			row[i] = fmt.Sprintf("%.4g", t.Params[name])
		}
		if t.Err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", strings.Join(row, "\t"), t.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%.6f\n", strings.Join(row, "\t"), t.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("\nbest:")
	for _, name := range names {
		fmt.Printf("  %s: %.4g\n", name, best.Params[name])
	}
	fmt.Printf("  %s: %.6f\n", tuneMetric, best.Value)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario: %s (%d steps)\n", sc.Name, len(sc.Steps))
	results, err := automation.RunScenario(context.Background(), sc, cfg, experiment.NewRegistry(), st, log)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tMODEL\tSTEPS\tCOM_HEIGHT\tSTABILITY\tRUN")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.4f\t%.3f\t%s\n",
			r.Name,
			r.Model,
			r.Result.StepsTaken,
			r.Result.Metrics["com_height"],
			r.Result.Metrics["stability"],
			r.RunID,
		)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	fmt.Printf("monte carlo: %s, %d trials, seed %d\n", cfg.Model, trials, seed)
	results, err := automation.RunMonteCarlo(context.Background(), &automation.MonteCarloConfig{
		Base:              cfg,
		Perturbation:      perturb,
		PitchPerturbation: perturbPitch,
		NumTrials:         trials,
		Seed:              seed,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tX\tY\tZ\tPITCH\tSTABILITY\tSTABLE")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.3f\t%.3f\t%.3f\t%.2f\t%.3f\t%v\n",
			r.Trial, r.Input.X, r.Input.Y, r.Input.Z, r.Input.Pitch, r.Metrics["stability"], r.Stable)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("\nstable: %d  unstable: %d\n", stable, unstable)
	return nil
}
