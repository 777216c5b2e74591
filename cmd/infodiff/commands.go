package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/infodiff/internal/config"
	"github.com/san-kum/infodiff/internal/diffusion"
	"github.com/san-kum/infodiff/internal/export"
	"github.com/san-kum/infodiff/internal/optim"
	"github.com/san-kum/infodiff/internal/storage"
)

// resolveConfig layers preset, config file and explicitly set flags, in
// that order, then validates the result against the input bounds.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("beta") {
		cfg.Beta = beta
	}
	if flags.Changed("gamma") {
		cfg.Gamma = gamma
	}
	if flags.Changed("theta") {
		cfg.Theta = theta
	}
	if flags.Changed("rho") {
		cfg.Rho = rho
	}
	if flags.Changed("days") {
		cfg.Horizon = horizon
	}
	if flags.Changed("dt") {
		cfg.Step = step
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func warnUnstable(cfg *config.Config) {
	for _, adv := range diffusion.CheckStability(cfg.Params(), cfg.Step) {
		logger.Warn("step too coarse for rates",
			zap.String("term", adv.Term),
			zap.Float64("product", adv.Product),
			zap.Float64("step", cfg.Step),
		)
	}
}

func printSummary(tr *diffusion.Trajectory, summary diffusion.Summary) {
	f := summary.Format()
	fmt.Printf("parameters: %s (R0=%.2f)\n", tr.Params, tr.Params.R0())
	fmt.Printf("samples: %d (dt=%g, horizon=%g)\n\n", tr.Len(), tr.Step, tr.Horizon)
	fmt.Printf("  peak I:     %s\n", f.PeakI)
	fmt.Printf("  peak time:  %s\n", f.PeakTime)
	fmt.Printf("  terminal R: %s\n", f.TerminalR)

	if drift := tr.Health[diffusion.HealthConservationDrift]; drift > 1e-9 {
		fmt.Printf("\n  conservation drift: %.3e\n", drift)
	}
	if b := tr.Health[diffusion.HealthBoundedness]; b < 1 {
		fmt.Printf("  samples within [0,1]: %.1f%%\n", b*100)
	}
}

func plotTrajectory(tr *diffusion.Trajectory) {
	graph := asciigraph.PlotMany(
		[][]float64{tr.Series(diffusion.ColumnS), tr.Series(diffusion.ColumnI), tr.Series(diffusion.ColumnR)},
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red, asciigraph.Green),
		asciigraph.Caption("S (blue)  I (red)  R (green) vs time"),
	)
	fmt.Println(graph)
	fmt.Println()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	warnUnstable(cfg)

	start := time.Now()
	tr, err := cfg.Simulate()
	if err != nil {
		return err
	}
	summary, err := diffusion.Summarize(tr)
	if err != nil {
		return err
	}
	logger.Debug("simulation complete", zap.Int("samples", tr.Len()), zap.Duration("elapsed", time.Since(start)))

	if showPlot {
		plotTrajectory(tr)
	}
	printSummary(tr, summary)

	if save {
		st := storage.New(dataDir).WithLogger(logger)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(preset, tr)
		if err != nil {
			return err
		}
		fmt.Printf("\nrun id: %s\n", runID)
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir).WithLogger(logger)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tBETA\tGAMMA\tTHETA\tRHO\tDAYS\tPEAK I\tPEAK T\tFINAL R")

	for _, run := range runs {
		f := run.Summary.Format()
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.0f\t%s\t%s\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Params.Beta,
			run.Params.Gamma,
			run.Params.Theta,
			run.Params.Rho,
			run.Horizon,
			f.PeakI,
			f.PeakTime,
			f.TerminalR,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*diffusion.Trajectory, error) {
	tr, err := storage.New(dataDir).WithLogger(logger).LoadTrajectory(runID)
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", runID, err)
	}
	return tr, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	tr, err := loadRun(args[0])
	if err != nil {
		return err
	}
	summary, err := diffusion.Summarize(tr)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n\n", args[0])
	plotTrajectory(tr)
	printSummary(tr, summary)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	tr, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, tr)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	tr, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, args[0], tr)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	tr, err := loadRun(args[0])
	if err != nil {
		return err
	}

	if svgOut == "" {
		return export.WriteSVG(os.Stdout, tr, svgW, svgH)
	}

	f, err := os.Create(svgOut)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := export.WriteSVG(f, tr, svgW, svgH); err != nil {
		return err
	}
	logger.Info("svg written", zap.String("path", svgOut))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tBETA\tGAMMA\tTHETA\tRHO\tDAYS\tR0")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.0f\t%.2f\n",
			name, p.Beta, p.Gamma, p.Theta, p.Rho, p.Horizon, p.Params().R0())
	}
	return w.Flush()
}

// maxGridValues bounds one parameter's range expansion.
const maxGridValues = 1000

// parseGrid reads name=v1,v2,... or name=start:stop:step.
func parseGrid(arg string) (string, []float64, error) {
	name, raw, ok := strings.Cut(arg, "=")
	if !ok || name == "" || raw == "" {
		return "", nil, fmt.Errorf("bad grid %q: want name=v1,v2 or name=start:stop:step", arg)
	}

	if parts := strings.Split(raw, ":"); len(parts) == 3 {
		var bounds [3]float64
		for i, p := range parts {
			v, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return "", nil, fmt.Errorf("bad grid %q: %w", arg, err)
			}
			bounds[i] = v
		}
		start, stop, inc := bounds[0], bounds[1], bounds[2]
		if !(inc > 0) || !(stop >= start) {
			return "", nil, fmt.Errorf("bad grid %q: need start <= stop and step > 0", arg)
		}
		if n := math.Floor((stop-start)/inc) + 1; math.IsInf(n, 0) || n > maxGridValues {
			return "", nil, fmt.Errorf("bad grid %q: more than %d values", arg, maxGridValues)
		}
		var vals []float64
		for i := 0; ; i++ {
			v := start + float64(i)*inc
			if v > stop+inc*1e-9 {
				break
			}
			vals = append(vals, v)
		}
		return name, vals, nil
	}

	var vals []float64
	for _, p := range strings.Split(raw, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return "", nil, fmt.Errorf("bad grid %q: %w", arg, err)
		}
		vals = append(vals, v)
	}
	return name, vals, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	if len(sweepParams) == 0 {
		return fmt.Errorf("at least one --param grid is required")
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(sweepParams))
	ranges := make([][]float64, 0, len(sweepParams))
	for _, arg := range sweepParams {
		name, vals, err := parseGrid(arg)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}

	obj := optim.Objective(objective)
	g := optim.NewGridSearch(names, ranges).WithWorkers(workers).WithLogger(logger)

	start := time.Now()
	points, err := g.Run(context.Background(), cfg.Params(), cfg.Horizon, cfg.Step, cfg.GetInitState())
	if err != nil {
		return err
	}
	ranked, err := optim.Rank(points, obj, maximize)
	if err != nil {
		return err
	}
	logger.Info("sweep complete", zap.Int("cells", len(points)), zap.Duration("elapsed", time.Since(start)))

	if top > 0 && len(ranked) > top {
		ranked = ranked[:top]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BETA\tGAMMA\tTHETA\tRHO\tR0\tPEAK I\tPEAK T\tFINAL R")
	for _, pt := range ranked {
		f := pt.Summary.Format()
		fmt.Fprintf(w, "%.3f\t%.3f\t%.3f\t%.3f\t%.2f\t%s\t%s\t%s\n",
			pt.Params.Beta, pt.Params.Gamma, pt.Params.Theta, pt.Params.Rho,
			pt.Params.R0(), f.PeakI, f.PeakTime, f.TerminalR)
	}
	return w.Flush()
}
