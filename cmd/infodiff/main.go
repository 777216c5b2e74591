package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/infodiff/internal/config"
	"github.com/san-kum/infodiff/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	logger     = zap.NewNop()
	configFile string
	preset     string

	beta    float64
	gamma   float64
	theta   float64
	rho     float64
	horizon float64
	step    float64

	save     bool
	showPlot bool
	svgOut   string
	svgW     int
	svgH     int

	sweepParams []string
	objective   string
	maximize    bool
	workers     int
	top         int
)

// addModelFlags registers the simulation parameters on cmd.
func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&beta, "beta", config.DefaultBeta, "base transmission rate")
	cmd.Flags().Float64Var(&gamma, "gamma", config.DefaultGamma, "forgetting rate")
	cmd.Flags().Float64Var(&theta, "theta", config.DefaultTheta, "persuasion multiplier")
	cmd.Flags().Float64Var(&rho, "rho", config.DefaultRho, "re-entry rate (R -> S)")
	cmd.Flags().Float64Var(&horizon, "days", config.DefaultHorizon, "simulation horizon in days")
	cmd.Flags().Float64Var(&step, "dt", config.DefaultStep, "integration step")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "infodiff",
		Short:         "information diffusion simulator (SIR with persuasion and re-entry)",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// The interactive screen owns the terminal; keep the no-op logger.
			if !cmd.HasParent() || cmd.Name() == "tui" {
				return nil
			}

			cfg := zap.NewProductionConfig()
			if verbose {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			l, err := cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.Run(config.DefaultConfig())
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".infodiff", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run one simulation and print its summary",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addModelFlags(runCmd)
	runCmd.Flags().BoolVar(&save, "save", false, "store the run in the data directory")
	runCmd.Flags().BoolVar(&showPlot, "plot", true, "draw the S/I/R chart")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive mode: adjust parameters and watch the run update",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			return viz.Run(cfg)
		},
	}
	addModelFlags(tuiCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a stored run as a time,S,I,R table",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run as JSON columns",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a stored run as an SVG chart",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgW, "width", 800, "chart width")
	exportSVGCmd.Flags().IntVar(&svgH, "height", 400, "chart height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "evaluate a grid of parameters and rank them by a summary value",
		Long: `Sweep simulates every combination of the given parameter values.

Each --param takes name=v1,v2,... or name=start:stop:step, for example
  infodiff sweep --param theta=0.5:2:0.5 --param rho=0,0.1,0.2 --objective peak_i --max`,
		Args: cobra.NoArgs,
		RunE: runSweep,
	}
	addModelFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "parameter grid (repeatable)")
	sweepCmd.Flags().StringVar(&objective, "objective", "peak_i", "peak_i, peak_time or terminal_r")
	sweepCmd.Flags().BoolVar(&maximize, "max", false, "rank by largest objective instead of smallest")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "concurrent simulations (default GOMAXPROCS)")
	sweepCmd.Flags().IntVar(&top, "top", 10, "rows to print")

	rootCmd.AddCommand(runCmd, tuiCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
