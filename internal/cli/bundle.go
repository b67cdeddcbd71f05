package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/edgebundle/pkg/io"
	"github.com/matzehuels/edgebundle/pkg/pipeline"
)

// bundleCommand creates the bundle command, the main entry point of the CLI.
func (c *CLI) bundleCommand() *cobra.Command {
	var (
		output      string
		configPath  string
		noCache     bool
		interactive bool
	)
	opts := pipeline.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "bundle [edges.json|edges.csv]",
		Short: "Bundle the edges of a node-link diagram",
		Long: `Bundle the edges of a node-link diagram.

The bundle command reads straight-line edges from a JSON or CSV file, runs
the force-directed bundling simulation, and writes the curved polylines to
a JSON or CSV file. The output format follows the output file extension.

Results are cached locally, so rerunning with the same input and
parameters is instant. Use --refresh to force a recomputation, or
--no-cache to disable caching entirely.

Use --interactive to pick a parameter preset instead of setting individual
flags.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := pipeline.LoadConfig(configPath)
			if err != nil {
				return err
			}
			mergeConfigOptions(cmd, &opts, cfg)

			if interactive {
				selected, err := selectPreset(&opts)
				if err != nil {
					return fmt.Errorf("preset selection: %w", err)
				}
				if !selected {
					printInfo("No preset selected, aborting")
					return nil
				}
			}

			return c.runBundle(cmd.Context(), args[0], output, opts, cfg, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, .json or .csv (default: <input>_bundled.json)")
	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if a cached result exists")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick a parameter preset interactively")

	// Simulation flags
	cmd.Flags().Float64Var(&opts.K, "k", opts.K, "global spring constant")
	cmd.Flags().Float64Var(&opts.Electrostatic, "electrostatic", opts.Electrostatic, "inter-edge attraction scale")
	cmd.Flags().IntVar(&opts.Cycles, "cycles", opts.Cycles, "subdivision cycle count")
	cmd.Flags().Float64Var(&opts.Threshold, "threshold", opts.Threshold, "compatibility threshold in [0,1]")
	cmd.Flags().IntVar(&opts.Iterations, "iterations", opts.Iterations, "first-cycle iteration count")
	cmd.Flags().Float64Var(&opts.StepSize, "step-size", opts.StepSize, "first-cycle integration step")
	cmd.Flags().IntVar(&opts.InitialPoints, "initial-points", opts.InitialPoints, "interior points before the first cycle")
	cmd.Flags().Float64Var(&opts.IterationDecay, "decay", opts.IterationDecay, "per-cycle iteration decay in (0,1]")
	cmd.Flags().BoolVar(&opts.NormalizeWeights, "normalize-weights", opts.NormalizeWeights, "rescale edge weights into [0.5, 1.5]")
	cmd.Flags().IntVar(&opts.Workers, "workers", opts.Workers, "force computation goroutines (0 = one per CPU)")

	return cmd
}

// runBundle imports the edges, runs the pipeline, and exports the result.
func (c *CLI) runBundle(ctx context.Context, input, output string, opts pipeline.Options, cfg pipeline.Config, noCache bool) error {
	edges, err := io.ImportEdges(input)
	if err != nil {
		return fmt.Errorf("load edges %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Bundling %d edges...", len(edges.Edges)))
	spinner.Start()

	result, err := runner.Execute(ctx, edges, opts)
	if err != nil {
		spinner.StopWithError("Bundling failed")
		return fmt.Errorf("bundle: %w", err)
	}
	spinner.Stop()

	if output == "" {
		output = defaultOutputPath(input)
	}
	if err := io.ExportResult(result.Result, output); err != nil {
		return fmt.Errorf("write result %s: %w", output, err)
	}

	printSuccess("Bundled %d edges", result.Stats.EdgeCount)
	printStats(result.Stats.EdgeCount, result.Stats.PointCount, result.CacheInfo.BundleHit)
	printFile(output)
	printNewline()
	printNextStep("Inspect edge compatibility", fmt.Sprintf("edgebundle compat %s", input))
	return nil
}

// mergeConfigOptions overlays config file values onto opts, keeping any
// value the user set explicitly on the command line.
func mergeConfigOptions(cmd *cobra.Command, opts *pipeline.Options, cfg pipeline.Config) {
	fromConfig := cfg.Options()
	apply := func(flag string, set func()) {
		if !cmd.Flags().Changed(flag) {
			set()
		}
	}
	apply("k", func() { opts.K = fromConfig.K })
	apply("electrostatic", func() { opts.Electrostatic = fromConfig.Electrostatic })
	apply("cycles", func() { opts.Cycles = fromConfig.Cycles })
	apply("threshold", func() { opts.Threshold = fromConfig.Threshold })
	apply("iterations", func() { opts.Iterations = fromConfig.Iterations })
	apply("step-size", func() { opts.StepSize = fromConfig.StepSize })
	apply("initial-points", func() { opts.InitialPoints = fromConfig.InitialPoints })
	apply("decay", func() { opts.IterationDecay = fromConfig.IterationDecay })
	apply("normalize-weights", func() { opts.NormalizeWeights = fromConfig.NormalizeWeights })
	apply("workers", func() { opts.Workers = fromConfig.Workers })
}

// defaultOutputPath derives the output file name from the input file.
// "flights.csv" becomes "flights_bundled.json".
func defaultOutputPath(input string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + "_bundled.json"
}
