package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/edgebundle/pkg/bundle"
	"github.com/matzehuels/edgebundle/pkg/graph"
	"github.com/matzehuels/edgebundle/pkg/io"
	"github.com/matzehuels/edgebundle/pkg/pipeline"
)

// compatCommand creates the compat command for inspecting edge compatibility.
func (c *CLI) compatCommand() *cobra.Command {
	var (
		threshold float64
		full      bool
		jsonOut   bool
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "compat [edges.json|edges.csv]",
		Short: "Inspect the edge compatibility matrix",
		Long: `Inspect the edge compatibility matrix.

Compatibility scores in [0,1] determine which edge pairs attract each
other during bundling. This command computes the matrix for an edge file
and prints summary statistics, which helps with tuning the threshold:
if bundling barely changes the drawing, the threshold is probably
filtering out most pairs.

Use --full to dump the pairwise scores, or --json for machine-readable
output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCompat(cmd.Context(), args[0], threshold, full, jsonOut, noCache)
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", bundle.DefaultThreshold, "compatibility threshold in [0,1]")
	cmd.Flags().BoolVar(&full, "full", false, "print the pairwise score table")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the summary as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runCompat computes and prints the compatibility matrix summary.
func (c *CLI) runCompat(ctx context.Context, input string, threshold float64, full, jsonOut, noCache bool) error {
	edges, err := io.ImportEdges(input)
	if err != nil {
		return fmt.Errorf("load edges %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, pipeline.Config{}, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	track := newProgress(c.Logger)
	summary, cached, err := runner.MatrixWithCacheInfo(ctx, edges, threshold)
	if err != nil {
		return fmt.Errorf("compat: %w", err)
	}
	track.done(fmt.Sprintf("Scored %d edge pairs", summary.Size*(summary.Size-1)/2))

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	printSuccess("Compatibility matrix for %d edges", summary.Size)
	printKeyValue("threshold", fmt.Sprintf("%.2f", summary.Threshold))
	printKeyValue("pairs above", fmt.Sprintf("%d", summary.NonzeroPairs))
	printKeyValue("mean score", fmt.Sprintf("%.4f", summary.MeanScore))
	printStats(summary.Size, 0, cached)

	if full {
		printNewline()
		printMatrix(summary, edgeIDs(edges))
	}
	return nil
}

func edgeIDs(edges graph.EdgeSet) []int {
	ids := make([]int, len(edges.Edges))
	for i, e := range edges.Edges {
		ids[i] = e.ID
	}
	return ids
}

// printMatrix dumps the upper triangle of the score table.
func printMatrix(summary pipeline.MatrixSummary, ids []int) {
	for i := 0; i < summary.Size; i++ {
		for j := i + 1; j < summary.Size; j++ {
			score := summary.Scores[i][j]
			line := fmt.Sprintf("%4d %s %-4d %.4f", ids[i], iconArrow, ids[j], score)
			if score > 0 {
				fmt.Println("  " + StyleValue.Render(line))
			} else {
				printDetail("%s", line)
			}
		}
	}
}
