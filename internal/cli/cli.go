// Package cli implements the edgebundle command-line interface.
//
// This package provides commands for bundling edge sets, inspecting edge
// compatibility, serving the HTTP API, and managing the local result cache.
// The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - bundle: Run force-directed bundling over an edge file
//   - compat: Inspect the edge compatibility matrix
//   - serve: Expose the pipeline over HTTP
//   - cache: Manage the local result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
//
// # Example
//
//	import "github.com/matzehuels/edgebundle/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/edgebundle/pkg/buildinfo"
	"github.com/matzehuels/edgebundle/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "edgebundle"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "edgebundle",
		Short:        "Edgebundle bundles edges of node-link diagrams",
		Long:         `Edgebundle applies force-directed edge bundling to node-link diagrams, curving compatible edges toward each other so dense graphs reveal their high-level connectivity patterns.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.bundleCommand())
	root.AddCommand(c.compatCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
// The cache backend comes from the config file; without one, a file cache
// under the XDG cache directory is used. noCache disables caching entirely.
func (c *CLI) newRunner(ctx context.Context, cfg pipeline.Config, noCache bool) (*pipeline.Runner, error) {
	if noCache {
		cfg.Cache.Backend = pipeline.BackendNone
	}
	dir, err := cacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	backend, err := cfg.Cache.NewCache(ctx, dir)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(backend, cfg.Cache.Keyer(), c.Logger), nil
}

// cacheDir returns the cache directory using the XDG standard
// (~/.cache/edgebundle/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
