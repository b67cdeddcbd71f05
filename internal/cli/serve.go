package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/edgebundle/pkg/api"
	"github.com/matzehuels/edgebundle/pkg/pipeline"
)

// defaultServeAddr is the listen address when neither flag nor config set one.
const defaultServeAddr = ":8080"

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		configPath string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the bundling pipeline over HTTP",
		Long: `Serve the bundling pipeline over HTTP.

The server exposes POST /v1/bundle and POST /v1/matrix with the same
semantics as the bundle and compat commands, plus /healthz for liveness
checks. Shared cache backends (redis, mongo) can be configured in the
config file so multiple instances reuse each other's results.

The server shuts down gracefully on SIGINT and SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := pipeline.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") && cfg.Server.Addr != "" {
				addr = cfg.Server.Addr
			}

			runner, err := c.newRunner(cmd.Context(), cfg, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			server := api.NewServer(runner, c.Logger)
			return server.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultServeAddr, "listen address")
	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
