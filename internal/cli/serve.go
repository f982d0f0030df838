package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/layerview/pkg/server"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Routes:
  GET    /healthz             liveness and build info
  POST   /v1/layouts          lay out {"items": [...], "options": {...}}
                              (?format=json|yaml|dot|svg)
  DELETE /v1/layouts/{key}    drop a cached layout

Layout defaults, rate limits and the cache backend come from the config
file. The server shuts down gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			scfg, err := server.ConfigFrom(cfg)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			printInfo("Listening on %s", StyleHighlight.Render(cfg.Server.Addr))
			return server.New(runner, scfg, c.Logger).ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
