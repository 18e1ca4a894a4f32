package cli

import (
	"github.com/spf13/cobra"

	"github.com/diaglot/diaglot/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP render API",
		Long: `Start the diaglot HTTP API server.

Endpoints:
  POST /api/parse   parse a diagram source, return the document
  POST /api/render  run the full pipeline, return artifacts
  GET  /healthz     liveness check

The server is stateless; the artifact cache is shared across requests.`,
		Example: `  # Start on the default address
  diaglot serve

  # Start on a specific address
  diaglot serve --addr :8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, else 127.0.0.1:7420)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, addr string, noCache bool) error {
	if addr == "" {
		addr = c.Config.Server.Addr
	}

	runner := c.newRunner(noCache)
	defer runner.Close()

	srv := server.New(server.Config{
		Addr:   addr,
		Runner: runner,
		Logger: c.Logger,
	})

	printInfo("Listening on http://%s", srv.Addr())
	printDetail("Press Ctrl+C to stop")

	return srv.ListenAndServe(cmd.Context())
}
