package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphgen/internal/server"
)

// serveCommand creates the serve command, which exposes the pipeline over
// HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the graph generation HTTP API",
		Long: `Serve starts an HTTP server with the following routes:

  GET  /healthz            liveness probe
  POST /v1/graphs          generate a graph from JSON options
  GET  /v1/graphs          list archived runs
  GET  /v1/graphs/{id}     fetch a run (?format=json|dot|svg&detailed=true)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close(context.Background())

	return server.New(runner, c.Logger).ListenAndServe(ctx, addr)
}
