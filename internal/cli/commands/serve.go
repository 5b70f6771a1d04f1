package commands

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/leapstack-labs/trendsql/internal/resultsrv"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	var port int
	var host string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve run results over HTTP",
		Long: `Serve the output directory of the last run:

  GET /api/manifest         the run summary as JSON
  GET /api/results/{file}   one result CSV
  GET /api/events           server-sent events, one per manifest rewrite
  GET /healthz              liveness

Combine with 'trendsql run --watch' in another terminal for live results.`,
		Example: `  trendsql serve --port 9000`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := NewCommandContext(cmd)
			if !cmd.Flags().Changed("port") {
				port = c.Cfg.Serve.Port
			}
			addr := net.JoinHostPort(host, strconv.Itoa(port))
			if err := os.MkdirAll(c.Cfg.OutputDir, 0o750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			ctx, stop := signalContext(cmd)
			defer stop()

			c.Renderer.Success(fmt.Sprintf("Serving %s on http://%s", c.Cfg.OutputDir, addr))
			return resultsrv.NewServer(resultsrv.Config{
				Dir:    c.Cfg.OutputDir,
				Addr:   addr,
				Watch:  true,
				Logger: c.Logger,
			}).Serve(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
	cmd.Flags().StringVar(&host, "host", "localhost", "Interface to bind")
	return cmd
}
