package cli

import (
	"github.com/spf13/cobra"

	"github.com/Alen-lv/dependency-management-plugin/pkg/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the evaluated container over HTTP",
		Long: `Evaluate the manifest once and serve read-only queries against the result,
along with Prometheus metrics at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			srv := server.New(s.container,
				server.WithLogger(loggerFromContext(cmd.Context())),
				server.WithGatherer(c.metrics),
				server.WithProject(s.project),
			)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
