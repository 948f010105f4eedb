package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Alen-lv/dependency-management-plugin/pkg/report"
)

func (c *CLI) graphCommand() *cobra.Command {
	var (
		output   string
		format   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the BOM import graph",
		Long: `Render the BOM imports of every scope as a graph. Scopes are drawn on the
left and BOMs imported by other BOMs appear further right.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "dot" && format != "svg" {
				return fmt.Errorf("unknown format %q (want dot or svg)", format)
			}
			s, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			logger := loggerFromContext(cmd.Context())
			g := report.ImportGraph(s.container)
			logger.Debugf("import graph: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())

			data := []byte(report.ToDOT(g, report.Options{Detailed: detailed}))
			if format == "svg" {
				if data, err = report.RenderSVG(cmd.Context(), string(data)); err != nil {
					return err
				}
			}

			if output == "" || output == "-" {
				_, err = c.out.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			p := c.printer()
			p.success("Rendered import graph")
			p.file(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&format, "format", "dot", "output format: dot or svg")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label BOMs with property and override counts")
	return cmd
}
