package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	dmerrors "github.com/Alen-lv/dependency-management-plugin/pkg/errors"
	"github.com/Alen-lv/dependency-management-plugin/pkg/resolution"
)

func (c *CLI) resolveCommand() *cobra.Command {
	var (
		scope      string
		transitive bool
	)

	cmd := &cobra.Command{
		Use:   "resolve group:name[:version]",
		Short: "Show the version a requested dependency resolves to",
		Long: `Apply dependency management to a requested dependency. A directly requested
version wins over the managed one while overridden-by-dependencies is on;
--transitive treats the request as reached through another dependency.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := parseRequest(args[0])
			if err != nil {
				return err
			}
			req.Direct = !transitive

			s, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			sc, err := s.scope(scope)
			if err != nil {
				return err
			}
			res, err := resolution.New(s.container).Resolve(sc, req)
			if err != nil {
				return err
			}

			p := c.printer()
			const w = 12
			p.success("%s", res.Coordinate)
			p.keyValue("source", res.Source.String(), w)
			if res.Replaced != "" {
				p.keyValue("replaced", fmt.Sprintf("%s (%s)", res.Replaced, res.Direction), w)
			}
			if res.Managed != nil {
				p.keyValue("managed by", origin(res.Managed.Origin.String(), res.Managed.Bom.String()), w)
			}
			p.keyValue("exclusions", joinOrDash(res.Exclusions.Strings()), w)
			return nil
		},
	}

	cmd.Flags().StringVarP(&scope, "scope", "s", "", "scope to resolve in (default global)")
	cmd.Flags().BoolVar(&transitive, "transitive", false, "treat the request as transitive")
	return cmd
}

// parseRequest accepts group:name or group:name:version.
func parseRequest(id string) (resolution.Request, error) {
	parts := strings.Split(id, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return resolution.Request{}, dmerrors.New(dmerrors.ErrCodeMalformedCoordinate,
			"Dependency request '%s' is malformed. The required form is 'group:name[:version]'", id)
	}
	req := resolution.Request{Group: strings.TrimSpace(parts[0]), Name: strings.TrimSpace(parts[1])}
	if len(parts) == 3 {
		req.Version = strings.TrimSpace(parts[2])
	}
	return req, nil
}
