package cli

import (
	"encoding/json"
	"io"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/Alen-lv/dependency-management-plugin/pkg/management"
)

func (c *CLI) versionsCommand() *cobra.Command {
	var (
		scope  string
		own    bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List the managed versions of a scope",
		Long: `List the effective managed versions of a scope. Unless --own is given, Global
entries that the scope does not override are included.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			sc, err := s.scope(scope)
			if err != nil {
				return err
			}
			list := s.container.ManagedForScope(sc, !own)

			if asJSON {
				out := make(map[string]string, len(list))
				for _, m := range list {
					out[m.Coordinate.Key().String()] = m.Coordinate.Version
				}
				return writeJSON(c.out, out)
			}
			printManaged(c.printer(), sc, list)
			return nil
		},
	}

	cmd.Flags().StringVarP(&scope, "scope", "s", "", "scope to query (default global)")
	cmd.Flags().BoolVar(&own, "own", false, "omit entries inherited from global")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print group:name → version as JSON")
	return cmd
}

func printManaged(p printer, scope management.Scope, list []management.Managed) {
	if len(list) == 0 {
		p.info("No managed versions in %s", scope)
		return
	}
	p.title(scope.String())
	keys := make([]string, len(list))
	for i, m := range list {
		keys[i] = m.Coordinate.Key().String()
	}
	w := keyWidth(keys)
	for i, m := range list {
		line := StyleValue.Render(m.Coordinate.Version) + "  " + origin(m.Origin.String(), m.Bom.String())
		if m.Scope != scope {
			line += StyleDim.Render("  (global)")
		}
		p.line(styleKey.Width(w).Render(keys[i]) + "  " + line)
	}
}

func (c *CLI) propertiesCommand() *cobra.Command {
	var (
		scope  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "properties",
		Short: "List the properties of imported BOMs",
		Long: `List the properties of the BOMs imported into a scope and into global, with
property overrides applied. Properties of BOMs imported by other BOMs are not
included.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			sc, err := s.scope(scope)
			if err != nil {
				return err
			}
			props := s.container.ImportedPropertiesForScope(sc)
			if asJSON {
				return writeJSON(c.out, props)
			}

			p := c.printer()
			if len(props) == 0 {
				p.info("No imported properties in %s", sc)
				return nil
			}
			keys := slices.Sorted(maps.Keys(props))
			w := keyWidth(keys)
			for _, k := range keys {
				p.keyValue(k, props[k], w)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&scope, "scope", "s", "", "scope to query (default global)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
