package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Alen-lv/dependency-management-plugin/pkg/coords"
	"github.com/Alen-lv/dependency-management-plugin/pkg/management"
)

func (c *CLI) explainCommand() *cobra.Command {
	var scope string

	cmd := &cobra.Command{
		Use:   "explain group:name",
		Short: "Show where a managed version comes from",
		Long: `Show the effective managed version of group:name in a scope, its exclusions,
and every declaration that was made for it, superseded ones included.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := coords.ParseKey(args[0])
			if err != nil {
				return err
			}
			s, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			sc, err := s.scope(scope)
			if err != nil {
				return err
			}

			p := c.printer()
			m, ok := s.container.Lookup(sc, key.Group, key.Name)
			if !ok {
				p.info("%s is not managed in %s", key, sc)
				return nil
			}

			const w = 12
			p.title(key.String())
			p.keyValue("version", m.Coordinate.Version, w)
			p.keyValue("scope", m.Scope.String(), w)
			p.keyValue("origin", origin(m.Origin.String(), m.Bom.String()), w)
			p.keyValue("exclusions", joinOrDash(m.Exclusions.Strings()), w)
			p.keyValue("overridable", fmt.Sprint(m.Overridable), w)

			p.line("")
			p.title("History")
			scopes := []management.Scope{sc}
			if sc != management.Global {
				scopes = append(scopes, management.Global)
			}
			for _, hs := range scopes {
				for _, e := range s.container.History(hs, key.Group, key.Name) {
					printEntry(p, e, e.Sequence == m.Sequence)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&scope, "scope", "s", "", "scope to query (default global)")
	return cmd
}

func printEntry(p printer, e management.Entry, active bool) {
	marker := StyleDim.Render(iconSuperseded + " superseded")
	if active {
		marker = styleIconSuccess.Render(iconSuccess + " active")
	}
	p.line(fmt.Sprintf("  #%-4d %-10s %-12s %s  %s",
		e.Sequence, e.Scope, e.Version, origin(e.Origin.String(), e.Bom.String()), marker))
	if e.Exclusions.Len() > 0 {
		p.detail("       excludes %s", joinOrDash(e.Exclusions.Strings()))
	}
}
