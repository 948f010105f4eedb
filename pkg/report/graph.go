// Package report renders diagnostics about a finished container: the graph
// of BOM imports per scope, as Graphviz DOT or SVG.
package report

import (
	"slices"

	"github.com/Alen-lv/dependency-management-plugin/pkg/dag"
	"github.com/Alen-lv/dependency-management-plugin/pkg/management"
)

// ScopeNodeID is the node ID of a scope root.
func ScopeNodeID(s management.Scope) string {
	return "[" + s.String() + "]"
}

// ImportGraph builds the BOM import graph of c. Each scope with imports
// gets a root node; user imports hang off the root and transitive imports
// off the BOM that declared them. A BOM imported into several scopes is a
// single node.
func ImportGraph(c *management.Container) *dag.DAG {
	g := dag.New(dag.Metadata{"container": c.ID()})

	for _, scope := range c.Scopes() {
		imports := c.ImportedBoms(scope)
		if len(imports) == 0 {
			continue
		}
		root := ScopeNodeID(scope)
		_ = g.AddNode(dag.Node{ID: root, Kind: dag.NodeKindScope})

		for _, imp := range imports {
			from, row := root, 1
			if imp.Parent != nil {
				from = imp.Parent.String()
				if p, ok := g.Node(from); ok {
					row = p.Row + 1
				}
			}
			id := imp.Coordinate.String()
			if n, ok := g.Node(id); ok {
				n.Row = min(n.Row, row)
				addScope(n, scope)
			} else {
				n := dag.Node{ID: id, Row: row, Meta: dag.Metadata{
					"properties": len(imp.Properties),
					"scopes":     []string{scope.String()},
				}}
				if len(imp.Overrides) > 0 {
					n.Meta["overrides"] = len(imp.Overrides)
				}
				_ = g.AddNode(n)
			}
			_ = g.AddEdge(dag.Edge{From: from, To: id})
		}
	}
	return g
}

func addScope(n *dag.Node, scope management.Scope) {
	scopes, _ := n.Meta["scopes"].([]string)
	if !slices.Contains(scopes, scope.String()) {
		n.Meta["scopes"] = append(scopes, scope.String())
	}
}
