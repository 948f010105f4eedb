// Package dag provides a small directed acyclic graph with layered rows.
//
// The graph is used to describe how BOM imports relate: a scope root sits
// in row 0, the BOMs the user imported into it in row 1, and each BOM's
// own imports one row further down. A node keeps the shallowest row it was
// reached at.
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "compile", Kind: dag.NodeKindScope})
//	g.AddNode(dag.Node{ID: "org.example:bom:1.0", Row: 1})
//	g.AddEdge(dag.Edge{From: "compile", To: "org.example:bom:1.0"})
//
// A DAG is not safe for concurrent use without external synchronization.
package dag
