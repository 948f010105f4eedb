// Package pkg holds the libraries behind depmgmt.
//
// # Overview
//
// A [management.Container] stores managed versions per scope. Every scope
// falls back to the Global scope. Versions arrive either as direct
// declarations or from imported Maven BOMs. The packages are layered:
//
//  1. [coords], [errors], [settings] - coordinates, error codes and container settings
//  2. [bom] - POM parsing, property interpolation and BOM resolution
//  3. [management] - the container and its precedence rules
//  4. [dsl], [project], [manifest] - the declaration surface and its TOML form
//  5. [resolution], [report], [server] - queries over an evaluated container
//  6. [cache], [integrations], [httputil], [observability] - infrastructure
//
// # Data Flow
//
//	dependency-management.toml
//	         ↓
//	    [manifest] (decode, interpolate project properties)
//	         ↓
//	    [dsl] (imports and dependencies blocks per scope)
//	         ↓
//	    [management] (fold BOMs via [bom], record entries)
//	         ↓
//	    versions, explanations, resolutions, graphs
//
// # Quick Start
//
//	resolver := bom.NewCachingResolver(bom.NewMavenResolver(bom.DirSource{Root: repo}, logger))
//	c := management.New(resolver)
//	_ = c.ImportBom(ctx, management.Global, coords.New("org.example", "example-bom", "1.0"), nil)
//	_ = c.AddManagedVersion("compile", "com.google.guava", "guava", "33.0.0-jre")
//	versions := c.ManagedVersions("compile")
package pkg
