// Package builder maps parsed manifest records onto the graph store.
//
// # Overview
//
// BuildProjectGraph upserts one project, its packages and its DEPENDS_ON
// edges from a manifest record. Every statement is an idempotent MERGE:
// re-ingesting the same manifest overwrites attributes instead of
// duplicating entities. LinkPackageDependencies derives Package-to-Package
// edges for projects whose names also exist as packages, which is what
// turns inter-project dependencies into a walkable package graph.
//
// # Graph Layout
//
// Nodes: Project (name), Package (name), File (path). Edges: DEPENDS_ON
// carrying versionRange/type/lineNumber, HAS_FILE. Derived edges carry
// source = "derived". This layout is the wire contract for external
// tooling and must not change shape.
package builder
