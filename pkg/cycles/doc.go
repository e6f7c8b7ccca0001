// Package cycles finds directed cycles in the package dependency graph.
//
// # Overview
//
// Detection runs as variable-length path traversals in the store rather
// than an in-process walk: the graph already lives there, and the store's
// traversal engine handles the enumeration better than shipping the whole
// edge set over the wire. A cycle is a path of DEPENDS_ON edges from a
// package back to itself with more than one edge; self-loops do not count.
//
// Listings are capped (100 for the whole graph, 50 per project) purely to
// bound result size. Statistics run the same predicate uncapped, so the
// reported total can exceed the number of listed cycles when truncation
// occurs.
package cycles
