// Package api implements the HTTP API for querying the dependency
// graph.
//
// Routes are mounted under /api/v1 and cover manifest ingestion,
// project and package queries, circular dependency listings, and
// version conflict reports. All handlers return JSON and rely on the
// pkg/httputil helpers for consistent error shapes.
package api
