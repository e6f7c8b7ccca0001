package graph

import (
	"context"
	"errors"
)

// ErrConnectionFailed indicates the store could not be reached at connect time.
var ErrConnectionFailed = errors.New("graph store connection failed")

// Record is one result row, keyed by the query's return column names.
type Record map[string]any

// String returns the named column as a string, or "" when absent or
// of another type.
func (r Record) String(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// Int returns the named column as an int64. Neo4j returns all integers
// as int64; anything else yields 0.
func (r Record) Int(key string) int64 {
	switch v := r[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

// Float returns the named column as a float64.
func (r Record) Float(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

// StringSlice returns the named column as a slice of strings. List
// columns come back from the driver as []any.
func (r Record) StringSlice(key string) []string {
	list, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// MapSlice returns the named column as a slice of nested records, the
// shape produced by collect() over map projections.
func (r Record) MapSlice(key string) []Record {
	list, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Record, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Record(m))
		}
	}
	return out
}

// WriteSummary reports the effect of a write statement.
type WriteSummary struct {
	NodesCreated         int
	RelationshipsCreated int
	PropertiesSet        int
}

// Capabilities are the optional store extensions detected at connect time.
type Capabilities struct {
	// APOC reports whether the APOC procedure library is installed.
	APOC bool
}

// StoreStats are whole-graph entity counts.
type StoreStats struct {
	Projects     int64 `json:"projects"`
	Packages     int64 `json:"packages"`
	Dependencies int64 `json:"dependencies"`
	Files        int64 `json:"files"`
}

// Gateway executes graph queries against the backing store. Implementations
// hold a single long-lived connection; Close releases it.
type Gateway interface {
	// ExecuteQuery runs a statement and returns its result rows in order.
	// Statements may contain write clauses; each call is one unit of work.
	ExecuteQuery(ctx context.Context, query string, params map[string]any) ([]Record, error)

	// ExecuteWrite runs a write statement and returns its counters.
	ExecuteWrite(ctx context.Context, query string, params map[string]any) (WriteSummary, error)

	// SetupConstraints creates the identity uniqueness constraints.
	SetupConstraints(ctx context.Context) error

	// ClearDatabase deletes every node and relationship. Destructive.
	ClearDatabase(ctx context.Context) error

	// Stats returns whole-graph entity counts.
	Stats(ctx context.Context) (StoreStats, error)

	// Capabilities returns the extension flags probed at connect time.
	Capabilities() Capabilities

	// Close releases the store connection.
	Close(ctx context.Context) error
}
