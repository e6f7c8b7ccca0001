package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Config holds Neo4j connection settings.
type Config struct {
	URI      string
	Username string
	Password string
	Database string
}

// Neo4jGateway is the production Gateway backed by a Bolt driver. One
// gateway owns one driver for the lifetime of the process.
type Neo4jGateway struct {
	driver   neo4j.DriverWithContext
	database string
	caps     Capabilities
}

// Connect opens a driver, verifies connectivity and probes optional
// store capabilities. The returned gateway must be closed by the caller.
func Connect(ctx context.Context, cfg Config) (*Neo4jGateway, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	g := &Neo4jGateway{driver: driver, database: cfg.Database}
	g.caps.APOC = g.probeAPOC(ctx)
	return g, nil
}

func (g *Neo4jGateway) session(ctx context.Context) neo4j.SessionWithContext {
	return g.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: g.database,
	})
}

// probeAPOC checks once whether the APOC procedure library is callable.
func (g *Neo4jGateway) probeAPOC(ctx context.Context) bool {
	session := g.session(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, ProbeAPOC, nil)
	if err != nil {
		return false
	}
	_, err = result.Consume(ctx)
	return err == nil
}

// ExecuteQuery runs a statement and collects all result rows.
func (g *Neo4jGateway) ExecuteQuery(ctx context.Context, query string, params map[string]any) ([]Record, error) {
	session := g.session(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}

	var rows []Record
	for result.Next(ctx) {
		rec := result.Record()
		row := make(Record, len(rec.Keys))
		for i, key := range rec.Keys {
			row[key] = rec.Values[i]
		}
		rows = append(rows, row)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	return rows, nil
}

// ExecuteWrite runs a write statement and returns its counters.
func (g *Neo4jGateway) ExecuteWrite(ctx context.Context, query string, params map[string]any) (WriteSummary, error) {
	session := g.session(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return WriteSummary{}, fmt.Errorf("write execution failed: %w", err)
	}
	summary, err := result.Consume(ctx)
	if err != nil {
		return WriteSummary{}, fmt.Errorf("write execution failed: %w", err)
	}

	counters := summary.Counters()
	return WriteSummary{
		NodesCreated:         counters.NodesCreated(),
		RelationshipsCreated: counters.RelationshipsCreated(),
		PropertiesSet:        counters.PropertiesSet(),
	}, nil
}

// SetupConstraints creates the three identity uniqueness constraints.
func (g *Neo4jGateway) SetupConstraints(ctx context.Context) error {
	for _, stmt := range []string{ConstraintProjectName, ConstraintPackageName, ConstraintFilePath} {
		if _, err := g.ExecuteWrite(ctx, stmt, nil); err != nil {
			return fmt.Errorf("constraint setup failed: %w", err)
		}
	}
	return nil
}

// ClearDatabase deletes all nodes and relationships.
func (g *Neo4jGateway) ClearDatabase(ctx context.Context) error {
	_, err := g.ExecuteWrite(ctx, ClearAll, nil)
	return err
}

// Stats returns whole-graph entity counts.
func (g *Neo4jGateway) Stats(ctx context.Context) (StoreStats, error) {
	var stats StoreStats
	for _, c := range []struct {
		query string
		dest  *int64
	}{
		{CountProjects, &stats.Projects},
		{CountPackages, &stats.Packages},
		{CountDependencies, &stats.Dependencies},
		{CountFiles, &stats.Files},
	} {
		rows, err := g.ExecuteQuery(ctx, c.query, nil)
		if err != nil {
			return StoreStats{}, err
		}
		if len(rows) > 0 {
			*c.dest = rows[0].Int("count")
		}
	}
	return stats, nil
}

// Capabilities returns the flags probed at connect time.
func (g *Neo4jGateway) Capabilities() Capabilities {
	return g.caps
}

// Ping verifies the store is still reachable.
func (g *Neo4jGateway) Ping(ctx context.Context) error {
	return g.driver.VerifyConnectivity(ctx)
}

// Close releases the driver.
func (g *Neo4jGateway) Close(ctx context.Context) error {
	return g.driver.Close(ctx)
}
