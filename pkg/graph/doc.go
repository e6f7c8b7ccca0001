// Package graph provides the gateway to the backing graph store.
//
// # Overview
//
// The Gateway interface covers everything the rest of the system needs from
// a graph database: parameterized query and write execution, uniqueness
// constraint setup, a full clear, entity counts, and a typed capability
// flag set determined once at connect time. The production implementation
// targets Neo4j over Bolt; a MockGateway is provided for unit tests.
//
// # Capabilities
//
// Optional store extensions are probed when the connection is opened and
// exposed through Capabilities. Callers branch on the typed flags instead
// of inspecting failure messages.
//
// # Usage Example
//
//	gw, err := graph.Connect(ctx, graph.Config{URI: "bolt://localhost:7687", Username: "neo4j", Password: pw})
//	if err != nil {
//		return err
//	}
//	defer gw.Close(ctx)
//
//	rows, err := gw.ExecuteQuery(ctx, "MATCH (p:Project) RETURN p.name AS name", nil)
package graph
