package cycles

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/depscope/depscope/pkg/graph"
)

// The variable-length traversals are bounded at 10 hops so pathological
// graphs cannot stall the store. Listing caps are separate.
//
// A closed path matches once per node it contains, so the unanchored
// queries keep only the traversal that starts at the cycle's
// lexicographically smallest package. The project-scoped query cannot
// carry that filter (its anchor is fixed by the project) and relies on
// the canonicalization in cyclesFromRows instead.
const (
	allCyclesQuery = `
MATCH path = (p:Package)-[:DEPENDS_ON*2..10]->(p)
WHERE ALL(n IN nodes(path) WHERE p.name <= n.name)
WITH [n IN nodes(path) | n.name] AS packages, length(path) AS cycleLength
RETURN DISTINCT packages, cycleLength
ORDER BY cycleLength ASC
LIMIT 100
`

	directCyclesQuery = `
MATCH (a:Package)-[:DEPENDS_ON]->(b:Package), (b)-[:DEPENDS_ON]->(a)
WHERE a.name < b.name
RETURN a.name AS packageA, b.name AS packageB
ORDER BY packageA ASC
`

	projectCyclesQuery = `
MATCH (proj:Project {name: $project})-[:DEPENDS_ON]->(start:Package)
MATCH path = (start)-[:DEPENDS_ON*2..10]->(start)
WITH [n IN nodes(path) | n.name] AS packages, length(path) AS cycleLength
RETURN DISTINCT packages, cycleLength
ORDER BY cycleLength ASC
LIMIT 50
`

	statisticsQuery = `
MATCH path = (p:Package)-[:DEPENDS_ON*2..10]->(p)
WHERE ALL(n IN nodes(path) WHERE p.name <= n.name)
WITH [n IN nodes(path) | n.name] AS packages, length(path) AS cycleLength
RETURN DISTINCT packages, cycleLength
`
)

// Cycle is one directed cycle; Packages lists the visited node names in
// canonical rotation (starting at the lexicographically smallest name)
// with the starting package repeated at the end. Length is the edge count.
type Cycle struct {
	Packages []string `json:"packages"`
	Length   int      `json:"length"`
}

// DirectCycle is a mutual two-package dependency. PackageA sorts
// lexicographically before PackageB so each pair is reported once.
type DirectCycle struct {
	PackageA string `json:"packageA"`
	PackageB string `json:"packageB"`
}

// Statistics aggregates cycle counts over the whole graph, uncapped.
type Statistics struct {
	TotalCycles    int     `json:"totalCycles"`
	ShortestCycle  int     `json:"shortestCycle"`
	LongestCycle   int     `json:"longestCycle"`
	AvgCycleLength float64 `json:"avgCycleLength"`
}

// Detector finds cycles in the Package-to-Package DEPENDS_ON subgraph.
type Detector struct {
	gw graph.Gateway
}

// NewDetector creates a cycle detector on the given gateway.
func NewDetector(gw graph.Gateway) *Detector {
	return &Detector{gw: gw}
}

// FindAllCycles returns every distinct cycle in the graph, shortest
// first, capped at 100 results.
func (d *Detector) FindAllCycles(ctx context.Context) ([]Cycle, error) {
	rows, err := d.gw.ExecuteQuery(ctx, allCyclesQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("cycle detection failed: %w", err)
	}
	return cyclesFromRows(rows), nil
}

// FindDirectCycles returns mutual two-package dependencies, one entry
// per unordered pair.
func (d *Detector) FindDirectCycles(ctx context.Context) ([]DirectCycle, error) {
	rows, err := d.gw.ExecuteQuery(ctx, directCyclesQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("direct cycle detection failed: %w", err)
	}

	pairs := make([]DirectCycle, 0, len(rows))
	for _, row := range rows {
		pairs = append(pairs, DirectCycle{
			PackageA: row.String("packageA"),
			PackageB: row.String("packageB"),
		})
	}
	return pairs, nil
}

// FindProjectCycles returns cycles reachable from the named project's
// direct package dependencies, capped at 50 results.
func (d *Detector) FindProjectCycles(ctx context.Context, projectName string) ([]Cycle, error) {
	rows, err := d.gw.ExecuteQuery(ctx, projectCyclesQuery, map[string]any{"project": projectName})
	if err != nil {
		return nil, fmt.Errorf("cycle detection for %s failed: %w", projectName, err)
	}
	return cyclesFromRows(rows), nil
}

// GetStatistics computes cycle statistics over the uncapped cycle set.
// All fields are zero when the graph has no cycles.
func (d *Detector) GetStatistics(ctx context.Context) (Statistics, error) {
	rows, err := d.gw.ExecuteQuery(ctx, statisticsQuery, nil)
	if err != nil {
		return Statistics{}, fmt.Errorf("cycle statistics failed: %w", err)
	}

	cycles := cyclesFromRows(rows)
	if len(cycles) == 0 {
		return Statistics{}, nil
	}

	stats := Statistics{
		TotalCycles:   len(cycles),
		ShortestCycle: cycles[0].Length,
		LongestCycle:  cycles[0].Length,
	}
	total := 0
	for _, c := range cycles {
		total += c.Length
		if c.Length < stats.ShortestCycle {
			stats.ShortestCycle = c.Length
		}
		if c.Length > stats.LongestCycle {
			stats.LongestCycle = c.Length
		}
	}
	stats.AvgCycleLength = math.Round(float64(total)/float64(len(cycles))*100) / 100
	return stats, nil
}

// cyclesFromRows canonicalizes the raw closed walks a traversal returns.
// Each row is one walk with its start repeated at the end. Walks that
// revisit an interior node are not simple cycles and are dropped; the
// rest are rotated to start at their smallest package name so the same
// cycle entered at different nodes collapses to one entry.
func cyclesFromRows(rows []graph.Record) []Cycle {
	cycles := make([]Cycle, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		packages, ok := canonicalCycle(row.StringSlice("packages"))
		if !ok {
			continue
		}
		key := strings.Join(packages, "\x00")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		cycles = append(cycles, Cycle{
			Packages: packages,
			Length:   int(row.Int("cycleLength")),
		})
	}
	return cycles
}

// canonicalCycle rotates a closed walk to begin at its lexicographically
// smallest package, keeping the start repeated at the end. It reports
// false for malformed rows and for walks that visit a node twice.
func canonicalCycle(names []string) ([]string, bool) {
	if len(names) < 3 || names[0] != names[len(names)-1] {
		return nil, false
	}
	body := names[:len(names)-1]
	seen := make(map[string]struct{}, len(body))
	minIdx := 0
	for i, name := range body {
		if _, dup := seen[name]; dup {
			return nil, false
		}
		seen[name] = struct{}{}
		if name < body[minIdx] {
			minIdx = i
		}
	}
	rotated := make([]string, 0, len(names))
	rotated = append(rotated, body[minIdx:]...)
	rotated = append(rotated, body[:minIdx]...)
	rotated = append(rotated, body[minIdx])
	return rotated, true
}
