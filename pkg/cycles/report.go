package cycles

import (
	"fmt"
	"strings"
)

// FormatReport renders a cycle listing for console output.
func FormatReport(cycles []Cycle) string {
	var b strings.Builder

	if len(cycles) == 0 {
		b.WriteString("No circular dependencies found.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Found %d circular dependency chain(s):\n\n", len(cycles))
	for i, c := range cycles {
		fmt.Fprintf(&b, "%d. [length %d] %s\n", i+1, c.Length, strings.Join(c.Packages, " -> "))
	}

	b.WriteString("\nTo break a cycle, extract the shared code into a package\n")
	b.WriteString("neither side depends on, or invert one of the dependencies\n")
	b.WriteString("behind an interface owned by the consumer.\n")
	return b.String()
}

// FormatStatistics renders cycle statistics for console output.
func FormatStatistics(stats Statistics) string {
	var b strings.Builder
	b.WriteString("Cycle statistics:\n")
	fmt.Fprintf(&b, "  total cycles:     %d\n", stats.TotalCycles)
	fmt.Fprintf(&b, "  shortest cycle:   %d\n", stats.ShortestCycle)
	fmt.Fprintf(&b, "  longest cycle:    %d\n", stats.LongestCycle)
	fmt.Fprintf(&b, "  avg cycle length: %.2f\n", stats.AvgCycleLength)
	return b.String()
}
