package conflicts

import (
	"fmt"
	"strings"
)

// FormatReport renders the conflict listing for console output. Each
// conflict carries a compatibility verdict over its distinct versions.
func FormatReport(conflicts []Conflict) string {
	var b strings.Builder

	if len(conflicts) == 0 {
		b.WriteString("No version conflicts found.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Found %d conflicting package(s):\n\n", len(conflicts))
	for _, c := range conflicts {
		fmt.Fprintf(&b, "%s\n", c.Package)
		for _, dep := range c.Dependencies {
			fmt.Fprintf(&b, "  %-30s %-15s (%s)\n", dep.Project, dep.Version, dep.Type)
		}
		if allPairsCompatible(distinctVersions(c.Dependencies)) {
			b.WriteString("  verdict: versions appear compatible\n")
		} else {
			b.WriteString("  verdict: versions are incompatible\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatPackageDetail renders one package's conflict with projects
// grouped by distinct version value.
func FormatPackageDetail(c *Conflict) string {
	var b strings.Builder
	if c == nil {
		b.WriteString("No conflict: all depending projects agree on the version.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Conflict for %s:\n", c.Package)
	for _, version := range distinctVersions(c.Dependencies) {
		fmt.Fprintf(&b, "  %s\n", version)
		for _, dep := range c.Dependencies {
			if dep.Version == version {
				fmt.Fprintf(&b, "    %s (%s)\n", dep.Project, dep.Type)
			}
		}
	}
	return b.String()
}

// FormatStatistics renders conflict statistics for console output.
func FormatStatistics(stats Statistics) string {
	var b strings.Builder
	b.WriteString("Conflict statistics:\n")
	fmt.Fprintf(&b, "  total packages:       %d\n", stats.TotalPackages)
	fmt.Fprintf(&b, "  shared packages:      %d\n", stats.SharedPackages)
	fmt.Fprintf(&b, "  conflicting packages: %d\n", stats.ConflictingPackages)
	return b.String()
}
