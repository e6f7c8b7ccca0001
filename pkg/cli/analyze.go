package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/depscope/depscope/pkg/conflicts"
	"github.com/depscope/depscope/pkg/cycles"
	"github.com/depscope/depscope/pkg/graph"
	"github.com/depscope/depscope/pkg/observability"
)

func newCyclesCommand() *Command {
	return &Command{
		Name:        "cycles",
		Description: "List circular dependency chains, shortest first",
		Flags:       flag.NewFlagSet("cycles", flag.ExitOnError),
		Run:         runCycles,
	}
}

func runCycles(args []string) error {
	fs := flag.NewFlagSet("cycles", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withGateway(func(ctx context.Context, gw graph.Gateway, logger *observability.Logger) error {
		found, err := cycles.NewDetector(gw).FindAllCycles(ctx)
		if err != nil {
			return err
		}
		fmt.Print(cycles.FormatReport(found))
		return nil
	})
}

func newDirectCyclesCommand() *Command {
	return &Command{
		Name:        "direct-cycles",
		Description: "List mutual two-package dependencies",
		Flags:       flag.NewFlagSet("direct-cycles", flag.ExitOnError),
		Run:         runDirectCycles,
	}
}

func runDirectCycles(args []string) error {
	fs := flag.NewFlagSet("direct-cycles", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withGateway(func(ctx context.Context, gw graph.Gateway, logger *observability.Logger) error {
		found, err := cycles.NewDetector(gw).FindDirectCycles(ctx)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			fmt.Println("No direct circular dependencies found")
			return nil
		}
		fmt.Println("Direct circular dependencies:")
		for _, c := range found {
			fmt.Printf("  %s <-> %s\n", c.PackageA, c.PackageB)
		}
		return nil
	})
}

func newCycleStatsCommand() *Command {
	return &Command{
		Name:        "cycle-stats",
		Description: "Show cycle statistics over the whole graph",
		Flags:       flag.NewFlagSet("cycle-stats", flag.ExitOnError),
		Run:         runCycleStats,
	}
}

func runCycleStats(args []string) error {
	fs := flag.NewFlagSet("cycle-stats", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withGateway(func(ctx context.Context, gw graph.Gateway, logger *observability.Logger) error {
		stats, err := cycles.NewDetector(gw).GetStatistics(ctx)
		if err != nil {
			return err
		}
		fmt.Print(cycles.FormatStatistics(stats))
		return nil
	})
}

func newProjectCyclesCommand() *Command {
	return &Command{
		Name:        "project-cycles",
		Description: "List cycles reachable from a project's dependencies",
		Flags:       flag.NewFlagSet("project-cycles", flag.ExitOnError),
		Run:         runProjectCycles,
	}
}

func runProjectCycles(args []string) error {
	fs := flag.NewFlagSet("project-cycles", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	name, err := requireArg(fs, "project name")
	if err != nil {
		return err
	}

	return withGateway(func(ctx context.Context, gw graph.Gateway, logger *observability.Logger) error {
		found, err := cycles.NewDetector(gw).FindProjectCycles(ctx, name)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			fmt.Printf("No cycles reachable from project %s\n", name)
			return nil
		}
		fmt.Printf("Cycles reachable from %s:\n", name)
		fmt.Print(cycles.FormatReport(found))
		return nil
	})
}

func newConflictsCommand() *Command {
	return &Command{
		Name:        "conflicts",
		Description: "List packages with divergent version constraints",
		Flags:       flag.NewFlagSet("conflicts", flag.ExitOnError),
		Run:         runConflicts,
	}
}

func runConflicts(args []string) error {
	fs := flag.NewFlagSet("conflicts", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withGateway(func(ctx context.Context, gw graph.Gateway, logger *observability.Logger) error {
		found, err := conflicts.NewDetector(gw).FindVersionConflicts(ctx)
		if err != nil {
			return err
		}
		fmt.Print(conflicts.FormatReport(found))
		return nil
	})
}

func newConflictStatsCommand() *Command {
	return &Command{
		Name:        "conflict-stats",
		Description: "Show version conflict statistics",
		Flags:       flag.NewFlagSet("conflict-stats", flag.ExitOnError),
		Run:         runConflictStats,
	}
}

func runConflictStats(args []string) error {
	fs := flag.NewFlagSet("conflict-stats", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withGateway(func(ctx context.Context, gw graph.Gateway, logger *observability.Logger) error {
		stats, err := conflicts.NewDetector(gw).GetStatistics(ctx)
		if err != nil {
			return err
		}
		fmt.Print(conflicts.FormatStatistics(stats))
		return nil
	})
}

func newPackageConflictCommand() *Command {
	return &Command{
		Name:        "package-conflict",
		Description: "Show the version conflict detail for one package",
		Flags:       flag.NewFlagSet("package-conflict", flag.ExitOnError),
		Run:         runPackageConflict,
	}
}

func runPackageConflict(args []string) error {
	fs := flag.NewFlagSet("package-conflict", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	name, err := requireArg(fs, "package name")
	if err != nil {
		return err
	}

	return withGateway(func(ctx context.Context, gw graph.Gateway, logger *observability.Logger) error {
		conflict, err := conflicts.NewDetector(gw).FindPackageConflict(ctx, name)
		if err != nil {
			return err
		}
		if conflict == nil {
			fmt.Printf("No version conflict for package %s\n", name)
			return nil
		}
		fmt.Print(conflicts.FormatPackageDetail(conflict))
		return nil
	})
}
