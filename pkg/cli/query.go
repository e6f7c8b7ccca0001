package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/depscope/depscope/pkg/builder"
	"github.com/depscope/depscope/pkg/graph"
	"github.com/depscope/depscope/pkg/observability"
)

func newProjectDepsCommand() *Command {
	return &Command{
		Name:        "project-deps",
		Description: "List a project's direct dependencies",
		Flags:       flag.NewFlagSet("project-deps", flag.ExitOnError),
		Run:         runProjectDeps,
	}
}

func runProjectDeps(args []string) error {
	fs := flag.NewFlagSet("project-deps", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	name, err := requireArg(fs, "project name")
	if err != nil {
		return err
	}

	return withGateway(func(ctx context.Context, gw graph.Gateway, logger *observability.Logger) error {
		b := builder.New(gw, logger)
		deps, err := b.GetProjectDependencies(ctx, name)
		if err != nil {
			return err
		}
		if len(deps) == 0 {
			fmt.Printf("No dependencies found for project %s\n", name)
			return nil
		}
		fmt.Printf("Dependencies of %s:\n", name)
		for _, d := range deps {
			fmt.Printf("  %-30s %-12s %s\n", d.Package, d.VersionRange, d.Type)
		}
		fmt.Printf("Total: %d\n", len(deps))
		return nil
	})
}

func newDepStatsCommand() *Command {
	return &Command{
		Name:        "dep-stats",
		Description: "Show a project's dependency counts by type",
		Flags:       flag.NewFlagSet("dep-stats", flag.ExitOnError),
		Run:         runDepStats,
	}
}

func runDepStats(args []string) error {
	fs := flag.NewFlagSet("dep-stats", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	name, err := requireArg(fs, "project name")
	if err != nil {
		return err
	}

	return withGateway(func(ctx context.Context, gw graph.Gateway, logger *observability.Logger) error {
		b := builder.New(gw, logger)
		stats, err := b.GetDependencyStats(ctx, name)
		if err != nil {
			return err
		}
		fmt.Printf("Dependency stats for %s:\n", name)
		types := make([]string, 0, len(stats))
		for depType := range stats {
			types = append(types, depType)
		}
		sort.Strings(types)
		total := 0
		for _, depType := range types {
			fmt.Printf("  %-13s %d\n", depType, stats[depType])
			total += stats[depType]
		}
		fmt.Printf("  %-13s %d\n", "total", total)
		return nil
	})
}

func newSharedCommand() *Command {
	return &Command{
		Name:        "shared",
		Description: "List packages used by more than one project",
		Flags:       flag.NewFlagSet("shared", flag.ExitOnError),
		Run:         runShared,
	}
}

func runShared(args []string) error {
	fs := flag.NewFlagSet("shared", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withGateway(func(ctx context.Context, gw graph.Gateway, logger *observability.Logger) error {
		b := builder.New(gw, logger)
		shared, err := b.FindSharedDependencies(ctx)
		if err != nil {
			return err
		}
		if len(shared) == 0 {
			fmt.Println("No shared packages found")
			return nil
		}
		fmt.Println("Shared packages:")
		for _, s := range shared {
			fmt.Printf("  %-30s used by %d projects: %v\n", s.Package, s.UsageCount, s.Projects)
		}
		return nil
	})
}

func newUsedByCommand() *Command {
	return &Command{
		Name:        "used-by",
		Description: "List projects depending on a package",
		Flags:       flag.NewFlagSet("used-by", flag.ExitOnError),
		Run:         runUsedBy,
	}
}

func runUsedBy(args []string) error {
	fs := flag.NewFlagSet("used-by", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	name, err := requireArg(fs, "package name")
	if err != nil {
		return err
	}

	return withGateway(func(ctx context.Context, gw graph.Gateway, logger *observability.Logger) error {
		b := builder.New(gw, logger)
		usage, err := b.FindProjectsUsingPackage(ctx, name)
		if err != nil {
			return err
		}
		if len(usage) == 0 {
			fmt.Printf("No projects depend on %s\n", name)
			return nil
		}
		fmt.Printf("Projects depending on %s:\n", name)
		for _, u := range usage {
			fmt.Printf("  %-25s %-12s %s\n", u.Project, u.VersionRange, u.Type)
		}
		return nil
	})
}

func newVisualizeCommand() *Command {
	return &Command{
		Name:        "visualize",
		Description: "Print a Cypher query for browsing a project's graph",
		Flags:       flag.NewFlagSet("visualize", flag.ExitOnError),
		Run:         runVisualize,
	}
}

func runVisualize(args []string) error {
	fs := flag.NewFlagSet("visualize", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	name, err := requireArg(fs, "project name")
	if err != nil {
		return err
	}

	// Query generation needs no store connection.
	b := builder.New(nil, observability.NewLogger(observability.InfoLevel, os.Stderr))
	fmt.Println("Run this query in the Neo4j browser:")
	fmt.Println(b.VisualizeProjectGraph(name))
	return nil
}

func newStatsCommand() *Command {
	return &Command{
		Name:        "stats",
		Description: "Show graph store node and relationship counts",
		Flags:       flag.NewFlagSet("stats", flag.ExitOnError),
		Run:         runStats,
	}
}

func runStats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withGateway(func(ctx context.Context, gw graph.Gateway, logger *observability.Logger) error {
		stats, err := gw.Stats(ctx)
		if err != nil {
			return err
		}
		fmt.Println("Graph store contents:")
		fmt.Printf("  Projects:     %d\n", stats.Projects)
		fmt.Printf("  Packages:     %d\n", stats.Packages)
		fmt.Printf("  Dependencies: %d\n", stats.Dependencies)
		fmt.Printf("  Files:        %d\n", stats.Files)
		return nil
	})
}

func newResetCommand() *Command {
	return &Command{
		Name:        "reset",
		Description: "Delete every node and relationship from the store",
		Flags:       flag.NewFlagSet("reset", flag.ExitOnError),
		Run:         runReset,
	}
}

func runReset(args []string) error {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	force := fs.Bool("force", false, "Skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*force {
		fmt.Print("This deletes the entire graph. Continue? [y/N] ")
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted")
			return nil
		}
	}

	return withGateway(func(ctx context.Context, gw graph.Gateway, logger *observability.Logger) error {
		if err := gw.ClearDatabase(ctx); err != nil {
			return err
		}
		fmt.Println("Graph store cleared")
		return nil
	})
}
