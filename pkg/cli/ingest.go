package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/depscope/depscope/pkg/builder"
	"github.com/depscope/depscope/pkg/graph"
	"github.com/depscope/depscope/pkg/manifest"
	"github.com/depscope/depscope/pkg/observability"
)

func newIngestCommand() *Command {
	cmd := &Command{
		Name:        "ingest",
		Description: "Parse dependency manifests and build the graph",
		Flags:       flag.NewFlagSet("ingest", flag.ExitOnError),
		Run:         runIngest,
	}
	return cmd
}

func runIngest(args []string) error {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	path := fs.String("path", ".", "File or directory to scan for manifests")
	clear := fs.Bool("clear", false, "Clear the graph store before ingesting")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withGateway(func(ctx context.Context, gw graph.Gateway, logger *observability.Logger) error {
		runID := uuid.NewString()
		ctx = observability.WithRunID(ctx, runID)
		log := logger.WithField("run_id", runID)

		registry := manifest.NewRegistry()
		paths, err := collectManifests(registry, *path)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no supported manifests found under %s", *path)
		}
		log.WithField("manifests", len(paths)).Info("starting ingestion")

		// Parsing fans out; store writes below stay strictly sequential.
		records, err := registry.ParseFiles(ctx, paths)
		if err != nil {
			return err
		}

		if *clear {
			if err := gw.ClearDatabase(ctx); err != nil {
				return fmt.Errorf("clear graph store: %w", err)
			}
			log.Warn("graph store cleared")
		}
		if err := gw.SetupConstraints(ctx); err != nil {
			return fmt.Errorf("setup constraints: %w", err)
		}

		b := builder.New(gw, logger)
		totalDeps := 0
		for _, rec := range records {
			deps, err := b.BuildProjectGraph(ctx, rec)
			if err != nil {
				return fmt.Errorf("ingest %s: %w", rec.ProjectName, err)
			}
			fmt.Printf("  %s: %d dependencies (%s)\n", rec.ProjectName, deps, rec.DependencyFile)
			totalDeps += deps
		}

		linked, err := b.LinkPackageDependencies(ctx)
		if err != nil {
			return fmt.Errorf("link packages: %w", err)
		}

		fmt.Printf("\nIngested %d projects, %d dependencies, %d derived package links\n",
			len(records), totalDeps, linked)
		return nil
	})
}

// collectManifests resolves a path to the manifest files beneath it
func collectManifests(registry *manifest.Registry, path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if registry.Lookup(path) == nil {
			return nil, fmt.Errorf("unsupported manifest file: %s", path)
		}
		return []string{path}, nil
	}
	return registry.ScanDir(path)
}
