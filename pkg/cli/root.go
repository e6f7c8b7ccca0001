package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/depscope/depscope/pkg/config"
	"github.com/depscope/depscope/pkg/graph"
	"github.com/depscope/depscope/pkg/observability"
)

// Command represents a CLI command
type Command struct {
	Name        string
	Description string
	Run         func(args []string) error
	Flags       *flag.FlagSet
}

// NewRootCommand creates the root command with all subcommands registered
func NewRootCommand() *RootCommand {
	root := &RootCommand{
		name:        "depscope",
		description: "depscope - dependency graph analysis over a Neo4j store",
		subcommands: make(map[string]*Command),
	}

	root.register(newIngestCommand())
	root.register(newProjectDepsCommand())
	root.register(newDepStatsCommand())
	root.register(newSharedCommand())
	root.register(newUsedByCommand())
	root.register(newVisualizeCommand())
	root.register(newCyclesCommand())
	root.register(newDirectCyclesCommand())
	root.register(newCycleStatsCommand())
	root.register(newProjectCyclesCommand())
	root.register(newConflictsCommand())
	root.register(newConflictStatsCommand())
	root.register(newPackageConflictCommand())
	root.register(newStatsCommand())
	root.register(newResetCommand())
	root.register(newWatchCommand())

	return root
}

// RootCommand dispatches to subcommands
type RootCommand struct {
	name        string
	description string
	subcommands map[string]*Command
}

func (r *RootCommand) register(cmd *Command) {
	r.subcommands[cmd.Name] = cmd
}

// Execute runs the subcommand named by args, or prints usage
func (r *RootCommand) Execute(args []string) error {
	if len(args) == 0 {
		return r.usage()
	}
	if args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		return r.usage()
	}
	if cmd, ok := r.subcommands[args[0]]; ok {
		return cmd.Run(args[1:])
	}
	return fmt.Errorf("unknown command: %s", args[0])
}

// usage prints the command usage
func (r *RootCommand) usage() error {
	fmt.Printf("Usage: %s <command> [args]\n\n", r.name)
	fmt.Printf("%s\n\nCommands:\n", r.description)
	names := make([]string, 0, len(r.subcommands))
	for name := range r.subcommands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-18s %s\n", name, r.subcommands[name].Description)
	}
	return nil
}

// withGateway loads configuration, connects to the store, runs fn, and
// closes the connection on every exit path.
func withGateway(fn func(ctx context.Context, gw graph.Gateway, logger *observability.Logger) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stderr)

	ctx := context.Background()
	gw, err := graph.Connect(ctx, cfg.Neo4j)
	if err != nil {
		return fmt.Errorf("connect to graph store: %w", err)
	}
	defer gw.Close(ctx)

	return fn(ctx, gw, logger)
}

// requireArg returns the single positional argument after flag parsing
func requireArg(fs *flag.FlagSet, name string) (string, error) {
	if fs.NArg() < 1 {
		return "", fmt.Errorf("missing required argument: %s", name)
	}
	return fs.Arg(0), nil
}
