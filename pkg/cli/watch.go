package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/depscope/depscope/pkg/builder"
	"github.com/depscope/depscope/pkg/config"
	"github.com/depscope/depscope/pkg/graph"
	"github.com/depscope/depscope/pkg/manifest"
	"github.com/depscope/depscope/pkg/observability"
	"github.com/depscope/depscope/pkg/watcher"
)

func newWatchCommand() *Command {
	return &Command{
		Name:        "watch",
		Description: "Watch a directory and re-ingest manifests on change",
		Flags:       flag.NewFlagSet("watch", flag.ExitOnError),
		Run:         runWatch,
	}
}

func runWatch(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	path := fs.String("path", ".", "Directory to watch for manifest changes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	wlog := logrus.New()
	wlog.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Observability.LogLevel == observability.DebugLevel {
		wlog.SetLevel(logrus.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gw, err := graph.Connect(ctx, cfg.Neo4j)
	if err != nil {
		return fmt.Errorf("connect to graph store: %w", err)
	}
	defer gw.Close(context.Background())

	if err := gw.SetupConstraints(ctx); err != nil {
		return fmt.Errorf("setup constraints: %w", err)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stderr)
	b := builder.New(gw, logger)
	registry := manifest.NewRegistry()

	w, err := watcher.New(b, registry, wlog, cfg.Watcher.Debounce, cfg.Watcher.RelinkSchedule)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(*path); err != nil {
		return fmt.Errorf("watch %s: %w", *path, err)
	}

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	wlog.Info("watcher stopped")
	return nil
}
