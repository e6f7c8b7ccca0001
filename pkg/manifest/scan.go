package manifest

import (
	"context"
	"io/fs"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// Directories never worth descending into when scanning for manifests.
var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"venv":         true,
	".venv":        true,
	"__pycache__":  true,
	"dist":         true,
	"build":        true,
}

// ScanDir walks root and returns the paths of every file a registered
// parser can handle. Dependency and VCS directories are skipped.
func (r *Registry) ScanDir(root string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if r.Lookup(d.Name()) != nil {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// parseConcurrency bounds concurrent manifest reads during a scan.
const parseConcurrency = 8

// ParseFiles parses every path concurrently and returns the records in
// path order. The first parse failure aborts the whole batch.
func (r *Registry) ParseFiles(ctx context.Context, paths []string) ([]*Record, error) {
	records := make([]*Record, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parseConcurrency)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec, err := r.ParseFile(path)
			if err != nil {
				return err
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}
