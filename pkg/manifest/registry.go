package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrNoParser indicates no registered parser handles the given file.
var ErrNoParser = fmt.Errorf("no parser registered for manifest")

// Parser turns a manifest file into a normalized Record.
type Parser interface {
	// FileName returns the canonical manifest file name this parser handles.
	FileName() string

	// CanParse reports whether this parser handles the given file name.
	CanParse(filename string) bool

	// Parse parses manifest content read from path.
	Parse(path string, content []byte) (*Record, error)
}

// Registry manages manifest parsers keyed by canonical file name.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]Parser
}

// NewRegistry creates a registry with the default parsers registered.
func NewRegistry() *Registry {
	r := &Registry{parsers: make(map[string]Parser)}
	r.Register(NewNPMParser())
	r.Register(NewRequirementsParser())
	r.Register(NewPubspecParser())
	return r
}

// Register adds a parser to the registry.
func (r *Registry) Register(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[p.FileName()] = p
}

// Lookup returns the parser for a file name, or nil.
func (r *Registry) Lookup(filename string) Parser {
	base := filepath.Base(filename)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.parsers[base]; ok {
		return p
	}
	for _, p := range r.parsers {
		if p.CanParse(base) {
			return p
		}
	}
	return nil
}

// FileNames returns the canonical file names of all registered parsers.
func (r *Registry) FileNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	return names
}

// ParseFile reads and parses a manifest from disk.
func (r *Registry) ParseFile(path string) (*Record, error) {
	p := r.Lookup(path)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoParser, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	rec, err := p.Parse(path, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest record for %s: %w", path, err)
	}
	return rec, nil
}
