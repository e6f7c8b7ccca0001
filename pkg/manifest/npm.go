package manifest

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// NPMParser parses package.json manifests.
type NPMParser struct{}

// NewNPMParser creates a parser for npm package.json files.
func NewNPMParser() *NPMParser {
	return &NPMParser{}
}

func (p *NPMParser) FileName() string { return "package.json" }

func (p *NPMParser) CanParse(filename string) bool {
	return filename == "package.json"
}

type npmManifest struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	Description      string            `json:"description"`
	Dependencies     map[string]string `json:"dependencies"`
	DevDependencies  map[string]string `json:"devDependencies"`
	PeerDependencies map[string]string `json:"peerDependencies"`
}

// Parse parses a package.json manifest. Dependencies are emitted in
// manifest order (production, then development, then peer); within a
// section the order follows the file.
func (p *NPMParser) Parse(path string, content []byte) (*Record, error) {
	var m npmManifest
	if err := json.Unmarshal(content, &m); err != nil {
		return nil, fmt.Errorf("unparseable package.json: %w", err)
	}

	dir := filepath.Dir(path)
	name := m.Name
	if name == "" {
		name = filepath.Base(dir)
	}

	lines := strings.Split(string(content), "\n")
	deps := make([]DependencyRecord, 0, len(m.Dependencies)+len(m.DevDependencies)+len(m.PeerDependencies))
	deps = appendNPMSection(deps, lines, m.Dependencies, TypeProduction)
	deps = appendNPMSection(deps, lines, m.DevDependencies, TypeDevelopment)
	deps = appendNPMSection(deps, lines, m.PeerDependencies, TypePeer)

	return &Record{
		ProjectName:       name,
		ProjectPath:       dir,
		Language:          "javascript",
		Version:           m.Version,
		Description:       m.Description,
		DependencyFile:    path,
		Dependencies:      deps,
		TotalDependencies: len(deps),
	}, nil
}

func appendNPMSection(deps []DependencyRecord, lines []string, section map[string]string, depType DependencyType) []DependencyRecord {
	byLine := make([]DependencyRecord, 0, len(section))
	for name, raw := range section {
		operator, version := SplitConstraint(raw)
		byLine = append(byLine, DependencyRecord{
			Name:         name,
			Version:      version,
			VersionRange: raw,
			Operator:     operator,
			Type:         depType,
			LineNumber:   findDeclarationLine(lines, name),
		})
	}
	sortByLineThenName(byLine)
	return append(deps, byLine...)
}

// findDeclarationLine locates the 1-based line declaring the named
// dependency, or 0 when it cannot be determined.
func findDeclarationLine(lines []string, name string) int {
	needle := `"` + name + `"`
	for i, line := range lines {
		if idx := strings.Index(line, needle); idx >= 0 {
			rest := strings.TrimSpace(line[idx+len(needle):])
			if strings.HasPrefix(rest, ":") {
				return i + 1
			}
		}
	}
	return 0
}

func sortByLineThenName(deps []DependencyRecord) {
	sort.Slice(deps, func(i, j int) bool {
		a, b := deps[i], deps[j]
		if a.LineNumber != b.LineNumber {
			// Unknown lines (0) sort last.
			if a.LineNumber == 0 {
				return false
			}
			if b.LineNumber == 0 {
				return true
			}
			return a.LineNumber < b.LineNumber
		}
		return a.Name < b.Name
	})
}
