package manifest

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// PubspecParser parses Dart/Flutter pubspec.yaml manifests.
type PubspecParser struct{}

// NewPubspecParser creates a parser for pubspec.yaml files.
func NewPubspecParser() *PubspecParser {
	return &PubspecParser{}
}

func (p *PubspecParser) FileName() string { return "pubspec.yaml" }

func (p *PubspecParser) CanParse(filename string) bool {
	return filename == "pubspec.yaml" || filename == "pubspec.yml"
}

type pubspecManifest struct {
	Name            string         `yaml:"name"`
	Version         string         `yaml:"version"`
	Description     string         `yaml:"description"`
	Dependencies    map[string]any `yaml:"dependencies"`
	DevDependencies map[string]any `yaml:"dev_dependencies"`
}

// Parse parses a pubspec.yaml manifest. SDK and path dependencies carry
// no version constraint and are recorded as "any".
func (p *PubspecParser) Parse(path string, content []byte) (*Record, error) {
	var m pubspecManifest
	if err := yaml.Unmarshal(content, &m); err != nil {
		return nil, fmt.Errorf("unparseable pubspec.yaml: %w", err)
	}

	dir := filepath.Dir(path)
	name := m.Name
	if name == "" {
		name = filepath.Base(dir)
	}

	lines := strings.Split(string(content), "\n")
	deps := make([]DependencyRecord, 0, len(m.Dependencies)+len(m.DevDependencies))
	deps = appendPubspecSection(deps, lines, m.Dependencies, TypeProduction)
	deps = appendPubspecSection(deps, lines, m.DevDependencies, TypeDevelopment)

	return &Record{
		ProjectName:       name,
		ProjectPath:       dir,
		Language:          "dart",
		Version:           m.Version,
		Description:       m.Description,
		DependencyFile:    path,
		Dependencies:      deps,
		TotalDependencies: len(deps),
	}, nil
}

func appendPubspecSection(deps []DependencyRecord, lines []string, section map[string]any, depType DependencyType) []DependencyRecord {
	byLine := make([]DependencyRecord, 0, len(section))
	for name, value := range section {
		raw := "any"
		if s, ok := value.(string); ok && s != "" {
			raw = s
		}
		operator, version := SplitConstraint(raw)
		byLine = append(byLine, DependencyRecord{
			Name:         name,
			Version:      version,
			VersionRange: raw,
			Operator:     operator,
			Type:         depType,
			LineNumber:   findPubspecLine(lines, name),
		})
	}
	sortByLineThenName(byLine)
	return append(deps, byLine...)
}

func findPubspecLine(lines []string, name string) int {
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, name+":") && strings.HasPrefix(line, "  ") {
			return i + 1
		}
	}
	return 0
}
