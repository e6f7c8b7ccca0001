package manifest

import (
	"path/filepath"
	"regexp"
	"strings"
)

// RequirementsParser parses pip requirements.txt files.
type RequirementsParser struct{}

// NewRequirementsParser creates a parser for pip requirement lists.
func NewRequirementsParser() *RequirementsParser {
	return &RequirementsParser{}
}

func (p *RequirementsParser) FileName() string { return "requirements.txt" }

func (p *RequirementsParser) CanParse(filename string) bool {
	return filename == "requirements.txt" || filename == "requirements-dev.txt"
}

// requirementLine matches "name", "name==1.2.3", "name>=1.0,<2.0" and
// similar. Extras and environment markers are stripped before matching.
var requirementLine = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)\s*([=<>!~]+)?\s*(\S+)?`)

// Parse parses a requirements file. All entries are production
// dependencies; a requirements-dev.txt file yields development entries.
func (p *RequirementsParser) Parse(path string, content []byte) (*Record, error) {
	depType := TypeProduction
	if strings.Contains(filepath.Base(path), "dev") {
		depType = TypeDevelopment
	}

	deps := make([]DependencyRecord, 0)
	for i, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		if idx := strings.IndexAny(line, ";#"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if idx := strings.Index(line, "["); idx >= 0 {
			// Drop extras: requests[security]==2.0 -> requests==2.0
			end := strings.Index(line, "]")
			if end > idx {
				line = line[:idx] + line[end+1:]
			}
		}

		m := requirementLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name, operator, version := m[1], m[2], m[3]
		raw := operator + version
		if raw == "" {
			raw = "latest"
			version = "latest"
		}
		deps = append(deps, DependencyRecord{
			Name:         name,
			Version:      version,
			VersionRange: raw,
			Operator:     operator,
			Type:         depType,
			LineNumber:   i + 1,
		})
	}

	dir := filepath.Dir(path)
	return &Record{
		ProjectName:       filepath.Base(dir),
		ProjectPath:       dir,
		Language:          "python",
		DependencyFile:    path,
		Dependencies:      deps,
		TotalDependencies: len(deps),
	}, nil
}
