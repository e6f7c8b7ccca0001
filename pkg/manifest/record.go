package manifest

import (
	"errors"
	"fmt"
	"strings"
)

// DependencyType classifies how a project uses a dependency.
type DependencyType string

const (
	TypeProduction  DependencyType = "production"
	TypeDevelopment DependencyType = "development"
	TypePeer        DependencyType = "peer"
)

// DependencyRecord is a single dependency declaration from a manifest.
type DependencyRecord struct {
	Name         string         `json:"name"`
	Version      string         `json:"version"`      // constraint with the operator stripped
	VersionRange string         `json:"versionRange"` // raw constraint as written in the manifest
	Operator     string         `json:"operator"`     // leading constraint operator, "" for exact pins
	Type         DependencyType `json:"type"`
	LineNumber   int            `json:"lineNumber,omitempty"` // 0 when unknown
}

// Record is the normalized output of a manifest parser.
type Record struct {
	ProjectName       string             `json:"projectName"`
	ProjectPath       string             `json:"projectPath"`
	Language          string             `json:"language"`
	Version           string             `json:"version,omitempty"`
	Description       string             `json:"description,omitempty"`
	DependencyFile    string             `json:"dependencyFile"`
	Dependencies      []DependencyRecord `json:"dependencies"`
	TotalDependencies int                `json:"totalDependencies"`
}

// Validate checks that the record carries the fields the graph builder requires.
func (r *Record) Validate() error {
	if r.ProjectName == "" {
		return errors.New("project name is required")
	}
	if r.DependencyFile == "" {
		return errors.New("dependency file path is required")
	}
	if r.TotalDependencies != len(r.Dependencies) {
		return fmt.Errorf("total dependency count %d does not match %d records",
			r.TotalDependencies, len(r.Dependencies))
	}
	return nil
}

// SplitConstraint separates a raw version constraint into its leading operator
// and the remaining version text. Bare versions and keywords like "latest"
// have an empty operator.
func SplitConstraint(raw string) (operator, version string) {
	raw = strings.TrimSpace(raw)
	i := 0
	for i < len(raw) && strings.ContainsRune("^~<>=!", rune(raw[i])) {
		i++
	}
	return raw[:i], strings.TrimSpace(raw[i:])
}
