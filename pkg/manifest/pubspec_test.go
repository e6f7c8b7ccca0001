package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePubspec = `name: mobile_app
version: 1.4.2
description: companion app

dependencies:
  http: ^1.1.0
  provider: ^6.0.5
  flutter:
    sdk: flutter

dev_dependencies:
  flutter_test:
    sdk: flutter
  lints: ^2.0.0
`

func TestPubspecParse(t *testing.T) {
	p := NewPubspecParser()
	rec, err := p.Parse("apps/mobile/pubspec.yaml", []byte(samplePubspec))
	require.NoError(t, err)

	assert.Equal(t, "mobile_app", rec.ProjectName)
	assert.Equal(t, "dart", rec.Language)
	assert.Equal(t, "1.4.2", rec.Version)
	require.Len(t, rec.Dependencies, 5)

	http := rec.Dependencies[0]
	assert.Equal(t, "http", http.Name)
	assert.Equal(t, "^", http.Operator)
	assert.Equal(t, "1.1.0", http.Version)
	assert.Equal(t, TypeProduction, http.Type)
	assert.Equal(t, 6, http.LineNumber)

	// SDK dependencies carry a map value and resolve to "any".
	flutter := rec.Dependencies[2]
	assert.Equal(t, "flutter", flutter.Name)
	assert.Equal(t, "any", flutter.VersionRange)
	assert.Equal(t, "", flutter.Operator)

	lints := rec.Dependencies[4]
	assert.Equal(t, TypeDevelopment, lints.Type)
}

func TestPubspecParseInvalid(t *testing.T) {
	p := NewPubspecParser()
	_, err := p.Parse("pubspec.yaml", []byte("name: [unclosed"))
	assert.ErrorContains(t, err, "unparseable pubspec.yaml")
}
