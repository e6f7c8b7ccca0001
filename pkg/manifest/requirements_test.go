package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRequirements = `# pinned web stack
flask==2.3.0
requests>=2.28.0,<3.0
sqlalchemy~=2.0
uvicorn[standard]==0.23.2

# bare names resolve to latest
gunicorn
-r common.txt
numpy  # scientific stack
`

func TestRequirementsParse(t *testing.T) {
	p := NewRequirementsParser()
	rec, err := p.Parse("services/api/requirements.txt", []byte(sampleRequirements))
	require.NoError(t, err)

	assert.Equal(t, "api", rec.ProjectName)
	assert.Equal(t, "python", rec.Language)
	require.Len(t, rec.Dependencies, 6)

	flask := rec.Dependencies[0]
	assert.Equal(t, "flask", flask.Name)
	assert.Equal(t, "==", flask.Operator)
	assert.Equal(t, "2.3.0", flask.Version)
	assert.Equal(t, "==2.3.0", flask.VersionRange)
	assert.Equal(t, TypeProduction, flask.Type)
	assert.Equal(t, 2, flask.LineNumber)

	uvicorn := rec.Dependencies[3]
	assert.Equal(t, "uvicorn", uvicorn.Name)
	assert.Equal(t, "0.23.2", uvicorn.Version)

	gunicorn := rec.Dependencies[4]
	assert.Equal(t, "latest", gunicorn.Version)
	assert.Equal(t, "latest", gunicorn.VersionRange)
	assert.Equal(t, "", gunicorn.Operator)

	numpy := rec.Dependencies[5]
	assert.Equal(t, "numpy", numpy.Name)
	assert.Equal(t, "latest", numpy.Version)
}

func TestRequirementsDevFile(t *testing.T) {
	p := NewRequirementsParser()
	rec, err := p.Parse("services/api/requirements-dev.txt", []byte("pytest==7.4.0\n"))
	require.NoError(t, err)

	require.Len(t, rec.Dependencies, 1)
	assert.Equal(t, TypeDevelopment, rec.Dependencies[0].Type)
}

func TestRequirementsSkipsCommentsAndOptions(t *testing.T) {
	p := NewRequirementsParser()
	rec, err := p.Parse("requirements.txt", []byte("# only comments\n--no-binary :all:\n\n"))
	require.NoError(t, err)
	assert.Empty(t, rec.Dependencies)
}
