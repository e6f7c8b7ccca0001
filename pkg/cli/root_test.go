package cli

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := NewRootCommand()

	for _, name := range []string{
		"ingest", "project-deps", "dep-stats", "shared", "used-by",
		"visualize", "cycles", "direct-cycles", "cycle-stats",
		"project-cycles", "conflicts", "conflict-stats",
		"package-conflict", "stats", "reset", "watch",
	} {
		assert.Contains(t, root.subcommands, name)
	}
}

func TestRootCommandUnknown(t *testing.T) {
	root := NewRootCommand()
	err := root.Execute([]string{"no-such-command"})
	assert.ErrorContains(t, err, "unknown command")
}

func TestRootCommandHelp(t *testing.T) {
	root := NewRootCommand()
	assert.NoError(t, root.Execute(nil))
	assert.NoError(t, root.Execute([]string{"help"}))
	assert.NoError(t, root.Execute([]string{"--help"}))
}

func TestRequireArg(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	require.NoError(t, fs.Parse([]string{"web-app"}))

	val, err := requireArg(fs, "project name")
	require.NoError(t, err)
	assert.Equal(t, "web-app", val)

	empty := flag.NewFlagSet("test", flag.ContinueOnError)
	require.NoError(t, empty.Parse(nil))
	_, err = requireArg(empty, "project name")
	assert.ErrorContains(t, err, "missing required argument")
}

func TestVisualizeCommand(t *testing.T) {
	// visualize needs no store connection and must not error.
	err := runVisualize([]string{"web-app"})
	assert.NoError(t, err)
}
