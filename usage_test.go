package lanat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usageSchema() *Command {
	root := NewRoot("tool", "A root command which does something.")
	root.AddSubCommand(
		NewCommand("second", "The second command."),
		NewCommand("first", "The first command."),
	)
	root.AddArgument(
		&Argument{Names: []string{"file-name", "f"}, Description: "Input file", Type: &StringType{}, Required: true},
		&Argument{Names: []string{"verbose", "v"}, Description: "Verbosity", Type: &CounterType{}},
		&Argument{Names: []string{"src"}, Description: "Source", Type: &StringType{}, Positional: true},
	)
	return root
}

func TestUsageWriterFormat(t *testing.T) {
	out := NewUsageWriter().Format(usageSchema())

	assert.Contains(t, out, "Usage: tool [<arguments>] <command> [<src>]")
	assert.Contains(t, out, "A root command which does something.")
	assert.Contains(t, out, "Commands:")
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "second")
	assert.Contains(t, out, "Options:")
	assert.Contains(t, out, "-f, --file-name FILE_NAME")
	assert.Contains(t, out, "(required)")
	assert.Contains(t, out, "-v, --verbose")
	assert.Contains(t, out, "Arguments:")
	assert.Contains(t, out, "Source")

	// Commands are listed alphabetically.
	assert.Less(t, strings.Index(out, "first"), strings.Index(out, "second"))
}

func TestUsageWriterGroups(t *testing.T) {
	root := NewRoot("tool", "")
	a := &Argument{Names: []string{"json"}, Description: "JSON output", Type: &BoolType{}}
	b := &Argument{Names: []string{"yaml"}, Description: "YAML output", Type: &BoolType{}}
	root.AddArgument(a, b)

	g := NewGroup("Output", "")
	g.Exclusive = true
	g.AddArgument(a, b)
	root.AddGroup(g)

	out := NewUsageWriter().Format(root)
	assert.Contains(t, out, "Output (mutually exclusive):")
	assert.Contains(t, out, "--json")
	assert.Contains(t, out, "--yaml")
}

func TestUsageWriterBooleanFlagHasNoPlaceholder(t *testing.T) {
	root := NewRoot("tool", "")
	root.AddArgument(&Argument{Names: []string{"quiet", "q"}, Type: &BoolType{}})

	out := NewUsageWriter().Format(root)
	assert.Contains(t, out, "-q, --quiet")
	assert.NotContains(t, out, "QUIET")
}

func TestUsageWriterClone(t *testing.T) {
	u := NewUsageWriter()
	u.MaxLineWidth = 100

	clone, ok := u.Clone().(*UsageWriter)
	require.True(t, ok)
	assert.Equal(t, 100, clone.MaxLineWidth)
	require.NotSame(t, u, clone)

	clone.Palette[0] = "999"
	assert.NotEqual(t, u.Palette[0], clone.Palette[0])
}
