package lanat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsedArgumentsLookup(t *testing.T) {
	root := NewRoot("app", "")
	root.AddArgument(
		&Argument{Names: []string{"num"}, Type: &IntType{}},
		&Argument{Names: []string{"name"}, Type: &StringType{}},
	)
	sub := NewCommand("sub", "")
	sub.AddArgument(&Argument{Names: []string{"x"}, Type: &IntType{}})
	root.AddSubCommand(sub)

	result := root.ParseLine("--num 4 --name joe sub --x 9")

	assert.Equal(t, "app", result.CommandName())

	v, ok := result.Get("num")
	require.True(t, ok)
	assert.Equal(t, 4, v)

	_, ok = result.Get("nope")
	assert.False(t, ok)

	n, ok := GetAs[int](result, "num")
	require.True(t, ok)
	assert.Equal(t, 4, n)

	// A type mismatch reports absence rather than panicking.
	_, ok = GetAs[string](result, "num")
	assert.False(t, ok)

	subResult := result.Sub("sub")
	require.NotNil(t, subResult)
	assert.Equal(t, "sub", subResult.CommandName())
	x, _ := GetAs[int](subResult, "x")
	assert.Equal(t, 9, x)

	assert.Nil(t, result.Sub("other"))
	assert.Len(t, result.SubResults(), 1)
}

func TestParsedArgumentsNamesSorted(t *testing.T) {
	root := NewRoot("app", "")
	root.AddArgument(
		&Argument{Names: []string{"zeta"}, Type: &BoolType{}},
		&Argument{Names: []string{"alpha"}, Type: &BoolType{}},
	)

	result := root.ParseLine("")

	// Flags always carry a value, so every argument shows up, the built-in
	// help included.
	assert.Equal(t, []string{"alpha", "help", "zeta"}, result.Names())
}

func TestClosestName(t *testing.T) {
	name, dist := closestName("stattus", []string{"status", "start", "stop"})
	assert.Equal(t, "status", name)
	assert.Equal(t, 1, dist)

	name, _ = closestName("x", nil)
	assert.Equal(t, "", name)
}
