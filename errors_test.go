package lanat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelOrdering(t *testing.T) {
	assert.True(t, LevelError > LevelWarning)
	assert.True(t, LevelWarning > LevelInfo)
	assert.True(t, LevelInfo > LevelDebug)
	assert.Equal(t, "error", LevelError.String())
	assert.Equal(t, "warning", LevelWarning.String())
}

func TestErrorContainerThresholds(t *testing.T) {
	cases := map[string]struct {
		level      Level
		minExit    Level
		minDisplay Level
		exit       bool
		display    bool
	}{
		"ErrorWithDefaults":       {level: LevelError, minExit: LevelError, minDisplay: LevelInfo, exit: true, display: true},
		"WarningWithDefaults":     {level: LevelWarning, minExit: LevelError, minDisplay: LevelInfo, exit: false, display: true},
		"DebugWithDefaults":       {level: LevelDebug, minExit: LevelError, minDisplay: LevelInfo, exit: false, display: false},
		"WarningWithLoweredExit":  {level: LevelWarning, minExit: LevelWarning, minDisplay: LevelInfo, exit: true, display: true},
		"InfoWithRaisedDisplay":   {level: LevelInfo, minExit: LevelError, minDisplay: LevelWarning, exit: false, display: false},
		"ExactThresholdIsInError": {level: LevelWarning, minExit: LevelWarning, minDisplay: LevelWarning, exit: true, display: true},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			ec := newErrorContainer()
			ec.SetMinExitLevel(c.minExit)
			ec.SetMinDisplayLevel(c.minDisplay)
			ec.Add(Diagnostic{Message: "m", TokenIndex: WholeCommand, Level: c.level})

			assert.Equal(t, c.exit, ec.HasExitErrors())
			assert.Equal(t, c.display, ec.HasDisplayErrors())
		})
	}
}

func TestErrorContainerOrder(t *testing.T) {
	ec := newErrorContainer()
	ec.Add(Diagnostic{Message: "first"})
	ec.Add(Diagnostic{Message: "second"})

	diags := ec.Diagnostics()
	assert.Equal(t, "first", diags[0].Message)
	assert.Equal(t, "second", diags[1].Message)
}

func TestErrorContainerInheritKeepsOverrides(t *testing.T) {
	parent := newErrorContainer()
	parent.SetMinExitLevel(LevelWarning)
	parent.SetMinDisplayLevel(LevelDebug)

	child := newErrorContainer()
	child.SetMinDisplayLevel(LevelError)
	child.inherit(parent)

	assert.Equal(t, LevelWarning, child.minExit.Get())
	assert.Equal(t, LevelError, child.minDisplay.Get())
}

func TestFormatDiagnosticCaret(t *testing.T) {
	input := "--num abc"
	d := Diagnostic{Message: "bad value", Pos: 6, Length: 3, Level: LevelError}

	rendered := formatDiagnostic("app", input, d)
	assert.Contains(t, rendered, "bad value")
	assert.Contains(t, rendered, input)
	assert.Contains(t, rendered, "^~~")
}

func TestFormatDiagnosticWholeCommand(t *testing.T) {
	d := Diagnostic{Message: "missing", TokenIndex: WholeCommand, Pos: WholeCommand, Level: LevelError}

	rendered := formatDiagnostic("app", "input", d)
	assert.Contains(t, rendered, "missing")
	assert.NotContains(t, rendered, "^")
}

func TestRecord(t *testing.T) {
	r := NewRecord(10)
	assert.Equal(t, 10, r.Get())
	assert.False(t, r.Modified())

	r.Set(20)
	assert.Equal(t, 20, r.Get())
	assert.True(t, r.Modified())
}

func TestRecordInherit(t *testing.T) {
	parent := NewRecord("parent")
	parent.Set("configured")

	child := NewRecord("child")
	child.Inherit(&parent)
	assert.Equal(t, "configured", child.Get())
	assert.False(t, child.Modified())

	overridden := NewRecord("own")
	overridden.Set("own")
	overridden.Inherit(&parent)
	assert.Equal(t, "own", overridden.Get())
}

func TestRecordInheritFuncRunsOnlyWhenUnmodified(t *testing.T) {
	calls := 0
	r := NewRecord("x")
	r.Set("set")
	r.InheritFunc(func() string { calls++; return "ignored" })
	assert.Zero(t, calls)
	assert.Equal(t, "set", r.Get())

	fresh := NewRecord("x")
	fresh.InheritFunc(func() string { calls++; return "supplied" })
	assert.Equal(t, 1, calls)
	assert.Equal(t, "supplied", fresh.Get())
}
