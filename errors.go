package lanat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Level is the severity of a diagnostic. Levels are totally ordered with
// LevelError highest; thresholds compare with >=.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	}
	return "unknown"
}

// WholeCommand marks a diagnostic that refers to the command as a whole
// rather than to a single token or input position.
const WholeCommand = -1

// Diagnostic is a structured message tied to a location in the input line.
// Diagnostics are accumulated, never thrown: a parse always runs to
// completion and the caller inspects what piled up.
type Diagnostic struct {
	Message string

	// TokenIndex is the index of the offending token in the owning
	// command's token list, or WholeCommand.
	TokenIndex int

	// Pos and Length locate the caret span in the original input line.
	// Producers that only know a token index leave Pos as WholeCommand;
	// the command fills it in from the token before rendering.
	Pos    int
	Length int

	Level Level
}

// ErrorContainer accumulates diagnostics in source order and gates them
// against two severity thresholds: one for display, one for the exit code.
// Both thresholds are inheritable records so sub-commands pick up the
// root's configuration unless they overrode it.
type ErrorContainer struct {
	diagnostics []Diagnostic
	minDisplay  Record[Level]
	minExit     Record[Level]
}

func newErrorContainer() *ErrorContainer {
	return &ErrorContainer{
		minDisplay: NewRecord(LevelInfo),
		minExit:    NewRecord(LevelError),
	}
}

// Add appends a diagnostic.
func (c *ErrorContainer) Add(d Diagnostic) {
	c.diagnostics = append(c.diagnostics, d)
}

// Diagnostics returns the accumulated diagnostics in append order.
func (c *ErrorContainer) Diagnostics() []Diagnostic {
	return c.diagnostics[:]
}

// SetMinDisplayLevel sets the lowest severity that is shown to the user.
func (c *ErrorContainer) SetMinDisplayLevel(l Level) { c.minDisplay.Set(l) }

// SetMinExitLevel sets the lowest severity that contributes to the exit code.
func (c *ErrorContainer) SetMinExitLevel(l Level) { c.minExit.Set(l) }

// HasExitErrors reports whether any diagnostic reaches the exit threshold.
func (c *ErrorContainer) HasExitErrors() bool {
	return c.hasAtLeast(c.minExit.Get())
}

// HasDisplayErrors reports whether any diagnostic reaches the display
// threshold.
func (c *ErrorContainer) HasDisplayErrors() bool {
	return c.hasAtLeast(c.minDisplay.Get())
}

func (c *ErrorContainer) hasAtLeast(min Level) bool {
	for _, d := range c.diagnostics {
		if d.Level >= min {
			return true
		}
	}
	return false
}

func (c *ErrorContainer) inherit(parent *ErrorContainer) {
	c.minDisplay.Inherit(&parent.minDisplay)
	c.minExit.Inherit(&parent.minExit)
}

func (c *ErrorContainer) reset() {
	c.diagnostics = nil
}

var levelStyles = map[Level]lipgloss.Style{
	LevelError:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	LevelWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	LevelInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	LevelDebug:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
}

var caretStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

// formatDiagnostic renders one diagnostic as a headline plus, when the
// diagnostic points into the input, the input line with a caret underneath.
func formatDiagnostic(commandName, input string, d Diagnostic) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s: %s\n", commandName, levelStyles[d.Level].Render(d.Level.String()), d.Message)

	if d.Pos < 0 || d.Pos > len(input) {
		return b.String()
	}

	span := d.Length
	if span < 1 {
		span = 1
	}
	if d.Pos+span > len(input) {
		span = len(input) - d.Pos
		if span < 1 {
			span = 1
		}
	}

	b.WriteString("  " + input + "\n")
	marker := "^" + strings.Repeat("~", span-1)
	b.WriteString("  " + strings.Repeat(" ", d.Pos) + caretStyle.Render(marker) + "\n")
	return b.String()
}
