package lanat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// DefaultPrefix is the flag prefix used when an argument doesn't set one.
const DefaultPrefix = '-'

// Argument binds one or more names to an argument type under a command. The
// first name is canonical; the rest are aliases. Single-character names also
// participate in clustered "-abc" name lists.
type Argument struct {
	// Names holds the identifiers of the argument, canonical name first.
	Names []string

	// Description is shown in usage text.
	Description string

	// Prefix is the flag prefix character, '-' when zero.
	Prefix byte

	// Type parses the argument's value tokens.
	Type ArgumentType

	// Required generates a diagnostic when the argument never occurs and
	// its type has no default.
	Required bool

	// Positional arguments receive bare value tokens in declaration order
	// instead of being addressed by name.
	Positional bool

	// Unique arguments must be used alone. Using one suppresses the
	// required-argument checks on its siblings; combining it with other
	// arguments is diagnosed. The built-in help flag is unique.
	Unique bool

	// MaxUsage caps how often the argument may occur; 0 means unlimited.
	MaxUsage int

	// OnOK runs after parsing when the argument received a value and
	// accumulated no exit-level diagnostics.
	OnOK func(value any)

	// OnError runs after parsing when the argument accumulated exit-level
	// diagnostics.
	OnError func(*Argument)

	// Color tints the argument's name in usage text. When unset, the help
	// formatter takes the next color of its rotating palette each time it
	// renders; the field itself stays unset.
	Color lipgloss.Color

	usageCount int
	parent     *Command
	group      *Group
	errs       *ErrorContainer
}

// Name returns the canonical (first) name.
func (a *Argument) Name() string { return a.Names[0] }

// UsageCount returns how many times the argument occurred during the last
// parse, counting name-list membership and positional use.
func (a *Argument) UsageCount() int { return a.usageCount }

// Parent returns the owning command, or nil before the argument is added.
func (a *Argument) Parent() *Command { return a.parent }

// Group returns the argument group holding this argument, if any.
func (a *Argument) Group() *Group { return a.group }

func (a *Argument) prefix() byte {
	if a.Prefix == 0 {
		return DefaultPrefix
	}
	return a.Prefix
}

// hasName reports whether name matches any of the argument's names,
// case-sensitively.
func (a *Argument) hasName(name string) bool {
	for _, n := range a.Names {
		if n == name {
			return true
		}
	}
	return false
}

// matchesWord reports whether a prefixed word addresses this argument, in
// either the "-name" or "--name" form.
func (a *Argument) matchesWord(word string) bool {
	p := string(a.prefix())
	for _, n := range a.Names {
		if word == p+n || word == p+p+n {
			return true
		}
	}
	return false
}

// sharesName reports whether two arguments collide under the command's
// duplicate-identifier rule.
func (a *Argument) sharesName(other *Argument) bool {
	for _, n := range other.Names {
		if a.hasName(n) {
			return true
		}
	}
	return false
}

// container returns the argument's diagnostics accumulator. The parser
// drains the type's container into it with rebased token indices.
func (a *Argument) container() *ErrorContainer {
	if a.errs == nil {
		a.errs = newErrorContainer()
	}
	return a.errs
}

func (a *Argument) reset() {
	a.usageCount = 0
	a.container().reset()
	a.Type.Reset()
}

// validate panics on schema errors. It runs when the argument is added to a
// command; these are programmer mistakes, not user input.
func (a *Argument) validate() {
	if len(a.Names) == 0 {
		panic("lanat: arguments need at least one name")
	}
	if a.Type == nil {
		panic(fmt.Sprintf("lanat: argument %q has no type", a.Names[0]))
	}
	for _, n := range a.Names {
		if n == "" || strings.ContainsAny(n, " \t=\"'") || n[0] == a.prefix() {
			panic(fmt.Sprintf("lanat: %q is not a valid argument name", n))
		}
	}
	if a.Unique && a.Type.Arity().Min > 0 {
		panic(fmt.Sprintf("lanat: unique argument %q must allow zero values", a.Names[0]))
	}
	if a.Positional && a.Type.Arity().Min < 1 {
		panic(fmt.Sprintf("lanat: positional argument %q must consume at least one value", a.Names[0]))
	}
}
