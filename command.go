// Package lanat implements a declarative command-line parsing library. An
// application describes a tree of commands, each with typed arguments,
// argument groups and nested sub-commands, then feeds it a raw input line.
// The result is a structured set of typed values plus diagnostics localized
// to positions in the input; nothing is ever thrown at the caller.
package lanat

import (
	"fmt"
	"io"
	"os"
	"unicode"

	shellquote "github.com/kballard/go-shellquote"
)

// TupleChars is the pair of delimiters recognized around tuple values.
type TupleChars struct {
	Open, Close byte
}

// The three supported tuple delimiter pairs.
var (
	TupleBrackets = TupleChars{'[', ']'}
	TupleParens   = TupleChars{'(', ')'}
	TupleBraces   = TupleChars{'{', '}'}
)

// Command is a node in the schema tree: its own arguments and groups plus
// any sub-commands. Build the tree with AddArgument, AddGroup and
// AddSubCommand, then call Parse or ParseLine on the root. Schema mistakes
// (duplicate names, reparenting, invalid codes) panic at build time; user
// input problems accumulate as diagnostics instead.
type Command struct {
	// OnCorrect runs after a parse in which neither this command nor its
	// tokenized sub-command chain collected exit-level diagnostics. It
	// receives the command's parsed values.
	OnCorrect func(*ParsedArguments)

	// OnError runs after a parse in which this command or its tokenized
	// sub-command chain collected exit-level diagnostics.
	OnError func(*Command)

	// Out and Err override the sinks used for usage text and rendered
	// diagnostics. They are consulted on the root; defaults are os.Stdout
	// and os.Stderr.
	Out io.Writer
	Err io.Writer

	name        string
	description string

	arguments   []*Argument
	groups      []*Group
	subCommands []*Command
	parent      *Command
	isRoot      bool

	tupleChars Record[TupleChars]
	errorCode  Record[int]
	formatter  Record[HelpFormatter]

	errs      *ErrorContainer
	tokenizer *tokenizer
	parser    *parser

	input  string
	result *ParsedArguments
}

// NewRoot creates the root of a command tree. Only roots can parse, and a
// root can never be added as a sub-command.
func NewRoot(name, description string) *Command {
	c := newCommand(name, description)
	c.isRoot = true
	return c
}

// NewCommand creates a command meant to be attached as a sub-command.
func NewCommand(name, description string) *Command {
	return newCommand(name, description)
}

func newCommand(name, description string) *Command {
	if name == "" {
		panic("lanat: commands need a name")
	}
	for i, r := range name {
		if unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		panic(fmt.Sprintf("lanat: command name %q must be a letter followed by letters or digits", name))
	}

	c := &Command{
		name:        name,
		description: description,
		tupleChars:  NewRecord(TupleBrackets),
		errorCode:   NewRecord(1),
		errs:        newErrorContainer(),
	}
	c.formatter = NewRecord[HelpFormatter](NewUsageWriter())

	help := &Argument{
		Names:       []string{"help", "h"},
		Description: "Show usage text",
		Unique:      true,
		Type:        &BoolType{},
	}
	help.OnOK = func(any) {
		fmt.Fprint(c.stdout(), c.formatter.Get().Format(c))
	}
	c.AddArgument(help)

	c.rebuild()
	return c
}

// Name returns the command's name.
func (c *Command) Name() string { return c.name }

// Description returns the command's description.
func (c *Command) Description() string { return c.description }

// Parent returns the command's parent, or nil on a root.
func (c *Command) Parent() *Command { return c.parent }

// FullName returns the command's fully qualified name.
func (c *Command) FullName() string {
	if c.parent == nil {
		return c.name
	}
	return c.parent.FullName() + " " + c.name
}

// Arguments returns the command's arguments in declaration order, the
// built-in help argument included.
func (c *Command) Arguments() []*Argument { return c.arguments[:] }

// Groups returns the command's top-level argument groups.
func (c *Command) Groups() []*Group { return c.groups[:] }

// SubCommands returns the command's immediate children.
func (c *Command) SubCommands() []*Command { return c.subCommands[:] }

// ActiveSubCommand returns the sub-command the last parse descended into,
// if any.
func (c *Command) ActiveSubCommand() *Command { return c.tokenizer.sub }

// AddArgument adds arguments to the command. It panics when an argument is
// invalid, already owned, or shares a name with an existing argument.
func (c *Command) AddArgument(args ...*Argument) {
	for _, a := range args {
		a.validate()
		if a.parent != nil {
			panic(fmt.Sprintf("lanat: argument %q may only be added to one command", a.Name()))
		}
		for _, existing := range c.arguments {
			if existing.sharesName(a) {
				panic(fmt.Sprintf("lanat: duplicate argument name %q in command %q", a.Name(), c.name))
			}
		}
		a.parent = c
		c.arguments = append(c.arguments, a)
	}
}

// AddGroup attaches an argument group. Every argument the group references
// must already belong to this command.
func (c *Command) AddGroup(g *Group) {
	if g.cmd != nil || g.parent != nil {
		panic(fmt.Sprintf("lanat: group %q may only be added to one command", g.Name))
	}
	g.attach(c)
	c.groups = append(c.groups, g)
}

// AddSubCommand attaches child commands. Roots cannot be children, a
// command cannot be its own child, and sibling names must be unique.
func (c *Command) AddSubCommand(subs ...*Command) {
	for _, sub := range subs {
		if sub == c {
			panic("lanat: cannot add a command to itself")
		}
		if sub.isRoot {
			panic(fmt.Sprintf("lanat: root command %q cannot be a sub-command", sub.name))
		}
		if sub.parent != nil {
			panic(fmt.Sprintf("lanat: command %q may only be added to one parent", sub.name))
		}
		for _, existing := range c.subCommands {
			if existing.name == sub.name {
				panic(fmt.Sprintf("lanat: duplicate sub-command name %q under %q", sub.name, c.name))
			}
		}
		sub.parent = c
		c.subCommands = append(c.subCommands, sub)
	}
}

// SetTupleChars configures the tuple delimiters; one of TupleBrackets,
// TupleParens or TupleBraces. Sub-commands inherit the setting unless they
// set their own.
func (c *Command) SetTupleChars(tc TupleChars) {
	if tc != TupleBrackets && tc != TupleParens && tc != TupleBraces {
		panic(fmt.Sprintf("lanat: unsupported tuple delimiters %q %q", tc.Open, tc.Close))
	}
	c.tupleChars.Set(tc)
}

// SetErrorCode configures the exit code this command contributes when it
// has exit-level diagnostics. The code must be positive.
func (c *Command) SetErrorCode(code int) {
	if code <= 0 {
		panic(fmt.Sprintf("lanat: error code must be positive, got %d", code))
	}
	c.errorCode.Set(code)
}

// SetMinDisplayLevel sets the lowest severity shown by PrintDiagnostics.
func (c *Command) SetMinDisplayLevel(l Level) { c.errs.SetMinDisplayLevel(l) }

// SetMinExitLevel sets the lowest severity contributing to the exit code.
func (c *Command) SetMinExitLevel(l Level) { c.errs.SetMinExitLevel(l) }

// SetHelpFormatter replaces the usage renderer. Sub-commands inherit a deep
// copy unless they set their own.
func (c *Command) SetHelpFormatter(f HelpFormatter) { c.formatter.Set(f) }

// HelpFormatter returns the effective usage renderer.
func (c *Command) HelpFormatter() HelpFormatter { return c.formatter.Get() }

// Parse joins argv into a single input line and parses it. This is the
// entry point for handing over a program's os.Args[1:].
func (c *Command) Parse(argv []string) *ParsedArguments {
	return c.ParseLine(shellquote.Join(argv...))
}

// ParseLine parses one raw input line against the command tree. It always
// runs to completion; inspect HasExitErrors, ErrorCode and the returned
// values afterwards. Only roots may parse.
func (c *Command) ParseLine(input string) *ParsedArguments {
	if !c.isRoot {
		panic(fmt.Sprintf("lanat: command %q is not a root; parse from the root", c.name))
	}

	c.Reset()
	c.inheritConfig()
	c.tokenizer.run(input, 0)
	c.runParsers()
	c.buildResults()
	c.invokeCallbacks()
	return c.result
}

// inheritConfig copies every unmodified configuration slot from parent to
// child, root downward. The help formatter is deep-copied so siblings never
// share mutable state.
func (c *Command) inheritConfig() {
	for _, sub := range c.subCommands {
		sub.tupleChars.Inherit(&c.tupleChars)
		sub.errorCode.Inherit(&c.errorCode)
		sub.errs.inherit(c.errs)
		sub.formatter.InheritFunc(func() HelpFormatter {
			return c.formatter.Get().Clone()
		})
		sub.inheritConfig()
	}
}

// runParsers hands each tokenized command its tokens and walks down the
// tokenized chain.
func (c *Command) runParsers() {
	c.parser.tokens = c.tokenizer.tokens
	c.parser.run()
	if sub := c.tokenizer.sub; sub != nil {
		sub.runParsers()
	}
}

func (c *Command) buildResults() *ParsedArguments {
	values := map[string]any{}
	for _, a := range c.arguments {
		if v, ok := a.Type.Value(); ok {
			values[a.Name()] = v
		}
	}
	r := &ParsedArguments{
		command:    c.name,
		values:     values,
		forward:    c.parser.forward,
		hasForward: c.parser.hasForward,
	}
	if sub := c.tokenizer.sub; sub != nil {
		r.sub = []*ParsedArguments{sub.buildResults()}
	}
	c.result = r
	return r
}

// invokeCallbacks runs the command-level callback, then each argument's,
// then descends into the tokenized sub-command.
func (c *Command) invokeCallbacks() {
	if c.HasExitErrors() {
		if c.OnError != nil {
			c.OnError(c)
		}
	} else if c.OnCorrect != nil {
		c.OnCorrect(c.result)
	}

	minExit := c.errs.minExit.Get()
	for _, a := range c.arguments {
		if a.container().hasAtLeast(minExit) {
			if a.OnError != nil {
				a.OnError(a)
			}
			continue
		}
		if a.usageCount == 0 || a.OnOK == nil {
			continue
		}
		if v, ok := a.Type.Value(); ok {
			a.OnOK(v)
		}
	}

	if sub := c.tokenizer.sub; sub != nil {
		sub.invokeCallbacks()
	}
}

// localDiagnostics gathers the command's own diagnostics: its container,
// the tokenizer's, the parser's, then each argument's. Tokenizer
// diagnostics precede parser diagnostics.
func (c *Command) localDiagnostics() []Diagnostic {
	var all []Diagnostic
	all = append(all, c.errs.Diagnostics()...)
	all = append(all, c.tokenizer.errs.Diagnostics()...)
	all = append(all, c.parser.errs.Diagnostics()...)
	for _, a := range c.arguments {
		all = append(all, a.container().Diagnostics()...)
	}
	return all
}

// HasExitErrors reports whether this command or its tokenized sub-command
// chain collected diagnostics at or above the exit threshold.
func (c *Command) HasExitErrors() bool {
	if c.hasLocalAtLeast(c.errs.minExit.Get()) {
		return true
	}
	if sub := c.tokenizer.sub; sub != nil {
		return sub.HasExitErrors()
	}
	return false
}

// HasDisplayErrors reports whether anything would be shown to the user.
func (c *Command) HasDisplayErrors() bool {
	if c.hasLocalAtLeast(c.errs.minDisplay.Get()) {
		return true
	}
	if sub := c.tokenizer.sub; sub != nil {
		return sub.HasDisplayErrors()
	}
	return false
}

func (c *Command) hasLocalAtLeast(min Level) bool {
	for _, d := range c.localDiagnostics() {
		if d.Level >= min {
			return true
		}
	}
	return false
}

// ErrorCode returns the exit code of the last parse: this command's own
// code when anything at exit level was collected, bitwise OR-ed with the
// codes of the tokenized sub-command chain. Zero means success. The OR
// lets a caller tell from a single integer which commands failed.
func (c *Command) ErrorCode() int {
	code := 0
	if c.HasExitErrors() {
		code = c.errorCode.Get()
	}
	if sub := c.tokenizer.sub; sub != nil {
		code |= sub.ErrorCode()
	}
	return code
}

// ForwardValue returns the verbatim text following a "--" separator, and
// whether one was present, for this command.
func (c *Command) ForwardValue() (string, bool) {
	return c.parser.forward, c.parser.hasForward
}

// Result returns the values parsed for this command, or nil before a parse.
func (c *Command) Result() *ParsedArguments { return c.result }

// PrintDiagnostics renders every display-level diagnostic of this command
// and its tokenized sub-commands to w, each with a caret into the input
// line. A nil writer uses the root's Err sink.
func (c *Command) PrintDiagnostics(w io.Writer) {
	if w == nil {
		w = c.stderr()
	}
	min := c.errs.minDisplay.Get()
	for _, d := range c.localDiagnostics() {
		if d.Level < min {
			continue
		}
		if d.Pos < 0 && d.TokenIndex >= 0 && d.TokenIndex < len(c.tokenizer.tokens) {
			tok := c.tokenizer.tokens[d.TokenIndex]
			d.Pos = tok.Pos
			d.Length = len(tok.Text)
		}
		fmt.Fprint(w, formatDiagnostic(c.FullName(), c.input, d))
	}
	if sub := c.tokenizer.sub; sub != nil {
		sub.PrintDiagnostics(w)
	}
}

// Reset returns the tree to a fresh parseable state: tokenizer and parser
// are rebuilt, usage counts and diagnostics cleared. It is idempotent and
// the only sanctioned way to reuse a tree across parses; ParseLine calls it
// on entry.
func (c *Command) Reset() {
	c.rebuild()
	c.errs.reset()
	c.input = ""
	c.result = nil
	for _, a := range c.arguments {
		a.reset()
	}
	for _, sub := range c.subCommands {
		sub.Reset()
	}
}

func (c *Command) rebuild() {
	c.tokenizer = newTokenizer(c)
	c.parser = newParser(c)
}

// resolveName finds the non-positional argument addressed by a prefixed
// word such as "--file" or "-f".
func (c *Command) resolveName(word string) *Argument {
	for _, a := range c.arguments {
		if !a.Positional && a.matchesWord(word) {
			return a
		}
	}
	return nil
}

// resolveNameList resolves a "-abc" cluster: a single prefix character
// followed by two or more characters that each name an argument. Characters
// may repeat, so "-vvv" counts a counter three times. Returns nil unless
// every character resolves.
func (c *Command) resolveNameList(word string) []*Argument {
	if len(word) < 3 {
		return nil
	}
	prefix := word[0]
	args := make([]*Argument, 0, len(word)-1)
	for i := 1; i < len(word); i++ {
		a := c.resolveShort(prefix, word[i])
		if a == nil {
			return nil
		}
		args = append(args, a)
	}
	return args
}

func (c *Command) resolveShort(prefix, ch byte) *Argument {
	for _, a := range c.arguments {
		if a.Positional || a.prefix() != prefix {
			continue
		}
		for _, n := range a.Names {
			if len(n) == 1 && n[0] == ch {
				return a
			}
		}
	}
	return nil
}

func (c *Command) findSubCommand(name string) *Command {
	for _, sub := range c.subCommands {
		if sub.name == name {
			return sub
		}
	}
	return nil
}

func (c *Command) subCommandNames() []string {
	names := make([]string, len(c.subCommands))
	for i, sub := range c.subCommands {
		names[i] = sub.name
	}
	return names
}

func (c *Command) root() *Command {
	r := c
	for r.parent != nil {
		r = r.parent
	}
	return r
}

func (c *Command) stdout() io.Writer {
	if w := c.root().Out; w != nil {
		return w
	}
	return os.Stdout
}

func (c *Command) stderr() io.Writer {
	if w := c.root().Err; w != nil {
		return w
	}
	return os.Stderr
}
