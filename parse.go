package lanat

import (
	"fmt"
	"strings"
)

// parser walks a command's token list with an index cursor, dispatches value
// tokens to argument types, and runs the after-pass checks. Parsers are
// stateful and rebuilt by Command.Reset.
type parser struct {
	cmd    *Command
	tokens []Token
	errs   *ErrorContainer

	forward    string
	hasForward bool
}

func newParser(cmd *Command) *parser {
	return &parser{cmd: cmd, errs: newErrorContainer()}
}

func (p *parser) run() {
	var positionals []*Argument
	for _, a := range p.cmd.arguments {
		if a.Positional {
			positionals = append(positionals, a)
		}
	}

	for i := 0; i < len(p.tokens); i++ {
		tok := p.tokens[i]
		switch tok.Kind {
		case KindName:
			// The tokenizer only emits names it resolved, so the lookup
			// cannot miss.
			arg := p.cmd.resolveName(tok.Text)
			i = p.consume(arg, i, i+1)

		case KindNameList:
			// Only the last clustered argument may consume the values that
			// follow; the earlier ones get nothing.
			args := p.cmd.resolveNameList(tok.Text)
			for _, a := range args[:len(args)-1] {
				if a.Type.Arity().Min > 0 {
					p.report(fmt.Sprintf("argument %q expects %s values, got 0",
						a.Name(), describeArity(a.Type.Arity())), i, LevelError)
					p.bumpUsage(a, i)
					continue
				}
				p.applyOccurrence(a, nil, i, i)
			}
			i = p.consume(args[len(args)-1], i, i+1)

		case KindValue, KindTupleOpen:
			if len(positionals) > 0 {
				arg := positionals[0]
				positionals = positionals[1:]
				i = p.consume(arg, i, i)
				break
			}
			if tok.Kind == KindTupleOpen {
				_, end := p.tupleSpan(i)
				p.unexpectedValue(tok, i)
				i = end
				break
			}
			p.unexpectedValue(tok, i)

		case KindTupleValue:
			// Stray tuple values only appear after tuple errors; recovery
			// already diagnosed them.

		case KindTupleClose:
			// Consumed together with its span.

		case KindSubCommand:
			// The orchestrator parses the child; nothing follows this token
			// in our list.
			p.finish()
			return

		case KindForward:
			p.forward = tok.Text
			p.hasForward = true
		}
	}
	p.finish()
}

// consume hands the argument the value tokens following index start, bounded
// by the type's arity or overridden by a tuple span. nameIdx is the token
// that addressed the argument (the name token, or the first value for a
// positional). Returns the index of the last consumed token.
func (p *parser) consume(arg *Argument, nameIdx, start int) int {
	r := arg.Type.Arity()

	if start < len(p.tokens) && p.tokens[start].Kind == KindTupleOpen {
		values, end := p.tupleSpan(start)
		if !r.contains(len(values)) {
			p.report(fmt.Sprintf("argument %q takes %s values, the tuple holds %d",
				arg.Name(), describeArity(r), len(values)), start, LevelError)
			p.bumpUsage(arg, nameIdx)
			return end
		}
		p.applyOccurrence(arg, values, nameIdx, start+1)
		return end
	}

	count := 0
	for start+count < len(p.tokens) && count < r.Max && p.tokens[start+count].Kind == KindValue {
		count++
	}
	if count < r.Min {
		p.report(fmt.Sprintf("argument %q expects %s values, got %d",
			arg.Name(), describeArity(r), count), nameIdx, LevelError)
		p.bumpUsage(arg, nameIdx)
		return start + count - 1
	}
	p.applyOccurrence(arg, p.tokens[start:start+count], nameIdx, start)
	return start + count - 1
}

// tupleSpan collects the value tokens of the span opening at start and
// returns them with the index of the span's last token.
func (p *parser) tupleSpan(start int) ([]Token, int) {
	var values []Token
	j := start + 1
	for ; j < len(p.tokens) && p.tokens[j].Kind == KindTupleValue; j++ {
		values = append(values, p.tokens[j])
	}
	if j < len(p.tokens) && p.tokens[j].Kind == KindTupleClose {
		return values, j
	}
	return values, j - 1
}

// applyOccurrence counts one occurrence of the argument, feeds its type the
// value slice, and drains the type's diagnostics into the argument with
// token indices rebased from slice-relative to absolute.
func (p *parser) applyOccurrence(arg *Argument, values []Token, nameIdx, sliceStart int) {
	if !p.bumpUsage(arg, nameIdx) {
		return
	}

	arg.Type.ParseValues(values)

	for _, d := range arg.Type.Errors().Diagnostics() {
		if d.TokenIndex >= 0 && d.TokenIndex < len(values) {
			tok := values[d.TokenIndex]
			d.TokenIndex = sliceStart + d.TokenIndex
			d.Pos = tok.Pos
			d.Length = len(tok.Text)
		} else if nameIdx >= 0 && nameIdx < len(p.tokens) {
			tok := p.tokens[nameIdx]
			d.TokenIndex = nameIdx
			d.Pos = tok.Pos
			d.Length = len(tok.Text)
		}
		arg.container().Add(d)
	}
	arg.Type.Errors().reset()
}

// bumpUsage increments the usage count and reports whether the occurrence
// may still be parsed. Over-limit occurrences are counted but not parsed.
func (p *parser) bumpUsage(arg *Argument, nameIdx int) bool {
	arg.usageCount++
	if arg.MaxUsage > 0 && arg.usageCount > arg.MaxUsage {
		p.report(fmt.Sprintf("argument %q may occur at most %d time(s)",
			arg.Name(), arg.MaxUsage), nameIdx, LevelError)
		return false
	}
	return true
}

func (p *parser) unexpectedValue(tok Token, i int) {
	msg := fmt.Sprintf("unexpected value %q", tok.Text)
	if tok.Kind == KindValue {
		if name, dist := closestName(tok.Text, p.cmd.subCommandNames()); name != "" && dist <= 2 {
			msg += fmt.Sprintf(" (did you mean %q?)", name)
		}
	}
	p.report(msg, i, LevelError)
}

// finish runs the after-pass checks: required arguments, exclusive groups,
// and unique-argument combination.
func (p *parser) finish() {
	uniqueUsed := false
	othersUsed := 0
	for _, a := range p.cmd.arguments {
		if a.usageCount == 0 {
			continue
		}
		if a.Unique {
			uniqueUsed = true
		} else {
			othersUsed++
		}
	}

	if uniqueUsed && othersUsed > 0 {
		p.report("a unique argument cannot be combined with other arguments",
			WholeCommand, LevelError)
	}

	// A used unique argument waives the required checks: "cmd --help" must
	// not complain about everything the user didn't pass.
	if !uniqueUsed {
		for _, a := range p.cmd.arguments {
			if !a.Required || a.usageCount > 0 {
				continue
			}
			if _, ok := a.Type.Value(); !ok {
				p.report(fmt.Sprintf("required argument %q is missing", a.Name()),
					WholeCommand, LevelError)
			}
		}
	}

	for _, g := range p.cmd.groups {
		p.checkExclusive(g)
	}
}

func (p *parser) checkExclusive(g *Group) {
	if g.Exclusive {
		used := g.usedArguments()
		if len(used) > 1 {
			names := make([]string, len(used))
			for i, a := range used {
				names[i] = a.Name()
			}
			p.report(fmt.Sprintf("arguments %s of group %q are mutually exclusive",
				strings.Join(names, ", "), g.Name), WholeCommand, LevelError)
		}
	}
	for _, sub := range g.groups {
		p.checkExclusive(sub)
	}
}

// report records a diagnostic, resolving the caret span from the token list
// when a token index is given.
func (p *parser) report(message string, tokenIdx int, level Level) {
	d := Diagnostic{
		Message:    message,
		TokenIndex: tokenIdx,
		Pos:        WholeCommand,
		Level:      level,
	}
	if tokenIdx >= 0 && tokenIdx < len(p.tokens) {
		d.Pos = p.tokens[tokenIdx].Pos
		d.Length = len(p.tokens[tokenIdx].Text)
	}
	p.errs.Add(d)
}

func describeArity(r Range) string {
	switch {
	case r.Min == r.Max:
		return fmt.Sprintf("exactly %d", r.Min)
	case r.Max == Unbounded:
		return fmt.Sprintf("at least %d", r.Min)
	}
	return fmt.Sprintf("between %d and %d", r.Min, r.Max)
}
