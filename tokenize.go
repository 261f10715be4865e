package lanat

import (
	"strings"
)

// tokenizer is a single-pass character scanner over the raw input line. It
// emits positioned tokens for the owning command and, when it meets a word
// naming a sub-command, hands the unread suffix to that command's tokenizer.
// Tokenizers are stateful and rebuilt by Command.Reset.
type tokenizer struct {
	cmd    *Command
	input  string
	pos    int
	tokens []Token
	errs   *ErrorContainer

	// sub is the command the scan was handed off to, if any.
	sub *Command

	inTuple      bool
	tupleOpenPos int
}

func newTokenizer(cmd *Command) *tokenizer {
	return &tokenizer{cmd: cmd, errs: newErrorContainer()}
}

// run scans input from start to the end of the line or to a sub-command
// handoff. Positions stay relative to the full input line across handoffs so
// diagnostics can point into the original string.
func (t *tokenizer) run(input string, start int) {
	t.input = input
	t.pos = start
	t.cmd.input = input

	for {
		t.skipSpace()
		if t.pos >= len(input) {
			break
		}

		c := input[t.pos]
		tc := t.cmd.tupleChars.Get()
		switch {
		case !t.inTuple && c == tc.Open:
			t.emit(Token{KindTupleOpen, string(c), t.pos})
			t.inTuple = true
			t.tupleOpenPos = t.pos
			t.pos++

		case t.inTuple && c == tc.Close:
			t.emit(Token{KindTupleClose, string(c), t.pos})
			t.inTuple = false
			t.pos++

		case t.inTuple && c == tc.Open:
			t.errs.Add(Diagnostic{
				Message:    "tuples cannot nest",
				TokenIndex: WholeCommand,
				Pos:        t.pos,
				Length:     1,
				Level:      LevelError,
			})
			t.pos++

		default:
			if t.scanSegment() {
				return
			}
		}
	}

	if t.inTuple {
		t.errs.Add(Diagnostic{
			Message:    "unterminated tuple",
			TokenIndex: WholeCommand,
			Pos:        t.tupleOpenPos,
			Length:     1,
			Level:      LevelError,
		})
	}
}

// scanSegment consumes one word starting at the current position and emits
// the token(s) it stands for. It reports true when scanning of this command
// is over: either the rest of the line was forwarded verbatim, or control
// moved to a sub-command.
func (t *tokenizer) scanSegment() bool {
	// "--" followed by whitespace or end of input forwards the remainder.
	if !t.inTuple && strings.HasPrefix(t.input[t.pos:], "--") &&
		(t.pos+2 >= len(t.input) || isSpace(t.input[t.pos+2])) {
		p := t.pos + 2
		for p < len(t.input) && isSpace(t.input[p]) {
			p++
		}
		t.emit(Token{KindForward, t.input[p:], p})
		t.pos = len(t.input)
		return true
	}

	wordStart := t.pos
	word, quoted := t.scanWord()

	if t.inTuple {
		t.emit(Token{KindTupleValue, word, wordStart})
		return false
	}

	// Sub-command boundary. Quoted words never start a sub-command, and
	// neither does anything inside a tuple span.
	if !quoted {
		if sub := t.cmd.findSubCommand(word); sub != nil {
			t.emit(Token{KindSubCommand, word, wordStart})
			t.sub = sub
			sub.tokenizer.run(t.input, t.pos)
			return true
		}
	}

	t.classify(word, wordStart, quoted)
	return false
}

// scanWord reads one word, handling quotes and escapes. The returned flag
// reports whether the word began with a quote, which forces it to be a
// value. Word boundaries are whitespace and, inside a tuple span, the tuple
// delimiters.
func (t *tokenizer) scanWord() (string, bool) {
	var b strings.Builder
	var quote byte
	quoted := false
	quotePos := 0
	tc := t.cmd.tupleChars.Get()

	for t.pos < len(t.input) {
		c := t.input[t.pos]
		switch {
		case c == '\\' && t.pos+1 < len(t.input):
			next := t.input[t.pos+1]
			switch {
			case quote != 0 && next == quote:
				b.WriteByte(next)
			case quote == 0 && (next == ' ' || next == '"' || next == '\''):
				b.WriteByte(next)
			default:
				b.WriteByte('\\')
				b.WriteByte(next)
			}
			t.pos += 2

		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				b.WriteByte(c)
			}
			t.pos++

		case c == '"' || c == '\'':
			quote = c
			quotePos = t.pos
			if b.Len() == 0 {
				quoted = true
			}
			t.pos++

		case isSpace(c) || (t.inTuple && (c == tc.Open || c == tc.Close)):
			return b.String(), quoted

		default:
			b.WriteByte(c)
			t.pos++
		}
	}

	if quote != 0 {
		// Recover by closing the quote at the end of input.
		t.errs.Add(Diagnostic{
			Message:    "unterminated quote",
			TokenIndex: WholeCommand,
			Pos:        quotePos,
			Length:     1,
			Level:      LevelError,
		})
	}
	return b.String(), quoted
}

// classify resolves one bare word against the command's arguments. Unknown
// prefixed words are values, not errors; the parser decides what to make of
// them.
func (t *tokenizer) classify(word string, pos int, quoted bool) {
	if quoted || len(word) < 2 {
		t.emit(Token{KindValue, word, pos})
		return
	}

	// A long-name match wins over a name-list reading, with an optional
	// "=value" part splitting off into its own token.
	namePart, valuePart, hasValue := strings.Cut(word, "=")
	if arg := t.cmd.resolveName(namePart); arg != nil {
		t.emit(Token{KindName, namePart, pos})
		if hasValue {
			t.emit(Token{KindValue, valuePart, pos + len(namePart) + 1})
		}
		return
	}

	if t.cmd.resolveNameList(word) != nil {
		t.emit(Token{KindNameList, word, pos})
		return
	}

	t.emit(Token{KindValue, word, pos})
}

func (t *tokenizer) emit(tok Token) {
	t.tokens = append(t.tokens, tok)
}

func (t *tokenizer) skipSpace() {
	for t.pos < len(t.input) && isSpace(t.input[t.pos]) {
		t.pos++
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}
