package lanat

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// StringType accepts a single word verbatim.
type StringType struct{ TypeBase }

func (t *StringType) Arity() Range { return One }

func (t *StringType) ParseValues(tokens []Token) {
	if len(tokens) == 0 {
		return
	}
	t.setValue(tokens[0].Text)
}

// IntType parses a single machine-sized integer. Base prefixes (0x, 0o, 0b)
// are honored.
type IntType struct{ TypeBase }

func (t *IntType) Arity() Range { return One }

func (t *IntType) ParseValues(tokens []Token) {
	if len(tokens) == 0 {
		return
	}
	text := tokens[0].Text
	v, err := strconv.ParseInt(text, 0, strconv.IntSize)
	switch {
	case errors.Is(err, strconv.ErrRange):
		t.AddError(fmt.Sprintf("integer value %q is out of range", text), 0)
	case err != nil:
		t.AddError(fmt.Sprintf("%q is not a valid integer", text), 0)
	default:
		t.setValue(int(v))
	}
}

// ByteType parses a single unsigned 8-bit integer.
type ByteType struct{ TypeBase }

func (t *ByteType) Arity() Range { return One }

func (t *ByteType) ParseValues(tokens []Token) {
	if len(tokens) == 0 {
		return
	}
	text := tokens[0].Text
	v, err := strconv.ParseUint(text, 0, 8)
	switch {
	case errors.Is(err, strconv.ErrRange):
		t.AddError(fmt.Sprintf("byte value %q is out of range", text), 0)
	case err != nil:
		t.AddError(fmt.Sprintf("%q is not a valid byte", text), 0)
	default:
		t.setValue(byte(v))
	}
}

// FloatType parses a single 64-bit floating point number.
type FloatType struct{ TypeBase }

func (t *FloatType) Arity() Range { return One }

func (t *FloatType) ParseValues(tokens []Token) {
	if len(tokens) == 0 {
		return
	}
	text := tokens[0].Text
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		t.AddError(fmt.Sprintf("%q is not a valid number", text), 0)
		return
	}
	t.setValue(v)
}

// FileType accepts a path to an existing file. The value is the path string
// as written.
type FileType struct{ TypeBase }

func (t *FileType) Arity() Range { return One }

func (t *FileType) ParseValues(tokens []Token) {
	if len(tokens) == 0 {
		return
	}
	path := tokens[0].Text
	if _, err := os.Stat(path); err != nil {
		t.AddError(fmt.Sprintf("file %q not found", path), 0)
		return
	}
	t.setValue(path)
}

// BoolType is a presence flag: it consumes no value tokens and is true when
// the argument occurs at all.
type BoolType struct{ TypeBase }

func (t *BoolType) Arity() Range { return None }

func (t *BoolType) ParseValues([]Token) { t.setValue(true) }

func (t *BoolType) Value() (any, bool) {
	if v, ok := t.TypeBase.Value(); ok {
		return v, true
	}
	return false, true
}

// CounterType counts occurrences. "-vvv" with a counter named "v" yields 3.
type CounterType struct {
	TypeBase
	count int
}

func (t *CounterType) Arity() Range { return None }

func (t *CounterType) ParseValues([]Token) {
	t.count++
	t.setValue(t.count)
}

func (t *CounterType) Value() (any, bool) {
	if v, ok := t.TypeBase.Value(); ok {
		return v, true
	}
	return 0, true
}

func (t *CounterType) Reset() {
	t.count = 0
	t.TypeBase.Reset()
}

// KeyValueType parses "key=value" words into a string map. Occurrences
// accumulate into the same map.
type KeyValueType struct {
	TypeBase
	pairs map[string]string
}

func (t *KeyValueType) Arity() Range { return AtLeast(1) }

func (t *KeyValueType) ParseValues(tokens []Token) {
	if t.pairs == nil {
		t.pairs = map[string]string{}
	}
	for i, tok := range tokens {
		key, value, ok := strings.Cut(tok.Text, "=")
		if !ok || key == "" {
			t.AddError(fmt.Sprintf("%q is not a key=value pair", tok.Text), i)
			continue
		}
		t.pairs[key] = value
	}
	t.setValue(t.pairs)
}

func (t *KeyValueType) Reset() {
	t.pairs = nil
	t.TypeBase.Reset()
}

// TupleType applies an inner single-value type to each of a bounded number
// of value tokens. The final value is a slice of the inner values in input
// order.
type TupleType struct {
	TypeBase
	inner ArgumentType
	arity Range
}

// Tuple wraps a single-value type into one consuming between min and max
// values. Pass Unbounded as max for an open-ended tuple.
func Tuple(inner ArgumentType, min, max int) *TupleType {
	if inner.Arity() != One {
		panic("lanat: tuple inner types must consume exactly one value")
	}
	return &TupleType{inner: inner, arity: Range{min, max}}
}

func (t *TupleType) Arity() Range { return t.arity }

func (t *TupleType) ParseValues(tokens []Token) {
	values := make([]any, 0, len(tokens))
	for i, tok := range tokens {
		t.inner.Reset()
		t.inner.ParseValues([]Token{tok})

		diags := t.inner.Errors().Diagnostics()
		for _, d := range diags {
			d.TokenIndex = i
			t.Errors().Add(d)
		}
		if len(diags) > 0 {
			continue
		}
		if v, ok := t.inner.Value(); ok {
			values = append(values, v)
		}
	}
	t.setValue(values)
}

func (t *TupleType) Reset() {
	t.inner.Reset()
	t.TypeBase.Reset()
}

// OptionalType consumes one value when the next token is a value and none
// otherwise, in which case it behaves like a presence flag and the value is
// true. Inner parses the value when one is given.
type OptionalType struct {
	TypeBase
	Inner ArgumentType
}

func (t *OptionalType) Arity() Range { return Range{0, 1} }

func (t *OptionalType) ParseValues(tokens []Token) {
	if len(tokens) == 0 {
		t.setValue(true)
		return
	}
	t.Inner.Reset()
	t.Inner.ParseValues(tokens)

	diags := t.Inner.Errors().Diagnostics()
	for _, d := range diags {
		t.Errors().Add(d)
	}
	if len(diags) > 0 {
		return
	}
	if v, ok := t.Inner.Value(); ok {
		t.setValue(v)
	}
}

func (t *OptionalType) Reset() {
	t.Inner.Reset()
	t.TypeBase.Reset()
}

// FuncType adapts a plain conversion function into a single-value argument
// type. It is the escape hatch for user-defined values that don't warrant a
// full ArgumentType implementation.
type FuncType struct {
	TypeBase
	Convert func(string) (any, error)
}

func (t *FuncType) Arity() Range { return One }

func (t *FuncType) ParseValues(tokens []Token) {
	if len(tokens) == 0 {
		return
	}
	v, err := t.Convert(tokens[0].Text)
	if err != nil {
		t.AddError(err.Error(), 0)
		return
	}
	t.setValue(v)
}
