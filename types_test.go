package lanat

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func valueTokens(words ...string) []Token {
	tokens := make([]Token, len(words))
	for i, w := range words {
		tokens[i] = Token{KindValue, w, i}
	}
	return tokens
}

func TestIntType(t *testing.T) {
	cases := map[string]struct {
		word  string
		value int
		err   string
	}{
		"Decimal":    {word: "42", value: 42},
		"Negative":   {word: "-7", value: -7},
		"Hex":        {word: "0x10", value: 16},
		"NotANumber": {word: "abc", err: `"abc" is not a valid integer`},
		"Overflow":   {word: "99999999999999999999", err: "out of range"},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			typ := &IntType{}
			typ.ParseValues(valueTokens(c.word))

			if c.err != "" {
				diags := typ.Errors().Diagnostics()
				require.Len(t, diags, 1)
				assert.Contains(t, diags[0].Message, c.err)
				_, ok := typ.Value()
				assert.False(t, ok)
				return
			}

			v, ok := typ.Value()
			require.True(t, ok)
			assert.Equal(t, c.value, v)
		})
	}
}

func TestByteType(t *testing.T) {
	typ := &ByteType{}
	typ.ParseValues(valueTokens("200"))
	v, ok := typ.Value()
	require.True(t, ok)
	assert.Equal(t, byte(200), v)

	typ = &ByteType{}
	typ.ParseValues(valueTokens("300"))
	diags := typ.Errors().Diagnostics()
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "out of range")
}

func TestFloatType(t *testing.T) {
	typ := &FloatType{}
	typ.ParseValues(valueTokens("2.5"))
	v, ok := typ.Value()
	require.True(t, ok)
	assert.Equal(t, 2.5, v)

	typ = &FloatType{}
	typ.ParseValues(valueTokens("x"))
	assert.NotEmpty(t, typ.Errors().Diagnostics())
}

func TestFileType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exists.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	typ := &FileType{}
	typ.ParseValues(valueTokens(path))
	v, ok := typ.Value()
	require.True(t, ok)
	assert.Equal(t, path, v)

	typ = &FileType{}
	typ.ParseValues(valueTokens(filepath.Join(dir, "missing.txt")))
	diags := typ.Errors().Diagnostics()
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "not found")
}

func TestBoolType(t *testing.T) {
	typ := &BoolType{}

	// Absent means false, present means true.
	v, ok := typ.Value()
	require.True(t, ok)
	assert.Equal(t, false, v)

	typ.ParseValues(nil)
	v, _ = typ.Value()
	assert.Equal(t, true, v)

	typ.Reset()
	v, _ = typ.Value()
	assert.Equal(t, false, v)
}

func TestKeyValueType(t *testing.T) {
	typ := &KeyValueType{}
	typ.ParseValues(valueTokens("a=1", "b=two"))
	typ.ParseValues(valueTokens("c="))

	v, ok := typ.Value()
	require.True(t, ok)
	assert.Equal(t, map[string]string{"a": "1", "b": "two", "c": ""}, v)

	typ.ParseValues(valueTokens("broken"))
	diags := typ.Errors().Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, `"broken" is not a key=value pair`, diags[0].Message)
	assert.Equal(t, 0, diags[0].TokenIndex)
}

func TestTupleType(t *testing.T) {
	typ := Tuple(&IntType{}, 1, Unbounded)
	typ.ParseValues(valueTokens("1", "2", "3"))

	v, ok := typ.Value()
	require.True(t, ok)
	assert.Equal(t, []any{1, 2, 3}, v)
}

func TestTupleTypeElementErrorsKeepIndices(t *testing.T) {
	typ := Tuple(&IntType{}, 1, Unbounded)
	typ.ParseValues(valueTokens("1", "x", "3"))

	diags := typ.Errors().Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, 1, diags[0].TokenIndex)

	// Good elements survive around the bad one.
	v, ok := typ.Value()
	require.True(t, ok)
	assert.Equal(t, []any{1, 3}, v)
}

func TestTupleTypeRejectsMultiValueInner(t *testing.T) {
	assert.Panics(t, func() { Tuple(&KeyValueType{}, 1, 2) })
}

func TestFuncType(t *testing.T) {
	typ := &FuncType{Convert: func(s string) (any, error) {
		if s == "bad" {
			return nil, errors.New("no good")
		}
		return "got:" + s, nil
	}}

	typ.ParseValues(valueTokens("fine"))
	v, ok := typ.Value()
	require.True(t, ok)
	assert.Equal(t, "got:fine", v)

	typ.Reset()
	typ.ParseValues(valueTokens("bad"))
	diags := typ.Errors().Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, "no good", diags[0].Message)
}

func TestTypeDefaults(t *testing.T) {
	typ := &StringType{}
	typ.SetDefault("fallback")

	v, ok := typ.Value()
	require.True(t, ok)
	assert.Equal(t, "fallback", v)

	typ.ParseValues(valueTokens("given"))
	v, _ = typ.Value()
	assert.Equal(t, "given", v)

	// Reset clears the parsed value but keeps the default.
	typ.Reset()
	v, ok = typ.Value()
	require.True(t, ok)
	assert.Equal(t, "fallback", v)
}
