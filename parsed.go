package lanat

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ParsedArguments is the immutable result of parsing one command: the typed
// values keyed by canonical argument name, the forwarded remainder if any,
// and the results of the sub-command the parse descended into.
type ParsedArguments struct {
	command    string
	values     map[string]any
	forward    string
	hasForward bool
	sub        []*ParsedArguments
}

// CommandName returns the name of the command these values belong to.
func (p *ParsedArguments) CommandName() string { return p.command }

// Get returns the value of the argument with the given canonical name.
func (p *ParsedArguments) Get(name string) (any, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Names returns the canonical names that received values, sorted.
func (p *ParsedArguments) Names() []string {
	names := maps.Keys(p.values)
	slices.Sort(names)
	return names
}

// GetArgument returns the value an argument received, looked up by
// reference instead of by name.
func (p *ParsedArguments) GetArgument(a *Argument) (any, bool) {
	return p.Get(a.Name())
}

// Forward returns the verbatim text following a "--" separator and whether
// one was present.
func (p *ParsedArguments) Forward() (string, bool) {
	return p.forward, p.hasForward
}

// Sub returns the result of the named sub-command, or nil when the parse
// did not descend into it.
func (p *ParsedArguments) Sub(name string) *ParsedArguments {
	for _, s := range p.sub {
		if s.command == name {
			return s
		}
	}
	return nil
}

// SubResults returns the sub-command results in descent order.
func (p *ParsedArguments) SubResults() []*ParsedArguments { return p.sub[:] }

// GetAs returns a value by canonical name, asserted to T. The boolean is
// false when the value is absent or of a different type.
func GetAs[T any](p *ParsedArguments, name string) (T, bool) {
	var zero T
	v, ok := p.values[name]
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
