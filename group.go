package lanat

import "fmt"

// Group collects related arguments for usage text and, optionally, enforces
// that at most one of them is used. Groups hold references to arguments
// already owned by the command; they never own arguments themselves. Groups
// nest, and an exclusive group's constraint spans its whole subtree.
type Group struct {
	Name        string
	Description string

	// Exclusive diagnoses the use of more than one argument across the
	// group's transitive closure.
	Exclusive bool

	arguments []*Argument
	groups    []*Group
	parent    *Group
	cmd       *Command
}

// NewGroup creates an empty group.
func NewGroup(name, description string) *Group {
	return &Group{Name: name, Description: description}
}

// AddArgument references arguments in this group. The arguments must be
// added to the same command the group is (or will be) attached to.
func (g *Group) AddArgument(args ...*Argument) {
	for _, a := range args {
		if g.cmd != nil {
			g.verifyOwned(a)
			a.group = g
		}
		g.arguments = append(g.arguments, a)
	}
}

// AddGroup nests a group inside this one.
func (g *Group) AddGroup(sub *Group) {
	if sub == g {
		panic("lanat: cannot nest a group inside itself")
	}
	if sub.parent != nil || sub.cmd != nil {
		panic("lanat: groups may only be added to one parent")
	}
	sub.parent = g
	if g.cmd != nil {
		sub.attach(g.cmd)
	}
	g.groups = append(g.groups, sub)
}

// Arguments returns the group's direct argument references.
func (g *Group) Arguments() []*Argument { return g.arguments[:] }

// Groups returns the group's direct sub-groups.
func (g *Group) Groups() []*Group { return g.groups[:] }

// Parent returns the enclosing group, if any.
func (g *Group) Parent() *Group { return g.parent }

// attach wires the group (and its subtree) to a command and verifies every
// referenced argument is owned by that command.
func (g *Group) attach(cmd *Command) {
	g.cmd = cmd
	for _, a := range g.arguments {
		g.verifyOwned(a)
		a.group = g
	}
	for _, sub := range g.groups {
		sub.attach(cmd)
	}
}

func (g *Group) verifyOwned(a *Argument) {
	if a.parent != g.cmd {
		panic(fmt.Sprintf("lanat: group %q references argument %q not owned by command %q",
			g.Name, a.Names[0], g.cmd.name))
	}
}

// usedArguments returns the transitively grouped arguments that occurred
// during the last parse.
func (g *Group) usedArguments() []*Argument {
	var used []*Argument
	for _, a := range g.arguments {
		if a.usageCount > 0 {
			used = append(used, a)
		}
	}
	for _, sub := range g.groups {
		used = append(used, sub.usedArguments()...)
	}
	return used
}
