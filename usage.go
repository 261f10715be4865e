package lanat

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ckarenz/wordwrap"
	"github.com/iancoleman/strcase"
	"golang.org/x/exp/slices"
)

// HelpFormatter renders a command's usage text. The core hands it the
// parsed schema: arguments in declaration order, the group tree, the
// descriptions and names. Formatters carry mutable configuration (the
// default one holds its layout settings and palette), so inheritance hands
// each sub-command a Clone.
type HelpFormatter interface {
	Format(c *Command) string
	Clone() HelpFormatter
}

// defaultPalette is the rotating set of colors assigned to argument
// representations.
var defaultPalette = []lipgloss.Color{"10", "12", "13", "14", "11", "208"}

// UsageWriter is the default help formatter.
type UsageWriter struct {
	// Indent is an indentation prefix for rows in a section.
	Indent string

	// Divider is printed between the two columns of a section.
	Divider string

	// MaxFirstColumn caps the width of the left column.
	MaxFirstColumn int

	// MaxLineWidth is the maximum width of each line of text.
	MaxLineWidth int

	// Palette is cycled through to tint argument names. Arguments with an
	// explicit Color keep it.
	Palette []lipgloss.Color
}

// NewUsageWriter returns a usage writer with the default layout.
func NewUsageWriter() *UsageWriter {
	return &UsageWriter{
		Indent:         "  ",
		Divider:        "  ",
		MaxFirstColumn: 35,
		MaxLineWidth:   80,
		Palette:        slices.Clone(defaultPalette),
	}
}

// Clone returns an independent copy; the palette is copied so sibling
// commands never share it.
func (u *UsageWriter) Clone() HelpFormatter {
	clone := *u
	clone.Palette = slices.Clone(u.Palette)
	return &clone
}

// Format renders the usage text for a command.
func (u *UsageWriter) Format(c *Command) string {
	var b strings.Builder

	var named, positional []*Argument
	for _, a := range c.Arguments() {
		if a.Positional {
			positional = append(positional, a)
		} else {
			named = append(named, a)
		}
	}

	subs := slices.Clone(c.SubCommands())
	slices.SortFunc(subs, func(a, b *Command) int {
		return strings.Compare(a.Name(), b.Name())
	})

	// One-line summary: "some command [<arguments>] <command> <file>...".
	fmt.Fprint(&b, "Usage: ", c.FullName())
	if len(named) > 0 {
		fmt.Fprint(&b, " [<arguments>]")
	}
	if len(subs) > 0 {
		fmt.Fprint(&b, " <command>")
	}
	for _, a := range positional {
		name := "<" + a.Name() + ">"
		if a.Type.Arity().Max > 1 {
			name += "..."
		}
		if !a.Required {
			name = "[" + name + "]"
		}
		fmt.Fprint(&b, " ", name)
	}
	fmt.Fprintln(&b)

	if c.Description() != "" {
		fmt.Fprintln(&b)
		wordwrap.NewScanner(strings.NewReader(c.Description()), u.width()).WriteTo(&b)
		fmt.Fprintln(&b)
	}

	if len(subs) > 0 {
		fmt.Fprintln(&b, "\nCommands:")
		rows := make([]usageRow, 0, len(subs))
		for _, sub := range subs {
			rows = append(rows, usageRow{left: u.Indent + sub.Name(), right: sub.Description()})
		}
		u.writeRows(&b, rows)
	}

	pool := NewLoopPool(u.Palette...)
	colorOf := func(a *Argument) lipgloss.Style {
		color := a.Color
		if color == "" {
			color = pool.Next()
		}
		return lipgloss.NewStyle().Foreground(color)
	}

	if len(positional) > 0 {
		fmt.Fprintln(&b, "\nArguments:")
		rows := make([]usageRow, 0, len(positional))
		for _, a := range positional {
			rows = append(rows, usageRow{
				left:  u.Indent + a.Name(),
				right: a.Description,
				style: colorOf(a),
			})
		}
		u.writeRows(&b, rows)
	}

	// Grouped arguments render under their group heading; the rest go into
	// the plain options section.
	grouped := map[*Argument]bool{}
	for _, g := range c.Groups() {
		markGrouped(g, grouped)
	}

	var plain []usageRow
	for _, a := range named {
		if grouped[a] {
			continue
		}
		plain = append(plain, usageRow{left: u.Indent + u.describe(a), right: a.Description, style: colorOf(a)})
	}
	if len(plain) > 0 {
		fmt.Fprintln(&b, "\nOptions:")
		u.writeRows(&b, plain)
	}

	for _, g := range c.Groups() {
		u.writeGroup(&b, g, colorOf)
	}

	return b.String()
}

func (u *UsageWriter) writeGroup(b *strings.Builder, g *Group, colorOf func(*Argument) lipgloss.Style) {
	heading := g.Name
	if g.Exclusive {
		heading += " (mutually exclusive)"
	}
	fmt.Fprintf(b, "\n%s:\n", heading)

	rows := make([]usageRow, 0, len(g.Arguments()))
	for _, a := range g.Arguments() {
		rows = append(rows, usageRow{left: u.Indent + u.describe(a), right: a.Description, style: colorOf(a)})
	}
	u.writeRows(b, rows)

	for _, sub := range g.Groups() {
		u.writeGroup(b, sub, colorOf)
	}
}

// describe builds the left-column representation of a named argument:
// short and long forms, a SCREAMING_SNAKE placeholder when the argument
// takes values, and a required marker.
func (u *UsageWriter) describe(a *Argument) string {
	var short, long string
	for _, n := range a.Names {
		if len(n) == 1 && short == "" {
			short = string(a.prefix()) + n
		}
		if len(n) > 1 && long == "" {
			long = strings.Repeat(string(a.prefix()), 2) + n
		}
	}

	var s string
	switch {
	case short != "" && long != "":
		s = short + ", " + long
	case short != "":
		s = short
	default:
		s = long
	}

	if r := a.Type.Arity(); r.Max > 0 {
		s += " " + strcase.ToScreamingSnake(a.Name())
		if r.Max > 1 {
			s += "..."
		}
	}
	if a.Required {
		s += " (required)"
	}
	return s
}

type usageRow struct {
	left  string
	right string
	style lipgloss.Style
}

// writeRows prints a two-column section with the left column dynamically
// sized and both columns wrapped. Styling applies after padding so escape
// codes don't skew the alignment.
func (u *UsageWriter) writeRows(w io.Writer, rows []usageRow) {
	var leftWidth int
	for _, row := range rows {
		if size := len(row.left); size > leftWidth {
			leftWidth = size
		}
	}
	if u.MaxFirstColumn != 0 && leftWidth > u.MaxFirstColumn {
		leftWidth = u.MaxFirstColumn
	}

	for _, row := range rows {
		leftScan := wordwrap.NewScanner(strings.NewReader(row.left), leftWidth)
		rightScan := wordwrap.NewScanner(strings.NewReader(row.right), u.width()-leftWidth-len(u.Divider))
		for {
			left, leftErr := leftScan.ReadLine()
			right, rightErr := rightScan.ReadLine()
			if leftErr == io.EOF && rightErr == io.EOF {
				break
			}
			pad := ""
			if n := leftWidth - len(left); n > 0 {
				pad = strings.Repeat(" ", n)
			}
			fmt.Fprintf(w, "%s%s%s%s\n", row.style.Render(string(left)), pad, u.Divider, string(right))
		}
	}
}

func (u *UsageWriter) width() int {
	if u.MaxLineWidth > 0 {
		return u.MaxLineWidth
	}
	return 80
}

func markGrouped(g *Group, set map[*Argument]bool) {
	for _, a := range g.Arguments() {
		set[a] = true
	}
	for _, sub := range g.Groups() {
		markGrouped(sub, set)
	}
}
