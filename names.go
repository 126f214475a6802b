package ocsigenserver

import (
	"strconv"
	"strings"
)

// Reserved pieces of the wire grammar. Author-supplied names may use none of
// them: the engine owns every key starting with ReservedPrefix, the dot
// separates list prefixes and coordinate axes.
const (
	ReservedPrefix = "__"
	KeySeparator   = "."
	CoordSuffixX   = ".x"
	CoordSuffixY   = ".y"

	discPrefix = ReservedPrefix + "sum"
)

// DiscFirst and DiscSecond are the discriminator values recorded for the two
// sides of a sum.
const (
	DiscFirst  = "1"
	DiscSecond = "2"
)

// CheckName validates an author-supplied field name at definition time and
// panics with a *ShapeError on misuse.
func CheckName(name string) {
	if name == "" {
		Shapef(name, "parameter name must not be empty")
	}
	if strings.HasPrefix(name, ReservedPrefix) {
		Shapef(name, "parameter names starting with %q are reserved", ReservedPrefix)
	}
	if strings.Contains(name, KeySeparator) {
		Shapef(name, "parameter names must not contain %q", KeySeparator)
	}
}

// NameGen threads the counter that names anonymous tree positions. A fresh
// generator walks the pure type tree exactly once per Mirror call, so two
// trees of the same shape always produce the same synthesized names, within
// one process or across restarts.
type NameGen struct {
	sums int
}

// NextSum returns the synthesized local name for the next sum discriminator.
func (g *NameGen) NextSum() string {
	n := g.sums
	g.sums++
	return discPrefix + strconv.Itoa(n)
}

// Mirror is the structural name mirror of a parameter tree. Form renderers
// walk it to learn the exact key each input must use; the engine walks it in
// lockstep with values (Construct) or with the working pair table
// (Reconstruct). Names are local: list elements resolve them under the
// element prefix at walk time.
type Mirror struct {
	Kind Kind
	// Name is the author-supplied field name for leaves, the list name for
	// lists, the set key for sets; empty for purely structural nodes.
	Name string
	// Disc is the synthesized discriminator key of a sum node.
	Disc string
	// Children holds two mirrors for products and sums, one for options,
	// lists and suffix wrappers, none for leaves.
	Children []*Mirror
}

// Key resolves the full wire key of a named node under the given prefix.
func (m *Mirror) Key(prefix string) string { return prefix + m.Name }

// DiscKey resolves the discriminator key of a sum node under the given prefix.
func (m *Mirror) DiscKey(prefix string) string { return prefix + m.Disc }

// ListPrefix resolves the key prefix of element i of a list node.
func (m *Mirror) ListPrefix(prefix string, i int) string {
	return prefix + m.Name + KeySeparator + strconv.Itoa(i) + KeySeparator
}

// Leaves calls fn with the resolved key of every named leaf below m, the sum
// discriminators included. List subtrees are reported once under a
// representative `<name>.<i>.` prefix with i left symbolic as "*"; renderers
// instantiate real indices themselves.
func (m *Mirror) Leaves(prefix string, fn func(key string, kind Kind)) {
	switch m.Kind {
	case KindProduct:
		m.Children[0].Leaves(prefix, fn)
		m.Children[1].Leaves(prefix, fn)
	case KindSum:
		fn(m.DiscKey(prefix), KindSum)
		m.Children[0].Leaves(prefix, fn)
		m.Children[1].Leaves(prefix, fn)
	case KindOption, KindSuffix:
		m.Children[0].Leaves(prefix, fn)
	case KindList:
		m.Children[0].Leaves(prefix+m.Name+KeySeparator+"*"+KeySeparator, fn)
	case KindCoordinates:
		fn(m.Key(prefix)+CoordSuffixX, KindInt)
		fn(m.Key(prefix)+CoordSuffixY, KindInt)
		if len(m.Children) > 0 {
			fn(m.Key(prefix), m.Children[0].Kind)
		}
	case KindUnit, KindAny:
		// no keys
	default:
		fn(m.Key(prefix), m.Kind)
	}
}
