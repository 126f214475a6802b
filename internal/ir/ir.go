// Package ir defines the normalized intermediate representation of a service
// definition shared by the YAML loader and the code generator. This package
// is internal and not part of the public API.
package ir

// NodeKind identifies an IR node type.
type NodeKind int

const (
	NodeScalar NodeKind = iota
	NodeGroup
	NodeOpt
	NodeSet
	NodeList
	NodeSum
	NodeAllSuffix
)

// Node is the root IR node interface.
type Node interface {
	Kind() NodeKind
}

// ScalarType names the wire type of a scalar field after alias resolution.
type ScalarType int

const (
	ScalarInt ScalarType = iota
	ScalarInt32
	ScalarInt64
	ScalarFloat
	ScalarString
	ScalarBool
	ScalarCheckbox
	ScalarFile
	ScalarTime
	ScalarBytes
	ScalarCoordinates
	ScalarRegexp
)

var scalarNames = [...]string{
	ScalarInt:         "int",
	ScalarInt32:       "int32",
	ScalarInt64:       "int64",
	ScalarFloat:       "float",
	ScalarString:      "string",
	ScalarBool:        "bool",
	ScalarCheckbox:    "checkbox",
	ScalarFile:        "file",
	ScalarTime:        "time",
	ScalarBytes:       "bytes",
	ScalarCoordinates: "coordinates",
	ScalarRegexp:      "regexp",
}

func (t ScalarType) String() string {
	if int(t) < len(scalarNames) {
		return scalarNames[t]
	}
	return "scalar(?)"
}

// Scalar is a single-field leaf. Pattern and Template are set for regexp
// scalars only; Default carries the raw definition text and is parsed by the
// consumer against the scalar type.
type Scalar struct {
	Name       string
	Type       ScalarType
	Pattern    string
	Template   string
	Default    string
	HasDefault bool
}

func (s *Scalar) Kind() NodeKind { return NodeScalar }

// Group is an ordered product of named fields. Wire names inside a group are
// not prefixed, so every name claimed below one flat level must be distinct.
type Group struct {
	Fields []Field
}

func (g *Group) Kind() NodeKind { return NodeGroup }

// Field maps a definition name to a node. The name keys the decoded value
// map; only scalar and list nodes also use it on the wire.
type Field struct {
	Name string
	Node Node
}

// Opt marks a subtree whose full absence is legal.
type Opt struct {
	Elem Node
}

func (o *Opt) Kind() NodeKind { return NodeOpt }

// Set is a repeated scalar field: one wire key, many occurrences.
type Set struct {
	Elem *Scalar
}

func (s *Set) Kind() NodeKind { return NodeSet }

// List is an indexed sequence of element groups under "<name>.<i>." prefixes.
type List struct {
	Name string
	Elem Node
}

func (l *List) Kind() NodeKind { return NodeList }

// Sum is a binary alternative between two field groups.
type Sum struct {
	First  Node
	Second Node
}

func (s *Sum) Kind() NodeKind { return NodeSum }

// AllSuffix drains the remaining path segments; it may only terminate a
// suffix group.
type AllSuffix struct {
	Name string
}

func (a *AllSuffix) Kind() NodeKind { return NodeAllSuffix }

// Service is one normalized service definition. Query is always a Group
// (possibly empty); Suffix is nil when the service captures no path
// segments, otherwise a Group of positional fields.
type Service struct {
	Name   string
	Path   string
	Method string
	Query  Node
	Suffix Node
}
