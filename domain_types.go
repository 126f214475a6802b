package ocsigenserver

import "io"

// Unit is the value of a parameterless service.
type Unit struct{}

// Pair is the value shape produced by combining two parameter descriptions.
// Combinations nest to the right: a ** b ** c decodes into
// Pair[A, Pair[B, C]].
type Pair[A, B any] struct {
	First  A
	Second B
}

// PairOf builds a Pair. It reads better than a struct literal when the
// element types are long.
func PairOf[A, B any](a A, b B) Pair[A, B] { return Pair[A, B]{First: a, Second: b} }

// Either is the value of a binary sum: exactly one alternative is set.
// IsSecond selects which field is meaningful.
type Either[A, B any] struct {
	IsSecond bool
	First    A
	Second   B
}

// EitherFirst injects the first alternative.
func EitherFirst[A, B any](a A) Either[A, B] { return Either[A, B]{First: a} }

// EitherSecond injects the second alternative.
func EitherSecond[A, B any](b B) Either[A, B] { return Either[A, B]{IsSecond: true, Second: b} }

// Coord is a click position as submitted by image inputs: two integer keys
// name.x and name.y.
type Coord struct {
	X int
	Y int
}

// FileInfo describes one uploaded file as received by the transport layer.
// Open may be nil when the transport exposes no content handle (for example
// in tests that only exercise metadata).
type FileInfo struct {
	FieldName   string
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// KV is one wire pair. Order matters on the wire; duplicate keys are legal
// and meaningful (repeated sets).
type KV struct {
	Key   string
	Value string
}

// RawPairs is the verbatim pair list captured by an Any parameter.
type RawPairs []KV

// Flat is the wire-shaped form of a parameter value: the URL suffix segments
// (possibly empty) and the ordered query/body pairs. Construct produces it;
// Reconstruct consumes it.
type Flat struct {
	Suffix []string
	Pairs  []KV
}

// Files maps a field name to the uploads received under it. Multiple files
// per field are legal (multi-upload inputs decoded through sets).
type Files map[string][]FileInfo
