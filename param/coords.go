package param

import (
	"context"
	"strconv"

	ocsigenserver "github.com/huangered/ocsigenserver"
)

// coordParam reads the two integer keys an image input submits.
type coordParam struct{ name string }

// Coordinates describes the click position of an image input: the browser
// submits two integer fields "<name>.x" and "<name>.y".
func Coordinates(name string) ocsigenserver.Param[ocsigenserver.Coord] {
	ocsigenserver.CheckName(name)
	return coordParam{name: name}
}

func (p coordParam) Shape() ocsigenserver.Shape {
	return ocsigenserver.Shape{Kind: ocsigenserver.KindCoordinates, Names: []string{p.name}}
}

func (p coordParam) Mirror(g *ocsigenserver.NameGen) *ocsigenserver.Mirror {
	return &ocsigenserver.Mirror{Kind: ocsigenserver.KindCoordinates, Name: p.name}
}

func (p coordParam) Construct(w *ocsigenserver.Writer, m *ocsigenserver.Mirror, v ocsigenserver.Coord) error {
	key := m.Key(w.Prefix())
	w.EmitScalar(key+ocsigenserver.CoordSuffixX, strconv.Itoa(v.X))
	w.EmitScalar(key+ocsigenserver.CoordSuffixY, strconv.Itoa(v.Y))
	return nil
}

func (p coordParam) Reconstruct(ctx context.Context, sc *ocsigenserver.Scope, m *ocsigenserver.Mirror) (ocsigenserver.Coord, error) {
	key := m.Key(sc.Prefix())
	x, err := takeInt(sc, key+ocsigenserver.CoordSuffixX)
	if err != nil {
		return ocsigenserver.Coord{}, err
	}
	y, err := takeInt(sc, key+ocsigenserver.CoordSuffixY)
	if err != nil {
		return ocsigenserver.Coord{}, err
	}
	return ocsigenserver.Coord{X: x, Y: y}, nil
}

func takeInt(sc *ocsigenserver.Scope, key string) (int, error) {
	raw, err := sc.TakeScalar(key)
	if err != nil {
		return 0, err
	}
	return decodeInt(key, raw)
}

// coordValueParam pairs a carried value with the click position.
type coordValueParam[T any] struct {
	name string
	kind ocsigenserver.Kind
	enc  func(T) (string, error)
	dec  func(key, raw string) (T, error)
}

// UserCoordinates describes an image input that also carries a value: the
// value travels under "<name>" next to the "<name>.x"/"<name>.y" click keys.
func UserCoordinates[T any](name string, c ocsigenserver.Codec[T]) ocsigenserver.Param[ocsigenserver.Pair[T, ocsigenserver.Coord]] {
	ocsigenserver.CheckName(name)
	if c == nil {
		ocsigenserver.Shapef(name, "nil codec")
	}
	return coordValueParam[T]{
		name: name,
		kind: ocsigenserver.KindUser,
		enc:  c.Encode,
		dec: func(key, raw string) (T, error) {
			v, err := c.Decode(raw)
			if err != nil {
				var zero T
				return zero, invalidAt(key, raw, err)
			}
			return v, nil
		},
	}
}

// StringCoordinates is UserCoordinates for a plain string value.
func StringCoordinates(name string) ocsigenserver.Param[ocsigenserver.Pair[string, ocsigenserver.Coord]] {
	ocsigenserver.CheckName(name)
	return coordValueParam[string]{
		name: name,
		kind: ocsigenserver.KindString,
		enc:  func(s string) (string, error) { return s, nil },
		dec:  func(key, raw string) (string, error) { return raw, nil },
	}
}

// IntCoordinates is UserCoordinates for an integer value.
func IntCoordinates(name string) ocsigenserver.Param[ocsigenserver.Pair[int, ocsigenserver.Coord]] {
	ocsigenserver.CheckName(name)
	return coordValueParam[int]{
		name: name,
		kind: ocsigenserver.KindInt,
		enc:  func(n int) (string, error) { return strconv.Itoa(n), nil },
		dec:  decodeInt,
	}
}

// Int32Coordinates is UserCoordinates for an int32 value.
func Int32Coordinates(name string) ocsigenserver.Param[ocsigenserver.Pair[int32, ocsigenserver.Coord]] {
	ocsigenserver.CheckName(name)
	return coordValueParam[int32]{
		name: name,
		kind: ocsigenserver.KindInt32,
		enc:  func(n int32) (string, error) { return encodeInt32(n), nil },
		dec:  decodeInt32,
	}
}

// Int64Coordinates is UserCoordinates for an int64 value.
func Int64Coordinates(name string) ocsigenserver.Param[ocsigenserver.Pair[int64, ocsigenserver.Coord]] {
	ocsigenserver.CheckName(name)
	return coordValueParam[int64]{
		name: name,
		kind: ocsigenserver.KindInt64,
		enc:  func(n int64) (string, error) { return encodeInt64(n), nil },
		dec:  decodeInt64,
	}
}

func (p coordValueParam[T]) Shape() ocsigenserver.Shape {
	return ocsigenserver.Shape{Kind: ocsigenserver.KindCoordinates, Names: []string{p.name}}
}

func (p coordValueParam[T]) Mirror(g *ocsigenserver.NameGen) *ocsigenserver.Mirror {
	return &ocsigenserver.Mirror{
		Kind:     ocsigenserver.KindCoordinates,
		Name:     p.name,
		Children: []*ocsigenserver.Mirror{{Kind: p.kind, Name: p.name}},
	}
}

func (p coordValueParam[T]) Construct(w *ocsigenserver.Writer, m *ocsigenserver.Mirror, v ocsigenserver.Pair[T, ocsigenserver.Coord]) error {
	key := m.Key(w.Prefix())
	s, err := p.enc(v.First)
	if err != nil {
		return invalidAt(key, "", err)
	}
	w.EmitScalar(key, s)
	w.EmitScalar(key+ocsigenserver.CoordSuffixX, strconv.Itoa(v.Second.X))
	w.EmitScalar(key+ocsigenserver.CoordSuffixY, strconv.Itoa(v.Second.Y))
	return nil
}

func (p coordValueParam[T]) Reconstruct(ctx context.Context, sc *ocsigenserver.Scope, m *ocsigenserver.Mirror) (ocsigenserver.Pair[T, ocsigenserver.Coord], error) {
	var zero ocsigenserver.Pair[T, ocsigenserver.Coord]
	key := m.Key(sc.Prefix())
	raw, err := sc.TakeScalar(key)
	if err != nil {
		return zero, err
	}
	v, err := p.dec(key, raw)
	if err != nil {
		return zero, err
	}
	x, err := takeInt(sc, key+ocsigenserver.CoordSuffixX)
	if err != nil {
		return zero, err
	}
	y, err := takeInt(sc, key+ocsigenserver.CoordSuffixY)
	if err != nil {
		return zero, err
	}
	return ocsigenserver.PairOf(v, ocsigenserver.Coord{X: x, Y: y}), nil
}
