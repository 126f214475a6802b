package param

import (
	"context"
	"strconv"

	ocsigenserver "github.com/huangered/ocsigenserver"
)

// scalarParam is the common core of every single-key leaf: one author name,
// one encode function and one decode function. The decode function receives
// the resolved key so its issues name the exact wire field.
type scalarParam[T any] struct {
	name string
	kind ocsigenserver.Kind
	enc  func(T) string
	dec  func(key, raw string) (T, error)
}

func (p scalarParam[T]) Shape() ocsigenserver.Shape {
	return ocsigenserver.Shape{Kind: p.kind, Names: []string{p.name}}
}

func (p scalarParam[T]) Mirror(g *ocsigenserver.NameGen) *ocsigenserver.Mirror {
	return &ocsigenserver.Mirror{Kind: p.kind, Name: p.name}
}

func (p scalarParam[T]) Construct(w *ocsigenserver.Writer, m *ocsigenserver.Mirror, v T) error {
	w.EmitScalar(m.Key(w.Prefix()), p.enc(v))
	return nil
}

func (p scalarParam[T]) Reconstruct(ctx context.Context, sc *ocsigenserver.Scope, m *ocsigenserver.Mirror) (T, error) {
	key := m.Key(sc.Prefix())
	raw, err := sc.TakeScalar(key)
	if err != nil {
		var zero T
		return zero, err
	}
	return p.dec(key, raw)
}

// Int describes one base-10 integer field.
func Int(name string) ocsigenserver.Param[int] {
	ocsigenserver.CheckName(name)
	return scalarParam[int]{name: name, kind: ocsigenserver.KindInt, enc: strconv.Itoa, dec: decodeInt}
}

// Int32 describes one 32-bit integer field. Values outside the int32 range
// decode to an overflow issue, not a silent truncation.
func Int32(name string) ocsigenserver.Param[int32] {
	ocsigenserver.CheckName(name)
	return scalarParam[int32]{name: name, kind: ocsigenserver.KindInt32, enc: encodeInt32, dec: decodeInt32}
}

// Int64 describes one 64-bit integer field.
func Int64(name string) ocsigenserver.Param[int64] {
	ocsigenserver.CheckName(name)
	return scalarParam[int64]{name: name, kind: ocsigenserver.KindInt64, enc: encodeInt64, dec: decodeInt64}
}

// Float describes one float64 field. Encoding uses the shortest decimal
// form that round-trips.
func Float(name string) ocsigenserver.Param[float64] {
	ocsigenserver.CheckName(name)
	return scalarParam[float64]{name: name, kind: ocsigenserver.KindFloat, enc: encodeFloat, dec: decodeFloat}
}

// String describes one string field. Any value is accepted; escaping is the
// query codec's concern, not the parameter's.
func String(name string) ocsigenserver.Param[string] {
	ocsigenserver.CheckName(name)
	return scalarParam[string]{
		name: name,
		kind: ocsigenserver.KindString,
		enc:  func(s string) string { return s },
		dec:  func(key, raw string) (string, error) { return raw, nil },
	}
}

// Bool describes one strict boolean field: the key must be present and its
// value must parse as a boolean. For HTML checkboxes, whose absence means
// false, use Checkbox.
func Bool(name string) ocsigenserver.Param[bool] {
	ocsigenserver.CheckName(name)
	return scalarParam[bool]{name: name, kind: ocsigenserver.KindBool, enc: strconv.FormatBool, dec: decodeBool}
}

func decodeInt(key, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		if isRange(err) {
			return 0, overflowAt(key, raw, strconv.IntSize)
		}
		return 0, invalidAt(key, raw, err)
	}
	return n, nil
}

func decodeInt32(key, raw string) (int32, error) {
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		if isRange(err) {
			return 0, overflowAt(key, raw, 32)
		}
		return 0, invalidAt(key, raw, err)
	}
	return int32(n), nil
}

func decodeInt64(key, raw string) (int64, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		if isRange(err) {
			return 0, overflowAt(key, raw, 64)
		}
		return 0, invalidAt(key, raw, err)
	}
	return n, nil
}

func decodeFloat(key, raw string) (float64, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		if isRange(err) {
			return 0, overflowAt(key, raw, 64)
		}
		return 0, invalidAt(key, raw, err)
	}
	return f, nil
}

func decodeBool(key, raw string) (bool, error) {
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, invalidAt(key, raw, err)
	}
	return b, nil
}

func encodeInt32(v int32) string { return strconv.FormatInt(int64(v), 10) }
func encodeInt64(v int64) string { return strconv.FormatInt(v, 10) }

func encodeFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// checkboxParam reads presence rather than a value.
type checkboxParam struct{ name string }

// Checkbox describes an HTML checkbox: absent means false, present (with
// any value) means true. Encoding a true value emits the conventional "on".
func Checkbox(name string) ocsigenserver.Param[bool] {
	ocsigenserver.CheckName(name)
	return checkboxParam{name: name}
}

func (p checkboxParam) Shape() ocsigenserver.Shape {
	return ocsigenserver.Shape{Kind: ocsigenserver.KindCheckbox, Names: []string{p.name}}
}

func (p checkboxParam) Mirror(g *ocsigenserver.NameGen) *ocsigenserver.Mirror {
	return &ocsigenserver.Mirror{Kind: ocsigenserver.KindCheckbox, Name: p.name}
}

func (p checkboxParam) Construct(w *ocsigenserver.Writer, m *ocsigenserver.Mirror, v bool) error {
	if v {
		w.EmitPair(m.Key(w.Prefix()), "on")
	}
	return nil
}

func (p checkboxParam) Reconstruct(ctx context.Context, sc *ocsigenserver.Scope, m *ocsigenserver.Mirror) (bool, error) {
	return len(sc.TakeRepeated(m.Key(sc.Prefix()))) > 0, nil
}

// fileParam reads one upload from the file channel.
type fileParam struct{ name string }

// File describes one uploaded file field. Construct emits nothing: uploads
// travel in the request body, never in a URL.
func File(name string) ocsigenserver.Param[ocsigenserver.FileInfo] {
	ocsigenserver.CheckName(name)
	return fileParam{name: name}
}

func (p fileParam) Shape() ocsigenserver.Shape {
	return ocsigenserver.Shape{Kind: ocsigenserver.KindFile, Names: []string{p.name}}
}

func (p fileParam) Mirror(g *ocsigenserver.NameGen) *ocsigenserver.Mirror {
	return &ocsigenserver.Mirror{Kind: ocsigenserver.KindFile, Name: p.name}
}

func (p fileParam) Construct(w *ocsigenserver.Writer, m *ocsigenserver.Mirror, v ocsigenserver.FileInfo) error {
	return nil
}

func (p fileParam) Reconstruct(ctx context.Context, sc *ocsigenserver.Scope, m *ocsigenserver.Mirror) (ocsigenserver.FileInfo, error) {
	return sc.TakeFile(m.Key(sc.Prefix()))
}

// IntAs projects an integer field onto a domain type with underlying int.
func IntAs[T ~int](name string) ocsigenserver.Param[T] {
	ocsigenserver.CheckName(name)
	return scalarParam[T]{
		name: name,
		kind: ocsigenserver.KindInt,
		enc:  func(v T) string { return strconv.Itoa(int(v)) },
		dec: func(key, raw string) (T, error) {
			n, err := decodeInt(key, raw)
			return T(n), err
		},
	}
}

// Int32As projects a 32-bit integer field onto a domain type.
func Int32As[T ~int32](name string) ocsigenserver.Param[T] {
	ocsigenserver.CheckName(name)
	return scalarParam[T]{
		name: name,
		kind: ocsigenserver.KindInt32,
		enc:  func(v T) string { return encodeInt32(int32(v)) },
		dec: func(key, raw string) (T, error) {
			n, err := decodeInt32(key, raw)
			return T(n), err
		},
	}
}

// Int64As projects a 64-bit integer field onto a domain type.
func Int64As[T ~int64](name string) ocsigenserver.Param[T] {
	ocsigenserver.CheckName(name)
	return scalarParam[T]{
		name: name,
		kind: ocsigenserver.KindInt64,
		enc:  func(v T) string { return encodeInt64(int64(v)) },
		dec: func(key, raw string) (T, error) {
			n, err := decodeInt64(key, raw)
			return T(n), err
		},
	}
}

// FloatAs projects a float field onto a domain type with underlying float64.
func FloatAs[T ~float64](name string) ocsigenserver.Param[T] {
	ocsigenserver.CheckName(name)
	return scalarParam[T]{
		name: name,
		kind: ocsigenserver.KindFloat,
		enc:  func(v T) string { return encodeFloat(float64(v)) },
		dec: func(key, raw string) (T, error) {
			f, err := decodeFloat(key, raw)
			return T(f), err
		},
	}
}

// StringAs projects a string field onto a domain type with underlying string.
func StringAs[T ~string](name string) ocsigenserver.Param[T] {
	ocsigenserver.CheckName(name)
	return scalarParam[T]{
		name: name,
		kind: ocsigenserver.KindString,
		enc:  func(v T) string { return string(v) },
		dec:  func(key, raw string) (T, error) { return T(raw), nil },
	}
}

// BoolAs projects a strict boolean field onto a domain type.
func BoolAs[T ~bool](name string) ocsigenserver.Param[T] {
	ocsigenserver.CheckName(name)
	return scalarParam[T]{
		name: name,
		kind: ocsigenserver.KindBool,
		enc:  func(v T) string { return strconv.FormatBool(bool(v)) },
		dec: func(key, raw string) (T, error) {
			b, err := decodeBool(key, raw)
			return T(b), err
		},
	}
}
