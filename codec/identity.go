package codec

import (
	ocsigenserver "github.com/huangered/ocsigenserver"
)

// Identity returns a Codec that carries the wire string through unchanged.
// It is the base case for call sites that always speak through a Codec.
func Identity() ocsigenserver.Codec[string] {
	return identityCodec{}
}

type identityCodec struct{}

func (identityCodec) Encode(v string) (string, error) { return v, nil }

func (identityCodec) Decode(raw string) (string, error) { return raw, nil }

// Func builds a Codec from an encode and a decode function pair. It is the
// lightest way to put a domain type on the wire without declaring a new type.
func Func[T any](encode func(T) (string, error), decode func(string) (T, error)) ocsigenserver.Codec[T] {
	return funcCodec[T]{enc: encode, dec: decode}
}

type funcCodec[T any] struct {
	enc func(T) (string, error)
	dec func(string) (T, error)
}

func (c funcCodec[T]) Encode(v T) (string, error)   { return c.enc(v) }
func (c funcCodec[T]) Decode(raw string) (T, error) { return c.dec(raw) }
