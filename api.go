package ocsigenserver

import "context"

// Shape is the definition-time summary of a parameter description: its node
// kind, whether the tree captures URL suffix segments, and the top-level
// author-supplied key names it claims. Product construction checks claimed
// names for disjointness; suffix flags enforce the at-most-one rule.
type Shape struct {
	Kind      Kind
	HasSuffix bool
	Names     []string
}

// Param describes the shape of a service's parameters and knows how to walk
// a value of that shape in lockstep. Implementations are immutable after
// construction and safe for concurrent use: every per-call mutable state
// lives in the Writer or Scope handed to them.
type Param[T any] interface {
	// Shape reports the definition-time summary used by combinator contracts.
	Shape() Shape

	// Mirror appends this node's naming structure, threading the generator
	// for synthesized names. Both sides of a sum are always visited so
	// names depend on the tree shape alone.
	Mirror(g *NameGen) *Mirror

	// Construct emits the flat form of v. It cannot fail for values that
	// structurally match the description; pattern-constrained leaves are
	// the exception and report a mismatch.
	Construct(w *Writer, m *Mirror, v T) error

	// Reconstruct consumes recognized keys from the scope and rebuilds a
	// value. The first failure aborts the whole walk.
	Reconstruct(ctx context.Context, sc *Scope, m *Mirror) (T, error)
}

// Codec converts between a domain value and its wire string. User-typed
// leaves carry one; the codec package ships common implementations.
type Codec[T any] interface {
	Encode(v T) (string, error)
	Decode(raw string) (T, error)
}

// ParamNames computes the structural name mirror of p. Form builders walk it
// to learn the exact key each field must submit. The mirror for a given tree
// shape is identical across calls, processes and restarts, so generated
// links stay decodable.
func ParamNames[T any](p Param[T]) *Mirror {
	var g NameGen
	return p.Mirror(&g)
}

// Construct encodes a value into its flat wire form: ordered pairs plus the
// optional ordered suffix segments.
func Construct[T any](p Param[T], v T) (Flat, error) {
	w := NewWriter()
	if err := p.Construct(w, ParamNames(p), v); err != nil {
		return Flat{}, err
	}
	return w.Flat(), nil
}

// ConstructPreserving encodes like Construct but consults presence metadata:
// keys that exist only because a default was applied stay absent from the
// output, so re-encoding a decoded request reproduces what the client sent.
func ConstructPreserving[T any](p Param[T], dm Decoded[T]) (Flat, error) {
	w := NewPreservingWriter(dm.Presence)
	if err := p.Construct(w, ParamNames(p), dm.Value); err != nil {
		return Flat{}, err
	}
	return w.Flat(), nil
}

// SafeConstruct encodes v, returning (zero, false) on a value-contract
// violation such as a pattern mismatch.
func SafeConstruct[T any](p Param[T], v T) (Flat, bool) {
	f, err := Construct(p, v)
	if err != nil {
		return Flat{}, false
	}
	return f, true
}

// ---- Decode-time context options (internal wiring, exported for subpackages) ----

type contextKey int

const (
	_ctxKeyLang contextKey = iota
)

// WithLang returns a child context carrying the message language for issues
// produced while decoding this request ("en"/"fr"). Request handlers set it
// from content negotiation; the engine threads it through to i18n.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, _ctxKeyLang, lang)
}

// LangOf reports the message language requested for this decode, or "".
func LangOf(ctx context.Context) string {
	v := ctx.Value(_ctxKeyLang)
	s, _ := v.(string)
	return s
}

// AnyParam is the type-erased form of a Param[T]. The service table, the
// YAML definition loader and generated code hold heterogeneous parameter
// descriptions through it.
type AnyParam struct {
	shape       Shape
	mirror      func(g *NameGen) *Mirror
	construct   func(w *Writer, m *Mirror, v any) error
	reconstruct func(ctx context.Context, sc *Scope, m *Mirror) (any, error)
}

// AnyOf erases a typed parameter description.
func AnyOf[T any](p Param[T]) AnyParam {
	return AnyParam{
		shape:  p.Shape(),
		mirror: p.Mirror,
		construct: func(w *Writer, m *Mirror, v any) error {
			tv, ok := v.(T)
			if !ok {
				return Issues{Issue{Code: CodeInvalidValue, Message: "value does not match parameter shape"}}
			}
			return p.Construct(w, m, tv)
		},
		reconstruct: func(ctx context.Context, sc *Scope, m *Mirror) (any, error) {
			v, err := p.Reconstruct(ctx, sc, m)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	}
}

// NewAnyParam assembles an erased parameter from closures. The YAML
// definition loader uses it to compose field groups without a static type.
func NewAnyParam(
	shape Shape,
	mirror func(g *NameGen) *Mirror,
	construct func(w *Writer, m *Mirror, v any) error,
	reconstruct func(ctx context.Context, sc *Scope, m *Mirror) (any, error),
) AnyParam {
	return AnyParam{shape: shape, mirror: mirror, construct: construct, reconstruct: reconstruct}
}

// Shape reports the erased description's definition-time summary.
func (a AnyParam) Shape() Shape { return a.shape }

// Mirror builds the erased description's name mirror.
func (a AnyParam) Mirror(g *NameGen) *Mirror { return a.mirror(g) }

// Construct encodes an erased value.
func (a AnyParam) Construct(w *Writer, m *Mirror, v any) error { return a.construct(w, m, v) }

// Reconstruct decodes an erased value from the scope.
func (a AnyParam) Reconstruct(ctx context.Context, sc *Scope, m *Mirror) (any, error) {
	return a.reconstruct(ctx, sc, m)
}

// Names computes the mirror of an erased description with a fresh generator.
func (a AnyParam) Names() *Mirror {
	var g NameGen
	return a.mirror(&g)
}

// IsZero reports whether the description is the zero AnyParam, which
// describes nothing. The service table stores a zero Post for services
// without a body channel.
func (a AnyParam) IsZero() bool { return a.mirror == nil }

// ConstructAny encodes an erased value into its flat wire form. AnyParam
// satisfies Param[any], so this is Construct at the erased type.
func ConstructAny(a AnyParam, v any) (Flat, error) {
	return Construct[any](a, v)
}
