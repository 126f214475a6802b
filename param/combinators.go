package param

import (
	"context"

	ocsigenserver "github.com/huangered/ocsigenserver"
)

// prodParam pairs two descriptions; both decode from the same scope.
type prodParam[A, B any] struct {
	a     ocsigenserver.Param[A]
	b     ocsigenserver.Param[B]
	shape ocsigenserver.Shape
}

// Prod combines two descriptions into a pair. The sides must claim disjoint
// names; a collision panics with a *ShapeError at definition time. Neither
// side may capture the suffix: suffix capture composes through SuffixProd
// and stays outermost.
func Prod[A, B any](a ocsigenserver.Param[A], b ocsigenserver.Param[B]) ocsigenserver.Param[ocsigenserver.Pair[A, B]] {
	sa, sb := a.Shape(), b.Shape()
	if sa.HasSuffix || sb.HasSuffix {
		ocsigenserver.Shapef("", "suffix capture must stay outermost; combine it with SuffixProd")
	}
	return prodParam[A, B]{a: a, b: b, shape: ocsigenserver.Shape{
		Kind:  ocsigenserver.KindProduct,
		Names: disjoint(sa.Names, sb.Names),
	}}
}

// Prod3 nests three descriptions to the right.
func Prod3[A, B, C any](a ocsigenserver.Param[A], b ocsigenserver.Param[B], c ocsigenserver.Param[C]) ocsigenserver.Param[ocsigenserver.Pair[A, ocsigenserver.Pair[B, C]]] {
	return Prod(a, Prod(b, c))
}

// Prod4 nests four descriptions to the right.
func Prod4[A, B, C, D any](a ocsigenserver.Param[A], b ocsigenserver.Param[B], c ocsigenserver.Param[C], d ocsigenserver.Param[D]) ocsigenserver.Param[ocsigenserver.Pair[A, ocsigenserver.Pair[B, ocsigenserver.Pair[C, D]]]] {
	return Prod(a, Prod(b, Prod(c, d)))
}

func disjoint(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	for _, n := range a {
		seen[n] = true
	}
	for _, n := range b {
		if seen[n] {
			ocsigenserver.Shapef(n, "name claimed by both sides of a product")
		}
	}
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func (p prodParam[A, B]) Shape() ocsigenserver.Shape { return p.shape }

func (p prodParam[A, B]) Mirror(g *ocsigenserver.NameGen) *ocsigenserver.Mirror {
	ma := p.a.Mirror(g)
	mb := p.b.Mirror(g)
	return &ocsigenserver.Mirror{Kind: ocsigenserver.KindProduct, Children: []*ocsigenserver.Mirror{ma, mb}}
}

func (p prodParam[A, B]) Construct(w *ocsigenserver.Writer, m *ocsigenserver.Mirror, v ocsigenserver.Pair[A, B]) error {
	if err := p.a.Construct(w, m.Children[0], v.First); err != nil {
		return err
	}
	return p.b.Construct(w, m.Children[1], v.Second)
}

func (p prodParam[A, B]) Reconstruct(ctx context.Context, sc *ocsigenserver.Scope, m *ocsigenserver.Mirror) (ocsigenserver.Pair[A, B], error) {
	var zero ocsigenserver.Pair[A, B]
	av, err := p.a.Reconstruct(ctx, sc, m.Children[0])
	if err != nil {
		return zero, err
	}
	bv, err := p.b.Reconstruct(ctx, sc, m.Children[1])
	if err != nil {
		return zero, err
	}
	return ocsigenserver.PairOf(av, bv), nil
}

// sumParam selects one of two alternatives through a discriminator key.
type sumParam[A, B any] struct {
	a     ocsigenserver.Param[A]
	b     ocsigenserver.Param[B]
	shape ocsigenserver.Shape
}

// Sum combines two descriptions into a binary alternative. Encoding writes a
// synthesized discriminator key next to the chosen side's fields; decoding
// reads the discriminator first and then walks only that side, so the sides
// may even claim overlapping names. A missing or unrecognized discriminator
// is an ambiguous_sum issue.
func Sum[A, B any](a ocsigenserver.Param[A], b ocsigenserver.Param[B]) ocsigenserver.Param[ocsigenserver.Either[A, B]] {
	sa, sb := a.Shape(), b.Shape()
	if sa.HasSuffix || sb.HasSuffix {
		ocsigenserver.Shapef("", "suffix capture must stay outermost; it cannot sit under an alternative")
	}
	return sumParam[A, B]{a: a, b: b, shape: ocsigenserver.Shape{
		Kind:  ocsigenserver.KindSum,
		Names: union(sa.Names, sb.Names),
	}}
}

func union(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, n := range a {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	for _, n := range b {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func (p sumParam[A, B]) Shape() ocsigenserver.Shape { return p.shape }

func (p sumParam[A, B]) Mirror(g *ocsigenserver.NameGen) *ocsigenserver.Mirror {
	// Both sides are always mirrored so the discriminator numbering never
	// depends on which side a value happens to pick.
	disc := g.NextSum()
	ma := p.a.Mirror(g)
	mb := p.b.Mirror(g)
	return &ocsigenserver.Mirror{Kind: ocsigenserver.KindSum, Disc: disc, Children: []*ocsigenserver.Mirror{ma, mb}}
}

func (p sumParam[A, B]) Construct(w *ocsigenserver.Writer, m *ocsigenserver.Mirror, v ocsigenserver.Either[A, B]) error {
	dk := m.DiscKey(w.Prefix())
	if !v.IsSecond {
		w.EmitPair(dk, ocsigenserver.DiscFirst)
		return p.a.Construct(w, m.Children[0], v.First)
	}
	w.EmitPair(dk, ocsigenserver.DiscSecond)
	return p.b.Construct(w, m.Children[1], v.Second)
}

func (p sumParam[A, B]) Reconstruct(ctx context.Context, sc *ocsigenserver.Scope, m *ocsigenserver.Mirror) (ocsigenserver.Either[A, B], error) {
	var zero ocsigenserver.Either[A, B]
	dk := m.DiscKey(sc.Prefix())
	d, err := sc.TakePair(dk)
	if err != nil {
		if ocsigenserver.IsMissing(err) {
			return zero, ocsigenserver.Issues{ocsigenserver.IssueAt(dk, ocsigenserver.CodeAmbiguousSum, nil)}
		}
		return zero, err
	}
	switch d {
	case ocsigenserver.DiscFirst:
		av, err := p.a.Reconstruct(ctx, sc, m.Children[0])
		if err != nil {
			return zero, err
		}
		return ocsigenserver.EitherFirst[A, B](av), nil
	case ocsigenserver.DiscSecond:
		bv, err := p.b.Reconstruct(ctx, sc, m.Children[1])
		if err != nil {
			return zero, err
		}
		return ocsigenserver.EitherSecond[A, B](bv), nil
	default:
		it := ocsigenserver.IssueAt(dk, ocsigenserver.CodeAmbiguousSum, nil)
		it.Raw = d
		return zero, ocsigenserver.Issues{it}
	}
}

// optParam turns absence of its subtree into nil.
type optParam[T any] struct {
	inner ocsigenserver.Param[T]
	shape ocsigenserver.Shape
}

// Opt makes a subtree optional: full absence decodes to nil, while a present
// but malformed subtree still fails. The inner walk runs on a forked scope,
// so a dropped partial match never consumes the surrounding input.
func Opt[T any](p ocsigenserver.Param[T]) ocsigenserver.Param[*T] {
	s := p.Shape()
	if s.HasSuffix {
		ocsigenserver.Shapef("", "an optional subtree cannot capture the suffix")
	}
	return optParam[T]{inner: p, shape: ocsigenserver.Shape{Kind: ocsigenserver.KindOption, Names: s.Names}}
}

func (p optParam[T]) Shape() ocsigenserver.Shape { return p.shape }

func (p optParam[T]) Mirror(g *ocsigenserver.NameGen) *ocsigenserver.Mirror {
	return &ocsigenserver.Mirror{Kind: ocsigenserver.KindOption, Children: []*ocsigenserver.Mirror{p.inner.Mirror(g)}}
}

func (p optParam[T]) Construct(w *ocsigenserver.Writer, m *ocsigenserver.Mirror, v *T) error {
	if v == nil {
		return nil
	}
	return p.inner.Construct(w, m.Children[0], *v)
}

func (p optParam[T]) Reconstruct(ctx context.Context, sc *ocsigenserver.Scope, m *ocsigenserver.Mirror) (*T, error) {
	fork := sc.Fork()
	v, err := p.inner.Reconstruct(ctx, fork, m.Children[0])
	if err != nil {
		if ocsigenserver.IsMissing(err) {
			return nil, nil
		}
		return nil, err
	}
	sc.Commit(fork)
	return &v, nil
}

// defaultParam fills absence with a fixed value.
type defaultParam[T any] struct {
	inner ocsigenserver.Param[T]
	dflt  T
	shape ocsigenserver.Shape
}

// Default fills an absent scalar field with a value and records the fact in
// presence metadata, so ConstructPreserving can reproduce the original
// request without the filled key. It applies to single-key scalar fields
// only; wrap larger subtrees in Opt and pick the default in the handler.
func Default[T any](p ocsigenserver.Param[T], dflt T) ocsigenserver.Param[T] {
	s := p.Shape()
	name := ""
	if len(s.Names) > 0 {
		name = s.Names[0]
	}
	if !s.Kind.IsScalar() || len(s.Names) != 1 {
		ocsigenserver.Shapef(name, "Default applies to single-key scalar fields")
	}
	return defaultParam[T]{inner: p, dflt: dflt, shape: s}
}

func (p defaultParam[T]) Shape() ocsigenserver.Shape { return p.shape }

// Mirror is the inner field's mirror unchanged: a default does not alter the
// wire shape.
func (p defaultParam[T]) Mirror(g *ocsigenserver.NameGen) *ocsigenserver.Mirror {
	return p.inner.Mirror(g)
}

func (p defaultParam[T]) Construct(w *ocsigenserver.Writer, m *ocsigenserver.Mirror, v T) error {
	return p.inner.Construct(w, m, v)
}

func (p defaultParam[T]) Reconstruct(ctx context.Context, sc *ocsigenserver.Scope, m *ocsigenserver.Mirror) (T, error) {
	fork := sc.Fork()
	v, err := p.inner.Reconstruct(ctx, fork, m)
	if err != nil {
		if ocsigenserver.IsMissing(err) {
			sc.Mark(m.Key(sc.Prefix()), ocsigenserver.PresenceDefaultApplied)
			return p.dflt, nil
		}
		var zero T
		return zero, err
	}
	sc.Commit(fork)
	return v, nil
}

// checkParam validates the decoded value.
type checkParam[T any] struct {
	inner ocsigenserver.Param[T]
	fn    func(T) error
	shape ocsigenserver.Shape
}

// Check runs a validation function over the decoded value; a non-nil result
// becomes an invalid_value issue. Construction is not checked: outgoing
// values are the program's own.
func Check[T any](p ocsigenserver.Param[T], fn func(T) error) ocsigenserver.Param[T] {
	if fn == nil {
		ocsigenserver.Shapef("", "nil check function")
	}
	return checkParam[T]{inner: p, fn: fn, shape: p.Shape()}
}

func (p checkParam[T]) Shape() ocsigenserver.Shape { return p.shape }

func (p checkParam[T]) Mirror(g *ocsigenserver.NameGen) *ocsigenserver.Mirror {
	return p.inner.Mirror(g)
}

func (p checkParam[T]) Construct(w *ocsigenserver.Writer, m *ocsigenserver.Mirror, v T) error {
	return p.inner.Construct(w, m, v)
}

func (p checkParam[T]) Reconstruct(ctx context.Context, sc *ocsigenserver.Scope, m *ocsigenserver.Mirror) (T, error) {
	v, err := p.inner.Reconstruct(ctx, sc, m)
	if err != nil {
		return v, err
	}
	if cerr := p.fn(v); cerr != nil {
		var zero T
		name := ""
		if len(p.shape.Names) > 0 {
			name = sc.Prefix() + p.shape.Names[0]
		}
		return zero, invalidAt(name, "", cerr)
	}
	return v, nil
}

// unitParam is the empty description.
type unitParam struct{}

// Unit describes a service that takes no parameters.
func Unit() ocsigenserver.Param[ocsigenserver.Unit] { return unitParam{} }

func (unitParam) Shape() ocsigenserver.Shape {
	return ocsigenserver.Shape{Kind: ocsigenserver.KindUnit}
}

func (unitParam) Mirror(g *ocsigenserver.NameGen) *ocsigenserver.Mirror {
	return &ocsigenserver.Mirror{Kind: ocsigenserver.KindUnit}
}

func (unitParam) Construct(w *ocsigenserver.Writer, m *ocsigenserver.Mirror, v ocsigenserver.Unit) error {
	return nil
}

func (unitParam) Reconstruct(ctx context.Context, sc *ocsigenserver.Scope, m *ocsigenserver.Mirror) (ocsigenserver.Unit, error) {
	return ocsigenserver.Unit{}, nil
}

// anyParam captures whatever the rest of the tree left unconsumed.
type anyParam struct{}

// Any captures every pair no other component consumed, verbatim and in
// input order. Components decode left to right, so compose Any as the last
// component or it will swallow its siblings' keys.
func Any() ocsigenserver.Param[ocsigenserver.RawPairs] { return anyParam{} }

func (anyParam) Shape() ocsigenserver.Shape {
	return ocsigenserver.Shape{Kind: ocsigenserver.KindAny}
}

func (anyParam) Mirror(g *ocsigenserver.NameGen) *ocsigenserver.Mirror {
	return &ocsigenserver.Mirror{Kind: ocsigenserver.KindAny}
}

func (anyParam) Construct(w *ocsigenserver.Writer, m *ocsigenserver.Mirror, v ocsigenserver.RawPairs) error {
	for _, kv := range v {
		w.EmitPair(kv.Key, kv.Value)
	}
	return nil
}

func (anyParam) Reconstruct(ctx context.Context, sc *ocsigenserver.Scope, m *ocsigenserver.Mirror) (ocsigenserver.RawPairs, error) {
	return sc.Remaining(), nil
}
