package param

import (
	"context"
	"regexp"
	"strings"

	ocsigenserver "github.com/huangered/ocsigenserver"
)

// suffixParam moves its subtree onto the path-segment channel.
type suffixParam[T any] struct {
	inner ocsigenserver.Param[T]
	shape ocsigenserver.Shape
}

// Suffix captures URL path segments instead of query keys: each scalar in
// the subtree consumes the next segment in order. A description may capture
// the suffix at most once, and only at the outermost level; pair it with
// query parameters through SuffixProd. Sum discriminators inside a suffix
// still ride the query channel.
func Suffix[T any](p ocsigenserver.Param[T]) ocsigenserver.Param[T] {
	s := p.Shape()
	if s.HasSuffix {
		ocsigenserver.Shapef("", "suffix capture is already in effect")
	}
	return suffixParam[T]{inner: p, shape: ocsigenserver.Shape{
		Kind:      ocsigenserver.KindSuffix,
		HasSuffix: true,
		Names:     s.Names,
	}}
}

// SuffixProd pairs a suffix-capturing description with ordinary query
// parameters. The suffix side comes first; it is the only place a
// suffix-capturing description composes with anything else.
func SuffixProd[A, B any](s ocsigenserver.Param[A], q ocsigenserver.Param[B]) ocsigenserver.Param[ocsigenserver.Pair[A, B]] {
	ss, qs := s.Shape(), q.Shape()
	if !ss.HasSuffix {
		ocsigenserver.Shapef("", "the first component of SuffixProd must capture the suffix")
	}
	if qs.HasSuffix {
		ocsigenserver.Shapef("", "only the first component of SuffixProd may capture the suffix")
	}
	return prodParam[A, B]{a: s, b: q, shape: ocsigenserver.Shape{
		Kind:      ocsigenserver.KindProduct,
		HasSuffix: true,
		Names:     disjoint(ss.Names, qs.Names),
	}}
}

func (p suffixParam[T]) Shape() ocsigenserver.Shape { return p.shape }

func (p suffixParam[T]) Mirror(g *ocsigenserver.NameGen) *ocsigenserver.Mirror {
	return &ocsigenserver.Mirror{Kind: ocsigenserver.KindSuffix, Children: []*ocsigenserver.Mirror{p.inner.Mirror(g)}}
}

func (p suffixParam[T]) Construct(w *ocsigenserver.Writer, m *ocsigenserver.Mirror, v T) error {
	old := w.EnterSuffix()
	err := p.inner.Construct(w, m.Children[0], v)
	w.LeaveSuffix(old)
	return err
}

func (p suffixParam[T]) Reconstruct(ctx context.Context, sc *ocsigenserver.Scope, m *ocsigenserver.Mirror) (T, error) {
	old := sc.EnterSuffix()
	v, err := p.inner.Reconstruct(ctx, sc, m.Children[0])
	sc.LeaveSuffix(old)
	return v, err
}

// allSuffixParam drains the remaining path segments.
type allSuffixParam struct{ name string }

// AllSuffix captures every remaining path segment as a string slice. Place
// it last inside a Suffix subtree; zero remaining segments decode to an
// empty slice.
func AllSuffix(name string) ocsigenserver.Param[[]string] {
	ocsigenserver.CheckName(name)
	return allSuffixParam{name: name}
}

func (p allSuffixParam) Shape() ocsigenserver.Shape {
	return ocsigenserver.Shape{Kind: ocsigenserver.KindAllSuffix, Names: []string{p.name}}
}

func (p allSuffixParam) Mirror(g *ocsigenserver.NameGen) *ocsigenserver.Mirror {
	return &ocsigenserver.Mirror{Kind: ocsigenserver.KindAllSuffix, Name: p.name}
}

func (p allSuffixParam) Construct(w *ocsigenserver.Writer, m *ocsigenserver.Mirror, v []string) error {
	key := m.Key(w.Prefix())
	old := w.EnterSuffix()
	for _, seg := range v {
		w.EmitScalar(key, seg)
	}
	w.LeaveSuffix(old)
	return nil
}

func (p allSuffixParam) Reconstruct(ctx context.Context, sc *ocsigenserver.Scope, m *ocsigenserver.Mirror) ([]string, error) {
	segs := sc.RemainingSegments()
	if len(segs) > 0 {
		sc.Mark(m.Key(sc.Prefix()), ocsigenserver.PresenceSeen|ocsigenserver.PresenceFromSuffix)
	}
	return segs, nil
}

// allSuffixStringParam drains the remaining segments as one joined string.
type allSuffixStringParam struct{ name string }

// AllSuffixString captures the remaining path segments as a single string
// joined with "/". Encoding splits on "/" so the segments show up in the
// URL path again.
func AllSuffixString(name string) ocsigenserver.Param[string] {
	ocsigenserver.CheckName(name)
	return allSuffixStringParam{name: name}
}

func (p allSuffixStringParam) Shape() ocsigenserver.Shape {
	return ocsigenserver.Shape{Kind: ocsigenserver.KindAllSuffixString, Names: []string{p.name}}
}

func (p allSuffixStringParam) Mirror(g *ocsigenserver.NameGen) *ocsigenserver.Mirror {
	return &ocsigenserver.Mirror{Kind: ocsigenserver.KindAllSuffixString, Name: p.name}
}

func (p allSuffixStringParam) Construct(w *ocsigenserver.Writer, m *ocsigenserver.Mirror, v string) error {
	key := m.Key(w.Prefix())
	old := w.EnterSuffix()
	if v != "" {
		for _, seg := range strings.Split(v, "/") {
			w.EmitScalar(key, seg)
		}
	}
	w.LeaveSuffix(old)
	return nil
}

func (p allSuffixStringParam) Reconstruct(ctx context.Context, sc *ocsigenserver.Scope, m *ocsigenserver.Mirror) (string, error) {
	segs := sc.RemainingSegments()
	if len(segs) > 0 {
		sc.Mark(m.Key(sc.Prefix()), ocsigenserver.PresenceSeen|ocsigenserver.PresenceFromSuffix)
	}
	return strings.Join(segs, "/"), nil
}

// allSuffixRegexpParam constrains the joined remaining segments.
type allSuffixRegexpParam struct {
	name string
	re   *regexp.Regexp
	tmpl string
}

// AllSuffixRegexp is AllSuffixString constrained by a pattern: the joined
// remaining segments must match the whole pattern and decode to the
// template expanded over the match.
func AllSuffixRegexp(name string, re *regexp.Regexp, template string) ocsigenserver.Param[string] {
	ocsigenserver.CheckName(name)
	if re == nil {
		ocsigenserver.Shapef(name, "nil pattern")
	}
	anchored, err := regexp.Compile(`\A(?:` + re.String() + `)\z`)
	if err != nil {
		ocsigenserver.Shapef(name, "pattern does not anchor: %v", err)
	}
	return allSuffixRegexpParam{name: name, re: anchored, tmpl: template}
}

func (p allSuffixRegexpParam) Shape() ocsigenserver.Shape {
	return ocsigenserver.Shape{Kind: ocsigenserver.KindAllSuffixRegexp, Names: []string{p.name}}
}

func (p allSuffixRegexpParam) Mirror(g *ocsigenserver.NameGen) *ocsigenserver.Mirror {
	return &ocsigenserver.Mirror{Kind: ocsigenserver.KindAllSuffixRegexp, Name: p.name}
}

func (p allSuffixRegexpParam) Construct(w *ocsigenserver.Writer, m *ocsigenserver.Mirror, v string) error {
	key := m.Key(w.Prefix())
	if !p.re.MatchString(v) {
		return mismatchAt(key, v)
	}
	old := w.EnterSuffix()
	if v != "" {
		for _, seg := range strings.Split(v, "/") {
			w.EmitScalar(key, seg)
		}
	}
	w.LeaveSuffix(old)
	return nil
}

func (p allSuffixRegexpParam) Reconstruct(ctx context.Context, sc *ocsigenserver.Scope, m *ocsigenserver.Mirror) (string, error) {
	key := m.Key(sc.Prefix())
	segs := sc.RemainingSegments()
	joined := strings.Join(segs, "/")
	idx := p.re.FindStringSubmatchIndex(joined)
	if idx == nil {
		return "", mismatchAt(key, joined)
	}
	if len(segs) > 0 {
		sc.Mark(key, ocsigenserver.PresenceSeen|ocsigenserver.PresenceFromSuffix)
	}
	return string(p.re.ExpandString(nil, p.tmpl, joined, idx)), nil
}
