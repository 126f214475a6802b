package param

import (
	"context"
	"regexp"

	ocsigenserver "github.com/huangered/ocsigenserver"
)

// userParam decodes a field through a caller-supplied codec.
type userParam[T any] struct {
	name  string
	codec ocsigenserver.Codec[T]
}

// User describes a field carrying a domain type behind a codec. Decode
// failures surface as invalid_value issues at the field's wire key; encode
// failures abort construction, so codecs should only reject values outside
// their own wire grammar.
func User[T any](name string, c ocsigenserver.Codec[T]) ocsigenserver.Param[T] {
	ocsigenserver.CheckName(name)
	if c == nil {
		ocsigenserver.Shapef(name, "nil codec")
	}
	return userParam[T]{name: name, codec: c}
}

func (p userParam[T]) Shape() ocsigenserver.Shape {
	return ocsigenserver.Shape{Kind: ocsigenserver.KindUser, Names: []string{p.name}}
}

func (p userParam[T]) Mirror(g *ocsigenserver.NameGen) *ocsigenserver.Mirror {
	return &ocsigenserver.Mirror{Kind: ocsigenserver.KindUser, Name: p.name}
}

func (p userParam[T]) Construct(w *ocsigenserver.Writer, m *ocsigenserver.Mirror, v T) error {
	s, err := p.codec.Encode(v)
	if err != nil {
		return invalidAt(m.Key(w.Prefix()), "", err)
	}
	w.EmitScalar(m.Key(w.Prefix()), s)
	return nil
}

func (p userParam[T]) Reconstruct(ctx context.Context, sc *ocsigenserver.Scope, m *ocsigenserver.Mirror) (T, error) {
	key := m.Key(sc.Prefix())
	raw, err := sc.TakeScalar(key)
	if err != nil {
		var zero T
		return zero, err
	}
	v, derr := p.codec.Decode(raw)
	if derr != nil {
		var zero T
		return zero, invalidAt(key, raw, derr)
	}
	return v, nil
}

// regexpParam constrains a string field with an anchored pattern and
// rewrites matches through a template.
type regexpParam struct {
	name string
	re   *regexp.Regexp
	tmpl string
}

// Regexp describes a string field constrained by a pattern. The pattern must
// match the whole submitted value; the decoded result is the template
// expanded over the match ("$1", "${name}" in regexp.Expand syntax), so a
// template of "$0" keeps the value as-is. Construct checks the outgoing
// value against the same pattern and is the one place encoding can fail.
func Regexp(name string, re *regexp.Regexp, template string) ocsigenserver.Param[string] {
	ocsigenserver.CheckName(name)
	if re == nil {
		ocsigenserver.Shapef(name, "nil pattern")
	}
	anchored, err := regexp.Compile(`\A(?:` + re.String() + `)\z`)
	if err != nil {
		ocsigenserver.Shapef(name, "pattern does not anchor: %v", err)
	}
	return regexpParam{name: name, re: anchored, tmpl: template}
}

// RegexpString is Regexp with the pattern compiled from source; a malformed
// pattern panics with a *ShapeError at definition time.
func RegexpString(name, pattern, template string) ocsigenserver.Param[string] {
	re, err := regexp.Compile(pattern)
	if err != nil {
		ocsigenserver.Shapef(name, "malformed pattern %q: %v", pattern, err)
	}
	return Regexp(name, re, template)
}

func (p regexpParam) Shape() ocsigenserver.Shape {
	return ocsigenserver.Shape{Kind: ocsigenserver.KindRegexp, Names: []string{p.name}}
}

func (p regexpParam) Mirror(g *ocsigenserver.NameGen) *ocsigenserver.Mirror {
	return &ocsigenserver.Mirror{Kind: ocsigenserver.KindRegexp, Name: p.name}
}

func (p regexpParam) Construct(w *ocsigenserver.Writer, m *ocsigenserver.Mirror, v string) error {
	key := m.Key(w.Prefix())
	if !p.re.MatchString(v) {
		return mismatchAt(key, v)
	}
	w.EmitScalar(key, v)
	return nil
}

func (p regexpParam) Reconstruct(ctx context.Context, sc *ocsigenserver.Scope, m *ocsigenserver.Mirror) (string, error) {
	key := m.Key(sc.Prefix())
	raw, err := sc.TakeScalar(key)
	if err != nil {
		return "", err
	}
	idx := p.re.FindStringSubmatchIndex(raw)
	if idx == nil {
		return "", mismatchAt(key, raw)
	}
	return string(p.re.ExpandString(nil, p.tmpl, raw, idx)), nil
}
