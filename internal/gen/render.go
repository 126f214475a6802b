// Package gen renders Go source from normalized service definitions. The
// generated declarations use the typed combinators, so a generated
// description and the compiled form of the same definition fingerprint
// identically.
package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	ir "github.com/huangered/ocsigenserver/internal/ir"
)

// File describes one generated source file.
type File struct {
	Package  string
	Services []*ir.Service
}

const fileTmplText = `// Code generated by paramgen. DO NOT EDIT.

package {{.Package}}

import (
{{- if .NeedsCodec}}
	"github.com/huangered/ocsigenserver/codec"
{{- end}}
	"github.com/huangered/ocsigenserver/param"
)
{{range .Services}}
// {{.Ident}}Params describes the parameters of service "{{.Name}}" ({{.Method}} {{.Path}}).
var {{.Ident}}Params = {{.Expr}}

// {{.Ident}}Path and {{.Ident}}Method locate service "{{.Name}}" in a table.
const (
	{{.Ident}}Path   = {{.PathLit}}
	{{.Ident}}Method = {{.MethodLit}}
)
{{end}}`

var fileTmpl = template.Must(template.New("file").Parse(fileTmplText))

type fileData struct {
	Package    string
	NeedsCodec bool
	Services   []serviceData
}

type serviceData struct {
	Ident     string
	Name      string
	Path      string
	Method    string
	PathLit   string
	MethodLit string
	Expr      string
}

// RenderFile renders all services of f into one gofmt-formatted source file.
func RenderFile(f File) ([]byte, error) {
	if f.Package == "" {
		return nil, fmt.Errorf("gen: missing package name")
	}
	data := fileData{Package: f.Package}
	for _, svc := range f.Services {
		r := &renderer{}
		expr, err := r.service(svc)
		if err != nil {
			return nil, fmt.Errorf("gen: service %q: %w", svc.Name, err)
		}
		data.NeedsCodec = data.NeedsCodec || r.usesCodec
		data.Services = append(data.Services, serviceData{
			Ident:     Ident(svc.Name),
			Name:      svc.Name,
			Path:      svc.Path,
			Method:    svc.Method,
			PathLit:   strconv.Quote(svc.Path),
			MethodLit: strconv.Quote(svc.Method),
			Expr:      expr,
		})
	}
	var buf bytes.Buffer
	if err := fileTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("gen: generated source does not parse: %w", err)
	}
	return src, nil
}

// Ident derives an exported Go identifier from a service name.
func Ident(name string) string {
	var b strings.Builder
	up := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			up = true
			continue
		}
		if up {
			r = unicode.ToUpper(r)
			up = false
		}
		b.WriteRune(r)
	}
	out := b.String()
	if out == "" || unicode.IsDigit(rune(out[0])) {
		out = "Svc" + out
	}
	return out
}

// renderer walks one service tree. Rendering tracks whether the expression
// pulls in the codec package so the import block stays minimal.
type renderer struct {
	usesCodec bool
}

func (r *renderer) service(svc *ir.Service) (string, error) {
	q, err := r.expr(svc.Query, "\t")
	if err != nil {
		return "", err
	}
	if svc.Suffix == nil {
		return q, nil
	}
	s, err := r.expr(svc.Suffix, "\t")
	if err != nil {
		return "", err
	}
	return call("param.SuffixProd", "", call("param.Suffix", "\t", s), q), nil
}

// expr renders one node. ind is the indentation of the node's own line;
// calls whose single-line form stays short are left on one line.
func (r *renderer) expr(n ir.Node, ind string) (string, error) {
	switch t := n.(type) {
	case *ir.Scalar:
		return r.scalar(t)
	case *ir.Set:
		elem, err := r.scalarNoDefault(t.Elem)
		if err != nil {
			return "", err
		}
		return call("param.Set", ind, elem), nil
	case *ir.Opt:
		inner, err := r.expr(t.Elem, ind)
		if err != nil {
			return "", err
		}
		return call("param.Opt", ind, inner), nil
	case *ir.List:
		elem, err := r.expr(t.Elem, ind+"\t")
		if err != nil {
			return "", err
		}
		return call("param.List", ind, strconv.Quote(t.Name), elem), nil
	case *ir.Sum:
		first, err := r.expr(t.First, ind+"\t")
		if err != nil {
			return "", err
		}
		second, err := r.expr(t.Second, ind+"\t")
		if err != nil {
			return "", err
		}
		return call("param.Sum", ind, first, second), nil
	case *ir.Group:
		return r.group(t, ind)
	case *ir.AllSuffix:
		return call("param.AllSuffix", ind, strconv.Quote(t.Name)), nil
	}
	return "", fmt.Errorf("unsupported definition node %T", n)
}

// group folds ordered fields into the Prod family: Prod3/Prod4 up to four
// members, right-nested Prod beyond.
func (r *renderer) group(g *ir.Group, ind string) (string, error) {
	args := make([]string, len(g.Fields))
	for i, f := range g.Fields {
		e, err := r.expr(f.Node, ind+"\t")
		if err != nil {
			return "", err
		}
		args[i] = e
	}
	switch len(args) {
	case 0:
		return "param.Unit()", nil
	case 1:
		return args[0], nil
	case 2:
		return call("param.Prod", ind, args...), nil
	case 3:
		return call("param.Prod3", ind, args...), nil
	case 4:
		return call("param.Prod4", ind, args...), nil
	}
	rest, err := r.group(&ir.Group{Fields: g.Fields[1:]}, ind+"\t")
	if err != nil {
		return "", err
	}
	return call("param.Prod", ind, args[0], rest), nil
}

func (r *renderer) scalar(s *ir.Scalar) (string, error) {
	base, err := r.scalarNoDefault(s)
	if err != nil {
		return "", err
	}
	if !s.HasDefault {
		return base, nil
	}
	lit, err := defaultLit(s)
	if err != nil {
		return "", err
	}
	return "param.Default(" + base + ", " + lit + ")", nil
}

func (r *renderer) scalarNoDefault(s *ir.Scalar) (string, error) {
	q := strconv.Quote(s.Name)
	switch s.Type {
	case ir.ScalarInt:
		return "param.Int(" + q + ")", nil
	case ir.ScalarInt32:
		return "param.Int32(" + q + ")", nil
	case ir.ScalarInt64:
		return "param.Int64(" + q + ")", nil
	case ir.ScalarFloat:
		return "param.Float(" + q + ")", nil
	case ir.ScalarString:
		return "param.String(" + q + ")", nil
	case ir.ScalarBool:
		return "param.Bool(" + q + ")", nil
	case ir.ScalarCheckbox:
		return "param.Checkbox(" + q + ")", nil
	case ir.ScalarFile:
		return "param.File(" + q + ")", nil
	case ir.ScalarTime:
		r.usesCodec = true
		return "param.User(" + q + ", codec.TimeRFC3339())", nil
	case ir.ScalarBytes:
		r.usesCodec = true
		return "param.User(" + q + ", codec.BytesBase64())", nil
	case ir.ScalarCoordinates:
		return "param.Coordinates(" + q + ")", nil
	case ir.ScalarRegexp:
		return "param.RegexpString(" + q + ", " + strconv.Quote(s.Pattern) + ", " + strconv.Quote(s.Template) + ")", nil
	}
	return "", fmt.Errorf("field %q: unsupported scalar type %s", s.Name, s.Type)
}

// defaultLit renders the raw default text as a Go literal of the scalar's
// type. Numeric text is reparsed so forms like "042" cannot turn octal.
func defaultLit(s *ir.Scalar) (string, error) {
	switch s.Type {
	case ir.ScalarInt, ir.ScalarInt32, ir.ScalarInt64:
		d, err := strconv.ParseInt(s.Default, 10, 64)
		if err != nil {
			return "", fmt.Errorf("field %q: bad default %q for type %s", s.Name, s.Default, s.Type)
		}
		return strconv.FormatInt(d, 10), nil
	case ir.ScalarFloat:
		d, err := strconv.ParseFloat(s.Default, 64)
		if err != nil {
			return "", fmt.Errorf("field %q: bad default %q for type %s", s.Name, s.Default, s.Type)
		}
		return strconv.FormatFloat(d, 'g', -1, 64), nil
	case ir.ScalarString:
		return strconv.Quote(s.Default), nil
	case ir.ScalarBool:
		d, err := strconv.ParseBool(s.Default)
		if err != nil {
			return "", fmt.Errorf("field %q: bad default %q for type %s", s.Name, s.Default, s.Type)
		}
		return strconv.FormatBool(d), nil
	}
	return "", fmt.Errorf("field %q: type %s cannot take a default", s.Name, s.Type)
}

// call lays out a call expression, keeping it on one line when it fits.
func call(fn, ind string, args ...string) string {
	oneLine := fn + "(" + strings.Join(args, ", ") + ")"
	if len(ind)*4+len(oneLine) <= 80 && !strings.Contains(oneLine, "\n") {
		return oneLine
	}
	var b strings.Builder
	b.WriteString(fn + "(\n")
	for _, a := range args {
		b.WriteString(ind + "\t" + a + ",\n")
	}
	b.WriteString(ind + ")")
	return b.String()
}
