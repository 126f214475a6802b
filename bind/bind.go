// Package bind derives parameter descriptions from struct tags. A struct
// whose fields carry `param:"name"` tags binds to the product of its
// fields, so handlers can work with one typed model instead of nested
// pairs. Binding happens once, at service definition; requests run the
// pre-compiled per-field fillers only.
//
//	type Query struct {
//		Age  int    `param:"age"`
//		Name string `param:"name"`
//	}
//	q := bind.MustBind[Query]()
//
// binds to the same wire shape as
//
//	param.Prod(param.Int("age"), param.String("name"))
//
// Untagged fields are skipped. Embedded structs and untagged exported
// struct fields are walked through, so their tagged members join the
// same flat name set.
package bind

import (
	"context"
	"reflect"

	"github.com/muir/reflectutils"

	ocsigenserver "github.com/huangered/ocsigenserver"
)

// tagName is the struct tag consulted by Bind and MustBind.
const tagName = "param"

// MustBind builds a parameter description for the struct type T. It panics
// with a *ShapeError when T is not a bindable struct: misuse is a
// definition-time bug, never request input.
func MustBind[T any]() ocsigenserver.Param[T] {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		ocsigenserver.Shapef("", "bind target %s is not a struct", reflectutils.TypeName(t))
	}
	fields := compileStruct(t)
	if len(fields) == 0 {
		ocsigenserver.Shapef("", "bind target %s has no param-tagged fields", reflectutils.TypeName(t))
	}
	var names []string
	seen := make(map[string]bool)
	for _, fc := range fields {
		for _, n := range fc.names {
			if seen[n] {
				ocsigenserver.Shapef(n, "name claimed by more than one field")
			}
			seen[n] = true
			names = append(names, n)
		}
	}
	return boundParam[T]{
		typ:    t,
		shape:  ocsigenserver.Shape{Kind: ocsigenserver.KindProduct, Names: names},
		fields: fields,
	}
}

// Bind is MustBind with the panic converted to an error, for callers that
// assemble bindings from data they do not control.
func Bind[T any]() (bp ocsigenserver.Param[T], err error) {
	defer func() {
		if r := recover(); r != nil {
			se, ok := r.(*ocsigenserver.ShapeError)
			if !ok {
				panic(r)
			}
			err = se
		}
	}()
	return MustBind[T](), nil
}

// KeyOf reports the wire key bound to the named Go field of T, for building
// links or form inputs that target a single field. It panics with a
// *ShapeError when no bound field has that name.
func KeyOf[T any](fieldName string) string {
	t := reflect.TypeFor[T]()
	key := ""
	reflectutils.WalkStructElements(t, func(field reflect.StructField) bool {
		if field.Name != fieldName {
			return field.PkgPath == ""
		}
		tag, ok := field.Tag.Lookup(tagName)
		if !ok || tag == "-" {
			return false
		}
		key, _ = parseTag(field, tag)
		return false
	})
	if key == "" {
		ocsigenserver.Shapef(fieldName, "no bound field with that name")
	}
	return key
}

// boundField pairs a compiled field codec with its index path into the
// model struct.
type boundField struct {
	index []int
	compiled
}

type boundParam[T any] struct {
	typ    reflect.Type
	shape  ocsigenserver.Shape
	fields []boundField
}

func (b boundParam[T]) Shape() ocsigenserver.Shape { return b.shape }

// Mirror folds the field mirrors into the same right-nested product an
// equivalent Prod chain would build, so a bound struct and the hand-written
// combinator tree share one fingerprint.
func (b boundParam[T]) Mirror(g *ocsigenserver.NameGen) *ocsigenserver.Mirror {
	ms := make([]*ocsigenserver.Mirror, len(b.fields))
	for i, fc := range b.fields {
		ms[i] = fc.mirror(g)
	}
	m := ms[len(ms)-1]
	for i := len(ms) - 2; i >= 0; i-- {
		m = &ocsigenserver.Mirror{Kind: ocsigenserver.KindProduct, Children: []*ocsigenserver.Mirror{ms[i], m}}
	}
	return m
}

func (b boundParam[T]) Construct(w *ocsigenserver.Writer, m *ocsigenserver.Mirror, v T) error {
	model := reflect.ValueOf(v)
	for i, fm := range fieldMirrors(m, len(b.fields)) {
		fc := b.fields[i]
		if err := fc.construct(w, fm, model.FieldByIndex(fc.index)); err != nil {
			return err
		}
	}
	return nil
}

func (b boundParam[T]) Reconstruct(ctx context.Context, sc *ocsigenserver.Scope, m *ocsigenserver.Mirror) (T, error) {
	model := reflect.New(b.typ).Elem()
	for i, fm := range fieldMirrors(m, len(b.fields)) {
		fc := b.fields[i]
		if err := fc.reconstruct(ctx, sc, fm, model.FieldByIndex(fc.index)); err != nil {
			var zero T
			return zero, err
		}
	}
	return model.Interface().(T), nil
}

// fieldMirrors peels a right-nested product mirror back into the per-field
// mirrors it was folded from.
func fieldMirrors(m *ocsigenserver.Mirror, n int) []*ocsigenserver.Mirror {
	out := make([]*ocsigenserver.Mirror, 0, n)
	for len(out) < n-1 {
		out = append(out, m.Children[0])
		m = m.Children[1]
	}
	return append(out, m)
}
