package param

import (
	"context"

	ocsigenserver "github.com/huangered/ocsigenserver"
)

// setParam reads every occurrence of one repeated key.
type setParam[T any] struct {
	elem   ocsigenserver.Param[T]
	isFile bool
	shape  ocsigenserver.Shape
}

// Set repeats a single-key scalar field: every occurrence of the key decodes
// to one element, in submission order, and zero occurrences decode to an
// empty slice. Checkbox groups whose inputs carry values (Set(Int(...)) over
// name=value submissions) and multi-file uploads are the typical carriers.
func Set[T any](elem ocsigenserver.Param[T]) ocsigenserver.Param[[]T] {
	s := elem.Shape()
	name := ""
	if len(s.Names) > 0 {
		name = s.Names[0]
	}
	if !s.Kind.IsScalar() || len(s.Names) != 1 {
		ocsigenserver.Shapef(name, "Set repeats a single-key scalar field")
	}
	return setParam[T]{elem: elem, isFile: s.Kind == ocsigenserver.KindFile, shape: ocsigenserver.Shape{
		Kind:  ocsigenserver.KindSet,
		Names: s.Names,
	}}
}

func (p setParam[T]) Shape() ocsigenserver.Shape { return p.shape }

func (p setParam[T]) Mirror(g *ocsigenserver.NameGen) *ocsigenserver.Mirror {
	return &ocsigenserver.Mirror{
		Kind:     ocsigenserver.KindSet,
		Name:     p.shape.Names[0],
		Children: []*ocsigenserver.Mirror{p.elem.Mirror(g)},
	}
}

func (p setParam[T]) Construct(w *ocsigenserver.Writer, m *ocsigenserver.Mirror, vs []T) error {
	for _, v := range vs {
		if err := p.elem.Construct(w, m.Children[0], v); err != nil {
			return err
		}
	}
	return nil
}

func (p setParam[T]) Reconstruct(ctx context.Context, sc *ocsigenserver.Scope, m *ocsigenserver.Mirror) ([]T, error) {
	key := m.Key(sc.Prefix())
	if p.isFile {
		fs := sc.TakeFiles(key)
		out := make([]T, 0, len(fs))
		for _, fi := range fs {
			v, ok := any(fi).(T)
			if !ok {
				return nil, ocsigenserver.Issues{ocsigenserver.IssueAt(key, ocsigenserver.CodeFileInvalid, nil)}
			}
			out = append(out, v)
		}
		return out, nil
	}
	vals := sc.TakeRepeated(key)
	out := make([]T, 0, len(vals))
	for _, raw := range vals {
		// Each value decodes through the element's own logic, fed from a
		// one-pair scope under the same prefix.
		one := ocsigenserver.NewScope(ocsigenserver.Flat{Pairs: []ocsigenserver.KV{{Key: key, Value: raw}}}, nil, sc.Options(), false)
		one.SetPrefix(sc.Prefix())
		v, err := p.elem.Reconstruct(ctx, one, m.Children[0])
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// listParam reads "<name>.<index>."-prefixed element groups.
type listParam[T any] struct {
	name  string
	elem  ocsigenserver.Param[T]
	shape ocsigenserver.Shape
}

// List describes an indexed sequence: element i's fields live under the key
// prefix "<name>.<i>.". Elements may be arbitrary descriptions, products
// and nested lists included. Decoding walks the indices present in the
// input in ascending order; no index at all decodes to an empty slice.
func List[T any](name string, elem ocsigenserver.Param[T]) ocsigenserver.Param[[]T] {
	ocsigenserver.CheckName(name)
	es := elem.Shape()
	if es.HasSuffix {
		ocsigenserver.Shapef(name, "a list element cannot capture the suffix")
	}
	return listParam[T]{name: name, elem: elem, shape: ocsigenserver.Shape{
		Kind:  ocsigenserver.KindList,
		Names: []string{name},
	}}
}

func (p listParam[T]) Shape() ocsigenserver.Shape { return p.shape }

func (p listParam[T]) Mirror(g *ocsigenserver.NameGen) *ocsigenserver.Mirror {
	// One element mirror serves every index: element keys are resolved
	// under the per-index prefix at walk time, so names inside elements
	// stay identical across indices.
	return &ocsigenserver.Mirror{
		Kind:     ocsigenserver.KindList,
		Name:     p.name,
		Children: []*ocsigenserver.Mirror{p.elem.Mirror(g)},
	}
}

func (p listParam[T]) Construct(w *ocsigenserver.Writer, m *ocsigenserver.Mirror, vs []T) error {
	base := w.Prefix()
	for i, v := range vs {
		w.SetPrefix(m.ListPrefix(base, i))
		if err := p.elem.Construct(w, m.Children[0], v); err != nil {
			w.SetPrefix(base)
			return err
		}
	}
	w.SetPrefix(base)
	return nil
}

func (p listParam[T]) Reconstruct(ctx context.Context, sc *ocsigenserver.Scope, m *ocsigenserver.Mirror) ([]T, error) {
	base := sc.Prefix()
	indices := sc.ListIndices(base + p.name + ocsigenserver.KeySeparator)
	out := make([]T, 0, len(indices))
	for _, i := range indices {
		sc.SetPrefix(m.ListPrefix(base, i))
		v, err := p.elem.Reconstruct(ctx, sc, m.Children[0])
		if err != nil {
			sc.SetPrefix(base)
			return nil, err
		}
		out = append(out, v)
	}
	sc.SetPrefix(base)
	return out, nil
}
