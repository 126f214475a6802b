package bind

import (
	"context"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/muir/reflectutils"

	ocsigenserver "github.com/huangered/ocsigenserver"
	"github.com/huangered/ocsigenserver/codec"
	"github.com/huangered/ocsigenserver/param"
)

var (
	timeType    = reflect.TypeFor[time.Time]()
	timePtrType = reflect.TypeFor[*time.Time]()
	timesType   = reflect.TypeFor[[]time.Time]()
	bytesType   = reflect.TypeFor[[]byte]()
	fileType    = reflect.TypeFor[ocsigenserver.FileInfo]()
	filesType   = reflect.TypeFor[[]ocsigenserver.FileInfo]()
	coordType   = reflect.TypeFor[ocsigenserver.Coord]()
)

// tags holds the comma options parsed from a param tag.
type tags struct {
	checkbox   bool
	dflt       string
	hasDefault bool
}

func parseTag(field reflect.StructField, tag string) (string, tags) {
	parts := strings.Split(tag, ",")
	name := parts[0]
	if name == "" {
		ocsigenserver.Shapef(field.Name, "param tag needs a name")
	}
	var tg tags
	for _, opt := range parts[1:] {
		k, v, _ := strings.Cut(opt, "=")
		switch k {
		case "checkbox":
			tg.checkbox = true
		case "default":
			tg.dflt = v
			tg.hasDefault = true
		default:
			ocsigenserver.Shapef(name, "unknown tag option %q on field %s", k, field.Name)
		}
	}
	return name, tg
}

// compileStruct walks the tagged fields of t into compiled fillers. The
// walker flattens embedded structs and descends into untagged exported
// struct fields, so nested groups bind with compound index paths.
func compileStruct(t reflect.Type) []boundField {
	var fields []boundField
	reflectutils.WalkStructElements(t, func(field reflect.StructField) bool {
		tag, ok := field.Tag.Lookup(tagName)
		if !ok {
			return field.PkgPath == ""
		}
		if field.PkgPath != "" {
			ocsigenserver.Shapef(field.Name, "param tag on unexported field")
		}
		if tag == "-" {
			return false
		}
		name, tg := parseTag(field, tag)
		fields = append(fields, boundField{
			index:    field.Index,
			compiled: compileField(field, name, tg),
		})
		return false
	})
	return fields
}

// compiled is the monomorphic form of one bound field: the typed parameter
// logic wrapped behind reflect glue.
type compiled struct {
	names       []string
	mirror      func(g *ocsigenserver.NameGen) *ocsigenserver.Mirror
	construct   func(w *ocsigenserver.Writer, m *ocsigenserver.Mirror, f reflect.Value) error
	reconstruct func(ctx context.Context, sc *ocsigenserver.Scope, m *ocsigenserver.Mirror, f reflect.Value) error
}

// leaf adapts a typed parameter to a compiled filler for the field holding
// its value.
func leaf[T any](pp ocsigenserver.Param[T], get func(reflect.Value) T, set func(reflect.Value, T)) compiled {
	return compiled{
		names:  pp.Shape().Names,
		mirror: pp.Mirror,
		construct: func(w *ocsigenserver.Writer, m *ocsigenserver.Mirror, f reflect.Value) error {
			return pp.Construct(w, m, get(f))
		},
		reconstruct: func(ctx context.Context, sc *ocsigenserver.Scope, m *ocsigenserver.Mirror, f reflect.Value) error {
			v, err := pp.Reconstruct(ctx, sc, m)
			if err != nil {
				return err
			}
			set(f, v)
			return nil
		},
	}
}

func iface[T any](f reflect.Value) T { return f.Interface().(T) }

func setValue[T any](f reflect.Value, v T) { f.Set(reflect.ValueOf(v)) }

// valueLeaf is leaf for fields whose declared type matches the parameter
// type exactly.
func valueLeaf[T any](pp ocsigenserver.Param[T]) compiled {
	return leaf(pp, iface[T], setValue[T])
}

func compileField(field reflect.StructField, name string, tg tags) compiled {
	if tg.checkbox && field.Type.Kind() != reflect.Bool {
		ocsigenserver.Shapef(name, "checkbox needs a bool field, field %s is %s", field.Name, reflectutils.TypeName(field.Type))
	}
	if tg.hasDefault {
		switch field.Type.Kind() {
		case reflect.Int, reflect.Int32, reflect.Int64, reflect.Float64, reflect.String, reflect.Bool:
		default:
			ocsigenserver.Shapef(name, "default is only supported on scalar fields, field %s is %s", field.Name, reflectutils.TypeName(field.Type))
		}
		if tg.checkbox {
			ocsigenserver.Shapef(name, "checkbox and default cannot be combined")
		}
	}

	switch field.Type {
	case timeType:
		return valueLeaf(param.User(name, codec.TimeRFC3339()))
	case timePtrType:
		return valueLeaf(param.Opt(param.User(name, codec.TimeRFC3339())))
	case timesType:
		return valueLeaf(param.Set(param.User(name, codec.TimeRFC3339())))
	case bytesType:
		return valueLeaf(param.User(name, codec.BytesBase64()))
	case fileType:
		return valueLeaf(param.File(name))
	case filesType:
		return valueLeaf(param.Set(param.File(name)))
	case coordType:
		return valueLeaf(param.Coordinates(name))
	case reflect.TypeFor[*int]():
		return valueLeaf(param.Opt(param.Int(name)))
	case reflect.TypeFor[*int32]():
		return valueLeaf(param.Opt(param.Int32(name)))
	case reflect.TypeFor[*int64]():
		return valueLeaf(param.Opt(param.Int64(name)))
	case reflect.TypeFor[*float64]():
		return valueLeaf(param.Opt(param.Float(name)))
	case reflect.TypeFor[*string]():
		return valueLeaf(param.Opt(param.String(name)))
	case reflect.TypeFor[*bool]():
		return valueLeaf(param.Opt(param.Bool(name)))
	case reflect.TypeFor[[]int]():
		return valueLeaf(param.Set(param.Int(name)))
	case reflect.TypeFor[[]int32]():
		return valueLeaf(param.Set(param.Int32(name)))
	case reflect.TypeFor[[]int64]():
		return valueLeaf(param.Set(param.Int64(name)))
	case reflect.TypeFor[[]float64]():
		return valueLeaf(param.Set(param.Float(name)))
	case reflect.TypeFor[[]string]():
		return valueLeaf(param.Set(param.String(name)))
	case reflect.TypeFor[[]bool]():
		return valueLeaf(param.Set(param.Bool(name)))
	}

	// Kind-based accessors, so named scalar types bind too.
	switch field.Type.Kind() {
	case reflect.Int:
		ip := param.Int(name)
		if tg.hasDefault {
			n, err := strconv.Atoi(tg.dflt)
			if err != nil {
				ocsigenserver.Shapef(name, "default %q is not a valid int", tg.dflt)
			}
			ip = param.Default(ip, n)
		}
		return leaf(ip,
			func(f reflect.Value) int { return int(f.Int()) },
			func(f reflect.Value, v int) { f.SetInt(int64(v)) })
	case reflect.Int32:
		ip := param.Int32(name)
		if tg.hasDefault {
			n, err := strconv.ParseInt(tg.dflt, 10, 32)
			if err != nil {
				ocsigenserver.Shapef(name, "default %q is not a valid int32", tg.dflt)
			}
			ip = param.Default(ip, int32(n))
		}
		return leaf(ip,
			func(f reflect.Value) int32 { return int32(f.Int()) },
			func(f reflect.Value, v int32) { f.SetInt(int64(v)) })
	case reflect.Int64:
		ip := param.Int64(name)
		if tg.hasDefault {
			n, err := strconv.ParseInt(tg.dflt, 10, 64)
			if err != nil {
				ocsigenserver.Shapef(name, "default %q is not a valid int64", tg.dflt)
			}
			ip = param.Default(ip, n)
		}
		return leaf(ip,
			func(f reflect.Value) int64 { return f.Int() },
			func(f reflect.Value, v int64) { f.SetInt(v) })
	case reflect.Float64:
		fp := param.Float(name)
		if tg.hasDefault {
			x, err := strconv.ParseFloat(tg.dflt, 64)
			if err != nil {
				ocsigenserver.Shapef(name, "default %q is not a valid float", tg.dflt)
			}
			fp = param.Default(fp, x)
		}
		return leaf(fp,
			func(f reflect.Value) float64 { return f.Float() },
			func(f reflect.Value, v float64) { f.SetFloat(v) })
	case reflect.String:
		sp := param.String(name)
		if tg.hasDefault {
			sp = param.Default(sp, tg.dflt)
		}
		return leaf(sp,
			func(f reflect.Value) string { return f.String() },
			func(f reflect.Value, v string) { f.SetString(v) })
	case reflect.Bool:
		var bp ocsigenserver.Param[bool]
		switch {
		case tg.checkbox:
			bp = param.Checkbox(name)
		case tg.hasDefault:
			b, err := strconv.ParseBool(tg.dflt)
			if err != nil {
				ocsigenserver.Shapef(name, "default %q is not a valid bool", tg.dflt)
			}
			bp = param.Default(param.Bool(name), b)
		default:
			bp = param.Bool(name)
		}
		return leaf(bp,
			func(f reflect.Value) bool { return f.Bool() },
			func(f reflect.Value, v bool) { f.SetBool(v) })
	}

	ocsigenserver.Shapef(name, "cannot bind field %s of type %s", field.Name, reflectutils.TypeName(field.Type))
	return compiled{}
}
