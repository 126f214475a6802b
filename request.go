package ocsigenserver

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/huangered/ocsigenserver/i18n"
)

// ParseQuery splits a raw query string into ordered pairs. Unlike
// url.ParseQuery it keeps the submission order, which the repeated-value and
// list conventions depend on. Keys without '=' decode to an empty value.
func ParseQuery(raw string) (RawPairs, error) {
	var out RawPairs
	for raw != "" {
		var chunk string
		chunk, raw, _ = strings.Cut(raw, "&")
		if chunk == "" {
			continue
		}
		if strings.Contains(chunk, ";") {
			return nil, Issues{Issue{Code: CodeInvalidValue, Message: "invalid semicolon separator in query", Raw: chunk}}
		}
		k, v, _ := strings.Cut(chunk, "=")
		ku, err := url.QueryUnescape(k)
		if err != nil {
			return nil, Issues{Issue{Code: CodeInvalidValue, Message: "malformed query key", Raw: k, Cause: err}}
		}
		vu, err := url.QueryUnescape(v)
		if err != nil {
			return nil, Issues{Issue{Name: ku, Code: CodeInvalidValue, Message: "malformed query value", Raw: v, Cause: err}}
		}
		out = append(out, KV{Key: ku, Value: vu})
	}
	return out, nil
}

// FormatQuery renders ordered pairs back into a query string, preserving
// order. FormatQuery(ParseQuery(q)) normalizes escaping but never reorders.
func FormatQuery(pairs RawPairs) string {
	var b strings.Builder
	for i, kv := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(kv.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv.Value))
	}
	return b.String()
}

// SplitPath decodes a URL path into its segments. Leading and trailing
// slashes produce no segments; escaped bytes are decoded per segment.
func SplitPath(p string) ([]string, error) {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil, nil
	}
	parts := strings.Split(p, "/")
	segs := make([]string, 0, len(parts))
	for _, part := range parts {
		seg, err := url.PathUnescape(part)
		if err != nil {
			return nil, Issues{Issue{Code: CodeInvalidValue, Message: "malformed path segment", Raw: part, Cause: err}}
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

// BuildURL renders a constructed flat form as a URL relative to base: suffix
// segments extend the path, pairs become the query string.
func BuildURL(base string, f Flat) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	for _, seg := range f.Suffix {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(seg))
	}
	if b.Len() == 0 {
		b.WriteByte('/')
	}
	if len(f.Pairs) > 0 {
		b.WriteByte('?')
		b.WriteString(FormatQuery(f.Pairs))
	}
	return b.String()
}

// WithSuffix attaches matched path segments to a flat form. The service
// table calls it after stripping a service's path prefix.
func WithSuffix(f Flat, segs []string) Flat {
	f.Suffix = segs
	return f
}

// ---- JSON body driver SPI ----

// BodyDriver converts a JSON object request body into flat pairs via a
// pluggable SPI. The default implementation is based on encoding/json and
// may be swapped with SetBodyDriver.
type BodyDriver interface {
	Pairs(r io.Reader) (RawPairs, error)
	Name() string
}

var (
	bodyDriverMu      sync.RWMutex
	currentBodyDriver BodyDriver = defaultBodyDriver{}
)

// SetBodyDriver replaces the global body driver; nil values are ignored.
func SetBodyDriver(d BodyDriver) {
	if d == nil {
		return
	}
	bodyDriverMu.Lock()
	currentBodyDriver = d
	bodyDriverMu.Unlock()
}

// UseDefaultBodyDriver restores the default encoding/json-backed driver.
func UseDefaultBodyDriver() {
	bodyDriverMu.Lock()
	currentBodyDriver = defaultBodyDriver{}
	bodyDriverMu.Unlock()
}

func getBodyDriver() BodyDriver {
	bodyDriverMu.RLock()
	d := currentBodyDriver
	bodyDriverMu.RUnlock()
	return d
}

// BodyPairs flattens a JSON object body into pairs using the current driver.
func BodyPairs(r io.Reader) (RawPairs, error) { return getBodyDriver().Pairs(r) }

// defaultBodyDriver wraps the encoding/json implementation.
type defaultBodyDriver struct{}

func (defaultBodyDriver) Pairs(r io.Reader) (RawPairs, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, Issues{Issue{Code: CodeInvalidValue, Message: "malformed request body", Cause: err}}
	}
	return FlattenObject(obj)
}

func (defaultBodyDriver) Name() string { return "encoding/json" }

// FlattenObject converts a decoded JSON object into flat pairs using the
// wire conventions the encoder produces: nested objects dot-join member
// names, arrays of objects use the "<name>.<index>." convention, arrays of
// scalars repeat the key, and null members are treated as absent. Member
// order inside an object is not significant, so members are emitted in
// sorted order; array order is preserved.
func FlattenObject(obj map[string]any) (RawPairs, error) {
	var out RawPairs
	if err := flattenMembers(&out, "", obj); err != nil {
		return nil, err
	}
	return out, nil
}

func flattenMembers(out *RawPairs, prefix string, obj map[string]any) error {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := flattenValue(out, prefix+k, obj[k]); err != nil {
			return err
		}
	}
	return nil
}

func flattenValue(out *RawPairs, key string, v any) error {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		*out = append(*out, KV{Key: key, Value: t})
	case bool:
		*out = append(*out, KV{Key: key, Value: strconv.FormatBool(t)})
	case json.Number:
		*out = append(*out, KV{Key: key, Value: t.String()})
	case float64:
		*out = append(*out, KV{Key: key, Value: strconv.FormatFloat(t, 'f', -1, 64)})
	case map[string]any:
		return flattenMembers(out, key+KeySeparator, t)
	case []any:
		for i, el := range t {
			if m, ok := el.(map[string]any); ok {
				if err := flattenMembers(out, key+KeySeparator+strconv.Itoa(i)+KeySeparator, m); err != nil {
					return err
				}
				continue
			}
			if err := flattenValue(out, key, el); err != nil {
				return err
			}
		}
	default:
		return Issues{Issue{Name: key, Code: CodeInvalidValue, Message: "unsupported body value"}}
	}
	return nil
}

// ---- HTTP request extraction ----

const defaultMaxMultipartMemory = 32 << 20

// FromURL extracts the flat form of a URL: its ordered query pairs. The
// suffix channel stays empty; callers that matched a path prefix attach the
// remaining segments with WithSuffix.
func FromURL(u *url.URL) (Flat, error) {
	pairs, err := ParseQuery(u.RawQuery)
	if err != nil {
		return Flat{}, err
	}
	return Flat{Pairs: pairs}, nil
}

// FromRequest extracts the flat form of an HTTP request. Query pairs come
// first, then body pairs: urlencoded and JSON bodies append to the pair
// channel, multipart bodies additionally yield uploaded files keyed by
// field name.
func FromRequest(r *http.Request) (Flat, Files, error) {
	f, err := FromURL(r.URL)
	if err != nil {
		return Flat{}, nil, err
	}
	bf, files, err := BodyFlat(r)
	if err != nil {
		return Flat{}, nil, err
	}
	f.Pairs = append(f.Pairs, bf.Pairs...)
	return f, files, nil
}

// BodyFlat extracts the body channel of a request on its own: urlencoded
// and JSON bodies yield pairs, multipart bodies additionally yield the
// uploaded files. GET and HEAD requests yield a zero flat form. The service
// table decodes body-channel descriptions against this form, so a query
// pair never satisfies a body field.
func BodyFlat(r *http.Request) (Flat, Files, error) {
	var f Flat
	if r.Body == nil || r.Method == http.MethodGet || r.Method == http.MethodHead {
		return f, nil, nil
	}
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case "application/x-www-form-urlencoded":
		b, err := io.ReadAll(r.Body)
		if err != nil {
			return Flat{}, nil, Issues{Issue{Code: CodeInvalidValue, Message: "unreadable request body", Cause: err}}
		}
		pairs, err := ParseQuery(string(b))
		if err != nil {
			return Flat{}, nil, err
		}
		f.Pairs = pairs
	case "multipart/form-data":
		if err := r.ParseMultipartForm(defaultMaxMultipartMemory); err != nil {
			return Flat{}, nil, Issues{Issue{Code: CodeFileInvalid, Message: i18n.T(CodeFileInvalid, nil), Cause: err}}
		}
		mf := r.MultipartForm
		if mf == nil {
			return f, nil, nil
		}
		for _, key := range sortedKeys(mf.Value) {
			for _, v := range mf.Value[key] {
				f.Pairs = append(f.Pairs, KV{Key: key, Value: v})
			}
		}
		if len(mf.File) == 0 {
			return f, nil, nil
		}
		files := make(Files, len(mf.File))
		for _, key := range sortedKeys(mf.File) {
			for _, fh := range mf.File[key] {
				files[key] = append(files[key], FileInfo{
					FieldName:   key,
					Filename:    fh.Filename,
					ContentType: fh.Header.Get("Content-Type"),
					Size:        fh.Size,
					Open:        func() (io.ReadCloser, error) { return fh.Open() },
				})
			}
		}
		return f, files, nil
	case "application/json":
		pairs, err := BodyPairs(r.Body)
		if err != nil {
			return Flat{}, nil, err
		}
		f.Pairs = pairs
	}
	return f, nil, nil
}

func sortedKeys[V any](m map[string][]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
