package ocsigenserver

// Writer accumulates the flat output of one Construct call: ordered pairs on
// the query channel and ordered segments on the suffix channel. Leaves write
// through EmitScalar so a suffix subtree transparently redirects values to
// the segment channel.
type Writer struct {
	prefix   string
	inSuffix bool

	pairs   []KV
	suffix  []string
	hasSufx bool

	preserve bool
	presence PresenceMap
}

// NewWriter returns an empty canonical-mode writer.
func NewWriter() *Writer { return &Writer{} }

// NewPreservingWriter returns a writer that consults presence metadata:
// keys materialized only by defaults are skipped so the output round-trips
// what the client actually sent.
func NewPreservingWriter(pm PresenceMap) *Writer {
	return &Writer{preserve: true, presence: pm}
}

// EmitScalar writes one leaf value under its resolved key, or as the next
// path segment while inside a suffix subtree.
func (w *Writer) EmitScalar(key, val string) {
	if w.preserve {
		p := w.presence[key]
		if p&PresenceDefaultApplied != 0 && p&PresenceSeen == 0 {
			return
		}
	}
	if w.inSuffix {
		w.suffix = append(w.suffix, val)
		w.hasSufx = true
		return
	}
	w.pairs = append(w.pairs, KV{Key: key, Value: val})
}

// EmitPair writes one pair to the query channel regardless of suffix mode.
// Sum discriminators and Any passthrough use it.
func (w *Writer) EmitPair(key, val string) {
	w.pairs = append(w.pairs, KV{Key: key, Value: val})
}

// Prefix returns the current list prefix.
func (w *Writer) Prefix() string { return w.prefix }

// SetPrefix replaces the current list prefix, returning the previous one.
func (w *Writer) SetPrefix(p string) (old string) {
	old = w.prefix
	w.prefix = p
	return old
}

// EnterSuffix redirects scalar emission to the segment channel until
// LeaveSuffix is called with the returned value.
func (w *Writer) EnterSuffix() (old bool) {
	old = w.inSuffix
	w.inSuffix = true
	w.hasSufx = true
	return old
}

func (w *Writer) LeaveSuffix(old bool) { w.inSuffix = old }

// Flat assembles the writer's output.
func (w *Writer) Flat() Flat {
	f := Flat{Pairs: w.pairs}
	if w.hasSufx {
		if w.suffix == nil {
			w.suffix = []string{}
		}
		f.Suffix = w.suffix
	}
	return f
}
