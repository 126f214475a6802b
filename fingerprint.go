package ocsigenserver

import (
	"fmt"
	"hash/fnv"
)

// Fingerprint is a stable digest of a parameter description's structure.
// Two descriptions share a fingerprint exactly when they have the same node
// tree and the same names, so the service table can reject a registration
// that would collide with an existing one.
type Fingerprint uint64

// String renders the fingerprint as fixed-width hex.
func (f Fingerprint) String() string { return fmt.Sprintf("%016x", uint64(f)) }

// FingerprintOf digests a typed description.
func FingerprintOf[T any](p Param[T]) Fingerprint {
	return FingerprintMirror(ParamNames(p))
}

// FingerprintAny digests an erased description.
func FingerprintAny(a AnyParam) Fingerprint {
	return FingerprintMirror(a.Names())
}

// FingerprintMirror digests a name mirror. The digest covers every node in
// preorder: kind, local name and discriminator key, with separators so that
// sibling boundaries cannot be confused with name bytes.
func FingerprintMirror(m *Mirror) Fingerprint {
	h := fnv.New64a()
	var walk func(n *Mirror)
	walk = func(n *Mirror) {
		if n == nil {
			h.Write([]byte{0xff})
			return
		}
		h.Write([]byte{byte(n.Kind), 0x1f})
		h.Write([]byte(n.Name))
		h.Write([]byte{0x1e})
		h.Write([]byte(n.Disc))
		h.Write([]byte{0x1d, byte(len(n.Children))})
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(m)
	return Fingerprint(h.Sum64())
}
