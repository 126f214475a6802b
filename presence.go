package ocsigenserver

import (
	"strings"
	"sync"
)

// Presence is the bit flag collected by WithMeta APIs.
type Presence uint8

const (
	PresenceSeen           Presence = 1 << iota // Key appeared in the input.
	PresenceDefaultApplied                      // Default value was applied for an absent key.
	PresenceFromSuffix                          // Value came from the URL suffix channel.
	PresenceRepeated                            // Key occurred more than once in the input.
)

// PresenceMap maps resolved wire keys to Presence flags.
type PresenceMap map[string]Presence

// Decoded carries the reconstructed value along with presence metadata.
type Decoded[T any] struct {
	Value    T
	Presence PresenceMap
}

// simple string interner for PresenceMap keys
var (
	_internMu   sync.RWMutex
	_internPool = map[string]string{}
)

func internString(s string) string {
	_internMu.RLock()
	if v, ok := _internPool[s]; ok {
		_internMu.RUnlock()
		return v
	}
	_internMu.RUnlock()

	_internMu.Lock()
	if v, ok := _internPool[s]; ok { // double-check
		_internMu.Unlock()
		return v
	}
	_internPool[s] = s
	_internMu.Unlock()
	return s
}

func applyPresenceOptions(pm PresenceMap, popt PresenceOpt) PresenceMap {
	if pm == nil {
		return nil
	}
	if !popt.Collect {
		return nil
	}
	var includes []string
	if len(popt.Include) > 0 {
		includes = popt.Include
	}
	var excludes []string
	if len(popt.Exclude) > 0 {
		excludes = popt.Exclude
	}

	filtered := make(PresenceMap, len(pm))

	shouldInclude := func(key string) bool {
		if len(includes) > 0 {
			ok := false
			for _, p := range includes {
				if strings.HasPrefix(key, p) {
					ok = true
					break
				}
			}
			if !ok {
				return false
			}
		}
		for _, p := range excludes {
			if strings.HasPrefix(key, p) {
				return false
			}
		}
		return true
	}

	for k, v := range pm {
		if !shouldInclude(k) {
			continue
		}
		key := k
		if popt.Intern {
			key = internString(k)
		}
		filtered[key] = v
	}
	return filtered
}

// MergePresenceMaps returns a new PresenceMap that is the bitwise-OR merge of a and b.
func MergePresenceMaps(a, b PresenceMap) PresenceMap {
	if a == nil && b == nil {
		return nil
	}
	out := make(PresenceMap, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] |= v
	}
	return out
}
