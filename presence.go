package jsonmold

import (
	"strings"
)

// Presence is the bit flag collected by ConvertWithMeta.
type Presence uint8

const (
	PresenceSeen           Presence = 1 << iota // Key appeared in the input.
	PresenceWasNull                             // Input value was null.
	PresenceDefaultApplied                      // Output came from a default.
	PresenceEnumMapped                          // An enum rule replaced the input value.
	PresenceRedundant                           // Copied from an undeclared input key.
)

// PresenceMap maps JSON Pointers of the output to Presence flags.
type PresenceMap map[string]Presence

// Has reports whether every bit of f is set for path.
func (pm PresenceMap) Has(path string, f Presence) bool {
	return pm[path]&f == f
}

// Decoded carries the converted value along with presence metadata.
type Decoded[T any] struct {
	Value    T
	Presence PresenceMap
}

func applyPresenceOptions(pm PresenceMap, popt PresenceOpt) PresenceMap {
	if pm == nil {
		return nil
	}
	if len(popt.Include) == 0 && len(popt.Exclude) == 0 {
		return pm
	}

	shouldInclude := func(path string) bool {
		if len(popt.Include) > 0 {
			ok := false
			for _, p := range popt.Include {
				if strings.HasPrefix(path, p) {
					ok = true
					break
				}
			}
			if !ok {
				return false
			}
		}
		for _, p := range popt.Exclude {
			if strings.HasPrefix(path, p) {
				return false
			}
		}
		return true
	}

	filtered := make(PresenceMap, len(pm))
	for k, v := range pm {
		if shouldInclude(k) {
			filtered[k] = v
		}
	}
	return filtered
}
