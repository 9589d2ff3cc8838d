package jsonmold

import "strings"

// KeySpec is the result of splitting a raw template key into its parts.
type KeySpec struct {
	// Key is the structural (output) key.
	Key string
	// Alias is the input key, empty when the template did not name one.
	Alias string
	// Required reports whether the key carried the required sign.
	Required bool
}

// ParseKey splits a template key such as "*user_id@uid" into
// {Key: "user_id", Alias: "uid", Required: true}. The alias sign splits on its
// first occurrence; one leading required sign is stripped from the left part.
// ParseKey is total: every input yields a KeySpec.
func ParseKey(raw string, opt BuildOpt) KeySpec {
	opt = resolveBuildOpt([]BuildOpt{opt})
	ks := KeySpec{Key: raw}
	if opt.AliasSign != NoSign {
		if i := strings.IndexRune(raw, opt.AliasSign); i >= 0 {
			ks.Key = raw[:i]
			ks.Alias = raw[i+len(string(opt.AliasSign)):]
		}
	}
	if opt.RequiredSign != NoSign {
		if rest, ok := strings.CutPrefix(ks.Key, string(opt.RequiredSign)); ok {
			ks.Key = rest
			ks.Required = true
		}
	}
	return ks
}
