// Package attr selects per-element id, class and text variants by seed.
package attr

// VariantMap maps a semantic element key to its ordered candidate values.
// Maps are shared between requests and must not be modified after construction.
type VariantMap map[string][]string

// Candidates returns the candidates for key.
func (m VariantMap) Candidates(key string) []string {
	if m == nil {
		return nil
	}
	return m[key]
}

// Select returns m[key][seed mod len(m[key])]. A nil map, a missing key or an
// empty candidate list yields fallback.
func Select(key string, m VariantMap, fallback string, seed int) string {
	candidates := m.Candidates(key)
	if len(candidates) == 0 {
		return fallback
	}
	idx := seed % len(candidates)
	if idx < 0 {
		idx += len(candidates)
	}
	return candidates[idx]
}

// Kind groups variant maps by the attribute they substitute.
type Kind string

const (
	KindID    Kind = "id"
	KindClass Kind = "class"
	KindText  Kind = "text"
)

// Kinds lists every attribute kind.
var Kinds = []Kind{KindID, KindClass, KindText}

// ParseKind validates a kind name.
func ParseKind(raw string) (Kind, bool) {
	for _, kind := range Kinds {
		if string(kind) == raw {
			return kind, true
		}
	}
	return "", false
}

// Set holds the variant maps for every attribute kind.
type Set struct {
	IDs     VariantMap
	Classes VariantMap
	Texts   VariantMap
}

// Map returns the variant map for kind.
func (s Set) Map(kind Kind) VariantMap {
	switch kind {
	case KindID:
		return s.IDs
	case KindClass:
		return s.Classes
	case KindText:
		return s.Texts
	default:
		return nil
	}
}

// With returns a copy of s where kind's map has key set to candidates. An
// empty candidates slice removes the key. s is not modified.
func (s Set) With(kind Kind, key string, candidates []string) Set {
	replace := func(m VariantMap) VariantMap {
		out := make(VariantMap, len(m)+1)
		for k, v := range m {
			out[k] = v
		}
		if len(candidates) == 0 {
			delete(out, key)
		} else {
			out[key] = append([]string(nil), candidates...)
		}
		return out
	}
	switch kind {
	case KindID:
		s.IDs = replace(s.IDs)
	case KindClass:
		s.Classes = replace(s.Classes)
	case KindText:
		s.Texts = replace(s.Texts)
	}
	return s
}

// EventKey is the key event overrides use to target kind's variant for key.
func EventKey(kind Kind, key string) string {
	return string(kind) + "." + key
}
