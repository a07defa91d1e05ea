// Package match resolves normalized district keys against a canonical name list
// using an exact pass followed by a Levenshtein-ratio fuzzy pass.
package match

import (
	"github.com/Pratiksahu04/TelanganaDataViz/internal/normalize"
)

// MinScore is the fuzzy acceptance floor; a candidate must score strictly above it.
const MinScore = 80

// Kind describes how a raw name was resolved.
type Kind string

// Match kinds.
const (
	KindExact     Kind = "exact"
	KindFuzzy     Kind = "fuzzy"
	KindUnmatched Kind = "unmatched"
)

// Result is the resolution of one distinct normalized key.
type Result struct {
	RawName   string `json:"raw_name" yaml:"raw_name"`
	Key       string `json:"normalized_key" yaml:"normalized_key"`
	Canonical string `json:"canonical,omitempty" yaml:"canonical,omitempty"`
	Kind      Kind   `json:"kind" yaml:"kind"`
	Score     *int   `json:"score" yaml:"score"`
}

// Matched reports whether the result carries a canonical name.
func (r Result) Matched() bool {
	return r.Kind == KindExact || r.Kind == KindFuzzy
}

// Matcher holds a canonical name list and its precomputed keys. It is
// immutable after New and safe for concurrent use.
type Matcher struct {
	names []string
	keys  []string
	exact map[string]int
}

// New builds a Matcher over canonical names in their canonical order.
func New(canonical []string) *Matcher {
	m := &Matcher{
		names: append([]string(nil), canonical...),
		keys:  make([]string, len(canonical)),
		exact: make(map[string]int, len(canonical)),
	}
	for i, name := range canonical {
		k := normalize.Normalize(name)
		m.keys[i] = k
		if k == "" {
			continue
		}
		if _, dup := m.exact[k]; !dup {
			m.exact[k] = i
		}
	}
	return m
}

// Match resolves a single raw name. The empty key is always unmatched.
func (m *Matcher) Match(raw string) Result {
	return m.matchKey(raw, normalize.Normalize(raw))
}

func (m *Matcher) matchKey(raw, key string) Result {
	res := Result{RawName: raw, Key: key, Kind: KindUnmatched}
	if key == "" {
		return res
	}

	if i, ok := m.exact[key]; ok {
		score := 100
		res.Canonical = m.names[i]
		res.Kind = KindExact
		res.Score = &score
		return res
	}

	best, bestIdx := -1, -1
	for i, ck := range m.keys {
		if ck == "" {
			continue
		}
		// Strict > keeps the first canonical name on ties.
		if s := Ratio(key, ck); s > best {
			best, bestIdx = s, i
		}
	}
	if bestIdx >= 0 && best > MinScore {
		res.Canonical = m.names[bestIdx]
		res.Kind = KindFuzzy
		res.Score = &best
	}
	return res
}

// MatchAll resolves every distinct non-empty key among rawNames. The map is
// keyed by normalized key; when several raw spellings share a key, RawName
// records the first one seen.
func (m *Matcher) MatchAll(rawNames []string) map[string]Result {
	out := make(map[string]Result, len(rawNames))
	for _, raw := range rawNames {
		key := normalize.Normalize(raw)
		if key == "" {
			continue
		}
		if _, seen := out[key]; seen {
			continue
		}
		out[key] = m.matchKey(raw, key)
	}
	return out
}

// MatchAll is a convenience wrapper building a one-shot Matcher.
func MatchAll(rawNames, canonical []string) map[string]Result {
	return New(canonical).MatchAll(rawNames)
}
