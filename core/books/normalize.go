package books

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// minPrefixLength is the shortest input that may fall back to a prefix scan.
const minPrefixLength = 2

// Alias is an exported view of one resolved alias table entry.
type Alias struct {
	Key       string `json:"key"`
	Canonical string `json:"canonical"`
}

// Ambiguity records an alias key that the table defines more than once
// with different canonical names. Winner is the name Normalize returns.
type Ambiguity struct {
	Key     string   `json:"key"`
	Winner  string   `json:"winner"`
	Ignored []string `json:"ignored"`
}

// Normalizer resolves book name spellings to canonical names.
// It is immutable after construction and safe for concurrent use.
type Normalizer struct {
	exact       map[string]string
	ordered     []Alias // first definition of each key, declaration order
	byKey       []Alias // same entries sorted by key for prefix scans
	ambiguities []Ambiguity
}

var defaultNormalizer = newNormalizer(aliasTable)

func newNormalizer(table []alias) *Normalizer {
	n := &Normalizer{exact: make(map[string]string, len(table))}
	ignored := make(map[string][]string)
	for _, a := range table {
		if winner, seen := n.exact[a.key]; seen {
			if winner != a.canonical {
				ignored[a.key] = append(ignored[a.key], a.canonical)
			}
			continue
		}
		n.exact[a.key] = a.canonical
		n.ordered = append(n.ordered, Alias{Key: a.key, Canonical: a.canonical})
	}

	n.byKey = make([]Alias, len(n.ordered))
	copy(n.byKey, n.ordered)
	sort.Slice(n.byKey, func(i, j int) bool { return n.byKey[i].Key < n.byKey[j].Key })

	for _, a := range n.ordered {
		if rest, ok := ignored[a.Key]; ok {
			n.ambiguities = append(n.ambiguities, Ambiguity{Key: a.Key, Winner: a.Canonical, Ignored: rest})
		}
	}
	return n
}

// Default returns the process-wide normalizer built from the static table.
func Default() *Normalizer {
	return defaultNormalizer
}

// Normalize maps input to a canonical book name using the default table.
// Unrecognized input is returned unchanged.
func Normalize(input string) string {
	return defaultNormalizer.Normalize(input)
}

// Resolve is Normalize that also reports whether a mapping was found.
func Resolve(input string) (string, bool) {
	return defaultNormalizer.Resolve(input)
}

// Normalize lowercases input, strips periods, then tries an exact alias
// match followed by a prefix scan over aliases in key order. The prefix
// scan only runs for inputs of at least two characters. When nothing
// matches, the original input is returned untouched.
func (n *Normalizer) Normalize(input string) string {
	name, _ := n.Resolve(input)
	return name
}

// Resolve performs Normalize and reports whether the result came from the table.
func (n *Normalizer) Resolve(input string) (string, bool) {
	key := strings.ToLower(strings.ReplaceAll(input, ".", ""))

	if canonical, ok := n.exact[key]; ok {
		return canonical, true
	}

	if utf8.RuneCountInString(key) >= minPrefixLength {
		// byKey is sorted, so the first candidate sits at the search point.
		i := sort.Search(len(n.byKey), func(i int) bool { return n.byKey[i].Key >= key })
		if i < len(n.byKey) && strings.HasPrefix(n.byKey[i].Key, key) {
			return n.byKey[i].Canonical, true
		}
	}

	return input, false
}

// Aliases returns the effective alias entries in declaration order.
func (n *Normalizer) Aliases() []Alias {
	out := make([]Alias, len(n.ordered))
	copy(out, n.ordered)
	return out
}

// Ambiguities lists keys the table defines with conflicting canonical names.
func (n *Normalizer) Ambiguities() []Ambiguity {
	out := make([]Ambiguity, len(n.ambiguities))
	copy(out, n.ambiguities)
	return out
}
