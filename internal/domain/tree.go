package domain

import "sort"

// Tree is an insertion-ordered mapping, the in-memory form of a catalog.
// Values are scalars (string, bool, int64, float64, nil), []any of scalars,
// or a nested *Tree section. Order matters: results are reported in catalog
// declaration order and similarity ties break on it.
type Tree struct {
	pairs []Pair
}

// Pair is one key/value entry of a Tree.
type Pair struct {
	Key   string
	Value any
}

// NewTree returns an empty ordered mapping.
func NewTree() *Tree { return &Tree{} }

// Set appends a key/value pair, replacing the value in place if the key is
// already present.
func (t *Tree) Set(key string, v any) {
	for i := range t.pairs {
		if t.pairs[i].Key == key {
			t.pairs[i].Value = v
			return
		}
	}
	t.pairs = append(t.pairs, Pair{Key: key, Value: v})
}

// Get returns the value for key and whether it was present.
func (t *Tree) Get(key string) (any, bool) {
	for _, p := range t.pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Pairs returns the entries in declaration order. Callers must not mutate
// the returned slice.
func (t *Tree) Pairs() []Pair {
	if t == nil {
		return nil
	}
	return t.pairs
}

// Len returns the number of top-level entries.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.pairs)
}

// Merge appends every entry of other, overwriting duplicate keys. Used when
// a catalog is assembled from a directory of files.
func (t *Tree) Merge(other *Tree) {
	for _, p := range other.Pairs() {
		t.Set(p.Key, p.Value)
	}
}

// TreeFromMap builds a Tree from an unordered mapping, sorting keys at
// every level so the result is deterministic. Nested maps become nested
// sections. Intended for tests and for callers that hold plain decoded
// JSON/YAML.
func TreeFromMap(m map[string]any) *Tree {
	t := NewTree()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if sub, ok := m[k].(map[string]any); ok {
			t.Set(k, TreeFromMap(sub))
			continue
		}
		t.Set(k, m[k])
	}
	return t
}
