package match

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// deepSearchMaxDepth bounds the fallback search through nested snapshot
// structures.
const deepSearchMaxDepth = 8

// Lookup resolves the snapshot value for a catalog field. Resolution order:
// an explicit key-map entry, then dotted-path descent, then a normalized-key
// scan per level, then a depth-limited deep search of the whole snapshot.
// The returned key is the snapshot key that actually held the value.
// Snapshot maps are scanned in sorted key order so resolution is
// deterministic.
func Lookup(snapshot map[string]any, dottedKey string, keyMap map[string]string) (value any, foundKey string, ok bool) {
	if mapped, exists := keyMap[dottedKey]; exists && mapped != "" {
		if v, k, found := descend(snapshot, mapped); found {
			return v, k, true
		}
		if v, k, found := deepSearch(snapshot, NormalizeKey(mapped), deepSearchMaxDepth); found {
			return v, k, true
		}
	}

	if v, k, found := descend(snapshot, dottedKey); found {
		return v, k, true
	}

	return deepSearch(snapshot, NormalizeKey(dottedKey), deepSearchMaxDepth)
}

// descend walks a dotted path through nested mappings, trying the exact key
// first and a normalized-key match second at every level.
func descend(snapshot map[string]any, dottedKey string) (any, string, bool) {
	parts := strings.Split(dottedKey, ".")
	var cur any = snapshot
	found := ""
	for _, part := range parts {
		m, isMap := cur.(map[string]any)
		if !isMap {
			return nil, "", false
		}
		if v, exists := m[part]; exists {
			cur = v
			found = part
			continue
		}
		v, key, exists := lookupNormalized(m, NormalizeKey(part))
		if !exists {
			return nil, "", false
		}
		cur = v
		found = key
	}
	return cur, found, true
}

func lookupNormalized(m map[string]any, normKey string) (any, string, bool) {
	for _, k := range sortedKeys(m) {
		if NormalizeKey(k) == normKey {
			return m[k], k, true
		}
	}
	return nil, "", false
}

func deepSearch(v any, normKey string, depth int) (any, string, bool) {
	if depth < 0 || normKey == "" {
		return nil, "", false
	}
	switch x := v.(type) {
	case map[string]any:
		if val, key, ok := lookupNormalized(x, normKey); ok {
			return val, key, true
		}
		for _, k := range sortedKeys(x) {
			if val, key, ok := deepSearch(x[k], normKey, depth-1); ok {
				return val, key, true
			}
		}
	case []any:
		for _, item := range x {
			if val, key, ok := deepSearch(item, normKey, depth-1); ok {
				return val, key, true
			}
		}
	}
	return nil, "", false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Leaf is one scalar snapshot value with its dotted path.
type Leaf struct {
	Path  string
	Value string
}

// FlattenLeaves returns every scalar leaf of a snapshot with its dotted
// path, in sorted path order. List elements are addressed as path[i].
func FlattenLeaves(v any) []Leaf {
	var out []Leaf
	flattenInto(&out, v, "")
	return out
}

func flattenInto(out *[]Leaf, v any, parent string) {
	switch x := v.(type) {
	case map[string]any:
		for _, k := range sortedKeys(x) {
			path := k
			if parent != "" {
				path = parent + "." + k
			}
			flattenInto(out, x[k], path)
		}
	case []any:
		for i, item := range x {
			flattenInto(out, item, parent+"["+strconv.Itoa(i)+"]")
		}
	default:
		if s := Display(v); s != "" {
			*out = append(*out, Leaf{Path: parent, Value: s})
		}
	}
}

// FlattenKeys returns every dotted key path in a snapshot, including
// intermediate mapping paths.
func FlattenKeys(v any) []string {
	var out []string
	keysInto(&out, v, "")
	return out
}

func keysInto(out *[]string, v any, parent string) {
	m, ok := v.(map[string]any)
	if !ok {
		return
	}
	for _, k := range sortedKeys(m) {
		path := k
		if parent != "" {
			path = parent + "." + k
		}
		*out = append(*out, path)
		keysInto(out, m[k], path)
	}
}

// Suggestion proposes a snapshot key path for a catalog key that failed to
// resolve, with the similarity that backed the proposal.
type Suggestion struct {
	CatalogKey  string  `json:"catalog_key"`
	SnapshotKey string  `json:"snapshot_key"`
	Similarity  float64 `json:"similarity"`
}

// SuggestKeys fuzzy-matches catalog keys against the snapshot's flattened
// key paths. Keys score on their token form (camelCase and snake_case split
// into words) so differently spelled variants still line up. Only
// suggestions at or above threshold are returned, in catalog key order.
func SuggestKeys(catalogKeys []string, snapshot map[string]any, threshold float64) []Suggestion {
	paths := FlattenKeys(snapshot)
	var out []Suggestion
	for _, ck := range catalogKeys {
		ckForm := strings.Join(KeyTokens(ck), " ")
		best := ""
		bestScore := 0.0
		for _, p := range paths {
			score := Ratio(ckForm, strings.Join(KeyTokens(p), " "))
			if score > bestScore {
				best = p
				bestScore = score
			}
		}
		if bestScore >= threshold {
			out = append(out, Suggestion{CatalogKey: ck, SnapshotKey: best, Similarity: round4(bestScore)})
		}
	}
	return out
}

// ValueHit is one snapshot leaf that matched a search query.
type ValueHit struct {
	Path       string  `json:"path"`
	Value      string  `json:"value"`
	Similarity float64 `json:"similarity"`
}

// FindMatches scans every snapshot leaf for values similar to query,
// returning hits at or above minSim (or containing the query outright),
// best first. Equal scores keep path order.
func FindMatches(snapshot map[string]any, query string, minSim float64) []ValueHit {
	q := strings.ToLower(query)
	var out []ValueHit
	for _, leaf := range FlattenLeaves(snapshot) {
		low := strings.ToLower(leaf.Value)
		sim := Ratio(q, low)
		if strings.Contains(low, q) || sim >= minSim {
			out = append(out, ValueHit{Path: leaf.Path, Value: leaf.Value, Similarity: round4(sim)})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Similarity > out[j].Similarity })
	return out
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}
