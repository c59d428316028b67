package match

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/fatih/camelcase"
)

// Norm is the canonical comparable form of a scalar value. Equality between
// two Norms is coercing: boolean-looking values compare as booleans,
// numeric-looking values compare numerically, everything else compares as
// trimmed lower-cased strings. A missing value never equals anything,
// including the empty string.
type Norm struct {
	Missing bool
	Str     string

	IsNum bool
	Num   float64

	IsBool bool
	Bool   bool
}

var boolWords = map[string]bool{
	"true": true, "yes": true, "1": true,
	"false": false, "no": false, "0": false,
}

// NormalizeValue produces the canonical form of a raw scalar. Lists and
// mappings are not scalars; they degrade to their display string so that a
// shape-mismatched value still classifies as a plain mismatch.
func NormalizeValue(v any) Norm {
	switch x := v.(type) {
	case nil:
		return Norm{Missing: true}
	case bool:
		return Norm{Str: strconv.FormatBool(x), IsBool: true, Bool: x}
	case int:
		return numNorm(float64(x))
	case int64:
		return numNorm(float64(x))
	case float64:
		return numNorm(x)
	case string:
		return normalizeString(x)
	default:
		return normalizeString(Display(v))
	}
}

func numNorm(f float64) Norm {
	return Norm{Str: strconv.FormatFloat(f, 'f', -1, 64), IsNum: true, Num: f}
}

func normalizeString(s string) Norm {
	low := strings.ToLower(strings.TrimSpace(s))
	n := Norm{Str: low}
	if b, ok := boolWords[low]; ok {
		n.IsBool = true
		n.Bool = b
	}
	if f, err := strconv.ParseFloat(low, 64); err == nil {
		n.IsNum = true
		n.Num = f
	}
	return n
}

// Equal reports whether two normalized values are semantically equivalent.
func (n Norm) Equal(o Norm) bool {
	if n.Missing || o.Missing {
		return false
	}
	if n.IsBool && o.IsBool {
		return n.Bool == o.Bool
	}
	if n.IsNum && o.IsNum {
		return n.Num == o.Num
	}
	return n.Str == o.Str
}

// Display renders any snapshot or catalog value as a human-readable string:
// lists join with commas, mappings dump as key-sorted JSON, scalars print
// as-is. Nil renders empty.
func Display(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			parts = append(parts, Display(item))
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			data, err := json.Marshal(x[k])
			if err != nil {
				data = []byte(`""`)
			}
			parts = append(parts, fmt.Sprintf("%q: %s", k, data))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// NormalizeKey folds a field name to its lookup form: lower-cased with
// everything but letters and digits removed, so "BIOS_Serial-Number",
// "biosserialnumber" and "bios.serial.number" all collide.
func NormalizeKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// KeyTokens splits a (possibly dotted, camel-cased or snake-cased) key into
// lower-cased word tokens, e.g. "ui.DisplayResolution" -> [ui display resolution].
func KeyTokens(key string) []string {
	var out []string
	for _, seg := range strings.FieldsFunc(key, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		for _, w := range camelcase.Split(seg) {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				out = append(out, w)
			}
		}
	}
	return out
}
