package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ProductFacts is the immutable input for one product refinement.
type ProductFacts struct {
	Brand              string     `json:"brand"`
	ProductType        string     `json:"product_type"`
	Attributes         Attributes `json:"attributes"`
	CurrentDescription string     `json:"current_description"`
	CurrentBullets     []string   `json:"current_bullets"`
}

// Validate checks the minimal invariants on the input facts.
func (f *ProductFacts) Validate() error {
	if strings.TrimSpace(f.Brand) == "" {
		return fmt.Errorf("brand is required")
	}
	if strings.TrimSpace(f.ProductType) == "" {
		return fmt.Errorf("product_type is required")
	}
	return nil
}

// Fingerprint returns a stable hash of the facts, used as a cache key.
// Attributes are serialized with sorted keys so equal facts always hash equal.
func (f *ProductFacts) Fingerprint() string {
	var b strings.Builder
	b.WriteString(f.Brand)
	b.WriteByte('\x00')
	b.WriteString(f.ProductType)
	b.WriteByte('\x00')
	b.WriteString(f.CurrentDescription)
	b.WriteByte('\x00')
	b.WriteString(strings.Join(f.CurrentBullets, "\x01"))
	b.WriteByte('\x00')
	keys := make([]string, 0, len(f.Attributes))
	for k := range f.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(coerceString(f.Attributes[k]))
		b.WriteByte('\x01')
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// Attributes is the product attribute tree. Values may be scalars, lists of
// scalars, or nested mappings; they are coerced to strings wherever they are
// used in text contexts.
type Attributes map[string]interface{}

// ParseAttributes interprets a raw attributes cell from batch input.
// A JSON object parses structurally; a JSON scalar becomes {"value": scalar};
// anything unparseable is kept as a single opaque attribute rather than
// failing the item.
func ParseAttributes(raw string) Attributes {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Attributes{}
	}

	var parsed interface{}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return Attributes{"raw": text}
	}

	if obj, ok := parsed.(map[string]interface{}); ok {
		return Attributes(obj)
	}
	return Attributes{"value": parsed}
}

// FlattenValues returns the string form of every scalar value in the tree:
// scalars pass through, lists contribute each element, nested mappings
// contribute their values. Output is sorted for deterministic ordering.
func (a Attributes) FlattenValues() []string {
	var values []string
	for _, v := range a {
		values = append(values, flattenValue(v)...)
	}
	sort.Strings(values)
	return values
}

// Pairs returns "key: value" strings for every top-level attribute, sorted by
// key. Used when serializing attributes into prompts and filler sentences.
func (a Attributes) Pairs() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+": "+coerceString(a[k]))
	}
	return pairs
}

func flattenValue(v interface{}) []string {
	switch val := v.(type) {
	case []interface{}:
		var out []string
		for _, item := range val {
			out = append(out, flattenValue(item)...)
		}
		return out
	case map[string]interface{}:
		var out []string
		for _, item := range val {
			out = append(out, flattenValue(item)...)
		}
		return out
	default:
		s := coerceString(val)
		if s == "" {
			return nil
		}
		return []string{s}
	}
}

// coerceString renders an attribute value the way it should appear in text.
// JSON numbers that are whole render without a decimal point.
func coerceString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case bool:
		return fmt.Sprintf("%t", val)
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, coerceString(item))
		}
		return strings.Join(parts, ", ")
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+coerceString(val[k]))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", val)
	}
}

// ParseBullets interprets a raw current_bullets cell: a JSON list of strings,
// or a single string delimited by newlines, semicolons, or pipes.
func ParseBullets(raw string) []string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil
	}

	var list []string
	if err := json.Unmarshal([]byte(text), &list); err == nil {
		var out []string
		for _, item := range list {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	}

	var out []string
	for _, part := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == ';' || r == '|'
	}) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
