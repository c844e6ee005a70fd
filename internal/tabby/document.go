package tabby

import (
	"sort"
	"strings"
)

// Record is a single row of a many-format sheet: column name to cell value.
// Empty cells are omitted.
type Record map[string]string

// Document is a fully resolved tabby metadata document: the root dataset
// sheet with all sheet imports loaded in place.
type Document struct {
	// Convention is the schema tag parsed from the root sheet file name.
	Convention string
	// Dir is the directory the root sheet was loaded from.
	Dir string
	// Path is the root sheet file path.
	Path string

	fields map[string]any
}

// Keys returns the root sheet keys in sorted order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, len(d.fields))
	for k := range d.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether the root sheet contains the given key.
func (d *Document) Has(key string) bool {
	_, ok := d.fields[key]
	return ok
}

// Value returns the raw value for a root sheet key. The value is a string,
// a []string, a map[string]any (single-format import, holding the imported
// sheet's fields in these same shapes), or a []Record (many-format import).
func (d *Document) Value(key string) (any, bool) {
	v, ok := d.fields[key]
	return v, ok
}

// String returns the value for key as a single string. Multi-valued fields
// yield their first value.
func (d *Document) String(key string) string {
	switch v := d.fields[key].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

// Strings returns the value for key as a list. Scalar fields yield a
// one-element list; absent fields yield nil.
func (d *Document) Strings(key string) []string {
	switch v := d.fields[key].(type) {
	case string:
		return []string{v}
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	}
	return nil
}

// Records returns the rows of a many-format import. A single-format import
// is projected onto one record row: multi-valued keys are joined with ", ",
// nested sheet imports are left out of the row and stay reachable through
// Value.
func (d *Document) Records(key string) []Record {
	switch v := d.fields[key].(type) {
	case []Record:
		out := make([]Record, len(v))
		copy(out, v)
		return out
	case map[string]any:
		return []Record{flattenSingle(v)}
	}
	return nil
}

func flattenSingle(fields map[string]any) Record {
	record := make(Record, len(fields))
	for k, v := range fields {
		switch val := v.(type) {
		case string:
			record[k] = val
		case []string:
			record[k] = strings.Join(val, ", ")
		}
	}
	return record
}
