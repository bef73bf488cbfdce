package annotation

import (
	"sort"
	"strings"
)

// Item holds the raw fields of one dataset instance as the platform stores
// them; exporters read text and image metadata through the accessors below.
type Item map[string]any

// ExportContext is the full input to one export call, assembled by an
// upstream loader from stored annotations, raw items, and task configuration.
type ExportContext struct {
	Config      map[string]any     `json:"config,omitempty"`
	Annotations []AnnotationRecord `json:"annotations"`
	Items       map[string]Item    `json:"items"`
	Schemas     []Schema           `json:"schemas"`
	OutputDir   string             `json:"output_dir,omitempty"`
}

// Item text is looked up under these keys, in order.
var textKeys = []string{"text", "sentence", "content"}

// Text returns the instance text, trying the platform's historical field
// names in order.
func (it Item) Text() (string, bool) {
	for _, key := range textKeys {
		if v, ok := it[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// Dimensions returns the image width and height when both are present and
// positive.
func (it Item) Dimensions() (width, height int, ok bool) {
	w, wok := itemNumber(it, "width")
	h, hok := itemNumber(it, "height")
	if !wok || !hok || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return int(w), int(h), true
}

// FileName returns the stored image filename, falling back to the given
// instance id.
func (it Item) FileName(fallback string) string {
	for _, key := range []string{"file_name", "filename", "image", "path"} {
		if v, ok := it[key]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return fallback
}

func itemNumber(it Item, key string) (float64, bool) {
	v, ok := it[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// SchemasOfType returns the schemas with the given annotation type, in
// declaration order.
func (c *ExportContext) SchemasOfType(annotationType string) []Schema {
	var out []Schema
	for _, s := range c.Schemas {
		if s.AnnotationType == annotationType {
			out = append(out, s)
		}
	}
	return out
}

// Schema looks up a schema by name.
func (c *ExportContext) Schema(name string) (Schema, bool) {
	for _, s := range c.Schemas {
		if s.Name == name {
			return s, true
		}
	}
	return Schema{}, false
}

// imageSchemaNames returns image schema names in declaration order followed
// by any names that appear only in record data, sorted. The deterministic
// order keeps category mapping and exporter output stable across runs.
func (c *ExportContext) imageSchemaNames() []string {
	names := make([]string, 0, len(c.Schemas))
	seen := make(map[string]bool)
	for _, s := range c.SchemasOfType(TypeImage) {
		names = append(names, s.Name)
		seen[s.Name] = true
	}
	extra := make(map[string]bool)
	for _, rec := range c.Annotations {
		for name := range rec.Images {
			if !seen[name] {
				extra[name] = true
			}
		}
	}
	sorted := make([]string, 0, len(extra))
	for name := range extra {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)
	return append(names, sorted...)
}

// ImageObjects returns a record's image annotations across all image schemas
// in deterministic schema order.
func (c *ExportContext) ImageObjects(rec AnnotationRecord) []Object {
	var out []Object
	for _, name := range c.imageSchemaNames() {
		out = append(out, rec.Images[name]...)
	}
	return out
}
