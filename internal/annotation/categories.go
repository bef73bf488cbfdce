package annotation

// CategoryMapping assigns each image label a dense zero-based id. COCO adds
// one to produce its 1-indexed category ids; YOLO uses the ids directly.
type CategoryMapping struct {
	Names []string
	IDs   map[string]int
}

// ID returns the dense id for a label.
func (m CategoryMapping) ID(label string) (int, bool) {
	id, ok := m.IDs[label]
	return id, ok
}

// Len returns the number of categories.
func (m CategoryMapping) Len() int { return len(m.Names) }

// BuildCategoryMapping produces the label→id table for image exports.
// Schema-declared labels come first in declaration order, then labels found
// only in annotation data in first-encounter order. The result is a pure
// function of its inputs: identical inputs always yield identical mappings.
func BuildCategoryMapping(ctx *ExportContext) CategoryMapping {
	mapping := CategoryMapping{IDs: make(map[string]int)}
	add := func(label string) {
		if label == "" {
			return
		}
		if _, ok := mapping.IDs[label]; ok {
			return
		}
		mapping.IDs[label] = len(mapping.Names)
		mapping.Names = append(mapping.Names, label)
	}

	for _, schema := range ctx.SchemasOfType(TypeImage) {
		for _, label := range schema.Labels {
			add(label)
		}
	}
	schemaNames := ctx.imageSchemaNames()
	for _, rec := range ctx.Annotations {
		for _, name := range schemaNames {
			for _, obj := range rec.Images[name] {
				add(obj.ObjectLabel())
			}
		}
	}
	return mapping
}
