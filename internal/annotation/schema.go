package annotation

// Annotation types a schema can declare.
const (
	TypeSpan   = "span"
	TypeImage  = "image_annotation"
	TypeTiered = "tiered_annotation"
)

// Schema configures one annotation layer of the task.
type Schema struct {
	Name           string   `json:"name"`
	AnnotationType string   `json:"annotation_type"`
	Labels         []string `json:"labels,omitempty"`
	Tiers          []Tier   `json:"tiers,omitempty"`
}

// Tier configures one timeline of a tiered schema. Dependent tiers name their
// parent and the ELAN constraint binding them to it.
type Tier struct {
	Name        string `json:"name"`
	Independent bool   `json:"independent"`
	Parent      string `json:"parent,omitempty"`
	Constraint  string `json:"constraint,omitempty"`
}
