// Package annotation defines the value types the export pipeline consumes:
// annotation records, schema configuration, the image-annotation tagged
// union, and the ExportContext bundle an upstream loader assembles.
//
// Everything here is treated as immutable once handed to an exporter.
package annotation

import "encoding/json"

// AnnotationRecord is one annotator's work on one dataset instance.
type AnnotationRecord struct {
	InstanceID string `json:"instance_id"`
	UserID     string `json:"user_id"`

	// Labels maps schema name to label-key/value pairs for categorical
	// schemas (radio, multiselect, ...).
	Labels map[string]map[string]any `json:"labels,omitempty"`

	// Spans maps span-schema name to its character-offset spans, in the
	// order the annotator created them.
	Spans map[string][]Span `json:"spans,omitempty"`

	// Tiers maps tiered-schema name to tier name to its time-aligned
	// annotations.
	Tiers map[string]map[string][]Span `json:"tiers,omitempty"`

	Links []Link `json:"links,omitempty"`

	// Images maps image-schema name to the drawn annotation objects.
	Images map[string]ObjectList `json:"image_annotations,omitempty"`
}

// Span is a labeled range: character offsets for span schemas, millisecond
// times for tiered schemas. Offsets are half-open rune indexes into the item
// text.
type Span struct {
	Start     int     `json:"start"`
	End       int     `json:"end"`
	Label     string  `json:"label"`
	StartTime float64 `json:"start_time,omitempty"`
	EndTime   float64 `json:"end_time,omitempty"`
	ID        string  `json:"id,omitempty"`
	ParentID  string  `json:"parent_id,omitempty"`
}

// UnmarshalJSON accepts the label under any of the keys the platform has used
// over time: "label", "name", or "value".
func (s *Span) UnmarshalJSON(data []byte) error {
	var raw struct {
		Start     int     `json:"start"`
		End       int     `json:"end"`
		Label     string  `json:"label"`
		Name      string  `json:"name"`
		Value     string  `json:"value"`
		StartTime float64 `json:"start_time"`
		EndTime   float64 `json:"end_time"`
		ID        string  `json:"id"`
		ParentID  string  `json:"parent_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	label := raw.Label
	if label == "" {
		label = raw.Name
	}
	if label == "" {
		label = raw.Value
	}
	*s = Span{
		Start:     raw.Start,
		End:       raw.End,
		Label:     label,
		StartTime: raw.StartTime,
		EndTime:   raw.EndTime,
		ID:        raw.ID,
		ParentID:  raw.ParentID,
	}
	return nil
}

// Link relates two annotations within the same instance.
type Link struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}
