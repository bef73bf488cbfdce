// Package export defines the exporter contract and the registry dispatching
// export calls by format name.
//
// Each format implements Exporter. CanExport is a pure compatibility check
// that never mutates the context; Export materializes the full output in
// memory and then writes files, collecting recoverable per-item problems as
// warnings on the Result instead of aborting.
package export

import "annoexport/internal/annotation"

// Exporter converts an export context into one interchange format.
type Exporter interface {
	// Name is the registry key, e.g. "coco".
	Name() string

	// CanExport reports whether the context carries the data this format
	// needs. The reason is empty when ok is true.
	CanExport(ctx *annotation.ExportContext) (ok bool, reason string)

	// Export writes the format's files under outputDir and returns the
	// outcome. Fatal problems produce a failed Result, never a panic.
	Export(ctx *annotation.ExportContext, outputDir string, opts Options) *Result
}

// Option keys recognized across exporters. Each format documents which of
// these it reads.
const (
	OptTokenization   = "tokenization"
	OptTagScheme      = "tag_scheme"
	OptSchemaName     = "schema_name"
	OptPOSColumn      = "pos_column"
	OptTextGridFormat = "textgrid_format"
	OptLanguage       = "language"
)

// Options is the flat key→value export configuration.
type Options map[string]string

// Get returns the value for key, or fallback when unset or blank.
func (o Options) Get(key, fallback string) string {
	if v, ok := o[key]; ok && v != "" {
		return v
	}
	return fallback
}
