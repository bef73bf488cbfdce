// Package conll writes the CoNLL-2003 and CoNLL-U token-per-line formats
// from character-offset span annotations.
package conll

import (
	"fmt"

	"annoexport/internal/annotation"
	"annoexport/internal/export"
	"annoexport/internal/textspan"
)

// instanceDoc is one instance's text fully tokenized and tagged, ready for
// either output format.
type instanceDoc struct {
	instanceID string
	text       []rune
	tokens     []textspan.Token
	tags       []string
	sentences  [][]int
}

// requireSpanSchema is the shared CanExport predicate.
func requireSpanSchema(ctx *annotation.ExportContext) (bool, string) {
	if len(ctx.SchemasOfType(annotation.TypeSpan)) == 0 {
		return false, "context has no span schema"
	}
	return true, ""
}

// resolveSpanSchema picks the schema named by the schema_name option, or the
// first span schema when the option is unset.
func resolveSpanSchema(ctx *annotation.ExportContext, opts export.Options) (annotation.Schema, error) {
	if name := opts.Get(export.OptSchemaName, ""); name != "" {
		schema, ok := ctx.Schema(name)
		if !ok {
			return annotation.Schema{}, fmt.Errorf("schema %q not found", name)
		}
		if schema.AnnotationType != annotation.TypeSpan {
			return annotation.Schema{}, fmt.Errorf("schema %q is %s, not a span schema", name, schema.AnnotationType)
		}
		return schema, nil
	}
	spans := ctx.SchemasOfType(annotation.TypeSpan)
	if len(spans) == 0 {
		return annotation.Schema{}, fmt.Errorf("context has no span schema")
	}
	return spans[0], nil
}

// collectDocuments tokenizes and tags one document per instance. When several
// annotators labeled the same instance, the first record in annotation order
// wins and a warning names the ignored annotator; see the exporter docs for
// this policy.
func collectDocuments(ctx *annotation.ExportContext, schema annotation.Schema, tokenization, scheme string, result *export.Result) ([]instanceDoc, error) {
	var docs []instanceDoc
	claimed := make(map[string]string)

	for _, rec := range ctx.Annotations {
		if owner, ok := claimed[rec.InstanceID]; ok {
			result.Warnf("instance %q: already exported from annotator %q, record from %q ignored", rec.InstanceID, owner, rec.UserID)
			continue
		}
		claimed[rec.InstanceID] = rec.UserID

		item, ok := ctx.Items[rec.InstanceID]
		if !ok {
			result.Warnf("instance %q has no item entry, skipped", rec.InstanceID)
			continue
		}
		text, ok := item.Text()
		if !ok {
			result.Warnf("instance %q has no text under text/sentence/content, skipped", rec.InstanceID)
			continue
		}

		tokens, err := textspan.Tokenize(text, tokenization)
		if err != nil {
			return nil, err
		}
		spans := make([]textspan.Span, 0, len(rec.Spans[schema.Name]))
		for _, s := range rec.Spans[schema.Name] {
			spans = append(spans, textspan.Span{Start: s.Start, End: s.End, Label: s.Label})
		}
		tags, err := textspan.SpansToBIO(tokens, spans, scheme)
		if err != nil {
			return nil, err
		}

		docs = append(docs, instanceDoc{
			instanceID: rec.InstanceID,
			text:       []rune(text),
			tokens:     tokens,
			tags:       tags,
			sentences:  textspan.GroupSentences(tokens),
		})
	}
	return docs, nil
}
