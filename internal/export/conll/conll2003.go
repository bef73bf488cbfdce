package conll

import (
	"log/slog"
	"path/filepath"
	"strings"

	"annoexport/internal/annotation"
	"annoexport/internal/export"
	"annoexport/internal/fileutil"
	"annoexport/internal/logging"
)

const conll2003File = "annotations.conll"

// CoNLL2003 writes tab-separated WORD POS CHUNK NER lines with -DOCSTART-
// markers between documents.
//
// Recognized options: tokenization, tag_scheme, schema_name, pos_column (the
// placeholder written in the POS column, default "-X-").
type CoNLL2003 struct {
	logger *slog.Logger
}

// NewCoNLL2003 constructs the CoNLL-2003 exporter.
func NewCoNLL2003(logger *slog.Logger) *CoNLL2003 {
	return &CoNLL2003{logger: logging.NewComponentLogger(logger, "conll2003")}
}

func (e *CoNLL2003) Name() string { return "conll2003" }

// CanExport requires a span schema.
func (e *CoNLL2003) CanExport(ctx *annotation.ExportContext) (bool, string) {
	return requireSpanSchema(ctx)
}

// Export writes all documents into a single annotations.conll file.
func (e *CoNLL2003) Export(ctx *annotation.ExportContext, outputDir string, opts export.Options) *export.Result {
	result := export.NewResult(e.Name())

	schema, err := resolveSpanSchema(ctx, opts)
	if err != nil {
		result.Failf("%v", err)
		return result
	}
	tokenization := opts.Get(export.OptTokenization, "whitespace")
	scheme := opts.Get(export.OptTagScheme, "bio")
	posPlaceholder := opts.Get(export.OptPOSColumn, "-X-")

	docs, err := collectDocuments(ctx, schema, tokenization, scheme, result)
	if err != nil {
		result.Failf("%v", err)
		return result
	}

	var b strings.Builder
	sentenceCount, tokenCount := 0, 0
	for _, doc := range docs {
		b.WriteString("-DOCSTART-\t-X-\t-X-\tO\n\n")
		for _, sentence := range doc.sentences {
			for _, i := range sentence {
				b.WriteString(doc.tokens[i].Text)
				b.WriteByte('\t')
				b.WriteString(posPlaceholder)
				b.WriteString("\t-X-\t")
				b.WriteString(doc.tags[i])
				b.WriteByte('\n')
				tokenCount++
			}
			b.WriteByte('\n')
			sentenceCount++
		}
	}

	if err := fileutil.EnsureDir(outputDir); err != nil {
		result.Failf("create output directory: %v", err)
		return result
	}
	path := filepath.Join(outputDir, conll2003File)
	if err := fileutil.WriteFileAtomic(path, []byte(b.String()), 0o644); err != nil {
		result.Failf("write %s: %v", conll2003File, err)
		return result
	}
	result.AddFile(path)

	result.SetStat("num_documents", float64(len(docs)))
	result.SetStat("num_sentences", float64(sentenceCount))
	result.SetStat("num_tokens", float64(tokenCount))
	return result
}
