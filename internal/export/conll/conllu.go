package conll

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"annoexport/internal/annotation"
	"annoexport/internal/export"
	"annoexport/internal/fileutil"
	"annoexport/internal/logging"
)

const conlluFile = "annotations.conllu"

// CoNLLU writes the ten-column CoNLL-U format. Span tags land in the MISC
// field as NER=<tag>; SpaceAfter=No marks contiguous tokens.
//
// Recognized options: tokenization, tag_scheme, schema_name, pos_column (the
// placeholder written in the UPOS column, default "_").
type CoNLLU struct {
	logger *slog.Logger
}

// NewCoNLLU constructs the CoNLL-U exporter.
func NewCoNLLU(logger *slog.Logger) *CoNLLU {
	return &CoNLLU{logger: logging.NewComponentLogger(logger, "conllu")}
}

func (e *CoNLLU) Name() string { return "conllu" }

// CanExport requires a span schema.
func (e *CoNLLU) CanExport(ctx *annotation.ExportContext) (bool, string) {
	return requireSpanSchema(ctx)
}

// Export writes all documents into a single annotations.conllu file.
func (e *CoNLLU) Export(ctx *annotation.ExportContext, outputDir string, opts export.Options) *export.Result {
	result := export.NewResult(e.Name())

	schema, err := resolveSpanSchema(ctx, opts)
	if err != nil {
		result.Failf("%v", err)
		return result
	}
	tokenization := opts.Get(export.OptTokenization, "whitespace")
	scheme := opts.Get(export.OptTagScheme, "bio")
	upos := opts.Get(export.OptPOSColumn, "_")

	docs, err := collectDocuments(ctx, schema, tokenization, scheme, result)
	if err != nil {
		result.Failf("%v", err)
		return result
	}

	var b strings.Builder
	sentenceCount, tokenCount := 0, 0
	for _, doc := range docs {
		for n, sentence := range doc.sentences {
			first := doc.tokens[sentence[0]]
			last := doc.tokens[sentence[len(sentence)-1]]
			fmt.Fprintf(&b, "# sent_id = %s-%d\n", doc.instanceID, n+1)
			fmt.Fprintf(&b, "# text = %s\n", string(doc.text[first.Start:last.End]))

			for pos, i := range sentence {
				tok := doc.tokens[i]
				misc := []string{"NER=" + doc.tags[i]}
				if pos < len(sentence)-1 && doc.tokens[sentence[pos+1]].Start == tok.End {
					misc = append(misc, "SpaceAfter=No")
				}
				fmt.Fprintf(&b, "%d\t%s\t_\t%s\t_\t_\t_\t_\t_\t%s\n",
					pos+1, tok.Text, upos, strings.Join(misc, "|"))
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
	path := filepath.Join(outputDir, conlluFile)
	if err := fileutil.WriteFileAtomic(path, []byte(b.String()), 0o644); err != nil {
		result.Failf("write %s: %v", conlluFile, err)
		return result
	}
	result.AddFile(path)

	result.SetStat("num_documents", float64(len(docs)))
	result.SetStat("num_sentences", float64(sentenceCount))
	result.SetStat("num_tokens", float64(tokenCount))
	return result
}
