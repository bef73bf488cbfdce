package tiered

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"annoexport/internal/annotation"
	"annoexport/internal/export"
	"annoexport/internal/fileutil"
	"annoexport/internal/logging"
	"annoexport/internal/textutil"
)

// TextGrid output variants.
const (
	FormatLong  = "long"
	FormatShort = "short"
)

// TextGrid writes Praat interval-tier files, one per (instance, tiered
// schema) pair. Gaps between annotations are filled with empty intervals so
// every tier tiles [xmin, xmax] without holes, which Praat requires.
//
// Recognized options: textgrid_format ("long" or "short", default "long").
type TextGrid struct {
	logger *slog.Logger
}

// NewTextGrid constructs the TextGrid exporter.
func NewTextGrid(logger *slog.Logger) *TextGrid {
	return &TextGrid{logger: logging.NewComponentLogger(logger, "textgrid")}
}

func (e *TextGrid) Name() string { return "textgrid" }

// CanExport requires a tiered_annotation schema.
func (e *TextGrid) CanExport(ctx *annotation.ExportContext) (bool, string) {
	return requireTieredSchema(ctx)
}

// Export writes <instance>_<schema>.TextGrid files.
func (e *TextGrid) Export(ctx *annotation.ExportContext, outputDir string, opts export.Options) *export.Result {
	result := export.NewResult(e.Name())

	format := opts.Get(export.OptTextGridFormat, FormatLong)
	if format != FormatLong && format != FormatShort {
		result.Failf("textgrid_format must be %q or %q, got %q", FormatLong, FormatShort, format)
		return result
	}

	if err := fileutil.EnsureDir(outputDir); err != nil {
		result.Failf("create output directory: %v", err)
		return result
	}

	fileCount := 0
	for _, inst := range tieredInstances(ctx, result) {
		tiers, xmin, xmax, ok := e.tiledTiers(inst, result)
		if !ok {
			continue
		}
		var content string
		if format == FormatShort {
			content = renderShort(tiers, xmin, xmax)
		} else {
			content = renderLong(tiers, xmin, xmax)
		}
		path := filepath.Join(outputDir, fmt.Sprintf("%s_%s.TextGrid", textutil.SafeFileName(inst.instanceID), textutil.SafeFileName(inst.schema.Name)))
		if err := fileutil.WriteFileAtomic(path, []byte(content), 0o644); err != nil {
			result.Failf("write %s: %v", path, err)
			return result
		}
		result.AddFile(path)
		fileCount++
	}

	result.SetStat("num_files", float64(fileCount))
	return result
}

// tiledTier is a tier whose intervals tile [xmin, xmax] contiguously, times
// in seconds.
type tiledTier struct {
	name      string
	intervals []tiledInterval
}

type tiledInterval struct {
	xmin float64
	xmax float64
	text string
}

// tiledTiers converts an instance's tiers to seconds and fills every gap
// with an empty interval. Instances with no timed annotations are skipped
// with a warning.
func (e *TextGrid) tiledTiers(inst instanceExport, result *export.Result) ([]tiledTier, float64, float64, bool) {
	var xmin, xmax float64
	found := false
	for _, tier := range inst.tiers {
		for _, iv := range tier.intervals {
			if iv.end <= iv.start {
				continue
			}
			if !found {
				xmin, xmax = iv.start, iv.end
				found = true
				continue
			}
			if iv.start < xmin {
				xmin = iv.start
			}
			if iv.end > xmax {
				xmax = iv.end
			}
		}
	}
	if !found {
		result.Warnf("instance %q: no timed annotations for schema %q, skipped", inst.instanceID, inst.schema.Name)
		return nil, 0, 0, false
	}

	var tiers []tiledTier
	for _, tier := range inst.tiers {
		out := tiledTier{name: tier.config.Name}
		cursor := xmin
		for _, iv := range tier.intervals {
			if iv.end <= iv.start {
				continue
			}
			if iv.start < cursor {
				result.Warnf("instance %q: tier %q interval %q overlaps its predecessor, skipped",
					inst.instanceID, tier.config.Name, iv.value)
				continue
			}
			if iv.start > cursor {
				out.intervals = append(out.intervals, tiledInterval{xmin: seconds(cursor), xmax: seconds(iv.start)})
			}
			out.intervals = append(out.intervals, tiledInterval{xmin: seconds(iv.start), xmax: seconds(iv.end), text: iv.value})
			cursor = iv.end
		}
		if cursor < xmax {
			out.intervals = append(out.intervals, tiledInterval{xmin: seconds(cursor), xmax: seconds(xmax)})
		}
		if len(out.intervals) == 0 {
			out.intervals = []tiledInterval{{xmin: seconds(xmin), xmax: seconds(xmax)}}
		}
		tiers = append(tiers, out)
	}
	return tiers, seconds(xmin), seconds(xmax), true
}

func seconds(ms float64) float64 { return ms / 1000 }

func formatTime(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func quote(text string) string {
	return `"` + strings.ReplaceAll(text, `"`, `""`) + `"`
}

func renderLong(tiers []tiledTier, xmin, xmax float64) string {
	var b strings.Builder
	b.WriteString("File type = \"ooTextFile\"\n")
	b.WriteString("Object class = \"TextGrid\"\n\n")
	fmt.Fprintf(&b, "xmin = %s\n", formatTime(xmin))
	fmt.Fprintf(&b, "xmax = %s\n", formatTime(xmax))
	b.WriteString("tiers? <exists>\n")
	fmt.Fprintf(&b, "size = %d\n", len(tiers))
	b.WriteString("item []:\n")
	for i, tier := range tiers {
		fmt.Fprintf(&b, "    item [%d]:\n", i+1)
		b.WriteString("        class = \"IntervalTier\"\n")
		fmt.Fprintf(&b, "        name = %s\n", quote(tier.name))
		fmt.Fprintf(&b, "        xmin = %s\n", formatTime(xmin))
		fmt.Fprintf(&b, "        xmax = %s\n", formatTime(xmax))
		fmt.Fprintf(&b, "        intervals: size = %d\n", len(tier.intervals))
		for j, iv := range tier.intervals {
			fmt.Fprintf(&b, "        intervals [%d]:\n", j+1)
			fmt.Fprintf(&b, "            xmin = %s\n", formatTime(iv.xmin))
			fmt.Fprintf(&b, "            xmax = %s\n", formatTime(iv.xmax))
			fmt.Fprintf(&b, "            text = %s\n", quote(iv.text))
		}
	}
	return b.String()
}

func renderShort(tiers []tiledTier, xmin, xmax float64) string {
	var b strings.Builder
	b.WriteString("File type = \"ooTextFile\"\n")
	b.WriteString("Object class = \"TextGrid\"\n\n")
	b.WriteString(formatTime(xmin) + "\n")
	b.WriteString(formatTime(xmax) + "\n")
	b.WriteString("<exists>\n")
	fmt.Fprintf(&b, "%d\n", len(tiers))
	for _, tier := range tiers {
		b.WriteString("\"IntervalTier\"\n")
		b.WriteString(quote(tier.name) + "\n")
		b.WriteString(formatTime(xmin) + "\n")
		b.WriteString(formatTime(xmax) + "\n")
		fmt.Fprintf(&b, "%d\n", len(tier.intervals))
		for _, iv := range tier.intervals {
			b.WriteString(formatTime(iv.xmin) + "\n")
			b.WriteString(formatTime(iv.xmax) + "\n")
			b.WriteString(quote(iv.text) + "\n")
		}
	}
	return b.String()
}
