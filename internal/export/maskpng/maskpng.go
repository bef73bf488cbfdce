// Package maskpng rasterizes RLE mask annotations into per-label RGBA PNGs.
package maskpng

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"path/filepath"

	"annoexport/internal/annotation"
	"annoexport/internal/export"
	"annoexport/internal/fileutil"
	"annoexport/internal/logging"
	"annoexport/internal/rle"
	"annoexport/internal/textutil"
)

// palette holds the ten colors cycled through by category index.
var palette = []color.NRGBA{
	{230, 25, 75, 255},
	{60, 180, 75, 255},
	{255, 225, 25, 255},
	{0, 130, 200, 255},
	{245, 130, 48, 255},
	{145, 30, 180, 255},
	{70, 240, 240, 255},
	{240, 50, 230, 255},
	{210, 245, 60, 255},
	{250, 190, 212, 255},
}

// Exporter writes one PNG per (instance, label) pair that has a nonzero mask.
type Exporter struct {
	logger *slog.Logger
}

// New constructs the mask PNG exporter.
func New(logger *slog.Logger) *Exporter {
	return &Exporter{logger: logging.NewComponentLogger(logger, "maskpng")}
}

func (e *Exporter) Name() string { return "mask_png" }

// CanExport requires at least one image_annotation schema.
func (e *Exporter) CanExport(ctx *annotation.ExportContext) (bool, string) {
	if len(ctx.SchemasOfType(annotation.TypeImage)) == 0 {
		return false, "context has no image_annotation schema"
	}
	return true, ""
}

type maskKey struct {
	instanceID string
	label      string
}

// Export unions all masks sharing an (instance, label) pair, colors them by
// category index, and writes masks/<instance>_<label>.png files.
func (e *Exporter) Export(ctx *annotation.ExportContext, outputDir string, opts export.Options) *export.Result {
	result := export.NewResult(e.Name())
	mapping := annotation.BuildCategoryMapping(ctx)

	merged := make(map[maskKey][]byte)
	dims := make(map[maskKey][2]int)
	var order []maskKey

	for _, rec := range ctx.Annotations {
		for _, obj := range ctx.ImageObjects(rec) {
			mask, ok := obj.(annotation.Mask)
			if !ok {
				continue
			}
			width, height := 0, 0
			if item, ok := ctx.Items[rec.InstanceID]; ok {
				width, height, _ = item.Dimensions()
			}
			if width <= 0 || height <= 0 {
				width, height = mask.RLE.Width(), mask.RLE.Height()
			}
			if width <= 0 || height <= 0 {
				result.Warnf("instance %q: mask %q has no usable dimensions, skipped", rec.InstanceID, mask.Label)
				continue
			}

			key := maskKey{instanceID: rec.InstanceID, label: mask.Label}
			decoded := rle.Decode(mask.RLE.Counts, width, height)
			existing, ok := merged[key]
			if !ok {
				merged[key] = decoded
				dims[key] = [2]int{width, height}
				order = append(order, key)
				continue
			}
			if dims[key] != [2]int{width, height} {
				result.Warnf("instance %q: mask %q has mismatched dimensions, skipped", rec.InstanceID, mask.Label)
				continue
			}
			for i := range existing {
				existing[i] |= decoded[i]
			}
		}
	}

	masksDir := filepath.Join(outputDir, "masks")
	if err := fileutil.EnsureDir(masksDir); err != nil {
		result.Failf("create masks directory: %v", err)
		return result
	}

	written := 0
	for _, key := range order {
		mask := merged[key]
		if rle.Area(mask) == 0 {
			continue
		}
		categoryID, ok := mapping.ID(key.label)
		if !ok {
			result.Warnf("instance %q: unknown label %q, mask skipped", key.instanceID, key.label)
			continue
		}

		width, height := dims[key][0], dims[key][1]
		img := image.NewNRGBA(image.Rect(0, 0, width, height))
		tint := palette[categoryID%len(palette)]
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if mask[y*width+x] != 0 {
					img.SetNRGBA(x, y, tint)
				}
			}
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			result.Failf("encode mask for instance %q label %q: %v", key.instanceID, key.label, err)
			return result
		}
		path := filepath.Join(masksDir, fmt.Sprintf("%s_%s.png", textutil.SafeFileName(key.instanceID), textutil.SafeFileName(key.label)))
		if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
			result.Failf("write %s: %v", path, err)
			return result
		}
		result.AddFile(path)
		written++
	}

	result.SetStat("num_masks", float64(written))
	return result
}
