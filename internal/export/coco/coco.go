// Package coco writes the COCO object-detection/segmentation JSON format.
package coco

import (
	"encoding/json"
	"log/slog"
	"path/filepath"

	"annoexport/internal/annotation"
	"annoexport/internal/export"
	"annoexport/internal/fileutil"
	"annoexport/internal/geometry"
	"annoexport/internal/logging"
	"annoexport/internal/rle"
)

const outputFile = "annotations.json"

// Exporter converts image annotations to a single COCO JSON document.
type Exporter struct {
	logger *slog.Logger
}

// New constructs the COCO exporter.
func New(logger *slog.Logger) *Exporter {
	return &Exporter{logger: logging.NewComponentLogger(logger, "coco")}
}

func (e *Exporter) Name() string { return "coco" }

// CanExport requires at least one image_annotation schema.
func (e *Exporter) CanExport(ctx *annotation.ExportContext) (bool, string) {
	if len(ctx.SchemasOfType(annotation.TypeImage)) == 0 {
		return false, "context has no image_annotation schema"
	}
	return true, ""
}

type document struct {
	Images      []imageEntry      `json:"images"`
	Annotations []annotationEntry `json:"annotations"`
	Categories  []categoryEntry   `json:"categories"`
}

type imageEntry struct {
	ID       int    `json:"id"`
	FileName string `json:"file_name"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

type annotationEntry struct {
	ID           int        `json:"id"`
	ImageID      int        `json:"image_id"`
	CategoryID   int        `json:"category_id"`
	BBox         [4]float64 `json:"bbox"`
	Area         float64    `json:"area"`
	Segmentation any        `json:"segmentation"`
	IsCrowd      int        `json:"iscrowd"`
}

type categoryEntry struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Supercategory string `json:"supercategory"`
}

// Export materializes the COCO document in memory and writes it as a single
// annotations.json under outputDir.
func (e *Exporter) Export(ctx *annotation.ExportContext, outputDir string, opts export.Options) *export.Result {
	result := export.NewResult(e.Name())
	mapping := annotation.BuildCategoryMapping(ctx)

	doc := document{
		Images:      []imageEntry{},
		Annotations: []annotationEntry{},
		Categories:  make([]categoryEntry, 0, mapping.Len()),
	}
	for i, name := range mapping.Names {
		doc.Categories = append(doc.Categories, categoryEntry{ID: i + 1, Name: name, Supercategory: "none"})
	}

	// First occurrence of an instance wins its dimensions and filename.
	imageIDs := make(map[string]int)
	imageDims := make(map[string][2]int)
	nextAnnotationID := 1

	for _, rec := range ctx.Annotations {
		objects := ctx.ImageObjects(rec)
		if len(objects) == 0 {
			continue
		}

		imageID, seen := imageIDs[rec.InstanceID]
		if !seen {
			imageID = len(imageIDs) + 1
			imageIDs[rec.InstanceID] = imageID

			entry := imageEntry{ID: imageID, FileName: rec.InstanceID}
			item, ok := ctx.Items[rec.InstanceID]
			if !ok {
				result.Warnf("instance %q has no item entry; emitting zero image dimensions", rec.InstanceID)
			} else {
				entry.FileName = item.FileName(rec.InstanceID)
				if w, h, ok := item.Dimensions(); ok {
					entry.Width, entry.Height = w, h
				} else {
					result.Warnf("instance %q is missing image dimensions", rec.InstanceID)
				}
			}
			imageDims[rec.InstanceID] = [2]int{entry.Width, entry.Height}
			doc.Images = append(doc.Images, entry)
		}

		dims := imageDims[rec.InstanceID]
		for _, obj := range objects {
			entry, ok := e.annotationFor(obj, rec.InstanceID, imageID, dims, mapping, result)
			if !ok {
				continue
			}
			entry.ID = nextAnnotationID
			nextAnnotationID++
			doc.Annotations = append(doc.Annotations, entry)
		}
	}

	result.SetStat("num_images", float64(len(doc.Images)))
	result.SetStat("num_annotations", float64(len(doc.Annotations)))
	result.SetStat("num_categories", float64(len(doc.Categories)))

	if err := fileutil.EnsureDir(outputDir); err != nil {
		result.Failf("create output directory: %v", err)
		return result
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		result.Failf("encode COCO document: %v", err)
		return result
	}
	path := filepath.Join(outputDir, outputFile)
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		result.Failf("write %s: %v", outputFile, err)
		return result
	}
	result.AddFile(path)
	return result
}

func (e *Exporter) annotationFor(obj annotation.Object, instanceID string, imageID int, dims [2]int, mapping annotation.CategoryMapping, result *export.Result) (annotationEntry, bool) {
	label := obj.ObjectLabel()
	categoryID, ok := mapping.ID(label)
	if !ok {
		result.Warnf("instance %q: unknown label %q, annotation skipped", instanceID, label)
		return annotationEntry{}, false
	}

	entry := annotationEntry{ImageID: imageID, CategoryID: categoryID + 1, Segmentation: []any{}}
	switch v := obj.(type) {
	case annotation.Bbox:
		entry.BBox = [4]float64{v.X, v.Y, v.Width, v.Height}
		entry.Area = v.Width * v.Height
	case annotation.Polygon:
		return e.polygonEntry(entry, v.Points), true
	case annotation.Freeform:
		return e.polygonEntry(entry, v.Points), true
	case annotation.Mask:
		return e.maskEntry(entry, v.RLE, instanceID, dims, result)
	case annotation.Landmark:
		result.Warnf("instance %q: landmark annotations are not supported by COCO export, skipped", instanceID)
		return annotationEntry{}, false
	}
	return entry, true
}

func (e *Exporter) polygonEntry(entry annotationEntry, points []geometry.Point) annotationEntry {
	x, y, w, h := geometry.PolygonToBBox(points)
	entry.BBox = [4]float64{x, y, w, h}
	entry.Area = geometry.PolygonArea(points)
	entry.Segmentation = [][]float64{geometry.FlattenPolygon(points)}
	return entry
}

func (e *Exporter) maskEntry(entry annotationEntry, m rle.Mask, instanceID string, dims [2]int, result *export.Result) (annotationEntry, bool) {
	width, height := dims[0], dims[1]
	if width <= 0 || height <= 0 {
		width, height = m.Width(), m.Height()
	}
	if width <= 0 || height <= 0 {
		result.Warnf("instance %q: mask has no usable dimensions, skipped", instanceID)
		return annotationEntry{}, false
	}

	decoded := rle.Decode(m.Counts, width, height)
	box := rle.BBox(decoded, width, height)
	entry.BBox = [4]float64{float64(box[0]), float64(box[1]), float64(box[2]), float64(box[3])}
	entry.Area = float64(rle.Area(decoded))
	entry.Segmentation = map[string]any{
		"counts": rle.EncodeCOCOString(rle.ColumnMajorCounts(decoded, width, height)),
		"size":   []int{height, width},
	}
	entry.IsCrowd = 1
	return entry, true
}
