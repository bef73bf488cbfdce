// Package voc writes Pascal VOC XML annotation files, one per image.
package voc

import (
	"encoding/xml"
	"log/slog"
	"path/filepath"

	"annoexport/internal/annotation"
	"annoexport/internal/export"
	"annoexport/internal/fileutil"
	"annoexport/internal/geometry"
	"annoexport/internal/logging"
)

// Exporter converts image annotations to per-image Pascal VOC XML.
type Exporter struct {
	logger *slog.Logger
}

// New constructs the Pascal VOC exporter.
func New(logger *slog.Logger) *Exporter {
	return &Exporter{logger: logging.NewComponentLogger(logger, "voc")}
}

func (e *Exporter) Name() string { return "voc" }

// CanExport requires at least one image_annotation schema.
func (e *Exporter) CanExport(ctx *annotation.ExportContext) (bool, string) {
	if len(ctx.SchemasOfType(annotation.TypeImage)) == 0 {
		return false, "context has no image_annotation schema"
	}
	return true, ""
}

type vocAnnotation struct {
	XMLName   xml.Name    `xml:"annotation"`
	Folder    string      `xml:"folder"`
	Filename  string      `xml:"filename"`
	Size      vocSize     `xml:"size"`
	Segmented int         `xml:"segmented"`
	Objects   []vocObject `xml:"object"`
}

type vocSize struct {
	Width  int `xml:"width"`
	Height int `xml:"height"`
	Depth  int `xml:"depth"`
}

type vocObject struct {
	Name      string `xml:"name"`
	Pose      string `xml:"pose"`
	Truncated int    `xml:"truncated"`
	Difficult int    `xml:"difficult"`
	BndBox    vocBox `xml:"bndbox"`
}

type vocBox struct {
	XMin int `xml:"xmin"`
	YMin int `xml:"ymin"`
	XMax int `xml:"xmax"`
	YMax int `xml:"ymax"`
}

// Export writes one <stem>.xml per annotated instance. The first record for
// an instance wins; later records for the same instance are merged into the
// same document.
func (e *Exporter) Export(ctx *annotation.ExportContext, outputDir string, opts export.Options) *export.Result {
	result := export.NewResult(e.Name())

	docs := make(map[string]*vocAnnotation)
	var order []string
	objectCount := 0

	for _, rec := range ctx.Annotations {
		objects := ctx.ImageObjects(rec)
		if len(objects) == 0 {
			continue
		}

		doc, ok := docs[rec.InstanceID]
		if !ok {
			doc = &vocAnnotation{Folder: "images", Filename: rec.InstanceID, Size: vocSize{Depth: 3}}
			if item, ok := ctx.Items[rec.InstanceID]; ok {
				doc.Filename = item.FileName(rec.InstanceID)
				if w, h, ok := item.Dimensions(); ok {
					doc.Size.Width, doc.Size.Height = w, h
				} else {
					result.Warnf("instance %q is missing image dimensions", rec.InstanceID)
				}
			} else {
				result.Warnf("instance %q has no item entry", rec.InstanceID)
			}
			docs[rec.InstanceID] = doc
			order = append(order, rec.InstanceID)
		}

		for _, obj := range objects {
			var x, y, w, h float64
			switch v := obj.(type) {
			case annotation.Bbox:
				x, y, w, h = v.X, v.Y, v.Width, v.Height
			case annotation.Polygon:
				x, y, w, h = geometry.PolygonToBBox(v.Points)
			case annotation.Freeform:
				x, y, w, h = geometry.PolygonToBBox(v.Points)
			case annotation.Landmark:
				result.Warnf("instance %q: landmark annotations are not supported by Pascal VOC export, skipped", rec.InstanceID)
				continue
			case annotation.Mask:
				result.Warnf("instance %q: mask annotations are not supported by Pascal VOC export, skipped", rec.InstanceID)
				continue
			}
			doc.Objects = append(doc.Objects, vocObject{
				Name: obj.ObjectLabel(),
				Pose: "Unspecified",
				BndBox: vocBox{
					XMin: int(x),
					YMin: int(y),
					XMax: int(x + w),
					YMax: int(y + h),
				},
			})
			objectCount++
		}
	}

	if err := fileutil.EnsureDir(outputDir); err != nil {
		result.Failf("create output directory: %v", err)
		return result
	}
	for _, instanceID := range order {
		doc := docs[instanceID]
		data, err := xml.MarshalIndent(doc, "", "  ")
		if err != nil {
			result.Failf("encode VOC document for %q: %v", instanceID, err)
			return result
		}
		path := filepath.Join(outputDir, fileStem(doc.Filename)+".xml")
		if err := fileutil.WriteFileAtomic(path, append(data, '\n'), 0o644); err != nil {
			result.Failf("write %s: %v", path, err)
			return result
		}
		result.AddFile(path)
	}

	result.SetStat("num_images", float64(len(order)))
	result.SetStat("num_objects", float64(objectCount))
	return result
}

func fileStem(name string) string {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	if ext == ".xml" || ext == "" {
		return base
	}
	return base[:len(base)-len(ext)]
}
