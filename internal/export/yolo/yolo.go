// Package yolo writes YOLO label files plus the classes.txt and data.yaml
// companions.
package yolo

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"annoexport/internal/annotation"
	"annoexport/internal/export"
	"annoexport/internal/fileutil"
	"annoexport/internal/geometry"
	"annoexport/internal/logging"
)

// Exporter converts image annotations to normalized YOLO label files.
type Exporter struct {
	logger *slog.Logger
}

// New constructs the YOLO exporter.
func New(logger *slog.Logger) *Exporter {
	return &Exporter{logger: logging.NewComponentLogger(logger, "yolo")}
}

func (e *Exporter) Name() string { return "yolo" }

// CanExport requires an image_annotation schema and image dimensions for
// every annotated instance: without dimensions the normalized coordinates
// cannot be computed, so the whole export is rejected up front.
func (e *Exporter) CanExport(ctx *annotation.ExportContext) (bool, string) {
	if len(ctx.SchemasOfType(annotation.TypeImage)) == 0 {
		return false, "context has no image_annotation schema"
	}
	for _, rec := range ctx.Annotations {
		if len(ctx.ImageObjects(rec)) == 0 {
			continue
		}
		item, ok := ctx.Items[rec.InstanceID]
		if !ok {
			return false, fmt.Sprintf("instance %q has no item entry", rec.InstanceID)
		}
		if _, _, ok := item.Dimensions(); !ok {
			return false, fmt.Sprintf("instance %q is missing image dimensions", rec.InstanceID)
		}
	}
	return true, ""
}

type dataYAML struct {
	Path  string   `yaml:"path"`
	Train string   `yaml:"train"`
	Val   string   `yaml:"val"`
	NC    int      `yaml:"nc"`
	Names []string `yaml:"names"`
}

// Export writes labels/<stem>.txt per annotated image, classes.txt in
// category-id order, and data.yaml.
func (e *Exporter) Export(ctx *annotation.ExportContext, outputDir string, opts export.Options) *export.Result {
	result := export.NewResult(e.Name())
	mapping := annotation.BuildCategoryMapping(ctx)

	// One label file per image stem; stems keep first-encounter order.
	lines := make(map[string][]string)
	var stems []string
	annotationCount := 0

	for _, rec := range ctx.Annotations {
		objects := ctx.ImageObjects(rec)
		if len(objects) == 0 {
			continue
		}
		item := ctx.Items[rec.InstanceID]
		width, height, _ := item.Dimensions()
		stem := fileStem(item.FileName(rec.InstanceID))
		if _, ok := lines[stem]; !ok {
			stems = append(stems, stem)
			lines[stem] = []string{}
		}

		for _, obj := range objects {
			classID, ok := mapping.ID(obj.ObjectLabel())
			if !ok {
				result.Warnf("instance %q: unknown label %q, annotation skipped", rec.InstanceID, obj.ObjectLabel())
				continue
			}
			var x, y, w, h float64
			switch v := obj.(type) {
			case annotation.Bbox:
				x, y, w, h = v.X, v.Y, v.Width, v.Height
			case annotation.Polygon:
				result.Warnf("instance %q: polygon converted to its enclosing bbox", rec.InstanceID)
				x, y, w, h = geometry.PolygonToBBox(v.Points)
			case annotation.Freeform:
				result.Warnf("instance %q: freeform outline converted to its enclosing bbox", rec.InstanceID)
				x, y, w, h = geometry.PolygonToBBox(v.Points)
			default:
				result.Warnf("instance %q: %T annotations are not supported by YOLO export, skipped", rec.InstanceID, obj)
				continue
			}
			cx, cy, nw, nh := geometry.NormalizeBBox(x, y, w, h, float64(width), float64(height))
			lines[stem] = append(lines[stem], fmt.Sprintf("%d %.6f %.6f %.6f %.6f", classID, cx, cy, nw, nh))
			annotationCount++
		}
	}

	labelsDir := filepath.Join(outputDir, "labels")
	if err := fileutil.EnsureDir(labelsDir); err != nil {
		result.Failf("create labels directory: %v", err)
		return result
	}
	for _, stem := range stems {
		path := filepath.Join(labelsDir, stem+".txt")
		content := strings.Join(lines[stem], "\n")
		if content != "" {
			content += "\n"
		}
		if err := fileutil.WriteFileAtomic(path, []byte(content), 0o644); err != nil {
			result.Failf("write %s: %v", path, err)
			return result
		}
		result.AddFile(path)
	}

	classesPath := filepath.Join(outputDir, "classes.txt")
	classes := strings.Join(mapping.Names, "\n")
	if classes != "" {
		classes += "\n"
	}
	if err := fileutil.WriteFileAtomic(classesPath, []byte(classes), 0o644); err != nil {
		result.Failf("write classes.txt: %v", err)
		return result
	}
	result.AddFile(classesPath)

	names := mapping.Names
	if names == nil {
		names = []string{}
	}
	yamlData, err := yaml.Marshal(dataYAML{Path: ".", Train: "images", Val: "images", NC: mapping.Len(), Names: names})
	if err != nil {
		result.Failf("encode data.yaml: %v", err)
		return result
	}
	yamlPath := filepath.Join(outputDir, "data.yaml")
	if err := fileutil.WriteFileAtomic(yamlPath, yamlData, 0o644); err != nil {
		result.Failf("write data.yaml: %v", err)
		return result
	}
	result.AddFile(yamlPath)

	result.SetStat("num_images", float64(len(stems)))
	result.SetStat("num_annotations", float64(annotationCount))
	result.SetStat("num_categories", float64(mapping.Len()))
	return result
}

func fileStem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
