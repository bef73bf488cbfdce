package coco

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"annoexport/internal/annotation"
	"annoexport/internal/geometry"
	"annoexport/internal/rle"
)

func readDocument(t *testing.T, dir string) document {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "annotations.json"))
	if err != nil {
		t.Fatal(err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestCanExportRequiresImageSchema(t *testing.T) {
	e := New(nil)
	ok, reason := e.CanExport(&annotation.ExportContext{
		Schemas: []annotation.Schema{{Name: "ner", AnnotationType: annotation.TypeSpan}},
	})
	if ok || reason == "" {
		t.Fatalf("expected rejection with reason, got ok=%v reason=%q", ok, reason)
	}
}

func TestExportBboxEndToEnd(t *testing.T) {
	ctx := &annotation.ExportContext{
		Schemas: []annotation.Schema{
			{Name: "objects", AnnotationType: annotation.TypeImage, Labels: []string{"cat"}},
		},
		Items: map[string]annotation.Item{},
	}
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("img%d", i)
		ctx.Items[id] = annotation.Item{"width": float64(100), "height": float64(100), "file_name": id + ".jpg"}
		ctx.Annotations = append(ctx.Annotations, annotation.AnnotationRecord{
			InstanceID: id,
			UserID:     "u1",
			Images: map[string]annotation.ObjectList{
				"objects": {annotation.Bbox{Label: "cat", X: 10, Y: 10, Width: 20, Height: 30}},
			},
		})
	}

	dir := t.TempDir()
	result := New(nil).Export(ctx, dir, nil)
	if !result.Success {
		t.Fatalf("export failed: %v", result.Errors)
	}
	if result.Stats["num_images"] != 5 || result.Stats["num_annotations"] != 5 || result.Stats["num_categories"] != 1 {
		t.Fatalf("stats = %v, want 5 images, 5 annotations, 1 category", result.Stats)
	}

	doc := readDocument(t, dir)
	if len(doc.Images) != 5 || len(doc.Annotations) != 5 || len(doc.Categories) != 1 {
		t.Fatalf("document sizes: %d images, %d annotations, %d categories",
			len(doc.Images), len(doc.Annotations), len(doc.Categories))
	}
	if doc.Categories[0].ID != 1 || doc.Categories[0].Name != "cat" {
		t.Fatalf("category = %+v, want id 1 name cat", doc.Categories[0])
	}
	ann := doc.Annotations[0]
	if ann.ID != 1 || ann.CategoryID != 1 || ann.Area != 600 || ann.IsCrowd != 0 {
		t.Fatalf("annotation = %+v", ann)
	}
	if ann.BBox != [4]float64{10, 10, 20, 30} {
		t.Fatalf("bbox = %v", ann.BBox)
	}
}

func TestExportPolygonSegmentation(t *testing.T) {
	ctx := &annotation.ExportContext{
		Schemas: []annotation.Schema{{Name: "objects", AnnotationType: annotation.TypeImage}},
		Items:   map[string]annotation.Item{"img": {"width": float64(200), "height": float64(200)}},
		Annotations: []annotation.AnnotationRecord{{
			InstanceID: "img",
			Images: map[string]annotation.ObjectList{
				"objects": {annotation.Polygon{Label: "roof", Points: []geometry.Point{{0, 0}, {100, 0}, {50, 80}}}},
			},
		}},
	}

	dir := t.TempDir()
	result := New(nil).Export(ctx, dir, nil)
	if !result.Success {
		t.Fatalf("export failed: %v", result.Errors)
	}
	doc := readDocument(t, dir)
	ann := doc.Annotations[0]
	if ann.BBox != [4]float64{0, 0, 100, 80} {
		t.Fatalf("derived bbox = %v, want [0 0 100 80]", ann.BBox)
	}
	if ann.Area != 4000 {
		t.Fatalf("shoelace area = %v, want 4000", ann.Area)
	}
	seg, ok := ann.Segmentation.([]any)
	if !ok || len(seg) != 1 {
		t.Fatalf("segmentation = %#v, want one flattened polygon", ann.Segmentation)
	}
}

func TestExportMaskUsesCOCORLE(t *testing.T) {
	ctx := &annotation.ExportContext{
		Schemas: []annotation.Schema{{Name: "objects", AnnotationType: annotation.TypeImage}},
		Items:   map[string]annotation.Item{"img": {"width": float64(2), "height": float64(2)}},
		Annotations: []annotation.AnnotationRecord{{
			InstanceID: "img",
			Images: map[string]annotation.ObjectList{
				"objects": {annotation.Mask{Label: "sky", RLE: rle.Mask{Counts: []int{1, 1, 1, 1}, Size: [2]int{2, 2}}}},
			},
		}},
	}

	dir := t.TempDir()
	result := New(nil).Export(ctx, dir, nil)
	if !result.Success {
		t.Fatalf("export failed: %v", result.Errors)
	}
	doc := readDocument(t, dir)
	ann := doc.Annotations[0]
	if ann.IsCrowd != 1 {
		t.Fatalf("iscrowd = %d, want 1 for RLE masks", ann.IsCrowd)
	}
	seg, ok := ann.Segmentation.(map[string]any)
	if !ok {
		t.Fatalf("segmentation = %#v, want RLE object", ann.Segmentation)
	}
	counts, _ := seg["counts"].(string)
	want := rle.EncodeCOCOString([]int{2, 2})
	if counts != want {
		t.Fatalf("counts = %q, want %q", counts, want)
	}
	if ann.Area != 2 {
		t.Fatalf("area = %v, want 2 foreground pixels", ann.Area)
	}
}

func TestExportSkipsLandmarksWithWarning(t *testing.T) {
	ctx := &annotation.ExportContext{
		Schemas: []annotation.Schema{{Name: "objects", AnnotationType: annotation.TypeImage}},
		Items:   map[string]annotation.Item{"img": {"width": float64(10), "height": float64(10)}},
		Annotations: []annotation.AnnotationRecord{{
			InstanceID: "img",
			Images: map[string]annotation.ObjectList{
				"objects": {
					annotation.Landmark{Label: "eye", X: 3, Y: 4},
					annotation.Bbox{Label: "face", X: 0, Y: 0, Width: 5, Height: 5},
				},
			},
		}},
	}

	result := New(nil).Export(ctx, t.TempDir(), nil)
	if !result.Success {
		t.Fatalf("export failed: %v", result.Errors)
	}
	if result.Stats["num_annotations"] != 1 {
		t.Fatalf("num_annotations = %v, want 1 (landmark skipped)", result.Stats["num_annotations"])
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "landmark") {
			found = true
		}
	}
	if !found {
		t.Fatalf("warnings = %v, want a landmark warning", result.Warnings)
	}
}

func TestExportWarnsOnMissingItem(t *testing.T) {
	ctx := &annotation.ExportContext{
		Schemas: []annotation.Schema{{Name: "objects", AnnotationType: annotation.TypeImage}},
		Items:   map[string]annotation.Item{},
		Annotations: []annotation.AnnotationRecord{{
			InstanceID: "ghost",
			Images: map[string]annotation.ObjectList{
				"objects": {annotation.Bbox{Label: "cat", X: 0, Y: 0, Width: 1, Height: 1}},
			},
		}},
	}

	result := New(nil).Export(ctx, t.TempDir(), nil)
	if !result.Success {
		t.Fatalf("missing item must stay non-fatal: %v", result.Errors)
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected a warning about the missing item")
	}
}
