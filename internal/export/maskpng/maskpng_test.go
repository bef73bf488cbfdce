package maskpng

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"annoexport/internal/annotation"
	"annoexport/internal/rle"
)

func maskContext() *annotation.ExportContext {
	return &annotation.ExportContext{
		Schemas: []annotation.Schema{
			{Name: "regions", AnnotationType: annotation.TypeImage, Labels: []string{"sky"}},
		},
		Items: map[string]annotation.Item{
			"img1": {"width": float64(4), "height": float64(2)},
		},
		Annotations: []annotation.AnnotationRecord{{
			InstanceID: "img1",
			UserID:     "u1",
			Images: map[string]annotation.ObjectList{
				"regions": {
					// Top row foreground on a 4x2 grid.
					annotation.Mask{Label: "sky", RLE: rle.Mask{Counts: []int{0, 4, 4}, Size: [2]int{2, 4}}},
				},
			},
		}},
	}
}

func TestExportWritesColoredPNG(t *testing.T) {
	dir := t.TempDir()
	result := New(nil).Export(maskContext(), dir, nil)
	if !result.Success {
		t.Fatalf("export failed: %v", result.Errors)
	}
	if result.Stats["num_masks"] != 1 {
		t.Fatalf("num_masks = %v, want 1", result.Stats["num_masks"])
	}

	file, err := os.Open(filepath.Join(dir, "masks", "img1_sky.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	img, err := png.Decode(file)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 2 {
		t.Fatalf("bounds = %v, want 4x2", img.Bounds())
	}

	// Foreground pixel carries the first palette color, background is
	// fully transparent.
	_, _, _, fa := img.At(0, 0).RGBA()
	if fa == 0 {
		t.Fatal("foreground pixel must be opaque")
	}
	_, _, _, ba := img.At(0, 1).RGBA()
	if ba != 0 {
		t.Fatal("background pixel must be transparent")
	}
}

func TestExportSkipsEmptyMasks(t *testing.T) {
	ctx := maskContext()
	ctx.Annotations[0].Images["regions"] = annotation.ObjectList{
		annotation.Mask{Label: "sky", RLE: rle.Mask{Counts: []int{8}, Size: [2]int{2, 4}}},
	}
	result := New(nil).Export(ctx, t.TempDir(), nil)
	if !result.Success {
		t.Fatalf("export failed: %v", result.Errors)
	}
	if result.Stats["num_masks"] != 0 || len(result.FilesWritten) != 0 {
		t.Fatalf("empty mask should produce no files: %v", result.FilesWritten)
	}
}

func TestExportWarnsWithoutDimensions(t *testing.T) {
	ctx := maskContext()
	ctx.Items["img1"] = annotation.Item{}
	ctx.Annotations[0].Images["regions"] = annotation.ObjectList{
		annotation.Mask{Label: "sky", RLE: rle.Mask{Counts: []int{0, 8}}},
	}
	result := New(nil).Export(ctx, t.TempDir(), nil)
	if !result.Success {
		t.Fatalf("missing dimensions must stay non-fatal: %v", result.Errors)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "dimensions") {
		t.Fatalf("warnings = %v", result.Warnings)
	}
}

func TestExportFallsBackToRLESize(t *testing.T) {
	ctx := maskContext()
	ctx.Items["img1"] = annotation.Item{}
	result := New(nil).Export(ctx, t.TempDir(), nil)
	if !result.Success {
		t.Fatalf("export failed: %v", result.Errors)
	}
	if result.Stats["num_masks"] != 1 {
		t.Fatalf("num_masks = %v, want 1 via RLE size fallback", result.Stats["num_masks"])
	}
}
