package export

import (
	"errors"
	"strings"
	"testing"

	"annoexport/internal/annotation"
)

type fakeExporter struct {
	name     string
	ok       bool
	reason   string
	exported int
}

func (f *fakeExporter) Name() string { return f.name }

func (f *fakeExporter) CanExport(*annotation.ExportContext) (bool, string) {
	return f.ok, f.reason
}

func (f *fakeExporter) Export(*annotation.ExportContext, string, Options) *Result {
	f.exported++
	result := NewResult(f.name)
	result.AddFile("out.json")
	return result
}

func TestRegistryRegister(t *testing.T) {
	reg := NewRegistry(nil)
	if err := reg.Register(&fakeExporter{name: "coco", ok: true}); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(&fakeExporter{name: "coco", ok: true}); !errors.Is(err, ErrDuplicateFormat) {
		t.Fatalf("duplicate registration error = %v, want ErrDuplicateFormat", err)
	}
	if err := reg.Register(&fakeExporter{name: ""}); !errors.Is(err, ErrEmptyFormatName) {
		t.Fatalf("empty name error = %v, want ErrEmptyFormatName", err)
	}
}

func TestRegistryFormatsKeepRegistrationOrder(t *testing.T) {
	reg := NewRegistry(nil)
	for _, name := range []string{"coco", "yolo", "voc"} {
		if err := reg.Register(&fakeExporter{name: name, ok: true}); err != nil {
			t.Fatal(err)
		}
	}
	got := reg.Formats()
	want := []string{"coco", "yolo", "voc"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("formats = %v, want %v", got, want)
		}
	}
}

func TestRegistryExportUnknownFormat(t *testing.T) {
	reg := NewRegistry(nil)
	_, err := reg.Export("nope", &annotation.ExportContext{}, t.TempDir(), nil)
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("error = %v, want ErrUnknownFormat", err)
	}
}

func TestRegistryExportShortCircuitsOnIncompatibleContext(t *testing.T) {
	reg := NewRegistry(nil)
	fake := &fakeExporter{name: "coco", ok: false, reason: "no image schema"}
	if err := reg.Register(fake); err != nil {
		t.Fatal(err)
	}
	result, err := reg.Export("coco", &annotation.ExportContext{}, t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Success {
		t.Fatal("expected failed result")
	}
	if fake.exported != 0 {
		t.Fatal("exporter must not run when CanExport fails")
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "no image schema") {
		t.Fatalf("errors = %v, want the CanExport reason", result.Errors)
	}
	if len(result.FilesWritten) != 0 {
		t.Fatal("no files may be written on a short-circuit")
	}
}

func TestRegistryExportDelegates(t *testing.T) {
	reg := NewRegistry(nil)
	fake := &fakeExporter{name: "coco", ok: true}
	if err := reg.Register(fake); err != nil {
		t.Fatal(err)
	}
	result, err := reg.Export("coco", &annotation.ExportContext{}, t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success || fake.exported != 1 {
		t.Fatalf("delegate failed: success=%v exported=%d", result.Success, fake.exported)
	}
	if _, ok := result.Stats["duration_ms"]; !ok {
		t.Fatal("expected duration_ms stat")
	}
}

func TestOptionsGet(t *testing.T) {
	opts := Options{OptTokenization: "word_punct", OptTagScheme: ""}
	if got := opts.Get(OptTokenization, "whitespace"); got != "word_punct" {
		t.Fatalf("get = %q", got)
	}
	if got := opts.Get(OptTagScheme, "bio"); got != "bio" {
		t.Fatalf("blank value should fall back, got %q", got)
	}
	if got := opts.Get("missing", "fallback"); got != "fallback" {
		t.Fatalf("missing key should fall back, got %q", got)
	}
}
