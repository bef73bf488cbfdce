package annotation

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// DecodeContext reads an export context bundle from r. Annotations that
// reference an instance_id with no entry in items are tolerated; each such
// reference produces one warning so the caller can surface it.
func DecodeContext(r io.Reader) (*ExportContext, []string, error) {
	var ctx ExportContext
	dec := json.NewDecoder(r)
	if err := dec.Decode(&ctx); err != nil {
		return nil, nil, fmt.Errorf("decode context bundle: %w", err)
	}
	if ctx.Items == nil {
		ctx.Items = make(map[string]Item)
	}

	var warnings []string
	seen := make(map[string]bool)
	for _, rec := range ctx.Annotations {
		if seen[rec.InstanceID] {
			continue
		}
		seen[rec.InstanceID] = true
		if _, ok := ctx.Items[rec.InstanceID]; !ok {
			warnings = append(warnings, fmt.Sprintf("annotation references instance %q with no item entry", rec.InstanceID))
		}
	}
	return &ctx, warnings, nil
}

// LoadContext reads an export context bundle from a JSON file.
func LoadContext(path string) (*ExportContext, []string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open context bundle: %w", err)
	}
	defer file.Close()
	return DecodeContext(file)
}
