// Package builtin wires the fixed set of shipped exporters into a registry.
// Call NewRegistry once at process entry and pass the value down; nothing
// mutates it afterwards.
package builtin

import (
	"log/slog"

	"annoexport/internal/export"
	"annoexport/internal/export/coco"
	"annoexport/internal/export/conll"
	"annoexport/internal/export/maskpng"
	"annoexport/internal/export/tiered"
	"annoexport/internal/export/voc"
	"annoexport/internal/export/yolo"
)

// NewRegistry constructs a registry holding every built-in exporter.
func NewRegistry(logger *slog.Logger) (*export.Registry, error) {
	registry := export.NewRegistry(logger)
	exporters := []export.Exporter{
		coco.New(logger),
		yolo.New(logger),
		voc.New(logger),
		conll.NewCoNLL2003(logger),
		conll.NewCoNLLU(logger),
		maskpng.New(logger),
		tiered.NewEAF(logger),
		tiered.NewTextGrid(logger),
	}
	for _, exporter := range exporters {
		if err := registry.Register(exporter); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
