package export

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"annoexport/internal/annotation"
	"annoexport/internal/logging"
)

// Registry errors.
var (
	ErrUnknownFormat   = errors.New("unknown export format")
	ErrEmptyFormatName = errors.New("exporter has empty format name")
	ErrDuplicateFormat = errors.New("export format already registered")
)

// Registry maps format names to exporter instances. It is populated once at
// process start and treated as read-only afterwards, so lookups and exports
// need no locking.
type Registry struct {
	logger    *slog.Logger
	exporters map[string]Exporter
	names     []string
}

// NewRegistry constructs an empty registry. A nil logger is replaced with a
// no-op logger.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:    logging.NewComponentLogger(logger, "registry"),
		exporters: make(map[string]Exporter),
	}
}

// Register adds an exporter, rejecting empty and duplicate format names.
func (r *Registry) Register(exporter Exporter) error {
	name := exporter.Name()
	if name == "" {
		return ErrEmptyFormatName
	}
	if _, ok := r.exporters[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateFormat, name)
	}
	r.exporters[name] = exporter
	r.names = append(r.names, name)
	return nil
}

// Get looks up an exporter by format name.
func (r *Registry) Get(name string) (Exporter, bool) {
	e, ok := r.exporters[name]
	return e, ok
}

// Formats returns the registered format names in registration order.
func (r *Registry) Formats() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Export dispatches to the named exporter. Unregistered names yield
// ErrUnknownFormat. An incompatible context short-circuits to a failed
// Result without touching the filesystem.
func (r *Registry) Export(name string, ctx *annotation.ExportContext, outputDir string, opts Options) (*Result, error) {
	exporter, ok := r.exporters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}

	runID := uuid.NewString()
	logger := r.logger.With(logging.String("run_id", runID), logging.String("format", name))

	if ok, reason := exporter.CanExport(ctx); !ok {
		logger.Warn("context incompatible with format", logging.String("reason", reason))
		result := NewResult(name)
		result.Failf("cannot export to %s: %s", name, reason)
		return result, nil
	}

	logger.Info("export started",
		logging.Int("annotations", len(ctx.Annotations)),
		logging.String("output_dir", outputDir),
	)
	started := time.Now()
	result := exporter.Export(ctx, outputDir, opts)
	result.SetStat("duration_ms", float64(time.Since(started).Milliseconds()))

	logger.Info("export finished",
		logging.Bool("success", result.Success),
		logging.Int("files_written", len(result.FilesWritten)),
		logging.Int("warnings", len(result.Warnings)),
	)
	return result, nil
}
