package export

import "fmt"

// Result is the outcome of one export call. It is built up during the call
// and never mutated after being returned.
type Result struct {
	Success      bool               `json:"success"`
	Format       string             `json:"format"`
	FilesWritten []string           `json:"files_written"`
	Warnings     []string           `json:"warnings,omitempty"`
	Errors       []string           `json:"errors,omitempty"`
	Stats        map[string]float64 `json:"stats,omitempty"`
}

// NewResult starts a successful empty result for the named format.
func NewResult(format string) *Result {
	return &Result{
		Success: true,
		Format:  format,
		Stats:   make(map[string]float64),
	}
}

// AddFile records a written output path.
func (r *Result) AddFile(path string) {
	r.FilesWritten = append(r.FilesWritten, path)
}

// Warnf records a non-fatal problem; the export continues.
func (r *Result) Warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Failf records a fatal problem and marks the result failed.
func (r *Result) Failf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Success = false
}

// SetStat records a named numeric statistic.
func (r *Result) SetStat(key string, value float64) {
	r.Stats[key] = value
}
