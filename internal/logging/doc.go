// Package logging assembles the structured slog loggers used across the
// export pipeline.
//
// It centralizes level and format plumbing and exposes typed attribute
// aliases plus a no-op logger for tests and wiring code that cannot fail.
// Prefer these constructors over hand-rolled slog setup so every component
// emits log lines with the same shape.
package logging
