// Package textutil holds small text helpers shared by the exporters.
package textutil

import "strings"

// SafeFileName converts a value to a filesystem-safe filename component.
// Letters, digits, dots, hyphens and underscores are kept; everything else
// becomes an underscore. Returns "unnamed" when nothing survives.
func SafeFileName(value string) string {
	value = strings.TrimSpace(value)
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "unnamed"
	}
	return out
}
