package textutil

import "testing"

func TestSafeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"rec1", "rec1"},
		{"img 01.jpg", "img_01.jpg"},
		{"a/b:c", "a_b_c"},
		{"speech acts", "speech_acts"},
		{"", "unnamed"},
		{"///", "unnamed"},
		{"  trimmed  ", "trimmed"},
	}
	for _, tt := range tests {
		if got := SafeFileName(tt.input); got != tt.want {
			t.Errorf("SafeFileName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
