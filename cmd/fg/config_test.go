package main

import "testing"

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"default-assembly", "default_assembly"},
		{"Default_Assembly", "default_assembly"},
		{"max-files", "max_files"},
		{"colorize", "colorize"},
		{"portal-url", "portal_url"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := normalizeKey(tt.input); got != tt.want {
				t.Errorf("normalizeKey(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
