package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCommandExists(t *testing.T) {
	// Test with a command that should exist on most systems
	if !CommandExists("sh") {
		t.Error("Expected 'sh' command to exist")
	}

	// Test with a command that shouldn't exist
	if CommandExists("definitely_does_not_exist_command_12345") {
		t.Error("Expected non-existent command to return false")
	}

	if path, ok := LookupCommand("sh"); !ok || !filepath.IsAbs(path) {
		t.Errorf("Expected absolute path for sh, got %q", path)
	}
}

func TestGetToolVersion(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "fake-tool")
	body := "#!/bin/sh\n[ \"$1\" = \"--version\" ] || exit 2\necho\necho 'fake-tool 1.2.3' >&2\necho 'second line'\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}

	version, err := GetToolVersion(script, "--version")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if version != "fake-tool 1.2.3" {
		t.Errorf("Expected 'fake-tool 1.2.3', got %q", version)
	}

	if _, err := GetToolVersion(script, "-V"); err == nil {
		t.Error("Expected error for a failing version flag")
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"\n\n", ""},
		{"smartctl 7.4 2023-08-01\nCopyright", "smartctl 7.4 2023-08-01"},
		{"\n  nvme version 2.8  \n", "nvme version 2.8"},
	}

	for _, tt := range tests {
		if got := FirstLine(tt.in); got != tt.want {
			t.Errorf("FirstLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
