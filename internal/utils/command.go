// Package utils holds small helpers for probing external tools.
package utils

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// VersionTimeout bounds a single version probe
const VersionTimeout = 5 * time.Second

// LookupCommand returns the resolved path of cmd in PATH
func LookupCommand(cmd string) (string, bool) {
	path, err := exec.LookPath(cmd)
	if err != nil {
		return "", false
	}
	return path, true
}

// CommandExists checks if a command is available in the system PATH
func CommandExists(cmd string) bool {
	_, ok := LookupCommand(cmd)
	return ok
}

// GetToolVersion runs "tool versionFlag" and returns the first non-empty line.
// Some tools print their version on stderr, so both streams are read.
func GetToolVersion(tool string, versionFlag string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), VersionTimeout)
	defer cancel()

	output, err := exec.CommandContext(ctx, tool, versionFlag).CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	return FirstLine(string(output)), nil
}

// FirstLine returns the first non-blank line of s, trimmed
func FirstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
