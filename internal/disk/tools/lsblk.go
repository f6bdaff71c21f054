package tools

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"ssd-validator/internal/utils"
)

// lsblkColumns are requested explicitly so the JSON keys are stable
var lsblkColumns = []string{"NAME", "PATH", "TYPE", "MODEL", "SERIAL", "SIZE", "TRAN", "ROTA"}

// LsblkTool represents the lsblk CLI tool
type LsblkTool struct {
	path string
}

// NewLsblkTool creates a new LsblkTool instance
func NewLsblkTool() *LsblkTool {
	return &LsblkTool{path: "lsblk"}
}

// IsAvailable checks if lsblk is available on the system
func (l *LsblkTool) IsAvailable() bool {
	return utils.CommandExists(l.path)
}

// GetVersion returns the lsblk version
func (l *LsblkTool) GetVersion() string {
	if !l.IsAvailable() {
		return ""
	}

	version, err := utils.GetToolVersion(l.path, "--version")
	if err != nil {
		return "unknown"
	}
	return version
}

// GetName returns the tool name
func (l *LsblkTool) GetName() string {
	return "lsblk"
}

// Args returns the lsblk arguments used for the inventory query
func (l *LsblkTool) Args() []string {
	return []string{"--json", "--nodeps", "--paths", "--bytes", "--output", strings.Join(lsblkColumns, ",")}
}

// Inventory lists whole block devices as JSON
func (l *LsblkTool) Inventory(ctx context.Context) ([]byte, error) {
	cmd := exec.CommandContext(ctx, l.path, l.Args()...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return nil, fmt.Errorf("running %s: %w (stderr: %s)", cmd, err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}
