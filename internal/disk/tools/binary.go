package tools

import "ssd-validator/internal/utils"

// BinaryTool is a tool detected by name only, for utilities that need no
// dedicated wrapper
type BinaryTool struct {
	name        string
	versionFlag string
}

// NewBinaryTool creates a BinaryTool. An empty versionFlag skips version lookup.
func NewBinaryTool(name, versionFlag string) *BinaryTool {
	return &BinaryTool{name: name, versionFlag: versionFlag}
}

// IsAvailable checks if the binary is in PATH
func (b *BinaryTool) IsAvailable() bool {
	return utils.CommandExists(b.name)
}

// GetVersion returns the first line of the version output
func (b *BinaryTool) GetVersion() string {
	if !b.IsAvailable() {
		return ""
	}
	if b.versionFlag == "" {
		return "unknown"
	}

	version, err := utils.GetToolVersion(b.name, b.versionFlag)
	if err != nil || version == "" {
		return "unknown"
	}
	return version
}

// GetName returns the tool name
func (b *BinaryTool) GetName() string {
	return b.name
}

// All returns every tool the validation suites invoke
func All() []ToolInterface {
	return []ToolInterface{
		NewLsblkTool(),
		NewBinaryTool("smartctl", "--version"),
		NewBinaryTool("nvme", "version"),
		NewBinaryTool("fio", "--version"),
		NewBinaryTool("dd", "--version"),
		NewBinaryTool("ioping", "-v"),
		NewBinaryTool("sensors", "-v"),
		NewBinaryTool("fsck", "-V"),
		NewBinaryTool("debugfs", ""),
		NewBinaryTool("tune2fs", ""),
		NewBinaryTool("resize2fs", ""),
		NewBinaryTool("journalctl", "--version"),
		NewBinaryTool("df", "--version"),
		NewBinaryTool("mount", "--version"),
		NewBinaryTool("sudo", "--version"),
	}
}
