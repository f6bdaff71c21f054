package tools

import "context"

// ToolInterface defines the common interface for all CLI tools
type ToolInterface interface {
	// IsAvailable checks if the tool is available on the system
	IsAvailable() bool

	// GetVersion returns the tool version
	GetVersion() string

	// GetName returns the tool name
	GetName() string
}

// InventoryTool lists the host's block devices
type InventoryTool interface {
	ToolInterface

	// Inventory returns the raw lsblk-style JSON document
	Inventory(ctx context.Context) ([]byte, error)
}
