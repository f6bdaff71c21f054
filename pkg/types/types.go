package types

import "fmt"

// CheckStatus represents the outcome of a single check
type CheckStatus int

const (
	CheckStatusUnknown CheckStatus = 0
	CheckStatusOK      CheckStatus = 1
	CheckStatusFailed  CheckStatus = 2
	CheckStatusSkipped CheckStatus = 3
)

// String returns the lower-case label used in logs, metrics and manifests
func (s CheckStatus) String() string {
	switch s {
	case CheckStatusOK:
		return "ok"
	case CheckStatusFailed:
		return "failed"
	case CheckStatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Device represents a block device selected for validation
type Device struct {
	Path       string `yaml:"path"`                 // /dev/nvme0n1, /dev/sda, etc.
	Model      string `yaml:"model,omitempty"`      // display label reported by lsblk
	Serial     string `yaml:"serial,omitempty"`     // serial number when lsblk exposes it
	Transport  string `yaml:"transport,omitempty"`  // nvme, sata, usb, ...
	Size       int64  `yaml:"size_bytes,omitempty"` // capacity in bytes
	Rotational bool   `yaml:"rotational,omitempty"` // false for SSD/NVMe
}

// Label returns the menu label of the device, "<model> (<path>)"
func (d Device) Label() string {
	if d.Model == "" {
		return d.Path
	}
	return fmt.Sprintf("%s (%s)", d.Model, d.Path)
}

// IsZero reports whether no device is set
func (d Device) IsZero() bool {
	return d.Path == ""
}
