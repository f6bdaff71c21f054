package system

import (
	"os"
	"runtime"
	"sort"

	"github.com/sirupsen/logrus"

	"ssd-validator/internal/disk/tools"
	"ssd-validator/internal/logging"
	"ssd-validator/internal/utils"
)

// ToolStatus describes one external tool
type ToolStatus struct {
	Name      string
	Available bool
	Path      string
	Version   string
}

// SystemInfo holds detected system information
type SystemInfo struct {
	OS       string
	Platform Platform
	IsRoot   bool
	Tools    []ToolStatus
}

// Platform represents the detected platform type
type Platform string

const (
	PlatformLinux   Platform = "linux"
	PlatformMacOS   Platform = "macos"
	PlatformUnknown Platform = "unknown"
)

// Detector handles system detection
type Detector struct {
	info  *SystemInfo
	tools []tools.ToolInterface
	log   *logrus.Entry
}

// New creates a new system detector for the validation toolset
func New(logger *logrus.Logger) *Detector {
	return NewWithTools(logger, tools.All())
}

// NewWithTools creates a detector for a custom tool list
func NewWithTools(logger *logrus.Logger, list []tools.ToolInterface) *Detector {
	return &Detector{
		tools: list,
		log:   logging.Component(logger, "system"),
	}
}

// Detect performs one-time system detection
func (d *Detector) Detect() *SystemInfo {
	if d.info != nil {
		return d.info // Return cached info if already detected
	}

	d.log.Debug("Performing one-time system detection...")

	info := &SystemInfo{
		OS:     runtime.GOOS,
		IsRoot: os.Geteuid() == 0,
	}

	switch info.OS {
	case "linux":
		info.Platform = PlatformLinux
	case "darwin":
		info.Platform = PlatformMacOS
	default:
		info.Platform = PlatformUnknown
	}

	d.log.Debugf("Detected OS: %s", info.OS)

	for _, t := range d.tools {
		status := ToolStatus{Name: t.GetName(), Available: t.IsAvailable()}
		if status.Available {
			status.Path, _ = utils.LookupCommand(t.GetName())
			status.Version = t.GetVersion()
			d.log.Debugf("✓ %s found at: %s", status.Name, status.Path)
		} else {
			d.log.Debugf("✗ %s not found", status.Name)
		}
		info.Tools = append(info.Tools, status)
	}

	d.logDetectedCapabilities(info)

	d.info = info
	return info
}

// logDetectedCapabilities logs the detected system capabilities
func (d *Detector) logDetectedCapabilities(info *SystemInfo) {
	d.log.Info("=== System Detection Summary ===")
	d.log.Infof("Platform: %s", info.Platform)
	d.log.Infof("OS: %s", info.OS)
	if info.IsRoot {
		d.log.Info("Privileges: running as root")
	} else {
		d.log.Info("Privileges: elevated commands use sudo")
	}

	if missing := info.MissingTools(); len(missing) > 0 {
		d.log.Warnf("Missing tools: %v (their checks will record failures)", missing)
	} else {
		d.log.Info("All validation tools available")
	}

	d.log.Info("===============================")
}

// AvailableTools returns the sorted names of tools found in PATH
func (info *SystemInfo) AvailableTools() []string {
	return info.toolNames(true)
}

// MissingTools returns the sorted names of tools not found
func (info *SystemInfo) MissingTools() []string {
	return info.toolNames(false)
}

func (info *SystemInfo) toolNames(available bool) []string {
	var names []string
	for _, t := range info.Tools {
		if t.Available == available {
			names = append(names, t.Name)
		}
	}
	sort.Strings(names)
	return names
}

// IsLinux returns true if running on Linux
func (info *SystemInfo) IsLinux() bool {
	return info.Platform == PlatformLinux
}
