package disk

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// DefaultIgnorePatterns exclude virtual block devices
var DefaultIgnorePatterns = []string{"/dev/loop", "/dev/ram", "/dev/zram"}

// Filter applies the configured target and ignore lists
type Filter struct {
	targetDisks    []string
	ignorePatterns []string
	log            *logrus.Entry
}

// NewFilter creates a Filter. An empty target list includes every disk that
// is not ignored.
func NewFilter(targetDisks, ignorePatterns []string, log *logrus.Entry) *Filter {
	return &Filter{
		targetDisks:    targetDisks,
		ignorePatterns: ignorePatterns,
		log:            log,
	}
}

// shouldIncludeDisk checks if a disk should be included based on configuration
func (f *Filter) shouldIncludeDisk(device string) bool {
	for _, pattern := range f.ignorePatterns {
		if pattern != "" && strings.HasPrefix(device, pattern) {
			f.log.Debugf("Ignoring disk %s (matches ignore pattern: %s)", device, pattern)
			return false
		}
	}

	if len(f.targetDisks) > 0 {
		for _, target := range f.targetDisks {
			if device == target {
				f.log.Debugf("Including target disk: %s", device)
				return true
			}
		}
		f.log.Debugf("Skipping disk %s (not in target list)", device)
		return false
	}

	return true
}
