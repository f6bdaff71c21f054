// Package disk discovers the block devices eligible for validation.
package disk

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"ssd-validator/internal/disk/tools"
	"ssd-validator/internal/logging"
	"ssd-validator/pkg/types"
)

// ErrNoDevices is returned when the inventory holds no candidate device
var ErrNoDevices = errors.New("no SSD devices found")

// Manager handles device discovery
type Manager struct {
	source tools.InventoryTool
	filter *Filter
	log    *logrus.Entry
}

// Config selects which discovered disks are kept
type Config struct {
	TargetDisks    []string
	IgnorePatterns []string
}

// New creates a Manager reading the inventory from lsblk
func New(cfg Config, logger *logrus.Logger) *Manager {
	return NewWithSource(tools.NewLsblkTool(), cfg, logger)
}

// NewWithSource creates a Manager with a custom inventory source
func NewWithSource(source tools.InventoryTool, cfg Config, logger *logrus.Logger) *Manager {
	log := logging.Component(logger, "disk")
	return &Manager{
		source: source,
		filter: NewFilter(cfg.TargetDisks, cfg.IgnorePatterns, log),
		log:    log,
	}
}

// ListCandidateDevices queries the inventory and returns whole disks that
// look like NVMe or SSD devices. On failure it returns an empty slice and the
// reason, never a partial list.
func (m *Manager) ListCandidateDevices(ctx context.Context) ([]types.Device, error) {
	m.log.Debugf("Detecting disks using %s...", m.source.GetName())

	data, err := m.source.Inventory(ctx)
	if err != nil {
		m.log.WithError(err).Error("Error fetching SSD devices")
		return []types.Device{}, fmt.Errorf("querying block devices: %w", err)
	}

	all, err := parseInventory(data)
	if err != nil {
		m.log.WithError(err).Error("Error parsing block device inventory")
		return []types.Device{}, err
	}

	devices := make([]types.Device, 0, len(all))
	for _, dev := range all {
		if !isCandidate(dev) {
			continue
		}
		if !m.filter.shouldIncludeDisk(dev.Path) {
			continue
		}
		devices = append(devices, dev.Device)
	}

	m.log.Infof("Found %d SSD devices", len(devices))
	return devices, nil
}

// Find returns the candidate device with the given path
func (m *Manager) Find(ctx context.Context, path string) (types.Device, error) {
	devices, err := m.ListCandidateDevices(ctx)
	if err != nil {
		return types.Device{}, err
	}
	for _, d := range devices {
		if d.Path == path {
			return d, nil
		}
	}
	return types.Device{}, fmt.Errorf("%s is not a candidate SSD device: %w", path, ErrNoDevices)
}

type inventoryEntry struct {
	types.Device
	kind string
}

func parseInventory(data []byte) ([]inventoryEntry, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid lsblk JSON output")
	}

	devices := gjson.GetBytes(data, "blockdevices")
	if !devices.IsArray() {
		return nil, errors.New("lsblk output has no blockdevices array")
	}

	var out []inventoryEntry
	devices.ForEach(func(_, dev gjson.Result) bool {
		path := dev.Get("path").String()
		if path == "" {
			path = dev.Get("name").String()
		}
		if path == "" {
			return true
		}
		if !strings.HasPrefix(path, "/dev/") {
			path = "/dev/" + path
		}

		out = append(out, inventoryEntry{
			kind: strings.ToLower(dev.Get("type").String()),
			Device: types.Device{
				Path:       path,
				Model:      strings.TrimSpace(dev.Get("model").String()),
				Serial:     strings.TrimSpace(dev.Get("serial").String()),
				Transport:  strings.TrimSpace(dev.Get("tran").String()),
				Size:       dev.Get("size").Int(),
				Rotational: dev.Get("rota").Bool(),
			},
		})
		return true
	})
	return out, nil
}

// isCandidate keeps whole disks whose metadata names NVMe or SSD technology
func isCandidate(e inventoryEntry) bool {
	if e.kind != "disk" {
		return false
	}
	if strings.HasPrefix(e.Path, "/dev/nvme") {
		return true
	}
	for _, field := range []string{e.Model, e.Transport} {
		f := strings.ToLower(field)
		if strings.Contains(f, "nvme") || strings.Contains(f, "ssd") {
			return true
		}
	}
	return false
}
