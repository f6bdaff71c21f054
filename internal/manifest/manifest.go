// Package manifest builds the YAML summary of a validation run.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"ssd-validator/internal/results"
	"ssd-validator/internal/suite"
	"ssd-validator/internal/system"
	"ssd-validator/pkg/types"
)

const (
	serviceName = "ssd-validator"
	// FileName is written into the base results directory
	FileName = "manifest.yaml"
)

// Version is reported in the manifest, set by main
var Version = "dev"

// Suite is the view of a suite the manifest needs
type Suite interface {
	Name() string
	Family() string
	Report() *suite.Report
}

// Builder collects run data
type Builder struct {
	runID            string
	startedAt        time.Time
	device           types.Device
	sysInfo          *system.SystemInfo
	allowDestructive bool
}

// New starts a manifest for a run on dev
func New(dev types.Device, sysInfo *system.SystemInfo, allowDestructive bool) *Builder {
	return &Builder{
		runID:            uuid.NewString(),
		startedAt:        time.Now(),
		device:           dev,
		sysInfo:          sysInfo,
		allowDestructive: allowDestructive,
	}
}

// RunID returns the generated run identifier
func (b *Builder) RunID() string {
	return b.runID
}

// Build assembles the manifest from the suites' current reports
func (b *Builder) Build(suites []Suite, finishedAt time.Time) *types.RunManifest {
	m := &types.RunManifest{
		RunID:      b.runID,
		Service:    serviceName,
		Version:    Version,
		StartedAt:  b.startedAt.UTC(),
		FinishedAt: finishedAt.UTC(),
		Device:     b.device,
		SystemInfo: types.SystemInfo{AllowDestructive: b.allowDestructive},
	}

	if b.sysInfo != nil {
		m.SystemInfo.Platform = string(b.sysInfo.Platform)
		m.SystemInfo.OS = b.sysInfo.OS
		m.SystemInfo.AvailableTools = b.sysInfo.AvailableTools()
		m.SystemInfo.MissingTools = b.sysInfo.MissingTools()
	}

	for _, s := range suites {
		sm := types.SuiteManifest{Name: s.Name(), Family: s.Family()}
		for _, r := range s.Report().Results() {
			sm.Duration += r.Duration
			sm.Checks = append(sm.Checks, types.CheckManifest{
				Name:     r.Name,
				File:     filepath.Join(s.Name(), results.FileName(r.Name)),
				Status:   r.Status().String(),
				Duration: r.Duration,
			})

			m.Summary.TotalChecks++
			switch r.Status() {
			case types.CheckStatusOK:
				m.Summary.OKChecks++
			case types.CheckStatusFailed:
				m.Summary.FailedChecks++
			case types.CheckStatusSkipped:
				m.Summary.SkippedChecks++
			}
		}
		m.Suites = append(m.Suites, sm)
	}
	m.Summary.TotalSuites = len(m.Suites)

	return m
}

// Write saves m as baseDir/manifest.yaml and returns the path
func Write(baseDir string, m *types.RunManifest) (string, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encoding manifest: %w", err)
	}

	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", baseDir, err)
	}

	path := filepath.Join(baseDir, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing manifest: %w", err)
	}
	return path, nil
}

// Read loads a manifest written by Write
func Read(path string) (*types.RunManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m types.RunManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding manifest %s: %w", path, err)
	}
	return &m, nil
}
