package types

import "time"

// RunManifest represents the YAML summary written next to the suite directories
type RunManifest struct {
	RunID      string          `yaml:"run_id"`
	Service    string          `yaml:"service"`
	Version    string          `yaml:"version"`
	StartedAt  time.Time       `yaml:"started_at"`
	FinishedAt time.Time       `yaml:"finished_at"`
	Device     Device          `yaml:"device"`
	SystemInfo SystemInfo      `yaml:"system_info"`
	Summary    RunSummary      `yaml:"summary"`
	Suites     []SuiteManifest `yaml:"suites"`
}

// SystemInfo represents the host information recorded in the manifest
type SystemInfo struct {
	Platform         string   `yaml:"platform"`
	OS               string   `yaml:"os"`
	AvailableTools   []string `yaml:"available_tools,omitempty"`
	MissingTools     []string `yaml:"missing_tools,omitempty"`
	AllowDestructive bool     `yaml:"allow_destructive"`
}

// RunSummary counts check outcomes across all suites of a run
type RunSummary struct {
	TotalSuites   int `yaml:"total_suites"`
	TotalChecks   int `yaml:"total_checks"`
	OKChecks      int `yaml:"ok_checks"`
	FailedChecks  int `yaml:"failed_checks"`
	SkippedChecks int `yaml:"skipped_checks"`
}

// SuiteManifest represents one suite in the manifest
type SuiteManifest struct {
	Name     string          `yaml:"name"`
	Family   string          `yaml:"family,omitempty"`
	Duration time.Duration   `yaml:"duration"`
	Checks   []CheckManifest `yaml:"checks"`
}

// CheckManifest represents one check in the manifest
type CheckManifest struct {
	Name     string        `yaml:"name"`
	File     string        `yaml:"file"`
	Status   string        `yaml:"status"`
	Duration time.Duration `yaml:"duration"`
}
