// Package suites declares the validation suites run against an SSD and the
// order they run in.
package suites

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"ssd-validator/internal/executor"
	"ssd-validator/internal/suite"
)

// Suite families
const (
	FamilyHealth      = "health"
	FamilyPerformance = "performance"
	FamilyPower       = "power"
	FamilyFilesystem  = "filesystem"
	FamilyEndurance   = "endurance"
	FamilySecurity    = "security"
)

// Options parameterize the catalog
type Options struct {
	AllowDestructive bool
	FilesystemDevice string
	FormatKey        string
	FioDirectory     string
	Logger           *logrus.Logger
	Observer         suite.Observer
}

// Definition describes one suite before it is bound to an executor
type Definition struct {
	Family   string
	Dir      string
	Title    string
	HostWide bool
	checks   func(Options) []suite.Check
	extra    []suite.Option
}

// Checks returns the declared checks for opts
func (d Definition) Checks(opts Options) []suite.Check {
	return d.checks(opts)
}

// Definitions returns every suite in run order
func Definitions() []Definition {
	return []Definition{
		{Family: FamilyHealth, Dir: "smartctl", Title: "HealthMonitoring Tests With smartctl", checks: smartctlChecks},
		{Family: FamilyHealth, Dir: "nvme-cli", Title: "HealthMonitoring Tests With nvme-cli", checks: nvmeChecks},
		{Family: FamilyPerformance, Dir: "Fio_Results", Title: "PerformanceBenchmarking Tests With Fio", checks: fioChecks},
		{Family: FamilyPerformance, Dir: "DD_Results", Title: "PerformanceBenchmarking Tests With DD", checks: ddChecks},
		{Family: FamilyPerformance, Dir: "IO_Ping_Results", Title: "PerformanceBenchmarking Tests With IoPing", checks: iopingChecks},
		{Family: FamilyPower, Dir: "Power_Thermal_Results", Title: "NVMe Power and Thermal Monitoring Tests", checks: powerThermalChecks},
		{Family: FamilyFilesystem, Dir: "File_System_Integrity_Results", Title: "File System Integrity Monitoring Tests", HostWide: true, checks: filesystemChecks},
		{Family: FamilyEndurance, Dir: "Endurance_Results", Title: "Endurance Monitoring Tests", checks: enduranceChecks},
		{
			Family: FamilySecurity, Dir: "Security_Results", Title: "Security Monitoring Tests", checks: securityChecks,
			extra: []suite.Option{suite.Normalize(trimmedLine)},
		},
	}
}

// Select filters definitions by family or directory name, keeping run order.
// An empty selection or "all" selects everything.
func Select(names []string) ([]Definition, error) {
	all := Definitions()
	if len(names) == 0 {
		return all, nil
	}

	want := make(map[string]bool, len(names))
	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part == "" {
				continue
			}
			if part == "all" {
				return all, nil
			}
			want[part] = false
		}
	}

	var selected []Definition
	for _, d := range all {
		fam, dir := strings.ToLower(d.Family), strings.ToLower(d.Dir)
		_, byFam := want[fam]
		_, byDir := want[dir]
		if byFam {
			want[fam] = true
		}
		if byDir {
			want[dir] = true
		}
		if byFam || byDir {
			selected = append(selected, d)
		}
	}

	var unknown []string
	for n, matched := range want {
		if !matched {
			unknown = append(unknown, n)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown suite(s): %s", strings.Join(unknown, ", "))
	}
	return selected, nil
}

// Build binds definitions to an executor
func Build(defs []Definition, exec executor.Executor, opts Options) ([]*suite.Suite, error) {
	out := make([]*suite.Suite, 0, len(defs))
	for _, d := range defs {
		sopts := []suite.Option{
			suite.Family(d.Family),
			suite.AllowDestructive(opts.AllowDestructive),
			suite.WithLogger(opts.Logger),
		}
		if d.HostWide {
			sopts = append(sopts, suite.HostWide())
		}
		if opts.Observer != nil {
			sopts = append(sopts, suite.WithObserver(opts.Observer))
		}
		sopts = append(sopts, d.extra...)

		s, err := suite.New(d.Dir, exec, d.Checks(opts), sopts...)
		if err != nil {
			return nil, fmt.Errorf("building suite %s: %w", d.Dir, err)
		}
		out = append(out, s)
	}
	return out, nil
}
