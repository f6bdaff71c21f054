// Package suite groups named checks that run in a fixed order against one
// device and persist one result file each.
package suite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"ssd-validator/internal/executor"
	"ssd-validator/internal/logging"
	"ssd-validator/internal/results"
	"ssd-validator/pkg/types"
)

// ErrDuplicateCheck is returned when two checks share a name or result file
var ErrDuplicateCheck = errors.New("duplicate check")

// SkippedDestructive is the stored text of a destructive check that did not run
const SkippedDestructive = "Skipped: destructive operation not enabled (run with --allow-destructive to execute)"

// Check is one named unit of work
type Check struct {
	Name string
	// Destructive checks write to or erase the device and only run when allowed
	Destructive bool
	Build       func(dev types.Device) executor.Command
}

// Observer is notified after each check completes
type Observer interface {
	ObserveCheck(suite string, r CheckResult)
}

// Suite is a named, ordered collection of checks
type Suite struct {
	name             string
	family           string
	hostWide         bool
	allowDestructive bool
	normalize        func(string) string
	checks           []Check
	exec             executor.Executor
	observer         Observer
	log              *logrus.Entry
	report           *Report
}

// Option configures a Suite
type Option func(*Suite)

// HostWide marks a suite whose checks do not target the selected device
func HostWide() Option {
	return func(s *Suite) { s.hostWide = true }
}

// AllowDestructive enables destructive checks
func AllowDestructive(allow bool) Option {
	return func(s *Suite) { s.allowDestructive = allow }
}

// Family groups suites for selection
func Family(name string) Option {
	return func(s *Suite) { s.family = name }
}

// Normalize rewrites every stored result text
func Normalize(fn func(string) string) Option {
	return func(s *Suite) { s.normalize = fn }
}

// WithObserver registers a per-check observer
func WithObserver(o Observer) Option {
	return func(s *Suite) { s.observer = o }
}

// WithLogger sets the logger
func WithLogger(logger *logrus.Logger) Option {
	return func(s *Suite) { s.log = logging.Component(logger, "suite") }
}

// New validates checks and builds a Suite
func New(name string, exec executor.Executor, checks []Check, opts ...Option) (*Suite, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("suite name is required")
	}
	if strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("suite name %q must not contain a path separator", name)
	}
	if exec == nil {
		return nil, fmt.Errorf("suite %s: executor is required", name)
	}

	names := make(map[string]struct{}, len(checks))
	files := make(map[string]string, len(checks))
	for i, c := range checks {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("suite %s: check %d has no name", name, i)
		}
		if strings.ContainsAny(c.Name, `/\`) {
			return nil, fmt.Errorf("suite %s: check name %q must not contain a path separator", name, c.Name)
		}
		if c.Build == nil {
			return nil, fmt.Errorf("suite %s: check %q has no command", name, c.Name)
		}
		if _, ok := names[c.Name]; ok {
			return nil, fmt.Errorf("suite %s: %w: %q", name, ErrDuplicateCheck, c.Name)
		}
		names[c.Name] = struct{}{}

		file := results.FileName(c.Name)
		if prev, ok := files[file]; ok {
			return nil, fmt.Errorf("suite %s: %w: %q and %q both map to %s", name, ErrDuplicateCheck, prev, c.Name, file)
		}
		files[file] = c.Name
	}

	s := &Suite{
		name:   name,
		family: name,
		checks: append([]Check(nil), checks...),
		exec:   exec,
		log:    logging.Component(nil, "suite"),
		report: NewReport(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithField("suite", name)
	return s, nil
}

// Name returns the suite name, also its result directory
func (s *Suite) Name() string { return s.name }

// Family returns the selection family
func (s *Suite) Family() string { return s.family }

// IsHostWide reports whether checks ignore the target device
func (s *Suite) IsHostWide() bool { return s.hostWide }

// Checks returns the declared checks in order
func (s *Suite) Checks() []Check {
	return append([]Check(nil), s.checks...)
}

// RunAll runs every declared check exactly once, in order, against dev. A
// failing check never prevents later checks from running.
func (s *Suite) RunAll(ctx context.Context, dev types.Device) {
	s.report.reset()
	if s.hostWide {
		dev = types.Device{}
	}

	s.log.Infof("Running %d checks", len(s.checks))
	for _, c := range s.checks {
		r := s.runCheck(ctx, c, dev)
		if s.normalize != nil {
			r.Text = s.normalize(r.Text)
		}
		s.report.Put(r)
		if s.observer != nil {
			s.observer.ObserveCheck(s.name, r)
		}
	}
}

func (s *Suite) runCheck(ctx context.Context, c Check, dev types.Device) CheckResult {
	log := s.log.WithField("check", c.Name)

	cmd := c.Build(dev)
	if c.Destructive && !s.allowDestructive {
		log.Warn("Skipping destructive check")
		return CheckResult{Name: c.Name, Text: SkippedDestructive, Command: cmd.String(), Skipped: true}
	}

	start := time.Now()
	res := s.exec.Execute(ctx, cmd)
	elapsed := time.Since(start)

	if res.Failed() {
		log.WithError(res.Err).Warn("Check failed")
	} else {
		log.Debug("Check completed")
	}

	command := res.Command
	if command == "" {
		command = cmd.String()
	}
	return CheckResult{
		Name:     c.Name,
		Text:     res.Text(),
		Command:  command,
		Failed:   res.Failed(),
		Duration: elapsed,
	}
}

// Report returns a snapshot of the accumulated results. It is safe to call
// while RunAll is in progress.
func (s *Suite) Report() *Report {
	return s.report.Snapshot()
}

// Save writes the current report under baseDir/<suite name>
func (s *Suite) Save(baseDir string) error {
	rs := s.report.Results()
	entries := make([]results.Entry, 0, len(rs))
	for _, r := range rs {
		entries = append(entries, results.Entry{Name: r.Name, Text: r.Text})
	}
	return results.New(baseDir, s.log.Logger).WriteSuite(s.name, entries)
}
