// Package orchestrator runs validation suites one after another against a
// single device and persists their results.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"ssd-validator/internal/logging"
	"ssd-validator/internal/suite"
	"ssd-validator/pkg/types"
)

// Suite is the capability set the orchestrator drives
type Suite interface {
	Name() string
	RunAll(ctx context.Context, dev types.Device)
	Report() *suite.Report
	Save(baseDir string) error
}

// Recorder receives per-suite timings
type Recorder interface {
	ObserveSuite(name string, d time.Duration)
}

// Summary describes one suite run
type Summary struct {
	Suite    string
	Duration time.Duration
	OK       int
	Failed   int
	Skipped  int
	// Panic holds the recovered value when the suite aborted
	Panic any
}

// Orchestrator sequences suites
type Orchestrator struct {
	log      *logrus.Entry
	recorder Recorder
}

// New creates an Orchestrator. recorder may be nil.
func New(logger *logrus.Logger, recorder Recorder) *Orchestrator {
	return &Orchestrator{
		log:      logging.Component(logger, "orchestrator"),
		recorder: recorder,
	}
}

// Run executes every suite's RunAll in order. A suite that fails or panics
// never stops the ones after it.
func (o *Orchestrator) Run(ctx context.Context, dev types.Device, suites []Suite) []Summary {
	o.log.WithField("device", dev.Path).Infof("Starting validation of %d suites", len(suites))

	summaries := make([]Summary, 0, len(suites))
	for i, s := range suites {
		log := o.log.WithField("suite", s.Name())
		log.Infof("Running suite %d/%d: %s", i+1, len(suites), s.Name())

		start := time.Now()
		recovered := o.runSuite(ctx, s, dev)
		elapsed := time.Since(start)

		ok, failed, skipped := s.Report().Counts()
		summary := Summary{
			Suite:    s.Name(),
			Duration: elapsed,
			OK:       ok,
			Failed:   failed,
			Skipped:  skipped,
			Panic:    recovered,
		}
		summaries = append(summaries, summary)

		if o.recorder != nil {
			o.recorder.ObserveSuite(s.Name(), elapsed)
		}
		log.WithFields(logrus.Fields{
			"ok":       ok,
			"failed":   failed,
			"skipped":  skipped,
			"duration": elapsed.Round(time.Millisecond),
		}).Info("Suite finished")
	}
	return summaries
}

func (o *Orchestrator) runSuite(ctx context.Context, s Suite, dev types.Device) (recovered any) {
	defer func() {
		if r := recover(); r != nil {
			o.log.WithField("suite", s.Name()).Errorf("Suite aborted: %v", r)
			recovered = r
		}
	}()
	s.RunAll(ctx, dev)
	return nil
}

// Save persists every suite under baseDir, continuing past failures
func (o *Orchestrator) Save(baseDir string, suites []Suite) error {
	var errs []error
	for _, s := range suites {
		if err := s.Save(baseDir); err != nil {
			o.log.WithField("suite", s.Name()).WithError(err).Error("Failed to save results")
			errs = append(errs, fmt.Errorf("suite %s: %w", s.Name(), err))
		}
	}
	if len(errs) == 0 {
		o.log.Infof("Results saved successfully in %s", baseDir)
	}
	return errors.Join(errs...)
}

// AsSuites adapts concrete suites to the orchestrator interface
func AsSuites(in []*suite.Suite) []Suite {
	out := make([]Suite, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
