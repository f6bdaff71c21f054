package suite

import (
	"sync"
	"time"

	"ssd-validator/pkg/types"
)

// CheckResult is the captured outcome of one check
type CheckResult struct {
	Name     string
	Text     string
	Command  string
	Failed   bool
	Skipped  bool
	Duration time.Duration
}

// Status classifies the result
func (r CheckResult) Status() types.CheckStatus {
	switch {
	case r.Skipped:
		return types.CheckStatusSkipped
	case r.Failed:
		return types.CheckStatusFailed
	default:
		return types.CheckStatusOK
	}
}

// Report is an insertion-ordered mapping of check name to result
type Report struct {
	mu      sync.RWMutex
	order   []string
	results map[string]CheckResult
}

// NewReport creates an empty report
func NewReport() *Report {
	return &Report{results: make(map[string]CheckResult)}
}

// Put stores r under its name. Storing an existing name replaces the value in
// place and keeps the original position.
func (rep *Report) Put(r CheckResult) {
	rep.mu.Lock()
	defer rep.mu.Unlock()
	if _, ok := rep.results[r.Name]; !ok {
		rep.order = append(rep.order, r.Name)
	}
	rep.results[r.Name] = r
}

// Get returns the result for name
func (rep *Report) Get(name string) (CheckResult, bool) {
	rep.mu.RLock()
	defer rep.mu.RUnlock()
	r, ok := rep.results[name]
	return r, ok
}

// Len returns the number of results
func (rep *Report) Len() int {
	rep.mu.RLock()
	defer rep.mu.RUnlock()
	return len(rep.order)
}

// Names returns check names in insertion order
func (rep *Report) Names() []string {
	rep.mu.RLock()
	defer rep.mu.RUnlock()
	return append([]string(nil), rep.order...)
}

// Results returns the results in insertion order
func (rep *Report) Results() []CheckResult {
	rep.mu.RLock()
	defer rep.mu.RUnlock()
	out := make([]CheckResult, 0, len(rep.order))
	for _, name := range rep.order {
		out = append(out, rep.results[name])
	}
	return out
}

// Snapshot returns an independent copy
func (rep *Report) Snapshot() *Report {
	rep.mu.RLock()
	defer rep.mu.RUnlock()
	cp := &Report{
		order:   append([]string(nil), rep.order...),
		results: make(map[string]CheckResult, len(rep.results)),
	}
	for k, v := range rep.results {
		cp.results[k] = v
	}
	return cp
}

// Counts tallies results by status
func (rep *Report) Counts() (ok, failed, skipped int) {
	for _, r := range rep.Results() {
		switch r.Status() {
		case types.CheckStatusOK:
			ok++
		case types.CheckStatusFailed:
			failed++
		case types.CheckStatusSkipped:
			skipped++
		}
	}
	return ok, failed, skipped
}

func (rep *Report) reset() {
	rep.mu.Lock()
	defer rep.mu.Unlock()
	rep.order = nil
	rep.results = make(map[string]CheckResult)
}
