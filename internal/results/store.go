// Package results persists check output into the per-suite directory layout
// consumed by downstream report tooling:
//
//	<base>/<suite dir>/<check_name>.txt
//
// Each file holds the check's display name, a 40 character '=' separator and
// the raw captured text.
package results

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"ssd-validator/internal/logging"
)

const (
	// Extension is appended to every result file
	Extension = ".txt"
	// SeparatorWidth is the length of the '=' line under the check name
	SeparatorWidth = 40

	dirPerm  = 0o755
	filePerm = 0o644
)

var separator = strings.Repeat("=", SeparatorWidth)

// Entry is one check result to persist
type Entry struct {
	Name string
	Text string
}

// FileName derives the result file name for a check display name
func FileName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "_")) + Extension
}

// Format renders the file body for a check
func Format(name, text string) string {
	return name + "\n" + separator + "\n" + text
}

// Store writes suite results under a base directory
type Store struct {
	baseDir string
	log     *logrus.Entry
}

// New creates a Store rooted at baseDir
func New(baseDir string, logger *logrus.Logger) *Store {
	return &Store{
		baseDir: baseDir,
		log:     logging.Component(logger, "results"),
	}
}

// SuiteDir returns the directory for a suite
func (s *Store) SuiteDir(suite string) string {
	return filepath.Join(s.baseDir, suite)
}

// Path returns the file path for a check of a suite
func (s *Store) Path(suite, check string) string {
	return filepath.Join(s.SuiteDir(suite), FileName(check))
}

// WriteSuite creates the suite directory if needed and overwrites one file
// per entry, in order. A failed write does not stop the remaining ones.
func (s *Store) WriteSuite(suite string, entries []Entry) error {
	if suite == "" {
		return errors.New("empty suite name")
	}

	dir := s.SuiteDir(suite)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	var errs []error
	for _, e := range entries {
		path := s.Path(suite, e.Name)
		if err := os.WriteFile(path, []byte(Format(e.Name, e.Text)), filePerm); err != nil {
			s.log.WithError(err).Errorf("Failed to save %s results to %s", e.Name, path)
			errs = append(errs, fmt.Errorf("writing %s: %w", path, err))
			continue
		}
		s.log.Infof("Saved %s results to %s", e.Name, path)
	}

	return errors.Join(errs...)
}
