package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"ssd-validator/internal/logging"
	"ssd-validator/internal/privilege"
)

const (
	defaultSudoPath = "sudo"
	waitDelay       = 5 * time.Second
)

// ErrNoFilterMatch is the failure cause when a filter kept no lines
var ErrNoFilterMatch = errors.New("no lines matched filter")

// Runner executes commands on the local host
type Runner struct {
	log      *logrus.Entry
	cred     *privilege.Credential
	sudoPath string
	timeout  time.Duration
	isRoot   func() bool
}

// Option configures a Runner
type Option func(*Runner)

// WithCredential supplies the secret piped to sudo for elevated commands
func WithCredential(cred *privilege.Credential) Option {
	return func(r *Runner) { r.cred = cred }
}

// WithSudoPath overrides the elevation helper
func WithSudoPath(path string) Option {
	return func(r *Runner) {
		if path != "" {
			r.sudoPath = path
		}
	}
}

// WithTimeout bounds each command. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

// WithLogger sets the logger
func WithLogger(logger *logrus.Logger) Option {
	return func(r *Runner) { r.log = logging.Component(logger, "executor") }
}

// WithRootCheck overrides how the runner decides it already has privilege
func WithRootCheck(fn func() bool) Option {
	return func(r *Runner) { r.isRoot = fn }
}

// NewRunner creates a Runner
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		log:      logging.Component(nil, "executor"),
		sudoPath: defaultSudoPath,
		isRoot:   func() bool { return os.Geteuid() == 0 },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Execute runs cmd to completion and never returns an error out of band
func (r *Runner) Execute(ctx context.Context, cmd Command) Result {
	if cmd.Name == "" {
		return FailedWith(cmd, "", errors.New("empty command"))
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var match func(string) bool
	if cmd.Filter != nil {
		m, err := cmd.Filter.Matcher()
		if err != nil {
			return FailedWith(cmd, "", err)
		}
		match = m
	}

	argv, stdin, err := r.argv(cmd)
	if err != nil {
		return FailedWith(cmd, "", err)
	}

	ex := exec.CommandContext(ctx, argv[0], argv[1:]...) // argv only, never a shell
	ex.Stdin = stdin
	ex.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	ex.Stdout = &stdout
	if match == nil {
		ex.Stderr = &stdout
	} else {
		ex.Stderr = &stderr
	}

	r.log.WithField("elevated", cmd.Elevated).Debugf("executing: %s", cmd)
	start := time.Now()
	runErr := ex.Run()
	if ctx.Err() != nil {
		runErr = ctx.Err()
	}

	output := stdout.String()
	if match != nil {
		filtered, matched, _ := cmd.Filter.Apply(output)
		output = filtered
		if s := strings.TrimSpace(stderr.String()); s != "" {
			output += s + "\n"
		}
		// a pipeline's status is the status of its last stage, but a tool
		// that never started keeps its own cause
		var exitErr *exec.ExitError
		switch {
		case ctx.Err() != nil:
		case runErr != nil && !errors.As(runErr, &exitErr):
		case matched:
			runErr = nil
		default:
			runErr = ErrNoFilterMatch
		}
	}

	log := r.log.WithField("duration", time.Since(start).Round(time.Millisecond))
	if runErr != nil {
		log.WithError(runErr).Debugf("command failed: %s", cmd)
		return FailedWith(cmd, output, runErr)
	}
	log.Debugf("command succeeded: %s", cmd)
	return Succeeded(cmd, output)
}

// argv builds the process arguments. Elevated commands run through
// "sudo -k -S": -k makes sudo ignore a cached timestamp and always consume
// the password line, so the tool never inherits the secret on its stdin.
func (r *Runner) argv(cmd Command) ([]string, io.Reader, error) {
	if !cmd.Elevated || r.isRoot() {
		return cmd.Argv(), nil, nil
	}

	if r.cred == nil {
		// no credential: fail fast instead of waiting on a prompt
		return append([]string{r.sudoPath, "-n", "--"}, cmd.Argv()...), nil, nil
	}

	stdin, err := r.cred.Reader()
	if err != nil {
		return nil, nil, fmt.Errorf("elevation credential: %w", err)
	}
	return append([]string{r.sudoPath, "-k", "-S", "-p", "", "--"}, cmd.Argv()...), stdin, nil
}
