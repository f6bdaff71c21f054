package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"ssd-validator/internal/config"
	"ssd-validator/internal/disk/tools"
	"ssd-validator/internal/executor"
	"ssd-validator/internal/logging"
	"ssd-validator/internal/manifest"
	"ssd-validator/internal/privilege"
)

// Build-time variables (set via -ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// flagKeys maps command line flags to configuration keys
var flagKeys = map[string]string{
	"output-dir":        config.KeyOutputDir,
	"log-level":         config.KeyLogLevel,
	"log-format":        config.KeyLogFormat,
	"device":            config.KeyDevice,
	"suites":            config.KeySuites,
	"allow-destructive": config.KeyAllowDestructive,
	"timeout":           config.KeyExecTimeout,
	"sudo-path":         config.KeySudoPath,
	"manifest":          config.KeyManifest,
	"metrics-file":      config.KeyMetricsFile,
	"filesystem-device": config.KeyFilesystemDevice,
	"fio-directory":     config.KeyFioDirectory,
	"target":            config.KeyTargetDisks,
	"ignore":            config.KeyIgnorePatterns,
}

// app carries state shared by the commands
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	logger *logrus.Logger

	in     io.Reader
	out    io.Writer
	errOut io.Writer
	// stdin is the terminal candidate for the password prompt, nil when
	// input is not a file
	stdin  *os.File
	reader *bufio.Reader

	configFile    string
	passwordStdin bool

	// replaced in tests
	inventory   tools.InventoryTool
	newExecutor func(cfg *config.Config, cred *privilege.Credential, logger *logrus.Logger) executor.Executor
	isRoot      func() bool
	isTerminal  func(f *os.File) bool
	prompt      func(f *os.File, out io.Writer, prompt string) (*privilege.Credential, error)
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	a := &app{
		v:           config.NewViper(),
		in:          in,
		out:         out,
		errOut:      errOut,
		newExecutor: defaultExecutor,
		isRoot:      func() bool { return os.Geteuid() == 0 },
		isTerminal:  func(f *os.File) bool { return term.IsTerminal(int(f.Fd())) },
		prompt:      privilege.Prompt,
	}
	if f, ok := in.(*os.File); ok {
		a.stdin = f
	}
	return a
}

func defaultExecutor(cfg *config.Config, cred *privilege.Credential, logger *logrus.Logger) executor.Executor {
	return executor.NewRunner(
		executor.WithCredential(cred),
		executor.WithSudoPath(cfg.SudoPath),
		executor.WithTimeout(cfg.ExecTimeout),
		executor.WithLogger(logger),
	)
}

func main() {
	manifest.Version = version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := a.rootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "ssd-validator",
		Short: "Validate SSDs with smartctl, nvme-cli, fio, dd, ioping and friends",
		Long: `Runs suites of diagnostic and benchmark tools against one SSD and
stores every tool's raw output under <output-dir>/<suite>/<check>.txt.

Destructive checks (sanitize, format, secure erase, raw device writes) are
skipped unless --allow-destructive is given.

Examples:
  ssd-validator
  ssd-validator run --device /dev/nvme0n1 --suites health,power
  echo "$PW" | ssd-validator run --device /dev/nvme0n1 --password-stdin
  ssd-validator suites`,
		Version:           fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "Config file (yaml, toml or json)")
	pf.String("output-dir", config.DefaultOutputDir, "Base results directory")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.String("log-format", logging.FormatText, "Log format (text, json)")
	pf.StringSlice("target", nil, "Only consider these devices")
	pf.StringSlice("ignore", nil, "Ignore devices whose path starts with any of these")

	run := a.runCommand()
	a.addRunFlags(root)
	root.RunE = run.RunE

	root.AddCommand(run, a.devicesCommand(), a.suitesCommand(), a.toolsCommand())
	return root
}

// setup loads configuration and the logger for whichever command runs
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := a.v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	if err := config.Load(a.v, a.configFile); err != nil {
		return err
	}

	cfg, err := config.New(a.v)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	logger.SetOutput(a.errOut)

	a.cfg = cfg
	a.logger = logger
	return nil
}
