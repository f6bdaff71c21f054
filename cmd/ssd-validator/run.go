package main

import (
	"bufio"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ssd-validator/internal/config"
	"ssd-validator/internal/disk"
	"ssd-validator/internal/manifest"
	"ssd-validator/internal/metrics"
	"ssd-validator/internal/orchestrator"
	"ssd-validator/internal/privilege"
	"ssd-validator/internal/suite"
	"ssd-validator/internal/suites"
	"ssd-validator/internal/system"
	"ssd-validator/pkg/types"
)

const passwordPrompt = "Enter your sudo password: "

func (a *app) runCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run validation suites against one device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runValidation(cmd)
		},
	}
	a.addRunFlags(cmd)
	return cmd
}

func (a *app) addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("device", "", "Device to validate; prompts with a menu when empty")
	f.StringSlice("suites", nil, "Suite families or directories to run (default all)")
	f.Bool("allow-destructive", false, "Run checks that write to or erase the device")
	f.String("timeout", "0", "Per-command timeout, e.g. 10m or seconds (0 = none)")
	f.String("sudo-path", "sudo", "Elevation helper")
	f.Bool("manifest", false, "Write manifest.yaml into the output directory")
	f.String("metrics-file", "", "Write Prometheus textfile metrics to this path")
	f.String("filesystem-device", suites.DefaultFilesystemDevice, "Device inspected by the filesystem suite")
	f.String("fio-directory", "", "Working directory of the fio performance jobs")
	f.BoolVar(&a.passwordStdin, "password-stdin", false, "Read the sudo password from stdin (requires --device)")
}

// input returns the shared buffered reader over stdin
func (a *app) input() *bufio.Reader {
	if a.reader == nil {
		a.reader = bufio.NewReader(a.in)
	}
	return a.reader
}

func (a *app) runValidation(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg := a.cfg
	log := a.logger.WithField("component", "main")

	if a.passwordStdin && cfg.Device == "" {
		return errors.New("--password-stdin requires --device")
	}

	defs, err := suites.Select(cfg.Suites)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Starting Comprehensive SSD Validation")
	log.Infof("Execution mode: %s", cfg.ExecutionMode())

	sysInfo := system.New(a.logger).Detect()
	if !sysInfo.IsLinux() {
		log.Warnf("Platform %s is not Linux: block device tools will likely fail", sysInfo.Platform)
	}

	dev, err := a.selectTarget(cmd, cfg)
	if err != nil {
		return err
	}
	log.Infof("Selected device: %s", dev.Label())

	cred, err := a.credential()
	if err != nil {
		return err
	}
	defer cred.Release()

	m := metrics.New()
	built, err := suites.Build(defs, a.newExecutor(cfg, cred, a.logger), suites.Options{
		AllowDestructive: cfg.AllowDestructive,
		FilesystemDevice: cfg.FilesystemDevice,
		FormatKey:        cfg.FormatKey,
		FioDirectory:     cfg.FioDirectory,
		Logger:           a.logger,
		Observer:         m,
	})
	if err != nil {
		return err
	}
	if cfg.AllowDestructive {
		log.Warn("Destructive checks are enabled: data on the device will be destroyed")
	}

	mb := manifest.New(dev, sysInfo, cfg.AllowDestructive)
	m.SetRunInfo(mb.RunID(), dev)

	orch := orchestrator.New(a.logger, m)
	runnable := orchestrator.AsSuites(built)
	summaries := orch.Run(ctx, dev, runnable)
	a.printSummary(summaries)

	if err := orch.Save(cfg.OutputDir, runnable); err != nil {
		return fmt.Errorf("saving results: %w", err)
	}

	finished := time.Now()
	if cfg.Manifest {
		list := make([]manifest.Suite, len(built))
		for i, s := range built {
			list[i] = s
		}
		path, err := manifest.Write(cfg.OutputDir, mb.Build(list, finished))
		if err != nil {
			return err
		}
		log.Infof("Run manifest written to %s", path)
	}
	if cfg.MetricsFile != "" {
		m.Finish(finished)
		if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
			return err
		}
		log.Infof("Metrics written to %s", cfg.MetricsFile)
	}

	fmt.Fprintln(a.out, color.GreenString("\nSSD validation completed successfully!"))
	return nil
}

// selectTarget resolves --device or asks the user to pick a device
func (a *app) selectTarget(cmd *cobra.Command, cfg *config.Config) (types.Device, error) {
	mgr := a.diskManager(cfg)
	if cfg.Device != "" {
		return mgr.Find(cmd.Context(), cfg.Device)
	}

	devices, err := mgr.ListCandidateDevices(cmd.Context())
	if err != nil {
		fmt.Fprintf(a.out, "Error fetching SSD devices: %v\n", err)
	}
	if len(devices) == 0 {
		fmt.Fprintln(a.out, "No SSD devices found on the system.")
		return types.Device{}, disk.ErrNoDevices
	}
	return selectDevice(a.input(), a.out, devices)
}

func (a *app) diskManager(cfg *config.Config) *disk.Manager {
	dc := disk.Config{TargetDisks: cfg.TargetDisks, IgnorePatterns: cfg.IgnorePatterns}
	if a.inventory != nil {
		return disk.NewWithSource(a.inventory, dc, a.logger)
	}
	return disk.New(dc, a.logger)
}

// credential acquires the sudo password once. Root needs none.
func (a *app) credential() (*privilege.Credential, error) {
	if a.isRoot() {
		a.logger.Debug("Running as root, no sudo password needed")
		return nil, nil
	}
	if a.stdin != nil && !a.passwordStdin && a.isTerminal(a.stdin) {
		// input typed ahead of the prompt is not taken as the password
		if a.reader != nil {
			if n := a.reader.Buffered(); n > 0 {
				a.logger.Debugf("Discarding %d bytes typed ahead of the password prompt", n)
				a.reader.Discard(n)
			}
		}
		return a.prompt(a.stdin, a.errOut, passwordPrompt)
	}
	return privilege.ReadFrom(a.input())
}

func (a *app) printSummary(summaries []orchestrator.Summary) {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nSUITE\tOK\tFAILED\tSKIPPED\tDURATION")
	for _, s := range summaries {
		name := s.Suite
		if s.Panic != nil {
			name = color.RedString("%s (aborted)", s.Suite)
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n", name, s.OK, s.Failed, s.Skipped, s.Duration.Round(time.Millisecond))
	}
	w.Flush()
}

func (a *app) devicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List candidate SSD devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			devices, err := a.diskManager(a.cfg).ListCandidateDevices(cmd.Context())
			if err != nil {
				return err
			}
			if len(devices) == 0 {
				fmt.Fprintln(a.out, "No SSD devices found on the system.")
				return nil
			}

			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tMODEL\tTRANSPORT\tSIZE\tSERIAL")
			for _, d := range devices {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.Path, d.Model, d.Transport, formatBytes(d.Size), d.Serial)
			}
			return w.Flush()
		},
	}
}

func (a *app) suitesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "suites",
		Aliases: []string{"list-suites"},
		Short:   "List suites and their checks",
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			opts := suites.Options{
				FilesystemDevice: a.cfg.FilesystemDevice,
				FormatKey:        a.cfg.FormatKey,
				FioDirectory:     a.cfg.FioDirectory,
			}
			header := color.New(color.Bold, color.FgCyan)
			for _, d := range suites.Definitions() {
				scope := d.Family
				if d.HostWide {
					scope += ", host-wide"
				}
				header.Fprintf(a.out, "%s (%s)\n", d.Dir, scope)
				fmt.Fprintf(a.out, "  %s\n", d.Title)
				for _, c := range d.Checks(opts) {
					fmt.Fprintf(a.out, "  - %s%s\n", c.Name, destructiveMark(c))
				}
			}
			return nil
		},
	}
}

func destructiveMark(c suite.Check) string {
	if !c.Destructive {
		return ""
	}
	return " " + color.RedString("[destructive]")
}

func (a *app) toolsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Show which external tools are installed",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			info := system.New(a.logger).Detect()
			for _, t := range info.Tools {
				if t.Available {
					fmt.Fprintf(a.out, "%s %-10s %s\n", color.GreenString("✓"), t.Name, t.Version)
				} else {
					fmt.Fprintf(a.out, "%s %-10s not found\n", color.RedString("✗"), t.Name)
				}
			}
			return nil
		},
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
