package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"ssd-validator/internal/disk"
	"ssd-validator/internal/logging"
	"ssd-validator/internal/suites"
)

// EnvPrefix is prepended to every environment variable, e.g. SSDV_OUTPUT_DIR
const EnvPrefix = "SSDV"

// Configuration keys
const (
	KeyOutputDir        = "output_dir"
	KeyDevice           = "device"
	KeySuites           = "suites"
	KeyAllowDestructive = "allow_destructive"
	KeyExecTimeout      = "exec.timeout"
	KeySudoPath         = "exec.sudo_path"
	KeyLogLevel         = "log.level"
	KeyLogFormat        = "log.format"
	KeyManifest         = "manifest"
	KeyMetricsFile      = "metrics_file"
	KeyTargetDisks      = "device_filter.targets"
	KeyIgnorePatterns   = "device_filter.ignore"
	KeyFilesystemDevice = "filesystem.device"
	KeyFormatKey        = "security.format_key"
	KeyFioDirectory     = "fio.directory"
)

// DefaultOutputDir is the base results directory
const DefaultOutputDir = "./SSD_Test_Results"

// Config holds the application configuration
type Config struct {
	OutputDir        string
	Device           string
	Suites           []string
	AllowDestructive bool
	ExecTimeout      time.Duration
	SudoPath         string
	LogLevel         string
	LogFormat        string
	Manifest         bool
	MetricsFile      string
	TargetDisks      []string
	IgnorePatterns   []string
	FilesystemDevice string
	FormatKey        string
	FioDirectory     string
}

// NewViper returns a viper instance with defaults and environment binding
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// SetDefaults registers the default value of every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyOutputDir, DefaultOutputDir)
	v.SetDefault(KeyDevice, "")
	v.SetDefault(KeySuites, []string{})
	v.SetDefault(KeyAllowDestructive, false)
	v.SetDefault(KeyExecTimeout, "0")
	v.SetDefault(KeySudoPath, "sudo")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, logging.FormatText)
	v.SetDefault(KeyManifest, false)
	v.SetDefault(KeyMetricsFile, "")
	v.SetDefault(KeyTargetDisks, []string{})
	v.SetDefault(KeyIgnorePatterns, disk.DefaultIgnorePatterns)
	v.SetDefault(KeyFilesystemDevice, suites.DefaultFilesystemDevice)
	v.SetDefault(KeyFormatKey, suites.DefaultFormatKey)
	v.SetDefault(KeyFioDirectory, "")
}

// Load reads an optional config file into v. An empty path is a no-op.
func Load(v *viper.Viper, file string) error {
	if file == "" {
		return nil
	}
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config %s: %w", file, err)
	}
	return nil
}

// New builds a validated Config from v
func New(v *viper.Viper) (*Config, error) {
	timeout, err := parseDuration(v.GetString(KeyExecTimeout))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyExecTimeout, err)
	}

	cfg := &Config{
		OutputDir:        v.GetString(KeyOutputDir),
		Device:           strings.TrimSpace(v.GetString(KeyDevice)),
		Suites:           splitList(v.GetStringSlice(KeySuites)),
		AllowDestructive: v.GetBool(KeyAllowDestructive),
		ExecTimeout:      timeout,
		SudoPath:         v.GetString(KeySudoPath),
		LogLevel:         v.GetString(KeyLogLevel),
		LogFormat:        v.GetString(KeyLogFormat),
		Manifest:         v.GetBool(KeyManifest),
		MetricsFile:      v.GetString(KeyMetricsFile),
		TargetDisks:      splitList(v.GetStringSlice(KeyTargetDisks)),
		IgnorePatterns:   splitList(v.GetStringSlice(KeyIgnorePatterns)),
		FilesystemDevice: v.GetString(KeyFilesystemDevice),
		FormatKey:        v.GetString(KeyFormatKey),
		FioDirectory:     v.GetString(KeyFioDirectory),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.OutputDir) == "" {
		errs = append(errs, errors.New("output_dir must not be empty"))
	}
	if c.ExecTimeout < 0 {
		errs = append(errs, fmt.Errorf("exec.timeout must not be negative, got %s", c.ExecTimeout))
	}
	if strings.TrimSpace(c.SudoPath) == "" {
		errs = append(errs, errors.New("exec.sudo_path must not be empty"))
	}
	if c.FilesystemDevice == "" {
		errs = append(errs, errors.New("filesystem.device must not be empty"))
	}
	if c.FormatKey == "" {
		errs = append(errs, errors.New("security.format_key must not be empty"))
	}
	return errors.Join(errs...)
}

// ExecutionMode names how a run selects its device
func (c *Config) ExecutionMode() string {
	if c.Device != "" {
		return "non-interactive"
	}
	return "interactive"
}

// parseDuration accepts Go durations ("90s") or plain seconds ("90")
func parseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	if duration, err := time.ParseDuration(value); err == nil {
		return duration, nil
	}
	// Try parsing as seconds
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", value)
	}
	return time.Duration(seconds) * time.Second, nil
}

// splitList flattens comma separated entries, as env vars arrive as one string
func splitList(in []string) []string {
	out := []string{}
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
