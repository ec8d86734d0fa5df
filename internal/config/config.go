package config

// Configuration loading and validation for ditgparse

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tturner/ditgparse/internal/errors"
)

// Defaults mirror the layout of the lab machine the measurement campaigns ran on.
const (
	DefaultLogRoot    = "/home/client-2/Desktop/LOGS"
	DefaultDecoder    = "ITGDec"
	DefaultOutputIPv4 = "ditg_ipv4_results.csv"
	DefaultOutputIPv6 = "ditg_ipv6_results.csv"

	IPv4 = "IPV4"
	IPv6 = "IPV6"
)

// Pipeline names used as keys in Outputs and on the command line.
const (
	PipelineRuns = "runs"
	PipelineRecv = "recv"
)

// OutputPaths holds the CSV destinations for one pipeline.
type OutputPaths struct {
	IPv4 string `yaml:"ipv4"`
	IPv6 string `yaml:"ipv6"`
}

// For returns the destination for an IP version name, or "" if unknown.
func (o OutputPaths) For(ipVersion string) string {
	switch strings.ToUpper(ipVersion) {
	case IPv4:
		return o.IPv4
	case IPv6:
		return o.IPv6
	}
	return ""
}

// OutputsConfig holds per-pipeline destinations. Both pipelines default to the
// same file names, so running one after the other replaces the first result.
type OutputsConfig struct {
	Runs OutputPaths `yaml:"runs"`
	Recv OutputPaths `yaml:"recv"`
}

// LoggingConfig controls log verbosity and the optional log file.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // "silent","error","info","verbose","debug"
	File  string `yaml:"file,omitempty"`
}

// Config represents the batch configuration
type Config struct {
	LogRoot          string        `yaml:"log_root"`
	Decoder          string        `yaml:"decoder"`
	DecoderTimeoutMs int           `yaml:"decoder_timeout_ms,omitempty"` // 0 waits forever
	IPVersions       []string      `yaml:"ip_versions"`
	Outputs          OutputsConfig `yaml:"outputs"`
	SQLitePath       string        `yaml:"sqlite_path,omitempty"`
	Logging          LoggingConfig `yaml:"logging,omitempty"`
}

// DecoderTimeout returns the per-invocation timeout as a duration.
func (c *Config) DecoderTimeout() time.Duration {
	return time.Duration(c.DecoderTimeoutMs) * time.Millisecond
}

// OutputsFor returns the destinations configured for a pipeline.
func (c *Config) OutputsFor(pipeline string) (OutputPaths, error) {
	switch pipeline {
	case PipelineRuns:
		return c.Outputs.Runs, nil
	case PipelineRecv:
		return c.Outputs.Recv, nil
	}
	return OutputPaths{}, fmt.Errorf("unknown pipeline %q", pipeline)
}

// CreateDefaultConfig returns a configuration populated with defaults
func CreateDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every unset field with its default value.
func ApplyDefaults(cfg *Config) {
	if cfg.LogRoot == "" {
		cfg.LogRoot = DefaultLogRoot
	}
	if cfg.Decoder == "" {
		cfg.Decoder = DefaultDecoder
	}
	if len(cfg.IPVersions) == 0 {
		cfg.IPVersions = []string{IPv4, IPv6}
	}
	for i, v := range cfg.IPVersions {
		cfg.IPVersions[i] = strings.ToUpper(strings.TrimSpace(v))
	}
	applyOutputDefaults(&cfg.Outputs.Runs)
	applyOutputDefaults(&cfg.Outputs.Recv)
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

func applyOutputDefaults(o *OutputPaths) {
	if o.IPv4 == "" {
		o.IPv4 = DefaultOutputIPv4
	}
	if o.IPv6 == "" {
		o.IPv6 = DefaultOutputIPv6
	}
}

// WriteDefaultConfig writes a default configuration to a file
func WriteDefaultConfig(path string) error {
	cfg := CreateDefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Load loads a configuration from a YAML file. An empty path yields the
// defaults. If the file doesn't exist and autoCreate is true, a default file
// is written first.
func Load(path string, autoCreate bool) (*Config, error) {
	if path == "" {
		return CreateDefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if !autoCreate {
				return nil, errors.WrapConfigError(
					fmt.Errorf("config file not found: %s", path),
					path,
				)
			}
			if err := WriteDefaultConfig(path); err != nil {
				return nil, fmt.Errorf("create default config: %w", err)
			}
			data, err = os.ReadFile(path)
			if err != nil {
				return nil, errors.WrapConfigError(
					fmt.Errorf("read created config file: %w", err),
					path,
				)
			}
		} else {
			return nil, errors.WrapConfigError(
				fmt.Errorf("read config file: %w", err),
				path,
			)
		}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WrapConfigError(fmt.Errorf("parse YAML: %w", err), path)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, errors.WrapConfigError(fmt.Errorf("validate config: %w", err), path)
	}

	return &cfg, nil
}

// Validate validates a configuration
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.LogRoot) == "" {
		return fmt.Errorf("log_root is required")
	}
	if strings.TrimSpace(cfg.Decoder) == "" {
		return fmt.Errorf("decoder is required")
	}
	if cfg.DecoderTimeoutMs < 0 {
		return fmt.Errorf("decoder_timeout_ms must be >= 0, got %d", cfg.DecoderTimeoutMs)
	}
	if len(cfg.IPVersions) == 0 {
		return fmt.Errorf("ip_versions must list at least one of %s, %s", IPv4, IPv6)
	}
	seen := make(map[string]bool)
	for i, v := range cfg.IPVersions {
		if v != IPv4 && v != IPv6 {
			return fmt.Errorf("ip_versions[%d]: unsupported value %q (want %s or %s)", i, v, IPv4, IPv6)
		}
		if seen[v] {
			return fmt.Errorf("ip_versions[%d]: duplicate %s", i, v)
		}
		seen[v] = true
	}
	if err := validateOutputs("outputs.runs", cfg.Outputs.Runs); err != nil {
		return err
	}
	if err := validateOutputs("outputs.recv", cfg.Outputs.Recv); err != nil {
		return err
	}
	switch strings.ToLower(cfg.Logging.Level) {
	case "silent", "quiet", "error", "info", "verbose", "debug":
	default:
		return fmt.Errorf("logging.level: unknown level %q", cfg.Logging.Level)
	}
	return nil
}

func validateOutputs(section string, o OutputPaths) error {
	if o.IPv4 == "" || o.IPv6 == "" {
		return fmt.Errorf("%s: ipv4 and ipv6 destinations are required", section)
	}
	if o.IPv4 == o.IPv6 {
		return fmt.Errorf("%s: ipv4 and ipv6 destinations must differ, both are %q", section, o.IPv4)
	}
	return nil
}
