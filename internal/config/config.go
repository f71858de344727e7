// Package config provides configuration management for the export monitor.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"exportmonitor/internal/freshness"
	"exportmonitor/internal/logger"
	"exportmonitor/internal/storage"
)

// Configuration defaults.
const (
	DefaultConcurrency = 1
	DefaultBackend     = storage.BackendS3
	DefaultMaxAttempts = 3
	DefaultLogLevel    = "info"
	DefaultLogFormat   = logger.FormatText
)

// Configuration validation errors.
var (
	ErrInvalidWindow           = errors.New("monitor.window must be at least 1 day")
	ErrInvalidConcurrency      = errors.New("monitor.concurrency must be at least 1")
	ErrUnknownBackend          = errors.New("storage.backend must be one of: s3, listing, dir")
	ErrMissingRoot             = errors.New("storage.root is required for the listing and dir backends")
	ErrInvalidMaxAttempts      = errors.New("storage.retry.max_attempts must be at least 1")
	ErrInvalidLogLevel         = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat        = errors.New("logging.format must be 'text' or 'json'")
	ErrNoOrganizations         = errors.New("at least one organization is required")
	ErrEmptyOrganizationName   = errors.New("organization name is empty")
	ErrDuplicateOrganization   = errors.New("organization is configured twice")
	ErrOrganizationsNotMapping = errors.New("organizations must be a mapping of name to settings")
	ErrMissingBucket           = errors.New("monitored organization has no output_bucket")
	ErrOrganizationNameDash    = errors.New("monitored organization name contains '-' and can never match an export filename")
)

// Config represents the complete monitor configuration.
type Config struct {
	Monitor       MonitorConfig    `yaml:"monitor"`
	Storage       StorageConfig    `yaml:"storage"`
	Logging       LoggingConfig    `yaml:"logging"`
	Defaults      OrgValues        `yaml:"defaults"`
	Organizations OrganizationList `yaml:"organizations,omitempty"`
}

// MonitorConfig contains freshness check settings.
type MonitorConfig struct {
	Window      int  `yaml:"window"`
	Concurrency int  `yaml:"concurrency"`
	DryRun      bool `yaml:"dry_run"`
}

// StorageConfig selects the backend listing the buckets.
type StorageConfig struct {
	Backend   string      `yaml:"backend"`
	Region    string      `yaml:"region,omitempty"`
	Endpoint  string      `yaml:"endpoint,omitempty"`
	Root      string      `yaml:"root,omitempty"`
	Retry     RetryPolicy `yaml:"retry"`
	PathStyle bool        `yaml:"path_style,omitempty"`
}

// RetryPolicy defines how often a storage request is attempted.
type RetryPolicy struct {
	MaxAttempts int `yaml:"max_attempts"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// OrgValues are the per-organization settings. Unset values fall back to
// Config.Defaults.
type OrgValues struct {
	Monitor      *bool  `yaml:"monitor,omitempty"`
	OutputBucket string `yaml:"output_bucket,omitempty"`
}

// LoadConfig loads the monitor configuration from a YAML file.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Load reads the monitor configuration and, when orgConfigPath is not
// empty, replaces its organizations with those of the organization file.
func Load(configPath, orgConfigPath string) (*Config, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	if orgConfigPath != "" {
		orgs, err := LoadOrganizations(orgConfigPath)
		if err != nil {
			return nil, err
		}

		cfg.Organizations = orgs
	}

	if len(cfg.Organizations) == 0 {
		return nil, ErrNoOrganizations
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	f, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if err := c.WriteYAML(f); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// WriteYAML encodes the configuration to w.
func (c *Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return nil
}

// ApplyDefaults fills unset settings.
func (c *Config) ApplyDefaults() {
	if c.Monitor.Window == 0 {
		c.Monitor.Window = freshness.DefaultWindow
	}

	if c.Monitor.Concurrency == 0 {
		c.Monitor.Concurrency = DefaultConcurrency
	}

	if c.Storage.Backend == "" {
		c.Storage.Backend = DefaultBackend
	}

	if c.Storage.Retry.MaxAttempts == 0 {
		c.Storage.Retry.MaxAttempts = DefaultMaxAttempts
	}

	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}

	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Monitor.Window < 1 {
		return ErrInvalidWindow
	}

	if c.Monitor.Concurrency < 1 {
		return ErrInvalidConcurrency
	}

	if !slices.Contains(storage.Backends(), c.Storage.Backend) {
		return fmt.Errorf("%w: got %q", ErrUnknownBackend, c.Storage.Backend)
	}

	if c.Storage.Backend != storage.BackendS3 && c.Storage.Root == "" {
		return ErrMissingRoot
	}

	if c.Storage.Retry.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return ErrInvalidLogLevel
	}

	if !logger.ValidFormat(c.Logging.Format) {
		return ErrInvalidLogFormat
	}

	for _, org := range c.ResolveOrganizations() {
		if org.Name == "" {
			return ErrEmptyOrganizationName
		}

		if !org.Monitored {
			continue
		}

		if org.Bucket == "" {
			return fmt.Errorf("%w: %s", ErrMissingBucket, org.Name)
		}

		if strings.Contains(org.Name, "-") {
			return fmt.Errorf("%w: %s", ErrOrganizationNameDash, org.Name)
		}
	}

	return nil
}

// ResolveOrganizations merges every organization over the defaults, in
// configuration order.
func (c *Config) ResolveOrganizations() []freshness.Organization {
	orgs := make([]freshness.Organization, 0, len(c.Organizations))

	for _, entry := range c.Organizations {
		orgs = append(orgs, freshness.Organization{
			Name:      entry.Name,
			Bucket:    c.bucketFor(entry),
			Monitored: c.monitoredFor(entry),
		})
	}

	return orgs
}

func (c *Config) bucketFor(entry OrganizationEntry) string {
	if entry.OutputBucket != "" {
		return entry.OutputBucket
	}

	return c.Defaults.OutputBucket
}

func (c *Config) monitoredFor(entry OrganizationEntry) bool {
	if entry.Monitor != nil {
		return *entry.Monitor
	}

	if c.Defaults.Monitor != nil {
		return *c.Defaults.Monitor
	}

	return true
}

// StorageOptions returns the options for storage.New.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend:     c.Storage.Backend,
		Region:      c.Storage.Region,
		Endpoint:    c.Storage.Endpoint,
		Root:        c.Storage.Root,
		PathStyle:   c.Storage.PathStyle,
		MaxAttempts: c.Storage.Retry.MaxAttempts,
	}
}

// LoggerOptions returns the options for logger.New writing to w.
func (c *Config) LoggerOptions(w io.Writer) logger.Options {
	return logger.Options{
		Writer: w,
		Level:  c.Logging.Level,
		Format: c.Logging.Format,
	}
}

// CheckerOptions returns the freshness checker options, without a clock.
func (c *Config) CheckerOptions() freshness.Options {
	return freshness.Options{
		Window:      c.Monitor.Window,
		Concurrency: c.Monitor.Concurrency,
		DryRun:      c.Monitor.DryRun,
	}
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Organizations: %d, Window: %d, Backend: %s, DryRun: %t}",
		len(c.Organizations),
		c.Monitor.Window,
		c.Storage.Backend,
		c.Monitor.DryRun,
	)
}
