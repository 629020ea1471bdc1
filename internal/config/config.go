package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/rshade/pxpantheon/internal/cache"
)

// Frameworks supported by the setup workflow.
const (
	FrameworkDrupal    = "drupal"
	FrameworkWordPress = "wordpress"
)

// Defaults applied by New.
const (
	DefaultTerminusBinary  = "terminus"
	DefaultCacheTTLSeconds = 3600
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"

	configFileName = "config.yaml"
	homeDirName    = ".pxpantheon"
)

// Environment variable names read by ApplyEnv and the directory helpers.
const (
	EnvHome           = "PXPANTHEON_HOME"
	EnvSite           = "PXPANTHEON_SITE"
	EnvTerminusBinary = "PXPANTHEON_TERMINUS_BINARY"
)

// Validation errors.
var (
	ErrSiteNameRequired   = errors.New("the site machine name is required")
	ErrInvalidSiteName    = errors.New("the site machine name format is invalid")
	ErrInvalidFramework   = errors.New("the framework is invalid")
	ErrInvalidPHPVersion  = errors.New("the PHP version is invalid")
	ErrUnknownConfigKey   = errors.New("unknown configuration key")
	ErrInvalidConfigValue = errors.New("invalid configuration value")
)

var siteNamePattern = regexp.MustCompile(`^[\w-]+$`)

// SupportedFrameworks lists the accepted values for pantheon.framework.
func SupportedFrameworks() []string {
	return []string{FrameworkDrupal, FrameworkWordPress}
}

// Config is the full pxpantheon configuration. It is loaded once per invocation and
// passed explicitly to the components that need it.
type Config struct {
	Pantheon      PantheonConfig         `yaml:"pantheon"`
	Terminus      TerminusConfig         `yaml:"terminus"`
	Cache         CacheConfig            `yaml:"cache"`
	Logging       LoggingConfig          `yaml:"logging"`
	Paths         PathsConfig            `yaml:"paths"`
	LocalDatabase LocalDatabaseConfig    `yaml:"local_database"`
	DatabaseApps  map[string]DatabaseApp `yaml:"database_apps,omitempty"`

	configPath string
}

// PantheonConfig describes the project's Pantheon site.
type PantheonConfig struct {
	Site       string `yaml:"site"`
	Framework  string `yaml:"framework"`
	PHPVersion string `yaml:"php_version"`
}

// TerminusConfig controls how the terminus binary is invoked.
type TerminusConfig struct {
	Binary string `yaml:"binary"`
	// TimeoutSeconds bounds each terminus call; 0 disables the timeout.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// CacheConfig controls the command-output cache.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	TTLSeconds int    `yaml:"ttl_seconds"`
	Directory  string `yaml:"directory,omitempty"`
}

// LoggingConfig controls diagnostic logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// PathsConfig holds filesystem locations. Empty values are resolved at runtime.
type PathsConfig struct {
	ProjectRoot  string `yaml:"project_root,omitempty"`
	TempDir      string `yaml:"temp_dir,omitempty"`
	TemplatesDir string `yaml:"templates_dir,omitempty"`
}

// LocalDatabaseConfig holds the shell commands used to move data in and out of the
// local development database. {file}, {dir} and {name} are substituted before running.
type LocalDatabaseConfig struct {
	ExportCommand string `yaml:"export_command,omitempty"`
	ImportCommand string `yaml:"import_command,omitempty"`
	StartCommand  string `yaml:"start_command,omitempty"`
}

// DatabaseApp is an application that can open a MySQL connection URL.
// Command may reference {url}, {host}, {port}, {user}, {password} and {database}.
type DatabaseApp struct {
	Label   string `yaml:"label"`
	Command string `yaml:"command"`
	Default bool   `yaml:"default,omitempty"`
}

// New returns a Config populated with defaults and pointing at the global config file.
func New() *Config {
	cfg := &Config{
		Terminus: TerminusConfig{Binary: DefaultTerminusBinary},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: DefaultCacheTTLSeconds,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
	if dir, err := GetConfigDir(); err == nil {
		cfg.configPath = filepath.Join(dir, configFileName)
	}
	return cfg
}

// Load reads the YAML file at path on top of the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := New()
	cfg.configPath = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// ConfigPath returns the file Save writes to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath changes the file Save writes to.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("config path is not set")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err = os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config file %s: %w", c.configPath, err)
	}
	return nil
}

// ApplyEnv overlays environment variable overrides.
func (c *Config) ApplyEnv() {
	if site := os.Getenv(EnvSite); site != "" {
		c.Pantheon.Site = site
	}
	if bin := os.Getenv(EnvTerminusBinary); bin != "" {
		c.Terminus.Binary = bin
	}
}

// Validate checks the values that are set. Empty Pantheon values are allowed here;
// operations that need them report a missing-config error themselves.
func (c *Config) Validate() error {
	var errs []error
	if c.Pantheon.Site != "" {
		if err := ValidateSiteName(c.Pantheon.Site); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Pantheon.Framework != "" {
		if err := ValidateFramework(c.Pantheon.Framework); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Pantheon.PHPVersion != "" {
		if err := ValidatePHPVersion(c.Pantheon.PHPVersion); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Terminus.TimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("%w: terminus.timeout_seconds must be >= 0", ErrInvalidConfigValue))
	}
	return errors.Join(errs...)
}

// ValidateSiteName enforces the Pantheon machine-name format: word characters and hyphens.
func ValidateSiteName(name string) error {
	if name == "" {
		return ErrSiteNameRequired
	}
	if !siteNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidSiteName, name)
	}
	return nil
}

// ValidateFramework accepts one of SupportedFrameworks.
func ValidateFramework(framework string) error {
	if !slices.Contains(SupportedFrameworks(), framework) {
		return fmt.Errorf("%w: %q (supported: %s)",
			ErrInvalidFramework, framework, strings.Join(SupportedFrameworks(), ", "))
	}
	return nil
}

// ValidatePHPVersion accepts versions such as "8.1" or "8.2.0".
func ValidatePHPVersion(v string) error {
	if _, err := semver.NewVersion(v); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidPHPVersion, v)
	}
	return nil
}

// Keys lists every key accepted by Get and Set.
func Keys() []string {
	return []string{
		"pantheon.site",
		"pantheon.framework",
		"pantheon.php_version",
		"terminus.binary",
		"terminus.timeout_seconds",
		"cache.enabled",
		"cache.ttl_seconds",
		"cache.directory",
		"logging.level",
		"logging.format",
		"logging.file",
		"paths.project_root",
		"paths.temp_dir",
		"paths.templates_dir",
		"local_database.export_command",
		"local_database.import_command",
		"local_database.start_command",
	}
}

// Get returns the string form of a dotted configuration key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "pantheon.site":
		return c.Pantheon.Site, nil
	case "pantheon.framework":
		return c.Pantheon.Framework, nil
	case "pantheon.php_version":
		return c.Pantheon.PHPVersion, nil
	case "terminus.binary":
		return c.Terminus.Binary, nil
	case "terminus.timeout_seconds":
		return strconv.Itoa(c.Terminus.TimeoutSeconds), nil
	case "cache.enabled":
		return strconv.FormatBool(c.Cache.Enabled), nil
	case "cache.ttl_seconds":
		return strconv.Itoa(c.Cache.TTLSeconds), nil
	case "cache.directory":
		return c.Cache.Directory, nil
	case "logging.level":
		return c.Logging.Level, nil
	case "logging.format":
		return c.Logging.Format, nil
	case "logging.file":
		return c.Logging.File, nil
	case "paths.project_root":
		return c.Paths.ProjectRoot, nil
	case "paths.temp_dir":
		return c.Paths.TempDir, nil
	case "paths.templates_dir":
		return c.Paths.TemplatesDir, nil
	case "local_database.export_command":
		return c.LocalDatabase.ExportCommand, nil
	case "local_database.import_command":
		return c.LocalDatabase.ImportCommand, nil
	case "local_database.start_command":
		return c.LocalDatabase.StartCommand, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
	}
}

// Set assigns a dotted configuration key from its string form, validating the value.
//
//nolint:gocyclo // Flat key switch.
func (c *Config) Set(key, value string) error {
	switch key {
	case "pantheon.site":
		if err := ValidateSiteName(value); err != nil {
			return err
		}
		c.Pantheon.Site = value
	case "pantheon.framework":
		if err := ValidateFramework(value); err != nil {
			return err
		}
		c.Pantheon.Framework = value
	case "pantheon.php_version":
		if err := ValidatePHPVersion(value); err != nil {
			return err
		}
		c.Pantheon.PHPVersion = value
	case "terminus.binary":
		c.Terminus.Binary = value
	case "terminus.timeout_seconds":
		n, err := parseNonNegative(key, value)
		if err != nil {
			return err
		}
		c.Terminus.TimeoutSeconds = n
	case "cache.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", ErrInvalidConfigValue, key)
		}
		c.Cache.Enabled = b
	case "cache.ttl_seconds":
		ttl, err := cache.ParseTTL(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfigValue, key, err)
		}
		c.Cache.TTLSeconds = int(ttl / time.Second)
	case "cache.directory":
		c.Cache.Directory = value
	case "logging.level":
		c.Logging.Level = value
	case "logging.format":
		c.Logging.Format = value
	case "logging.file":
		c.Logging.File = value
	case "paths.project_root":
		c.Paths.ProjectRoot = value
	case "paths.temp_dir":
		c.Paths.TempDir = value
	case "paths.templates_dir":
		c.Paths.TemplatesDir = value
	case "local_database.export_command":
		c.LocalDatabase.ExportCommand = value
	case "local_database.import_command":
		c.LocalDatabase.ImportCommand = value
	case "local_database.start_command":
		c.LocalDatabase.StartCommand = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
	}
	return nil
}

func parseNonNegative(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", ErrInvalidConfigValue, key)
	}
	return n, nil
}

// GetConfigDir returns the pxpantheon home directory (PXPANTHEON_HOME or ~/.pxpantheon).
func GetConfigDir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, homeDirName), nil
}

// GetCacheDir returns the directory used by the persistent command-output cache.
func (c *Config) GetCacheDir() (string, error) {
	if c.Cache.Directory != "" {
		return c.Cache.Directory, nil
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache"), nil
}

// ProjectRoot returns the configured project root or the current directory.
func (c *Config) ProjectRoot() string {
	if c.Paths.ProjectRoot != "" {
		return c.Paths.ProjectRoot
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// ProjectTempDir returns the scratch directory for downloaded and exported database files.
func (c *Config) ProjectTempDir() string {
	if c.Paths.TempDir != "" {
		return c.Paths.TempDir
	}
	return filepath.Join(c.ProjectRoot(), homeDirName, "tmp")
}
