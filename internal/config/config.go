package config

import (
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cv-dev/cv/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "cv.json"

	// EnvPrefix prefixes environment variable overrides.
	EnvPrefix = "CV_"

	// DefaultPort is the default preview server port.
	DefaultPort = 4000

	// DefaultHost is the default preview server host.
	DefaultHost = "localhost"

	// DefaultModulesDir is the default directory of markup modules.
	DefaultModulesDir = "modules"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "cv"
)

// Config represents the complete cv.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Page is the HTML page enhanced by the CLI and preview server.
	Page string `json:"page,omitempty"`

	// Modules configures where module specifiers are resolved.
	Modules ModulesConfig `json:"modules,omitempty"`

	// Engine configures the virtualization engine.
	Engine EngineConfig `json:"engine,omitempty"`

	// Preview configures the development preview server.
	Preview PreviewConfig `json:"preview,omitempty"`

	// Metrics configures Prometheus metrics.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ModulesConfig contains module source configuration.
type ModulesConfig struct {
	// Dir is the local directory of markup modules.
	Dir string `json:"dir,omitempty"`

	// S3 is an optional remote module source, tried after Dir.
	S3 S3Config `json:"s3,omitempty"`
}

// S3Config locates markup modules in an S3 bucket.
type S3Config struct {
	// Bucket enables the S3 source when set.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is prepended to every module key.
	Prefix string `json:"prefix,omitempty"`

	// Region overrides the region from the AWS environment.
	Region string `json:"region,omitempty"`
}

// EngineConfig contains engine settings.
type EngineConfig struct {
	// Strict makes unsupported template input fail loudly.
	Strict bool `json:"strict,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel,omitempty"`
}

// PreviewConfig contains preview server settings.
type PreviewConfig struct {
	// Port is the port to run the preview server on.
	Port int `json:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty"`
}

// MetricsConfig contains metrics settings.
type MetricsConfig struct {
	// Enabled exposes /metrics on the preview server.
	Enabled bool `json:"enabled,omitempty"`

	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Page: "index.html",
		Modules: ModulesConfig{
			Dir: DefaultModulesDir,
		},
		Engine: EngineConfig{
			LogLevel: "info",
		},
		Preview: PreviewConfig{
			Port: DefaultPort,
			Host: DefaultHost,
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for cv.json in the directory.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("CV300").
				WithDetail("No cv.json found in " + filepath.Dir(path)).
				WithSuggestion("Create cv.json at the project root, or run without a config to use defaults")
		}
		return nil, errors.New("CV301").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("CV301").
			WithDetail("Failed to parse cv.json: " + err.Error()).
			WithSuggestion("Check that cv.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("CV301").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("CV301").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Page == "" {
		c.Page = "index.html"
	}
	if c.Modules.Dir == "" {
		c.Modules.Dir = DefaultModulesDir
	}
	if c.Engine.LogLevel == "" {
		c.Engine.LogLevel = "info"
	}
	if c.Preview.Port == 0 {
		c.Preview.Port = DefaultPort
	}
	if c.Preview.Host == "" {
		c.Preview.Host = DefaultHost
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
}

// ApplyEnv overrides fields from CV_* variables found by lookup.
// Pass os.LookupEnv to read the process environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	boolean := func(name string, dst *bool) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New("CV302").WithDetailf("%s%s=%q is not a boolean", EnvPrefix, name, v)
		}
		*dst = b
		return nil
	}

	str("PAGE", &c.Page)
	str("MODULES_DIR", &c.Modules.Dir)
	str("S3_BUCKET", &c.Modules.S3.Bucket)
	str("S3_PREFIX", &c.Modules.S3.Prefix)
	str("S3_REGION", &c.Modules.S3.Region)
	str("LOG_LEVEL", &c.Engine.LogLevel)
	str("PREVIEW_HOST", &c.Preview.Host)
	str("METRICS_NAMESPACE", &c.Metrics.Namespace)

	if err := boolean("STRICT", &c.Engine.Strict); err != nil {
		return err
	}
	if err := boolean("METRICS", &c.Metrics.Enabled); err != nil {
		return err
	}

	if v, ok := lookup(EnvPrefix + "PREVIEW_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("CV302").WithDetailf("%sPREVIEW_PORT=%q is not a number", EnvPrefix, v)
		}
		c.Preview.Port = port
	}

	c.applyDefaults()
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Preview.Port < 0 || c.Preview.Port > 65535 {
		return errors.New("CV302").
			WithDetail("Port must be between 0 and 65535")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if c.Modules.S3.Prefix != "" && c.Modules.S3.Bucket == "" {
		return errors.New("CV302").
			WithDetail("modules.s3.prefix is set but modules.s3.bucket is empty")
	}
	return nil
}

// LogLevel parses Engine.LogLevel.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.Engine.LogLevel))); err != nil {
		return slog.LevelInfo, errors.New("CV302").
			WithDetailf("engine.logLevel %q is not one of debug, info, warn, error", c.Engine.LogLevel)
	}
	return level, nil
}

// PreviewAddress returns the address string for the preview server.
func (c *Config) PreviewAddress() string {
	return net.JoinHostPort(c.Preview.Host, strconv.Itoa(c.Preview.Port))
}

// PreviewURL returns the full URL for the preview server.
func (c *Config) PreviewURL() string {
	return "http://" + c.PreviewAddress()
}

// ModulesPath returns the absolute path to the modules directory.
func (c *Config) ModulesPath() string {
	return c.resolve(c.Modules.Dir)
}

// PagePath returns the absolute path to the page.
func (c *Config) PagePath() string {
	return c.resolve(c.Page)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// HasS3 returns true if an S3 module source is configured.
func (c *Config) HasS3() bool {
	return c.Modules.S3.Bucket != ""
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing cv.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("CV300").
				WithDetail("No cv.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working
// directory or its nearest ancestor holding cv.json.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
