package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/streambind/internal/errors"
)

const (
	// ConfigFileName is the default configuration file name.
	ConfigFileName = "streambind.yaml"

	// ConfigFileNameJSON is the JSON alternative.
	ConfigFileNameJSON = "streambind.json"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultTick is the default demo emission interval.
	DefaultTick = "1s"

	// DefaultStreams is the default number of extra demo streams.
	DefaultStreams = 2
)

// Snapshot backends.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendDir    = "dir"
	BackendS3     = "s3"
)

// Config represents the complete streambind configuration.
type Config struct {
	// Server contains HTTP server configuration.
	Server ServerConfig `json:"server" yaml:"server"`

	// Demo contains settings for the demo dashboard streams.
	Demo DemoConfig `json:"demo" yaml:"demo"`

	// Snapshot contains render archive configuration.
	Snapshot SnapshotConfig `json:"snapshot" yaml:"snapshot"`

	// Log contains logging configuration.
	Log LogConfig `json:"log" yaml:"log"`

	// Debug enables debug logging regardless of Log.Level.
	Debug bool `json:"debug,omitempty" yaml:"debug,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty" yaml:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// ShutdownTimeout bounds graceful shutdown (e.g., "5s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty" yaml:"shutdownTimeout,omitempty"`
}

// DemoConfig controls the demo dashboard.
type DemoConfig struct {
	// Tick is the interval between stream emissions (e.g., "1s").
	Tick string `json:"tick,omitempty" yaml:"tick,omitempty"`

	// Streams is the number of extra counter streams on the dashboard.
	Streams int `json:"streams,omitempty" yaml:"streams,omitempty"`

	// Title is the dashboard heading.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// SnapshotConfig selects where rendered frames are archived.
type SnapshotConfig struct {
	// Backend is one of none, memory, dir, s3.
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty"`

	// Dir is the directory for the dir backend.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// Bucket is the S3 bucket.
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`

	// Prefix is prepended to every key.
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`

	// Region is the AWS region.
	Region string `json:"region,omitempty" yaml:"region,omitempty"`

	// Endpoint overrides the S3 endpoint (MinIO, localstack).
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ShutdownTimeout: "5s",
		},
		Demo: DemoConfig{
			Tick:    DefaultTick,
			Streams: DefaultStreams,
			Title:   "streambind",
		},
		Snapshot: SnapshotConfig{
			Backend: BackendNone,
			Dir:     "snapshots",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from the specified directory.
// streambind.yaml is preferred over streambind.json.
func Load(dir string) (*Config, error) {
	for _, name := range []string{ConfigFileName, ConfigFileNameJSON} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("E141").
		WithDetail("No " + ConfigFileName + " or " + ConfigFileNameJSON + " found in " + dir).
		WithSuggestion("Create " + ConfigFileName + " or run without --config to use defaults")
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No config file at " + path)
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if isJSON(path) {
		err = json.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
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
	var (
		data []byte
		err  error
	)
	if isJSON(path) {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return errors.New("E120").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "5s"
	}

	if c.Demo.Tick == "" {
		c.Demo.Tick = DefaultTick
	}
	if c.Demo.Title == "" {
		c.Demo.Title = "streambind"
	}

	if c.Snapshot.Backend == "" {
		c.Snapshot.Backend = BackendNone
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = "snapshots"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E122").
			WithDetail("server.port must be between 0 and 65535")
	}
	if d, err := time.ParseDuration(c.Demo.Tick); err != nil || d <= 0 {
		return errors.New("E122").
			WithDetail("demo.tick must be a positive duration, got " + strconv.Quote(c.Demo.Tick))
	}
	if _, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		return errors.New("E122").
			WithDetail("server.shutdownTimeout must be a duration, got " + strconv.Quote(c.Server.ShutdownTimeout))
	}
	if c.Demo.Streams < 0 {
		return errors.New("E122").
			WithDetail("demo.streams must not be negative")
	}

	switch c.Snapshot.Backend {
	case BackendNone, BackendMemory, BackendDir:
	case BackendS3:
		if c.Snapshot.Bucket == "" {
			return errors.New("E122").
				WithDetail("snapshot.bucket is required for the s3 backend")
		}
	default:
		return errors.New("E122").
			WithDetail("snapshot.backend must be none, memory, dir or s3, got " + strconv.Quote(c.Snapshot.Backend))
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("E122").
			WithDetail("log.format must be text or json")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// TickInterval returns the parsed demo tick.
func (c *Config) TickInterval() time.Duration {
	d, err := time.ParseDuration(c.Demo.Tick)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultTick)
	}
	return d
}

// ShutdownTimeout returns the parsed graceful shutdown timeout.
func (c *Config) ShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// LogLevel returns the configured slog level. Debug forces LevelDebug.
func (c *Config) LogLevel() (slog.Level, error) {
	if c.Debug {
		return slog.LevelDebug, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, errors.New("E122").
			WithDetail("log.level must be debug, info, warn or error").
			Wrap(err)
	}
	return lvl, nil
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range []string{ConfigFileName, ConfigFileNameJSON} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
