package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/jsonc"
)

const DefaultPath = "/etc/biometric/config.json"

const (
	DefaultEnrollmentURL = "http://localhost:2077/biometrics"
	DefaultListen        = ":2077"
	DefaultLogLevel      = "info"
)

// DefaultVerifier is the verification script invoked in consulta mode.
// Template and finger are appended as the last two arguments.
var DefaultVerifier = []string{"python3", "../../python_biometric_query/biometric_query.py"}

type Config struct {
	// Device is a V4L2 device path. Empty selects the simulated sensor.
	Device string `json:"device"`
	// CaptureTimeout bounds a device capture, in seconds.
	CaptureTimeout int `json:"capture_timeout"`

	InitDelayMs    int `json:"init_delay_ms"`
	CaptureDelayMs int `json:"capture_delay_ms"`

	EnrollmentURL string   `json:"enrollment_url"`
	Timeout       int      `json:"timeout"`
	Verifier      []string `json:"verifier"`

	// Listen, Units and People are only read by biometricd.
	Listen string   `json:"listen"`
	Units  []string `json:"units"`
	People []string `json:"people"`

	LogLevel string `json:"log_level"`
	Journal  bool   `json:"journal"`
}

// Load reads path and fills every unset field with its default. A missing
// file is not an error.
func Load(path string) (*Config, error) {
	conf, err := loadFromFile(path)
	if err != nil {
		if !os.IsNotExist(errors.Cause(err)) {
			return nil, err
		}
		slog.Debug("Config file not found, using defaults", "path", path)
	}
	if conf == nil {
		conf = &Config{}
	}
	conf.applyDefaults()
	return conf, nil
}

// Default returns a configuration with every field at its default.
func Default() *Config {
	conf := &Config{}
	conf.applyDefaults()
	return conf
}

func (c *Config) applyDefaults() {
	// Negative delays mean "no delay"; zero means "unset".
	if c.InitDelayMs == 0 {
		c.InitDelayMs = 1000
	}
	if c.CaptureDelayMs == 0 {
		c.CaptureDelayMs = 2000
	}
	if c.CaptureTimeout == 0 {
		c.CaptureTimeout = 10
	}
	if c.EnrollmentURL == "" {
		c.EnrollmentURL = DefaultEnrollmentURL
	}
	if len(c.Verifier) == 0 {
		c.Verifier = append([]string(nil), DefaultVerifier...)
	}
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

func (c *Config) InitDelay() time.Duration {
	return millis(c.InitDelayMs)
}

func (c *Config) CaptureDelay() time.Duration {
	return millis(c.CaptureDelayMs)
}

// DeviceTimeout is zero when captures are unbounded.
func (c *Config) DeviceTimeout() time.Duration {
	if c.CaptureTimeout <= 0 {
		return 0
	}
	return time.Duration(c.CaptureTimeout) * time.Second
}

// HTTPTimeout is zero when no timeout is configured.
func (c *Config) HTTPTimeout() time.Duration {
	if c.Timeout <= 0 {
		return 0
	}
	return time.Duration(c.Timeout) * time.Second
}

func millis(ms int) time.Duration {
	if ms < 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	config := &Config{}
	if err := json.Unmarshal(jsonc.ToJSON(data), config); err != nil {
		return nil, errors.Wrapf(err, "Can not parse config file %s", path)
	}

	return config, nil
}
