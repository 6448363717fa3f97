package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the rentalsmoke configuration
type Config struct {
	BaseURL       string            `yaml:"baseUrl,omitempty"`
	Timeout       int               `yaml:"timeout,omitempty"`       // milliseconds
	HealthTimeout int               `yaml:"healthTimeout,omitempty"` // milliseconds
	Rate          float64           `yaml:"rate,omitempty"`          // requests per second, 0 is unlimited
	Headers       map[string]string `yaml:"headers,omitempty"`
	ResultsFile   string            `yaml:"resultsFile,omitempty"`
	JUnitFile     string            `yaml:"junitFile,omitempty"`
	MetricsFile   string            `yaml:"metricsFile,omitempty"`
	HistoryDB     string            `yaml:"historyDb,omitempty"`
	Verbose       *bool             `yaml:"verbose,omitempty"`
	NoColor       *bool             `yaml:"noColor,omitempty"`
	Slack         SlackConfig       `yaml:"slack,omitempty"`
}

type SlackConfig struct {
	WebhookURL string `yaml:"webhook,omitempty"`
	Channel    string `yaml:"channel,omitempty"`
	NotifyOn   string `yaml:"notifyOn,omitempty"`
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}

func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Millisecond
}

func (c *Config) HealthTimeoutDuration() time.Duration {
	return time.Duration(c.HealthTimeout) * time.Millisecond
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".rentalsmoke.yaml",
	".rentalsmoke.yml",
	"rentalsmoke.yaml",
	"rentalsmoke.yml",
}

// LoadConfig loads configuration from the specified path or searches the
// working directory for a config file.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in dir. Defaults are
// returned when none exists.
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}
	return DefaultConfig(), nil
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c

	if other.BaseURL != "" {
		result.BaseURL = other.BaseURL
	}
	if other.Timeout > 0 {
		result.Timeout = other.Timeout
	}
	if other.HealthTimeout > 0 {
		result.HealthTimeout = other.HealthTimeout
	}
	if other.Rate > 0 {
		result.Rate = other.Rate
	}
	if other.ResultsFile != "" {
		result.ResultsFile = other.ResultsFile
	}
	if other.JUnitFile != "" {
		result.JUnitFile = other.JUnitFile
	}
	if other.MetricsFile != "" {
		result.MetricsFile = other.MetricsFile
	}
	if other.HistoryDB != "" {
		result.HistoryDB = other.HistoryDB
	}
	if other.Slack.WebhookURL != "" {
		result.Slack.WebhookURL = other.Slack.WebhookURL
	}
	if other.Slack.Channel != "" {
		result.Slack.Channel = other.Slack.Channel
	}
	if other.Slack.NotifyOn != "" {
		result.Slack.NotifyOn = other.Slack.NotifyOn
	}

	// only override if explicitly set in other
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	if len(other.Headers) > 0 {
		headers := make(map[string]string, len(c.Headers)+len(other.Headers))
		for k, v := range c.Headers {
			headers[k] = v
		}
		for k, v := range other.Headers {
			headers[k] = v
		}
		result.Headers = headers
	}

	return &result
}

// FromEnv builds an overlay from RENTALSMOKE_* variables, keyed without
// the prefix (BASE_URL, TIMEOUT, ...). Unknown keys are ignored.
func FromEnv(vars map[string]string) (*Config, error) {
	overlay := &Config{}
	var errs []error

	for key, value := range vars {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		switch key {
		case "BASE_URL":
			overlay.BaseURL = value
		case "TIMEOUT":
			overlay.Timeout, errs = parseInt(key, value, errs)
		case "HEALTH_TIMEOUT":
			overlay.HealthTimeout, errs = parseInt(key, value, errs)
		case "RATE":
			rate, err := strconv.ParseFloat(value, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
			}
			overlay.Rate = rate
		case "RESULTS_FILE":
			overlay.ResultsFile = value
		case "JUNIT_FILE":
			overlay.JUnitFile = value
		case "METRICS_FILE":
			overlay.MetricsFile = value
		case "HISTORY_DB":
			overlay.HistoryDB = value
		case "VERBOSE", "NO_COLOR":
			b, err := strconv.ParseBool(value)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				continue
			}
			if key == "VERBOSE" {
				overlay.Verbose = BoolPtr(b)
			} else {
				overlay.NoColor = BoolPtr(b)
			}
		case "SLACK_WEBHOOK":
			overlay.Slack.WebhookURL = value
		case "SLACK_CHANNEL":
			overlay.Slack.Channel = value
		case "NOTIFY_ON":
			overlay.Slack.NotifyOn = value
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	return overlay, nil
}

func parseInt(key, value string, errs []error) (int, []error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, append(errs, fmt.Errorf("%s: %w", key, err))
	}
	return n, errs
}

// Validate reports settings that cannot produce a run
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.BaseURL) == "" {
		errs = append(errs, errors.New("base URL is required"))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %d", c.Timeout))
	}
	if c.HealthTimeout <= 0 {
		errs = append(errs, fmt.Errorf("health timeout must be positive, got %d", c.HealthTimeout))
	}
	if c.Rate < 0 {
		errs = append(errs, fmt.Errorf("rate must not be negative, got %g", c.Rate))
	}
	return errors.Join(errs...)
}

// SaveConfig writes the configuration as YAML
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
