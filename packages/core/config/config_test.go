package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:5000", cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.TimeoutDuration())
	assert.Equal(t, 5*time.Second, cfg.HealthTimeoutDuration())
	assert.Equal(t, "test_results_detailed.json", cfg.ResultsFile)
	assert.Equal(t, "failure", cfg.Slack.NotifyOn)
	assert.False(t, cfg.GetVerbose())
	assert.False(t, cfg.GetNoColor())
	assert.NoError(t, cfg.Validate())
}

func TestFindAndLoadConfig(t *testing.T) {
	dir := t.TempDir()
	content := `baseUrl: http://staging.internal:5000
timeout: 10000
rate: 2.5
verbose: true
headers:
  X-Smoke-Run: nightly
slack:
  webhook: https://hooks.slack.com/services/T/B/X
  notifyOn: always
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rentalsmoke.yaml"), []byte(content), 0644))

	cfg, err := FindAndLoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://staging.internal:5000", cfg.BaseURL)
	assert.Equal(t, 10000, cfg.Timeout)
	assert.Equal(t, DefaultHealthTimeout, cfg.HealthTimeout)
	assert.Equal(t, 2.5, cfg.Rate)
	assert.True(t, cfg.GetVerbose())
	assert.Equal(t, "nightly", cfg.Headers["X-Smoke-Run"])
	assert.Equal(t, "always", cfg.Slack.NotifyOn)
	assert.Equal(t, DefaultResultsFile, cfg.ResultsFile)
}

func TestFindAndLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".rentalsmoke.yaml"), []byte("baseUrl: http://hidden:1\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rentalsmoke.yaml"), []byte("baseUrl: http://visible:2\n"), 0644))

	cfg, err := FindAndLoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://hidden:1", cfg.BaseURL)
}

func TestFindAndLoadConfig_NoFile(t *testing.T) {
	cfg, err := FindAndLoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeout: [not a number"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	base.Headers = map[string]string{"Accept": "application/json"}

	merged := base.Merge(&Config{
		BaseURL: "http://other:5000",
		Rate:    4,
		NoColor: BoolPtr(true),
		Headers: map[string]string{"X-Run": "1"},
		Slack:   SlackConfig{WebhookURL: "https://hooks.example/x"},
	})

	assert.Equal(t, "http://other:5000", merged.BaseURL)
	assert.Equal(t, DefaultTimeout, merged.Timeout)
	assert.Equal(t, float64(4), merged.Rate)
	assert.True(t, merged.GetNoColor())
	assert.False(t, merged.GetVerbose())
	assert.Equal(t, map[string]string{"Accept": "application/json", "X-Run": "1"}, merged.Headers)
	assert.Equal(t, "https://hooks.example/x", merged.Slack.WebhookURL)
	assert.Equal(t, DefaultNotifyOn, merged.Slack.NotifyOn)

	// base is untouched
	assert.Equal(t, DefaultBaseURL, base.BaseURL)
	assert.Len(t, base.Headers, 1)
	assert.Same(t, base, base.Merge(nil))
}

func TestFromEnv(t *testing.T) {
	overlay, err := FromEnv(map[string]string{
		"BASE_URL":       "http://ci:5000",
		"TIMEOUT":        "15000",
		"HEALTH_TIMEOUT": "2000",
		"RATE":           "0.5",
		"VERBOSE":        "true",
		"NO_COLOR":       "1",
		"NOTIFY_ON":      "always",
		"UNRELATED":      "x",
		"JUNIT_FILE":     "",
		"METRICS_FILE":   "/var/lib/node_exporter/rentalsmoke.prom",
	})
	require.NoError(t, err)

	assert.Equal(t, "http://ci:5000", overlay.BaseURL)
	assert.Equal(t, 15000, overlay.Timeout)
	assert.Equal(t, 2000, overlay.HealthTimeout)
	assert.Equal(t, 0.5, overlay.Rate)
	assert.True(t, overlay.GetVerbose())
	assert.True(t, overlay.GetNoColor())
	assert.Equal(t, "always", overlay.Slack.NotifyOn)
	assert.Empty(t, overlay.JUnitFile)
	assert.Equal(t, "/var/lib/node_exporter/rentalsmoke.prom", overlay.MetricsFile)
}

func TestFromEnv_Invalid(t *testing.T) {
	_, err := FromEnv(map[string]string{
		"TIMEOUT": "soon",
		"VERBOSE": "maybe",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TIMEOUT")
	assert.Contains(t, err.Error(), "VERBOSE")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty base URL", func(c *Config) { c.BaseURL = " " }, "base URL is required"},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, "timeout must be positive"},
		{"negative health timeout", func(c *Config) { c.HealthTimeout = -1 }, "health timeout must be positive"},
		{"negative rate", func(c *Config) { c.Rate = -2 }, "rate must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".rentalsmoke.yaml")
	cfg := DefaultConfig()
	cfg.HistoryDB = "runs.db"

	require.NoError(t, cfg.SaveConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
