package config

const (
	DefaultBaseURL       = "http://localhost:5000"
	DefaultTimeout       = 30000 // milliseconds
	DefaultHealthTimeout = 5000  // milliseconds
	DefaultResultsFile   = "test_results_detailed.json"
	DefaultNotifyOn      = "failure"
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		BaseURL:       DefaultBaseURL,
		Timeout:       DefaultTimeout,
		HealthTimeout: DefaultHealthTimeout,
		ResultsFile:   DefaultResultsFile,
		Verbose:       BoolPtr(false),
		NoColor:       BoolPtr(false),
		Slack: SlackConfig{
			NotifyOn: DefaultNotifyOn,
		},
	}
}
