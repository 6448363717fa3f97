package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/rentalsmoke/packages/core/config"
	"github.com/abdul-hamid-achik/rentalsmoke/packages/core/env"
	"github.com/abdul-hamid-achik/rentalsmoke/packages/core/runner"
	"github.com/abdul-hamid-achik/rentalsmoke/packages/db"
	"github.com/abdul-hamid-achik/rentalsmoke/packages/http"
	"github.com/abdul-hamid-achik/rentalsmoke/packages/notify"
	"github.com/abdul-hamid-achik/rentalsmoke/packages/output"
	"github.com/abdul-hamid-achik/rentalsmoke/packages/suite"
	"github.com/spf13/cobra"
)

type runFlags struct {
	configPath    string
	envFile       string
	baseURL       string
	timeout       time.Duration
	healthTimeout time.Duration
	rate          float64
	resultsFile   string
	junitFile     string
	metricsFile   string
	historyDB     string
	verbose       bool
	noColor       bool
	slackWebhook  string
	slackChannel  string
	notifyOn      string
}

var flags runFlags

func registerRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&flags.baseURL, "base-url", "u", config.DefaultBaseURL, "Backend base URL (env: RENTALSMOKE_BASE_URL)")
	f.DurationVar(&flags.timeout, "timeout", 30*time.Second, "Request timeout (env: RENTALSMOKE_TIMEOUT, milliseconds)")
	f.DurationVar(&flags.healthTimeout, "health-timeout", 5*time.Second, "Health check timeout (env: RENTALSMOKE_HEALTH_TIMEOUT, milliseconds)")
	f.Float64Var(&flags.rate, "rate", 0, "Maximum requests per second, 0 for unlimited (env: RENTALSMOKE_RATE)")
	f.StringVarP(&flags.resultsFile, "results-file", "o", config.DefaultResultsFile, "Detailed JSON results path (env: RENTALSMOKE_RESULTS_FILE)")
	f.StringVar(&flags.junitFile, "junit-file", "", "Also write JUnit XML to this path (env: RENTALSMOKE_JUNIT_FILE)")
	f.StringVar(&flags.metricsFile, "metrics-file", "", "Also write Prometheus textfile metrics to this path (env: RENTALSMOKE_METRICS_FILE)")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "Show status code and duration per step (env: RENTALSMOKE_VERBOSE)")
	f.BoolVar(&flags.noColor, "no-color", false, "Disable colored output (env: RENTALSMOKE_NO_COLOR)")
	f.StringVar(&flags.slackWebhook, "slack-webhook", "", "Slack webhook URL for run summaries (env: RENTALSMOKE_SLACK_WEBHOOK)")
	f.StringVar(&flags.slackChannel, "slack-channel", "", "Slack channel override (env: RENTALSMOKE_SLACK_CHANNEL)")
	f.StringVar(&flags.notifyOn, "notify-on", config.DefaultNotifyOn, "When to notify: always, failure, success (env: RENTALSMOKE_NOTIFY_ON)")
}

// flagOverlay turns the flags the user set into a config overlay
func flagOverlay(f *runFlags, changed func(name string) bool) *config.Config {
	overlay := &config.Config{}
	if changed("base-url") {
		overlay.BaseURL = f.baseURL
	}
	if changed("timeout") {
		overlay.Timeout = int(f.timeout.Milliseconds())
	}
	if changed("health-timeout") {
		overlay.HealthTimeout = int(f.healthTimeout.Milliseconds())
	}
	if changed("rate") {
		overlay.Rate = f.rate
	}
	if changed("results-file") {
		overlay.ResultsFile = f.resultsFile
	}
	if changed("junit-file") {
		overlay.JUnitFile = f.junitFile
	}
	if changed("metrics-file") {
		overlay.MetricsFile = f.metricsFile
	}
	if changed("history-db") {
		overlay.HistoryDB = f.historyDB
	}
	if changed("verbose") {
		overlay.Verbose = config.BoolPtr(f.verbose)
	}
	if changed("no-color") {
		overlay.NoColor = config.BoolPtr(f.noColor)
	}
	if changed("slack-webhook") {
		overlay.Slack.WebhookURL = f.slackWebhook
	}
	if changed("slack-channel") {
		overlay.Slack.Channel = f.slackChannel
	}
	if changed("notify-on") {
		overlay.Slack.NotifyOn = f.notifyOn
	}
	return overlay
}

// loadConfig resolves settings: defaults, then the config file, then
// RENTALSMOKE_* variables (after .env is exported), then flags.
func loadConfig(f *runFlags, changed func(name string) bool, stderr io.Writer) (*config.Config, error) {
	if f.envFile != "" {
		if _, err := env.LoadAndExportDotEnv(f.envFile); err != nil {
			return nil, err
		}
	} else if _, err := env.LoadOptionalDotEnv(env.DefaultDotEnv); err != nil {
		fmt.Fprintf(stderr, "warning: ignoring %s: %v\n", env.DefaultDotEnv, err)
	}

	fileConfig, err := config.LoadConfig(f.configPath)
	if err != nil {
		return nil, err
	}

	envConfig, err := config.FromEnv(env.LoadSystemEnv(env.Prefix))
	if err != nil {
		return nil, err
	}

	cfg := fileConfig.Merge(envConfig).Merge(flagOverlay(f, changed))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := http.ValidateURL(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if _, err := notify.ParseNotifyOn(cfg.Slack.NotifyOn); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(&flags, cmd.Flags().Changed, cmd.ErrOrStderr())
	if err != nil {
		return configError(err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if code := runSuite(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr()); code != ExitSuccess {
		os.Exit(code)
	}
	return nil
}

// Formatter is implemented by the file report formats
type Formatter interface {
	FormatResult(result *runner.RunResult)
}

// Flushable is implemented by formatters that write on demand
type Flushable interface {
	Flush() error
}

func writeReport(result *runner.RunResult, formatter Formatter) error {
	formatter.FormatResult(result)
	if flushable, ok := formatter.(Flushable); ok {
		return flushable.Flush()
	}
	return nil
}

func writeReportFile(path string, result *runner.RunResult, newFormatter func(io.Writer) Formatter) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", path, err)
	}
	if err := writeReport(result, newFormatter(file)); err != nil {
		_ = file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return file.Close()
}

// runSuite executes the suite and reports it. The returned value is the
// process exit code.
func runSuite(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) int {
	console := output.NewConsoleFormatter(
		output.WithWriter(stdout),
		output.WithVerbose(cfg.GetVerbose()),
		output.WithNoColor(cfg.GetNoColor()),
	)

	client := http.NewClient(
		http.WithTimeout(cfg.TimeoutDuration()),
		http.WithRateLimit(cfg.Rate),
		http.WithDefaultHeader("User-Agent", "rentalsmoke/"+version),
		http.WithDefaultHeaders(cfg.Headers),
	)
	s := suite.New(client,
		suite.WithBaseURL(cfg.BaseURL),
		suite.WithHealthTimeout(cfg.HealthTimeoutDuration()),
	)
	r := runner.NewRunner(&runner.Config{
		Observers: []runner.Observer{console},
	})

	console.FormatHeader(s.BaseURL(), time.Now())

	result, err := r.Run(ctx, s.Steps())
	if err != nil {
		// aborted or interrupted: no summary and no reports
		console.FormatError(err)
		return ExitTestFailure
	}

	console.FormatResult(result)

	newJSON := func(w io.Writer) Formatter {
		return output.NewJSONFormatter(output.JSONWithWriter(w), output.JSONWithBaseURL(s.BaseURL()))
	}
	if err := writeReportFile(cfg.ResultsFile, result, newJSON); err != nil {
		console.FormatError(err)
		return ExitTestFailure
	}
	console.FormatSaved(cfg.ResultsFile)

	if cfg.JUnitFile != "" {
		newJUnit := func(w io.Writer) Formatter {
			return output.NewJUnitFormatter(output.JUnitWithWriter(w))
		}
		if err := writeReportFile(cfg.JUnitFile, result, newJUnit); err != nil {
			console.FormatError(err)
			return ExitTestFailure
		}
	}

	if cfg.MetricsFile != "" {
		newMetrics := func(w io.Writer) Formatter {
			return output.NewPrometheusFormatter(output.PrometheusWithWriter(w))
		}
		if err := writeReportFile(cfg.MetricsFile, result, newMetrics); err != nil {
			console.FormatError(err)
			return ExitTestFailure
		}
	}

	if cfg.HistoryDB != "" {
		if err := recordHistory(ctx, cfg.HistoryDB, s.BaseURL(), result); err != nil {
			fmt.Fprintf(stderr, "warning: failed to record run history: %v\n", err)
		}
	}

	if cfg.Slack.WebhookURL != "" {
		if err := sendNotification(ctx, cfg, s.BaseURL(), result); err != nil {
			fmt.Fprintf(stderr, "warning: failed to send notification: %v\n", err)
		}
	}

	if !result.Success() {
		return ExitTestFailure
	}
	return ExitSuccess
}

func recordHistory(ctx context.Context, path, baseURL string, result *runner.RunResult) error {
	var doc bytes.Buffer
	err := writeReport(result, output.NewJSONFormatter(output.JSONWithWriter(&doc), output.JSONWithBaseURL(baseURL)))
	if err != nil {
		return err
	}

	client, err := db.NewClient(path)
	if err != nil {
		return err
	}
	defer client.Close()

	return client.SaveRun(ctx, &db.Run{
		ID:         result.RunID,
		StartedAt:  result.StartedAt,
		BaseURL:    baseURL,
		DurationMs: result.Duration.Milliseconds(),
		Total:      result.Total(),
		Passed:     result.Passed,
		Failed:     result.Failed,
		Results:    doc.String(),
	})
}

func runSummary(baseURL string, result *runner.RunResult) *notify.RunSummary {
	summary := &notify.RunSummary{
		RunID:       result.RunID,
		BaseURL:     baseURL,
		TotalTests:  result.Total(),
		PassedTests: result.Passed,
		FailedTests: result.Failed,
		Duration:    result.Duration,
	}
	for _, r := range result.Results {
		if !r.Passed {
			summary.Failed = append(summary.Failed, notify.FailedTest{
				Number:  r.Number,
				Name:    r.Name,
				Details: r.Details,
			})
		}
	}
	return summary
}

func sendNotification(ctx context.Context, cfg *config.Config, baseURL string, result *runner.RunResult) error {
	notifyOn, err := notify.ParseNotifyOn(cfg.Slack.NotifyOn)
	if err != nil {
		return err
	}

	var opts []notify.SlackOption
	if cfg.Slack.Channel != "" {
		opts = append(opts, notify.WithSlackChannel(cfg.Slack.Channel))
	}
	manager := notify.NewManager(notifyOn, notify.NewSlackNotifier(cfg.Slack.WebhookURL, opts...))
	return manager.Notify(ctx, runSummary(baseURL, result))
}
