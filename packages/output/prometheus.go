package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/rentalsmoke/packages/core/runner"
)

// PrometheusFormatter writes a run in the Prometheus text exposition
// format, suitable for the node_exporter textfile collector. Samples
// carry no timestamps; the collector stamps them on scrape.
type PrometheusFormatter struct {
	writer io.Writer
	result *runner.RunResult
}

type PrometheusOption func(*PrometheusFormatter)

func NewPrometheusFormatter(opts ...PrometheusOption) *PrometheusFormatter {
	f := &PrometheusFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func PrometheusWithWriter(w io.Writer) PrometheusOption {
	return func(f *PrometheusFormatter) {
		f.writer = w
	}
}

func (f *PrometheusFormatter) FormatResult(result *runner.RunResult) {
	f.result = result
}

func metricHeader(w io.Writer, name, kind, help string) {
	fmt.Fprintf(w, "# HELP %s %s\n", name, help)
	fmt.Fprintf(w, "# TYPE %s %s\n", name, kind)
}

func boolValue(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Flush writes the metrics for the formatted run
func (f *PrometheusFormatter) Flush() error {
	if f.result == nil {
		return nil
	}
	r := f.result
	w := bufio.NewWriter(f.writer)

	metricHeader(w, "rentalsmoke_run_success", "gauge", "Whether every step of the last run passed")
	fmt.Fprintf(w, "rentalsmoke_run_success %d\n", boolValue(r.Success()))

	metricHeader(w, "rentalsmoke_run_timestamp_seconds", "gauge", "Start time of the last run")
	fmt.Fprintf(w, "rentalsmoke_run_timestamp_seconds %d\n", r.StartedAt.Unix())

	metricHeader(w, "rentalsmoke_run_duration_seconds", "gauge", "Wall time of the last run")
	fmt.Fprintf(w, "rentalsmoke_run_duration_seconds %.3f\n", r.Duration.Seconds())

	metricHeader(w, "rentalsmoke_run_steps", "gauge", "Steps of the last run by result")
	fmt.Fprintf(w, "rentalsmoke_run_steps{result=\"passed\"} %d\n", r.Passed)
	fmt.Fprintf(w, "rentalsmoke_run_steps{result=\"failed\"} %d\n", r.Failed)

	metricHeader(w, "rentalsmoke_step_passed", "gauge", "Whether a step passed in the last run")
	for _, s := range r.Results {
		fmt.Fprintf(w, "rentalsmoke_step_passed{step=\"%02d\",name=\"%s\"} %d\n", s.Number, sanitizeLabel(s.Name), boolValue(s.Passed))
	}

	metricHeader(w, "rentalsmoke_step_duration_seconds", "gauge", "Duration of each step in the last run")
	for _, s := range r.Results {
		fmt.Fprintf(w, "rentalsmoke_step_duration_seconds{step=\"%02d\",name=\"%s\"} %.3f\n", s.Number, sanitizeLabel(s.Name), s.Duration.Seconds())
	}

	if lat := r.Latency; lat.Count > 0 {
		metricHeader(w, "rentalsmoke_request_duration_seconds", "summary", "HTTP request latency in the last run")
		fmt.Fprintf(w, "rentalsmoke_request_duration_seconds{quantile=\"0.5\"} %.3f\n", lat.P50.Seconds())
		fmt.Fprintf(w, "rentalsmoke_request_duration_seconds{quantile=\"0.95\"} %.3f\n", lat.P95.Seconds())
		fmt.Fprintf(w, "rentalsmoke_request_duration_seconds{quantile=\"0.99\"} %.3f\n", lat.P99.Seconds())
		fmt.Fprintf(w, "rentalsmoke_request_duration_seconds_sum %.3f\n", lat.Mean.Seconds()*float64(lat.Count))
		fmt.Fprintf(w, "rentalsmoke_request_duration_seconds_count %d\n", lat.Count)
	}

	return w.Flush()
}

// sanitizeLabel makes a string safe for use as a Prometheus label value
func sanitizeLabel(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
