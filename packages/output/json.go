package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/rentalsmoke/packages/core/runner"
)

// DefaultResultsFile is where the detailed results are written unless configured otherwise.
const DefaultResultsFile = "test_results_detailed.json"

// JSONOutput is the detailed results document
type JSONOutput struct {
	RunID      string       `json:"run_id"`
	Timestamp  string       `json:"timestamp"`
	BaseURL    string       `json:"base_url,omitempty"`
	DurationMs int64        `json:"duration_ms"`
	Results    []JSONTest   `json:"results"`
	Summary    JSONSummary  `json:"summary"`
	Latency    *JSONLatency `json:"latency,omitempty"`
}

type JSONSummary struct {
	Total       int     `json:"total"`
	Passed      int     `json:"passed"`
	Failed      int     `json:"failed"`
	SuccessRate float64 `json:"success_rate"`
}

// JSONTest is one step's entry; test is the 1-based step number
type JSONTest struct {
	Test       int    `json:"test"`
	Name       string `json:"name"`
	Passed     bool   `json:"passed"`
	Details    string `json:"details"`
	DurationMs int64  `json:"duration_ms"`
}

// JSONLatency holds request latency percentiles in milliseconds
type JSONLatency struct {
	Requests int64   `json:"requests"`
	MinMs    float64 `json:"min_ms"`
	MeanMs   float64 `json:"mean_ms"`
	P50Ms    float64 `json:"p50_ms"`
	P95Ms    float64 `json:"p95_ms"`
	P99Ms    float64 `json:"p99_ms"`
	MaxMs    float64 `json:"max_ms"`
}

type JSONFormatter struct {
	writer  io.Writer
	baseURL string
	output  *JSONOutput
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func JSONWithBaseURL(baseURL string) JSONOption {
	return func(f *JSONFormatter) {
		f.baseURL = baseURL
	}
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

func (f *JSONFormatter) FormatResult(result *runner.RunResult) {
	out := &JSONOutput{
		RunID:      result.RunID,
		Timestamp:  result.StartedAt.Format(time.RFC3339),
		BaseURL:    f.baseURL,
		DurationMs: result.Duration.Milliseconds(),
		Results:    make([]JSONTest, 0, len(result.Results)),
		Summary: JSONSummary{
			Total:       result.Total(),
			Passed:      result.Passed,
			Failed:      result.Failed,
			SuccessRate: result.SuccessRate(),
		},
	}

	for _, r := range result.Results {
		out.Results = append(out.Results, JSONTest{
			Test:       r.Number,
			Name:       r.Name,
			Passed:     r.Passed,
			Details:    r.Details,
			DurationMs: r.Duration.Milliseconds(),
		})
	}

	if lat := result.Latency; lat.Count > 0 {
		out.Latency = &JSONLatency{
			Requests: lat.Count,
			MinMs:    ms(lat.Min),
			MeanMs:   ms(lat.Mean),
			P50Ms:    ms(lat.P50),
			P95Ms:    ms(lat.P95),
			P99Ms:    ms(lat.P99),
			MaxMs:    ms(lat.Max),
		}
	}

	f.output = out
}

// Flush writes the formatted run. It writes nothing if no run was formatted.
func (f *JSONFormatter) Flush() error {
	if f.output == nil {
		return nil
	}
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(f.output)
}
