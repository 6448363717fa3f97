package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/rentalsmoke/packages/core/runner"
	"github.com/fatih/color"
)

const (
	timeLayout = "2006-01-02 15:04:05"
	ruleWidth  = 60
)

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) rule() {
	fmt.Fprintln(f.writer, strings.Repeat("=", ruleWidth))
}

// FormatHeader prints the run banner.
func (f *ConsoleFormatter) FormatHeader(baseURL string, started time.Time) {
	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	f.rule()
	fmt.Fprintf(f.writer, "  %s\n", bold("COMPREHENSIVE E2E TEST SUITE"))
	fmt.Fprintf(f.writer, "  Target:  %s\n", cyan(baseURL))
	fmt.Fprintf(f.writer, "  Started: %s\n", started.Format(timeLayout))
	f.rule()
	fmt.Fprintln(f.writer)
}

func (f *ConsoleFormatter) StepStarted(number int, name string) {
	fmt.Fprintf(f.writer, "TEST %d: %s\n", number, name)
}

func (f *ConsoleFormatter) StepFinished(r *runner.StepResult) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	status := green("✅ PASSED")
	if !r.Passed {
		status = red("❌ FAILED")
	}
	fmt.Fprintf(f.writer, "TEST %d: %s - %s\n", r.Number, r.Name, status)
	if r.Details != "" {
		fmt.Fprintf(f.writer, "   Details: %s\n", r.Details)
	}
	if f.verbose && len(r.Unmet) == 0 {
		if r.StatusCode != 0 {
			fmt.Fprintf(f.writer, "   Status: %d\n", r.StatusCode)
		}
		fmt.Fprintf(f.writer, "   Time: %s\n", cyan(fmt.Sprintf("%dms", r.Duration.Milliseconds())))
	}
	fmt.Fprintln(f.writer)
}

// FormatResult prints the summary block for a completed run.
func (f *ConsoleFormatter) FormatResult(result *runner.RunResult) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintln(f.writer)
	f.rule()
	fmt.Fprintf(f.writer, "  %s\n", bold("TEST SUMMARY"))
	f.rule()

	fmt.Fprintf(f.writer, "\nTotal Tests: %d\n", result.Total())
	fmt.Fprintf(f.writer, "Passed: %s\n", green(fmt.Sprintf("%d ✅", result.Passed)))
	fmt.Fprintf(f.writer, "Failed: %s\n", red(fmt.Sprintf("%d ❌", result.Failed)))
	fmt.Fprintf(f.writer, "Success Rate: %.1f%%\n", result.SuccessRate())

	if lat := result.Latency; lat.Count > 0 {
		fmt.Fprintf(f.writer, "Latency: p50 %dms, p95 %dms, max %dms (%d requests)\n",
			lat.P50.Milliseconds(), lat.P95.Milliseconds(), lat.Max.Milliseconds(), lat.Count)
	}

	fmt.Fprintf(f.writer, "\nCompleted: %s\n", result.StartedAt.Add(result.Duration).Format(timeLayout))
	f.rule()
}

// FormatSaved reports where a results file was written.
func (f *ConsoleFormatter) FormatSaved(path string) {
	fmt.Fprintf(f.writer, "\n✅ Detailed results saved to %s\n", path)
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}
