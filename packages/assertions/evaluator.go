package assertions

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/rentalsmoke/packages/capture"
	"github.com/abdul-hamid-achik/rentalsmoke/packages/http"
)

type Result struct {
	Passed   bool
	Message  string
	Expected any
	Actual   any
	Subject  string
	Operator string
}

type Evaluator struct {
	response  *http.Response
	extractor *capture.Extractor
}

func NewEvaluator(resp *http.Response) *Evaluator {
	return &Evaluator{
		response:  resp,
		extractor: capture.NewExtractor(resp),
	}
}

// StatusIn passes when the response status is one of codes.
func (e *Evaluator) StatusIn(codes ...int) *Result {
	result := &Result{
		Subject:  "status",
		Operator: "in",
		Expected: codes,
		Actual:   e.response.StatusCode,
	}
	for _, code := range codes {
		if e.response.StatusCode == code {
			result.Passed = true
			return result
		}
	}
	result.Message = fmt.Sprintf("expected status in %v, got %d", codes, e.response.StatusCode)
	return result
}

// Exists passes when path resolves to a non-null, non-empty value in the
// JSON body. false and 0 count as present.
func (e *Evaluator) Exists(path string) *Result {
	result := &Result{
		Subject:  "body." + path,
		Operator: "exists",
		Expected: true,
	}
	if !e.extractor.IsJSON() {
		result.Actual = false
		result.Message = "response body is not JSON"
		return result
	}
	_, result.Passed = e.extractor.String(path)
	result.Actual = result.Passed
	if !result.Passed {
		result.Message = fmt.Sprintf("missing field %s", path)
	}
	return result
}

// HasKey passes when path is present in the JSON body, even with a null
// or empty value.
func (e *Evaluator) HasKey(path string) *Result {
	result := &Result{
		Subject:  "body." + path,
		Operator: "has",
		Expected: true,
	}
	result.Passed = e.extractor.Exists(path)
	result.Actual = result.Passed
	if !result.Passed {
		result.Message = fmt.Sprintf("missing key %s", path)
	}
	return result
}

// IsArray passes when path resolves to a JSON array, empty or not.
func (e *Evaluator) IsArray(path string) *Result {
	result := &Result{
		Subject:  "body." + path,
		Operator: "type",
		Expected: "array",
	}
	n, ok := e.extractor.Count(path)
	result.Passed = ok
	if ok {
		result.Actual = n
	} else {
		result.Message = fmt.Sprintf("expected %s to be an array", path)
	}
	return result
}

// BodyContains passes when the raw body contains substr.
func (e *Evaluator) BodyContains(substr string) *Result {
	result := &Result{
		Subject:  "body",
		Operator: "contains",
		Expected: substr,
		Passed:   strings.Contains(e.response.BodyString(), substr),
	}
	if !result.Passed {
		result.Message = fmt.Sprintf("body does not contain %q", substr)
	}
	return result
}

// AnyOf passes when at least one of results passed.
func AnyOf(results ...*Result) *Result {
	combined := &Result{Operator: "any"}
	var messages []string
	for _, r := range results {
		if r.Passed {
			combined.Passed = true
			combined.Subject = r.Subject
			return combined
		}
		messages = append(messages, r.Message)
	}
	combined.Message = strings.Join(messages, "; ")
	return combined
}

// FirstFailure returns the first failed result, or nil when every result passed.
func FirstFailure(results ...*Result) *Result {
	for _, r := range results {
		if !r.Passed {
			return r
		}
	}
	return nil
}
