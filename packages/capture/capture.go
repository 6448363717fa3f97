package capture

import (
	"github.com/abdul-hamid-achik/rentalsmoke/packages/http"
	"github.com/tidwall/gjson"
)

type Extractor struct {
	response *http.Response
	bodyJSON gjson.Result
	isJSON   bool
}

func NewExtractor(resp *http.Response) *Extractor {
	e := &Extractor{
		response: resp,
	}
	if resp != nil && (resp.IsJSON() || gjson.ValidBytes(resp.Body)) && len(resp.Body) > 0 {
		e.bodyJSON = gjson.ParseBytes(resp.Body)
		e.isJSON = true
	}
	return e
}

// IsJSON reports whether the response body parsed as JSON.
func (e *Extractor) IsJSON() bool {
	return e.isJSON
}

// Exists reports whether path resolves to a value, null included.
func (e *Extractor) Exists(path string) bool {
	if !e.isJSON {
		return false
	}
	return e.bodyJSON.Get(path).Exists()
}

// String returns the value at path rendered as a string. Missing, null and
// empty values report false.
func (e *Extractor) String(path string) (string, bool) {
	if !e.isJSON {
		return "", false
	}
	result := e.bodyJSON.Get(path)
	if !result.Exists() || result.Type == gjson.Null {
		return "", false
	}
	s := result.String()
	if s == "" {
		return "", false
	}
	return s, true
}

// Count returns the number of elements of the array at path.
func (e *Extractor) Count(path string) (int, bool) {
	if !e.isJSON {
		return 0, false
	}
	result := e.bodyJSON.Get(path)
	if !result.IsArray() {
		return 0, false
	}
	return len(result.Array()), true
}

// ExtractAll resolves every named path and returns the values that exist.
func ExtractAll(resp *http.Response, paths map[string]string) map[string]string {
	extractor := NewExtractor(resp)
	results := make(map[string]string)

	for name, path := range paths {
		if value, ok := extractor.String(path); ok {
			results[name] = value
		}
	}

	return results
}
