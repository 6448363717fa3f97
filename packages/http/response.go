package http

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Status     string
	Headers    map[string]string
	Body       []byte
	// Duration covers sending the request and reading the body
	Duration time.Duration
}

func (r *Response) BodyString() string {
	return string(r.Body)
}

// CompactBody returns the body with insignificant JSON whitespace removed,
// falling back to the trimmed raw text when the body is not JSON.
func (r *Response) CompactBody() string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, r.Body); err == nil {
		return buf.String()
	}
	return strings.TrimSpace(r.BodyString())
}

// Header looks up a response header case-insensitively.
func (r *Response) Header(key string) string {
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// IsJSON reports whether the server labelled the body as JSON.
func (r *Response) IsJSON() bool {
	return strings.Contains(r.Header("Content-Type"), "application/json")
}
