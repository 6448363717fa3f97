package http

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

type Request struct {
	Method      string
	URL         string
	Headers     map[string]string
	Body        string
	Timeout     time.Duration
	QueryParams map[string]string
}

func NewRequest(method, requestURL string) *Request {
	return &Request{
		Method:      method,
		URL:         requestURL,
		Headers:     make(map[string]string),
		QueryParams: make(map[string]string),
	}
}

func (r *Request) SetHeader(key, value string) *Request {
	r.Headers[key] = value
	return r
}

func (r *Request) SetBody(body string) *Request {
	r.Body = body
	return r
}

// SetJSON marshals v as the request body and sets the JSON content type.
func (r *Request) SetJSON(v any) (*Request, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return r, fmt.Errorf("encoding request body: %w", err)
	}
	return r.SetBody(string(data)).SetHeader("Content-Type", "application/json"), nil
}

// SetBearer adds an Authorization header carrying the token. An empty token
// leaves the request unauthenticated.
func (r *Request) SetBearer(token string) *Request {
	if token != "" {
		r.SetHeader("Authorization", "Bearer "+token)
	}
	return r
}

func (r *Request) SetTimeout(d time.Duration) *Request {
	r.Timeout = d
	return r
}

func (r *Request) SetQueryParam(key, value string) *Request {
	r.QueryParams[key] = value
	return r
}

func (r *Request) BuildURL() string {
	if len(r.QueryParams) == 0 {
		return r.URL
	}

	u, err := url.Parse(r.URL)
	if err != nil {
		return r.URL
	}

	q := u.Query()
	for k, v := range r.QueryParams {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
