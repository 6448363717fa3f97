package capture

import (
	"testing"

	"github.com/abdul-hamid-achik/rentalsmoke/packages/http"
	"github.com/stretchr/testify/assert"
)

func jsonResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: 201,
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
		Body:       []byte(body),
	}
}

func TestExtractor_String(t *testing.T) {
	resp := jsonResponse(`{"data":{"accessToken":"tok","user":{"id":42},"variants":[{"id":"v-1"},{"id":"v-2"}],"empty":"","gone":null}}`)
	e := NewExtractor(resp)

	tests := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{"data.accessToken", "tok", true},
		{"data.user.id", "42", true},
		{"data.variants.0.id", "v-1", true},
		{"data.variants.5.id", "", false},
		{"data.empty", "", false},
		{"data.gone", "", false},
		{"data.missing", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := e.String(tt.path)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractor_Count(t *testing.T) {
	e := NewExtractor(jsonResponse(`{"data":{"products":[{"id":1},{"id":2},{"id":3}],"name":"x"}}`))

	n, ok := e.Count("data.products")
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = e.Count("data.name")
	assert.False(t, ok)
}

func TestExtractor_NonJSONBody(t *testing.T) {
	resp := &http.Response{
		StatusCode: 502,
		Headers:    map[string]string{"Content-Type": "text/html"},
		Body:       []byte("<html>Bad Gateway</html>"),
	}
	e := NewExtractor(resp)

	assert.False(t, e.IsJSON())
	assert.False(t, e.Exists("data"))

	_, ok := e.String("data")
	assert.False(t, ok)
	_, ok = e.Count("data")
	assert.False(t, ok)
}

func TestExtractor_JSONWithoutContentType(t *testing.T) {
	resp := &http.Response{StatusCode: 200, Body: []byte(`{"status":"OK"}`)}
	e := NewExtractor(resp)

	assert.True(t, e.IsJSON())
	v, ok := e.String("status")
	assert.True(t, ok)
	assert.Equal(t, "OK", v)
}

func TestExtractAll(t *testing.T) {
	resp := jsonResponse(`{"data":{"id":"o-9","order_number":"ORD-001"}}`)

	got := ExtractAll(resp, map[string]string{
		"order_id":     "data.id",
		"order_number": "data.order_number",
		"missing":      "data.nope",
	})

	assert.Equal(t, map[string]string{"order_id": "o-9", "order_number": "ORD-001"}, got)
}
