package suite

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/rentalsmoke/packages/core/runner"
	"github.com/abdul-hamid-achik/rentalsmoke/packages/core/session"
	hithttp "github.com/abdul-hamid-achik/rentalsmoke/packages/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is an in-memory stand-in for the rental API. Each handler
// can be overridden to simulate a misbehaving endpoint.
type fakeBackend struct {
	mu        sync.Mutex
	calls     []string
	overrides map[string]http.HandlerFunc
	lastOrder OrderPayload
	lastQuery map[string]string
	accept    map[string]string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		overrides: make(map[string]http.HandlerFunc),
		accept:    make(map[string]string),
	}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func (f *fakeBackend) called(route string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == route {
			return true
		}
	}
	return false
}

func (f *fakeBackend) handler() http.Handler {
	tokens := map[string]string{"Bearer vendor-token": RoleVendor, "Bearer customer-token": RoleCustomer}
	routes := map[string]http.HandlerFunc{
		"GET /health": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, `{"status":"OK","message":"Rental ERP Backend is running"}`)
		},
		"POST /api/auth/register": func(w http.ResponseWriter, r *http.Request) {
			var p RegisterPayload
			if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
				writeJSON(w, 400, `{"success":false,"error":"bad json"}`)
				return
			}
			token, id := "customer-token", "u-customer"
			if p.Role == RoleVendor {
				token, id = "vendor-token", "u-vendor"
			}
			writeJSON(w, 201, fmt.Sprintf(`{"success":true,"data":{"accessToken":%q,"user":{"id":%q,"email":%q}}}`, token, id, p.Email))
		},
		"POST /api/products": func(w http.ResponseWriter, r *http.Request) {
			if tokens[r.Header.Get("Authorization")] != RoleVendor {
				writeJSON(w, 403, `{"success":false,"error":"Insufficient permissions","statusCode":403}`)
				return
			}
			writeJSON(w, 201, `{"success":true,"data":{"id":"p-1","name":"Professional Camera Kit","variants":[{"id":"v-1"},{"id":"v-2"}]}}`)
		},
		"GET /api/products": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, `{"success":true,"data":{"products":[{"id":"p-1"},{"id":"p-0"}]}}`)
		},
		"GET /api/products/{id}": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, fmt.Sprintf(`{"success":true,"data":{"id":%q,"name":"Professional Camera Kit"}}`, r.PathValue("id")))
		},
		"PUT /api/products/{id}": func(w http.ResponseWriter, r *http.Request) {
			if tokens[r.Header.Get("Authorization")] != RoleVendor {
				writeJSON(w, 403, `{"success":false,"error":"forbidden"}`)
				return
			}
			writeJSON(w, 200, `{"success":true,"data":{"name":"Professional Camera Kit - UPDATED"}}`)
		},
		"DELETE /api/products/{id}": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		},
		"GET /api/reservations/availability": func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			f.lastQuery = map[string]string{}
			for k := range r.URL.Query() {
				f.lastQuery[k] = r.URL.Query().Get(k)
			}
			f.mu.Unlock()
			writeJSON(w, 200, `{"success":true,"data":{"available":true,"available_stock":5}}`)
		},
		"POST /api/orders": func(w http.ResponseWriter, r *http.Request) {
			var p OrderPayload
			_ = json.NewDecoder(r.Body).Decode(&p)
			f.mu.Lock()
			f.lastOrder = p
			f.mu.Unlock()
			writeJSON(w, 201, `{"success":true,"data":{"id":"o-1","order_number":"ORD-0001"}}`)
		},
		"GET /api/orders": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, `{"success":true,"data":[{"id":"o-1"}]}`)
		},
		"GET /api/reservations": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, `{"success":true,"data":[{"id":"r-1"},{"id":"r-2"}]}`)
		},
		"DELETE /api/orders/{id}": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, `{"success":true}`)
		},
	}

	mux := http.NewServeMux()
	for pattern, h := range routes {
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			f.calls = append(f.calls, pattern)
			f.accept[pattern] = r.Header.Get("Accept")
			override := f.overrides[pattern]
			f.mu.Unlock()
			if override != nil {
				override(w, r)
				return
			}
			h(w, r)
		})
	}
	return mux
}

func runSuite(t *testing.T, backend *fakeBackend) (*runner.RunResult, *runner.Runner, *Suite, error) {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	s := New(hithttp.NewClient(), WithBaseURL(server.URL+"/"))
	r := runner.NewRunner(&runner.Config{RunID: "test-run"})
	result, err := r.Run(context.Background(), s.Steps())
	return result, r, s, err
}

func TestSuite_HappyPath(t *testing.T) {
	backend := newFakeBackend()
	result, r, s, err := runSuite(t, backend)

	require.NoError(t, err)
	require.Len(t, result.Results, 14)
	for _, sr := range result.Results {
		assert.True(t, sr.Passed, "step %d %s: %s", sr.Number, sr.Name, sr.Details)
	}
	assert.Equal(t, 14, result.Passed)
	assert.True(t, result.Success())

	details := make([]string, len(result.Results))
	for i, sr := range result.Results {
		details[i] = sr.Details
	}
	assert.Equal(t, []string{
		"Status: 200",
		"ID: u-vendor, Email: " + s.Fixture().Vendor.Email,
		"ID: u-customer, Email: " + s.Fixture().Customer.Email,
		"Product ID: p-1, Variants: 2",
		"Found 2 products",
		"Name: Professional Camera Kit",
		"Product updated",
		"Correctly rejected",
		"Available: true, Stock: 5",
		"Order ID: o-1, Number: ORD-0001",
		"Found 1 orders",
		"Found 2 reservations",
		"Order cancelled successfully",
		"Product deleted successfully",
	}, details)

	st := r.Session()
	assert.Equal(t, "vendor-token", st.String(session.VendorToken))
	assert.Equal(t, "u-customer", st.String(session.CustomerID))
	assert.Equal(t, "v-1", st.String(session.VariantID))
	assert.Equal(t, "o-1", st.String(session.OrderID))

	assert.Equal(t, map[string]string{
		"variant_id": "v-1",
		"start_date": s.Fixture().StartDate,
		"end_date":   s.Fixture().EndDate,
		"quantity":   "2",
	}, backend.lastQuery)
	require.Len(t, backend.lastOrder.Items, 1)
	assert.Equal(t, OrderItemPayload{VariantID: "v-1", Quantity: 2, StartDate: s.Fixture().StartDate, EndDate: s.Fixture().EndDate}, backend.lastOrder.Items[0])

	for _, route := range []string{"POST /api/auth/register", "POST /api/orders", "DELETE /api/products/{id}"} {
		assert.Equal(t, "application/json", backend.accept[route], route)
	}
}

func TestSuite_ProductCreationFails(t *testing.T) {
	backend := newFakeBackend()
	backend.overrides["POST /api/products"] = func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer vendor-token" {
			writeJSON(w, 400, `{"success":false,"error":"\"variants[0].sku\" is required"}`)
			return
		}
		writeJSON(w, 403, `{"success":false,"error":"forbidden"}`)
	}

	result, r, _, err := runSuite(t, backend)
	require.NoError(t, err)
	require.Len(t, result.Results, 14)

	byNumber := func(n int) *runner.StepResult { return result.Results[n-1] }

	assert.False(t, byNumber(4).Passed)
	assert.Contains(t, byNumber(4).Details, "is required")

	for _, n := range []int{6, 7, 9, 10, 13, 14} {
		sr := byNumber(n)
		assert.False(t, sr.Passed, "step %d", n)
		assert.True(t, strings.HasPrefix(sr.Details, "prerequisite unavailable"), "step %d: %s", n, sr.Details)
		assert.NotEmpty(t, sr.Unmet)
	}
	assert.Equal(t, "prerequisite unavailable: no product ID available", byNumber(6).Details)
	assert.Equal(t, "prerequisite unavailable: no variant ID available", byNumber(9).Details)
	assert.Equal(t, "prerequisite unavailable: no order ID available", byNumber(13).Details)

	for _, n := range []int{1, 2, 3, 5, 8, 11, 12} {
		assert.True(t, byNumber(n).Passed, "step %d: %s", n, byNumber(n).Details)
	}

	for _, route := range []string{
		"GET /api/products/{id}",
		"PUT /api/products/{id}",
		"DELETE /api/products/{id}",
		"GET /api/reservations/availability",
		"POST /api/orders",
		"DELETE /api/orders/{id}",
	} {
		assert.False(t, backend.called(route), "unexpected call to %s", route)
	}

	assert.False(t, r.Session().Has(session.ProductID))
	assert.Equal(t, 7, result.Passed)
	assert.Equal(t, 7, result.Failed)
	assert.False(t, result.Success())
}

func TestSuite_HealthEndpointDown(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	s := New(hithttp.NewClient(), WithBaseURL(baseURL), WithHealthTimeout(time.Second))
	result, err := runner.NewRunner(nil).Run(context.Background(), s.Steps())

	require.ErrorIs(t, err, runner.ErrAborted)
	assert.True(t, result.Aborted)
	assert.Equal(t, 1, result.AbortedAt)
	require.Len(t, result.Results, 1)
	assert.False(t, result.Results[0].Passed)
	assert.NotEmpty(t, result.Results[0].Details)
}

func TestSuite_HealthUnhealthyContinues(t *testing.T) {
	backend := newFakeBackend()
	backend.overrides["GET /health"] = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 503, `{"status":"DEGRADED"}`)
	}

	result, _, _, err := runSuite(t, backend)

	require.NoError(t, err)
	assert.Len(t, result.Results, 14)
	assert.False(t, result.Results[0].Passed)
	assert.Equal(t, "Status: 503", result.Results[0].Details)
	assert.Equal(t, 13, result.Passed)
}

func TestSuite_RegistrationFailureAborts(t *testing.T) {
	tests := []struct {
		name      string
		role      string
		abortedAt int
	}{
		{"vendor", RoleVendor, 2},
		{"customer", RoleCustomer, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend()
			backend.overrides["POST /api/auth/register"] = func(w http.ResponseWriter, r *http.Request) {
				var p RegisterPayload
				_ = json.NewDecoder(r.Body).Decode(&p)
				if p.Role == tt.role {
					writeJSON(w, 409, `{"success":false,"error":"Email already registered"}`)
					return
				}
				writeJSON(w, 201, `{"data":{"accessToken":"t","user":{"id":"u"}}}`)
			}

			result, _, _, err := runSuite(t, backend)

			require.ErrorIs(t, err, runner.ErrAborted)
			assert.Equal(t, tt.abortedAt, result.AbortedAt)
			assert.Len(t, result.Results, tt.abortedAt)
			assert.Equal(t, `{"success":false,"error":"Email already registered"}`, result.Results[tt.abortedAt-1].Details)
			assert.False(t, backend.called("POST /api/products"))
		})
	}
}

func TestSuite_RBAC(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    bool
	}{
		{
			name: "forbidden",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			},
			want: true,
		},
		{
			name: "error body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, 401, `{"success":false,"error":"Unauthorized"}`)
			},
			want: true,
		},
		{
			name: "null error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, 400, `{"success":false,"error":null}`)
			},
			want: true,
		},
		{
			name: "empty error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, 400, `{"success":false,"error":""}`)
			},
			want: true,
		},
		{
			name: "created with error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, 201, `{"success":true,"error":"ignored","data":{"id":"p-2"}}`)
			},
			want: false,
		},
		{
			name: "created",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, 201, `{"success":true,"data":{"id":"p-2","variants":[{"id":"v-9"}]}}`)
			},
			want: false,
		},
		{
			name: "ok without error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, 200, `{"success":true}`)
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend()
			backend.overrides["POST /api/products"] = func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Authorization") == "Bearer customer-token" {
					tt.handler(w, r)
					return
				}
				writeJSON(w, 201, `{"success":true,"data":{"id":"p-1","variants":[{"id":"v-1"}]}}`)
			}

			result, _, _, err := runSuite(t, backend)
			require.NoError(t, err)

			rbac := result.Results[7]
			assert.Equal(t, "RBAC - Customer Product Creation Blocked", rbac.Name)
			assert.Equal(t, tt.want, rbac.Passed, rbac.Details)
			if !tt.want {
				assert.Contains(t, rbac.Details, "Status: ")
			}
		})
	}
}

func TestSuite_Availability(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		passed  bool
		details string
	}{
		{
			name:    "unavailable",
			body:    `{"success":true,"data":{"available":false,"available_stock":0}}`,
			passed:  true,
			details: "Available: false, Stock: 0",
		},
		{
			name:    "null stock",
			body:    `{"success":true,"data":{"available":true,"available_stock":null}}`,
			passed:  true,
			details: "Available: true, Stock: null",
		},
		{
			name:    "missing stock",
			body:    `{"success":true,"data":{"available":true}}`,
			passed:  false,
			details: `{"success":true,"data":{"available":true}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend()
			backend.overrides["GET /api/reservations/availability"] = func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, 200, tt.body)
			}

			result, _, _, err := runSuite(t, backend)
			require.NoError(t, err)

			availability := result.Results[8]
			assert.Equal(t, tt.passed, availability.Passed)
			assert.Equal(t, tt.details, availability.Details)
		})
	}
}

func TestSuite_OrderFailureSkipsCancel(t *testing.T) {
	backend := newFakeBackend()
	backend.overrides["POST /api/orders"] = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 409, `{"success":false,"error":"Insufficient stock"}`)
	}

	result, _, _, err := runSuite(t, backend)

	require.NoError(t, err)
	assert.False(t, result.Results[9].Passed)
	assert.Equal(t, `{"success":false,"error":"Insufficient stock"}`, result.Results[9].Details)
	assert.Equal(t, "prerequisite unavailable: no order ID available", result.Results[12].Details)
	assert.False(t, backend.called("DELETE /api/orders/{id}"))
	assert.True(t, result.Results[13].Passed)
}

func TestSuite_DeleteFailureReportsStatus(t *testing.T) {
	backend := newFakeBackend()
	backend.overrides["DELETE /api/products/{id}"] = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 409, `{"error":"product has active reservations"}`)
	}

	result, _, _, err := runSuite(t, backend)

	require.NoError(t, err)
	assert.False(t, result.Results[13].Passed)
	assert.Equal(t, "Status: 409", result.Results[13].Details)
}

func TestSuite_NonJSONResponseFailsStep(t *testing.T) {
	backend := newFakeBackend()
	backend.overrides["GET /api/products"] = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<h1>maintenance</h1>"))
	}

	result, _, _, err := runSuite(t, backend)

	require.NoError(t, err)
	assert.False(t, result.Results[4].Passed)
	assert.Equal(t, "<h1>maintenance</h1>", result.Results[4].Details)
}

func TestNewFixture(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	f := NewFixture(now)

	assert.Equal(t, now.Unix(), f.Stamp)
	assert.Equal(t, fmt.Sprintf("vendor_%d@test.com", now.Unix()), f.Vendor.Email)
	assert.Equal(t, fmt.Sprintf("customer_%d@test.com", now.Unix()), f.Customer.Email)
	assert.Equal(t, RoleVendor, f.Vendor.Role)
	assert.Equal(t, RoleCustomer, f.Customer.Role)
	assert.Equal(t, "2026-10-16", f.StartDate)
	assert.Equal(t, "2026-10-18", f.EndDate)
	assert.Equal(t, 2, f.Quantity)
	require.Len(t, f.Product.Variants, 2)
	assert.Equal(t, fmt.Sprintf("CAM-R5-%d", now.Unix()), f.Product.Variants[0].SKU)

	later := NewFixture(now.Add(time.Second))
	assert.NotEqual(t, f.Vendor.Email, later.Vendor.Email)
}

func TestFixture_ProductPayloadJSON(t *testing.T) {
	f := NewFixture(time.Unix(1700000000, 0))
	data, err := json.Marshal(f.Product)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"name": "Professional Camera Kit",
		"description": "High-end DSLR camera with lenses",
		"category": "Electronics",
		"variants": [
			{"name": "Canon EOS R5 Kit", "sku": "CAM-R5-1700000000", "price_per_day": 2000, "stock_quantity": 5},
			{"name": "Sony A7R IV Kit", "sku": "CAM-SONY-1700000000", "price_per_day": 1800, "stock_quantity": 3}
		]
	}`, string(data))
}
