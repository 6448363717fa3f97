package suite

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/rentalsmoke/packages/core/runner"
	"github.com/abdul-hamid-achik/rentalsmoke/packages/core/session"
	"github.com/abdul-hamid-achik/rentalsmoke/packages/http"
)

const (
	// DefaultBaseURL is where the backend listens in local development
	DefaultBaseURL = "http://localhost:5000"
	// DefaultHealthTimeout bounds the liveness probe
	DefaultHealthTimeout = 5 * time.Second
)

type Suite struct {
	client        *http.Client
	baseURL       string
	healthTimeout time.Duration
	fixture       Fixture
}

type Option func(*Suite)

func WithBaseURL(baseURL string) Option {
	return func(s *Suite) {
		s.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func WithHealthTimeout(d time.Duration) Option {
	return func(s *Suite) {
		s.healthTimeout = d
	}
}

// WithFixture replaces the generated run data.
func WithFixture(f Fixture) Option {
	return func(s *Suite) {
		s.fixture = f
	}
}

// New builds the suite. The fixture is generated from the current time
// unless WithFixture is given.
func New(client *http.Client, opts ...Option) *Suite {
	if client == nil {
		client = http.NewClient()
	}
	s := &Suite{
		client:        client,
		baseURL:       DefaultBaseURL,
		healthTimeout: DefaultHealthTimeout,
		fixture:       NewFixture(time.Now()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Suite) BaseURL() string {
	return s.baseURL
}

func (s *Suite) Fixture() Fixture {
	return s.fixture
}

// Steps returns the suite in execution order.
func (s *Suite) Steps() []runner.Step {
	return []runner.Step{
		{
			Name:  "Backend Health Check",
			Abort: runner.AbortOnError,
			Run:   s.healthCheck,
		},
		{
			Name:  "Vendor Registration",
			Abort: runner.AbortOnFailure,
			Run:   s.register(s.fixture.Vendor, session.VendorToken, session.VendorID),
		},
		{
			Name:  "Customer Registration",
			Abort: runner.AbortOnFailure,
			Run:   s.register(s.fixture.Customer, session.CustomerToken, session.CustomerID),
		},
		{
			Name:     "Create Product as Vendor",
			Requires: []session.Key{session.VendorToken},
			Run:      s.createProduct,
		},
		{
			Name: "Get All Products",
			Run:  s.listProducts,
		},
		{
			Name:     "Get Product by ID",
			Requires: []session.Key{session.ProductID},
			Run:      s.getProduct,
		},
		{
			Name:     "Update Product",
			Requires: []session.Key{session.ProductID, session.VendorToken},
			Run:      s.updateProduct,
		},
		{
			Name:     "RBAC - Customer Product Creation Blocked",
			Requires: []session.Key{session.CustomerToken},
			Run:      s.customerCannotCreateProduct,
		},
		{
			Name:     "Check Reservation Availability",
			Requires: []session.Key{session.VariantID},
			Run:      s.checkAvailability,
		},
		{
			Name:     "Create Order with Reservations",
			Requires: []session.Key{session.VariantID, session.CustomerToken},
			Run:      s.createOrder,
		},
		{
			Name:     "Get Customer Orders",
			Requires: []session.Key{session.CustomerToken},
			Run:      s.listCollection("/orders", "orders"),
		},
		{
			Name:     "Get Customer Reservations",
			Requires: []session.Key{session.CustomerToken},
			Run:      s.listCollection("/reservations", "reservations"),
		},
		{
			Name:     "Cancel Order",
			Requires: []session.Key{session.OrderID, session.CustomerToken},
			Run:      s.cancelOrder,
		},
		{
			Name:     "Delete Product",
			Requires: []session.Key{session.ProductID, session.VendorToken},
			Run:      s.deleteProduct,
		},
	}
}

func (s *Suite) api(path string, segments ...string) string {
	u := s.baseURL + "/api" + path
	for _, seg := range segments {
		u += "/" + url.PathEscape(seg)
	}
	return u
}

func (s *Suite) send(ctx context.Context, method, target, token string, body any) (*http.Response, error) {
	req := http.NewRequest(method, target).
		SetHeader("Accept", "application/json").
		SetBearer(token)
	if body != nil {
		if _, err := req.SetJSON(body); err != nil {
			return nil, err
		}
	}
	return s.client.Do(ctx, req)
}
