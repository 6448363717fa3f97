// Package session holds the values carried from one step to the next.
//
// Every value is an explicit optional: a step that creates a resource sets
// it, dependents check for it, and a failed step leaves it unset.
package session

// Key names a value in the session.
type Key string

const (
	VendorToken   Key = "vendor_token"
	VendorID      Key = "vendor_id"
	CustomerToken Key = "customer_token"
	CustomerID    Key = "customer_id"
	ProductID     Key = "product_id"
	VariantID     Key = "variant_id"
	OrderID       Key = "order_id"
)

// Label is the human form of the key used in prerequisite messages.
func (k Key) Label() string {
	switch k {
	case VendorToken:
		return "vendor token"
	case VendorID:
		return "vendor ID"
	case CustomerToken:
		return "customer token"
	case CustomerID:
		return "customer ID"
	case ProductID:
		return "product ID"
	case VariantID:
		return "variant ID"
	case OrderID:
		return "order ID"
	default:
		return string(k)
	}
}

// Value is an optional string.
type Value struct {
	v   string
	set bool
}

func Some(v string) Value {
	return Value{v: v, set: true}
}

func (v Value) Get() (string, bool) {
	return v.v, v.set
}

func (v Value) IsSet() bool {
	return v.set
}

// Outputs are the values a step hands back to the session.
type Outputs map[Key]string

// Session is the mutable state of one run. It is owned by the runner and
// never shared between goroutines.
type Session struct {
	values map[Key]Value
}

func New() *Session {
	return &Session{values: make(map[Key]Value)}
}

func (s *Session) Set(key Key, value string) {
	s.values[key] = Some(value)
}

// Get returns the value and whether it is set.
func (s *Session) Get(key Key) (string, bool) {
	return s.values[key].Get()
}

// String returns the value or "" when unset.
func (s *Session) String(key Key) string {
	v, _ := s.Get(key)
	return v
}

func (s *Session) Has(key Key) bool {
	return s.values[key].IsSet()
}

// Missing returns the keys from required that are unset, in the given order.
func (s *Session) Missing(required ...Key) []Key {
	var missing []Key
	for _, k := range required {
		if !s.Has(k) {
			missing = append(missing, k)
		}
	}
	return missing
}

// Apply copies every output into the session.
func (s *Session) Apply(out Outputs) {
	for k, v := range out {
		s.Set(k, v)
	}
}

// Snapshot returns a copy that steps can read without affecting the run.
func (s *Session) Snapshot() *Session {
	cp := New()
	for k, v := range s.values {
		cp.values[k] = v
	}
	return cp
}
