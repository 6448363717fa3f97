package suite

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the calendar date format the reservation API expects
	DateLayout = "2006-01-02"

	testPassword = "SecurePass123!"

	RoleVendor   = "VENDOR"
	RoleCustomer = "CUSTOMER"
)

type RegisterPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

type VariantPayload struct {
	Name          string `json:"name"`
	SKU           string `json:"sku"`
	PricePerDay   int    `json:"price_per_day"`
	StockQuantity int    `json:"stock_quantity"`
}

type ProductPayload struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Variants    []VariantPayload `json:"variants"`
}

type ProductUpdatePayload struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

type OrderItemPayload struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type OrderPayload struct {
	Items []OrderItemPayload `json:"items"`
}

// Fixture is the data one run sends. It is derived from the run's start
// time and does not change while the run is in progress.
type Fixture struct {
	Stamp     int64
	Vendor    RegisterPayload
	Customer  RegisterPayload
	Product   ProductPayload
	Update    ProductUpdatePayload
	Quantity  int
	StartDate string
	EndDate   string
}

// NewFixture builds the run data for the given instant.
func NewFixture(now time.Time) Fixture {
	stamp := now.Unix()
	return Fixture{
		Stamp: stamp,
		Vendor: RegisterPayload{
			Name:     "Test Vendor",
			Email:    fmt.Sprintf("vendor_%d@test.com", stamp),
			Password: testPassword,
			Phone:    "+919876543210",
			Role:     RoleVendor,
		},
		Customer: RegisterPayload{
			Name:     "Test Customer",
			Email:    fmt.Sprintf("customer_%d@test.com", stamp),
			Password: testPassword,
			Phone:    "+919876543211",
			Role:     RoleCustomer,
		},
		Product: ProductPayload{
			Name:        "Professional Camera Kit",
			Description: "High-end DSLR camera with lenses",
			Category:    "Electronics",
			Variants: []VariantPayload{
				{
					Name:          "Canon EOS R5 Kit",
					SKU:           fmt.Sprintf("CAM-R5-%d", stamp),
					PricePerDay:   2000,
					StockQuantity: 5,
				},
				{
					Name:          "Sony A7R IV Kit",
					SKU:           fmt.Sprintf("CAM-SONY-%d", stamp),
					PricePerDay:   1800,
					StockQuantity: 3,
				},
			},
		},
		Update: ProductUpdatePayload{
			Name:        "Professional Camera Kit - UPDATED",
			Description: "Updated description",
		},
		Quantity:  2,
		StartDate: now.AddDate(0, 0, 1).Format(DateLayout),
		EndDate:   now.AddDate(0, 0, 3).Format(DateLayout),
	}
}
