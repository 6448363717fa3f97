package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSession_SetAndGet(t *testing.T) {
	s := New()

	_, ok := s.Get(ProductID)
	assert.False(t, ok)
	assert.Equal(t, "", s.String(ProductID))

	s.Set(ProductID, "p-1")
	v, ok := s.Get(ProductID)
	assert.True(t, ok)
	assert.Equal(t, "p-1", v)
	assert.True(t, s.Has(ProductID))
}

func TestSession_Missing(t *testing.T) {
	s := New()
	s.Set(VendorToken, "tok")

	assert.Empty(t, s.Missing(VendorToken))
	assert.Equal(t, []Key{ProductID, VariantID}, s.Missing(ProductID, VendorToken, VariantID))
}

func TestSession_ApplyAndSnapshot(t *testing.T) {
	s := New()
	s.Apply(Outputs{CustomerToken: "c", CustomerID: "7"})

	snap := s.Snapshot()
	snap.Set(OrderID, "o-1")

	assert.False(t, s.Has(OrderID))
	assert.True(t, snap.Has(CustomerToken))
	assert.Equal(t, "7", s.String(CustomerID))
	assert.Empty(t, s.Missing(CustomerID, CustomerToken))
}

func TestValue(t *testing.T) {
	v, ok := Value{}.Get()
	assert.False(t, ok)
	assert.Equal(t, "", v)

	v, ok = Some("").Get()
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

func TestKey_Label(t *testing.T) {
	assert.Equal(t, "product ID", ProductID.Label())
	assert.Equal(t, "order ID", OrderID.Label())
	assert.Equal(t, "custom", Key("custom").Label())
}
