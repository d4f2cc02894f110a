package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordErrorAccumulates(t *testing.T) {
	r := NewTransactionRecord(PlatformSlice, time.Now())
	assert.False(t, r.Error)

	r.RecordError(ErrStoreName)
	r.RecordError(ErrOrderAmount)

	assert.True(t, r.Error)
	assert.Equal(t, []ErrorTag{ErrStoreName, ErrOrderAmount}, r.ErrorReason)
	assert.True(t, r.HasErrorTag(ErrStoreName))
	assert.False(t, r.HasErrorTag(ErrCustomerName))
}

func TestTransactionRecordJSONFieldNames(t *testing.T) {
	r := NewTransactionRecord(PlatformGrubhub, time.Date(2021, 3, 14, 18, 0, 0, 0, time.UTC))
	r.OrderID = "abc123"
	r.StoreName = StoreAroma
	r.StoreBrand = "The Wing Shop"
	r.OrderAmount = 42.5

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "GRUBHUB", m["platform"])
	assert.Equal(t, "abc123", m["orderId"])
	assert.Equal(t, "AROMA", m["storeName"])
	assert.Equal(t, "The Wing Shop", m["storeVRName"])
	assert.Equal(t, 42.5, m["orderAmount"])
	// Absent nullable fields stay out of the payload entirely.
	assert.NotContains(t, m, "customerName")
	assert.NotContains(t, m, "mail")
}

func TestExtendDates(t *testing.T) {
	c := NewCustomerRecord(StoreAmeci, 9495551234)

	mid := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	early := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2021, 12, 1, 0, 0, 0, 0, time.UTC)

	c.ExtendDates(mid)
	assert.Equal(t, mid, c.FirstOrderDate)
	assert.Equal(t, mid, c.LastOrderDate)

	c.ExtendDates(late)
	c.ExtendDates(early)
	assert.Equal(t, early, c.FirstOrderDate)
	assert.Equal(t, late, c.LastOrderDate)

	// The zero time must not clobber an established range.
	c.ExtendDates(time.Time{})
	assert.Equal(t, early, c.FirstOrderDate)
	assert.Equal(t, late, c.LastOrderDate)
}

func TestVirtualBrandsAliasToAroma(t *testing.T) {
	for _, brand := range []string{"Trattoria Contadina", "The Wing Shop", "The Wing Stop"} {
		assert.Equal(t, StoreAroma, VirtualBrands[brand], brand)
	}
}
